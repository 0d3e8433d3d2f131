package gemini

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

// --- Response parsing ---

func TestFirstText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: ErrNoCandidates,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: ErrNoCandidates,
		},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			wantErr: ErrNoCandidates,
		},
		{
			name: "whitespace only",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "  \n "}}},
				}},
			},
			wantErr: ErrNoCandidates,
		},
		{
			name: "single part trimmed",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "  a harbor at dusk\n"}}},
				}},
			},
			want: "a harbor at dusk",
		},
		{
			name: "multiple parts concatenated",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{
						{Text: "slow surf "},
						{Text: "on shingle"},
					}},
				}},
			},
			want: "slow surf on shingle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstText(tt.resp)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("firstText error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("firstText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogSummary(t *testing.T) {
	s := catalogSummary()
	for _, id := range []string{"Kore", "Puck", "Zephyr", "Charon", "Fenrir"} {
		if !strings.Contains(s, id) {
			t.Errorf("catalog summary missing %q: %s", id, s)
		}
	}
	if !strings.Contains(s, "female") {
		t.Errorf("catalog summary missing gender info: %s", s)
	}
}
