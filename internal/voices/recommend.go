package voices

import (
	"context"
	"log"
	"strings"
)

const maxRecommendations = 3

// RecommendFunc asks the generation service which catalog voices suit a
// prompt. It returns a comma-separated list of voice IDs.
type RecommendFunc func(ctx context.Context, promptText string) (string, error)

// femaleMarkers are prompt tokens that steer the offline fallback toward the
// female voice group.
var femaleMarkers = []string{
	"woman", "female", "girl", "lady", "she ", "her ", "feminine",
	"mother", "grandmother", "queen", "princess", "goddess",
}

// maleDefault is the fallback shortlist when no female marker is present.
var maleDefault = []string{"Puck", "Zephyr", "Charon"}

// Recommend returns an ordered shortlist of 1-3 catalog voice IDs for the
// prompt. The service's relative order is preserved; identifiers outside the
// catalog are dropped. When the service fails or returns nothing usable, a
// deterministic fallback keyed on gender markers in the prompt is used, so the
// result is never empty.
func Recommend(ctx context.Context, promptText string, fn RecommendFunc) []string {
	if fn != nil {
		raw, err := fn(ctx, promptText)
		if err == nil {
			if ids := ParseList(raw); len(ids) > 0 {
				return ids
			}
		} else {
			log.Printf("Voice recommendation failed, using fallback: %v", err)
		}
	}
	return Fallback(promptText)
}

// ParseList extracts catalog voice IDs from a comma-separated service
// response, preserving order and capping at three entries.
func ParseList(raw string) []string {
	var ids []string
	for _, field := range strings.Split(raw, ",") {
		name := strings.TrimSpace(field)
		if name == "" {
			continue
		}
		v, ok := lookupFold(name)
		if !ok {
			continue
		}
		ids = append(ids, v.ID)
		if len(ids) == maxRecommendations {
			break
		}
	}
	return ids
}

// Fallback picks voices without the service: prompts with a female marker get
// the single female voice, everything else the fixed male shortlist.
func Fallback(promptText string) []string {
	lower := strings.ToLower(promptText)
	for _, marker := range femaleMarkers {
		if strings.Contains(lower, marker) {
			return []string{"Kore"}
		}
	}
	out := make([]string, len(maleDefault))
	copy(out, maleDefault)
	return out
}

func lookupFold(name string) (Voice, bool) {
	for _, v := range Catalog {
		if strings.EqualFold(v.ID, name) {
			return v, true
		}
	}
	return Voice{}, false
}
