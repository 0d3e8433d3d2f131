// Package gemini wraps the Google GenAI API as the generation service behind
// the scene workflow: candidate images, audio-descriptive prompts,
// translation, voice recommendation, and speech synthesis.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"scenevox/internal/voices"
)

// ImageInfo is one image held for the life of a session, either generated by
// a model or read from an upload. Immutable once created.
type ImageInfo struct {
	Bytes    []byte
	MIMEType string
}

// ErrNoCandidates is returned when the API answers without usable content.
var ErrNoCandidates = errors.New("no candidates in response")

// Config selects the models used for each operation.
type Config struct {
	APIKey            string
	ImageModel        string // text-to-image
	TextModel         string // vision prompts, translation, voice picks
	TTSModel          string // speech synthesis
	TranslateLanguage string
	CandidateImages   int
}

// Client calls the GenAI API for every generation-service operation.
type Client struct {
	client *genai.Client
	cfg    Config
}

// NewClient builds a GenAI-backed client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{client: c, cfg: cfg}, nil
}

// GenerateImages produces candidate images for a scene description.
func (c *Client) GenerateImages(ctx context.Context, prompt string) ([]ImageInfo, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.cfg.ImageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: int32(c.cfg.CandidateImages),
	})
	if err != nil {
		return nil, fmt.Errorf("generate images: %w", err)
	}

	var images []ImageInfo
	for _, g := range resp.GeneratedImages {
		if g.Image == nil || len(g.Image.ImageBytes) == 0 {
			continue
		}
		mime := g.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		images = append(images, ImageInfo{Bytes: g.Image.ImageBytes, MIMEType: mime})
	}
	if len(images) == 0 {
		return nil, ErrNoCandidates
	}
	return images, nil
}

// VoicePrompt writes a narration script describing the image, suitable for a
// single synthetic voice to read aloud.
func (c *Client) VoicePrompt(ctx context.Context, img ImageInfo) (string, error) {
	return c.describeImage(ctx, img, voicePromptInstruction)
}

// SoundscapePrompt writes an ambient sound-design brief for the image.
func (c *Client) SoundscapePrompt(ctx context.Context, img ImageInfo) (string, error) {
	return c.describeImage(ctx, img, soundscapePromptInstruction)
}

func (c *Client) describeImage(ctx context.Context, img ImageInfo, instruction string) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: instruction},
			{InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Bytes}},
		},
	}}
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}
	return firstText(resp)
}

// Translate renders the prompt text into the configured target language.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	instruction := fmt.Sprintf(translateInstructionFormat, c.cfg.TranslateLanguage, text)
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: instruction}},
	}}, nil)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return firstText(resp)
}

// RecommendVoices asks the model to shortlist catalog voices for a prompt.
// The raw comma-separated response is returned; the voices package parses it.
func (c *Client) RecommendVoices(ctx context.Context, promptText string) (string, error) {
	instruction := fmt.Sprintf(recommendInstructionFormat, catalogSummary(), promptText)
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TextModel, []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: instruction}},
	}}, nil)
	if err != nil {
		return "", fmt.Errorf("recommend voices: %w", err)
	}
	return firstText(resp)
}

// SynthesizeSpeech reads the text with the given prebuilt voice and returns
// base64-encoded 16-bit mono PCM at 24kHz.
func (c *Client) SynthesizeSpeech(ctx context.Context, text, voice string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.TTSModel, []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}}, cfg)
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return base64.StdEncoding.EncodeToString(p.InlineData.Data), nil
		}
	}
	return "", ErrNoCandidates
}

// firstText concatenates the text parts of the first candidate.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrNoCandidates
	}
	return text, nil
}

func catalogSummary() string {
	var sb strings.Builder
	for i, v := range voices.Catalog {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s (%s: %s)", v.ID, v.Gender, v.Style)
	}
	return sb.String()
}
