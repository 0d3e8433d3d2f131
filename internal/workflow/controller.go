// Package workflow holds the session state machine driving the scene
// pipeline: describe, generate images, pick one, analyze it into an
// audio-descriptive prompt, then optionally translate, recommend voices, and
// synthesize speech. All session data lives here and is discarded on reset.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"scenevox/internal/gemini"
	"scenevox/internal/playback"
	"scenevox/internal/voices"
)

var (
	// ErrEmptyDescription rejects a description submit with no content.
	ErrEmptyDescription = errors.New("description must not be empty")
	// ErrUnreadableUpload rejects an upload whose bytes could not be read.
	ErrUnreadableUpload = errors.New("uploaded file is not readable")
	// ErrInvalidTransition rejects a trigger the current state does not allow.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	// ErrBusy rejects a re-entrant trigger while the same operation is in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrNoSuchImage rejects a selection index outside the candidate set.
	ErrNoSuchImage = errors.New("no such candidate image")
	// ErrUnknownVoice rejects a voice ID outside the catalog.
	ErrUnknownVoice = errors.New("voice is not in the catalog")
)

// Service is the generation backend the workflow drives. Implemented by
// gemini.Client.
type Service interface {
	GenerateImages(ctx context.Context, prompt string) ([]gemini.ImageInfo, error)
	VoicePrompt(ctx context.Context, img gemini.ImageInfo) (string, error)
	SoundscapePrompt(ctx context.Context, img gemini.ImageInfo) (string, error)
	Translate(ctx context.Context, text string) (string, error)
	SynthesizeSpeech(ctx context.Context, text, voice string) (string, error)
	RecommendVoices(ctx context.Context, promptText string) (string, error)
}

// Controller owns the workflow state and every piece of session data. All
// mutation happens under its lock; service calls run outside it and re-check
// the session generation before applying results, so responses that outlive a
// reset are discarded instead of mutating the next session.
type Controller struct {
	svc    Service
	player *playback.Controller

	mu          sync.Mutex
	state       State
	generation  uuid.UUID
	busy        map[op]bool
	description string
	images      []gemini.ImageInfo
	selected    *gemini.ImageInfo
	prompt      PromptRecord
	recommended []string
	voice       string
	fatalMsg    string            // set when state == StateError
	inlineErrs  map[op]string     // feature-scoped messages in showing_result
}

// NewController creates an idle workflow controller.
func NewController(svc Service, player *playback.Controller) *Controller {
	return &Controller{
		svc:        svc,
		player:     player,
		state:      StateIdle,
		generation: uuid.New(),
		busy:       make(map[op]bool),
		inlineErrs: make(map[op]string),
	}
}

// --- guards ---

// tryAcquire takes the in-flight flag for one operation. Independent per
// operation: translation may run while speech plays, but a second translation
// is rejected until the first resolves.
func (c *Controller) tryAcquire(o op) error {
	if c.busy[o] {
		return fmt.Errorf("%w: %s", ErrBusy, o)
	}
	c.busy[o] = true
	return nil
}

func (c *Controller) release(o op) {
	c.mu.Lock()
	c.busy[o] = false
	c.mu.Unlock()
}

// apply runs fn under the lock only while gen still names the live session.
// Responses from a superseded session are logged and dropped.
func (c *Controller) apply(gen uuid.UUID, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		log.Printf("Discarding stale response for session %s", gen)
		return false
	}
	fn()
	return true
}

// --- transitions ---

// SubmitDescription starts image generation for a scene description.
// Legal only from idle; the description is remembered for regeneration.
func (c *Controller) SubmitDescription(ctx context.Context, description string) error {
	c.mu.Lock()
	if description == "" {
		c.mu.Unlock()
		return ErrEmptyDescription
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", ErrInvalidTransition, c.state)
	}
	if err := c.tryAcquire(opGenerate); err != nil {
		c.mu.Unlock()
		return err
	}
	c.description = description
	c.state = StateGeneratingImage
	gen := c.generation
	c.mu.Unlock()
	defer c.release(opGenerate)

	c.generateImages(ctx, gen, description)
	return nil
}

// RegenerateImages re-runs generation with the remembered description while
// candidates are on screen.
func (c *Controller) RegenerateImages(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateSelectingImage {
		c.mu.Unlock()
		return fmt.Errorf("%w: regenerate from %s", ErrInvalidTransition, c.state)
	}
	if c.description == "" {
		c.mu.Unlock()
		return ErrEmptyDescription
	}
	if err := c.tryAcquire(opGenerate); err != nil {
		c.mu.Unlock()
		return err
	}
	description := c.description
	c.images = nil
	c.state = StateGeneratingImage
	gen := c.generation
	c.mu.Unlock()
	defer c.release(opGenerate)

	c.generateImages(ctx, gen, description)
	return nil
}

func (c *Controller) generateImages(ctx context.Context, gen uuid.UUID, description string) {
	images, err := c.svc.GenerateImages(ctx, description)
	c.apply(gen, func() {
		if err != nil || len(images) == 0 {
			if err == nil {
				err = gemini.ErrNoCandidates
			}
			c.failLocked(err)
			return
		}
		c.images = images
		c.state = StateSelectingImage
		log.Printf("Generated %d candidate images", len(images))
	})
}

// SelectImage picks one candidate and starts analysis. The candidate set is
// discarded once a member is selected.
func (c *Controller) SelectImage(ctx context.Context, index int) error {
	c.mu.Lock()
	if c.state != StateSelectingImage {
		c.mu.Unlock()
		return fmt.Errorf("%w: select from %s", ErrInvalidTransition, c.state)
	}
	if index < 0 || index >= len(c.images) {
		c.mu.Unlock()
		return ErrNoSuchImage
	}
	if err := c.tryAcquire(opAnalyze); err != nil {
		c.mu.Unlock()
		return err
	}
	img := c.images[index]
	c.selected = &img
	c.images = nil
	c.state = StateAnalyzingImage
	gen := c.generation
	c.mu.Unlock()
	defer c.release(opAnalyze)

	c.analyze(ctx, gen, img, KindVoice)
	return nil
}

// UploadImage skips generation and analyzes a user-provided image directly.
// Legal only from idle.
func (c *Controller) UploadImage(ctx context.Context, data []byte, mimeType string) error {
	c.mu.Lock()
	if len(data) == 0 {
		c.mu.Unlock()
		return ErrUnreadableUpload
	}
	if c.state != StateIdle {
		c.mu.Unlock()
		return fmt.Errorf("%w: upload from %s", ErrInvalidTransition, c.state)
	}
	if err := c.tryAcquire(opAnalyze); err != nil {
		c.mu.Unlock()
		return err
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	img := gemini.ImageInfo{Bytes: data, MIMEType: mimeType}
	c.selected = &img
	c.state = StateAnalyzingImage
	gen := c.generation
	c.mu.Unlock()
	defer c.release(opAnalyze)

	c.analyze(ctx, gen, img, KindVoice)
	return nil
}

// analyze produces the first prompt for an image and, on success, runs the
// post-transition voice recommendation hook.
func (c *Controller) analyze(ctx context.Context, gen uuid.UUID, img gemini.ImageInfo, kind PromptKind) {
	text, err := c.describe(ctx, img, kind)
	ok := c.apply(gen, func() {
		if err != nil {
			c.failLocked(err)
			return
		}
		c.prompt = PromptRecord{Kind: kind, Text: text}
		c.state = StateShowingResult
		log.Printf("Analysis complete: kind=%s", kind)
	})
	if ok && err == nil {
		c.recommendVoices(ctx, gen, text)
	}
}

func (c *Controller) describe(ctx context.Context, img gemini.ImageInfo, kind PromptKind) (string, error) {
	if kind == KindSoundscape {
		return c.svc.SoundscapePrompt(ctx, img)
	}
	return c.svc.VoicePrompt(ctx, img)
}

// recommendVoices is the explicit hook run after a new prompt appears. Its
// failures never surface; the deterministic fallback always yields a shortlist.
func (c *Controller) recommendVoices(ctx context.Context, gen uuid.UUID, promptText string) {
	c.mu.Lock()
	if err := c.tryAcquire(opRecommend); err != nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	defer c.release(opRecommend)

	ids := voices.Recommend(ctx, promptText, c.svc.RecommendVoices)
	c.apply(gen, func() {
		c.recommended = ids
		if c.voice == "" || !contains(ids, c.voice) {
			c.voice = ids[0]
		}
	})
}

// failLocked drives the session to the terminal error state. Caller holds the lock.
func (c *Controller) failLocked(err error) {
	kind := gemini.Classify(err)
	c.fatalMsg = gemini.Message(kind)
	c.state = StateError
	log.Printf("Session failed (%s): %v", kind, err)
}

// Reset returns to idle from any state and clears all session data, including
// the playback cache and any live playback.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.generation = uuid.New()
	c.state = StateIdle
	c.description = ""
	c.images = nil
	c.selected = nil
	c.prompt = PromptRecord{}
	c.recommended = nil
	c.voice = ""
	c.fatalMsg = ""
	c.inlineErrs = make(map[op]string)
	c.busy = make(map[op]bool)
	if c.player != nil {
		c.player.Invalidate()
	}
	log.Println("Session reset")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
