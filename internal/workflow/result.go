package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"scenevox/internal/audio"
	"scenevox/internal/gemini"
	"scenevox/internal/playback"
	"scenevox/internal/voices"
)

// Operations below are only legal while a result is showing. Their failures
// are local: they set a feature-scoped inline message and leave the workflow
// in showing_result.

// Translate renders the current prompt text into the configured target
// language. The translation is dropped whenever the prompt text changes.
func (c *Controller) Translate(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateShowingResult {
		c.mu.Unlock()
		return fmt.Errorf("%w: translate from %s", ErrInvalidTransition, c.state)
	}
	if err := c.tryAcquire(opTranslate); err != nil {
		c.mu.Unlock()
		return err
	}
	text := c.prompt.Text
	gen := c.generation
	delete(c.inlineErrs, opTranslate)
	c.mu.Unlock()
	defer c.release(opTranslate)

	translated, err := c.svc.Translate(ctx, text)
	c.apply(gen, func() {
		if err != nil {
			c.inlineErrs[opTranslate] = gemini.Message(gemini.Classify(err))
			log.Printf("Translation failed: %v", err)
			return
		}
		if c.prompt.Text == text {
			c.prompt.Translated = translated
		}
	})
	return nil
}

// SelectVoice changes the synthesis voice. Cached audio for the previous
// voice is invalidated.
func (c *Controller) SelectVoice(id string) error {
	if _, ok := voices.Lookup(id); !ok {
		return ErrUnknownVoice
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateShowingResult {
		return fmt.Errorf("%w: select voice from %s", ErrInvalidTransition, c.state)
	}
	if c.voice != id {
		c.voice = id
		if c.player != nil {
			c.player.Invalidate()
		}
	}
	return nil
}

// ToggleSpeech stops live playback, or synthesizes (cache permitting) and
// plays the current prompt with the selected voice.
func (c *Controller) ToggleSpeech(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateShowingResult {
		c.mu.Unlock()
		return fmt.Errorf("%w: speak from %s", ErrInvalidTransition, c.state)
	}
	if c.player == nil {
		c.mu.Unlock()
		return playback.ErrPlaybackUnavailable
	}
	if c.player.Playing() {
		c.mu.Unlock()
		// Stop, not Toggle: playback may end naturally between the check and
		// the request, and a late stop must stay a successful no-op.
		c.player.Stop()
		return nil
	}
	if err := c.tryAcquire(opSpeak); err != nil {
		c.mu.Unlock()
		return err
	}
	text := c.prompt.Text
	voice := c.voice
	gen := c.generation
	delete(c.inlineErrs, opSpeak)
	c.mu.Unlock()
	defer c.release(opSpeak)

	asset := c.player.Cached(text, voice)
	if asset == nil {
		var err error
		asset, err = c.synthesize(ctx, text, voice)
		if err != nil {
			c.apply(gen, func() {
				c.inlineErrs[opSpeak] = speakErrorMessage(err)
			})
			return err
		}
	}

	var toggleErr error
	c.apply(gen, func() {
		c.player.Store(asset)
		toggleErr = c.player.Toggle(asset)
		if toggleErr != nil {
			c.inlineErrs[opSpeak] = speakErrorMessage(toggleErr)
		}
	})
	return toggleErr
}

func (c *Controller) synthesize(ctx context.Context, text, voice string) (*audio.Asset, error) {
	payload, err := c.svc.SynthesizeSpeech(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	pcm, err := audio.DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return &audio.Asset{
		PCM16:      pcm,
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
		Voice:      voice,
		SourceText: text,
	}, nil
}

func speakErrorMessage(err error) string {
	switch {
	case errors.Is(err, audio.ErrMalformedPayload):
		return "The synthesized audio payload was malformed."
	case errors.Is(err, playback.ErrPlaybackUnavailable):
		return "Audio playback is unavailable."
	default:
		return gemini.Message(gemini.Classify(err))
	}
}

// WAVExport returns the cached asset for the current prompt and voice wrapped
// in a WAV container, for user download. ok is false when nothing is cached.
func (c *Controller) WAVExport() (data []byte, ok bool) {
	c.mu.Lock()
	text := c.prompt.Text
	voice := c.voice
	state := c.state
	c.mu.Unlock()
	if state != StateShowingResult || c.player == nil {
		return nil, false
	}
	asset := c.player.Cached(text, voice)
	if asset == nil {
		return nil, false
	}
	return audio.BuildWAV(asset.PCM16, asset.Channels, asset.SampleRate, audio.BitDepth), true
}
