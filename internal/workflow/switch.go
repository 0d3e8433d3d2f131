package workflow

import (
	"context"
	"fmt"
	"log"

	"scenevox/internal/gemini"
)

// SwitchKind regenerates the prompt for the selected image under the other
// prompt kind. Rejected while a switch is in flight or when the target kind
// is already showing. On success the prompt record is replaced atomically:
// translation drops, cached audio and the previous voice shortlist are
// invalidated, and the recommendation hook re-runs for the new text. On
// failure the pre-switch record is kept intact and an inline message is set;
// the kind and text are never left describing different variants.
func (c *Controller) SwitchKind(ctx context.Context, target PromptKind) error {
	if target != KindVoice && target != KindSoundscape {
		return fmt.Errorf("unknown prompt kind %q", target)
	}

	c.mu.Lock()
	if c.state != StateShowingResult {
		c.mu.Unlock()
		return fmt.Errorf("%w: switch from %s", ErrInvalidTransition, c.state)
	}
	if c.selected == nil {
		// Invariant violation: a result is showing with no source image.
		c.resetLocked()
		c.mu.Unlock()
		return fmt.Errorf("%w: no selected image", ErrInvalidTransition)
	}
	if target == c.prompt.Kind {
		c.mu.Unlock()
		return nil
	}
	if err := c.tryAcquire(opSwitch); err != nil {
		c.mu.Unlock()
		return err
	}
	img := *c.selected
	gen := c.generation
	delete(c.inlineErrs, opSwitch)
	c.mu.Unlock()
	defer c.release(opSwitch)

	text, err := c.describe(ctx, img, target)
	var applied bool
	c.apply(gen, func() {
		if err != nil {
			c.inlineErrs[opSwitch] = gemini.Message(gemini.Classify(err))
			log.Printf("Prompt switch to %s failed, keeping %s prompt: %v", target, c.prompt.Kind, err)
			return
		}
		c.prompt = PromptRecord{Kind: target, Text: text}
		c.recommended = nil
		if c.player != nil {
			c.player.Invalidate()
		}
		applied = true
		log.Printf("Prompt switched to %s", target)
	})

	if applied {
		c.recommendVoices(ctx, gen, text)
	}
	return nil
}
