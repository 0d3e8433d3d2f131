// Package playback owns the single live audio-output session. At most one
// clip plays at any instant; toggling while playing stops the clip instead of
// restarting it.
package playback

import (
	"errors"
	"log"
	"sync"
	"time"

	"scenevox/internal/audio"
)

var (
	// ErrPlaybackUnavailable is returned when the audio output cannot be acquired.
	ErrPlaybackUnavailable = errors.New("audio output unavailable")
	// ErrEmptyAsset is returned when an asset holds no PCM data.
	ErrEmptyAsset = errors.New("asset holds no audio data")
)

// Output is the process-wide audio sink fed with 20ms PCM frames.
// Implemented by stream.Broadcaster.
type Output interface {
	WriteFrame(frame []int16)
}

// OutputFactory acquires the output on first use. A failed attempt is retried
// on the next Toggle; once acquired, the output is kept for the controller
// lifetime and only this controller may release it.
type OutputFactory func() (Output, error)

type session struct {
	stop chan struct{}
	once sync.Once
}

func (s *session) signalStop() {
	s.once.Do(func() { close(s.stop) })
}

// Controller drives playback of one asset at a time through the shared output.
type Controller struct {
	acquire OutputFactory

	mu      sync.Mutex
	output  Output
	current *session
	cached  *audio.Asset
}

// NewController creates a playback controller. The output is not acquired
// until the first Toggle.
func NewController(acquire OutputFactory) *Controller {
	return &Controller{acquire: acquire}
}

// Playing reports whether a session is live.
func (c *Controller) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil
}

// Stop ends the live session if one exists. Stopping an idle controller is a
// no-op, so a stop request that races a natural end never fails.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.current != nil {
		c.current.signalStop()
		c.current = nil
		log.Println("Playback stopped")
	}
}

// Toggle stops the live session if one exists; this is a stop request, not a
// restart. Otherwise it starts playing the asset and returns immediately,
// with frames paced into the output at real-time rate until end of stream or
// the next Toggle.
func (c *Controller) Toggle(asset *audio.Asset) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil {
		c.stopLocked()
		return nil
	}

	if asset == nil || len(asset.PCM16) == 0 {
		return ErrEmptyAsset
	}

	if c.output == nil {
		out, err := c.acquire()
		if err != nil || out == nil {
			return ErrPlaybackUnavailable
		}
		c.output = out
	}

	s := &session{stop: make(chan struct{})}
	c.current = s
	go c.playLoop(s, c.output, audio.BytesToSamples(asset.PCM16))

	log.Printf("Playback started: voice=%s duration=%v", asset.Voice, asset.Duration())
	return nil
}

// playLoop paces one frame per tick into the output. The final partial frame
// is padded with silence so downstream encoders always see full frames.
func (c *Controller) playLoop(s *session, out Output, samples []int16) {
	ticker := time.NewTicker(audio.FrameDuration)
	defer ticker.Stop()

	for off := 0; off < len(samples); off += audio.FrameSamples {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		end := off + audio.FrameSamples
		if end > len(samples) {
			frame := make([]int16, audio.FrameSamples)
			copy(frame, samples[off:])
			out.WriteFrame(frame)
			break
		}
		out.WriteFrame(samples[off:end])
	}

	c.finish(s)
}

// finish handles natural end of stream.
func (c *Controller) finish(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == s {
		c.current = nil
		log.Println("Playback finished")
	}
}

// Cached returns the cached asset when it matches the (text, voice) pair,
// nil otherwise. At most one entry exists.
func (c *Controller) Cached(text, voice string) *audio.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && c.cached.SourceText == text && c.cached.Voice == voice {
		return c.cached
	}
	return nil
}

// Store replaces the cache entry.
func (c *Controller) Store(asset *audio.Asset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = asset
}

// Invalidate drops the cache entry and stops any live session built from it.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.stopLocked()
}

// Close stops any live session and releases the output reference. Call on
// shutdown; the controller is not reusable afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.output = nil
	c.cached = nil
}
