package audio

import "time"

// Speech synthesis output is always 16-bit mono PCM at 24kHz.
const (
	SampleRate    = 24000
	Channels      = 1
	BitDepth      = 16
	FrameDuration = 20 * time.Millisecond
	FrameSize     = 480                  // samples per channel per 20ms frame
	FrameSamples  = FrameSize * Channels // total interleaved samples per frame
	FrameBytes    = FrameSamples * 2     // bytes per frame (int16 = 2 bytes)
)

// Asset is one decoded speech clip ready for playback or WAV export.
type Asset struct {
	PCM16      []byte
	SampleRate int
	Channels   int
	Voice      string
	SourceText string
}

// Duration returns the play time of the asset's PCM data.
func (a *Asset) Duration() time.Duration {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return 0
	}
	samples := len(a.PCM16) / 2 / a.Channels
	return time.Duration(samples) * time.Second / time.Duration(a.SampleRate)
}
