package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// --- Constants ---

func TestConstants(t *testing.T) {
	// 24kHz * 20ms = 480 samples per channel
	if got := SampleRate * int(FrameDuration/time.Millisecond) / 1000; got != FrameSize {
		t.Errorf("FrameSize mismatch: want %d, got %d", got, FrameSize)
	}
	if FrameSamples != FrameSize*Channels {
		t.Errorf("FrameSamples = %d, want %d", FrameSamples, FrameSize*Channels)
	}
	if FrameBytes != FrameSamples*2 {
		t.Errorf("FrameBytes = %d, want %d", FrameBytes, FrameSamples*2)
	}
}

// --- DecodeBase64 ---

func TestDecodeBase64RoundTrip(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFF, 0x7F, 0x00, 0x80}
	payload := base64.StdEncoding.EncodeToString(raw)
	got, err := DecodeBase64(payload)
	if err != nil {
		t.Fatalf("DecodeBase64 error: %v", err)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("DecodeBase64 = %v, want %v", got, raw)
	}
}

func TestDecodeBase64Malformed(t *testing.T) {
	_, err := DecodeBase64("not!!valid@@base64")
	if err == nil {
		t.Fatal("DecodeBase64 accepted invalid input")
	}
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("error = %v, want ErrMalformedPayload", err)
	}
}

// --- Sample conversion ---

func TestBytesToSamplesOddTrailing(t *testing.T) {
	// 5 bytes: last byte dropped, 2 samples remain
	samples := BytesToSamples([]byte{0x01, 0x00, 0x02, 0x00, 0xFF})
	if len(samples) != 2 {
		t.Fatalf("len = %d, want 2", len(samples))
	}
	if samples[0] != 1 || samples[1] != 2 {
		t.Errorf("samples = %v, want [1 2]", samples)
	}
}

func TestSamplesBytesRoundTrip(t *testing.T) {
	original := []int16{0, 1, -1, 32767, -32768, 12345, -6789}
	buf := SamplesToBytes(original)
	recovered := BytesToSamples(buf)
	for i, v := range original {
		if recovered[i] != v {
			t.Errorf("Round-trip sample[%d]: got %d, want %d", i, recovered[i], v)
		}
	}
}

// --- FloatFrames ---

func TestFloatFramesNormalization(t *testing.T) {
	tests := []struct {
		sample int16
		want   float64
	}{
		{0, 0},
		{16384, 0.5},
		{-16384, -0.5},
		{32767, 32767.0 / 32768.0},
		{-32768, -1.0},
	}
	for _, tt := range tests {
		frames := FloatFrames(SamplesToBytes([]int16{tt.sample}), 1)
		got := frames[0][0]
		if got != tt.want {
			t.Errorf("FloatFrames(%d) = %v, want %v", tt.sample, got, tt.want)
		}
		if got < -1.0 || got >= 1.0 {
			t.Errorf("FloatFrames(%d) = %v out of [-1.0, 1.0)", tt.sample, got)
		}
	}
}

func TestFloatFramesDeinterleave(t *testing.T) {
	// Left channel ascending, right channel descending
	interleaved := []int16{100, -100, 200, -200, 300, -300}
	frames := FloatFrames(SamplesToBytes(interleaved), 2)
	if len(frames) != 2 {
		t.Fatalf("channel count = %d, want 2", len(frames))
	}
	for i, want := range []int16{100, 200, 300} {
		if frames[0][i] != float64(want)/32768.0 {
			t.Errorf("left[%d] = %v, want %v", i, frames[0][i], float64(want)/32768.0)
		}
	}
	for i, want := range []int16{-100, -200, -300} {
		if frames[1][i] != float64(want)/32768.0 {
			t.Errorf("right[%d] = %v, want %v", i, frames[1][i], float64(want)/32768.0)
		}
	}
}

func TestFloatFramesTruncatesPartialFrame(t *testing.T) {
	// 3 samples across 2 channels: only 1 full frame
	frames := FloatFrames(SamplesToBytes([]int16{1, 2, 3}), 2)
	if len(frames[0]) != 1 || len(frames[1]) != 1 {
		t.Errorf("frame counts = %d/%d, want 1/1", len(frames[0]), len(frames[1]))
	}
}

// --- BuildWAV ---

func TestBuildWAVHeader(t *testing.T) {
	pcm := SamplesToBytes([]int16{1, 2, 3, 4, 5, 6})
	wav := BuildWAV(pcm, 1, 24000, 16)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("WAV length = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("ChunkSize = %d, want %d", got, 36+len(pcm))
	}
	if string(wav[12:16]) != "fmt " {
		t.Error("missing fmt sub-chunk")
	}
	if got := binary.LittleEndian.Uint16(wav[20:22]); got != 1 {
		t.Errorf("format code = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	// ByteRate = 24000 * 1 * 16/8
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if got := binary.LittleEndian.Uint16(wav[32:34]); got != 2 {
		t.Errorf("block align = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if string(wav[36:40]) != "data" {
		t.Error("missing data sub-chunk")
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
}

func TestBuildWAVDataVerbatim(t *testing.T) {
	pcm := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x80, 0xFF, 0x7F}
	wav := BuildWAV(pcm, 1, 24000, 16)
	if !bytes.Equal(wav[44:], pcm) {
		t.Errorf("data chunk = %v, want %v", wav[44:], pcm)
	}
}

func TestBuildWAVEmptyData(t *testing.T) {
	wav := BuildWAV(nil, 1, 24000, 16)
	if len(wav) != 44 {
		t.Errorf("empty WAV length = %d, want 44", len(wav))
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 36 {
		t.Errorf("ChunkSize = %d, want 36", got)
	}
}

// --- Asset ---

func TestAssetDuration(t *testing.T) {
	// 24000 samples mono = 1 second
	a := &Asset{PCM16: make([]byte, 48000), SampleRate: 24000, Channels: 1}
	if got := a.Duration(); got != time.Second {
		t.Errorf("Duration = %v, want 1s", got)
	}
	empty := &Asset{}
	if got := empty.Duration(); got != 0 {
		t.Errorf("empty Duration = %v, want 0", got)
	}
}
