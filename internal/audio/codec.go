package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a base64 audio payload cannot be decoded.
var ErrMalformedPayload = errors.New("malformed audio payload")

// DecodeBase64 decodes a standard base64 speech payload into raw PCM bytes.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return data, nil
}

// BytesToSamples converts little-endian PCM bytes to int16 samples.
// A trailing odd byte is dropped to keep int16 alignment.
func BytesToSamples(data []byte) []int16 {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return samples
}

// SamplesToBytes converts int16 samples to little-endian bytes.
func SamplesToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// FloatFrames deinterleaves PCM bytes into per-channel float frames normalized
// to [-1.0, 1.0]. Each sample is divided by 32768, so -32768 maps to exactly
// -1.0. A trailing partial frame is truncated.
func FloatFrames(data []byte, channels int) [][]float64 {
	if channels <= 0 {
		return nil
	}
	samples := BytesToSamples(data)
	frameCount := len(samples) / channels

	frames := make([][]float64, channels)
	for ch := range frames {
		frames[ch] = make([]float64, frameCount)
	}
	for i := 0; i < frameCount; i++ {
		for ch := 0; ch < channels; ch++ {
			frames[ch][i] = float64(samples[i*channels+ch]) / 32768.0
		}
	}
	return frames
}
