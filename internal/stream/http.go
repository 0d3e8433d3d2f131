package stream

import (
	"encoding/binary"
	"log"
	"net/http"

	"scenevox/internal/audio"
)

// HTTPHandler serves a chunked live WAV stream over HTTP. The header declares
// an effectively unbounded data chunk; players treat it as a live source.
type HTTPHandler struct {
	broadcaster *Broadcaster
}

// NewHTTPHandler creates an HTTP stream handler.
func NewHTTPHandler(b *Broadcaster) *HTTPHandler {
	return &HTTPHandler{broadcaster: b}
}

// liveWAVHeader is a canonical 44-byte header with the size fields maxed out,
// the usual convention for WAV streams of unknown length.
func liveWAVHeader() []byte {
	header := audio.BuildWAV(nil, audio.Channels, audio.SampleRate, audio.BitDepth)
	binary.LittleEndian.PutUint32(header[4:8], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(header[40:44], 0xFFFFFFFF)
	return header
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "no-cache, no-store")
	w.Header().Set("Connection", "close")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if _, err := w.Write(liveWAVHeader()); err != nil {
		return
	}
	flusher.Flush()

	listener := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(listener)

	log.Printf("HTTP listener connected (total: %d)", h.broadcaster.ListenerCount())
	defer log.Printf("HTTP listener disconnected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-listener.done:
			return
		case frame, ok := <-listener.C:
			if !ok {
				return
			}
			if _, err := w.Write(audio.SamplesToBytes(frame)); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
