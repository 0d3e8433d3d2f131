package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"scenevox/internal/config"
	"scenevox/internal/gemini"
	"scenevox/internal/playback"
	"scenevox/internal/stream"
	"scenevox/internal/voices"
	"scenevox/internal/web"
	"scenevox/internal/workflow"
)

const maxUploadBytes = 8 << 20

func main() {
	configPath := flag.String("config", "scenevox.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	apiKey := cfg.APIKey()
	if apiKey == "" {
		log.Fatalf("Missing API key: set %s", cfg.Gemini.APIKeyVariable)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("scenevox starting up...")

	svc, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:            apiKey,
		ImageModel:        cfg.Gemini.ImageModel,
		TextModel:         cfg.Gemini.TextModel,
		TTSModel:          cfg.Gemini.TTSModel,
		TranslateLanguage: cfg.Gemini.TranslateLanguage,
		CandidateImages:   cfg.Gemini.CandidateImages,
	})
	if err != nil {
		log.Fatalf("Generation service not available: %v", err)
	}

	// Broadcaster: fan-out PCM frames to all listeners. The broadcast loop is
	// the shared output context; it starts on the first playback toggle and
	// stops with the process context.
	broadcaster := stream.NewBroadcaster()
	var startOutput sync.Once
	player := playback.NewController(func() (playback.Output, error) {
		startOutput.Do(func() {
			go broadcaster.Run(ctx)
			log.Println("Audio output acquired (24kHz mono)")
		})
		return broadcaster, nil
	})
	defer player.Close()

	wf := workflow.NewController(svc, player)
	webrtcHandler := stream.NewWebRTCHandler(broadcaster)

	// HTTP routes
	mux := http.NewServeMux()

	// Web UI
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(web.IndexHTML)
	})

	// Audio streams
	mux.Handle("/stream", stream.NewHTTPHandler(broadcaster))
	mux.Handle("/offer", webrtcHandler)

	// API endpoints
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		st := wf.CurrentStatus()
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		json.NewEncoder(w).Encode(map[string]any{
			"state":              st.State,
			"description":        st.Description,
			"image_count":        st.ImageCount,
			"has_image":          st.HasImage,
			"prompt_kind":        st.PromptKind,
			"prompt_text":        st.PromptText,
			"translated":         st.Translated,
			"recommended_voices": st.Recommended,
			"voice":              st.Voice,
			"playing":            st.Playing,
			"error":              st.Error,
			"inline_errors":      st.InlineErrs,
			"catalog":            voices.IDs(),
			"listeners":          broadcaster.ListenerCount() + webrtcHandler.PeerCount(),
		})
	})

	mux.HandleFunc("/api/describe", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		respond(w, wf.SubmitDescription(r.Context(), req.Description))
	})

	mux.HandleFunc("/api/upload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "unreadable upload", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "unreadable upload", http.StatusBadRequest)
			return
		}
		respond(w, wf.UploadImage(r.Context(), data, header.Header.Get("Content-Type")))
	})

	mux.HandleFunc("/api/select", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Index int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		respond(w, wf.SelectImage(r.Context(), req.Index))
	})

	mux.HandleFunc("/api/regenerate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		respond(w, wf.RegenerateImages(r.Context()))
	})

	mux.HandleFunc("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		wf.Reset()
		respond(w, nil)
	})

	mux.HandleFunc("/api/kind", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		respond(w, wf.SwitchKind(r.Context(), workflow.PromptKind(req.Kind)))
	})

	mux.HandleFunc("/api/translate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		respond(w, wf.Translate(r.Context()))
	})

	mux.HandleFunc("/api/voices/select", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Voice string `json:"voice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		respond(w, wf.SelectVoice(req.Voice))
	})

	mux.HandleFunc("/api/speak", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		respond(w, wf.ToggleSpeech(r.Context()))
	})

	mux.HandleFunc("/api/image", func(w http.ResponseWriter, r *http.Request) {
		var index int
		fmt.Sscanf(r.URL.Query().Get("index"), "%d", &index)
		data, mimeType, ok := wf.Image(index)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", mimeType)
		w.Write(data)
	})

	mux.HandleFunc("/api/wav", func(w http.ResponseWriter, r *http.Request) {
		data, ok := wf.WAVExport()
		if !ok {
			http.Error(w, "no synthesized audio", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="scenevox.wav"`)
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(data)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		player.Close()
		server.Close()
	}()

	log.Printf("scenevox live on %s", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}

// respond maps controller errors onto HTTP statuses: guard rejections are
// client errors, everything else is reported inline via /api/status.
func respond(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, workflow.ErrBusy):
			status = http.StatusConflict
		case errors.Is(err, workflow.ErrEmptyDescription),
			errors.Is(err, workflow.ErrUnreadableUpload),
			errors.Is(err, workflow.ErrInvalidTransition),
			errors.Is(err, workflow.ErrNoSuchImage),
			errors.Is(err, workflow.ErrUnknownVoice):
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
