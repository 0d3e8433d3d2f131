// Package config loads runtime configuration from an optional TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all runtime configuration.
type Config struct {
	Server ServerSettings `toml:"server"`
	Gemini GeminiSettings `toml:"gemini"`
}

// ServerSettings configures the HTTP surface.
type ServerSettings struct {
	Port int `toml:"port"`
}

// GeminiSettings selects API credentials and models. The API key itself is
// only ever read from the environment, never from the file.
type GeminiSettings struct {
	APIKeyVariable    string `toml:"api_key_variable"`
	ImageModel        string `toml:"image_model"`
	TextModel         string `toml:"text_model"`
	TTSModel          string `toml:"tts_model"`
	TranslateLanguage string `toml:"translate_language"`
	CandidateImages   int    `toml:"candidate_images"`
}

// Defaults returns the configuration used when no file or overrides exist.
func Defaults() Config {
	return Config{
		Server: ServerSettings{
			Port: 8080,
		},
		Gemini: GeminiSettings{
			APIKeyVariable:    "GEMINI_API_KEY",
			ImageModel:        "imagen-4.0-generate-001",
			TextModel:         "gemini-2.5-flash",
			TTSModel:          "gemini-2.5-flash-preview-tts",
			TranslateLanguage: "Spanish",
			CandidateImages:   3,
		},
	}
}

// Load reads the TOML file at path (skipped when path is empty or missing)
// and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.Server.Port = envInt("SCENEVOX_PORT", cfg.Server.Port)
	cfg.Gemini.ImageModel = envStr("SCENEVOX_IMAGE_MODEL", cfg.Gemini.ImageModel)
	cfg.Gemini.TextModel = envStr("SCENEVOX_TEXT_MODEL", cfg.Gemini.TextModel)
	cfg.Gemini.TTSModel = envStr("SCENEVOX_TTS_MODEL", cfg.Gemini.TTSModel)
	cfg.Gemini.TranslateLanguage = envStr("SCENEVOX_TRANSLATE_LANGUAGE", cfg.Gemini.TranslateLanguage)
	cfg.Gemini.CandidateImages = envInt("SCENEVOX_CANDIDATE_IMAGES", cfg.Gemini.CandidateImages)

	if cfg.Gemini.CandidateImages < 1 || cfg.Gemini.CandidateImages > 4 {
		cfg.Gemini.CandidateImages = 3
	}

	return cfg, nil
}

// APIKey resolves the Gemini API key from the configured env variable.
func (c Config) APIKey() string {
	return os.Getenv(c.Gemini.APIKeyVariable)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
