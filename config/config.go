// Package config loads service configuration from the environment, with a
// best-effort .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs to start.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// OllamaURL is the base URL of the model backend.
	OllamaURL string
	// Model is the model name sent with every generation request.
	Model string
	// GenerateTimeout bounds non-streaming generation calls.
	GenerateTimeout time.Duration
	// DBPath is the SQLite database file path.
	DBPath string
	// APIToken guards the persistence endpoints. Empty rejects all requests.
	APIToken string
	// WhisperBin is the whisper executable path. Empty disables voice input.
	WhisperBin string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Addr:       envOr("DRILL_ADDR", ":5000"),
		OllamaURL:  envOr("DRILL_OLLAMA_URL", "http://localhost:11434"),
		Model:      envOr("DRILL_MODEL", "llama3.2"),
		DBPath:     envOr("DRILL_DB_PATH", "drill.db"),
		APIToken:   os.Getenv("DRILL_API_TOKEN"),
		WhisperBin: os.Getenv("DRILL_WHISPER_BIN"),
		LogLevel:   envOr("DRILL_LOG_LEVEL", "info"),
	}

	timeout, err := time.ParseDuration(envOr("DRILL_GENERATE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse DRILL_GENERATE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config: DRILL_GENERATE_TIMEOUT must be positive")
	}
	cfg.GenerateTimeout = timeout

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
