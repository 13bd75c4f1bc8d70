package translate

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// BackendConfig selects a backend by name.
type BackendConfig struct {
	Backend    string // "google", "openai", "none"
	Endpoint   string
	Model      string
	APIKey     string
	MaxRetries int
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewBackend builds the named backend.
func NewBackend(cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", GoogleName:
		return NewGoogleBackend(GoogleConfig{
			BaseURL:    cfg.Endpoint,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.Timeout,
			Logger:     cfg.Logger,
		}), nil
	case OpenAIName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai translation backend requires an api key")
		}
		return NewOpenAIBackend(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxRetries: cfg.MaxRetries,
			Timeout:    cfg.Timeout,
			BaseURL:    cfg.Endpoint,
		}), nil
	case "none":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown translation backend: %s", cfg.Backend)
	}
}
