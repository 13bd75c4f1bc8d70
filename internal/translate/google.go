package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	GoogleName           = "google"
	googleDefaultBaseURL = "https://translate.googleapis.com"
)

// GoogleConfig configures the public Google translate endpoint client.
type GoogleConfig struct {
	BaseURL    string        // Optional (tests)
	MaxRetries int           // Attempts after the first failure
	RetryDelay time.Duration // Base delay between attempts
	Timeout    time.Duration // HTTP timeout
	HTTPClient *http.Client  // Optional (tests)
	Logger     *slog.Logger
}

// GoogleBackend calls the keyless translate_a/single endpoint.
type GoogleBackend struct {
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	client     *http.Client
	logger     *slog.Logger
}

// NewGoogleBackend creates a Google backend.
func NewGoogleBackend(cfg GoogleConfig) *GoogleBackend {
	if cfg.BaseURL == "" {
		cfg.BaseURL = googleDefaultBaseURL
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &GoogleBackend{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		client:     client,
		logger:     cfg.Logger,
	}
}

// Name implements Backend.
func (g *GoogleBackend) Name() string {
	return GoogleName
}

// Translate implements Backend.
func (g *GoogleBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return g.do(ctx, text, source, target)
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.maxRetries+1)),
		retry.Delay(g.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Debug("retrying translation", "attempt", n+1, "error", err)
		}),
	)
}

func (g *GoogleBackend) do(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return "", retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("google translate error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		if resp.StatusCode >= 500 {
			return "", err
		}
		return "", retry.Unrecoverable(err)
	}

	out, err := parseGoogleResponse(body)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	return out, nil
}

// parseGoogleResponse extracts the translated segments from the nested
// array response: [[["translated","original",...],...],...].
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}

	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("response contained no translation")
	}
	return sb.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
