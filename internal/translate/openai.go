package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIConfig holds configuration for the chat-completion translator.
// Any OpenAI-compatible endpoint works through BaseURL.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	MaxRetries int           // Retry attempts for SDK transport
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests, compatible gateways)
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIBackend translates with a chat completion.
type OpenAIBackend struct {
	model  string
	client openai.Client
}

// NewOpenAIBackend creates a new OpenAI translator.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIBackend{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name implements Backend.
func (b *OpenAIBackend) Name() string {
	return OpenAIName
}

// Translate implements Backend.
func (b *OpenAIBackend) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(source, target)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translation failed: %w", mapOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	out := resp.Choices[0].Message.Content
	if strings.TrimSpace(out) == "" {
		return "", errors.New("openai returned empty translation")
	}
	return out, nil
}

func systemPrompt(source, target string) string {
	from := "the source language"
	if source != "" && source != SourceAuto {
		from = "language code " + source
	}
	return fmt.Sprintf(
		"Translate the user's text from %s into language code %s. "+
			"The text comes from OCR of a scanned page. Preserve line breaks. "+
			"Reply with the translation only.", from, target)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		}
		return fmt.Errorf("status %d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return err
}
