package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// LibraryEngine runs tesseract in-process through gosseract.
type LibraryEngine struct {
	logger *slog.Logger
}

// NewLibraryEngine creates a gosseract-backed engine.
func NewLibraryEngine(logger *slog.Logger) *LibraryEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryEngine{logger: logger}
}

// Name returns the engine name.
func (e *LibraryEngine) Name() string {
	return "library"
}

// Recognize implements Engine. A client is created per call since
// gosseract clients are not safe for concurrent use.
func (e *LibraryEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if err := checkLanguage(lang); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return "", fmt.Errorf("failed to set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to load page image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize text: %w", err)
	}

	e.logger.Debug("page recognized", "engine", e.Name(), "lang", lang, "chars", len(text))
	return normalize(text), nil
}
