// Package ocr turns page bitmaps into text with tesseract.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Engine recognizes text in a page bitmap. Pages without recognizable
// text yield an empty string, not an error.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
}

// Config selects and configures an engine.
type Config struct {
	Engine     string // "library" or "binary"
	BinaryPath string
	Logger     *slog.Logger
}

// NewEngine builds the engine named in cfg.
func NewEngine(cfg Config) (Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch strings.ToLower(cfg.Engine) {
	case "", "library":
		return NewLibraryEngine(cfg.Logger), nil
	case "binary":
		return NewBinaryEngine(cfg.BinaryPath, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine: %s", cfg.Engine)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), nil
}

// normalize composes characters so Polish diacritics compare equal
// regardless of how tesseract emitted them.
func normalize(text string) string {
	return norm.NFC.String(text)
}

func checkLanguage(lang string) error {
	if !ValidLanguage(lang) {
		return fmt.Errorf("unsupported ocr language %q", lang)
	}
	return nil
}
