package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os/exec"
	"strings"
)

// BinaryEngine runs the tesseract executable, streaming the page as PNG on
// stdin and reading text from stdout.
type BinaryEngine struct {
	path   string
	logger *slog.Logger
}

// NewBinaryEngine creates an engine that shells out to path.
func NewBinaryEngine(path string, logger *slog.Logger) *BinaryEngine {
	if path == "" {
		path = "tesseract"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BinaryEngine{path: path, logger: logger}
}

// Name returns the engine name.
func (e *BinaryEngine) Name() string {
	return "binary"
}

// Recognize implements Engine.
func (e *BinaryEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	if err := checkLanguage(lang); err != nil {
		return "", err
	}

	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	args := []string{"stdin", "stdout", "-l", lang}
	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("running tesseract", "path", e.path, "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return normalize(stdout.String()), nil
}
