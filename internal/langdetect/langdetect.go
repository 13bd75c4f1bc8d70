// Package langdetect guesses the language of recognized text.
package langdetect

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Unknown is reported whenever detection is skipped or fails.
const Unknown = "unknown"

// DefaultSamplePages is how many leading pages make up the sample.
const DefaultSamplePages = 3

var (
	// ErrEmptySample is returned for blank input.
	ErrEmptySample = errors.New("empty detection sample")

	// ErrUndetermined is returned when no language could be chosen.
	ErrUndetermined = errors.New("language could not be determined")
)

// Detector returns an ISO 639-1 code for text.
type Detector interface {
	Detect(text string) (string, error)
}

// Whatlang detects languages with whatlanggo.
type Whatlang struct {
	// MinConfidence rejects guesses below this score (0..1).
	MinConfidence float64
}

// Detect implements Detector.
func (w Whatlang) Detect(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptySample
	}

	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", ErrUndetermined
	}
	if info.Confidence < w.MinConfidence {
		return "", fmt.Errorf("%w: %s at confidence %.2f", ErrUndetermined, code, info.Confidence)
	}
	return code, nil
}

// Sample joins the non-blank pages among the first n. Blank leading
// pages shrink the sample rather than pulling in later pages.
func Sample(pages []string, n int) string {
	if n <= 0 {
		n = DefaultSamplePages
	}
	pages = pages[:min(n, len(pages))]
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// DetectPages builds the sample from pages and runs d on it. It never
// fails: an empty sample, a detector error or a detector panic all
// yield Unknown.
func DetectPages(d Detector, pages []string, n int, logger *slog.Logger) (code string) {
	if logger == nil {
		logger = slog.Default()
	}

	sample := Sample(pages, n)
	if sample == "" {
		logger.Debug("no text to detect language from")
		return Unknown
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("language detector panicked", "panic", r)
			code = Unknown
		}
	}()

	code, err := d.Detect(sample)
	if err != nil {
		logger.Debug("language detection failed", "error", err)
		return Unknown
	}
	return code
}
