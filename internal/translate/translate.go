// Package translate provides best-effort machine translation of page text.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"
)

// Default language hints.
const (
	SourceAuto    = "auto"
	DefaultTarget = "pl"
)

// ErrDisabled is returned by the none backend.
var ErrDisabled = errors.New("translation backend disabled")

// ErrRateLimited marks a backend error caused by the provider throttling us.
var ErrRateLimited = errors.New("translation rate limited")

// Backend performs one translation request. Implementations may fail.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Outcome is the tagged result of one best-effort translation.
// Translated is false when Text is the unchanged input; Reason says why.
type Outcome struct {
	Text       string
	Translated bool
	Reason     string
}

// BestEffort wraps a Backend so that no failure ever reaches the caller.
type BestEffort struct {
	backend Backend
	source  string
	target  string
	chunk   int
	limiter *RateLimiter
	logger  *slog.Logger
}

// Options configures BestEffort.
type Options struct {
	Source     string
	Target     string
	ChunkChars int // split longer input into several requests; 0 = never
	RateLimit  int // backend requests per minute; 0 = unlimited
	Logger     *slog.Logger
}

// NewBestEffort wraps backend. A nil backend never translates.
func NewBestEffort(backend Backend, opts Options) *BestEffort {
	if opts.Source == "" {
		opts.Source = SourceAuto
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if backend == nil {
		backend = None{}
	}
	t := &BestEffort{
		backend: backend,
		source:  opts.Source,
		target:  opts.Target,
		chunk:   opts.ChunkChars,
		logger:  opts.Logger,
	}
	if opts.RateLimit > 0 {
		t.limiter = NewRateLimiter(opts.RateLimit)
	}
	return t
}

// Backend returns the wrapped backend name.
func (t *BestEffort) Backend() string {
	return t.backend.Name()
}

// Limiter returns the request rate limiter, or nil when unlimited.
func (t *BestEffort) Limiter() *RateLimiter {
	return t.limiter
}

// Target returns the target language.
func (t *BestEffort) Target() string {
	return t.target
}

// Attempt translates text and reports whether it succeeded.
func (t *BestEffort) Attempt(ctx context.Context, text string) (out Outcome) {
	if strings.TrimSpace(text) == "" {
		return Outcome{Text: text, Reason: "empty input"}
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("translation backend panicked", "backend", t.backend.Name(), "panic", r)
			out = Outcome{Text: text, Reason: "backend panic"}
		}
	}()

	pieces := Chunk(text, t.chunk)
	translated := make([]Piece, 0, len(pieces))
	for _, c := range pieces {
		if strings.TrimSpace(c.Text) == "" {
			translated = append(translated, c)
			continue
		}
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return Outcome{Text: text, Reason: err.Error()}
			}
		}
		res, err := t.backend.Translate(ctx, c.Text, t.source, t.target)
		if err != nil {
			if t.limiter != nil && errors.Is(err, ErrRateLimited) {
				t.limiter.Record429()
			}
			t.logger.Debug("translation failed, keeping original text",
				"backend", t.backend.Name(), "chars", len(text), "error", err)
			return Outcome{Text: text, Reason: err.Error()}
		}
		translated = append(translated, Piece{Text: res, Sep: c.Sep})
	}

	return Outcome{Text: Join(translated), Translated: true}
}

// Translate returns the translation of text, or text unchanged on any failure.
func (t *BestEffort) Translate(ctx context.Context, text string) string {
	return t.Attempt(ctx, text).Text
}

// ShouldTranslate decides whether a run translates its pages. Translation
// happens only when enabled and the detected language is English or
// unknown, or when English OCR was explicitly forced.
func ShouldTranslate(enabled bool, detected string, forcedEnglish bool) bool {
	if !enabled {
		return false
	}
	return detected == "en" || detected == "unknown" || forcedEnglish
}

// Piece is one request-sized part of a text. Sep precedes the piece when
// pieces are joined back: "\n" between lines, the whitespace an over-long
// line was cut at, or nothing after a hard cut. The first piece has none.
type Piece struct {
	Text string
	Sep  string
}

// Join reassembles pieces produced by Chunk.
func Join(pieces []Piece) string {
	var b strings.Builder
	for _, p := range pieces {
		b.WriteString(p.Sep)
		b.WriteString(p.Text)
	}
	return b.String()
}

// Chunk splits text into pieces of at most max runes, preferring line
// boundaries. Lines longer than max are cut at whitespace where possible.
// Join(Chunk(text, max)) == text.
func Chunk(text string, max int) []Piece {
	if max <= 0 || len([]rune(text)) <= max {
		return []Piece{{Text: text}}
	}

	var pieces []Piece
	var cur []string
	curLen := 0
	lead := ""
	flush := func() {
		pieces = append(pieces, Piece{Text: strings.Join(cur, "\n"), Sep: lead})
		cur = nil
		curLen = 0
		lead = "\n"
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		if len(runes) > max {
			if cur != nil {
				flush()
			}
			parts := splitLine(runes, max)
			parts[0].Sep = lead
			pieces = append(pieces, parts...)
			lead = "\n"
			continue
		}

		add := len(runes)
		if cur != nil {
			add++
		}
		if cur != nil && curLen+add > max {
			flush()
			add = len(runes)
		}
		cur = append(cur, string(runes))
		curLen += add
	}
	if cur != nil {
		flush()
	}
	return pieces
}

// splitLine cuts one over-long line at the last whitespace that fits,
// falling back to a hard cut at max runes.
func splitLine(runes []rune, max int) []Piece {
	var parts []Piece
	sep := ""
	for len(runes) > max {
		cut := -1
		for j := min(max, len(runes)-2); j > 0; j-- {
			if unicode.IsSpace(runes[j]) {
				cut = j
				break
			}
		}
		if cut < 0 {
			parts = append(parts, Piece{Text: string(runes[:max]), Sep: sep})
			sep = ""
			runes = runes[max:]
			continue
		}
		parts = append(parts, Piece{Text: string(runes[:cut]), Sep: sep})
		sep = string(runes[cut])
		runes = runes[cut+1:]
	}
	return append(parts, Piece{Text: string(runes), Sep: sep})
}

// None is a backend that never translates.
type None struct{}

// Name implements Backend.
func (None) Name() string { return "none" }

// Translate implements Backend.
func (None) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrDisabled
}
