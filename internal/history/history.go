// Package history keeps the append-only log of completed conversions.
//
// The log is a single JSON array rewritten on every append or clear.
// Writers are serialized with an advisory lock on <path>.lock, so several
// processes may share one history file.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// TimestampLayout is the record timestamp format (local time, seconds).
const TimestampLayout = "2006-01-02T15:04:05"

// ErrClearNotConfirmed is returned by Clear without confirmation.
var ErrClearNotConfirmed = errors.New("history clear requires confirmation")

const lockRetryDelay = 25 * time.Millisecond

// Record is an immutable summary of one completed run.
type Record struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	File          string   `json:"file" yaml:"file"`
	Pages         []int    `json:"pages" yaml:"pages"` // 1-based
	TesseractLang string   `json:"tesseract_lang" yaml:"tesseract_lang"`
	DetectedLang  string   `json:"detected_lang" yaml:"detected_lang"`
	Translated    bool     `json:"translated_to_pl" yaml:"translated_to_pl"`
	Exports       []string `json:"exports" yaml:"exports"`
	Timestamp     string   `json:"timestamp" yaml:"timestamp"`
}

const recordSchema = `{
  "type": "object",
  "required": ["file", "pages", "tesseract_lang", "detected_lang", "translated_to_pl", "exports", "timestamp"],
  "properties": {
    "id": {"type": "string"},
    "file": {"type": "string"},
    "pages": {"type": "array", "items": {"type": "integer", "minimum": 1}},
    "tesseract_lang": {"type": "string"},
    "detected_lang": {"type": "string"},
    "translated_to_pl": {"type": "boolean"},
    "exports": {"type": "array", "items": {"type": "string"}},
    "timestamp": {"type": "string"}
  }
}`

var schema = jsonschema.MustCompileString("history-record.json", recordSchema)

// Store is the file-backed history log.
type Store struct {
	path   string
	mu     sync.Mutex // flock is per process; mu serializes goroutines
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// New creates a store at path. The file is created lazily.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the history file path.
func (s *Store) Path() string {
	return s.path
}

// NewRecord stamps a record with the current time.
func (s *Store) NewRecord() Record {
	return Record{Timestamp: s.now().Format(TimestampLayout)}
}

// Load returns all records in insertion order. Read failures are logged and
// treated as an empty history; records that do not match the schema are
// skipped. Writers replace the file atomically, so reads take no lock.
func (s *Store) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.read()
	if err != nil {
		s.logger.Warn("failed to read history, treating as empty", "path", s.path, "error", err)
		return []Record{}, nil
	}
	return records, nil
}

// Recent returns up to n records, newest first. n <= 0 returns all.
func (s *Store) Recent(ctx context.Context, n int) ([]Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]Record, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out, nil
}

// Append adds rec to the end of the log.
func (s *Store) Append(ctx context.Context, rec Record) error {
	if rec.Pages == nil {
		rec.Pages = []int{}
	}
	if rec.Exports == nil {
		rec.Exports = []string{}
	}
	if err := s.validate(rec); err != nil {
		return err
	}

	return s.withWriteLock(ctx, func() error {
		records, err := s.read()
		if err != nil {
			// Keep the unreadable file aside rather than overwriting it.
			backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
			s.logger.Warn("history unreadable, starting a new log", "path", s.path, "backup", backup, "error", err)
			if rerr := os.Rename(s.path, backup); rerr != nil {
				return fmt.Errorf("failed to move unreadable history aside: %w", rerr)
			}
			records = nil
		}
		return s.write(append(records, rec))
	})
}

// Clear removes every record. It refuses to run unless confirmed.
func (s *Store) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrClearNotConfirmed
	}
	return s.withWriteLock(ctx, func() error {
		return s.write([]Record{})
	})
}

func (s *Store) withWriteLock(ctx context.Context, fn func() error) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock history: %w", err)
	}
	if !locked {
		return errors.New("failed to lock history")
	}
	defer s.lock.Unlock()
	return fn()
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	return nil
}

// read parses the whole file. A missing file is an empty history.
func (s *Store) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, msg := range raw {
		var doc any
		if err := json.Unmarshal(msg, &doc); err != nil {
			continue
		}
		if err := schema.Validate(doc); err != nil {
			s.logger.Debug("skipping invalid history record", "index", i, "error", err)
			continue
		}
		var rec Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// write replaces the file atomically.
func (s *Store) write(records []Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

func (s *Store) validate(rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid history record: %w", err)
	}
	return nil
}
