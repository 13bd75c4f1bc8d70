package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackzampolin/ocrstudio/internal/testutil"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "history", "conversions.json"), testutil.DiscardLogger())
}

func record(file string) Record {
	return Record{
		File:          file,
		Pages:         []int{1, 2},
		TesseractLang: "eng",
		DetectedLang:  "en",
		Translated:    true,
		Exports:       []string{"TXT"},
		Timestamp:     "2024-05-01T12:00:00",
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newStore(t)
	records, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d", len(records))
	}
}

func TestStore_AppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	const n = 5
	for i := 0; i < n; i++ {
		if err := s.Append(ctx, record(fmt.Sprintf("file%d.pdf", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if len(records) != n {
		t.Fatalf("expected %d records, got %d", n, len(records))
	}
	for i, r := range records {
		if r.File != fmt.Sprintf("file%d.pdf", i) {
			t.Errorf("record %d: got %s", i, r.File)
		}
	}
}

func TestStore_FileFormat(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := s.Append(ctx, record("zażółć <a&b>.pdf")); err != nil {
		t.Fatalf("failed to append: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	content := string(data)
	for _, want := range []string{`"file": "zażółć <a&b>.pdf"`, `"pages": [`, `"translated_to_pl": true`, `"exports": [`} {
		if !strings.Contains(content, want) {
			t.Errorf("history file missing %s:\n%s", want, content)
		}
	}
	if strings.Contains(content, `"id"`) {
		t.Error("empty id should be omitted")
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for i := 0; i < 3; i++ {
		if err := s.Append(ctx, record("a.pdf")); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}

	t.Run("unconfirmed clear leaves history", func(t *testing.T) {
		if err := s.Clear(ctx, false); !errors.Is(err, ErrClearNotConfirmed) {
			t.Fatalf("expected ErrClearNotConfirmed, got %v", err)
		}
		records, _ := s.Load(ctx)
		if len(records) != 3 {
			t.Errorf("expected 3 records, got %d", len(records))
		}
	})

	t.Run("confirmed clear empties history", func(t *testing.T) {
		if err := s.Clear(ctx, true); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		records, _ := s.Load(ctx)
		if len(records) != 0 {
			t.Errorf("expected empty history, got %d", len(records))
		}
	})
}

func TestStore_ClearFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}
	s := New(filepath.Join(blocker, "history.json"), testutil.DiscardLogger())
	if err := s.Clear(context.Background(), true); err == nil {
		t.Error("expected clear to surface an error")
	}
}

func TestStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	records, err := s.Load(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("expected empty history, got %d records, err %v", len(records), err)
	}

	if err := s.Append(ctx, record("new.pdf")); err != nil {
		t.Fatalf("failed to append after corruption: %v", err)
	}
	records, _ = s.Load(ctx)
	if len(records) != 1 || records[0].File != "new.pdf" {
		t.Errorf("unexpected records %+v", records)
	}

	backups, _ := filepath.Glob(s.Path() + ".corrupt-*")
	if len(backups) != 1 {
		t.Errorf("expected corrupt file backup, got %v", backups)
	}
}

func TestStore_SkipsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	content := `[
  {"file": "ok.pdf", "pages": [1], "tesseract_lang": "eng", "detected_lang": "en", "translated_to_pl": false, "exports": ["DOCX"], "timestamp": "2024-01-01T00:00:00"},
  {"file": "bad.pdf", "pages": [0]},
  "garbage"
]`
	if err := os.WriteFile(s.Path(), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write history: %v", err)
	}

	records, _ := s.Load(ctx)
	if len(records) != 1 || records[0].File != "ok.pdf" {
		t.Errorf("expected only the valid record, got %+v", records)
	}
}

func TestStore_AppendRejectsInvalid(t *testing.T) {
	s := newStore(t)
	rec := record("a.pdf")
	rec.Pages = []int{0}
	if err := s.Append(context.Background(), rec); err == nil {
		t.Error("expected invalid record to be rejected")
	}
}

func TestStore_Recent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	for i := 0; i < 12; i++ {
		if err := s.Append(ctx, record(fmt.Sprintf("%02d.pdf", i))); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}

	recent, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("expected 10 records, got %d", len(recent))
	}
	if recent[0].File != "11.pdf" || recent[9].File != "02.pdf" {
		t.Errorf("expected newest first, got %s..%s", recent[0].File, recent[9].File)
	}

	all, _ := s.Recent(ctx, 0)
	if len(all) != 12 {
		t.Errorf("expected all 12 records, got %d", len(all))
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "conversions.json")
	// two stores on one file behave like two processes
	stores := []*Store{New(path, testutil.DiscardLogger()), New(path, testutil.DiscardLogger())}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := stores[i%2].Append(ctx, record(fmt.Sprintf("%d.pdf", i))); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	records, _ := stores[0].Load(ctx)
	if len(records) != 20 {
		t.Errorf("expected 20 records, got %d", len(records))
	}
}

func TestStore_NewRecord(t *testing.T) {
	s := newStore(t)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 8, 7, 6, 0, time.Local) }
	if got := s.NewRecord().Timestamp; got != "2024-03-09T08:07:06" {
		t.Errorf("unexpected timestamp %s", got)
	}
}
