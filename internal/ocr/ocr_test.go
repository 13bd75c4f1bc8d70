package ocr

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jackzampolin/ocrstudio/internal/testutil"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		want     Mode
		wantLang string
	}{
		{"", ModeAuto, "eng+pol"},
		{"auto", ModeAuto, "eng+pol"},
		{"AUTO", ModeAuto, "eng+pol"},
		{"english", ModeEnglish, "eng"},
		{"eng", ModeEnglish, "eng"},
		{"polish", ModePolish, "pol"},
		{"pol", ModePolish, "pol"},
		{"eng+pol", ModeEngPol, "eng+pol"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
			}
			if got.Language() != tt.wantLang {
				t.Errorf("Language() = %s, want %s", got.Language(), tt.wantLang)
			}
		})
	}

	if _, err := ParseMode("klingon"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestMode_ForcesEnglish(t *testing.T) {
	for _, m := range Modes() {
		if got := m.ForcesEnglish(); got != (m == ModeEnglish) {
			t.Errorf("%s.ForcesEnglish() = %v", m, got)
		}
		if !ValidLanguage(m.Language()) {
			t.Errorf("%s resolves to unsupported language %s", m, m.Language())
		}
	}
}

func TestNewEngine(t *testing.T) {
	logger := testutil.DiscardLogger()
	for name, want := range map[string]string{"": "library", "library": "library", "binary": "binary"} {
		e, err := NewEngine(Config{Engine: name, Logger: logger})
		if err != nil {
			t.Fatalf("engine %q: %v", name, err)
		}
		if e.Name() != want {
			t.Errorf("engine %q: got %s", name, e.Name())
		}
	}
	if _, err := NewEngine(Config{Engine: "cloud"}); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func TestLibraryEngine_RejectsUnsupportedLanguage(t *testing.T) {
	e := NewLibraryEngine(testutil.DiscardLogger())
	_, err := e.Recognize(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)), "deu")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported language error, got %v", err)
	}
}

func fakeTesseract(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a unix shell")
	}
	path := filepath.Join(t.TempDir(), "tesseract")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write fake tesseract: %v", err)
	}
	return path
}

func TestBinaryEngine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	t.Run("passes language and returns stdout", func(t *testing.T) {
		path := fakeTesseract(t, "cat > /dev/null\necho \"$1 $2 $3 $4\"\n")
		e := NewBinaryEngine(path, testutil.DiscardLogger())

		text, err := e.Recognize(context.Background(), img, "eng+pol")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(text) != "stdin stdout -l eng+pol" {
			t.Errorf("unexpected output %q", text)
		}
	})

	t.Run("empty output is a valid result", func(t *testing.T) {
		path := fakeTesseract(t, "cat > /dev/null\n")
		e := NewBinaryEngine(path, testutil.DiscardLogger())

		text, err := e.Recognize(context.Background(), img, "pol")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "" {
			t.Errorf("expected empty text, got %q", text)
		}
	})

	t.Run("non-zero exit is an error", func(t *testing.T) {
		path := fakeTesseract(t, "cat > /dev/null\necho 'missing traineddata' >&2\nexit 1\n")
		e := NewBinaryEngine(path, testutil.DiscardLogger())

		_, err := e.Recognize(context.Background(), img, "eng")
		if err == nil || !strings.Contains(err.Error(), "missing traineddata") {
			t.Errorf("expected stderr in error, got %v", err)
		}
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		e := NewBinaryEngine(filepath.Join(t.TempDir(), "nope"), testutil.DiscardLogger())
		if _, err := e.Recognize(context.Background(), img, "eng"); err == nil {
			t.Error("expected error for missing binary")
		}
	})
}

func TestNormalize(t *testing.T) {
	// z + combining dot above composes to ż
	if got := normalize("z\u0307o\u0301\u0142w"); got != "\u017c\u00f3\u0142w" {
		t.Errorf("expected composed text, got %q", got)
	}
}
