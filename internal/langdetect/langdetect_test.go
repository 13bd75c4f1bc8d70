package langdetect

import (
	"errors"
	"testing"

	"github.com/jackzampolin/ocrstudio/internal/testutil"
)

type fakeDetector struct {
	code  string
	err   error
	panic bool
	got   string
}

func (f *fakeDetector) Detect(text string) (string, error) {
	f.got = text
	if f.panic {
		panic("boom")
	}
	return f.code, f.err
}

func TestSample(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		n     int
		want  string
	}{
		{"empty", nil, 3, ""},
		{"all blank", []string{"", "  \n", "\t"}, 3, ""},
		{"first three", []string{"a", "b", "c", "d"}, 3, "a\nb\nc"},
		{"skips blanks", []string{"", "a", " ", "b", "c", "d"}, 3, "a"},
		{"drops blanks within window", []string{"a", " ", "b", "c"}, 3, "a\nb"},
		{"blank leading pages", []string{"", " ", "", "To jest polski tekst.", "Drugi akapit."}, 3, ""},
		{"fewer pages than n", []string{"a", "b"}, 3, "a\nb"},
		{"trims", []string{"  a \n"}, 3, "a"},
		{"zero uses default", []string{"a", "b", "c", "d"}, 0, "a\nb\nc"},
		{"custom n", []string{"a", "b", "c"}, 1, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sample(tt.pages, tt.n); got != tt.want {
				t.Errorf("Sample() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectPages(t *testing.T) {
	logger := testutil.DiscardLogger()

	t.Run("no text skips detection", func(t *testing.T) {
		d := &fakeDetector{code: "en"}
		if got := DetectPages(d, []string{"", " "}, 3, logger); got != Unknown {
			t.Errorf("expected unknown, got %s", got)
		}
		if d.got != "" {
			t.Error("detector should not be called")
		}
	})

	t.Run("returns detector code", func(t *testing.T) {
		d := &fakeDetector{code: "en"}
		if got := DetectPages(d, []string{"hello", "world"}, 3, logger); got != "en" {
			t.Errorf("expected en, got %s", got)
		}
		if d.got != "hello\nworld" {
			t.Errorf("unexpected sample %q", d.got)
		}
	})

	t.Run("error becomes unknown", func(t *testing.T) {
		d := &fakeDetector{err: errors.New("too short")}
		if got := DetectPages(d, []string{"x"}, 3, logger); got != Unknown {
			t.Errorf("expected unknown, got %s", got)
		}
	})

	t.Run("panic becomes unknown", func(t *testing.T) {
		d := &fakeDetector{panic: true}
		if got := DetectPages(d, []string{"x"}, 3, logger); got != Unknown {
			t.Errorf("expected unknown, got %s", got)
		}
	})
}

func TestWhatlang(t *testing.T) {
	d := Whatlang{}

	t.Run("english", func(t *testing.T) {
		code, err := d.Detect("The quick brown fox jumps over the lazy dog while the farmer watches from the old wooden house.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code != "en" {
			t.Errorf("expected en, got %s", code)
		}
	})

	t.Run("polish", func(t *testing.T) {
		code, err := d.Detect("Wczoraj wieczorem poszliśmy razem do kina, a potem długo rozmawialiśmy o książkach i podróżach.")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code != "pl" {
			t.Errorf("expected pl, got %s", code)
		}
	})

	t.Run("blank", func(t *testing.T) {
		if _, err := d.Detect("   "); !errors.Is(err, ErrEmptySample) {
			t.Errorf("expected ErrEmptySample, got %v", err)
		}
	})

	t.Run("confidence threshold", func(t *testing.T) {
		strict := Whatlang{MinConfidence: 1.01}
		if _, err := strict.Detect("The quick brown fox jumps over the lazy dog."); !errors.Is(err, ErrUndetermined) {
			t.Errorf("expected ErrUndetermined, got %v", err)
		}
	})
}
