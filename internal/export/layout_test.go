package export

import (
	"strings"
	"testing"
)

// monospace measures every rune as 6pt wide.
func monospace(s string) float64 {
	return float64(len([]rune(s))) * 6
}

func TestWrapLine(t *testing.T) {
	t.Run("short line is unchanged", func(t *testing.T) {
		got := WrapLine("hello", 60, monospace)
		if len(got) != 1 || got[0] != "hello" {
			t.Errorf("unexpected pieces %q", got)
		}
	})

	t.Run("empty line renders nothing", func(t *testing.T) {
		if got := WrapLine("", 60, monospace); len(got) != 0 {
			t.Errorf("expected no pieces, got %q", got)
		}
	})

	t.Run("long line splits into fitting pieces", func(t *testing.T) {
		line := strings.Repeat("abcdefghij", 7)
		got := WrapLine(line, 60, monospace)
		if len(got) < 2 {
			t.Fatalf("expected at least 2 pieces, got %d", len(got))
		}
		for _, p := range got {
			if monospace(p) > 60 {
				t.Errorf("piece %q is %.0fpt wide", p, monospace(p))
			}
		}
		if strings.Join(got, "") != line {
			t.Error("pieces do not reassemble the line")
		}
		// greedy: every piece but the last is as long as possible
		for _, p := range got[:len(got)-1] {
			if len(p) != 10 {
				t.Errorf("expected 10-rune pieces, got %q", p)
			}
		}
	})

	t.Run("always advances by at least one rune", func(t *testing.T) {
		got := WrapLine("ab", 1, monospace)
		if len(got) != 2 || got[0] != "a" || got[1] != "b" {
			t.Errorf("unexpected pieces %q", got)
		}
	})

	t.Run("multibyte runes are never split", func(t *testing.T) {
		line := "żółćżółćżółć"
		got := WrapLine(line, 24, monospace)
		if len(got) != 3 {
			t.Fatalf("expected 3 pieces, got %q", got)
		}
		for _, p := range got {
			if p != "żółć" {
				t.Errorf("unexpected piece %q", p)
			}
		}
	})
}

func TestLayoutPages(t *testing.T) {
	l := A4Layout()

	t.Run("each input page starts a physical page with a header", func(t *testing.T) {
		placed, pages := LayoutPages([]string{"one", "two", "three"}, l, monospace)
		if pages != 3 {
			t.Fatalf("expected 3 pages, got %d", pages)
		}
		headers := 0
		for _, p := range placed {
			if p.Header {
				if p.Text != PageHeader(p.Page+1) {
					t.Errorf("page %d has header %q", p.Page, p.Text)
				}
				if p.Y != l.Margin {
					t.Errorf("header not at top margin: %.2f", p.Y)
				}
				headers++
			}
		}
		if headers != 3 {
			t.Errorf("expected 3 headers, got %d", headers)
		}
	})

	t.Run("overflow adds physical pages within margins", func(t *testing.T) {
		text := strings.Repeat("line\n", 300)
		placed, pages := LayoutPages([]string{text}, l, monospace)
		if pages < 2 {
			t.Fatalf("expected overflow onto at least 2 pages, got %d", pages)
		}

		bottom := l.PageHeight - l.BottomMargin
		for i, p := range placed {
			if p.Y < l.Margin || p.Y > bottom+l.LineGap {
				t.Errorf("line %d at y=%.2f outside printable area", i, p.Y)
			}
			if monospace(p.Text) > l.MaxWidth() {
				t.Errorf("line %d exceeds width", i)
			}
			if i > 0 && p.Page == placed[i-1].Page && p.Y <= placed[i-1].Y {
				t.Errorf("line %d does not advance down the page", i)
			}
			if i > 0 && p.Page < placed[i-1].Page {
				t.Errorf("line %d goes back a page", i)
			}
		}
		if last := placed[len(placed)-1].Page; last != pages-1 {
			t.Errorf("last line on page %d of %d, trailing blank page", last, pages)
		}
	})

	t.Run("keeps text order", func(t *testing.T) {
		placed, _ := LayoutPages([]string{"a\nb", "c"}, l, monospace)
		var got []string
		for _, p := range placed {
			got = append(got, p.Text)
		}
		want := "Strona 1|a|b|Strona 2|c"
		if strings.Join(got, "|") != want {
			t.Errorf("got %s, want %s", strings.Join(got, "|"), want)
		}
	})

	t.Run("no pages", func(t *testing.T) {
		placed, pages := LayoutPages(nil, l, monospace)
		if len(placed) != 0 || pages != 0 {
			t.Errorf("expected empty layout, got %d lines on %d pages", len(placed), pages)
		}
	})
}
