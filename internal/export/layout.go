package export

import (
	"sort"
	"strings"
)

const mm = 72.0 / 25.4

// Layout holds PDF page geometry in points. Y grows downwards from the
// top edge and is the text baseline.
type Layout struct {
	PageWidth     float64
	PageHeight    float64
	Margin        float64 // left and top
	BottomMargin  float64
	LineHeight    float64
	HeaderAdvance float64 // multiple of LineHeight after the page header
	LineGap       float64 // extra space after each source line
}

// A4Layout is the default geometry: A4, 18mm margins, 5mm lines.
func A4Layout() Layout {
	return Layout{
		PageWidth:     595.28,
		PageHeight:    841.89,
		Margin:        18 * mm,
		BottomMargin:  20 * mm,
		LineHeight:    5 * mm,
		HeaderAdvance: 1.6,
		LineGap:       1 * mm,
	}
}

// MaxWidth is the printable line width.
func (l Layout) MaxWidth() float64 {
	return l.PageWidth - 2*l.Margin
}

// Placed is one rendered line on a physical page (zero-based).
type Placed struct {
	Page   int
	X      float64
	Y      float64
	Text   string
	Header bool
}

// MeasureFunc returns the rendered width of s in points.
type MeasureFunc func(s string) float64

// WrapLine splits line into the longest prefixes that fit maxWidth. Each
// piece holds at least one character even if that character alone is too
// wide. An empty line yields no pieces.
func WrapLine(line string, maxWidth float64, measure MeasureFunc) []string {
	var out []string
	rest := []rune(line)
	for len(rest) > 0 {
		n := fitPrefix(rest, maxWidth, measure)
		out = append(out, string(rest[:n]))
		rest = rest[n:]
	}
	return out
}

// fitPrefix returns the length of the longest prefix of r that fits, at
// least 1. Width is monotone in prefix length, so binary search finds the
// same prefix as shrinking one character at a time.
func fitPrefix(r []rune, maxWidth float64, measure MeasureFunc) int {
	if measure(string(r)) <= maxWidth {
		return len(r)
	}
	n := sort.Search(len(r), func(i int) bool {
		return measure(string(r[:i+1])) > maxWidth
	})
	if n < 1 {
		return 1
	}
	return n
}

// LayoutPages places every page's header and wrapped lines. Each input page
// starts on a new physical page; content running past the bottom margin
// continues on the next one. It returns the placed lines and the number of
// physical pages.
func LayoutPages(pages []string, l Layout, measure MeasureFunc) ([]Placed, int) {
	var placed []Placed
	physical := -1
	bottom := l.PageHeight - l.BottomMargin
	maxWidth := l.MaxWidth()

	var y float64
	pending := false
	emit := func(text string, header bool) {
		if pending {
			physical++
			pending = false
		}
		placed = append(placed, Placed{Page: physical, X: l.Margin, Y: y, Text: text, Header: header})
	}
	// breakPage defers the new physical page until something is drawn on it,
	// so a page that ends exactly at the margin leaves no blank page.
	breakPage := func() {
		pending = true
		y = l.Margin
	}

	for i, text := range pages {
		physical++
		pending = false
		y = l.Margin

		emit(PageHeader(i+1), true)
		y += l.LineHeight * l.HeaderAdvance

		for _, line := range strings.Split(text, "\n") {
			for _, piece := range WrapLine(line, maxWidth, measure) {
				emit(piece, false)
				y += l.LineHeight
				if y > bottom {
					breakPage()
				}
			}
			if y > bottom {
				breakPage()
			} else {
				y += l.LineGap
			}
		}
	}

	return placed, physical + 1
}
