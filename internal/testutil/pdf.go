package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
)

// PDFPage describes one page of a generated fixture. Width and Height are
// in points; zero means A4.
type PDFPage struct {
	Width  float64
	Height float64
	Lines  []string
}

// PDFBytes renders pages into an in-memory PDF.
func PDFBytes(t testing.TB, pages ...PDFPage) []byte {
	t.Helper()

	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", SizeStr: "A4"})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 14)
	for _, p := range pages {
		if p.Width > 0 && p.Height > 0 {
			pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.Width, Ht: p.Height})
		} else {
			pdf.AddPage()
		}
		y := 30.0
		for _, line := range p.Lines {
			pdf.Text(20, y, line)
			y += 18
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to render fixture pdf: %v", err)
	}
	return buf.Bytes()
}

// WritePDF writes a generated fixture to dir/name and returns its path.
func WritePDF(t testing.TB, dir, name string, pages ...PDFPage) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDFBytes(t, pages...), 0o644); err != nil {
		t.Fatalf("failed to write fixture pdf: %v", err)
	}
	return path
}

// TextPages is a shorthand for A4 pages with one line of text each.
func TextPages(texts ...string) []PDFPage {
	pages := make([]PDFPage, len(texts))
	for i, s := range texts {
		pages[i] = PDFPage{Lines: []string{s}}
	}
	return pages
}
