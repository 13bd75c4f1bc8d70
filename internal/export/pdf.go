package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pdfFontFamily = "Times"
	pdfFontSize   = 12.0
	utf8Family    = "ocrstudio-utf8"
	goFamily      = "go-regular"
)

// PDFExporter renders pages onto A4 with manual wrapping and pagination.
type PDFExporter struct {
	Dir      string
	FontPath string // optional UTF-8 TrueType font; embedded Go Regular otherwise
	Layout   *Layout
	Logger   *slog.Logger
}

// Format implements Exporter.
func (e *PDFExporter) Format() Format {
	return PDF
}

// Export implements Exporter.
func (e *PDFExporter) Export(ctx context.Context, pages []string, baseName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	layout := A4Layout()
	if e.Layout != nil {
		layout = *e.Layout
	}

	path, err := prepare(e.Dir, baseName, PDF)
	if err != nil {
		return "", err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(filepath.Base(baseName), true)
	pdf.SetCreator("ocrstudio", true)

	encode := e.setFont(pdf)
	measure := func(s string) float64 {
		return pdf.GetStringWidth(encode(s))
	}

	placed, _ := LayoutPages(pages, layout, measure)
	page := -1
	for _, p := range placed {
		for page < p.Page {
			pdf.AddPage()
			page++
		}
		pdf.Text(p.X, p.Y, encode(p.Text))
	}
	if err := pdf.Error(); err != nil {
		return "", fmt.Errorf("failed to render pdf: %w", err)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", &IOError{Format: PDF, Path: path, Err: err}
	}
	return path, nil
}

// setFont selects the configured UTF-8 font when it loads, else the
// embedded Go Regular face, which covers Polish diacritics. Core Times
// with cp1252 is the last resort. It returns the string encoder to use.
func (e *PDFExporter) setFont(pdf *fpdf.Fpdf) func(string) string {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	identity := func(s string) string { return s }

	if e.FontPath != "" {
		if _, err := os.Stat(e.FontPath); err == nil {
			pdf.AddUTF8Font(utf8Family, "", e.FontPath)
			if !pdf.Err() {
				pdf.SetFont(utf8Family, "", pdfFontSize)
				return identity
			}
			logger.Warn("failed to load pdf font, using embedded font", "path", e.FontPath, "error", pdf.Error())
			pdf.ClearError()
		} else {
			logger.Warn("pdf font not found, using embedded font", "path", e.FontPath)
		}
	}

	pdf.AddUTF8FontFromBytes(goFamily, "", goregular.TTF)
	if !pdf.Err() {
		pdf.SetFont(goFamily, "", pdfFontSize)
		return identity
	}
	logger.Warn("failed to load embedded pdf font, using Times", "error", pdf.Error())
	pdf.ClearError()

	pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	return pdf.UnicodeTranslatorFromDescriptor("")
}
