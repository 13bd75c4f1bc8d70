package export

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
	"github.com/gomutex/godocx/docx"
)

// DOCX text content.
const (
	DocxTitle       = "PDF OCR Studio — wynik"
	BrandingCaption = "Wygenerowano przez PDF OCR Studio — by netdark_1966"
	logoWidthInches = 1.2
)

// DOCXExporter writes a word-processor document: a title, one heading and
// one paragraph per line for each page, then a branding section.
type DOCXExporter struct {
	Dir      string
	LogoPath string
	Logger   *slog.Logger
}

// Format implements Exporter.
func (e *DOCXExporter) Format() Format {
	return DOCX
}

// Export implements Exporter.
func (e *DOCXExporter) Export(ctx context.Context, pages []string, baseName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path, err := prepare(e.Dir, baseName, DOCX)
	if err != nil {
		return "", err
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return "", &IOError{Format: DOCX, Path: path, Err: err}
	}

	if _, err := doc.AddHeading(DocxTitle, 1); err != nil {
		return "", &IOError{Format: DOCX, Path: path, Err: err}
	}
	for i, text := range pages {
		if _, err := doc.AddHeading(PageHeader(i+1), 2); err != nil {
			return "", &IOError{Format: DOCX, Path: path, Err: err}
		}
		for _, line := range strings.Split(text, "\n") {
			doc.AddParagraph(line)
		}
	}

	doc.AddPageBreak()
	doc.AddParagraph(BrandingCaption)
	e.addLogo(doc, logger)

	if err := doc.SaveTo(path); err != nil {
		return "", &IOError{Format: DOCX, Path: path, Err: err}
	}
	return path, nil
}

// addLogo embeds the branding image. Any failure is logged and ignored.
func (e *DOCXExporter) addLogo(doc *docx.RootDoc, logger *slog.Logger) {
	if e.LogoPath == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("failed to embed docx logo", "path", e.LogoPath, "panic", r)
		}
	}()
	f, err := os.Open(e.LogoPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug("skipping docx logo", "path", e.LogoPath, "error", err)
		}
		return
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil || cfg.Width == 0 {
		logger.Debug("skipping docx logo", "path", e.LogoPath, "error", err)
		return
	}

	height := logoWidthInches * float64(cfg.Height) / float64(cfg.Width)
	if _, err := doc.AddPicture(e.LogoPath, units.Inch(logoWidthInches), units.Inch(height)); err != nil {
		logger.Debug("failed to embed docx logo", "path", e.LogoPath, "error", err)
	}
}
