// Package export writes recognized page text to TXT, DOCX and PDF files.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when a format label is not recognized.
var ErrUnknownFormat = errors.New("unknown export format")

// Format is an export format label.
type Format string

const (
	TXT  Format = "TXT"
	DOCX Format = "DOCX"
	PDF  Format = "PDF"
)

// Formats lists the supported formats in the order a run exports them.
func Formats() []Format {
	return []Format{TXT, DOCX, PDF}
}

// ParseFormat accepts a format label or file extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case TXT:
		return TXT, nil
	case DOCX:
		return DOCX, nil
	case PDF:
		return PDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ParseFormats parses labels, drops duplicates and returns them in export
// order (TXT, DOCX, PDF) regardless of input order.
func ParseFormats(labels []string) ([]Format, error) {
	seen := make(map[Format]bool, len(labels))
	for _, l := range labels {
		if strings.TrimSpace(l) == "" {
			continue
		}
		f, err := ParseFormat(l)
		if err != nil {
			return nil, err
		}
		seen[f] = true
	}

	out := make([]Format, 0, len(seen))
	for _, f := range Formats() {
		if seen[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string {
	return strings.ToLower(string(f))
}

// PageHeader is the human readable 1-based page marker.
func PageHeader(n int) string {
	return fmt.Sprintf("Strona %d", n)
}

// Exporter writes the full ordered page text sequence to one file.
// baseName may carry a relative subdirectory, which is created on demand.
type Exporter interface {
	Format() Format
	Export(ctx context.Context, pages []string, baseName string) (string, error)
}

// IOError classifies a file system failure while exporting.
type IOError struct {
	Format Format
	Path   string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to write %s export %s: %v", e.Format, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Config configures the exporter set.
type Config struct {
	OutputDir   string
	LogoPath    string // optional DOCX branding image
	PDFFontPath string // optional UTF-8 TTF for PDF export
	Logger      *slog.Logger
}

// Set holds one exporter per format.
type Set struct {
	dir       string
	exporters map[Format]Exporter
}

// NewSet creates the TXT, DOCX and PDF exporters writing into cfg.OutputDir.
func NewSet(cfg Config) *Set {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Set{
		dir: cfg.OutputDir,
		exporters: map[Format]Exporter{
			TXT:  &TXTExporter{Dir: cfg.OutputDir},
			DOCX: &DOCXExporter{Dir: cfg.OutputDir, LogoPath: cfg.LogoPath, Logger: cfg.Logger},
			PDF:  &PDFExporter{Dir: cfg.OutputDir, FontPath: cfg.PDFFontPath, Logger: cfg.Logger},
		},
	}
}

// Dir returns the output directory.
func (s *Set) Dir() string {
	return s.dir
}

// Get returns the exporter for f.
func (s *Set) Get(f Format) (Exporter, error) {
	e, ok := s.exporters[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return e, nil
}

// Replace swaps the exporter for its format.
func (s *Set) Replace(e Exporter) {
	s.exporters[e.Format()] = e
}

// OutputPath is the deterministic file path for a base name and format.
func OutputPath(dir, baseName string, f Format) string {
	return filepath.Join(dir, baseName+"."+f.Ext())
}

// OutputBase derives the export base name from an uploaded filename.
func OutputBase(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name)) + "_OCR"
}

func prepare(dir, baseName string, f Format) (string, error) {
	path := OutputPath(dir, baseName, f)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, &IOError{Format: f, Path: path, Err: err}
	}
	return path, nil
}
