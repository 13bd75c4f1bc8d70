// Package document holds an opened PDF and renders its pages to bitmaps.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gen2brain/go-fitz"
)

var (
	// ErrOutOfRange is returned when a page index is not below the page count.
	ErrOutOfRange = errors.New("page index out of range")

	// ErrNotPDF is returned when the input does not carry a PDF header.
	ErrNotPDF = errors.New("input is not a PDF document")

	// ErrInvalidDPI is returned for a non-positive rasterization resolution.
	ErrInvalidDPI = errors.New("dpi must be positive")
)

var pdfMagic = []byte("%PDF-")

// Document is an opened PDF. It is immutable once loaded and must be
// closed by the session that opened it.
type Document struct {
	name  string
	data  []byte
	pages int

	mu  sync.Mutex
	doc *fitz.Document
}

// Open loads a PDF from memory. name is the original upload filename.
func Open(name string, data []byte) (*Document, error) {
	if !looksLikePDF(data) {
		return nil, ErrNotPDF
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	return &Document{
		name:  filepath.Base(name),
		data:  data,
		pages: doc.NumPage(),
		doc:   doc,
	}, nil
}

// OpenFile loads a PDF from disk.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	return Open(path, data)
}

func looksLikePDF(data []byte) bool {
	// Some producers emit a few junk bytes before the header.
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, pdfMagic)
}

// Name returns the original filename.
func (d *Document) Name() string {
	return d.name
}

// BaseName returns the filename without its extension.
func (d *Document) BaseName() string {
	return strings.TrimSuffix(d.name, filepath.Ext(d.name))
}

// Bytes returns the raw PDF bytes.
func (d *Document) Bytes() []byte {
	return d.data
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pages
}

// Rasterize renders the page at the zero-based index to an RGB bitmap whose
// size is the page's native size scaled by dpi/72.
func (d *Document) Rasterize(index, dpi int) (*image.RGBA, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}
	if index < 0 || index >= d.pages {
		return nil, fmt.Errorf("%w: %d (pages: %d)", ErrOutOfRange, index, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil, errors.New("document is closed")
	}

	img, err := d.doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index+1, err)
	}
	return img, nil
}

// PageBounds returns the native page size in points.
func (d *Document) PageBounds(index int) (image.Rectangle, error) {
	if index < 0 || index >= d.pages {
		return image.Rectangle{}, fmt.Errorf("%w: %d (pages: %d)", ErrOutOfRange, index, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return image.Rectangle{}, errors.New("document is closed")
	}
	return d.doc.Bound(index)
}

// Close releases the underlying renderer.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.doc == nil {
		return nil
	}
	err := d.doc.Close()
	d.doc = nil
	return err
}
