package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// TXTExporter writes UTF-8 plain text with a marker line before each page.
type TXTExporter struct {
	Dir string
}

// Format implements Exporter.
func (e *TXTExporter) Format() Format {
	return TXT
}

// Export implements Exporter.
func (e *TXTExporter) Export(ctx context.Context, pages []string, baseName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := prepare(e.Dir, baseName, TXT)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &IOError{Format: TXT, Path: path, Err: err}
	}

	w := bufio.NewWriter(f)
	for i, text := range pages {
		fmt.Fprintf(w, "--- %s ---\n", PageHeader(i+1))
		w.WriteString(strings.TrimRightFunc(text, unicode.IsSpace))
		w.WriteString("\n\n")
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return "", &IOError{Format: TXT, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &IOError{Format: TXT, Path: path, Err: err}
	}
	return path, nil
}
