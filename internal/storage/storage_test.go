package storage

import (
	"context"
	"errors"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		runID  string
		path   string
		want   string
	}{
		{"all parts", "exports", "run-1", "/tmp/out/scan_OCR.txt", "exports/run-1/scan_OCR.txt"},
		{"trimmed prefix", "/exports/", "run-1", "scan_OCR.pdf", "exports/run-1/scan_OCR.pdf"},
		{"no prefix", "", "run-1", "scan_OCR.docx", "run-1/scan_OCR.docx"},
		{"basename only", "", "", "/a/b/scan_OCR.txt", "scan_OCR.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ObjectKey(tt.prefix, tt.runID, tt.path); got != tt.want {
				t.Errorf("ObjectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.txt":  "text/plain; charset=utf-8",
		"a.PDF":  "application/pdf",
		"a.docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"a.bin":  "application/octet-stream",
	}
	for in, want := range tests {
		if got := ContentType(in); got != want {
			t.Errorf("ContentType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNop(t *testing.T) {
	loc, err := Nop{}.Mirror(context.Background(), "run", "file.txt")
	if err != nil || loc != "" {
		t.Errorf("Nop.Mirror() = %q, %v", loc, err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(context.Background(), Config{Bucket: "b"}); !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("missing endpoint error = %v", err)
	}
	if _, err := New(context.Background(), Config{Endpoint: "localhost:9000"}); !errors.Is(err, ErrNoBucket) {
		t.Errorf("missing bucket error = %v", err)
	}
}
