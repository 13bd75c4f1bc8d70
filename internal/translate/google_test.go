package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/ocrstudio/internal/testutil"
)

func TestGoogleBackend_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_a/single" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sl") != "auto" || q.Get("tl") != "pl" || q.Get("q") != "Hello world. Bye." {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[["Witaj świecie. ","Hello world. ",null,null,10],["Pa.","Bye.",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	g := NewGoogleBackend(GoogleConfig{BaseURL: server.URL, Logger: testutil.DiscardLogger()})
	got, err := g.Translate(context.Background(), "Hello world. Bye.", "auto", "pl")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Witaj świecie. Pa." {
		t.Errorf("unexpected translation %q", got)
	}
}

func TestGoogleBackend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[[["ok","ok"]]]`))
	}))
	defer server.Close()

	g := NewGoogleBackend(GoogleConfig{
		BaseURL:    server.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Logger:     testutil.DiscardLogger(),
	})
	got, err := g.Translate(context.Background(), "ok", "auto", "pl")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "ok" || calls.Load() != 3 {
		t.Errorf("got %q after %d calls", got, calls.Load())
	}
}

func TestGoogleBackend_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	g := NewGoogleBackend(GoogleConfig{
		BaseURL:    server.URL,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Logger:     testutil.DiscardLogger(),
	})
	if _, err := g.Translate(context.Background(), "x", "auto", "pl"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestGoogleBackend_BestEffortFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	g := NewGoogleBackend(GoogleConfig{BaseURL: server.URL, Logger: testutil.DiscardLogger()})
	tr := NewBestEffort(g, Options{Logger: testutil.DiscardLogger()})
	out := tr.Attempt(context.Background(), "Hello")
	if out.Translated || out.Text != "Hello" {
		t.Errorf("expected untranslated fallback, got %+v", out)
	}
}

func TestParseGoogleResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"segments", `[[["a","x"],["b","y"]]]`, "ab", false},
		{"skips null segments", `[[["a","x"],[null,"y"]]]`, "a", false},
		{"empty array", `[]`, "", true},
		{"no translation", `[[]]`, "", true},
		{"not json", `<html>`, "", true},
		{"wrong shape", `["a"]`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGoogleResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
