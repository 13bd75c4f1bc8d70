package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestClient_GetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"server":"ok","runs":2}`))
	}))
	defer srv.Close()

	var resp struct {
		Server string `json:"server"`
		Runs   int    `json:"runs"`
	}
	if err := NewClient(srv.URL).Get(context.Background(), "/status", &resp); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resp.Server != "ok" || resp.Runs != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/plain" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad pages"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	err := client.Get(context.Background(), "/json", nil)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest || se.Message != "bad pages" {
		t.Errorf("ServerError = %+v", se)
	}

	err = client.Get(context.Background(), "/plain", nil)
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError || se.Message != "boom\n" {
		t.Errorf("ServerError = %+v", se)
	}
}

func TestClient_PostFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/raw" {
			w.Write(data)
			return
		}
		w.Write([]byte(`{"name":"` + hdr.Filename + `","mode":"` + r.FormValue("mode") + `","size":` + strconv.Itoa(len(data)) + `}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "scan.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	client := NewClient(srv.URL)

	var resp struct {
		Name string `json:"name"`
		Mode string `json:"mode"`
		Size int    `json:"size"`
	}
	if err := client.PostFile(context.Background(), "/upload", path, map[string]string{"mode": "polish"}, &resp); err != nil {
		t.Fatalf("PostFile failed: %v", err)
	}
	if resp.Name != "scan.pdf" || resp.Mode != "polish" || resp.Size != 8 {
		t.Errorf("resp = %+v", resp)
	}

	var buf bytes.Buffer
	if err := client.PostFileTo(context.Background(), "/raw", path, nil, &buf); err != nil {
		t.Fatalf("PostFileTo failed: %v", err)
	}
	if buf.String() != "%PDF-1.4" {
		t.Errorf("body = %q", buf.String())
	}
}

func TestClient_PostFileMissing(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := client.PostFile(context.Background(), "/upload", filepath.Join(t.TempDir(), "nope.pdf"), nil, nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestClient_DownloadAndDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/file":
			w.Write([]byte("exported text"))
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"no such export"}`))
		case r.Method == http.MethodDelete:
			w.Write([]byte(`{"cleared":3}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	var buf bytes.Buffer
	if err := client.Download(context.Background(), "/file", &buf); err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if buf.String() != "exported text" {
		t.Errorf("body = %q", buf.String())
	}

	buf.Reset()
	err := client.Download(context.Background(), "/missing", &buf)
	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 ServerError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("error body leaked into writer: %q", buf.String())
	}

	var cleared struct {
		Cleared int `json:"cleared"`
	}
	if err := client.Delete(context.Background(), "/api/history?confirm=true", &cleared); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if cleared.Cleared != 3 {
		t.Errorf("cleared = %d", cleared.Cleared)
	}
}
