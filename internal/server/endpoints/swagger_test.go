package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAPIDoc_Host(t *testing.T) {
	doc, err := openAPIDoc("")
	if err != nil {
		t.Fatalf("openAPIDoc: %v", err)
	}
	if doc["host"] != "localhost:8080" {
		t.Errorf("host = %v, want generated default", doc["host"])
	}

	doc, err = openAPIDoc("10.0.0.5:9000")
	if err != nil {
		t.Fatalf("openAPIDoc: %v", err)
	}
	if doc["host"] != "10.0.0.5:9000" {
		t.Errorf("host = %v, want request host", doc["host"])
	}
}

func TestRouteSummaries(t *testing.T) {
	doc, err := openAPIDoc("")
	if err != nil {
		t.Fatalf("openAPIDoc: %v", err)
	}
	routes := routeSummaries(doc)

	found := false
	for i, r := range routes {
		if i > 0 {
			prev := routes[i-1]
			if prev.Path > r.Path || (prev.Path == r.Path && prev.Method > r.Method) {
				t.Errorf("routes out of order at %s %s", r.Method, r.Path)
			}
		}
		if r.Method == "POST" && r.Path == "/api/runs" {
			found = true
			if r.Tag != "runs" || r.Summary == "" {
				t.Errorf("POST /api/runs = %+v", r)
			}
		}
	}
	if !found {
		t.Error("POST /api/runs not listed")
	}
}

func TestSwaggerEndpoint_UsesRequestHost(t *testing.T) {
	_, _, h := (&SwaggerEndpoint{}).Route()
	req := httptest.NewRequest(http.MethodGet, "http://ocr.internal:7000/swagger.json", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["host"] != "ocr.internal:7000" {
		t.Errorf("host = %v", doc["host"])
	}
}

func TestSwaggerUIEndpoint(t *testing.T) {
	_, _, h := (&SwaggerUIEndpoint{}).Route()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/swagger", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "<title>ocrstudio API</title>") {
		t.Error("page title missing")
	}
	if !strings.Contains(body, "url: '/swagger.json'") {
		t.Error("document url missing")
	}
}
