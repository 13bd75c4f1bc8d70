package translate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIBackend_Translate(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "Dzień dobry"}}]
		}`))
	}))
	defer server.Close()

	b := NewOpenAIBackend(OpenAIConfig{APIKey: "test-key", BaseURL: server.URL})
	got, err := b.Translate(context.Background(), "Good morning", "auto", "pl")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "Dzień dobry" {
		t.Errorf("unexpected translation %q", got)
	}

	if payload["model"] != "gpt-4o-mini" {
		t.Errorf("unexpected model %v", payload["model"])
	}
	msgs, _ := payload["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	system, _ := msgs[0].(map[string]any)
	if content, _ := system["content"].(string); !strings.Contains(content, "pl") {
		t.Errorf("system prompt should name the target: %q", content)
	}
}

func TestOpenAIBackend_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	b := NewOpenAIBackend(OpenAIConfig{APIKey: "bad", BaseURL: server.URL})
	_, err := b.Translate(context.Background(), "Hi", "auto", "pl")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestSystemPrompt(t *testing.T) {
	if p := systemPrompt("auto", "pl"); !strings.Contains(p, "the source language") {
		t.Errorf("auto source should not name a language: %q", p)
	}
	if p := systemPrompt("en", "pl"); !strings.Contains(p, "language code en") {
		t.Errorf("explicit source should be named: %q", p)
	}
}
