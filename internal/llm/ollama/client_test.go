package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recruit-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "llama3", 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestChatJSONSuccess(t *testing.T) {
	var gotPath string
	var gotBody chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": "{\"summary\":\"ok\"}"}}`))
	})

	raw, err := client.ChatJSON(context.Background(), "analyze this")
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if string(raw) != `{"summary":"ok"}` {
		t.Fatalf("unexpected payload %s", raw)
	}
	if gotPath != "/api/chat" {
		t.Fatalf("expected /api/chat, got %q", gotPath)
	}
	if gotBody.Stream {
		t.Fatalf("expected streaming disabled")
	}
	if gotBody.Format != "json" {
		t.Fatalf("expected json format, got %q", gotBody.Format)
	}
}

func TestChatJSONErrorField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	})

	_, err := client.ChatJSON(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Fatalf("expected error field surfaced, got %v", err)
	}
}

func TestChatJSONServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	})

	_, err := client.ChatJSON(context.Background(), "prompt")
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestChatJSONEmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": ""}}`))
	})

	if _, err := client.ChatJSON(context.Background(), "prompt"); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestNewClientRequiresConfiguration(t *testing.T) {
	if _, err := NewClient("", "llama3", time.Second); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured without URL, got %v", err)
	}
	if _, err := NewClient("http://localhost:11434", "", time.Second); !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured without model, got %v", err)
	}
}
