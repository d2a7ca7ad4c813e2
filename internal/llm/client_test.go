package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/apperr"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":     "cmpl-test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	return string(b)
}

func TestGenerate_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("  An answer [1].  ")))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "test-model", 5*time.Second)
	out, err := c.Generate(context.Background(), Request{
		System:      "be factual",
		Prompt:      "question",
		MaxTokens:   128,
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "An answer [1]." {
		t.Errorf("out = %q, want trimmed completion", out)
	}

	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want system + user", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be factual" {
		t.Errorf("first message = %v, want system instruction", first)
	}
}

func TestGenerate_ErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, apperr.ErrQuotaExceeded},
		{http.StatusUnauthorized, apperr.ErrInvalidCredentials},
		{http.StatusInternalServerError, apperr.ErrUpstream},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			_, _ = w.Write([]byte(`{"error": {"message": "nope", "type": "test"}}`))
		}))
		c := New("test-key", srv.URL, "test-model", 5*time.Second)
		_, err := c.Generate(context.Background(), Request{Prompt: "q"})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
		srv.Close()
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "cmpl-test", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c := New("test-key", srv.URL, "test-model", 5*time.Second)
	_, err := c.Generate(context.Background(), Request{Prompt: "q"})
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
}
