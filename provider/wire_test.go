package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"thinky/model"
	"thinky/provider/testutil"
)

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIRequestBody struct {
	Model       string        `json:"model"`
	MaxTokens   int64         `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	Messages    []wireMessage `json:"messages"`
}

func openAIReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 0,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestOpenAICompleteSendsFullRequest(t *testing.T) {
	var got openAIRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header: got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openAIReply("  Take a deep breath.  ")))
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(server.URL+"/v1", "test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}

	reply, err := p.Complete(testContext(t), testutil.TestRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if reply != "Take a deep breath." {
		t.Errorf("reply should be trimmed, got %q", reply)
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("model: got %q", got.Model)
	}
	if got.MaxTokens != 500 {
		t.Errorf("max_tokens: got %d", got.MaxTokens)
	}
	if got.Temperature != 0.5 {
		t.Errorf("temperature: got %v", got.Temperature)
	}
	if len(got.Messages) != 5 {
		t.Fatalf("messages: got %d, want 5", len(got.Messages))
	}
	if got.Messages[0].Role != "system" {
		t.Errorf("first role: got %q", got.Messages[0].Role)
	}
	if got.Messages[4].Role != "user" || got.Messages[4].Content != "Yes please" {
		t.Errorf("last message: got %+v", got.Messages[4])
	}
}

func TestOpenAICompleteFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key","type":"invalid_request_error"}}`},
		{name: "empty reply", status: http.StatusOK, body: openAIReply("   "), wantErr: model.ErrEmptyReply},
		{name: "no choices", status: http.StatusOK, body: `{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`, wantErr: model.ErrEmptyReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := NewOpenAIProvider(server.URL+"/v1", "test-key", "")
			if err != nil {
				t.Fatalf("NewOpenAIProvider: %v", err)
			}

			reply, err := p.Complete(testContext(t), testutil.TestRequest())
			if err == nil {
				t.Fatalf("expected error, got reply %q", reply)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicComplete(t *testing.T) {
	var got struct {
		Model       string        `json:"model"`
		MaxTokens   int64         `json:"max_tokens"`
		Temperature float64       `json:"temperature"`
		System      []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []wireMessage `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5-20250929",` +
			`"content":[{"type":"text","text":"Try a short walk."}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer server.Close()

	p, err := NewAnthropicProvider(server.URL, "test-key", "")
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}

	reply, err := p.Complete(testContext(t), testutil.TestRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if reply != "Try a short walk." {
		t.Errorf("reply: got %q", reply)
	}
	if got.MaxTokens != 500 || got.Temperature != 0.5 {
		t.Errorf("max_tokens=%d temperature=%v", got.MaxTokens, got.Temperature)
	}
	if len(got.System) != 1 {
		t.Errorf("system blocks: got %d", len(got.System))
	}
	if len(got.Messages) != 4 {
		t.Errorf("messages: got %d, want 4", len(got.Messages))
	}
}

func TestOllamaComplete(t *testing.T) {
	var got struct {
		Model    string         `json:"model"`
		Stream   *bool          `json:"stream"`
		Options  map[string]any `json:"options"`
		Messages []wireMessage  `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3.1:latest","created_at":"2025-01-01T00:00:00Z",` +
			`"message":{"role":"assistant","content":"Stretch for a minute."},"done":true}` + "\n"))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(server.URL, "")
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}

	reply, err := p.Complete(testContext(t), testutil.TestRequest())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if reply != "Stretch for a minute." {
		t.Errorf("reply: got %q", reply)
	}
	if got.Stream == nil || *got.Stream {
		t.Error("expected a non-streaming request")
	}
	if got.Options["num_predict"] != float64(500) {
		t.Errorf("num_predict: got %v", got.Options["num_predict"])
	}
	if len(got.Messages) != 5 {
		t.Errorf("messages: got %d, want 5", len(got.Messages))
	}
}

func TestOllamaCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer server.Close()

	p, err := NewOllamaProvider(server.URL, "llama3.1")
	if err != nil {
		t.Fatalf("NewOllamaProvider: %v", err)
	}

	if _, err := p.Complete(testContext(t), testutil.TestRequest()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestProvidersImplementInterface(t *testing.T) {
	var _ model.Provider = (*OpenAIProvider)(nil)
	var _ model.Provider = (*AnthropicProvider)(nil)
	var _ model.Provider = (*OllamaProvider)(nil)
	var _ model.Provider = (*testutil.MockProvider)(nil)
}
