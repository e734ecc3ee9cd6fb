package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL: url,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: timeout,
		Headers: map[string]string{
			"HTTP-Referer": "https://example.test",
			"X-Title":      "Test App",
			"X-Empty":      "",
		},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestComplete_Success(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if ref := r.Header.Get("HTTP-Referer"); ref != "https://example.test" {
			t.Errorf("unexpected referer header %q", ref)
		}
		if title := r.Header.Get("X-Title"); title != "Test App" {
			t.Errorf("unexpected title header %q", title)
		}
		if _, ok := r.Header["X-Empty"]; ok {
			t.Error("expected empty headers to be skipped")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("invalid request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Hello!"}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL+"/", 5*time.Second)
	reply, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be nice"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hello!" {
		t.Errorf("expected 'Hello!', got %q", reply)
	}
	if got.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hi" {
		t.Errorf("unexpected messages sent: %#v", got.Messages)
	}
	if got.MaxTokens != 0 {
		t.Errorf("expected max_tokens to be omitted, got %d", got.MaxTokens)
	}
}

func TestComplete_NullContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":null}}]}`))
	}))
	defer server.Close()

	reply, err := newTestClient(t, server.URL, 5*time.Second).Complete(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "" {
		t.Errorf("expected empty reply, got %q", reply)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 5*time.Second).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusTooManyRequests || pe.HTTPStatus() != http.StatusTooManyRequests {
		t.Errorf("unexpected status %d", pe.StatusCode)
	}
	if string(pe.UpstreamPayload()) != `{"error":{"message":"rate limited"}}` {
		t.Errorf("unexpected payload %s", pe.UpstreamPayload())
	}
}

func TestComplete_NonJSONUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 5*time.Second).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if string(pe.UpstreamPayload()) != `"upstream down"` {
		t.Errorf("expected quoted payload, got %s", pe.UpstreamPayload())
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 5*time.Second).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.HTTPStatus() != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", pe.HTTPStatus())
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL, 5*time.Second).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.HTTPStatus() != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", pe.HTTPStatus())
	}
}

func TestComplete_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url, 5*time.Second).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", pe.StatusCode)
	}
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestClient(t, server.URL, 50*time.Millisecond).Complete(context.Background(), nil)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.StatusCode != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", pe.StatusCode)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatal("expected error without api key")
	}

	client, err := NewClient(Config{APIKey: "k"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if client.Model() != DefaultModel {
		t.Errorf("expected default model, got %q", client.Model())
	}
	if client.endpoint != DefaultBaseURL+"/chat/completions" {
		t.Errorf("unexpected endpoint %q", client.endpoint)
	}
}
