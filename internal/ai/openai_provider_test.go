package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func makeTestServer(t *testing.T, statusCode int, body any) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func replyWith(content string) map[string]any {
	return map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": content}},
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, replyWith("#senior #remote"))

	provider := NewOpenAIProvider(srv.URL, "test-model", client)
	got, err := provider.Generate(context.Background(), "key", "tag this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "#senior #remote" {
		t.Errorf("got %q", got)
	}
}

func TestGenerate_HTTPError(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusInternalServerError, map[string]string{"error": "server error"})

	provider := NewOpenAIProvider(srv.URL, "test-model", client)
	_, err := provider.Generate(context.Background(), "key", "tag this")
	if err == nil {
		t.Fatal("expected error on 5xx response")
	}
	if errors.Is(err, ErrTooManyRequests) || errors.Is(err, ErrResourceExhausted) {
		t.Errorf("5xx should not be classified as throttling: %v", err)
	}
}

func TestGenerate_QuotaExhausted(t *testing.T) {
	body := map[string]any{"error": map[string]any{"code": 429, "status": "RESOURCE_EXHAUSTED"}}
	srv, client := makeTestServer(t, http.StatusTooManyRequests, body)

	provider := NewOpenAIProvider(srv.URL, "test-model", client)
	_, err := provider.Generate(context.Background(), "key", "tag this")
	if !errors.Is(err, ErrResourceExhausted) {
		t.Fatalf("err = %v, want ErrResourceExhausted", err)
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusTooManyRequests, map[string]string{"error": "slow down"})

	provider := NewOpenAIProvider(srv.URL, "test-model", client)
	_, err := provider.Generate(context.Background(), "key", "tag this")
	if !errors.Is(err, ErrTooManyRequests) {
		t.Fatalf("err = %v, want ErrTooManyRequests", err)
	}
}

func TestGenerate_EmptyChoicesIsEmptyReply(t *testing.T) {
	srv, client := makeTestServer(t, http.StatusOK, map[string]any{"choices": []any{}})

	provider := NewOpenAIProvider(srv.URL, "test-model", client)
	got, err := provider.Generate(context.Background(), "key", "tag this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestGenerate_SetsAuthHeaderPerCall(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(replyWith("ok"))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-model", srv.Client())
	_, _ = provider.Generate(context.Background(), "first-key", "hello")
	_, _ = provider.Generate(context.Background(), "second-key", "hello")

	if len(gotAuth) != 2 || gotAuth[0] != "Bearer first-key" || gotAuth[1] != "Bearer second-key" {
		t.Errorf("Authorization headers = %v", gotAuth)
	}
}

func TestGenerate_SendsModelAndPrompt(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(replyWith(""))
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL+"/", "gemini-2.0-flash", srv.Client())
	_, _ = provider.Generate(context.Background(), "key", "tag this")

	if gotReq.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[1].Content != "tag this" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}
