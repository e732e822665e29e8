package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// newTestClient points an OpenAI client at handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var got openai.ImageRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization: got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created":1,"data":[{"url":"https://example/img.png"},{"url":"https://example/other.png"}]}`))
	})

	gen := NewOpenAIGenerator(client, openai.CreateImageModelDallE2)
	img, err := gen.Generate(context.Background(), Request{Prompt: "a red fox", Size: Size1024})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if img.URL != "https://example/img.png" {
		t.Errorf("URL: got %s, want first entry", img.URL)
	}
	if got.Prompt != "a red fox" {
		t.Errorf("prompt: got %q", got.Prompt)
	}
	if got.N != 1 {
		t.Errorf("n: got %d, want 1", got.N)
	}
	if got.Size != Size1024 {
		t.Errorf("size: got %q", got.Size)
	}
	if got.Model != openai.CreateImageModelDallE2 {
		t.Errorf("model: got %q", got.Model)
	}
	if got.ResponseFormat != openai.CreateImageResponseFormatURL {
		t.Errorf("response_format: got %q", got.ResponseFormat)
	}
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"requests"}}`))
	})

	gen := NewOpenAIGenerator(client, openai.CreateImageModelDallE2)
	_, err := gen.Generate(context.Background(), Request{Prompt: "p", Size: Size512})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("error should carry API message, got %q", err.Error())
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *openai.APIError in chain, got %T", err)
	}
	if apiErr.HTTPStatusCode != http.StatusTooManyRequests {
		t.Errorf("status: got %d", apiErr.HTTPStatusCode)
	}
}

type stubCreator struct {
	resp openai.ImageResponse
	err  error
}

func (s stubCreator) CreateImage(context.Context, openai.ImageRequest) (openai.ImageResponse, error) {
	return s.resp, s.err
}

func TestOpenAIGenerator_EmptyData(t *testing.T) {
	gen := NewOpenAIGenerator(stubCreator{}, "dall-e-2")
	_, err := gen.Generate(context.Background(), Request{Prompt: "p", Size: Size256})
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("got %v, want ErrNoImage", err)
	}
}

func TestOpenAIGenerator_RevisedPrompt(t *testing.T) {
	gen := NewOpenAIGenerator(stubCreator{resp: openai.ImageResponse{
		Data: []openai.ImageResponseDataInner{{URL: "https://example/a.png", RevisedPrompt: "a fox, red"}},
	}}, "dall-e-3")

	img, err := gen.Generate(context.Background(), Request{Prompt: "p", Size: Size1024})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if img.RevisedPrompt != "a fox, red" {
		t.Errorf("RevisedPrompt: got %q", img.RevisedPrompt)
	}
}
