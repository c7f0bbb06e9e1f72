package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAI_Review(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.MaxTokens != 4096 {
			t.Errorf("MaxTokens = %d, want default 4096", req.MaxTokens)
		}

		json.NewEncoder(w).Encode(openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "[]"}},
			},
		})
	}))
	defer server.Close()

	o := &OpenAI{
		apiKey:   "test-key",
		model:    "gpt-4o-mini",
		endpoint: server.URL,
		client:   server.Client(),
	}

	resp, err := o.Review(context.Background(), ReviewRequest{
		SystemPrompt: "test",
		UserPrompt:   "test",
	})
	if err != nil {
		t.Fatalf("Review error: %v", err)
	}
	if resp.Content != "[]" {
		t.Errorf("Content = %q, want %q", resp.Content, "[]")
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{})
	}))
	defer server.Close()

	o := &OpenAI{
		apiKey:   "test-key",
		model:    "gpt-4o-mini",
		endpoint: server.URL,
		client:   server.Client(),
	}

	_, err := o.Review(context.Background(), ReviewRequest{
		SystemPrompt: "test",
		UserPrompt:   "test",
	})
	if err == nil {
		t.Fatal("Expected error for response without choices")
	}
}

func TestNewOpenAI_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAI(Options{Model: "gpt-4o-mini"}); err == nil {
		t.Fatal("Expected error when OPENAI_API_KEY is unset")
	}

	t.Setenv("OPENAI_API_KEY", "test-key")
	o, err := NewOpenAI(Options{Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewOpenAI error: %v", err)
	}
	if o.endpoint != defaultOpenAIURL {
		t.Errorf("endpoint = %q, want default", o.endpoint)
	}
}

func TestOpenAI_Name(t *testing.T) {
	o := &OpenAI{}
	if o.Name() != "openai" {
		t.Errorf("Name() = %q, want %q", o.Name(), "openai")
	}
}
