package providers

import (
	"context"
	"fmt"
	"time"
)

// ReviewRequest contains the data sent to an LLM for review.
type ReviewRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ReviewResponse contains the raw response from an LLM. Parsing the content
// into findings is the caller's concern.
type ReviewResponse struct {
	Content string
}

// Reviewer is the provider abstraction interface.
type Reviewer interface {
	Review(ctx context.Context, req ReviewRequest) (ReviewResponse, error)
	Name() string
}

// Options configure a provider instance.
type Options struct {
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// New creates a provider by name.
func New(provider string, opts Options) (Reviewer, error) {
	switch provider {
	case "ollama", "lmstudio":
		return NewOllama(opts)
	case "openai":
		return NewOpenAI(opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
