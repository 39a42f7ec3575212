package providers

import (
	"context"
)

// Request is a single-prompt completion request.
type Request struct {
	Prompt      string
	Temperature float64
	// MaxTokens of 0 lets the provider pick its default.
	MaxTokens int
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
