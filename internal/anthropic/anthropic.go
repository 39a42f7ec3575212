// Package anthropic provides an LLM provider using the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/wattanit/wcm/internal/httpx"
	"github.com/wattanit/wcm/internal/models"
	"github.com/wattanit/wcm/internal/providers"
)

var _ providers.Provider = (*Anthropic)(nil)

const (
	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	DefaultMaxTokens = 1000
)

type Anthropic struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient httpx.Doer
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func New(baseURL, apiKey, model string, httpClient httpx.Doer) (*Anthropic, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key is empty", models.ErrNotConfigured)
	}
	return &Anthropic{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

// Complete posts the prompt to /v1/messages and joins the text blocks of
// the reply.
func (a *Anthropic) Complete(ctx context.Context, r providers.Request) (string, error) {
	maxTokens := r.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:       a.model,
		Messages:    []message{{Role: "user", Content: r.Prompt}},
		MaxTokens:   maxTokens,
		Temperature: r.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	httpx.SetUA(req)

	var resp messagesResponse
	if err := httpx.DoJSON(a.httpClient, req, "Anthropic", &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content returned from Anthropic: %w", models.ErrInvalidResponse)
	}
	return sb.String(), nil
}
