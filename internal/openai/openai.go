package openai

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

var _ providers.Provider = (*OpenAI)(nil)

// DefaultMaxTokens caps the completion length when the request leaves it unset.
const DefaultMaxTokens = 1000

// OpenAI is a provider for the OpenAI chat completions API
type OpenAI struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient httpx.Doer
}

// New returns a new OpenAI provider
func New(baseURL, apiKey, model string, httpClient httpx.Doer) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is empty", models.ErrNotConfigured)
	}
	return &OpenAI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

// Complete sends the prompt as a single user message
func (o *OpenAI) Complete(ctx context.Context, r providers.Request) (string, error) {
	maxTokens := r.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": o.model,
		"messages": []map[string]string{
			{
				"role":    "user",
				"content": r.Prompt,
			},
		},
		"max_tokens":  maxTokens,
		"temperature": r.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpx.SetUA(req)

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := httpx.DoJSON(o.httpClient, req, "OpenAI", &response); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI: %w", models.ErrInvalidResponse)
	}

	return response.Choices[0].Message.Content, nil
}
