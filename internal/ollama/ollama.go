package ollama

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

var _ providers.Provider = (*Ollama)(nil)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	baseURL    string
	model      string
	httpClient httpx.Doer
}

// New returns a new Ollama provider
func New(baseURL, model string, httpClient httpx.Doer) (*Ollama, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: ollama base URL is empty", models.ErrNotConfigured)
	}
	return &Ollama{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

// Complete sends the prompt to /api/generate without streaming
func (o *Ollama) Complete(ctx context.Context, r providers.Request) (string, error) {
	options := map[string]any{
		"temperature": r.Temperature,
	}
	if r.MaxTokens > 0 {
		options["num_predict"] = r.MaxTokens
	}

	requestBody, err := json.Marshal(map[string]any{
		"model":   o.model,
		"prompt":  r.Prompt,
		"stream":  false,
		"options": options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	httpx.SetUA(req)

	var response struct {
		Response string `json:"response"`
	}
	if err := httpx.DoJSON(o.httpClient, req, "Ollama", &response); err != nil {
		return "", err
	}

	if strings.TrimSpace(response.Response) == "" {
		return "", fmt.Errorf("empty response from Ollama: %w", models.ErrInvalidResponse)
	}
	return response.Response, nil
}
