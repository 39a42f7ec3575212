package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/wattanit/wcm/internal/models"
	"github.com/wattanit/wcm/internal/providers"
)

var _ providers.Provider = (*Gemini)(nil)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
	model  string
}

// New returns a new Gemini provider
func New(apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is empty", models.ErrNotConfigured)
	}
	return &Gemini{apiKey: apiKey, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Complete generates a reply to the prompt with a short-lived client
func (g *Gemini) Complete(ctx context.Context, r providers.Request) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %v: %w", err, models.ErrTransport)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(float32(r.Temperature))
	if r.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(r.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(r.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %v: %w", err, models.ErrTransport)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini: %w", models.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini: %w", models.ErrInvalidResponse)
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", fmt.Errorf("unexpected response format from Gemini: %w", models.ErrInvalidResponse)
}
