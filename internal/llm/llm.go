package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wattanit/wcm/internal/anthropic"
	"github.com/wattanit/wcm/internal/config"
	"github.com/wattanit/wcm/internal/gemini"
	"github.com/wattanit/wcm/internal/httpx"
	"github.com/wattanit/wcm/internal/models"
	"github.com/wattanit/wcm/internal/ollama"
	"github.com/wattanit/wcm/internal/openai"
	"github.com/wattanit/wcm/internal/providers"
)

// MaxCategories is the most categories kept from one reply.
const MaxCategories = 5

// NewProvider builds the provider selected in cfg.
func NewProvider(cfg config.LLMConfig, httpClient httpx.Doer) (providers.Provider, error) {
	p, err := config.ParseProvider(string(cfg.Provider))
	if err != nil {
		return nil, err
	}

	switch p {
	case config.ProviderOllama:
		return ollama.New(cfg.Ollama.BaseURL, cfg.Ollama.Model, httpClient)
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, httpClient)
	case config.ProviderAnthropic:
		return anthropic.New(cfg.Anthropic.BaseURL, cfg.Anthropic.APIKey, cfg.Anthropic.Model, httpClient)
	case config.ProviderGemini:
		return gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", models.ErrNotConfigured, p)
	}
}

// Client turns book information into categories and synopses.
type Client struct {
	provider    providers.Provider
	temperature float64
}

func NewClient(provider providers.Provider, temperature float64) *Client {
	return &Client{provider: provider, temperature: temperature}
}

// SelectCategories asks for 3-5 categories out of vocabulary and returns the
// ones the reply actually names. An answer naming none is ErrNoValidCategories.
func (c *Client) SelectCategories(ctx context.Context, bookInfo string, vocabulary []string) ([]string, error) {
	reply, err := c.provider.Complete(ctx, providers.Request{
		Prompt:      CategoryPrompt(bookInfo, vocabulary),
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("category selection via %s: %w", c.provider.Name(), err)
	}
	slog.Debug("category reply", "provider", c.provider.Name(), "reply", reply)

	return ParseCategories(reply, vocabulary)
}

// GenerateSynopsis asks for a synopsis of about targetWords words.
func (c *Client) GenerateSynopsis(ctx context.Context, bookInfo string, targetWords int) (string, error) {
	reply, err := c.provider.Complete(ctx, providers.Request{
		Prompt:      SynopsisPrompt(bookInfo, targetWords),
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("synopsis generation via %s: %w", c.provider.Name(), err)
	}

	synopsis := CleanSynopsis(reply)
	if synopsis == "" {
		return "", fmt.Errorf("empty synopsis from %s: %w", c.provider.Name(), models.ErrInvalidResponse)
	}
	return synopsis, nil
}

func CategoryPrompt(bookInfo string, vocabulary []string) string {
	return fmt.Sprintf(`You are a librarian helping to categorize books. Based on the book information provided, select 3-5 categories that best describe this book.

BOOK INFORMATION:
%s

AVAILABLE CATEGORIES (you MUST choose ONLY from these exact categories):
%s

INSTRUCTIONS:
1. Select 3-5 categories from the list above that best fit this book
2. Consider genre, subject matter, target audience, and content type
3. Return ONLY the category names, separated by commas
4. Use the exact category names as listed above
5. Do not create new categories or modify existing ones

RESPONSE FORMAT: Category1, Category2, Category3, Category4, Category5`, bookInfo, strings.Join(vocabulary, ", "))
}

// ParseCategories splits a comma-separated reply and keeps the entries that
// match vocabulary case-insensitively, spelled as in vocabulary, without
// repeats, up to MaxCategories.
func ParseCategories(reply string, vocabulary []string) ([]string, error) {
	canonical := make(map[string]string, len(vocabulary))
	for _, name := range vocabulary {
		canonical[strings.ToLower(name)] = name
	}

	var selected []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(reply, ",") {
		key := strings.ToLower(strings.TrimSpace(part))
		if key == "" || seen[key] {
			continue
		}
		name, ok := canonical[key]
		if !ok {
			slog.Debug("dropping category outside vocabulary", "category", strings.TrimSpace(part))
			continue
		}
		seen[key] = true
		selected = append(selected, name)
		if len(selected) == MaxCategories {
			break
		}
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w in LLM response %q", models.ErrNoValidCategories, strings.TrimSpace(reply))
	}
	return selected, nil
}

func SynopsisPrompt(bookInfo string, targetWords int) string {
	return fmt.Sprintf(`Based on the book information provided, write a comprehensive synopsis of approximately %d words.

BOOK INFORMATION:
%s

INSTRUCTIONS:
1. Write a clear, engaging synopsis that captures the book's essence
2. Include main themes, plot elements (without major spoilers), and key characters
3. Target length: approximately %d words
4. Write in an informative yet engaging style suitable for a library catalog
5. Focus on what makes this book unique and interesting to potential readers

SYNOPSIS:`, targetWords, bookInfo, targetWords)
}

var synopsisPrefixes = []string{
	"**SYNOPSIS:**",
	"**SYNOPSIS**",
	"SYNOPSIS:",
	"**Synopsis:**",
	"**Synopsis**",
	"Synopsis:",
}

// CleanSynopsis trims the reply and strips one leading "Synopsis" heading.
func CleanSynopsis(reply string) string {
	s := strings.TrimSpace(reply)
	for _, prefix := range synopsisPrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
