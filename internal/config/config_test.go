package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattanit/wcm/internal/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_BOOKS_API_KEY", "BASEROW_API_TOKEN", "BASEROW_BASE_URL",
		"BASEROW_DATABASE_ID", "BASEROW_MEDIA_TABLE_ID", "BASEROW_CATEGORIES_TABLE_ID",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OLLAMA_URL", "WCM_LLM_PROVIDER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultGoogleBooksURL, cfg.GoogleBooks.BaseURL)
	assert.Equal(t, DefaultOpenLibraryURL, cfg.OpenLibrary.BaseURL)
	assert.Equal(t, 10, cfg.App.MaxSearchResults)
	assert.Equal(t, 50, cfg.App.MinSynopsisWords)
	assert.Equal(t, 150, cfg.App.TargetSynopsisWords)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, models.StatusInPlace, cfg.Baserow.DefaultStatus)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
google_books:
  api_key: your_google_books_api_key
baserow:
  api_token: tok
  base_url: https://baserow.example.com
  media_table_id: 10
  categories_table_id: 11
llm:
  provider: openai
  openai:
    api_key: sk-test
    model: gpt-4o
app:
  max_search_results: 5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GoogleBooks.Key(), "placeholder key must not be used")
	assert.Equal(t, uint64(10), cfg.Baserow.MediaTableID)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, DefaultOpenAIURL, cfg.LLM.OpenAI.BaseURL)
	assert.Equal(t, 5, cfg.App.MaxSearchResults)
	assert.Equal(t, 50, cfg.App.MinSynopsisWords)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[baserow]
api_token = "tok"
base_url = "https://baserow.example.com"
media_table_id = 20
categories_table_id = 21

[llm]
provider = "ollama"

[app]
min_synopsis_words = 40
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(21), cfg.Baserow.CategoriesTableID)
	assert.Equal(t, 40, cfg.App.MinSynopsisWords)
	assert.NoError(t, cfg.Validate())
}

func TestLoadUnsupportedExtension(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("x=1"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASEROW_API_TOKEN", "env-token")
	t.Setenv("BASEROW_MEDIA_TABLE_ID", "99")
	t.Setenv("BASEROW_CATEGORIES_TABLE_ID", "not-a-number")
	t.Setenv("WCM_LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Baserow.APIToken)
	assert.Equal(t, uint64(99), cfg.Baserow.MediaTableID)
	assert.Equal(t, uint64(0), cfg.Baserow.CategoriesTableID)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Baserow.APIToken = "tok"
		cfg.Baserow.BaseURL = "https://baserow.example.com"
		cfg.Baserow.MediaTableID = 1
		cfg.Baserow.CategoriesTableID = 2
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid ollama", mutate: func(*Config) {}, ok: true},
		{name: "placeholder token", mutate: func(c *Config) { c.Baserow.APIToken = "your_baserow_token" }},
		{name: "missing media table", mutate: func(c *Config) { c.Baserow.MediaTableID = 0 }},
		{name: "missing categories table", mutate: func(c *Config) { c.Baserow.CategoriesTableID = 0 }},
		{name: "openai without key", mutate: func(c *Config) { c.LLM.Provider = ProviderOpenAI }},
		{name: "openai with key", mutate: func(c *Config) {
			c.LLM.Provider = ProviderOpenAI
			c.LLM.OpenAI.APIKey = "sk-1"
		}, ok: true},
		{name: "anthropic placeholder", mutate: func(c *Config) {
			c.LLM.Provider = ProviderAnthropic
			c.LLM.Anthropic.APIKey = "your_anthropic_api_key"
		}},
		{name: "gemini without key", mutate: func(c *Config) { c.LLM.Provider = ProviderGemini }},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "cohere" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrNotConfigured), "got %v", err)
		})
	}
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
llm:
  temperature: 0
app:
  min_synopsis_words: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.LLM.Temperature)
	assert.Zero(t, cfg.App.MinSynopsisWords)
}

func TestLoadAbsentKeysUseDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app]\nmax_search_results = 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTemperature, cfg.LLM.Temperature)
	assert.Equal(t, DefaultMinSynopsisWords, cfg.App.MinSynopsisWords)
}

func TestLoadNormalizesProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     Provider
		model    string
	}{
		{name: "mixed case openai", provider: "OpenAI", want: ProviderOpenAI, model: DefaultOpenAIModel},
		{name: "upper anthropic", provider: "ANTHROPIC", want: ProviderAnthropic, model: DefaultAnthropicModel},
		{name: "padded gemini", provider: " Gemini ", want: ProviderGemini, model: DefaultGeminiModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: \""+tt.provider+"\"\n"), 0o644))

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLM.Provider)
			assert.Equal(t, tt.model, cfg.LLM.Selected().Model)
		})
	}
}
