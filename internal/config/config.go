package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/wattanit/wcm/internal/models"
)

// Provider names an LLM backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Providers lists every supported LLM backend.
var Providers = []Provider{ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderGemini}

// ParseProvider matches s case-insensitively against Providers.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported LLM provider %q (supported: ollama, openai, anthropic, gemini)", models.ErrNotConfigured, s)
}

const (
	DefaultGoogleBooksURL      = "https://www.googleapis.com/books/v1"
	DefaultOpenLibraryURL      = "https://openlibrary.org"
	DefaultOllamaURL           = "http://localhost:11434"
	DefaultOllamaModel         = "llama3.2"
	DefaultOpenAIURL           = "https://api.openai.com/v1"
	DefaultOpenAIModel         = "gpt-4o-mini"
	DefaultAnthropicURL        = "https://api.anthropic.com"
	DefaultAnthropicModel      = "claude-3-5-sonnet-latest"
	DefaultGeminiModel         = "gemini-1.5-flash"
	DefaultMaxSearchResults    = 10
	DefaultMinSynopsisWords    = 50
	DefaultTargetSynopsisWords = 150
	DefaultPhysicalMediaType   = 3026
	DefaultEbookMediaType      = 3027
	DefaultTemperature         = 0.7
)

type Config struct {
	GoogleBooks GoogleBooksConfig `yaml:"google_books" toml:"google_books"`
	OpenLibrary OpenLibraryConfig `yaml:"open_library" toml:"open_library"`
	Baserow     BaserowConfig     `yaml:"baserow" toml:"baserow"`
	LLM         LLMConfig         `yaml:"llm" toml:"llm"`
	App         AppConfig         `yaml:"app" toml:"app"`
}

type GoogleBooksConfig struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

// Key returns the API key, or "" when it is unset or still a placeholder.
func (g GoogleBooksConfig) Key() string {
	if isPlaceholder(g.APIKey) {
		return ""
	}
	return g.APIKey
}

type OpenLibraryConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type BaserowConfig struct {
	APIToken          string `yaml:"api_token" toml:"api_token"`
	BaseURL           string `yaml:"base_url" toml:"base_url"`
	DatabaseID        uint64 `yaml:"database_id" toml:"database_id"`
	MediaTableID      uint64 `yaml:"media_table_id" toml:"media_table_id"`
	CategoriesTableID uint64 `yaml:"categories_table_id" toml:"categories_table_id"`
	PhysicalMediaType uint64 `yaml:"physical_media_type" toml:"physical_media_type"`
	EbookMediaType    uint64 `yaml:"ebook_media_type" toml:"ebook_media_type"`
	DefaultStatus     uint64 `yaml:"default_status" toml:"default_status"`
}

type LLMConfig struct {
	Provider    Provider       `yaml:"provider" toml:"provider"`
	Temperature float64        `yaml:"temperature" toml:"temperature"`
	Ollama      ProviderConfig `yaml:"ollama" toml:"ollama"`
	OpenAI      ProviderConfig `yaml:"openai" toml:"openai"`
	Anthropic   ProviderConfig `yaml:"anthropic" toml:"anthropic"`
	Gemini      ProviderConfig `yaml:"gemini" toml:"gemini"`
}

// ProviderConfig holds the settings of one LLM backend. BaseURL is unused
// by Gemini, APIKey by Ollama.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key" toml:"api_key"`
	Model   string `yaml:"model" toml:"model"`
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

type AppConfig struct {
	Verbose             bool `yaml:"verbose" toml:"verbose"`
	MaxSearchResults    int  `yaml:"max_search_results" toml:"max_search_results"`
	MinSynopsisWords    int  `yaml:"min_synopsis_words" toml:"min_synopsis_words"`
	TargetSynopsisWords int  `yaml:"target_synopsis_words" toml:"target_synopsis_words"`
}

// Default returns a Config populated with every default value.
func Default() *Config {
	return &Config{
		GoogleBooks: GoogleBooksConfig{BaseURL: DefaultGoogleBooksURL},
		OpenLibrary: OpenLibraryConfig{BaseURL: DefaultOpenLibraryURL},
		Baserow: BaserowConfig{
			PhysicalMediaType: DefaultPhysicalMediaType,
			EbookMediaType:    DefaultEbookMediaType,
			DefaultStatus:     models.StatusInPlace,
		},
		LLM: LLMConfig{
			Provider:    ProviderOllama,
			Temperature: DefaultTemperature,
			Ollama:      ProviderConfig{BaseURL: DefaultOllamaURL, Model: DefaultOllamaModel},
			OpenAI:      ProviderConfig{BaseURL: DefaultOpenAIURL, Model: DefaultOpenAIModel},
			Anthropic:   ProviderConfig{BaseURL: DefaultAnthropicURL, Model: DefaultAnthropicModel},
			Gemini:      ProviderConfig{Model: DefaultGeminiModel},
		},
		App: AppConfig{
			MaxSearchResults:    DefaultMaxSearchResults,
			MinSynopsisWords:    DefaultMinSynopsisWords,
			TargetSynopsisWords: DefaultTargetSynopsisWords,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error. The format follows the file extension.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Debug("config file not found, using defaults", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.fillDefaults()
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse TOML config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *uint64) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			slog.Warn("ignoring non-numeric environment override", "key", key, "value", v)
			return
		}
		*dst = n
	}

	str("GOOGLE_BOOKS_API_KEY", &c.GoogleBooks.APIKey)
	str("BASEROW_API_TOKEN", &c.Baserow.APIToken)
	str("BASEROW_BASE_URL", &c.Baserow.BaseURL)
	num("BASEROW_DATABASE_ID", &c.Baserow.DatabaseID)
	num("BASEROW_MEDIA_TABLE_ID", &c.Baserow.MediaTableID)
	num("BASEROW_CATEGORIES_TABLE_ID", &c.Baserow.CategoriesTableID)
	str("OPENAI_API_KEY", &c.LLM.OpenAI.APIKey)
	str("ANTHROPIC_API_KEY", &c.LLM.Anthropic.APIKey)
	str("GEMINI_API_KEY", &c.LLM.Gemini.APIKey)
	str("OLLAMA_URL", &c.LLM.Ollama.BaseURL)

	if v, ok := lookup("WCM_LLM_PROVIDER"); ok && v != "" {
		c.LLM.Provider = Provider(strings.ToLower(strings.TrimSpace(v)))
	}
}

// fillDefaults restores defaults for keys a config file blanked out.
func (c *Config) fillDefaults() {
	d := Default()
	setStr := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	setInt := func(dst *int, def int) {
		if *dst <= 0 {
			*dst = def
		}
	}

	setStr(&c.GoogleBooks.BaseURL, d.GoogleBooks.BaseURL)
	setStr(&c.OpenLibrary.BaseURL, d.OpenLibrary.BaseURL)
	setStr(&c.LLM.Ollama.BaseURL, d.LLM.Ollama.BaseURL)
	setStr(&c.LLM.Ollama.Model, d.LLM.Ollama.Model)
	setStr(&c.LLM.OpenAI.BaseURL, d.LLM.OpenAI.BaseURL)
	setStr(&c.LLM.OpenAI.Model, d.LLM.OpenAI.Model)
	setStr(&c.LLM.Anthropic.BaseURL, d.LLM.Anthropic.BaseURL)
	setStr(&c.LLM.Anthropic.Model, d.LLM.Anthropic.Model)
	setStr(&c.LLM.Gemini.Model, d.LLM.Gemini.Model)
	setInt(&c.App.MaxSearchResults, d.App.MaxSearchResults)
	setInt(&c.App.TargetSynopsisWords, d.App.TargetSynopsisWords)

	// Zero is a valid threshold and temperature.
	if c.App.MinSynopsisWords < 0 {
		c.App.MinSynopsisWords = d.App.MinSynopsisWords
	}
	if c.LLM.Temperature < 0 {
		c.LLM.Temperature = d.LLM.Temperature
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = d.LLM.Provider
	}
	if p, err := ParseProvider(string(c.LLM.Provider)); err == nil {
		c.LLM.Provider = p
	}
	if c.Baserow.PhysicalMediaType == 0 {
		c.Baserow.PhysicalMediaType = d.Baserow.PhysicalMediaType
	}
	if c.Baserow.EbookMediaType == 0 {
		c.Baserow.EbookMediaType = d.Baserow.EbookMediaType
	}
	if c.Baserow.DefaultStatus == 0 {
		c.Baserow.DefaultStatus = d.Baserow.DefaultStatus
	}
}

// Validate reports the first missing or placeholder setting.
func (c *Config) Validate() error {
	if err := c.Baserow.Validate(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// Validate checks the datastore credentials and table ids.
func (b BaserowConfig) Validate() error {
	if isPlaceholder(b.APIToken) {
		return notConfigured("baserow.api_token (or BASEROW_API_TOKEN)")
	}
	if b.BaseURL == "" {
		return notConfigured("baserow.base_url (or BASEROW_BASE_URL)")
	}
	if b.MediaTableID == 0 {
		return notConfigured("baserow.media_table_id (or BASEROW_MEDIA_TABLE_ID)")
	}
	if b.CategoriesTableID == 0 {
		return notConfigured("baserow.categories_table_id (or BASEROW_CATEGORIES_TABLE_ID)")
	}
	return nil
}

// Selected returns the settings of the configured provider.
func (l LLMConfig) Selected() ProviderConfig {
	switch l.Provider {
	case ProviderOpenAI:
		return l.OpenAI
	case ProviderAnthropic:
		return l.Anthropic
	case ProviderGemini:
		return l.Gemini
	default:
		return l.Ollama
	}
}

// Validate checks the selected provider has what it needs.
func (l LLMConfig) Validate() error {
	p, err := ParseProvider(string(l.Provider))
	if err != nil {
		return err
	}

	switch p {
	case ProviderOllama:
		if l.Ollama.BaseURL == "" {
			return notConfigured("llm.ollama.base_url (or OLLAMA_URL)")
		}
	case ProviderOpenAI:
		if isPlaceholder(l.OpenAI.APIKey) {
			return notConfigured("llm.openai.api_key (or OPENAI_API_KEY)")
		}
	case ProviderAnthropic:
		if isPlaceholder(l.Anthropic.APIKey) {
			return notConfigured("llm.anthropic.api_key (or ANTHROPIC_API_KEY)")
		}
	case ProviderGemini:
		if isPlaceholder(l.Gemini.APIKey) {
			return notConfigured("llm.gemini.api_key (or GEMINI_API_KEY)")
		}
	}
	return nil
}

func notConfigured(field string) error {
	return fmt.Errorf("%w: %s is missing or still a placeholder", models.ErrNotConfigured, field)
}

// isPlaceholder reports whether a credential is empty or a template value
// such as "your_api_key_here".
func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.Contains(strings.ToLower(v), "your_")
}
