package arbtrans

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the arbtrans CLI and library
// consumers. It is read-only after LoadConfig returns.
type Config struct {
	Provider    ProviderSettings    `yaml:"provider"`
	Translation TranslationSettings `yaml:"translation"`
	Cache       CacheSettings       `yaml:"cache"`
	Memory      MemorySettings      `yaml:"memory"`
}

// ProviderSettings selects and configures the AI provider.
type ProviderSettings struct {
	Name              string `yaml:"name"`  // Provider name (default: "openai")
	Model             string `yaml:"model"` // Model identifier
	APIKey            string `yaml:"-"`     // env-only, never in YAML
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	MaxRetries        int    `yaml:"max_retries"`
}

// TranslationSettings holds defaults for translation runs.
type TranslationSettings struct {
	SourceLang    string            `yaml:"source_lang"`
	Languages     []string          `yaml:"languages"`
	Context       string            `yaml:"context"`
	ExcludedTerms []string          `yaml:"excluded_terms"`
	Glossary      map[string]string `yaml:"glossary"`
	Style         TranslationStyle  `yaml:"style"`
}

// CacheSettings configures the exact-match cache.
type CacheSettings struct {
	TTLSeconds int    `yaml:"ttl_seconds"`
	RedisURL   string `yaml:"redis_url"` // empty = in-memory cache
}

// MemorySettings configures the persistent translation memory.
type MemorySettings struct {
	Path             string   `yaml:"path"`
	Capacity         int      `yaml:"capacity"`
	AutoSaveInterval Duration `yaml:"auto_save_interval"`
}

// Duration is a wrapper around time.Duration that supports YAML string
// parsing ("5m", "30s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderSettings{
			Name:              "openai",
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 60,
			MaxRetries:        3,
		},
		Translation: TranslationSettings{
			SourceLang: "en",
			Style:      StyleNeutral,
		},
		Cache: CacheSettings{
			TTLSeconds: 3600,
		},
		Memory: MemorySettings{
			Path:             ".arbtrans/memory.json",
			Capacity:         10000,
			AutoSaveInterval: Duration(5 * time.Minute),
		},
	}
}

// LoadConfig loads configuration with precedence: defaults, then the YAML
// file at path (a missing file is not an error), then environment
// variables. The API key is env-only and never read from YAML.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if key := os.Getenv("ARBTRANS_API_KEY"); key != "" {
		cfg.Provider.APIKey = key
	} else {
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Provider.Name == "" {
		return errors.New("provider.name must not be empty")
	}
	if c.Memory.Capacity < 0 {
		return fmt.Errorf("memory.capacity must not be negative, got %d", c.Memory.Capacity)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative, got %d", c.Cache.TTLSeconds)
	}
	return nil
}
