package model

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the complete promotebot configuration.
// Values are populated from defaults, the config file, environment
// variables, and CLI flags, in increasing priority.
type Config struct {
	Source      SourceConfig      `yaml:"source"`
	Publish     PublishConfig     `yaml:"publish"`
	Output      OutputConfig      `yaml:"output"`
	Archive     ArchiveConfig     `yaml:"archive"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
}

// SourceConfig configures the read-only data source client.
type SourceConfig struct {
	URL               string        `yaml:"url"`
	APIKey            string        `yaml:"-"` // env only, never written to disk
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
}

// PublishConfig names the credentials the downstream publishing step
// requires. The bot never calls the publishing API itself, but a run is
// pointless if the publisher cannot pick the artifact up, so absence of
// any of these is startup-fatal.
type PublishConfig struct {
	APIKey      string `yaml:"-"`
	AccessToken string `yaml:"-"`
	ListID      string `yaml:"list_id"`
}

// OutputConfig configures artifact paths and verbosity.
type OutputConfig struct {
	Dir           string `yaml:"dir"`
	JSONName      string `yaml:"json_name"`
	MarkdownName  string `yaml:"markdown_name"`
	IncludeFooter bool   `yaml:"include_footer"`
	Verbose       bool   `yaml:"-"`
}

// ArchiveConfig configures the local run archive.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ConcurrencyConfig bounds parallel link lookups.
type ConcurrencyConfig struct {
	LinkWorkers int `yaml:"link_workers"`
}

// LLMConfig configures the optional copy-suggestion generator.
// Disabled by default; it never affects the deterministic artifacts.
type LLMConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   int    `yaml:"timeout"` // seconds
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			CacheTTL:          10 * time.Minute,
		},
		Output: OutputConfig{
			Dir:           "drafts",
			JSONName:      "daily_combined.json",
			MarkdownName:  "daily_combined.md",
			IncludeFooter: true,
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    "drafts/promotebot.db",
		},
		Concurrency: ConcurrencyConfig{
			LinkWorkers: 8,
		},
		LLM: LLMConfig{
			Enabled:   false,
			Model:     "gpt-4o-mini",
			MaxTokens: 500,
			Timeout:   30,
		},
	}
}

// requiredCredentials maps config fields to the environment variable
// names reported when they are absent.
func (c *Config) missingCredentials() []string {
	var missing []string
	if c.Source.URL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.Source.APIKey == "" {
		missing = append(missing, "SUPABASE_API_KEY")
	}
	if c.Publish.APIKey == "" {
		missing = append(missing, "TWITTER_API_KEY")
	}
	if c.Publish.AccessToken == "" {
		missing = append(missing, "TWITTER_ACCESS_TOKEN")
	}
	if c.Publish.ListID == "" {
		missing = append(missing, "TWITTER_LIST_ID")
	}
	return missing
}

// Validate checks that every required credential is present. It runs
// before any network call and enumerates all missing items by name in a
// single message.
func (c *Config) Validate() error {
	if missing := c.missingCredentials(); len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
