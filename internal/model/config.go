package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete runtime configuration, loaded from
// ~/.lifelines/config.yaml and overridable via LIFELINES_* environment
// variables and command-line flags.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Timeline     TimelineConfig     `yaml:"timeline" mapstructure:"timeline"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Robots       RobotsConfig       `yaml:"robots" mapstructure:"robots"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls the outbound HTTP client
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls the layered page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SourceConfig describes where the office-holder table lives and how to
// read it. The defaults target the usual encyclopedia markup; all of them
// are overridable for other sources.
type SourceConfig struct {
	URL             string `yaml:"url" mapstructure:"url"`                             // Default page to scrape when none is given
	TableClass      string `yaml:"table_class" mapstructure:"table_class"`             // CSS class marking the data table
	ColumnHeader    string `yaml:"column_header" mapstructure:"column_header"`         // Header literal of the biographical column
	SkipLeadingRows int    `yaml:"skip_leading_rows" mapstructure:"skip_leading_rows"` // Data rows to drop before parsing (markup artifacts)
	MinYear         int    `yaml:"min_year" mapstructure:"min_year"`                   // Lower plausibility bound for years
	MaxYear         int    `yaml:"max_year" mapstructure:"max_year"`                   // Upper plausibility bound for years
}

// TimelineConfig controls how living persons are bounded on the chart
type TimelineConfig struct {
	AsOfYear int `yaml:"as_of_year" mapstructure:"as_of_year"` // 0 means the current year
}

// Year resolves the effective as-of year.
func (t TimelineConfig) Year() int {
	if t.AsOfYear > 0 {
		return t.AsOfYear
	}
	return time.Now().Year()
}

// RateLimitingConfig controls per-domain request pacing in batch mode
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// RobotsConfig controls robots.txt handling
type RobotsConfig struct {
	Respect bool `yaml:"respect" mapstructure:"respect"`
}

// ConcurrencyConfig controls worker pool sizing in batch mode
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig controls the optional commentary layer
type LLMConfig struct {
	Provider    string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama; empty disables
	Model       string `yaml:"model" mapstructure:"model"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int    `yaml:"timeout" mapstructure:"timeout"` // Seconds
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictYears bool   `yaml:"strict_years" mapstructure:"strict_years"` // Reject commentary citing years absent from the dataset
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "lifelines/0.1 (+https://github.com/ppiankov/lifelines)",
			MaxBodyBytes: 10 * 1024 * 1024,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Source: SourceConfig{
			TableClass:      "wikitable",
			ColumnHeader:    "Name(Birth-Death)Constituency",
			SkipLeadingRows: 1,
			MinYear:         1000,
			MaxYear:         2100,
		},
		Timeline: TimelineConfig{
			AsOfYear: 0,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2.0,
			BurstSize:         5,
		},
		Robots: RobotsConfig{
			Respect: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Provider:    "",
			Timeout:     60,
			MaxTokens:   600,
			StrictYears: true,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lifelines-cache"
	}
	return filepath.Join(home, ".lifelines", "cache")
}
