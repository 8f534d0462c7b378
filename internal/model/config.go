package model

import "time"

// Config holds the full application configuration
type Config struct {
	FactCheck   FactCheckConfig   `yaml:"factcheck" mapstructure:"factcheck"`
	NLP         NLPConfig         `yaml:"nlp" mapstructure:"nlp"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// FactCheckConfig configures the external fact-check gateway.
// An empty or "demo-key" API key selects the demo gateway.
type FactCheckConfig struct {
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	LanguageCode      string        `yaml:"language_code" mapstructure:"language_code"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
}

// NLPConfig selects the sentence/entity toolkit
type NLPConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"` // prose, rules
}

// HTTPConfig configures page fetching for URL scans
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	CheckLinks    bool          `yaml:"check_links" mapstructure:"check_links"` // HEAD-check fact-check review URLs
}

// CacheConfig configures the fact-check lookup cache.
// An empty Dir keeps the cache in memory only.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers           int     `yaml:"workers" mapstructure:"workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per fetched domain
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// LLMConfig configures the optional narrative summary
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // "" disables, openai, ollama
	Model          string `yaml:"model" mapstructure:"model"`
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	Timeout        int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens      int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	StrictEvidence bool   `yaml:"strict_evidence" mapstructure:"strict_evidence"`
}

// StoreConfig configures verdict persistence
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // SQLite file; empty disables persistence
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json, console
}

// ScoringConfig holds the publisher tier lists used by source reliability
type ScoringConfig struct {
	HighReliabilitySources   []string `yaml:"high_reliability_sources" mapstructure:"high_reliability_sources"`
	MediumReliabilitySources []string `yaml:"medium_reliability_sources" mapstructure:"medium_reliability_sources"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DemoAPIKey is the placeholder key that selects the demo gateway
const DemoAPIKey = "demo-key"

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		FactCheck: FactCheckConfig{
			APIKey:            "",
			BaseURL:           "https://factchecktools.googleapis.com",
			LanguageCode:      "en",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			MaxRetries:        3,
		},
		NLP: NLPConfig{
			Provider: "prose",
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "TruthLens/0.1 (+https://github.com/ppiankov/truthlens)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:           4,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:       "",
			Model:          "gpt-4o-mini",
			Timeout:        30,
			MaxTokens:      600,
			StrictEvidence: true,
		},
		Store: StoreConfig{
			Path: "truthlens.db",
		},
		Server: ServerConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"*"},
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Scoring: ScoringConfig{
			HighReliabilitySources: []string{
				"Reuters", "Associated Press", "BBC", "Snopes", "PolitiFact",
				"FactCheck.org", "WHO", "CDC", "NASA", "NIH",
			},
			MediumReliabilitySources: []string{
				"CNN", "Fox News", "The Guardian", "The New York Times",
				"Washington Post", "Wall Street Journal",
			},
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
