package model

import "time"

// Config is the complete PitchProphet configuration.
// Field tags serve both yaml.v3 (config init/show) and viper's decoder.
type Config struct {
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	HTTP         HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Breaker      BreakerConfig     `yaml:"breaker" mapstructure:"breaker"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
}

// LLMConfig selects and tunes the generative backend
type LLMConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"` // gemini, anthropic, openai, ollama
	Model        string `yaml:"model" mapstructure:"model"`
	APIKey       string `yaml:"-" mapstructure:"api_key"` // never written to disk
	BaseURL      string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout      int    `yaml:"timeout" mapstructure:"timeout"` // seconds, 0 = transport default
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	EnableSearch bool   `yaml:"enable_search" mapstructure:"enable_search"`
}

// HTTPConfig holds transport settings shared by the HTTP-based providers
type HTTPConfig struct {
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls memoization of parsed responses
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// BreakerConfig tunes the circuit breaker around the backend call
type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures" mapstructure:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
}

// RateLimitConfig bounds backend calls made by batch runs
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
	Delay             time.Duration `yaml:"delay" mapstructure:"delay"` // extra pause after each token
}

// ConcurrencyConfig bounds parallel batch predictions
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the browser surface
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// OutputConfig configures CLI rendering
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, json, yaml, html
	Color  bool   `yaml:"color" mapstructure:"color"`
}

// LogConfig configures the operator log
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     "gemini",
			Model:        "", // provider default
			MaxTokens:    0,
			EnableSearch: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		Breaker: BreakerConfig{
			MaxFailures: 3,
			OpenTimeout: 30 * time.Second,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 0.5,
			BurstSize:         1,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			RequestTimeout: 3 * time.Minute,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
