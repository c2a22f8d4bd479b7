// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable ytdash reads.
const EnvPrefix = "YTDASH_"

// Config holds all application configuration for ytdash.
//
// Key fields accept one or more API keys separated by commas or newlines;
// they are tried in order on every upstream call.
type Config struct {
	// YouTubeKeys are YouTube Data API v3 keys.
	YouTubeKeys string `json:"youtube_keys" env:"YOUTUBE_KEYS"`
	// Provider selects the AI provider: "gemini" or "openai".
	Provider string `json:"provider" env:"PROVIDER"`
	// GeminiKeys are Gemini API keys.
	GeminiKeys string `json:"gemini_keys" env:"GEMINI_KEYS"`
	// GeminiModel is the Gemini model name.
	GeminiModel string `json:"gemini_model" env:"GEMINI_MODEL"`
	// OpenAIKeys are OpenAI API keys.
	OpenAIKeys string `json:"openai_keys" env:"OPENAI_KEYS"`
	// OpenAIModel is the OpenAI chat model name.
	OpenAIModel string `json:"openai_model" env:"OPENAI_MODEL"`

	// HTTPTimeout bounds a single outbound request.
	HTTPTimeout time.Duration `json:"http_timeout" env:"HTTP_TIMEOUT"`
	// DataAPIRPS limits requests per second to the YouTube Data API (0 = unlimited).
	DataAPIRPS float64 `json:"data_api_rps" env:"DATA_API_RPS"`
	// LLMRPS limits requests per second to the AI providers (0 = unlimited).
	LLMRPS float64 `json:"llm_rps" env:"LLM_RPS"`
	// CustomRates overrides the rate for individual hosts, e.g.
	// YTDASH_CUSTOM_RATES="api.openai.com:0.5,www.googleapis.com:10".
	CustomRates map[string]float64 `json:"custom_rates" env:"CUSTOM_RATES"`
	// UserAgent is sent on every outbound request.
	UserAgent string `json:"user_agent" env:"USER_AGENT"`

	// StoreDriver selects the session store: "json" or "sqlite".
	StoreDriver string `json:"store_driver" env:"STORE_DRIVER"`
	// StorePath is the session store file.
	StorePath string `json:"store_path" env:"STORE_PATH"`

	// ListenAddr is the HTTP API listen address.
	ListenAddr string `json:"listen_addr" env:"LISTEN_ADDR"`
	// ResolveCacheSize is the number of channel identifiers kept resolved.
	ResolveCacheSize int `json:"resolve_cache_size" env:"RESOLVE_CACHE_SIZE"`
	// ResolveCacheTTL is how long a resolved channel identifier stays cached.
	ResolveCacheTTL time.Duration `json:"resolve_cache_ttl" env:"RESOLVE_CACHE_TTL"`

	LogLevel  string `json:"log_level" env:"LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"LOG_FORMAT"`
}

// configPaths are searched in order; the first file found wins.
var configPaths = []string{
	"ytdash.json",
	filepath.Join(os.Getenv("HOME"), ".config", "ytdash", "ytdash.json"),
}

// dotEnvPath is loaded into the process environment before it is read.
var dotEnvPath = ".env"

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:         "gemini",
		GeminiModel:      "gemini-2.5-flash",
		OpenAIModel:      "gpt-4o-mini",
		HTTPTimeout:      30 * time.Second,
		DataAPIRPS:       5,
		LLMRPS:           2,
		UserAgent:        "ytdash/1.0",
		StoreDriver:      "json",
		StorePath:        filepath.Join(os.Getenv("HOME"), ".config", "ytdash", "sessions.json"),
		ListenAddr:       ":8080",
		ResolveCacheSize: 256,
		ResolveCacheTTL:  6 * time.Hour,
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// Load loads configuration from a config file, a .env file and environment
// variables on top of the defaults.
// Priority: env vars > .env > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotEnvPath, err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytdash.json in current directory or home directory.
func (c *Config) loadFromFile() error {
	for _, path := range configPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with YTDASH_* environment variables.
// Unset variables leave the current value alone.
func (c *Config) loadFromEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "gemini", "openai":
	default:
		return fmt.Errorf("provider must be gemini or openai, got %q", c.Provider)
	}
	switch strings.ToLower(c.StoreDriver) {
	case "json", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("store_driver must be json or sqlite, got %q", c.StoreDriver)
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.DataAPIRPS < 0 {
		return fmt.Errorf("data_api_rps must be non-negative")
	}
	if c.LLMRPS < 0 {
		return fmt.Errorf("llm_rps must be non-negative")
	}
	for host, rps := range c.CustomRates {
		if rps < 0 {
			return fmt.Errorf("custom_rates[%s] must be non-negative", host)
		}
	}
	if c.ResolveCacheSize < 0 {
		return fmt.Errorf("resolve_cache_size must be non-negative")
	}
	if c.ResolveCacheTTL <= 0 {
		return fmt.Errorf("resolve_cache_ttl must be positive")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// AIKeys returns the key list and model of the selected provider.
func (c *Config) AIKeys() (keys, model string) {
	if strings.EqualFold(c.Provider, "openai") {
		return c.OpenAIKeys, c.OpenAIModel
	}
	return c.GeminiKeys, c.GeminiModel
}
