package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points Load at files under a temp dir and returns that dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	oldPaths, oldDotEnv := configPaths, dotEnvPath
	configPaths = []string{filepath.Join(dir, "ytdash.json")}
	dotEnvPath = filepath.Join(dir, ".env")
	t.Cleanup(func() {
		configPaths, dotEnvPath = oldPaths, oldDotEnv
	})
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 6*time.Hour, cfg.ResolveCacheTTL)
	assert.Empty(t, cfg.CustomRates)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)

	file := `{"provider": "openai", "youtube_keys": "file-key", "listen_addr": ":9000"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ytdash.json"), []byte(file), 0600))
	t.Setenv("YTDASH_YOUTUBE_KEYS", "env-a,env-b")
	t.Setenv("YTDASH_HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider, "provider from file")
	assert.Equal(t, ":9000", cfg.ListenAddr, "listen address from file")
	assert.Equal(t, "env-a,env-b", cfg.YouTubeKeys, "environment overrides file")
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)

	dotenv := "YTDASH_OPENAI_MODEL=gpt-from-dotenv\nYTDASH_LLM_RPS=9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0600))
	t.Setenv("YTDASH_LLM_RPS", "1.5")
	t.Cleanup(func() { os.Unsetenv("YTDASH_OPENAI_MODEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-from-dotenv", cfg.OpenAIModel)
	assert.Equal(t, 1.5, cfg.LLMRPS, "environment should win over .env")
}

func TestLoad_CustomRates(t *testing.T) {
	dir := isolate(t)

	file := `{"custom_rates": {"api.openai.com": 0.5}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ytdash.json"), []byte(file), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"api.openai.com": 0.5}, cfg.CustomRates)

	t.Setenv("YTDASH_CUSTOM_RATES", "www.googleapis.com:10,localhost:1")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"www.googleapis.com": 10, "localhost": 1}, cfg.CustomRates)
}

func TestLoad_BadFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ytdash.json"), []byte("{"), 0600))
	_, err := Load()
	assert.Error(t, err, "malformed config file")
}

func TestLoad_BadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("YTDASH_HTTP_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err, "unparseable duration")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, "provider"},
		{"unknown store", func(c *Config) { c.StoreDriver = "redis" }, "store_driver"},
		{"empty store path", func(c *Config) { c.StorePath = "" }, "store_path"},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, "http_timeout"},
		{"negative data rps", func(c *Config) { c.DataAPIRPS = -1 }, "data_api_rps"},
		{"negative llm rps", func(c *Config) { c.LLMRPS = -1 }, "llm_rps"},
		{"negative custom rate", func(c *Config) { c.CustomRates = map[string]float64{"x.com": -2} }, "custom_rates"},
		{"negative cache", func(c *Config) { c.ResolveCacheSize = -1 }, "resolve_cache_size"},
		{"zero ttl", func(c *Config) { c.ResolveCacheTTL = 0 }, "resolve_cache_ttl"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"sqlite ok", func(c *Config) { c.StoreDriver = "sqlite" }, ""},
		{"openai upper ok", func(c *Config) { c.Provider = "OpenAI" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAIKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GeminiKeys = "g1"
	cfg.OpenAIKeys = "o1"

	keys, model := cfg.AIKeys()
	assert.Equal(t, "g1", keys)
	assert.Equal(t, "gemini-2.5-flash", model)

	cfg.Provider = "openai"
	keys, model = cfg.AIKeys()
	assert.Equal(t, "o1", keys)
	assert.Equal(t, "gpt-4o-mini", model)
}
