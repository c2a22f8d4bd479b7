package ytdash

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ytdash/config"
	"ytdash/dashboard"
	ythttp "ytdash/http"
	"ytdash/llm"
	"ytdash/server"
	"ytdash/storage"
	"ytdash/youtube"
)

// App is a fully wired ytdash instance.
type App struct {
	Config    *config.Config
	YouTube   *youtube.Client
	Assistant *llm.Assistant
	// Limiter paces every outbound request of the app.
	Limiter  *ythttp.RateLimiter
	Analyzer *dashboard.Analyzer
	// Store is nil until OpenStore is called.
	Store storage.Store
}

// New wires the HTTP client, the Data API client and the AI assistant
// described by cfg. The session store is opened separately by OpenStore.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpCfg := ythttp.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout
	httpCfg.UserAgent = cfg.UserAgent
	httpCfg.RateLimiter.DataAPIRPS = cfg.DataAPIRPS
	httpCfg.RateLimiter.LLMRPS = cfg.LLMRPS
	limiter := ythttp.NewRateLimiter(httpCfg.RateLimiter)
	for host, rps := range cfg.CustomRates {
		limiter.SetCustomRate(host, rps)
	}
	httpCfg.Limiter = limiter
	hc := ythttp.New(httpCfg)

	yt := youtube.NewClient(youtube.Options{
		HTTPClient: hc,
		CacheSize:  cfg.ResolveCacheSize,
		CacheTTL:   cfg.ResolveCacheTTL,
	})

	provider, err := llm.NewProvider(cfg.Provider, llm.Options{HTTPClient: hc})
	if err != nil {
		return nil, err
	}
	keys, model := cfg.AIKeys()
	assistant := llm.NewAssistant(provider, keys, model)

	return &App{
		Config:    cfg,
		YouTube:   yt,
		Assistant: assistant,
		Limiter:   limiter,
		Analyzer: &dashboard.Analyzer{
			YouTube:     yt,
			YouTubeKeys: cfg.YouTubeKeys,
			Assistant:   assistant,
		},
	}, nil
}

// OpenStore opens the configured session store and attaches it to the
// analyzer. Calling it again is a no-op.
func (a *App) OpenStore() error {
	if a.Store != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.Config.StorePath), 0755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	store, err := storage.Open(a.Config.StoreDriver, a.Config.StorePath)
	if err != nil {
		return err
	}
	a.Store = store
	a.Analyzer.Store = store
	return nil
}

// Server returns the HTTP API server for a.
func (a *App) Server() *server.Server {
	return server.New(a.Analyzer, a.YouTube, server.WithRateLimits(a.Limiter))
}

// Close releases the session store, if open.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Analyze resolves a channel URL and analyzes its first page of uploads
// using configuration loaded from the environment.
func Analyze(ctx context.Context, channelURL string) (*dashboard.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	app, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return app.Analyzer.Analyze(ctx, channelURL)
}
