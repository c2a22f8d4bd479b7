// Package server exposes the dashboard over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"ytdash/dashboard"
)

const shutdownTimeout = 10 * time.Second

// KeyValidator checks a raw key list against an upstream.
// *youtube.Client implements it.
type KeyValidator interface {
	ValidateKeys(ctx context.Context, keys string) bool
}

// RateReporter reports the request rate applied to each upstream host.
// *http.RateLimiter implements it.
type RateReporter interface {
	Stats() map[string]float64
}

// Server serves the HTTP API.
type Server struct {
	analyzer  *dashboard.Analyzer
	validator KeyValidator
	rates     RateReporter
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimits adds the per-host rates of r to /healthz.
func WithRateLimits(r RateReporter) Option {
	return func(s *Server) { s.rates = r }
}

// New creates a server for analyzer. validator checks the YouTube keys on
// /api/keys/validate and may be nil. Session routes are mounted only when
// analyzer has a Store.
func New(analyzer *dashboard.Analyzer, validator KeyValidator, opts ...Option) *Server {
	s := &Server{analyzer: analyzer, validator: validator}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/channel", s.handleChannel)
		r.Get("/playlists/{id}/videos", s.handlePlaylistVideos)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/keywords", s.handleKeywords)
		r.Post("/hashtags", s.handleHashtags)
		r.Post("/chat", s.handleChat)
		r.Post("/summarize", s.handleSummarize)
		r.Post("/queue", s.handleQueue)
		r.Get("/keys/validate", s.handleValidateKeys)

		if s.analyzer.Store != nil {
			r.Post("/compete", s.handleCompete)
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", s.handleListSessions)
				r.Post("/", s.handleSaveSession)
				r.Post("/import", s.handleImportSessions)
				r.Get("/{channelID}", s.handleOpenSession)
				r.Delete("/{channelID}", s.handleDeleteSession)
			})
		}
	})

	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "server").Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Str("component", "server").Msg("server shut down")
	return nil
}
