package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"ytdash/dashboard"
	ythttp "ytdash/http"
	"ytdash/internal/keyring"
	"ytdash/llm"
	"ytdash/storage"
	"ytdash/youtube"
)

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// statusFor maps an error to the HTTP status reported to the client.
// Sentinels are checked first: an exhausted rotation wraps the last
// failure, which may itself be a sentinel.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, youtube.ErrInvalidURL),
		errors.Is(err, storage.ErrInvalidInput),
		errors.Is(err, llm.ErrEmptyHistory),
		errors.Is(err, dashboard.ErrNoVideos):
		return http.StatusBadRequest
	case errors.Is(err, youtube.ErrChannelNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, youtube.ErrNoUploads):
		return http.StatusUnprocessableEntity
	case errors.Is(err, keyring.ErrNoCredentials),
		errors.Is(err, dashboard.ErrNoAssistant):
		return http.StatusPreconditionFailed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	var exhausted *keyring.ExhaustedError
	var apiErr *ythttp.APIError
	if errors.As(err, &exhausted) || errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Str("component", "server").Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Str("component", "server").Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
