package http

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from an upstream API, carrying the
// upstream's own error message.
type APIError struct {
	// Service names the upstream ("youtube", "gemini", "openai").
	Service string
	// StatusCode is the HTTP status code
	StatusCode int
	// Reason is the machine-readable reason if the upstream sent one
	// (e.g. "quotaExceeded", "keyInvalid").
	Reason string
	// Message is the upstream's human-readable message.
	Message string
}

// Error returns a string representation of the API error.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s api error (status %d, %s): %s", e.Service, e.StatusCode, e.Reason, msg)
	}
	return fmt.Sprintf("%s api error (status %d): %s", e.Service, e.StatusCode, msg)
}

// Upstream reasons that signal an exhausted quota rather than a bad key.
var quotaReasons = map[string]bool{
	"quotaExceeded":         true,
	"dailyLimitExceeded":    true,
	"rateLimitExceeded":     true,
	"userRateLimitExceeded": true,
	"RESOURCE_EXHAUSTED":    true,
	"insufficient_quota":    true,
	"rate_limit_exceeded":   true,
}

// IsQuotaExceeded reports whether err is an upstream quota or rate limit error.
func IsQuotaExceeded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || quotaReasons[apiErr.Reason]
}

// IsAuthError reports whether err is an upstream rejection of the credential itself.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if IsQuotaExceeded(err) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return apiErr.Reason == "keyInvalid" || apiErr.Reason == "API_KEY_INVALID" || apiErr.Reason == "invalid_api_key"
	}
	return false
}

// FailureKind labels a failed upstream call for metrics: "quota", "auth",
// "upstream" for any other APIError, and "error" for everything else.
func FailureKind(err error) string {
	switch {
	case IsQuotaExceeded(err):
		return "quota"
	case IsAuthError(err):
		return "auth"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return "upstream"
	}
	return "error"
}
