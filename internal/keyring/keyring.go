// Package keyring runs an operation against an ordered list of API keys,
// falling back to the next key whenever the current one fails.
package keyring

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"ytdash/internal/metrics"
)

// ErrNoCredentials is returned when the key string contains no usable key.
// No operation is attempted in that case.
var ErrNoCredentials = errors.New("keyring: no credentials supplied")

// ExhaustedError is returned when every key failed.
// Only the last failure is kept; earlier ones are logged and dropped.
type ExhaustedError struct {
	// Service names the upstream the keys belong to ("youtube", "gemini", ...).
	Service string
	// Attempts is the number of keys that were tried.
	Attempts int
	// Last is the error returned by the last attempted key.
	Last error
}

// Error returns a string representation of the exhausted error.
func (e *ExhaustedError) Error() string {
	service := e.Service
	if service == "" {
		service = "api"
	}
	return fmt.Sprintf("keyring: all %d %s keys failed, last error: %v", e.Attempts, service, e.Last)
}

// Unwrap returns the last failure for use with errors.Is() and errors.As().
func (e *ExhaustedError) Unwrap() error { return e.Last }

// Executor tags attempts with the upstream service name.
// The zero value is usable.
type Executor struct {
	// Service names the upstream for logs, metrics and errors.
	Service string
	// Classify maps a failure to a metrics outcome label ("quota", "auth", ...).
	// It never changes whether the next key is tried. Nil labels every failure "error".
	Classify func(error) string
}

// Parse splits raw on newlines and commas, trims every token and drops blanks.
// Order is preserved and duplicates are kept.
func Parse(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	})

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if k := strings.TrimSpace(f); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Mask hides all but the last four characters of a key.
func Mask(key string) string {
	if len(key) <= 4 {
		return "..." + key
	}
	return "..." + key[len(key)-4:]
}

// Execute runs op with each key parsed from raw using a zero Executor.
func Execute[T any](ctx context.Context, raw string, op func(ctx context.Context, key string) (T, error)) (T, error) {
	return Do(ctx, Executor{}, raw, op)
}

// Do runs op with each key parsed from raw, in order, and returns the first
// success. Keys after the first success are never used. If every key fails
// the result is an *ExhaustedError wrapping the last failure.
//
// A canceled or expired ctx stops the rotation and its error is returned as is.
func Do[T any](ctx context.Context, ex Executor, raw string, op func(ctx context.Context, key string) (T, error)) (T, error) {
	var zero T

	keys := Parse(raw)
	if len(keys) == 0 {
		return zero, ErrNoCredentials
	}

	var lastErr error
	attempts := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		attempts++
		result, err := op(ctx, key)
		if err == nil {
			metrics.KeyAttempts.WithLabelValues(ex.service(), "ok").Inc()
			return result, nil
		}
		lastErr = err
		metrics.KeyAttempts.WithLabelValues(ex.service(), ex.classify(err)).Inc()

		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		log.Warn().
			Str("component", "keyring").
			Str("service", ex.service()).
			Str("key", Mask(key)).
			Err(err).
			Msg("key failed, trying next")
	}

	return zero, &ExhaustedError{Service: ex.Service, Attempts: attempts, Last: lastErr}
}

func (ex Executor) service() string {
	if ex.Service == "" {
		return "api"
	}
	return ex.Service
}

func (ex Executor) classify(err error) string {
	if ex.Classify == nil {
		return "error"
	}
	if kind := ex.Classify(err); kind != "" {
		return kind
	}
	return "error"
}
