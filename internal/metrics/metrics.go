// Package metrics holds the Prometheus collectors shared across ytdash.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KeyAttempts counts key rotation attempts by upstream service and outcome.
	KeyAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytdash_key_attempts_total",
			Help: "API key attempts, by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	// UpstreamRequests counts outbound HTTP requests by host and status class.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytdash_upstream_requests_total",
			Help: "Outbound HTTP requests, by host and status class.",
		},
		[]string{"host", "status"},
	)

	// RequestDuration tracks API server latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ytdash_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// ResolveCache counts channel ID cache lookups by result (hit or miss).
	ResolveCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ytdash_resolve_cache_total",
			Help: "Channel identifier cache lookups, by result.",
		},
		[]string{"result"},
	)
)
