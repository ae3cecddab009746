// Package metrics holds the Prometheus collectors shared across mealfind.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeFound  = "found"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

var (
	// APIRequests counts outbound recipe API calls by endpoint and outcome.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealfind_api_requests_total",
			Help: "Total number of recipe API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// APIRequestDuration tracks recipe API latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealfind_api_request_duration_seconds",
			Help:    "Recipe API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// StrategyOutcomes counts search strategy attempts by outcome.
	StrategyOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealfind_search_strategy_total",
			Help: "Search strategy attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	// ResolveDuration tracks end-to-end search resolution latency.
	ResolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealfind_search_resolve_duration_seconds",
			Help:    "Search resolution latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// EnrichDropped counts summaries dropped during enrichment.
	EnrichDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealfind_enrich_dropped_total",
			Help: "Summaries dropped during enrichment, by reason",
		},
		[]string{"reason"},
	)

	// HTTPRequests counts web UI requests by method, route pattern, and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealfind_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks web UI latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mealfind_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// FavoriteSaveFailures counts failed favorites persists.
	FavoriteSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mealfind_favorites_save_failures_total",
			Help: "Total number of failed favorites persists",
		},
	)
)
