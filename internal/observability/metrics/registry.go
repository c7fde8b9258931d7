// Package metrics provides centralized Prometheus metrics for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch metrics track outbound page retrieval behavior and outcomes.
var (
	// FetchAttemptsTotal counts fetch attempts by outcome. The outcome is
	// either "success" or a FetchError code (TIMEOUT, SIZE_LIMIT, ...).
	FetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_fetch_attempts_total",
			Help: "Total number of page fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	// FetchDuration measures end-to-end fetch duration including redirects.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_fetch_duration_seconds",
			Help:    "Time taken to fetch a page including redirect hops",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// FetchSize measures downloaded body size in bytes.
	FetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ingest_fetch_size_bytes",
			Help: "Downloaded page body size in bytes",
			Buckets: []float64{
				1024, 4096, 16384, 65536, 262144,
				1048576, 2097152, 5242880, 10485760,
			},
		},
	)

	// FetchRedirectHops measures how many redirects a fetch followed.
	FetchRedirectHops = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_fetch_redirect_hops",
			Help:    "Number of redirect hops followed per fetch",
			Buckets: []float64{0, 1, 2, 3},
		},
	)
)

// Policy metrics track the gates that run before any page fetch.
var (
	// RateLimitChecksTotal counts rate-limit decisions by limiter and verdict.
	// Limiter is "client" or "domain"; verdict is "allowed", "denied", or
	// "store_error" (fail-open path).
	RateLimitChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_ratelimit_checks_total",
			Help: "Total number of rate limit checks by limiter and verdict",
		},
		[]string{"limiter", "verdict"},
	)

	// RobotsCacheTotal counts robots rule lookups by source: "hit", "miss",
	// or "store_error".
	RobotsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_robots_cache_total",
			Help: "Total number of robots cache lookups by result",
		},
		[]string{"result"},
	)

	// RobotsBlockedTotal counts URLs denied by robots policy.
	RobotsBlockedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_robots_blocked_total",
			Help: "Total number of URLs blocked by robots policy",
		},
	)
)

// Content metrics track sanitization and quality classification.
var (
	// SanitizerRemovalsTotal counts stripped elements by category.
	SanitizerRemovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_sanitizer_removals_total",
			Help: "Total number of elements removed during sanitization",
		},
		[]string{"category"},
	)

	// QualityIssuesTotal counts detected quality issues by tag.
	QualityIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_quality_issues_total",
			Help: "Total number of quality issues detected",
		},
		[]string{"issue"},
	)

	// RecommendationsTotal counts routing recommendations emitted.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_recommendations_total",
			Help: "Total number of routing recommendations by kind",
		},
		[]string{"recommendation"},
	)

	// SPABypassTotal counts SPA denylist short-circuits by metadata source:
	// "structured", "scrape", or "fallback".
	SPABypassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_spa_bypass_total",
			Help: "Total number of SPA bypass results by metadata source",
		},
		[]string{"source"},
	)

	// ResultCacheWritesTotal counts fire-and-forget result cache writes by
	// status ("success" or "failure").
	ResultCacheWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_result_cache_writes_total",
			Help: "Total number of result cache writes by status",
		},
		[]string{"status"},
	)
)
