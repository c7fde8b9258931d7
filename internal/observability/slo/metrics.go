// Package slo defines service level objectives for the ingestion pipeline
// and the gauges used to track them.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the pipeline.
// Transport failures against remote sites are expected outcomes of crawling
// the open internet and do not count against availability; only internal
// pipeline failures (panics, store outages surfacing to callers) do.
const (
	// AvailabilitySLO defines the target ratio of ingest requests that
	// complete with a categorized result (99.9%)
	AvailabilitySLO = 99.9

	// FetchLatencyP95SLO defines the target for 95th percentile fetch
	// latency in seconds
	FetchLatencyP95SLO = 2.0

	// FetchLatencyP99SLO defines the target for 99th percentile fetch
	// latency in seconds
	FetchLatencyP99SLO = 8.0

	// CacheWriteFailureRateSLO defines the maximum acceptable result cache
	// write failure ratio (1%)
	CacheWriteFailureRateSLO = 0.01
)

// SLO tracking metrics.
// These gauges are updated periodically (e.g., every minute) based on recent
// measurements to track whether the pipeline is meeting its SLO targets.
var (
	// SLOAvailability tracks the current ingest availability ratio (0-1):
	// requests that returned a categorized result / total requests
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_slo_availability_ratio",
			Help: "Current ingest availability ratio (0-1), target: 0.999",
		},
	)

	// SLOFetchLatencyP95 tracks the current p95 fetch latency in seconds,
	// calculated from the ingest_fetch_duration_seconds histogram
	SLOFetchLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_slo_fetch_latency_p95_seconds",
			Help: "Current p95 fetch latency in seconds, target: 2.0",
		},
	)

	// SLOFetchLatencyP99 tracks the current p99 fetch latency in seconds
	SLOFetchLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_slo_fetch_latency_p99_seconds",
			Help: "Current p99 fetch latency in seconds, target: 8.0",
		},
	)

	// SLOCacheWriteFailureRate tracks the current result cache write
	// failure ratio (0-1)
	SLOCacheWriteFailureRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_slo_cache_write_failure_ratio",
			Help: "Current result cache write failure ratio (0-1), target: 0.01",
		},
	)
)

// UpdateAvailability updates the availability SLO metric.
// Call this periodically (e.g., every minute) with the calculated ratio.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateFetchLatencyP95 updates the p95 fetch latency SLO metric.
//
// Example using Prometheus query:
//
//	histogram_quantile(0.95, rate(ingest_fetch_duration_seconds_bucket[5m]))
func UpdateFetchLatencyP95(seconds float64) {
	SLOFetchLatencyP95.Set(seconds)
}

// UpdateFetchLatencyP99 updates the p99 fetch latency SLO metric.
func UpdateFetchLatencyP99(seconds float64) {
	SLOFetchLatencyP99.Set(seconds)
}

// UpdateCacheWriteFailureRate updates the cache write failure SLO metric.
//
// Example calculation:
//
//	failures := getCacheWriteFailureCount()
//	total := getCacheWriteTotalCount()
//	slo.UpdateCacheWriteFailureRate(float64(failures) / float64(total))
func UpdateCacheWriteFailureRate(ratio float64) {
	SLOCacheWriteFailureRate.Set(ratio)
}
