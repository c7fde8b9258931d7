// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all pipeline metrics including:
//   - Fetch metrics (attempts by outcome, duration, size, redirect hops)
//   - Policy metrics (rate limit verdicts, robots cache results)
//   - Content metrics (sanitizer removals, quality issues, recommendations)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the worker's /metrics endpoint.
//
// Example usage:
//
//	import "pagegate/internal/observability/metrics"
//
//	func classify(url string) {
//	    start := time.Now()
//	    // ... fetch and classify ...
//	    metrics.RecordFetch("success", time.Since(start), bodyBytes, hops)
//	}
package metrics
