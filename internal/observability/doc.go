// Package observability provides production-grade observability infrastructure
// including structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// This package centralizes observability concerns to enable:
//   - Per-ingest trace correlation across pipeline stages
//   - Structured logging with context propagation
//   - Prometheus metrics for monitoring crawl health
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracing integration
//   - slo: Service level objective targets and gauges
//
// Example usage:
//
//	import (
//	    "pagegate/internal/observability/logging"
//	    "pagegate/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started")
//
//	    metrics.RecordRobotsCache("hit")
//	}
package observability
