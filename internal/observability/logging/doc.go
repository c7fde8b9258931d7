// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for common logging patterns used throughout the application.
//
// Key features:
//   - JSON and text output formats
//   - Ingest ID propagation for correlating one pipeline run
//   - Context-aware logging
//   - Configurable log levels
//
// Example usage:
//
//	import "pagegate/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started", slog.String("version", "1.0"))
//	}
//
//	func ingest(ctx context.Context, ingestID string) {
//	    logger := logging.WithIngestID(logging.FromContext(ctx), ingestID)
//	    logger.Info("processing url")
//	}
package logging
