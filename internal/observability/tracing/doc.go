// Package tracing provides OpenTelemetry tracing integration.
//
// Each pipeline stage (validate, ratelimit, robots, fetch, sanitize,
// classify, spa-bypass) runs under its own span so slow or failing stages
// are visible per URL. Exporter configuration is the embedding binary's
// responsibility; this package only names spans and attributes.
//
// Example usage:
//
//	import "pagegate/internal/observability/tracing"
//
//	func fetch(ctx context.Context, url string) {
//	    ctx, span := tracing.StartStage(ctx, "fetch", url)
//	    defer span.End()
//	    // ... fetch the page ...
//	}
package tracing
