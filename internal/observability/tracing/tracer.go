package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the pagegate pipeline.
var tracer = otel.Tracer("pagegate")

// Setup installs an SDK tracer provider tagged with the service name and
// returns its shutdown function. No exporter is registered here; spans
// stay in-process until the deployment wires one in, which keeps tracing
// safe to enable everywhere.
func Setup(serviceName string) func(context.Context) error {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)
	tracer = otel.Tracer("pagegate")
	return provider.Shutdown
}

// GetTracer returns the global tracer for creating spans.
// This tracer can be used throughout the application to create new spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// StartStage starts a span for one pipeline stage, tagging it with the URL
// being processed. Callers must end the returned span.
//
// Example usage:
//
//	ctx, span := tracing.StartStage(ctx, "fetch", url)
//	defer span.End()
func StartStage(ctx context.Context, stage, url string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "ingest."+stage,
		trace.WithAttributes(attribute.String("ingest.url", url)))
}
