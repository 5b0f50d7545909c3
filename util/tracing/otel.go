// Package tracing wires OpenTelemetry tracing for the node.
package tracing

import (
	"context"
	"sync"
	"time"

	"github.com/pivx-labs/pivxd/errors"
	"github.com/pivx-labs/pivxd/settings"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

var (
	once    sync.Once
	initErr error
	tp      *sdktrace.TracerProvider
	mu      sync.Mutex
)

// InitTracer initializes the global tracer. Safe to call multiple times.
// Only the first call will actually initialize the tracer.
func InitTracer(appSettings *settings.Settings) error {
	once.Do(func() {
		var exporter *otlptrace.Exporter

		exporter, initErr = otlptracehttp.New(
			context.Background(),
			otlptracehttp.WithEndpoint(appSettings.TracingCollectorURL.Host),
			otlptracehttp.WithInsecure(),
		)
		if initErr != nil {
			initErr = errors.NewProcessingError("failed to create OTLP exporter", initErr)
			return
		}

		var res *resource.Resource

		res, initErr = resource.New(
			context.Background(),
			resource.WithAttributes(
				semconv.ServiceNameKey.String(appSettings.ServiceName),
				semconv.ServiceVersionKey.String(appSettings.Version),
				attribute.String("commit", appSettings.Commit),
			),
		)
		if initErr != nil {
			initErr = errors.NewProcessingError("failed to create resource", initErr)
			return
		}

		mu.Lock()
		defer mu.Unlock()

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(appSettings.TracingSampleRate)),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)

		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})

	return initErr
}

// Start begins a span on the node's tracer. The caller must End the span.
func Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer("pivxd").Start(ctx, name, opts...)
}

// ShutdownTracer flushes and shuts down the global tracer provider.
// Safe to call multiple times - subsequent calls are no-ops.
func ShutdownTracer(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if tp != nil {
		if err := tp.ForceFlush(ctx); err != nil {
			return errors.NewProcessingError("failed to flush spans", err)
		}

		if err := tp.Shutdown(ctx); err != nil {
			return errors.NewProcessingError("failed to shutdown tracer", err)
		}

		tp = nil
	}

	return nil
}
