package telemetry

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"interactions-relay/internal/common/logging"
)

// TracerName names the tracer used for spans created by this service
const TracerName = "interactions-relay"

// InitTracer initializes OpenTelemetry tracing and installs the provider
// globally. The returned function flushes and stops the exporter.
func InitTracer(serviceName string, logger logging.Logger) (func(context.Context) error, error) {
	tp, err := newTracerProvider(serviceName, os.Stdout)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)

	logger.Info("OpenTelemetry initialized", logging.String("service", serviceName))

	return tp.Shutdown, nil
}

func newTracerProvider(serviceName string, w io.Writer) (*sdktrace.TracerProvider, error) {
	// Stdout exporter; spans are collected alongside the logs
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// Tracer returns the service tracer from the global provider. Until
// InitTracer runs this is a no-op tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
