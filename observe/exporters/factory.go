// Package exporters builds the OpenTelemetry span exporters and metric
// readers used by the observe package. Network exporters resolve their
// collector endpoint from an explicit option first and the standard OTEL
// environment variables second.
package exporters

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Supported exporter names.
const (
	NameOTLP       = "otlp"
	NameJaeger     = "jaeger"
	NamePrometheus = "prometheus"
	NameStdout     = "stdout"
	NameNone       = "none"
)

// Option adjusts exporter construction.
type Option func(*settings)

type settings struct {
	endpoint string
	writer   io.Writer
}

// WithEndpoint sets the collector endpoint for network exporters,
// taking precedence over environment lookup.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.endpoint = endpoint }
}

// WithWriter redirects stdout-family exporters to w.
func WithWriter(w io.Writer) Option {
	return func(s *settings) { s.writer = w }
}

func newSettings(opts []Option) settings {
	s := settings{writer: os.Stdout}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// resolveEndpoint returns the configured endpoint, falling back to the
// first non-empty environment variable in envVars.
func (s settings) resolveEndpoint(envVars ...string) (string, error) {
	if s.endpoint != "" {
		return s.endpoint, nil
	}
	for _, name := range envVars {
		if ep := os.Getenv(name); ep != "" {
			return ep, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrEndpointNotConfigured, strings.Join(envVars, " or "))
}

// NewTracingExporter creates a span exporter for the named backend.
// Supported names: otlp, jaeger, stdout, none. Empty behaves as none.
func NewTracingExporter(ctx context.Context, name string, opts ...Option) (sdktrace.SpanExporter, error) {
	s := newSettings(opts)

	switch name {
	case NameStdout:
		return stdouttrace.New(stdouttrace.WithWriter(s.writer))

	case NameOTLP:
		endpoint, err := s.resolveEndpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT")
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint))

	case NameJaeger:
		// Jaeger ingests OTLP natively; route through the OTLP exporter.
		endpoint, err := s.resolveEndpoint("OTEL_EXPORTER_JAEGER_ENDPOINT")
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint))

	case NameNone, "":
		return stdouttrace.New(stdouttrace.WithWriter(io.Discard))

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, name)
	}
}

// NewMetricsReader creates a metric reader for the named backend.
// Supported names: otlp, prometheus, stdout, none. Empty behaves as none,
// which returns a manual reader that only collects on demand.
func NewMetricsReader(ctx context.Context, name string, opts ...Option) (sdkmetric.Reader, error) {
	s := newSettings(opts)

	switch name {
	case NameStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(s.writer))
		if err != nil {
			return nil, fmt.Errorf("exporters: stdout metrics: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case NameOTLP:
		endpoint, err := s.resolveEndpoint("OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
		if err != nil {
			return nil, err
		}
		exp, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(endpoint))
		if err != nil {
			return nil, fmt.Errorf("exporters: otlp metrics: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case NamePrometheus:
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("exporters: prometheus: %w", err)
		}
		return exp, nil

	case NameNone, "":
		return sdkmetric.NewManualReader(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, name)
	}
}
