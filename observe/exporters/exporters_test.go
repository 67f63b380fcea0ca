package exporters

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func clearEndpointEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
		"OTEL_EXPORTER_OTLP_METRICS_ENDPOINT",
		"OTEL_EXPORTER_JAEGER_ENDPOINT",
	} {
		t.Setenv(name, "")
	}
}

func TestNewTracingExporter_UnknownName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "statsd")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("error = %v, want ErrUnknownExporter", err)
	}
}

func TestNewMetricsReader_UnknownName(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "statsd")
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("error = %v, want ErrUnknownExporter", err)
	}
}

func TestNewTracingExporter_StdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	exp, err := NewTracingExporter(context.Background(), NameStdout, WithWriter(&buf))
	if err != nil {
		t.Fatalf("stdout tracing exporter failed: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestNewMetricsReader_StdoutWriter(t *testing.T) {
	var buf bytes.Buffer
	reader, err := NewMetricsReader(context.Background(), NameStdout, WithWriter(&buf))
	if err != nil {
		t.Fatalf("stdout metrics reader failed: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

func TestNoneVariantsConstruct(t *testing.T) {
	for _, name := range []string{NameNone, ""} {
		if _, err := NewTracingExporter(context.Background(), name); err != nil {
			t.Errorf("NewTracingExporter(%q) failed: %v", name, err)
		}
		if _, err := NewMetricsReader(context.Background(), name); err != nil {
			t.Errorf("NewMetricsReader(%q) failed: %v", name, err)
		}
	}
}

func TestOTLP_MissingEndpoint(t *testing.T) {
	clearEndpointEnv(t)

	if _, err := NewTracingExporter(context.Background(), NameOTLP); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("tracing error = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewMetricsReader(context.Background(), NameOTLP); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("metrics error = %v, want ErrEndpointNotConfigured", err)
	}
	if _, err := NewTracingExporter(context.Background(), NameJaeger); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("jaeger error = %v, want ErrEndpointNotConfigured", err)
	}
}

func TestOTLP_ExplicitEndpoint(t *testing.T) {
	clearEndpointEnv(t)

	// Construction is lazy; no connection is made here.
	exp, err := NewTracingExporter(context.Background(), NameOTLP, WithEndpoint("localhost:4317"))
	if err != nil {
		t.Fatalf("otlp tracing exporter with explicit endpoint failed: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestOTLP_EndpointFromEnv(t *testing.T) {
	clearEndpointEnv(t)
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "localhost:4317")

	reader, err := NewMetricsReader(context.Background(), NameOTLP)
	if err != nil {
		t.Fatalf("otlp metrics reader from env failed: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

func TestPrometheusReaderConstructs(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), NamePrometheus)
	if err != nil {
		t.Fatalf("prometheus reader failed: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}
