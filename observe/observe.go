package observe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/careerforge/llmcache/observe/exporters"
)

// scopeName identifies this library's tracer and meter scope.
const scopeName = "github.com/careerforge/llmcache/observe"

// Config holds all configuration for the Observer.
type Config struct {
	ServiceName string
	Version     string
	Tracing     TracingConfig
	Metrics     MetricsConfig
	Logging     LoggingConfig
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool
	Exporter  string  // otlp|jaeger|stdout|none
	Endpoint  string  // collector endpoint; empty falls back to OTEL env vars
	SamplePct float64 // 0.0-1.0
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool
	Exporter string // otlp|prometheus|stdout|none
	Endpoint string // collector endpoint; empty falls back to OTEL env vars
}

// LoggingConfig configures the logging subsystem.
type LoggingConfig struct {
	Enabled bool
	Level   string    // debug|info|warn|error
	Writer  io.Writer // destination; nil means stderr
}

func validName(name string, valid []string) bool {
	for _, v := range valid {
		if name == v {
			return true
		}
	}
	return false
}

// Validate checks the configuration, reporting the first invalid field as a
// wrapped sentinel error. Disabled subsystems are not inspected.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if c.Tracing.Enabled {
		if !validName(c.Tracing.Exporter, ValidTracingExporters) {
			return fmt.Errorf("%w: %q", ErrInvalidTracingExporter, c.Tracing.Exporter)
		}
		if c.Tracing.SamplePct < MinSamplePct || c.Tracing.SamplePct > MaxSamplePct {
			return fmt.Errorf("%w: got %f", ErrInvalidSamplePct, c.Tracing.SamplePct)
		}
	}

	if c.Metrics.Enabled {
		if !validName(c.Metrics.Exporter, ValidMetricsExporters) {
			return fmt.Errorf("%w: %q", ErrInvalidMetricsExporter, c.Metrics.Exporter)
		}
	}

	if c.Logging.Enabled {
		if !validName(c.Logging.Level, ValidLogLevels) {
			return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
		}
	}

	return nil
}

// Observer provides access to telemetry primitives.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Shutdown must honor cancellation/deadlines.
// - Errors: Shutdown should be idempotent and return the first error encountered.
type Observer interface {
	// Tracer returns the configured tracer.
	Tracer() trace.Tracer

	// Meter returns the configured meter.
	Meter() metric.Meter

	// Logger returns the configured logger.
	Logger() Logger

	// Shutdown gracefully shuts down all telemetry providers.
	Shutdown(ctx context.Context) error
}

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	WithOp(meta OpMeta) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// observer owns its providers rather than installing them globally; callers
// that want process-wide defaults can register obs.Tracer()'s provider with
// the otel package themselves.
type observer struct {
	tracer         trace.Tracer
	meter          metric.Meter
	logger         Logger
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// NewObserver builds an Observer from cfg. Disabled subsystems get noop
// implementations, so every accessor is always safe to use.
func NewObserver(ctx context.Context, cfg Config) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("observe: build resource: %w", err)
	}

	obs := &observer{logger: newConfiguredLogger(cfg.Logging)}

	if cfg.Tracing.Enabled {
		if err := obs.startTracing(ctx, cfg.Tracing, res); err != nil {
			return nil, err
		}
	} else {
		obs.tracer = tracenoop.NewTracerProvider().Tracer(scopeName)
	}

	if cfg.Metrics.Enabled {
		if err := obs.startMetrics(ctx, cfg.Metrics, res); err != nil {
			return nil, err
		}
	} else {
		obs.meter = metricnoop.NewMeterProvider().Meter(scopeName)
	}

	return obs, nil
}

func newConfiguredLogger(cfg LoggingConfig) Logger {
	if !cfg.Enabled {
		return &noopLogger{}
	}
	if cfg.Writer != nil {
		return NewLoggerWithWriter(cfg.Level, cfg.Writer)
	}
	return NewLogger(cfg.Level)
}

// samplerFor maps a sampling percentage onto an SDK sampler, pinning the
// endpoints so 0 and 1 behave exactly rather than probabilistically.
func samplerFor(pct float64) sdktrace.Sampler {
	switch {
	case pct >= 1.0:
		return sdktrace.AlwaysSample()
	case pct <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(pct)
	}
}

func (o *observer) startTracing(ctx context.Context, cfg TracingConfig, res *resource.Resource) error {
	var opts []exporters.Option
	if cfg.Endpoint != "" {
		opts = append(opts, exporters.WithEndpoint(cfg.Endpoint))
	}

	exporter, err := exporters.NewTracingExporter(ctx, cfg.Exporter, opts...)
	if err != nil {
		return fmt.Errorf("observe: tracing exporter: %w", err)
	}

	o.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SamplePct)),
		sdktrace.WithBatcher(exporter),
	)
	o.tracer = o.tracerProvider.Tracer(scopeName)
	return nil
}

func (o *observer) startMetrics(ctx context.Context, cfg MetricsConfig, res *resource.Resource) error {
	var opts []exporters.Option
	if cfg.Endpoint != "" {
		opts = append(opts, exporters.WithEndpoint(cfg.Endpoint))
	}

	reader, err := exporters.NewMetricsReader(ctx, cfg.Exporter, opts...)
	if err != nil {
		return fmt.Errorf("observe: metrics reader: %w", err)
	}

	o.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	o.meter = o.meterProvider.Meter(scopeName)
	return nil
}

func (o *observer) Tracer() trace.Tracer {
	return o.tracer
}

func (o *observer) Meter() metric.Meter {
	return o.meter
}

func (o *observer) Logger() Logger {
	return o.logger
}

func (o *observer) Shutdown(ctx context.Context) error {
	var errs []error

	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (l *noopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *noopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *noopLogger) WithOp(meta OpMeta) Logger                              { return l }
