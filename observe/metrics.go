package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/careerforge/llmcache/cache"
)

// Metrics records cache lookups and inference calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a cache lookup outcome.
	RecordLookup(ctx context.Context, meta OpMeta, hit bool, duration time.Duration)

	// RecordCall records an inference call with duration and error status.
	RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter       metric.Meter
	lookupCount metric.Int64Counter
	lookupHist  metric.Float64Histogram
	callCount   metric.Int64Counter
	callErrors  metric.Int64Counter
	callHist    metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	lookupCount, err := meter.Int64Counter(
		"llm.cache.lookups",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	lookupHist, err := meter.Float64Histogram(
		"llm.cache.lookup_duration_ms",
		metric.WithDescription("Cache lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	callCount, err := meter.Int64Counter(
		"llm.call.total",
		metric.WithDescription("Total number of inference calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	callErrors, err := meter.Int64Counter(
		"llm.call.errors",
		metric.WithDescription("Total number of inference call errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	callHist, err := meter.Float64Histogram(
		"llm.call.duration_ms",
		metric.WithDescription("Inference call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:       meter,
		lookupCount: lookupCount,
		lookupHist:  lookupHist,
		callCount:   callCount,
		callErrors:  callErrors,
		callHist:    callHist,
	}, nil
}

func opAttributes(meta OpMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("llm.domain", meta.Domain),
		attribute.String("llm.operation", meta.Operation),
	}
	if meta.Provider != "" {
		attrs = append(attrs, attribute.String("llm.provider", meta.Provider))
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("llm.model", meta.Model))
	}
	return attrs
}

// RecordLookup records a cache lookup with its outcome as an attribute.
func (m *metricsImpl) RecordLookup(ctx context.Context, meta OpMeta, hit bool, duration time.Duration) {
	attrs := append(opAttributes(meta), attribute.Bool("cache.hit", hit))
	opt := metric.WithAttributes(attrs...)

	m.lookupCount.Add(ctx, 1, opt)
	m.lookupHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// RecordCall records metrics for one inference call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(opAttributes(meta)...)

	m.callCount.Add(ctx, 1, opt)
	if err != nil {
		m.callErrors.Add(ctx, 1, opt)
	}
	m.callHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordLookup(ctx context.Context, meta OpMeta, hit bool, duration time.Duration) {
}

func (m *noopMetrics) RecordCall(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
}

// ObserveRegistry registers observable instruments that export every cache
// domain's stats on each metrics collection. The returned registration can
// be unregistered to stop exporting.
func ObserveRegistry(meter metric.Meter, reg *cache.Registry) (metric.Registration, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}

	hits, err := meter.Int64ObservableCounter(
		"llm.cache.hits",
		metric.WithDescription("Cumulative cache hits per domain"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64ObservableCounter(
		"llm.cache.misses",
		metric.WithDescription("Cumulative cache misses per domain"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64ObservableCounter(
		"llm.cache.evictions",
		metric.WithDescription("Cumulative capacity evictions per domain"),
	)
	if err != nil {
		return nil, err
	}

	entries, err := meter.Int64ObservableGauge(
		"llm.cache.entries",
		metric.WithDescription("Current number of cached entries per domain"),
	)
	if err != nil {
		return nil, err
	}

	hitRate, err := meter.Float64ObservableGauge(
		"llm.cache.hit_rate",
		metric.WithDescription("Cache hit rate per domain"),
	)
	if err != nil {
		return nil, err
	}

	avgAccess, err := meter.Float64ObservableGauge(
		"llm.cache.avg_access_time_ms",
		metric.WithDescription("Rolling average cache access time per domain"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			for domain, s := range reg.AggregateStats() {
				opt := metric.WithAttributes(attribute.String("llm.domain", domain))
				o.ObserveInt64(hits, s.Hits, opt)
				o.ObserveInt64(misses, s.Misses, opt)
				o.ObserveInt64(evictions, s.Evictions, opt)
				o.ObserveInt64(entries, int64(s.Entries), opt)
				o.ObserveFloat64(hitRate, s.HitRate, opt)
				o.ObserveFloat64(avgAccess, s.AvgAccessTimeMs, opt)
			}
			return nil
		},
		hits, misses, evictions, entries, hitRate, avgAccess,
	)
}
