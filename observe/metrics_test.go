package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/careerforge/llmcache/cache"
)

// findMetric locates a metric by name in collected resource metrics.
func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func testMeter(t *testing.T) (*sdkmetric.ManualReader, *metricsImpl) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return reader, m
}

// TestMetrics_LookupCounterIncrements verifies llm.cache.lookups is incremented.
func TestMetrics_LookupCounterIncrements(t *testing.T) {
	reader, m := testMeter(t)

	meta := OpMeta{Domain: "jobs", Operation: "parse_job"}
	m.RecordLookup(context.Background(), meta, true, 2*time.Millisecond)
	m.RecordLookup(context.Background(), meta, false, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	found := findMetric(rm, "llm.cache.lookups")
	if found == nil {
		t.Fatal("llm.cache.lookups metric not found")
	}

	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}

	// Hit and miss carry distinct attribute sets.
	if len(sum.DataPoints) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(sum.DataPoints))
	}
	for _, dp := range sum.DataPoints {
		if dp.Value != 1 {
			t.Errorf("expected count 1 per outcome, got %d", dp.Value)
		}
		if _, ok := dp.Attributes.Value(attribute.Key("cache.hit")); !ok {
			t.Error("expected cache.hit attribute on data point")
		}
	}
}

// TestMetrics_CallErrorCounter verifies llm.call.errors increments only on failure.
func TestMetrics_CallErrorCounter(t *testing.T) {
	reader, m := testMeter(t)

	meta := OpMeta{Domain: "optimization", Operation: "optimize"}
	m.RecordCall(context.Background(), meta, 80*time.Millisecond, nil)
	m.RecordCall(context.Background(), meta, 120*time.Millisecond, errors.New("rate limited"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	total := findMetric(rm, "llm.call.total")
	if total == nil {
		t.Fatal("llm.call.total metric not found")
	}
	totalSum := total.Data.(metricdata.Sum[int64])
	if len(totalSum.DataPoints) == 0 || totalSum.DataPoints[0].Value != 2 {
		t.Errorf("expected total count 2, got %+v", totalSum.DataPoints)
	}

	errs := findMetric(rm, "llm.call.errors")
	if errs == nil {
		t.Fatal("llm.call.errors metric not found")
	}
	errSum := errs.Data.(metricdata.Sum[int64])
	if len(errSum.DataPoints) == 0 || errSum.DataPoints[0].Value != 1 {
		t.Errorf("expected error count 1, got %+v", errSum.DataPoints)
	}
}

// TestObserveRegistry_ExportsDomainStats verifies cache stats flow into otel instruments.
func TestObserveRegistry_ExportsDomainStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	reg, err := cache.NewRegistry(cache.DefaultRegistryConfig())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	// Generate one hit and one miss in the jobs domain.
	ctx := context.Background()
	jobs, _ := reg.Domain(cache.DomainJobs)
	_ = jobs.Set(ctx, map[string]any{"url": "a"}, "v")
	_, _, _ = jobs.Get(ctx, map[string]any{"url": "a"})
	_, _, _ = jobs.Get(ctx, map[string]any{"url": "b"})

	registration, err := ObserveRegistry(meter, reg)
	if err != nil {
		t.Fatalf("ObserveRegistry failed: %v", err)
	}
	defer registration.Unregister()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	hits := findMetric(rm, "llm.cache.hits")
	if hits == nil {
		t.Fatal("llm.cache.hits metric not found")
	}
	sum := hits.Data.(metricdata.Sum[int64])

	var jobsHits int64 = -1
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key("llm.domain")); ok && v.AsString() == cache.DomainJobs {
			jobsHits = dp.Value
		}
	}
	if jobsHits != 1 {
		t.Errorf("jobs domain hits = %d, want 1", jobsHits)
	}

	if found := findMetric(rm, "llm.cache.entries"); found == nil {
		t.Error("llm.cache.entries metric not found")
	}
	if found := findMetric(rm, "llm.cache.hit_rate"); found == nil {
		t.Error("llm.cache.hit_rate metric not found")
	}
}

// TestObserveRegistry_NilRegistry verifies the nil registry sentinel.
func TestObserveRegistry_NilRegistry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	if _, err := ObserveRegistry(mp.Meter("test"), nil); !errors.Is(err, ErrNilRegistry) {
		t.Errorf("ObserveRegistry(nil) error = %v, want ErrNilRegistry", err)
	}
}
