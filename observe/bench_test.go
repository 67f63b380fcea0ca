package observe

import (
	"bytes"
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func BenchmarkLogger_WithOp(b *testing.B) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)
	meta := OpMeta{Domain: "jobs", Operation: "parse_job", Model: "default"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.WithOp(meta).Info(context.Background(), "lookup",
			Field{Key: "duration_ms", Value: 1.2},
		)
		buf.Reset()
	}
}

func BenchmarkMetrics_RecordLookup(b *testing.B) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := newMetrics(mp.Meter("bench"))
	if err != nil {
		b.Fatalf("failed to create metrics: %v", err)
	}
	meta := OpMeta{Domain: "jobs", Operation: "parse_job"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.RecordLookup(context.Background(), meta, i%2 == 0, time.Millisecond)
	}
}
