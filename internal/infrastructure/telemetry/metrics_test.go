package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, config.TelemetryConfig{ServiceName: "bizledger-test"}, 0, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter(telemetry.MeterName))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestInstrumentHelpers(t *testing.T) {
	ctx := context.Background()
	provider, reader := setupTestMeter(t)
	meter := provider.Meter("test")

	counter, err := telemetry.NewCounter(meter, "requests_total", "requests", "{request}")
	require.NoError(t, err)
	counter.Add(ctx, 5, telemetry.AttrHTTPMethod.String("GET"))
	counter.Inc(ctx, telemetry.AttrHTTPMethod.String("GET"))
	counter.Inc(ctx, telemetry.AttrHTTPMethod.String("POST"))

	histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "latency_seconds",
		Unit:       "s",
		Boundaries: telemetry.HTTPDurationBuckets,
	})
	require.NoError(t, err)
	histogram.RecordDuration(ctx, 150*time.Millisecond)

	gauge, err := telemetry.NewGauge(meter, "pool_size", "pool", "{connection}")
	require.NoError(t, err)
	gauge.Record(ctx, 7)

	rm := collect(t, reader)
	assert.Equal(t, int64(6), sumInt64(t, rm, "requests_total", telemetry.AttrHTTPMethod.String("GET")))
	assert.Equal(t, int64(1), sumInt64(t, rm, "requests_total", telemetry.AttrHTTPMethod.String("POST")))

	m, ok := findMetric(rm, "latency_seconds")
	require.True(t, ok)
	hist := m.Data.(metricdata.Histogram[float64])
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, telemetry.HTTPDurationBuckets, hist.DataPoints[0].Bounds)

	m, ok = findMetric(rm, "pool_size")
	require.True(t, ok)
	assert.Equal(t, int64(7), m.Data.(metricdata.Gauge[int64]).DataPoints[0].Value)
}
