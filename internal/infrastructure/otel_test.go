package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestDefaultOTelConfig(t *testing.T) {
	cfg := DefaultOTelConfig()

	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "prometheus", cfg.MetricExporter)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestInitializeOTelDisabled(t *testing.T) {
	cfg := &OTelConfig{
		ServiceName:    "test",
		ServiceVersion: "0.0.1",
		Environment:    "test",
		EnableTracing:  false,
		EnableMetrics:  false,
	}

	providers, err := InitializeOTel(cfg, testLogger())
	require.NoError(t, err)
	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelRejectsUnknownExporters(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{
		EnableTracing: true,
		TraceExporter: "jaeger",
	}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")

	_, err = InitializeOTel(&OTelConfig{
		EnableMetrics:  true,
		MetricExporter: "statsd",
	}, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported metric exporter")
}

func TestCreateBusinessMetrics(t *testing.T) {
	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	require.NotNil(t, metrics)
	assert.NotNil(t, metrics.HTTPRequestsTotal)
	assert.NotNil(t, metrics.ReportComputationDuration)
	assert.NotNil(t, metrics.DatasetRowsSkipped)

	// Recording must not panic, with or without view errors.
	ctx := context.Background()
	RecordReportComputation(ctx, metrics, 25*time.Millisecond, 0)
	RecordReportComputation(ctx, metrics, 40*time.Millisecond, 2)
	RecordReportComputation(ctx, nil, time.Millisecond, 1)
}

func TestRecordErrorNilSafe(t *testing.T) {
	// No span in context and a nil error are both no-ops.
	RecordError(context.Background(), nil)
	RecordError(context.Background(), assert.AnError)
}
