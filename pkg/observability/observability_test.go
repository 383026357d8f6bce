package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
)

var errNotReady = errors.New("not ready")

func newReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()

	reader := sdkmetric.NewManualReader()

	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for i := range rm.ScopeMetrics {
		for j := range rm.ScopeMetrics[i].Metrics {
			if rm.ScopeMetrics[i].Metrics[j].Name == name {
				return &rm.ScopeMetrics[i].Metrics[j]
			}
		}
	}

	return nil
}

func sumOf(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

// TestDefaultConfig verifies zero-config defaults.
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()

	assert.Equal(t, "algoviz", cfg.ServiceName)
	assert.Equal(t, observability.ModeCLI, cfg.Mode)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.OTLPEndpoint)
}

// TestInit_NoopWhenNoEndpoint verifies providers work without a collector.
func TestInit_NoopWhenNoEndpoint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogJSON = true

	providers, err := observability.InitWithWriter(cfg, &buf)
	require.NoError(t, err)

	_, span := providers.Tracer.Start(context.Background(), "op")
	span.End()

	providers.Logger.Info("hello")
	assert.Contains(t, buf.String(), `"service":"algoviz"`)

	require.NoError(t, providers.Shutdown(context.Background()))
}

// TestTracingHandler_InjectsTraceContext verifies trace ids on records.
func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "svc", "test", observability.ModeMCP))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "msg", "k", "v")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "svc", record["service"])
	assert.Equal(t, "mcp", record["mode"])
	assert.Equal(t, "test", record["env"])
}

// TestParseOTLPHeaders verifies header parsing.
func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, observability.ParseOTLPHeaders("a=1, b = 2"))
}

// TestEngineMetrics_ObservesSequencer verifies step and reset counters.
func TestEngineMetrics_ObservesSequencer(t *testing.T) {
	t.Parallel()

	reader, mp := newReader(t)

	em, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	seq := anim.NewSequencer(anim.WithObserver(em))

	for range 3 {
		require.NoError(t, seq.AddStep(anim.Note(anim.KindInfo, "step")))
	}

	require.NoError(t, seq.FastForward())
	seq.Reset()

	em.RecordOperation(context.Background(), "heap", "insert", 3, time.Millisecond, nil)
	em.RecordOperation(context.Background(), "heap", "insert", 0, time.Millisecond, anim.ErrPlaying)

	rm := collect(t, reader)

	assert.Equal(t, int64(3), sumOf(t, findMetric(rm, "algoviz.steps.executed.total")))
	assert.Equal(t, int64(3), sumOf(t, findMetric(rm, "algoviz.steps.rolled_back.total")))
	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "algoviz.operations.total")))

	hist := findMetric(rm, "algoviz.steps.recorded")
	require.NotNil(t, hist)

	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
}

// TestREDMetrics_RecordRequest verifies request and error counters.
func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	reader, mp := newReader(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	done := red.TrackInflight(ctx, "algoviz_run")
	red.RecordRequest(ctx, "algoviz_run", observability.StatusOK, time.Millisecond)
	red.RecordRequest(ctx, "algoviz_run", observability.StatusError, time.Millisecond)
	done()

	rm := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, findMetric(rm, "algoviz.requests.total")))
	assert.Equal(t, int64(1), sumOf(t, findMetric(rm, "algoviz.errors.total")))
	assert.Equal(t, int64(0), sumOf(t, findMetric(rm, "algoviz.inflight.requests")))
}

// TestNewPrometheus_ServesInstruments verifies the scrape endpoint.
func TestNewPrometheus_ServesInstruments(t *testing.T) {
	t.Parallel()

	mp, handler, err := observability.NewPrometheus()
	require.NoError(t, err)

	em, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	em.ObserveStep(anim.KindSwap)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "algoviz_steps_executed")
	assert.Contains(t, rec.Body.String(), `kind="swap"`)
}

// TestNewMux_HealthAndReady verifies the health endpoints.
func TestNewMux_HealthAndReady(t *testing.T) {
	t.Parallel()

	tracer := nooptrace.NewTracerProvider().Tracer("test")
	failing := func(context.Context) error { return errNotReady }
	mux := observability.NewMux(tracer, http.NotFoundHandler(), failing)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}
