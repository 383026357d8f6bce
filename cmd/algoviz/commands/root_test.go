package commands

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
)

// TestTeardown_ShutsDownMetrics verifies the scrape server and its meter
// provider are both stopped.
func TestTeardown_ShutsDownMetrics(t *testing.T) {
	t.Parallel()

	a := &app{providers: observability.Providers{
		Tracer: nooptrace.NewTracerProvider().Tracer("test"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}}

	require.NoError(t, a.serveMetrics("127.0.0.1:0"))
	require.NotNil(t, a.metricsProvider)

	_, live := a.metricsProvider.Meter("algoviz").(noop.Meter)
	assert.False(t, live)

	require.NoError(t, a.teardown(context.Background()))

	_, stopped := a.metricsProvider.Meter("algoviz").(noop.Meter)
	assert.True(t, stopped)
}
