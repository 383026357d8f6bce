package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/algoviz/pkg/mcp"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
)

const testTimeout = 10 * time.Second

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = cs.Close()

		cancel()
		<-serverDone
	})

	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()

	result, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	return result
}

func text(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()

	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return tc.Text
}

// TestNewServer_ToolsRegistered verifies the registered tool names.
func TestNewServer_ToolsRegistered(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	assert.Equal(t, []string{"algoviz_demo", "algoviz_modules", "algoviz_run"}, srv.ListToolNames())
}

// TestServer_Run_CancelledContext verifies Run fails on a canceled context.
func TestServer_Run_CancelledContext(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(mcp.ServerDeps{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, srv.Run(ctx))
}

// TestInMemory_ToolsList verifies every tool advertises an input schema.
func TestInMemory_ToolsList(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	toolsResult, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, toolsResult.Tools, 3)

	for _, tool := range toolsResult.Tools {
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}
}

// TestInMemory_RunBuildsOnSession verifies successive calls share one session.
func TestInMemory_RunBuildsOnSession(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := call(t, cs, mcp.ToolNameRun, map[string]any{
		"module": "avl",
		"op":     "insert",
		"values": []int{10, 20, 30},
	})
	require.False(t, result.IsError, text(t, result))

	result = call(t, cs, mcp.ToolNameRun, map[string]any{
		"module":    "avl",
		"op":        "traverse",
		"arg":       "pre",
		"snapshots": true,
	})
	require.False(t, result.IsError, text(t, result))

	var views []mcp.CommandView

	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &views))
	require.Len(t, views, 1)
	assert.Equal(t, []int{20, 10, 30}, views[0].Result.Output)
	assert.NotEmpty(t, views[0].Steps[0].Snapshot)

	result = call(t, cs, mcp.ToolNameRun, map[string]any{
		"module": "avl",
		"op":     "traverse",
		"reset":  true,
	})
	require.False(t, result.IsError)

	var fresh []mcp.CommandView

	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &fresh))
	require.Len(t, fresh, 1)
	assert.Empty(t, fresh[0].Result.Output)
}

// TestInMemory_RunErrors verifies invalid input yields tool errors.
func TestInMemory_RunErrors(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"empty module", map[string]any{"module": "", "op": "insert"}},
		{"unknown module", map[string]any{"module": "trie", "op": "insert", "values": []int{1}}},
		{"bad arity", map[string]any{"module": "heap", "op": "extract", "values": []int{1}}},
	}

	for _, tt := range tests {
		result := call(t, cs, mcp.ToolNameRun, tt.args)
		assert.True(t, result.IsError, tt.name)
	}
}

// TestInMemory_ModulesAndDemo verifies the catalog and demo tools.
func TestInMemory_ModulesAndDemo(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	result := call(t, cs, mcp.ToolNameModules, map[string]any{})
	require.False(t, result.IsError)
	assert.Contains(t, text(t, result), `"heapsort"`)
	assert.Contains(t, text(t, result), `"avl-rotations"`)

	result = call(t, cs, mcp.ToolNameDemo, map[string]any{"name": "heapsort"})
	require.False(t, result.IsError, text(t, result))
	assert.Contains(t, text(t, result), "array sorted")

	again := call(t, cs, mcp.ToolNameDemo, map[string]any{"name": "HeapSort"})
	require.False(t, again.IsError)
	assert.Equal(t, text(t, result), text(t, again))

	result = call(t, cs, mcp.ToolNameDemo, map[string]any{"name": "bogosort"})
	assert.True(t, result.IsError)
}

// TestInMemory_Metrics verifies RED metrics are recorded per tool call.
func TestInMemory_Metrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{Metrics: red}))

	call(t, cs, mcp.ToolNameModules, map[string]any{})
	call(t, cs, mcp.ToolNameRun, map[string]any{"module": "", "op": ""})

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(2), totals["algoviz.requests.total"])
	assert.Equal(t, int64(1), totals["algoviz.errors.total"])
}

func ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// TestInMemory_RunStepLimit verifies degenerate inserts are refused once the
// per-call step budget is spent.
func TestInMemory_RunStepLimit(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	start := time.Now()
	result := call(t, cs, mcp.ToolNameRun, map[string]any{
		"module": "bst",
		"op":     "insert",
		"values": ascending(300),
	})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "too many steps")
	assert.Less(t, time.Since(start), 5*time.Second)

	result = call(t, cs, mcp.ToolNameRun, map[string]any{"module": "bst", "op": "traverse"})
	require.False(t, result.IsError, text(t, result))
}

// TestInMemory_RunSnapshotLimit verifies per-step snapshots use the tighter budget.
func TestInMemory_RunSnapshotLimit(t *testing.T) {
	t.Parallel()

	cs := connect(t, mcp.NewServer(mcp.ServerDeps{}))

	args := map[string]any{
		"module":    "bst",
		"op":        "insert",
		"values":    ascending(80),
		"reset":     true,
		"snapshots": true,
	}

	result := call(t, cs, mcp.ToolNameRun, args)
	assert.True(t, result.IsError)

	args["snapshots"] = false
	result = call(t, cs, mcp.ToolNameRun, args)
	require.False(t, result.IsError, text(t, result))

	var views []mcp.CommandView

	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &views))
	require.Len(t, views, 80)

	last := views[len(views)-1]
	assert.Contains(t, last.Final, "79")

	for _, sv := range last.Steps {
		assert.Empty(t, sv.Snapshot)
	}
}
