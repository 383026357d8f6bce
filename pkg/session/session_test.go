package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/heap"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()

	opts = append([]session.Option{session.WithTracer(nooptrace.NewTracerProvider().Tracer("test"))}, opts...)

	return session.New(opts...)
}

// TestApply_RecordsWithoutPlaying verifies steps are queued and live state waits.
func TestApply_RecordsWithoutPlaying(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx := context.Background()

	res, err := s.Apply(ctx, session.Command{Module: session.ModuleBST, Op: session.OpInsert, Values: []int{5}})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, s.Sequencer().Len(), res.Steps)
	assert.Equal(t, "Insert 5 complete: 1 nodes, height 1", res.Summary)
	assert.Equal(t, session.ModuleBST, s.Active())
	assert.Nil(t, s.BST().Root())

	require.NoError(t, s.Sequencer().FastForward())
	require.NotNil(t, s.BST().Root())
	assert.Equal(t, 5, s.BST().Root().Value)
}

// TestApply_SwitchingModulesSettlesPrevious verifies a module whose steps were
// dropped by another module's operation shows its committed state.
func TestApply_SwitchingModulesSettlesPrevious(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, session.Command{Module: session.ModuleAVL, Op: session.OpInsert, Values: []int{5}})
	require.NoError(t, err)
	assert.Empty(t, s.AVL().Values())

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleAVL, Op: session.OpDelete, Values: []int{7, 8}})
	require.Error(t, err)
	assert.Empty(t, s.AVL().Values())

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleBST, Op: session.OpInsert, Values: []int{1}})
	require.NoError(t, err)
	require.NoError(t, s.Sequencer().FastForward())

	assert.Equal(t, []int{5}, s.AVL().Values())
	assert.Equal(t, s.AVL().Committed(), s.AVL().Values())
	assert.Equal(t, []int{1}, s.BST().Values())

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{3}})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, s.BST().Values())
	assert.Empty(t, s.Array().Values())

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleHeap, Op: session.OpInsert, Values: []int{4}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, s.Array().Values())
}

// TestRun_AVLRotationScenario verifies the known rotation sequence end to end.
func TestRun_AVLRotationScenario(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	results, err := s.Run(context.Background(),
		session.Command{Module: session.ModuleAVL, Op: session.OpInsert, Values: []int{10, 20, 30, 40, 50, 25}},
		session.Command{Module: session.ModuleAVL, Op: session.OpTraverse, Arg: "pre"},
	)
	require.NoError(t, err)
	require.Len(t, results, 7)

	assert.Equal(t, 30, s.AVL().Root().Value)
	assert.Equal(t, []int{30, 20, 10, 25, 40, 50}, results[6].Output)
	assert.True(t, tree.IsAVL(s.AVL().Live()))
}

// TestRun_Heapsort verifies sorting through the session.
func TestRun_Heapsort(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	results, err := s.Run(context.Background(),
		session.Command{Module: session.ModuleHeapsort, Op: session.OpLoad, Values: []int{12, 11, 13, 5, 6, 7, 1, 9, 15, 4}},
		session.Command{Module: session.ModuleHeapsort, Op: session.OpSort},
	)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4, 5, 6, 7, 9, 11, 12, 13, 15}, results[1].Output)
	assert.Equal(t, results[1].Output, s.Sorter().Values())
}

// TestRun_ArrayGrowth verifies the dynamic array capacity doubling.
func TestRun_ArrayGrowth(t *testing.T) {
	t.Parallel()

	s := newSession(t)

	_, err := s.Run(context.Background(),
		session.Command{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{1, 2, 3, 4, 5}})
	require.NoError(t, err)

	assert.Equal(t, 8, s.Array().Cap())
	assert.Equal(t, 5, s.Array().Len())
}

// TestApply_HeapOps verifies extract output and mode switching.
func TestApply_HeapOps(t *testing.T) {
	t.Parallel()

	s := newSession(t, session.WithHeapMode(heap.Min))
	ctx := context.Background()

	_, err := s.Run(ctx, session.Command{Module: session.ModuleHeap, Op: session.OpBuild, Values: []int{7, 3, 9, 1}})
	require.NoError(t, err)

	res, err := s.Apply(ctx, session.Command{Module: session.ModuleHeap, Op: session.OpExtract})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, []int{1}, res.Output)

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleHeap, Op: session.OpMode, Arg: "max"})
	require.NoError(t, err)
	assert.Equal(t, heap.Max, s.Heap().Mode())
	assert.True(t, s.Heap().IsValid())

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleHeap, Op: session.OpMode, Arg: "sideways"})
	require.ErrorIs(t, err, heap.ErrUnknownMode)
}

// TestApply_Errors verifies sentinel errors for bad commands.
func TestApply_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmd  session.Command
		want error
	}{
		{"unknown module", session.Command{Module: "trie", Op: session.OpInsert, Values: []int{1}}, session.ErrUnknownModule},
		{"unknown op", session.Command{Module: session.ModuleArray, Op: session.OpSort}, session.ErrUnknownOp},
		{"missing value", session.Command{Module: session.ModuleBST, Op: session.OpInsert}, session.ErrArity},
		{"too many values", session.Command{Module: session.ModuleBST, Op: session.OpInsert, Values: []int{1, 2}}, session.ErrArity},
		{"unexpected values", session.Command{Module: session.ModuleHeap, Op: session.OpExtract, Values: []int{1}}, session.ErrArity},
		{"bad order", session.Command{Module: session.ModuleBST, Op: session.OpTraverse, Arg: "level"}, tree.ErrUnknownOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newSession(t).Apply(context.Background(), tt.cmd)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

// TestApply_RejectedWhilePlaying verifies the playing guard surfaces through the session.
func TestApply_RejectedWhilePlaying(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, session.Command{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{1}})
	require.NoError(t, err)

	s.Sequencer().Play()
	defer s.Sequencer().Pause()

	_, err = s.Apply(ctx, session.Command{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{2}})
	require.ErrorIs(t, err, anim.ErrPlaying)
}

// TestExpand verifies per-value expansion.
func TestExpand(t *testing.T) {
	t.Parallel()

	cmds, err := session.Command{Module: session.ModuleHeap, Op: session.OpInsert, Values: []int{4, 2}}.Expand()
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "heap insert 2", cmds[1].String())

	cmds, err = session.Command{Module: session.ModuleHeap, Op: session.OpBuild, Values: []int{4, 2}}.Expand()
	require.NoError(t, err)
	assert.Len(t, cmds, 1)
}

// TestCatalog verifies every module is listed and lookups agree.
func TestCatalog(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, m := range session.Catalog() {
		names = append(names, m.Name)

		for _, op := range m.Ops {
			info, err := session.Lookup(m.Name, op.Name)
			require.NoError(t, err)
			assert.Equal(t, op, info)
		}
	}

	assert.Equal(t, []string{"array", "bst", "avl", "heap", "heapsort"}, names)
}

// TestWithMetrics verifies operations and steps reach the engine metrics.
func TestWithMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	em, err := observability.NewEngineMetrics(mp.Meter("test"))
	require.NoError(t, err)

	s := newSession(t, session.WithMetrics(em))

	_, err = s.Run(context.Background(), session.Command{Module: session.ModuleHeap, Op: session.OpInsert, Values: []int{1, 2}})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
		}
	}

	assert.True(t, found["algoviz.operations.total"])
	assert.True(t, found["algoviz.steps.executed.total"])
}
