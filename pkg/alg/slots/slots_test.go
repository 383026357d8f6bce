package slots_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/slots"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim/animtest"
)

func newEditor(t *testing.T, values []int) (*slots.Editor, *slots.Array, *animtest.Sink) {
	t.Helper()

	model, live := slots.New(values), slots.New(values)
	sink := &animtest.Sink{}
	rec := anim.NewRecorder(sink, model, live)
	require.NoError(t, rec.Begin())

	return slots.NewEditor(rec), live, sink
}

// TestIndexMath verifies implicit tree addressing.
func TestIndexMath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, slots.Parent(1))
	assert.Equal(t, 0, slots.Parent(2))
	assert.Equal(t, 2, slots.Parent(6))
	assert.Equal(t, 7, slots.Left(3))
	assert.Equal(t, 8, slots.Right(3))
}

// TestBuild_MaxHeap verifies bottom-up construction replays on the live array.
func TestBuild_MaxHeap(t *testing.T) {
	t.Parallel()

	values := []int{3, 9, 2, 1, 4, 5}
	ed, live, sink := newEditor(t, values)

	slots.Build(ed, len(values), slots.MaxOrder)
	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "done")

	assert.True(t, slots.IsHeap(ed.Model().Values(), len(values), slots.MaxOrder))
	assert.Equal(t, values, live.Values())

	sink.RunAll()
	assert.Equal(t, ed.Model().Values(), live.Values())

	for _, s := range live.Slots() {
		assert.Equal(t, slots.MarkNone, s.Mark)
	}
}

// TestBuild_MinHeap verifies the min order.
func TestBuild_MinHeap(t *testing.T) {
	t.Parallel()

	values := []int{8, 6, 7, 5, 3, 0, 9}
	ed, _, _ := newEditor(t, values)

	slots.Build(ed, len(values), slots.MinOrder)

	assert.True(t, slots.IsHeap(ed.Model().Values(), len(values), slots.MinOrder))
	assert.Equal(t, 0, ed.Model().Value(0))
}

// TestSiftDown_TieKeepsLeftChild verifies ties resolve to the left child.
func TestSiftDown_TieKeepsLeftChild(t *testing.T) {
	t.Parallel()

	ed, _, _ := newEditor(t, []int{1, 5, 5})

	slots.SiftDown(ed, 0, 3, slots.MaxOrder)

	assert.Equal(t, []int{5, 1, 5}, ed.Model().Values())
}

// TestSiftUp_StopsWhenOrderHolds verifies sift-up termination.
func TestSiftUp_StopsWhenOrderHolds(t *testing.T) {
	t.Parallel()

	ed, _, sink := newEditor(t, []int{10, 4, 7, 9})

	slots.SiftUp(ed, 3, slots.MaxOrder)

	assert.Equal(t, []int{10, 9, 7, 4}, ed.Model().Values())
	assert.Equal(t, 1, sink.CountKind(anim.KindSwap))
}

// TestReplace_RoundTrip verifies whole-content edits revert.
func TestReplace_RoundTrip(t *testing.T) {
	t.Parallel()

	ed, live, sink := newEditor(t, []int{1, 2})

	ed.Replace([]int{7, 8, 9})
	ed.Emit(anim.KindLoad, "load")

	sink.RunAll()
	assert.Equal(t, []int{7, 8, 9}, live.Values())
	assert.Equal(t, 3, live.Size())

	rev, ok := sink.Steps[0].(anim.Reversible)
	require.True(t, ok)
	rev.Undo()
	assert.Equal(t, []int{1, 2}, live.Values())
}

// TestMark_String verifies mark names.
func TestMark_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sorted", slots.MarkSorted.String())
	assert.Equal(t, "max", slots.MaxOrder.String())
	assert.Equal(t, "min", slots.MinOrder.String())
}
