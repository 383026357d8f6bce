package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim/animtest"
)

func newEditor(t *testing.T, sink *animtest.Sink, model, live *tree.Arena) *tree.Editor {
	t.Helper()

	rec := anim.NewRecorder(sink, model, live)
	require.NoError(t, rec.Begin())

	return tree.NewEditor(rec)
}

// TestBuild_Shape verifies plain insertion order decides the shape.
func TestBuild_Shape(t *testing.T) {
	t.Parallel()

	a := tree.Build([]int{50, 30, 70, 20, 40, 60, 80, 30})

	assert.Equal(t, 7, a.Len())
	assert.True(t, tree.IsBST(a))
	assert.Equal(t, []int{20, 30, 40, 50, 60, 70, 80}, tree.Values(a))
	assert.Equal(t, 50, a.Value(a.Root()))
	assert.Equal(t, 3, tree.TreeHeight(a))
	assert.Equal(t, 3, a.Height(a.Root()))
}

// TestBuildBalanced_IsAVL verifies balanced construction.
func TestBuildBalanced_IsAVL(t *testing.T) {
	t.Parallel()

	a := tree.BuildBalanced([]int{9, 1, 5, 3, 7, 2, 8, 4, 6, 5})

	assert.Equal(t, 9, a.Len())
	assert.True(t, tree.IsAVL(a))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, tree.Values(a))
}

// TestIsAVL_RejectsChain verifies the balance check.
func TestIsAVL_RejectsChain(t *testing.T) {
	t.Parallel()

	a := tree.Build([]int{1, 2, 3})

	assert.True(t, tree.IsBST(a))
	assert.False(t, tree.IsAVL(a))
}

// TestWalk_Orders verifies the three depth-first orders.
func TestWalk_Orders(t *testing.T) {
	t.Parallel()

	a := tree.Build([]int{2, 1, 3})

	values := func(order tree.Order) []int {
		var out []int
		for _, id := range tree.Walk(a, order) {
			out = append(out, a.Value(id))
		}

		return out
	}

	assert.Equal(t, []int{1, 2, 3}, values(tree.InOrder))
	assert.Equal(t, []int{2, 1, 3}, values(tree.PreOrder))
	assert.Equal(t, []int{1, 3, 2}, values(tree.PostOrder))
}

// TestParseOrder verifies accepted spellings.
func TestParseOrder(t *testing.T) {
	t.Parallel()

	cases := map[string]tree.Order{
		"in": tree.InOrder, "inorder": tree.InOrder, "In-Order": tree.InOrder,
		"pre": tree.PreOrder, "pre_order": tree.PreOrder,
		"post": tree.PostOrder, "postorder": tree.PostOrder,
	}

	for in, want := range cases {
		got, err := tree.ParseOrder(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := tree.ParseOrder("level")
	require.ErrorIs(t, err, tree.ErrUnknownOrder)
}

// TestPaths verifies search and insert paths.
func TestPaths(t *testing.T) {
	t.Parallel()

	a := tree.Build([]int{50, 30, 70, 20, 40})

	assert.Equal(t, []int{50, 30, 40}, tree.SearchPath(a, 40))
	assert.Equal(t, []int{50, 30, 40}, tree.InsertPath(a, 45))
	assert.Equal(t, []int{50, 70}, tree.InsertPath(a, 60))
	assert.Nil(t, tree.SearchPath(tree.NewArena(), 1))
}

// TestSearch_NarratesComparisons verifies search steps replay highlights only.
func TestSearch_NarratesComparisons(t *testing.T) {
	t.Parallel()

	model := tree.Build([]int{50, 30, 70})
	live := model.Clone()
	sink := &animtest.Sink{}
	ed := newEditor(t, sink, model, live)

	found := tree.Search(ed, 30)
	require.NotEqual(t, tree.Nil, found)
	assert.Equal(t, []anim.Kind{anim.KindCompare, anim.KindVisit}, sink.Kinds())

	sink.RunAll()
	assert.Equal(t, tree.MarkFound, live.MarkOf(found))

	missing := tree.Search(ed, 99)
	assert.Equal(t, tree.Nil, missing)
	assert.Equal(t, 1, sink.CountKind(anim.KindNotFound))
}

// TestTraverse_OneStepPerNode verifies traversal narration.
func TestTraverse_OneStepPerNode(t *testing.T) {
	t.Parallel()

	model := tree.Build([]int{4, 2, 6, 1, 3})
	sink := &animtest.Sink{}
	ed := newEditor(t, sink, model, model.Clone())

	got := tree.Traverse(ed, tree.PreOrder)

	assert.Equal(t, []int{4, 2, 1, 3, 6}, got)
	assert.Equal(t, 5, sink.CountKind(anim.KindVisit))
	assert.Equal(t, []int{1, 2, 3, 4, 6}, tree.Values(model))
}

// TestEditor_UndoRestoresArena verifies edits revert exactly.
func TestEditor_UndoRestoresArena(t *testing.T) {
	t.Parallel()

	model := tree.Build([]int{2, 1})
	live := model.Clone()
	sink := &animtest.Sink{}
	ed := newEditor(t, sink, model, live)

	leaf := ed.NewLeaf(3)
	ed.Link(model.Root(), tree.Right, leaf)
	ed.UpdateHeight(model.Root())
	ed.Highlight(tree.MarkInsert, leaf)
	ed.Emit(anim.KindInsert, "insert 3")

	ed.ClearHighlight()

	left := model.Left(model.Root())
	ed.Link(model.Root(), tree.Left, tree.Nil)
	ed.Free(left)
	ed.Emit(anim.KindRemove, "remove 1")

	sink.RunAll()
	assert.Equal(t, []int{2, 3}, tree.Values(live))
	assert.Equal(t, 2, live.Len())

	for i := len(sink.Steps) - 1; i >= 0; i-- {
		rev, ok := sink.Steps[i].(anim.Reversible)
		require.True(t, ok)
		rev.Undo()
	}

	assert.Equal(t, []int{1, 2}, tree.Values(live))
	assert.Equal(t, 2, live.Len())
	assert.Equal(t, 2, live.Height(live.Root()))
	assert.Equal(t, tree.MarkNone, live.MarkOf(live.Root()))
}

// TestView_MirrorsArena verifies the pointer view.
func TestView_MirrorsArena(t *testing.T) {
	t.Parallel()

	assert.Nil(t, tree.NewArena().View())

	root := tree.Build([]int{2, 1, 3}).View()
	require.NotNil(t, root)
	assert.Equal(t, 2, root.Value)
	assert.Equal(t, 2, root.Height)
	assert.Equal(t, 1, root.Left.Value)
	assert.Equal(t, 3, root.Right.Value)
	assert.Nil(t, root.Left.Left)
}
