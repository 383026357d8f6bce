// Package bst implements an animated, unbalanced binary search tree. Insert,
// delete, membership and traversal record one step per visited node;
// deleting a node with two children copies in its in-order successor and
// then deletes the successor from the right subtree.
package bst

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the operation logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// Tree is a binary search tree of distinct integers.
type Tree struct {
	model  *tree.Arena
	live   *tree.Arena
	rec    *anim.Recorder[*tree.Arena]
	logger *slog.Logger
}

// New creates an empty tree recording into sink.
func New(sink anim.Sink, opts ...Option) *Tree {
	t := &Tree{
		model:  tree.NewArena(),
		live:   tree.NewArena(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	t.rec = anim.NewRecorder(sink, t.model, t.live)

	return t
}

// Root returns a view of the live tree, nil when empty.
func (t *Tree) Root() *tree.Node { return t.live.View() }

// Len returns the live node count.
func (t *Tree) Len() int { return t.live.Len() }

// Values returns the live in-order values.
func (t *Tree) Values() []int { return tree.Values(t.live) }

// Committed returns the in-order values after the last operation completes.
func (t *Tree) Committed() []int { return tree.Values(t.model) }

// Settle puts the live tree on the committed state once the tree's steps
// have left the sink.
func (t *Tree) Settle() { t.live.CopyFrom(t.model) }

// Live returns the arena steps mutate, for renderers that walk IDs.
func (t *Tree) Live() *tree.Arena { return t.live }

// SearchPath returns the values visited looking for v in the committed tree.
func (t *Tree) SearchPath(v int) []int { return tree.SearchPath(t.model, v) }

// InsertPath returns the values visited inserting v into the committed tree.
func (t *Tree) InsertPath(v int) []int { return tree.InsertPath(t.model, v) }

func (t *Tree) begin(op string) (*tree.Editor, error) {
	err := t.rec.Begin()
	if err != nil {
		return nil, fmt.Errorf("bst %s: %w", op, err)
	}

	t.model.Compact()
	t.live.CopyFrom(t.model)

	return tree.NewEditor(t.rec), nil
}

func (t *Tree) finish(ed *tree.Editor, op, label string) error {
	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "%s complete: %d nodes, height %d", label, t.model.Len(), tree.TreeHeight(t.model))

	err := t.rec.Finish()
	if err != nil {
		return fmt.Errorf("bst %s: %w", op, err)
	}

	t.logger.Debug("bst operation recorded",
		"module", "bst", "op", op, "nodes", t.model.Len(), "steps", t.rec.Count())

	return nil
}

// Insert adds v. It reports false when v was already present.
func (t *Tree) Insert(v int) (bool, error) {
	ed, err := t.begin("insert")
	if err != nil {
		return false, err
	}

	added := t.insert(ed, tree.Nil, tree.Left, v)

	return added, t.finish(ed, "insert", fmt.Sprintf("Insert %d", v))
}

func (t *Tree) insert(ed *tree.Editor, parent tree.ID, side tree.Side, v int) bool {
	m := ed.Model()
	n := m.Child(parent, side)

	if n == tree.Nil {
		leaf := ed.NewLeaf(v)
		ed.Link(parent, side, leaf)
		ed.Highlight(tree.MarkInsert, leaf)

		if parent == tree.Nil {
			ed.Emit(anim.KindInsert, "Insert %d as the root", v)
		} else {
			ed.Emit(anim.KindInsert, "Insert %d as the %s child of %d", v, side, m.Value(parent))
		}

		return true
	}

	cur := m.Value(n)

	var added bool

	switch {
	case v < cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d < %d: go left", v, cur)

		added = t.insert(ed, n, tree.Left, v)
	case v > cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d > %d: go right", v, cur)

		added = t.insert(ed, n, tree.Right, v)
	default:
		ed.Highlight(tree.MarkFound, n)
		ed.Emit(anim.KindInfo, "%d is already present", v)

		return false
	}

	ed.UpdateHeight(n)

	return added
}

// Delete removes v. It reports false when v was absent.
func (t *Tree) Delete(v int) (bool, error) {
	ed, err := t.begin("delete")
	if err != nil {
		return false, err
	}

	if t.model.Root() == tree.Nil {
		ed.Emit(anim.KindNotFound, "Tree is empty: %d not found", v)

		return false, t.finish(ed, "delete", fmt.Sprintf("Delete %d", v))
	}

	removed := t.remove(ed, tree.Nil, tree.Left, v)

	return removed, t.finish(ed, "delete", fmt.Sprintf("Delete %d", v))
}

func (t *Tree) remove(ed *tree.Editor, parent tree.ID, side tree.Side, v int) bool {
	m := ed.Model()
	n := m.Child(parent, side)

	if n == tree.Nil {
		ed.ClearHighlight()
		ed.Emit(anim.KindNotFound, "%d not found", v)

		return false
	}

	cur := m.Value(n)

	var removed bool

	switch {
	case v < cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d < %d: go left", v, cur)

		removed = t.remove(ed, n, tree.Left, v)
	case v > cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d > %d: go right", v, cur)

		removed = t.remove(ed, n, tree.Right, v)
	default:
		ed.Highlight(tree.MarkRemove, n)
		ed.Emit(anim.KindVisit, "Found %d", v)

		if tree.Unlink(ed, parent, side, n) {
			return true
		}

		sv := tree.CopySuccessor(ed, n)
		removed = t.remove(ed, n, tree.Right, sv)
	}

	ed.UpdateHeight(n)

	return removed
}

// Contains records a search for v.
func (t *Tree) Contains(v int) (bool, error) {
	ed, err := t.begin("contains")
	if err != nil {
		return false, err
	}

	found := tree.Search(ed, v) != tree.Nil

	return found, t.finish(ed, "contains", fmt.Sprintf("Search for %d", v))
}

// Traverse records a depth-first walk and returns the visited values.
func (t *Tree) Traverse(order tree.Order) ([]int, error) {
	ed, err := t.begin("traverse")
	if err != nil {
		return nil, err
	}

	out := tree.Traverse(ed, order)

	err = t.rec.Finish()
	if err != nil {
		return nil, fmt.Errorf("bst traverse: %w", err)
	}

	return out, nil
}

// Clear empties the tree.
func (t *Tree) Clear() error {
	ed, err := t.begin("clear")
	if err != nil {
		return err
	}

	ed.Replace(tree.NewArena())
	ed.Emit(anim.KindClear, "Clear the tree")

	return t.finish(ed, "clear", "Clear")
}

// Load replaces the tree with values inserted in order, without narrating
// each insertion.
func (t *Tree) Load(values []int) error {
	ed, err := t.begin("load")
	if err != nil {
		return err
	}

	ed.Replace(tree.Build(values))
	ed.Emit(anim.KindLoad, "Load %d values: %v", len(values), values)

	return t.finish(ed, "load", "Load")
}
