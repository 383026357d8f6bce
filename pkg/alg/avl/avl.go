// Package avl implements an animated AVL tree. Every ancestor of a changed
// node has its height recomputed and its balance checked on the way back up,
// and each rotation is narrated with the LL, RR, LR or RL case that caused it.
package avl

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// Case is the imbalance pattern at a node.
type Case uint8

// Rebalancing cases.
const (
	CaseNone Case = iota
	CaseLL
	CaseRR
	CaseLR
	CaseRL
)

// String returns the case name.
func (c Case) String() string {
	switch c {
	case CaseLL:
		return "LL"
	case CaseRR:
		return "RR"
	case CaseLR:
		return "LR"
	case CaseRL:
		return "RL"
	default:
		return "none"
	}
}

// balanceLimit is the largest allowed |height(left) - height(right)|.
const balanceLimit = 1

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

// Tree is a self-balancing binary search tree of distinct integers.
type Tree struct {
	model     *tree.Arena
	live      *tree.Arena
	rec       *anim.Recorder[*tree.Arena]
	logger    *slog.Logger
	rotations []Case
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

// Live returns the arena steps mutate.
func (t *Tree) Live() *tree.Arena { return t.live }

// Rotations returns the cases rebalanced by the last operation, in order.
func (t *Tree) Rotations() []Case { return append([]Case(nil), t.rotations...) }

func (t *Tree) begin(op string) (*tree.Editor, error) {
	err := t.rec.Begin()
	if err != nil {
		return nil, fmt.Errorf("avl %s: %w", op, err)
	}

	t.model.Compact()
	t.live.CopyFrom(t.model)
	t.rotations = t.rotations[:0]

	return tree.NewEditor(t.rec), nil
}

func (t *Tree) finish(ed *tree.Editor, op, label string) error {
	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "%s complete: %d nodes, height %d", label, t.model.Len(), t.model.Height(t.model.Root()))

	err := t.rec.Finish()
	if err != nil {
		return fmt.Errorf("avl %s: %w", op, err)
	}

	t.logger.Debug("avl operation recorded",
		"module", "avl", "op", op, "nodes", t.model.Len(), "rotations", len(t.rotations), "steps", t.rec.Count())

	return nil
}

// Insert adds v and rebalances. It reports false when v was already present.
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

	switch {
	case v < cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d < %d: go left", v, cur)

		if !t.insert(ed, n, tree.Left, v) {
			return false
		}
	case v > cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d > %d: go right", v, cur)

		if !t.insert(ed, n, tree.Right, v) {
			return false
		}
	default:
		ed.Highlight(tree.MarkFound, n)
		ed.Emit(anim.KindInfo, "%d is already present", v)

		return false
	}

	t.rebalance(ed, parent, side, n, func(b int) Case { return insertCase(m, n, b, v) })

	return true
}

// insertCase picks the rotation after inserting v below n by comparing v
// with the value of the heavy child.
func insertCase(m *tree.Arena, n tree.ID, b, v int) Case {
	switch {
	case b > balanceLimit && v < m.Value(m.Left(n)):
		return CaseLL
	case b < -balanceLimit && v > m.Value(m.Right(n)):
		return CaseRR
	case b > balanceLimit && v > m.Value(m.Left(n)):
		return CaseLR
	case b < -balanceLimit && v < m.Value(m.Right(n)):
		return CaseRL
	default:
		return CaseNone
	}
}

// deleteCase picks the rotation after a deletion below n from the balance
// of the heavy child.
func deleteCase(m *tree.Arena, n tree.ID, b int) Case {
	switch {
	case b > balanceLimit && m.Balance(m.Left(n)) >= 0:
		return CaseLL
	case b > balanceLimit:
		return CaseLR
	case b < -balanceLimit && m.Balance(m.Right(n)) <= 0:
		return CaseRR
	case b < -balanceLimit:
		return CaseRL
	default:
		return CaseNone
	}
}

// Delete removes v and rebalances. It reports false when v was absent.
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

	switch {
	case v < cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d < %d: go left", v, cur)

		if !t.remove(ed, n, tree.Left, v) {
			return false
		}
	case v > cur:
		ed.Highlight(tree.MarkCompare, n)
		ed.Emit(anim.KindCompare, "%d > %d: go right", v, cur)

		if !t.remove(ed, n, tree.Right, v) {
			return false
		}
	default:
		ed.Highlight(tree.MarkRemove, n)
		ed.Emit(anim.KindVisit, "Found %d", v)

		if tree.Unlink(ed, parent, side, n) {
			return true
		}

		sv := tree.CopySuccessor(ed, n)
		t.remove(ed, n, tree.Right, sv)
	}

	t.rebalance(ed, parent, side, n, func(b int) Case { return deleteCase(m, n, b) })

	return true
}

// rebalance recomputes the height of n, narrates its balance and rotates
// when |balance| exceeds one. pick chooses the case from the balance.
func (t *Tree) rebalance(ed *tree.Editor, parent tree.ID, side tree.Side, n tree.ID, pick func(b int) Case) {
	m := ed.Model()
	h := ed.UpdateHeight(n)
	b := m.Balance(n)
	v := m.Value(n)

	if b >= -balanceLimit && b <= balanceLimit {
		ed.Highlight(tree.MarkVisit, n)
		ed.Emit(anim.KindBalance, "Node %d: height %d, balance %d, balanced", v, h, b)

		return
	}

	c := pick(b)

	ed.Highlight(tree.MarkImbalance, n)
	ed.Emit(anim.KindBalance, "Node %d: height %d, balance %d, %s case", v, h, b, c)

	t.rotations = append(t.rotations, c)

	switch c {
	case CaseLL:
		rotateRight(ed, parent, side, n, c)
	case CaseRR:
		rotateLeft(ed, parent, side, n, c)
	case CaseLR:
		rotateLeft(ed, n, tree.Left, m.Left(n), c)
		rotateRight(ed, parent, side, n, c)
	case CaseRL:
		rotateRight(ed, n, tree.Right, m.Right(n), c)
		rotateLeft(ed, parent, side, n, c)
	case CaseNone:
	}
}

// rotateRight lifts the left child x of y into y's place: y becomes x's
// right child and x's former right subtree becomes y's left. Heights are
// recomputed for y, then x.
func rotateRight(ed *tree.Editor, parent tree.ID, side tree.Side, y tree.ID, c Case) {
	m := ed.Model()
	x := m.Left(y)

	ed.Link(y, tree.Left, m.Right(x))
	ed.Link(x, tree.Right, y)
	ed.Link(parent, side, x)
	ed.UpdateHeight(y)
	ed.UpdateHeight(x)
	ed.Highlight(tree.MarkRotate, x, y)
	ed.Emit(anim.KindRotate, "%s case: rotate right at %d, %d becomes the subtree root", c, m.Value(y), m.Value(x))
}

// rotateLeft is the mirror image of rotateRight.
func rotateLeft(ed *tree.Editor, parent tree.ID, side tree.Side, y tree.ID, c Case) {
	m := ed.Model()
	x := m.Right(y)

	ed.Link(y, tree.Right, m.Left(x))
	ed.Link(x, tree.Left, y)
	ed.Link(parent, side, x)
	ed.UpdateHeight(y)
	ed.UpdateHeight(x)
	ed.Highlight(tree.MarkRotate, x, y)
	ed.Emit(anim.KindRotate, "%s case: rotate left at %d, %d becomes the subtree root", c, m.Value(y), m.Value(x))
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
		return nil, fmt.Errorf("avl traverse: %w", err)
	}

	return out, nil
}

// SearchPath returns the values visited looking for v in the committed tree.
func (t *Tree) SearchPath(v int) []int { return tree.SearchPath(t.model, v) }

// InsertPath returns the values visited inserting v into the committed tree.
func (t *Tree) InsertPath(v int) []int { return tree.InsertPath(t.model, v) }

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

// Load replaces the tree with a height-balanced tree over the distinct
// values.
func (t *Tree) Load(values []int) error {
	ed, err := t.begin("load")
	if err != nil {
		return err
	}

	ed.Replace(tree.BuildBalanced(values))
	ed.Emit(anim.KindLoad, "Load %d values: %v", len(values), values)

	return t.finish(ed, "load", "Load")
}
