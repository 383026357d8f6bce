package tree

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// ErrUnknownOrder is returned by ParseOrder for unrecognized names.
var ErrUnknownOrder = errors.New("unknown traversal order")

// Order is a depth-first traversal order.
type Order uint8

// Traversal orders.
const (
	InOrder Order = iota
	PreOrder
	PostOrder
)

// String returns "in", "pre" or "post".
func (o Order) String() string {
	switch o {
	case InOrder:
		return "in"
	case PreOrder:
		return "pre"
	case PostOrder:
		return "post"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// ParseOrder accepts "in", "pre", "post" and their "-order" spellings.
func ParseOrder(s string) (Order, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "order") {
	case "in", "in-", "in_":
		return InOrder, nil
	case "pre", "pre-", "pre_":
		return PreOrder, nil
	case "post", "post-", "post_":
		return PostOrder, nil
	default:
		return InOrder, fmt.Errorf("%w: %q", ErrUnknownOrder, s)
	}
}

// Walk returns the nodes of a in the given order.
func Walk(a *Arena, order Order) []ID {
	out := make([]ID, 0, a.Len())

	var visit func(ID)

	visit = func(n ID) {
		if n == Nil {
			return
		}

		if order == PreOrder {
			out = append(out, n)
		}

		visit(a.Left(n))

		if order == InOrder {
			out = append(out, n)
		}

		visit(a.Right(n))

		if order == PostOrder {
			out = append(out, n)
		}
	}

	visit(a.root)

	return out
}

// Values returns the in-order values of a.
func Values(a *Arena) []int {
	ids := Walk(a, InOrder)
	out := make([]int, len(ids))

	for i, id := range ids {
		out[i] = a.Value(id)
	}

	return out
}

// Traverse records one visit step per node in order and returns the
// visited values. The tree is not changed.
func Traverse(ed *Editor, order Order) []int {
	m := ed.Model()
	ids := Walk(m, order)

	if len(ids) == 0 {
		ed.Emit(anim.KindInfo, "Tree is empty: nothing to traverse")

		return nil
	}

	out := make([]int, 0, len(ids))

	for i, id := range ids {
		v := m.Value(id)
		out = append(out, v)

		ed.Highlight(MarkVisit, id)
		ed.Emit(anim.KindVisit, "%s-order visit %d of %d: %d", order, i+1, len(ids), v)
	}

	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "%s-order traversal: %v", order, out)

	return out
}

// Search records a comparison step per visited node and returns the node
// holding v, or Nil after a not-found step.
func Search(ed *Editor, v int) ID {
	m := ed.Model()
	n := m.Root()

	if n == Nil {
		ed.Emit(anim.KindNotFound, "Tree is empty: %d not found", v)

		return Nil
	}

	for n != Nil {
		cur := m.Value(n)

		switch {
		case v < cur:
			ed.Highlight(MarkCompare, n)
			ed.Emit(anim.KindCompare, "%d < %d: go left", v, cur)

			n = m.Left(n)
		case v > cur:
			ed.Highlight(MarkCompare, n)
			ed.Emit(anim.KindCompare, "%d > %d: go right", v, cur)

			n = m.Right(n)
		default:
			ed.Highlight(MarkFound, n)
			ed.Emit(anim.KindVisit, "Found %d", v)

			return n
		}
	}

	ed.ClearHighlight()
	ed.Emit(anim.KindNotFound, "%d not found", v)

	return Nil
}

// Successor records the walk to the in-order successor of n, the minimum of
// its right subtree, and returns it. n must have a right child.
func Successor(ed *Editor, n ID) ID {
	m := ed.Model()
	s := m.Right(n)

	ed.Highlight(MarkSuccessor, s)
	ed.Emit(anim.KindVisit, "Look for the successor of %d in its right subtree: start at %d", m.Value(n), m.Value(s))

	for m.Left(s) != Nil {
		s = m.Left(s)

		ed.Highlight(MarkSuccessor, s)
		ed.Emit(anim.KindVisit, "Go left to %d", m.Value(s))
	}

	return s
}

// SearchPath returns the values visited looking for v, ending at the
// matching node when v is present.
func SearchPath(a *Arena, v int) []int {
	var path []int

	for n := a.Root(); n != Nil; {
		cur := a.Value(n)
		path = append(path, cur)

		switch {
		case v < cur:
			n = a.Left(n)
		case v > cur:
			n = a.Right(n)
		default:
			return path
		}
	}

	return path
}

// InsertPath returns the values visited inserting v, ending at the last
// node before the insertion point. For a present value it ends at that node.
func InsertPath(a *Arena, v int) []int {
	return SearchPath(a, v)
}

// Build returns an arena holding values inserted one by one without
// rebalancing. Duplicates are dropped.
func Build(values []int) *Arena {
	a := NewArena()

	for _, v := range values {
		insertPlain(a, v)
	}

	return a
}

func insertPlain(a *Arena, v int) {
	parent, side := Nil, Left

	for n := a.root; n != Nil; {
		cur := a.nodes[n].value

		switch {
		case v < cur:
			parent, side, n = n, Left, a.nodes[n].left
		case v > cur:
			parent, side, n = n, Right, a.nodes[n].right
		default:
			return
		}
	}

	a.setChild(parent, side, a.alloc(v))
	fixHeights(a, a.root)
}

// BuildBalanced returns a height-balanced arena over the distinct values.
func BuildBalanced(values []int) *Arena {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	a := NewArena()
	a.root = buildRange(a, sorted)

	return a
}

func buildRange(a *Arena, sorted []int) ID {
	if len(sorted) == 0 {
		return Nil
	}

	mid := len(sorted) / 2
	id := a.alloc(sorted[mid])
	left := buildRange(a, sorted[:mid])
	right := buildRange(a, sorted[mid+1:])

	a.nodes[id].left = left
	a.nodes[id].right = right
	a.nodes[id].height = 1 + max(a.Height(left), a.Height(right))

	return id
}

func fixHeights(a *Arena, n ID) int {
	if n == Nil {
		return 0
	}

	h := 1 + max(fixHeights(a, a.nodes[n].left), fixHeights(a, a.nodes[n].right))
	a.nodes[n].height = h

	return h
}

// Unlink removes n when it has at most one child, splicing the child into
// its place, and reports whether it did. A node with two children is left
// alone.
func Unlink(ed *Editor, parent ID, side Side, n ID) bool {
	m := ed.Model()
	v, l, r := m.Value(n), m.Left(n), m.Right(n)

	switch {
	case l == Nil && r == Nil:
		ed.Link(parent, side, Nil)
		ed.Free(n)
		ed.Emit(anim.KindRemove, "Remove leaf %d", v)

		return true
	case l != Nil && r != Nil:
		return false
	}

	child := l
	if child == Nil {
		child = r
	}

	ed.Link(parent, side, child)
	ed.Free(n)
	ed.Highlight(MarkVisit, child)
	ed.Emit(anim.KindRemove, "Remove %d and splice its child %d into its place", v, m.Value(child))

	return true
}

// CopySuccessor records the walk to the in-order successor of n, copies the
// successor's value into n and returns that value. The caller then deletes
// the value from the right subtree of n.
func CopySuccessor(ed *Editor, n ID) int {
	m := ed.Model()
	v := m.Value(n)
	succ := Successor(ed, n)
	sv := m.Value(succ)

	ed.SetValue(n, sv)
	ed.Highlight(MarkFound, n, succ)
	ed.Emit(anim.KindCopy, "Replace %d with its in-order successor %d", v, sv)

	ed.Highlight(MarkSuccessor, succ)
	ed.Emit(anim.KindInfo, "Delete the successor %d from the right subtree", sv)

	return sv
}
