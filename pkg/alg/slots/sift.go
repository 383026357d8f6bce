package slots

import "github.com/Sumatoshi-tech/algoviz/pkg/anim"

// Order selects the heap property.
type Order int

// Heap orders.
const (
	MaxOrder Order = iota
	MinOrder
)

// String returns "max" or "min".
func (o Order) String() string {
	if o == MinOrder {
		return "min"
	}

	return "max"
}

// Above reports whether a belongs above b in a heap of this order.
func (o Order) Above(a, b int) bool {
	if o == MinOrder {
		return a < b
	}

	return a > b
}

func (o Order) extreme() string {
	if o == MinOrder {
		return "smallest"
	}

	return "largest"
}

// SiftDown restores heap order below i within the first n slots, emitting
// one compare step per level and one swap step per exchange. The left child
// is evaluated before the right one, so ties keep the left child.
func SiftDown(ed *Editor, i, n int, order Order) {
	for {
		m := ed.Model()
		l, r := Left(i), Right(i)

		if l >= n {
			ed.Highlight(MarkActive, i)
			ed.Emit(anim.KindInfo, "%d at index %d is a leaf", m.Value(i), i)

			return
		}

		best := i
		if order.Above(m.Value(l), m.Value(best)) {
			best = l
		}

		if r < n && order.Above(m.Value(r), m.Value(best)) {
			best = r
		}

		if r < n {
			ed.Highlight(MarkCompare, i, l, r)
			ed.Emit(anim.KindCompare, "Compare %d with children %d and %d: %s is %d",
				m.Value(i), m.Value(l), m.Value(r), order.extreme(), m.Value(best))
		} else {
			ed.Highlight(MarkCompare, i, l)
			ed.Emit(anim.KindCompare, "Compare %d with child %d: %s is %d",
				m.Value(i), m.Value(l), order.extreme(), m.Value(best))
		}

		if best == i {
			ed.Highlight(MarkActive, i)
			ed.Emit(anim.KindInfo, "%d at index %d satisfies the %s-heap property", m.Value(i), i, order)

			return
		}

		parent, child := m.Value(i), m.Value(best)

		ed.Highlight(MarkSwap, i, best)
		ed.Swap(i, best)
		ed.Emit(anim.KindSwap, "Swap %d (index %d) with %d (index %d)", parent, i, child, best)

		i = best
	}
}

// SiftUp moves the value at i toward the root while it belongs above its
// parent, emitting one compare step per level and one swap step per exchange.
func SiftUp(ed *Editor, i int, order Order) {
	for i > 0 {
		m := ed.Model()
		p := Parent(i)

		ed.Highlight(MarkCompare, i, p)

		if !order.Above(m.Value(i), m.Value(p)) {
			ed.Emit(anim.KindCompare, "Compare %d with parent %d: order holds", m.Value(i), m.Value(p))

			return
		}

		ed.Emit(anim.KindCompare, "Compare %d with parent %d: %s-heap order violated", m.Value(i), m.Value(p), order)

		child, parent := m.Value(i), m.Value(p)

		ed.Highlight(MarkSwap, i, p)
		ed.Swap(i, p)
		ed.Emit(anim.KindSwap, "Swap %d (index %d) with parent %d (index %d)", child, i, parent, p)

		i = p
	}

	ed.Highlight(MarkActive, 0)
	ed.Emit(anim.KindInfo, "%d reached the root", ed.Model().Value(0))
}

// Build turns the first n slots into a heap bottom-up, sifting down every
// internal node from n/2-1 to 0.
func Build(ed *Editor, n int, order Order) {
	for i := n/2 - 1; i >= 0; i-- {
		ed.Highlight(MarkActive, i)
		ed.Emit(anim.KindVisit, "Heapify subtree rooted at index %d (%d)", i, ed.Model().Value(i))
		SiftDown(ed, i, n, order)
	}
}

// IsHeap reports whether the first n slots satisfy order.
func IsHeap(values []int, n int, order Order) bool {
	for i := 1; i < n; i++ {
		if order.Above(values[i], values[Parent(i)]) {
			return false
		}
	}

	return true
}
