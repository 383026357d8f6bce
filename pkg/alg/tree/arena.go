// Package tree provides the node arena shared by the binary search tree and
// AVL modules. Nodes live in a slice and link to each other by index, so a
// rotation rewrites a handful of links instead of moving pointers around,
// and every write can be recorded as a reversible edit.
package tree

// ID addresses a node in an Arena.
type ID int

// Nil is the absent node.
const Nil ID = -1

// Side selects a child link.
type Side uint8

// Child sides.
const (
	Left Side = iota
	Right
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}

	return "right"
}

// Mark is a transient highlight on a node.
type Mark uint8

// Node marks.
const (
	MarkNone Mark = iota
	MarkVisit
	MarkCompare
	MarkFound
	MarkInsert
	MarkRemove
	MarkSuccessor
	MarkImbalance
	MarkRotate
)

var markNames = [...]string{
	MarkNone:      "none",
	MarkVisit:     "visit",
	MarkCompare:   "compare",
	MarkFound:     "found",
	MarkInsert:    "insert",
	MarkRemove:    "remove",
	MarkSuccessor: "successor",
	MarkImbalance: "imbalance",
	MarkRotate:    "rotate",
}

// String returns the mark name.
func (m Mark) String() string {
	if int(m) >= len(markNames) {
		return "unknown"
	}

	return markNames[m]
}

type slot struct {
	value  int
	left   ID
	right  ID
	height int
	mark   Mark
	used   bool
}

// Arena stores the nodes of one tree. Freed slots are not reused within a
// recorded operation, which keeps IDs stable while its steps are pending;
// Compact drops them between operations.
type Arena struct {
	nodes []slot
	root  ID
	count int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{root: Nil}
}

// Root returns the root node or Nil.
func (a *Arena) Root() ID { return a.root }

// Len returns the number of nodes in the tree.
func (a *Arena) Len() int { return a.count }

// Valid reports whether id addresses a node in the tree.
func (a *Arena) Valid(id ID) bool {
	return id >= 0 && int(id) < len(a.nodes) && a.nodes[id].used
}

// Value returns the value stored at id.
func (a *Arena) Value(id ID) int { return a.nodes[id].value }

// Left returns the left child of id.
func (a *Arena) Left(id ID) ID { return a.nodes[id].left }

// Right returns the right child of id.
func (a *Arena) Right(id ID) ID { return a.nodes[id].right }

// MarkOf returns the highlight of id.
func (a *Arena) MarkOf(id ID) Mark { return a.nodes[id].mark }

// Height returns the stored height of id; Nil has height 0.
func (a *Arena) Height(id ID) int {
	if id == Nil {
		return 0
	}

	return a.nodes[id].height
}

// Balance returns height(left) - height(right) from stored heights.
func (a *Arena) Balance(id ID) int {
	if id == Nil {
		return 0
	}

	return a.Height(a.Left(id)) - a.Height(a.Right(id))
}

// Child returns the child of parent on side. A Nil parent addresses the
// root link.
func (a *Arena) Child(parent ID, side Side) ID {
	switch {
	case parent == Nil:
		return a.root
	case side == Left:
		return a.nodes[parent].left
	default:
		return a.nodes[parent].right
	}
}

func (a *Arena) setChild(parent ID, side Side, child ID) {
	switch {
	case parent == Nil:
		a.root = child
	case side == Left:
		a.nodes[parent].left = child
	default:
		a.nodes[parent].right = child
	}
}

// Find returns the node holding v, or Nil.
func (a *Arena) Find(v int) ID {
	n := a.root

	for n != Nil {
		switch cur := a.nodes[n].value; {
		case v < cur:
			n = a.nodes[n].left
		case v > cur:
			n = a.nodes[n].right
		default:
			return n
		}
	}

	return Nil
}

// Clone returns a deep copy.
func (a *Arena) Clone() *Arena {
	return &Arena{
		nodes: append([]slot(nil), a.nodes...),
		root:  a.root,
		count: a.count,
	}
}

// CopyFrom makes a a deep copy of o.
func (a *Arena) CopyFrom(o *Arena) {
	a.nodes = append(a.nodes[:0], o.nodes...)
	a.root = o.root
	a.count = o.count
}

// Slots returns the number of allocated slots, freed ones included.
func (a *Arena) Slots() int { return len(a.nodes) }

// Compact drops freed slots and renumbers the rest in their current order.
// IDs held from before the call are invalid afterwards.
func (a *Arena) Compact() {
	if a.count == len(a.nodes) {
		return
	}

	remap := make([]ID, len(a.nodes))
	next := ID(0)

	for i, s := range a.nodes {
		if !s.used {
			remap[i] = Nil

			continue
		}

		remap[i] = next
		next++
	}

	relink := func(id ID) ID {
		if id == Nil {
			return Nil
		}

		return remap[id]
	}

	kept := a.nodes[:0]

	for _, s := range a.nodes {
		if !s.used {
			continue
		}

		s.left = relink(s.left)
		s.right = relink(s.right)
		kept = append(kept, s)
	}

	clear(a.nodes[len(kept):])
	a.nodes = kept
	a.root = relink(a.root)
}

func (a *Arena) alloc(v int) ID {
	id := ID(len(a.nodes))
	a.nodes = append(a.nodes, slot{value: v, left: Nil, right: Nil, height: 1, used: true})
	a.count++

	return id
}

// Node is a pointer view of one tree node for renderers.
type Node struct {
	Left   *Node
	Right  *Node
	Value  int
	Height int
	Mark   Mark
}

// View builds a pointer tree from the arena. It returns nil for an empty tree.
func (a *Arena) View() *Node {
	return a.view(a.root)
}

func (a *Arena) view(id ID) *Node {
	if id == Nil {
		return nil
	}

	s := a.nodes[id]

	return &Node{
		Value:  s.value,
		Height: s.height,
		Mark:   s.mark,
		Left:   a.view(s.left),
		Right:  a.view(s.right),
	}
}
