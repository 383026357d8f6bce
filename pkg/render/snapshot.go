// Package render turns a session's recorded steps into text: a per-step
// transcript of live-state snapshots, go-pretty tables, ASCII trees and
// snapshot diffs.
package render

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/dynarray"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/slots"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

const (
	emptyCell = "."
	emptyTree = "(empty)"
)

// Snapshot renders the live state of module. Marked cells and nodes carry
// their mark name in parentheses.
func Snapshot(s *session.Session, module string) string {
	switch module {
	case session.ModuleArray:
		return ArrayState(s.Array())
	case session.ModuleBST:
		return Tree(s.BST().Root())
	case session.ModuleAVL:
		return Tree(s.AVL().Root())
	case session.ModuleHeap:
		h := s.Heap()

		return fmt.Sprintf("%s-heap %d: %s", h.Mode(), h.Len(), Slots(h.Slots(), len(h.Slots())))
	case session.ModuleHeapsort:
		return "sort: " + Slots(s.Sorter().Slots(), s.Sorter().Boundary())
	default:
		return ""
	}
}

// Cell is one slot of an array-like module.
type Cell struct {
	Value  int    `json:"value"`
	Filled bool   `json:"filled"`
	Mark   string `json:"mark,omitempty"`
	// Sorted is true for heapsort slots past the heap boundary.
	Sorted bool `json:"sorted,omitempty"`
}

// Cells returns the live slots of an array-like module, or nil for trees.
func Cells(s *session.Session, module string) []Cell {
	switch module {
	case session.ModuleArray:
		raw := s.Array().Slots()
		out := make([]Cell, len(raw))

		for i, c := range raw {
			out[i] = Cell{Value: c.Value, Filled: c.Filled, Mark: markName(c.Mark, dynarray.MarkNone)}
		}

		return out
	case session.ModuleHeap:
		return slotCells(s.Heap().Slots(), len(s.Heap().Slots()))
	case session.ModuleHeapsort:
		return slotCells(s.Sorter().Slots(), s.Sorter().Boundary())
	default:
		return nil
	}
}

func slotCells(raw []slots.Slot, boundary int) []Cell {
	out := make([]Cell, len(raw))

	for i, c := range raw {
		out[i] = Cell{Value: c.Value, Filled: true, Mark: markName(c.Mark, slots.MarkNone), Sorted: i >= boundary}
	}

	return out
}

func markName[M interface {
	comparable
	fmt.Stringer
}](m, none M) string {
	if m == none {
		return ""
	}

	return m.String()
}

// ArrayState renders the backing, and the retired backing while a resize
// is copying out of it.
func ArrayState(a *dynarray.Array) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "size %d/%d: %s", a.Len(), a.Cap(), arrayCells(a.Slots()))

	if retired := a.Retired(); retired != nil {
		fmt.Fprintf(&sb, "\nold %d: %s", len(retired), arrayCells(retired))
	}

	return sb.String()
}

func arrayCells(cells []dynarray.Slot) string {
	parts := make([]string, len(cells))

	for i, c := range cells {
		label := emptyCell
		if c.Filled {
			label = fmt.Sprint(c.Value)
		}

		if c.Mark != dynarray.MarkNone {
			label += "(" + c.Mark.String() + ")"
		}

		parts[i] = label
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// Slots renders a heap array; slots from boundary on are set off by a bar.
func Slots(cells []slots.Slot, boundary int) string {
	parts := make([]string, 0, len(cells)+1)

	for i, c := range cells {
		if i == boundary {
			parts = append(parts, "|")
		}

		label := fmt.Sprint(c.Value)
		if c.Mark != slots.MarkNone {
			label += "(" + c.Mark.String() + ")"
		}

		parts = append(parts, label)
	}

	return "[" + strings.Join(parts, " ") + "]"
}

// Tree renders a tree sideways, root first, left child above right child.
func Tree(root *tree.Node) string {
	if root == nil {
		return emptyTree
	}

	var sb strings.Builder

	sb.WriteString(nodeLabel(root))
	writeChildren(&sb, root, "")

	return sb.String()
}

func writeChildren(sb *strings.Builder, n *tree.Node, prefix string) {
	if n.Left == nil && n.Right == nil {
		return
	}

	writeBranch(sb, n.Left, "L", prefix, false)
	writeBranch(sb, n.Right, "R", prefix, true)
}

func writeBranch(sb *strings.Builder, n *tree.Node, side, prefix string, last bool) {
	connector, indent := "├── ", "│   "
	if last {
		connector, indent = "└── ", "    "
	}

	sb.WriteByte('\n')
	sb.WriteString(prefix + connector + side + ": ")

	if n == nil {
		sb.WriteString("-")

		return
	}

	sb.WriteString(nodeLabel(n))
	writeChildren(sb, n, prefix+indent)
}

func nodeLabel(n *tree.Node) string {
	label := fmt.Sprint(n.Value)
	if n.Mark != tree.MarkNone {
		label += "(" + n.Mark.String() + ")"
	}

	return label
}
