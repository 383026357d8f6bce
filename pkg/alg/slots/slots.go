// Package slots provides the index-addressed integer array shared by the
// heap and heapsort modules: an implicit complete binary tree with a logical
// size boundary, per-slot highlight marks, recordable edits and the
// narrated sift-down used by both bottom-up heap construction and heapsort.
package slots

// Mark is a transient or permanent highlight on a slot.
type Mark uint8

// Slot marks.
const (
	MarkNone Mark = iota
	MarkCompare
	MarkSwap
	MarkActive
	MarkSorted
)

// String returns the mark name.
func (m Mark) String() string {
	switch m {
	case MarkNone:
		return "none"
	case MarkCompare:
		return "compare"
	case MarkSwap:
		return "swap"
	case MarkActive:
		return "active"
	case MarkSorted:
		return "sorted"
	default:
		return "unknown"
	}
}

// Slot is one element as seen by a renderer.
type Slot struct {
	Value int
	Mark  Mark
}

// Array is the backing store. Size is the active heap boundary; slots at or
// beyond Size are outside the heap (heapsort keeps sorted values there).
type Array struct {
	values []int
	marks  []Mark
	size   int
}

// New creates an array holding values with the whole range active.
func New(values []int) *Array {
	a := &Array{}
	a.load(values)

	return a
}

func (a *Array) load(values []int) {
	a.values = append([]int(nil), values...)
	a.marks = make([]Mark, len(values))
	a.size = len(values)
}

// Parent returns the parent index of i.
func Parent(i int) int { return (i - 1) / 2 }

// Left returns the left child index of i.
func Left(i int) int { return 2*i + 1 }

// Right returns the right child index of i.
func Right(i int) int { return 2*i + 2 }

// Len returns the number of stored values, active or not.
func (a *Array) Len() int { return len(a.values) }

// Size returns the active heap boundary.
func (a *Array) Size() int { return a.size }

// Value returns the value at i.
func (a *Array) Value(i int) int { return a.values[i] }

// MarkAt returns the mark at i.
func (a *Array) MarkAt(i int) Mark { return a.marks[i] }

// Values returns a copy of all stored values.
func (a *Array) Values() []int {
	return append([]int(nil), a.values...)
}

// Slots returns a copy of every slot with its mark.
func (a *Array) Slots() []Slot {
	out := make([]Slot, len(a.values))
	for i, v := range a.values {
		out[i] = Slot{Value: v, Mark: a.marks[i]}
	}

	return out
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		values: append([]int(nil), a.values...),
		marks:  append([]Mark(nil), a.marks...),
		size:   a.size,
	}
}

// CopyFrom overwrites a with the contents of o.
func (a *Array) CopyFrom(o *Array) {
	a.values = append(a.values[:0], o.values...)
	a.marks = append(a.marks[:0], o.marks...)
	a.size = o.size
}
