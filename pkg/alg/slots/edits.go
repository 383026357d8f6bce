package slots

import "github.com/Sumatoshi-tech/algoviz/pkg/anim"

// SetValue overwrites one slot value.
type SetValue struct {
	Index    int
	From, To int
}

// Apply writes To.
func (e SetValue) Apply(a *Array) { a.values[e.Index] = e.To }

// Revert writes From.
func (e SetValue) Revert(a *Array) { a.values[e.Index] = e.From }

// SetMark overwrites one slot mark.
type SetMark struct {
	Index    int
	From, To Mark
}

// Apply writes To.
func (e SetMark) Apply(a *Array) { a.marks[e.Index] = e.To }

// Revert writes From.
func (e SetMark) Revert(a *Array) { a.marks[e.Index] = e.From }

// SetSize moves the active boundary.
type SetSize struct {
	From, To int
}

// Apply writes To.
func (e SetSize) Apply(a *Array) { a.size = e.To }

// Revert writes From.
func (e SetSize) Revert(a *Array) { a.size = e.From }

// Push appends a slot and grows the active boundary with it.
type Push struct {
	Value int
}

// Apply appends the value.
func (e Push) Apply(a *Array) {
	a.values = append(a.values, e.Value)
	a.marks = append(a.marks, MarkNone)
	a.size++
}

// Revert drops the last slot.
func (e Push) Revert(a *Array) {
	n := len(a.values) - 1
	a.values = a.values[:n]
	a.marks = a.marks[:n]
	a.size--
}

// Pop drops the last slot and shrinks the active boundary with it.
type Pop struct {
	Value int
	Mark  Mark
}

// Apply drops the last slot.
func (e Pop) Apply(a *Array) {
	n := len(a.values) - 1
	a.values = a.values[:n]
	a.marks = a.marks[:n]
	a.size--
}

// Revert restores the dropped slot.
func (e Pop) Revert(a *Array) {
	a.values = append(a.values, e.Value)
	a.marks = append(a.marks, e.Mark)
	a.size++
}

// Replace swaps the whole content, used by load and clear.
type Replace struct {
	From, To *Array
}

// Apply installs To.
func (e Replace) Apply(a *Array) { a.CopyFrom(e.To) }

// Revert installs From.
func (e Replace) Revert(a *Array) { a.CopyFrom(e.From) }

// Editor records writes against an Array through an [anim.Recorder].
type Editor struct {
	rec       *anim.Recorder[*Array]
	highlight []int
}

// NewEditor wraps rec.
func NewEditor(rec *anim.Recorder[*Array]) *Editor {
	return &Editor{rec: rec}
}

// Model returns the array the algorithm reads.
func (ed *Editor) Model() *Array { return ed.rec.Model() }

// Emit closes the current step.
func (ed *Editor) Emit(kind anim.Kind, format string, args ...any) {
	ed.rec.Emit(kind, format, args...)
}

// Set writes v at i.
func (ed *Editor) Set(i, v int) {
	m := ed.rec.Model()
	if m.values[i] == v {
		return
	}

	ed.rec.Write(SetValue{Index: i, From: m.values[i], To: v})
}

// Swap exchanges the values at i and j.
func (ed *Editor) Swap(i, j int) {
	m := ed.rec.Model()
	vi, vj := m.values[i], m.values[j]

	ed.Set(i, vj)
	ed.Set(j, vi)
}

// Mark writes a mark at i.
func (ed *Editor) Mark(i int, mark Mark) {
	m := ed.rec.Model()
	if m.marks[i] == mark {
		return
	}

	ed.rec.Write(SetMark{Index: i, From: m.marks[i], To: mark})
}

// Highlight clears the previous transient highlight and marks idx. Sorted
// slots keep their mark.
func (ed *Editor) Highlight(mark Mark, idx ...int) {
	ed.ClearHighlight()

	m := ed.rec.Model()

	for _, i := range idx {
		if i < 0 || i >= len(m.values) || m.marks[i] == MarkSorted {
			continue
		}

		ed.Mark(i, mark)
		ed.highlight = append(ed.highlight, i)
	}
}

// ClearHighlight drops the transient highlight.
func (ed *Editor) ClearHighlight() {
	m := ed.rec.Model()

	for _, i := range ed.highlight {
		if i < len(m.marks) && m.marks[i] != MarkSorted {
			ed.Mark(i, MarkNone)
		}
	}

	ed.highlight = ed.highlight[:0]
}

// SetSize moves the active boundary.
func (ed *Editor) SetSize(n int) {
	m := ed.rec.Model()
	if m.size == n {
		return
	}

	ed.rec.Write(SetSize{From: m.size, To: n})
}

// Push appends v.
func (ed *Editor) Push(v int) {
	ed.rec.Write(Push{Value: v})
}

// Pop drops the last slot.
func (ed *Editor) Pop() {
	m := ed.rec.Model()
	n := len(m.values) - 1

	ed.forget(n)
	ed.rec.Write(Pop{Value: m.values[n], Mark: m.marks[n]})
}

// Replace installs values as the whole content with every slot active.
func (ed *Editor) Replace(values []int) {
	ed.highlight = ed.highlight[:0]
	ed.rec.Write(Replace{From: ed.rec.Model().Clone(), To: New(values)})
}

func (ed *Editor) forget(i int) {
	kept := ed.highlight[:0]

	for _, h := range ed.highlight {
		if h != i {
			kept = append(kept, h)
		}
	}

	ed.highlight = kept
}
