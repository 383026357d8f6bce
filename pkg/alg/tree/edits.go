package tree

import "github.com/Sumatoshi-tech/algoviz/pkg/anim"

// SetChild rewrites one child link, or the root link when Parent is Nil.
type SetChild struct {
	Parent   ID
	Side     Side
	From, To ID
}

// Apply writes To.
func (e SetChild) Apply(a *Arena) { a.setChild(e.Parent, e.Side, e.To) }

// Revert writes From.
func (e SetChild) Revert(a *Arena) { a.setChild(e.Parent, e.Side, e.From) }

// SetValue overwrites the value of a node.
type SetValue struct {
	Node     ID
	From, To int
}

// Apply writes To.
func (e SetValue) Apply(a *Arena) { a.nodes[e.Node].value = e.To }

// Revert writes From.
func (e SetValue) Revert(a *Arena) { a.nodes[e.Node].value = e.From }

// SetHeight overwrites the stored height of a node.
type SetHeight struct {
	Node     ID
	From, To int
}

// Apply writes To.
func (e SetHeight) Apply(a *Arena) { a.nodes[e.Node].height = e.To }

// Revert writes From.
func (e SetHeight) Revert(a *Arena) { a.nodes[e.Node].height = e.From }

// SetMark overwrites the highlight of a node.
type SetMark struct {
	Node     ID
	From, To Mark
}

// Apply writes To.
func (e SetMark) Apply(a *Arena) { a.nodes[e.Node].mark = e.To }

// Revert writes From.
func (e SetMark) Revert(a *Arena) { a.nodes[e.Node].mark = e.From }

// Alloc creates a detached leaf. Model and live arenas allocate in the same
// order, so the new node gets the same ID on both.
type Alloc struct {
	Node  ID
	Value int
}

// Apply appends the leaf.
func (e Alloc) Apply(a *Arena) { a.alloc(e.Value) }

// Revert drops the leaf.
func (e Alloc) Revert(a *Arena) {
	a.nodes = a.nodes[:e.Node]
	a.count--
}

// Free removes a node that is no longer linked into the tree.
type Free struct {
	Node ID
}

// Apply marks the slot unused.
func (e Free) Apply(a *Arena) {
	a.nodes[e.Node].used = false
	a.count--
}

// Revert marks the slot used again.
func (e Free) Revert(a *Arena) {
	a.nodes[e.Node].used = true
	a.count++
}

// Replace swaps the whole arena, used by load and clear.
type Replace struct {
	From, To *Arena
}

// Apply installs To.
func (e Replace) Apply(a *Arena) { a.CopyFrom(e.To) }

// Revert installs From.
func (e Replace) Revert(a *Arena) { a.CopyFrom(e.From) }

// Editor records writes against an Arena through an [anim.Recorder]. Writes
// that would not change anything are skipped.
type Editor struct {
	rec       *anim.Recorder[*Arena]
	highlight []ID
}

// NewEditor wraps rec.
func NewEditor(rec *anim.Recorder[*Arena]) *Editor {
	return &Editor{rec: rec}
}

// Model returns the arena the algorithm reads.
func (ed *Editor) Model() *Arena { return ed.rec.Model() }

// Emit closes the current step.
func (ed *Editor) Emit(kind anim.Kind, format string, args ...any) {
	ed.rec.Emit(kind, format, args...)
}

// NewLeaf allocates a leaf holding v. The leaf is not linked yet.
func (ed *Editor) NewLeaf(v int) ID {
	id := ID(len(ed.rec.Model().nodes))
	ed.rec.Write(Alloc{Node: id, Value: v})

	return id
}

// Link sets the child of parent on side.
func (ed *Editor) Link(parent ID, side Side, child ID) {
	from := ed.rec.Model().Child(parent, side)
	if from == child {
		return
	}

	ed.rec.Write(SetChild{Parent: parent, Side: side, From: from, To: child})
}

// SetValue writes v into id.
func (ed *Editor) SetValue(id ID, v int) {
	from := ed.rec.Model().Value(id)
	if from == v {
		return
	}

	ed.rec.Write(SetValue{Node: id, From: from, To: v})
}

// UpdateHeight recomputes the height of id from its children and returns it.
func (ed *Editor) UpdateHeight(id ID) int {
	m := ed.rec.Model()
	h := 1 + max(m.Height(m.Left(id)), m.Height(m.Right(id)))

	if from := m.Height(id); from != h {
		ed.rec.Write(SetHeight{Node: id, From: from, To: h})
	}

	return h
}

// Free drops id from the tree. The caller unlinks it first.
func (ed *Editor) Free(id ID) {
	ed.unmark(id)
	ed.rec.Write(Free{Node: id})
}

// Highlight clears the previous transient highlight and marks ids.
func (ed *Editor) Highlight(mark Mark, ids ...ID) {
	ed.ClearHighlight()

	for _, id := range ids {
		if id == Nil {
			continue
		}

		ed.setMark(id, mark)
		ed.highlight = append(ed.highlight, id)
	}
}

// ClearHighlight drops the transient highlight.
func (ed *Editor) ClearHighlight() {
	m := ed.rec.Model()

	for _, id := range ed.highlight {
		if m.Valid(id) {
			ed.setMark(id, MarkNone)
		}
	}

	ed.highlight = ed.highlight[:0]
}

// Replace installs next as the whole tree.
func (ed *Editor) Replace(next *Arena) {
	ed.highlight = ed.highlight[:0]
	ed.rec.Write(Replace{From: ed.rec.Model().Clone(), To: next})
}

func (ed *Editor) setMark(id ID, mark Mark) {
	m := ed.rec.Model()
	if from := m.MarkOf(id); from != mark {
		ed.rec.Write(SetMark{Node: id, From: from, To: mark})
	}
}

func (ed *Editor) unmark(id ID) {
	ed.setMark(id, MarkNone)

	kept := ed.highlight[:0]

	for _, h := range ed.highlight {
		if h != id {
			kept = append(kept, h)
		}
	}

	ed.highlight = kept
}
