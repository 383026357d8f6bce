// Package anim provides the step-sequencing engine behind algorithm
// animations. Algorithm modules record a run as an ordered list of Steps;
// a Sequencer replays them one at a time under play, pause, step and reset
// control while listeners redraw after every transition.
package anim

import "fmt"

// Kind classifies a step for renderers and tests.
type Kind int

// Step kinds.
const (
	KindInfo Kind = iota
	KindVisit
	KindCompare
	KindSwap
	KindInsert
	KindRemove
	KindMove
	KindResize
	KindCopy
	KindShift
	KindRotate
	KindBalance
	KindMark
	KindNotFound
	KindClear
	KindLoad
)

var kindNames = [...]string{
	KindInfo:     "info",
	KindVisit:    "visit",
	KindCompare:  "compare",
	KindSwap:     "swap",
	KindInsert:   "insert",
	KindRemove:   "remove",
	KindMove:     "move",
	KindResize:   "resize",
	KindCopy:     "copy",
	KindShift:    "shift",
	KindRotate:   "rotate",
	KindBalance:  "balance",
	KindMark:     "mark",
	KindNotFound: "not_found",
	KindClear:    "clear",
	KindLoad:     "load",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return kindNames[k]
}

// Step is one replayable unit of algorithm narration and mutation.
// Execute is called exactly once per forward traversal of the step list.
type Step interface {
	Execute()
	Description() string
	Kind() Kind
}

// Reversible is a Step whose effect can be rolled back. Undo must exactly
// revert the structural effect of Execute.
type Reversible interface {
	Step
	Undo()
}

// Func is a Step built from a pair of closures. Undo is optional; a Func with
// a nil UndoFn does not satisfy rollback and stops Sequencer.Reset there.
type Func struct {
	DoFn   func()
	UndoFn func()
	Desc   string
	Type   Kind
}

// Execute runs DoFn if set.
func (f *Func) Execute() {
	if f.DoFn != nil {
		f.DoFn()
	}
}

// Description returns the narration text.
func (f *Func) Description() string { return f.Desc }

// Kind returns the step kind.
func (f *Func) Kind() Kind { return f.Type }

// CanUndo reports whether the step carries an inverse.
func (f *Func) CanUndo() bool { return f.UndoFn != nil }

// Undo runs UndoFn if set.
func (f *Func) Undo() {
	if f.UndoFn != nil {
		f.UndoFn()
	}
}

// undoable reports whether s can be rolled back by Reset.
func undoable(s Step) (Reversible, bool) {
	rev, ok := s.(Reversible)
	if !ok {
		return nil, false
	}

	if f, isFunc := s.(*Func); isFunc && !f.CanUndo() {
		return nil, false
	}

	return rev, true
}

// Note returns a narration-only step that does not mutate anything.
func Note(kind Kind, format string, args ...any) *Func {
	return &Func{
		Desc:   fmt.Sprintf(format, args...),
		Type:   kind,
		DoFn:   func() {},
		UndoFn: func() {},
	}
}
