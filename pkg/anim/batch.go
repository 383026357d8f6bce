package anim

import "fmt"

// Sink is the narrow capability algorithm modules need from the engine:
// appending steps and starting a fresh list. Sequencer implements it.
type Sink interface {
	AddStep(step Step) error
	ClearSteps() error
}

// Edit is one recorded write against a structure of type S. Apply performs
// the write, Revert restores the value that was there before it.
type Edit[S any] interface {
	Apply(s S)
	Revert(s S)
}

// Batch is a Step made of edits recorded against a model structure and
// replayed against the live one. Batches are always reversible.
type Batch[S any] struct {
	target S
	edits  []Edit[S]
	desc   string
	kind   Kind
}

// NewBatch creates a batch that applies edits to target when executed.
func NewBatch[S any](target S, kind Kind, desc string, edits []Edit[S]) *Batch[S] {
	return &Batch[S]{target: target, edits: edits, desc: desc, kind: kind}
}

// Execute applies every edit in recording order.
func (b *Batch[S]) Execute() {
	for _, e := range b.edits {
		e.Apply(b.target)
	}
}

// Undo reverts every edit in reverse recording order.
func (b *Batch[S]) Undo() {
	for i := len(b.edits) - 1; i >= 0; i-- {
		b.edits[i].Revert(b.target)
	}
}

// Description returns the narration text.
func (b *Batch[S]) Description() string { return b.desc }

// Kind returns the step kind.
func (b *Batch[S]) Kind() Kind { return b.kind }

// Edits returns a copy of the recorded edits.
func (b *Batch[S]) Edits() []Edit[S] {
	out := make([]Edit[S], len(b.edits))
	copy(out, b.edits)

	return out
}

// Recorder turns algorithm writes into steps. Every Write is applied to the
// model immediately so the algorithm can keep reasoning about the structure,
// and queued until the next Emit packs the queued writes into a Batch that
// replays them on the live structure.
type Recorder[S any] struct {
	sink    Sink
	model   S
	live    S
	pending []Edit[S]
	count   int
	err     error
}

// NewRecorder creates a recorder over a model/live pair.
func NewRecorder[S any](sink Sink, model, live S) *Recorder[S] {
	return &Recorder[S]{sink: sink, model: model, live: live}
}

// Begin clears the sink and drops any state left from a previous operation.
func (r *Recorder[S]) Begin() error {
	r.pending = nil
	r.count = 0
	r.err = nil

	err := r.sink.ClearSteps()
	if err != nil {
		return fmt.Errorf("begin operation: %w", err)
	}

	return nil
}

// Write applies e to the model and queues it for the next step.
func (r *Recorder[S]) Write(e Edit[S]) {
	e.Apply(r.model)
	r.pending = append(r.pending, e)
}

// Emit packs the queued writes into one step. A step without writes is pure
// narration.
func (r *Recorder[S]) Emit(kind Kind, format string, args ...any) {
	if r.err != nil {
		return
	}

	step := NewBatch(r.live, kind, fmt.Sprintf(format, args...), r.pending)
	r.pending = nil

	err := r.sink.AddStep(step)
	if err != nil {
		r.err = fmt.Errorf("add step: %w", err)

		return
	}

	r.count++
}

// Finish emits leftover writes, if any, and returns the first error seen
// while recording.
func (r *Recorder[S]) Finish() error {
	if len(r.pending) > 0 {
		r.Emit(KindInfo, "Done")
	}

	return r.err
}

// Count returns the number of steps emitted since Begin.
func (r *Recorder[S]) Count() int { return r.count }

// Model returns the structure the algorithm reasons about.
func (r *Recorder[S]) Model() S { return r.model }

// Live returns the structure steps mutate.
func (r *Recorder[S]) Live() S { return r.live }
