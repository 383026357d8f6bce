// Package heap implements an animated binary heap with a runtime-switchable
// max/min order. Every operation records its comparisons and swaps as steps
// on an [anim.Sink]; the live array a renderer reads changes only as those
// steps execute.
package heap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/slots"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// Mode is the heap order.
type Mode = slots.Order

// Heap modes.
const (
	Max = slots.MaxOrder
	Min = slots.MinOrder
)

// ErrUnknownMode is returned by ParseMode for names other than max and min.
var ErrUnknownMode = errors.New("unknown heap mode")

// ParseMode maps "max" or "min" (any case) to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "max", "max-heap":
		return Max, nil
	case "min", "min-heap":
		return Min, nil
	default:
		return Max, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Option configures a Heap.
type Option func(*Heap)

// WithMode sets the initial order.
func WithMode(m Mode) Option {
	return func(h *Heap) { h.mode = m }
}

// WithLogger sets the operation logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Heap) {
		if l != nil {
			h.logger = l
		}
	}
}

// Heap is a binary heap whose operations narrate themselves.
type Heap struct {
	model  *slots.Array
	live   *slots.Array
	rec    *anim.Recorder[*slots.Array]
	mode   Mode
	logger *slog.Logger
}

// New creates an empty max-heap recording into sink.
func New(sink anim.Sink, opts ...Option) *Heap {
	h := &Heap{
		model:  slots.New(nil),
		live:   slots.New(nil),
		mode:   Max,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.rec = anim.NewRecorder(sink, h.model, h.live)

	return h
}

// Mode returns the current order.
func (h *Heap) Mode() Mode { return h.mode }

// Len returns the number of elements in the committed heap.
func (h *Heap) Len() int { return h.model.Len() }

// Values returns the live elements in index order.
func (h *Heap) Values() []int { return h.live.Values() }

// Slots returns the live elements with their highlight marks.
func (h *Heap) Slots() []slots.Slot { return h.live.Slots() }

// Committed returns the elements after the last operation completes.
func (h *Heap) Committed() []int { return h.model.Values() }

// Settle puts the live array on the committed state once the heap's steps
// have left the sink.
func (h *Heap) Settle() { h.live.CopyFrom(h.model) }

// begin settles the live array on the committed state and starts a new step
// list.
func (h *Heap) begin(op string) (*slots.Editor, error) {
	err := h.rec.Begin()
	if err != nil {
		return nil, fmt.Errorf("heap %s: %w", op, err)
	}

	h.live.CopyFrom(h.model)

	return slots.NewEditor(h.rec), nil
}

func (h *Heap) finish(ed *slots.Editor, op string) error {
	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "%s complete: %s-heap holds %d elements", op, h.mode, h.model.Len())

	err := h.rec.Finish()
	if err != nil {
		return fmt.Errorf("heap %s: %w", op, err)
	}

	h.logger.Debug("heap operation recorded", "op", op, "mode", h.mode.String(), "steps", h.rec.Count())

	return nil
}

// Insert appends v and sifts it up.
func (h *Heap) Insert(v int) error {
	ed, err := h.begin("insert")
	if err != nil {
		return err
	}

	ed.Push(v)

	last := h.model.Len() - 1

	ed.Highlight(slots.MarkActive, last)
	ed.Emit(anim.KindInsert, "Append %d at index %d", v, last)

	if last > 0 {
		slots.SiftUp(ed, last, h.mode)
	}

	return h.finish(ed, "insert")
}

// ExtractRoot removes the root and restores heap order. It reports false
// when the heap is empty.
func (h *Heap) ExtractRoot() (int, bool, error) {
	ed, err := h.begin("extract")
	if err != nil {
		return 0, false, err
	}

	n := h.model.Len()

	switch n {
	case 0:
		ed.Emit(anim.KindNotFound, "Heap is empty: nothing to extract")

		return 0, false, h.finish(ed, "extract")
	case 1:
		root := h.model.Value(0)
		ed.Pop()
		ed.Emit(anim.KindRemove, "Extract %d: it was the only element", root)

		return root, true, h.finish(ed, "extract")
	}

	root, last := h.model.Value(0), h.model.Value(n-1)

	ed.Highlight(slots.MarkSwap, 0, n-1)
	ed.Emit(anim.KindCompare, "Extract root %d; last element is %d", root, last)

	ed.ClearHighlight()
	ed.Set(0, last)
	ed.Pop()
	ed.Highlight(slots.MarkActive, 0)
	ed.Emit(anim.KindMove, "Move %d into the root and shrink the heap to %d", last, n-1)

	slots.SiftDown(ed, 0, n-1, h.mode)

	return root, true, h.finish(ed, "extract")
}

// BuildHeap replaces the content with values and heapifies bottom-up.
func (h *Heap) BuildHeap(values []int) error {
	ed, err := h.begin("build")
	if err != nil {
		return err
	}

	ed.Replace(values)
	ed.Emit(anim.KindLoad, "Load %d values: %v", len(values), values)

	slots.Build(ed, len(values), h.mode)

	return h.finish(ed, "build")
}

// SetMode switches between max and min order and re-heapifies the current
// elements bottom-up.
func (h *Heap) SetMode(m Mode) error {
	ed, err := h.begin("mode")
	if err != nil {
		return err
	}

	h.mode = m
	ed.Emit(anim.KindInfo, "Switch to %s-heap", m)

	slots.Build(ed, h.model.Len(), m)

	return h.finish(ed, "mode")
}

// Clear empties the heap.
func (h *Heap) Clear() error {
	ed, err := h.begin("clear")
	if err != nil {
		return err
	}

	ed.Replace(nil)
	ed.Emit(anim.KindClear, "Clear the heap")

	return h.finish(ed, "clear")
}

// IsValid reports whether the committed elements satisfy the heap order.
func (h *Heap) IsValid() bool {
	return slots.IsHeap(h.model.Values(), h.model.Len(), h.mode)
}
