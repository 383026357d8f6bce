// Package heapsort implements an animated in-place heapsort. Sorting runs in
// two phases over one array: a bottom-up max-heap build, then repeated
// root extraction into the shrinking tail, which is marked sorted.
package heapsort

import (
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/slots"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// Option configures a Sorter.
type Option func(*Sorter)

// WithLogger sets the operation logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sorter) {
		if l != nil {
			s.logger = l
		}
	}
}

// Sorter holds the array being sorted.
type Sorter struct {
	model  *slots.Array
	live   *slots.Array
	rec    *anim.Recorder[*slots.Array]
	logger *slog.Logger
}

// New creates a sorter over an empty array recording into sink.
func New(sink anim.Sink, opts ...Option) *Sorter {
	s := &Sorter{
		model:  slots.New(nil),
		live:   slots.New(nil),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.rec = anim.NewRecorder(sink, s.model, s.live)

	return s
}

// Values returns the live array.
func (s *Sorter) Values() []int { return s.live.Values() }

// Slots returns the live array with highlight marks.
func (s *Sorter) Slots() []slots.Slot { return s.live.Slots() }

// Committed returns the array after the last operation completes.
func (s *Sorter) Committed() []int { return s.model.Values() }

// Settle puts the live array on the committed state.
func (s *Sorter) Settle() { s.live.CopyFrom(s.model) }

// Boundary returns the live active heap boundary; indices at or beyond it
// are sorted once a sort is under way.
func (s *Sorter) Boundary() int { return s.live.Size() }

// Sorted reports whether live index i is marked permanently sorted.
func (s *Sorter) Sorted(i int) bool {
	return i >= 0 && i < s.live.Len() && s.live.MarkAt(i) == slots.MarkSorted
}

func (s *Sorter) begin(op string) (*slots.Editor, error) {
	err := s.rec.Begin()
	if err != nil {
		return nil, fmt.Errorf("heapsort %s: %w", op, err)
	}

	s.live.CopyFrom(s.model)

	return slots.NewEditor(s.rec), nil
}

func (s *Sorter) finish(op string) error {
	err := s.rec.Finish()
	if err != nil {
		return fmt.Errorf("heapsort %s: %w", op, err)
	}

	s.logger.Debug("heapsort operation recorded", "op", op, "len", s.model.Len(), "steps", s.rec.Count())

	return nil
}

// Load replaces the array with values, clearing sorted marks.
func (s *Sorter) Load(values []int) error {
	ed, err := s.begin("load")
	if err != nil {
		return err
	}

	ed.Replace(values)
	ed.Emit(anim.KindLoad, "Load %d values: %v", len(values), values)

	return s.finish("load")
}

// Clear empties the array.
func (s *Sorter) Clear() error {
	ed, err := s.begin("clear")
	if err != nil {
		return err
	}

	ed.Replace(nil)
	ed.Emit(anim.KindClear, "Clear the array")

	return s.finish("clear")
}

// Sort records an ascending heapsort of the loaded array.
func (s *Sorter) Sort() error {
	ed, err := s.begin("sort")
	if err != nil {
		return err
	}

	n := s.model.Len()

	// A previous sort leaves sorted marks and a shrunk boundary behind.
	if s.model.Size() != n || hasSortedMarks(s.model) {
		ed.Replace(s.model.Values())
		ed.Emit(anim.KindLoad, "Restart from the current array")
	}

	if n == 0 {
		ed.Emit(anim.KindInfo, "Nothing to sort")

		return s.finish("sort")
	}

	ed.Emit(anim.KindInfo, "Phase 1: build a max-heap over %d elements", n)
	slots.Build(ed, n, slots.MaxOrder)

	ed.ClearHighlight()
	ed.Emit(anim.KindInfo, "Phase 2: move the maximum to the end %d times", n-1)

	for i := n - 1; i > 0; i-- {
		root, tail := s.model.Value(0), s.model.Value(i)

		ed.Highlight(slots.MarkSwap, 0, i)
		ed.Swap(0, i)
		ed.Emit(anim.KindSwap, "Swap maximum %d with %d at index %d", root, tail, i)

		ed.ClearHighlight()
		ed.Mark(i, slots.MarkSorted)
		ed.SetSize(i)
		ed.Emit(anim.KindMark, "%d is in its final position %d; heap shrinks to %d", root, i, i)

		slots.SiftDown(ed, 0, i, slots.MaxOrder)
	}

	ed.ClearHighlight()
	ed.Mark(0, slots.MarkSorted)
	ed.SetSize(0)
	ed.Emit(anim.KindMark, "%d is in its final position 0; array sorted", s.model.Value(0))

	return s.finish("sort")
}

func hasSortedMarks(a *slots.Array) bool {
	for i := range a.Len() {
		if a.MarkAt(i) == slots.MarkSorted {
			return true
		}
	}

	return false
}

// SortedSuffixHolds reports whether every value at or beyond boundary is in
// its final ascending position and the prefix is a max-heap. It checks the
// heapsort loop invariant against a values/boundary pair.
func SortedSuffixHolds(values []int, boundary int) bool {
	if !slots.IsHeap(values, boundary, slots.MaxOrder) {
		return false
	}

	for i := boundary; i < len(values); i++ {
		if i > boundary && values[i-1] > values[i] {
			return false
		}

		if boundary > 0 && i == boundary && values[0] > values[i] {
			return false
		}
	}

	return true
}
