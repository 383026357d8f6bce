// Package dynarray implements an animated growable array. A full array
// doubles its capacity by allocating a new backing and copying every element
// across one step at a time, which makes the amortized cost of appends
// visible; removal shifts the trailing elements left one step each.
package dynarray

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// DefaultCapacity is the capacity of a new array.
const DefaultCapacity = 4

// ErrInvalidCapacity is returned for capacities that are negative or not a
// power of two.
var ErrInvalidCapacity = errors.New("capacity must be zero or a power of two")

// Option configures an Array.
type Option func(*Array)

// WithInitialCapacity sets the capacity of a new or cleared array. Invalid
// values are ignored; see ValidCapacity.
func WithInitialCapacity(c int) Option {
	return func(a *Array) {
		if ValidCapacity(c) == nil {
			a.initial = c
		}
	}
}

// WithLogger sets the operation logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Array) {
		if l != nil {
			a.logger = l
		}
	}
}

// ValidCapacity checks that c is zero or a power of two.
func ValidCapacity(c int) error {
	if c < 0 || (c > 0 && c&(c-1) != 0) {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, c)
	}

	return nil
}

// Array is a growable array whose operations narrate themselves.
type Array struct {
	model     *state
	live      *state
	rec       *anim.Recorder[*state]
	initial   int
	logger    *slog.Logger
	highlight []int
}

// New creates an empty array recording into sink.
func New(sink anim.Sink, opts ...Option) *Array {
	a := &Array{initial: DefaultCapacity, logger: slog.Default()}

	for _, opt := range opts {
		opt(a)
	}

	a.model = newState(a.initial)
	a.live = newState(a.initial)
	a.rec = anim.NewRecorder(sink, a.model, a.live)

	return a
}

// Len returns the live logical size.
func (a *Array) Len() int { return a.live.size }

// Cap returns the live capacity.
func (a *Array) Cap() int { return len(a.live.backing) }

// Values returns the live elements in index order.
func (a *Array) Values() []int { return a.live.values() }

// Slots returns a copy of the live backing, including empty slots.
func (a *Array) Slots() []Slot { return append([]Slot(nil), a.live.backing...) }

// Retired returns the backing being copied out of during a resize, or nil.
func (a *Array) Retired() []Slot {
	if a.live.retired == nil {
		return nil
	}

	return append([]Slot(nil), a.live.retired...)
}

// Committed returns the elements after the last operation completes.
func (a *Array) Committed() []int { return a.model.values() }

// Settle puts the live view on the committed state. Only call it once the
// module's steps have left the sink.
func (a *Array) Settle() {
	a.live.copyFrom(a.model)
	a.highlight = a.highlight[:0]
}

func (a *Array) begin(op string) error {
	err := a.rec.Begin()
	if err != nil {
		return fmt.Errorf("array %s: %w", op, err)
	}

	a.live.copyFrom(a.model)
	a.highlight = a.highlight[:0]

	return nil
}

func (a *Array) finish(op string) error {
	a.clearHighlight()
	a.rec.Emit(anim.KindInfo, "%s complete: size %d, capacity %d", op, a.model.size, len(a.model.backing))

	err := a.rec.Finish()
	if err != nil {
		return fmt.Errorf("array %s: %w", op, err)
	}

	a.logger.Debug("array operation recorded",
		"op", op, "size", a.model.size, "capacity", len(a.model.backing), "steps", a.rec.Count())

	return nil
}

// Add appends v, first doubling the capacity when the array is full.
func (a *Array) Add(v int) error {
	err := a.begin("add")
	if err != nil {
		return err
	}

	if a.model.size == len(a.model.backing) {
		a.resize()
	}

	i := a.model.size

	a.clearHighlight()
	a.writeSlot(i, Slot{Value: v, Filled: true})
	a.mark(i, MarkActive)
	a.rec.Write(setSize{from: i, to: i + 1})
	a.rec.Emit(anim.KindInsert, "Place %d at index %d; size is now %d", v, i, i+1)

	return a.finish("add")
}

func (a *Array) resize() {
	oldCap := len(a.model.backing)

	newCap := 2 * oldCap
	if newCap == 0 {
		newCap = DefaultCapacity
	}

	a.rec.Write(grow{from: oldCap, to: newCap})
	a.rec.Emit(anim.KindResize, "Array is full (size %d = capacity %d): allocate a new backing of capacity %d",
		a.model.size, oldCap, newCap)

	for i := range a.model.size {
		a.clearHighlight()

		old := a.model.retired[i]

		a.rec.Write(setRetiredMark{index: i, from: old.Mark, to: MarkCopy})
		a.writeSlot(i, Slot{Value: old.Value, Filled: true})
		a.mark(i, MarkCopy)
		a.rec.Emit(anim.KindCopy, "Copy %d from old[%d] to new[%d]", old.Value, i, i)
	}

	a.clearHighlight()
	a.rec.Write(discard{old: append([]Slot(nil), a.model.retired...)})
	a.rec.Emit(anim.KindResize, "Discard the old backing of capacity %d", oldCap)
}

// Remove deletes the element at index and shifts the tail left. An index
// outside [0, size) is narrated and otherwise ignored.
func (a *Array) Remove(index int) error {
	err := a.begin("remove")
	if err != nil {
		return err
	}

	size := a.model.size

	if index < 0 || index >= size {
		a.rec.Emit(anim.KindNotFound, "Index %d out of bounds (size %d)", index, size)

		return a.finish("remove")
	}

	removed := a.model.backing[index].Value

	a.writeSlot(index, Slot{})
	a.mark(index, MarkRemove)
	a.rec.Emit(anim.KindRemove, "Remove %d at index %d", removed, index)

	for j := index + 1; j < size; j++ {
		moved := a.model.backing[j]

		a.clearHighlight()
		a.writeSlot(j-1, Slot{Value: moved.Value, Filled: true})
		a.writeSlot(j, Slot{})
		a.mark(j-1, MarkShift)
		a.rec.Emit(anim.KindShift, "Shift %d from index %d to %d", moved.Value, j, j-1)
	}

	a.clearHighlight()
	a.rec.Write(setSize{from: size, to: size - 1})
	a.rec.Emit(anim.KindRemove, "Size is now %d", size-1)

	return a.finish("remove")
}

// Clear empties the array and restores the initial capacity.
func (a *Array) Clear() error {
	err := a.begin("clear")
	if err != nil {
		return err
	}

	a.rec.Write(replace{from: a.model.clone(), to: newState(a.initial)})
	a.rec.Emit(anim.KindClear, "Clear the array (capacity %d)", a.initial)

	return a.finish("clear")
}

// Load replaces the content with values in a backing of the smallest
// power-of-two capacity that holds them.
func (a *Array) Load(values []int) error {
	err := a.begin("load")
	if err != nil {
		return err
	}

	next := newState(CapacityFor(len(values), a.initial))
	for i, v := range values {
		next.backing[i] = Slot{Value: v, Filled: true}
	}

	next.size = len(values)

	a.rec.Write(replace{from: a.model.clone(), to: next})
	a.rec.Emit(anim.KindLoad, "Load %d values: %v", len(values), values)

	return a.finish("load")
}

// CapacityFor returns the capacity reached after n appends starting from
// initial: the smallest power of two that is at least n and at least initial.
func CapacityFor(n, initial int) int {
	c := initial
	if c == 0 && n > 0 {
		c = DefaultCapacity
	}

	if n <= c {
		return c
	}

	return 1 << bits.Len(uint(n-1))
}

func (a *Array) writeSlot(i int, to Slot) {
	from := a.model.backing[i]
	to.Mark = from.Mark

	if from == to {
		return
	}

	a.rec.Write(setSlot{index: i, from: from, to: to})
}

func (a *Array) mark(i int, m Mark) {
	from := a.model.backing[i]
	if from.Mark == m {
		return
	}

	to := from
	to.Mark = m
	a.rec.Write(setSlot{index: i, from: from, to: to})

	if m != MarkNone {
		a.highlight = append(a.highlight, i)
	}
}

func (a *Array) clearHighlight() {
	for _, i := range a.highlight {
		if i < len(a.model.backing) && a.model.backing[i].Mark != MarkNone {
			from := a.model.backing[i]
			to := from
			to.Mark = MarkNone
			a.rec.Write(setSlot{index: i, from: from, to: to})
		}
	}

	a.highlight = a.highlight[:0]

	if a.model.retired == nil {
		return
	}

	for i, s := range a.model.retired {
		if s.Mark != MarkNone {
			a.rec.Write(setRetiredMark{index: i, from: s.Mark, to: MarkNone})
		}
	}
}
