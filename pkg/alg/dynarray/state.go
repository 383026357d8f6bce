package dynarray

// Mark is a highlight on one slot.
type Mark uint8

// Slot marks.
const (
	MarkNone Mark = iota
	MarkActive
	MarkCopy
	MarkShift
	MarkRemove
)

func (m Mark) String() string {
	switch m {
	case MarkNone:
		return "none"
	case MarkActive:
		return "active"
	case MarkCopy:
		return "copy"
	case MarkShift:
		return "shift"
	case MarkRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Slot is one backing cell as seen by a renderer.
type Slot struct {
	Value  int
	Filled bool
	Mark   Mark
}

// state is the structure steps mutate: the current backing, the previous
// backing while a resize is copying out of it, and the logical size.
type state struct {
	backing []Slot
	retired []Slot
	size    int
}

func newState(capacity int) *state {
	return &state{backing: make([]Slot, capacity)}
}

func (s *state) clone() *state {
	out := &state{
		backing: append([]Slot(nil), s.backing...),
		size:    s.size,
	}

	if s.retired != nil {
		out.retired = append([]Slot(nil), s.retired...)
	}

	return out
}

func (s *state) copyFrom(o *state) {
	c := o.clone()
	s.backing, s.retired, s.size = c.backing, c.retired, c.size
}

func (s *state) values() []int {
	out := make([]int, s.size)
	for i := range out {
		out[i] = s.backing[i].Value
	}

	return out
}

// setSlot overwrites one backing slot.
type setSlot struct {
	index    int
	from, to Slot
}

func (e setSlot) Apply(s *state)  { s.backing[e.index] = e.to }
func (e setSlot) Revert(s *state) { s.backing[e.index] = e.from }

// setRetiredMark highlights a slot of the backing being copied out of.
type setRetiredMark struct {
	index    int
	from, to Mark
}

func (e setRetiredMark) Apply(s *state)  { s.retired[e.index].Mark = e.to }
func (e setRetiredMark) Revert(s *state) { s.retired[e.index].Mark = e.from }

// setSize moves the logical size.
type setSize struct {
	from, to int
}

func (e setSize) Apply(s *state)  { s.size = e.to }
func (e setSize) Revert(s *state) { s.size = e.from }

// grow allocates an empty backing of the new capacity and keeps the old one
// visible as retired.
type grow struct {
	from, to int
}

func (e grow) Apply(s *state) {
	s.retired = s.backing
	s.backing = make([]Slot, e.to)
}

func (e grow) Revert(s *state) {
	s.backing = s.retired
	s.retired = nil
}

// discard drops the retired backing once every element was copied.
type discard struct {
	old []Slot
}

func (e discard) Apply(s *state)  { s.retired = nil }
func (e discard) Revert(s *state) { s.retired = append([]Slot(nil), e.old...) }

// replace installs a whole new state, used by load and clear.
type replace struct {
	from, to *state
}

func (e replace) Apply(s *state)  { s.copyFrom(e.to) }
func (e replace) Revert(s *state) { s.copyFrom(e.from) }
