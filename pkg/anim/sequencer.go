package anim

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Playback timing bounds.
const (
	DefaultSpeed = time.Second
	MinSpeed     = 10 * time.Millisecond
)

// Sentinel errors.
var (
	// ErrPlaying is returned by operations that would invalidate the list being replayed.
	ErrPlaying = errors.New("sequencer is playing")
	// ErrInvalidSpeed is returned for playback delays below the floor.
	ErrInvalidSpeed = errors.New("invalid playback speed")
	// ErrNilStep is returned when a nil step is added.
	ErrNilStep = errors.New("nil step")
)

// State is the playback state.
type State int

// Playback states.
const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (st State) String() string {
	switch st {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(st))
	}
}

// Observer is notified about executed steps. Metrics hook in here.
type Observer interface {
	ObserveStep(kind Kind)
	ObserveReset(rolledBack int)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithClock replaces the runtime clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithMinSpeed raises the playback floor above MinSpeed. The initial speed is
// clamped to it and SetSpeed rejects anything faster.
func WithMinSpeed(d time.Duration) Option {
	return func(s *Sequencer) {
		if d > s.minSpeed {
			s.minSpeed = d
		}
	}
}

// WithSpeed sets the initial playback delay. Values below MinSpeed are ignored.
func WithSpeed(d time.Duration) Option {
	return func(s *Sequencer) {
		if d >= MinSpeed {
			s.speed = d
		}
	}
}

// WithLogger sets the logger used for debug tracing of playback.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver attaches a step observer.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) { s.observer = o }
}

type subscription struct {
	id int
	l  Listener
}

// Sequencer owns the step list of the current operation, a cursor into it
// and the playback state. One Sequencer serves one visualization session.
type Sequencer struct {
	mu        sync.Mutex
	steps     []Step
	cursor    int
	state     State
	speed     time.Duration
	minSpeed  time.Duration
	clock     Clock
	timer     Timer
	gen       uint64 // bumped whenever a scheduled tick must be ignored
	subs      []subscription
	nextSubID int
	logger    *slog.Logger
	observer  Observer
}

var _ Sink = (*Sequencer)(nil)

// NewSequencer creates an idle sequencer with an empty step list.
func NewSequencer(opts ...Option) *Sequencer {
	s := &Sequencer{
		speed:    DefaultSpeed,
		minSpeed: MinSpeed,
		clock:    RealClock{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.speed = max(s.speed, s.minSpeed)

	return s
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Sequencer) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, l: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)

				return
			}
		}
	}
}

// AddStep appends a step. It fails while playing.
func (s *Sequencer) AddStep(step Step) error {
	if step == nil {
		return ErrNilStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Playing {
		return ErrPlaying
	}

	s.steps = append(s.steps, step)

	return nil
}

// ClearSteps empties the list, rewinds the cursor and stops playback.
// It fails while playing.
func (s *Sequencer) ClearSteps() error {
	s.mu.Lock()

	if s.state == Playing {
		s.mu.Unlock()

		return ErrPlaying
	}

	s.stopTimerLocked()
	s.steps = nil
	s.cursor = 0
	s.state = Stopped
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, []event{{kind: eventStepChanged}})

	return nil
}

// Play starts auto-advancing one step per tick. It is a no-op while already
// playing or when no step is left.
func (s *Sequencer) Play() {
	s.mu.Lock()

	if s.state == Playing || s.cursor >= len(s.steps) {
		s.mu.Unlock()

		return
	}

	s.state = Playing
	s.gen++
	s.scheduleLocked(s.gen)
	s.logger.Debug("playback started", "cursor", s.cursor, "total", len(s.steps), "speed", s.speed)
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, []event{{kind: eventPlayState, playing: true}})
}

// Pause halts auto-advance and keeps the cursor.
func (s *Sequencer) Pause() {
	s.mu.Lock()

	if s.state != Playing {
		s.mu.Unlock()

		return
	}

	s.stopTimerLocked()
	s.state = Paused
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, []event{{kind: eventPlayState, playing: false}})
}

// NextStep executes exactly one step. It fails while playing and is a no-op
// at the end of the list.
func (s *Sequencer) NextStep() error {
	s.mu.Lock()

	if s.state == Playing {
		s.mu.Unlock()

		return ErrPlaying
	}

	if s.cursor >= len(s.steps) {
		s.mu.Unlock()

		return nil
	}

	events := s.advanceLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, events)

	return nil
}

// FastForward executes every remaining step at once. It fails while playing.
func (s *Sequencer) FastForward() error {
	s.mu.Lock()

	if s.state == Playing {
		s.mu.Unlock()

		return ErrPlaying
	}

	if s.cursor >= len(s.steps) {
		s.mu.Unlock()

		return nil
	}

	for s.cursor < len(s.steps) {
		s.executeLocked()
	}

	s.state = Stopped
	events := []event{
		{kind: eventStepChanged, cursor: s.cursor, total: len(s.steps)},
		{kind: eventComplete},
	}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, events)

	return nil
}

// Reset stops playback, rolls back executed steps that carry an inverse
// (newest first, stopping at the first one without) and rewinds the cursor
// to zero. OnReset fires exactly once; listeners rebuild whatever the
// rollback could not restore.
func (s *Sequencer) Reset() {
	s.mu.Lock()

	wasPlaying := s.state == Playing

	s.stopTimerLocked()

	rolledBack := 0

	for i := s.cursor - 1; i >= 0; i-- {
		rev, ok := undoable(s.steps[i])
		if !ok {
			break
		}

		rev.Undo()

		rolledBack++
	}

	s.cursor = 0
	s.state = Stopped

	if s.observer != nil {
		s.observer.ObserveReset(rolledBack)
	}

	s.logger.Debug("playback reset", "rolled_back", rolledBack, "total", len(s.steps))

	var events []event
	if wasPlaying {
		events = append(events, event{kind: eventPlayState, playing: false})
	}

	events = append(events, event{kind: eventReset})
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, events)
}

// SetSpeed changes the delay between auto-advanced steps. The tick that is
// already scheduled keeps its delay.
func (s *Sequencer) SetSpeed(d time.Duration) error {
	if d < s.minSpeed {
		return fmt.Errorf("%w: %s (min %s)", ErrInvalidSpeed, d, s.minSpeed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.speed = d

	return nil
}

// Speed returns the playback delay.
func (s *Sequencer) Speed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.speed
}

// Cursor returns the number of executed steps.
func (s *Sequencer) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cursor
}

// Len returns the number of recorded steps.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.steps)
}

// State returns the playback state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Steps returns a copy of the recorded step list.
func (s *Sequencer) Steps() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Step, len(s.steps))
	copy(out, s.steps)

	return out
}

// Description returns the narration of the last executed step, or an empty
// string before the first one.
func (s *Sequencer) Description() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor == 0 {
		return ""
	}

	return s.steps[s.cursor-1].Description()
}

func (s *Sequencer) tick(gen uint64) {
	s.mu.Lock()

	if s.state != Playing || gen != s.gen {
		s.mu.Unlock()

		return
	}

	s.timer = nil
	events := s.advanceLocked()
	listeners := s.listenersLocked()
	s.mu.Unlock()

	deliver(listeners, events)

	// Re-arm only after listeners returned so callbacks never overlap.
	s.mu.Lock()
	if s.state == Playing && gen == s.gen && s.timer == nil {
		s.scheduleLocked(gen)
	}
	s.mu.Unlock()
}

func (s *Sequencer) advanceLocked() []event {
	s.executeLocked()

	events := []event{{kind: eventStepChanged, cursor: s.cursor, total: len(s.steps)}}

	if s.cursor < len(s.steps) {
		return events
	}

	if s.state == Playing {
		s.stopTimerLocked()
		events = append(events, event{kind: eventPlayState, playing: false})
	}

	s.state = Stopped
	s.logger.Debug("playback complete", "total", len(s.steps))

	return append(events, event{kind: eventComplete})
}

func (s *Sequencer) executeLocked() {
	step := s.steps[s.cursor]
	step.Execute()
	s.cursor++

	if s.observer != nil {
		s.observer.ObserveStep(step.Kind())
	}

	s.logger.Debug("step executed",
		"cursor", s.cursor,
		"total", len(s.steps),
		"kind", step.Kind().String(),
		"description", step.Description(),
	)
}

func (s *Sequencer) scheduleLocked(gen uint64) {
	s.timer = s.clock.AfterFunc(s.speed, func() { s.tick(gen) })
}

func (s *Sequencer) stopTimerLocked() {
	s.gen++

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Sequencer) listenersLocked() []Listener {
	out := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.l
	}

	return out
}
