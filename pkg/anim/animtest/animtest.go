// Package animtest provides deterministic helpers for testing code built on
// the anim package: a manually advanced clock and a listener that records
// every notification.
package animtest

import (
	"sort"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// ManualClock is an [anim.Clock] whose timers only fire from Advance.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock   *ManualClock
	when    time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManualClock creates a clock at time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f to run once the clock advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) anim.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &manualTimer{clock: c, when: c.now + d, seq: c.seq, fn: f}
	c.timers = append(c.timers, t)

	return t
}

// Stop cancels the timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true

	return true
}

// Advance moves the clock forward by d, firing due timers in order. Timers
// scheduled by callbacks fire in the same call when they fall due within d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.nextDueLocked(target)

		if next == nil {
			c.now = target
			c.mu.Unlock()

			return
		}

		c.now = next.when
		next.fired = true
		c.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers that have neither fired nor stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}

	return n
}

func (c *ManualClock) nextDueLocked(target time.Duration) *manualTimer {
	live := c.timers[:0]

	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}

	c.timers = live

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].when != c.timers[j].when {
			return c.timers[i].when < c.timers[j].when
		}

		return c.timers[i].seq < c.timers[j].seq
	})

	if len(c.timers) == 0 || c.timers[0].when > target {
		return nil
	}

	return c.timers[0]
}

// Recorder is an [anim.Listener] that keeps every notification.
type Recorder struct {
	mu         sync.Mutex
	Changes    [][2]int
	PlayStates []bool
	Completes  int
	Resets     int
}

// OnStepChanged records the cursor and total.
func (r *Recorder) OnStepChanged(cursor, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Changes = append(r.Changes, [2]int{cursor, total})
}

// OnPlayStateChanged records the play state.
func (r *Recorder) OnPlayStateChanged(playing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.PlayStates = append(r.PlayStates, playing)
}

// OnAnimationComplete counts completions.
func (r *Recorder) OnAnimationComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Completes++
}

// OnReset counts resets.
func (r *Recorder) OnReset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Resets++
}

// Snapshot returns a copy of the recorded step changes.
func (r *Recorder) Snapshot() [][2]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][2]int, len(r.Changes))
	copy(out, r.Changes)

	return out
}

// Sink is an [anim.Sink] that keeps steps in memory without playback,
// for testing modules on their own.
type Sink struct {
	Steps   []anim.Step
	Clears  int
	Playing bool
}

// AddStep appends a step unless Playing is set.
func (s *Sink) AddStep(step anim.Step) error {
	if s.Playing {
		return anim.ErrPlaying
	}

	s.Steps = append(s.Steps, step)

	return nil
}

// ClearSteps drops the steps unless Playing is set.
func (s *Sink) ClearSteps() error {
	if s.Playing {
		return anim.ErrPlaying
	}

	s.Steps = nil
	s.Clears++

	return nil
}

// RunAll executes every step in order.
func (s *Sink) RunAll() {
	for _, st := range s.Steps {
		st.Execute()
	}
}

// Kinds returns the kinds of the recorded steps.
func (s *Sink) Kinds() []anim.Kind {
	out := make([]anim.Kind, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Kind()
	}

	return out
}

// Descriptions returns the narration of the recorded steps.
func (s *Sink) Descriptions() []string {
	out := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Description()
	}

	return out
}

// CountKind returns how many recorded steps have kind k.
func (s *Sink) CountKind(k anim.Kind) int {
	n := 0

	for _, st := range s.Steps {
		if st.Kind() == k {
			n++
		}
	}

	return n
}
