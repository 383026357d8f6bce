package anim

import "time"

// Timer is a pending clock callback.
type Timer interface {
	// Stop cancels the callback; it reports false if the callback already ran.
	Stop() bool
}

// Clock schedules the sequencer's playback ticks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules ticks on the runtime timer.
type RealClock struct{}

// AfterFunc wraps [time.AfterFunc].
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
