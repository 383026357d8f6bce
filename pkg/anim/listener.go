package anim

// Listener receives sequencer notifications. Callbacks run synchronously on
// the goroutine that drove the transition and never overlap.
type Listener interface {
	OnStepChanged(cursor, total int)
	OnPlayStateChanged(playing bool)
	OnAnimationComplete()
	OnReset()
}

// ListenerFuncs adapts optional callbacks to a Listener.
type ListenerFuncs struct {
	StepChanged       func(cursor, total int)
	PlayStateChanged  func(playing bool)
	AnimationComplete func()
	Reset             func()
}

// OnStepChanged calls StepChanged if set.
func (lf ListenerFuncs) OnStepChanged(cursor, total int) {
	if lf.StepChanged != nil {
		lf.StepChanged(cursor, total)
	}
}

// OnPlayStateChanged calls PlayStateChanged if set.
func (lf ListenerFuncs) OnPlayStateChanged(playing bool) {
	if lf.PlayStateChanged != nil {
		lf.PlayStateChanged(playing)
	}
}

// OnAnimationComplete calls AnimationComplete if set.
func (lf ListenerFuncs) OnAnimationComplete() {
	if lf.AnimationComplete != nil {
		lf.AnimationComplete()
	}
}

// OnReset calls Reset if set.
func (lf ListenerFuncs) OnReset() {
	if lf.Reset != nil {
		lf.Reset()
	}
}

type eventKind int

const (
	eventStepChanged eventKind = iota
	eventPlayState
	eventComplete
	eventReset
)

// event is a notification collected under the sequencer lock and delivered
// after it is released.
type event struct {
	kind    eventKind
	cursor  int
	total   int
	playing bool
}

func deliver(listeners []Listener, events []event) {
	for _, ev := range events {
		for _, l := range listeners {
			switch ev.kind {
			case eventStepChanged:
				l.OnStepChanged(ev.cursor, ev.total)
			case eventPlayState:
				l.OnPlayStateChanged(ev.playing)
			case eventComplete:
				l.OnAnimationComplete()
			case eventReset:
				l.OnReset()
			}
		}
	}
}
