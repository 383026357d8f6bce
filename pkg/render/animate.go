package render

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

// Animate plays the session's remaining steps on the sequencer's clock and
// prints each frame to w as it executes. It returns once playback completes
// or ctx is done; cancellation pauses the sequencer.
func Animate(ctx context.Context, s *session.Session, w io.Writer) error {
	seq := s.Sequencer()
	module := s.Active()

	if seq.Cursor() >= seq.Len() {
		return nil
	}

	var (
		mu       sync.Mutex
		once     sync.Once
		writeErr error
	)

	done := make(chan struct{})

	cancel := seq.Subscribe(anim.ListenerFuncs{
		StepChanged: func(cursor, total int) {
			if cursor == 0 {
				return
			}

			step := seq.Steps()[cursor-1]

			mu.Lock()
			defer mu.Unlock()

			_, err := fmt.Fprintf(w, "[%d/%d] %s: %s\n%s\n\n", cursor, total, step.Kind(), step.Description(), Snapshot(s, module))
			if err != nil && writeErr == nil {
				writeErr = err
			}
		},
		AnimationComplete: func() { once.Do(func() { close(done) }) },
	})
	defer cancel()

	seq.Play()

	select {
	case <-done:
	case <-ctx.Done():
		seq.Pause()

		return fmt.Errorf("animate: %w", ctx.Err())
	}

	mu.Lock()
	defer mu.Unlock()

	if writeErr != nil {
		return fmt.Errorf("animate: %w", writeErr)
	}

	return nil
}
