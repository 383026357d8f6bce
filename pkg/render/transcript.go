package render

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

// Frame is the live state right after one step executed.
type Frame struct {
	Index       int       `json:"index"`
	Kind        anim.Kind `json:"-"`
	KindName    string    `json:"kind"`
	Description string    `json:"description"`
	Snapshot    string    `json:"snapshot"`
	Digest      uint64    `json:"digest"`
	// Changed is false when the step left the rendered state untouched,
	// e.g. a narration-only step.
	Changed bool `json:"changed"`
	// Cells holds the slots of array-like modules; nil for trees.
	Cells []Cell `json:"cells,omitempty"`
}

// Transcript is the frame-by-frame record of one command.
type Transcript struct {
	Command string  `json:"command"`
	Module  string  `json:"module"`
	Initial string  `json:"initial"`
	Frames  []Frame `json:"frames"`
}

// Final returns the snapshot after the last frame.
func (t *Transcript) Final() string {
	if len(t.Frames) == 0 {
		return t.Initial
	}

	return t.Frames[len(t.Frames)-1].Snapshot
}

// Digest hashes a snapshot.
func Digest(snapshot string) uint64 {
	return xxhash.Sum64String(snapshot)
}

// RecordOption configures Record.
type RecordOption func(*recordConfig)

type recordConfig struct {
	snapshots bool
}

// WithoutSnapshots records step metadata only. The final frame still
// carries a snapshot so Transcript.Final stays meaningful.
func WithoutSnapshots() RecordOption {
	return func(c *recordConfig) { c.snapshots = false }
}

// Record single-steps through the session's remaining steps, snapshotting
// the active module after each one.
func Record(s *session.Session, command string, opts ...RecordOption) (*Transcript, error) {
	cfg := recordConfig{snapshots: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	module := s.Active()
	seq := s.Sequencer()

	tr := &Transcript{Command: command, Module: module, Initial: Snapshot(s, module)}
	prev := Digest(tr.Initial)

	for seq.Cursor() < seq.Len() {
		err := seq.NextStep()
		if err != nil {
			return tr, fmt.Errorf("record %s: %w", command, err)
		}

		cursor := seq.Cursor()
		step := seq.Steps()[cursor-1]
		frame := Frame{
			Index:       cursor,
			Kind:        step.Kind(),
			KindName:    step.Kind().String(),
			Description: step.Description(),
		}

		if cfg.snapshots || cursor == seq.Len() {
			frame.Snapshot = Snapshot(s, module)
			frame.Digest = Digest(frame.Snapshot)
			frame.Changed = frame.Digest != prev
			frame.Cells = Cells(s, module)
			prev = frame.Digest
		}

		tr.Frames = append(tr.Frames, frame)
	}

	return tr, nil
}

// RecordAll applies each command in turn and records its transcript.
// Single-value commands with several values are expanded first.
func RecordAll(ctx context.Context, s *session.Session, cmds ...session.Command) ([]*Transcript, error) {
	var out []*Transcript

	for _, c := range cmds {
		expanded, err := c.Expand()
		if err != nil {
			return out, err
		}

		for _, e := range expanded {
			_, applyErr := s.Apply(ctx, e)
			if applyErr != nil {
				return out, applyErr
			}

			tr, recErr := Record(s, e.String())
			if recErr != nil {
				return out, recErr
			}

			out = append(out, tr)
		}
	}

	return out, nil
}
