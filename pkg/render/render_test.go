package render_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim/animtest"
	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

const testSpeed = 50 * time.Millisecond

func cmd(module, op string, values ...int) session.Command {
	return session.Command{Module: module, Op: op, Values: values}
}

// TestTree_ASCII verifies the sideways tree layout.
func TestTree_ASCII(t *testing.T) {
	t.Parallel()

	arena := tree.Build([]int{50, 30, 70, 40})

	want := strings.Join([]string{
		"50",
		"├── L: 30",
		"│   ├── L: -",
		"│   └── R: 40",
		"└── R: 70",
	}, "\n")

	assert.Equal(t, want, render.Tree(arena.View()))
	assert.Equal(t, "(empty)", render.Tree(nil))
}

// TestRecord_ArrayResizeFrames verifies frames follow the resize narration.
func TestRecord_ArrayResizeFrames(t *testing.T) {
	t.Parallel()

	s := session.New()
	ctx := context.Background()

	_, err := s.Run(ctx, cmd(session.ModuleArray, session.OpAdd, 1, 2, 3, 4))
	require.NoError(t, err)

	_, err = s.Apply(ctx, cmd(session.ModuleArray, session.OpAdd, 5))
	require.NoError(t, err)

	tr, err := render.Record(s, "array add 5")
	require.NoError(t, err)

	assert.Equal(t, "size 4/4: [1 2 3 4]", tr.Initial)
	require.NotEmpty(t, tr.Frames)
	assert.Equal(t, anim.KindResize, tr.Frames[0].Kind)
	assert.Contains(t, tr.Frames[0].Snapshot, "old 4: [1 2 3 4]")
	assert.Equal(t, "size 5/8: [1 2 3 4 5 . . .]", tr.Final())

	cells := tr.Frames[len(tr.Frames)-1].Cells
	require.Len(t, cells, 8)
	assert.Equal(t, render.Cell{Value: 5, Filled: true}, cells[4])
	assert.False(t, cells[5].Filled)

	for i, f := range tr.Frames {
		assert.Equal(t, i+1, f.Index)
		assert.Equal(t, render.Digest(f.Snapshot), f.Digest)
	}
}

// TestRecord_WithoutSnapshots verifies only the final frame is rendered.
func TestRecord_WithoutSnapshots(t *testing.T) {
	t.Parallel()

	s := session.New()
	ctx := context.Background()

	_, err := s.Run(ctx, cmd(session.ModuleBST, session.OpInsert, 1, 2, 3, 4, 5))
	require.NoError(t, err)

	_, err = s.Apply(ctx, cmd(session.ModuleBST, session.OpInsert, 6))
	require.NoError(t, err)

	tr, err := render.Record(s, "bst insert 6", render.WithoutSnapshots())
	require.NoError(t, err)
	require.Greater(t, len(tr.Frames), 1)

	for _, f := range tr.Frames[:len(tr.Frames)-1] {
		assert.NotEmpty(t, f.Description)
		assert.Empty(t, f.Snapshot)
		assert.Zero(t, f.Digest)
	}

	assert.Equal(t, render.Snapshot(s, session.ModuleBST), tr.Final())
	assert.Contains(t, tr.Final(), "6")
}

// TestRecord_UnchangedFrames verifies narration-only steps are flagged.
func TestRecord_UnchangedFrames(t *testing.T) {
	t.Parallel()

	s := session.New()

	trs, err := render.RecordAll(context.Background(), s,
		cmd(session.ModuleBST, session.OpInsert, 5),
		cmd(session.ModuleBST, session.OpSearch, 9),
	)
	require.NoError(t, err)
	require.Len(t, trs, 2)

	search := trs[1]
	last := search.Frames[len(search.Frames)-1]
	assert.Equal(t, anim.KindInfo, last.Kind)
	assert.Equal(t, "5", search.Final())

	unchanged := 0
	for _, f := range search.Frames {
		if !f.Changed {
			unchanged++
		}
	}

	assert.Positive(t, unchanged)
}

// TestRecordAll_Heapsort verifies the sorted suffix bar in snapshots.
func TestRecordAll_Heapsort(t *testing.T) {
	t.Parallel()

	s := session.New()

	trs, err := render.RecordAll(context.Background(), s,
		cmd(session.ModuleHeapsort, session.OpLoad, 3, 1, 2),
		cmd(session.ModuleHeapsort, session.OpSort),
	)
	require.NoError(t, err)

	assert.Equal(t, "sort: [| 1(sorted) 2(sorted) 3(sorted)]", trs[1].Final())
}

// TestDiff verifies line diffs between snapshots.
func TestDiff(t *testing.T) {
	t.Parallel()

	assert.Empty(t, render.Diff("a", "a"))
	assert.Equal(t, "  x\n- y\n+ z\n", render.Diff("x\ny", "x\nz"))
}

// TestWriteTranscript verifies the table content and step limit.
func TestWriteTranscript(t *testing.T) {
	t.Parallel()

	s := session.New()

	trs, err := render.RecordAll(context.Background(), s, cmd(session.ModuleHeap, session.OpBuild, 1, 2, 3))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.NoError(t, render.WriteTranscript(&buf, trs[0], render.Options{MaxSteps: 2, Diff: true}))

	out := buf.String()
	assert.Contains(t, out, "heap build 1 2 3")
	assert.Contains(t, out, "not shown")
	assert.NotContains(t, out, "\x1b[")
}

// TestSummary verifies pluralization and grouping.
func TestSummary(t *testing.T) {
	t.Parallel()

	tr := &render.Transcript{Frames: make([]render.Frame, 1200)}

	assert.Equal(t, "1 command, 1,200 steps in 2ms", render.Summary([]*render.Transcript{tr}, 2*time.Millisecond))
}

// TestAnimate_PlaysOnClock verifies timed playback prints every frame.
func TestAnimate_PlaysOnClock(t *testing.T) {
	t.Parallel()

	clock := animtest.NewManualClock()
	s := session.New(session.WithSequencerOptions(anim.WithClock(clock), anim.WithSpeed(testSpeed)))

	_, err := s.Apply(context.Background(), cmd(session.ModuleHeap, session.OpInsert, 7))
	require.NoError(t, err)

	total := s.Sequencer().Len()

	var buf bytes.Buffer

	errCh := make(chan error, 1)

	go func() { errCh <- render.Animate(context.Background(), s, &buf) }()

	require.Eventually(t, func() bool {
		clock.Advance(testSpeed)

		select {
		case animErr := <-errCh:
			assert.NoError(t, animErr)

			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	assert.Equal(t, total, s.Sequencer().Cursor())
	assert.Equal(t, total, strings.Count(buf.String(), fmt.Sprintf("/%d] ", total)))
}

// TestAnimate_Cancel verifies cancellation pauses playback.
func TestAnimate_Cancel(t *testing.T) {
	t.Parallel()

	clock := animtest.NewManualClock()
	s := session.New(session.WithSequencerOptions(anim.WithClock(clock), anim.WithSpeed(testSpeed)))

	_, err := s.Apply(context.Background(), cmd(session.ModuleArray, session.OpAdd, 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = render.Animate(ctx, s, &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, anim.Paused, s.Sequencer().State())
}
