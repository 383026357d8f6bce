package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
)

// Options controls transcript tables.
type Options struct {
	// Color enables ANSI colors for step kinds.
	Color bool
	// Width caps the table width; zero leaves it unbounded.
	Width int
	// MaxSteps limits rows per transcript; zero shows all.
	MaxSteps int
	// Diff shows a snapshot diff instead of the full snapshot for frames
	// after the first.
	Diff bool
}

// stateColumnShare is the part of Width given to the state column.
const stateColumnShare = 2

var kindColors = map[anim.Kind]color.Attribute{
	anim.KindCompare:  color.FgYellow,
	anim.KindSwap:     color.FgMagenta,
	anim.KindInsert:   color.FgGreen,
	anim.KindRemove:   color.FgRed,
	anim.KindRotate:   color.FgCyan,
	anim.KindBalance:  color.FgBlue,
	anim.KindResize:   color.FgCyan,
	anim.KindNotFound: color.FgRed,
}

func kindLabel(k anim.Kind, enabled bool) string {
	attr, ok := kindColors[k]
	if !ok || !enabled {
		return k.String()
	}

	c := color.New(attr)
	c.EnableColor()

	return c.Sprint(k.String())
}

// WriteTranscript renders one transcript as a table.
func WriteTranscript(w io.Writer, tr *Transcript, opts Options) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.SetTitle(tr.Command)
	tbl.AppendHeader(table.Row{"#", "Kind", "Step", "State"})

	if opts.Width > 0 {
		tbl.SetAllowedRowLength(opts.Width)
		tbl.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, WidthMax: opts.Width / (stateColumnShare * stateColumnShare)},
			{Number: 4, WidthMax: opts.Width / stateColumnShare, WidthMaxEnforcer: text.WrapHard},
		})
	}

	frames := tr.Frames
	if opts.MaxSteps > 0 && len(frames) > opts.MaxSteps {
		frames = frames[:opts.MaxSteps]
	}

	prev := tr.Initial

	for i, f := range frames {
		state := f.Snapshot

		switch {
		case !f.Changed:
			state = "(unchanged)"
		case opts.Diff && i > 0:
			state = strings.TrimSuffix(Diff(prev, f.Snapshot), "\n")
		}

		tbl.AppendRow(table.Row{f.Index, kindLabel(f.Kind, opts.Color), f.Description, state})
		prev = f.Snapshot
	}

	footer := humanize.Comma(int64(len(tr.Frames))) + " steps"
	if hidden := len(tr.Frames) - len(frames); hidden > 0 {
		footer += fmt.Sprintf(" (%s not shown)", humanize.Comma(int64(hidden)))
	}

	tbl.AppendFooter(table.Row{"", "", footer, ""})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	return nil
}

// Summary is a one-line account of a run.
func Summary(transcripts []*Transcript, elapsed time.Duration) string {
	steps := 0
	for _, tr := range transcripts {
		steps += len(tr.Frames)
	}

	return fmt.Sprintf("%s %s, %s %s in %s",
		humanize.Comma(int64(len(transcripts))), plural(len(transcripts), "command", "commands"),
		humanize.Comma(int64(steps)), plural(steps, "step", "steps"),
		elapsed.Round(time.Microsecond))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}

// Status writes a colored status line: green for ok, red otherwise.
func Status(w io.Writer, ok bool, format string, args ...any) {
	c := color.New(color.FgGreen)
	if !ok {
		c = color.New(color.FgRed)
	}

	c.Fprintf(w, format+"\n", args...)
}
