package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/scenario"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

var (
	// ErrUnknownFormat indicates an unsupported --format value.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrBadValue indicates a positional value is not an integer.
	ErrBadValue = errors.New("values must be integers")
	// ErrMissingCommand indicates neither a command nor a scenario was given.
	ErrMissingCommand = errors.New("need <module> <op> [values...] or --scenario")
	// ErrTooFast indicates a scenario speed below playback.min_speed.
	ErrTooFast = errors.New("scenario speed below configured minimum")
)

// playOptions controls how recorded steps reach the terminal.
type playOptions struct {
	live     bool
	diff     bool
	format   string
	maxSteps int
}

// plan is a resolved run: the commands, the playback speed and the session
// settings a scenario overrides.
type plan struct {
	commands []session.Command
	speed    time.Duration
	extra    []session.Option
}

// parseCommand builds a command from positional arguments.
func parseCommand(args []string, arg string) (session.Command, error) {
	if len(args) < 2 {
		return session.Command{}, ErrMissingCommand
	}

	cmd := session.Command{Module: args[0], Op: args[1], Arg: arg}

	for _, raw := range args[2:] {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return session.Command{}, fmt.Errorf("%w: %q", ErrBadValue, raw)
		}

		cmd.Values = append(cmd.Values, v)
	}

	_, err := cmd.Expand()
	if err != nil {
		return session.Command{}, err
	}

	return cmd, nil
}

// resolvePlan turns a scenario file or positional arguments into a plan.
func (a *app) resolvePlan(scenarioPath string, args []string, arg string) (plan, error) {
	if scenarioPath != "" {
		sc, err := scenario.Load(scenarioPath)
		if err != nil {
			return plan{}, err
		}

		return a.scenarioPlan(sc)
	}

	cmd, err := parseCommand(args, arg)
	if err != nil {
		return plan{}, err
	}

	return plan{commands: []session.Command{cmd}, speed: a.cfg.Playback.Speed}, nil
}

func (a *app) scenarioPlan(sc *scenario.Scenario) (plan, error) {
	speed := sc.PlaybackSpeed(a.cfg.Playback.Speed)
	if speed < a.cfg.Playback.MinSpeed {
		return plan{}, fmt.Errorf("%w: %s runs at %s, minimum %s", ErrTooFast, sc.Name, speed, a.cfg.Playback.MinSpeed)
	}

	return plan{
		commands: sc.Commands(),
		speed:    speed,
		extra:    sc.SessionOptions(),
	}, nil
}

// execute runs p in a fresh session and writes the result to w.
func (a *app) execute(ctx context.Context, w io.Writer, p plan, opts playOptions) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
	}

	sess := session.New(a.sessionOptions(p.speed, p.extra...)...)

	if opts.live && opts.format == formatTable {
		return a.animate(ctx, w, sess, p.commands)
	}

	start := time.Now()

	transcripts, err := render.RecordAll(ctx, sess, p.commands...)
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		encErr := enc.Encode(transcripts)
		if encErr != nil {
			return fmt.Errorf("encode transcripts: %w", encErr)
		}

		return nil
	}

	renderOpts := render.Options{
		Color:    a.cfg.Render.Color,
		Width:    a.cfg.Render.Width,
		MaxSteps: a.cfg.Render.MaxSteps,
		Diff:     opts.diff,
	}

	if opts.maxSteps > 0 {
		renderOpts.MaxSteps = opts.maxSteps
	}

	for _, tr := range transcripts {
		writeErr := render.WriteTranscript(w, tr, renderOpts)
		if writeErr != nil {
			return writeErr
		}
	}

	if !a.quiet {
		render.Status(w, true, "%s", render.Summary(transcripts, time.Since(start)))
	}

	return nil
}

// animate applies each command and plays its steps on the wall clock.
func (a *app) animate(ctx context.Context, w io.Writer, sess *session.Session, cmds []session.Command) error {
	for _, c := range cmds {
		expanded, err := c.Expand()
		if err != nil {
			return err
		}

		for _, e := range expanded {
			_, applyErr := sess.Apply(ctx, e)
			if applyErr != nil {
				return applyErr
			}

			fmt.Fprintf(w, "== %s ==\n", e)

			animErr := render.Animate(ctx, sess, w)
			if animErr != nil {
				return animErr
			}

			if ctx.Err() != nil {
				return fmt.Errorf("playback interrupted: %w", ctx.Err())
			}
		}
	}

	return nil
}
