package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/scenario"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

// Tool name constants.
const (
	ToolNameRun     = "algoviz_run"
	ToolNameModules = "algoviz_modules"
	ToolNameDemo    = "algoviz_demo"
)

// Input size limits.
const (
	// MaxValues is the maximum number of values one call may pass.
	MaxValues = 1000
	// MaxSteps is the maximum number of steps one call may record.
	MaxSteps = 10000
	// MaxSnapshotSteps caps recorded steps when every step is snapshotted.
	MaxSnapshotSteps = 2000
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyModule indicates the module parameter is empty.
	ErrEmptyModule = errors.New("module parameter is required and must not be empty")
	// ErrEmptyOp indicates the op parameter is empty.
	ErrEmptyOp = errors.New("op parameter is required and must not be empty")
	// ErrTooManyValues indicates the values list exceeds the limit.
	ErrTooManyValues = errors.New("too many values")
	// ErrTooManySteps indicates a call recorded more steps than allowed.
	ErrTooManySteps = errors.New("too many steps")
	// ErrEmptyDemo indicates the name parameter is empty.
	ErrEmptyDemo = errors.New("name parameter is required and must not be empty")
)

// Input types (auto-generate JSON schemas via struct tags).

// RunInput is the input schema for the algoviz_run tool.
type RunInput struct {
	Module    string `json:"module"              jsonschema:"module name: array, bst, avl, heap or heapsort"`
	Op        string `json:"op"                  jsonschema:"operation name, see algoviz_modules"`
	Values    []int  `json:"values,omitempty"    jsonschema:"operation values; single-value operations run once per value"`
	Arg       string `json:"arg,omitempty"       jsonschema:"traversal order (in, pre, post) or heap mode (max, min)"`
	Reset     bool   `json:"reset,omitempty"     jsonschema:"start from a fresh session before running"`
	Snapshots bool   `json:"snapshots,omitempty" jsonschema:"include the state snapshot after every step; lowers the per-call step budget"`
}

// ModulesInput is the input schema for the algoviz_modules tool.
type ModulesInput struct{}

// DemoInput is the input schema for the algoviz_demo tool.
type DemoInput struct {
	Name string `json:"name" jsonschema:"demo name, e.g. avl-rotations, heapsort, array-growth"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// StepView is one narrated step in a tool response.
type StepView struct {
	Index       int    `json:"index"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Snapshot    string `json:"snapshot,omitempty"`
}

// CommandView is the response for one expanded command.
type CommandView struct {
	Command string         `json:"command"`
	Result  session.Result `json:"result"`
	Steps   []StepView     `json:"steps"`
	Final   string         `json:"final"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return encodedResult(data)
}

// encodedResult builds a CallToolResult from already encoded JSON.
func encodedResult(data []byte) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: json.RawMessage(data)}, nil
}

func validateRunInput(input RunInput) error {
	if strings.TrimSpace(input.Module) == "" {
		return ErrEmptyModule
	}

	if strings.TrimSpace(input.Op) == "" {
		return ErrEmptyOp
	}

	if len(input.Values) > MaxValues {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyValues, len(input.Values), MaxValues)
	}

	return nil
}

func (s *Server) handleRun(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input RunInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := validateRunInput(input)
	if err != nil {
		return errorResult(err)
	}

	cmd := session.Command{
		Module: strings.ToLower(strings.TrimSpace(input.Module)),
		Op:     strings.ToLower(strings.TrimSpace(input.Op)),
		Values: input.Values,
		Arg:    input.Arg,
	}

	s.sessMu.Lock()
	defer s.sessMu.Unlock()

	if input.Reset {
		s.sess = session.New(s.sessOpts...)
	}

	views, err := runCommands(ctx, s.sess, input.Snapshots, cmd)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(views)
}

func (s *Server) handleModules(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ ModulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return jsonResult(map[string]any{
		"modules": session.Catalog(),
		"demos":   scenario.Demos(),
	})
}

func (s *Server) handleDemo(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input DemoInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return errorResult(ErrEmptyDemo)
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))

	if data, ok := s.demos.get(name); ok {
		return encodedResult(data)
	}

	sc, err := scenario.Demo(name)
	if err != nil {
		return errorResult(err)
	}

	opts := append(append([]session.Option(nil), s.sessOpts...), sc.SessionOptions()...)

	views, err := runCommands(ctx, session.New(opts...), false, sc.Commands()...)
	if err != nil {
		return errorResult(err)
	}

	data, err := json.MarshalIndent(map[string]any{
		"name":        sc.Name,
		"description": sc.Description,
		"commands":    views,
	}, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	s.demos.put(name, data)

	return encodedResult(data)
}

// runCommands applies each command, records its transcript and leaves the
// session settled. Commands applied before the step limit is hit stay
// applied.
func runCommands(ctx context.Context, sess *session.Session, snapshots bool, cmds ...session.Command) ([]CommandView, error) {
	limit := MaxSteps

	var opts []render.RecordOption
	if snapshots {
		limit = MaxSnapshotSteps
	} else {
		opts = append(opts, render.WithoutSnapshots())
	}

	var (
		views []CommandView
		total int
	)

	for _, c := range cmds {
		expanded, err := c.Expand()
		if err != nil {
			return nil, err
		}

		for _, e := range expanded {
			res, applyErr := sess.Apply(ctx, e)
			if applyErr != nil {
				return nil, applyErr
			}

			total += res.Steps
			if total > limit {
				ffErr := sess.Sequencer().FastForward()
				if ffErr != nil {
					return nil, ffErr
				}

				return nil, fmt.Errorf("%w: %d exceeds maximum of %d at %s", ErrTooManySteps, total, limit, e)
			}

			tr, recErr := render.Record(sess, e.String(), opts...)
			if recErr != nil {
				return nil, recErr
			}

			views = append(views, commandView(res, tr, snapshots))
		}
	}

	return views, nil
}

func commandView(res session.Result, tr *render.Transcript, snapshots bool) CommandView {
	view := CommandView{Command: tr.Command, Result: res, Final: tr.Final()}

	for _, f := range tr.Frames {
		sv := StepView{Index: f.Index, Kind: f.KindName, Description: f.Description}
		if snapshots {
			sv.Snapshot = f.Snapshot
		}

		view.Steps = append(view.Steps, sv)
	}

	return view
}
