// Package session bundles one caller-owned sequencer with the five animated
// modules and dispatches (module, op, values) commands to them. The CLI,
// scenario playback and the MCP server all drive modules through a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/avl"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/bst"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/dynarray"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/heap"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/heapsort"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/tree"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/observability"
)

const tracerName = "algoviz/session"

// Sentinel errors.
var (
	ErrUnknownModule = errors.New("unknown module")
	ErrUnknownOp     = errors.New("unknown operation")
	ErrArity         = errors.New("wrong number of values")
)

func unknownModule(module string) error {
	return fmt.Errorf("%w: %q", ErrUnknownModule, module)
}

func unknownOp(module, op string) error {
	return fmt.Errorf("%w: %s %q", ErrUnknownOp, module, op)
}

// Command is one module operation.
type Command struct {
	Module string `json:"module"`
	Op     string `json:"op"`
	Values []int  `json:"values,omitempty"`
	// Arg is the traversal order for traverse and the heap order for mode.
	Arg string `json:"arg,omitempty"`
}

func (c Command) String() string {
	var sb strings.Builder

	sb.WriteString(c.Module)
	sb.WriteByte(' ')
	sb.WriteString(c.Op)

	for _, v := range c.Values {
		fmt.Fprintf(&sb, " %d", v)
	}

	if c.Arg != "" {
		sb.WriteByte(' ')
		sb.WriteString(c.Arg)
	}

	return sb.String()
}

// Expand checks c against the catalog and splits a single-value operation
// given several values into one command per value.
func (c Command) Expand() ([]Command, error) {
	info, err := Lookup(c.Module, c.Op)
	if err != nil {
		return nil, err
	}

	switch info.Arity {
	case ArityNone:
		if len(c.Values) > 0 {
			return nil, fmt.Errorf("%w: %s takes no values, got %d", ErrArity, c.Op, len(c.Values))
		}

		return []Command{c}, nil
	case ArityOne:
		if len(c.Values) == 0 {
			return nil, fmt.Errorf("%w: %s needs at least one value", ErrArity, c.Op)
		}

		out := make([]Command, len(c.Values))
		for i, v := range c.Values {
			out[i] = Command{Module: c.Module, Op: c.Op, Values: []int{v}, Arg: c.Arg}
		}

		return out, nil
	default:
		return []Command{c}, nil
	}
}

// Result describes one applied command.
type Result struct {
	Command Command `json:"command"`
	// Steps is the number of steps the operation recorded.
	Steps int `json:"steps"`
	// Found reports insert/delete success, search hits and non-empty extracts.
	Found bool `json:"found"`
	// Output holds traversal order, the extracted root or the sorted values.
	Output []int `json:"output,omitempty"`
	// Summary is the description of the final step.
	Summary  string        `json:"summary"`
	Duration time.Duration `json:"duration"`
}

// searchTree is the operation set shared by the BST and AVL modules.
type searchTree interface {
	Insert(v int) (bool, error)
	Delete(v int) (bool, error)
	Contains(v int) (bool, error)
	Traverse(order tree.Order) ([]int, error)
	Load(values []int) error
	Clear() error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger handed to every module.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics reports executed steps and recorded operations.
func WithMetrics(m *observability.EngineMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithTracer sets the tracer for per-command spans. The default is the
// global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Session) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithInitialCapacity sets the dynamic array's initial capacity.
func WithInitialCapacity(c int) Option {
	return func(s *Session) { s.capacity = c }
}

// WithHeapMode sets the heap's initial order.
func WithHeapMode(m heap.Mode) Option {
	return func(s *Session) { s.heapMode = m }
}

// WithSequencerOptions passes options to the session's sequencer.
func WithSequencerOptions(opts ...anim.Option) Option {
	return func(s *Session) { s.seqOpts = append(s.seqOpts, opts...) }
}

// Session owns a sequencer and the modules that record into it. Only the
// most recently applied module's steps are in the sequencer at any time.
type Session struct {
	seq    *anim.Sequencer
	array  *dynarray.Array
	bst    *bst.Tree
	avl    *avl.Tree
	heap   *heap.Heap
	sorter *heapsort.Sorter

	logger   *slog.Logger
	metrics  *observability.EngineMetrics
	tracer   trace.Tracer
	seqOpts  []anim.Option
	capacity int
	heapMode heap.Mode
	active   string
}

// New creates a session with empty modules.
func New(opts ...Option) *Session {
	s := &Session{
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		capacity: dynarray.DefaultCapacity,
		heapMode: heap.Max,
	}

	for _, opt := range opts {
		opt(s)
	}

	seqOpts := append([]anim.Option{anim.WithLogger(s.logger)}, s.seqOpts...)
	if s.metrics != nil {
		seqOpts = append(seqOpts, anim.WithObserver(s.metrics))
	}

	s.seq = anim.NewSequencer(seqOpts...)
	s.array = dynarray.New(s.seq, dynarray.WithInitialCapacity(s.capacity), dynarray.WithLogger(s.logger))
	s.bst = bst.New(s.seq, bst.WithLogger(s.logger))
	s.avl = avl.New(s.seq, avl.WithLogger(s.logger))
	s.heap = heap.New(s.seq, heap.WithMode(s.heapMode), heap.WithLogger(s.logger))
	s.sorter = heapsort.New(s.seq, heapsort.WithLogger(s.logger))

	return s
}

// Sequencer returns the shared sequencer.
func (s *Session) Sequencer() *anim.Sequencer { return s.seq }

// Array returns the dynamic array module.
func (s *Session) Array() *dynarray.Array { return s.array }

// BST returns the binary search tree module.
func (s *Session) BST() *bst.Tree { return s.bst }

// AVL returns the AVL tree module.
func (s *Session) AVL() *avl.Tree { return s.avl }

// Heap returns the binary heap module.
func (s *Session) Heap() *heap.Heap { return s.heap }

// Sorter returns the heapsort module.
func (s *Session) Sorter() *heapsort.Sorter { return s.sorter }

// Active returns the module of the last applied command, or "".
func (s *Session) Active() string { return s.active }

// Apply runs one command, leaving its steps in the sequencer unplayed.
// Single-value operations must carry exactly one value; use Command.Expand
// for lists.
func (s *Session) Apply(ctx context.Context, cmd Command) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "session.apply", trace.WithAttributes(
		attribute.String("algoviz.module", cmd.Module),
		attribute.String("algoviz.op", cmd.Op),
		attribute.Int("algoviz.values", len(cmd.Values)),
	))
	defer span.End()

	start := time.Now()

	res, err := s.dispatch(cmd)
	res.Command = cmd
	res.Duration = time.Since(start)

	if err == nil {
		steps := s.seq.Steps()
		res.Steps = len(steps)

		if len(steps) > 0 {
			res.Summary = steps[len(steps)-1].Description()
		}

		if s.active != "" && s.active != cmd.Module {
			s.settle(s.active)
		}

		s.active = cmd.Module
	}

	if s.metrics != nil {
		s.metrics.RecordOperation(ctx, cmd.Module, cmd.Op, res.Steps, res.Duration, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res, fmt.Errorf("apply %s: %w", cmd, err)
	}

	span.SetAttributes(attribute.Int("algoviz.steps", res.Steps))
	s.logger.DebugContext(ctx, "command applied",
		"module", cmd.Module, "op", cmd.Op, "steps", res.Steps, "found", res.Found)

	return res, nil
}

// settle leaves a module that no longer owns the sequencer on its committed
// state; its pending steps were cleared by the next module's operation.
func (s *Session) settle(module string) {
	switch module {
	case ModuleArray:
		s.array.Settle()
	case ModuleBST:
		s.bst.Settle()
	case ModuleAVL:
		s.avl.Settle()
	case ModuleHeap:
		s.heap.Settle()
	case ModuleHeapsort:
		s.sorter.Settle()
	}
}

func (s *Session) dispatch(cmd Command) (Result, error) {
	info, err := Lookup(cmd.Module, cmd.Op)
	if err != nil {
		return Result{}, err
	}

	if info.Arity == ArityOne && len(cmd.Values) != 1 {
		return Result{}, fmt.Errorf("%w: %s takes one value, got %d", ErrArity, cmd.Op, len(cmd.Values))
	}

	if info.Arity == ArityNone && len(cmd.Values) > 0 {
		return Result{}, fmt.Errorf("%w: %s takes no values, got %d", ErrArity, cmd.Op, len(cmd.Values))
	}

	switch cmd.Module {
	case ModuleArray:
		return s.applyArray(cmd)
	case ModuleBST:
		return applyTree(s.bst, cmd)
	case ModuleAVL:
		return applyTree(s.avl, cmd)
	case ModuleHeap:
		return s.applyHeap(cmd)
	default:
		return s.applySort(cmd)
	}
}

func (s *Session) applyArray(cmd Command) (Result, error) {
	var err error

	switch cmd.Op {
	case OpAdd:
		err = s.array.Add(cmd.Values[0])
	case OpRemove:
		err = s.array.Remove(cmd.Values[0])
	case OpLoad:
		err = s.array.Load(cmd.Values)
	default:
		err = s.array.Clear()
	}

	return Result{Output: s.array.Committed()}, err
}

func applyTree(t searchTree, cmd Command) (Result, error) {
	var (
		res Result
		err error
	)

	switch cmd.Op {
	case OpInsert:
		res.Found, err = t.Insert(cmd.Values[0])
	case OpDelete:
		res.Found, err = t.Delete(cmd.Values[0])
	case OpSearch:
		res.Found, err = t.Contains(cmd.Values[0])
	case OpTraverse:
		res.Output, err = traverse(t, cmd.Arg)
	case OpLoad:
		err = t.Load(cmd.Values)
	default:
		err = t.Clear()
	}

	return res, err
}

func traverse(t searchTree, arg string) ([]int, error) {
	order := tree.InOrder

	if arg != "" {
		parsed, err := tree.ParseOrder(arg)
		if err != nil {
			return nil, err
		}

		order = parsed
	}

	return t.Traverse(order)
}

func (s *Session) applyHeap(cmd Command) (Result, error) {
	var (
		res Result
		err error
	)

	switch cmd.Op {
	case OpInsert:
		err = s.heap.Insert(cmd.Values[0])
		res.Found = err == nil
	case OpExtract:
		var root int

		root, res.Found, err = s.heap.ExtractRoot()
		if res.Found {
			res.Output = []int{root}
		}
	case OpBuild:
		err = s.heap.BuildHeap(cmd.Values)
	case OpMode:
		var m heap.Mode

		m, err = heap.ParseMode(cmd.Arg)
		if err == nil {
			err = s.heap.SetMode(m)
		}
	default:
		err = s.heap.Clear()
	}

	return res, err
}

func (s *Session) applySort(cmd Command) (Result, error) {
	var err error

	switch cmd.Op {
	case OpLoad:
		err = s.sorter.Load(cmd.Values)
	case OpSort:
		err = s.sorter.Sort()
	default:
		err = s.sorter.Clear()
	}

	return Result{Output: s.sorter.Committed()}, err
}

// Run expands and applies commands in order, fast-forwarding the sequencer
// after each one so every module ends settled. It returns one result per
// expanded command.
func (s *Session) Run(ctx context.Context, cmds ...Command) ([]Result, error) {
	var results []Result

	for _, c := range cmds {
		expanded, err := c.Expand()
		if err != nil {
			return results, err
		}

		for _, e := range expanded {
			res, applyErr := s.Apply(ctx, e)
			if applyErr != nil {
				return results, applyErr
			}

			ffErr := s.seq.FastForward()
			if ffErr != nil {
				return results, fmt.Errorf("fast-forward %s: %w", e, ffErr)
			}

			results = append(results, res)
		}
	}

	return results, nil
}
