// Package scenario loads YAML scenario files: a named list of module
// operations, with optional playback speed and module settings, checked
// against an embedded JSON schema before use.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/algoviz/pkg/alg/dynarray"
	"github.com/Sumatoshi-tech/algoviz/pkg/alg/heap"
	"github.com/Sumatoshi-tech/algoviz/pkg/anim"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

//go:embed scenario.schema.json
var schemaJSON []byte

// Schema returns the JSON schema scenario files are validated against.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

// Sentinel errors.
var (
	ErrInvalid      = errors.New("invalid scenario")
	ErrUnknownDemo  = errors.New("unknown demo")
	ErrEmptyContent = errors.New("empty scenario")
)

// Issue is one schema or semantic violation.
type Issue struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func (i Issue) String() string { return i.Field + ": " + i.Description }

// ValidationError lists every issue found in a scenario.
type ValidationError struct {
	Source string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}

	return fmt.Sprintf("%s: %s: %s", ErrInvalid, e.Source, strings.Join(parts, "; "))
}

// Unwrap makes errors.Is(err, ErrInvalid) hold.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Step is one scenario entry. Single-value operations given several values
// run once per value.
type Step struct {
	Module string `yaml:"module"           json:"module"`
	Op     string `yaml:"op"               json:"op"`
	Values []int  `yaml:"values,omitempty" json:"values,omitempty"`
	Arg    string `yaml:"arg,omitempty"    json:"arg,omitempty"`
}

// Command converts the step into a session command.
func (s Step) Command() session.Command {
	return session.Command{Module: s.Module, Op: s.Op, Values: s.Values, Arg: s.Arg}
}

// Scenario is a decoded, validated scenario file.
type Scenario struct {
	Name            string `yaml:"name"                       json:"name"`
	Description     string `yaml:"description,omitempty"      json:"description,omitempty"`
	Speed           string `yaml:"speed,omitempty"            json:"speed,omitempty"`
	HeapMode        string `yaml:"heap_mode,omitempty"        json:"heap_mode,omitempty"`
	InitialCapacity *int   `yaml:"initial_capacity,omitempty" json:"initial_capacity,omitempty"`
	Steps           []Step `yaml:"steps"                      json:"steps"`
}

// Load reads and validates the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	return Parse(path, data)
}

// Parse decodes and validates a scenario document. source names it in errors.
func Parse(source string, data []byte) (*Scenario, error) {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, source)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", source, err)
	}

	if !result.Valid() {
		issues := make([]Issue, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			issues = append(issues, Issue{Field: re.Field(), Description: re.Description()})
		}

		return nil, &ValidationError{Source: source, Issues: issues}
	}

	var sc Scenario

	err = yaml.Unmarshal(data, &sc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	issues := sc.check()
	if len(issues) > 0 {
		return nil, &ValidationError{Source: source, Issues: issues}
	}

	return &sc, nil
}

// check covers what the schema cannot express: operations valid for their
// module, value counts, the speed floor and the capacity rule.
func (sc *Scenario) check() []Issue {
	var issues []Issue

	if sc.Speed != "" {
		d, err := time.ParseDuration(sc.Speed)

		switch {
		case err != nil:
			issues = append(issues, Issue{Field: "speed", Description: err.Error()})
		case d < anim.MinSpeed:
			issues = append(issues, Issue{Field: "speed", Description: fmt.Sprintf("below minimum %s", anim.MinSpeed)})
		}
	}

	if sc.InitialCapacity != nil {
		err := dynarray.ValidCapacity(*sc.InitialCapacity)
		if err != nil {
			issues = append(issues, Issue{Field: "initial_capacity", Description: err.Error()})
		}
	}

	for i, st := range sc.Steps {
		field := fmt.Sprintf("steps.%d", i)

		_, err := st.Command().Expand()
		if err != nil {
			issues = append(issues, Issue{Field: field, Description: err.Error()})

			continue
		}

		if st.Module == session.ModuleHeap && st.Op == session.OpMode {
			_, modeErr := heap.ParseMode(st.Arg)
			if modeErr != nil {
				issues = append(issues, Issue{Field: field + ".arg", Description: modeErr.Error()})
			}
		}
	}

	return issues
}

// Commands returns the steps as session commands, one per step.
func (sc *Scenario) Commands() []session.Command {
	cmds := make([]session.Command, len(sc.Steps))
	for i, st := range sc.Steps {
		cmds[i] = st.Command()
	}

	return cmds
}

// PlaybackSpeed returns the scenario's speed, or fallback when unset.
func (sc *Scenario) PlaybackSpeed(fallback time.Duration) time.Duration {
	if sc.Speed == "" {
		return fallback
	}

	d, err := time.ParseDuration(sc.Speed)
	if err != nil {
		return fallback
	}

	return d
}

// SessionOptions returns the session settings the scenario overrides.
func (sc *Scenario) SessionOptions() []session.Option {
	var opts []session.Option

	if sc.HeapMode != "" {
		m, err := heap.ParseMode(sc.HeapMode)
		if err == nil {
			opts = append(opts, session.WithHeapMode(m))
		}
	}

	if sc.InitialCapacity != nil {
		opts = append(opts, session.WithInitialCapacity(*sc.InitialCapacity))
	}

	return opts
}
