package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/algoviz/cmd/algoviz/commands"
	"github.com/Sumatoshi-tech/algoviz/pkg/config"
	"github.com/Sumatoshi-tech/algoviz/pkg/render"
)

const (
	fastConfig = `
playback:
  speed: 10ms
render:
  color: false
logging:
  level: error
`

	rotationsScenario = `
name: rotations
description: right-right case
steps:
  - module: avl
    op: insert
    values: [10, 20, 30]
  - module: avl
    op: traverse
    arg: pre
`

	brokenScenario = `
name: broken
steps:
  - module: trie
    op: insert
`
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// run executes the root command with a fast, colorless config.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath := writeFile(t, "algoviz.yaml", fastConfig)

	var out, errOut bytes.Buffer

	root := commands.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

// TestPlay_Table verifies a single command prints its steps and a summary.
func TestPlay_Table(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "play", "avl", "insert", "10", "20", "30")
	require.NoError(t, err)

	assert.Contains(t, out, "avl insert 30")
	assert.Contains(t, out, "rotate")
	assert.Contains(t, out, "3 commands")
}

// TestPlay_JSON verifies transcripts encode as JSON.
func TestPlay_JSON(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "play", "heap", "build", "3", "9", "2", "--format", "json")
	require.NoError(t, err)

	var transcripts []render.Transcript

	require.NoError(t, json.Unmarshal([]byte(out), &transcripts))
	require.Len(t, transcripts, 1)
	assert.Equal(t, "heap", transcripts[0].Module)
	assert.Contains(t, transcripts[0].Final(), "max-heap 3")
}

// TestPlay_Live verifies live playback prints each frame.
func TestPlay_Live(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "play", "array", "add", "1", "2", "--live")
	require.NoError(t, err)

	assert.Contains(t, out, "== array add 1 ==")
	assert.Contains(t, out, "== array add 2 ==")
	assert.Contains(t, out, "[1/")
}

// TestPlay_Scenario verifies scenario files drive play.
func TestPlay_Scenario(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "rotations.yaml", rotationsScenario)

	out, err := run(t, "", "play", "--scenario", path, "--diff")
	require.NoError(t, err)

	assert.Contains(t, out, "avl traverse pre")
	assert.Contains(t, out, "4 commands")
}

// TestPlay_Errors verifies argument errors.
func TestPlay_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing command", []string{"play"}, commands.ErrMissingCommand},
		{"bad value", []string{"play", "bst", "insert", "x"}, commands.ErrBadValue},
		{"bad format", []string{"play", "bst", "insert", "1", "--format", "xml"}, commands.ErrUnknownFormat},
	}

	for _, tt := range tests {
		_, err := run(t, "", tt.args...)
		require.ErrorIs(t, err, tt.want, tt.name)
	}
}

// TestPlay_ScenarioBelowMinSpeed verifies playback.min_speed bounds scenario speeds.
func TestPlay_ScenarioBelowMinSpeed(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, "slow.yaml", "playback:\n  speed: 200ms\n  min_speed: 100ms\nrender:\n  color: false\n")
	path := writeFile(t, "fast.yaml", "speed: 20ms\n"+rotationsScenario)

	root := commands.NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "play", "--scenario", path})

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, commands.ErrTooFast)

	_, err = run(t, "", "play", "--scenario", path)
	require.NoError(t, err)
}

// TestRoot_InvalidConfig verifies config validation runs before commands.
func TestRoot_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, "bad.yaml", "playback:\n  speed: 1ms\n")

	root := commands.NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "modules"})

	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, config.ErrInvalidSpeed)
}

// TestDemo_ListAndRun verifies demo listing and execution.
func TestDemo_ListAndRun(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "avl-rotations")
	assert.Contains(t, out, "heap-modes")

	out, err = run(t, "", "demo", "heapsort", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "array sorted")

	_, err = run(t, "", "demo", "bogosort")
	require.Error(t, err)
}

// TestReport_WritesHTML verifies the report command writes a page.
func TestReport_WritesHTML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.html")

	_, err := run(t, "", "report", "--demo", "array-growth", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "array-growth")
	assert.Contains(t, string(data), "echarts")

	_, err = run(t, "", "report", "--demo", "heapsort", "--scenario", path)
	require.ErrorIs(t, err, commands.ErrConflictingSource)
}

// TestValidate verifies valid, invalid and stdin scenario input.
func TestValidate(t *testing.T) {
	t.Parallel()

	good := writeFile(t, "good.yaml", rotationsScenario)

	out, err := run(t, "", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, `scenario "rotations" is valid`)

	out, err = run(t, brokenScenario, "validate", "-")
	require.ErrorIs(t, err, commands.ErrValidationFailed)
	assert.Contains(t, out, "stdin")
	assert.Contains(t, out, "steps.0")

	out, err = run(t, "", "validate", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "$schema")
}

// TestModulesAndVersion verifies the informational commands.
func TestModulesAndVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "", "modules")
	require.NoError(t, err)
	assert.Contains(t, out, "heapsort")
	assert.Contains(t, out, "extract")

	out, err = run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "algoviz "))
}

// TestMCPCommand_Exists verifies the mcp command is registered.
func TestMCPCommand_Exists(t *testing.T) {
	t.Parallel()

	cmd, _, err := commands.NewRootCommand().Find([]string{"mcp"})
	require.NoError(t, err)
	assert.Equal(t, "mcp", cmd.Name())
	assert.NotEmpty(t, cmd.Long)
}
