package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
	"github.com/Sumatoshi-tech/algoviz/pkg/report"
	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

const testMaxFrames = 3

func record(t *testing.T, cmds ...session.Command) []*render.Transcript {
	t.Helper()

	trs, err := render.RecordAll(context.Background(), session.New(), cmds...)
	require.NoError(t, err)

	return trs
}

// TestBuild_ArraySectionsHaveCharts verifies charts for array-like modules.
func TestBuild_ArraySectionsHaveCharts(t *testing.T) {
	t.Parallel()

	trs := record(t,
		session.Command{Module: session.ModuleHeapsort, Op: session.OpLoad, Values: []int{4, 1, 3, 2}},
		session.Command{Module: session.ModuleHeapsort, Op: session.OpSort},
	)

	page := report.Build(trs, report.Options{MaxFrames: testMaxFrames})

	require.Len(t, page.Sections, 2)
	assert.Equal(t, "algoviz report", page.Title)

	sortSec := page.Sections[1]
	assert.Len(t, sortSec.Frames, testMaxFrames)
	assert.Len(t, sortSec.Steps, len(trs[1].Frames))
	assert.Empty(t, sortSec.Pre)
}

// TestBuild_TreeSectionUsesASCII verifies tree transcripts render as text.
func TestBuild_TreeSectionUsesASCII(t *testing.T) {
	t.Parallel()

	trs := record(t, session.Command{Module: session.ModuleAVL, Op: session.OpInsert, Values: []int{2, 1, 3}})

	page := report.Build(trs, report.Options{})

	last := page.Sections[len(page.Sections)-1]
	assert.Empty(t, last.Frames)
	assert.Equal(t, trs[len(trs)-1].Final(), last.Pre)
}

// TestRender_HTML verifies one asset include and every chart on the page.
func TestRender_HTML(t *testing.T) {
	t.Parallel()

	trs := record(t, session.Command{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{1, 2}})

	var buf bytes.Buffer

	require.NoError(t, report.Build(trs, report.Options{Title: "growth <demo>"}).Render(&buf))

	html := buf.String()
	assert.Equal(t, 1, strings.Count(html, "echarts.min.js"))
	assert.Contains(t, html, "growth &lt;demo&gt;")
	assert.Contains(t, html, "array add 2")
	assert.Contains(t, html, `class="chart"`)
	assert.NotContains(t, html, "<body>\n<body>")
}
