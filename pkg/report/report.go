// Package report writes a self-contained HTML page for recorded
// transcripts: one echarts bar chart per changed frame of array-like
// modules, the final ASCII tree for tree modules and the step narration.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/algoviz/pkg/render"
)

const (
	// DefaultMaxFrames caps the charts drawn per transcript.
	DefaultMaxFrames = 40

	assetsHost  = "https://go-echarts.github.io/go-echarts-assets/assets/"
	chartWidth  = "420px"
	chartHeight = "240px"
)

var markColors = map[string]string{
	"":        "#5470c6",
	"compare": "#fac858",
	"swap":    "#ee6666",
	"active":  "#91cc75",
	"copy":    "#73c0de",
	"shift":   "#3ba272",
	"remove":  "#ee6666",
	"sorted":  "#9a60b4",
}

const emptySlotColor = "#3a3a4a"

// Options controls report content.
type Options struct {
	Title       string
	Description string
	// MaxFrames caps charts per transcript; zero uses DefaultMaxFrames.
	MaxFrames int
}

// Frame is one chart in a section.
type Frame struct {
	Label string
	Chart *charts.Bar
}

// Section is the report block for one transcript.
type Section struct {
	Title    string
	Subtitle string
	Frames   []Frame
	Pre      string
	Steps    []string
}

// Page is a complete report.
type Page struct {
	Title       string
	Description string
	Sections    []Section
}

// Build lays out a page for the transcripts.
func Build(transcripts []*render.Transcript, o Options) *Page {
	maxFrames := o.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	title := o.Title
	if title == "" {
		title = "algoviz report"
	}

	page := &Page{Title: title, Description: o.Description}

	for _, tr := range transcripts {
		page.Sections = append(page.Sections, buildSection(tr, maxFrames))
	}

	return page
}

func buildSection(tr *render.Transcript, maxFrames int) Section {
	sec := Section{
		Title:    tr.Command,
		Subtitle: fmt.Sprintf("%s: %d steps", tr.Module, len(tr.Frames)),
		Steps:    make([]string, len(tr.Frames)),
	}

	for i, f := range tr.Frames {
		sec.Steps[i] = f.Description

		if f.Cells == nil || !f.Changed || len(sec.Frames) >= maxFrames {
			continue
		}

		sec.Frames = append(sec.Frames, Frame{
			Label: fmt.Sprintf("%d. %s", f.Index, f.Description),
			Chart: frameChart(f),
		})
	}

	if len(tr.Frames) == 0 || tr.Frames[0].Cells == nil {
		sec.Pre = tr.Final()
	}

	return sec
}

func frameChart(f render.Frame) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight, AssetsHost: assetsHost}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	labels := make([]string, len(f.Cells))
	data := make([]opts.BarData, len(f.Cells))

	for i, c := range f.Cells {
		labels[i] = fmt.Sprint(i)

		col := markColors[c.Mark]
		switch {
		case !c.Filled:
			col = emptySlotColor
		case c.Sorted && c.Mark == "":
			col = markColors["sorted"]
		}

		data[i] = opts.BarData{Value: c.Value, ItemStyle: &opts.ItemStyle{Color: col}}
	}

	bar.SetXAxis(labels)
	bar.AddSeries(f.KindName, data)

	return bar
}

type frameView struct {
	Label string
	Chart template.HTML
}

type sectionView struct {
	Title    string
	Subtitle string
	Frames   []frameView
	Pre      string
	Steps    []string
}

type pageView struct {
	Title       string
	Description string
	AssetsHost  string
	Sections    []sectionView
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	view := pageView{Title: p.Title, Description: p.Description, AssetsHost: assetsHost}

	for _, sec := range p.Sections {
		sv := sectionView{Title: sec.Title, Subtitle: sec.Subtitle, Pre: sec.Pre, Steps: sec.Steps}

		for _, f := range sec.Frames {
			html, err := chartHTML(f.Chart)
			if err != nil {
				return err
			}

			sv.Frames = append(sv.Frames, frameView{Label: f.Label, Chart: html})
		}

		view.Sections = append(view.Sections, sv)
	}

	err := pageTemplate.Execute(w, view)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	return nil
}

// chartHTML renders a chart and keeps only its container and script, so
// many charts share one page and one asset include.
func chartHTML(bar *charts.Bar) (template.HTML, error) {
	var buf bytes.Buffer

	err := bar.Render(&buf)
	if err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}

	html := buf.String()

	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)

	if start == -1 || end == -1 || end < start {
		return template.HTML(html), nil //nolint:gosec // echarts output
	}

	content := strings.ReplaceAll(html[start:end], `class="container"`, `class="chart"`)

	return template.HTML(content), nil //nolint:gosec // echarts output
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.AssetsHost}}echarts.min.js"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; background: #1e1e2e; color: #cdd6f4; }
section { margin-bottom: 3rem; }
.frame { display: inline-block; vertical-align: top; margin: 0.5rem; }
.label { font-size: 0.8rem; max-width: 420px; }
pre { background: #11111b; padding: 1rem; }
ol { font-size: 0.85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
<p>{{.Subtitle}}</p>
{{range .Frames}}<div class="frame"><div class="label">{{.Label}}</div>{{.Chart}}</div>
{{end}}{{if .Pre}}<pre>{{.Pre}}</pre>
{{end}}<ol>{{range .Steps}}<li>{{.}}</li>{{end}}</ol>
</section>
{{end}}</body>
</html>
`))
