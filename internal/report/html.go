package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/nao1215/selfcheck/internal/model"
)

const (
	// PageWidth is the layout width of the HTML report in CSS pixels.
	PageWidth = 800

	htmlChartWidth  = PageWidth - 48
	htmlChartHeight = 320
)

//go:embed templates/report.html.tmpl
var htmlTemplateText string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent":     percent,
	"categories":  model.AllCategories,
	"notAnswered": func() string { return model.NotAnsweredLabel },
	"unanswered":  func() string { return UnansweredColor },
}).Parse(htmlTemplateText))

// HTMLWriter outputs a standalone HTML page with inline SVG charts.
// The page needs no network access, so it can be opened from disk or loaded
// into a headless browser as is.
type HTMLWriter struct {
	baseWriter
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output)}
}

// htmlView is the data of the HTML template.
type htmlView struct {
	Report *model.AssessmentReport
	Charts []htmlChart
	Width  int
}

// htmlChart is one SVG chart with the full titles of its bars.
type htmlChart struct {
	SVG    template.HTML
	Labels []BarLabel
}

// Write outputs the report as HTML.
func (w *HTMLWriter) Write(report *model.AssessmentReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	charts, err := svgCharts(report.Tallies)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, htmlView{Report: report, Charts: charts, Width: PageWidth}); err != nil {
		return 0, fmt.Errorf("render html: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// svgCharts renders the stacked bar charts as SVG markup.
func svgCharts(tallies []model.IndicatorTally) ([]htmlChart, error) {
	groups := ChartGroups(tallies)
	out := make([]htmlChart, 0, len(groups))
	for _, g := range groups {
		data, err := RenderStackedBars(chart.SVG, g.Bars, htmlChartWidth, htmlChartHeight)
		if err != nil {
			return nil, err
		}
		out = append(out, htmlChart{
			SVG:    template.HTML(data), //nolint:gosec // generated by go-chart
			Labels: g.Labels,
		})
	}
	return out, nil
}
