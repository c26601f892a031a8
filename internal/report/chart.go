package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nao1215/selfcheck/internal/model"
)

const (
	// UnansweredColor fills the part of a bar without answers.
	UnansweredColor = "#e5e7eb"

	// BarsPerChart limits the bars of one chart; longer selections are split
	// over several charts.
	BarsPerChart = 12

	barSpacing = 12

	// axisCharWidth approximates the advance of one axis label character.
	axisCharWidth = 6
)

// fallbackColor is used for colors that cannot be parsed.
var fallbackColor = drawing.Color{R: 0x63, G: 0x66, B: 0xf1, A: 0xff}

// ParseHexColor parses "#rrggbb" or "#rgb". The leading '#' is optional.
func ParseHexColor(s string) (drawing.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return drawing.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return drawing.Color{}, false
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// HexColor is ParseHexColor with a fallback for malformed input.
func HexColor(s string) drawing.Color {
	if c, ok := ParseHexColor(s); ok {
		return c
	}
	return fallbackColor
}

// BarLabel names one chart bar and carries the dimension color of its
// indicator. Axis labels are shortened to fit the bar, so the full title is
// shown next to the chart in the dimension color.
type BarLabel struct {
	Title string
	Color string
}

// ChartGroup is one chart: its bars and their labels in the same order.
type ChartGroup struct {
	Bars   []chart.StackedBar
	Labels []BarLabel
}

// StackedBars converts tallies into one bar per indicator, with a segment
// per answered category and one for the unanswered questions. Bars are
// named by indicator title.
//
// Indicators without questions are left out: a bar needs a non-zero total.
func StackedBars(tallies []model.IndicatorTally) []chart.StackedBar {
	bars := make([]chart.StackedBar, 0, len(tallies))
	for _, t := range tallies {
		if t.QuestionCount == 0 {
			continue
		}
		values := make([]chart.Value, 0, 5)
		for _, cat := range model.AllCategories() {
			if n := t.Counts[cat]; n > 0 {
				values = append(values, segment(float64(n), cat.Label(), cat.Color()))
			}
		}
		if u := t.Unanswered(); u > 0 {
			values = append(values, segment(float64(u), model.NotAnsweredLabel, UnansweredColor))
		}
		bars = append(bars, chart.StackedBar{Name: barTitle(t), Values: values})
	}
	return bars
}

// BarLabels returns the label of every bar StackedBars draws for tallies.
func BarLabels(tallies []model.IndicatorTally) []BarLabel {
	labels := make([]BarLabel, 0, len(tallies))
	for _, t := range tallies {
		if t.QuestionCount == 0 {
			continue
		}
		labels = append(labels, BarLabel{Title: barTitle(t), Color: t.Color})
	}
	return labels
}

func barTitle(t model.IndicatorTally) string {
	if t.IndicatorTitle == "" {
		return t.IndicatorID
	}
	return t.IndicatorTitle
}

// ChartGroups splits the bars of the tallies into groups of BarsPerChart.
func ChartGroups(tallies []model.IndicatorTally) []ChartGroup {
	bars := StackedBars(tallies)
	labels := BarLabels(tallies)
	groups := make([]ChartGroup, 0, (len(bars)+BarsPerChart-1)/BarsPerChart)
	for start := 0; start < len(bars); start += BarsPerChart {
		end := min(start+BarsPerChart, len(bars))
		groups = append(groups, ChartGroup{Bars: bars[start:end], Labels: labels[start:end]})
	}
	return groups
}

// ShortenLabel cuts s to at most n characters, ending in an ellipsis when
// anything was cut.
func ShortenLabel(s string, n int) string {
	if n < 1 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return string(r[:1])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

func segment(v float64, label, hex string) chart.Value {
	c := HexColor(hex)
	return chart.Value{
		Value: v,
		Label: label,
		Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
	}
}

// RenderStackedBars renders bars with the given renderer (chart.PNG or
// chart.SVG) and returns the encoded bytes.
func RenderStackedBars(rp chart.RendererProvider, bars []chart.StackedBar, width, height int) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("render chart: no bars")
	}

	barWidth := min((width-80)/len(bars)-barSpacing, 60)
	labelChars := max((barWidth+barSpacing)/axisCharWidth, 3)
	sized := make([]chart.StackedBar, len(bars))
	for i, b := range bars {
		b.Width = barWidth
		b.Name = ShortenLabel(b.Name, labelChars)
		sized[i] = b
	}

	sbc := chart.StackedBarChart{
		Width:      width,
		Height:     height,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		Bars:       sized,
	}

	var buf bytes.Buffer
	if err := sbc.Render(rp, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
