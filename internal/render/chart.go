package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/report"
)

const chartHeight = 320

var unansweredColor = report.HexColor(report.UnansweredColor)

// ChartCapturer draws the report without a browser.
type ChartCapturer struct {
	opts options
}

// NewChartCapturer returns a ChartCapturer. The only relevant option is
// WithScale.
func NewChartCapturer(opts ...Option) *ChartCapturer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ChartCapturer{opts: o}
}

// Capture implements Capturer.
// The result is baseWidth*scale pixels wide; its height depends on the
// number of indicators and questions.
func (c *ChartCapturer) Capture(ctx context.Context, r *model.AssessmentReport) (image.Image, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: report is nil", ErrCaptureFailure)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}

	blocks := headerBlocks(r)

	charts, err := chartBlocks(r.Tallies)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}
	blocks = append(blocks, charts...)
	if len(charts) > 0 {
		blocks = append(blocks, legendBlock())
	}
	blocks = append(blocks, detailBlocks(r)...)

	img := compose(baseWidth, blocks)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}
	if c.opts.scale > 1 {
		return upscale(img, c.opts.scale), nil
	}
	return img, nil
}

func headerBlocks(r *model.AssessmentReport) []block {
	lines := []string{fmt.Sprintf("Generated: %s", r.GeneratedAt.Format("2006-01-02 15:04 MST"))}
	if r.Respondent != "" {
		lines = append(lines, "Respondent: "+r.Respondent)
	}
	if r.Organization != "" {
		lines = append(lines, "Organization: "+r.Organization)
	}
	lines = append(lines, fmt.Sprintf("Answered %d of %d questions (%.0f%%)",
		r.AnsweredCount, r.QuestionCount, r.Completion()*100))

	totals := ""
	for i, cat := range model.AllCategories() {
		if i > 0 {
			totals += "   "
		}
		totals += fmt.Sprintf("%s: %d", cat.Label(), r.Total(cat))
	}
	lines = append(lines, totals)

	blocks := []block{{
		height: lineHeight * 2,
		draw: func(dst *image.RGBA, top int) {
			drawBoldText(dst, margin, baseline(top), r.Title, textColor)
			fillRect(dst, image.Rect(margin, top+lineHeight+4, baseWidth-margin, top+lineHeight+6), ruleColor)
		},
	}}
	for _, l := range lines {
		blocks = append(blocks, block{
			height: lineHeight,
			draw: func(dst *image.RGBA, top int) {
				drawText(dst, margin, baseline(top), l, mutedColor)
			},
		})
	}
	return append(blocks, block{height: lineHeight})
}

// chartBlocks renders the tallies as stacked bars, report.BarsPerChart per
// chart. Each chart is followed by a key with the full indicator titles in
// their dimension colors. When no indicator has questions no chart is drawn.
func chartBlocks(tallies []model.IndicatorTally) ([]block, error) {
	groups := report.ChartGroups(tallies)
	blocks := make([]block, 0, len(groups))

	for _, g := range groups {
		data, err := report.RenderStackedBars(chart.PNG, g.Bars, baseWidth-2*margin, chartHeight)
		if err != nil {
			return nil, err
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode chart: %w", err)
		}
		labels := g.Labels
		keyTop := img.Bounds().Dy() + lineHeight/2
		blocks = append(blocks, block{
			height: keyTop + keyHeight(len(labels)),
			draw: func(dst *image.RGBA, top int) {
				b := img.Bounds()
				drawImage(dst, image.Rect(margin, top, margin+b.Dx(), top+b.Dy()), img)
				drawBarKey(dst, top+keyTop, labels)
			},
		})
	}
	return blocks, nil
}

// keyColumns is the number of columns of the bar key.
const keyColumns = 2

func keyHeight(n int) int {
	return (n+keyColumns-1)/keyColumns*lineHeight + lineHeight/2
}

// drawBarKey lists the bars left to right, column by column, each title
// behind a swatch in its dimension color.
func drawBarKey(dst *image.RGBA, top int, labels []report.BarLabel) {
	colWidth := (baseWidth - 2*margin) / keyColumns
	chars := (colWidth - swatchSize - 16) / charWidth
	rows := (len(labels) + keyColumns - 1) / keyColumns
	for i, l := range labels {
		x := margin + (i/rows)*colWidth
		y := top + (i%rows)*lineHeight
		fillRect(dst, image.Rect(x, y+4, x+swatchSize, y+4+swatchSize), report.HexColor(l.Color))
		drawText(dst, x+swatchSize+6, baseline(y), report.ShortenLabel(l.Title, chars), textColor)
	}
}

func legendBlock() block {
	type entry struct {
		label string
		color drawing.Color
	}
	entries := make([]entry, 0, 5)
	for _, cat := range model.AllCategories() {
		entries = append(entries, entry{cat.Label(), report.HexColor(cat.Color())})
	}
	entries = append(entries, entry{model.NotAnsweredLabel, unansweredColor})

	return block{
		height: lineHeight * 2,
		draw: func(dst *image.RGBA, top int) {
			x := margin
			for _, e := range entries {
				fillRect(dst, image.Rect(x, top+4, x+swatchSize, top+4+swatchSize), e.color)
				x += swatchSize + 6
				drawText(dst, x, baseline(top), e.label, textColor)
				x += textWidth(e.label) + 18
			}
		},
	}
}

func detailBlocks(r *model.AssessmentReport) []block {
	if !r.HasTallies() {
		return []block{{
			height: lineHeight,
			draw: func(dst *image.RGBA, top int) {
				drawText(dst, margin, baseline(top), "No indicators were selected.", mutedColor)
			},
		}}
	}

	const (
		indent     = margin + 16
		labelWidth = 190
	)
	textChars := (baseWidth - indent - labelWidth - margin) / charWidth

	blocks := []block{{
		height: lineHeight * 2,
		draw: func(dst *image.RGBA, top int) {
			drawBoldText(dst, margin, baseline(top), "Answers in detail", textColor)
		},
	}}

	for _, d := range r.Details {
		accent := report.HexColor(d.Color)
		path := d.DimensionTitle
		if d.SectionTitle != "" {
			path += " / " + d.SectionTitle
		}
		blocks = append(blocks, block{
			height: lineHeight * 2,
			draw: func(dst *image.RGBA, top int) {
				fillRect(dst, image.Rect(margin, top+2, margin+6, top+2*lineHeight-2), accent)
				drawBoldText(dst, indent, baseline(top), d.IndicatorTitle, textColor)
				drawText(dst, indent, baseline(top+lineHeight), path, mutedColor)
			},
		})

		if len(d.Questions) == 0 {
			blocks = append(blocks, block{
				height: lineHeight,
				draw: func(dst *image.RGBA, top int) {
					drawText(dst, indent, baseline(top), "This indicator has no questions.", mutedColor)
				},
			})
		}

		for _, q := range d.Questions {
			lines := wrap(q.Text, textChars)
			label := q.AnswerLabel()
			swatch := unansweredColor
			if q.Answer != "" {
				swatch = report.HexColor(q.Answer.Color())
			}
			blocks = append(blocks, block{
				height: lineHeight*len(lines) + 4,
				draw: func(dst *image.RGBA, top int) {
					for i, l := range lines {
						drawText(dst, indent, baseline(top+i*lineHeight), l, textColor)
					}
					x := baseWidth - margin - labelWidth + 8
					fillRect(dst, image.Rect(x, top+4, x+swatchSize, top+4+swatchSize), swatch)
					drawText(dst, x+swatchSize+6, baseline(top), label, textColor)
					fillRect(dst, image.Rect(indent, top+lineHeight*len(lines)+2, baseWidth-margin, top+lineHeight*len(lines)+3), ruleColor)
				},
			})
		}
		blocks = append(blocks, block{height: lineHeight / 2})
	}
	return blocks
}
