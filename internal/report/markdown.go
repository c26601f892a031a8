package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/selfcheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AssessmentReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeIndicators(md, report)
	w.writeDetails(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the metadata table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AssessmentReport) {
	md.H1(report.Title)
	md.PlainText("")

	rows := make([][]string, 0, 4)
	if report.Respondent != "" {
		rows = append(rows, []string{"Respondent", report.Respondent})
	}
	if report.Organization != "" {
		rows = append(rows, []string{"Organization", report.Organization})
	}
	rows = append(rows,
		[]string{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Completion", strconv.Itoa(report.AnsweredCount) + " / " + strconv.Itoa(report.QuestionCount) + " (" + percent(report.Completion()) + ")"},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the totals table, the pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.AssessmentReport) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, 6)
	for _, c := range model.AllCategories() {
		rows = append(rows, []string{c.Label(), strconv.Itoa(report.Total(c))})
	}
	rows = append(rows,
		[]string{model.NotAnsweredLabel, strconv.Itoa(report.QuestionCount - report.AnsweredCount)},
		[]string{"**Total**", "**" + strconv.Itoa(report.QuestionCount) + "**"},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Answer", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.HasAnswers() {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of the answer distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.AssessmentReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Answer Distribution"),
		piechart.WithShowData(true),
	)

	for _, c := range model.AllCategories() {
		if n := report.Total(c); n > 0 {
			chart.LabelAndIntValue(c.Label(), uint64(n))
		}
	}
	if n := report.QuestionCount - report.AnsweredCount; n > 0 {
		chart.LabelAndIntValue(model.NotAnsweredLabel, uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert about the completion of the assessment.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AssessmentReport) {
	switch {
	case !report.HasTallies():
		md.Note("No indicators were selected.")
	case report.QuestionCount == 0:
		md.Note("The selected indicators have no questions.")
	case report.AnsweredCount < report.QuestionCount:
		md.Importantf("%d of %d questions are not answered yet.",
			report.QuestionCount-report.AnsweredCount, report.QuestionCount)
	default:
		md.Tip("All questions are answered.")
	}
	md.PlainText("")
}

// writeIndicators writes one table row per indicator.
func (w *MarkdownWriter) writeIndicators(md *markdown.Markdown, report *model.AssessmentReport) {
	md.H2("Indicators")
	md.PlainText("")

	if !report.HasTallies() {
		md.PlainText("No indicators selected.")
		md.PlainText("")
		return
	}

	header := []string{"Indicator", "Color"}
	for _, c := range model.AllCategories() {
		header = append(header, c.Label())
	}
	header = append(header, model.NotAnsweredLabel)

	rows := make([][]string, 0, len(report.Tallies))
	for _, t := range report.Tallies {
		row := []string{t.IndicatorTitle, "`" + t.Color + "`"}
		for _, c := range model.AllCategories() {
			row = append(row, strconv.Itoa(t.Counts[c]))
		}
		row = append(row, strconv.Itoa(t.Unanswered()))
		rows = append(rows, row)
	}

	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
}

// writeDetails writes the questions of each indicator with their answers.
func (w *MarkdownWriter) writeDetails(md *markdown.Markdown, report *model.AssessmentReport) {
	if !report.HasTallies() {
		return
	}

	md.H2("Answers in Detail")
	md.PlainText("")

	for _, d := range report.Details {
		md.H3(d.IndicatorTitle)
		md.PlainText("")
		if d.DimensionTitle != "" {
			md.PlainTextf("*%s / %s*", d.DimensionTitle, d.SectionTitle)
			md.PlainText("")
		}

		if len(d.Questions) == 0 {
			md.PlainText("This indicator has no questions.")
			md.PlainText("")
			continue
		}

		rows := make([][]string, 0, len(d.Questions))
		for _, q := range d.Questions {
			rows = append(rows, []string{q.Text, q.AnswerLabel()})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Question", "Answer"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by selfcheck*")
}
