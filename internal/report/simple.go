package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/selfcheck/internal/model"
)

const (
	ruleWidth = 70
	barWidth  = 30
)

// barGlyphs maps categories to the characters of the text bar.
var barGlyphs = map[model.AnswerCategory]string{
	model.Applies:     "#",
	model.Partially:   "+",
	model.NotApplies:  "x",
	model.NotRelevant: "?",
}

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because it works in all terminals and is easy to pipe to
// files. The colors of the other formats are shown as hex codes.
type SimpleWriter struct {
	baseWriter

	// details controls whether the per-question listing is written.
	details bool

	upper cases.Caser
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithDetails enables or disables the per-question listing. Default is on.
func WithDetails(details bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.details = details
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		details:    true,
		upper:      cases.Upper(language.English),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AssessmentReport) (int, error) {
	if report == nil {
		return 0, ErrNilReport
	}

	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeIndicators(&sb, report)
	if w.details {
		w.writeDetails(&sb, report)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the banner and the report metadata.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AssessmentReport) {
	title := w.upper.String(report.Title)
	pad := max((ruleWidth-len(title))/2, 0)

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	if report.Respondent != "" {
		fmt.Fprintf(sb, "Respondent:   %s\n", report.Respondent)
	}
	if report.Organization != "" {
		fmt.Fprintf(sb, "Organization: %s\n", report.Organization)
	}
	fmt.Fprintf(sb, "Generated:    %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Completion:   %d of %d questions answered (%s)\n",
		report.AnsweredCount, report.QuestionCount, percent(report.Completion()))
	sb.WriteString("\n")
}

// writeSection writes a section heading.
func (w *SimpleWriter) writeSection(sb *strings.Builder, name string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(w.upper.String(name))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

// writeSummary writes the totals per category.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.AssessmentReport) {
	w.writeSection(sb, "Summary")

	for _, c := range model.AllCategories() {
		fmt.Fprintf(sb, "  [%s] %-28s %d\n", barGlyphs[c], c.Label()+":", report.Total(c))
	}
	fmt.Fprintf(sb, "  [.] %-28s %d\n", model.NotAnsweredLabel+":", report.QuestionCount-report.AnsweredCount)
	sb.WriteString("\n")
}

// writeIndicators writes one line with a text bar per indicator.
func (w *SimpleWriter) writeIndicators(sb *strings.Builder, report *model.AssessmentReport) {
	w.writeSection(sb, "Indicators")

	if !report.HasTallies() {
		sb.WriteString("  No indicators selected\n\n")
		return
	}

	for _, t := range report.Tallies {
		fmt.Fprintf(sb, "  %s (%s) %s\n", t.IndicatorTitle, t.IndicatorID, t.Color)
		fmt.Fprintf(sb, "    [%s] %d/%d answered\n", textBar(t), t.Answered(), t.QuestionCount)
	}
	sb.WriteString("\n")
}

// textBar draws the tally as a fixed width bar of category glyphs.
func textBar(t model.IndicatorTally) string {
	if t.QuestionCount == 0 {
		return strings.Repeat(" ", barWidth)
	}

	var b strings.Builder
	used := 0
	for _, c := range model.AllCategories() {
		n := t.Counts[c] * barWidth / t.QuestionCount
		b.WriteString(strings.Repeat(barGlyphs[c], n))
		used += n
	}
	b.WriteString(strings.Repeat(".", max(barWidth-used, 0)))
	return b.String()
}

// writeDetails writes every question with its answer.
func (w *SimpleWriter) writeDetails(sb *strings.Builder, report *model.AssessmentReport) {
	if !report.HasTallies() {
		return
	}

	w.writeSection(sb, "Answers in detail")

	for _, d := range report.Details {
		fmt.Fprintf(sb, "%s\n", d.IndicatorTitle)
		if d.DimensionTitle != "" {
			fmt.Fprintf(sb, "  %s / %s\n", d.DimensionTitle, d.SectionTitle)
		}
		if len(d.Questions) == 0 {
			sb.WriteString("  * No questions\n")
		}
		for _, q := range d.Questions {
			fmt.Fprintf(sb, "  * %s\n", q.Text)
			fmt.Fprintf(sb, "    -> %s\n", q.AnswerLabel())
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("Report generated by selfcheck\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
}
