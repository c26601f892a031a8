package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/selfcheck/internal/assessment"
	"github.com/nao1215/selfcheck/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.session.Phase() {
	case assessment.PhaseSelecting:
		body = m.viewSelecting()
	case assessment.PhaseAnswering:
		body = m.viewAnswering()
	case assessment.PhaseReviewing:
		body = m.viewReviewing()
	}

	if m.status != "" {
		style := m.styles.Muted
		if m.isError {
			style = m.styles.Error
		}
		body += "\n" + style.Render(m.status)
	}
	return body + "\n"
}

func (m Model) viewSelecting() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Select indicators"))
	sb.WriteString("\n")

	lines, cursorLine := m.selectionLines()
	sb.WriteString(strings.Join(visibleWindow(lines, cursorLine, m.listHeight()), "\n"))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "\n%d selected", len(m.session.Selected()))
	sb.WriteString(m.styles.Help.Render("↑/↓ move • space toggle • enter start • q quit"))
	return sb.String()
}

// selectionLines renders the taxonomy tree and returns the line index of the
// cursor.
func (m Model) selectionLines() ([]string, int) {
	var current string
	if len(m.indicators) > 0 {
		current = m.indicators[m.cursor]
	}

	lines := make([]string, 0, len(m.indicators)*2)
	cursorLine := 0
	for _, d := range m.taxonomy.Dimensions() {
		lines = append(lines, swatch(d.Color)+" "+m.styles.Dimension.Render(d.Title))
		for _, s := range d.Sections {
			lines = append(lines, "  "+m.styles.Section.Render(s.Title))
			for _, ind := range s.Indicators {
				check := "[ ]"
				if m.session.IsSelected(ind.ID) {
					check = m.styles.Selected.Render("[x]")
				}
				pointer := "  "
				title := ind.Title
				if ind.ID == current {
					pointer = m.styles.Cursor.Render("> ")
					title = m.styles.Cursor.Render(title)
					cursorLine = len(lines)
				}
				lines = append(lines, fmt.Sprintf("  %s%s %s", pointer, check, title))
			}
		}
	}
	return lines, cursorLine
}

// listHeight is the number of list lines that fit the terminal.
// Zero means unknown and shows everything.
func (m Model) listHeight() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-6, 3)
}

// visibleWindow returns at most height lines that include line cursor.
func visibleWindow(lines []string, cursor, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(cursor-height/2, 0)
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

func (m Model) viewAnswering() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Questionnaire"))
	sb.WriteString("\n")

	q, ok := m.session.CurrentQuestion()
	if !ok {
		sb.WriteString("No questions found for the selected indicators.\n")
		sb.WriteString(m.styles.Help.Render("b back to selection • enter show results"))
		return sb.String()
	}

	current, total := m.session.Progress()
	bar := m.progress
	bar.FullColor = q.Color
	fmt.Fprintf(&sb, "Progress %d / %d\n", current, total)
	sb.WriteString(bar.ViewAs(float64(current) / float64(total)))
	sb.WriteString("\n\n")

	var box strings.Builder
	box.WriteString(swatch(q.Color) + " " + m.styles.Indicator.Render(q.IndicatorTitle))
	box.WriteString("\n\n")
	box.WriteString(m.styles.Question.Render(q.Question.Text))
	box.WriteString("\n\n")

	answer, answered := m.session.Answer(q.IndicatorID, q.Question.ID)
	for i, c := range model.AllCategories() {
		mark := "( )"
		if answered && answer == c {
			mark = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color())).Render("(•)")
		}
		fmt.Fprintf(&box, "%d %s %s\n", i+1, mark, c.Label())
	}
	sb.WriteString(m.styles.Box.Render(strings.TrimRight(box.String(), "\n")))

	next := "→ next"
	if m.session.IsLastQuestion() {
		next = "→ show results"
	}
	sb.WriteString(m.styles.Help.Render("1-4 answer • ← previous • " + next + " • b back to selection"))
	return sb.String()
}

func (m Model) viewReviewing() string {
	var sb strings.Builder
	r := m.report
	if r == nil {
		return m.styles.Error.Render("No report available.")
	}

	sb.WriteString(m.styles.Title.Render(r.Title))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Answered %d of %d questions (%.0f%%)\n\n",
		r.AnsweredCount, r.QuestionCount, r.Completion()*100)

	if !r.HasTallies() {
		sb.WriteString(m.styles.Muted.Render("No indicators selected."))
		sb.WriteString("\n")
	}
	for _, t := range r.Tallies {
		fmt.Fprintf(&sb, "%s %s\n  %s %d/%d\n",
			swatch(t.Color), t.IndicatorTitle, tallyBar(t), t.Answered(), t.QuestionCount)
	}

	sb.WriteString("\n")
	legend := make([]string, 0, 4)
	for _, c := range model.AllCategories() {
		legend = append(legend, swatch(c.Color())+" "+c.Label())
	}
	sb.WriteString(strings.Join(legend, "  "))
	sb.WriteString("\n")

	export := "p export PDF"
	if m.exporting {
		export = "p export PDF (running)"
	}
	sb.WriteString(m.styles.Help.Render(export + " • r restart • q quit"))
	return sb.String()
}
