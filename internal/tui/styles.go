package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/report"
)

// Semantic colors of the interface.
var (
	primaryColor = lipgloss.Color("#6366f1")
	mutedColor   = lipgloss.Color("#9ca3af")
	errorColor   = lipgloss.Color("#ef4444")
	successColor = lipgloss.Color("#22c55e")
)

// Styles holds the lipgloss styles of every screen.
type Styles struct {
	Title     lipgloss.Style
	Dimension lipgloss.Style
	Section   lipgloss.Style
	Cursor    lipgloss.Style
	Selected  lipgloss.Style
	Question  lipgloss.Style
	Indicator lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Help      lipgloss.Style
	Box       lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primaryColor).MarginBottom(1),
		Dimension: lipgloss.NewStyle().Bold(true),
		Section:   lipgloss.NewStyle().Italic(true).Foreground(mutedColor),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Selected:  lipgloss.NewStyle().Foreground(successColor),
		Question:  lipgloss.NewStyle().Bold(true),
		Indicator: lipgloss.NewStyle().Foreground(mutedColor),
		Muted:     lipgloss.NewStyle().Foreground(mutedColor),
		Error:     lipgloss.NewStyle().Foreground(errorColor),
		Success:   lipgloss.NewStyle().Foreground(successColor),
		Help:      lipgloss.NewStyle().Foreground(mutedColor).MarginTop(1),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2),
	}
}

// swatch renders a colored block for a dimension or category color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

// barWidth is the width of a tally bar in cells.
const barWidth = 30

// tallyBar draws a tally as colored segments, one per category, followed by
// the unanswered share.
func tallyBar(t model.IndicatorTally) string {
	if t.QuestionCount == 0 {
		return lipgloss.NewStyle().Foreground(mutedColor).Render("no questions")
	}

	var b strings.Builder
	used := 0
	for _, c := range model.AllCategories() {
		n := t.Counts[c] * barWidth / t.QuestionCount
		if n == 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color())).Render(strings.Repeat("█", n)))
		used += n
	}
	if rest := barWidth - used; rest > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(report.UnansweredColor)).Render(strings.Repeat("░", rest)))
	}
	return b.String()
}
