package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/aggregate"
	"github.com/nao1215/selfcheck/internal/config"
	"github.com/nao1215/selfcheck/internal/database"
	"github.com/nao1215/selfcheck/internal/model"
)

var (
	// ErrNotEnoughReports is returned when the archive holds fewer than two reports.
	ErrNotEnoughReports = errors.New("at least 2 archived reports are required for comparison")

	// ErrNoOlderReport is returned when no report precedes the one given with --new.
	ErrNoOlderReport = errors.New("no older report found; use --old to choose one")
)

// Summary messages.
const (
	noAnswersMessage = "No answers"
	notSelected      = "-"
)

// NewCompareCmd creates the compare command.
// This command compares two archived reports indicator by indicator.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [name]",
		Short: "Compare two archived reports",
		Long: `Compare shows how the answers changed between two archived reports.

For every indicator it prints the change per answer category. Indicators
selected in only one of the reports are marked as added or removed.

By default the latest two reports are compared; a name argument restricts
them to reports of one answer file.

Examples:
  # Compare the latest two reports
  selfcheck compare

  # Compare the latest two reports of one answer file
  selfcheck compare spring

  # Compare two specific reports
  selfcheck compare --old 3 --new 7

  # Output the comparison as Markdown
  selfcheck compare --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64("old", 0, "ID of the older report (see 'selfcheck history')")
	cmd.Flags().Int64("new", 0, "ID of the newer report (default: the latest)")
	cmd.Flags().BoolP("json", "j", false, "Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output comparison result in Markdown format")
	addArchiveFlag(cmd)

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	oldID, err := cmd.Flags().GetInt64("old")
	if err != nil {
		return err
	}
	newID, err := cmd.Flags().GetInt64("new")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	dir, err := archiveDir(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	older, newer, err := selectReports(ctx, db, name, oldID, newID)
	if err != nil {
		return err
	}

	result := compareReports(older, newer)
	out := cmd.OutOrStdout()

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// selectReports picks the two reports to compare.
func selectReports(ctx context.Context, db *database.ReportDB, name string, oldID, newID int64) (older, newer *model.AssessmentReport, err error) {
	if oldID > 0 {
		if older, err = db.GetReport(ctx, oldID); err != nil {
			return nil, nil, err
		}
	}
	if newID > 0 {
		if newer, err = db.GetReport(ctx, newID); err != nil {
			return nil, nil, err
		}
	}
	if older != nil && newer != nil {
		return older, newer, nil
	}

	if newer != nil {
		// --new without --old compares with the report archived before it.
		metas, err := db.ListReports(ctx, name, 0)
		if err != nil {
			return nil, nil, err
		}
		for _, meta := range metas {
			if meta.ID != newID && meta.GeneratedAt.Before(newer.GeneratedAt) {
				prev, err := db.GetReport(ctx, meta.ID)
				if err != nil {
					return nil, nil, err
				}
				return prev, newer, nil
			}
		}
		return nil, nil, ErrNoOlderReport
	}

	latest, err := db.GetLatestReports(ctx, name, 2)
	if err != nil {
		return nil, nil, err
	}
	if older != nil {
		if len(latest) == 0 {
			return nil, nil, ErrNotEnoughReports
		}
		return older, latest[0], nil
	}
	if len(latest) < 2 {
		return nil, nil, fmt.Errorf("%w (found %d)", ErrNotEnoughReports, len(latest))
	}
	return latest[1], latest[0], nil
}

// ComparisonResult holds the result of comparing two reports.
type ComparisonResult struct {
	Previous ReportSummary     `json:"previous"`
	Current  ReportSummary     `json:"current"`
	Changes  []IndicatorChange `json:"changes"`
}

// ReportSummary describes one side of a comparison.
type ReportSummary struct {
	Title         string         `json:"title"`
	GeneratedAt   time.Time      `json:"generated_at"`
	AnsweredCount int            `json:"answered_count"`
	QuestionCount int            `json:"question_count"`
	Totals        map[string]int `json:"totals"`
}

// IndicatorChange is the per-category delta of one indicator.
type IndicatorChange struct {
	IndicatorID    string         `json:"indicator_id"`
	IndicatorTitle string         `json:"indicator_title"`
	Status         string         `json:"status"`
	Delta          map[string]int `json:"delta"`
}

// Change statuses.
const (
	statusAdded   = "added"
	statusRemoved = "removed"
	statusChanged = "changed"
	statusSame    = "unchanged"
)

// compareReports builds the comparison result of two reports.
func compareReports(older, newer *model.AssessmentReport) *ComparisonResult {
	result := &ComparisonResult{
		Previous: summarize(older),
		Current:  summarize(newer),
	}

	for _, d := range aggregate.Compare(older, newer) {
		change := IndicatorChange{
			IndicatorID:    d.IndicatorID,
			IndicatorTitle: d.IndicatorTitle,
			Delta:          make(map[string]int, len(d.Counts)),
		}
		moved := false
		for c, n := range d.Counts {
			change.Delta[c.String()] = n
			moved = moved || n != 0
		}
		switch {
		case !d.InOld:
			change.Status = statusAdded
		case !d.InNew:
			change.Status = statusRemoved
		case moved:
			change.Status = statusChanged
		default:
			change.Status = statusSame
		}
		result.Changes = append(result.Changes, change)
	}
	return result
}

func summarize(r *model.AssessmentReport) ReportSummary {
	totals := make(map[string]int, len(r.Totals))
	for c, n := range r.Totals {
		totals[c.String()] = n
	}
	return ReportSummary{
		Title:         r.Title,
		GeneratedAt:   r.GeneratedAt,
		AnsweredCount: r.AnsweredCount,
		QuestionCount: r.QuestionCount,
		Totals:        totals,
	}
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Report Comparison")
	md.PlainText("")

	rows := [][]string{
		{"Title", result.Previous.Title, result.Current.Title, notSelected},
		{"Date", result.Previous.GeneratedAt.Format("2006-01-02 15:04"), result.Current.GeneratedAt.Format("2006-01-02 15:04"), notSelected},
		{"Answered", strconv.Itoa(result.Previous.AnsweredCount), strconv.Itoa(result.Current.AnsweredCount),
			formatDelta(result.Current.AnsweredCount - result.Previous.AnsweredCount)},
	}
	for _, c := range model.AllCategories() {
		prev, cur := result.Previous.Totals[c.String()], result.Current.Totals[c.String()]
		rows = append(rows, []string{c.Label(), strconv.Itoa(prev), strconv.Itoa(cur), formatDelta(cur - prev)})
	}
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows:   rows,
	})
	md.PlainText("")

	md.H2("Indicators")
	md.PlainText("")
	if len(result.Changes) == 0 {
		md.Note("Neither report has selected indicators.")
		return md.Build()
	}

	header := []string{"Indicator", "Status"}
	for _, c := range model.AllCategories() {
		header = append(header, c.Label())
	}
	indicatorRows := make([][]string, 0, len(result.Changes))
	for _, ch := range result.Changes {
		row := []string{ch.IndicatorTitle, ch.Status}
		for _, c := range model.AllCategories() {
			row = append(row, formatDelta(ch.Delta[c.String()]))
		}
		indicatorRows = append(indicatorRows, row)
	}
	md.Table(markdown.TableSet{Header: header, Rows: indicatorRows})

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintln(out, "Report Comparison")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	fmt.Fprintf(out, "\nPrevious: %s (%s)\n", result.Previous.Title, result.Previous.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current:  %s (%s)\n", result.Current.Title, result.Current.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, "\nAnswers Summary:")
	fmt.Fprintf(out, "  %-30s  %-8s  %-8s  %-8s\n", "Category", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
	for _, c := range model.AllCategories() {
		prev, cur := result.Previous.Totals[c.String()], result.Current.Totals[c.String()]
		fmt.Fprintf(out, "  %-30s  %-8d  %-8d  %-8s\n", c.Label(), prev, cur, formatDelta(cur-prev))
	}

	if len(result.Changes) == 0 {
		fmt.Fprintf(out, "\n%s\n", noAnswersMessage)
		return nil
	}

	fmt.Fprintln(out, "\nIndicators:")
	for _, ch := range result.Changes {
		marker := " "
		switch ch.Status {
		case statusAdded:
			marker = "+"
		case statusRemoved:
			marker = "-"
		case statusChanged:
			marker = "~"
		}
		parts := make([]string, 0, 4)
		for _, c := range model.AllCategories() {
			if n := ch.Delta[c.String()]; n != 0 {
				parts = append(parts, c.Label()+" "+formatDelta(n))
			}
		}
		detail := strings.Join(parts, ", ")
		if detail == "" {
			detail = statusSame
		}
		fmt.Fprintf(out, "  [%s] %s: %s\n", marker, ch.IndicatorTitle, detail)
	}

	return nil
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
