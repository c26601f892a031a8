package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/config"
	"github.com/nao1215/selfcheck/internal/database"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "List archived reports",
		Long: `History lists the reports archived by 'selfcheck run' and 'selfcheck report'.

Reports are named after their answer file; reports from the interactive
questionnaire are named "interactive". A name argument restricts the list.

Examples:
  # List all archived reports
  selfcheck history

  # List reports of one answer file
  selfcheck history spring

  # Show an archived report again
  selfcheck history --show 3 --markdown

  # Delete an archived report
  selfcheck history --delete 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of reports to list (0 for all)")
	cmd.Flags().Int64("show", 0, "Print the archived report with this ID")
	cmd.Flags().Int64("delete", 0, "Delete the archived report with this ID")
	cmd.Flags().BoolP("json", "j", false, "Print --show output as JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Print --show output as Markdown")
	addArchiveFlag(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	deleteID, err := cmd.Flags().GetInt64("delete")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	if cfg.DBDir, err = archiveDir(cmd); err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()

	switch {
	case showID > 0:
		return showArchivedReport(ctx, out, db, showID, cfg.ReportFormat())
	case deleteID > 0:
		if err := db.DeleteReport(ctx, deleteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted report %d\n", deleteID)
		return nil
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	}
	return listHistory(ctx, out, db, name, limit)
}

// showArchivedReport prints one archived report.
func showArchivedReport(ctx context.Context, out io.Writer, db *database.ReportDB, id int64, formatName string) error {
	r, err := db.GetReport(ctx, id)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	w, err := report.NewWriter(format, out)
	if err != nil {
		return err
	}
	_, err = w.Write(r)
	return err
}

// listHistory prints the archived reports, newest first.
func listHistory(ctx context.Context, out io.Writer, db *database.ReportDB, name string, limit int) error {
	reports, err := db.ListReports(ctx, name, limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(out, "No archived reports found.")
		fmt.Fprintln(out, "\nUse 'selfcheck run' or 'selfcheck report' to create one.")
		return nil
	}

	fmt.Fprintf(out, "Archived reports (%d):\n\n", len(reports))
	fmt.Fprintf(out, "  %-6s  %-19s  %-16s  %-10s  %s\n", "ID", "Date", "Name", "Completion", "Answers")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 78))

	for _, meta := range reports {
		fmt.Fprintf(out, "  %-6d  %-19s  %-16s  %-10s  %s\n",
			meta.ID,
			meta.GeneratedAt.Local().Format("2006-01-02 15:04:05"),
			meta.Name,
			fmt.Sprintf("%.0f%%", meta.Completion()*100),
			formatTotals(meta.Totals),
		)
	}

	fmt.Fprintln(out, "\nUse 'selfcheck compare' to compare the latest two reports.")
	return nil
}

// formatTotals formats the category totals as a compact summary.
func formatTotals(totals map[string]int) string {
	parts := make([]string, 0, 4)
	for _, c := range model.AllCategories() {
		if n := totals[c.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", c.Label(), n))
		}
	}
	if len(parts) == 0 {
		return noAnswersMessage
	}
	return strings.Join(parts, " ")
}
