package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/assessment"
	"github.com/nao1215/selfcheck/internal/config"
	xlog "github.com/nao1215/selfcheck/internal/log"
	"github.com/nao1215/selfcheck/internal/report"
	"github.com/nao1215/selfcheck/internal/taxonomy"
	"github.com/nao1215/selfcheck/internal/tui"
)

// interactiveName is the archive name of reports from the interactive flow.
const interactiveName = "interactive"

// logFileName is the log file used while the terminal belongs to the TUI.
const logFileName = "selfcheck.log"

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive questionnaire",
		Long: `Run starts the interactive questionnaire in the terminal.

1. Select the indicators to assess (space to toggle, enter to start)
2. Answer one question at a time (1-4 to answer, arrow keys to navigate)
3. Review the results and press p to export a PDF

The final report is printed when the questionnaire is closed and archived
for 'selfcheck history' and 'selfcheck compare'.

Examples:
  # Start with the built-in quality framework
  selfcheck run

  # Export PDFs into a directory and name the respondent
  selfcheck run --pdf exports/ --respondent "Jane Doe"

  # Use a custom taxonomy
  selfcheck run --taxonomy my-framework.yaml`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	addCommonFlags(cmd)

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closeLog, err := setupTUILogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runInteractive(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

// setupTUILogger writes JSON logs to a file in the data directory when verbose,
// and discards them otherwise. Logging to stderr would corrupt the screen.
func setupTUILogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if !cfg.Verbose {
		return xlog.NewLogger(io.Discard, false), func() {}, nil
	}

	if err := os.MkdirAll(cfg.DBDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(cfg.DBDir, logFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // Path is derived from the data directory
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return xlog.NewJSONLogger(f, true), func() { _ = f.Close() }, nil
}

// runInteractive runs the questionnaire until the user quits, then prints
// and archives the last report.
func runInteractive(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return err
	}

	outputPath := cfg.PDFPath
	if outputPath == "" {
		outputPath = cfg.OutputDir
	}

	model := tui.New(
		assessment.NewSession(tax, assessment.WithLogger(logger)),
		tui.Options{
			Meta:       reportMeta(cfg),
			OutputPath: outputPath,
			Exporter:   newExporter(cfg, logger),
			Context:    ctx,
			Logger:     logger,
		},
	)

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("questionnaire aborted: %w", err)
	}

	finalModel, ok := final.(tui.Model)
	if !ok || finalModel.Report() == nil {
		return nil
	}

	rep := finalModel.Report()
	if _, err := report.NewSimpleWriter(out).Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	db, err := openArchive(cfg, logger)
	if err != nil {
		return err
	}
	if db == nil {
		return nil
	}
	defer db.Close()

	if _, err := db.SaveReport(ctx, interactiveName, rep); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
