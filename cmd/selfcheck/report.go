package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/config"
	"github.com/nao1215/selfcheck/internal/database"
	"github.com/nao1215/selfcheck/internal/document"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/pipeline"
	"github.com/nao1215/selfcheck/internal/report"
	"github.com/nao1215/selfcheck/internal/taxonomy"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <answers.yaml>...",
		Short: "Build reports from answer files",
		Long: `Report builds the assessment report of one or more answer files without
the interactive questionnaire.

An answer file lists the selected indicators and the answers per question:

  title: Spring review
  selected: [lead-vision, teach-feedback]
  answers:
    lead-vision:
      q1: applies
      q2: partially
    teach-feedback:
      q1: not_applies

Valid answers are applies, partially, not_applies and not_relevant.
Unanswered questions are allowed and shown as "Not answered".

Examples:
  # Print a text report
  selfcheck report answers.yaml

  # Write a Markdown report to a file
  selfcheck report --markdown -o report.md answers.yaml

  # Export a PDF on US Letter paper
  selfcheck report --pdf report.pdf --page-size letter answers.yaml

  # Export several answer files concurrently into a directory
  selfcheck report --pdf exports/ --batch 4 a.yaml b.yaml c.yaml

  # Render the PDF with headless Chrome
  selfcheck report --pdf report.pdf --capture browser answers.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runReportCmd,
	}

	addCommonFlags(cmd)

	// Report format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --html)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --html)")
	cmd.Flags().Bool("html", false,
		"Output HTML report (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent PDF exports")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildReportConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	return runReport(ctx, cfg, args, cmd.OutOrStdout(), logger)
}

// buildReportConfig adds the report specific flags to the common config.
func buildReportConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.HTMLReport, err = cmd.Flags().GetBool("html"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reportRun carries what every answer file needs while a report command runs.
type reportRun struct {
	cfg    *config.Config
	tax    *model.Taxonomy
	out    io.Writer
	db     *database.ReportDB
	logger *slog.Logger

	// mu serializes writes to out and the archive across batch workers.
	mu sync.Mutex
}

// runReport builds the reports of files and, with --pdf, exports them.
func runReport(ctx context.Context, cfg *config.Config, files []string, stdout io.Writer, logger *slog.Logger) error {
	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		return err
	}

	out, closeOut, err := openReportOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}
	defer closeOut()

	db, err := openArchive(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	run := &reportRun{cfg: cfg, tax: tax, out: out, db: db, logger: logger}

	if cfg.PDFPath == "" {
		return run.textOnly(ctx, files)
	}
	return run.export(ctx, files)
}

// textOnly writes the report of every file without a PDF export.
func (r *reportRun) textOnly(ctx context.Context, files []string) error {
	source := taxonomy.ReportSource(r.tax, reportMeta(r.cfg))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rep, err := source(ctx, file)
		if err != nil {
			return err
		}
		if err := r.emit(ctx, file, rep); err != nil {
			return err
		}
	}
	return nil
}

// export runs the PDF pipeline for every file, concurrently when several
// files are given and the batch size allows it.
func (r *reportRun) export(ctx context.Context, files []string) error {
	jobs, err := r.jobs(files)
	if err != nil {
		return err
	}

	capturer := newCapturer(r.cfg)
	writer := document.NewPDFWriter()
	source := taxonomy.ReportSource(r.tax, reportMeta(r.cfg))
	factory := func() *pipeline.Pipeline {
		return pipeline.NewExportPipeline(source, capturer, writer,
			pipeline.WithLogger(r.logger), pipeline.WithTimeout(r.cfg.Timeout))
	}

	startTime := time.Now()
	var failed []error
	done := func(job *pipeline.Job, index int) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if job.Failed() {
			r.logger.Error("export failed", "job", job.Name, "error", job.Err)
			failed = append(failed, fmt.Errorf("%s: %w", job.Name, job.Err))
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: %v\n", index+1, len(jobs), job.Name, pipeline.ErrExportFailed)
			return
		}

		fmt.Fprintf(os.Stderr, "[%d/%d] Exported %s (%d pages)\n",
			index+1, len(jobs), job.OutputPath, job.PageCount())
		if err := r.emitLocked(ctx, job.Name, job.Report); err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", job.Name, err))
		}
	}

	if len(jobs) > 1 && r.cfg.BatchSize > 1 {
		fmt.Fprintf(os.Stderr, "Exporting %d reports (concurrency: %d)...\n", len(jobs), r.cfg.BatchSize)
		bp := pipeline.NewBatchProcessor(factory,
			pipeline.WithConcurrency(r.cfg.BatchSize),
			pipeline.WithBatchLogger(r.logger),
		)
		if err := bp.ProcessBatchWithCallback(ctx, jobs, done); err != nil {
			return err
		}
	} else {
		for i, job := range jobs {
			if err := ctx.Err(); err != nil {
				return err
			}
			_ = factory().Execute(ctx, job) //nolint:errcheck // recorded in job.Err
			done(job, i)
		}
	}

	r.logger.Info("export complete", "jobs", len(jobs), "elapsed", time.Since(startTime))

	if len(failed) > 0 {
		return fmt.Errorf("%w: %w", pipeline.ErrExportFailed, errors.Join(failed...))
	}
	return nil
}

// jobs creates one job per answer file. A single file is written to PDFPath
// when it ends in .pdf. Otherwise PDFPath is a directory and each PDF is
// named after its answer file.
func (r *reportRun) jobs(files []string) ([]*pipeline.Job, error) {
	page := pageSize(r.cfg)
	if len(files) == 1 && strings.EqualFold(filepath.Ext(r.cfg.PDFPath), ".pdf") {
		return []*pipeline.Job{pipeline.NewJob(files[0], r.cfg.PDFPath, page)}, nil
	}

	if err := os.MkdirAll(r.cfg.PDFPath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := make([]*pipeline.Job, 0, len(files))
	seen := make(map[string]string, len(files))
	for _, file := range files {
		name := taxonomy.ScriptName(file)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("answer files %s and %s would both be exported as %s.pdf", prev, file, name)
		}
		seen[name] = file
		jobs = append(jobs, pipeline.NewJob(file, filepath.Join(r.cfg.PDFPath, name+".pdf"), page))
	}
	return jobs, nil
}

// emit writes a report and archives it.
func (r *reportRun) emit(ctx context.Context, name string, rep *model.AssessmentReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emitLocked(ctx, name, rep)
}

func (r *reportRun) emitLocked(ctx context.Context, name string, rep *model.AssessmentReport) error {
	format, err := report.ParseFormat(r.cfg.ReportFormat())
	if err != nil {
		return err
	}
	w, err := report.NewWriter(format, r.out)
	if err != nil {
		return err
	}
	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if r.db != nil {
		if _, err := r.db.SaveReport(ctx, taxonomy.ScriptName(name), rep); err != nil {
			// The report was delivered; a failed archive write is not fatal.
			r.logger.Error("failed to save report", "name", name, "error", err)
		}
	}
	return nil
}

// openReportOutput opens the report destination. An empty path is stdout.
func openReportOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports carry respondent data and are only readable by the owner.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
