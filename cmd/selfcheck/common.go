package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/aggregate"
	"github.com/nao1215/selfcheck/internal/config"
	"github.com/nao1215/selfcheck/internal/database"
	"github.com/nao1215/selfcheck/internal/document"
	xlog "github.com/nao1215/selfcheck/internal/log"
	"github.com/nao1215/selfcheck/internal/paginate"
	"github.com/nao1215/selfcheck/internal/pipeline"
	"github.com/nao1215/selfcheck/internal/render"
)

// addCommonFlags registers the flags shared by run and report.
func addCommonFlags(cmd *cobra.Command) {
	// Configuration
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .selfcheck in current or home directory)")
	cmd.Flags().String("taxonomy", "",
		"Taxonomy file replacing the built-in quality framework")

	// Report metadata
	cmd.Flags().String("title", "", "Report title")
	cmd.Flags().String("respondent", "", "Name of the person answering")
	cmd.Flags().String("organization", "", "School or institution")

	// PDF export
	cmd.Flags().String("pdf", "",
		"Export PDF to this .pdf file, or into this directory named after each answer file")
	cmd.Flags().String("page-size", config.DefaultPageSize, "PDF page size: a4 or letter")
	cmd.Flags().String("capture", config.DefaultCaptureMode,
		"Capture mode: chart (built-in renderer) or browser (headless Chrome)")
	cmd.Flags().String("chrome", "", "Chrome or Chromium executable for --capture browser")
	cmd.Flags().Int("scale", config.DefaultScale, "Resolution multiplier of the captured report (1-4)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for one PDF export")

	// Archive
	cmd.Flags().Bool("no-save", false, "Do not archive the report in the history database")
	addArchiveFlag(cmd)
}

// addArchiveFlag registers the archive directory flag.
func addArchiveFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-dir", "", "Directory of the report archive (default: XDG data directory)")
}

// archiveDir returns the archive directory of the db-dir flag or the XDG
// data directory.
func archiveDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", err
	}
	if dir == "" {
		return config.XDGDataDir(), nil
	}
	return dir, nil
}

// buildConfig creates a Config from the common flags and the configuration
// file. Command specific flags are read by the commands themselves.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	stringFlags := []struct {
		name string
		dst  *string
	}{
		{"config", &cfg.ConfigFilePath},
		{"taxonomy", &cfg.TaxonomyPath},
		{"title", &cfg.Title},
		{"respondent", &cfg.Respondent},
		{"organization", &cfg.Organization},
		{"pdf", &cfg.PDFPath},
		{"page-size", &cfg.PageSize},
		{"capture", &cfg.CaptureMode},
		{"chrome", &cfg.ChromeBin},
	}
	for _, f := range stringFlags {
		if *f.dst, err = cmd.Flags().GetString(f.name); err != nil {
			return nil, err
		}
	}

	if cfg.Scale, err = cmd.Flags().GetInt("scale"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.DBDir, err = archiveDir(cmd); err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue without a file.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the structured logger. Respondent data is masked.
func setupLogger(verbose bool) *slog.Logger {
	return xlog.NewLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// reportMeta returns the report metadata of the configuration.
func reportMeta(cfg *config.Config) aggregate.Meta {
	return aggregate.Meta{
		Title:        cfg.Title,
		Respondent:   cfg.Respondent,
		Organization: cfg.Organization,
	}
}

// newCapturer builds the capturer selected by the configuration.
func newCapturer(cfg *config.Config) render.Capturer {
	opts := []render.Option{render.WithScale(cfg.Scale)}
	if cfg.CaptureMode == config.CaptureModeBrowser {
		if cfg.ChromeBin != "" {
			opts = append(opts, render.WithChromeBin(cfg.ChromeBin))
		}
		return render.NewBrowserCapturer(opts...)
	}
	return render.NewChartCapturer(opts...)
}

// pageSize resolves the configured page size. Validate has already checked
// the name.
func pageSize(cfg *config.Config) paginate.PageSize {
	page, ok := paginate.PageSizeByName(cfg.PageSize)
	if !ok {
		return paginate.A4
	}
	return page
}

// newExporter builds the PDF exporter of the configuration.
func newExporter(cfg *config.Config, logger *slog.Logger) *pipeline.Exporter {
	return pipeline.NewExporter(newCapturer(cfg), document.NewPDFWriter(),
		pipeline.WithPageSize(pageSize(cfg)),
		pipeline.WithExporterLogger(logger),
		pipeline.WithExportTimeout(cfg.Timeout),
	)
}

// openArchive opens the report database when archiving is enabled.
// It returns nil when SaveToDB is false.
func openArchive(cfg *config.Config, logger *slog.Logger) (*database.ReportDB, error) {
	if !cfg.SaveToDB {
		return nil, nil
	}
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database opened", "dir", cfg.DBDir)
	return db, nil
}
