package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "selfcheck"

	// DefaultPageSize is ISO A4.
	DefaultPageSize = "a4"

	// DefaultCaptureMode draws the report in-process without a browser.
	DefaultCaptureMode = CaptureModeChart

	// DefaultScale doubles the resolution of the captured image, which keeps
	// text legible when the PDF is printed.
	DefaultScale = 2

	// DefaultBatchSize is the number of answer files exported concurrently.
	// Browser captures are memory hungry, so this stays small.
	DefaultBatchSize = 4

	// DefaultTimeout bounds one export, including a browser start.
	DefaultTimeout = 2 * time.Minute
)

// Capture modes.
const (
	// CaptureModeChart uses the built-in chart renderer.
	CaptureModeChart = "chart"

	// CaptureModeBrowser screenshots the HTML report in headless Chrome.
	CaptureModeBrowser = "browser"
)

// Config holds all configuration options for selfcheck.
// It is populated from CLI flags and the configuration file and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is manageable, and nesting would add complexity
// without significant benefit. The configuration file is nested for
// readability and is flattened by ApplyFile.
type Config struct {
	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// TaxonomyPath is a taxonomy file replacing the built-in taxonomy.
	TaxonomyPath string

	// Title, Respondent and Organization describe the report.
	Title        string
	Respondent   string
	Organization string

	// JSONReport, MarkdownReport and HTMLReport select the output format.
	// At most one may be set; none means plain text.
	JSONReport     bool
	MarkdownReport bool
	HTMLReport     bool

	// ReportFile is the output file path for the report.
	// When empty, the report is written to stdout.
	ReportFile string

	// PDFPath is the output path of the PDF export. For several answer
	// files it is treated as a directory.
	PDFPath string

	// OutputDir is the default directory for exported PDFs.
	OutputDir string

	// PageSize is "a4" or "letter".
	PageSize string

	// CaptureMode is CaptureModeChart or CaptureModeBrowser.
	CaptureMode string

	// Scale is the resolution multiplier of the captured image.
	Scale int

	// ChromeBin is the browser executable used in browser mode. Empty lets
	// go-rod find or download one.
	ChromeBin string

	// BatchSize is the number of concurrent exports.
	BatchSize int

	// Timeout bounds one export.
	Timeout time.Duration

	// DBDir is the directory of the report archive.
	DBDir string

	// SaveToDB enables archiving of generated reports.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		PageSize:    DefaultPageSize,
		CaptureMode: DefaultCaptureMode,
		Scale:       DefaultScale,
		BatchSize:   DefaultBatchSize,
		Timeout:     DefaultTimeout,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for selfcheck.
// On Linux: ~/.local/share/selfcheck
// On macOS: ~/Library/Application Support/selfcheck
// On Windows: %LOCALAPPDATA%\selfcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for selfcheck.
// On Linux: ~/.config/selfcheck
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile fills every setting that still holds its zero or default value
// from the configuration file. Settings given on the command line win.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	setIfEmpty(&c.Title, f.Report.Title)
	setIfEmpty(&c.Respondent, f.Report.Respondent)
	setIfEmpty(&c.Organization, f.Report.Organization)
	setIfEmpty(&c.OutputDir, f.Report.OutputDir)
	setIfEmpty(&c.TaxonomyPath, f.Taxonomy)
	setIfEmpty(&c.ChromeBin, f.Capture.ChromeBin)

	if f.Report.PageSize != "" && c.PageSize == DefaultPageSize {
		c.PageSize = f.Report.PageSize
	}
	if f.Capture.Mode != "" && c.CaptureMode == DefaultCaptureMode {
		c.CaptureMode = f.Capture.Mode
	}
	if f.Capture.Scale != 0 && c.Scale == DefaultScale {
		c.Scale = f.Capture.Scale
	}
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// ReportFormat returns the selected output format name.
func (c *Config) ReportFormat() string {
	switch {
	case c.JSONReport:
		return "json"
	case c.MarkdownReport:
		return "markdown"
	case c.HTMLReport:
		return "html"
	default:
		return "text"
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
func (c *Config) Validate() error {
	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.HTMLReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	c.PageSize = strings.ToLower(strings.TrimSpace(c.PageSize))
	if c.PageSize != "a4" && c.PageSize != "letter" {
		return ErrInvalidPageSize
	}

	c.CaptureMode = strings.ToLower(strings.TrimSpace(c.CaptureMode))
	if c.CaptureMode != CaptureModeChart && c.CaptureMode != CaptureModeBrowser {
		return ErrUnknownCaptureMode
	}

	if c.Scale < 1 || c.Scale > 4 {
		return ErrInvalidScale
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}
