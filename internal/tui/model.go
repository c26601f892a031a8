package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nao1215/selfcheck/internal/aggregate"
	"github.com/nao1215/selfcheck/internal/assessment"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/pipeline"
)

// Exporter writes a report to a PDF file. *pipeline.Exporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, report *model.AssessmentReport, path string) (*pipeline.Job, error)
	InProgress() bool
}

// Options configures a Model.
type Options struct {
	// Meta describes the report built on submit.
	Meta aggregate.Meta

	// OutputPath is the PDF file, or a directory that receives a
	// timestamped file. Empty means the current directory.
	OutputPath string

	// Exporter performs the PDF export. Nil disables the export action.
	Exporter Exporter

	// Context bounds exports. Defaults to context.Background().
	Context context.Context

	// Logger receives export failures.
	Logger *slog.Logger
}

// exportDoneMsg is sent when an export finished.
type exportDoneMsg struct {
	path  string
	pages int
	err   error
}

// Messages shown to the user.
const (
	msgExportFailed  = "PDF export failed. Please try again."
	msgExportRunning = "An export is already running."
	msgExportOff     = "PDF export is not available."
	msgExporting     = "Exporting PDF..."
)

// Model is the bubbletea model of the questionnaire.
type Model struct {
	session  *assessment.Session
	taxonomy *model.Taxonomy
	opts     Options
	styles   Styles

	// indicators is the traversal-ordered id list the selection cursor walks.
	indicators []string
	cursor     int

	progress progress.Model
	report   *model.AssessmentReport

	exporting bool
	status    string
	isError   bool

	width  int
	height int
}

// New creates a Model around session. The session should be in
// PhaseSelecting.
func New(session *assessment.Session, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	tax := session.Taxonomy()
	return Model{
		session:    session,
		taxonomy:   tax,
		opts:       opts,
		styles:     DefaultStyles(),
		indicators: tax.IndicatorIDs(),
		progress:   progress.New(progress.WithSolidFill(string(primaryColor)), progress.WithoutPercentage(), progress.WithWidth(40)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Report returns the report of the last submitted session, or nil.
func (m Model) Report() *model.AssessmentReport {
	return m.report
}

// Session returns the underlying session.
func (m Model) Session() *assessment.Session {
	return m.session
}

// Exporting reports whether an export started by this model is running.
func (m Model) Exporting() bool {
	return m.exporting
}

// Status returns the current status line.
func (m Model) Status() string {
	return m.status
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-4, 10), 60)
		return m, nil

	case exportDoneMsg:
		return m.exportDone(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.session.Phase() {
		case assessment.PhaseSelecting:
			return m.updateSelecting(msg)
		case assessment.PhaseAnswering:
			return m.updateAnswering(msg)
		case assessment.PhaseReviewing:
			return m.updateReviewing(msg)
		}
	}
	return m, nil
}

func (m Model) updateSelecting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.indicators)-1 {
			m.cursor++
		}
	case " ", "x":
		if len(m.indicators) == 0 {
			return m, nil
		}
		m.setResult(m.session.ToggleIndicator(m.indicators[m.cursor]), "")
	case "enter":
		if err := m.session.StartAnswering(); err != nil {
			if errors.Is(err, assessment.ErrEmptySelection) {
				m.setResult(err, "Select at least one indicator first.")
			} else {
				m.setResult(err, "")
			}
			return m, nil
		}
		m.clearStatus()
	}
	return m, nil
}

func (m Model) updateAnswering(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "1", "2", "3", "4":
		categories := model.AllCategories()
		idx := int(key[0] - '1')
		m.setResult(m.session.RecordCurrent(categories[idx]), "")
	case "right", "l", "enter", "n":
		submitted, err := m.session.Next()
		m.setResult(err, "")
		if submitted {
			m.buildReport()
		}
	case "left", "h", "p":
		m.setResult(m.session.Previous(), "")
	case "b", "esc":
		m.setResult(m.session.Back(), "")
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r":
		m.session.Restart()
		m.report = nil
		m.cursor = 0
		m.clearStatus()
	case "p":
		return m.startExport()
	}
	return m, nil
}

// startExport launches an export unless one is already running.
func (m Model) startExport() (tea.Model, tea.Cmd) {
	if m.opts.Exporter == nil {
		m.status, m.isError = msgExportOff, true
		return m, nil
	}
	if m.exporting || m.opts.Exporter.InProgress() {
		m.status, m.isError = msgExportRunning, false
		return m, nil
	}

	m.exporting = true
	m.status, m.isError = msgExporting, false

	exp := m.opts.Exporter
	ctx := m.opts.Context
	r := m.report
	path := m.exportPath(time.Now())

	return m, func() tea.Msg {
		job, err := exp.Export(ctx, r, path)
		done := exportDoneMsg{path: path, err: err}
		if job != nil {
			done.pages = job.PageCount()
		}
		return done
	}
}

func (m Model) exportDone(msg exportDoneMsg) Model {
	m.exporting = false
	switch {
	case errors.Is(msg.err, pipeline.ErrExportInProgress):
		m.status, m.isError = msgExportRunning, false
	case msg.err != nil:
		m.opts.Logger.Warn("export failed", "path", msg.path, "error", msg.err)
		m.status, m.isError = msgExportFailed, true
	default:
		m.status, m.isError = fmt.Sprintf("Saved %s (%d pages)", msg.path, msg.pages), false
	}
	return m
}

// exportPath resolves OutputPath to a PDF file name.
func (m Model) exportPath(now time.Time) string {
	out := m.opts.OutputPath
	if strings.EqualFold(filepath.Ext(out), ".pdf") {
		return out
	}
	if out == "" {
		out = "."
	}
	return filepath.Join(out, "selfcheck-"+now.Format("20060102-150405")+".pdf")
}

func (m *Model) buildReport() {
	m.report = aggregate.BuildReport(m.session.Selected(), m.session.Answers(), m.taxonomy, m.opts.Meta)
}

// setResult shows err, or fallback instead of err when fallback is set.
// A nil error clears the status line.
func (m *Model) setResult(err error, fallback string) {
	if err == nil {
		m.clearStatus()
		return
	}
	m.isError = true
	if fallback != "" {
		m.status = fallback
		return
	}
	m.status = err.Error()
}

func (m *Model) clearStatus() {
	m.status = ""
	m.isError = false
}
