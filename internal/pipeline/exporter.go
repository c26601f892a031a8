package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nao1215/selfcheck/internal/document"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/paginate"
	"github.com/nao1215/selfcheck/internal/render"
)

// Exporter runs one export at a time.
//
// The interactive UI keeps a single Exporter and disables its export action
// while InProgress reports true; Export itself rejects overlapping calls with
// ErrExportInProgress rather than queueing them.
type Exporter struct {
	capturer render.Capturer
	writer   document.Writer
	page     paginate.PageSize
	logger   *slog.Logger
	timeout  time.Duration
	running  atomic.Bool
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithPageSize sets the page size. Default is A4.
func WithPageSize(page paginate.PageSize) ExporterOption {
	return func(e *Exporter) {
		e.page = page
	}
}

// WithExporterLogger sets the logger.
func WithExporterLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithExportTimeout bounds one export. Zero means no limit.
func WithExportTimeout(d time.Duration) ExporterOption {
	return func(e *Exporter) {
		e.timeout = d
	}
}

// NewExporter creates an Exporter.
func NewExporter(capturer render.Capturer, writer document.Writer, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		capturer: capturer,
		writer:   writer,
		page:     paginate.A4,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// InProgress reports whether an export is running.
func (e *Exporter) InProgress() bool {
	return e.running.Load()
}

// Pipeline returns the capture, paginate and write pipeline of this exporter.
func (e *Exporter) Pipeline() *Pipeline {
	return NewExportPipeline(nil, e.capturer, e.writer, WithLogger(e.logger), WithTimeout(e.timeout))
}

// NewExportPipeline builds the capture, paginate and write steps. A non-nil
// source adds a report step in front so jobs only need a name.
func NewExportPipeline(source ReportSource, capturer render.Capturer, writer document.Writer, opts ...Option) *Pipeline {
	p := New(nil, opts...)
	if source != nil {
		p.AddStep(NewReportStep(source))
	}
	p.AddStep(NewCaptureStep(capturer))
	p.AddStep(NewPaginateStep())
	p.AddStep(NewWriteStep(writer))
	return p
}

// Export writes report to path.
// Failures are wrapped in ErrExportFailed; the returned job shows how far the
// export got.
func (e *Exporter) Export(ctx context.Context, report *model.AssessmentReport, path string) (*Job, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.running.Store(false)

	job := NewJob(path, path, e.page)
	job.Report = report

	if err := e.Pipeline().Execute(ctx, job); err != nil {
		return job, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	e.logger.Info("report exported",
		"path", path,
		"pages", job.PageCount(),
	)
	return job, nil
}
