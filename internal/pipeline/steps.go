package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/selfcheck/internal/document"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/paginate"
	"github.com/nao1215/selfcheck/internal/render"
)

// ReportSource builds the report of a job, typically by replaying an answer
// script through a fresh assessment session.
type ReportSource func(ctx context.Context, name string) (*model.AssessmentReport, error)

// ReportStep fills Job.Report from a ReportSource. Jobs that already carry a
// report are left unchanged.
type ReportStep struct {
	source ReportSource
}

// NewReportStep creates a ReportStep.
func NewReportStep(source ReportSource) *ReportStep {
	return &ReportStep{source: source}
}

// Name implements Step.
func (s *ReportStep) Name() string { return "report" }

// Do implements Step.
func (s *ReportStep) Do(ctx context.Context, job *Job) error {
	if job.Report != nil {
		return nil
	}
	r, err := s.source(ctx, job.Name)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	job.Report = r
	return nil
}

// CaptureStep rasterizes Job.Report into Job.Image.
type CaptureStep struct {
	capturer render.Capturer
}

// NewCaptureStep creates a CaptureStep.
func NewCaptureStep(capturer render.Capturer) *CaptureStep {
	return &CaptureStep{capturer: capturer}
}

// Name implements Step.
func (s *CaptureStep) Name() string { return "capture" }

// Do implements Step.
func (s *CaptureStep) Do(ctx context.Context, job *Job) error {
	if job.Report == nil {
		return fmt.Errorf("%w: no report to capture", ErrMissingInput)
	}
	img, err := s.capturer.Capture(ctx, job.Report)
	if err != nil {
		return err
	}
	job.Image = img
	return nil
}

// PaginateStep computes Job.Placements from the captured image.
type PaginateStep struct{}

// NewPaginateStep creates a PaginateStep.
func NewPaginateStep() *PaginateStep {
	return &PaginateStep{}
}

// Name implements Step.
func (s *PaginateStep) Name() string { return "paginate" }

// Do implements Step.
func (s *PaginateStep) Do(_ context.Context, job *Job) error {
	if job.Image == nil {
		return fmt.Errorf("%w: pagination requires a captured image", ErrMissingInput)
	}
	b := job.Image.Bounds()
	placements, err := paginate.Paginate(b.Dx(), b.Dy(), job.Page)
	if err != nil {
		return err
	}
	job.Placements = placements
	return nil
}

// WriteStep saves the document.
type WriteStep struct {
	writer document.Writer
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(writer document.Writer) *WriteStep {
	return &WriteStep{writer: writer}
}

// Name implements Step.
func (s *WriteStep) Name() string { return "write" }

// Do implements Step.
func (s *WriteStep) Do(ctx context.Context, job *Job) error {
	if job.Image == nil || len(job.Placements) == 0 {
		return fmt.Errorf("%w: nothing to write", ErrMissingInput)
	}
	doc := document.Document{
		Image:      job.Image,
		Placements: job.Placements,
		Page:       job.Page,
	}
	if job.Report != nil {
		doc.Title = job.Report.Title
		doc.CreatedAt = job.Report.GeneratedAt
	}
	return s.writer.Write(ctx, job.OutputPath, doc)
}
