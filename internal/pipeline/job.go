package pipeline

import (
	"image"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/paginate"
)

// Job carries one export through the pipeline. Steps fill in the fields
// in order: Report, Image, Placements, then the file at OutputPath.
type Job struct {
	// Name identifies the job in logs, e.g. the answer script path.
	Name string

	// OutputPath is where the document is written.
	OutputPath string

	// Page is the page size used for pagination and the document.
	Page paginate.PageSize

	// Report is the assessment to export.
	Report *model.AssessmentReport

	// Image is the captured report.
	Image image.Image

	// Placements are the computed pages.
	Placements []model.PagePlacement

	// CompletedSteps lists the names of the steps that succeeded.
	CompletedSteps []string

	// Err is the error of the failed step, if any.
	Err error
}

// NewJob creates a job for an export to outputPath.
func NewJob(name, outputPath string, page paginate.PageSize) *Job {
	return &Job{
		Name:           name,
		OutputPath:     outputPath,
		Page:           page,
		CompletedSteps: make([]string, 0, 4),
	}
}

// Failed reports whether a step failed.
func (j *Job) Failed() bool {
	return j.Err != nil
}

// PageCount returns the number of computed pages.
func (j *Job) PageCount() int {
	return len(j.Placements)
}
