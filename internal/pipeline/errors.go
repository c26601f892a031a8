package pipeline

import "errors"

var (
	// ErrExportInProgress is returned when an export is requested while
	// another one is still running.
	ErrExportInProgress = errors.New("an export is already in progress")

	// ErrExportFailed is the user-facing failure of an export. The cause
	// (capture or encoding) is wrapped; retrying is always safe.
	ErrExportFailed = errors.New("export failed, please try again")

	// ErrMissingInput is returned when a step runs before the step that
	// produces its input.
	ErrMissingInput = errors.New("step input is missing")
)
