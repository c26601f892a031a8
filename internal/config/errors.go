package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrConflictingReportFormats is returned when more than one of --json,
	// --markdown and --html is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: only one of --json, --markdown and --html can be used")

	// ErrInvalidPageSize is returned for a page size other than a4 or letter.
	ErrInvalidPageSize = errors.New("invalid page size: must be a4 or letter")

	// ErrInvalidScale is returned when the capture scale is outside 1..4.
	ErrInvalidScale = errors.New("invalid scale: must be between 1 and 4")

	// ErrUnknownCaptureMode is returned for a capture mode other than chart
	// or browser.
	ErrUnknownCaptureMode = errors.New("unknown capture mode: must be chart or browser")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidTimeout is returned when the export timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
