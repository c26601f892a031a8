package report

import "errors"

var (
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown report format")

	// ErrNilReport is returned when a writer receives no report.
	ErrNilReport = errors.New("report is nil")
)
