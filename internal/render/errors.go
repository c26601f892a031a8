package render

import "errors"

// ErrCaptureFailure is returned when the report could not be rasterized.
// The underlying cause is wrapped.
var ErrCaptureFailure = errors.New("failed to capture report image")
