package render

import (
	"context"
	"image"

	"github.com/nao1215/selfcheck/internal/model"
)

// Capturer rasterizes a report.
//
// Implementations must treat the report as read-only and wrap every failure
// with ErrCaptureFailure.
type Capturer interface {
	Capture(ctx context.Context, report *model.AssessmentReport) (image.Image, error)
}

const (
	// DefaultScale is the resolution multiplier of the captured image.
	DefaultScale = 2

	// MaxScale bounds the multiplier; a larger canvas is rarely useful and
	// quickly grows past what a PDF viewer handles.
	MaxScale = 4

	// baseWidth is the layout width in pixels before scaling.
	baseWidth = 800
)

// Option configures a capturer.
type Option func(*options)

type options struct {
	scale     int
	chromeBin string
}

func defaultOptions() options {
	return options{scale: DefaultScale}
}

// WithScale sets the resolution multiplier. Values outside [1, MaxScale] are
// clamped.
func WithScale(scale int) Option {
	return func(o *options) {
		o.scale = clampScale(scale)
	}
}

// WithChromeBin sets the browser executable used by BrowserCapturer.
// When empty, go-rod locates or downloads a browser itself.
func WithChromeBin(path string) Option {
	return func(o *options) {
		o.chromeBin = path
	}
}

func clampScale(scale int) int {
	switch {
	case scale < 1:
		return 1
	case scale > MaxScale:
		return MaxScale
	default:
		return scale
	}
}
