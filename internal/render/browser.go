package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/report"
)

// viewportHeight is the initial viewport height. The screenshot covers the
// full document regardless.
const viewportHeight = 1000

// BrowserCapturer renders the HTML report in headless Chrome.
//
// A browser is launched per capture and closed afterwards, so concurrent
// captures never share a page.
type BrowserCapturer struct {
	opts options
}

// NewBrowserCapturer returns a BrowserCapturer. Options: WithScale is used as
// the device scale factor and WithChromeBin selects the executable.
func NewBrowserCapturer(opts ...Option) *BrowserCapturer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BrowserCapturer{opts: o}
}

// Capture implements Capturer.
func (c *BrowserCapturer) Capture(ctx context.Context, r *model.AssessmentReport) (image.Image, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: report is nil", ErrCaptureFailure)
	}

	var html bytes.Buffer
	if _, err := report.NewHTMLWriter(&html).Write(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}

	l := launcher.New().Headless(true).Context(ctx)
	if c.opts.chromeBin != "" {
		l = l.Bin(c.opts.chromeBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: launch chrome: %w", ErrCaptureFailure, err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: connect to chrome: %w", ErrCaptureFailure, err)
	}
	defer func() { _ = browser.Close() }()

	data, err := screenshot(browser, html.String(), c.opts.scale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode screenshot: %w", ErrCaptureFailure, err)
	}
	return img, nil
}

func screenshot(browser *rod.Browser, html string, scale int) ([]byte, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             baseWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: float64(scale),
		Mobile:            false,
	}); err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return data, nil
}
