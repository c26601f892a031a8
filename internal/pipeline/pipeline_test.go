package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/selfcheck/internal/document"
	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/paginate"
	"github.com/nao1215/selfcheck/internal/render"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name   string
	doFunc func(ctx context.Context, job *Job) error
}

func (m *mockStep) Do(ctx context.Context, job *Job) error {
	if m.doFunc != nil {
		return m.doFunc(ctx, job)
	}
	return nil
}

func (m *mockStep) Name() string { return m.name }

// fakeCapturer returns a fixed image, optionally after blocking on release.
type fakeCapturer struct {
	img     image.Image
	err     error
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeCapturer) Capture(ctx context.Context, _ *model.AssessmentReport) (image.Image, error) {
	f.calls.Add(1)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.img, nil
}

// fakeWriter records written documents.
type fakeWriter struct {
	mu    sync.Mutex
	err   error
	paths []string
	pages []int
}

func (f *fakeWriter) Write(_ context.Context, path string, doc document.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.paths = append(f.paths, path)
	f.pages = append(f.pages, len(doc.Placements))
	return nil
}

var (
	_ render.Capturer = (*fakeCapturer)(nil)
	_ document.Writer = (*fakeWriter)(nil)
)

// twoPageImage paginates to two A4 pages.
func twoPageImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 800, 1200))
}

// TestPipelineExecute tests step ordering and failure handling.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		step := func(name string) Step {
			return &mockStep{name: name, doFunc: func(context.Context, *Job) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New([]Step{step("first"), step("second")}, WithLogger(discardLogger()))
		p.AddStep(step("third"))
		job := NewJob("job", "out.pdf", paginate.A4)

		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"first", "second", "third"}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want, job.CompletedSteps); diff != "" {
			t.Errorf("completed steps mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(want, p.StepNames()); diff != "" {
			t.Errorf("step names mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("logs step names when the run starts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		p := New([]Step{&mockStep{name: "first"}, &mockStep{name: "second"}}, WithLogger(logger))
		job := NewJob("job", "out.pdf", paginate.A4)

		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := buf.String()
		if !strings.Contains(got, "pipeline started") || !strings.Contains(got, "[first second]") {
			t.Errorf("expected start log with step names, got:\n%s", got)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		called := false
		p := New([]Step{
			&mockStep{name: "fail", doFunc: func(context.Context, *Job) error { return boom }},
			&mockStep{name: "after", doFunc: func(context.Context, *Job) error { called = true; return nil }},
		}, WithLogger(discardLogger()))
		job := NewJob("job", "out.pdf", paginate.A4)

		err := p.Execute(context.Background(), job)
		if !errors.Is(err, boom) || !errors.Is(job.Err, boom) || !job.Failed() {
			t.Errorf("expected boom recorded, got err=%v job.Err=%v", err, job.Err)
		}
		if called {
			t.Error("step after the failure must not run")
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := New([]Step{&mockStep{name: "never"}}, WithLogger(discardLogger()))
		job := NewJob("job", "out.pdf", paginate.A4)

		if err := p.Execute(ctx, job); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(job.CompletedSteps) != 0 {
			t.Errorf("no step should complete, got %v", job.CompletedSteps)
		}
	})

	t.Run("timeout bounds a blocking step", func(t *testing.T) {
		t.Parallel()

		p := New([]Step{&mockStep{name: "slow", doFunc: func(ctx context.Context, _ *Job) error {
			<-ctx.Done()
			return ctx.Err()
		}}}, WithLogger(discardLogger()), WithTimeout(10*time.Millisecond))
		job := NewJob("job", "out.pdf", paginate.A4)

		if err := p.Execute(context.Background(), job); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})
}

// TestSteps tests the individual export steps.
func TestSteps(t *testing.T) {
	t.Parallel()

	t.Run("paginate before capture is rejected", func(t *testing.T) {
		t.Parallel()

		job := NewJob("job", "out.pdf", paginate.A4)
		if err := NewPaginateStep().Do(context.Background(), job); !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("capture without report is rejected", func(t *testing.T) {
		t.Parallel()

		job := NewJob("job", "out.pdf", paginate.A4)
		step := NewCaptureStep(&fakeCapturer{img: twoPageImage()})
		if err := step.Do(context.Background(), job); !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("write without placements is rejected", func(t *testing.T) {
		t.Parallel()

		job := NewJob("job", "out.pdf", paginate.A4)
		job.Image = twoPageImage()
		if err := NewWriteStep(&fakeWriter{}).Do(context.Background(), job); !errors.Is(err, ErrMissingInput) {
			t.Errorf("expected ErrMissingInput, got %v", err)
		}
	})

	t.Run("report step keeps an existing report", func(t *testing.T) {
		t.Parallel()

		existing := &model.AssessmentReport{Title: "kept"}
		job := NewJob("job", "out.pdf", paginate.A4)
		job.Report = existing
		step := NewReportStep(func(context.Context, string) (*model.AssessmentReport, error) {
			return nil, errors.New("should not be called")
		})
		if err := step.Do(context.Background(), job); err != nil || job.Report != existing {
			t.Errorf("unexpected result: err=%v report=%v", err, job.Report)
		}
	})

	t.Run("full chain", func(t *testing.T) {
		t.Parallel()

		w := &fakeWriter{}
		p := New([]Step{
			NewReportStep(func(_ context.Context, name string) (*model.AssessmentReport, error) {
				return &model.AssessmentReport{Title: name}, nil
			}),
			NewCaptureStep(&fakeCapturer{img: twoPageImage()}),
			NewPaginateStep(),
			NewWriteStep(w),
		}, WithLogger(discardLogger()))

		job := NewJob("answers.yaml", "out.pdf", paginate.A4)
		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.PageCount() != 2 || job.Report.Title != "answers.yaml" {
			t.Errorf("unexpected job %+v", job)
		}
		if diff := cmp.Diff([]int{2}, w.pages); diff != "" {
			t.Errorf("written pages mismatch (-want +got):\n%s", diff)
		}
	})
}

// TestExporter tests the single-flight export.
func TestNewExportPipeline(t *testing.T) {
	t.Parallel()

	source := func(context.Context, string) (*model.AssessmentReport, error) {
		return &model.AssessmentReport{}, nil
	}

	testCases := []struct {
		name   string
		source ReportSource
		want   []string
	}{
		{"without source", nil, []string{"capture", "paginate", "write"}},
		{"with source", source, []string{"report", "capture", "paginate", "write"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := NewExportPipeline(tc.source, &fakeCapturer{img: twoPageImage()}, &fakeWriter{}, WithLogger(discardLogger()))
			if diff := cmp.Diff(tc.want, p.StepNames()); diff != "" {
				t.Errorf("step names mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("runs a named job end to end", func(t *testing.T) {
		t.Parallel()

		w := &fakeWriter{}
		p := NewExportPipeline(source, &fakeCapturer{img: twoPageImage()}, w, WithLogger(discardLogger()))
		job := NewJob("answers.yaml", "answers.pdf", paginate.A4)

		if err := p.Execute(context.Background(), job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.PageCount() != 2 {
			t.Errorf("pages = %d, want 2", job.PageCount())
		}
		if diff := cmp.Diff([]string{"answers.pdf"}, w.paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExporter(t *testing.T) {
	t.Parallel()

	t.Run("exports a report", func(t *testing.T) {
		t.Parallel()

		w := &fakeWriter{}
		e := NewExporter(&fakeCapturer{img: twoPageImage()}, w, WithExporterLogger(discardLogger()))

		job, err := e.Export(context.Background(), &model.AssessmentReport{}, "r.pdf")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.PageCount() != 2 {
			t.Errorf("pages = %d, want 2", job.PageCount())
		}
		if diff := cmp.Diff([]string{"r.pdf"}, w.paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
		if e.InProgress() {
			t.Error("exporter should be idle after Export returns")
		}
	})

	t.Run("rejects a second export while one is running", func(t *testing.T) {
		t.Parallel()

		capturer := &fakeCapturer{
			img:     twoPageImage(),
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		w := &fakeWriter{}
		e := NewExporter(capturer, w, WithExporterLogger(discardLogger()))

		done := make(chan error, 1)
		go func() {
			_, err := e.Export(context.Background(), &model.AssessmentReport{}, "first.pdf")
			done <- err
		}()

		<-capturer.started
		if !e.InProgress() {
			t.Error("expected InProgress while capturing")
		}
		if _, err := e.Export(context.Background(), &model.AssessmentReport{}, "second.pdf"); !errors.Is(err, ErrExportInProgress) {
			t.Errorf("expected ErrExportInProgress, got %v", err)
		}

		close(capturer.release)
		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("first export failed: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("first export did not finish")
		}

		if capturer.calls.Load() != 1 {
			t.Errorf("capture called %d times, want 1", capturer.calls.Load())
		}
		if diff := cmp.Diff([]string{"first.pdf"}, w.paths); diff != "" {
			t.Errorf("paths mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("capture failure is a retryable export failure", func(t *testing.T) {
		t.Parallel()

		w := &fakeWriter{}
		e := NewExporter(&fakeCapturer{err: render.ErrCaptureFailure}, w, WithExporterLogger(discardLogger()))

		job, err := e.Export(context.Background(), &model.AssessmentReport{}, "r.pdf")
		if !errors.Is(err, ErrExportFailed) || !errors.Is(err, render.ErrCaptureFailure) {
			t.Errorf("expected ErrExportFailed wrapping ErrCaptureFailure, got %v", err)
		}
		if job.PageCount() != 0 || len(w.paths) != 0 {
			t.Error("nothing should be paginated or written after a capture failure")
		}

		if _, err := e.Export(context.Background(), &model.AssessmentReport{}, "r.pdf"); errors.Is(err, ErrExportInProgress) {
			t.Error("a failed export must release the guard")
		}
	})

	t.Run("encoding failure", func(t *testing.T) {
		t.Parallel()

		w := &fakeWriter{err: document.ErrEncodingFailure}
		e := NewExporter(&fakeCapturer{img: twoPageImage()}, w,
			WithExporterLogger(discardLogger()), WithPageSize(paginate.Letter))

		_, err := e.Export(context.Background(), &model.AssessmentReport{}, "r.pdf")
		if !errors.Is(err, ErrExportFailed) || !errors.Is(err, document.ErrEncodingFailure) {
			t.Errorf("expected ErrExportFailed wrapping ErrEncodingFailure, got %v", err)
		}
	})
}
