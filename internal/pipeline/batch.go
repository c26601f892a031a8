package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchProcessor exports several independent jobs concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on a single export
// 2. Each job gets a fresh pipeline, so no step state is shared
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each job.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent jobs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job and returns them in input order.
//
// A failing job does not stop the others; its error is recorded in Job.Err.
// The returned error is only non-nil when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []*Job) ([]*Job, error) {
	return jobs, bp.ProcessBatchWithCallback(ctx, jobs, nil)
}

// ProcessBatchWithCallback runs every job and calls callback as each one
// finishes. The callback is called from the job's goroutine and must be safe
// for concurrent use. A nil callback is allowed.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, jobs []*Job, callback func(job *Job, index int)) error {
	bp.logger.Info("starting batch export",
		"total_jobs", len(jobs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			select {
			case <-gctx.Done():
				job.Err = gctx.Err()
				return gctx.Err()
			default:
			}

			if err := bp.pipelineFactory().Execute(gctx, job); err != nil {
				bp.logger.Warn("export failed",
					"job", job.Name,
					"error", err,
				)
			}

			if callback != nil {
				callback(job, i)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	bp.logger.Info("batch export complete",
		"total_jobs", len(jobs),
		"elapsed", time.Since(startTime),
	)
	return err
}
