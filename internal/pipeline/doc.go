// Package pipeline executes report exports as a sequence of steps.
//
// An export goes through the stages: build the report (for batch runs from
// an answer script), capture it as an image, compute the page placements and
// write the document. Each stage is a Step that receives the Job and fills
// in its part of it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. The ordering constraint (no pagination before capture has finished)
// lives in one place
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between stages
//
// Exporter wraps a single pipeline run with an in-flight guard for the
// interactive UI; BatchProcessor runs independent jobs concurrently with
// errgroup.
package pipeline
