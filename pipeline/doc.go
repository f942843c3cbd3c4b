// Package pipeline provides lazy, pull-based stream operators used to fan
// chunk transcription out over a bounded worker pool.
//
// Each stage pulls from the previous one on demand, so a slow stage
// throttles the ones before it without explicit flow control.
//
//   - Map: ordered, single goroutine
//   - Tap: observe values as they are pulled
//   - Parallel: Map over n workers, order not preserved
//
// Usage:
//
//	src := pipeline.FromSlice(chunks)
//	done := pipeline.Parallel(src, workers, transcribeChunk)
//	results, err := pipeline.Collect(ctx, done)
package pipeline
