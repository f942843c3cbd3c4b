// Package transcript holds the canonical segment type and the assembly
// step that turns per-chunk backend output into one ordered transcript.
//
// Backends return segments relative to the chunk they transcribed.
// Assemble shifts them by the chunk offset, drops segments that carry
// only control markers, and sorts the result by start time.
package transcript
