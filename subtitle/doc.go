// Package subtitle renders transcripts as SubRip (.srt) files and as
// plain-text meeting minutes, and parses SubRip back into segments.
//
// Rendering is deterministic: the same transcript always produces the
// same bytes.
package subtitle
