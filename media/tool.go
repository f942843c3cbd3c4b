package media

import (
	"context"
	"time"
)

// CutResult is the outcome of cutting one window out of a file.
type CutResult int

const (
	// CutOK means the window produced a usable chunk file.
	CutOK CutResult = iota
	// CutExhausted means the window starts at or past the end of the
	// input: no file, or a file below MinChunkBytes.
	CutExhausted
	// CutFailed means the cutter itself failed.
	CutFailed
)

func (r CutResult) String() string {
	switch r {
	case CutOK:
		return "ok"
	case CutExhausted:
		return "exhausted"
	case CutFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MinChunkBytes is the smallest cut considered to hold audio. A wav
// header alone is 44 bytes.
const MinChunkBytes = 1024

// Tool performs the external audio operations. Every method that returns
// a path hands ownership of that file to the caller.
type Tool interface {
	// Download fetches the best audio stream of url as <stem>.wav in the
	// work directory.
	Download(ctx context.Context, url, stem string) (string, error)
	// Transcode converts in to a wav with the given sample rate and
	// channel count.
	Transcode(ctx context.Context, in string, rate, channels int) (string, error)
	// CutWindow re-encodes [start, start+dur) of in. The path is empty
	// unless the result is CutOK.
	CutWindow(ctx context.Context, in string, start, dur time.Duration) (string, CutResult)
	// Probe returns the duration of path in seconds.
	Probe(ctx context.Context, path string) (float64, error)
}
