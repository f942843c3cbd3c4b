package process

import (
	"bytes"
	"strings"
	"time"
	"unicode"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured standard output.
	Stdout []byte
	// Stderr is the captured standard error.
	Stderr []byte
	// ExitCode is the process exit code. -1 if the process was killed.
	ExitCode int
	// Duration is how long the process ran.
	Duration time.Duration
}

// StderrTail returns at most the last n bytes of stderr, not counting
// trailing whitespace. ffmpeg and yt-dlp print the useful part of a
// failure at the end.
func (r *Result) StderrTail(n int) string {
	if r == nil {
		return ""
	}
	s := bytes.TrimRightFunc(r.Stderr, unicode.IsSpace)
	if n > 0 && len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.TrimSpace(string(s))
}
