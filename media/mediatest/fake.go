// Package mediatest provides a fake media.Tool for tests.
package mediatest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/subtitler/media"
)

// Fake implements media.Tool by writing small files into Dir. All
// fields are optional.
type Fake struct {
	Dir string
	// Cuts is the number of windows CutWindow produces before reporting
	// CutExhausted.
	Cuts int
	// CutFailAt makes the cut at this index report CutFailed; -1 never.
	CutFailAt int
	// Duration is returned by Probe.
	Duration     float64
	DownloadErr  error
	TranscodeErr error
	ProbeErr     error

	mu         sync.Mutex
	downloads  []string
	transcodes []string
	cuts       []time.Duration
}

// New returns a Fake writing into dir that produces cuts windows.
func New(dir string, cuts int) *Fake {
	return &Fake{Dir: dir, Cuts: cuts, CutFailAt: -1}
}

var _ media.Tool = (*Fake)(nil)

func (f *Fake) write(name string, size int) (string, error) {
	path := filepath.Join(f.Dir, name)
	return path, os.WriteFile(path, []byte(strings.Repeat("a", size)), 0o644)
}

func (f *Fake) Download(_ context.Context, url, stem string) (string, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, url)
	f.mu.Unlock()
	if f.DownloadErr != nil {
		return "", f.DownloadErr
	}
	return f.write(stem+".wav", 2*media.MinChunkBytes)
}

func (f *Fake) Transcode(_ context.Context, in string, rate, channels int) (string, error) {
	f.mu.Lock()
	f.transcodes = append(f.transcodes, in)
	n := len(f.transcodes)
	f.mu.Unlock()
	if _, err := os.Stat(in); err != nil {
		return "", fmt.Errorf("fake transcode: %w", err)
	}
	if f.TranscodeErr != nil {
		return "", f.TranscodeErr
	}
	return f.write(fmt.Sprintf("transcoded_%d_%dhz_%dch.wav", n, rate, channels), 2*media.MinChunkBytes)
}

func (f *Fake) CutWindow(_ context.Context, _ string, start, _ time.Duration) (string, media.CutResult) {
	f.mu.Lock()
	idx := len(f.cuts)
	f.cuts = append(f.cuts, start)
	f.mu.Unlock()
	switch {
	case idx == f.CutFailAt:
		return "", media.CutFailed
	case idx >= f.Cuts:
		return "", media.CutExhausted
	}
	path, err := f.write(fmt.Sprintf("chunk_%03d.wav", idx), media.MinChunkBytes)
	if err != nil {
		return "", media.CutFailed
	}
	return path, media.CutOK
}

func (f *Fake) Probe(context.Context, string) (float64, error) {
	return f.Duration, f.ProbeErr
}

// Downloads returns the URLs passed to Download.
func (f *Fake) Downloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.downloads...)
}

// Transcodes returns the inputs passed to Transcode.
func (f *Fake) Transcodes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.transcodes...)
}

// CutOffsets returns the start of every CutWindow call.
func (f *Fake) CutOffsets() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.cuts...)
}
