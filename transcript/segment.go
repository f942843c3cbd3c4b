package transcript

import (
	"errors"
	"os"
	"regexp"
	"strings"
)

// Segment is a span of speech in seconds with its text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns End-Start, never negative.
func (s Segment) Duration() float64 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Chunk is one piece of a source audio file. Offset is the chunk's start
// within the source in seconds; Index is its position in the split.
type Chunk struct {
	Path   string  `json:"path"`
	Offset float64 `json:"offset"`
	Index  int     `json:"index"`
}

// Chunks is the ordered output of a split.
type Chunks []Chunk

// Cleanup removes every chunk file except source. Missing files are not
// an error.
func (c Chunks) Cleanup(source string) error {
	var errs []error
	for _, ch := range c {
		if ch.Path == "" || ch.Path == source {
			continue
		}
		if err := os.Remove(ch.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var markerPattern = regexp.MustCompile(`<\|[^|]*\|>`)

// StripMarkers removes <|tag|> control markers and surrounding whitespace.
func StripMarkers(text string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(text, ""))
}
