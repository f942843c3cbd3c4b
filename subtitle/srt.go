package subtitle

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/subtitler/transcript"
)

// RenderSRT renders t as SubRip. Each cue is
//
//	<k>
//	HH:MM:SS,mmm --> HH:MM:SS,mmm
//	<text>
//	<blank line>
//
// with k counting from 1. An empty transcript renders as "".
func RenderSRT(t transcript.Transcript) string {
	var b strings.Builder
	for i, s := range t.Segments() {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Text)
	}
	return b.String()
}

// FormatTimestamp formats seconds as HH:MM:SS,mmm, rounded to the
// nearest millisecond. Negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	ms := int64(math.Round(max(seconds, 0) * 1000))
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

var timingLine = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d+):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT parses SubRip text into segments. Cue numbers are not
// checked; multi-line cue text is joined with "\n".
func ParseSRT(src string) ([]transcript.Segment, error) {
	var (
		segs    []transcript.Segment
		current *transcript.Segment
		lines   []string
		lineNo  int
	)
	flush := func() {
		if current != nil {
			current.Text = strings.Join(lines, "\n")
			segs = append(segs, *current)
		}
		current, lines = nil, nil
	}

	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(src, "\ufeff")))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case current == nil:
			if m := timingLine.FindStringSubmatch(line); m != nil {
				current = &transcript.Segment{Start: clock(m[1:5]), End: clock(m[5:9])}
				continue
			}
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err != nil {
				return nil, fmt.Errorf("subtitle: line %d: expected cue number or timing, got %q", lineNo, line)
			}
		default:
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("subtitle: read srt: %w", err)
	}
	flush()
	return segs, nil
}

func clock(parts []string) float64 {
	var v [4]int
	for i, p := range parts {
		v[i], _ = strconv.Atoi(p)
	}
	ms := ((v[0]*60+v[1])*60+v[2])*1000 + v[3]
	return float64(ms) / 1000
}
