package subtitle

import (
	"fmt"
	"math"
	"strings"

	"github.com/kbukum/subtitler/transcript"
)

// RenderMinutes renders t as plain text. Without timestamps it is the
// joined transcript text. With timestamps the text is split into
// sentences at . ! ? and their full-width forms, one line each:
//
//	[MM:SS] sentence
//
// A sentence is stamped with the start of the segment it begins in.
func RenderMinutes(t transcript.Transcript, withTimestamps bool) string {
	if t.IsEmpty() {
		return ""
	}
	if !withTimestamps {
		return t.Text()
	}

	var b strings.Builder
	var (
		parts   []string
		stamp   float64
		started bool
	)
	emit := func() {
		if text := strings.TrimSpace(transcript.Join(parts)); text != "" {
			fmt.Fprintf(&b, "[%s] %s\n", formatMinutes(stamp), text)
		}
		parts, started = nil, false
	}

	for _, seg := range t.Segments() {
		for _, sentence := range splitSentences(seg.Text) {
			if !started {
				stamp, started = seg.Start, true
			}
			parts = append(parts, sentence)
			if transcript.EndsSentence(sentence) {
				emit()
			}
		}
	}
	emit()
	return b.String()
}

// splitSentences cuts text after every sentence terminator. The last
// piece may be an unterminated fragment.
func splitSentences(text string) []string {
	var out []string
	start := 0
	runes := []rune(text)
	for i, r := range runes {
		if !transcript.IsSentenceEnd(r) {
			continue
		}
		// keep runs like "?!" or "..." together
		if i+1 < len(runes) && transcript.IsSentenceEnd(runes[i+1]) {
			continue
		}
		if piece := strings.TrimSpace(string(runes[start : i+1])); piece != "" {
			out = append(out, piece)
		}
		start = i + 1
	}
	if piece := strings.TrimSpace(string(runes[start:])); piece != "" {
		out = append(out, piece)
	}
	return out
}

// formatMinutes formats seconds as MM:SS; minutes grow past 59 for long
// recordings.
func formatMinutes(seconds float64) string {
	total := int64(math.Floor(max(seconds, 0)))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
