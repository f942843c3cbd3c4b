package transcript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Transcript is an ordered list of segments with absolute timestamps.
// The zero value is an empty transcript.
type Transcript struct {
	segments []Segment
}

// New wraps segs without reordering them. The slice is copied.
func New(segs []Segment) Transcript {
	if len(segs) == 0 {
		return Transcript{}
	}
	return Transcript{segments: append([]Segment(nil), segs...)}
}

// Segments returns a copy of the segments.
func (t Transcript) Segments() []Segment {
	return append([]Segment(nil), t.segments...)
}

func (t Transcript) Len() int { return len(t.segments) }

func (t Transcript) IsEmpty() bool { return len(t.segments) == 0 }

// Duration returns the largest segment end.
func (t Transcript) Duration() float64 {
	var d float64
	for _, s := range t.segments {
		if s.End > d {
			d = s.End
		}
	}
	return d
}

// MapText returns a transcript with fn applied to every segment's text.
// Segments whose text becomes blank are dropped.
func (t Transcript) MapText(fn func(string) string) Transcript {
	out := make([]Segment, 0, len(t.segments))
	for _, s := range t.segments {
		s.Text = strings.TrimSpace(fn(s.Text))
		if s.Text == "" {
			continue
		}
		out = append(out, s)
	}
	return Transcript{segments: out}
}

// Text joins the segment texts with Join.
func (t Transcript) Text() string {
	parts := make([]string, len(t.segments))
	for i, s := range t.segments {
		parts[i] = s.Text
	}
	return Join(parts)
}

// Join concatenates parts. A space separates two parts unless either side
// of the boundary is a CJK character or full-width punctuation.
func Join(parts []string) string {
	var b strings.Builder
	last := rune(-1)
	for _, p := range parts {
		if p == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(p)
		if last >= 0 && !isWide(last) && !isWide(first) {
			b.WriteByte(' ')
		}
		b.WriteString(p)
		last, _ = utf8.DecodeLastRuneInString(p)
	}
	return b.String()
}

// EndsSentence reports whether s ends with . ! ? or their full-width forms.
func EndsSentence(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(strings.TrimSpace(s))
	return IsSentenceEnd(r)
}

// IsSentenceEnd reports whether r terminates a sentence.
func IsSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func isWide(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303F) || (r >= 0xFF00 && r <= 0xFFEF)
}
