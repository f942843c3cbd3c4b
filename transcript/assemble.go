package transcript

import "sort"

// DefaultSegmentSpan is the span given to each segment when the audio
// duration is unknown.
const DefaultSegmentSpan = 5.0

// Assemble merges per-chunk segments into one transcript. perChunk[i]
// belongs to chunks[i]; pairs are ordered by Chunk.Index, so results may
// arrive in any order. Extra entries on either side are ignored.
//
// Each segment is shifted by its chunk's offset, segments that are blank
// after StripMarkers are dropped, End is clamped to at least Start, and
// the result is stably sorted by Start.
func Assemble(chunks []Chunk, perChunk [][]Segment) Transcript {
	n := min(len(chunks), len(perChunk))
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return chunks[order[a]].Index < chunks[order[b]].Index
	})

	var out []Segment
	for _, i := range order {
		offset := chunks[i].Offset
		for _, s := range perChunk[i] {
			text := StripMarkers(s.Text)
			if text == "" {
				continue
			}
			start := max(s.Start+offset, 0)
			end := max(s.End+offset, start)
			out = append(out, Segment{Start: start, End: end, Text: text})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Start < out[b].Start })
	return Transcript{segments: out}
}

// SpanAt returns the estimated span of segment i out of n when total
// seconds are divided evenly. A non-positive total gives
// DefaultSegmentSpan per segment.
func SpanAt(i, n int, total float64) (start, end float64) {
	step := DefaultSegmentSpan
	if total > 0 && n > 0 {
		step = total / float64(n)
	}
	return float64(i) * step, float64(i+1) * step
}

// EstimateSpans returns a copy of segs with spans assigned by SpanAt.
// This is an approximation for backends that return no timing.
func EstimateSpans(segs []Segment, total float64) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		s.Start, s.End = SpanAt(i, len(segs), total)
		out[i] = s
	}
	return out
}
