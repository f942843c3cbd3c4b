package transcription

import "github.com/kbukum/subtitler/transcript"

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is a 16 kHz mono wav on local disk.
	AudioPath string `json:"audio_path"`
	// Language is a hint such as "yue", "en" or "auto".
	Language string `json:"language,omitempty"`
	// WantSegments asks for timed segments. Live frames only need Text.
	WantSegments bool `json:"want_segments"`
	// Duration is the probed audio length in seconds, 0 when unknown.
	// Backends without timing use it to estimate spans.
	Duration float64 `json:"duration,omitempty"`
}

// Response holds the result of a transcription call. Segment timestamps
// are relative to the start of the submitted audio.
type Response struct {
	Text     string               `json:"text"`
	Segments []transcript.Segment `json:"segments,omitempty"`
	Duration float64              `json:"duration,omitempty"`
	Language string               `json:"language,omitempty"`
	// Estimated is set when some spans were derived from Duration rather
	// than reported by the backend.
	Estimated bool `json:"estimated,omitempty"`
}

// SingleSegment returns a response whose text spans the whole clip.
func SingleSegment(text string, duration float64) []transcript.Segment {
	if text == "" {
		return nil
	}
	return []transcript.Segment{{Start: 0, End: max(duration, 0), Text: text}}
}
