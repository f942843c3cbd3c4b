package transcription

import (
	"fmt"
	"strconv"
	"time"
)

// Settings reads typed values out of a backend's config map. Values may
// arrive as YAML scalars or as strings from environment overrides.
type Settings map[string]any

// String returns the value for key, or def when it is absent or empty.
func (s Settings) String(key, def string) string {
	if v, ok := s[key]; ok && v != nil {
		if str := fmt.Sprint(v); str != "" {
			return str
		}
	}
	return def
}

// Duration accepts time.Duration values, Go duration strings, or a bare
// number of seconds.
func (s Settings) Duration(key string, def time.Duration) time.Duration {
	switch v := s[key].(type) {
	case time.Duration:
		if v > 0 {
			return v
		}
	case int:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case float64:
		if v > 0 {
			return time.Duration(v * float64(time.Second))
		}
	case string:
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 {
			return time.Duration(n * float64(time.Second))
		}
	}
	return def
}

// Bool accepts booleans or strconv.ParseBool strings.
func (s Settings) Bool(key string, def bool) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
