// Package script converts recognized text into the written script a
// language is expected in. Cantonese recognizers emit simplified Chinese;
// Cantonese subtitles are written in traditional characters.
package script

import (
	"fmt"
	"strings"
	"sync"

	"github.com/longbridgeapp/opencc"
)

// DefaultTraditional lists the language hints converted to traditional
// script when no list is configured.
var DefaultTraditional = []string{"yue"}

// Config lists the language hints that get simplified-to-traditional
// conversion.
type Config struct {
	Traditional []string `yaml:"traditional" mapstructure:"traditional"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if len(c.Traditional) == 0 {
		c.Traditional = DefaultTraditional
	}
}

// converter is the subset of *opencc.OpenCC the normalizer uses.
type converter interface {
	Convert(in string) (string, error)
}

// Normalizer applies per-language script conversion. It is safe for
// concurrent use; build one at start-up and share it.
type Normalizer struct {
	mu          sync.Mutex
	s2t         converter
	traditional map[string]bool
}

// New loads the OpenCC s2t dictionaries.
func New(cfg Config) (*Normalizer, error) {
	cfg.ApplyDefaults()
	cc, err := opencc.New("s2t")
	if err != nil {
		return nil, fmt.Errorf("script: load opencc s2t: %w", err)
	}
	return newWithConverter(cc, cfg.Traditional), nil
}

func newWithConverter(c converter, langs []string) *Normalizer {
	n := &Normalizer{s2t: c, traditional: make(map[string]bool, len(langs))}
	for _, l := range langs {
		n.traditional[strings.ToLower(l)] = true
	}
	return n
}

// Normalize returns text in the script expected for lang. Languages not
// configured for conversion pass through unchanged, as does text the
// converter fails on. Converting already-traditional text is a no-op.
func (n *Normalizer) Normalize(text, lang string) string {
	if text == "" || !n.traditional[strings.ToLower(lang)] {
		return text
	}
	n.mu.Lock()
	out, err := n.s2t.Convert(text)
	n.mu.Unlock()
	if err != nil {
		return text
	}
	return out
}

// For returns a function normalizing text for a fixed language, suited
// to transcript.Transcript.MapText.
func (n *Normalizer) For(lang string) func(string) string {
	return func(text string) string { return n.Normalize(text, lang) }
}
