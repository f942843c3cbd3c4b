package transcriber

import (
	"fmt"
	"time"

	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/util"
)

const (
	DefaultLanguage          = "yue"
	DefaultMaxChunkSize      = "25MB"
	DefaultMaxConcurrentRuns = 4
	DefaultPreviewChars      = 1000
)

// Config configures the pipeline.
//
//	pipeline:
//	  max_chunk_size: 25MB
//	  chunk_window: 600s
//	  workers: 1
//	  max_concurrent_runs: 4
type Config struct {
	// MaxChunkSize is the largest file sent to a backend in one call.
	MaxChunkSize string        `yaml:"max_chunk_size" mapstructure:"max_chunk_size"`
	ChunkWindow  time.Duration `yaml:"chunk_window" mapstructure:"chunk_window"`
	// Workers > 1 transcribes chunks of one run concurrently.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// MaxConcurrentRuns bounds whole runs across requests.
	MaxConcurrentRuns int `yaml:"max_concurrent_runs" mapstructure:"max_concurrent_runs"`
	// QueueWait is how long a run waits for a free slot. 0 fails at once.
	QueueWait       time.Duration `yaml:"queue_wait" mapstructure:"queue_wait"`
	DefaultLanguage string        `yaml:"default_language" mapstructure:"default_language"`
	PreviewChars    int           `yaml:"preview_chars" mapstructure:"preview_chars"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.MaxChunkSize == "" {
		c.MaxChunkSize = DefaultMaxChunkSize
	}
	if c.ChunkWindow <= 0 {
		c.ChunkWindow = media.DefaultChunkWindow
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxConcurrentRuns <= 0 {
		c.MaxConcurrentRuns = DefaultMaxConcurrentRuns
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.PreviewChars <= 0 {
		c.PreviewChars = DefaultPreviewChars
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxChunkBytes() <= media.MinChunkBytes {
		return fmt.Errorf("pipeline.max_chunk_size is too small or invalid (got: %q)", c.MaxChunkSize)
	}
	if c.ChunkWindow < time.Second {
		return fmt.Errorf("pipeline.chunk_window must be at least 1s (got: %s)", c.ChunkWindow)
	}
	return nil
}

// MaxChunkBytes returns MaxChunkSize in bytes.
func (c *Config) MaxChunkBytes() int64 {
	return util.ParseSize(c.MaxChunkSize, 0)
}
