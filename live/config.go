package live

import (
	"fmt"
	"time"
)

const (
	DefaultLanguage      = "yue"
	DefaultMinFrameBytes = 100
	DefaultFrameExt      = ".webm"
	DefaultFrameTimeout  = 60 * time.Second
)

// Config configures live sessions.
//
//	live:
//	  default_language: yue
//	  min_frame_bytes: 100
//	  frame_timeout: 60s
type Config struct {
	// DefaultLanguage applies when the init message names none.
	DefaultLanguage string `yaml:"default_language" mapstructure:"default_language"`
	// Frames shorter than MinFrameBytes are treated as silence and dropped.
	MinFrameBytes int `yaml:"min_frame_bytes" mapstructure:"min_frame_bytes"`
	// FrameExt is the container extension frames are written with.
	FrameExt     string        `yaml:"frame_ext" mapstructure:"frame_ext"`
	FrameTimeout time.Duration `yaml:"frame_timeout" mapstructure:"frame_timeout"`
	// MaxMessageBytes caps one inbound websocket message.
	MaxMessageBytes int64 `yaml:"max_message_bytes" mapstructure:"max_message_bytes"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.MinFrameBytes <= 0 {
		c.MinFrameBytes = DefaultMinFrameBytes
	}
	if c.FrameExt == "" {
		c.FrameExt = DefaultFrameExt
	}
	if c.FrameTimeout <= 0 {
		c.FrameTimeout = DefaultFrameTimeout
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = 10 << 20
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.FrameExt != "" && c.FrameExt[0] != '.' {
		return fmt.Errorf("live.frame_ext must start with a dot (got: %s)", c.FrameExt)
	}
	return nil
}
