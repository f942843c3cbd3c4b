package main

import (
	"fmt"

	"github.com/kbukum/subtitler/config"
	"github.com/kbukum/subtitler/live"
	"github.com/kbukum/subtitler/llm"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/script"
	"github.com/kbukum/subtitler/server"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/summarize"
	"github.com/kbukum/subtitler/transcriber"
	"github.com/kbukum/subtitler/transcription"
)

// Config is the subtitler binary configuration, loaded from config.yml
// with environment overrides.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Media         media.Config         `yaml:"media" mapstructure:"media"`
	Pipeline      transcriber.Config   `yaml:"pipeline" mapstructure:"pipeline"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Script        script.Config        `yaml:"script" mapstructure:"script"`
	Live          live.Config          `yaml:"live" mapstructure:"live"`
	Summarize     summarize.Config     `yaml:"summarize" mapstructure:"summarize"`
	// LLM is optional; without a dialect /api/summarize answers 503.
	LLM       llm.Config           `yaml:"llm" mapstructure:"llm"`
	Output    storage.Config       `yaml:"output" mapstructure:"output"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Media.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Script.ApplyDefaults()
	c.Live.ApplyDefaults()
	c.Summarize.ApplyDefaults()
	if c.LLMEnabled() {
		c.LLM.ApplyDefaults()
	}
	c.Output.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	checks := []struct {
		section string
		fn      func() error
	}{
		{"server", c.Server.Validate},
		{"media", c.Media.Validate},
		{"pipeline", c.Pipeline.Validate},
		{"transcription", c.Transcription.Validate},
		{"live", c.Live.Validate},
		{"output", c.Output.Validate},
		{"telemetry", c.Telemetry.Validate},
	}
	if c.LLMEnabled() {
		checks = append(checks, struct {
			section string
			fn      func() error
		}{"llm", c.LLM.Validate})
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("%s: %w", check.section, err)
		}
	}
	return nil
}

// LLMEnabled reports whether a summarization model is configured.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Dialect != ""
}
