package media

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/subtitler/util"
)

const (
	DefaultMaxUploadSize = "200MB"
	DefaultSampleRate    = 16000
	DefaultChannels      = 1
	DefaultToolTimeout   = 30 * time.Minute
)

// Config configures acquisition and the external tools.
//
//	media:
//	  work_dir: /var/tmp/subtitler
//	  max_upload_size: 200MB
//	  max_processes: 4
type Config struct {
	// WorkDir holds scratch files. Defaults to $TMPDIR/subtitler.
	WorkDir       string `yaml:"work_dir" mapstructure:"work_dir"`
	MaxUploadSize string `yaml:"max_upload_size" mapstructure:"max_upload_size"`
	SampleRate    int    `yaml:"sample_rate" mapstructure:"sample_rate"`
	Channels      int    `yaml:"channels" mapstructure:"channels"`

	YtDlpBinary   string `yaml:"ytdlp_binary" mapstructure:"ytdlp_binary"`
	FFmpegBinary  string `yaml:"ffmpeg_binary" mapstructure:"ffmpeg_binary"`
	FFprobeBinary string `yaml:"ffprobe_binary" mapstructure:"ffprobe_binary"`

	// ToolTimeout bounds one tool invocation.
	ToolTimeout time.Duration `yaml:"tool_timeout" mapstructure:"tool_timeout"`
	// MaxProcesses caps concurrently running tool processes; 0 is unlimited.
	MaxProcesses int `yaml:"max_processes" mapstructure:"max_processes"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "subtitler")
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = DefaultMaxUploadSize
	}
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels <= 0 {
		c.Channels = DefaultChannels
	}
	if c.YtDlpBinary == "" {
		c.YtDlpBinary = "yt-dlp"
	}
	if c.FFmpegBinary == "" {
		c.FFmpegBinary = "ffmpeg"
	}
	if c.FFprobeBinary == "" {
		c.FFprobeBinary = "ffprobe"
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxUploadBytes() <= 0 {
		return fmt.Errorf("media: invalid max_upload_size %q", c.MaxUploadSize)
	}
	if c.MaxProcesses < 0 {
		return fmt.Errorf("media: max_processes must not be negative")
	}
	return nil
}

// MaxUploadBytes returns the parsed upload cap.
func (c *Config) MaxUploadBytes() int64 {
	return util.ParseSize(c.MaxUploadSize, 0)
}
