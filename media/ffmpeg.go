package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/process"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/resilience"
)

// Runner runs a command; *process.Runner implements it.
type Runner interface {
	Run(ctx context.Context, cmd process.Command) (*process.Result, error)
}

// FFmpeg implements Tool with yt-dlp, ffmpeg and ffprobe.
type FFmpeg struct {
	cfg    Config
	runner Runner
	log    *logger.Logger
}

var _ Tool = (*FFmpeg)(nil)

// NewFFmpeg creates the default tool. The runner's bulkhead caps
// concurrent processes at cfg.MaxProcesses.
func NewFFmpeg(cfg Config) *FFmpeg {
	cfg.ApplyDefaults()
	var rc provider.ResilienceConfig
	if cfg.MaxProcesses > 0 {
		bh := resilience.BulkheadConfig{Name: "media", MaxConcurrent: cfg.MaxProcesses, MaxWait: cfg.ToolTimeout}
		rc.Bulkhead = &bh
	}
	runner := process.NewRunner("media", rc, cfg.FFmpegBinary, cfg.FFprobeBinary, cfg.YtDlpBinary)
	return NewFFmpegWithRunner(cfg, runner)
}

// NewFFmpegWithRunner creates a tool over a custom runner.
func NewFFmpegWithRunner(cfg Config, runner Runner) *FFmpeg {
	cfg.ApplyDefaults()
	return &FFmpeg{cfg: cfg, runner: runner, log: logger.WithComponent("media")}
}

// WorkDir returns the scratch directory, creating it if needed.
func (f *FFmpeg) WorkDir() (string, error) {
	if err := os.MkdirAll(f.cfg.WorkDir, 0o755); err != nil {
		return "", fmt.Errorf("media: create work dir: %w", err)
	}
	return f.cfg.WorkDir, nil
}

func (f *FFmpeg) scratch(prefix, ext string) (string, error) {
	dir, err := f.WorkDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, prefix+uuid.NewString()+ext), nil
}

func (f *FFmpeg) run(ctx context.Context, binary string, args ...string) (*process.Result, error) {
	return f.runner.Run(ctx, process.Command{Binary: binary, Args: args, Timeout: f.cfg.ToolTimeout})
}

// Download runs yt-dlp with audio extraction to wav.
func (f *FFmpeg) Download(ctx context.Context, url, stem string) (string, error) {
	dir, err := f.WorkDir()
	if err != nil {
		return "", errors.AcquisitionFailed(url, err)
	}
	base := filepath.Join(dir, stem)
	res, err := f.run(ctx, f.cfg.YtDlpBinary,
		"--format", "bestaudio/best",
		"--extract-audio", "--audio-format", "wav", "--audio-quality", "0",
		"--no-playlist", "--quiet", "--no-warnings",
		"--output", base+".%(ext)s",
		url,
	)
	if err != nil {
		removeMatching(base + ".*")
		return "", errors.AcquisitionFailed(url, toolError(err, res))
	}
	out := base + ".wav"
	if !exists(out) {
		removeMatching(base + ".*")
		return "", errors.AcquisitionFailed(url, fmt.Errorf("yt-dlp produced no audio file"))
	}
	return out, nil
}

// removeMatching deletes the files yt-dlp left behind for one download,
// such as the original container and its .part file.
func removeMatching(pattern string) {
	matches, _ := filepath.Glob(pattern)
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

// Transcode converts in to wav.
func (f *FFmpeg) Transcode(ctx context.Context, in string, rate, channels int) (string, error) {
	out, err := f.scratch("transcode_", ".wav")
	if err != nil {
		return "", errors.TranscodeFailed(err)
	}
	res, err := f.run(ctx, f.cfg.FFmpegBinary,
		"-y", "-i", in,
		"-ar", strconv.Itoa(rate), "-ac", strconv.Itoa(channels),
		"-f", "wav", out,
	)
	if err != nil {
		_ = os.Remove(out)
		return "", errors.TranscodeFailed(toolError(err, res))
	}
	if !exists(out) {
		return "", errors.TranscodeFailed(fmt.Errorf("ffmpeg produced no output"))
	}
	return out, nil
}

// CutWindow re-encodes one window of in to the configured wav format.
func (f *FFmpeg) CutWindow(ctx context.Context, in string, start, dur time.Duration) (string, CutResult) {
	out, err := f.scratch("chunk_", ".wav")
	if err != nil {
		f.log.Warn("cut window failed", logger.ErrorFields("cut", err))
		return "", CutFailed
	}
	res, err := f.run(ctx, f.cfg.FFmpegBinary,
		"-y", "-ss", seconds(start), "-t", seconds(dur), "-i", in,
		"-ar", strconv.Itoa(f.cfg.SampleRate), "-ac", strconv.Itoa(f.cfg.Channels),
		"-f", "wav", out,
	)
	if err != nil {
		_ = os.Remove(out)
		f.log.Warn("cut window failed", logger.Fields(
			logger.FieldPath, in, logger.FieldOffset, start.Seconds(), logger.FieldError, toolError(err, res).Error()))
		return "", CutFailed
	}
	info, err := os.Stat(out)
	if err != nil {
		return "", CutExhausted
	}
	if info.Size() < MinChunkBytes {
		_ = os.Remove(out)
		return "", CutExhausted
	}
	return out, CutOK
}

// Probe reads the container duration with ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, path string) (float64, error) {
	res, err := f.run(ctx, f.cfg.FFprobeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, toolError(err, res)
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(string(res.Stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("media: parse ffprobe duration: %w", err)
	}
	return d, nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// toolError appends the tail of stderr, where ffmpeg and yt-dlp print the
// reason for a failure.
func toolError(err error, res *process.Result) error {
	if tail := res.StderrTail(300); tail != "" {
		return fmt.Errorf("%w: %s", err, tail)
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
