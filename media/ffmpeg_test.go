package media

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/process"
)

// recordingRunner writes size bytes to the command's last argument and
// returns stdout.
type recordingRunner struct {
	size   int
	stdout string
	err    error
	cmds   []process.Command
}

func (r *recordingRunner) Run(_ context.Context, cmd process.Command) (*process.Result, error) {
	r.cmds = append(r.cmds, cmd)
	if r.err != nil {
		return &process.Result{Stderr: []byte("boom: invalid data"), ExitCode: 1}, r.err
	}
	if r.size > 0 {
		if err := os.WriteFile(cmd.Args[len(cmd.Args)-1], make([]byte, r.size), 0o644); err != nil {
			return nil, err
		}
	}
	return &process.Result{Stdout: []byte(r.stdout)}, nil
}

func (r *recordingRunner) last() process.Command { return r.cmds[len(r.cmds)-1] }

func TestCutWindowArgs(t *testing.T) {
	runner := &recordingRunner{size: 4096}
	f := NewFFmpegWithRunner(Config{WorkDir: t.TempDir()}, runner)

	out, result := f.CutWindow(context.Background(), "in.wav", 600*time.Second, 600*time.Second)
	if result != CutOK {
		t.Fatalf("expected CutOK, got %s", result)
	}
	cmd := runner.last()
	want := fmt.Sprintf("ffmpeg -y -ss 600.000 -t 600.000 -i in.wav -ar 16000 -ac 1 -f wav %s", out)
	if cmd.String() != want {
		t.Errorf("command = %q\nwant      %q", cmd.String(), want)
	}
	if cmd.Timeout != DefaultToolTimeout {
		t.Errorf("expected tool timeout, got %v", cmd.Timeout)
	}
}

func TestCutWindowResults(t *testing.T) {
	tests := []struct {
		name   string
		runner *recordingRunner
		want   CutResult
	}{
		{"ok", &recordingRunner{size: MinChunkBytes}, CutOK},
		{"tiny output", &recordingRunner{size: MinChunkBytes - 1}, CutExhausted},
		{"no output", &recordingRunner{}, CutExhausted},
		{"tool error", &recordingRunner{err: fmt.Errorf("exit status 1")}, CutFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work := t.TempDir()
			f := NewFFmpegWithRunner(Config{WorkDir: work}, tc.runner)
			out, got := f.CutWindow(context.Background(), "in.wav", 0, time.Minute)
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
			if got != CutOK {
				if out != "" {
					t.Errorf("expected no path, got %q", out)
				}
				if entries, _ := os.ReadDir(work); len(entries) != 0 {
					t.Errorf("unusable chunk left behind")
				}
			}
		})
	}
}

func TestTranscode(t *testing.T) {
	runner := &recordingRunner{size: 10}
	f := NewFFmpegWithRunner(Config{WorkDir: t.TempDir()}, runner)

	out, err := f.Transcode(context.Background(), "clip.mp4", 16000, 1)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if !strings.HasSuffix(out, ".wav") || !strings.Contains(out, "transcode_") {
		t.Errorf("unexpected output path %s", out)
	}
	if got := strings.Join(runner.last().Args[:7], " "); got != "-y -i clip.mp4 -ar 16000 -ac 1" {
		t.Errorf("args = %q", got)
	}

	runner.err = fmt.Errorf("exit status 1")
	_, err = f.Transcode(context.Background(), "clip.mp4", 16000, 1)
	if !errors.HasCode(err, errors.ErrCodeTranscodeFailed) {
		t.Fatalf("expected TRANSCODE_FAILED, got %v", err)
	}
	if appErr, _ := errors.AsAppError(err); appErr == nil || !strings.Contains(appErr.Unwrap().Error(), "invalid data") {
		t.Errorf("expected stderr tail in cause, got %v", err)
	}
}

func TestDownloadWithoutOutputFails(t *testing.T) {
	runner := &recordingRunner{}
	f := NewFFmpegWithRunner(Config{WorkDir: t.TempDir()}, runner)

	_, err := f.Download(context.Background(), "https://youtu.be/x", "stem")
	if !errors.HasCode(err, errors.ErrCodeAcquisitionFailed) {
		t.Fatalf("expected ACQUISITION_FAILED, got %v", err)
	}
	cmd := runner.last()
	if cmd.Binary != "yt-dlp" || cmd.Args[len(cmd.Args)-1] != "https://youtu.be/x" {
		t.Errorf("unexpected command %s", cmd)
	}
	if !strings.Contains(cmd.String(), "--no-playlist") || !strings.Contains(cmd.String(), "stem.%(ext)s") {
		t.Errorf("missing flags in %s", cmd)
	}
}

// partialDownloadRunner leaves yt-dlp's intermediates behind, then returns err.
type partialDownloadRunner struct{ err error }

func (r partialDownloadRunner) Run(_ context.Context, cmd process.Command) (*process.Result, error) {
	for i, a := range cmd.Args {
		if a != "--output" {
			continue
		}
		base := strings.TrimSuffix(cmd.Args[i+1], ".%(ext)s")
		for _, name := range []string{base + ".webm", base + ".webm.part"} {
			if err := os.WriteFile(name, []byte("partial"), 0o644); err != nil {
				return nil, err
			}
		}
	}
	if r.err != nil {
		return &process.Result{Stderr: []byte("ERROR: interrupted"), ExitCode: 1}, r.err
	}
	return &process.Result{}, nil
}

func TestDownloadFailureRemovesIntermediates(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"tool error", fmt.Errorf("exit status 1")},
		{"cancelled", context.Canceled},
		{"no wav produced", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			work := t.TempDir()
			f := NewFFmpegWithRunner(Config{WorkDir: work}, partialDownloadRunner{err: tc.err})

			if _, err := f.Download(context.Background(), "https://youtu.be/x", "stem"); err == nil {
				t.Fatal("expected error")
			}
			left, err := os.ReadDir(work)
			if err != nil {
				t.Fatal(err)
			}
			if len(left) != 0 {
				names := make([]string, 0, len(left))
				for _, e := range left {
					names = append(names, e.Name())
				}
				t.Errorf("work dir not cleaned: %v", names)
			}
		})
	}
}

func TestProbe(t *testing.T) {
	runner := &recordingRunner{stdout: "1234.567000\n"}
	f := NewFFmpegWithRunner(Config{WorkDir: t.TempDir()}, runner)

	d, err := f.Probe(context.Background(), "a.wav")
	if err != nil || d != 1234.567 {
		t.Fatalf("Probe() = %v, %v", d, err)
	}
	if runner.last().Binary != "ffprobe" {
		t.Errorf("expected ffprobe, got %s", runner.last().Binary)
	}

	runner.stdout = "N/A"
	if _, err := f.Probe(context.Background(), "a.wav"); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.MaxUploadBytes() != 200<<20 || cfg.SampleRate != 16000 || cfg.Channels != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	cfg.MaxProcesses = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected negative max_processes rejected")
	}
}
