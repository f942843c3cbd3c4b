package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/media/mediatest"
	"github.com/kbukum/subtitler/script"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/storage/local"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

// stubProvider answers by chunk file name; unknown names get an empty
// response.
type stubProvider struct {
	name    string
	byFile  map[string]*transcription.Response
	err     error
	block   chan struct{}
	started chan struct{}

	mu   sync.Mutex
	reqs []transcription.Request
}

func (p *stubProvider) Name() string                     { return p.name }
func (p *stubProvider) IsAvailable(context.Context) bool { return true }

func (p *stubProvider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	p.mu.Lock()
	p.reqs = append(p.reqs, req)
	p.mu.Unlock()
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if resp, ok := p.byFile[filepath.Base(req.AudioPath)]; ok {
		return resp, nil
	}
	return &transcription.Response{}, nil
}

func (p *stubProvider) calls() []transcription.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]transcription.Request(nil), p.reqs...)
}

type fixture struct {
	fake    *mediatest.Fake
	work    string
	outDir  string
	output  *storage.Output
	subs    *stubProvider
	minutes *stubProvider
}

func newFixture(t *testing.T, cuts int) *fixture {
	t.Helper()
	f := &fixture{
		fake:    mediatest.New(t.TempDir(), cuts),
		work:    t.TempDir(),
		outDir:  t.TempDir(),
		subs:    &stubProvider{name: "subs", byFile: map[string]*transcription.Response{}},
		minutes: &stubProvider{name: "minutes", byFile: map[string]*transcription.Response{}},
	}
	store, err := local.NewStorage(f.outDir)
	if err != nil {
		t.Fatal(err)
	}
	f.output = storage.NewOutput(store)
	return f
}

func (f *fixture) transcriber(t *testing.T, cfg Config) *Transcriber {
	t.Helper()
	n, err := script.New(script.Config{})
	if err != nil {
		t.Fatalf("script.New: %v", err)
	}
	return New(cfg, Deps{
		Acquirer:   media.NewAcquirer(f.fake, media.Config{WorkDir: f.work}),
		Splitter:   media.NewChunker(f.fake),
		Prober:     f.fake,
		Subtitles:  f.subs,
		Minutes:    f.minutes,
		Normalizer: n,
		Output:     f.output,
	})
}

// assertClean fails when any scratch file survived the run.
func (f *fixture) assertClean(t *testing.T) {
	t.Helper()
	for _, dir := range []string{f.fake.Dir, f.work} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			t.Errorf("scratch file left behind: %s", filepath.Join(dir, e.Name()))
		}
	}
}

func upload() media.Source {
	return media.Source{Kind: media.SourceUpload, Data: []byte("RIFF....WAVE"), Ext: ".wav"}
}

func TestRunSingleChunk(t *testing.T) {
	f := newFixture(t, 0)
	f.subs.byFile["transcoded_1_16000hz_1ch.wav"] = &transcription.Response{Segments: []transcript.Segment{
		{Start: 0, End: 1.5, Text: "<|en|>Hello"},
		{Start: 1.5, End: 3, Text: "  "},
		{Start: 3, End: 4.25, Text: "world"},
	}}
	tr := f.transcriber(t, Config{})

	res, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello\n\n2\n00:00:03,000 --> 00:00:04,250\nworld\n\n"
	if res.Content != want {
		t.Errorf("content = %q\nwant      %q", res.Content, want)
	}
	if res.Chunks != 1 || res.Language != "en" || !strings.HasSuffix(res.Filename, ".srt") {
		t.Errorf("unexpected result %+v", res)
	}
	if calls := f.subs.calls(); len(calls) != 1 || !calls[0].WantSegments {
		t.Errorf("expected one segment-mode call, got %+v", calls)
	}
	saved, ct, err := f.output.Load(context.Background(), res.Filename)
	if err != nil || string(saved) != want || ct != "application/x-subrip" {
		t.Errorf("Load() = %q, %q, %v", saved, ct, err)
	}
	if len(f.fake.CutOffsets()) != 0 {
		t.Error("small audio must not be cut")
	}
	f.assertClean(t)
}

func chunkedFixture(t *testing.T) *fixture {
	f := newFixture(t, 3)
	for i, text := range []string{"first", "second", "third"} {
		f.subs.byFile[fmt.Sprintf("chunk_%03d.wav", i)] = &transcription.Response{Segments: []transcript.Segment{
			{Start: 1, End: 2, Text: text},
			{Start: 0.5, End: 0.25, Text: text + " early"},
		}}
	}
	return f
}

const chunkedSRT = "1\n00:00:00,500 --> 00:00:00,500\nfirst early\n\n" +
	"2\n00:00:01,000 --> 00:00:02,000\nfirst\n\n" +
	"3\n00:10:00,500 --> 00:10:00,500\nsecond early\n\n" +
	"4\n00:10:01,000 --> 00:10:02,000\nsecond\n\n" +
	"5\n00:20:00,500 --> 00:20:00,500\nthird early\n\n" +
	"6\n00:20:01,000 --> 00:20:02,000\nthird\n\n"

func TestRunChunkedOffsets(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			f := chunkedFixture(t)
			tr := f.transcriber(t, Config{MaxChunkSize: "1KB", ChunkWindow: 600 * time.Second, Workers: workers})

			res, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Content != chunkedSRT {
				t.Errorf("content = %q\nwant      %q", res.Content, chunkedSRT)
			}
			if res.Chunks != 3 || len(f.subs.calls()) != 3 {
				t.Errorf("expected 3 chunks and calls, got %d and %d", res.Chunks, len(f.subs.calls()))
			}
			segs := res.Transcript.Segments()
			for i := 1; i < len(segs); i++ {
				if segs[i].Start < segs[i-1].Start {
					t.Errorf("starts not ordered at %d", i)
				}
			}
			f.assertClean(t)
		})
	}
}

func TestRunProviderFailureCleansUp(t *testing.T) {
	f := chunkedFixture(t)
	f.subs.err = errors.TranscriptionFailed("subs", fmt.Errorf("HTTP 500"))
	tr := f.transcriber(t, Config{MaxChunkSize: "1KB"})

	_, err := tr.Run(context.Background(), Request{Source: upload()})
	if !errors.HasCode(err, errors.ErrCodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
	f.assertClean(t)
	if entries, _ := os.ReadDir(f.outDir); len(entries) != 0 {
		t.Error("no output may be saved for a failed run")
	}
}

func TestRunRejectsBadURLBeforeDownload(t *testing.T) {
	f := newFixture(t, 0)
	tr := f.transcriber(t, Config{})

	_, err := tr.Run(context.Background(), Request{Source: media.Source{Kind: media.SourceURL, URL: "https://example.com/video"}})
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if len(f.fake.Downloads()) != 0 || len(f.subs.calls()) != 0 {
		t.Error("nothing may run for a rejected URL")
	}
}

func TestRunMinutesNormalized(t *testing.T) {
	f := newFixture(t, 0)
	f.minutes.byFile["transcoded_1_16000hz_1ch.wav"] = &transcription.Response{Segments: []transcript.Segment{
		{Start: 0, End: 3, Text: "我们开会。"},
		{Start: 65, End: 70, Text: "好的！"},
	}}
	tr := f.transcriber(t, Config{})

	res, err := tr.Run(context.Background(), Request{Source: upload(), Format: FormatMinutes, Timestamps: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := "[00:00] 我們開會。\n[01:05] 好的！\n"; res.Content != want {
		t.Errorf("content = %q, want %q", res.Content, want)
	}
	if res.Language != "yue" || !strings.HasSuffix(res.Filename, ".txt") {
		t.Errorf("unexpected result %+v", res)
	}
	if len(f.subs.calls()) != 0 || len(f.minutes.calls()) != 1 {
		t.Error("minutes must use the minutes provider")
	}
}

func TestRunEstimatesMissingTimings(t *testing.T) {
	f := newFixture(t, 0)
	f.fake.Duration = 12
	f.subs.byFile["transcoded_1_16000hz_1ch.wav"] = &transcription.Response{Segments: []transcript.Segment{
		{Text: "one"}, {Text: "two"}, {Text: "three"},
	}}
	tr := f.transcriber(t, Config{})

	res, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := res.Transcript.Segments()
	want := []transcript.Segment{{Start: 0, End: 4, Text: "one"}, {Start: 4, End: 8, Text: "two"}, {Start: 8, End: 12, Text: "three"}}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if calls := f.subs.calls(); calls[0].Duration != 12 {
		t.Errorf("probed duration not passed to the provider: %+v", calls[0])
	}
}

func TestRunTextOnlyResponse(t *testing.T) {
	f := newFixture(t, 0)
	f.fake.Duration = 7.5
	f.subs.byFile["transcoded_1_16000hz_1ch.wav"] = &transcription.Response{Text: " just text "}
	tr := f.transcriber(t, Config{})

	res, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := "1\n00:00:00,000 --> 00:00:07,500\njust text\n\n"; res.Content != want {
		t.Errorf("content = %q, want %q", res.Content, want)
	}
}

func TestRunBoundedConcurrency(t *testing.T) {
	f := newFixture(t, 0)
	f.subs.block = make(chan struct{})
	f.subs.started = make(chan struct{}, 1)
	tr := f.transcriber(t, Config{MaxConcurrentRuns: 1})

	done := make(chan error, 1)
	go func() {
		_, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
		done <- err
	}()
	<-f.subs.started

	_, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
	if !errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
		t.Fatalf("expected SERVICE_UNAVAILABLE, got %v", err)
	}
	if appErr, _ := errors.AsAppError(err); appErr == nil || !appErr.Retryable {
		t.Error("a full pipeline must be retryable")
	}

	close(f.subs.block)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestRunValidatesSourceWhenBusy(t *testing.T) {
	f := newFixture(t, 0)
	f.subs.block = make(chan struct{})
	f.subs.started = make(chan struct{}, 1)
	tr := f.transcriber(t, Config{MaxConcurrentRuns: 1})

	done := make(chan error, 1)
	go func() {
		_, err := tr.Run(context.Background(), Request{Source: upload(), Language: "en"})
		done <- err
	}()
	<-f.subs.started
	defer func() {
		close(f.subs.block)
		<-done
	}()

	bad := []media.Source{
		{Kind: media.SourceURL, URL: "not a url"},
		{Kind: media.SourceUpload, Data: []byte("x"), Ext: ".exe"},
	}
	for _, src := range bad {
		_, err := tr.Run(context.Background(), Request{Source: src})
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("%s source: expected INVALID_INPUT while busy, got %v", src.Kind, err)
		}
	}
}

func TestProviderFallback(t *testing.T) {
	subs := &stubProvider{name: "subs"}
	tr := New(Config{}, Deps{Subtitles: subs})
	if tr.Provider(FormatMinutes) != subs || tr.Provider(FormatSRT) != subs {
		t.Error("minutes must fall back to the subtitle provider")
	}
}

func TestPreview(t *testing.T) {
	tr := New(Config{PreviewChars: 3}, Deps{})
	if got := tr.Preview("字幕文件"); got != "字幕文" {
		t.Errorf("Preview() = %q", got)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.MaxChunkBytes() != 25<<20 || cfg.ChunkWindow != 600*time.Second || cfg.Workers != 1 || cfg.MaxConcurrentRuns != 4 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	bad := cfg
	bad.MaxChunkSize = "lots"
	if err := bad.Validate(); err == nil {
		t.Error("expected invalid size rejected")
	}
}
