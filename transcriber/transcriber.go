package transcriber

import (
	"context"
	stderrors "errors"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/pipeline"
	"github.com/kbukum/subtitler/resilience"
	"github.com/kbukum/subtitler/script"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/subtitle"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
	"github.com/kbukum/subtitler/util"
)

// Acquirer resolves a source to a local audio file the caller owns.
type Acquirer interface {
	Acquire(ctx context.Context, src media.Source) (string, error)
}

// Splitter cuts an audio file into chunks.
type Splitter interface {
	Split(ctx context.Context, path string, maxBytes int64, window time.Duration) (transcript.Chunks, error)
}

// Prober reports the duration of an audio file in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Format selects the rendered output.
type Format int

const (
	FormatSRT Format = iota
	FormatMinutes
)

// Request is one pipeline run.
type Request struct {
	Source   media.Source
	Language string
	Format   Format
	// Timestamps prefixes minutes sentences with [MM:SS].
	Timestamps bool
}

// Result is the rendered output of a run.
type Result struct {
	Content  string
	Filename string
	Language string
	Chunks   int
	// Transcript is the assembled, normalized transcript.
	Transcript transcript.Transcript
}

// Deps are the collaborators of a Transcriber. Minutes falls back to
// Subtitles when nil.
type Deps struct {
	Acquirer   Acquirer
	Splitter   Splitter
	Prober     Prober
	Subtitles  transcription.Provider
	Minutes    transcription.Provider
	Normalizer *script.Normalizer
	Output     *storage.Output
	Metrics    *observability.Metrics
}

// Transcriber runs pipelines.
type Transcriber struct {
	deps     Deps
	cfg      Config
	maxBytes int64
	runs     *resilience.Bulkhead
	log      *logger.Logger
}

// New creates a Transcriber.
func New(cfg Config, deps Deps) *Transcriber {
	cfg.ApplyDefaults()
	if deps.Minutes == nil {
		deps.Minutes = deps.Subtitles
	}
	return &Transcriber{
		deps:     deps,
		cfg:      cfg,
		maxBytes: cfg.MaxChunkBytes(),
		runs: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          "pipeline",
			MaxConcurrent: cfg.MaxConcurrentRuns,
			MaxWait:       cfg.QueueWait,
		}),
		log: logger.WithComponent("transcriber"),
	}
}

// Provider returns the backend used for format f.
func (t *Transcriber) Provider(f Format) transcription.Provider {
	if f == FormatMinutes {
		return t.deps.Minutes
	}
	return t.deps.Subtitles
}

// Preview returns the first PreviewChars characters of content.
func (t *Transcriber) Preview(content string) string {
	return util.TruncateRunes(content, t.cfg.PreviewChars)
}

// Run executes one pipeline and saves the rendered output. Invalid
// sources are rejected before the run waits for a pipeline slot.
func (t *Transcriber) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Source.Validate(); err != nil {
		return nil, err
	}
	res, err := resilience.ExecuteWithResult(ctx, t.runs, func() (*Result, error) {
		return t.run(ctx, req)
	})
	if stderrors.Is(err, resilience.ErrBulkheadFull) || stderrors.Is(err, resilience.ErrBulkheadTimeout) {
		t.log.WithContext(ctx).Warn("pipeline busy, rejecting run")
		return nil, errors.ServiceUnavailable("transcription pipeline")
	}
	return res, err
}

func (t *Transcriber) run(ctx context.Context, req Request) (res *Result, err error) {
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = t.cfg.DefaultLanguage
	}
	p := t.Provider(req.Format)

	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrProvider, p.Name())
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, lang)

	start := time.Now()
	t.deps.Metrics.RunStarted(ctx)
	defer func() {
		t.deps.Metrics.RunFinished(ctx)
		status := "success"
		if err != nil {
			status = "error"
			observability.SetSpanError(ctx, err)
			t.deps.Metrics.RecordError(ctx, string(errors.From(err).Code), "transcriber")
		}
		t.deps.Metrics.RecordOperation(ctx, "transcriber", "run", status, time.Since(start))
	}()

	path, err := t.deps.Acquirer.Acquire(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(path) }()

	chunks, err := t.deps.Splitter.Split(ctx, path, t.maxBytes, t.cfg.ChunkWindow)
	if err != nil {
		return nil, errors.Internal(err)
	}
	defer func() {
		if cerr := chunks.Cleanup(path); cerr != nil {
			t.log.WithContext(ctx).Warn("chunk cleanup failed", logger.ErrorFields("cleanup", cerr))
		}
	}()

	perChunk, err := t.transcribeAll(ctx, p, chunks, lang)
	if err != nil {
		return nil, err
	}

	tr := transcript.Assemble(chunks, perChunk)
	if t.deps.Normalizer != nil {
		tr = tr.MapText(t.deps.Normalizer.For(lang))
	}
	observability.SetSpanAttribute(ctx, observability.AttrSegmentCount, tr.Len())

	content, ext := t.render(tr, req)
	name, err := t.deps.Output.Save(ctx, ext, content)
	if err != nil {
		return nil, errors.Internal(err)
	}

	t.log.WithContext(ctx).Info("transcription finished", logger.Fields(
		logger.FieldProvider, p.Name(),
		logger.FieldLanguage, lang,
		logger.FieldChunkCount, len(chunks),
		logger.FieldSegments, tr.Len(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
		"file", name,
	))
	return &Result{Content: content, Filename: name, Language: lang, Chunks: len(chunks), Transcript: tr}, nil
}

func (t *Transcriber) render(tr transcript.Transcript, req Request) (string, string) {
	if req.Format == FormatMinutes {
		return subtitle.RenderMinutes(tr, req.Timestamps), storage.ExtMinutes
	}
	return subtitle.RenderSRT(tr), storage.ExtSRT
}

type chunkResult struct {
	pos  int
	segs []transcript.Segment
}

// transcribeAll returns one segment list per chunk, aligned with chunks.
// Chunks run one after another unless Workers > 1; either way results
// are put back in chunk order before assembly.
func (t *Transcriber) transcribeAll(ctx context.Context, p transcription.Provider, chunks transcript.Chunks, lang string) ([][]transcript.Segment, error) {
	positions := make([]int, len(chunks))
	for i := range positions {
		positions[i] = i
	}
	transcribed := pipeline.Parallel(pipeline.FromSlice(positions), t.cfg.Workers,
		func(ctx context.Context, pos int) (chunkResult, error) {
			segs, err := t.transcribeChunk(ctx, p, chunks[pos], len(chunks), lang)
			return chunkResult{pos: pos, segs: segs}, err
		})
	done := 0
	results, err := pipeline.Collect(ctx, pipeline.Tap(transcribed, func(ctx context.Context, r chunkResult) error {
		done++
		t.log.WithContext(ctx).Debug("Chunk transcribed", logger.Fields(
			logger.FieldChunkIndex, chunks[r.pos].Index, "done", done, logger.FieldChunkCount, len(chunks)))
		return nil
	}))
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b chunkResult) int { return a.pos - b.pos })
	perChunk := make([][]transcript.Segment, len(chunks))
	for _, r := range results {
		perChunk[r.pos] = r.segs
	}
	return perChunk, nil
}

func (t *Transcriber) transcribeChunk(ctx context.Context, p transcription.Provider, c transcript.Chunk, total int, lang string) ([]transcript.Segment, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribeChunk)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrChunkIndex, c.Index)
	observability.SetSpanAttribute(ctx, observability.AttrChunkOffset, c.Offset)

	log := t.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldChunkIndex, c.Index, logger.FieldChunkCount, total, logger.FieldOffset, c.Offset))

	var duration float64
	if t.deps.Prober != nil {
		d, err := t.deps.Prober.Probe(ctx, c.Path)
		if err != nil {
			log.Debug("probe failed, duration unknown", logger.ErrorFields("probe", err))
		}
		duration = d
	}

	resp, err := p.Transcribe(ctx, transcription.Request{
		AudioPath:    c.Path,
		Language:     lang,
		WantSegments: true,
		Duration:     duration,
	})
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, transcription.Failed(p.Name(), err)
	}

	segs := resp.Segments
	switch {
	case len(segs) == 0:
		segs = transcription.SingleSegment(strings.TrimSpace(resp.Text), duration)
	case untimed(segs):
		segs = transcript.EstimateSpans(segs, duration)
	}
	t.deps.Metrics.RecordChunk(ctx, p.Name(), duration)
	log.Debug("chunk transcribed", logger.Fields(logger.FieldSegments, len(segs), "estimated", resp.Estimated))
	return segs, nil
}

// untimed reports whether no segment carries a span.
func untimed(segs []transcript.Segment) bool {
	for _, s := range segs {
		if s.Start != 0 || s.End != 0 {
			return false
		}
	}
	return true
}
