package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/subtitler/api"
	"github.com/kbukum/subtitler/live"
	"github.com/kbukum/subtitler/llm"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/script"
	"github.com/kbukum/subtitler/server"
	"github.com/kbukum/subtitler/server/endpoint"
	"github.com/kbukum/subtitler/server/middleware"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/summarize"
	"github.com/kbukum/subtitler/transcriber"
	"github.com/kbukum/subtitler/transcription"
)

// services are the long-lived collaborators built once at start-up.
type services struct {
	pipeline   *transcriber.Transcriber
	summarizer *summarize.Service
	live       *live.Service
	output     *storage.Output
	model      string
	log        *logger.Logger
}

func buildServices(cfg *Config, store storage.Storage, metrics *observability.Metrics, log *logger.Logger) (*services, error) {
	if store == nil {
		return nil, fmt.Errorf("output storage not started")
	}
	tool := media.NewFFmpeg(cfg.Media)
	acquirer := media.NewAcquirer(tool, cfg.Media)

	normalizer, err := script.New(cfg.Script)
	if err != nil {
		return nil, err
	}
	subtitles, minutes, err := newProviders(cfg.Transcription, log)
	if err != nil {
		return nil, err
	}

	output := storage.NewOutput(store)
	s := &services{
		pipeline: transcriber.New(cfg.Pipeline, transcriber.Deps{
			Acquirer:   acquirer,
			Splitter:   media.NewChunker(tool),
			Prober:     tool,
			Subtitles:  subtitles,
			Minutes:    minutes,
			Normalizer: normalizer,
			Output:     output,
			Metrics:    metrics,
		}),
		live:   live.NewService(acquirer, subtitles, normalizer, cfg.Live, live.WithMetrics(metrics)),
		output: output,
		log:    log.WithComponent("subtitler"),
	}

	// A nil Completer must stay an untyped nil so summarize reports 503.
	var completer summarize.Completer
	if cfg.LLMEnabled() {
		adapter, err := llm.New(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("llm: %w", err)
		}
		completer = provider.Chain(
			provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse]("llm"),
			provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](log.WithComponent("llm")),
			provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](metrics),
		)(adapter)
		s.model = cfg.LLM.Dialect + "/" + adapter.Model()
	}
	s.summarizer = summarize.New(completer, cfg.Summarize)
	return s, nil
}

// newProviders builds the subtitle and minutes backends. One instance
// serves both when they name the same backend, so its breaker sees every
// failure.
func newProviders(cfg transcription.Config, log *logger.Logger) (subtitles, minutes transcription.Provider, err error) {
	subtitles, err = transcription.New(cfg, cfg.Provider, log)
	if err != nil {
		return nil, nil, err
	}
	if cfg.MinutesProvider == cfg.Provider {
		return subtitles, subtitles, nil
	}
	minutes, err = transcription.New(cfg, cfg.MinutesProvider, log)
	if err != nil {
		return nil, nil, err
	}
	return subtitles, minutes, nil
}

func (s *services) summaryModel() string {
	if s.model == "" {
		return "disabled"
	}
	return s.model
}

// routes mounts /health, /info and the API on srv.
func (s *services) routes(srv *server.Server, cfg *Config, health endpoint.HealthChecker) {
	srv.RegisterDefaultEndpoints(serviceName, health, map[string]string{
		"provider":         cfg.Transcription.Provider,
		"minutes_provider": cfg.Transcription.MinutesProvider,
		"summarize_model":  s.summaryModel(),
	})
	api.New(api.Deps{
		Pipeline:            s.pipeline,
		Summarizer:          s.summarizer,
		Live:                s.live,
		Files:               s.output,
		CheckOrigin:         middleware.CheckOrigin(cfg.Server.CORS),
		MaxUploadSize:       cfg.Media.MaxUploadSize,
		MaxLiveMessageBytes: cfg.Live.MaxMessageBytes,
	}).Register(srv.GinEngine())
}

// runOnce transcribes the source named on the command line.
func (s *services) runOnce(ctx context.Context, opts options) error {
	req := transcriber.Request{Language: opts.language, Timestamps: opts.timestamps}
	switch strings.ToLower(opts.format) {
	case "srt", "":
		req.Format = transcriber.FormatSRT
	case "minutes", "txt":
		req.Format = transcriber.FormatMinutes
	default:
		return fmt.Errorf("unknown -format %q, expected srt or minutes", opts.format)
	}

	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return err
		}
		defer f.Close()
		req.Source = media.Source{Kind: media.SourceUpload, Body: f, Ext: filepath.Ext(opts.file)}
	} else {
		req.Source = media.Source{Kind: media.SourceURL, URL: opts.url}
	}

	res, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return err
	}
	s.log.Info("Transcription saved", logger.Fields(
		logger.FieldPath, res.Filename, "chunks", res.Chunks, logger.FieldLanguage, res.Language))

	if opts.out != "" {
		return os.WriteFile(opts.out, []byte(res.Content), 0o644)
	}
	_, err = io.WriteString(os.Stdout, res.Content)
	return err
}
