// Command subtitler serves the transcription API, or with -url / -file
// transcribes one source and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/subtitler/bootstrap"
	"github.com/kbukum/subtitler/config"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/server"
	"github.com/kbukum/subtitler/storage"
	"github.com/kbukum/subtitler/version"

	_ "github.com/kbukum/subtitler/llm/ollama"
	_ "github.com/kbukum/subtitler/llm/openai"
	_ "github.com/kbukum/subtitler/storage/local"
	_ "github.com/kbukum/subtitler/transcription/cloudflare"
	_ "github.com/kbukum/subtitler/transcription/openai"
	_ "github.com/kbukum/subtitler/transcription/sensevoice"
	_ "github.com/kbukum/subtitler/transcription/whisper"
)

const serviceName = "subtitler"

// options are the command-line flags.
type options struct {
	configFile string
	url        string
	file       string
	out        string
	language   string
	format     string
	timestamps bool
}

// oneShot reports whether a source was given on the command line.
func (o options) oneShot() bool {
	return o.url != "" || o.file != ""
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "config file (default: search ./cmd/subtitler, ./config, .)")
	flag.StringVar(&opts.url, "url", "", "transcribe this YouTube URL and exit")
	flag.StringVar(&opts.file, "file", "", "transcribe this audio or video file and exit")
	flag.StringVar(&opts.out, "out", "", "write the result here instead of stdout")
	flag.StringVar(&opts.language, "lang", "", "language hint (default: pipeline.default_language)")
	flag.StringVar(&opts.format, "format", "srt", "output format: srt or minutes")
	flag.BoolVar(&opts.timestamps, "timestamps", false, "prefix minutes sentences with [MM:SS]")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}
	if err := run(context.Background(), opts); err != nil {
		fmt.Fprintf(os.Stderr, "subtitler: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	var loadOpts []config.LoaderOption
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg, loadOpts...); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}

	telemetry, err := observability.NewTelemetry(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	store := storage.NewComponent(cfg.Output, app.Logger)
	// Telemetry first, so providers are installed before anything traces.
	if err := app.RegisterComponent(telemetry); err != nil {
		return err
	}
	if err := app.RegisterComponent(store); err != nil {
		return err
	}

	var svc *services
	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
		s, err := buildServices(a.Cfg, store.Storage(), telemetry.Metrics(), a.Logger)
		if err != nil {
			return err
		}
		svc = s
		a.Summary.Track("transcription.provider", a.Cfg.Transcription.Provider)
		a.Summary.Track("transcription.minutes_provider", a.Cfg.Transcription.MinutesProvider)
		a.Summary.Track("summarize", s.summaryModel())
		if opts.oneShot() {
			return nil
		}
		srv := server.New(a.Cfg.Server, a.Logger)
		s.routes(srv, a.Cfg, a.Components.HealthAll)
		return a.RegisterComponent(server.NewComponent(srv))
	})

	if opts.oneShot() {
		return app.RunTask(ctx, func(ctx context.Context) error {
			return svc.runOnce(ctx, opts)
		})
	}
	return app.Run(ctx)
}
