// Package openai implements transcription.Provider with the OpenAI audio
// transcriptions API through github.com/sashabaranov/go-openai.
//
// whisper-1 is asked for verbose_json and returns native segments. The
// gpt-4o transcribe models only return text, which becomes one segment
// spanning the probed clip duration.
package openai

import (
	"context"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

const (
	ProviderName = "openai"

	defaultModel   = goopenai.Whisper1
	defaultBaseURL = "https://api.openai.com/v1"
)

func init() {
	transcription.RegisterFactory(ProviderName, Factory())
}

// Config holds OpenAI credentials and model selection.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Provider implements transcription.Provider for OpenAI.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI provider. An empty API key is accepted;
// Transcribe reports it as MissingCredentials.
func NewProvider(cfg Config) *Provider {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = transcription.DefaultCloudTimeout
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}
}

// Factory builds providers from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		s := transcription.Settings(cfg)
		return NewProvider(Config{
			APIKey:  s.String("api_key", ""),
			BaseURL: s.String("base_url", ""),
			Model:   s.String("model", ""),
			Timeout: s.Duration("timeout", 0),
		}), nil
	}
}

func (p *Provider) Name() string  { return ProviderName }
func (p *Provider) Model() string { return p.cfg.Model }

// IsAvailable reports whether credentials are configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// Transcribe uploads the clip and maps the result to segments.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	if p.cfg.APIKey == "" {
		return nil, errors.MissingCredentials(ProviderName, "transcription.openai.api_key")
	}

	verbose := supportsSegments(p.cfg.Model)
	format := goopenai.AudioResponseFormatJSON
	if verbose {
		format = goopenai.AudioResponseFormatVerboseJSON
	}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.cfg.Model,
		FilePath: req.AudioPath,
		Language: apiLanguage(req.Language),
		Format:   format,
	})
	if err != nil {
		return nil, errors.TranscriptionFailed(ProviderName, err)
	}

	out := &transcription.Response{
		Text:     strings.TrimSpace(resp.Text),
		Duration: resp.Duration,
		Language: resp.Language,
	}
	if out.Language == "" {
		out.Language = req.Language
	}
	if out.Duration == 0 {
		out.Duration = req.Duration
	}

	if verbose && len(resp.Segments) > 0 {
		out.Segments = make([]transcript.Segment, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			out.Segments = append(out.Segments, transcript.Segment{
				Start: s.Start, End: s.End, Text: strings.TrimSpace(s.Text),
			})
		}
		return out, nil
	}

	out.Segments = transcription.SingleSegment(out.Text, req.Duration)
	out.Estimated = len(out.Segments) > 0
	return out, nil
}

// supportsSegments is true for the first-generation whisper models; the
// gpt-4o family rejects verbose_json.
func supportsSegments(model string) bool {
	return strings.HasPrefix(model, "whisper")
}

// apiLanguage maps hints to the ISO-639-1 codes the API accepts.
// Cantonese has no ISO-639-1 code and is sent as Chinese.
func apiLanguage(lang string) string {
	switch {
	case lang == "" || lang == "auto":
		return ""
	case lang == "yue" || strings.HasPrefix(lang, "zh"):
		return "zh"
	default:
		if i := strings.IndexByte(lang, '-'); i > 0 {
			return lang[:i]
		}
		return lang
	}
}
