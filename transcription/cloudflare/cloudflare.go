// Package cloudflare implements transcription.Provider with the Workers
// AI whisper models.
//
//	POST {base_url}/accounts/{account_id}/ai/run/{model}
//
// The audio is sent as the raw request body with a bearer API token. The
// result carries the full text and, for most models, a word list that is
// grouped into sentence segments here.
package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/httpclient"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

const (
	ProviderName = "cloudflare"

	defaultBaseURL = "https://api.cloudflare.com/client/v4"
	defaultModel   = "@cf/openai/whisper"

	// maxSentenceSpan closes a sentence that runs this long without
	// terminal punctuation.
	maxSentenceSpan = 15.0
)

func init() {
	transcription.RegisterFactory(ProviderName, Factory())
}

// Config holds the Workers AI account and model.
type Config struct {
	AccountID string        `yaml:"account_id"`
	APIToken  string        `yaml:"api_token"`
	BaseURL   string        `yaml:"base_url"`
	Model     string        `yaml:"model"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Provider implements transcription.Provider for Workers AI.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a Workers AI provider. Missing credentials are
// reported by Transcribe, not here.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = transcription.DefaultCloudTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.APIToken),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory builds providers from a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		s := transcription.Settings(cfg)
		return NewProvider(Config{
			AccountID: s.String("account_id", ""),
			APIToken:  s.String("api_token", ""),
			BaseURL:   s.String("base_url", ""),
			Model:     s.String("model", ""),
			Timeout:   s.Duration("timeout", 0),
		})
	}
}

func (p *Provider) Name() string  { return ProviderName }
func (p *Provider) Model() string { return p.cfg.Model }

// IsAvailable reports whether the account and token are configured.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.cfg.AccountID != "" && p.cfg.APIToken != ""
}

func (p *Provider) Close(ctx context.Context) error { return p.client.Close(ctx) }

type envelope struct {
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type result struct {
	Text  string `json:"text"`
	Words []word `json:"words"`
}

type word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcribe posts the clip and builds sentence segments from its words.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	switch {
	case p.cfg.AccountID == "":
		return nil, errors.MissingCredentials(ProviderName, "transcription.cloudflare.account_id")
	case p.cfg.APIToken == "":
		return nil, errors.MissingCredentials(ProviderName, "transcription.cloudflare.api_token")
	}

	audio, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, errors.TranscriptionFailed(ProviderName, fmt.Errorf("read audio: %w", err))
	}

	path := fmt.Sprintf("/accounts/%s/ai/run/%s", p.cfg.AccountID, p.cfg.Model)
	resp, err := httpclient.Post[envelope](ctx, p.client, path, audio,
		httpclient.WithHeader("Content-Type", "application/octet-stream"))
	if err != nil {
		return nil, transcription.Failed(ProviderName, err)
	}
	if !resp.Data.Success {
		return nil, errors.TranscriptionFailed(ProviderName, fmt.Errorf("workers ai: %s", describe(resp.Data.Errors)))
	}

	var res result
	if err := json.Unmarshal(resp.Data.Result, &res); err != nil {
		return nil, errors.TranscriptionFailed(ProviderName, fmt.Errorf("decode result: %w", err))
	}

	out := &transcription.Response{
		Text:     strings.TrimSpace(res.Text),
		Language: req.Language,
		Duration: req.Duration,
	}
	if len(res.Words) > 0 {
		out.Segments = groupSentences(res.Words)
		if out.Duration == 0 {
			out.Duration = res.Words[len(res.Words)-1].End
		}
		return out, nil
	}
	out.Segments = transcription.SingleSegment(out.Text, req.Duration)
	out.Estimated = len(out.Segments) > 0
	return out, nil
}

// groupSentences joins words into segments that end at terminal
// punctuation or after maxSentenceSpan seconds.
func groupSentences(words []word) []transcript.Segment {
	var (
		segs  []transcript.Segment
		parts []string
		start float64
	)
	flush := func(end float64) {
		if len(parts) == 0 {
			return
		}
		segs = append(segs, transcript.Segment{Start: start, End: end, Text: transcript.Join(parts)})
		parts = parts[:0]
	}
	for _, w := range words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		if len(parts) == 0 {
			start = w.Start
		}
		parts = append(parts, text)
		if transcript.EndsSentence(text) || w.End-start >= maxSentenceSpan {
			flush(w.End)
		}
	}
	if len(words) > 0 {
		flush(words[len(words)-1].End)
	}
	return segs
}

func describe(msgs []apiMessage) string {
	if len(msgs) == 0 {
		return "request was not successful"
	}
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = fmt.Sprintf("%d %s", m.Code, m.Message)
	}
	return strings.Join(out, "; ")
}
