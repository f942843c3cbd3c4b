// Package sensevoice implements transcription.Provider against a local
// FunASR SenseVoice HTTP sidecar.
//
// The sidecar wraps AutoModel.generate and returns its result list as
// JSON. Item text carries <|lang|><|emotion|><|event|> control markers;
// timestamps, when present, are [start_ms, end_ms] pairs.
package sensevoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/subtitler/httpclient"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

const (
	ProviderName = "sensevoice"

	defaultURL   = "http://localhost:8386"
	defaultModel = "iic/SenseVoiceSmall"
)

func init() {
	transcription.RegisterFactory(ProviderName, Factory())
}

// Config holds configuration for the SenseVoice sidecar.
type Config struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
	// UseITN enables inverse text normalization (punctuation, numerals).
	UseITN bool `yaml:"use_itn"`
	// BatchSeconds and MergeSeconds are passed to the VAD merge step.
	BatchSeconds int           `yaml:"batch_size_s"`
	MergeSeconds int           `yaml:"merge_length_s"`
	Timeout      time.Duration `yaml:"timeout"`
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.BatchSeconds <= 0 {
		c.BatchSeconds = 60
	}
	if c.MergeSeconds <= 0 {
		c.MergeSeconds = 15
	}
	if c.Timeout <= 0 {
		c.Timeout = transcription.DefaultLocalTimeout
	}
}

// Provider implements transcription.Provider for SenseVoice.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a SenseVoice provider.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	cfg.applyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
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
		batch, _ := strconv.Atoi(s.String("batch_size_s", "0"))
		merge, _ := strconv.Atoi(s.String("merge_length_s", "0"))
		return NewProvider(Config{
			URL:          s.String("url", ""),
			Model:        s.String("model", ""),
			UseITN:       s.Bool("use_itn", true),
			BatchSeconds: batch,
			MergeSeconds: merge,
			Timeout:      s.Duration("timeout", 0),
		})
	}
}

func (p *Provider) Name() string  { return ProviderName }
func (p *Provider) Model() string { return p.cfg.Model }

// IsAvailable probes the sidecar's health route.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Path: "/health"})
	return err == nil
}

func (p *Provider) Close(ctx context.Context) error { return p.client.Close(ctx) }

// Transcribe posts the audio file and converts the result items. Items
// without timestamps get an even share of req.Duration and mark the
// response as estimated.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	lang := req.Language
	if lang == "" {
		lang = "auto"
	}
	resp, err := httpclient.Post[json.RawMessage](ctx, p.client, "/transcribe", &httpclient.MultipartBody{
		Fields: map[string]string{
			"model":          p.cfg.Model,
			"language":       lang,
			"use_itn":        strconv.FormatBool(p.cfg.UseITN),
			"merge_vad":      "true",
			"batch_size_s":   strconv.Itoa(p.cfg.BatchSeconds),
			"merge_length_s": strconv.Itoa(p.cfg.MergeSeconds),
		},
		Files: []httpclient.FileField{{FieldName: "audio", Path: req.AudioPath, ContentType: "audio/wav"}},
	})
	if err != nil {
		return nil, transcription.Failed(ProviderName, err)
	}

	items, err := decodeItems(resp.Data)
	if err != nil {
		return nil, transcription.Failed(ProviderName, err)
	}
	return toResponse(items, req), nil
}

type item struct {
	Key       string       `json:"key"`
	Text      string       `json:"text"`
	Timestamp [][2]float64 `json:"timestamp"`
}

// decodeItems accepts the bare result list or {"result": [...]}.
func decodeItems(raw json.RawMessage) ([]item, error) {
	raw = bytes.TrimSpace(raw)
	var items []item
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode sensevoice items: %w", err)
		}
		return items, nil
	}
	var wrapped struct {
		Result *[]item `json:"result"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode sensevoice response: %w", err)
	}
	if wrapped.Result == nil {
		return nil, fmt.Errorf("sensevoice response has no result list")
	}
	return *wrapped.Result, nil
}

// toResponse keeps items with speech left after marker stripping. Items
// without timestamps share the duration evenly among those kept.
func toResponse(items []item, req transcription.Request) *transcription.Response {
	out := &transcription.Response{Language: req.Language, Duration: req.Duration}
	kept := make([]item, 0, len(items))
	texts := make([]string, 0, len(items))
	for _, it := range items {
		text := transcript.StripMarkers(it.Text)
		if text == "" {
			continue
		}
		kept = append(kept, it)
		texts = append(texts, text)
	}

	for j, it := range kept {
		seg := transcript.Segment{Text: it.Text}
		if n := len(it.Timestamp); n > 0 {
			seg.Start = it.Timestamp[0][0] / 1000
			seg.End = it.Timestamp[n-1][1] / 1000
		} else {
			seg.Start, seg.End = transcript.SpanAt(j, len(kept), req.Duration)
			out.Estimated = true
		}
		out.Segments = append(out.Segments, seg)
	}
	out.Text = transcript.Join(texts)
	return out
}
