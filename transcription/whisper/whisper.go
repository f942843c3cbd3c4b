// Package whisper implements transcription.Provider against a local
// faster-whisper HTTP sidecar.
package whisper

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/subtitler/httpclient"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = "whisper"

	defaultWhisperURL   = "http://localhost:8387"
	defaultWhisperModel = "large-v3"
)

func init() {
	transcription.RegisterFactory(ProviderName, Factory())
}

// Config holds configuration for the Whisper transcription provider.
type Config struct {
	URL         string        `json:"url" yaml:"url"`
	Model       string        `json:"model" yaml:"model"`
	Device      string        `json:"device,omitempty" yaml:"device"`
	ComputeType string        `json:"compute_type,omitempty" yaml:"compute_type"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcription.Provider using a faster-whisper sidecar.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates a new Whisper transcription provider.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = defaultWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = transcription.DefaultLocalTimeout
	}
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

// Factory returns a provider.Factory that creates Whisper providers from
// a generic config map.
func Factory() provider.Factory[transcription.Provider] {
	return func(cfg map[string]any) (transcription.Provider, error) {
		s := transcription.Settings(cfg)
		return NewProvider(Config{
			URL:         s.String("url", ""),
			Model:       s.String("model", ""),
			Device:      s.String("device", ""),
			ComputeType: s.String("compute_type", ""),
			Timeout:     s.Duration("timeout", 0),
		})
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Model returns the configured model size.
func (p *Provider) Model() string { return p.cfg.Model }

// IsAvailable checks if the Whisper sidecar is reachable.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Path: "/health"})
	return err == nil
}

// Close releases idle connections to the sidecar.
func (p *Provider) Close(ctx context.Context) error { return p.client.Close(ctx) }

// Transcribe sends an audio file to the Whisper sidecar.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	fields := map[string]string{"model": p.cfg.Model}
	if lang := sidecarLanguage(req.Language); lang != "" {
		fields["language"] = lang
	}
	if p.cfg.Device != "" {
		fields["device"] = p.cfg.Device
	}
	if p.cfg.ComputeType != "" {
		fields["compute_type"] = p.cfg.ComputeType
	}

	resp, err := httpclient.Post[whisperResponse](ctx, p.client, "/transcribe", &httpclient.MultipartBody{
		Fields: fields,
		Files:  []httpclient.FileField{{FieldName: "audio", Path: req.AudioPath, ContentType: "audio/wav"}},
	})
	if err != nil {
		return nil, transcription.Failed(ProviderName, err)
	}
	return toResponse(&resp.Data, req.Language), nil
}

// sidecarLanguage maps hints to faster-whisper codes; "" lets it detect.
func sidecarLanguage(lang string) string {
	switch lang {
	case "", "auto":
		return ""
	default:
		return lang
	}
}

// --- internal Whisper API response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toResponse(resp *whisperResponse, hint string) *transcription.Response {
	segments := make([]transcript.Segment, 0, len(resp.Segments))
	texts := make([]string, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		segments = append(segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: text})
		texts = append(texts, text)
	}

	duration := resp.Duration
	if duration == 0 && len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = transcript.Join(texts)
	}
	lang := resp.Language
	if lang == "" {
		lang = hint
	}

	return &transcription.Response{
		Text:     text,
		Segments: segments,
		Duration: duration,
		Language: lang,
	}
}
