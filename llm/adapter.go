package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/subtitler/httpclient"
	"github.com/kbukum/subtitler/provider"
)

// ErrNoDialect is returned by NewWithDialect for a nil dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

var (
	_ provider.RequestResponse[CompletionRequest, CompletionResponse] = (*Adapter)(nil)
	_ provider.Closeable                                              = (*Adapter)(nil)
)

// Adapter is a completion client: the HTTP adapter for transport, timeout
// and retry, plus a Dialect for the wire format.
type Adapter struct {
	http      *httpclient.Adapter
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

// New creates an adapter for the dialect named in cfg.
func New(cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg, opts...)
}

// NewWithDialect creates an adapter with an explicit dialect.
func NewWithDialect(dialect Dialect, cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	cfg.ApplyDefaults()
	client, err := httpclient.New(cfg.httpConfig(dialect.Name()+"-llm"), opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create http client: %w", err)
	}
	return &Adapter{
		http:      client,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (a *Adapter) Name() string { return a.http.Name() }

func (a *Adapter) IsAvailable(ctx context.Context) bool { return a.http.IsAvailable(ctx) }

func (a *Adapter) Close(ctx context.Context) error { return a.http.Close(ctx) }

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

// Model returns the default model.
func (a *Adapter) Model() string { return a.model }

// Execute sends one completion request and returns the full response.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == 0 {
		req.Temperature = a.temp
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: build request: %w", err)
	}

	resp, err := httpclient.Post[json.RawMessage](ctx, a.http, a.dialect.ChatPath(), body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: execute: %w", err)
	}

	result, err := a.dialect.ParseResponse(resp.Data)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: parse response: %w", err)
	}
	return *result, nil
}
