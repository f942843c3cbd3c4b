package transcription

import (
	"context"

	"github.com/kbukum/subtitler/provider"
)

// Provider is the interface that transcription backends implement.
type Provider interface {
	provider.Provider

	// Transcribe sends one audio file and returns its text and segments.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}

// Wrap applies provider middleware to p. The result keeps p's name and
// availability and routes Transcribe through the middleware chain.
func Wrap(p Provider, mws ...provider.Middleware[Request, *Response]) Provider {
	if len(mws) == 0 {
		return p
	}
	rr := provider.Func(p.Name(), p.Transcribe, p.IsAvailable)
	return &wrapped{inner: p, rr: provider.Chain(mws...)(rr)}
}

type wrapped struct {
	inner Provider
	rr    provider.RequestResponse[Request, *Response]
}

func (w *wrapped) Name() string                         { return w.rr.Name() }
func (w *wrapped) IsAvailable(ctx context.Context) bool { return w.rr.IsAvailable(ctx) }

func (w *wrapped) Transcribe(ctx context.Context, req Request) (*Response, error) {
	return w.rr.Execute(ctx, req)
}

// Close closes the wrapped provider when it holds resources.
func (w *wrapped) Close(ctx context.Context) error {
	if c, ok := w.inner.(provider.Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}

// Model reports the wrapped provider's model when it exposes one.
func (w *wrapped) Model() string { return ModelOf(w.inner) }

// ModelOf returns the model name of p, or "" when p does not report one.
func ModelOf(p Provider) string {
	if m, ok := p.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}
