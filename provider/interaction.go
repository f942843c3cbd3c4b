package provider

import "context"

// RequestResponse is a provider that maps one input to one output:
// an HTTP call, a subprocess run, a speech-recognition request.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function into a RequestResponse so middleware can
// wrap domain calls that are not themselves providers.
func Func[I, O any](name string, fn func(ctx context.Context, input I) (O, error), available func(ctx context.Context) bool) RequestResponse[I, O] {
	return &funcRR[I, O]{name: name, fn: fn, available: available}
}

type funcRR[I, O any] struct {
	name      string
	fn        func(ctx context.Context, input I) (O, error)
	available func(ctx context.Context) bool
}

func (f *funcRR[I, O]) Name() string { return f.name }

func (f *funcRR[I, O]) IsAvailable(ctx context.Context) bool {
	if f.available == nil {
		return true
	}
	return f.available(ctx)
}

func (f *funcRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}
