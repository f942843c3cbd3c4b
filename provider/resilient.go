package provider

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/resilience"
)

// WithResilience wraps p with the configured policies.
// Chain: Bulkhead -> CircuitBreaker -> Retry -> Execute.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	if cfg.IsEmpty() {
		return p
	}
	return &resilientRR[I, O]{inner: p, state: BuildResilience(cfg)}
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) Name() string { return r.inner.Name() }

// IsAvailable is false while the breaker is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	return r.state.CircuitState() != resilience.StateOpen && r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, func() (O, error) {
		return r.inner.Execute(ctx, input)
	})
}

// ExecuteWithResilience runs fn through the chain built in s. Rejections by
// the breaker or bulkhead come back as retryable ServiceUnavailable errors;
// errors from fn pass through untouched.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	call := fn
	if s.retryCfg != nil {
		retryCfg := *s.retryCfg
		call = func() (T, error) {
			return resilience.Retry(ctx, retryCfg, fn)
		}
	}

	if s.cb != nil {
		inner := call
		call = func() (T, error) {
			var result T
			var resultErr error
			cbErr := s.cb.Execute(func() error {
				result, resultErr = inner()
				return resultErr
			})
			if cbErr != nil && resultErr == nil {
				return result, wrapResilienceError(cbErr, s.cb.Name())
			}
			return result, resultErr
		}
	}

	if s.bh == nil {
		return call()
	}

	var fnErr error
	result, err := resilience.ExecuteWithResult(ctx, s.bh, func() (T, error) {
		r, e := call()
		fnErr = e
		return r, e
	})
	if err != nil && fnErr == nil {
		return result, wrapResilienceError(err, "")
	}
	return result, err
}

func wrapResilienceError(err error, name string) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	service := name
	if service == "" {
		service = "provider"
	}
	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return errors.ServiceUnavailable(service).WithCause(err).WithDetail("reason", "circuit open")
	case stderrors.Is(err, resilience.ErrBulkheadFull), stderrors.Is(err, resilience.ErrBulkheadTimeout):
		return errors.ServiceUnavailable(service).WithCause(err).WithDetail("reason", "concurrency limit reached")
	case stderrors.Is(err, context.Canceled):
		return errors.Timeout("request canceled").WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout("deadline exceeded").WithCause(err)
	default:
		return err
	}
}
