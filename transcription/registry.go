package transcription

import (
	"fmt"
	"slices"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/httpclient"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/provider"
)

var registry = provider.NewRegistry[Provider]()

// RegisterFactory installs a backend factory under name. Backends call
// it from init.
func RegisterFactory(name string, factory provider.Factory[Provider]) {
	registry.RegisterFactory(name, factory)
}

// Registered reports whether a factory exists for name.
func Registered(name string) bool {
	return slices.Contains(registry.List(), name)
}

// Providers lists the registered backend names.
func Providers() []string {
	return registry.List()
}

// New returns the named backend built from its section of cfg, wrapped
// with tracing, logging, and the circuit breaker when enabled. Each call
// builds a new instance from cfg. Missing credentials do not fail
// construction; they surface on the first call.
func New(cfg Config, name string, log *logger.Logger) (Provider, error) {
	if !Registered(name) {
		return nil, fmt.Errorf("transcription: unknown provider %q (registered: %v)", name, Providers())
	}
	p, err := registry.Create(name, cfg.BackendConfig(name))
	if err != nil {
		return nil, fmt.Errorf("transcription: create %s: %w", name, err)
	}

	mws := []provider.Middleware[Request, *Response]{
		provider.WithTracing[Request, *Response]("transcription"),
	}
	if log != nil {
		mws = append(mws, provider.WithLogging[Request, *Response](log.WithComponent("transcription")))
	}
	if cb := cfg.breakerConfig(name); cb != nil {
		mws = append(mws, func(rr provider.RequestResponse[Request, *Response]) provider.RequestResponse[Request, *Response] {
			return provider.WithResilience(rr, provider.ResilienceConfig{CircuitBreaker: cb})
		})
	}
	return Wrap(p, mws...), nil
}

// countsAgainstBackend keeps configuration and input errors from
// tripping the breaker. Rejected credentials are configuration errors too.
func countsAgainstBackend(err error) bool {
	if err == nil {
		return false
	}
	return !errors.HasCode(err, errors.ErrCodeMissingCredentials) &&
		!errors.HasCode(err, errors.ErrCodeInvalidInput) &&
		!httpclient.IsAuth(err)
}
