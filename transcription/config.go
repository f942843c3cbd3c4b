package transcription

import (
	"fmt"
	"time"

	"github.com/kbukum/subtitler/resilience"
)

const (
	DefaultProvider        = "sensevoice"
	DefaultMinutesProvider = "cloudflare"

	// DefaultLocalTimeout applies to sidecars on the same host.
	DefaultLocalTimeout = 120 * time.Second
	// DefaultCloudTimeout applies to hosted APIs.
	DefaultCloudTimeout = 300 * time.Second
)

// Config selects the backends and carries each backend's own settings.
//
//	transcription:
//	  provider: sensevoice
//	  minutes_provider: cloudflare
//	  circuit_breaker:
//	    enabled: true
//	  sensevoice:
//	    url: http://localhost:8386
//	  openai:
//	    api_key: ${OPENAI_API_KEY}
type Config struct {
	// Provider serves subtitle runs and live frames.
	Provider string `yaml:"provider" mapstructure:"provider"`
	// MinutesProvider serves the long-form minutes endpoint.
	MinutesProvider string        `yaml:"minutes_provider" mapstructure:"minutes_provider"`
	CircuitBreaker  BreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// Backends holds every other key of the section, one map per backend.
	Backends map[string]any `yaml:",inline" mapstructure:",remain"`
}

// BreakerConfig configures the per-backend circuit breaker.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
	MaxFailures int           `yaml:"max_failures" mapstructure:"max_failures"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.MinutesProvider == "" {
		c.MinutesProvider = DefaultMinutesProvider
	}
	if c.CircuitBreaker.MaxFailures <= 0 {
		c.CircuitBreaker.MaxFailures = 5
	}
	if c.CircuitBreaker.Timeout <= 0 {
		c.CircuitBreaker.Timeout = 30 * time.Second
	}
}

// Validate checks that both selected backends are registered.
func (c *Config) Validate() error {
	for _, name := range []string{c.Provider, c.MinutesProvider} {
		if !Registered(name) {
			return fmt.Errorf("transcription: unknown provider %q (registered: %v)", name, Providers())
		}
	}
	return nil
}

// BackendConfig returns the settings map for the named backend.
func (c *Config) BackendConfig(name string) map[string]any {
	if m, ok := c.Backends[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// breakerConfig builds the resilience config for one backend, nil when
// the breaker is disabled.
func (c *Config) breakerConfig(name string) *resilience.CircuitBreakerConfig {
	if !c.CircuitBreaker.Enabled {
		return nil
	}
	cfg := resilience.DefaultCircuitBreakerConfig("transcription." + name)
	cfg.MaxFailures = c.CircuitBreaker.MaxFailures
	cfg.Timeout = c.CircuitBreaker.Timeout
	cfg.IsFailure = countsAgainstBackend
	return &cfg
}
