package llm

import (
	"fmt"
	"time"

	"github.com/kbukum/subtitler/httpclient"
)

const defaultTimeout = 120 * time.Second

// Config selects and configures a language model backend. The Dialect
// field picks the request/response mapping.
type Config struct {
	// Dialect is a registered dialect name: "openai" or "ollama".
	Dialect string `yaml:"dialect" mapstructure:"dialect"`

	// BaseURL is the provider's API root, e.g. "https://api.openai.com/v1"
	// or "http://localhost:11434".
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent as a bearer token when set.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	// MaxTokens caps the response length. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`

	// Timeout bounds one completion call. Defaults to 120s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// MaxAttempts > 1 retries transport failures and 429/5xx responses.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the fields every dialect needs.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("llm.dialect is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("llm.base_url is required")
	}
	if c.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

func (c Config) httpConfig(name string) httpclient.Config {
	hc := httpclient.Config{
		Name:    name,
		BaseURL: c.BaseURL,
		Timeout: c.Timeout,
	}
	if c.APIKey != "" {
		hc.Auth = httpclient.BearerAuth(c.APIKey)
	}
	if c.MaxAttempts > 1 {
		hc.Retry = httpclient.DefaultRetryConfig()
		hc.Retry.MaxAttempts = c.MaxAttempts
	}
	return hc
}
