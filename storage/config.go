package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProviderLocal is the local filesystem backend.
const ProviderLocal = "local"

// DefaultDirName is created under the OS temp dir when no dir is set.
const DefaultDirName = "srt_output"

// Config holds output storage configuration.
type Config struct {
	// Provider selects the storage backend. Only "local" is registered.
	Provider string `yaml:"provider" mapstructure:"provider" json:"provider"`

	// Dir is the root directory rendered files are written under.
	Dir string `yaml:"dir" mapstructure:"dir" json:"dir"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Dir == "" {
		c.Dir = filepath.Join(os.TempDir(), DefaultDirName)
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Provider == "" {
		return fmt.Errorf("output.provider is required")
	}
	return nil
}
