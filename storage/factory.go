package storage

import (
	"fmt"
	"sync"

	"github.com/kbukum/subtitler/logger"
)

// Factory creates a Storage from configuration.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory registers a backend. Backend packages call this from init,
// so the binary imports them for side effects:
//
//	import _ "github.com/kbukum/subtitler/storage/local"
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates the Storage selected by cfg.Provider.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Provider]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	log.Info("Initializing storage", logger.Fields("provider", cfg.Provider, "dir", cfg.Dir))
	return f(cfg, log)
}
