package logger

import (
	"sync"
)

// overrides holds component loggers installed with Register, typically by
// tests that capture a single component's output.
var overrides sync.Map // component name -> *Logger

// Register makes Get return l for the component name.
func Register(name string, l *Logger) {
	overrides.Store(name, l)
}

// Get returns the logger for a component: the one installed with Register,
// otherwise the global logger tagged with name. The global logger is read
// on every call, so loggers fetched after Init pick up its configuration.
func Get(name string) *Logger {
	if l, ok := overrides.Load(name); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}
