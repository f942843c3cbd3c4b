package provider

import "context"

// Closeable is implemented by providers holding resources (idle HTTP
// connections, loaded models) that need explicit release on shutdown.
type Closeable interface {
	Close(ctx context.Context) error
}
