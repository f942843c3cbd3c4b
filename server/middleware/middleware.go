package middleware

import "net/http"

// Middleware wraps an http.Handler. The server applies the stack around
// the whole handler, so Gin routes and the websocket upgrade share it.
type Middleware func(http.Handler) http.Handler

// Chain composes middleware; the first is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
