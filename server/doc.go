// Package server provides the HTTP server: Gin routes behind a net/http
// middleware stack (recovery, request id, CORS, body limit, request
// logging), served over HTTP/1.1 and h2c, managed as a component.
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health plus operator details
//   - /info: build information
package server
