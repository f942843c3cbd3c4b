// Package util holds small helpers shared across packages: size parsing
// for config values, secret masking for logs, and string guards.
package util
