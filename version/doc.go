// Package version exposes build metadata for the /info endpoint and the
// startup banner.
//
//	go build -ldflags "-X github.com/kbukum/subtitler/version.Version=1.2.0"
package version
