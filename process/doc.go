// Package process runs external tools (yt-dlp, ffmpeg, ffprobe) as
// subprocesses bound to a context.
//
// Cancellation sends SIGTERM to the child's process group and escalates to
// SIGKILL after the command's grace period. Runner layers the provider
// resilience chain over Run and can be wrapped by provider middleware.
package process
