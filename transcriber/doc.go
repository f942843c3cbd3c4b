// Package transcriber runs the full transcription pipeline for one audio
// source:
//
//	acquire -> split -> transcribe each chunk -> assemble -> normalize -> render -> save
//
// Every run owns its scratch files and removes them on every exit path.
// Concurrent runs are bounded by a bulkhead; a full bulkhead fails fast
// with SERVICE_UNAVAILABLE.
package transcriber
