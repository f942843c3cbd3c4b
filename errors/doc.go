// Package errors provides the structured error type shared by every layer of
// the service. Each AppError carries a machine-readable code, the HTTP status
// the API should answer with, and whether the caller may retry.
//
// Media and recognition failures have their own codes so handlers and the
// live session can report them without string matching:
//
//	if errors.HasCode(err, errors.ErrCodeMissingCredentials) { ... }
package errors
