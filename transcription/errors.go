package transcription

import (
	"fmt"
	"net/http"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/httpclient"
)

// Failed reports err as a TranscriptionFailed error for backend. Errors
// that already carry an application code pass through. Client errors are
// classified into a "reason" detail so callers can tell rejected
// credentials from an overloaded or unreachable backend.
func Failed(backend string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	appErr := errors.TranscriptionFailed(backend, err)
	switch {
	case httpclient.IsAuth(err):
		appErr.Message = fmt.Sprintf("The %s transcription backend rejected its credentials.", backend)
		appErr.WithDetail("reason", "auth")
	case httpclient.IsNotFound(err):
		appErr.WithDetail("reason", "not_found")
	case httpclient.IsRateLimit(err):
		appErr.WithDetail("reason", "rate_limit")
	case httpclient.IsTimeout(err):
		appErr.HTTPStatus = http.StatusGatewayTimeout
		appErr.WithDetail("reason", "timeout")
	case httpclient.IsConnection(err):
		appErr.WithDetail("reason", "connection")
	case httpclient.IsServerError(err):
		appErr.WithDetail("reason", "backend_error")
	}
	return appErr
}
