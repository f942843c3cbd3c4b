package middleware

import (
	"net/http"

	"github.com/kbukum/subtitler/util"
)

const defaultMaxBodySize = 256 << 20

// BodySizeLimit caps request bodies at maxSize ("256MB", "512KB"). An
// unparsable size falls back to 256MB.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, size)
			}
			next.ServeHTTP(w, r)
		})
	}
}
