package middleware

import (
	"net/http"
)

// DefaultMaxBodySize is 1MB, enough for any event or registration payload.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize limits the size of incoming request bodies with
// http.MaxBytesReader; oversized bodies fail the JSON decode in handlers.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}
