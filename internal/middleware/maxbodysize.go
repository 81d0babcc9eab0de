package middleware

import "net/http"

// NewMaxBodySize returns a middleware limiting request bodies to limit bytes.
// A request advertising a larger Content-Length is rejected with 413 before
// any body byte is read; bodies without a declared length are wrapped in
// http.MaxBytesReader so the decoding handler's read fails at the limit.
func NewMaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
