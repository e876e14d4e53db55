package middleware

import "net/http"

// DefaultMaxBodyBytes caps request bodies when no limit is configured.
// Prediction requests are a few dozen bytes.
const DefaultMaxBodyBytes = 64 << 10

// MaxBody limits the body of requests that carry one.
func MaxBody(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
