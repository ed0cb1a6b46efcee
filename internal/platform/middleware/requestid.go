package middleware

import (
	"context"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const maxRequestIDLength = 128

// RequestID stores a request identifier under chi's RequestIDKey, so
// chimiddleware.GetReqID works downstream, and echoes it in X-Request-Id.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := requestIDFor(r)
			w.Header().Set(chimiddleware.RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestIDFor reuses the caller's X-Request-Id when it is safe to echo and
// log, and otherwise mints a UUIDv4.
func requestIDFor(r *http.Request) string {
	if id := r.Header.Get(chimiddleware.RequestIDHeader); isValidRequestID(id) {
		return id
	}
	return uuid.NewString()
}

// isValidRequestID accepts 1 to maxRequestIDLength printable ASCII bytes.
func isValidRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	return strings.IndexFunc(id, func(c rune) bool { return c < 0x20 || c > 0x7E }) < 0
}
