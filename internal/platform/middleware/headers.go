package middleware

import (
	"net/http"
	"strings"
)

// apiHeaders are the OWASP REST security headers. Cache-Control: no-store also
// keeps intermediaries from serving a greeting that has since been replaced.
var apiHeaders = [...]struct{ name, value string }{
	{"Cache-Control", "no-store"},
	{"Content-Security-Policy", "frame-ancestors 'none'"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Permissions-Policy", "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
}

// Headers adds "Vary: Accept" to every response, because the body format is
// negotiated from Accept, and sets the security headers on every response whose
// path does not start with one of docsPrefixes. The interactive docs page needs
// inline assets the headers would block.
func Headers(docsPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Accept")
			if !hasAnyPrefix(r.URL.Path, docsPrefixes) {
				for _, hdr := range apiHeaders {
					h.Set(hdr.name, hdr.value)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
