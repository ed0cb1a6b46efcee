package middleware

import (
	"mime"
	"net/http"
	"strings"
)

// DefaultContentType rewrites the Content-Type of requests that carry a body
// in a format the API cannot decode, so the body is parsed as JSON. Requests
// that declare JSON or CBOR (including +json and +cbor suffixes) pass through
// unchanged. A body that is not JSON still fails parsing downstream with 400.
func DefaultContentType() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody && !isDecodable(r.Header.Get("Content-Type")) {
				r.Header.Set("Content-Type", "application/json")
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isDecodable(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case mediaType == "application/json", mediaType == "application/cbor":
		return true
	case strings.HasSuffix(mediaType, "+json"), strings.HasSuffix(mediaType, "+cbor"):
		return true
	}
	return false
}
