package respond

import "github.com/danielgtaylor/huma/v2/negotiation"

// problemFormats lists the problem encodings in preference order. JSON comes
// first so it wins when Accept names nothing else.
var problemFormats = []string{
	"application/json",
	"application/problem+json",
	"application/cbor",
	"application/problem+cbor",
}

// selectFormat reports whether the problem body should be CBOR. It ranks
// Accept the same way huma negotiates handler responses, so a client gets one
// format for both.
func selectFormat(accept string) bool {
	switch negotiation.SelectQValueFast(accept, problemFormats) {
	case "application/cbor", "application/problem+cbor":
		return true
	}
	return false
}
