// Package greeting provides a stateless HTTP Cloud Function that serves the
// default greeting.
package greeting

import (
	"encoding/json"
	"net/http"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
)

// DefaultMessage matches the server's initial greeting.
const DefaultMessage = "Hello, World"

func init() {
	functions.HTTP("Greeting", greetingHandler)
}

// Response is the greeting wire shape.
type Response struct {
	Msg string `json:"msg"`
}

func greetingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(Response{Msg: DefaultMessage})
}
