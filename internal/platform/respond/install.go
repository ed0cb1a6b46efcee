package respond

import (
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
)

var installOnce sync.Once

// Install makes huma report schema mismatches (422) and oversized bodies (413)
// as 400 Bad Request. Safe to call more than once.
func Install() {
	installOnce.Do(func() {
		newError := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return newError(bodyStatus(status), msg, errs...)
		}
		newErrorWithContext := huma.NewErrorWithContext
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			return newErrorWithContext(hctx, bodyStatus(status), msg, errs...)
		}
	})
}

func bodyStatus(status int) int {
	switch status {
	case http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return http.StatusBadRequest
	}
	return status
}
