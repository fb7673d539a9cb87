// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to statusFor for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/livebid/pkg/httpx"
	auctiondomain "github.com/ghuser/livebid/services/auction/domain"
)

// WriteError writes err as a JSON error response with the status its
// sentinel maps to. Unrecognized errors are 500 and their text is hidden.
func WriteError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	httpx.JSONError(w, status, httpx.SafeError(err, status, true))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auctiondomain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, auctiondomain.ErrDuplicateItem):
		return http.StatusConflict
	case errors.Is(err, auctiondomain.ErrInvalidItem):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
