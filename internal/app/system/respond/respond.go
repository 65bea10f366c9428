// Package respond renders success payloads and typed failures as JSON.
// It is the only place that maps the apperr taxonomy onto HTTP status
// codes, keeping the core transport-agnostic.
package respond

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/scholarlyhq/scholarly/internal/app/system/apperr"
)

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// Message writes a {"message": ...} envelope.
func Message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, map[string]string{"message": msg})
}

// Err maps a typed failure to an HTTP response. Capacity and conflict
// failures carry their structured detail so the caller can react.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *apperr.Validation
		notFound   *apperr.NotFound
		capExceed  *apperr.CapacityExceeded
		conflict   *apperr.Conflict
		partial    *apperr.PartialFailure
	)
	switch {
	case errors.As(err, &validation):
		Message(w, r, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		Message(w, r, http.StatusNotFound, notFound.Error())
	case errors.As(err, &capExceed):
		JSON(w, r, http.StatusBadRequest, map[string]any{
			"message":               "Class does not have enough capacity",
			"class_capacity":        capExceed.Capacity,
			"active_students_count": capExceed.ActiveCount,
			"required_capacity":     capExceed.Requested,
		})
	case errors.As(err, &conflict):
		JSON(w, r, http.StatusBadRequest, map[string]any{
			"message":  conflict.Message,
			"conflict": conflict.Entity,
		})
	case errors.As(err, &partial):
		// No rollback exists for a half-applied write set; surface it
		// as a server failure and rely on the writeset log for detail.
		Message(w, r, http.StatusInternalServerError, "operation partially applied; see server logs")
	default:
		Message(w, r, http.StatusInternalServerError, "internal server error")
	}
}
