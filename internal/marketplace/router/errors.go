package router

import (
	"net/http"

	"github.com/OpenDataspace/portal/internal/apperrors"
)

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidArgument:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs
		http.Error(w, "internal server error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
