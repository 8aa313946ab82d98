package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain layer. NotFound and Refused both mean
// "the operation produced no result"; they map to different status codes at
// the edge only.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrRefused      = errors.New("operation refused")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors onto RFC7807 responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrRefused):
		Problem(w, http.StatusBadRequest, "Refused", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
