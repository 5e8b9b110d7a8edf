package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alrihal/umrah-office/internal/domain"
)

// errorResponse is the JSON envelope every error is returned in.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a service error onto the HTTP error envelope:
// ErrNotFound → 404, ErrConflict → 409, ErrValidation → 422, everything
// else → 500 with a generic body (the underlying error is logged, never
// leaked to the caller).
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{errorDetail{Code: "not_found", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{errorDetail{Code: "conflict", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	default:
		slog.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{Code: "internal", Message: "internal server error"}})
	}
}

// respondBadRequest returns a 422 for a request rejected before reaching the
// service layer (e.g. missing or malformed body, bad UUID in the path).
func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: message}})
}

// unwrapMessage strips the "layer.Type.Method: " wrapping prefixes from a
// sentinel error so the caller sees "name is required" rather than
// "service.TripService.Create: validation error: name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error(),
		domain.ErrConflict.Error(),
		domain.ErrNotFound.Error(),
	} {
		if i := strings.Index(msg, sentinel); i >= 0 {
			if rest, ok := strings.CutPrefix(msg[i+len(sentinel):], ": "); ok {
				return rest
			}
			return sentinel
		}
	}
	return msg
}
