package api

import (
	"errors"
	"net/http"

	"github.com/retrodesk/taskdesk-api/internal/api/shared"
	"github.com/retrodesk/taskdesk-api/internal/service"
)

// Error kinds exposed in the error envelope. Clients branch on these
// strings, so they are part of the wire contract.
const (
	ErrorTypeValidation = "ValidationError"
	ErrorTypeNotFound   = "NotFoundError"
	ErrorTypeInternal   = "InternalError"
)

// HandleServiceError translates a service error into the uniform error
// envelope. Validation and not-found errors pass their messages through
// verbatim; everything else becomes a generic internal error with the
// cause logged server-side only.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *service.ValidationError
	var notFoundErr *service.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		shared.RespondWithError(
			w, r, http.StatusBadRequest, ErrorTypeValidation, validationErr.Message,
		)
	case errors.As(err, &notFoundErr):
		shared.RespondWithError(
			w, r, http.StatusNotFound, ErrorTypeNotFound, notFoundErr.Message,
		)
	default:
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, ErrorTypeInternal,
			"Internal server error", err,
		)
	}
}

// NotFoundHandler answers any request that matched no route with the
// standardized envelope.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusNotFound, ErrorTypeNotFound, "Route not found")
}
