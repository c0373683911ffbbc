package response

import (
	"errors"
	"net/http"

	"github.com/rgehrsitz/paygo/internal/domain"
)

// FieldErrors carries per-field request validation failures
type FieldErrors map[string]string

func (f FieldErrors) Error() string { return "request validation failed" }

// Unwrap lets errors.Is(err, domain.ErrValidation) match
func (f FieldErrors) Unwrap() error { return domain.ErrValidation }

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		ValidationError(w, "Validation failed", fields)
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, domain.ErrValidation):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, domain.ErrDataIntegrity):
		UnprocessableEntity(w, err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		ConfigurationError(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
