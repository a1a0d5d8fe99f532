package response

import (
	"errors"
	"net/http"

	"github.com/lojaops/commission-backend-go/internal/domain/auth"
	"github.com/lojaops/commission-backend-go/internal/domain/catalog"
	"github.com/lojaops/commission-backend-go/internal/domain/commission"
	"github.com/lojaops/commission-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Commission domain errors
	case errors.Is(err, commission.ErrCommissionNotFound):
		NotFound(w, "Commission not found")
	case errors.Is(err, commission.ErrInvalidTransition):
		Conflict(w, "Invalid commission status transition")
	case errors.Is(err, commission.ErrUnknownStatus):
		BadRequest(w, "Unknown commission status", nil)
	case errors.Is(err, commission.ErrInvalidSaleDate):
		BadRequest(w, "Invalid sale date", nil)
	case errors.Is(err, commission.ErrInvalidPeriod):
		BadRequest(w, "Invalid period reference", nil)

	// Catalog domain errors
	case errors.Is(err, catalog.ErrProductNotFound):
		NotFound(w, "Product not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
