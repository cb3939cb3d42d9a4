package services

import (
	"fmt"

	"github.com/hagglund/bokforing_backend/internal/apperrors"
	"github.com/hagglund/bokforing_backend/internal/core/domain"
)

// ValidationFailedError carries every structural violation found on a
// verification, so callers can show all problems in one round-trip.
type ValidationFailedError struct {
	Violations []domain.ValidationError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("verification validation failed with %d violation(s)", len(e.Violations))
}

// Unwrap makes the error match apperrors.ErrValidation.
func (e *ValidationFailedError) Unwrap() error {
	return apperrors.ErrValidation
}
