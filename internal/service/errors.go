package service

import (
	"errors"

	"github.com/spec-kit/consulting-service/internal/repository"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// storageError maps repository sentinels onto client-facing errors.
func storageError(err error, noun string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(noun, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(noun+" already exists", nil)
	default:
		return apperrors.MapError(err)
	}
}

// duplicateAsValidation reports a unique-field clash as a field error.
func duplicateAsValidation(err error, field, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.NewValidationError(message, map[string]any{field: message})
	}
	return nil
}
