package store

import (
	"context"
	"errors"

	"github.com/frahmantamala/hr-assistant/internal"
)

// ToAppError converts err into the typed error set. AppErrors anywhere in the
// chain pass through unchanged; storage failures are classified by sentinel;
// anything else is treated as storage trouble.
func ToAppError(err error) *internal.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForeignKey):
		return internal.NewNotFoundError("referenced record not found", internal.ErrCodeRecordNotFound).WithCause(err)
	case errors.Is(err, ErrDuplicate):
		return internal.NewConflictError("record already exists", internal.ErrCodeDuplicateRecord).WithCause(err)
	case errors.Is(err, ErrCheck):
		return internal.NewConflictError("change violates a data constraint", internal.ErrCodeConstraintViolated).WithCause(err)
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return internal.NewPersistenceError("storage did not answer in time", internal.ErrCodeTimeout, err)
	}
	return internal.NewPersistenceError("storage unavailable", internal.ErrCodeStorageUnavailable, err)
}
