package repository

import (
	"context"
	"errors"
	"fmt"
	"hotel/infras/postgres"
	"hotel/shared/constant"
	"hotel/shared/failure"
)

// TranslateError maps driver errors onto the failure taxonomy. Errors that already carry a
// failure are returned unchanged and nil stays nil.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var f *failure.Failure
	if errors.As(err, &f) {
		return err
	}

	switch postgres.ErrorCode(err) {
	case constant.PqErrorCodeUniqueViolation:
		return failure.Conflict(fmt.Sprintf("%s already exists", entity))
	case constant.PqErrorCodeFkViolation:
		return failure.NotFound(fmt.Sprintf("%s references a record that does not exist", entity))
	case constant.PqErrorCodeExclusionViolation:
		return failure.ConflictWithReason(failure.ReasonRoomUnavailable, "room is not available for the selected dates", map[string]any{
			"constraint": postgres.ConstraintName(err),
		})
	case constant.PqErrorCodeCheckViolation:
		return failure.Validation(entity, fmt.Sprintf("%s violates constraint %s", entity, postgres.ConstraintName(err)))
	case constant.PqErrorCodeInvalidText:
		return failure.Validation(entity, "malformed identifier")
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	return failure.Storage(err)
}
