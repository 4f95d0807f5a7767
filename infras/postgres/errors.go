package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// ErrorCode returns the SQLSTATE of a driver error anywhere in err's chain.
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

func IsErrorCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// ConstraintName returns the violated constraint of a driver error, if any.
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return ""
}
