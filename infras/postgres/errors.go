package postgres

import (
	"errors"
	"hotelbook/shared/constant"

	"github.com/lib/pq"
)

// ErrorCode returns the SQLSTATE carried by err, or "" when err is not a postgres error.
func ErrorCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// IsRetryable reports whether the transaction that produced err can be replayed from the start.
func IsRetryable(err error) bool {
	switch ErrorCode(err) {
	case constant.PqErrorCodeSerializationFailure,
		constant.PqErrorCodeDeadlockDetected,
		constant.PqErrorCodeLockNotAvailable:
		return true
	default:
		return false
	}
}

func IsIntegrityViolation(err error) bool {
	code := ErrorCode(err)

	return len(code) == 5 && code[:2] == constant.PqErrorClassIntegrity
}

func IsUniqueViolation(err error) bool {
	return ErrorCode(err) == constant.PqErrorCodeUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	return ErrorCode(err) == constant.PqErrorCodeFkViolation
}
