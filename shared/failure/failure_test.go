package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hotelbook/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("date_to must be after date_from")), code: http.StatusBadRequest, message: "date_to must be after date_from"},
		{name: "bad request from string", err: failure.BadRequestFromString("invalid body"), code: http.StatusBadRequest, message: "invalid body"},
		{name: "unauthorized", err: failure.Unauthorized("Token has expired"), code: http.StatusUnauthorized, message: "Token has expired"},
		{name: "forbidden", err: failure.Forbidden("staff only"), code: http.StatusForbidden, message: "staff only"},
		{name: "predefined forbidden", err: failure.ForbiddenError, code: http.StatusForbidden, message: "You don't have the required permissions"},
		{name: "not found", err: failure.NotFound("room not found"), code: http.StatusNotFound, message: "room not found"},
		{name: "conflict", err: failure.Conflict("no rooms left"), code: http.StatusConflict, message: "no rooms left"},
		{name: "unavailable", err: failure.Unavailable("retry later"), code: http.StatusServiceUnavailable, message: "retry later"},
		{name: "internal", err: failure.InternalError(errors.New("failed to store booking")), code: http.StatusInternalServerError, message: "failed to store booking"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fail *failure.Failure

			assert.ErrorAs(t, tt.err, &fail)
			assert.Equal(t, tt.code, fail.Code)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNilErrorsStayNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	noCapacity := failure.Conflict("no rooms left")

	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "failure", err: noCapacity, code: http.StatusConflict},
		{name: "wrapped failure", err: fmt.Errorf("failed to admit booking: %w", noCapacity), code: http.StatusConflict},
		{name: "joined failure", err: errors.Join(errors.New("rollback failed"), failure.Unavailable("busy")), code: http.StatusServiceUnavailable},
		{name: "plain error", err: errors.New("connection refused"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	noCapacity := failure.Conflict("no rooms left")
	other := failure.Conflict("no rooms left")

	assert.ErrorIs(t, fmt.Errorf("admit: %w", noCapacity), noCapacity)
	assert.NotErrorIs(t, noCapacity, other)
}
