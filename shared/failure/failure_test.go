package failure_test

import (
	"errors"
	"eventdesk/shared/failure"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("bad body")), code: http.StatusBadRequest, message: "bad body"},
		{name: "bad request from string", err: failure.BadRequestFromString("end date is before start date"), code: http.StatusBadRequest, message: "end date is before start date"},
		{name: "unauthorized", err: failure.Unauthorized("invalid token"), code: http.StatusUnauthorized, message: "invalid token"},
		{name: "internal", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError, message: "boom"},
		{name: "not found", err: failure.NotFound("booking"), code: http.StatusNotFound, message: "booking not found"},
		{name: "conflict", err: failure.Conflict("this time conflicts with an existing activity"), code: http.StatusConflict, message: "this time conflicts with an existing activity"},
		{name: "forbidden", err: failure.Forbidden("admins only"), code: http.StatusForbidden, message: "admins only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNilErrors(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("update booking: %w", failure.Conflict("overlap"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("plain")))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
}
