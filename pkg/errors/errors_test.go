package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"not found", NotFound("schedule", nil), http.StatusNotFound},
		{"invalid argument", InvalidArgument("bad input", nil), http.StatusBadRequest},
		{"bad request", BadRequest("bad request", nil), http.StatusBadRequest},
		{"duplicate", DuplicateAppointment(uuid.New()), http.StatusConflict},
		{"unauthorized", Unauthorized(nil), http.StatusUnauthorized},
		{"internal", Internal(nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestDuplicateAppointmentMessage(t *testing.T) {
	id := uuid.New()
	err := DuplicateAppointment(id)
	assert.Equal(t, fmt.Sprintf("cannot add duplicate appointment %s to schedule", id), err.Message)
	assert.True(t, IsDuplicate(err))
}

func TestAppointmentNotFoundMessage(t *testing.T) {
	id := uuid.New()
	err := AppointmentNotFound(id)
	assert.Equal(t, fmt.Sprintf("no appointment with id %s found", id), err.Message)
	assert.True(t, IsNotFound(err))
}

func TestCodeUnwrapsWrappedErrors(t *testing.T) {
	inner := InvalidArgument("start time is required", nil)
	wrapped := fmt.Errorf("update failed: %w", inner)

	assert.Equal(t, ErrInvalidArgument, Code(wrapped))
	assert.True(t, IsInvalidArgument(wrapped))
	assert.False(t, IsNotFound(wrapped))
}

func TestCodeForeignError(t *testing.T) {
	assert.Equal(t, ErrInternal, Code(fmt.Errorf("plain failure")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := fmt.Errorf("row scan failed")
	err := NotFound("schedule", cause)
	assert.Contains(t, err.Error(), "schedule not found")
	assert.Contains(t, err.Error(), "row scan failed")
	assert.Equal(t, cause, err.Unwrap())
}
