package errors

import (
	stderr "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentError_Error(t *testing.T) {
	assert.Equal(t, "task_not_found", (&AgentError{Code: CodeTaskNotFound}).Error())
	assert.Equal(t, "task_not_found: no such task", ErrTaskNotFound.WithMessagef("no such task").Error())
}

func TestWithMessagef_DoesNotMutateSentinel(t *testing.T) {
	original := ErrInternal.Message

	derived := ErrInternal.WithMessagef("boom: %d", 42)
	assert.Equal(t, "boom: 42", derived.Message)
	assert.Equal(t, CodeInternal, derived.Code)
	assert.Equal(t, original, ErrInternal.Message)
}

func TestWithDetails_DoesNotMutateSentinel(t *testing.T) {
	derived := ErrInvalidInput.WithDetails([]string{"path /text"})
	assert.NotNil(t, derived.Details)
	assert.Nil(t, ErrInvalidInput.Details)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    *AgentError
		status int
	}{
		{ErrInvalidRequest, http.StatusBadRequest},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrInvalidState, http.StatusBadRequest},
		{ErrStreamNotSupported, http.StatusBadRequest},
		{ErrDuplicateSkill, http.StatusBadRequest},
		{ErrParseError, http.StatusBadRequest},
		{ErrSkillNotFound, http.StatusNotFound},
		{ErrTaskNotFound, http.StatusNotFound},
		{ErrNotImplemented, http.StatusNotImplemented},
		{ErrInternal, http.StatusInternalServerError},
		{ErrInvalidOutput, http.StatusInternalServerError},
		{ErrTimeout, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("while settling: %w", ErrInvalidState.WithMessagef("task is completed"))

	ae, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidState, ae.Code)

	_, ok = As(stderr.New("plain"))
	assert.False(t, ok)
}
