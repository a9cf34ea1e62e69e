package errors

import (
	stderr "errors"
	"fmt"
	"net/http"
)

/*
Code identifies one member of the closed error taxonomy. Every error that
crosses the wire carries exactly one of these codes.
*/
type Code string

const (
	CodeInvalidRequest     Code = "invalid_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvalidOutput      Code = "invalid_output"
	CodeInvalidSkill       Code = "invalid_skill"
	CodeDuplicateSkill     Code = "duplicate_skill"
	CodeSkillNotFound      Code = "skill_not_found"
	CodeTaskNotFound       Code = "task_not_found"
	CodeNotImplemented     Code = "not_implemented"
	CodeInvalidState       Code = "invalid_state"
	CodeStreamNotSupported Code = "stream_not_supported"
	CodeInternal           Code = "internal_error"
	CodeParseError         Code = "parse_error"
	CodeCardFetchFailed    Code = "card_fetch_failed"
	CodeTimeout            Code = "timeout"
)

/*
AgentError is the single error shape used across the runtime. It doubles as
the wire representation inside the `{"error": {...}}` response body.
*/
type AgentError struct {
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *AgentError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Convenience errors, one per taxonomy code. Application code derives
// specialised instances via WithMessagef / WithDetails.
var (
	ErrInvalidRequest     = &AgentError{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrInvalidInput       = &AgentError{Code: CodeInvalidInput, Message: "input does not match the declared schema"}
	ErrInvalidOutput      = &AgentError{Code: CodeInvalidOutput, Message: "output does not match the declared schema"}
	ErrInvalidSkill       = &AgentError{Code: CodeInvalidSkill, Message: "invalid skill definition"}
	ErrDuplicateSkill     = &AgentError{Code: CodeDuplicateSkill, Message: "a skill with this key is already registered"}
	ErrSkillNotFound      = &AgentError{Code: CodeSkillNotFound, Message: "skill not found"}
	ErrTaskNotFound       = &AgentError{Code: CodeTaskNotFound, Message: "task not found"}
	ErrNotImplemented     = &AgentError{Code: CodeNotImplemented, Message: "operation not implemented for this skill"}
	ErrInvalidState       = &AgentError{Code: CodeInvalidState, Message: "task is not in a cancellable state"}
	ErrStreamNotSupported = &AgentError{Code: CodeStreamNotSupported, Message: "skill does not support streaming"}
	ErrInternal           = &AgentError{Code: CodeInternal, Message: "internal error"}
	ErrParseError         = &AgentError{Code: CodeParseError, Message: "failed to parse event payload"}
	ErrCardFetchFailed    = &AgentError{Code: CodeCardFetchFailed, Message: "failed to fetch agent card"}
	ErrTimeout            = &AgentError{Code: CodeTimeout, Message: "deadline exhausted while waiting for the task"}
)

/*
WithMessagef creates a *copy* of an AgentError with a formatted message.
It does not modify the original error variable.
*/
func (e *AgentError) WithMessagef(format string, args ...any) *AgentError {
	newErr := *e
	newErr.Message = fmt.Sprintf(format, args...)
	return &newErr
}

/*
WithDetails creates a *copy* of an AgentError carrying structured details,
typically a list of validation issues.
*/
func (e *AgentError) WithDetails(details any) *AgentError {
	newErr := *e
	newErr.Details = details
	return &newErr
}

/*
HTTPStatus maps a taxonomy code onto the HTTP status it surfaces as.
*/
func (e *AgentError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeInvalidInput, CodeInvalidState,
		CodeStreamNotSupported, CodeInvalidSkill, CodeDuplicateSkill,
		CodeParseError:
		return http.StatusBadRequest
	case CodeSkillNotFound, CodeTaskNotFound:
		return http.StatusNotFound
	case CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

/*
As unwraps err into an *AgentError if possible.
*/
func As(err error) (*AgentError, bool) {
	var ae *AgentError
	if stderr.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
