package engine

import (
	"errors"
	"fmt"
)

// ErrorCode classifies agent errors for logging and recovery decisions.
type ErrorCode string

const (
	// CodePlanNotFound: the planner exhausted its search budget without
	// reaching a goal-satisfying state. Recovered by the fallback action.
	CodePlanNotFound ErrorCode = "PLAN_NOT_FOUND"

	// CodeStalePlan: the live world no longer matches what the next plan
	// step assumed. Recovered by replanning.
	CodeStalePlan ErrorCode = "STALE_PLAN"

	// CodeActionFailed: a simulated action failure. Expected, recorded to
	// memory, recovered by replanning.
	CodeActionFailed ErrorCode = "ACTION_FAILED"

	// CodeInvalidState: an externally supplied world state failed
	// validation. The only non-recoverable code.
	CodeInvalidState ErrorCode = "INVALID_STATE"
)

// AgentError is a typed error carrying the classification code.
type AgentError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AgentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AgentError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether normal operation continues after this error.
func (e *AgentError) Recoverable() bool {
	return e.Code != CodeInvalidState
}

// NewError builds an AgentError.
func NewError(code ErrorCode, message string, err error) *AgentError {
	return &AgentError{Code: code, Message: message, Err: err}
}

// IsCode reports whether err is (or wraps) an AgentError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AgentError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
