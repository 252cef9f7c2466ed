// Package errors provides domain-specific error types for fibctl.
//
// Every failure the reconciliation engine can surface carries an ErrorCode,
// so callers (the command layer, the HTTP API, tests) can branch on the
// category with errors.Is without parsing messages.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeMalformedInput indicates an unparsable prefix, nexthop or argument list.
	// It is always raised before any network call.
	ErrCodeMalformedInput ErrorCode = "MALFORMED_INPUT"

	// ErrCodeAgentUnreachable indicates the FIB agent could not be connected to.
	ErrCodeAgentUnreachable ErrorCode = "AGENT_UNREACHABLE"

	// ErrCodeAgentTimeout indicates the FIB agent did not answer before the deadline.
	// The agent may or may not have applied the request.
	ErrCodeAgentTimeout ErrorCode = "AGENT_TIMEOUT"

	// ErrCodeAgentProtocol indicates a malformed or undecodable response.
	ErrCodeAgentProtocol ErrorCode = "AGENT_PROTOCOL_ERROR"

	// ErrCodeAgentRejected indicates the agent answered but refused the request.
	ErrCodeAgentRejected ErrorCode = "AGENT_REJECTED"

	// ErrCodeDecision indicates the decision module could not provide computed routes.
	ErrCodeDecision ErrorCode = "DECISION_ERROR"

	// ErrCodeKernelAccess indicates the kernel routing table could not be read.
	ErrCodeKernelAccess ErrorCode = "KERNEL_ACCESS_ERROR"

	// ErrCodeValidationMismatch indicates two route sources disagree.
	ErrCodeValidationMismatch ErrorCode = "VALIDATION_MISMATCH"

	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks; matching is by code only.
var (
	ErrMalformedInput     = New(ErrCodeMalformedInput, "malformed input")
	ErrAgentUnreachable   = New(ErrCodeAgentUnreachable, "agent unreachable")
	ErrAgentTimeout       = New(ErrCodeAgentTimeout, "agent timeout")
	ErrAgentProtocol      = New(ErrCodeAgentProtocol, "agent protocol error")
	ErrAgentRejected      = New(ErrCodeAgentRejected, "agent rejected request")
	ErrDecision           = New(ErrCodeDecision, "decision error")
	ErrKernelAccess       = New(ErrCodeKernelAccess, "kernel access error")
	ErrValidationMismatch = New(ErrCodeValidationMismatch, "validation mismatch")
	ErrConfig             = New(ErrCodeConfig, "configuration error")
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// NewMalformedInputError creates an input error naming the offending token.
func NewMalformedInputError(token string, cause error) *Error {
	return Wrap(ErrCodeMalformedInput, fmt.Sprintf("invalid token %q", token), cause)
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewKernelAccessError creates a new kernel routing table access error.
func NewKernelAccessError(message string, cause error) *Error {
	return Wrap(ErrCodeKernelAccess, message, cause)
}

// NewDecisionError creates a new decision module error.
func NewDecisionError(message string, cause error) *Error {
	return Wrap(ErrCodeDecision, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
