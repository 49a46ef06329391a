// Package protocol error codes and types for wire-level failures.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents standardized wire-level error codes.
type ErrorCode int

const (
	// Framing errors (2000-2099)
	ErrorCodeUnknownMessage    ErrorCode = 2001
	ErrorCodeTruncatedMessage  ErrorCode = 2002
	ErrorCodeMissingTerminator ErrorCode = 2003
	ErrorCodeUnexpectedMessage ErrorCode = 2004
)

// Error represents a wire-level protocol failure with a structured code.
type Error struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		detailsJSON, _ := json.Marshal(e.Details)
		return fmt.Sprintf("[%d] %s (details: %s)", e.Code, e.Message, string(detailsJSON))
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// NewError creates a new protocol error.
func NewError(code ErrorCode, message string, details map[string]interface{}) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// MissingTerminatorError reports a response window that ended without its
// close-completion marker. This is a framing fault, never an empty result.
func MissingTerminatorError(statement string) *Error {
	return NewError(ErrorCodeMissingTerminator, "stream ended before close-completion marker", map[string]interface{}{
		"statement": statement,
	})
}

// UnexpectedMessageError reports a backend message that violates the
// expected flow sequencing.
func UnexpectedMessageError(expected string, got BackendMessage) *Error {
	return NewError(ErrorCodeUnexpectedMessage, "unexpected backend message", map[string]interface{}{
		"expected": expected,
		"got":      fmt.Sprintf("%T", got),
	})
}
