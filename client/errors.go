package client

import (
	"fmt"

	"github.com/featherdb/pgdriver/protocol"
)

// ArgumentError reports a nil or invalid required argument. These are
// programmer errors raised synchronously, before any wire interaction.
type ArgumentError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrNilArgument creates an ArgumentError for a required argument that was
// nil.
func ErrNilArgument(name string) *ArgumentError {
	return &ArgumentError{
		Code:    "E_NIL_ARGUMENT",
		Message: fmt.Sprintf("%s must not be nil", name),
	}
}

// IdentifierError reports a named placeholder that does not match the
// placeholder grammar.
type IdentifierError struct {
	Code       string
	Message    string
	Identifier string
}

// Error implements the error interface.
func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrInvalidIdentifier creates an IdentifierError for an identifier that is
// not of the $n pattern.
func ErrInvalidIdentifier(identifier string) *IdentifierError {
	return &IdentifierError{
		Code:       "E_INVALID_IDENTIFIER",
		Message:    fmt.Sprintf("identifier %q is not valid, should be of the pattern '$<positive integer>'", identifier),
		Identifier: identifier,
	}
}

// ValidationError reports a finished binding that is missing one or more
// expected parameter indices. It is raised at finish time, before any frame
// is sent.
type ValidationError struct {
	Code     string
	Message  string
	Expected int
	Missing  []int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrIncompleteBinding creates a ValidationError listing the unbound
// parameter indices.
func ErrIncompleteBinding(expected int, missing []int) *ValidationError {
	return &ValidationError{
		Code:     "E_INCOMPLETE_BINDING",
		Message:  fmt.Sprintf("binding expects %d parameters, indices %v not bound", expected, missing),
		Expected: expected,
		Missing:  missing,
	}
}

// StateError reports an operation attempted in a state that does not allow
// it, independent of execution.
type StateError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrNoBindings creates a StateError for executing with an empty binding
// sequence.
func ErrNoBindings() *StateError {
	return &StateError{
		Code:    "E_NO_BINDINGS",
		Message: "no parameters have been bound",
	}
}

// ErrAlreadyReturning creates a StateError for a redundant generated-values
// request.
func ErrAlreadyReturning() *StateError {
	return &StateError{
		Code:    "E_ALREADY_RETURNING",
		Message: "statement already includes a RETURNING clause",
	}
}

// ErrUnsupportedGeneratedCommand creates a StateError for a generated-values
// request on a command that cannot return generated values.
func ErrUnsupportedGeneratedCommand() *StateError {
	return &StateError{
		Code:    "E_UNSUPPORTED_COMMAND",
		Message: "statement is not a DELETE, INSERT, or UPDATE command",
	}
}

// ServerError is a failure reported by the server within the result stream.
// It carries the originating SQL for diagnostic context and fails only the
// Result it was reported for.
type ServerError struct {
	Severity string
	SQLState string
	Message  string
	Detail   string
	Hint     string
	Position string

	// Query is the SQL text whose execution produced this error.
	Query string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	msg := fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.SQLState)
	if e.Query != "" {
		msg = fmt.Sprintf("%s [query: %s]", msg, e.Query)
	}
	return msg
}

// newServerError translates an ErrorResponse, attaching the SQL text.
func newServerError(resp protocol.ErrorResponse, sql string) *ServerError {
	return &ServerError{
		Severity: resp.Severity,
		SQLState: resp.Code,
		Message:  resp.Message,
		Detail:   resp.Detail,
		Hint:     resp.Hint,
		Position: resp.Position,
		Query:    sql,
	}
}
