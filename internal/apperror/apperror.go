package apperror

import (
	"errors"
	"fmt"
)

// Error codes understood by the HTTP layer.
const (
	CodeConflict       = "CONFLICT"
	CodeBadCredentials = "BAD_CREDENTIALS"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeModelFailure   = "MODEL_GENERATION_FAILED"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is an application error with a stable code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error without a cause.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of the first Error in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func BadCredentials() *Error {
	return New(CodeBadCredentials, "incorrect username or password")
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

// ModelFailure reports that the named model failed to generate a response.
func ModelFailure(model string, cause error) *Error {
	return &Error{
		Code:    CodeModelFailure,
		Message: fmt.Sprintf("model %s error", model),
		Cause:   cause,
	}
}
