package types

import "fmt"

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Request and resource error codes
const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrWorkflowNotFound  ErrorCode = "WORKFLOW_NOT_FOUND"
	ErrExecutionNotFound ErrorCode = "EXECUTION_NOT_FOUND"
)

// Node configuration error codes
const (
	ErrUnsupportedMethod ErrorCode = "UNSUPPORTED_METHOD"
	ErrConditionType     ErrorCode = "CONDITION_TYPE"
	ErrUnknownNodeKind   ErrorCode = "UNKNOWN_NODE_KIND"
)

// Infrastructure error codes
const (
	ErrStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	ErrTimeout            ErrorCode = "TIMEOUT"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WrapError wraps an arbitrary error into a structured Error. Existing
// *Error values pass through unchanged.
func WrapError(code ErrorCode, message string, cause error) *Error {
	if e, ok := cause.(*Error); ok {
		return e
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// NewInvalidRequestError creates an invalid-request error.
func NewInvalidRequestError(message string) *Error {
	return NewError(ErrInvalidRequest, message).WithHTTPStatus(400)
}

// NewNotFoundError creates a resource-not-found error.
func NewNotFoundError(code ErrorCode, message string) *Error {
	return NewError(code, message).WithHTTPStatus(404)
}

// NewInternalError creates an internal error wrapping a cause.
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternalError, message).WithHTTPStatus(500).WithCause(cause)
}
