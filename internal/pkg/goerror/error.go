package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Type buckets errors into the three categories the handlers care about.
type Type int

const (
	// TypeServer represents infrastructure or programming failures.
	TypeServer Type = iota
	// TypeBusiness represents domain rule rejections.
	TypeBusiness
	// TypeValidation represents malformed or incomplete input.
	TypeValidation
)

// String returns the string representation of the error type.
func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	default:
		return "ERROR_TYPE_SERVER"
	}
}

// Code is a stable identifier mapped to an HTTP status at the edge.
type Code int

const (
	// CodeInternal is an internal or unspecified failure.
	CodeInternal Code = iota
	// CodeInvalidFormat means the request body could not be decoded.
	CodeInvalidFormat
	// CodeInvalidInput means a decoded field failed validation.
	CodeInvalidInput
	// CodeNotFound means the referenced record does not exist.
	CodeNotFound
	// CodeUnauthorized means authentication was rejected.
	CodeUnauthorized
	// CodeTimeout means a collaborator did not answer in time.
	CodeTimeout
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case CodeInvalidFormat:
		return "ERROR_CODE_INVALID_FORMAT"
	case CodeInvalidInput:
		return "ERROR_CODE_INVALID_INPUT"
	case CodeNotFound:
		return "ERROR_CODE_NOT_FOUND"
	case CodeUnauthorized:
		return "ERROR_CODE_UNAUTHORIZED"
	case CodeTimeout:
		return "ERROR_CODE_TIMEOUT"
	default:
		return "ERROR_CODE_INTERNAL"
	}
}

// Error is the structured error carried between usecases and the HTTP edge.
// It wraps an underlying cause while keeping a user-facing message, a type,
// and a stable code.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}
	return e.errType.String()
}

// String returns a verbose representation for logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType.String(), e.code.String(), e.msg, e.err)
}

// Msg returns the user-facing message, if set.
func (e *Error) Msg() string {
	return e.msg
}

// Type returns the high-level error type.
func (e *Error) Type() Type {
	return e.errType
}

// Code returns the stable error code.
func (e *Error) Code() Code {
	return e.code
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.err
}

// StatusCode maps the error code to an HTTP status code.
func (e *Error) StatusCode() int {
	switch e.code {
	case CodeInvalidFormat, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeTimeout:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewServer wraps an infrastructure failure.
func NewServer(err error) error {
	return &Error{err: err, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness creates a domain rejection with the given message and code.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput wraps a validation failure on decoded input.
func NewInvalidInput(err error) error {
	return &Error{err: err, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
}

// NewInvalidFormat creates a validation error for an undecodable request body.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}
