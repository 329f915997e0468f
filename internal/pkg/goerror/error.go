// Package goerror is the error vocabulary shared by every layer: outbound
// adapters return the sentinels, usecases return *Error, and the router turns
// *Error into an HTTP response.
package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned by repositories on a unique violation.
	ErrConflict = errors.New("resource conflict")
)

// Type classifies errors into high-level buckets.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeValidation:
		return "ERROR_TYPE_VALIDATION"
	case TypeBusiness:
		return "ERROR_TYPE_BUSINESS"
	case TypeServer:
		return "ERROR_TYPE_SERVER"
	default:
		return "ERROR_TYPE_UNKNOWN"
	}
}

// Code is a stable identifier mapped to an HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
	CodeTooManyRequest
	CodeUnauthorized
	CodeForbidden
	CodeTimeout
	CodeUnavailable
)

var codes = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:       {"ERROR_CODE_INTERNAL", http.StatusInternalServerError},
	CodeInvalidFormat:  {"ERROR_CODE_INVALID_FORMAT", http.StatusBadRequest},
	CodeInvalidInput:   {"ERROR_CODE_INVALID_INPUT", http.StatusUnprocessableEntity},
	CodeNotFound:       {"ERROR_CODE_NOT_FOUND", http.StatusNotFound},
	CodeConflict:       {"ERROR_CODE_CONFLICT", http.StatusConflict},
	CodeTooManyRequest: {"ERROR_CODE_TOO_MANY_REQUESTS", http.StatusTooManyRequests},
	CodeUnauthorized:   {"ERROR_CODE_UNAUTHORIZED", http.StatusUnauthorized},
	CodeForbidden:      {"ERROR_CODE_FORBIDDEN", http.StatusForbidden},
	CodeTimeout:        {"ERROR_CODE_TIMEOUT", http.StatusRequestTimeout},
	CodeUnavailable:    {"ERROR_CODE_UNAVAILABLE", http.StatusServiceUnavailable},
}

func (c Code) String() string {
	if v, ok := codes[c]; ok {
		return v.name
	}

	return codes[CodeInternal].name
}

// Error carries a user-facing message, a type and a code, and may wrap the
// underlying cause.
type Error struct {
	err     error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	if e.msg != "" {
		return e.msg
	}

	switch e.errType {
	case TypeValidation:
		return "Validation violation"
	case TypeBusiness:
		return "Logical business not meet with requirement"
	case TypeServer:
		return "Internal error"
	default:
		return "Unknown error"
	}
}

// String is the verbose form used in logs.
func (e *Error) String() string {
	return fmt.Sprintf("Error Type: %s, Code: %s, Message: %s, Underlying Error: %v",
		e.errType, e.code, e.msg, e.err)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type                { return e.errType }
func (e *Error) Code() Code                { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error             { return e.err }

// StatusCode maps the code to an HTTP status.
func (e *Error) StatusCode() int {
	if v, ok := codes[e.code]; ok {
		return v.status
	}

	return http.StatusInternalServerError
}

func build(err error, msg string, et Type, code Code) *Error {
	return &Error{err: err, msg: msg, errType: et, code: code}
}

// NewServer wraps an infrastructure failure. The cause is kept for logs and
// never shown to clients.
func NewServer(err error) error {
	return build(err, "Internal server error", TypeServer, CodeInternal)
}

// NewBusiness reports a rule violation such as a missing resource or an
// exhausted rate limit.
func NewBusiness(msg string, code Code) error {
	return build(nil, msg, TypeBusiness, code)
}

// NewInvalidInput wraps a validator error, or builds one from field/message
// pairs when err is nil.
func NewInvalidInput(err error, kv ...string) error {
	if err != nil {
		return build(err, "Validation error", TypeValidation, CodeInvalidInput)
	}
	if len(kv)%2 != 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	e := build(nil, "Validation error", TypeValidation, CodeInvalidInput)
	e.fields = make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		e.fields[kv[i]] = kv[i+1]
	}

	return e
}

// NewInvalidFormat reports a request body that could not be decoded.
func NewInvalidFormat(msgs ...string) error {
	if len(msgs) == 0 {
		return build(nil, "Invalid request body", TypeValidation, CodeInvalidFormat)
	}

	return build(nil, msgs[0], TypeValidation, CodeInvalidFormat)
}

// NewInvalidFormatError reports malformed data while keeping err reachable
// through errors.Is and errors.As.
func NewInvalidFormatError(err error, msg string) error {
	return build(err, msg, TypeValidation, CodeInvalidFormat)
}
