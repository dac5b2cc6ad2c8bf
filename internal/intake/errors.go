package intake

import (
	"errors"
	"net/http"
)

// Kind classifies why a request failed. Every kind is terminal: nothing
// in the intake path retries.
type Kind int

const (
	KindInternal Kind = iota
	KindMethodNotAllowed
	KindMissingCredential
	KindInvalidCredential
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindMissingCredential:
		return "missing_credential"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is the error type returned by the Service.
//
// Message is safe to show the caller. Err, when set, is the underlying
// cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrMethodNotAllowed  = &Error{Kind: KindMethodNotAllowed, Message: "Method not allowed"}
	ErrMissingCredential = &Error{Kind: KindMissingCredential, Message: "Missing x-siri-token header"}
	ErrInvalidCredential = &Error{Kind: KindInvalidCredential, Message: "Invalid token"}
)

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func internalError(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of err. Anything that is not an *Error is
// internal by definition.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps err to the HTTP status the endpoint answers with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindMissingCredential, KindInvalidCredential:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text the caller sees. Internal failures never echo
// the cause: store errors can name tables, paths and hosts.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal error"
}
