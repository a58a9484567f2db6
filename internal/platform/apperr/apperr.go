// Package apperr defines the error taxonomy shared by usecases and HTTP handlers.
//
// Usecases return *Error values (usually package-level sentinels) optionally wrapped with
// fmt.Errorf("...: %w"). Handlers resolve the Kind with KindOf and render the message
// returned by Message, so no layer needs to know HTTP status codes except this one.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error by how it surfaces to API callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
	KindUpstream
	// KindExtraction marks a document parse failure. It is never fatal to a request.
	KindExtraction
)

// String returns the lower-case name of the kind, used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstream:
		return "upstream"
	case KindExtraction:
		return "extraction"
	default:
		return "internal"
	}
}

// HTTPStatus maps the kind to the status code written by handlers.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New creates an error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error whose cause is kept for logging but hidden from API callers.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
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

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the text that is safe to show to API callers.
// Internal errors collapse to a generic message. Errors created with Wrap expose only
// their own message; sentinels wrapped with extra context expose the whole chain text.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	if e.Err != nil {
		return e.Message
	}
	return err.Error()
}
