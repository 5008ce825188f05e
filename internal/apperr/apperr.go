package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindUpstream      Kind = "upstream"
	KindNotConfigured Kind = "not_configured"
	KindInternal      Kind = "internal"
)

// Error is a classified failure. Only the HTTP boundary turns it into a
// status code.
type Error struct {
	Kind    Kind
	Message string
	// Status is the upstream status code for KindUpstream, zero otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NotConfigured(service string) *Error {
	return &Error{Kind: KindNotConfigured, Message: service + " is not configured"}
}

func Upstream(status int, msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: msg, Err: err}
}

// Wrap classifies err under kind while keeping it in the chain.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps err to the status code the API responds with.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindNotConfigured:
		return http.StatusNotImplemented
	case KindUpstream:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to return to clients. Internal errors
// only expose their cause when verbose is set.
func PublicMessage(err error, verbose bool) string {
	var e *Error
	if !errors.As(err, &e) {
		if verbose {
			return err.Error()
		}
		return "internal server error"
	}

	switch e.Kind {
	case KindInternal:
		if verbose {
			return e.Error()
		}
		return "internal server error"
	case KindUpstream:
		return e.Error()
	default:
		return e.Message
	}
}
