// Package apperr defines the error taxonomy shared by the server, the GraphQL
// layer and the terminal client.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindAuthentication Kind = "UNAUTHENTICATED"
	KindValidation     Kind = "BAD_USER_INPUT"
	KindNotFound       Kind = "NOT_FOUND"
	KindNetwork        Kind = "NETWORK_ERROR"
	KindInternal       Kind = "INTERNAL_SERVER_ERROR"
)

// Error is a classified failure. A zero Message marks a kind-only sentinel.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

var (
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrNetwork        = &Error{Kind: KindNetwork}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind-only sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Extensions is read by the GraphQL executor and becomes the "extensions"
// member of the error.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.Kind)}
}

func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Network(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
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

// From converts any error into an *Error, keeping the classification of an
// *Error found in the chain.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal server error", err)
}

// Public returns the message that may be shown to end users. Internal and
// network details are replaced by generic text.
func Public(err error) string {
	e := From(err)
	switch e.Kind {
	case KindAuthentication, KindValidation, KindNotFound:
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	case KindNetwork:
		return "The service is temporarily unavailable. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ResponseCode maps a kind to the code used in the JSON error envelope.
func ResponseCode(kind Kind) string {
	switch kind {
	case KindAuthentication:
		return "UNAUTHORIZED"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindNetwork:
		return "BAD_GATEWAY"
	default:
		return "INTERNAL_ERROR"
	}
}
