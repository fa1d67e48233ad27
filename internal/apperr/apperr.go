// Package apperr carries client-facing failures as (kind, status, message).
package apperr

import (
	"errors"
	"net/http"
)

// Error is a failure the caller can act on. Message is safe to show to clients.
type Error struct {
	Kind    string
	Status  int
	Message string
}

// New declares an error value; services keep them as package-level sentinels.
func New(kind string, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func (e *Error) Error() string { return e.Message }

var (
	ErrUnauthorized = New("Unauthorized", http.StatusUnauthorized, "Unauthorized")
	ErrNotFound     = New("NotFound", http.StatusNotFound, "Not found")
	ErrBadRequest   = New("BadRequest", http.StatusBadRequest, "Invalid request body")
)

// From extracts the *Error in err's chain.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Kind returns the kind of err, "ok" for nil and "Internal" for anything
// that is not an *Error. Used as a metrics label.
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	if e, ok := From(err); ok {
		return e.Kind
	}
	return "Internal"
}
