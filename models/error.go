package models

import (
	"errors"
	"net/http"
)

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}

// Domain error taxonomy. Guard and validation failures are terminal for the
// single operation; the unavailable errors are retryable infrastructure
// failures and are never collapsed into "no results".
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
	ErrDuplicateEntry    = errors.New("duplicate queue entry")
	ErrNotInQueue        = errors.New("not in responder queue")
	ErrAlreadyResponded  = errors.New("queue entry already responded")
	ErrIndexUnavailable  = errors.New("volunteer index unavailable")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

// StatusForError maps a domain error to the http status the handlers return
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotInQueue):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrConflict),
		errors.Is(err, ErrDuplicateEntry), errors.Is(err, ErrAlreadyResponded):
		return http.StatusConflict
	case errors.Is(err, ErrIndexUnavailable), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
