package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	KindValidation          = "VALIDATION_ERROR"
	KindUnauthorized        = "UNAUTHORIZED"
	KindPaymentNotConfirmed = "PAYMENT_NOT_CONFIRMED"
	KindNotFound            = "NOT_FOUND"
	KindSlotConflict        = "SLOT_CONFLICT"
	KindTransient           = "TRANSIENT"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Kind    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, kind, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// Helpers for the booking error taxonomy
var (
	ErrValidation          = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, KindValidation, msg) }
	ErrUnauthorized        = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, KindUnauthorized, msg) }
	ErrPaymentNotConfirmed = func(msg string) *HTTPError { return NewHTTPError(http.StatusForbidden, KindPaymentNotConfirmed, msg) }
	ErrNotFound            = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, KindNotFound, msg) }
	ErrSlotConflict        = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, KindSlotConflict, msg) }
)

// ErrTransient marks a failure that is safe to retry. The cause is kept for
// logs but never shown to callers.
func ErrTransient(msg string, cause error) *HTTPError {
	e := NewHTTPError(http.StatusInternalServerError, KindTransient, msg)
	e.Err = cause
	return e
}

// As extracts an HTTPError from the chain.
func As(err error) (*HTTPError, bool) {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// KindOf returns the taxonomy kind of err, or KindTransient for anything unclassified.
func KindOf(err error) string {
	if he, ok := As(err); ok {
		return he.Kind
	}
	return KindTransient
}

// StatusCode maps err to a response status.
func StatusCode(err error) int {
	if he, ok := As(err); ok {
		return he.Code
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a caller.
func PublicMessage(err error, fallback string) string {
	if he, ok := As(err); ok && he.Message != "" {
		return he.Message
	}
	return fallback
}
