// Package apperr defines the error taxonomy shared by the record operations
// and the dispatcher.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind categorizes an error.
type Kind string

const (
	KindValidation       Kind = "VALIDATION"
	KindNotFound         Kind = "NOT_FOUND"
	KindStoreUnavailable Kind = "STORE_UNAVAILABLE"
	KindInternal         Kind = "INTERNAL"
)

// Error is the application error type.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is and errors.As to see the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation creates a validation error.
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound creates a not found error.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// StoreUnavailable creates a backend failure error. The cause is annotated
// with the current stack.
func StoreUnavailable(message string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Message: message, Err: withStack(message, err)}
}

// Internal creates an unexpected failure error. The cause is annotated with
// the current stack.
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: withStack(message, err)}
}

func withStack(message string, err error) error {
	if err == nil {
		return pkgerrors.New(message)
	}
	return pkgerrors.WithStack(err)
}

// KindOf returns the kind of err. Errors outside the taxonomy are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsValidation checks if err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound checks if err is a not found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// StatusCode maps err to its HTTP status code.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the machine-readable message for err: the cause's text
// for server failures and the error's own message otherwise.
func Message(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Err != nil {
		return appErr.Err.Error()
	}
	return appErr.Message
}

// Stack returns the formatted cause with its stack trace for server-class
// failures and "" for expected outcomes.
func Stack(err error) string {
	if StatusCode(err) < http.StatusInternalServerError {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		return fmt.Sprintf("%+v", appErr.Err)
	}
	return fmt.Sprintf("%+v", pkgerrors.WithStack(err))
}
