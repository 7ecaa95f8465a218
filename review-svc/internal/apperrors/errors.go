package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure returned across the service boundary.
type Kind string

const (
	KindValidation         Kind = "VALIDATION"
	KindBackendUnavailable Kind = "BACKEND_UNAVAILABLE"
	KindStore              Kind = "STORE"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrStore              = errors.New("store failure")
)

// Error carries a human-readable message safe to show to the submitter.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind, so callers can use errors.Is
// without caring about the wrapped cause.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindValidation:
		return target == ErrValidation
	case KindBackendUnavailable:
		return target == ErrBackendUnavailable
	case KindStore:
		return target == ErrStore
	}
	return false
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func BackendUnavailable(message string) *Error {
	return &Error{Kind: KindBackendUnavailable, Message: message}
}

func Store(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message meant for callers; causes stay in logs.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
