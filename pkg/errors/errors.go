package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so message-handler boundaries can map it to a
// consistent outcome (drop+log, typed response topic, HTTP status) instead
// of inspecting error strings per handler.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindValidation Kind = "VALIDATION"
	KindDegraded   Kind = "DEGRADED"
	KindInternal   Kind = "INTERNAL"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind Kind, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string, err error) *AppError {
	return NewAppError(KindNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(KindConflict, message, err)
}

func Validation(message string, err error) *AppError {
	return NewAppError(KindValidation, message, err)
}

// KindOf reports the classification of err, unwrapping as needed.
// Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
