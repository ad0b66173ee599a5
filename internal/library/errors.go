package library // import "github.com/Xunop/e-library/internal/library"

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds, match them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
)

// Error is a failure meant to be shown to the user as is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func ValidationError(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the message of a library error, ok is false for any other error.
func UserMessage(err error) (msg string, ok bool) {
	var libErr *Error
	if errors.As(err, &libErr) {
		return libErr.Message, true
	}
	return "", false
}

// resultLabel classifies err for the operation metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
