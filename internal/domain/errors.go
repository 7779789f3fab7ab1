package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the API boundary.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unexpected"
	}
}

// Issue describes one failed validation rule.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error is the error type returned by the service layer. Message is safe to
// show to clients for every kind except KindUnexpected.
type Error struct {
	Kind    Kind
	Message string
	Issues  []Issue
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewValidationError(message string, issues []Issue) *Error {
	return &Error{Kind: KindValidation, Message: message, Issues: issues}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewInvalidStateError(message string) *Error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func WrapUnexpected(err error, message string) *Error {
	return &Error{Kind: KindUnexpected, Message: message, Cause: err}
}

// KindOf reports the kind of err. Errors that are not *Error are unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
