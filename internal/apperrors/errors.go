// Package apperrors classifies business errors so HTTP handlers can map
// them to status codes without inspecting message strings.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the error classes surfaced by the domain services.
type Kind int

const (
	// KindUnknown marks errors carrying no classification.
	KindUnknown Kind = iota
	// KindInvalidArgument marks caller-supplied input that fails validation.
	KindInvalidArgument
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindConflict marks an operation forbidden by the current state.
	KindConflict
)

// Error is a classified business error. Infrastructure failures are wrapped
// with fmt.Errorf instead and carry no Kind.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// NewInvalidArgument creates an invalid-argument error.
func NewInvalidArgument(format string, args ...any) *Error {
	return &Error{kind: KindInvalidArgument, msg: fmt.Sprintf(format, args...)}
}

// NewNotFound creates a not-found error.
func NewNotFound(format string, args ...any) *Error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

// NewConflict creates a conflict error.
func NewConflict(format string, args ...any) *Error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Returns KindUnknown when err carries no classification.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

// IsInvalidArgument reports whether err is classified as invalid-argument.
func IsInvalidArgument(err error) bool {
	return KindOf(err) == KindInvalidArgument
}

// IsNotFound reports whether err is classified as not-found.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is classified as conflict.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
