// Package errors defines the error taxonomy of the virtual windows host.
//
// Every failure returned by a core entry point wraps exactly one of three
// sentinels:
//   - ErrNotFound: the operation referenced a window or session that is not open
//   - ErrInvalidState: the operation is not valid in the entity's lifecycle state
//   - ErrResourceExhausted: a configured limit (maximum windows) was reached
//
// All three are local and recoverable. Callers classify with errors.Is or the
// IsNotFound / IsInvalidState / IsResourceExhausted helpers.
package errors

import (
	"errors"
	"fmt"
)

// Re-exported so callers only need this package.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrResourceExhausted = errors.New("resource exhausted")
)

// Error is a classified failure of a core operation.
type Error struct {
	Op     string // operation, e.g. "host.focus"
	Kind   error  // one of the sentinels
	ID     string // window or session id, if any
	Detail string
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.ID != "" {
		msg += " (" + e.ID + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap exposes the sentinel kind
func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound builds an ErrNotFound failure
func NotFound(op, id string) error {
	return &Error{Op: op, Kind: ErrNotFound, ID: id}
}

// InvalidState builds an ErrInvalidState failure
func InvalidState(op, id, format string, args ...any) error {
	return &Error{Op: op, Kind: ErrInvalidState, ID: id, Detail: fmt.Sprintf(format, args...)}
}

// ResourceExhausted builds an ErrResourceExhausted failure
func ResourceExhausted(op string, limit int) error {
	return &Error{Op: op, Kind: ErrResourceExhausted, Detail: fmt.Sprintf("limit %d reached", limit)}
}

// IsNotFound reports whether err is classified as not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidState reports whether err is classified as invalid state
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsResourceExhausted reports whether err is classified as resource exhausted
func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}
