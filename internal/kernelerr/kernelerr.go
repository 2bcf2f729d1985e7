// Package kernelerr defines the typed error taxonomy every handler in the
// kernel returns. The audit wrapper (internal/audit) records a Kind string
// alongside the message; callers switch on Kind rather than parsing text.
package kernelerr

import "fmt"

// Kind classifies a kernel failure. See spec §7.
type Kind string

const (
	Validation    Kind = "Validation"
	NotFound      Kind = "NotFound"
	State         Kind = "State"
	ActionEconomy Kind = "ActionEconomy"
	Movement      Kind = "Movement"
	Spatial       Kind = "Spatial"
	Rules         Kind = "Rules"
	Conflict      Kind = "Conflict"
	Persistence   Kind = "Persistence"
	Timeout       Kind = "Timeout"
)

// Error is a typed kernel failure. The simulation state is never mutated
// before an Error is returned — see spec §7 propagation rules.
type Error struct {
	kind    Kind
	message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error { return e.wrapped }

// Kind returns the error's taxonomy classification.
func (e *Error) Kind() Kind { return e.kind }

// New builds a Kind-classified error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Wrap builds a Kind-classified error that wraps an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), wrapped: err}
}

// NotFoundf is a convenience constructor for the common "entity missing" case.
func NotFoundf(entity, id string) *Error {
	return New(NotFound, "%s %q not found", entity, id)
}

// KindOf extracts the Kind of err if it is (or wraps) a kernel *Error,
// otherwise returns "" with ok=false.
func KindOf(err error) (Kind, bool) {
	var ke *Error
	for err != nil {
		if e, ok := err.(*Error); ok {
			ke = e
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if ke == nil {
		return "", false
	}
	return ke.kind, true
}
