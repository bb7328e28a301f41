// Package serr holds the error taxonomy shared across the glaemscribe
// server: a handful of sentinel errors plus an Error type that can carry
// one or more causes and still satisfy errors.Is against them.
package serr

import "errors"

var (
	ErrPermissions   = errors.New("you don't have permission to do that")
	ErrNotFound      = errors.New("the requested resource could not be found")
	ErrBadArgument   = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal = errors.New("malformed data in request")
	ErrDB            = errors.New("an error occurred with the store")
)

// Error is a typed error that can carry one or more causes. errors.Is
// against any cause (or an Error with the same message and causes)
// returns true.
type Error struct {
	msg   string
	cause []error
}

// Error returns the defined message, with the first cause's message
// appended if one is set.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of Error, or nil if none were defined.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is reports whether target equals e itself or any of its causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg != errTarget.msg || len(e.cause) != len(errTarget.cause) {
			return false
		}
		for i := range e.cause {
			if e.cause[i] != errTarget.cause[i] {
				return false
			}
		}
		return true
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}

// WrapDB wraps err as a cause along with ErrDB.
func WrapDB(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrDB}}
}

// New creates an Error with the given message and optional causes.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}
