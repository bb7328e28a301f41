// Package glerrors holds the error taxonomy shared by every stage of the
// transcription engine: malformed-source parse errors, finalize-time
// semantic errors, and best-effort runtime warnings. Each is a small typed
// error with both a message and enough structured context that a caller can
// render a useful diagnostic without string-parsing Error().
package glerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per Class, so a caller can test taxonomy membership
// with errors.Is(err, glerrors.ErrFinalize) instead of switching on Class
// directly.
var (
	ErrParse    = errors.New("parse error")
	ErrFinalize = errors.New("finalize error")
	ErrFatal    = errors.New("fatal error")
)

func (c Class) sentinel() error {
	switch c {
	case ClassParse:
		return ErrParse
	case ClassFinalize:
		return ErrFinalize
	case ClassFatal:
		return ErrFatal
	default:
		return nil
	}
}

// Location is the position of an error within an authored mode or charset
// file.
type Location struct {
	File string
	Line int // 1-indexed; 0 means unknown.
	Col  int // 1-indexed; 0 means unknown.
}

func (l Location) String() string {
	if l.Line == 0 {
		if l.File == "" {
			return ""
		}
		return l.File
	}
	if l.Col == 0 {
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Class is the taxonomy tag attached to every Error.
type Class int

const (
	// ClassParse is a malformed mode/charset file: bad directive syntax,
	// unbalanced brackets, unknown token.
	ClassParse Class = iota

	// ClassFinalize is a semantic error discovered only once finalize()
	// resolves variables and enumerates rules: unresolved variable, arity
	// mismatch, out-of-range cross index, macro deployed with a missing
	// option.
	ClassFinalize

	// ClassFatal is a programmer-bug condition: infinite variable
	// recursion past the depth cap, or trie corruption. Returned as an
	// error value rather than panicking, since the engine is a library.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassParse:
		return "parse error"
	case ClassFinalize:
		return "finalize error"
	case ClassFatal:
		return "fatal error"
	default:
		return "error"
	}
}

// Error is the error type returned from parsing and finalization. It is
// never returned from Mode.Transcribe, which always succeeds on a best
// effort basis; see Warning for the runtime diagnostics transcribe collects
// instead.
type Error struct {
	Class    Class
	Location Location
	Message  string
	wrapped  error
}

func (e *Error) Error() string {
	loc := e.Location.String()
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Class, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Class, e.Message)
}

// Unwrap gives the error that this Error wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is reports whether target is the sentinel error for e's Class, so
// errors.Is(err, glerrors.ErrFinalize) works against any *Error of that
// class regardless of its Message or Location.
func (e *Error) Is(target error) bool {
	return target == e.Class.sentinel()
}

// Parse creates a new ClassParse Error at the given location.
func Parse(loc Location, format string, a ...interface{}) *Error {
	return &Error{Class: ClassParse, Location: loc, Message: fmt.Sprintf(format, a...)}
}

// Finalize creates a new ClassFinalize Error with no source location (most
// finalize errors span multiple authored lines by the time they're caught,
// e.g. an arity mismatch across an entire Fragment).
func Finalize(format string, a ...interface{}) *Error {
	return &Error{Class: ClassFinalize, Message: fmt.Sprintf(format, a...)}
}

// FinalizeAt creates a new ClassFinalize Error tied to a source location.
func FinalizeAt(loc Location, format string, a ...interface{}) *Error {
	return &Error{Class: ClassFinalize, Location: loc, Message: fmt.Sprintf(format, a...)}
}

// Fatal creates a new ClassFatal Error, optionally wrapping a cause.
func Fatal(cause error, format string, a ...interface{}) *Error {
	return &Error{Class: ClassFatal, Message: fmt.Sprintf(format, a...), wrapped: cause}
}

// Warning is a best-effort runtime diagnostic collected during transcribe
// into a DebugRecord rather than raised as an error. transcribe never
// fails; Warning exists so callers can still see what went wrong with a
// particular token.
type Warning struct {
	Message  string
	Position int // index into the token stream the warning concerns, -1 if none.
}

func (w Warning) String() string {
	if w.Position < 0 {
		return w.Message
	}
	return fmt.Sprintf("at token %d: %s", w.Position, w.Message)
}

// Warnf builds a Warning not tied to any particular stream position.
func Warnf(format string, a ...interface{}) Warning {
	return Warning{Message: fmt.Sprintf(format, a...), Position: -1}
}

// WarnfAt builds a Warning tied to a stream position.
func WarnfAt(pos int, format string, a ...interface{}) Warning {
	return Warning{Message: fmt.Sprintf(format, a...), Position: pos}
}

// List is an accumulator of Errors used during parse/finalize: errors are
// collected rather than returned on the first failure, so a caller sees
// every problem in a mode at once instead of fixing them one at a time.
type List struct {
	errs []*Error
}

// Add appends an error to the list. A nil err is a no-op, so call sites can
// write `errs.Add(maybeErr())` freely.
func (l *List) Add(err *Error) {
	if err == nil {
		return
	}
	l.errs = append(l.errs, err)
}

// Errs returns the accumulated errors in the order they were added.
func (l *List) Errs() []*Error {
	return l.errs
}

// Empty reports whether no errors have been accumulated.
func (l *List) Empty() bool {
	return len(l.errs) == 0
}

// Error implements the error interface so a List can itself be returned as
// the error from finalize(); it joins every accumulated message with a
// newline.
func (l *List) Error() string {
	if len(l.errs) == 0 {
		return ""
	}
	msg := ""
	for i, e := range l.errs {
		if i > 0 {
			msg += "\n"
		}
		msg += e.Error()
	}
	return msg
}
