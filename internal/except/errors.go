package except

import (
	"errors"
	"fmt"

	"golang.org/x/xerrors"
)

// Kind identifies the category of an error.
type Kind int

const (
	// KindUnknown is reported for errors that did not originate in this module.
	KindUnknown Kind = iota
	// KindIo is a file or library access failure.
	KindIo
	// KindRuntime is a state or protocol failure.
	KindRuntime
	// KindType is a type mismatch.
	KindType
	// KindKey is a missing named or indexed entry.
	KindKey
	// KindValue is a rejected value.
	KindValue
)

// Sentinel errors, one per kind. Use errors.Is to test the kind of an error.
var (
	ErrIo      = errors.New("io error")
	ErrRuntime = errors.New("runtime error")
	ErrType    = errors.New("type error")
	ErrKey     = errors.New("key error")
	ErrValue   = errors.New("value error")
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindIo:
		return "IoError"
	case KindRuntime:
		return "RuntimeError"
	case KindType:
		return "TypeError"
	case KindKey:
		return "KeyError"
	case KindValue:
		return "ValueError"
	default:
		return "Error"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIo:
		return ErrIo
	case KindRuntime:
		return ErrRuntime
	case KindType:
		return ErrType
	case KindKey:
		return ErrKey
	case KindValue:
		return ErrValue
	default:
		return nil
	}
}

// Error is a categorized error with an optional wrapped cause.
type Error struct {
	Kind  Kind   // Category of the failure
	Msg   string // Human-readable description
	Err   error  // Underlying error, if any
	frame xerrors.Frame
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Format prints the error with its call frame when formatted with %+v.
func (e *Error) Format(s fmt.State, v rune) {
	xerrors.FormatError(e, s, v)
}

// FormatError implements xerrors.Formatter.
func (e *Error) FormatError(p xerrors.Printer) error {
	p.Print(e.Msg)
	e.frame.Format(p)
	return e.Err
}

func newError(kind Kind, format string, args []interface{}) *Error {
	return &Error{
		Kind:  kind,
		Msg:   fmt.Sprintf(format, args...),
		frame: xerrors.Caller(2),
	}
}

// IoErrorf returns a new IoError.
func IoErrorf(format string, args ...interface{}) error {
	return newError(KindIo, format, args)
}

// RuntimeErrorf returns a new RuntimeError.
func RuntimeErrorf(format string, args ...interface{}) error {
	return newError(KindRuntime, format, args)
}

// TypeErrorf returns a new TypeError.
func TypeErrorf(format string, args ...interface{}) error {
	return newError(KindType, format, args)
}

// KeyErrorf returns a new KeyError.
func KeyErrorf(format string, args ...interface{}) error {
	return newError(KindKey, format, args)
}

// ValueErrorf returns a new ValueError.
func ValueErrorf(format string, args ...interface{}) error {
	return newError(KindValue, format, args)
}

// Wrapf adds context to err while keeping its kind. It returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:  KindOf(err),
		Msg:   fmt.Sprintf(format, args...),
		Err:   err,
		frame: xerrors.Caller(1),
	}
}

// KindOf returns the kind of the first categorized error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsRecoverable reports whether err is one of the kinds a reader may log and
// skip: IoError, KeyError or TypeError.
func IsRecoverable(err error) bool {
	switch KindOf(err) {
	case KindIo, KindKey, KindType:
		return true
	default:
		return false
	}
}

// WrapKind wraps err with context and assigns it kind. Use it to categorize
// errors coming from outside this module.
func WrapKind(kind Kind, err error, format string, args ...interface{}) error {
	e := newError(kind, format, args)
	e.Err = err
	return e
}
