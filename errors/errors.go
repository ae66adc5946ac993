package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Generic kinds shared by every package. Domain packages register their
// own codes above 1000.
var (
	// ErrNotFound means a record or key is missing from the store.
	ErrNotFound = Register(3, "not found")

	// ErrInput covers malformed arguments and flags.
	ErrInput = Register(4, "invalid input")

	// ErrDuplicate means a unique value appears more than once.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a programming mistake in the caller, such as a nil
	// collaborator or a handler registered twice.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState means stored data disagrees with what the caller expects.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value cannot be parsed or decoded.
	ErrType = Register(11, "invalid type")

	// ErrAmount means a value is negative, zero or not covered by a balance.
	ErrAmount = Register(12, "invalid amount")

	// ErrOverflow is returned when an arithmetic result does not fit.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase wraps failures of the underlying key value store.
	ErrDatabase = Register(17, "database")

	// ErrPanic is set by Recover. Its message is redacted for clients.
	ErrPanic = Register(111222, "panic")
)

// codes holds every registered root error. Code 1 is reserved for
// errors that carry no code.
var codes = map[uint32]*Error{
	1: nil,
}

// Register declares a root error with a unique code. It panics when the
// code is taken, so call it only from package level var blocks.
func Register(code uint32, description string) *Error {
	if prev, ok := codes[code]; ok {
		panic(fmt.Sprintf("error code %d already registered: %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	codes[code] = e
	return e
}

// Error is a root error kind. Runtime errors wrap one of these so callers
// can test the kind with Is and clients receive a stable code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code is the registered code.
func (e Error) Code() uint32 {
	return e.code
}

// Is reports whether err is of this kind, following the Cause chain.
// A nil kind matches only nil errors, including typed nil pointers.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return err == nil || reflect.ValueOf(err).IsNil()
	}
	for err != nil {
		if err == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap annotates err with description. A stack trace is attached at the
// innermost wrap only. Wrap(nil, ...) is nil.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithType annotates err with the Go type of obj, useful when a decode
// fails and the target type is the interesting part.
func WithType(err error, obj interface{}) error {
	return Wrapf(err, "%T", obj)
}

// Recover turns a panic into an ErrPanic assigned to *err. It only works
// when deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the message for %s, the message plus the innermost
// [file:line] for %v, and the full trimmed stack for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		if st := stackTrace(e); st != nil {
			fmt.Fprintf(s, "%s\n%+v", e.Error(), trimInternal(st))
			return
		}
	}
	fmt.Fprint(s, e.Error())
	if verb == 'v' {
		if st := trimInternal(stackTrace(e)); len(st) > 0 {
			writeSimpleFrame(s, st[0])
		}
	}
}

type causer interface {
	Cause() error
}
