// Package object implements the echo object model: the polymorphic hierarchy
// of runtime values (classes, instances, functions, modules, ...) together
// with the attribute/descriptor protocol that governs how they are read from
// and written to.
package object

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is a sentinel for implementation gaps, as distinct from
// guest-visible exceptions. No package in this module returns or wraps it;
// unsupported situations are reported as ordinary *Exception values.
var ErrNotImplemented = errors.New("echo: not implemented")

// Exception is the Go realization of spec's Result failure variant: a
// triple of (traceback, parameter, exception value). Every fallible
// operation in the object model and the evaluator returns one of these as
// its error, rather than a boxed two-variant Result[T] -- see DESIGN.md for
// why the idiomatic (value, error) pairing was chosen over a hand-rolled
// generic sum type.
type Exception struct {
	// Type is the exception's class (a *Class for user-defined exceptions,
	// or one of the built-in exception classes such as TypeErrorType).
	Type *Class
	// Parameter is the single argument the exception was constructed with,
	// e.g. the message string for a plain Exception("msg").
	Parameter Value
	// Traceback is the linked list of (frame, last-instruction, line)
	// triples recorded as the exception unwinds, outermost frame last.
	Traceback []TracebackEntry
}

// TracebackEntry is one (frame, instruction, line) record in an Exception's
// traceback chain.
type TracebackEntry struct {
	FrameName string
	Lasti     int
	Line      int
}

func (e *Exception) Error() string {
	name := "Exception"
	if e.Type != nil {
		name = e.Type.Name
	}
	if e.Parameter != nil {
		return fmt.Sprintf("%s: %s", name, Str(e.Parameter))
	}
	return name
}

// NewException builds an Exception of the named builtin type with a
// formatted message parameter, the shape used throughout the object model
// for AttributeError/TypeError/NameError/ImportError construction.
func NewException(typ *Class, format string, args ...interface{}) *Exception {
	return &Exception{Type: typ, Parameter: NewStr(fmt.Sprintf(format, args...))}
}

// WithTraceback returns a copy of e with frame appended to its traceback,
// used by the evaluator's exception-handling algorithm (spec §4.3 step 1)
// the first time a failing Result is observed without one.
func (e *Exception) WithTraceback(frameName string, lasti, line int) *Exception {
	cp := *e
	cp.Traceback = append(append([]TracebackEntry{}, e.Traceback...), TracebackEntry{
		FrameName: frameName, Lasti: lasti, Line: line,
	})
	return &cp
}
