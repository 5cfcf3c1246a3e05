// Package errors provides the user-facing error types of machfind and
// helpers for handling errors.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies errors that end a run.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidTarget means the build identifier given on the command line
	// does not parse.
	KindInvalidTarget
	// KindTraversal means the directory walk could not read an entry.
	KindTraversal
	// KindConfig means the configuration could not be loaded or is invalid.
	KindConfig
	// KindUsage means the command line is inconsistent.
	KindUsage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidTarget:
		return "invalid target identifier"
	case KindTraversal:
		return "traversal failure"
	case KindConfig:
		return "configuration error"
	case KindUsage:
		return "usage error"
	default:
		return "error"
	}
}

// Error is an error with a kind and an optional cause. Its message does not
// repeat the cause; use Chain to render the whole chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// New returns an error of the given kind wrapping cause.
func New(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so that
//
//	errors.Is(err, &Error{Kind: KindTraversal})
//
// reports whether err is a traversal failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Chain returns the messages of err and each of its causes, outermost first.
// Errors other than *Error already include their causes in their message
// (fmt.Errorf with %w), so the walk stops at the first of them.
func Chain(err error) []string {
	var msgs []string
	for err != nil {
		msgs = append(msgs, err.Error())
		e, ok := err.(*Error)
		if !ok {
			break
		}
		err = e.Err
	}
	return msgs
}
