package interp

import (
	"fmt"

	"github.com/dslx-project/bcvm/astiface"
)

// Kind is the closed error taxonomy the interpreter reports (spec §7).
// Plain Go errors wrap one of these, matched with errors.As rather
// than a third-party error-chain library — mirroring the example
// pack's own standard-error pattern of a kind-tagged struct type.
type Kind int

const (
	// KindInvalidArgument is a semantic misuse detected at dispatch
	// time: bad cast shapes, non-boolean logical operands, indexing a
	// non-aggregate.
	KindInvalidArgument Kind = iota
	// KindInternal is an invariant violation: stack underflow, slot
	// out of range, missing payload, a jump landing off a JumpDest,
	// missing type info, absent cache.
	KindInternal
	// KindUnavailable is a channel empty on Recv.
	KindUnavailable
	// KindFailure is a user-level fail!, assert_eq, assert_lt, or the
	// Fail opcode.
	KindFailure
	// KindUnimplemented is a builtin not yet handled.
	KindUnimplemented
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	case KindFailure:
		return "failure"
	case KindUnimplemented:
		return "unimplemented"
	default:
		return "unknown"
	}
}

// Error is the interpreter's single error type, carrying a taxonomy
// Kind, an optional source span, and a human-rendered message.
type Error struct {
	Kind Kind
	Span astiface.Span
	Msg  string
}

func (e *Error) Error() string {
	if e.Span.File == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Span, e.Msg)
}

func invalidArg(span astiface.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func internalf(span astiface.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInternal, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func unavailable(span astiface.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnavailable, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func failure(span astiface.Span, msg string) *Error {
	return &Error{Kind: KindFailure, Span: span, Msg: msg}
}

func unimplemented(span astiface.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnimplemented, Span: span, Msg: fmt.Sprintf(format, args...)}
}
