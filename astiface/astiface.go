// Package astiface defines the opaque collaborator handles the
// interpreter core consumes without ever walking (spec §1, §6): AST
// function/invocation handles, source spans, and the TypeInfo/ImportData
// accessors needed for parametric specialization and cross-module
// calls. The parser, type checker, and bytecode emitter that produce
// real implementations of these interfaces live outside this module's
// scope — test code and the cmd/dslxvm demo driver supply minimal
// concrete implementations.
package astiface

import "github.com/dslx-project/bcvm/value"

// Span is an opaque source location handle, carried by every Bytecode
// instruction for diagnostics (spec §4.3) and echoed in the error types
// the interpreter returns.
type Span struct {
	File        string
	Line, Col   int
}

func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return s.File + ":" + itoa(s.Line) + ":" + itoa(s.Col)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Module is an opaque handle to the AST module a Function belongs to.
type Module interface {
	Path() string
}

// Function is the opaque AST handle for a callee. The interpreter only
// ever needs its arity and identity; body lowering is the emitter's job.
type Function interface {
	value.FunctionRef
	Module() Module
	// IsParametric reports whether the function has symbolic parametric
	// bindings that must be resolved via TypeInfo.InstantiationTypeInfo
	// before a concrete BytecodeFunction can be materialized (spec §4.7).
	IsParametric() bool
}

// Invocation is an opaque handle identifying one call site, used to
// look up the per-call-site instantiation TypeInfo for a parametric
// callee (spec §4.3, §4.7).
type Invocation interface {
	Callee() Function
}

// Bindings is the symbolic-parameter-to-value mapping that specializes
// a parametric function for a given call site (GLOSSARY: Symbolic
// bindings). The interpreter treats it as an opaque, comparable key
// component for the BytecodeCache; Key renders it into a cache-key
// fragment.
type Bindings interface {
	Key() string
}

// NoBindings is the Bindings value used for non-parametric calls.
type NoBindings struct{}

func (NoBindings) Key() string { return "" }

// TypeInfo is per-module type resolution results (GLOSSARY), consulted
// for parametric specialization and cross-module calls (spec §4.7, §6).
type TypeInfo interface {
	// InstantiationTypeInfo resolves the specialized TypeInfo for a
	// parametric callee at a given call site, or returns ok=false if no
	// instantiation has been recorded (spec §4.7 step 1: "fail if
	// absent").
	InstantiationTypeInfo(inv Invocation, callerBindings Bindings) (TypeInfo, bool)
	Module() Module
	// Key renders a stable identity for this TypeInfo, used as a
	// BytecodeCache key component.
	Key() string
}

// ImportData is the collaborator bundle threaded through Interpret
// (spec §6): it exposes the root TypeInfo for a given module (for
// non-parametric cross-module calls). It does not carry the
// BytecodeCache; that is passed to interp.New separately.
type ImportData interface {
	RootTypeInfo(m Module) (TypeInfo, bool)
}
