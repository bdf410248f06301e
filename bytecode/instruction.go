package bytecode

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/value"
)

// InvocationData is the Call opcode's payload (spec §4.3, §4.7): the
// call-site handle and the caller's own symbolic bindings, both opaque
// to the interpreter beyond what astiface exposes.
type InvocationData struct {
	Invocation     astiface.Invocation
	CallerBindings astiface.Bindings
	// ArgCount is the number of argument values a Call to a builtin
	// pops, kept in left-to-right order. A Call to a user-defined
	// function pops the callee's ParamCount() values instead.
	ArgCount int
}

// MatchArmPatternKind is the closed set of pattern shapes a MatchArm
// instruction's arms are built from (spec §4.9).
type MatchArmPatternKind int

const (
	// PatternWildcard matches any value and binds nothing.
	PatternWildcard MatchArmPatternKind = iota
	// PatternStore always matches; side effect: stores the candidate
	// into Slot.
	PatternStore
	// PatternLoad matches iff the candidate equals Slot's current
	// value (a previously-bound name referenced again in the pattern).
	PatternLoad
	// PatternLiteral matches only if the scrutinee Eq's Literal.
	PatternLiteral
	// PatternTuple recurses into Elements against the scrutinee's tuple
	// elements; a failed sub-pattern still leaves bindings made by
	// earlier sub-patterns in the same arm in place (spec §4.9 note;
	// documented deliberately, not accidentally — see DESIGN.md).
	PatternTuple
)

// MatchArmItem is a (possibly compound) pattern tested against one
// candidate value by a single MatchArm instruction (spec §4.9). A
// match arm's overall pattern is one MatchArmItem; emitted bytecode
// Dup's the candidate before each MatchArm test so successive arms
// can each consume their own copy.
type MatchArmItem struct {
	Kind MatchArmPatternKind

	// PatternStore, PatternLoad
	Slot int

	// PatternLiteral
	Literal value.Value

	// PatternTuple
	Elements []MatchArmItem
}

// TraceDataItem is one element of a Trace instruction's interleaved
// literal-text / value-format sequence (spec §4.8).
type TraceDataItem struct {
	// IsLiteral selects between a literal text fragment (Text) and a
	// value popped off the stack and formatted in place (ValueFormat
	// directive; the value itself always comes from the operand stack,
	// never from this struct).
	IsLiteral bool
	Text      string
}

// Bytecode is a single decoded instruction: an opcode plus its source
// span and whichever of the payload fields below the opcode uses.
// Mirroring the pack's struct-based (rather than byte-packed) bytecode
// instruction representation, since several opcodes here (Literal,
// Cast, MatchArm, Trace, Call) carry payloads — typed values, target
// shapes, pattern trees — that don't fit fixed-width operand bytes.
type Bytecode struct {
	Op   Opcode
	Span astiface.Span

	// Load, Store: local slot index.
	SlotIndex int

	// JumpRel, JumpRelIf: code-offset delta relative to this
	// instruction's own index (can be negative for backward jumps).
	JumpTarget int

	// CreateArray, CreateTuple, ExpandTuple: element count.
	NumElements int

	// Literal: the inline constant value pushed.
	LiteralValue value.Value

	// Cast, WidthSlice: the target shape.
	TargetType value.ConcreteType

	// Call.
	Invocation *InvocationData

	// MatchArm: the pattern tested against the popped candidate.
	MatchPattern MatchArmItem

	// Trace, Fail: interleaved text/value-format sequence and a
	// literal message. Both render TraceItems; Fail uses Text as its
	// message only when TraceItems render to an empty string.
	TraceItems []TraceDataItem
	Text       string
}
