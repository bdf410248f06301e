// Package value implements InterpValue, the tagged runtime value
// representation the bytecode interpreter pushes, pops, and stores in
// slots (spec §3).
//
// The Kind()-on-interface pattern below is grounded on the runtime
// value representation used elsewhere in the example pack's typed
// tree-walking interpreter (a Kind enum plus one concrete Go struct per
// variant, each implementing a single-method Value interface) —
// adapted here to InterpValue's own variant set: bit vectors, enums,
// arrays, tuples, tokens, channels, and functions, in place of that
// interpreter's strings/integers/structs.
package value

import (
	"fmt"

	"github.com/dslx-project/bcvm/bits"
)

// Kind identifies an InterpValue's runtime tag.
type Kind int

const (
	KindUBits Kind = iota
	KindSBits
	KindEnum
	KindArray
	KindTuple
	KindToken
	KindChannel
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUBits:
		return "ubits"
	case KindSBits:
		return "sbits"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindToken:
		return "token"
	case KindChannel:
		return "channel"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is the shared behavior of every InterpValue variant.
type Value interface {
	Kind() Kind
	// Width reports the bit width for Bits-carrying and Enum values, and
	// is 0 for every other kind. Used to enforce the width-preservation
	// invariant (spec §3) at call sites that don't already know the
	// concrete type.
	Width() uint32
	String() string
}

// ---------------------------------------------------------------------
// Bits-carrying values
// ---------------------------------------------------------------------

// UBitsValue is an unsigned bit vector.
type UBitsValue struct {
	Bits bits.Vector
}

func (v UBitsValue) Kind() Kind    { return KindUBits }
func (v UBitsValue) Width() uint32 { return v.Bits.Width() }
func (v UBitsValue) String() string {
	return fmt.Sprintf("u%d:%s", v.Bits.Width(), v.Bits.Unsigned().String())
}

// NewUBits constructs an unsigned bits value of the given width from
// v's unsigned value, truncating to width.
func NewUBits(width uint32, v bits.Vector) UBitsValue {
	return UBitsValue{Bits: bits.FromBigInt(width, v.Unsigned())}
}

// SBitsValue is a signed bit vector. Storage is identical to UBitsValue;
// the tag changes how compare/extend/shift opcodes interpret the bits.
type SBitsValue struct {
	Bits bits.Vector
}

func (v SBitsValue) Kind() Kind    { return KindSBits }
func (v SBitsValue) Width() uint32 { return v.Bits.Width() }
func (v SBitsValue) String() string {
	return fmt.Sprintf("s%d:%s", v.Bits.Width(), v.Bits.Signed().String())
}

// EnumDecl is an opaque handle to the enum declaration an EnumValue is
// drawn from; the interpreter never inspects it beyond identity/width —
// member resolution and range-checking are typechecker concerns (spec
// §1, external collaborator).
type EnumDecl struct {
	Name string
}

// EnumValue is an enum member's runtime representation: value-compatible
// with a same-width Bits value for Cast (spec §3).
type EnumValue struct {
	Signed bool
	Bits   bits.Vector
	Decl   *EnumDecl
}

func (v EnumValue) Kind() Kind    { return KindEnum }
func (v EnumValue) Width() uint32 { return v.Bits.Width() }
func (v EnumValue) String() string {
	name := "<enum>"
	if v.Decl != nil {
		name = v.Decl.Name
	}
	return fmt.Sprintf("%s:%s", name, v.Bits.Unsigned().String())
}

// ---------------------------------------------------------------------
// Aggregates
// ---------------------------------------------------------------------

// ElementType is a minimal structural descriptor of an array's element
// type, enough to validate homogeneity and to drive Cast/WidthSlice
// target-shape decisions without re-deriving full TypeInfo.
type ElementType struct {
	Kind    Kind
	Width   uint32 // meaningful for KindUBits/KindSBits/KindEnum elements
	Signed  bool
	Decl    *EnumDecl
	Element *ElementType // for nested arrays
}

// ArrayValue is a fixed-length, homogeneous array.
type ArrayValue struct {
	ElemType ElementType
	Elements []Value
}

func (v *ArrayValue) Kind() Kind    { return KindArray }
func (v *ArrayValue) Width() uint32 { return 0 }
func (v *ArrayValue) String() string {
	return fmt.Sprintf("array[%d]", len(v.Elements))
}

// TupleValue is a heterogeneous, fixed-length tuple.
type TupleValue struct {
	Elements []Value
}

func (v *TupleValue) Kind() Kind    { return KindTuple }
func (v *TupleValue) Width() uint32 { return 0 }
func (v *TupleValue) String() string {
	return fmt.Sprintf("tuple[%d]", len(v.Elements))
}

// ---------------------------------------------------------------------
// Token and Channel
// ---------------------------------------------------------------------

// TokenValue is the unit-like sentinel used for sequencing side effects
// and for Frame slot auto-extension padding (spec §3).
type TokenValue struct{}

func (TokenValue) Kind() Kind    { return KindToken }
func (TokenValue) Width() uint32 { return 0 }
func (TokenValue) String() string { return "token" }

// Token is the single shared TokenValue instance.
var Token = TokenValue{}

// ChannelHandle is the shared, ordered FIFO backing a ChannelValue.
// Channel is the sole InterpValue kind with sharing semantics: copying
// a ChannelValue produces another handle onto the same queue (spec §3).
type ChannelHandle struct {
	queue []Value
}

// NewChannelHandle creates a fresh, empty channel FIFO.
func NewChannelHandle() *ChannelHandle {
	return &ChannelHandle{}
}

// Send appends a payload to the tail of the FIFO.
func (h *ChannelHandle) Send(v Value) {
	h.queue = append(h.queue, v)
}

// Recv pops the head of the FIFO. ok is false if the channel is empty.
func (h *ChannelHandle) Recv() (Value, bool) {
	if len(h.queue) == 0 {
		return nil, false
	}
	v := h.queue[0]
	h.queue = h.queue[1:]
	return v, true
}

// Len reports the number of queued values.
func (h *ChannelHandle) Len() int { return len(h.queue) }

// ChannelValue is a handle onto a shared ordered FIFO of InterpValue.
type ChannelValue struct {
	Handle *ChannelHandle
}

func (v ChannelValue) Kind() Kind    { return KindChannel }
func (v ChannelValue) Width() uint32 { return 0 }
func (v ChannelValue) String() string {
	return fmt.Sprintf("channel(len=%d)", v.Handle.Len())
}

// ---------------------------------------------------------------------
// Functions
// ---------------------------------------------------------------------

// BuiltinID identifies one of the interpreter's built-in functions.
type BuiltinID int

const (
	BuiltinMap BuiltinID = iota
	BuiltinAssertEq
	BuiltinAssertLt
	BuiltinFail
	BuiltinAndReduce
	BuiltinOrReduce
	BuiltinXorReduce
	BuiltinRev
	BuiltinSignExtend
	BuiltinZeroExtend
	BuiltinClz
	BuiltinCtz
)

func (b BuiltinID) String() string {
	switch b {
	case BuiltinMap:
		return "map"
	case BuiltinAssertEq:
		return "assert_eq"
	case BuiltinAssertLt:
		return "assert_lt"
	case BuiltinFail:
		return "fail!"
	case BuiltinAndReduce:
		return "and_reduce"
	case BuiltinOrReduce:
		return "or_reduce"
	case BuiltinXorReduce:
		return "xor_reduce"
	case BuiltinRev:
		return "rev"
	case BuiltinSignExtend:
		return "sign_extend"
	case BuiltinZeroExtend:
		return "zero_extend"
	case BuiltinClz:
		return "clz"
	case BuiltinCtz:
		return "ctz"
	default:
		return fmt.Sprintf("builtin(%d)", int(b))
	}
}

// FunctionRef is an opaque handle to a user-defined callee: the AST
// node and TypeInfo it carries are never inspected by the interpreter
// itself (spec §1) beyond what the astiface package's accessors expose.
type FunctionRef interface {
	Name() string
	ParamCount() int
}

// FunctionValue is either a user-defined function handle or a builtin.
type FunctionValue struct {
	User    FunctionRef // non-nil for User variant
	Builtin BuiltinID
	IsUser  bool
}

func (v FunctionValue) Kind() Kind    { return KindFunction }
func (v FunctionValue) Width() uint32 { return 0 }
func (v FunctionValue) String() string {
	if v.IsUser {
		if v.User != nil {
			return fmt.Sprintf("fn(%s)", v.User.Name())
		}
		return "fn(<anonymous>)"
	}
	return fmt.Sprintf("builtin(%s)", v.Builtin)
}
