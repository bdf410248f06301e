// Package persist implements an optional on-disk tier for the
// BytecodeCache: serialized bytecode.Function entries keyed by a
// caller-supplied digest string (typically a hash of the source
// function's qualified name plus its resolved TypeInfo/bindings key,
// since the opaque astiface/value handles themselves can't round-trip
// through storage).
//
// The encoding uses fxamacker/cbor's canonical mode, grounded on the
// pack's own chunk-serialization wire format (deterministic map key
// ordering so two encodes of the same value produce byte-identical
// output, which matters for content-addressed storage and for diffing
// cache dumps in tests).
package persist

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

func bitsFromBytes(width uint32, magnitude []byte) bits.Vector {
	var i big.Int
	i.SetBytes(magnitude)
	return bits.FromBigInt(width, &i)
}

var encMode cbor.EncMode

func init() {
	opts := cbor.CanonicalEncOptions()
	m, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("persist: build canonical CBOR encoder: %v", err))
	}
	encMode = m
}

// wireValue is a flattened, opaque-free encoding of value.Value, used
// only for the small set of kinds that can appear as Literal operands
// or MatchArm literal patterns (Bits, Enum, Token) — Array/Tuple/
// Channel/Function literals do not occur as static operands in
// well-formed bytecode and are rejected by EncodeValue.
type wireValue struct {
	Kind   int
	Width  uint32
	Signed bool
	// Magnitude is the unsigned big-endian byte representation of the
	// bit pattern.
	Magnitude []byte
	EnumName  string
}

// EncodeValue converts a literal-eligible value.Value into its wire
// form, or an error if v's kind can't appear as a static literal.
func EncodeValue(v value.Value) (wireValue, error) {
	switch vv := v.(type) {
	case value.UBitsValue:
		return wireValue{Kind: int(value.KindUBits), Width: vv.Bits.Width(), Magnitude: vv.Bits.Unsigned().Bytes()}, nil
	case value.SBitsValue:
		return wireValue{Kind: int(value.KindSBits), Width: vv.Bits.Width(), Signed: true, Magnitude: vv.Bits.Unsigned().Bytes()}, nil
	case value.EnumValue:
		name := ""
		if vv.Decl != nil {
			name = vv.Decl.Name
		}
		return wireValue{Kind: int(value.KindEnum), Width: vv.Bits.Width(), Signed: vv.Signed, Magnitude: vv.Bits.Unsigned().Bytes(), EnumName: name}, nil
	case value.TokenValue:
		return wireValue{Kind: int(value.KindToken)}, nil
	default:
		return wireValue{}, fmt.Errorf("persist: value kind %v is not a persistable literal", v.Kind())
	}
}

// DecodeValue is EncodeValue's inverse.
func DecodeValue(w wireValue) (value.Value, error) {
	switch value.Kind(w.Kind) {
	case value.KindUBits:
		return value.UBitsValue{Bits: bitsFromBytes(w.Width, w.Magnitude)}, nil
	case value.KindSBits:
		return value.SBitsValue{Bits: bitsFromBytes(w.Width, w.Magnitude)}, nil
	case value.KindEnum:
		return value.EnumValue{Signed: w.Signed, Bits: bitsFromBytes(w.Width, w.Magnitude), Decl: &value.EnumDecl{Name: w.EnumName}}, nil
	case value.KindToken:
		return value.Token, nil
	default:
		return nil, fmt.Errorf("persist: unknown wire value kind %d", w.Kind)
	}
}

// wireInstruction mirrors bytecode.Bytecode's operand fields, minus
// the Call (Invocation), MatchArm (MatchPattern) and Trace
// (TraceItems) payloads and the array/enum parts of TargetType, which
// the persist tier does not round-trip: Encode drops them without
// reporting an error.
type wireInstruction struct {
	Op          int
	SlotIndex   int
	JumpTarget  int
	NumElements int
	HasLiteral  bool
	Literal     wireValue
	TargetTag   int
	TargetWidth uint32
	TargetSigned bool
	Text        string
}

type wireFunction struct {
	ParamCount int
	SlotCount  int
	Code       []wireInstruction
}

// Encode serializes a fully-resolved, non-parametric bytecode.Function
// (one with no astiface.Invocation-bearing Call instructions and no
// compound literal/pattern payloads) to canonical CBOR bytes.
func Encode(f *bytecode.Function) ([]byte, error) {
	wf := wireFunction{ParamCount: f.ParamCount, SlotCount: f.SlotCount}
	for _, bc := range f.Code {
		wi := wireInstruction{
			Op:          int(bc.Op),
			SlotIndex:   bc.SlotIndex,
			JumpTarget:  bc.JumpTarget,
			NumElements: bc.NumElements,
			TargetTag:   int(bc.TargetType.Tag),
			TargetWidth: bc.TargetType.Width,
			TargetSigned: bc.TargetType.Signed,
			Text:        bc.Text,
		}
		if bc.LiteralValue != nil {
			wv, err := EncodeValue(bc.LiteralValue)
			if err != nil {
				return nil, fmt.Errorf("persist: encode instruction %d: %w", len(wf.Code), err)
			}
			wi.HasLiteral = true
			wi.Literal = wv
		}
		wf.Code = append(wf.Code, wi)
	}
	return encMode.Marshal(wf)
}

// Decode is Encode's inverse, producing a standalone Function with no
// SourceFunction/TypeInfo/Bindings (the caller re-attaches those from
// the live call-site context, since only the digest key identifies
// which ones they were).
func Decode(data []byte) (*bytecode.Function, error) {
	var wf wireFunction
	if err := cbor.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("persist: unmarshal: %w", err)
	}
	code := make([]bytecode.Bytecode, 0, len(wf.Code))
	for i, wi := range wf.Code {
		bc := bytecode.Bytecode{
			Op:          bytecode.Opcode(wi.Op),
			SlotIndex:   wi.SlotIndex,
			JumpTarget:  wi.JumpTarget,
			NumElements: wi.NumElements,
			TargetType:  value.ConcreteType{Tag: value.TypeTag(wi.TargetTag), Width: wi.TargetWidth, Signed: wi.TargetSigned},
			Text:        wi.Text,
		}
		if wi.HasLiteral {
			v, err := DecodeValue(wi.Literal)
			if err != nil {
				return nil, fmt.Errorf("persist: decode instruction %d: %w", i, err)
			}
			bc.LiteralValue = v
		}
		code = append(code, bc)
	}
	return bytecode.Create(nil, nil, nil, wf.ParamCount, wf.SlotCount, code), nil
}
