package interp

import (
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// elemTypeOf derives an ElementType descriptor from a representative
// element, for CreateArray's result (the opcode payload carries only
// a count, not a declared element type — spec §4.3 NumElements(n)).
func elemTypeOf(v value.Value) value.ElementType {
	switch vv := v.(type) {
	case value.UBitsValue:
		return value.ElementType{Kind: value.KindUBits, Width: vv.Bits.Width()}
	case value.SBitsValue:
		return value.ElementType{Kind: value.KindSBits, Width: vv.Bits.Width(), Signed: true}
	case value.EnumValue:
		return value.ElementType{Kind: value.KindEnum, Width: vv.Bits.Width(), Signed: vv.Signed, Decl: vv.Decl}
	case *value.ArrayValue:
		et := vv.ElemType
		return value.ElementType{Kind: value.KindArray, Element: &et}
	default:
		return value.ElementType{Kind: v.Kind()}
	}
}

func (in *Interpreter) execCreateArray(f *Frame, bc bytecode.Bytecode) error {
	elems, err := in.stack.popN(bc.Span, bc.NumElements)
	if err != nil {
		return err
	}
	var et value.ElementType
	if len(elems) > 0 {
		et = elemTypeOf(elems[0])
	}
	in.stack.push(&value.ArrayValue{ElemType: et, Elements: elems})
	return nil
}

// execCreateTuple builds a tuple by popping one value at a time from
// the top and appending in pop order, so element 0 is whatever was on
// top of the stack pre-pop — the opposite convention from CreateArray
// (spec §9 open question: the source builds a tuple via repeated
// pop_back then re-indexes). This is what makes ExpandTuple's "element
// 0 ends up on top" push order and CreateTuple symmetric inverses
// (invariant 6, spec §8).
func (in *Interpreter) execCreateTuple(f *Frame, bc bytecode.Bytecode) error {
	elems := make([]value.Value, bc.NumElements)
	for i := 0; i < bc.NumElements; i++ {
		v, err := in.stack.pop(bc.Span)
		if err != nil {
			return err
		}
		elems[i] = v
	}
	in.stack.push(&value.TupleValue{Elements: elems})
	return nil
}

func (in *Interpreter) execExpandTuple(f *Frame, bc bytecode.Bytecode) error {
	v, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	t, ok := v.(*value.TupleValue)
	if !ok {
		return invalidArg(bc.Span, "ExpandTuple: expected a tuple, got %v", v.Kind())
	}
	// Push in reverse so element 0 ends up on top (spec §4.5).
	for i := len(t.Elements) - 1; i >= 0; i-- {
		in.stack.push(t.Elements[i])
	}
	return nil
}

func (in *Interpreter) execIndex(f *Frame, bc bytecode.Bytecode) error {
	idxV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	basis, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	idxBits, _, err := bitsOf(bc.Span, idxV)
	if err != nil {
		return err
	}
	idx := int(idxBits.Unsigned().Int64())

	switch b := basis.(type) {
	case *value.ArrayValue:
		if idx < 0 || idx >= len(b.Elements) {
			return invalidArg(bc.Span, "Index: array index %d out of range (len %d)", idx, len(b.Elements))
		}
		in.stack.push(b.Elements[idx])
	case *value.TupleValue:
		if idx < 0 || idx >= len(b.Elements) {
			return invalidArg(bc.Span, "Index: tuple index %d out of range (len %d)", idx, len(b.Elements))
		}
		in.stack.push(b.Elements[idx])
	default:
		return invalidArg(bc.Span, "Index: expected an array or tuple, got %v", basis.Kind())
	}
	return nil
}
