package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// execCast implements Cast (spec §4.6), switching on the (from kind,
// to tag) pair rather than a type-hierarchy downcast, per §9's design
// note replacing the ConcreteType payload hierarchy with a tagged sum.
func (in *Interpreter) execCast(f *Frame, bc bytecode.Bytecode) error {
	from, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	to := bc.TargetType

	switch fv := from.(type) {
	case *value.ArrayValue:
		if to.Tag != value.TypeBits {
			return invalidArg(bc.Span, "Cast: Array can only cast to Bits, got %v", to.Tag)
		}
		flat, err := flattenToBits(bc.Span, fv)
		if err != nil {
			return err
		}
		if flat.Width() != to.Width {
			return invalidArg(bc.Span, "Cast: array total width %d does not match target width %d", flat.Width(), to.Width)
		}
		in.stack.push(wrapBits(to.Signed, flat))
		return nil

	case value.EnumValue:
		if to.Tag != value.TypeBits {
			return invalidArg(bc.Span, "Cast: Enum can only cast to Bits, got %v", to.Tag)
		}
		in.stack.push(wrapBits(to.Signed, fv.Bits))
		return nil

	case value.UBitsValue:
		return in.castFromBits(bc.Span, fv.Bits, false, to)
	case value.SBitsValue:
		return in.castFromBits(bc.Span, fv.Bits, true, to)

	default:
		return invalidArg(bc.Span, "Cast: unsupported source kind %v", from.Kind())
	}
}

func (in *Interpreter) castFromBits(span astiface.Span, vec bits.Vector, fromSigned bool, to value.ConcreteType) error {
	switch to.Tag {
	case value.TypeArray:
		arr, err := unflattenFromBits(span, vec, to)
		if err != nil {
			return err
		}
		in.stack.push(arr)
		return nil
	case value.TypeEnum:
		in.stack.push(value.EnumValue{Signed: to.Signed, Bits: vec, Decl: to.EnumDecl})
		return nil
	case value.TypeBits:
		if vec.Width() == to.Width {
			in.stack.push(wrapBits(to.Signed, vec))
			return nil
		}
		extended := bits.Extend(vec, to.Width, fromSigned)
		in.stack.push(wrapBits(to.Signed, extended))
		return nil
	default:
		return invalidArg(span, "Cast: Bits cannot cast to %v", to.Tag)
	}
}

// flattenToBits flattens an array row-major into one bits vector:
// the first element occupies the most significant bits.
func flattenToBits(span astiface.Span, v value.Value) (bits.Vector, error) {
	switch vv := v.(type) {
	case value.UBitsValue:
		return vv.Bits, nil
	case value.SBitsValue:
		return vv.Bits, nil
	case value.EnumValue:
		return vv.Bits, nil
	case *value.ArrayValue:
		if len(vv.Elements) == 0 {
			return bits.Zero(0), nil
		}
		acc, err := flattenToBits(span, vv.Elements[0])
		if err != nil {
			return bits.Vector{}, err
		}
		for _, elem := range vv.Elements[1:] {
			next, err := flattenToBits(span, elem)
			if err != nil {
				return bits.Vector{}, err
			}
			acc = bits.Concat(acc, next)
		}
		return acc, nil
	default:
		return bits.Vector{}, invalidArg(span, "Cast: array element kind %v is not flattenable", v.Kind())
	}
}

// unflattenFromBits splits vec into to.Size row-major elements of
// to.ElemType, recursing for nested arrays.
func unflattenFromBits(span astiface.Span, vec bits.Vector, to value.ConcreteType) (*value.ArrayValue, error) {
	if to.ElemType == nil {
		return nil, internalf(span, "Cast: Bits->Array target has no element type")
	}
	elemWidth, ok := to.ElemType.TotalBitWidth()
	if !ok {
		return nil, invalidArg(span, "Cast: array element type has no fixed bit width")
	}
	total := elemWidth * uint32(to.Size)
	if total != vec.Width() {
		return nil, invalidArg(span, "Cast: source width %d does not match array total width %d", vec.Width(), total)
	}

	elems := make([]value.Value, to.Size)
	var et value.ElementType
	// Elements are laid out with element 0 in the most significant
	// bits (mirroring flattenToBits), so slice from the high end down.
	offset := vec.Width()
	for i := 0; i < to.Size; i++ {
		start := offset - elemWidth
		chunk := bits.Slice(vec, start, offset)
		offset = start

		if to.ElemType.Tag == value.TypeArray {
			nested, err := unflattenFromBits(span, chunk, *to.ElemType)
			if err != nil {
				return nil, err
			}
			elems[i] = nested
			et = value.ElementType{Kind: value.KindArray, Element: &value.ElementType{}}
		} else {
			ev := wrapBits(to.ElemType.Signed, chunk)
			elems[i] = ev
			et = elemTypeOf(ev)
		}
	}
	return &value.ArrayValue{ElemType: et, Elements: elems}, nil
}
