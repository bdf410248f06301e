package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// bitsOf extracts the underlying bit vector and signedness tag from a
// Bits-carrying value.
func bitsOf(span astiface.Span, v value.Value) (bits.Vector, bool, error) {
	switch vv := v.(type) {
	case value.UBitsValue:
		return vv.Bits, false, nil
	case value.SBitsValue:
		return vv.Bits, true, nil
	default:
		return bits.Vector{}, false, invalidArg(span, "expected a bits value, got %v", v.Kind())
	}
}

func wrapBits(signed bool, vec bits.Vector) value.Value {
	if signed {
		return value.SBitsValue{Bits: vec}
	}
	return value.UBitsValue{Bits: vec}
}

func requireEqualWidth(span astiface.Span, a, b bits.Vector) error {
	if a.Width() != b.Width() {
		return invalidArg(span, "operand width mismatch: %d vs %d", a.Width(), b.Width())
	}
	return nil
}

// execBinaryBits handles the rhs-on-top binary arithmetic/bitwise/
// shift/concat opcodes (spec §4.5). Pop order is rhs then lhs;
// signedness of the result comes from lhs's tag.
func (in *Interpreter) execBinaryBits(f *Frame, bc bytecode.Bytecode) error {
	rhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	lhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	lhs, signed, err := bitsOf(bc.Span, lhsV)
	if err != nil {
		return err
	}
	rhs, _, err := bitsOf(bc.Span, rhsV)
	if err != nil {
		return err
	}

	switch bc.Op {
	case bytecode.OpConcat:
		in.stack.push(wrapBits(signed, bits.Concat(lhs, rhs)))
		return nil
	case bytecode.OpShl:
		n := shiftAmount(rhs)
		in.stack.push(wrapBits(signed, bits.ShiftLeft(lhs, n)))
		return nil
	case bytecode.OpShr:
		n := shiftAmount(rhs)
		if signed {
			in.stack.push(wrapBits(signed, bits.ShiftRightArithmetic(lhs, n)))
		} else {
			in.stack.push(wrapBits(signed, bits.ShiftRightLogical(lhs, n)))
		}
		return nil
	}

	if err := requireEqualWidth(bc.Span, lhs, rhs); err != nil {
		return err
	}

	switch bc.Op {
	case bytecode.OpAdd:
		in.stack.push(wrapBits(signed, bits.Add(lhs, rhs)))
	case bytecode.OpSub:
		in.stack.push(wrapBits(signed, bits.Sub(lhs, rhs)))
	case bytecode.OpMul:
		in.stack.push(wrapBits(signed, bits.Mul(lhs, rhs)))
	case bytecode.OpDiv:
		var q bits.Vector
		var derr error
		if signed {
			q, derr = bits.DivSigned(lhs, rhs)
		} else {
			q, derr = bits.DivUnsigned(lhs, rhs)
		}
		if derr != nil {
			return invalidArg(bc.Span, "%v", derr)
		}
		in.stack.push(wrapBits(signed, q))
	case bytecode.OpAnd:
		in.stack.push(wrapBits(signed, bits.And(lhs, rhs)))
	case bytecode.OpOr:
		in.stack.push(wrapBits(signed, bits.Or(lhs, rhs)))
	case bytecode.OpXor:
		in.stack.push(wrapBits(signed, bits.Xor(lhs, rhs)))
	default:
		return internalf(bc.Span, "execBinaryBits: unhandled opcode %v", bc.Op)
	}
	return nil
}

func (in *Interpreter) execUnaryBits(f *Frame, bc bytecode.Bytecode) error {
	v, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	vec, signed, err := bitsOf(bc.Span, v)
	if err != nil {
		return err
	}
	switch bc.Op {
	case bytecode.OpInvert:
		in.stack.push(wrapBits(signed, bits.Not(vec)))
	case bytecode.OpNegate:
		in.stack.push(wrapBits(signed, bits.Negate(vec)))
	default:
		return internalf(bc.Span, "execUnaryBits: unhandled opcode %v", bc.Op)
	}
	return nil
}

// shiftAmount reads a shift distance out of a Bits-carrying operand.
// Shift counts wider than 32 bits saturate rather than wrapping,
// since both shift handlers already saturate at operand width.
func shiftAmount(v bits.Vector) uint32 {
	u := v.Unsigned()
	if !u.IsUint64() {
		return 1 << 31
	}
	n := u.Uint64()
	if n > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n)
}
