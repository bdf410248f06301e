package interp

import (
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

func boolValue(b bool) value.Value {
	if b {
		return value.UBitsValue{Bits: bits.FromUint64(1, 1)}
	}
	return value.UBitsValue{Bits: bits.FromUint64(1, 0)}
}

// execCompare handles Eq/Ne (structural, any kind) and the ordered
// comparisons Lt/Le/Gt/Ge (bits-only, signedness from lhs's tag).
func (in *Interpreter) execCompare(f *Frame, bc bytecode.Bytecode) error {
	rhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	lhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}

	if bc.Op == bytecode.OpEq {
		in.stack.push(boolValue(value.Eq(lhsV, rhsV)))
		return nil
	}
	if bc.Op == bytecode.OpNe {
		in.stack.push(boolValue(!value.Eq(lhsV, rhsV)))
		return nil
	}

	lhs, signed, err := bitsOf(bc.Span, lhsV)
	if err != nil {
		return err
	}
	rhs, _, err := bitsOf(bc.Span, rhsV)
	if err != nil {
		return err
	}
	if err := requireEqualWidth(bc.Span, lhs, rhs); err != nil {
		return err
	}

	var cmp int
	if signed {
		cmp = bits.CmpSigned(lhs, rhs)
	} else {
		cmp = bits.CmpUnsigned(lhs, rhs)
	}

	switch bc.Op {
	case bytecode.OpLt:
		in.stack.push(boolValue(cmp < 0))
	case bytecode.OpLe:
		in.stack.push(boolValue(cmp <= 0))
	case bytecode.OpGt:
		in.stack.push(boolValue(cmp > 0))
	case bytecode.OpGe:
		in.stack.push(boolValue(cmp >= 0))
	default:
		return internalf(bc.Span, "execCompare: unhandled opcode %v", bc.Op)
	}
	return nil
}

func asBool(span value.Value) (bool, bool) {
	ub, ok := span.(value.UBitsValue)
	if !ok || ub.Bits.Width() != 1 {
		return false, false
	}
	return !ub.Bits.IsZero(), true
}

func (in *Interpreter) execLogical(f *Frame, bc bytecode.Bytecode) error {
	rhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	lhsV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	lb, ok := asBool(lhsV)
	if !ok {
		return invalidArg(bc.Span, "logical operator requires 1-bit operands, got %v", lhsV.Kind())
	}
	rb, ok := asBool(rhsV)
	if !ok {
		return invalidArg(bc.Span, "logical operator requires 1-bit operands, got %v", rhsV.Kind())
	}
	switch bc.Op {
	case bytecode.OpLogicalAnd:
		in.stack.push(boolValue(lb && rb))
	case bytecode.OpLogicalOr:
		in.stack.push(boolValue(lb || rb))
	default:
		return internalf(bc.Span, "execLogical: unhandled opcode %v", bc.Op)
	}
	return nil
}
