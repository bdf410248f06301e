package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// execBuiltin runs a builtin handler in place on the current frame
// (spec §4.7 "execute the builtin handler in-place"), except for Map,
// whose handler instead synthesizes and pushes a new frame (spec
// §4.10) so the loop body's Call instructions go through the ordinary
// flat dispatch path rather than Go-level recursion.
func (in *Interpreter) execBuiltin(f *Frame, bc bytecode.Bytecode, id value.BuiltinID) error {
	if id == value.BuiltinMap {
		return in.execMapBuiltin(f, bc)
	}

	n := bc.Invocation.ArgCount
	args, err := in.stack.popN(bc.Span, n)
	if err != nil {
		return err
	}

	switch id {
	case value.BuiltinAssertEq:
		return in.builtinAssertEq(bc.Span, args)
	case value.BuiltinAssertLt:
		return in.builtinAssertLt(bc.Span, args)
	case value.BuiltinFail:
		return failure(bc.Span, bc.Text)
	case value.BuiltinAndReduce, value.BuiltinOrReduce, value.BuiltinXorReduce:
		return in.builtinReduce(bc.Span, id, args)
	case value.BuiltinRev:
		return in.builtinRev(bc.Span, args)
	case value.BuiltinSignExtend:
		return in.builtinExtend(bc.Span, args, true)
	case value.BuiltinZeroExtend:
		return in.builtinExtend(bc.Span, args, false)
	case value.BuiltinClz:
		return in.builtinZeroCount(bc.Span, args, true)
	case value.BuiltinCtz:
		return in.builtinZeroCount(bc.Span, args, false)
	default:
		return unimplemented(bc.Span, "builtin %v not handled", id)
	}
}

func (in *Interpreter) builtinAssertEq(span astiface.Span, args []value.Value) error {
	if len(args) != 2 {
		return internalf(span, "assert_eq: expected 2 arguments, got %d", len(args))
	}
	if !value.Eq(args[0], args[1]) {
		return failure(span, "assert_eq: "+args[0].String()+" != "+args[1].String())
	}
	in.stack.push(value.Token)
	return nil
}

func (in *Interpreter) builtinAssertLt(span astiface.Span, args []value.Value) error {
	if len(args) != 2 {
		return internalf(span, "assert_lt: expected 2 arguments, got %d", len(args))
	}
	lhs, signed, err := bitsOf(span, args[0])
	if err != nil {
		return err
	}
	rhs, _, err := bitsOf(span, args[1])
	if err != nil {
		return err
	}
	if err := requireEqualWidth(span, lhs, rhs); err != nil {
		return err
	}
	var cmp int
	if signed {
		cmp = bits.CmpSigned(lhs, rhs)
	} else {
		cmp = bits.CmpUnsigned(lhs, rhs)
	}
	if cmp >= 0 {
		return failure(span, "assert_lt: "+args[0].String()+" is not less than "+args[1].String())
	}
	in.stack.push(value.Token)
	return nil
}

func (in *Interpreter) builtinReduce(span astiface.Span, id value.BuiltinID, args []value.Value) error {
	if len(args) != 1 {
		return internalf(span, "%v: expected 1 argument, got %d", id, len(args))
	}
	vec, _, err := bitsOf(span, args[0])
	if err != nil {
		return err
	}
	var r bits.Vector
	switch id {
	case value.BuiltinAndReduce:
		r = bits.AndReduce(vec)
	case value.BuiltinOrReduce:
		r = bits.OrReduce(vec)
	case value.BuiltinXorReduce:
		r = bits.XorReduce(vec)
	}
	in.stack.push(value.UBitsValue{Bits: r})
	return nil
}

func (in *Interpreter) builtinRev(span astiface.Span, args []value.Value) error {
	if len(args) != 1 {
		return internalf(span, "rev: expected 1 argument, got %d", len(args))
	}
	vec, signed, err := bitsOf(span, args[0])
	if err != nil {
		return err
	}
	in.stack.push(wrapBits(signed, bits.Reverse(vec)))
	return nil
}

// builtinExtend implements the sign_extend/zero_extend builtins: the
// second argument supplies the target width. Unlike Cast, the result
// tag follows the builtin's own name rather than a payload type (spec
// SUPPLEMENTED FEATURES).
func (in *Interpreter) builtinExtend(span astiface.Span, args []value.Value, signed bool) error {
	if len(args) != 2 {
		return internalf(span, "extend builtin: expected 2 arguments, got %d", len(args))
	}
	vec, _, err := bitsOf(span, args[0])
	if err != nil {
		return err
	}
	widthVec, _, err := bitsOf(span, args[1])
	if err != nil {
		return err
	}
	newWidth := uint32(widthVec.Unsigned().Uint64())
	var extended bits.Vector
	if signed {
		extended = bits.Extend(vec, newWidth, true)
	} else {
		extended = bits.Extend(vec, newWidth, false)
	}
	in.stack.push(wrapBits(signed, extended))
	return nil
}

func (in *Interpreter) builtinZeroCount(span astiface.Span, args []value.Value, leading bool) error {
	if len(args) != 1 {
		return internalf(span, "zero-count builtin: expected 1 argument, got %d", len(args))
	}
	vec, _, err := bitsOf(span, args[0])
	if err != nil {
		return err
	}
	var n uint32
	if leading {
		n = bits.LeadingZeroCount(vec)
	} else {
		n = bits.TrailingZeroCount(vec)
	}
	in.stack.push(value.UBitsValue{Bits: bits.FromUint64(vec.Width(), uint64(n))})
	return nil
}
