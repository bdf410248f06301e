package interp

import (
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// execMapBuiltin lowers a Map(array, fn) call into a synthetic loop
// body and pushes it as a new frame (spec §4.10), rather than running
// it in place: the loop's element calls must go through the ordinary
// Call opcode so a user-defined fn is resolved, cached, and dispatched
// exactly like any other call, with no Go-level recursion into fn's
// body from inside this builtin handler.
func (in *Interpreter) execMapBuiltin(f *Frame, bc bytecode.Bytecode) error {
	args, err := in.stack.popN(bc.Span, 2)
	if err != nil {
		return err
	}
	arr, ok := args[0].(*value.ArrayValue)
	if !ok {
		return invalidArg(bc.Span, "map: expected an array as first argument, got %v", args[0].Kind())
	}
	fn := args[1]
	if _, ok := fn.(value.FunctionValue); !ok {
		return invalidArg(bc.Span, "map: expected a function as second argument, got %v", fn.Kind())
	}

	// execCall has already advanced f.pc to the return site, where the
	// caller resumes once the synthetic frame pops.

	n := len(arr.Elements)
	if n == 0 {
		// The loop body is a do-while that indexes element 0 before
		// testing the bound; an empty array has no element 0, so
		// short-circuit rather than synthesize a loop that would
		// immediately fault.
		in.stack.push(&value.ArrayValue{ElemType: arr.ElemType, Elements: nil})
		return nil
	}

	bf := synthesizeMapBody(n, fn, bc)
	zero := value.UBitsValue{Bits: bits.FromUint64(32, 0)}
	in.frames.push(newFrame(bf, nil, nil, []value.Value{arr, zero}))
	return nil
}

// synthesizeMapBody builds the loop bytecode.Function described in
// spec §4.10: slot 0 holds the input array, slot 1 the u32 index.
func synthesizeMapBody(n int, fn value.Value, callBC bytecode.Bytecode) *bytecode.Function {
	span := callBC.Span
	lenLiteral := value.UBitsValue{Bits: bits.FromUint64(32, uint64(n))}
	oneLiteral := value.UBitsValue{Bits: bits.FromUint64(32, 1)}

	code := []bytecode.Bytecode{
		{Op: bytecode.OpJumpDest, Span: span}, // 0: loop top
		{Op: bytecode.OpLoad, Span: span, SlotIndex: 0},
		{Op: bytecode.OpLoad, Span: span, SlotIndex: 1},
		{Op: bytecode.OpIndex, Span: span}, // 3: array[index]
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: fn},
		{Op: bytecode.OpCall, Span: span, Invocation: &bytecode.InvocationData{
			Invocation:     callBC.Invocation.Invocation,
			CallerBindings: callBC.Invocation.CallerBindings,
			ArgCount:       1,
		}}, // 5: result pushed, net stack += 1
		{Op: bytecode.OpLoad, Span: span, SlotIndex: 1},
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: oneLiteral},
		{Op: bytecode.OpAdd, Span: span}, // 8: index + 1
		{Op: bytecode.OpStore, Span: span, SlotIndex: 1},
		{Op: bytecode.OpLoad, Span: span, SlotIndex: 1},
		{Op: bytecode.OpLiteral, Span: span, LiteralValue: lenLiteral},
		{Op: bytecode.OpLt, Span: span},              // 12: index < len
		{Op: bytecode.OpJumpRelIf, Span: span, JumpTarget: -13}, // 13: back to loop top
		{Op: bytecode.OpCreateArray, Span: span, NumElements: n}, // 14: after loop
	}
	return bytecode.CreateSynthetic(2, code)
}
