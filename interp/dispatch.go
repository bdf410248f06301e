package interp

import (
	"github.com/dslx-project/bcvm/bytecode"
)

// run is the flat dispatch loop (spec §4.4): no Go-level recursion
// ever occurs here on Call — a call simply replaces what "current
// frame" means for the next iteration.
func (in *Interpreter) run() error {
	for !in.frames.empty() {
		f := in.frames.top()
		if f.pc >= f.bf.Len() {
			in.frames.pop()
			continue
		}
		bc := f.bf.Code[f.pc]
		handled, err := in.exec(f, bc)
		if err != nil {
			return err
		}
		if !handled {
			f.pc++
		}
	}
	return nil
}

// exec dispatches one instruction. handled=true means the instruction
// itself already set the relevant frame's pc (Call, a taken jump) and
// the loop must not also auto-increment.
func (in *Interpreter) exec(f *Frame, bc bytecode.Bytecode) (handled bool, err error) {
	switch bc.Op {
	case bytecode.OpLiteral:
		return false, in.execLiteral(f, bc)
	case bytecode.OpPop:
		return false, in.execPop(f, bc)
	case bytecode.OpDup:
		return false, in.execDup(f, bc)
	case bytecode.OpSwap:
		return false, in.execSwap(f, bc)
	case bytecode.OpLoad:
		return false, in.execLoad(f, bc)
	case bytecode.OpStore:
		return false, in.execStore(f, bc)

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv,
		bytecode.OpAnd, bytecode.OpOr, bytecode.OpXor,
		bytecode.OpShl, bytecode.OpShr, bytecode.OpConcat:
		return false, in.execBinaryBits(f, bc)
	case bytecode.OpInvert, bytecode.OpNegate:
		return false, in.execUnaryBits(f, bc)

	case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		return false, in.execCompare(f, bc)
	case bytecode.OpLogicalAnd, bytecode.OpLogicalOr:
		return false, in.execLogical(f, bc)

	case bytecode.OpCreateArray:
		return false, in.execCreateArray(f, bc)
	case bytecode.OpCreateTuple:
		return false, in.execCreateTuple(f, bc)
	case bytecode.OpExpandTuple:
		return false, in.execExpandTuple(f, bc)
	case bytecode.OpIndex:
		return false, in.execIndex(f, bc)

	case bytecode.OpSlice:
		return false, in.execSlice(f, bc)
	case bytecode.OpWidthSlice:
		return false, in.execWidthSlice(f, bc)
	case bytecode.OpCast:
		return false, in.execCast(f, bc)

	case bytecode.OpMatchArm:
		return false, in.execMatchArm(f, bc)

	case bytecode.OpJumpDest:
		return false, nil
	case bytecode.OpJumpRel:
		return true, in.execJumpRel(f, bc)
	case bytecode.OpJumpRelIf:
		return in.execJumpRelIf(f, bc)

	case bytecode.OpCall:
		return true, in.execCall(f, bc)

	case bytecode.OpFail:
		return false, in.execFail(f, bc)
	case bytecode.OpTrace:
		return false, in.execTrace(f, bc)

	case bytecode.OpSend:
		return false, in.execSend(f, bc)
	case bytecode.OpRecv:
		return false, in.execRecv(f, bc)

	default:
		return false, internalf(bc.Span, "unknown opcode %v", bc.Op)
	}
}
