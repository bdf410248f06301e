package interp

import (
	"github.com/dslx-project/bcvm/bytecode"
)

// verifyLanding checks that a jump's destination is a JumpDest
// instruction, per the dispatch rule's fatal-mismatch requirement
// (spec §4.4).
func (in *Interpreter) verifyLanding(f *Frame, bc bytecode.Bytecode) error {
	if f.pc < 0 || f.pc >= f.bf.Len() {
		return internalf(bc.Span, "jump target %d out of range (len %d)", f.pc, f.bf.Len())
	}
	if f.bf.Code[f.pc].Op != bytecode.OpJumpDest {
		return internalf(bc.Span, "jump target %d is not a JumpDest", f.pc)
	}
	return nil
}

func (in *Interpreter) execJumpRel(f *Frame, bc bytecode.Bytecode) error {
	f.pc += bc.JumpTarget
	return in.verifyLanding(f, bc)
}

func (in *Interpreter) execJumpRelIf(f *Frame, bc bytecode.Bytecode) (bool, error) {
	cond, err := in.stack.pop(bc.Span)
	if err != nil {
		return false, err
	}
	taken, ok := asBool(cond)
	if !ok {
		return false, invalidArg(bc.Span, "JumpRelIf: expected a 1-bit condition, got %v", cond.Kind())
	}
	if !taken {
		return false, nil
	}
	f.pc += bc.JumpTarget
	return true, in.verifyLanding(f, bc)
}
