package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a Function's instruction stream as a human
// readable listing, one instruction per line prefixed with its index,
// operand summary and a ";"-led span comment — grounded on the
// example pack's own bytecode disassembler output shape.
func Disassemble(f *Function) string {
	var b strings.Builder
	for i, bc := range f.Code {
		fmt.Fprintf(&b, "%4d  %-12s%s", i, bc.Op, operandSummary(bc))
		fmt.Fprintf(&b, "  ; %s\n", bc.Span)
	}
	return b.String()
}

func operandSummary(bc Bytecode) string {
	switch bc.Op {
	case OpLoad, OpStore:
		return fmt.Sprintf("slot=%d", bc.SlotIndex)
	case OpJumpRel, OpJumpRelIf:
		return fmt.Sprintf("delta=%d", bc.JumpTarget)
	case OpCreateArray, OpCreateTuple, OpExpandTuple:
		return fmt.Sprintf("n=%d", bc.NumElements)
	case OpLiteral:
		if bc.LiteralValue != nil {
			return bc.LiteralValue.String()
		}
		return "<nil>"
	case OpCast, OpWidthSlice:
		return fmt.Sprintf("type=%v", bc.TargetType.Tag)
	case OpCall:
		if bc.Invocation != nil {
			return fmt.Sprintf("args=%d", bc.Invocation.ArgCount)
		}
		return ""
	case OpMatchArm:
		return fmt.Sprintf("pattern=%v", bc.MatchPattern.Kind)
	case OpFail:
		return bc.Text
	default:
		return ""
	}
}
