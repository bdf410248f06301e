package interp

import (
	"strings"

	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// renderTraceData implements TraceData formatting (spec §4.8): format
// directives are resolved right-to-left, each popping one value off
// the stack, while literal text pieces are used as-is; the rendered
// pieces are then concatenated in original left-to-right order. A
// space is inserted before a piece only when the immediately
// preceding piece was a literal — this is the historical heuristic
// spec §9 calls out to preserve bug-for-bug rather than replace with
// an explicit format spec.
func (in *Interpreter) renderTraceData(span astiface.Span, items []bytecode.TraceDataItem) (string, error) {
	rendered := make([]string, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item.IsLiteral {
			rendered[i] = item.Text
			continue
		}
		v, err := in.stack.pop(span)
		if err != nil {
			return "", err
		}
		rendered[i] = v.String()
	}

	var b strings.Builder
	for i, piece := range rendered {
		if i > 0 && items[i-1].IsLiteral {
			b.WriteByte(' ')
		}
		b.WriteString(piece)
	}
	return b.String(), nil
}

func (in *Interpreter) execFail(f *Frame, bc bytecode.Bytecode) error {
	msg, err := in.renderTraceData(bc.Span, bc.TraceItems)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = bc.Text
	}
	return failure(bc.Span, msg)
}

func (in *Interpreter) execTrace(f *Frame, bc bytecode.Bytecode) error {
	msg, err := in.renderTraceData(bc.Span, bc.TraceItems)
	if err != nil {
		return err
	}
	in.logger.Printf("TRACE %s: %s", bc.Span, msg)
	in.stack.push(value.Token)
	return nil
}
