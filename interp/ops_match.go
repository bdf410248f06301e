package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// execMatchArm implements MatchArm (spec §4.9): pops a candidate,
// tests it against the instruction's pattern, and pushes a 1-bit
// boolean. Store sub-patterns already visited keep their writes even
// if a later sibling fails to match — this is a documented side
// effect, not a bug, and must survive any future rewrite unchanged.
func (in *Interpreter) execMatchArm(f *Frame, bc bytecode.Bytecode) error {
	candidate, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	matched, err := matchPattern(f, bc.MatchPattern, candidate, bc.Span)
	if err != nil {
		return err
	}
	in.stack.push(boolValue(matched))
	return nil
}

func matchPattern(f *Frame, pat bytecode.MatchArmItem, candidate value.Value, span astiface.Span) (bool, error) {
	switch pat.Kind {
	case bytecode.PatternWildcard:
		return true, nil

	case bytecode.PatternStore:
		f.store(pat.Slot, candidate)
		return true, nil

	case bytecode.PatternLoad:
		bound, err := f.load(span, pat.Slot)
		if err != nil {
			return false, err
		}
		return value.Eq(bound, candidate), nil

	case bytecode.PatternLiteral:
		return value.Eq(pat.Literal, candidate), nil

	case bytecode.PatternTuple:
		t, ok := candidate.(*value.TupleValue)
		if !ok || len(t.Elements) != len(pat.Elements) {
			return false, internalf(span, "MatchArm: tuple pattern arity mismatch")
		}
		for i, sub := range pat.Elements {
			ok, err := matchPattern(f, sub, t.Elements[i], span)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil

	default:
		return false, internalf(span, "MatchArm: unknown pattern kind %d", pat.Kind)
	}
}
