package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

func toInt64(span astiface.Span, v value.Value) (int64, error) {
	switch vv := v.(type) {
	case value.UBitsValue:
		return vv.Bits.Unsigned().Int64(), nil
	case value.SBitsValue:
		return vv.Bits.Signed().Int64(), nil
	default:
		return 0, invalidArg(span, "expected a bits index operand, got %v", v.Kind())
	}
}

// clampIndex resolves a (possibly negative) start/limit index relative
// to width, per Slice's semantics (spec §4.5): negative indices are
// relative to width, then the result is clamped to [0, width].
func clampIndex(idx int64, width uint32) uint32 {
	if idx < 0 {
		idx += int64(width)
	}
	if idx < 0 {
		return 0
	}
	if idx > int64(width) {
		return width
	}
	return uint32(idx)
}

func (in *Interpreter) execSlice(f *Frame, bc bytecode.Bytecode) error {
	limitV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	startV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	basisV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	basis, _, err := bitsOf(bc.Span, basisV)
	if err != nil {
		return err
	}
	startRaw, err := toInt64(bc.Span, startV)
	if err != nil {
		return err
	}
	limitRaw, err := toInt64(bc.Span, limitV)
	if err != nil {
		return err
	}

	width := basis.Width()
	start := clampIndex(startRaw, width)
	limit := clampIndex(limitRaw, width)
	if limit > width {
		limit = width
	}

	in.stack.push(value.UBitsValue{Bits: bits.Slice(basis, start, limit)})
	return nil
}

// execWidthSlice implements WidthSlice (spec §4.5, §9 open question):
// when the requested window extends past the basis's width, the basis
// is zero-extended to cover it before slicing — the result's tag
// follows the target type's signedness regardless of the basis's own
// tag, per the payload's explicit {width, signed}.
func (in *Interpreter) execWidthSlice(f *Frame, bc bytecode.Bytecode) error {
	startV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	basisV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	basis, _, err := bitsOf(bc.Span, basisV)
	if err != nil {
		return err
	}
	startRaw, err := toInt64(bc.Span, startV)
	if err != nil {
		return err
	}
	if startRaw < 0 {
		return invalidArg(bc.Span, "WidthSlice: negative start %d", startRaw)
	}
	start := uint32(startRaw)
	targetWidth := bc.TargetType.Width
	basisWidth := basis.Width()

	if start >= basisWidth {
		in.stack.push(wrapBits(bc.TargetType.Signed, bits.Zero(targetWidth)))
		return nil
	}

	need := start + targetWidth
	if need > basisWidth {
		basis = bits.ZeroExtend(basis, need)
	}
	result := bits.Slice(basis, start, start+targetWidth)
	in.stack.push(wrapBits(bc.TargetType.Signed, result))
	return nil
}
