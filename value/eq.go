package value

import "math/big"

// Eq implements InterpValue's structural equality (spec §3): arrays and
// tuples compare element-wise, Bits-carrying values compare by bit
// pattern with signedness ignored (a UBits and an SBits of equal width
// and pattern are Eq), and Channel/Function values compare by identity.
func Eq(a, b Value) bool {
	switch av := a.(type) {
	case UBitsValue:
		return eqBitPattern(av.Bits.Width(), av.Bits.Unsigned(), b)
	case SBitsValue:
		return eqBitPattern(av.Bits.Width(), av.Bits.Unsigned(), b)
	case EnumValue:
		bv, ok := b.(EnumValue)
		return ok && av.Bits.Width() == bv.Bits.Width() && av.Bits.Eq(bv.Bits)
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Eq(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *TupleValue:
		bv, ok := b.(*TupleValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Eq(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case TokenValue:
		_, ok := b.(TokenValue)
		return ok
	case ChannelValue:
		bv, ok := b.(ChannelValue)
		return ok && av.Handle == bv.Handle
	case FunctionValue:
		bv, ok := b.(FunctionValue)
		if !ok || av.IsUser != bv.IsUser {
			return false
		}
		if av.IsUser {
			return av.User == bv.User
		}
		return av.Builtin == bv.Builtin
	default:
		return false
	}
}

// eqBitPattern compares a bit pattern (from either a UBits or SBits
// value) against whatever Bits-carrying value b holds, ignoring tag.
func eqBitPattern(width uint32, pattern *big.Int, b Value) bool {
	switch bv := b.(type) {
	case UBitsValue:
		return bv.Bits.Width() == width && bv.Bits.Unsigned().Cmp(pattern) == 0
	case SBitsValue:
		return bv.Bits.Width() == width && bv.Bits.Unsigned().Cmp(pattern) == 0
	default:
		return false
	}
}
