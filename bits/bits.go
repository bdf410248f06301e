// Package bits implements the arbitrary-width bit vector engine that
// InterpValue's Bits-carrying variants are built on.
//
// The interpreter core treats the bits engine as an external collaborator
// (spec §2 item 1): a width-exact integer vector with documented
// operations for arithmetic, logical ops, reductions, slicing,
// extension, reversal, and zero/leading-bit counting. No third-party
// arbitrary-precision bit vector library is carried by the example
// corpus, so this package is a thin, deliberately small wrapper over
// math/big — the same vehicle the grounding runtime value
// implementation (an arbitrary-width integer value in the rest of the
// example pack) uses for its own integers.
//
// A Vector's canonical storage is always the unsigned bit pattern in
// [0, 2^Width): signedness is not a property of the stored bits, it is
// supplied by the caller at each operation that needs it (mirroring how
// InterpValue's UBits and SBits variants share the same underlying
// storage and differ only in how the interpreter interprets it).
package bits

import (
	"fmt"
	"math/big"
)

// Vector is a width-exact arbitrary-precision bit vector.
type Vector struct {
	width uint32
	val   *big.Int // canonical: 0 <= val < 2^width
}

var (
	big0 = big.NewInt(0)
	big1 = big.NewInt(1)
)

func mask(width uint32) *big.Int {
	m := new(big.Int).Lsh(big1, uint(width))
	m.Sub(m, big1)
	return m
}

func canon(width uint32, v *big.Int) *big.Int {
	r := new(big.Int).And(v, mask(width))
	return r
}

// FromBigInt builds a Vector of the given width from an arbitrary signed
// or unsigned big.Int, truncating (two's-complement, modulo 2^width) to
// fit.
func FromBigInt(width uint32, v *big.Int) Vector {
	return Vector{width: width, val: canon(width, v)}
}

// FromUint64 builds an unsigned Vector from a uint64, truncated to width.
func FromUint64(width uint32, v uint64) Vector {
	return FromBigInt(width, new(big.Int).SetUint64(v))
}

// FromInt64 builds a Vector from an int64 (two's-complement), truncated
// to width.
func FromInt64(width uint32, v int64) Vector {
	return FromBigInt(width, big.NewInt(v))
}

// Zero returns the all-zero vector of the given width.
func Zero(width uint32) Vector {
	return Vector{width: width, val: new(big.Int)}
}

// Width returns the vector's bit width.
func (v Vector) Width() uint32 { return v.width }

// Unsigned returns the bit pattern interpreted as an unsigned integer.
func (v Vector) Unsigned() *big.Int {
	return new(big.Int).Set(v.val)
}

// Signed returns the bit pattern interpreted as a two's-complement
// signed integer of the vector's width.
func (v Vector) Signed() *big.Int {
	if v.width == 0 {
		return new(big.Int)
	}
	signBit := new(big.Int).Rsh(v.val, uint(v.width-1))
	if signBit.Sign() == 0 {
		return new(big.Int).Set(v.val)
	}
	r := new(big.Int).Sub(v.val, new(big.Int).Lsh(big1, uint(v.width)))
	return r
}

// IsZero reports whether every bit is zero.
func (v Vector) IsZero() bool { return v.val.Sign() == 0 }

// Eq compares bit patterns only, ignoring any notion of signedness —
// this is the "structural, signedness-ignored" equality InterpValue's
// Eq relies on for Bits-carrying values.
func (v Vector) Eq(o Vector) bool {
	return v.width == o.width && v.val.Cmp(o.val) == 0
}

func requireSameWidth(a, b Vector) {
	if a.width != b.width {
		panic(fmt.Sprintf("bits: width mismatch %d vs %d", a.width, b.width))
	}
}

// Add returns a+b modulo 2^width. Two's-complement add/sub/mul do not
// depend on signedness of the operands, only of the result's
// interpretation.
func Add(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).Add(a.val, b.val))
}

// Sub returns a-b modulo 2^width.
func Sub(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).Sub(a.val, b.val))
}

// Mul returns a*b modulo 2^width.
func Mul(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).Mul(a.val, b.val))
}

// DivUnsigned returns floor(a/b) using unsigned interpretation.
func DivUnsigned(a, b Vector) (Vector, error) {
	requireSameWidth(a, b)
	if b.val.Sign() == 0 {
		return Vector{}, fmt.Errorf("bits: division by zero")
	}
	return FromBigInt(a.width, new(big.Int).Div(a.val, b.val)), nil
}

// DivSigned returns the floor of a/b using signed interpretation.
func DivSigned(a, b Vector) (Vector, error) {
	requireSameWidth(a, b)
	bs := b.Signed()
	if bs.Sign() == 0 {
		return Vector{}, fmt.Errorf("bits: division by zero")
	}
	as := a.Signed()
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(as, bs, m)
	// big.Int.DivMod implements Euclidean division; floor division for
	// negative divisors needs adjustment so the quotient rounds toward
	// negative infinity like the language's floor-div semantics.
	if m.Sign() != 0 && (m.Sign() < 0) != (bs.Sign() < 0) {
		q.Sub(q, big1)
	}
	return FromBigInt(a.width, q), nil
}

// And/Or/Xor are bitwise, width-preserving.
func And(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).And(a.val, b.val))
}

func Or(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).Or(a.val, b.val))
}

func Xor(a, b Vector) Vector {
	requireSameWidth(a, b)
	return FromBigInt(a.width, new(big.Int).Xor(a.val, b.val))
}

// Not returns the bitwise complement, width-preserving.
func Not(a Vector) Vector {
	return FromBigInt(a.width, new(big.Int).Not(a.val))
}

// Negate returns the two's-complement negation, width-preserving.
func Negate(a Vector) Vector {
	return FromBigInt(a.width, new(big.Int).Neg(a.val))
}

// ShiftLeft performs a logical left shift, width-preserving (bits
// shifted past the top are discarded).
func ShiftLeft(a Vector, n uint32) Vector {
	if uint64(n) >= uint64(a.width) {
		return Zero(a.width)
	}
	return FromBigInt(a.width, new(big.Int).Lsh(a.val, uint(n)))
}

// ShiftRightLogical performs an unsigned (zero-filling) right shift.
func ShiftRightLogical(a Vector, n uint32) Vector {
	if uint64(n) >= uint64(a.width) {
		return Zero(a.width)
	}
	return FromBigInt(a.width, new(big.Int).Rsh(a.val, uint(n)))
}

// ShiftRightArithmetic performs a sign-filling right shift.
func ShiftRightArithmetic(a Vector, n uint32) Vector {
	if a.width == 0 {
		return a
	}
	signed := a.Signed()
	shiftAmt := uint(n)
	if uint64(n) >= uint64(a.width) {
		shiftAmt = uint(a.width - 1)
	}
	return FromBigInt(a.width, new(big.Int).Rsh(signed, shiftAmt))
}

// Concat concatenates a (high bits) with b (low bits): width is the sum
// of the operand widths.
func Concat(hi, lo Vector) Vector {
	w := hi.width + lo.width
	r := new(big.Int).Lsh(hi.val, uint(lo.width))
	r.Or(r, lo.val)
	return FromBigInt(w, r)
}

// CmpUnsigned compares two vectors' unsigned interpretation: -1, 0, 1.
func CmpUnsigned(a, b Vector) int {
	return a.val.Cmp(b.val)
}

// CmpSigned compares two vectors' two's-complement signed
// interpretation: -1, 0, 1.
func CmpSigned(a, b Vector) int {
	return a.Signed().Cmp(b.Signed())
}

// ZeroExtend widens a to newWidth, filling high bits with zero.
// newWidth must be >= a.Width(); truncation is handled by Truncate.
func ZeroExtend(a Vector, newWidth uint32) Vector {
	return Vector{width: newWidth, val: new(big.Int).Set(a.val)}
}

// SignExtend widens a to newWidth, replicating the sign bit.
func SignExtend(a Vector, newWidth uint32) Vector {
	return FromBigInt(newWidth, a.Signed())
}

// Truncate narrows a to newWidth, discarding high bits.
func Truncate(a Vector, newWidth uint32) Vector {
	return FromBigInt(newWidth, a.val)
}

// Extend resizes a to newWidth: zero- or sign-extends when growing,
// truncates when shrinking, and is a no-op when the widths match.
func Extend(a Vector, newWidth uint32, signed bool) Vector {
	switch {
	case newWidth == a.width:
		return a
	case newWidth > a.width:
		if signed {
			return SignExtend(a, newWidth)
		}
		return ZeroExtend(a, newWidth)
	default:
		return Truncate(a, newWidth)
	}
}

// Slice extracts an unsigned sub-vector [start, limit) from a, per the
// `Slice` opcode's clamped semantics (spec §4.5): callers are expected
// to have already resolved negative indices and clamped limit <= width
// before calling; Slice itself just extracts bits [start, limit).
func Slice(a Vector, start, limit uint32) Vector {
	if limit <= start {
		return Zero(0)
	}
	w := limit - start
	r := new(big.Int).Rsh(a.val, uint(start))
	return FromBigInt(w, r)
}

// Reverse reverses the bit order of a, width-preserving.
func Reverse(a Vector) Vector {
	r := new(big.Int)
	v := new(big.Int).Set(a.val)
	for i := uint32(0); i < a.width; i++ {
		r.Lsh(r, 1)
		if v.Bit(0) == 1 {
			r.SetBit(r, 0, 1)
		}
		v.Rsh(v, 1)
	}
	return Vector{width: a.width, val: r}
}

// AndReduce ANDs together every bit, returning a 1-bit result.
func AndReduce(a Vector) Vector {
	for i := uint32(0); i < a.width; i++ {
		if a.val.Bit(int(i)) == 0 {
			return FromUint64(1, 0)
		}
	}
	return FromUint64(1, 1)
}

// OrReduce ORs together every bit, returning a 1-bit result.
func OrReduce(a Vector) Vector {
	if a.val.Sign() == 0 {
		return FromUint64(1, 0)
	}
	return FromUint64(1, 1)
}

// XorReduce XORs together every bit, returning a 1-bit result
// (i.e. parity of the population count).
func XorReduce(a Vector) Vector {
	count := 0
	for i := uint32(0); i < a.width; i++ {
		if a.val.Bit(int(i)) == 1 {
			count++
		}
	}
	return FromUint64(1, uint64(count&1))
}

// LeadingZeroCount returns the number of leading (high-order) zero
// bits, width included (an all-zero vector reports Width()).
func LeadingZeroCount(a Vector) uint32 {
	for i := int(a.width) - 1; i >= 0; i-- {
		if a.val.Bit(i) == 1 {
			return a.width - uint32(i) - 1
		}
	}
	return a.width
}

// TrailingZeroCount returns the number of trailing (low-order) zero
// bits, width included (an all-zero vector reports Width()).
func TrailingZeroCount(a Vector) uint32 {
	for i := uint32(0); i < a.width; i++ {
		if a.val.Bit(int(i)) == 1 {
			return i
		}
	}
	return a.width
}

// String renders the vector as an unsigned decimal with its width, e.g.
// "42 [8 bits]".
func (v Vector) String() string {
	return fmt.Sprintf("%d [%d bits]", v.val, v.width)
}
