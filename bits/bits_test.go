package bits

import (
	"math/big"
	"testing"
)

func TestAddWraps(t *testing.T) {
	a := FromUint64(8, 250)
	b := FromUint64(8, 10)
	got := Add(a, b)
	if got.Width() != 8 {
		t.Fatalf("width = %d, want 8", got.Width())
	}
	if got.Unsigned().Uint64() != 4 {
		t.Fatalf("250+10 mod 256 = %s, want 4", got.Unsigned())
	}
}

func TestSubWraps(t *testing.T) {
	a := FromUint64(8, 1)
	b := FromUint64(8, 2)
	got := Sub(a, b)
	if got.Unsigned().Uint64() != 255 {
		t.Fatalf("1-2 mod 256 = %s, want 255", got.Unsigned())
	}
}

func TestDivSignedFloor(t *testing.T) {
	a := FromInt64(8, -7)
	b := FromInt64(8, 2)
	q, err := DivSigned(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Signed().Int64(); got != -4 {
		t.Fatalf("floor(-7/2) = %d, want -4", got)
	}
}

func TestDivUnsigned(t *testing.T) {
	a := FromUint64(8, 7)
	b := FromUint64(8, 2)
	q, err := DivUnsigned(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := q.Unsigned().Uint64(); got != 3 {
		t.Fatalf("7/2 = %d, want 3", got)
	}
}

func TestDivByZero(t *testing.T) {
	a := FromUint64(8, 7)
	z := Zero(8)
	if _, err := DivUnsigned(a, z); err == nil {
		t.Fatal("expected division-by-zero error")
	}
	if _, err := DivSigned(a, z); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}

func TestShiftRightArithmeticPreservesSign(t *testing.T) {
	a := FromInt64(8, -1)
	got := ShiftRightArithmetic(a, 7)
	if got.Signed().Int64() != -1 {
		t.Fatalf("-1 >>> 7 = %d, want -1", got.Signed().Int64())
	}
}

func TestShiftLeftSaturatesAtWidth(t *testing.T) {
	a := FromUint64(8, 0xFF)
	got := ShiftLeft(a, 100)
	if !got.IsZero() {
		t.Fatalf("shift past width should zero out, got %s", got.Unsigned())
	}
}

func TestConcat(t *testing.T) {
	hi := FromUint64(4, 0b1010)
	lo := FromUint64(4, 0b0011)
	got := Concat(hi, lo)
	if got.Width() != 8 {
		t.Fatalf("width = %d, want 8", got.Width())
	}
	if got.Unsigned().Uint64() != 0b10100011 {
		t.Fatalf("concat = %b, want 10100011", got.Unsigned().Uint64())
	}
}

func TestSliceClampedByCaller(t *testing.T) {
	basis := FromUint64(8, 0b11001010)
	got := Slice(basis, 1, 4)
	if got.Width() != 3 {
		t.Fatalf("width = %d, want 3", got.Width())
	}
	if got.Unsigned().Uint64() != 0b101 {
		t.Fatalf("slice = %b, want 101", got.Unsigned().Uint64())
	}
}

func TestExtend(t *testing.T) {
	neg1 := FromInt64(4, -1)
	se := Extend(neg1, 8, true)
	if se.Signed().Int64() != -1 {
		t.Fatalf("sign-extend -1 = %d, want -1", se.Signed().Int64())
	}
	ze := Extend(FromUint64(4, 0b1010), 8, false)
	if ze.Unsigned().Uint64() != 0b1010 {
		t.Fatalf("zero-extend = %d, want 10", ze.Unsigned().Uint64())
	}
}

func TestReverse(t *testing.T) {
	a := FromUint64(4, 0b1000)
	got := Reverse(a)
	if got.Unsigned().Uint64() != 0b0001 {
		t.Fatalf("reverse(1000) = %b, want 0001", got.Unsigned().Uint64())
	}
}

func TestReductions(t *testing.T) {
	allOnes := FromUint64(4, 0b1111)
	if AndReduce(allOnes).Unsigned().Uint64() != 1 {
		t.Fatal("and_reduce(1111) should be 1")
	}
	mixed := FromUint64(4, 0b1010)
	if AndReduce(mixed).Unsigned().Uint64() != 0 {
		t.Fatal("and_reduce(1010) should be 0")
	}
	if OrReduce(Zero(4)).Unsigned().Uint64() != 0 {
		t.Fatal("or_reduce(0000) should be 0")
	}
	if XorReduce(FromUint64(4, 0b0110)).Unsigned().Uint64() != 0 {
		t.Fatal("xor_reduce(0110) should be 0 (even parity)")
	}
}

func TestLeadingTrailingZeroCount(t *testing.T) {
	v := FromUint64(8, 0b00010100)
	if got := LeadingZeroCount(v); got != 3 {
		t.Fatalf("lzc(00010100) = %d, want 3", got)
	}
	if got := TrailingZeroCount(v); got != 2 {
		t.Fatalf("tzc(00010100) = %d, want 2", got)
	}
	if LeadingZeroCount(Zero(8)) != 8 {
		t.Fatal("lzc(0) should equal width")
	}
}

func TestFromBigIntCanonicalizes(t *testing.T) {
	v := FromBigInt(4, big.NewInt(20)) // 20 mod 16 = 4
	if v.Unsigned().Uint64() != 4 {
		t.Fatalf("canon(20, width=4) = %d, want 4", v.Unsigned().Uint64())
	}
}
