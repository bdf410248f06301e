package value

import (
	"testing"

	"github.com/dslx-project/bcvm/bits"
)

func TestEqIgnoresSignednessTag(t *testing.T) {
	u := UBitsValue{Bits: bits.FromUint64(8, 0xFF)}
	s := SBitsValue{Bits: bits.FromInt64(8, -1)}
	if !Eq(u, s) {
		t.Fatal("UBits(0xFF) and SBits(-1) should be Eq: same bit pattern")
	}
}

func TestEqArraysElementwise(t *testing.T) {
	a := &ArrayValue{Elements: []Value{
		UBitsValue{Bits: bits.FromUint64(8, 1)},
		UBitsValue{Bits: bits.FromUint64(8, 2)},
	}}
	b := &ArrayValue{Elements: []Value{
		UBitsValue{Bits: bits.FromUint64(8, 1)},
		UBitsValue{Bits: bits.FromUint64(8, 2)},
	}}
	c := &ArrayValue{Elements: []Value{
		UBitsValue{Bits: bits.FromUint64(8, 1)},
		UBitsValue{Bits: bits.FromUint64(8, 3)},
	}}
	if !Eq(a, b) {
		t.Fatal("identical arrays should be Eq")
	}
	if Eq(a, c) {
		t.Fatal("arrays differing in one element should not be Eq")
	}
}

func TestEqTuplesDifferentLength(t *testing.T) {
	a := &TupleValue{Elements: []Value{UBitsValue{Bits: bits.FromUint64(8, 1)}}}
	b := &TupleValue{Elements: []Value{
		UBitsValue{Bits: bits.FromUint64(8, 1)},
		UBitsValue{Bits: bits.FromUint64(8, 2)},
	}}
	if Eq(a, b) {
		t.Fatal("tuples of different length should not be Eq")
	}
}

func TestChannelAliasing(t *testing.T) {
	h := NewChannelHandle()
	a := ChannelValue{Handle: h}
	b := ChannelValue{Handle: h}
	a.Handle.Send(UBitsValue{Bits: bits.FromUint64(8, 9)})
	v, ok := b.Handle.Recv()
	if !ok {
		t.Fatal("expected a queued value")
	}
	got, ok := v.(UBitsValue)
	if !ok || got.Bits.Unsigned().Uint64() != 9 {
		t.Fatalf("got %v, want UBits(9)", v)
	}
}

func TestChannelRecvEmpty(t *testing.T) {
	h := NewChannelHandle()
	if _, ok := h.Recv(); ok {
		t.Fatal("Recv on empty channel should report ok=false")
	}
}

func TestConcreteTypeTotalBitWidth(t *testing.T) {
	elem := Bits(8, false)
	arr := Array(elem, 4)
	w, ok := arr.TotalBitWidth()
	if !ok || w != 32 {
		t.Fatalf("TotalBitWidth = (%d, %v), want (32, true)", w, ok)
	}

	tup := ConcreteType{Tag: TypeTuple, TupleElems: []ConcreteType{elem}}
	if _, ok := tup.TotalBitWidth(); ok {
		t.Fatal("tuple types should report no fixed bit width")
	}
}
