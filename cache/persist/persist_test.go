package persist

import (
	"context"
	"testing"

	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

func sampleFunction() *bytecode.Function {
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: value.UBitsValue{Bits: bits.FromUint64(8, 3)}},
		{Op: bytecode.OpLiteral, LiteralValue: value.SBitsValue{Bits: bits.FromInt64(8, -1)}},
		{Op: bytecode.OpAdd},
		{Op: bytecode.OpCast, TargetType: value.Bits(16, true)},
	}
	return bytecode.Create(nil, nil, nil, 0, 1, code)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := sampleFunction()
	data, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Code) != len(f.Code) {
		t.Fatalf("code length = %d, want %d", len(got.Code), len(f.Code))
	}
	for i := range f.Code {
		if got.Code[i].Op != f.Code[i].Op {
			t.Fatalf("instruction %d op = %v, want %v", i, got.Code[i].Op, f.Code[i].Op)
		}
	}
	first := got.Code[0].LiteralValue.(value.UBitsValue)
	if first.Bits.Unsigned().Uint64() != 3 {
		t.Fatalf("literal 0 = %v, want u8:3", first)
	}
	second := got.Code[1].LiteralValue.(value.SBitsValue)
	if second.Bits.Signed().Int64() != -1 {
		t.Fatalf("literal 1 = %v, want s8:-1", second)
	}
}

func TestEncodeRejectsUnpersistableLiteral(t *testing.T) {
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: &value.ArrayValue{}},
	}
	f := bytecode.Create(nil, nil, nil, 0, 0, code)
	if _, err := Encode(f); err == nil {
		t.Fatal("expected an error encoding an array literal")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	f := sampleFunction()
	if err := store.Put(ctx, "digest-1", f); err != nil {
		t.Fatal(err)
	}

	got, ok, err := store.Get(ctx, "digest-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if len(got.Code) != len(f.Code) {
		t.Fatalf("code length = %d, want %d", len(got.Code), len(f.Code))
	}

	_, ok, err = store.Get(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected a miss for an unknown digest")
	}

	entries, hits, err := store.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if entries != 1 || hits != 1 {
		t.Fatalf("stats = (%d entries, %d hits), want (1, 1)", entries, hits)
	}
}
