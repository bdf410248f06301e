package interp

import (
	"errors"
	"testing"

	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bits"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/cache"
	"github.com/dslx-project/bcvm/value"
)

type nilImportData struct{}

func (nilImportData) RootTypeInfo(astiface.Module) (astiface.TypeInfo, bool) { return nil, false }

func newTestInterpreter(emitter Emitter) *Interpreter {
	return New(nilImportData{}, cache.New(), emitter, discardTestLogger{})
}

type discardTestLogger struct{}

func (discardTestLogger) Printf(string, ...interface{}) {}

func run(t *testing.T, code []bytecode.Bytecode) value.Value {
	t.Helper()
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	vm := newTestInterpreter(nil)
	v, err := vm.Interpret(bf, nil)
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	return v
}

func u(width uint32, n uint64) value.Value { return value.UBitsValue{Bits: bits.FromUint64(width, n)} }
func s(width uint32, n int64) value.Value  { return value.SBitsValue{Bits: bits.FromInt64(width, n)} }

// Scenario A: [Literal u32 3, Literal u32 4, Add] -> u32 7.
func TestScenarioAAdd(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(32, 3)},
		{Op: bytecode.OpLiteral, LiteralValue: u(32, 4)},
		{Op: bytecode.OpAdd},
	})
	ub, ok := got.(value.UBitsValue)
	if !ok || ub.Bits.Width() != 32 || ub.Bits.Unsigned().Uint64() != 7 {
		t.Fatalf("got %v, want u32:7", got)
	}
}

// Scenario B: [Literal s8 -1, Literal u8 7, Shr] -> s8 -1.
func TestScenarioBArithmeticShift(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: s(8, -1)},
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 7)},
		{Op: bytecode.OpShr},
	})
	sb, ok := got.(value.SBitsValue)
	if !ok || sb.Bits.Signed().Int64() != -1 {
		t.Fatalf("got %v, want s8:-1", got)
	}
}

// Scenario C: [Literal u4 0b1010, Literal u4 0b0011, Concat] -> u8 0b10100011.
func TestScenarioCConcat(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(4, 0b1010)},
		{Op: bytecode.OpLiteral, LiteralValue: u(4, 0b0011)},
		{Op: bytecode.OpConcat},
	})
	ub, ok := got.(value.UBitsValue)
	if !ok || ub.Bits.Width() != 8 || ub.Bits.Unsigned().Uint64() != 0b10100011 {
		t.Fatalf("got %v, want u8:0b10100011", got)
	}
}

// Scenario D: basis u8 0b11001010, start=-4, limit=-1 -> width-3 unsigned 0b101.
func TestScenarioDNegativeSlice(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 0b11001010)},
		{Op: bytecode.OpLiteral, LiteralValue: s(32, -4)},
		{Op: bytecode.OpLiteral, LiteralValue: s(32, -1)},
		{Op: bytecode.OpSlice},
	})
	ub, ok := got.(value.UBitsValue)
	if !ok || ub.Bits.Width() != 3 || ub.Bits.Unsigned().Uint64() != 0b101 {
		t.Fatalf("got %v, want u3:0b101", got)
	}
}

// Scenario E: candidate tuple (u8:1, u8:2), pattern Tuple[Literal(u8:1), Store(slot0)]
// -> push true, slot 0 = u8:2.
func TestScenarioEMatchArmPartialBinding(t *testing.T) {
	candidate := &value.TupleValue{Elements: []value.Value{u(8, 1), u(8, 2)}}
	pattern := bytecode.MatchArmItem{
		Kind: bytecode.PatternTuple,
		Elements: []bytecode.MatchArmItem{
			{Kind: bytecode.PatternLiteral, Literal: u(8, 1)},
			{Kind: bytecode.PatternStore, Slot: 0},
		},
	}
	// The frame is popped when Interpret returns, so slot 0 is read back
	// inside the program: Load 0 then CreateTuple(2) yields
	// (slot0, match result).
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: candidate},
		{Op: bytecode.OpMatchArm, MatchPattern: pattern},
		{Op: bytecode.OpLoad, SlotIndex: 0},
		{Op: bytecode.OpCreateTuple, NumElements: 2},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	vm := newTestInterpreter(nil)
	got, err := vm.Interpret(bf, nil)
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	tup, ok := got.(*value.TupleValue)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("got %v, want a (slot0, match result) tuple", got)
	}
	ub, ok := tup.Elements[1].(value.UBitsValue)
	if !ok || ub.Bits.Width() != 1 || ub.Bits.IsZero() {
		t.Fatalf("got %v, want true", tup.Elements[1])
	}
	slot0 := tup.Elements[0]
	if !value.Eq(slot0, u(8, 2)) {
		t.Fatalf("slot 0 = %v, want u8:2", slot0)
	}
}

func TestMatchArmPartialBindingSurvivesFailure(t *testing.T) {
	candidate := &value.TupleValue{Elements: []value.Value{u(8, 9), u(8, 2)}}
	pattern := bytecode.MatchArmItem{
		Kind: bytecode.PatternTuple,
		Elements: []bytecode.MatchArmItem{
			{Kind: bytecode.PatternStore, Slot: 0},
			{Kind: bytecode.PatternLiteral, Literal: u(8, 99)}, // never matches
		},
	}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: candidate},
		{Op: bytecode.OpMatchArm, MatchPattern: pattern},
		{Op: bytecode.OpLoad, SlotIndex: 0},
		{Op: bytecode.OpCreateTuple, NumElements: 2},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	vm := newTestInterpreter(nil)
	got, err := vm.Interpret(bf, nil)
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	tup := got.(*value.TupleValue)
	ub := tup.Elements[1].(value.UBitsValue)
	if !ub.Bits.IsZero() {
		t.Fatal("pattern should not have matched")
	}
	slot0 := tup.Elements[0]
	if !value.Eq(slot0, u(8, 9)) {
		t.Fatalf("slot 0 should retain its partial binding u8:9, got %v", slot0)
	}
}

// --- Scenario F: map over a user-defined increment function. ---

type testModule struct{ path string }

func (m testModule) Path() string { return m.path }

type addOneFn struct{}

func (addOneFn) Name() string       { return "add_one" }
func (addOneFn) ParamCount() int    { return 1 }
func (addOneFn) Module() astiface.Module { return testModule{path: "test"} }
func (addOneFn) IsParametric() bool { return false }

type addOneEmitter struct{ calls int }

func (e *addOneEmitter) Emit(fn astiface.Function, ti astiface.TypeInfo, bindings astiface.Bindings) (*bytecode.Function, error) {
	e.calls++
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLoad, SlotIndex: 0},
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 1)},
		{Op: bytecode.OpAdd},
	}
	return bytecode.Create(fn, ti, bindings, 1, 1, code), nil
}

func TestScenarioFMap(t *testing.T) {
	emitter := &addOneEmitter{}
	vm := newTestInterpreter(emitter)

	arr := &value.ArrayValue{Elements: []value.Value{u(8, 1), u(8, 2), u(8, 3)}}
	fn := value.FunctionValue{IsUser: true, User: addOneFn{}}
	mapFn := value.FunctionValue{Builtin: value.BuiltinMap}

	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: arr},
		{Op: bytecode.OpLiteral, LiteralValue: fn},
		{Op: bytecode.OpLiteral, LiteralValue: mapFn},
		{Op: bytecode.OpCall, Invocation: &bytecode.InvocationData{ArgCount: 2}},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	got, err := vm.Interpret(bf, nil)
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	arrOut, ok := got.(*value.ArrayValue)
	if !ok || len(arrOut.Elements) != 3 {
		t.Fatalf("got %v, want a 3-element array", got)
	}
	want := []uint64{2, 3, 4}
	for i, elem := range arrOut.Elements {
		ub := elem.(value.UBitsValue)
		if ub.Bits.Unsigned().Uint64() != want[i] {
			t.Fatalf("element %d = %v, want u8:%d", i, elem, want[i])
		}
	}
	if emitter.calls != 1 {
		t.Fatalf("emitter should be called exactly once (cache hit on subsequent calls), got %d calls", emitter.calls)
	}
}

func TestMapEmptyArray(t *testing.T) {
	emitter := &addOneEmitter{}
	vm := newTestInterpreter(emitter)
	arr := &value.ArrayValue{}
	fn := value.FunctionValue{IsUser: true, User: addOneFn{}}
	mapFn := value.FunctionValue{Builtin: value.BuiltinMap}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: arr},
		{Op: bytecode.OpLiteral, LiteralValue: fn},
		{Op: bytecode.OpLiteral, LiteralValue: mapFn},
		{Op: bytecode.OpCall, Invocation: &bytecode.InvocationData{ArgCount: 2}},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	got, err := vm.Interpret(bf, nil)
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	arrOut := got.(*value.ArrayValue)
	if len(arrOut.Elements) != 0 {
		t.Fatalf("got %d elements, want 0", len(arrOut.Elements))
	}
}

// --- Invariants (spec §8) ---

func TestInvariantJumpDestIsStackAndSlotNeutral(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 42)},
		{Op: bytecode.OpJumpDest},
	})
	if !value.Eq(got, u(8, 42)) {
		t.Fatalf("JumpDest should not alter the stack, got %v", got)
	}
}

func TestInvariantDupPopIsNoOp(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 7)},
		{Op: bytecode.OpDup},
		{Op: bytecode.OpPop},
	})
	if !value.Eq(got, u(8, 7)) {
		t.Fatalf("Dup then Pop should leave the stack unchanged, got %v", got)
	}
}

func TestInvariantSwapIsSelfInverse(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 1)},
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 2)},
		{Op: bytecode.OpSwap},
		{Op: bytecode.OpSwap},
		{Op: bytecode.OpPop},
	})
	if !value.Eq(got, u(8, 1)) {
		t.Fatalf("double Swap should restore original order, got %v", got)
	}
}

func TestInvariantExpandCreateTupleRoundTrip(t *testing.T) {
	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 1)},
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 2)},
		{Op: bytecode.OpCreateTuple, NumElements: 2},
		{Op: bytecode.OpExpandTuple},
		{Op: bytecode.OpCreateTuple, NumElements: 2},
	})
	tup, ok := got.(*value.TupleValue)
	if !ok || len(tup.Elements) != 2 {
		t.Fatalf("got %v, want a 2-element tuple", got)
	}
	// CreateTuple treats the top of stack pre-pop as element 0 (spec §9
	// open question), so pushing 1 then 2 builds Tuple(2, 1); the round
	// trip through ExpandTuple/CreateTuple must reproduce that exactly.
	if !value.Eq(tup.Elements[0], u(8, 2)) || !value.Eq(tup.Elements[1], u(8, 1)) {
		t.Fatalf("round trip reordered elements: %v", tup.Elements)
	}
}

func TestInvariantCastArrayBitsRoundTrip(t *testing.T) {
	elemType := value.Bits(4, false)
	arrType := value.Array(elemType, 2)
	bitsType := value.Bits(8, false)

	got := run(t, []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 0b10100011)},
		{Op: bytecode.OpCast, TargetType: arrType},
		{Op: bytecode.OpCast, TargetType: bitsType},
	})
	ub, ok := got.(value.UBitsValue)
	if !ok || ub.Bits.Unsigned().Uint64() != 0b10100011 {
		t.Fatalf("round trip got %v, want u8:0b10100011", got)
	}
}

func TestInvariantCacheDeterminism(t *testing.T) {
	c := cache.New()
	emitter := &addOneEmitter{}
	fn := addOneFn{}
	first, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, func() (*bytecode.Function, error) {
		return emitter.Emit(fn, nil, astiface.NoBindings{})
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrCreate(fn, nil, astiface.NoBindings{}, func() (*bytecode.Function, error) {
		t.Fatal("emit should not run again on a cache hit")
		return nil, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("GetOrCreate with equal keys should return the same bytecode.Function pointer")
	}
}

func TestStackUnderflowIsInternalError(t *testing.T) {
	bf := bytecode.Create(nil, nil, nil, 0, 0, []bytecode.Bytecode{{Op: bytecode.OpPop}})
	vm := newTestInterpreter(nil)
	_, err := vm.Interpret(bf, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestChannelRecvOnEmptyIsUnavailable(t *testing.T) {
	ch := value.ChannelValue{Handle: value.NewChannelHandle()}
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: ch},
		{Op: bytecode.OpRecv},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	vm := newTestInterpreter(nil)
	_, err := vm.Interpret(bf, nil)
	if err == nil {
		t.Fatal("expected an unavailable error")
	}
	var ierr *Error
	if !errors.As(err, &ierr) {
		t.Fatalf("expected an *Error, got %T", err)
	}
	if ierr.Kind != KindUnavailable {
		t.Fatalf("kind = %v, want unavailable", ierr.Kind)
	}
}

func TestAssertEqFailurePropagates(t *testing.T) {
	code := []bytecode.Bytecode{
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 1)},
		{Op: bytecode.OpLiteral, LiteralValue: u(8, 2)},
		{Op: bytecode.OpLiteral, LiteralValue: value.FunctionValue{Builtin: value.BuiltinAssertEq}},
		{Op: bytecode.OpCall, Invocation: &bytecode.InvocationData{ArgCount: 2}},
	}
	bf := bytecode.Create(nil, nil, nil, 0, 0, code)
	vm := newTestInterpreter(nil)
	_, err := vm.Interpret(bf, nil)
	if err == nil {
		t.Fatal("mismatched assert_eq should fail")
	}
}
