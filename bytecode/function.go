package bytecode

import "github.com/dslx-project/bcvm/astiface"

// Function is the immutable, cacheable unit of emitted bytecode (spec
// §4.1-§4.2): an ordered instruction sequence plus enough metadata for
// the interpreter to set up a call frame. SourceFunction is nil for
// synthetic bodies the interpreter materializes itself (the `map`
// builtin's per-element loop, spec §4.10) — those are owned by the
// call site that created them and never enter the BytecodeCache.
type Function struct {
	SourceFunction astiface.Function // nil for synthetic bodies
	TypeInfo       astiface.TypeInfo
	Bindings       astiface.Bindings

	ParamCount int
	SlotCount  int // total local slots, including parameters

	Code []Bytecode

	// Synthetic marks a JIT-synthesized body (e.g. map's element loop)
	// that must never be inserted into the BytecodeCache: it's scoped
	// to one Call site and discarded with it.
	Synthetic bool
}

// Create builds a Function from a freshly assembled instruction
// sequence. Used by the (external, out-of-scope) emitter's test
// doubles and by persist.Decode; the interpreter's own synthetic
// bodies are built with CreateSynthetic.
func Create(src astiface.Function, ti astiface.TypeInfo, bindings astiface.Bindings, paramCount, slotCount int, code []Bytecode) *Function {
	return &Function{
		SourceFunction: src,
		TypeInfo:       ti,
		Bindings:       bindings,
		ParamCount:     paramCount,
		SlotCount:      slotCount,
		Code:           code,
	}
}

// CreateSynthetic builds an owned-not-cached Function, as used for the
// map builtin's per-element loop body (spec §4.10).
func CreateSynthetic(slotCount int, code []Bytecode) *Function {
	return &Function{
		SlotCount: slotCount,
		Code:      code,
		Synthetic: true,
	}
}

// Len reports the instruction count, used by the interpreter to detect
// frame exhaustion (pc >= Len) and to bounds-check jump targets.
func (f *Function) Len() int { return len(f.Code) }
