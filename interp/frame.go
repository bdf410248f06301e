package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// Frame is one activation record (spec §3): a program counter, a
// growable local-slot array, and a reference to the bytecode it's
// executing, either shared (cached) or owned (a synthetic map body).
type Frame struct {
	pc    int
	slots []value.Value

	bf       *bytecode.Function
	typeInfo astiface.TypeInfo
	bindings astiface.Bindings

	// owned holds a non-nil synthetic BytecodeFunction when this frame
	// was not handed a cache-shared bf — kept distinct from bf so the
	// interpreter never mistakes an owned body for one eligible to be
	// cached (spec §9: "owning pointers for synthetic bytecode").
	owned *bytecode.Function
}

func newFrame(bf *bytecode.Function, ti astiface.TypeInfo, bindings astiface.Bindings, args []value.Value) *Frame {
	f := &Frame{bf: bf, typeInfo: ti, bindings: bindings}
	if bf.Synthetic {
		f.owned = bf
	}
	f.slots = make([]value.Value, len(args))
	copy(f.slots, args)
	return f
}

// load reads slot i, failing if out of range (spec §4.5 Load).
func (f *Frame) load(span astiface.Span, i int) (value.Value, error) {
	if i < 0 || i >= len(f.slots) {
		return nil, internalf(span, "load: slot %d out of range (have %d)", i, len(f.slots))
	}
	v := f.slots[i]
	if v == nil {
		return nil, internalf(span, "load: slot %d never written", i)
	}
	return v, nil
}

// store writes slot i, auto-extending with Token padding (spec §4.5
// Store; §3 Frame invariant on slot growth).
func (f *Frame) store(i int, v value.Value) {
	for len(f.slots) <= i {
		f.slots = append(f.slots, value.Token)
	}
	f.slots[i] = v
}

// frameStack is the interpreter's call-frame stack, grown with
// amortized-doubling append — mirroring the example pack's own
// CallFrame-stack growth pattern — except frames are individually
// addressable by index rather than only through a top-of-stack
// pointer, since Call must mutate the *caller* frame's pc before
// pushing the callee (spec §9).
type frameStack struct {
	frames []*Frame
}

func (fs *frameStack) push(f *Frame) { fs.frames = append(fs.frames, f) }

func (fs *frameStack) pop() {
	fs.frames = fs.frames[:len(fs.frames)-1]
}

func (fs *frameStack) top() *Frame {
	if len(fs.frames) == 0 {
		return nil
	}
	return fs.frames[len(fs.frames)-1]
}

func (fs *frameStack) empty() bool { return len(fs.frames) == 0 }
