package interp

import (
	"github.com/dslx-project/bcvm/bytecode"
)

func (in *Interpreter) execLiteral(f *Frame, bc bytecode.Bytecode) error {
	if bc.LiteralValue == nil {
		return internalf(bc.Span, "literal: missing payload")
	}
	in.stack.push(bc.LiteralValue)
	return nil
}

func (in *Interpreter) execPop(f *Frame, bc bytecode.Bytecode) error {
	_, err := in.stack.pop(bc.Span)
	return err
}

func (in *Interpreter) execDup(f *Frame, bc bytecode.Bytecode) error {
	top, err := in.stack.peek(bc.Span)
	if err != nil {
		return err
	}
	in.stack.push(top)
	return nil
}

func (in *Interpreter) execSwap(f *Frame, bc bytecode.Bytecode) error {
	vs, err := in.stack.popN(bc.Span, 2)
	if err != nil {
		return err
	}
	// vs[0] was pushed first (now second-from-top), vs[1] was top.
	in.stack.push(vs[1])
	in.stack.push(vs[0])
	return nil
}

func (in *Interpreter) execLoad(f *Frame, bc bytecode.Bytecode) error {
	v, err := f.load(bc.Span, bc.SlotIndex)
	if err != nil {
		return err
	}
	in.stack.push(v)
	return nil
}

func (in *Interpreter) execStore(f *Frame, bc bytecode.Bytecode) error {
	v, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	f.store(bc.SlotIndex, v)
	return nil
}
