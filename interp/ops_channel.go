package interp

import (
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

func (in *Interpreter) execSend(f *Frame, bc bytecode.Bytecode) error {
	payload, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	chV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	ch, ok := chV.(value.ChannelValue)
	if !ok {
		return invalidArg(bc.Span, "Send: expected a channel, got %v", chV.Kind())
	}
	ch.Handle.Send(payload)
	return nil
}

func (in *Interpreter) execRecv(f *Frame, bc bytecode.Bytecode) error {
	chV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	ch, ok := chV.(value.ChannelValue)
	if !ok {
		return invalidArg(bc.Span, "Recv: expected a channel, got %v", chV.Kind())
	}
	v, ok := ch.Handle.Recv()
	if !ok {
		return unavailable(bc.Span, "Recv: channel is empty")
	}
	in.stack.push(v)
	return nil
}
