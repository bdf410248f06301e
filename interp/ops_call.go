package interp

import (
	"github.com/dslx-project/bcvm/astiface"
	"github.com/dslx-project/bcvm/bytecode"
	"github.com/dslx-project/bcvm/value"
)

// execCall implements Call (spec §4.7). It always reports handled=true
// to dispatch.go: either a builtin ran in place and the caller's PC
// was already advanced, or a new frame became current and the loop
// must not also touch the (now different) top frame's PC.
func (in *Interpreter) execCall(f *Frame, bc bytecode.Bytecode) error {
	calleeV, err := in.stack.pop(bc.Span)
	if err != nil {
		return err
	}
	callee, ok := calleeV.(value.FunctionValue)
	if !ok {
		return invalidArg(bc.Span, "Call: expected a function value, got %v", calleeV.Kind())
	}
	if bc.Invocation == nil {
		return internalf(bc.Span, "Call: missing InvocationData")
	}

	if !callee.IsUser {
		f.pc++
		return in.execBuiltin(f, bc, callee.Builtin)
	}
	return in.execUserCall(f, bc, callee)
}

func (in *Interpreter) execUserCall(f *Frame, bc bytecode.Bytecode, callee value.FunctionValue) error {
	calleeFn, ok := callee.User.(astiface.Function)
	if !ok {
		return internalf(bc.Span, "Call: user function handle does not implement astiface.Function")
	}

	ti, bindings, err := in.resolveCalleeTypeInfo(f, bc, calleeFn)
	if err != nil {
		return err
	}

	if in.cacheFn == nil {
		return internalf(bc.Span, "Call: no BytecodeCache configured for %q", calleeFn.Name())
	}
	bf, err := in.cacheFn.GetOrCreate(calleeFn, ti, bindings, func() (*bytecode.Function, error) {
		if in.emitter == nil {
			return nil, internalf(bc.Span, "Call: no bytecode cached for %q and no emitter configured", calleeFn.Name())
		}
		return in.emitter.Emit(calleeFn, ti, bindings)
	})
	if err != nil {
		return err
	}

	f.pc++ // advance caller's PC to the return site before pushing the callee

	n := callee.User.ParamCount()
	args, err := in.stack.popN(bc.Span, n)
	if err != nil {
		return err
	}
	in.frames.push(newFrame(bf, ti, bindings, args))
	return nil
}

// resolveCalleeTypeInfo implements the three-way TypeInfo resolution
// rule for Call (spec §4.7 step 1).
func (in *Interpreter) resolveCalleeTypeInfo(f *Frame, bc bytecode.Bytecode, calleeFn astiface.Function) (astiface.TypeInfo, astiface.Bindings, error) {
	if calleeFn.IsParametric() {
		if f.typeInfo == nil {
			return nil, nil, internalf(bc.Span, "Call: parametric callee %q but current frame has no TypeInfo", calleeFn.Name())
		}
		ti, ok := f.typeInfo.InstantiationTypeInfo(bc.Invocation.Invocation, bc.Invocation.CallerBindings)
		if !ok {
			return nil, nil, internalf(bc.Span, "Call: no recorded instantiation for parametric callee %q", calleeFn.Name())
		}
		return ti, bc.Invocation.CallerBindings, nil
	}

	if f.typeInfo != nil && calleeFn.Module() != nil && f.typeInfo.Module() != nil &&
		calleeFn.Module().Path() != f.typeInfo.Module().Path() {
		if in.importData == nil {
			return nil, nil, internalf(bc.Span, "Call: cross-module callee %q but no ImportData configured", calleeFn.Name())
		}
		root, ok := in.importData.RootTypeInfo(calleeFn.Module())
		if !ok {
			return nil, nil, internalf(bc.Span, "Call: no root TypeInfo for module %q", calleeFn.Module().Path())
		}
		return root, astiface.NoBindings{}, nil
	}

	return f.typeInfo, astiface.NoBindings{}, nil
}
