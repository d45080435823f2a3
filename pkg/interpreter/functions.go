package interpreter

import (
	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/runtime"
)

const anonymousName = "<anonymous>"

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, call *ast.FunctionCall, frame *runtime.Frame) (runtime.Value, error) {
	switch fn := callee.(type) {
	case runtime.ClosureValue:
		return i.invokeFunction(fn, args, call, frame)
	case runtime.NativeFunctionValue:
		return i.invokeNative(fn, args, call, frame)
	default:
		text := sourceText(call.Callee.Span())
		if text == "" {
			text = "callee"
		}
		return nil, i.runtimeError(frame, call.Callee,
			"%s evaluates to a %s, not a function, therefore it cannot be called.", text, callee.Kind())
	}
}

func (i *Interpreter) checkArity(name string, params []string, args []runtime.Value, call *ast.FunctionCall, frame *runtime.Frame) error {
	if len(args) == len(params) {
		return nil
	}
	return i.runtimeError(frame, call,
		"Invalid number of arguments passed to %s.\nYou passed %d arguments. The function expects %d arguments.",
		name, len(args), len(params))
}

// bind creates the call environment. Its parent is the defining
// environment, never the caller's.
func bind(parent *runtime.Environment, params []string, args []runtime.Value) *runtime.Environment {
	env := parent.Extend()
	for idx, name := range params {
		env.Define(name, args[idx])
	}
	return env
}

func (i *Interpreter) pushFrame(name string, call *ast.FunctionCall, caller *runtime.Frame, env *runtime.Environment) *runtime.Frame {
	frame := runtime.NewFrame(name, caller, call.Span().Start, env)
	i.logger.Debug("push frame", "name", name, "depth", frame.Depth)
	return frame
}

func (i *Interpreter) popFrame(frame *runtime.Frame) {
	i.logger.Debug("pop frame", "name", frame.Name, "depth", frame.Depth)
}

func (i *Interpreter) invokeFunction(fn runtime.ClosureValue, args []runtime.Value, call *ast.FunctionCall, caller *runtime.Frame) (runtime.Value, error) {
	name := fn.Name
	if name == "" {
		name = anonymousName
	}
	if err := i.checkArity(name, fn.Params, args, call, caller); err != nil {
		return nil, err
	}
	frame := i.pushFrame(name, call, caller, bind(fn.Env, fn.Params, args))
	defer i.popFrame(frame)

	val, sig, err := i.evaluate(fn.Body, frame)
	if err != nil {
		return nil, err
	}
	switch sig.kind {
	case signalReturn:
		return sig.value, nil
	case signalBreak, signalContinue:
		return nil, i.misplacedSignal(sig, frame)
	}
	if fn.ExpressionForm && val != nil {
		return val, nil
	}
	return runtime.NullValue{}, nil
}

func (i *Interpreter) invokeNative(fn runtime.NativeFunctionValue, args []runtime.Value, call *ast.FunctionCall, caller *runtime.Frame) (runtime.Value, error) {
	if err := i.checkArity(fn.Name, fn.Params, args, call, caller); err != nil {
		return nil, err
	}
	frame := i.pushFrame(fn.Name, call, caller, bind(i.global, fn.Params, args))
	defer i.popFrame(frame)

	ctx := &runtime.NativeCallContext{Env: frame.Env, Frame: frame, Span: call.Span()}
	val, err := fn.Impl(ctx)
	if err != nil {
		return nil, i.hostError(err, frame, call)
	}
	if val == nil {
		return runtime.NullValue{}, nil
	}
	return val, nil
}
