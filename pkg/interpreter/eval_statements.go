package interpreter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/runtime"
)

// evaluateBlock runs statements in order and yields the last value. Blocks
// do not open a new scope.
func (i *Interpreter) evaluateBlock(block *ast.Block, frame *runtime.Frame) (runtime.Value, signal, error) {
	var last runtime.Value = runtime.NullValue{}
	for _, stmt := range block.Body {
		val, sig, err := i.evaluate(stmt, frame)
		if err != nil || sig.active() {
			return val, sig, err
		}
		if val != nil {
			last = val
		}
	}
	return last, noSignal, nil
}

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment, frame *runtime.Frame) (runtime.Value, signal, error) {
	val, sig, err := i.evaluate(assign.Value, frame)
	if err != nil || sig.active() {
		return val, sig, err
	}
	frame.Env.Define(assign.Target.Name, val)
	return val, noSignal, nil
}

func (i *Interpreter) evaluateIndexAssignment(assign *ast.IndexAssignment, frame *runtime.Frame) (runtime.Value, signal, error) {
	target, sig, err := i.evaluate(assign.Target.Object, frame)
	if err != nil || sig.active() {
		return target, sig, err
	}
	list, ok := target.(runtime.ListValue)
	if !ok {
		return nil, noSignal, i.runtimeError(frame, assign.Target.Object, "Cannot assign to an index of a %s", target.Kind())
	}
	index, sig, err := i.evaluate(assign.Target.Index, frame)
	if err != nil || sig.active() {
		return index, sig, err
	}
	pos, err := i.resolveIndex(list.Len(), index, "List", assign.Target.Index, frame)
	if err != nil {
		return nil, noSignal, err
	}
	val, sig, err := i.evaluate(assign.Value, frame)
	if err != nil || sig.active() {
		return val, sig, err
	}
	list.Set(pos, val)
	return val, noSignal, nil
}

// condition applies the Boolean-or-Number rule shared by IF, WHILE and
// REPEAT.
func (i *Interpreter) condition(node ast.Node, frame *runtime.Frame) (bool, signal, error) {
	val, sig, err := i.evaluate(node, frame)
	if err != nil || sig.active() {
		return false, sig, err
	}
	truth, ok := truthiness(val)
	if !ok {
		return false, noSignal, i.errorAt(frame, node.Span(), diag.InvalidSyntax,
			"Invalid case - must evaluate to Boolean or Number.")
	}
	return truth, noSignal, nil
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	for _, clause := range expr.Clauses {
		ok, sig, err := i.condition(clause.Condition, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if ok {
			return i.evaluate(clause.Body, frame)
		}
	}
	if expr.Else != nil {
		return i.evaluate(expr.Else, frame)
	}
	return runtime.NullValue{}, noSignal, nil
}

// loopBody runs one iteration and reports whether the loop must stop.
// BREAK stops the loop quietly, CONTINUE is absorbed, and RETURN is handed
// back to the caller.
func (i *Interpreter) loopBody(body *ast.Block, frame *runtime.Frame) (stop bool, sig signal, err error) {
	_, sig, err = i.evaluate(body, frame)
	if err != nil {
		return true, noSignal, err
	}
	switch sig.kind {
	case signalBreak:
		return true, noSignal, nil
	case signalReturn:
		return true, sig, nil
	default:
		return false, noSignal, nil
	}
}

func (i *Interpreter) evaluateForLoop(loop *ast.ForLoop, frame *runtime.Frame) (runtime.Value, signal, error) {
	bounds := []ast.Expression{loop.Start, loop.End, loop.Step}
	labels := []string{"start", "end", "step"}
	values := []float64{0, 0, 1}
	for idx, expr := range bounds {
		if expr == nil {
			continue
		}
		val, sig, err := i.evaluate(expr, frame)
		if err != nil || sig.active() {
			return val, sig, err
		}
		num, ok := val.(runtime.NumberValue)
		if !ok {
			return nil, noSignal, i.runtimeError(frame, expr, "FOR loop %s must be a Number, not a %s", labels[idx], val.Kind())
		}
		values[idx] = num.Val
	}
	start, end, step := values[0], values[1], values[2]
	if step == 0 {
		return nil, noSignal, i.runtimeError(frame, loop.Step, "FOR loop step cannot be zero.")
	}

	env := frame.Env
	name := loop.Variable.Name
	ascending := step > 0
	counter := start
	env.Define(name, runtime.Stamp(runtime.NumberValue{Val: counter}, loop.Variable.Span(), frame))
	for (ascending && counter <= end) || (!ascending && counter >= end) {
		env.Define(name, runtime.Stamp(runtime.NumberValue{Val: counter}, loop.Variable.Span(), frame))
		stop, sig, err := i.loopBody(loop.Body, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if stop {
			break
		}
		counter += step
	}
	return runtime.NullValue{}, noSignal, nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, frame *runtime.Frame) (runtime.Value, signal, error) {
	for {
		ok, sig, err := i.condition(loop.Condition, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if !ok {
			break
		}
		stop, sig, err := i.loopBody(loop.Body, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if stop {
			break
		}
	}
	return runtime.NullValue{}, noSignal, nil
}

func (i *Interpreter) evaluateRepeatLoop(loop *ast.RepeatLoop, frame *runtime.Frame) (runtime.Value, signal, error) {
	for {
		stop, sig, err := i.loopBody(loop.Body, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if stop {
			break
		}
		done, sig, err := i.condition(loop.Until, frame)
		if err != nil || sig.active() {
			return nil, sig, err
		}
		if done {
			break
		}
	}
	return runtime.NullValue{}, noSignal, nil
}

// evaluateCaseExpression compares the subject against each arm in source
// order and runs only the first match.
func (i *Interpreter) evaluateCaseExpression(expr *ast.CaseExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	subject, sig, err := i.evaluate(expr.Subject, frame)
	if err != nil || sig.active() {
		return subject, sig, err
	}
	for _, arm := range expr.Arms {
		candidate, sig, err := i.evaluate(arm.Value, frame)
		if err != nil || sig.active() {
			return candidate, sig, err
		}
		if valuesEqual(subject, candidate) {
			return i.evaluate(arm.Response, frame)
		}
	}
	if expr.Default != nil {
		return i.evaluate(expr.Default, frame)
	}
	return runtime.NullValue{}, noSignal, nil
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, frame *runtime.Frame) (runtime.Value, signal, error) {
	var val runtime.Value = runtime.Stamp(runtime.NullValue{}, stmt.Span(), frame)
	if stmt.Argument != nil {
		v, sig, err := i.evaluate(stmt.Argument, frame)
		if err != nil || sig.active() {
			return v, sig, err
		}
		val = v
	}
	return runtime.NullValue{}, signal{kind: signalReturn, value: val, node: stmt}, nil
}

func (i *Interpreter) evaluatePrintStatement(stmt *ast.PrintStatement, frame *runtime.Frame) (runtime.Value, signal, error) {
	parts := make([]string, 0, len(stmt.Arguments))
	for _, arg := range stmt.Arguments {
		val, sig, err := i.evaluate(arg, frame)
		if err != nil || sig.active() {
			return val, sig, err
		}
		parts = append(parts, runtime.Format(val))
	}
	if _, err := fmt.Fprintln(i.stdout, strings.Join(parts, " ")); err != nil {
		return nil, noSignal, i.runtimeError(frame, stmt, "PRINT failed: %v", err)
	}
	return runtime.NullValue{}, noSignal, nil
}

func (i *Interpreter) evaluateInputStatement(stmt *ast.InputStatement, frame *runtime.Frame) (runtime.Value, signal, error) {
	line, err := i.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return nil, noSignal, i.runtimeError(frame, stmt, "INPUT reached the end of input.")
		}
		return nil, noSignal, i.runtimeError(frame, stmt, "INPUT failed: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	val := runtime.Stamp(runtime.StringValue{Val: line}, stmt.Span(), frame)
	frame.Env.Define(stmt.Target.Name, val)
	return runtime.NullValue{}, noSignal, nil
}
