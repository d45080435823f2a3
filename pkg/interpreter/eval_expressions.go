package interpreter

import (
	"errors"
	"math"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/runtime"
)

// evaluate runs node in frame's environment. Values are stamped with the
// producing node's span and frame; blocks hand back their last statement's
// value untouched.
func (i *Interpreter) evaluate(node ast.Node, frame *runtime.Frame) (runtime.Value, signal, error) {
	val, sig, err := i.dispatch(node, frame)
	if err != nil {
		return nil, noSignal, err
	}
	if val == nil {
		return nil, sig, nil
	}
	if _, passThrough := node.(*ast.Block); passThrough {
		return val, sig, nil
	}
	return runtime.Stamp(val, node.Span(), frame), sig, nil
}

func (i *Interpreter) dispatch(node ast.Node, frame *runtime.Frame) (runtime.Value, signal, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, noSignal, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, noSignal, nil
	case *ast.BooleanLiteral:
		return runtime.BooleanValue{Val: n.Value}, noSignal, nil
	case *ast.NullLiteral:
		return runtime.NullValue{}, noSignal, nil
	case *ast.ListLiteral:
		return i.evaluateListLiteral(n, frame)
	case *ast.Identifier:
		return i.evaluateIdentifier(n, frame)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, frame)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, frame)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, frame)
	case *ast.FunctionDefinition:
		return i.evaluateFunctionDefinition(n, frame)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n, frame)
	case *ast.Block:
		return i.evaluateBlock(n, frame)
	case *ast.Assignment:
		return i.evaluateAssignment(n, frame)
	case *ast.IndexAssignment:
		return i.evaluateIndexAssignment(n, frame)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n, frame)
	case *ast.ForLoop:
		return i.evaluateForLoop(n, frame)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n, frame)
	case *ast.RepeatLoop:
		return i.evaluateRepeatLoop(n, frame)
	case *ast.CaseExpression:
		return i.evaluateCaseExpression(n, frame)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n, frame)
	case *ast.BreakStatement:
		return runtime.NullValue{}, signal{kind: signalBreak, node: n}, nil
	case *ast.ContinueStatement:
		return runtime.NullValue{}, signal{kind: signalContinue, node: n}, nil
	case *ast.PrintStatement:
		return i.evaluatePrintStatement(n, frame)
	case *ast.InputStatement:
		return i.evaluateInputStatement(n, frame)
	default:
		var span diag.Span
		name := "<nil>"
		if node != nil {
			span = node.Span()
			name = string(node.NodeType())
		}
		return nil, noSignal, diag.New(diag.NotImplemented, span, "No evaluation defined for %s", name)
	}
}

func (i *Interpreter) evaluateListLiteral(list *ast.ListLiteral, frame *runtime.Frame) (runtime.Value, signal, error) {
	elements := make([]runtime.Value, 0, len(list.Elements))
	for _, el := range list.Elements {
		val, sig, err := i.evaluate(el, frame)
		if err != nil || sig.active() {
			return val, sig, err
		}
		elements = append(elements, val)
	}
	return runtime.NewList(elements), noSignal, nil
}

func (i *Interpreter) evaluateIdentifier(id *ast.Identifier, frame *runtime.Frame) (runtime.Value, signal, error) {
	val, err := frame.Env.Get(id.Name)
	var undef *runtime.UndefinedError
	if errors.As(err, &undef) {
		return nil, noSignal, i.runtimeError(frame, id, "'%s' is not defined.", undef.Name)
	}
	if err != nil {
		return nil, noSignal, err
	}
	return val, noSignal, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	operand, sig, err := i.evaluate(expr.Operand, frame)
	if err != nil || sig.active() {
		return operand, sig, err
	}
	switch expr.Operator {
	case ast.OpNot:
		truth, ok := truthiness(operand)
		if !ok {
			return nil, noSignal, i.runtimeError(frame, expr, "Invalid operand for NOT: %s", operand.Kind())
		}
		return runtime.BooleanValue{Val: !truth}, noSignal, nil
	case ast.OpSubtract, ast.OpAdd:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, noSignal, i.runtimeError(frame, expr, "Invalid operand for %s: %s", expr.Operator, operand.Kind())
		}
		if expr.Operator == ast.OpSubtract {
			return runtime.NumberValue{Val: -num.Val}, noSignal, nil
		}
		return num, noSignal, nil
	default:
		return nil, noSignal, diag.New(diag.NotImplemented, expr.Span(), "Unary operator %s is not supported", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	if expr.Operator == ast.OpAnd || expr.Operator == ast.OpOr {
		return i.evaluateLogical(expr, frame)
	}
	left, sig, err := i.evaluate(expr.Left, frame)
	if err != nil || sig.active() {
		return left, sig, err
	}
	right, sig, err := i.evaluate(expr.Right, frame)
	if err != nil || sig.active() {
		return right, sig, err
	}
	val, err := i.applyBinary(expr, left, right, frame)
	return val, noSignal, err
}

// evaluateLogical short-circuits AND and OR. Both operands must be Boolean
// or Number and the result is always Boolean.
func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	left, sig, err := i.evaluate(expr.Left, frame)
	if err != nil || sig.active() {
		return left, sig, err
	}
	leftTruth, ok := truthiness(left)
	if !ok {
		return nil, noSignal, i.runtimeError(frame, expr, "Invalid operand for %s: %s", expr.Operator, left.Kind())
	}
	if expr.Operator == ast.OpAnd && !leftTruth {
		return runtime.BooleanValue{Val: false}, noSignal, nil
	}
	if expr.Operator == ast.OpOr && leftTruth {
		return runtime.BooleanValue{Val: true}, noSignal, nil
	}
	right, sig, err := i.evaluate(expr.Right, frame)
	if err != nil || sig.active() {
		return right, sig, err
	}
	rightTruth, ok := truthiness(right)
	if !ok {
		return nil, noSignal, i.runtimeError(frame, expr, "Invalid operands for %s: %s and %s", expr.Operator, left.Kind(), right.Kind())
	}
	return runtime.BooleanValue{Val: rightTruth}, noSignal, nil
}

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, frame *runtime.Frame) (runtime.Value, signal, error) {
	collection, sig, err := i.evaluate(expr.Object, frame)
	if err != nil || sig.active() {
		return collection, sig, err
	}
	index, sig, err := i.evaluate(expr.Index, frame)
	if err != nil || sig.active() {
		return index, sig, err
	}
	switch coll := collection.(type) {
	case runtime.ListValue:
		pos, err := i.resolveIndex(coll.Len(), index, "List", expr.Index, frame)
		if err != nil {
			return nil, noSignal, err
		}
		return coll.Elements()[pos], noSignal, nil
	case runtime.StringValue:
		runes := []rune(coll.Val)
		pos, err := i.resolveIndex(len(runes), index, "String", expr.Index, frame)
		if err != nil {
			return nil, noSignal, err
		}
		return runtime.StringValue{Val: string(runes[pos])}, noSignal, nil
	default:
		return nil, noSignal, i.runtimeError(frame, expr.Object, "Cannot index into a %s", collection.Kind())
	}
}

// resolveIndex validates index against a collection of length n and maps
// negative indices onto the end.
func (i *Interpreter) resolveIndex(n int, index runtime.Value, kind string, node ast.Node, frame *runtime.Frame) (int, error) {
	num, ok := index.(runtime.NumberValue)
	if !ok {
		return 0, i.runtimeError(frame, node, "Cannot get %s index from a %s", index.Kind(), kind)
	}
	if num.Val != math.Trunc(num.Val) || math.IsInf(num.Val, 0) {
		return 0, i.runtimeError(frame, node, "Cannot get decimal index from a %s, valid indexes range from %d to %d inclusive.", kind, -n, n-1)
	}
	if num.Val < float64(-n) || num.Val >= float64(n) {
		return 0, i.runtimeError(frame, node, "%s index %s out of range, valid indexes range from %d to %d inclusive.",
			kind, runtime.FormatNumber(num.Val), -n, n-1)
	}
	pos := int(num.Val)
	if pos < 0 {
		pos += n
	}
	return pos, nil
}

func (i *Interpreter) evaluateFunctionDefinition(def *ast.FunctionDefinition, frame *runtime.Frame) (runtime.Value, signal, error) {
	fn := &runtime.Function{
		Params:         make([]string, 0, len(def.Params)),
		Body:           def.Body,
		Env:            frame.Env,
		ExpressionForm: def.ExpressionForm,
	}
	for _, param := range def.Params {
		fn.Params = append(fn.Params, param.Name)
	}
	closure := runtime.ClosureValue{Function: fn}
	if def.ID != nil {
		fn.Name = def.ID.Name
		frame.Env.Define(def.ID.Name, runtime.Stamp(closure, def.Span(), frame))
	}
	return closure, noSignal, nil
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall, frame *runtime.Frame) (runtime.Value, signal, error) {
	callee, sig, err := i.evaluate(call.Callee, frame)
	if err != nil || sig.active() {
		return callee, sig, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		arg, sig, err := i.evaluate(argExpr, frame)
		if err != nil || sig.active() {
			return arg, sig, err
		}
		args = append(args, arg)
	}
	val, err := i.callValue(callee, args, call, frame)
	return val, noSignal, err
}
