package interpreter

import (
	"math"
	"strings"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/runtime"
)

const maxRepeat = 1 << 24

// truthiness reports the truth of a Boolean or Number. ok is false for any
// other kind.
func truthiness(v runtime.Value) (truth bool, ok bool) {
	switch val := v.(type) {
	case runtime.BooleanValue:
		return val.Val, true
	case runtime.NumberValue:
		return val.Val != 0, true
	default:
		return false, false
	}
}

func (i *Interpreter) applyBinary(expr *ast.BinaryExpression, left, right runtime.Value, frame *runtime.Frame) (runtime.Value, error) {
	switch expr.Operator {
	case ast.OpEqual:
		return runtime.BooleanValue{Val: valuesEqual(left, right)}, nil
	case ast.OpNotEqual:
		return runtime.BooleanValue{Val: !valuesEqual(left, right)}, nil
	case ast.OpLess, ast.OpGreater, ast.OpLessEqual, ast.OpGreaterEqual:
		return i.compare(expr, left, right, frame)
	case ast.OpAdd:
		return i.add(expr, left, right, frame)
	case ast.OpMultiply:
		if str, ok := left.(runtime.StringValue); ok {
			return i.repeat(expr, str, right, frame)
		}
		return i.arithmetic(expr, left, right, frame)
	default:
		return i.arithmetic(expr, left, right, frame)
	}
}

func (i *Interpreter) invalidOperands(expr *ast.BinaryExpression, left, right runtime.Value, frame *runtime.Frame) error {
	return i.runtimeError(frame, expr, "Invalid operands for %s: %s and %s", expr.Operator, left.Kind(), right.Kind())
}

func (i *Interpreter) add(expr *ast.BinaryExpression, left, right runtime.Value, frame *runtime.Frame) (runtime.Value, error) {
	switch l := left.(type) {
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	case runtime.ListValue:
		if r, ok := right.(runtime.ListValue); ok {
			return l.Concat(r.Elements()...), nil
		}
		return l.Concat(right), nil
	}
	return i.arithmetic(expr, left, right, frame)
}

func (i *Interpreter) repeat(expr *ast.BinaryExpression, str runtime.StringValue, count runtime.Value, frame *runtime.Frame) (runtime.Value, error) {
	n, ok := count.(runtime.NumberValue)
	if !ok {
		return nil, i.invalidOperands(expr, str, count, frame)
	}
	if n.Val != math.Trunc(n.Val) {
		return nil, i.runtimeError(frame, expr.Right, "Cannot multiply a string by a decimal number.")
	}
	if n.Val <= 0 || str.Val == "" {
		return runtime.StringValue{Val: ""}, nil
	}
	if n.Val*float64(len(str.Val)) > maxRepeat {
		return nil, i.runtimeError(frame, expr, "String repetition result is too large.")
	}
	return runtime.StringValue{Val: strings.Repeat(str.Val, int(n.Val))}, nil
}

func (i *Interpreter) arithmetic(expr *ast.BinaryExpression, left, right runtime.Value, frame *runtime.Frame) (runtime.Value, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, i.invalidOperands(expr, left, right, frame)
	}
	a, b := l.Val, r.Val
	switch expr.Operator {
	case ast.OpAdd:
		return number(a + b), nil
	case ast.OpSubtract:
		return number(a - b), nil
	case ast.OpMultiply:
		return number(a * b), nil
	case ast.OpDivide:
		if b == 0 {
			return nil, i.runtimeError(frame, expr, "Division by zero.")
		}
		return number(a / b), nil
	case ast.OpFloorDivide:
		if b == 0 {
			return nil, i.runtimeError(frame, expr, "Floor division by zero.")
		}
		return number(math.Floor(a / b)), nil
	case ast.OpModulo:
		if b == 0 {
			return nil, i.runtimeError(frame, expr, "Modulo division by zero.")
		}
		if b != math.Trunc(b) {
			return nil, i.runtimeError(frame, expr, "Modulo division by a decimal number.")
		}
		return number(flooredMod(a, b)), nil
	case ast.OpPower:
		return number(math.Pow(a, b)), nil
	default:
		return nil, i.invalidOperands(expr, left, right, frame)
	}
}

// flooredMod gives the remainder with the sign of the divisor.
func flooredMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func number(v float64) runtime.NumberValue {
	return runtime.NumberValue{Val: v}
}

func (i *Interpreter) compare(expr *ast.BinaryExpression, left, right runtime.Value, frame *runtime.Frame) (runtime.Value, error) {
	var cmp int
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, i.invalidOperands(expr, left, right, frame)
		}
		if math.IsNaN(l.Val) || math.IsNaN(r.Val) {
			return runtime.BooleanValue{Val: false}, nil
		}
		switch {
		case l.Val < r.Val:
			cmp = -1
		case l.Val > r.Val:
			cmp = 1
		}
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		if !ok {
			return nil, i.invalidOperands(expr, left, right, frame)
		}
		cmp = strings.Compare(l.Val, r.Val)
	default:
		return nil, i.invalidOperands(expr, left, right, frame)
	}
	var result bool
	switch expr.Operator {
	case ast.OpLess:
		result = cmp < 0
	case ast.OpGreater:
		result = cmp > 0
	case ast.OpLessEqual:
		result = cmp <= 0
	case ast.OpGreaterEqual:
		result = cmp >= 0
	}
	return runtime.BooleanValue{Val: result}, nil
}

// valuesEqual is total and dispatches on the left operand's kind, so mixed
// comparisons are not necessarily symmetric.
func valuesEqual(left, right runtime.Value) bool {
	switch l := left.(type) {
	case runtime.NumberValue:
		r, ok := right.(runtime.NumberValue)
		return ok && l.Val == r.Val
	case runtime.StringValue:
		r, ok := right.(runtime.StringValue)
		return ok && l.Val == r.Val
	case runtime.BooleanValue:
		switch r := right.(type) {
		case runtime.BooleanValue:
			return l.Val == r.Val
		case runtime.NumberValue:
			return l.Val == (r.Val != 0)
		}
		return false
	case runtime.NullValue:
		_, ok := right.(runtime.NullValue)
		return ok
	case runtime.ListValue:
		r, ok := right.(runtime.ListValue)
		if !ok {
			return false
		}
		if l.Store == r.Store {
			return true
		}
		if l.Len() != r.Len() {
			return false
		}
		re := r.Elements()
		for idx, el := range l.Elements() {
			if !valuesEqual(el, re[idx]) {
				return false
			}
		}
		return true
	case runtime.ClosureValue:
		r, ok := right.(runtime.ClosureValue)
		return ok && l.Function == r.Function
	case runtime.NativeFunctionValue:
		r, ok := right.(runtime.NativeFunctionValue)
		return ok && l.NativeFunction == r.NativeFunction
	default:
		return false
	}
}
