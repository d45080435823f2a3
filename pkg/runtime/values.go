package runtime

import (
	"fmt"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindList
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindList:
		return "List"
	case KindFunction:
		return "Function"
	case KindNativeFunction:
		return "BuiltInFunction"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Origin records where a value was produced. It is only used for messages.
type Origin struct {
	Span  diag.Span
	Frame *Frame
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	Origin() Origin
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct {
	At Origin
}

func (NullValue) Kind() Kind       { return KindNull }
func (v NullValue) Origin() Origin { return v.At }

// NumberValue is the only numeric type; integers are integral float64s.
type NumberValue struct {
	Val float64
	At  Origin
}

func (NumberValue) Kind() Kind       { return KindNumber }
func (v NumberValue) Origin() Origin { return v.At }

type StringValue struct {
	Val string
	At  Origin
}

func (StringValue) Kind() Kind       { return KindString }
func (v StringValue) Origin() Origin { return v.At }

type BooleanValue struct {
	Val bool
	At  Origin
}

func (BooleanValue) Kind() Kind       { return KindBoolean }
func (v BooleanValue) Origin() Origin { return v.At }

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

// ListStore is the element storage shared by every alias of a list.
type ListStore struct {
	Elements []Value
}

// ListValue is a handle on a ListStore. Copies of the handle alias the same
// elements, so mutation through one binding is visible through all of them.
type ListValue struct {
	Store *ListStore
	At    Origin
}

// NewList allocates a fresh store holding elements.
func NewList(elements []Value) ListValue {
	return ListValue{Store: &ListStore{Elements: elements}}
}

func (ListValue) Kind() Kind       { return KindList }
func (v ListValue) Origin() Origin { return v.At }

func (v ListValue) Len() int {
	if v.Store == nil {
		return 0
	}
	return len(v.Store.Elements)
}

// Elements exposes the shared backing slice. Callers must not retain it
// across mutations.
func (v ListValue) Elements() []Value {
	if v.Store == nil {
		return nil
	}
	return v.Store.Elements
}

// Append adds element to the shared store.
func (v ListValue) Append(element Value) {
	v.Store.Elements = append(v.Store.Elements, element)
}

// Set replaces the element at a resolved, in-range index.
func (v ListValue) Set(index int, element Value) {
	v.Store.Elements[index] = element
}

// Concat returns a new list holding the elements of v followed by extra.
func (v ListValue) Concat(extra ...Value) ListValue {
	out := make([]Value, 0, v.Len()+len(extra))
	out = append(out, v.Elements()...)
	out = append(out, extra...)
	return NewList(out)
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// Function is a user-defined function together with the environment it was
// defined in.
type Function struct {
	Name           string
	Params         []string
	Body           ast.Node
	Env            *Environment
	ExpressionForm bool
}

// ClosureValue is a handle on a Function. Two closures are the same
// function only when they share the Function.
type ClosureValue struct {
	*Function
	At Origin
}

func (ClosureValue) Kind() Kind       { return KindFunction }
func (v ClosureValue) Origin() Origin { return v.At }

// NativeCallContext is passed to host implementations. Env holds the
// parameters bound by name; its parent is the root environment.
type NativeCallContext struct {
	Env   *Environment
	Frame *Frame
	Span  diag.Span
}

// Arg returns the value bound to the named parameter, or Null.
func (c *NativeCallContext) Arg(name string) Value {
	v, err := c.Env.Get(name)
	if err != nil {
		return NullValue{}
	}
	return v
}

type NativeFunc func(*NativeCallContext) (Value, error)

type NativeFunction struct {
	Name   string
	Params []string
	Impl   NativeFunc
}

type NativeFunctionValue struct {
	*NativeFunction
	At Origin
}

func (NativeFunctionValue) Kind() Kind       { return KindNativeFunction }
func (v NativeFunctionValue) Origin() Origin { return v.At }

// Stamp returns a copy of v tagged with a new origin. List and function
// handles still share their underlying store or definition.
func Stamp(v Value, span diag.Span, frame *Frame) Value {
	at := Origin{Span: span, Frame: frame}
	switch val := v.(type) {
	case NullValue:
		val.At = at
		return val
	case NumberValue:
		val.At = at
		return val
	case StringValue:
		val.At = at
		return val
	case BooleanValue:
		val.At = at
		return val
	case ListValue:
		val.At = at
		return val
	case ClosureValue:
		val.At = at
		return val
	case NativeFunctionValue:
		val.At = at
		return val
	default:
		return v
	}
}
