package interpreter

import (
	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/runtime"
)

type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
	signalBreak
	signalContinue
)

// signal is threaded alongside every evaluated value. Composite nodes stop
// evaluating children as soon as one reports a signal or an error.
type signal struct {
	kind  signalKind
	value runtime.Value
	node  ast.Node
}

var noSignal = signal{}

func (s signal) active() bool {
	return s.kind != signalNone
}

func (s signal) keyword() string {
	switch s.kind {
	case signalReturn:
		return "RETURN"
	case signalBreak:
		return "BREAK"
	case signalContinue:
		return "CONTINUE"
	default:
		return ""
	}
}

func (i *Interpreter) misplacedSignal(sig signal, frame *runtime.Frame) error {
	return i.runtimeError(frame, sig.node, "%s used outside of a loop.", sig.keyword())
}
