package interpreter

import (
	"errors"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/runtime"
)

// runtimeError builds a RuntimeError diagnostic located at node and carrying
// the call chain active in frame.
func (i *Interpreter) runtimeError(frame *runtime.Frame, node ast.Node, format string, args ...any) error {
	return i.errorAt(frame, node.Span(), diag.RuntimeError, format, args...)
}

func (i *Interpreter) errorAt(frame *runtime.Frame, span diag.Span, category diag.Category, format string, args ...any) error {
	d := diag.New(category, span, format, args...)
	if frame != nil {
		d.Trace = frame.Trace(span.Start)
	}
	return d
}

// hostError converts an error returned by a native implementation into a
// diagnostic at the call site.
func (i *Interpreter) hostError(err error, frame *runtime.Frame, call ast.Node) error {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		if d.Span.IsZero() {
			d.Span = call.Span()
		}
		if len(d.Trace) == 0 {
			d.Trace = frame.Trace(d.Span.Start)
		}
		return d
	}
	return i.runtimeError(frame, call, "%s", err.Error())
}

// sourceText returns the source covered by span.
func sourceText(span diag.Span) string {
	src := span.Start.Source
	start, end := span.Start.Index, span.End.Index
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}
