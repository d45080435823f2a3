package runtime

import "pscode/interpreter-go/pkg/diag"

// Frame is one entry of the dynamic call chain. It is separate from the
// lexical Environment chain: Parent is the caller, while the environment's
// parent is wherever the function was defined.
type Frame struct {
	Name     string
	EntryPos diag.Position
	Parent   *Frame
	Env      *Environment
	Depth    int
}

// NewFrame pushes a frame called from parent at entry.
func NewFrame(name string, parent *Frame, entry diag.Position, env *Environment) *Frame {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Frame{Name: name, EntryPos: entry, Parent: parent, Env: env, Depth: depth}
}

// Trace snapshots the chain innermost first. at is the position reached in
// f; each caller is reported at the call site that entered its callee.
func (f *Frame) Trace(at diag.Position) []diag.TraceFrame {
	var out []diag.TraceFrame
	pos := at
	for fr := f; fr != nil; fr = fr.Parent {
		out = append(out, diag.TraceFrame{Name: fr.Name, Pos: pos})
		pos = fr.EntryPos
	}
	return out
}
