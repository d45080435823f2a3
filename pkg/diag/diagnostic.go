package diag

import (
	"fmt"
	"strings"
)

// Category classifies a diagnostic.
type Category int

const (
	IllegalCharacter Category = iota
	ExpectedCharacter
	UnterminatedLiteral
	InvalidSyntax
	RuntimeError
	NotImplemented
)

func (c Category) String() string {
	switch c {
	case IllegalCharacter:
		return "Illegal Character"
	case ExpectedCharacter:
		return "Expected Character"
	case UnterminatedLiteral:
		return "Unexpected EOF"
	case InvalidSyntax:
		return "Invalid Syntax"
	case RuntimeError:
		return "Runtime Error"
	case NotImplemented:
		return "Not Implemented"
	default:
		return fmt.Sprintf("unknown_category_%d", int(c))
	}
}

// TraceFrame is one entry of a runtime traceback: the frame's display name and
// the position execution had reached inside it.
type TraceFrame struct {
	Name string
	Pos  Position
}

// Diagnostic is the single error type produced by the lexer, parser and
// evaluator. It satisfies error.
type Diagnostic struct {
	Category Category
	Span     Span
	Message  string
	// Trace is innermost first; only runtime failures carry one.
	Trace []TraceFrame
}

// New constructs a diagnostic without a traceback.
func New(category Category, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: category, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	pos := d.Span.Start
	file := pos.File
	if file == "" {
		file = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", file, pos.Line+1, pos.Column+1, d.Category, d.Message)
}

// Render produces the multi-line terminal form: traceback (runtime errors),
// category, message, file and line, and the offending line underlined.
func (d *Diagnostic) Render() string {
	var b strings.Builder
	if len(d.Trace) > 0 {
		b.WriteString(RenderTraceback(d.Trace))
	}
	fmt.Fprintf(&b, "pscode > ERROR: %s\n", d.Category)
	if d.Message != "" {
		b.WriteString(d.Message)
		b.WriteByte('\n')
	}
	start := d.Span.Start
	fmt.Fprintf(&b, "  File %q, line %d\n", start.File, start.Line+1)
	line := start.LineText()
	b.WriteString("    ")
	b.WriteString(line)
	b.WriteString("\n    ")
	b.WriteString(underline(line, start, d.Span.End, d.Category))
	return b.String()
}

// RenderTraceback formats frames innermost first, collapsing consecutive
// duplicates into a single "(xN)" line. The outermost frame is printed last.
func RenderTraceback(frames []TraceFrame) string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call first):\n")
	prev := ""
	count := 0
	flush := func() {
		if count == 0 {
			return
		}
		b.WriteString(prev)
		if count > 1 {
			fmt.Fprintf(&b, " (x%d)", count)
		}
		b.WriteByte('\n')
	}
	for _, frame := range frames {
		line := fmt.Sprintf("  File %q, line %d, in %s", frame.Pos.File, frame.Pos.Line+1, frame.Name)
		if line == prev {
			count++
			continue
		}
		flush()
		prev = line
		count = 1
	}
	flush()
	return b.String()
}

func underline(line string, start, end Position, category Category) string {
	runes := []rune(line)
	var b strings.Builder
	for i := 0; i < start.Column && i < len(runes); i++ {
		if runes[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	if category == IllegalCharacter || category == ExpectedCharacter || category == UnterminatedLiteral {
		b.WriteByte('^')
		return b.String()
	}
	width := 1
	switch {
	case end.Line > start.Line:
		width = len(runes) - start.Column
	case end.Column > start.Column:
		width = end.Column - start.Column
	}
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("~", width))
	return b.String()
}
