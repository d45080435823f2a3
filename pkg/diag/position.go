package diag

import "unicode/utf8"

// Position locates a single character in a source file. Line and Column are
// zero-based; Column counts runes within the line. Source holds the whole
// file so diagnostics can slice out the offending line.
type Position struct {
	Index  int
	Line   int
	Column int
	File   string
	Source string
}

// Start returns the position of the first character of source.
func Start(file, source string) Position {
	return Position{File: file, Source: source}
}

// Advance returns the position immediately after r, assuming r is encoded
// in the usual number of bytes.
func (p Position) Advance(r rune) Position {
	return p.AdvanceWidth(r, utf8.RuneLen(r))
}

// AdvanceWidth returns the position immediately after r when r occupied
// size bytes of the source.
func (p Position) AdvanceWidth(r rune, size int) Position {
	next := p
	if size < 1 {
		size = 1
	}
	next.Index += size
	next.Column++
	if r == '\n' {
		next.Line++
		next.Column = 0
	}
	return next
}

// LineText returns the full text of the line p sits on, without the newline.
func (p Position) LineText() string {
	if p.Index > len(p.Source) {
		return ""
	}
	start := p.Index
	for start > 0 && p.Source[start-1] != '\n' {
		start--
	}
	end := p.Index
	for end < len(p.Source) && p.Source[end] != '\n' {
		end++
	}
	return p.Source[start:end]
}

// Span is a half-open range of source positions.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a span covering start up to (but excluding) end.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s.Start.File == "" && s.Start.Source == "" && s.Start.Index == 0 && s.End.Index == 0
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.IsZero() {
		return other
	}
	if other.IsZero() {
		return s
	}
	out := s
	if other.Start.Index < out.Start.Index {
		out.Start = other.Start
	}
	if other.End.Index > out.End.Index {
		out.End = other.End
	}
	return out
}
