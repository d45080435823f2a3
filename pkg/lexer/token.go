package lexer

import (
	"fmt"

	"pscode/interpreter-go/pkg/diag"
)

// Kind identifies the token category.
type Kind int

const (
	Number Kind = iota
	String
	Boolean
	Identifier
	Keyword

	Plus
	Minus
	Multiply
	Divide
	FloorDivide
	Modulo
	Power
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEquals
	GreaterThanOrEquals
	Assign
	Arrow

	Comma
	Colon
	LParen
	RParen
	LSquare
	RSquare

	Newline
	EOF
)

var kindNames = map[Kind]string{
	Number:              "number",
	String:              "string",
	Boolean:             "boolean",
	Identifier:          "identifier",
	Keyword:             "keyword",
	Plus:                "'+'",
	Minus:               "'-'",
	Multiply:            "'*'",
	Divide:              "'/'",
	FloorDivide:         "'//'",
	Modulo:              "'MOD'",
	Power:               "'**'",
	Equals:              "'='",
	NotEquals:           "'<>'",
	LessThan:            "'<'",
	GreaterThan:         "'>'",
	LessThanOrEquals:    "'<='",
	GreaterThanOrEquals: "'>='",
	Assign:              "'<-'",
	Arrow:               "'=>'",
	Comma:               "','",
	Colon:               "':'",
	LParen:              "'('",
	RParen:              "')'",
	LSquare:             "'['",
	RSquare:             "']'",
	Newline:             "newline",
	EOF:                 "end of input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// Keywords recognised by the lexer. TRUE/FALSE lex as Boolean tokens and
// MOD/DIV as operators, so they are not listed here.
var Keywords = map[string]struct{}{
	"IF": {}, "THEN": {}, "ELIF": {}, "ELSE": {}, "ENDIF": {},
	"FOR": {}, "TO": {}, "STEP": {}, "NEXT": {},
	"WHILE": {}, "DO": {}, "ENDWHILE": {},
	"REPEAT": {}, "UNTIL": {},
	"CASE": {}, "OF": {}, "OTHERWISE": {}, "ENDCASE": {},
	"FUNCTION": {}, "ENDFUNCTION": {}, "PROCEDURE": {}, "ENDPROCEDURE": {},
	"RETURN": {}, "BREAK": {}, "CONTINUE": {},
	"PRINT": {}, "INPUT": {},
	"AND": {}, "OR": {}, "NOT": {},
	"NULL": {},
}

// Token is a lexed unit. Literal holds the identifier/keyword name, the
// decoded string contents, TRUE/FALSE for booleans, or the operator spelling;
// Num holds the value of Number tokens.
type Token struct {
	Kind    Kind
	Literal string
	Num     float64
	Span    diag.Span
}

// Matches reports whether t and other have the same kind and payload.
// Positions are ignored.
func (t Token) Matches(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == Number {
		return t.Num == other.Num
	}
	return t.Literal == other.Literal
}

// IsKeyword reports whether t is the given keyword.
func (t Token) IsKeyword(name string) bool {
	return t.Matches(Token{Kind: Keyword, Literal: name})
}

// Describe renders t for syntax error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case Keyword:
		return fmt.Sprintf("'%s'", t.Literal)
	case Identifier:
		return fmt.Sprintf("identifier '%s'", t.Literal)
	case Number:
		return fmt.Sprintf("number %s", t.Literal)
	case String:
		return fmt.Sprintf("string %q", t.Literal)
	case Boolean:
		return t.Literal
	default:
		return t.Kind.String()
	}
}

func (t Token) String() string {
	pos := t.Span.Start
	if t.Literal != "" {
		return fmt.Sprintf("[%s(%s) at %d:%d]", t.Kind, t.Literal, pos.Line+1, pos.Column+1)
	}
	return fmt.Sprintf("[%s at %d:%d]", t.Kind, pos.Line+1, pos.Column+1)
}
