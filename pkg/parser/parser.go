package parser

import (
	"errors"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/lexer"
)

// Parse builds the program block from a token sequence produced by
// lexer.Lex. The first syntax error halts parsing and is returned as a
// *diag.Diagnostic.
func Parse(tokens []lexer.Token) (*ast.Block, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		var end diag.Span
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span.End
			end = diag.NewSpan(last, last)
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Kind: lexer.EOF, Span: end})
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

// ParseSource lexes and parses source in one step.
func ParseSource(file, source string) (*ast.Block, error) {
	tokens, err := lexer.Lex(file, source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Incomplete reports whether err was caused by input ending before a
// construct was closed, such as an IF without its ENDIF or an open string.
// Interactive front ends use it to ask for another line.
func Incomplete(err error) bool {
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		return false
	}
	switch d.Category {
	case diag.UnterminatedLiteral:
		return true
	case diag.InvalidSyntax:
		start := d.Span.Start
		return start.Source != "" && start.Index >= len(start.Source) && d.Span.End.Index == start.Index
	default:
		return false
	}
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) parseProgram() (*ast.Block, error) {
	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	tok := p.current()
	if tok.Kind != lexer.EOF {
		return nil, p.errorf(tok, "Unexpected %s", tok.Describe())
	}
	return block, nil
}

// parseStatements reads a statement sequence. It stops, without consuming,
// at end of input or at a keyword that closes the enclosing construct.
func (p *parser) parseStatements() (*ast.Block, error) {
	p.skipSeparators()
	start := p.current()
	var body []ast.Statement
	for !p.atBlockEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		if p.atBlockEnd() {
			break
		}
		if tok := p.current(); tok.Kind != lexer.Newline {
			return nil, p.errorf(tok, "Expected newline or end of statement, found %s", tok.Describe())
		}
		p.skipSeparators()
	}
	block := ast.NewBlock(body)
	if len(body) == 0 {
		ast.SetSpan(block, diag.NewSpan(start.Span.Start, start.Span.Start))
	} else {
		ast.SetSpan(block, spanBetween(body[0], body[len(body)-1]))
	}
	return block, nil
}
