package parser

import (
	"fmt"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/lexer"
)

var blockTerminators = map[string]struct{}{
	"ELSE": {}, "ELIF": {}, "ENDIF": {},
	"ENDWHILE": {}, "UNTIL": {}, "NEXT": {},
	"ENDCASE": {}, "OTHERWISE": {},
	"ENDFUNCTION": {}, "ENDPROCEDURE": {},
}

var binaryOperators = map[lexer.Kind]ast.Operator{
	lexer.Plus:                ast.OpAdd,
	lexer.Minus:               ast.OpSubtract,
	lexer.Multiply:            ast.OpMultiply,
	lexer.Divide:              ast.OpDivide,
	lexer.FloorDivide:         ast.OpFloorDivide,
	lexer.Modulo:              ast.OpModulo,
	lexer.Power:               ast.OpPower,
	lexer.Equals:              ast.OpEqual,
	lexer.NotEquals:           ast.OpNotEqual,
	lexer.LessThan:            ast.OpLess,
	lexer.GreaterThan:         ast.OpGreater,
	lexer.LessThanOrEquals:    ast.OpLessEqual,
	lexer.GreaterThanOrEquals: ast.OpGreaterEqual,
}

func (p *parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// previous returns the most recently consumed token.
func (p *parser) previous() lexer.Token {
	if p.pos == 0 {
		return p.current()
	}
	return p.tokens[p.pos-1]
}

func (p *parser) advance() lexer.Token {
	tok := p.current()
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

// mark and reset implement speculative parsing.
func (p *parser) mark() int      { return p.pos }
func (p *parser) reset(mark int) { p.pos = mark }

func (p *parser) at(k lexer.Kind) bool {
	return p.current().Kind == k
}

func (p *parser) atKeyword(name string) bool {
	return p.current().IsKeyword(name)
}

func (p *parser) atBlockEnd() bool {
	tok := p.current()
	if tok.Kind == lexer.EOF {
		return true
	}
	if tok.Kind != lexer.Keyword {
		return false
	}
	_, ok := blockTerminators[tok.Literal]
	return ok
}

// atStatementEnd reports whether nothing more belongs to the current
// statement.
func (p *parser) atStatementEnd() bool {
	return p.at(lexer.Newline) || p.atBlockEnd()
}

func (p *parser) skipSeparators() {
	for p.at(lexer.Newline) {
		p.advance()
	}
}

func (p *parser) expect(kind lexer.Kind, context string) (lexer.Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "Expected %s %s, found %s", kind, context, tok.Describe())
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(name, context string) (lexer.Token, error) {
	tok := p.current()
	if !tok.IsKeyword(name) {
		return tok, p.errorf(tok, "Expected '%s' %s, found %s", name, context, tok.Describe())
	}
	return p.advance(), nil
}

func (p *parser) expectIdentifier(context string) (*ast.Identifier, error) {
	tok, err := p.expect(lexer.Identifier, context)
	if err != nil {
		return nil, err
	}
	return identifierFrom(tok), nil
}

func identifierFrom(tok lexer.Token) *ast.Identifier {
	return ast.WithSpan(ast.NewIdentifier(tok.Literal), tok.Span)
}

func (p *parser) errorf(tok lexer.Token, format string, args ...any) error {
	return diag.New(diag.InvalidSyntax, tok.Span, "%s", fmt.Sprintf(format, args...))
}
