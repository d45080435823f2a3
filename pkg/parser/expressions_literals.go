package parser

import (
	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/lexer"
)

func (p *parser) parseLiteral() (ast.Expression, error) {
	tok := p.advance()
	switch tok.Kind {
	case lexer.Number:
		return annotate(ast.NewNumberLiteral(tok.Num), tok.Span), nil
	case lexer.String:
		return annotate(ast.NewStringLiteral(tok.Literal), tok.Span), nil
	case lexer.Boolean:
		return annotate(ast.NewBooleanLiteral(tok.Literal == "TRUE"), tok.Span), nil
	default:
		return nil, p.errorf(tok, "Expected a literal, found %s", tok.Describe())
	}
}

func (p *parser) parseList() (ast.Expression, error) {
	start := p.advance()
	elements, err := p.parseExpressionList(lexer.RSquare, "to close list")
	if err != nil {
		return nil, err
	}
	return p.finish(ast.NewListLiteral(elements), start), nil
}

// parseExpressionList reads comma separated expressions up to and including
// closer. Newlines are allowed between elements.
func (p *parser) parseExpressionList(closer lexer.Kind, context string) ([]ast.Expression, error) {
	var items []ast.Expression
	p.skipSeparators()
	if p.at(closer) {
		p.advance()
		return items, nil
	}
	for {
		item, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		p.skipSeparators()
		if !p.at(lexer.Comma) {
			break
		}
		p.advance()
		p.skipSeparators()
	}
	if _, err := p.expect(closer, context); err != nil {
		return nil, err
	}
	return items, nil
}
