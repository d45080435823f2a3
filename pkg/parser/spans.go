package parser

import (
	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/lexer"
)

// spanFrom covers start up to the most recently consumed token.
func (p *parser) spanFrom(start lexer.Token) diag.Span {
	return diag.NewSpan(start.Span.Start, p.previous().Span.End)
}

// extend covers node up to the most recently consumed token.
func (p *parser) extend(node ast.Node) diag.Span {
	return diag.NewSpan(node.Span().Start, p.previous().Span.End)
}

func spanBetween(first, last ast.Node) diag.Span {
	return diag.NewSpan(first.Span().Start, last.Span().End)
}

func annotate[T ast.Node](node T, span diag.Span) T {
	return ast.WithSpan(node, span)
}

func (p *parser) finish(node ast.Expression, start lexer.Token) ast.Expression {
	ast.SetSpan(node, p.spanFrom(start))
	return node
}
