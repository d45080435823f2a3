package parser

import (
	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/lexer"
)

// Precedence, loosest first:
//
//	AND OR
//	NOT, comparisons
//	+ -
//	* / // DIV MOD
//	unary + -
//	** ^ (right associative)
//	call and index postfix
func (p *parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.atKeyword("AND") || p.atKeyword("OR") {
		op := ast.OpAnd
		if p.advance().Literal == "OR" {
			op = ast.OpOr
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
	return left, nil
}

func (p *parser) parseComparison() (ast.Expression, error) {
	if p.atKeyword("NOT") {
		start := p.advance()
		operand, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		return p.finish(ast.NewUnaryExpression(ast.OpNot, operand), start), nil
	}
	return p.parseBinaryLevel(p.parseArithmetic, lexer.Equals, lexer.NotEquals, lexer.LessThan,
		lexer.GreaterThan, lexer.LessThanOrEquals, lexer.GreaterThanOrEquals)
}

func (p *parser) parseArithmetic() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseTerm, lexer.Plus, lexer.Minus)
}

func (p *parser) parseTerm() (ast.Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, lexer.Multiply, lexer.Divide, lexer.FloorDivide, lexer.Modulo)
}

// parseBinaryLevel parses a left-associative chain of operand separated by
// any of kinds.
func (p *parser) parseBinaryLevel(operand func() (ast.Expression, error), kinds ...lexer.Kind) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchOperator(kinds)
		if !ok {
			return left, nil
		}
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = binary(op, left, right)
	}
}

func (p *parser) matchOperator(kinds []lexer.Kind) (ast.Operator, bool) {
	tok := p.current()
	for _, kind := range kinds {
		if tok.Kind == kind {
			p.advance()
			return binaryOperators[kind], true
		}
	}
	return "", false
}

func (p *parser) parseUnary() (ast.Expression, error) {
	if p.at(lexer.Plus) || p.at(lexer.Minus) {
		start := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return p.finish(ast.NewUnaryExpression(binaryOperators[start.Kind], operand), start), nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (ast.Expression, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.Power) {
		return base, nil
	}
	p.advance()
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return binary(ast.OpPower, base, exponent), nil
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(lexer.LParen):
			p.advance()
			args, err := p.parseExpressionList(lexer.RParen, "to close argument list")
			if err != nil {
				return nil, err
			}
			call := ast.NewFunctionCall(expr, args)
			ast.SetSpan(call, p.extend(expr))
			expr = call
		case p.at(lexer.LSquare):
			p.advance()
			p.skipSeparators()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.skipSeparators()
			if _, err := p.expect(lexer.RSquare, "to close index"); err != nil {
				return nil, err
			}
			node := ast.NewIndexExpression(expr, index)
			ast.SetSpan(node, p.extend(expr))
			expr = node
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.current()
	switch tok.Kind {
	case lexer.Number, lexer.String, lexer.Boolean:
		return p.parseLiteral()
	case lexer.Identifier:
		p.advance()
		return identifierFrom(tok), nil
	case lexer.LParen:
		p.advance()
		p.skipSeparators()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipSeparators()
		if _, err := p.expect(lexer.RParen, "to close parenthesis"); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LSquare:
		return p.parseList()
	case lexer.Keyword:
		switch tok.Literal {
		case "NULL":
			p.advance()
			return annotate(ast.NewNullLiteral(), tok.Span), nil
		case "IF":
			return p.parseIf()
		case "FOR":
			return p.parseFor()
		case "WHILE":
			return p.parseWhile()
		case "REPEAT":
			return p.parseRepeat()
		case "CASE":
			return p.parseCase()
		case "FUNCTION", "PROCEDURE":
			return p.parseFunction()
		}
	}
	return nil, p.errorf(tok, "Expected an expression, found %s", tok.Describe())
}

func binary(op ast.Operator, left, right ast.Expression) ast.Expression {
	return annotate(ast.NewBinaryExpression(op, left, right), spanBetween(left, right))
}
