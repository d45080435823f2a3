package parser

import (
	"errors"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/lexer"
)

func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.current()
	switch {
	case tok.IsKeyword("RETURN"):
		return p.parseReturn()
	case tok.IsKeyword("BREAK"):
		p.advance()
		return annotate(ast.NewBreakStatement(), tok.Span), nil
	case tok.IsKeyword("CONTINUE"):
		p.advance()
		return annotate(ast.NewContinueStatement(), tok.Span), nil
	case tok.IsKeyword("PRINT"):
		return p.parsePrint()
	case tok.IsKeyword("INPUT"):
		p.advance()
		target, err := p.expectIdentifier("after INPUT")
		if err != nil {
			return nil, err
		}
		return annotate(ast.NewInputStatement(target), p.spanFrom(tok)), nil
	case tok.Kind == lexer.Identifier && p.peek().Kind == lexer.Assign:
		return p.parseAssignment()
	case tok.Kind == lexer.Identifier && p.peek().Kind == lexer.LSquare:
		if stmt, ok, err := p.tryIndexAssignment(); ok || err != nil {
			return stmt, err
		}
	}
	return p.parseExpression()
}

// parseReturn speculatively parses the returned expression. When the token
// after RETURN cannot start an expression the statement returns nothing;
// errors further into the expression are reported as usual.
func (p *parser) parseReturn() (ast.Statement, error) {
	start := p.advance()
	if p.atStatementEnd() {
		return annotate(ast.NewReturnStatement(nil), start.Span), nil
	}
	mark := p.mark()
	first := p.current()
	value, err := p.parseExpression()
	if err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) && d.Span.Start.Index != first.Span.Start.Index {
			return nil, err
		}
		p.reset(mark)
		return annotate(ast.NewReturnStatement(nil), start.Span), nil
	}
	return annotate(ast.NewReturnStatement(value), p.spanFrom(start)), nil
}

func (p *parser) parsePrint() (ast.Statement, error) {
	start := p.advance()
	var args []ast.Expression
	if !p.atStatementEnd() {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	return annotate(ast.NewPrintStatement(args), p.spanFrom(start)), nil
}

func (p *parser) parseAssignment() (ast.Statement, error) {
	start := p.current()
	target := identifierFrom(p.advance())
	p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return annotate(ast.NewAssignment(target, value), p.spanFrom(start)), nil
}

// tryIndexAssignment handles `name[i]... <- value`. When the postfix chain
// is not followed by an assignment arrow the parser is rewound and ok is
// false.
func (p *parser) tryIndexAssignment() (ast.Statement, bool, error) {
	start := p.current()
	mark := p.mark()
	target, err := p.parsePostfix()
	if err == nil {
		if index, isIndex := target.(*ast.IndexExpression); isIndex && p.at(lexer.Assign) {
			p.advance()
			value, err := p.parseExpression()
			if err != nil {
				return nil, true, err
			}
			return annotate(ast.NewIndexAssignment(index, value), p.spanFrom(start)), true, nil
		}
	}
	p.reset(mark)
	return nil, false, nil
}

// Block constructs. They are expressions so they may appear anywhere a
// value is expected.

func (p *parser) parseIf() (ast.Expression, error) {
	start := p.advance()
	var clauses []*ast.IfClause
	for {
		clauseStart := p.previous()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipSeparators()
		if _, err := p.expectKeyword("THEN", "after IF condition"); err != nil {
			return nil, err
		}
		body, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, annotate(ast.NewIfClause(cond, body), p.spanFrom(clauseStart)))
		if !p.atKeyword("ELIF") {
			break
		}
		p.advance()
	}
	var elseBody *ast.Block
	if p.atKeyword("ELSE") {
		p.advance()
		body, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		elseBody = body
	}
	if _, err := p.expectKeyword("ENDIF", "to close IF"); err != nil {
		return nil, err
	}
	return p.finish(ast.NewIfExpression(clauses, elseBody), start), nil
}

func (p *parser) parseFor() (ast.Expression, error) {
	start := p.advance()
	variable, err := p.expectIdentifier("as FOR loop variable")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign, "after FOR loop variable"); err != nil {
		return nil, err
	}
	from, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("TO", "in FOR loop"); err != nil {
		return nil, err
	}
	to, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var step ast.Expression
	if p.atKeyword("STEP") {
		p.advance()
		if step, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("NEXT", "to close FOR"); err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Kind == lexer.Identifier {
		if tok.Literal != variable.Name {
			return nil, p.errorf(tok, "NEXT variable '%s' does not match loop variable '%s'", tok.Literal, variable.Name)
		}
		p.advance()
	}
	return p.finish(ast.NewForLoop(variable, from, to, step, body), start), nil
}

func (p *parser) parseWhile() (ast.Expression, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	if p.atKeyword("DO") {
		p.advance()
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("ENDWHILE", "to close WHILE"); err != nil {
		return nil, err
	}
	return p.finish(ast.NewWhileLoop(cond, body), start), nil
}

func (p *parser) parseRepeat() (ast.Expression, error) {
	start := p.advance()
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("UNTIL", "to close REPEAT"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return p.finish(ast.NewRepeatLoop(body, cond), start), nil
}

func (p *parser) parseCase() (ast.Expression, error) {
	start := p.advance()
	if _, err := p.expectKeyword("OF", "after CASE"); err != nil {
		return nil, err
	}
	subject, err := p.expectIdentifier("after CASE OF")
	if err != nil {
		return nil, err
	}
	var arms []*ast.CaseArm
	var otherwise ast.Statement
	for {
		p.skipSeparators()
		if p.atKeyword("ENDCASE") || p.at(lexer.EOF) {
			break
		}
		if p.atKeyword("OTHERWISE") {
			p.advance()
			if p.at(lexer.Colon) {
				p.advance()
			}
			if otherwise, err = p.parseStatement(); err != nil {
				return nil, err
			}
			p.skipSeparators()
			break
		}
		armStart := p.current()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon, "after CASE value"); err != nil {
			return nil, err
		}
		response, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		arms = append(arms, annotate(ast.NewCaseArm(value, response), p.spanFrom(armStart)))
		if !p.at(lexer.Newline) && !p.atBlockEnd() {
			tok := p.current()
			return nil, p.errorf(tok, "Expected newline after CASE arm, found %s", tok.Describe())
		}
	}
	if _, err := p.expectKeyword("ENDCASE", "to close CASE"); err != nil {
		return nil, err
	}
	return p.finish(ast.NewCaseExpression(subject, arms, otherwise), start), nil
}

// parseFunction handles FUNCTION and PROCEDURE definitions. Only FUNCTION
// has the `=> expr` form.
func (p *parser) parseFunction() (ast.Expression, error) {
	start := p.advance()
	closer := "ENDFUNCTION"
	if start.Literal == "PROCEDURE" {
		closer = "ENDPROCEDURE"
	}
	var id *ast.Identifier
	if p.at(lexer.Identifier) {
		id = identifierFrom(p.advance())
	}
	if _, err := p.expect(lexer.LParen, "before parameter list"); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if !p.at(lexer.RParen) {
		for {
			param, err := p.expectIdentifier("as parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.at(lexer.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.RParen, "after parameter list"); err != nil {
		return nil, err
	}
	if start.Literal == "FUNCTION" && p.at(lexer.Arrow) {
		p.advance()
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return p.finish(ast.NewFunctionDefinition(id, params, body, true), start), nil
	}
	body, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(closer, "to close "+start.Literal); err != nil {
		return nil, err
	}
	return p.finish(ast.NewFunctionDefinition(id, params, body, false), start), nil
}
