package parser_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"pscode/interpreter-go/pkg/ast"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Block {
	t.Helper()
	block, err := parser.ParseSource("<test>", source)
	if err != nil {
		t.Fatalf("ParseSource error: %v", err)
	}
	if block == nil {
		t.Fatalf("ParseSource returned nil block")
	}
	return block
}

func parseError(t *testing.T, source string) *diag.Diagnostic {
	t.Helper()
	_, err := parser.ParseSource("<test>", source)
	if err == nil {
		t.Fatalf("expected parse error for %q", source)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected *diag.Diagnostic, got %T", err)
	}
	return d
}

func assertBlocksEqual(t testing.TB, expected, actual *ast.Block) {
	t.Helper()
	if reflect.DeepEqual(expected, actual) {
		return
	}
	wantJSON, _ := json.MarshalIndent(expected, "", "  ")
	gotJSON, _ := json.MarshalIndent(actual, "", "  ")
	if bytes.Equal(wantJSON, gotJSON) {
		return
	}
	t.Fatalf("block mismatch\nexpected: %s\n   actual: %s", wantJSON, gotJSON)
}

func TestParseEmptyProgram(t *testing.T) {
	for _, source := range []string{"", "\n\n", " ; \n "} {
		block := mustParse(t, source)
		if len(block.Body) != 0 {
			t.Fatalf("expected empty body for %q, got %d statements", source, len(block.Body))
		}
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   ast.Statement
	}{
		{"multiplication binds tighter", "x <- 1 + 2 * 3",
			ast.Assign("x", ast.Bin(ast.OpAdd, ast.Num(1), ast.Bin(ast.OpMultiply, ast.Num(2), ast.Num(3))))},
		{"left associative subtraction", "10 - 4 - 3",
			ast.Bin(ast.OpSubtract, ast.Bin(ast.OpSubtract, ast.Num(10), ast.Num(4)), ast.Num(3))},
		{"power is right associative", "2 ** 3 ^ 2",
			ast.Bin(ast.OpPower, ast.Num(2), ast.Bin(ast.OpPower, ast.Num(3), ast.Num(2)))},
		{"unary minus wraps power", "-2 ** 2",
			ast.Un(ast.OpSubtract, ast.Bin(ast.OpPower, ast.Num(2), ast.Num(2)))},
		{"power exponent accepts unary", "2 ** -1",
			ast.Bin(ast.OpPower, ast.Num(2), ast.Un(ast.OpSubtract, ast.Num(1)))},
		{"MOD and DIV share the multiplicative level", "7 MOD 3 DIV 2 // 1",
			ast.Bin(ast.OpFloorDivide, ast.Bin(ast.OpFloorDivide, ast.Bin(ast.OpModulo, ast.Num(7), ast.Num(3)), ast.Num(2)), ast.Num(1))},
		{"comparison below arithmetic", "a + 1 <= b * 2",
			ast.Bin(ast.OpLessEqual, ast.Bin(ast.OpAdd, ast.ID("a"), ast.Num(1)), ast.Bin(ast.OpMultiply, ast.ID("b"), ast.Num(2)))},
		{"AND and OR share one level", "a OR b AND c",
			ast.Bin(ast.OpAnd, ast.Bin(ast.OpOr, ast.ID("a"), ast.ID("b")), ast.ID("c"))},
		{"NOT wraps a comparison", "NOT a = b",
			ast.Un(ast.OpNot, ast.Bin(ast.OpEqual, ast.ID("a"), ast.ID("b")))},
		{"both not-equals spellings", "a <> b != c",
			ast.Bin(ast.OpNotEqual, ast.Bin(ast.OpNotEqual, ast.ID("a"), ast.ID("b")), ast.ID("c"))},
		{"parentheses group", "(1 + 2) * 3",
			ast.Bin(ast.OpMultiply, ast.Bin(ast.OpAdd, ast.Num(1), ast.Num(2)), ast.Num(3))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertBlocksEqual(t, ast.Blk(tc.want), mustParse(t, tc.source))
		})
	}
}

func TestParseLiterals(t *testing.T) {
	block := mustParse(t, `items <- [1, "two", TRUE, NULL, []]`)
	expected := ast.Blk(ast.Assign("items", ast.List(
		ast.Num(1), ast.Str("two"), ast.Bool(true), ast.Null(), ast.List(),
	)))
	assertBlocksEqual(t, expected, block)
}

func TestParseListAcrossLines(t *testing.T) {
	block := mustParse(t, "xs <- [\n  1,\n  2\n]")
	assertBlocksEqual(t, ast.Blk(ast.Assign("xs", ast.List(ast.Num(1), ast.Num(2)))), block)
}

func TestParsePostfixChains(t *testing.T) {
	block := mustParse(t, "f(1)[2](3, x)")
	expected := ast.Blk(ast.CallExpr(
		ast.Index(ast.Call("f", ast.Num(1)), ast.Num(2)),
		ast.Num(3), ast.ID("x"),
	))
	assertBlocksEqual(t, expected, block)
}

func TestParseIndexAssignment(t *testing.T) {
	block := mustParse(t, "grid[1][0] <- 5\ngrid[1]")
	expected := ast.Blk(
		ast.AssignIndex(ast.Index(ast.Index(ast.ID("grid"), ast.Num(1)), ast.Num(0)), ast.Num(5)),
		ast.Index(ast.ID("grid"), ast.Num(1)),
	)
	assertBlocksEqual(t, expected, block)
}

func TestParseIndexExpressionStatementRollsBack(t *testing.T) {
	block := mustParse(t, "xs[0] + 1")
	expected := ast.Blk(ast.Bin(ast.OpAdd, ast.Index(ast.ID("xs"), ast.Num(0)), ast.Num(1)))
	assertBlocksEqual(t, expected, block)
}

func TestParseIfElifElse(t *testing.T) {
	source := `IF x > 0 THEN
  PRINT "pos"
ELIF x < 0
THEN
  PRINT "neg"
ELSE
  PRINT "zero"
ENDIF`
	expected := ast.Blk(ast.NewIfExpression(
		[]*ast.IfClause{
			ast.NewIfClause(ast.Bin(ast.OpGreater, ast.ID("x"), ast.Num(0)), ast.Blk(ast.Print(ast.Str("pos")))),
			ast.NewIfClause(ast.Bin(ast.OpLess, ast.ID("x"), ast.Num(0)), ast.Blk(ast.Print(ast.Str("neg")))),
		},
		ast.Blk(ast.Print(ast.Str("zero"))),
	))
	assertBlocksEqual(t, expected, mustParse(t, source))
}

func TestParseSingleLineIfWithEmptyBody(t *testing.T) {
	assertBlocksEqual(t, ast.Blk(ast.If(ast.Bool(true))), mustParse(t, "IF TRUE THEN ENDIF"))
}

func TestParseForLoop(t *testing.T) {
	source := "FOR i <- 10 TO 0 STEP -2\n  PRINT i\nNEXT i"
	expected := ast.Blk(ast.For("i", ast.Num(10), ast.Num(0), ast.Un(ast.OpSubtract, ast.Num(2)),
		ast.Print(ast.ID("i"))))
	assertBlocksEqual(t, expected, mustParse(t, source))

	bare := mustParse(t, "FOR i <- 1 TO 3\nNEXT")
	assertBlocksEqual(t, ast.Blk(ast.For("i", ast.Num(1), ast.Num(3), nil)), bare)
}

func TestParseForLoopRejectsMismatchedNext(t *testing.T) {
	d := parseError(t, "FOR i <- 1 TO 3\nNEXT j")
	if d.Category != diag.InvalidSyntax {
		t.Fatalf("expected invalid syntax, got %s", d.Category)
	}
	if !strings.Contains(d.Message, "'j'") || !strings.Contains(d.Message, "'i'") {
		t.Fatalf("expected message naming both variables, got %q", d.Message)
	}
	if d.Span.Start.Line != 1 || d.Span.Start.Column != 5 {
		t.Fatalf("expected error at the NEXT variable, got %d:%d", d.Span.Start.Line, d.Span.Start.Column)
	}
}

func TestParseWhileAndRepeat(t *testing.T) {
	source := `WHILE n > 0 DO
  n <- n - 1
  CONTINUE
ENDWHILE
REPEAT
  n <- n + 1
  BREAK
UNTIL n = 3`
	expected := ast.Blk(
		ast.While(ast.Bin(ast.OpGreater, ast.ID("n"), ast.Num(0)),
			ast.Assign("n", ast.Bin(ast.OpSubtract, ast.ID("n"), ast.Num(1))),
			ast.NewContinueStatement(),
		),
		ast.Repeat(ast.Bin(ast.OpEqual, ast.ID("n"), ast.Num(3)),
			ast.Assign("n", ast.Bin(ast.OpAdd, ast.ID("n"), ast.Num(1))),
			ast.NewBreakStatement(),
		),
	)
	assertBlocksEqual(t, expected, mustParse(t, source))
}

func TestParseCase(t *testing.T) {
	source := `CASE OF grade
  "A" : PRINT "top"
  "B" : result <- 2
  OTHERWISE : PRINT "other"
ENDCASE`
	expected := ast.Blk(ast.NewCaseExpression(ast.ID("grade"),
		[]*ast.CaseArm{
			ast.Arm(ast.Str("A"), ast.Print(ast.Str("top"))),
			ast.Arm(ast.Str("B"), ast.Assign("result", ast.Num(2))),
		},
		ast.Print(ast.Str("other")),
	))
	assertBlocksEqual(t, expected, mustParse(t, source))

	noDefault := mustParse(t, "CASE OF x\n1 : PRINT 1\nENDCASE")
	assertBlocksEqual(t, ast.Blk(ast.NewCaseExpression(ast.ID("x"),
		[]*ast.CaseArm{ast.Arm(ast.Num(1), ast.Print(ast.Num(1)))}, nil)), noDefault)
}

func TestParseFunctionForms(t *testing.T) {
	source := `FUNCTION double(n) => n * 2
FUNCTION add(a, b)
  RETURN a + b
ENDFUNCTION
PROCEDURE greet()
  PRINT "hi"
ENDPROCEDURE
f <- FUNCTION (x) => x`
	expected := ast.Blk(
		ast.Lambda("double", []string{"n"}, ast.Bin(ast.OpMultiply, ast.ID("n"), ast.Num(2))),
		ast.Fn("add", []string{"a", "b"}, ast.Ret(ast.Bin(ast.OpAdd, ast.ID("a"), ast.ID("b")))),
		ast.Fn("greet", nil, ast.Print(ast.Str("hi"))),
		ast.Assign("f", ast.Lambda("", []string{"x"}, ast.ID("x"))),
	)
	assertBlocksEqual(t, expected, mustParse(t, source))
}

func TestParseReturnWithoutValue(t *testing.T) {
	source := "PROCEDURE p()\n  RETURN\nENDPROCEDURE"
	expected := ast.Blk(ast.Fn("p", nil, ast.Ret(nil)))
	assertBlocksEqual(t, expected, mustParse(t, source))

	inline := mustParse(t, "IF TRUE THEN RETURN ENDIF")
	assertBlocksEqual(t, ast.Blk(ast.If(ast.Bool(true), ast.Ret(nil))), inline)
}

func TestParseReturnReportsErrorsInsideValue(t *testing.T) {
	d := parseError(t, "PROCEDURE p()\n  RETURN (1 +)\nENDPROCEDURE")
	if d.Category != diag.InvalidSyntax {
		t.Fatalf("expected invalid syntax, got %s", d.Category)
	}
	if d.Span.Start.Line != 1 || d.Span.Start.Column != 13 {
		t.Fatalf("expected error at 2:13, got %d:%d", d.Span.Start.Line+1, d.Span.Start.Column)
	}
	if !strings.HasPrefix(d.Message, "Expected an expression, found") {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestParsePrintAndInput(t *testing.T) {
	block := mustParse(t, `INPUT name; PRINT "hello", name; PRINT`)
	expected := ast.Blk(
		ast.NewInputStatement(ast.ID("name")),
		ast.Print(ast.Str("hello"), ast.ID("name")),
		ast.Print(),
	)
	assertBlocksEqual(t, expected, block)
}

func TestParseMissingTerminator(t *testing.T) {
	source := "IF x THEN\n  PRINT x\n"
	d := parseError(t, source)
	if !strings.Contains(d.Message, "'ENDIF'") {
		t.Fatalf("expected message to name ENDIF, got %q", d.Message)
	}
	_, err := parser.ParseSource("<test>", source)
	if !parser.Incomplete(err) {
		t.Fatalf("expected missing ENDIF to count as incomplete input")
	}
}

func TestIncompleteDistinguishesRealErrors(t *testing.T) {
	_, err := parser.ParseSource("<test>", "x <- )")
	if err == nil || parser.Incomplete(err) {
		t.Fatalf("expected a complete-input syntax error, got %v", err)
	}
	_, err = parser.ParseSource("<test>", `PRINT "open`)
	if !parser.Incomplete(err) {
		t.Fatalf("expected open string to count as incomplete input")
	}
}

func TestParseRequiresSeparatorBetweenStatements(t *testing.T) {
	d := parseError(t, "x <- 1 y <- 2")
	if d.Span.Start.Column != 7 {
		t.Fatalf("expected error at column 7, got %d", d.Span.Start.Column)
	}
}

func TestParseRejectsStrayTerminator(t *testing.T) {
	d := parseError(t, "PRINT 1\nENDWHILE")
	if !strings.Contains(d.Message, "'ENDWHILE'") {
		t.Fatalf("expected message naming ENDWHILE, got %q", d.Message)
	}
}

func TestParseExpectedExpression(t *testing.T) {
	d := parseError(t, "x <- * 2")
	if d.Message != "Expected an expression, found '*'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestParseRootSpanSkipsSeparators(t *testing.T) {
	block := mustParse(t, "\n\n  x <- 1\n  PRINT x\n\n")
	span := block.Span()
	if span.Start.Line != 2 || span.Start.Column != 2 {
		t.Fatalf("unexpected root start %d:%d", span.Start.Line, span.Start.Column)
	}
	if span.End.Line != 3 || span.End.Column != 9 {
		t.Fatalf("unexpected root end %d:%d", span.End.Line, span.End.Column)
	}
}

func TestParseSpansCoverSubtrees(t *testing.T) {
	block := mustParse(t, "total <- price * (1 + rate)")
	assign, ok := block.Body[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected assignment, got %T", block.Body[0])
	}
	span := assign.Value.Span()
	if span.Start.Column != 9 || span.End.Column != 26 {
		t.Fatalf("unexpected value span %d-%d", span.Start.Column, span.End.Column)
	}
}
