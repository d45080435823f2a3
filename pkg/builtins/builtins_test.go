package builtins_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pscode/interpreter-go/pkg/builtins"
	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/interpreter"
	"pscode/interpreter-go/pkg/runtime"
)

func newInterpreter(t *testing.T, opts builtins.Options) (*interpreter.Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	interp := interpreter.New(interpreter.WithStdout(&out))
	if err := builtins.Install(interp, opts); err != nil {
		t.Fatalf("install failed: %v", err)
	}
	return interp, &out
}

func printed(t *testing.T, source string) string {
	t.Helper()
	interp, out := newInterpreter(t, builtins.Options{Seed: 1})
	if _, err := interp.Execute("builtins.psc", source); err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			t.Fatalf("execute failed:\n%s", d.Render())
		}
		t.Fatalf("execute failed: %v", err)
	}
	return out.String()
}

func failure(t *testing.T, source string) *diag.Diagnostic {
	t.Helper()
	interp, _ := newInterpreter(t, builtins.Options{Seed: 1})
	_, err := interp.Execute("builtins.psc", source)
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected diagnostic for %q, got %v", source, err)
	}
	return d
}

func TestConversions(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`PRINT INT(3.9), INT(-3.9), INT("42"), INT(" 7.5 "), INT(TRUE)`, "3 -3 42 7 1\n"},
		{`PRINT REAL("2.5"), REAL(4), REAL(FALSE)`, "2.5 4 0\n"},
		{`PRINT STRING(12) + "!", STRING(1.5), STRING([1, "a"]), STRING(NULL)`, `12! 1.5 [1, "a"] NULL` + "\n"},
		{`PRINT BOOL(0), BOOL(2), BOOL(""), BOOL("x"), BOOL([]), BOOL(NULL), BOOL(TRUE)`, "FALSE TRUE FALSE TRUE FALSE FALSE TRUE\n"},
		{`PRINT LENGTH([1, 2, 3]), LENGTH(""), LENGTH("héllo")`, "3 0 5\n"},
	}
	for _, tc := range cases {
		if got := printed(t, tc.source); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.source, tc.want, got)
		}
	}
}

func TestConversionErrors(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{`INT("abc")`, `Cannot convert "abc" to a Number.`},
		{`REAL([1])`, "REAL cannot convert a List to a Number."},
		{`LENGTH(5)`, "LENGTH expects a List or String, not a Number."},
		{`APPEND("s", 1)`, "APPEND expects a List, not a String."},
		{`RANDBETWEEN(1.5, 3)`, "RANDBETWEEN expects whole numbers, got 1.5."},
		{`RANDBETWEEN("1", 3)`, "RANDBETWEEN expects Number arguments, not a String."},
		{`RANDBETWEEN(5, 1)`, "RANDBETWEEN lower bound 5 is greater than upper bound 1."},
	}
	for _, tc := range cases {
		d := failure(t, tc.source)
		if d.Category != diag.RuntimeError || d.Message != tc.want {
			t.Fatalf("%s: expected %q, got %v", tc.source, tc.want, d)
		}
		if d.Span.Start.Column != 0 || d.Span.End.Column != len(tc.source) {
			t.Fatalf("%s: expected the call to be underlined, got %d..%d", tc.source, d.Span.Start.Column, d.Span.End.Column)
		}
	}
}

func TestAppendMutatesSharedList(t *testing.T) {
	source := `a <- [1]
b <- a
c <- APPEND(b, 2)
PRINT a, LENGTH(a), c = a`
	if got := printed(t, source); got != "[1, 2] 2 TRUE\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRandBetweenStaysInRange(t *testing.T) {
	interp, _ := newInterpreter(t, builtins.Options{Seed: 42})
	for i := 0; i < 200; i++ {
		val, err := interp.Execute("rand", "RANDBETWEEN(-2, 3)")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		n, ok := val.(runtime.NumberValue)
		if !ok || n.Val < -2 || n.Val > 3 || n.Val != float64(int(n.Val)) {
			t.Fatalf("value out of range: %#v", val)
		}
	}
	val, err := interp.Execute("rand", "RANDBETWEEN(4, 4)")
	if err != nil || val.(runtime.NumberValue).Val != 4 {
		t.Fatalf("expected 4, got %#v (%v)", val, err)
	}
}

func TestRandBetweenIsDeterministicWithSeed(t *testing.T) {
	draw := func() string {
		interp, out := newInterpreter(t, builtins.Options{Seed: 7})
		if _, err := interp.Execute("rand", "FOR i <- 1 TO 10\n  PRINT RANDBETWEEN(1, 1000)\nNEXT i"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return out.String()
	}
	if first, second := draw(), draw(); first != second {
		t.Fatalf("expected identical sequences, got %q and %q", first, second)
	}
}

func TestDisabledBuiltinsAreNotInstalled(t *testing.T) {
	interp, _ := newInterpreter(t, builtins.Options{Disabled: []string{"RANDBETWEEN"}})
	_, err := interp.Execute("rand", "RANDBETWEEN(1, 2)")
	if err == nil || !strings.Contains(err.Error(), "'RANDBETWEEN' is not defined.") {
		t.Fatalf("expected undefined error, got %v", err)
	}
	if _, err := interp.Execute("rand", "INT(1)"); err != nil {
		t.Fatalf("INT should remain installed: %v", err)
	}
}

func TestUnknownDisabledNameIsReported(t *testing.T) {
	interp := interpreter.New()
	err := builtins.Install(interp, builtins.Options{Disabled: []string{"LEN", "INT"}})
	if err == nil || !strings.Contains(err.Error(), "unknown builtin(s) LEN") {
		t.Fatalf("expected unknown builtin error, got %v", err)
	}
	if _, err := interp.GlobalEnvironment().Get("REAL"); err != nil {
		t.Fatalf("REAL should be installed: %v", err)
	}
	if _, err := interp.GlobalEnvironment().Get("INT"); err == nil {
		t.Fatalf("INT should be disabled")
	}
}

func TestNames(t *testing.T) {
	want := "INT REAL STRING BOOL RANDBETWEEN LENGTH APPEND"
	if got := strings.Join(builtins.Names(), " "); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
