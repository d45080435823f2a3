package interpreter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"pscode/interpreter-go/pkg/diag"
	"pscode/interpreter-go/pkg/runtime"
)

func newTestInterpreter(input string) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	interp := New(WithStdout(&out), WithStdin(strings.NewReader(input)))
	return interp, &out
}

// run executes source and returns the final value and everything printed.
func run(t *testing.T, source string) (runtime.Value, string) {
	t.Helper()
	interp, out := newTestInterpreter("")
	val, err := interp.Execute("test.psc", source)
	if err != nil {
		var d *diag.Diagnostic
		if errors.As(err, &d) {
			t.Fatalf("Execute failed:\n%s", d.Render())
		}
		t.Fatalf("Execute failed: %v", err)
	}
	return val, out.String()
}

// runError executes source and returns the diagnostic it fails with.
func runError(t *testing.T, source string) *diag.Diagnostic {
	t.Helper()
	interp, _ := newTestInterpreter("")
	_, err := interp.Execute("test.psc", source)
	if err == nil {
		t.Fatalf("expected error for %q", source)
	}
	var d *diag.Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("expected *diag.Diagnostic, got %T: %v", err, err)
	}
	return d
}

func expectNumber(t *testing.T, val runtime.Value, want float64) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok || num.Val != want {
		t.Fatalf("expected number %v, got %#v", want, val)
	}
}

func expectBool(t *testing.T, val runtime.Value, want bool) {
	t.Helper()
	b, ok := val.(runtime.BooleanValue)
	if !ok || b.Val != want {
		t.Fatalf("expected boolean %v, got %#v", want, val)
	}
}

func expectString(t *testing.T, val runtime.Value, want string) {
	t.Helper()
	s, ok := val.(runtime.StringValue)
	if !ok || s.Val != want {
		t.Fatalf("expected string %q, got %#v", want, val)
	}
}
