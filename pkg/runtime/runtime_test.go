package runtime

import (
	"errors"
	"math"
	"testing"

	"pscode/interpreter-go/pkg/diag"
)

func TestEnvironmentLookupWalksParents(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", NumberValue{Val: 1})
	child := root.Extend()
	child.Define("y", StringValue{Val: "y"})

	v, err := child.Get("x")
	if err != nil {
		t.Fatalf("Get x: %v", err)
	}
	if n, ok := v.(NumberValue); !ok || n.Val != 1 {
		t.Fatalf("expected 1, got %#v", v)
	}
	if _, err := root.Get("y"); err == nil {
		t.Fatalf("expected root lookup of child binding to fail")
	}
	_, err = child.Get("missing")
	var undef *UndefinedError
	if !errors.As(err, &undef) || undef.Name != "missing" {
		t.Fatalf("expected UndefinedError for missing, got %v", err)
	}
	if err.Error() != "'missing' is not defined." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentDefineShadowsLocally(t *testing.T) {
	root := NewEnvironment(nil)
	root.Define("x", NumberValue{Val: 1})
	child := NewEnvironment(root)
	child.Define("x", NumberValue{Val: 2})

	outer, _ := root.Get("x")
	inner, _ := child.Get("x")
	if outer.(NumberValue).Val != 1 || inner.(NumberValue).Val != 2 {
		t.Fatalf("expected shadowing, got outer=%v inner=%v", outer, inner)
	}
	if keys := child.Keys(); len(keys) != 1 || keys[0] != "x" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestListAliasesShareStore(t *testing.T) {
	a := NewList([]Value{NumberValue{Val: 1}, NumberValue{Val: 2}})
	b := Stamp(a, diag.Span{}, nil).(ListValue)

	b.Set(0, StringValue{Val: "changed"})
	b.Append(NumberValue{Val: 3})

	if a.Len() != 3 {
		t.Fatalf("expected alias append to be visible, got len %d", a.Len())
	}
	if s, ok := a.Elements()[0].(StringValue); !ok || s.Val != "changed" {
		t.Fatalf("expected alias store to be visible, got %#v", a.Elements()[0])
	}
}

func TestListConcatBuildsNewStore(t *testing.T) {
	a := NewList([]Value{NumberValue{Val: 1}})
	c := a.Concat(NumberValue{Val: 2})
	c.Set(0, NumberValue{Val: 9})
	if a.Elements()[0].(NumberValue).Val != 1 {
		t.Fatalf("concat must not alias the original store")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", c.Len())
	}
}

func TestStampPreservesPayload(t *testing.T) {
	source := "x"
	start := diag.Start("p", source)
	span := diag.NewSpan(start, start.Advance('x'))
	frame := NewFrame("<program>", nil, start, nil)
	cases := []Value{
		NullValue{},
		NumberValue{Val: 2.5},
		StringValue{Val: "s"},
		BooleanValue{Val: true},
		NewList(nil),
		ClosureValue{Function: &Function{Name: "f"}},
		NativeFunctionValue{NativeFunction: &NativeFunction{Name: "g"}},
	}
	for _, v := range cases {
		stamped := Stamp(v, span, frame)
		if stamped.Kind() != v.Kind() {
			t.Fatalf("kind changed from %s to %s", v.Kind(), stamped.Kind())
		}
		if stamped.Origin().Frame != frame || stamped.Origin().Span != span {
			t.Fatalf("origin not applied to %s", v.Kind())
		}
		if Format(stamped) != Format(v) {
			t.Fatalf("payload changed: %s vs %s", Format(stamped), Format(v))
		}
	}
}

func TestFormat(t *testing.T) {
	nested := NewList([]Value{NumberValue{Val: 1}, StringValue{Val: "a"}, BooleanValue{Val: true}, NullValue{}})
	cases := []struct {
		value Value
		want  string
	}{
		{NumberValue{Val: 3}, "3"},
		{NumberValue{Val: -0.5}, "-0.5"},
		{NumberValue{Val: 1e21}, "1000000000000000000000"},
		{NumberValue{Val: math.Inf(1)}, "inf"},
		{NumberValue{Val: math.Inf(-1)}, "-inf"},
		{NumberValue{Val: math.NaN()}, "nan"},
		{NumberValue{Val: math.Copysign(0, -1)}, "0"},
		{StringValue{Val: "plain"}, "plain"},
		{BooleanValue{Val: false}, "FALSE"},
		{NullValue{}, "NULL"},
		{nested, `[1, "a", TRUE, NULL]`},
		{NewList([]Value{NewList(nil)}), "[[]]"},
		{ClosureValue{Function: &Function{Name: "area"}}, "<function area>"},
		{ClosureValue{Function: &Function{}}, "<function <anonymous>>"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("Format(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormatSelfReferentialList(t *testing.T) {
	l := NewList(nil)
	l.Append(NumberValue{Val: 1})
	l.Append(l)
	if got := Format(l); got != "[1, [...]]" {
		t.Fatalf("unexpected format %q", got)
	}
}

func TestFrameTraceReportsCallSites(t *testing.T) {
	source := "f()\ng()\nh"
	root := diag.Start("p", source)
	callF := root
	callG := positionAfter(root, "f()\n")
	errPos := positionAfter(root, "f()\ng()\n")

	program := NewFrame("<program>", nil, root, nil)
	f := NewFrame("f", program, callF, nil)
	g := NewFrame("g", f, callG, nil)
	if g.Depth != 2 {
		t.Fatalf("expected depth 2, got %d", g.Depth)
	}
	trace := g.Trace(errPos)
	if len(trace) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(trace))
	}
	if trace[0].Name != "g" || trace[0].Pos.Line != 2 {
		t.Fatalf("unexpected innermost frame %+v", trace[0])
	}
	if trace[1].Name != "f" || trace[1].Pos.Line != 1 {
		t.Fatalf("unexpected middle frame %+v", trace[1])
	}
	if trace[2].Name != "<program>" || trace[2].Pos.Line != 0 {
		t.Fatalf("unexpected outermost frame %+v", trace[2])
	}
}

func positionAfter(start diag.Position, prefix string) diag.Position {
	pos := start
	for _, r := range prefix {
		pos = pos.Advance(r)
	}
	return pos
}
