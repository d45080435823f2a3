// Package builtins provides the host functions available to every program:
// conversions (INT, REAL, STRING, BOOL), RANDBETWEEN, and the list helpers
// LENGTH and APPEND.
package builtins

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pscode/interpreter-go/pkg/runtime"
)

// Registrar is the registration boundary builtins are installed through.
type Registrar interface {
	RegisterNative(name string, params []string, impl runtime.NativeFunc)
}

// Options controls which builtins are installed and how RANDBETWEEN is seeded.
type Options struct {
	// Seed makes RANDBETWEEN deterministic when non-zero.
	Seed int64
	// Disabled names builtins that must not be installed.
	Disabled []string
}

type builtin struct {
	name   string
	params []string
	impl   runtime.NativeFunc
}

// Names lists every builtin in installation order.
func Names() []string {
	defs := definitions(nil)
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.name
	}
	return names
}

// Install registers every builtin not listed in opts.Disabled. Unknown names
// in Disabled are reported as an error after the rest are installed.
func Install(r Registrar, opts Options) error {
	seed := uint64(opts.Seed)
	if opts.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	defs := definitions(rng)
	known := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		known[def.name] = struct{}{}
		if slices.Contains(opts.Disabled, def.name) {
			continue
		}
		r.RegisterNative(def.name, def.params, def.impl)
	}
	var unknown []string
	for _, name := range opts.Disabled {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("builtins: unknown builtin(s) %s", strings.Join(unknown, ", "))
	}
	return nil
}

func definitions(rng *rand.Rand) []builtin {
	return []builtin{
		{name: "INT", params: []string{"value"}, impl: toInt},
		{name: "REAL", params: []string{"value"}, impl: toReal},
		{name: "STRING", params: []string{"value"}, impl: toString},
		{name: "BOOL", params: []string{"value"}, impl: toBool},
		{name: "RANDBETWEEN", params: []string{"low", "high"}, impl: randBetween(rng)},
		{name: "LENGTH", params: []string{"value"}, impl: length},
		{name: "APPEND", params: []string{"list", "value"}, impl: appendTo},
	}
}

func toInt(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	n, err := numberOf("INT", ctx.Arg("value"))
	if err != nil {
		return nil, err
	}
	return runtime.NumberValue{Val: math.Trunc(n)}, nil
}

func toReal(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	n, err := numberOf("REAL", ctx.Arg("value"))
	if err != nil {
		return nil, err
	}
	return runtime.NumberValue{Val: n}, nil
}

// numberOf converts Numbers, numeric Strings and Booleans.
func numberOf(name string, v runtime.Value) (float64, error) {
	switch val := v.(type) {
	case runtime.NumberValue:
		return val.Val, nil
	case runtime.BooleanValue:
		if val.Val {
			return 1, nil
		}
		return 0, nil
	case runtime.StringValue:
		n, err := strconv.ParseFloat(strings.TrimSpace(val.Val), 64)
		if err != nil {
			return 0, fmt.Errorf("Cannot convert %q to a Number.", val.Val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s cannot convert a %s to a Number.", name, v.Kind())
	}
}

func toString(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	v := ctx.Arg("value")
	if s, ok := v.(runtime.StringValue); ok {
		return runtime.StringValue{Val: s.Val}, nil
	}
	return runtime.StringValue{Val: runtime.Format(v)}, nil
}

func toBool(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	switch val := ctx.Arg("value").(type) {
	case runtime.BooleanValue:
		return runtime.BooleanValue{Val: val.Val}, nil
	case runtime.NumberValue:
		return runtime.BooleanValue{Val: val.Val != 0}, nil
	case runtime.StringValue:
		return runtime.BooleanValue{Val: val.Val != ""}, nil
	case runtime.ListValue:
		return runtime.BooleanValue{Val: val.Len() > 0}, nil
	case runtime.NullValue:
		return runtime.BooleanValue{Val: false}, nil
	default:
		return runtime.BooleanValue{Val: true}, nil
	}
}

func randBetween(rng *rand.Rand) runtime.NativeFunc {
	return func(ctx *runtime.NativeCallContext) (runtime.Value, error) {
		low, err := integerArg("RANDBETWEEN", ctx.Arg("low"))
		if err != nil {
			return nil, err
		}
		high, err := integerArg("RANDBETWEEN", ctx.Arg("high"))
		if err != nil {
			return nil, err
		}
		if low > high {
			return nil, fmt.Errorf("RANDBETWEEN lower bound %d is greater than upper bound %d.", low, high)
		}
		offset := rng.Uint64N(uint64(high-low) + 1)
		return runtime.NumberValue{Val: float64(low + int64(offset))}, nil
	}
}

func integerArg(name string, v runtime.Value) (int64, error) {
	num, ok := v.(runtime.NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s expects Number arguments, not a %s.", name, v.Kind())
	}
	if num.Val != math.Trunc(num.Val) || math.Abs(num.Val) > 1<<53 {
		return 0, fmt.Errorf("%s expects whole numbers, got %s.", name, runtime.FormatNumber(num.Val))
	}
	return int64(num.Val), nil
}

func length(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	switch val := ctx.Arg("value").(type) {
	case runtime.ListValue:
		return runtime.NumberValue{Val: float64(val.Len())}, nil
	case runtime.StringValue:
		return runtime.NumberValue{Val: float64(utf8.RuneCountInString(val.Val))}, nil
	default:
		return nil, fmt.Errorf("LENGTH expects a List or String, not a %s.", val.Kind())
	}
}

// appendTo mutates the list in place, so every alias observes the new
// element, and returns the same list.
func appendTo(ctx *runtime.NativeCallContext) (runtime.Value, error) {
	list, ok := ctx.Arg("list").(runtime.ListValue)
	if !ok {
		return nil, fmt.Errorf("APPEND expects a List, not a %s.", ctx.Arg("list").Kind())
	}
	list.Append(ctx.Arg("value"))
	return list, nil
}
