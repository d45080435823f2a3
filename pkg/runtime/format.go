package runtime

import (
	"math"
	"strconv"
	"strings"
)

// Format renders v the way PRINT shows it.
func Format(v Value) string {
	return format(v, false, map[*ListStore]bool{})
}

// FormatNumber renders integral numbers without a fraction and everything
// else in the shortest form that reads back exactly.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "nan"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case n == 0:
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func format(v Value, nested bool, seen map[*ListStore]bool) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case NullValue:
		return "NULL"
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		if nested {
			return strconv.Quote(val.Val)
		}
		return val.Val
	case BooleanValue:
		if val.Val {
			return "TRUE"
		}
		return "FALSE"
	case ListValue:
		if seen[val.Store] {
			return "[...]"
		}
		seen[val.Store] = true
		defer delete(seen, val.Store)
		parts := make([]string, 0, val.Len())
		for _, el := range val.Elements() {
			parts = append(parts, format(el, true, seen))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ClosureValue:
		name := val.Name
		if name == "" {
			name = "<anonymous>"
		}
		return "<function " + name + ">"
	case NativeFunctionValue:
		return "<function " + val.Name + ">"
	default:
		return "<" + v.Kind().String() + ">"
	}
}
