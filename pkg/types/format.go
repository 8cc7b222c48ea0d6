package types

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders a number the way scripts print it: integral values
// without a decimal point, everything else with six significant digits.
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if math.Trunc(x) == x {
		if x >= math.MinInt64 && x < math.MaxInt64 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// ToString converts a value to its plain textual form.
func ToString(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, false, nil)
	return sb.String()
}

// Display converts a value to the form written by print and println.
// Strings with inner blanks are quoted; strings inside arrays always are.
func Display(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, true, nil)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, display bool, seen map[*Array]bool) {
	switch x := v.(type) {
	case nil, Nil:
		sb.WriteString("nil")
	case Number:
		sb.WriteString(FormatNumber(float64(x)))
	case String:
		if display && needsQuotes(string(x)) {
			writeQuoted(sb, string(x))
		} else {
			sb.WriteString(string(x))
		}
	case *Array:
		if seen[x] {
			sb.WriteString("[...]")
			return
		}
		if seen == nil {
			seen = make(map[*Array]bool)
		}
		seen[x] = true
		sb.WriteByte('[')
		for i, elem := range x.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			if s, ok := elem.(String); ok && display {
				writeQuoted(sb, string(s))
				continue
			}
			writeValue(sb, elem, display, seen)
		}
		sb.WriteByte(']')
		delete(seen, x)
	case *Function:
		sb.WriteString("<fn>")
	}
}

// needsQuotes reports whether s holds a space or tab before its last byte
// and no line breaks.
func needsQuotes(s string) bool {
	inside := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n', '\r':
			return false
		case ' ', '\t':
			if i+1 < len(s) {
				inside = true
			}
		}
	}
	return inside
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	sb.WriteString(strings.ReplaceAll(s, `"`, `\"`))
	sb.WriteByte('"')
}

// IsTruthy reports the truth value of v: nil, 0 and "" are false.
func IsTruthy(v Value) bool {
	switch x := v.(type) {
	case nil, Nil:
		return false
	case Number:
		return x != 0
	case String:
		return x != ""
	default:
		return true
	}
}

// Equal reports whether a and b have the same kind and the same textual form.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	return ToString(a) == ToString(b)
}
