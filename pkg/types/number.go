package types

import (
	"math"
	"strconv"
	"strings"
)

// ToInt truncates x toward zero, saturating at the 32-bit integer range.
// NaN converts to zero.
func ToInt(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	default:
		return int(x)
	}
}

// ParseNumberPrefix parses the longest decimal number at the start of s,
// after leading whitespace. Trailing text is ignored. It reports false when
// s does not start with a number or the number overflows a float64.
func ParseNumberPrefix(s string) (float64, bool) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	if v, ok := parseSpecial(s[i:]); ok {
		if s[start] == '-' {
			v = -v
		}
		return v, true
	}

	digits := 0
	for i < len(s) && isDecimal(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDecimal(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDecimal(s[j]) {
			for j < len(s) && isDecimal(s[j]) {
				j++
			}
			i = j
		}
	}

	// The prefix is well formed, so an error here is out of range.
	v, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseSpecial recognizes the inf, infinity and nan spellings.
func parseSpecial(s string) (float64, bool) {
	lower := strings.ToLower(s[:min(len(s), len("infinity"))])
	switch {
	case strings.HasPrefix(lower, "infinity"), strings.HasPrefix(lower, "inf"):
		return math.Inf(1), true
	case strings.HasPrefix(lower, "nan"):
		return math.NaN(), true
	}
	return 0, false
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

func isDecimal(c byte) bool {
	return c >= '0' && c <= '9'
}
