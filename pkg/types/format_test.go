package types_test

import (
	"math"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/types"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"integer", 42, "42"},
		{"negative integer", -7, "-7"},
		{"half", 2.5, "2.5"},
		{"small", 0.0123, "0.0123"},
		{"six significant digits", math.Pi, "3.14159"},
		{"tiny", 1e-7, "1e-07"},
		{"large fraction", 1234567.5, "1.23457e+06"},
		{"huge integral", 1e20, "100000000000000000000"},
		{"nan", math.NaN(), "nan"},
		{"inf", math.Inf(1), "inf"},
		{"minus inf", math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.FormatNumber(tt.in); got != tt.want {
				t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToStringAndDisplay(t *testing.T) {
	fn := &types.Function{}
	tests := []struct {
		name        string
		in          types.Value
		wantString  string
		wantDisplay string
	}{
		{"nil", types.NilValue, "nil", "nil"},
		{"number", types.Number(3), "3", "3"},
		{"plain string", types.String("abc"), "abc", "abc"},
		{"empty string", types.String(""), "", ""},
		{"inner space", types.String("2 * 2 == 4"), "2 * 2 == 4", `"2 * 2 == 4"`},
		{"inner tab", types.String("a\tb"), "a\tb", "\"a\tb\""},
		{"trailing space only", types.String("Even: "), "Even: ", "Even: "},
		{"newline disables quoting", types.String("a b\n"), "a b\n", "a b\n"},
		{"escaped quote", types.String(`say "hi" now`), `say "hi" now`, `"say \"hi\" now"`},
		{"function", fn, "<fn>", "<fn>"},
		{
			"array of strings",
			types.NewArray(types.String("a"), types.String("b")),
			"[a, b]",
			`["a", "b"]`,
		},
		{
			"nested array",
			types.NewArray(types.Number(1), types.NewArray(types.String("x"), types.NilValue), fn),
			"[1, [x, nil], <fn>]",
			`[1, ["x", nil], <fn>]`,
		},
		{"empty array", types.NewArray(), "[]", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.ToString(tt.in); got != tt.wantString {
				t.Errorf("ToString() = %q, want %q", got, tt.wantString)
			}
			if got := types.Display(tt.in); got != tt.wantDisplay {
				t.Errorf("Display() = %q, want %q", got, tt.wantDisplay)
			}
		})
	}
}

func TestDisplaySelfReferencingArray(t *testing.T) {
	arr := types.NewArray(types.Number(1))
	arr.Elems = append(arr.Elems, arr)
	if got := types.ToString(arr); got != "[1, [...]]" {
		t.Errorf("ToString() = %q", got)
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		in   types.Value
		want bool
	}{
		{types.NilValue, false},
		{nil, false},
		{types.Number(0), false},
		{types.Number(-1), true},
		{types.Number(math.NaN()), true},
		{types.String(""), false},
		{types.String("0"), true},
		{types.NewArray(), true},
		{&types.Function{}, true},
	}
	for _, tt := range tests {
		if got := types.IsTruthy(tt.in); got != tt.want {
			t.Errorf("IsTruthy(%s) = %v, want %v", types.ToString(tt.in), got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Value
		want bool
	}{
		{"same numbers", types.Number(1), types.Number(1), true},
		{"different numbers", types.Number(1), types.Number(2), false},
		{"number vs string", types.Number(1), types.String("1"), false},
		{"nil vs nil", types.NilValue, types.NilValue, true},
		{"arrays by content", types.NewArray(types.Number(1)), types.NewArray(types.Number(1)), true},
		{"functions render alike", &types.Function{}, &types.Function{Params: []string{"x"}}, true},
		{"close floats", types.Number(0.1234561), types.Number(0.1234564), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
