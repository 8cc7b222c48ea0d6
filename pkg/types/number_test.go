package types_test

import (
	"math"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/types"
)

func TestParseNumberPrefix(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"42", 42, true},
		{"  3.5", 3.5, true},
		{"-2", -2, true},
		{"+7", 7, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"2E-2x", 0.02, true},
		{"12abc", 12, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"1e999", 0, false},
		{"1e-999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := types.ParseNumberPrefix(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumberPrefix(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumberPrefix(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumberPrefixSpecial(t *testing.T) {
	if v, ok := types.ParseNumberPrefix("inf"); !ok || !math.IsInf(v, 1) {
		t.Errorf("inf: got %v, %v", v, ok)
	}
	if v, ok := types.ParseNumberPrefix("-Infinity"); !ok || !math.IsInf(v, -1) {
		t.Errorf("-Infinity: got %v, %v", v, ok)
	}
	if v, ok := types.ParseNumberPrefix("nan"); !ok || !math.IsNaN(v) {
		t.Errorf("nan: got %v, %v", v, ok)
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{3.9, 3},
		{-3.9, -3},
		{0, 0},
		{1e300, math.MaxInt32},
		{-1e300, math.MinInt32},
		{math.Inf(1), math.MaxInt32},
		{math.Inf(-1), math.MinInt32},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := types.ToInt(tt.in); got != tt.want {
			t.Errorf("ToInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
