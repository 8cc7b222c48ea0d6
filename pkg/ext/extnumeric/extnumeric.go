// Package extnumeric provides extended numeric and statistics functions for
// itmoscript.
package extnumeric

import (
	"context"
	"math"
	"slices"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all extended numeric function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		Log(),
		Exp(),
		Pow(),
		Sign(),
		Trunc(),
		Clamp(),
		Sin(),
		Cos(),
		Tan(),
		Atan2(),
		Pi(),
		E(),
		Median(),
		Variance(),
		Stddev(),
		Percentile(),
	}
}

// AllEntries returns all numeric function definitions as [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

func mathFunc(name string, f func(float64) float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			n, err := extutil.Number(name, args, 0)
			if err != nil {
				return nil, err
			}
			return types.Number(f(n)), nil
		},
	}
}

func constFunc(name string, v float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 0,
		Fn: func(_ context.Context, _ ...types.Value) (types.Value, error) {
			return types.Number(v), nil
		},
	}
}

// Log returns the definition for log(n [, base]).
// Without base, returns the natural logarithm.
func Log() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "log",
		Arity: functions.Variadic,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("log", args, 1, 2); err != nil {
				return nil, err
			}
			n, err := extutil.Number("log", args, 0)
			if err != nil {
				return nil, err
			}
			if n <= 0 {
				return nil, types.Errorf(types.ErrInvalidArgument, "log() argument must be positive")
			}
			if len(args) == 1 {
				return types.Number(math.Log(n)), nil
			}
			base, err := extutil.Number("log", args, 1)
			if err != nil {
				return nil, err
			}
			if base <= 0 || base == 1 {
				return nil, types.Errorf(types.ErrInvalidArgument, "log() base must be positive and not 1")
			}
			return types.Number(math.Log(n) / math.Log(base)), nil
		},
	}
}

// Exp returns the definition for exp(n).
func Exp() functions.CustomFunctionDef { return mathFunc("exp", math.Exp) }

// Pow returns the definition for pow(a, b), the same as a ^ b.
func Pow() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "pow",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			a, err := extutil.Number("pow", args, 0)
			if err != nil {
				return nil, err
			}
			b, err := extutil.Number("pow", args, 1)
			if err != nil {
				return nil, err
			}
			return types.Number(math.Pow(a, b)), nil
		},
	}
}

// Sign returns the definition for sign(n): -1, 0 or 1.
func Sign() functions.CustomFunctionDef {
	return mathFunc("sign", func(n float64) float64 {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		default:
			return 0
		}
	})
}

// Trunc returns the definition for trunc(n). Truncates toward zero.
func Trunc() functions.CustomFunctionDef { return mathFunc("trunc", math.Trunc) }

// Clamp returns the definition for clamp(n, lo, hi).
func Clamp() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "clamp",
		Arity: 3,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			var v [3]float64
			for i := range v {
				n, err := extutil.Number("clamp", args, i)
				if err != nil {
					return nil, err
				}
				v[i] = n
			}
			if v[1] > v[2] {
				return nil, types.Errorf(types.ErrInvalidArgument, "clamp() lower bound exceeds upper bound")
			}
			return types.Number(min(max(v[0], v[1]), v[2])), nil
		},
	}
}

// Sin returns the definition for sin(n) (radians).
func Sin() functions.CustomFunctionDef { return mathFunc("sin", math.Sin) }

// Cos returns the definition for cos(n) (radians).
func Cos() functions.CustomFunctionDef { return mathFunc("cos", math.Cos) }

// Tan returns the definition for tan(n) (radians).
func Tan() functions.CustomFunctionDef { return mathFunc("tan", math.Tan) }

// Atan2 returns the definition for atan2(y, x).
func Atan2() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "atan2",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			y, err := extutil.Number("atan2", args, 0)
			if err != nil {
				return nil, err
			}
			x, err := extutil.Number("atan2", args, 1)
			if err != nil {
				return nil, err
			}
			return types.Number(math.Atan2(y, x)), nil
		},
	}
}

// Pi returns the definition for pi().
func Pi() functions.CustomFunctionDef { return constFunc("pi", math.Pi) }

// E returns the definition for e().
func E() functions.CustomFunctionDef { return constFunc("e", math.E) }

// statFunc builds a function over an array of numbers. Empty arrays give nil.
func statFunc(name string, f func(nums []float64) float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			nums, err := extutil.Numbers(name, args, 0)
			if err != nil {
				return nil, err
			}
			if len(nums) == 0 {
				return types.NilValue, nil
			}
			return types.Number(f(nums)), nil
		},
	}
}

func sorted(nums []float64) []float64 {
	out := slices.Clone(nums)
	slices.Sort(out)
	return out
}

// Median returns the definition for median(array).
func Median() functions.CustomFunctionDef {
	return statFunc("median", func(nums []float64) float64 {
		s := sorted(nums)
		mid := len(s) / 2
		if len(s)%2 == 0 {
			return (s[mid-1] + s[mid]) / 2
		}
		return s[mid]
	})
}

// variance is the population variance.
func variance(nums []float64) float64 {
	var sum float64
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))
	var sq float64
	for _, n := range nums {
		d := n - mean
		sq += d * d
	}
	return sq / float64(len(nums))
}

// Variance returns the definition for variance(array) (population).
func Variance() functions.CustomFunctionDef { return statFunc("variance", variance) }

// Stddev returns the definition for stddev(array) (population).
func Stddev() functions.CustomFunctionDef {
	return statFunc("stddev", func(nums []float64) float64 { return math.Sqrt(variance(nums)) })
}

// Percentile returns the definition for percentile(array, p), p in [0, 100],
// interpolating linearly between closest ranks.
func Percentile() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "percentile",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			nums, err := extutil.Numbers("percentile", args, 0)
			if err != nil {
				return nil, err
			}
			p, err := extutil.Number("percentile", args, 1)
			if err != nil {
				return nil, err
			}
			if p < 0 || p > 100 {
				return nil, types.Errorf(types.ErrInvalidArgument, "percentile() p must be between 0 and 100")
			}
			if len(nums) == 0 {
				return types.NilValue, nil
			}
			s := sorted(nums)
			idx := p / 100 * float64(len(s)-1)
			lo := int(math.Floor(idx))
			hi := int(math.Ceil(idx))
			if lo == hi {
				return types.Number(s[lo]), nil
			}
			frac := idx - float64(lo)
			return types.Number(s[lo]*(1-frac) + s[hi]*frac), nil
		},
	}
}
