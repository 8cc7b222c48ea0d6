// Package extarray provides extended array functions for itmoscript,
// including higher-order functions that call back into script functions.
//
// Except where noted, functions return new arrays and leave their
// arguments untouched.
package extarray

import (
	"context"
	"fmt"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all simple (non-HOF) array function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		First(),
		Last(),
		Take(),
		Skip(),
		Reverse(),
		Flatten(),
		Chunk(),
		Distinct(),
		Union(),
		Intersection(),
		Difference(),
		IndexOfValue(),
		ContainsValue(),
		Sum(),
		Min(),
		Max(),
	}
}

// AllAdvanced returns all higher-order array function definitions.
func AllAdvanced() []functions.AdvancedCustomFunctionDef {
	return []functions.AdvancedCustomFunctionDef{
		Map(),
		Filter(),
		Reduce(),
		Find(),
		Every(),
		Some(),
		SortBy(),
	}
}

// AllEntries returns all array function definitions (simple + HOF) as
// [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	simple := All()
	adv := AllAdvanced()
	out := make([]functions.FunctionEntry, 0, len(simple)+len(adv))
	for _, f := range simple {
		out = append(out, f)
	}
	for _, f := range adv {
		out = append(out, f)
	}
	return out
}

func arrayFunc(name string, f func(arr *types.Array) (types.Value, error)) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			arr, err := extutil.Array(name, args, 0)
			if err != nil {
				return nil, err
			}
			return f(arr)
		},
	}
}

func copyOf(elems []types.Value) *types.Array {
	out := make([]types.Value, len(elems))
	copy(out, elems)
	return types.NewArray(out...)
}

// First returns the definition for first(arr); nil for an empty array.
func First() functions.CustomFunctionDef {
	return arrayFunc("first", func(arr *types.Array) (types.Value, error) {
		if len(arr.Elems) == 0 {
			return types.NilValue, nil
		}
		return arr.Elems[0], nil
	})
}

// Last returns the definition for last(arr); nil for an empty array.
func Last() functions.CustomFunctionDef {
	return arrayFunc("last", func(arr *types.Array) (types.Value, error) {
		if len(arr.Elems) == 0 {
			return types.NilValue, nil
		}
		return arr.Elems[len(arr.Elems)-1], nil
	})
}

// countFunc builds take/skip style functions over (arr, n).
func countFunc(name string, f func(elems []types.Value, n int) []types.Value) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			arr, err := extutil.Array(name, args, 0)
			if err != nil {
				return nil, err
			}
			n, err := extutil.Int(name, args, 1)
			if err != nil {
				return nil, err
			}
			n = min(max(n, 0), len(arr.Elems))
			return copyOf(f(arr.Elems, n)), nil
		},
	}
}

// Take returns the definition for take(arr, n): the first n elements.
func Take() functions.CustomFunctionDef {
	return countFunc("take", func(elems []types.Value, n int) []types.Value { return elems[:n] })
}

// Skip returns the definition for skip(arr, n): all but the first n elements.
func Skip() functions.CustomFunctionDef {
	return countFunc("skip", func(elems []types.Value, n int) []types.Value { return elems[n:] })
}

// Reverse returns the definition for reverse(arr).
func Reverse() functions.CustomFunctionDef {
	return arrayFunc("reverse", func(arr *types.Array) (types.Value, error) {
		n := len(arr.Elems)
		out := make([]types.Value, n)
		for i, v := range arr.Elems {
			out[n-1-i] = v
		}
		return types.NewArray(out...), nil
	})
}

// Flatten returns the definition for flatten(arr): nested arrays are
// spliced in one level deep.
func Flatten() functions.CustomFunctionDef {
	return arrayFunc("flatten", func(arr *types.Array) (types.Value, error) {
		var out []types.Value
		for _, v := range arr.Elems {
			if inner, ok := v.(*types.Array); ok {
				out = append(out, inner.Elems...)
				continue
			}
			out = append(out, v)
		}
		return types.NewArray(out...), nil
	})
}

// Chunk returns the definition for chunk(arr, size).
func Chunk() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "chunk",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			arr, err := extutil.Array("chunk", args, 0)
			if err != nil {
				return nil, err
			}
			size, err := extutil.Int("chunk", args, 1)
			if err != nil {
				return nil, err
			}
			if size <= 0 {
				return nil, types.Errorf(types.ErrInvalidArgument, "chunk() size must be positive")
			}
			var out []types.Value
			for i := 0; i < len(arr.Elems); i += size {
				out = append(out, copyOf(arr.Elems[i:min(i+size, len(arr.Elems))]))
			}
			return types.NewArray(out...), nil
		},
	}
}

// valueSet tracks values by kind and textual form, the same notion of
// equality as the == operator.
type valueSet map[string]bool

func key(v types.Value) string {
	return fmt.Sprintf("%d:%s", types.KindOf(v), types.ToString(v))
}

func (s valueSet) add(v types.Value) bool {
	k := key(v)
	if s[k] {
		return false
	}
	s[k] = true
	return true
}

func (s valueSet) has(v types.Value) bool { return s[key(v)] }

func setOf(elems []types.Value) valueSet {
	s := make(valueSet, len(elems))
	for _, v := range elems {
		s.add(v)
	}
	return s
}

// Distinct returns the definition for distinct(arr), keeping first
// occurrences.
func Distinct() functions.CustomFunctionDef {
	return arrayFunc("distinct", func(arr *types.Array) (types.Value, error) {
		seen := make(valueSet)
		var out []types.Value
		for _, v := range arr.Elems {
			if seen.add(v) {
				out = append(out, v)
			}
		}
		return types.NewArray(out...), nil
	})
}

// setFunc builds a two-array set operation.
func setFunc(name string, f func(a, b []types.Value) []types.Value) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			a, err := extutil.Array(name, args, 0)
			if err != nil {
				return nil, err
			}
			b, err := extutil.Array(name, args, 1)
			if err != nil {
				return nil, err
			}
			return types.NewArray(f(a.Elems, b.Elems)...), nil
		},
	}
}

// Union returns the definition for union(a, b): distinct elements of both.
func Union() functions.CustomFunctionDef {
	return setFunc("union", func(a, b []types.Value) []types.Value {
		seen := make(valueSet)
		var out []types.Value
		for _, v := range append(append([]types.Value{}, a...), b...) {
			if seen.add(v) {
				out = append(out, v)
			}
		}
		return out
	})
}

// Intersection returns the definition for intersection(a, b).
func Intersection() functions.CustomFunctionDef {
	return setFunc("intersection", func(a, b []types.Value) []types.Value {
		inB := setOf(b)
		seen := make(valueSet)
		var out []types.Value
		for _, v := range a {
			if inB.has(v) && seen.add(v) {
				out = append(out, v)
			}
		}
		return out
	})
}

// Difference returns the definition for difference(a, b): elements of a
// that are not in b.
func Difference() functions.CustomFunctionDef {
	return setFunc("difference", func(a, b []types.Value) []types.Value {
		inB := setOf(b)
		var out []types.Value
		for _, v := range a {
			if !inB.has(v) {
				out = append(out, v)
			}
		}
		return out
	})
}

func indexOf(elems []types.Value, x types.Value) int {
	for i, v := range elems {
		if types.Equal(v, x) {
			return i
		}
	}
	return -1
}

// IndexOfValue returns the definition for index_of_value(arr, v); -1 when
// absent.
func IndexOfValue() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "index_of_value",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			arr, err := extutil.Array("index_of_value", args, 0)
			if err != nil {
				return nil, err
			}
			return types.Number(indexOf(arr.Elems, args[1])), nil
		},
	}
}

// ContainsValue returns the definition for contains_value(arr, v).
func ContainsValue() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "contains_value",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			arr, err := extutil.Array("contains_value", args, 0)
			if err != nil {
				return nil, err
			}
			return types.Bool(indexOf(arr.Elems, args[1]) >= 0), nil
		},
	}
}

// numbersFunc builds a reduction over an array of numbers; empty arrays give
// empty.
func numbersFunc(name string, empty types.Value, f func(nums []float64) float64) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			nums, err := extutil.Numbers(name, args, 0)
			if err != nil {
				return nil, err
			}
			if len(nums) == 0 {
				return empty, nil
			}
			return types.Number(f(nums)), nil
		},
	}
}

// Sum returns the definition for sum(arr); 0 for an empty array.
func Sum() functions.CustomFunctionDef {
	return numbersFunc("sum", types.Number(0), func(nums []float64) float64 {
		var s float64
		for _, n := range nums {
			s += n
		}
		return s
	})
}

// Min returns the definition for min(arr); nil for an empty array.
func Min() functions.CustomFunctionDef {
	return numbersFunc("min", types.NilValue, func(nums []float64) float64 {
		m := nums[0]
		for _, n := range nums[1:] {
			m = min(m, n)
		}
		return m
	})
}

// Max returns the definition for max(arr); nil for an empty array.
func Max() functions.CustomFunctionDef {
	return numbersFunc("max", types.NilValue, func(nums []float64) float64 {
		m := nums[0]
		for _, n := range nums[1:] {
			m = max(m, n)
		}
		return m
	})
}
