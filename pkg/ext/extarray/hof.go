package extarray

import (
	"cmp"
	"context"
	"slices"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// hof builds a higher-order function over (arr, fn [, extra...]).
// The array is snapshotted before fn runs, as for loops do.
func hof(name string, arity int, f func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, rest []types.Value) (types.Value, error)) functions.AdvancedCustomFunctionDef {
	return functions.AdvancedCustomFunctionDef{
		Name:  name,
		Arity: arity,
		Fn: func(ctx context.Context, caller functions.Caller, args ...types.Value) (types.Value, error) {
			if arity == functions.Variadic {
				if err := extutil.ArgCount(name, args, 2, 3); err != nil {
					return nil, err
				}
			}
			arr, err := extutil.Array(name, args, 0)
			if err != nil {
				return nil, err
			}
			elems := slices.Clone(arr.Elems)
			return f(ctx, caller, elems, args[1], args[2:])
		},
	}
}

// Map returns the definition for map(arr, fn): fn(x) for each element.
func Map() functions.AdvancedCustomFunctionDef {
	return hof("map", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		out := make([]types.Value, len(elems))
		for i, v := range elems {
			r, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return types.NewArray(out...), nil
	})
}

// Filter returns the definition for filter(arr, fn): the elements for which
// fn(x) is truthy.
func Filter() functions.AdvancedCustomFunctionDef {
	return hof("filter", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		var out []types.Value
		for _, v := range elems {
			r, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			if types.IsTruthy(r) {
				out = append(out, v)
			}
		}
		return types.NewArray(out...), nil
	})
}

// Reduce returns the definition for reduce(arr, fn [, init]). fn receives
// (acc, x). Without init the first element seeds the accumulator; reducing
// an empty array without init gives nil.
func Reduce() functions.AdvancedCustomFunctionDef {
	return hof("reduce", functions.Variadic, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, rest []types.Value) (types.Value, error) {
		var acc types.Value = types.NilValue
		if len(rest) > 0 {
			acc = rest[0]
		} else if len(elems) > 0 {
			acc, elems = elems[0], elems[1:]
		}
		for _, v := range elems {
			r, err := caller.Call(ctx, fn, acc, v)
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	})
}

// Find returns the definition for find(arr, fn): the first element for which
// fn(x) is truthy, or nil.
func Find() functions.AdvancedCustomFunctionDef {
	return hof("find", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		for _, v := range elems {
			r, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			if types.IsTruthy(r) {
				return v, nil
			}
		}
		return types.NilValue, nil
	})
}

// Every returns the definition for every(arr, fn). True for an empty array.
func Every() functions.AdvancedCustomFunctionDef {
	return hof("every", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		for _, v := range elems {
			r, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			if !types.IsTruthy(r) {
				return types.Bool(false), nil
			}
		}
		return types.Bool(true), nil
	})
}

// Some returns the definition for some(arr, fn). False for an empty array.
func Some() functions.AdvancedCustomFunctionDef {
	return hof("some", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		for _, v := range elems {
			r, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			if types.IsTruthy(r) {
				return types.Bool(true), nil
			}
		}
		return types.Bool(false), nil
	})
}

// SortBy returns the definition for sort_by(arr, fn): a new array ordered by
// the keys fn(x). Keys must be all numbers or all strings; the sort is stable.
func SortBy() functions.AdvancedCustomFunctionDef {
	return hof("sort_by", 2, func(ctx context.Context, caller functions.Caller, elems []types.Value, fn types.Value, _ []types.Value) (types.Value, error) {
		type keyed struct {
			key types.Value
			val types.Value
		}
		items := make([]keyed, len(elems))
		var kind types.Kind
		for i, v := range elems {
			k, err := caller.Call(ctx, fn, v)
			if err != nil {
				return nil, err
			}
			kk := types.KindOf(k)
			if i == 0 {
				kind = kk
			}
			if kk != kind || (kk != types.KindNumber && kk != types.KindString) {
				return nil, types.Errorf(types.ErrTypeMismatch, "sort_by() keys must be all numbers or all strings")
			}
			items[i] = keyed{k, v}
		}

		slices.SortStableFunc(items, func(a, b keyed) int {
			if kind == types.KindNumber {
				return cmp.Compare(a.key.(types.Number), b.key.(types.Number))
			}
			return cmp.Compare(a.key.(types.String), b.key.(types.String))
		})
		out := make([]types.Value, len(items))
		for i, it := range items {
			out[i] = it.val
		}
		return types.NewArray(out...), nil
	})
}
