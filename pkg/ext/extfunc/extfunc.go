// Package extfunc provides functional programming utilities for itmoscript.
package extfunc

import (
	"context"

	"github.com/itmoscript/itmoscript/pkg/ext/extutil"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// AllAdvanced returns all advanced (HOF) functional utility definitions.
// These require a Caller to invoke function arguments.
func AllAdvanced() []functions.AdvancedCustomFunctionDef {
	return []functions.AdvancedCustomFunctionDef{
		Pipe(),
		Apply(),
		Times(),
	}
}

// AllEntries returns all functional utility definitions as [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	all := AllAdvanced()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

// Pipe returns the definition for pipe(value, fn1, fn2, ...).
// Threads value through the chain of functions left to right.
//
// Example:
//
//	pipe(" hello ", trim_fn, upper_fn)
func Pipe() functions.AdvancedCustomFunctionDef {
	return functions.AdvancedCustomFunctionDef{
		Name:  "pipe",
		Arity: functions.Variadic,
		Fn: func(ctx context.Context, caller functions.Caller, args ...types.Value) (types.Value, error) {
			if err := extutil.ArgCount("pipe", args, 1, -1); err != nil {
				return nil, err
			}
			value := args[0]
			for _, fn := range args[1:] {
				result, err := caller.Call(ctx, fn, value)
				if err != nil {
					return nil, err
				}
				value = result
			}
			return value, nil
		},
	}
}

// Apply returns the definition for apply(fn, args): calls fn with the
// elements of the args array as its arguments.
func Apply() functions.AdvancedCustomFunctionDef {
	return functions.AdvancedCustomFunctionDef{
		Name:  "apply",
		Arity: 2,
		Fn: func(ctx context.Context, caller functions.Caller, args ...types.Value) (types.Value, error) {
			list, err := extutil.Array("apply", args, 1)
			if err != nil {
				return nil, err
			}
			return caller.Call(ctx, args[0], list.Elems...)
		},
	}
}

// Times returns the definition for times(n, fn): [fn(0), ..., fn(n-1)].
func Times() functions.AdvancedCustomFunctionDef {
	return functions.AdvancedCustomFunctionDef{
		Name:  "times",
		Arity: 2,
		Fn: func(ctx context.Context, caller functions.Caller, args ...types.Value) (types.Value, error) {
			n, err := extutil.Int("times", args, 0)
			if err != nil {
				return nil, err
			}
			out := make([]types.Value, 0, min(max(n, 0), 1024))
			for i := 0; i < n; i++ {
				v, err := caller.Call(ctx, args[1], types.Number(i))
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			return types.NewArray(out...), nil
		},
	}
}
