// Package exttypes provides type inspection functions for itmoscript.
package exttypes

import (
	"context"
	"math"

	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// All returns all type function definitions.
func All() []functions.CustomFunctionDef {
	return []functions.CustomFunctionDef{
		TypeOf(),
		IsNil(),
		IsNumber(),
		IsString(),
		IsArray(),
		IsFunction(),
		IsInteger(),
		IsEmpty(),
		Default(),
	}
}

// AllEntries returns all type function definitions as [functions.FunctionEntry].
func AllEntries() []functions.FunctionEntry {
	all := All()
	out := make([]functions.FunctionEntry, len(all))
	for i, f := range all {
		out[i] = f
	}
	return out
}

func predicate(name string, f func(types.Value) bool) functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  name,
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			return types.Bool(f(args[0])), nil
		},
	}
}

func kindIs(k types.Kind) func(types.Value) bool {
	return func(v types.Value) bool { return types.KindOf(v) == k }
}

// TypeOf returns the definition for type_of(v): "nil", "number", "string",
// "array" or "function".
func TypeOf() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "type_of",
		Arity: 1,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			return types.String(types.KindOf(args[0]).String()), nil
		},
	}
}

// IsNil returns the definition for is_nil(v).
func IsNil() functions.CustomFunctionDef { return predicate("is_nil", kindIs(types.KindNil)) }

// IsNumber returns the definition for is_number(v).
func IsNumber() functions.CustomFunctionDef { return predicate("is_number", kindIs(types.KindNumber)) }

// IsString returns the definition for is_string(v).
func IsString() functions.CustomFunctionDef { return predicate("is_string", kindIs(types.KindString)) }

// IsArray returns the definition for is_array(v).
func IsArray() functions.CustomFunctionDef { return predicate("is_array", kindIs(types.KindArray)) }

// IsFunction returns the definition for is_function(v).
func IsFunction() functions.CustomFunctionDef {
	return predicate("is_function", kindIs(types.KindFunction))
}

// IsInteger returns the definition for is_integer(v): true for numbers with
// no fractional part.
func IsInteger() functions.CustomFunctionDef {
	return predicate("is_integer", func(v types.Value) bool {
		n, ok := v.(types.Number)
		return ok && !math.IsInf(float64(n), 0) && math.Trunc(float64(n)) == float64(n)
	})
}

// IsEmpty returns the definition for is_empty(v): true for nil, "" and [].
func IsEmpty() functions.CustomFunctionDef {
	return predicate("is_empty", func(v types.Value) bool {
		switch x := v.(type) {
		case types.Nil:
			return true
		case types.String:
			return x == ""
		case *types.Array:
			return len(x.Elems) == 0
		default:
			return false
		}
	})
}

// Default returns the definition for default(v, fallback): fallback when v
// is nil, v otherwise.
func Default() functions.CustomFunctionDef {
	return functions.CustomFunctionDef{
		Name:  "default",
		Arity: 2,
		Fn: func(_ context.Context, args ...types.Value) (types.Value, error) {
			if types.KindOf(args[0]) == types.KindNil {
				return args[1], nil
			}
			return args[0], nil
		},
	}
}
