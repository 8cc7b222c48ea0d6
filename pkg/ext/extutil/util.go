// Package extutil provides shared argument helpers for the ext sub-packages.
package extutil

import (
	"github.com/itmoscript/itmoscript/pkg/types"
)

// ArgCount checks the number of arguments passed to a variadic extension
// function. max < 0 means no upper bound.
func ArgCount(name string, args []types.Value, min, max int) error {
	n := len(args)
	if n >= min && (max < 0 || n <= max) {
		return nil
	}
	if max < 0 {
		return types.Errorf(types.ErrArgumentCount, "%s() expects at least %d arguments, got %d", name, min, n)
	}
	if min == max {
		return types.Errorf(types.ErrArgumentCount, "%s() expects %d arguments, got %d", name, min, n)
	}
	return types.Errorf(types.ErrArgumentCount, "%s() expects %d to %d arguments, got %d", name, min, max, n)
}

// Number returns args[i] as a float64.
func Number(name string, args []types.Value, i int) (float64, error) {
	n, ok := args[i].(types.Number)
	if !ok {
		return 0, typeError(name, i, "number", args[i])
	}
	return float64(n), nil
}

// Int returns args[i] truncated toward zero. Out-of-range values saturate
// at the 32-bit integer range and NaN becomes zero.
func Int(name string, args []types.Value, i int) (int, error) {
	x, err := Number(name, args, i)
	if err != nil {
		return 0, err
	}
	return types.ToInt(x), nil
}

// String returns args[i] as a Go string.
func String(name string, args []types.Value, i int) (string, error) {
	s, ok := args[i].(types.String)
	if !ok {
		return "", typeError(name, i, "string", args[i])
	}
	return string(s), nil
}

// OptString returns args[i] as a string, or def when the argument is absent
// or nil.
func OptString(name string, args []types.Value, i int, def string) (string, error) {
	if i >= len(args) || types.KindOf(args[i]) == types.KindNil {
		return def, nil
	}
	return String(name, args, i)
}

// Array returns args[i] as an array.
func Array(name string, args []types.Value, i int) (*types.Array, error) {
	a, ok := args[i].(*types.Array)
	if !ok {
		return nil, typeError(name, i, "array", args[i])
	}
	return a, nil
}

// Numbers returns the elements of args[i], which must all be numbers.
func Numbers(name string, args []types.Value, i int) ([]float64, error) {
	arr, err := Array(name, args, i)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(arr.Elems))
	for j, el := range arr.Elems {
		n, ok := el.(types.Number)
		if !ok {
			return nil, types.Errorf(types.ErrTypeMismatch, "%s() expects an array of numbers, element %d is %s", name, j, types.KindOf(el))
		}
		out[j] = float64(n)
	}
	return out, nil
}

// Strings converts a Go string slice into an array of strings.
func Strings(ss []string) *types.Array {
	elems := make([]types.Value, len(ss))
	for i, s := range ss {
		elems[i] = types.String(s)
	}
	return types.NewArray(elems...)
}

func typeError(name string, i int, want string, got types.Value) error {
	return types.Errorf(types.ErrTypeMismatch, "%s() argument %d must be %s, got %s", name, i+1, want, types.KindOf(got))
}
