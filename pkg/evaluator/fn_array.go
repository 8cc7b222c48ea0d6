package evaluator

import (
	"cmp"
	"context"
	"slices"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// Array built-ins mutate their argument in place; every variable holding the
// same array observes the change.

func fnPush(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("push", args, 0)
	if err != nil {
		return nil, err
	}
	arr.Elems = append(arr.Elems, args[1])
	return types.NilValue, nil
}

// fnPop removes and returns the last element, or nil for an empty array.
func fnPop(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("pop", args, 0)
	if err != nil {
		return nil, err
	}
	n := len(arr.Elems)
	if n == 0 {
		return types.NilValue, nil
	}
	last := arr.Elems[n-1]
	arr.Elems[n-1] = nil
	arr.Elems = arr.Elems[:n-1]
	return last, nil
}

// fnInsert inserts a value before the given index, clamped to [0, len].
func fnInsert(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("insert", args, 0)
	if err != nil {
		return nil, err
	}
	x, err := argNumber("insert", args, 1)
	if err != nil {
		return nil, err
	}
	i := min(max(types.ToInt(x), 0), len(arr.Elems))
	arr.Elems = slices.Insert(arr.Elems, i, args[2])
	return types.NilValue, nil
}

// fnRemove deletes the element at the given index. Negative indices count
// from the end.
func fnRemove(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("remove", args, 0)
	if err != nil {
		return nil, err
	}
	x, err := argNumber("remove", args, 1)
	if err != nil {
		return nil, err
	}
	n := len(arr.Elems)
	i := types.ToInt(x)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, types.Errorf(types.ErrIndexOutOfRange, "remove() index %s out of bounds for length %d", types.FormatNumber(x), n)
	}
	arr.Elems = slices.Delete(arr.Elems, i, i+1)
	return types.NilValue, nil
}

// fnSort sorts an array of numbers or an array of strings in ascending
// order. The first element decides which; any other element kind fails
// before the array is touched.
func fnSort(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	arr, err := argArray("sort", args, 0)
	if err != nil {
		return nil, err
	}
	if len(arr.Elems) == 0 {
		return types.NilValue, nil
	}

	kind := types.KindOf(arr.Elems[0])
	if kind != types.KindNumber && kind != types.KindString {
		return nil, types.Errorf(types.ErrTypeMismatch, "sort() array elements must be all numbers or all strings")
	}
	for _, el := range arr.Elems {
		if types.KindOf(el) != kind {
			return nil, types.Errorf(types.ErrTypeMismatch, "sort() array elements must be all numbers or all strings")
		}
	}

	if kind == types.KindNumber {
		slices.SortStableFunc(arr.Elems, func(a, b types.Value) int {
			return cmp.Compare(a.(types.Number), b.(types.Number))
		})
	} else {
		slices.SortStableFunc(arr.Elems, func(a, b types.Value) int {
			return cmp.Compare(a.(types.String), b.(types.String))
		})
	}
	return types.NilValue, nil
}
