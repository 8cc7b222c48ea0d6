package evaluator

import (
	"context"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// evalIndex evaluates "target[index]" on strings and arrays. Negative
// indices count from the end.
func (e *Evaluator) evalIndex(ctx context.Context, node *types.IndexExpr, env *types.Environment) (types.Value, error) {
	target, err := e.evalExpr(ctx, node.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := e.evalExpr(ctx, node.Index, env)
	if err != nil {
		return nil, err
	}

	var length int
	switch t := target.(type) {
	case types.String:
		length = len(t)
	case *types.Array:
		length = len(t.Elems)
	default:
		return nil, types.Errorf(types.ErrTypeMismatch, "indexing requires array or string, got %s", types.KindOf(target)).At(node.Pos)
	}

	n, ok := index.(types.Number)
	if !ok {
		return nil, types.Errorf(types.ErrTypeMismatch, "index must be number, got %s", types.KindOf(index)).At(node.Pos)
	}
	i := types.ToInt(float64(n))
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return nil, types.Errorf(types.ErrIndexOutOfRange, "index %s out of bounds for length %d", types.FormatNumber(float64(n)), length).At(node.Pos)
	}

	if s, ok := target.(types.String); ok {
		return s[i : i+1], nil
	}
	return target.(*types.Array).Elems[i], nil
}

// evalSlice evaluates "target[start:end]". Omitted bounds default to the
// whole range; negative bounds count from the end; bounds are clamped and
// an inverted range is empty. Array slices are new arrays.
func (e *Evaluator) evalSlice(ctx context.Context, node *types.SliceExpr, env *types.Environment) (types.Value, error) {
	target, err := e.evalExpr(ctx, node.Target, env)
	if err != nil {
		return nil, err
	}

	var length int
	switch t := target.(type) {
	case types.String:
		length = len(t)
	case *types.Array:
		length = len(t.Elems)
	default:
		return nil, types.Errorf(types.ErrTypeMismatch, "slice requires string or array, got %s", types.KindOf(target)).At(node.Pos)
	}

	start, err := e.sliceBound(ctx, node.Start, 0, length, "start", env)
	if err != nil {
		return nil, err
	}
	end, err := e.sliceBound(ctx, node.End, length, length, "end", env)
	if err != nil {
		return nil, err
	}
	if end < start {
		end = start
	}

	if s, ok := target.(types.String); ok {
		return s[start:end], nil
	}
	elems := make([]types.Value, end-start)
	copy(elems, target.(*types.Array).Elems[start:end])
	return types.NewArray(elems...), nil
}

// sliceBound evaluates one slice bound and clamps it to [0, length].
func (e *Evaluator) sliceBound(ctx context.Context, expr types.Expr, def, length int, which string, env *types.Environment) (int, error) {
	if expr == nil {
		return def, nil
	}
	v, err := e.evalExpr(ctx, expr, env)
	if err != nil {
		return 0, err
	}
	n, ok := v.(types.Number)
	if !ok {
		return 0, types.Errorf(types.ErrTypeMismatch, "slice %s must be number, got %s", which, types.KindOf(v)).At(expr.Position())
	}
	i := types.ToInt(float64(n))
	if i < 0 {
		i += length
	}
	return min(max(i, 0), length), nil
}

// execIndexAssign stores into an array element. Writing past the end grows
// the array, filling the gap with nil.
func (e *Evaluator) execIndexAssign(ctx context.Context, s *types.IndexAssignStmt, env *types.Environment) error {
	target, err := env.Get(s.Name)
	if err != nil {
		return at(err, s.Pos)
	}
	arr, ok := target.(*types.Array)
	if !ok {
		return types.Errorf(types.ErrTypeMismatch, "index assignment requires array, got %s", types.KindOf(target)).At(s.Pos)
	}

	index, err := e.evalExpr(ctx, s.Index, env)
	if err != nil {
		return err
	}
	n, ok := index.(types.Number)
	if !ok {
		return types.Errorf(types.ErrTypeMismatch, "index must be number, got %s", types.KindOf(index)).At(s.Pos)
	}
	i := types.ToInt(float64(n))
	if i < 0 {
		return types.Errorf(types.ErrIndexOutOfRange, "negative index %d not supported in assignment", i).At(s.Pos)
	}

	v, err := e.evalExpr(ctx, s.Value, env)
	if err != nil {
		return err
	}
	for len(arr.Elems) <= i {
		arr.Elems = append(arr.Elems, types.NilValue)
	}
	arr.Elems[i] = v
	return nil
}
