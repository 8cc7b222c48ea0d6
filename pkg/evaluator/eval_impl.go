package evaluator

import (
	"context"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// evalExpr evaluates an expression in the given environment.
func (e *Evaluator) evalExpr(ctx context.Context, expr types.Expr, env *types.Environment) (types.Value, error) {
	switch x := expr.(type) {
	case *types.NumberLit:
		return types.Number(x.Value), nil

	case *types.StringLit:
		return types.String(x.Value), nil

	case *types.NilLit:
		return types.NilValue, nil

	case *types.Ident:
		v, err := env.Get(x.Name)
		if err != nil {
			return nil, at(err, x.Pos)
		}
		return v, nil

	case *types.UnaryExpr:
		return e.evalUnary(ctx, x, env)

	case *types.BinaryExpr:
		return e.evalBinary(ctx, x, env)

	case *types.IndexExpr:
		return e.evalIndex(ctx, x, env)

	case *types.SliceExpr:
		return e.evalSlice(ctx, x, env)

	case *types.ArrayLit:
		elems := make([]types.Value, 0, len(x.Elems))
		for _, el := range x.Elems {
			v, err := e.evalExpr(ctx, el, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return types.NewArray(elems...), nil

	case *types.LenExpr:
		v, err := e.evalExpr(ctx, x.Arg, env)
		if err != nil {
			return nil, err
		}
		return lengthOf(v, x.Pos)

	case *types.FuncLit:
		return &types.Function{
			Params:  x.Params,
			Body:    x.Body,
			Closure: env,
		}, nil

	case *types.CallExpr:
		return e.evalCall(ctx, x, env)

	default:
		return nil, types.Errorf(types.ErrUnsupported, "unsupported expression type: %s", expr.Type()).At(expr.Position())
	}
}

func lengthOf(v types.Value, pos types.Pos) (types.Value, error) {
	switch x := v.(type) {
	case types.String:
		return types.Number(len(x)), nil
	case *types.Array:
		return types.Number(len(x.Elems)), nil
	default:
		return nil, types.Errorf(types.ErrTypeMismatch, "len() expects string or array, got %s", types.KindOf(v)).At(pos)
	}
}

// at attaches pos to err when err is a positionless *types.Error.
func at(err error, pos types.Pos) error {
	if e, ok := err.(*types.Error); ok {
		return e.At(pos)
	}
	return err
}
