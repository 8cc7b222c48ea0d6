package evaluator

import (
	"context"
	"math"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// unaryMath adapts a float64 function to a one-argument built-in.
func unaryMath(name string, f func(float64) float64) FunctionImpl {
	return func(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
		x, err := argNumber(name, args, 0)
		if err != nil {
			return nil, err
		}
		return types.Number(f(x)), nil
	}
}

var (
	fnAbs   = unaryMath("abs", math.Abs)
	fnCeil  = unaryMath("ceil", math.Ceil)
	fnFloor = unaryMath("floor", math.Floor)
	// math.Round rounds half away from zero.
	fnRound = unaryMath("round", math.Round)
	fnSqrt  = unaryMath("sqrt", math.Sqrt)
)

// fnRnd returns a uniformly distributed integer in [0, n-1], or 0 when n
// truncates to a non-positive value.
func fnRnd(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	x, err := argNumber("rnd", args, 0)
	if err != nil {
		return nil, err
	}
	n := types.ToInt(x)
	if n <= 0 {
		return types.Number(0), nil
	}
	return types.Number(e.rng.Intn(n)), nil
}

// fnParseNum parses the longest numeric prefix of a string. Strings without
// one give nil.
func fnParseNum(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	s, err := argString("parse_num", args, 0)
	if err != nil {
		return nil, err
	}
	x, ok := types.ParseNumberPrefix(s)
	if !ok {
		return types.NilValue, nil
	}
	return types.Number(x), nil
}

func fnToString(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	x, err := argNumber("to_string", args, 0)
	if err != nil {
		return nil, err
	}
	return types.String(types.FormatNumber(x)), nil
}

// fnRange implements range(end), range(start, end) and
// range(start, end, step). Arguments are truncated to integers.
func fnRange(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error) {
	bounds := make([]int, len(args))
	for i := range args {
		x, err := argNumber("range", args, i)
		if err != nil {
			return nil, err
		}
		bounds[i] = types.ToInt(x)
	}

	start, end, step := 0, 0, 1
	switch len(bounds) {
	case 1:
		end = bounds[0]
	case 2:
		start, end = bounds[0], bounds[1]
	default:
		start, end, step = bounds[0], bounds[1], bounds[2]
		if step == 0 {
			return nil, types.Errorf(types.ErrInvalidArgument, "range() step cannot be zero")
		}
	}

	var elems []types.Value
	if step > 0 {
		for k := start; k < end; k += step {
			elems = append(elems, types.Number(k))
		}
	} else {
		for k := start; k > end; k += step {
			elems = append(elems, types.Number(k))
		}
	}
	return types.NewArray(elems...), nil
}
