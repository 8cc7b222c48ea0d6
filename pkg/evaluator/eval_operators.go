package evaluator

import (
	"cmp"
	"context"
	"math"
	"strings"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// evalUnary evaluates "-x" and "not x".
func (e *Evaluator) evalUnary(ctx context.Context, node *types.UnaryExpr, env *types.Environment) (types.Value, error) {
	v, err := e.evalExpr(ctx, node.Operand, env)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case "-":
		n, ok := v.(types.Number)
		if !ok {
			return nil, types.Errorf(types.ErrTypeMismatch, "bad operand for unary '-': %s", types.KindOf(v)).At(node.Pos)
		}
		return -n, nil
	case "not":
		return types.Bool(!types.IsTruthy(v)), nil
	default:
		return nil, types.Errorf(types.ErrUnsupported, "unknown unary operator %q", node.Op).At(node.Pos)
	}
}

// evalBinary evaluates both operands eagerly, left first, then applies the
// operator. and/or do not short-circuit and always produce 1 or 0.
func (e *Evaluator) evalBinary(ctx context.Context, node *types.BinaryExpr, env *types.Environment) (types.Value, error) {
	left, err := e.evalExpr(ctx, node.LHS, env)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(ctx, node.RHS, env)
	if err != nil {
		return nil, err
	}

	v, err := binaryOp(node.Op, left, right)
	if err != nil {
		return nil, at(err, node.Pos)
	}
	return v, nil
}

// binaryOp applies op to already evaluated operands.
func binaryOp(op string, left, right types.Value) (types.Value, error) {
	switch op {
	case "+":
		return evalAdd(left, right)
	case "-":
		return evalSubtract(left, right)
	case "*":
		return evalMultiply(left, right)
	case "/", "%", "^":
		return evalArithmetic(op, left, right)
	case "==":
		return types.Bool(types.Equal(left, right)), nil
	case "!=":
		return types.Bool(!types.Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		return evalComparison(op, left, right)
	case "and":
		return types.Bool(types.IsTruthy(left) && types.IsTruthy(right)), nil
	case "or":
		return types.Bool(types.IsTruthy(left) || types.IsTruthy(right)), nil
	default:
		return nil, types.Errorf(types.ErrUnsupported, "unknown binary operator %q", op)
	}
}

func illegalOperands(op string, left, right types.Value) *types.Error {
	return types.Errorf(types.ErrTypeMismatch, "illegal operands for '%s': %s and %s", op, types.KindOf(left), types.KindOf(right))
}

// evalAdd adds numbers, concatenates strings, and concatenates arrays into a
// new array.
func evalAdd(left, right types.Value) (types.Value, error) {
	switch l := left.(type) {
	case types.Number:
		if r, ok := right.(types.Number); ok {
			return l + r, nil
		}
	case types.String:
		if r, ok := right.(types.String); ok {
			return l + r, nil
		}
	case *types.Array:
		if r, ok := right.(*types.Array); ok {
			elems := make([]types.Value, 0, len(l.Elems)+len(r.Elems))
			elems = append(elems, l.Elems...)
			elems = append(elems, r.Elems...)
			return types.NewArray(elems...), nil
		}
	}
	return nil, illegalOperands("+", left, right)
}

// evalSubtract subtracts numbers. For strings it removes right from the end
// of left when left ends with it.
func evalSubtract(left, right types.Value) (types.Value, error) {
	switch l := left.(type) {
	case types.Number:
		if r, ok := right.(types.Number); ok {
			return l - r, nil
		}
	case types.String:
		if r, ok := right.(types.String); ok {
			return types.String(strings.TrimSuffix(string(l), string(r))), nil
		}
	}
	return nil, illegalOperands("-", left, right)
}

// evalMultiply multiplies numbers and repeats strings or arrays. The repeat
// count is truncated toward zero; negative counts give an empty result.
func evalMultiply(left, right types.Value) (types.Value, error) {
	if l, ok := left.(types.Number); ok {
		switch r := right.(type) {
		case types.Number:
			return l * r, nil
		case types.String:
			return repeatString(r, l), nil
		case *types.Array:
			return repeatArray(r, l), nil
		}
	}
	if r, ok := right.(types.Number); ok {
		switch l := left.(type) {
		case types.String:
			return repeatString(l, r), nil
		case *types.Array:
			return repeatArray(l, r), nil
		}
	}
	return nil, illegalOperands("*", left, right)
}

func repeatString(s types.String, times types.Number) types.String {
	n := types.ToInt(float64(times))
	if n <= 0 {
		return ""
	}
	return types.String(strings.Repeat(string(s), n))
}

func repeatArray(arr *types.Array, times types.Number) *types.Array {
	n := types.ToInt(float64(times))
	if n <= 0 {
		return types.NewArray()
	}
	elems := make([]types.Value, 0, n*len(arr.Elems))
	for i := 0; i < n; i++ {
		elems = append(elems, arr.Elems...)
	}
	return types.NewArray(elems...)
}

// evalArithmetic handles the number-only operators /, % and ^.
func evalArithmetic(op string, left, right types.Value) (types.Value, error) {
	l, ok1 := left.(types.Number)
	r, ok2 := right.(types.Number)
	if !ok1 || !ok2 {
		return nil, illegalOperands(op, left, right)
	}

	switch op {
	case "/":
		if r == 0 {
			return nil, types.Errorf(types.ErrDivisionByZero, "division by zero")
		}
		return l / r, nil
	case "%":
		if r == 0 {
			return nil, types.Errorf(types.ErrDivisionByZero, "modulo by zero")
		}
		return types.Number(math.Mod(float64(l), float64(r))), nil
	default:
		return types.Number(math.Pow(float64(l), float64(r))), nil
	}
}

// evalComparison orders two numbers or two strings (bytewise).
func evalComparison(op string, left, right types.Value) (types.Value, error) {
	var order int
	switch l := left.(type) {
	case types.Number:
		r, ok := right.(types.Number)
		if !ok {
			return nil, illegalOperands(op, left, right)
		}
		// NaN compares false with everything.
		if math.IsNaN(float64(l)) || math.IsNaN(float64(r)) {
			return types.Bool(false), nil
		}
		order = cmp.Compare(l, r)
	case types.String:
		r, ok := right.(types.String)
		if !ok {
			return nil, illegalOperands(op, left, right)
		}
		order = strings.Compare(string(l), string(r))
	default:
		return nil, illegalOperands(op, left, right)
	}

	switch op {
	case "<":
		return types.Bool(order < 0), nil
	case "<=":
		return types.Bool(order <= 0), nil
	case ">":
		return types.Bool(order > 0), nil
	default:
		return types.Bool(order >= 0), nil
	}
}

