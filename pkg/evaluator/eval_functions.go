package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// evalCall evaluates a call expression.
//
// When the callee is a plain identifier naming a built-in, the built-in runs
// regardless of variable bindings. Otherwise an unbound identifier may name
// a host function; anything else must evaluate to a script function.
func (e *Evaluator) evalCall(ctx context.Context, node *types.CallExpr, env *types.Environment) (types.Value, error) {
	if ident, ok := node.Callee.(*types.Ident); ok {
		if def, ok := GetFunction(ident.Name); ok {
			return e.callNative(ctx, def, node, env)
		}
		if def, ok := e.getCustomFunction(ident.Name); ok {
			if _, bound := env.Lookup(ident.Name); !bound {
				return e.callNative(ctx, def, node, env)
			}
		}
	}

	callee, err := e.evalExpr(ctx, node.Callee, env)
	if err != nil {
		return nil, err
	}
	fn, ok := callee.(*types.Function)
	if !ok {
		return nil, types.Errorf(types.ErrInvokeNonFunction, "call on non-function value of type %s", types.KindOf(callee)).At(node.Pos)
	}
	if len(fn.Params) != len(node.Args) {
		return nil, types.Errorf(types.ErrArgumentCount, "%s expects %d arguments, got %d", describe(fn), len(fn.Params), len(node.Args)).At(node.Pos)
	}

	args, err := e.evalArgs(ctx, node.Args, env)
	if err != nil {
		return nil, err
	}
	return e.callFunction(ctx, fn, args, node.Pos)
}

func describe(fn *types.Function) string {
	if fn.Name != "" {
		return fn.Name + "()"
	}
	return "function"
}

func (e *Evaluator) evalArgs(ctx context.Context, exprs []types.Expr, env *types.Environment) ([]types.Value, error) {
	args := make([]types.Value, len(exprs))
	for i, a := range exprs {
		v, err := e.evalExpr(ctx, a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

// callNative checks the arity of a built-in or host function, evaluates the
// arguments in the caller's scope and runs the implementation.
func (e *Evaluator) callNative(ctx context.Context, def *FunctionDef, node *types.CallExpr, env *types.Environment) (types.Value, error) {
	if err := def.checkArity(len(node.Args)); err != nil {
		return nil, err.At(node.Pos)
	}
	args, err := e.evalArgs(ctx, node.Args, env)
	if err != nil {
		return nil, err
	}

	v, err := def.Impl(ctx, e, args)
	if err != nil {
		return nil, nativeError(def.Name, err, node.Pos)
	}
	if v == nil {
		v = types.NilValue
	}
	return v, nil
}

// nativeError turns an error returned by a built-in or host function into a
// positioned runtime error.
func nativeError(name string, err error, pos types.Pos) error {
	var te *types.Error
	if errors.As(err, &te) {
		return te.At(pos)
	}
	return types.NewError(types.ErrInvalidArgument, fmt.Sprintf("%s(): %v", name, err), pos.Line, pos.Column).WithCause(err)
}

// callFunction runs a script function in a new call frame enclosed by the
// function's closure. Arguments are bound as locals of the frame.
func (e *Evaluator) callFunction(ctx context.Context, fn *types.Function, args []types.Value, pos types.Pos) (types.Value, error) {
	if err := e.checkContext(ctx, pos); err != nil {
		return nil, err
	}
	if e.opts.MaxDepth > 0 && e.depth >= e.opts.MaxDepth {
		return nil, types.NewError(types.ErrStackOverflow, fmt.Sprintf("maximum call depth %d exceeded", e.opts.MaxDepth), pos.Line, pos.Column)
	}
	e.depth++
	defer func() { e.depth-- }()

	frame := types.NewEnvironment(fn.Closure, true)
	for i, name := range fn.Params {
		frame.Define(name, args[i])
	}

	res, err := e.execBlock(ctx, fn.Body, frame)
	if err != nil {
		return nil, err
	}
	switch res.flow {
	case flowReturn:
		return res.value, nil
	case flowBreak, flowContinue:
		return nil, strayControl(res, "outside of a loop")
	}
	return types.NilValue, nil
}

// Call invokes a script function value with already evaluated arguments.
// It implements functions.Caller so host functions can call back into
// scripts.
func (e *Evaluator) Call(ctx context.Context, fn types.Value, args ...types.Value) (types.Value, error) {
	f, ok := fn.(*types.Function)
	if !ok {
		return nil, types.Errorf(types.ErrInvokeNonFunction, "call on non-function value of type %s", types.KindOf(fn))
	}
	if len(f.Params) != len(args) {
		return nil, types.Errorf(types.ErrArgumentCount, "%s expects %d arguments, got %d", describe(f), len(f.Params), len(args))
	}
	return e.callFunction(ctx, f, args, types.Pos{})
}
