package evaluator

import (
	"context"
	"io"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// flow tells the enclosing construct how a statement finished.
type flow uint8

const (
	flowNormal flow = iota
	flowReturn
	flowBreak
	flowContinue
)

// result is the outcome of executing a statement. value is only meaningful
// for flowReturn; pos locates the return, break or continue statement.
type result struct {
	flow  flow
	value types.Value
	pos   types.Pos
}

var normal = result{flow: flowNormal}

// execProgram runs top-level statements. The value of a trailing
// expression statement is returned for interactive use.
func (e *Evaluator) execProgram(ctx context.Context, stmts []types.Stmt, env *types.Environment) (types.Value, error) {
	var last types.Value = types.NilValue
	for _, stmt := range stmts {
		if es, ok := stmt.(*types.ExprStmt); ok {
			v, err := e.evalExpr(ctx, es.X, env)
			if err != nil {
				return nil, err
			}
			last = v
			continue
		}

		last = types.NilValue
		res, err := e.execStmt(ctx, stmt, env)
		if err != nil {
			return nil, err
		}
		if res.flow != flowNormal {
			return nil, strayControl(res, "at top level")
		}
	}
	return last, nil
}

func strayControl(res result, where string) *types.Error {
	var what string
	switch res.flow {
	case flowReturn:
		what = "return"
	case flowBreak:
		what = "break"
	default:
		what = "continue"
	}
	return types.Errorf(types.ErrControlFlow, "'%s' %s", what, where).At(res.pos)
}

// execBlock runs statements in order and stops at the first non-normal result.
func (e *Evaluator) execBlock(ctx context.Context, stmts []types.Stmt, env *types.Environment) (result, error) {
	for _, stmt := range stmts {
		res, err := e.execStmt(ctx, stmt, env)
		if err != nil || res.flow != flowNormal {
			return res, err
		}
	}
	return normal, nil
}

// execStmt executes a single statement.
func (e *Evaluator) execStmt(ctx context.Context, stmt types.Stmt, env *types.Environment) (result, error) {
	switch s := stmt.(type) {
	case *types.ExprStmt:
		_, err := e.evalExpr(ctx, s.X, env)
		return normal, err

	case *types.AssignStmt:
		v, err := e.evalExpr(ctx, s.Value, env)
		if err != nil {
			return normal, err
		}
		env.Assign(s.Name, v)
		return normal, nil

	case *types.IndexAssignStmt:
		return normal, e.execIndexAssign(ctx, s, env)

	case *types.FuncDefStmt:
		env.Define(s.Name, &types.Function{
			Name:    s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		})
		return normal, nil

	case *types.ReturnStmt:
		var v types.Value = types.NilValue
		if s.Value != nil {
			var err error
			if v, err = e.evalExpr(ctx, s.Value, env); err != nil {
				return normal, err
			}
		}
		return result{flow: flowReturn, value: v, pos: s.Pos}, nil

	case *types.PrintStmt:
		v, err := e.evalExpr(ctx, s.Value, env)
		if err != nil {
			return normal, err
		}
		return normal, e.write(s.Pos, types.Display(v))

	case *types.BreakStmt:
		return result{flow: flowBreak, pos: s.Pos}, nil

	case *types.ContinueStmt:
		return result{flow: flowContinue, pos: s.Pos}, nil

	case *types.IfStmt:
		cond, err := e.evalExpr(ctx, s.Cond, env)
		if err != nil {
			return normal, err
		}
		if types.IsTruthy(cond) {
			return e.execBlock(ctx, s.Then, env)
		}
		return e.execBlock(ctx, s.Else, env)

	case *types.ForStmt:
		return e.execFor(ctx, s, env)

	case *types.WhileStmt:
		return e.execWhile(ctx, s, env)

	default:
		return normal, types.Errorf(types.ErrUnsupported, "unsupported statement type: %s", stmt.Type()).At(stmt.Position())
	}
}

// execFor iterates over a snapshot of the array taken when the loop starts.
// Every element gets its own block scope holding the loop variable.
func (e *Evaluator) execFor(ctx context.Context, s *types.ForStmt, env *types.Environment) (result, error) {
	v, err := e.evalExpr(ctx, s.Iterable, env)
	if err != nil {
		return normal, err
	}
	arr, ok := v.(*types.Array)
	if !ok {
		return normal, types.Errorf(types.ErrTypeMismatch, "for expects array, got %s", types.KindOf(v)).At(s.Pos)
	}

	elems := make([]types.Value, len(arr.Elems))
	copy(elems, arr.Elems)

	for _, elem := range elems {
		if err := e.checkContext(ctx, s.Pos); err != nil {
			return normal, err
		}
		loopEnv := types.NewEnvironment(env, false)
		loopEnv.Define(s.Var, elem)

		res, err := e.execBlock(ctx, s.Body, loopEnv)
		if err != nil {
			return normal, err
		}
		switch res.flow {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return res, nil
		}
	}
	return normal, nil
}

// execWhile re-evaluates the condition before every pass; each pass runs in
// a fresh block scope.
func (e *Evaluator) execWhile(ctx context.Context, s *types.WhileStmt, env *types.Environment) (result, error) {
	for {
		if err := e.checkContext(ctx, s.Pos); err != nil {
			return normal, err
		}
		cond, err := e.evalExpr(ctx, s.Cond, env)
		if err != nil {
			return normal, err
		}
		if !types.IsTruthy(cond) {
			return normal, nil
		}

		res, err := e.execBlock(ctx, s.Body, types.NewEnvironment(env, false))
		if err != nil {
			return normal, err
		}
		switch res.flow {
		case flowBreak:
			return normal, nil
		case flowReturn:
			return res, nil
		}
	}
}

// write sends program output to the sink.
func (e *Evaluator) write(pos types.Pos, s string) error {
	out := e.out
	if out == nil {
		out = io.Discard
	}
	if _, err := io.WriteString(out, s); err != nil {
		return types.NewError(types.ErrOutput, "cannot write output", pos.Line, pos.Column).WithCause(err)
	}
	return nil
}

// checkContext aborts the run when ctx is cancelled or its deadline passed.
// It polls the channel captured at the start of the run.
func (e *Evaluator) checkContext(ctx context.Context, pos types.Pos) error {
	if e.done == nil {
		return nil
	}
	select {
	case <-e.done:
		return types.NewError(types.ErrCancelled, "execution cancelled: "+ctx.Err().Error(), pos.Line, pos.Column).WithCause(ctx.Err())
	default:
		return nil
	}
}
