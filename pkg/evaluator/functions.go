package evaluator

import (
	"context"
	"sort"
	"sync"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// FunctionDef defines a built-in function.
type FunctionDef struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 for unlimited
	Impl    FunctionImpl
}

// FunctionImpl is the implementation of a function. args are already
// evaluated and their count has been checked against MinArgs and MaxArgs.
type FunctionImpl func(ctx context.Context, e *Evaluator, args []types.Value) (types.Value, error)

func (d *FunctionDef) checkArity(n int) *types.Error {
	if n >= d.MinArgs && (d.MaxArgs < 0 || n <= d.MaxArgs) {
		return nil
	}
	switch {
	case d.MaxArgs < 0:
		return types.Errorf(types.ErrArgumentCount, "%s() expects at least %d arguments, got %d", d.Name, d.MinArgs, n)
	case d.MinArgs == d.MaxArgs:
		return types.Errorf(types.ErrArgumentCount, "%s() expects %d arguments, got %d", d.Name, d.MinArgs, n)
	default:
		return types.Errorf(types.ErrArgumentCount, "%s() expects %d to %d arguments, got %d", d.Name, d.MinArgs, d.MaxArgs, n)
	}
}

var (
	builtinFunctions     map[string]*FunctionDef
	builtinFunctionsOnce sync.Once
)

// initBuiltinFunctions initializes the built-in function registry.
func initBuiltinFunctions() {
	builtinFunctionsOnce.Do(func() {
		builtinFunctions = map[string]*FunctionDef{
			// I/O
			"print":      {Name: "print", MinArgs: 1, MaxArgs: 1, Impl: fnPrint},
			"println":    {Name: "println", MinArgs: 1, MaxArgs: 1, Impl: fnPrintln},
			"read":       {Name: "read", MinArgs: 0, MaxArgs: -1, Impl: fnRead},
			"stacktrace": {Name: "stacktrace", MinArgs: 0, MaxArgs: -1, Impl: fnStacktrace},

			// Numeric
			"abs":       {Name: "abs", MinArgs: 1, MaxArgs: 1, Impl: fnAbs},
			"ceil":      {Name: "ceil", MinArgs: 1, MaxArgs: 1, Impl: fnCeil},
			"floor":     {Name: "floor", MinArgs: 1, MaxArgs: 1, Impl: fnFloor},
			"round":     {Name: "round", MinArgs: 1, MaxArgs: 1, Impl: fnRound},
			"sqrt":      {Name: "sqrt", MinArgs: 1, MaxArgs: 1, Impl: fnSqrt},
			"rnd":       {Name: "rnd", MinArgs: 1, MaxArgs: 1, Impl: fnRnd},
			"parse_num": {Name: "parse_num", MinArgs: 1, MaxArgs: 1, Impl: fnParseNum},
			"to_string": {Name: "to_string", MinArgs: 1, MaxArgs: 1, Impl: fnToString},
			"range":     {Name: "range", MinArgs: 1, MaxArgs: 3, Impl: fnRange},

			// String
			"lower":   {Name: "lower", MinArgs: 1, MaxArgs: 1, Impl: fnLower},
			"upper":   {Name: "upper", MinArgs: 1, MaxArgs: 1, Impl: fnUpper},
			"split":   {Name: "split", MinArgs: 2, MaxArgs: 2, Impl: fnSplit},
			"join":    {Name: "join", MinArgs: 2, MaxArgs: 2, Impl: fnJoin},
			"replace": {Name: "replace", MinArgs: 3, MaxArgs: 3, Impl: fnReplace},

			// Array
			"push":   {Name: "push", MinArgs: 2, MaxArgs: 2, Impl: fnPush},
			"pop":    {Name: "pop", MinArgs: 1, MaxArgs: 1, Impl: fnPop},
			"insert": {Name: "insert", MinArgs: 3, MaxArgs: 3, Impl: fnInsert},
			"remove": {Name: "remove", MinArgs: 2, MaxArgs: 2, Impl: fnRemove},
			"sort":   {Name: "sort", MinArgs: 1, MaxArgs: 1, Impl: fnSort},
		}
	})
}

// GetFunction returns a built-in function by name.
func GetFunction(name string) (*FunctionDef, bool) {
	initBuiltinFunctions()
	fn, ok := builtinFunctions[name]
	return fn, ok
}

// BuiltinNames returns the names of all built-in functions, sorted.
func BuiltinNames() []string {
	initBuiltinFunctions()
	names := make([]string, 0, len(builtinFunctions))
	for name := range builtinFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// argNumber returns args[i] as a number or a type error naming fn.
func argNumber(fn string, args []types.Value, i int) (float64, error) {
	n, ok := args[i].(types.Number)
	if !ok {
		return 0, types.Errorf(types.ErrTypeMismatch, "%s() expects number, got %s", fn, types.KindOf(args[i]))
	}
	return float64(n), nil
}

// argString returns args[i] as a string or a type error naming fn.
func argString(fn string, args []types.Value, i int) (string, error) {
	s, ok := args[i].(types.String)
	if !ok {
		return "", types.Errorf(types.ErrTypeMismatch, "%s() expects string, got %s", fn, types.KindOf(args[i]))
	}
	return string(s), nil
}

// argArray returns args[i] as an array or a type error naming fn.
func argArray(fn string, args []types.Value, i int) (*types.Array, error) {
	a, ok := args[i].(*types.Array)
	if !ok {
		return nil, types.Errorf(types.ErrTypeMismatch, "%s() expects array, got %s", fn, types.KindOf(args[i]))
	}
	return a, nil
}
