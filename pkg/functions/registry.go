// Package functions provides types for registering host functions.
//
// Host functions are Go functions made callable from itmoscript programs via
// [itmoscript.WithCustomFunction] or [evaluator.WithFunctions]. They are
// looked up by name when a call's callee is an identifier that is neither a
// built-in nor bound to a variable, so scripts can shadow them.
//
// # Example
//
//	ok := itmoscript.Run(ctx, `println(greet("World"))`, os.Stdout,
//	    itmoscript.WithCustomFunction("greet", 1, func(ctx context.Context, args ...types.Value) (types.Value, error) {
//	        s, ok := args[0].(types.String)
//	        if !ok {
//	            return nil, fmt.Errorf("greet() expects string")
//	        }
//	        return "Hello, " + s + "!", nil
//	    }),
//	)
//	// prints Hello, World!
package functions

import (
	"context"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// Variadic is the Arity value that accepts any number of arguments.
const Variadic = -1

// CustomFunc is the signature for host functions.
// args contains the evaluated arguments in order. A nil result is treated
// as the script value nil.
type CustomFunc func(ctx context.Context, args ...types.Value) (types.Value, error)

// CustomFunctionDef describes a host function together with its arity.
type CustomFunctionDef struct {
	// Name is the function name as it appears in scripts.
	Name string
	// Arity is the exact number of arguments, or Variadic.
	Arity int
	// Fn is the implementation.
	Fn CustomFunc
}

// Caller can invoke a script function value that was passed as an argument.
// It is provided to AdvancedCustomFunc implementations so they can call back
// into the evaluator for higher-order functions.
type Caller interface {
	// Call invokes fn (a *types.Function) with the supplied args.
	Call(ctx context.Context, fn types.Value, args ...types.Value) (types.Value, error)
}

// AdvancedCustomFunc is like CustomFunc but also receives a Caller so the
// implementation can invoke function values passed as arguments (e.g. for
// higher-order functions like map, filter, reduce).
type AdvancedCustomFunc func(ctx context.Context, caller Caller, args ...types.Value) (types.Value, error)

// AdvancedCustomFunctionDef is the struct counterpart of AdvancedCustomFunc.
type AdvancedCustomFunctionDef struct {
	// Name is the function name as it appears in scripts.
	Name string
	// Arity is the exact number of arguments, or Variadic.
	Arity int
	// Fn is the implementation.
	Fn AdvancedCustomFunc
}

// FunctionEntry is a common marker interface implemented by both
// [CustomFunctionDef] and [AdvancedCustomFunctionDef].
// It allows mixing both kinds in a single variadic call to WithFunctions.
type FunctionEntry interface {
	isFunctionEntry()
	// FunctionName returns the name scripts use to call the function.
	FunctionName() string
}

func (c CustomFunctionDef) isFunctionEntry()         {}
func (a AdvancedCustomFunctionDef) isFunctionEntry() {}

// FunctionName implements FunctionEntry.
func (c CustomFunctionDef) FunctionName() string { return c.Name }

// FunctionName implements FunctionEntry.
func (a AdvancedCustomFunctionDef) FunctionName() string { return a.Name }
