// Package itmoscript implements the itmoscript scripting language: a small
// dynamically typed language with numbers, strings, arrays, first-class
// functions and closures, run by a tree-walking interpreter.
//
// # Quick Start
//
//	// Run a program, writing its output to stdout
//	ok := itmoscript.Run(ctx, `println("hello")`, os.Stdout)
//
//	// Get the error of a failing run
//	err := itmoscript.Exec(ctx, src, &buf, itmoscript.WithSeed(1))
//
//	// Compile once, run many times
//	prog := itmoscript.MustCompile(src)
//	ev := evaluator.New()
//	_ = ev.Run(ctx, prog, &buf)
//
// # Output
//
// Output consists exactly of the bytes written by print and println, in
// execution order. Output written before a runtime error stays in the sink.
//
// # More Information
//
//   - Parser: github.com/itmoscript/itmoscript/pkg/parser
//   - Evaluator: github.com/itmoscript/itmoscript/pkg/evaluator
//   - Host functions: github.com/itmoscript/itmoscript/pkg/functions
//   - Extension packs: github.com/itmoscript/itmoscript/pkg/ext
//   - Values and errors: github.com/itmoscript/itmoscript/pkg/types
package itmoscript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/itmoscript/itmoscript/pkg/cache"
	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// EvalOption configures a run. See the With* functions.
type EvalOption = evaluator.EvalOption

// programs caches compiled sources for Run and Exec. Programs are immutable,
// so sharing them between runs is safe.
var programs = cache.New(cache.DefaultCapacity)

// CacheStats reports the counters of the program cache shared by Run and
// Exec.
func CacheStats() cache.Stats {
	return programs.Stats()
}

// Version returns the current version of itmoscript.
func Version() string {
	return "v0.1.0"
}

// Compile parses source into a program that can be run any number of times
// by an evaluator. It is safe for concurrent use.
func Compile(source string, opts ...parser.CompileOption) (*types.Program, error) {
	return parser.Compile(source, opts...)
}

// MustCompile is like Compile but panics if the source cannot be parsed.
// It simplifies safe initialization of global variables.
func MustCompile(source string) *types.Program {
	prog, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("itmoscript: Compile(%q): %v", source, err))
	}
	return prog
}

// Exec parses and runs source in a fresh evaluator, writing program output
// to w. It returns the first lex, parse or runtime error.
func Exec(ctx context.Context, source string, w io.Writer, opts ...EvalOption) error {
	prog, err := programs.GetOrCompile(source, func() (*types.Program, error) {
		return parser.Parse(source)
	})
	if err != nil {
		return err
	}
	return evaluator.New(opts...).Run(ctx, prog, w)
}

// Run is like Exec but reports only whether the program ran to completion.
func Run(ctx context.Context, source string, w io.Writer, opts ...EvalOption) bool {
	return Exec(ctx, source, w, opts...) == nil
}

// Interpret reads all of r as source text and runs it.
func Interpret(r io.Reader, w io.Writer, opts ...EvalOption) bool {
	src, err := io.ReadAll(r)
	if err != nil {
		return false
	}
	return Run(context.Background(), string(src), w, opts...)
}

// WithTimeout bounds a run.
func WithTimeout(timeout time.Duration) EvalOption {
	return evaluator.WithTimeout(timeout)
}

// WithDebug enables debug logging.
func WithDebug(enabled bool) EvalOption {
	return evaluator.WithDebug(enabled)
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) EvalOption {
	return evaluator.WithLogger(logger)
}

// WithMaxDepth limits the depth of nested function calls.
func WithMaxDepth(depth int) EvalOption {
	return evaluator.WithMaxDepth(depth)
}

// WithSeed makes rnd deterministic.
func WithSeed(seed int64) EvalOption {
	return evaluator.WithSeed(seed)
}

// WithFunctions registers host functions, such as those of the ext packs.
func WithFunctions(entries ...functions.FunctionEntry) EvalOption {
	return evaluator.WithFunctions(entries...)
}

// WithCustomFunction registers a single host function.
func WithCustomFunction(name string, arity int, fn functions.CustomFunc) EvalOption {
	return evaluator.WithCustomFunction(name, arity, fn)
}
