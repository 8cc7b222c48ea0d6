package evaluator

// Package evaluator implements the itmoscript tree-walking interpreter.
//
// The evaluator receives a parsed program from the parser and executes it
// against a chain of lexically scoped environments. It supports:
//   - Closures capturing their defining environment
//   - Built-in functions and Go host functions
//   - Deterministic random numbers via a seedable generator
//   - Timeout and cancellation via context.Context
//
// # Example
//
//	ev := evaluator.New(evaluator.WithSeed(42))
//	if err := ev.Run(ctx, prog, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// An Evaluator runs one program at a time. Programs are immutable, so the
// same program may run concurrently on independent Evaluators.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// defaultMaxDepth is the call depth limit used when WithMaxDepth is not
// given. Overridden per platform.
var defaultMaxDepth = 10000

// Evaluator executes itmoscript programs.
type Evaluator struct {
	opts      EvalOptions
	logger    *slog.Logger
	rng       *rand.Rand
	customFns map[string]*FunctionDef // user-registered host functions
	globals   *types.Environment      // persistent scope used by Exec
	out       io.Writer               // sink of the running program
	done      <-chan struct{}         // ctx.Done() of the running program
	depth     int                     // nesting of script function calls
}

// EvalOptions configures evaluator behavior.
type EvalOptions struct {
	// MaxDepth limits the depth of nested function calls.
	MaxDepth int
	// Timeout bounds a single run. Zero means no timeout.
	Timeout time.Duration
	// Seed seeds the generator behind rnd. Ignored unless Seeded is set.
	Seed int64
	// Seeded reports whether Seed was provided.
	Seeded bool
	// Debug enables debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
	// Functions holds host functions to register with the evaluator.
	Functions []functions.FunctionEntry
}

// New creates a new Evaluator with default options.
func New(opts ...EvalOption) *Evaluator {
	options := EvalOptions{
		MaxDepth: defaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	seed := time.Now().UnixNano()
	if options.Seeded {
		seed = options.Seed
	}

	e := &Evaluator{
		opts:      options,
		logger:    options.Logger,
		rng:       rand.New(rand.NewSource(seed)),
		customFns: make(map[string]*FunctionDef, len(options.Functions)),
	}
	for _, entry := range options.Functions {
		e.register(entry)
	}
	return e
}

// register wraps a host function into the built-in function shape.
func (e *Evaluator) register(entry functions.FunctionEntry) {
	switch f := entry.(type) {
	case functions.CustomFunctionDef:
		e.customFns[f.Name] = &FunctionDef{
			Name:    f.Name,
			MinArgs: minArgs(f.Arity),
			MaxArgs: f.Arity,
			Impl: func(ctx context.Context, _ *Evaluator, args []types.Value) (types.Value, error) {
				return f.Fn(ctx, args...)
			},
		}
	case functions.AdvancedCustomFunctionDef:
		e.customFns[f.Name] = &FunctionDef{
			Name:    f.Name,
			MinArgs: minArgs(f.Arity),
			MaxArgs: f.Arity,
			Impl: func(ctx context.Context, ev *Evaluator, args []types.Value) (types.Value, error) {
				return f.Fn(ctx, ev, args...)
			},
		}
	}
}

func minArgs(arity int) int {
	if arity < 0 {
		return 0
	}
	return arity
}

// getCustomFunction returns a host function by name, or (nil, false).
func (e *Evaluator) getCustomFunction(name string) (*FunctionDef, bool) {
	if len(e.customFns) == 0 {
		return nil, false
	}
	fn, ok := e.customFns[name]
	return fn, ok
}

// Run executes prog in a fresh global environment, writing program output
// to w. Output produced before a failure stays in w.
func (e *Evaluator) Run(ctx context.Context, prog *types.Program, w io.Writer) error {
	_, err := e.exec(ctx, prog, types.NewEnvironment(nil, false), w)
	return err
}

// Exec executes prog in the evaluator's persistent global environment, so
// bindings survive between calls. It returns the value of a trailing
// expression statement, or nil.
func (e *Evaluator) Exec(ctx context.Context, prog *types.Program, w io.Writer) (types.Value, error) {
	if e.globals == nil {
		e.globals = types.NewEnvironment(nil, false)
	}
	return e.exec(ctx, prog, e.globals, w)
}

// Reset discards the persistent global environment used by Exec.
func (e *Evaluator) Reset() {
	e.globals = nil
}

// Globals returns the persistent global environment, creating it if needed.
func (e *Evaluator) Globals() *types.Environment {
	if e.globals == nil {
		e.globals = types.NewEnvironment(nil, false)
	}
	return e.globals
}

func (e *Evaluator) exec(ctx context.Context, prog *types.Program, env *types.Environment, w io.Writer) (types.Value, error) {
	if prog == nil {
		return nil, fmt.Errorf("invalid program")
	}
	if w == nil {
		w = io.Discard
	}

	// Apply timeout if configured
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	e.out = w
	e.done = ctx.Done()
	e.depth = 0
	defer func() {
		e.out = nil
		e.done = nil
	}()

	start := time.Now()
	if e.opts.Debug {
		e.logger.Debug("run start", "statements", len(prog.Statements()))
	}

	last, err := e.execProgram(ctx, prog.Statements(), env)

	if e.opts.Debug {
		if err != nil {
			e.logger.Debug("run failed", "error", err, "elapsed", time.Since(start))
		} else {
			e.logger.Debug("run done", "elapsed", time.Since(start))
		}
	}
	if err != nil {
		return nil, err
	}
	return last, nil
}

// EvalOption configures evaluation behavior.
type EvalOption func(*EvalOptions)

// WithTimeout sets the evaluation timeout.
func WithTimeout(timeout time.Duration) EvalOption {
	return func(opts *EvalOptions) {
		opts.Timeout = timeout
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) EvalOption {
	return func(opts *EvalOptions) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(opts *EvalOptions) {
		opts.Logger = logger
	}
}

// WithMaxDepth sets the maximum function call depth.
func WithMaxDepth(depth int) EvalOption {
	return func(opts *EvalOptions) {
		opts.MaxDepth = depth
	}
}

// WithSeed makes rnd deterministic.
func WithSeed(seed int64) EvalOption {
	return func(opts *EvalOptions) {
		opts.Seed = seed
		opts.Seeded = true
	}
}

// WithFunctions registers host functions. Later registrations replace
// earlier ones with the same name.
func WithFunctions(entries ...functions.FunctionEntry) EvalOption {
	return func(opts *EvalOptions) {
		opts.Functions = append(opts.Functions, entries...)
	}
}

// WithCustomFunction registers a single host function with a fixed arity
// (or functions.Variadic).
//
// Example:
//
//	evaluator.New(evaluator.WithCustomFunction("twice", 1, func(ctx context.Context, args ...types.Value) (types.Value, error) {
//	    n, ok := args[0].(types.Number)
//	    if !ok {
//	        return nil, fmt.Errorf("twice() expects number")
//	    }
//	    return n * 2, nil
//	}))
func WithCustomFunction(name string, arity int, fn functions.CustomFunc) EvalOption {
	return WithFunctions(functions.CustomFunctionDef{
		Name:  name,
		Arity: arity,
		Fn:    fn,
	})
}
