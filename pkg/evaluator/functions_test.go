package evaluator_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/functions"
	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Function and closure tests

func TestUserFunctions(t *testing.T) {
	runOutputTests(t, []outputTest{
		{
			"simple",
			`incr = function(value)
				return value + 1
			end function
			print(incr(2))`,
			"3",
		},
		{
			"function as argument",
			`incr = function(value) return value + 1 end function
			apply = function(value, f)
				print(f(value))
			end function
			apply(2, incr)`,
			"3",
		},
		{
			"nested definition",
			`outer = function(value)
				inner = function(value) return value * 10 end function
				return inner(value)
			end function
			print(outer(2))`,
			"20",
		},
		{
			"functions in array",
			`funcs = [
				function() return 1 end function,
				function() return 2 end function,
			]
			print(funcs[1]())`,
			"2",
		},
		{
			"immediate call",
			"print((function(x) return x * x end function)(7))",
			"49",
		},
		{
			"recursion",
			`fib = function(n)
				if n < 2 then return n end if
				return fib(n - 1) + fib(n - 2)
			end function
			print(fib(15))`,
			"610",
		},
		{
			"fall off end",
			"f = function() x = 1 end function\nprint(f())",
			"nil",
		},
		{
			"bare return",
			"f = function() return end function\nprint(f())",
			"nil",
		},
		{
			"return from loop",
			`find = function(arr, x)
				for i in range(len(arr))
					if arr[i] == x then return i end if
				end for
				return -1
			end function
			print(find([5, 6, 7], 7))`,
			"2",
		},
	})
}

func TestClosureCounter(t *testing.T) {
	got := run(t, `
		make_counter = function()
			count = 0
			return function()
				count = count + 1
				return count
			end function
		end function
		a = make_counter()
		b = make_counter()
		println(a())
		println(a())
		println(b())
	`)
	if got != "1\n2\n1\n" {
		t.Errorf("got %q", got)
	}
}

func TestFunctionScoping(t *testing.T) {
	// helper closes over the loop scope, which does not hold x, so its
	// assignment creates a local instead of touching the global.
	got := run(t, `
		x = 100
		sum = 0
		for i in range(1, 5)
			sum = sum + i
			helper = function()
				x = x + 1
				return x
			end function
			helper()
		end for
		print(x)
		print(",")
		print(sum)
	`)
	if got != "100,10" {
		t.Errorf("got %q", got)
	}
}

func TestFunctionAssignsEnclosingBinding(t *testing.T) {
	got := run(t, `
		x = 10
		f = function()
			x = 100
			y = 1
			return x
		end function
		print(f())
		print(",")
		print(x)
	`)
	if got != "100,100" {
		t.Errorf("got %q", got)
	}
	err, _ := runExpectError(t, `
		f = function() y = 1 end function
		f()
		print(y)
	`)
	if err.Code != types.ErrUndefinedVariable {
		t.Errorf("got code %s, want %s", err.Code, types.ErrUndefinedVariable)
	}
}

func TestFunctionArgumentsEvaluatedInCaller(t *testing.T) {
	got := run(t, `
		v = 5
		f = function(v) return v * 2 end function
		print(f(v + 1))
	`)
	if got != "12" {
		t.Errorf("got %q", got)
	}
}

func TestBuiltinsShadowVariables(t *testing.T) {
	got := run(t, `
		abs = function(x) return 0 end function
		println(abs(-3))
	`)
	if got != "3\n" {
		t.Errorf("got %q", got)
	}
}

func TestStackOverflow(t *testing.T) {
	err, _ := runExpectError(t, `
		f = function(n) return f(n + 1) end function
		f(0)
	`, evaluator.WithMaxDepth(50))
	if err.Code != types.ErrStackOverflow {
		t.Errorf("got code %s, want %s", err.Code, types.ErrStackOverflow)
	}
}

func TestBreakOutsideLoopInFunction(t *testing.T) {
	err, _ := runExpectError(t, `
		f = function() break end function
		for i in [1, 2]
			f()
		end for
	`)
	if err.Code != types.ErrControlFlow {
		t.Errorf("got code %s, want %s", err.Code, types.ErrControlFlow)
	}
}

// Built-in tests

func TestBuiltinNumeric(t *testing.T) {
	runOutputTests(t, []outputTest{
		{"abs", "print(abs(-2.5))", "2.5"},
		{"ceil", "print(ceil(1.2))", "2"},
		{"floor", "print(floor(-1.2))", "-2"},
		{"round half up", "print(round(2.5))", "3"},
		{"round half away", "print(round(-2.5))", "-3"},
		{"sqrt", "print(sqrt(16))", "4"},
		{"parse_num", `print(parse_num("123"))`, "123"},
		{"parse_num prefix", `print(parse_num("  4.5kg"))`, "4.5"},
		{"parse_num failure", `print(parse_num("abc"))`, "nil"},
		{"to_string", "print(to_string(456) + \"!\")", "456!"},
		{"to_string fraction", "print(to_string(1 / 3))", "0.333333"},
		{"rnd non-positive", "print(rnd(0))", "0"},
		{"rnd one", "print(rnd(1))", "0"},
	})
}

func TestBuiltinRange(t *testing.T) {
	runOutputTests(t, []outputTest{
		{"end", "print(range(3))", "[0, 1, 2]"},
		{"start end", "print(range(2, 5))", "[2, 3, 4]"},
		{"step", "print(range(0, 10, 3))", "[0, 3, 6, 9]"},
		{"negative step", "print(range(3, 0, -1))", "[3, 2, 1]"},
		{"empty", "print(range(5, 1))", "[]"},
		{"truncates", "print(range(2.9))", "[0, 1]"},
	})
	runErrorTests(t, []errorTest{
		{"zero step", "range(0, 5, 0)", types.ErrInvalidArgument},
		{"no args", "range()", types.ErrArgumentCount},
		{"too many", "range(1, 2, 3, 4)", types.ErrArgumentCount},
		{"string arg", `range("a")`, types.ErrTypeMismatch},
	})
}

func TestBuiltinRndSeeded(t *testing.T) {
	src := "for i in range(20) print(rnd(100)) print(\" \") end for"
	a := run(t, src, evaluator.WithSeed(7))
	b := run(t, src, evaluator.WithSeed(7))
	if a != b {
		t.Errorf("same seed produced different output:\n%s\n%s", a, b)
	}
	for _, f := range strings.Fields(a) {
		var n int
		if _, err := fmt.Sscan(f, &n); err != nil || n < 0 || n > 99 {
			t.Fatalf("rnd(100) out of range: %q", f)
		}
	}
}

func TestBuiltinStrings(t *testing.T) {
	runOutputTests(t, []outputTest{
		{"lower", `print(lower("HeLLo"))`, "hello"},
		{"upper", `print(upper("abc1"))`, "ABC1"},
		{"split", `print(split("a,b,c", ","))`, `["a", "b", "c"]`},
		{"split chars", `print(split("abc", ""))`, `["a", "b", "c"]`},
		{"split no match", `print(split("abc", ";"))`, `["abc"]`},
		{"split trailing", `print(split("a,", ","))`, `["a", ""]`},
		{"join", `print(join(["a", "b"], "-"))`, "a-b"},
		{"join empty", `print(join([], "-"))`, ""},
		{"replace", `print(replace("aaa", "a", "b"))`, "bbb"},
		{"replace longer", `print(replace("abab", "ab", "abab"))`, "abababab"},
		{"replace empty old", `print(replace("abc", "", "x"))`, "abc"},
	})
	runErrorTests(t, []errorTest{
		{"join non-string", `join([1], ",")`, types.ErrTypeMismatch},
		{"upper number", "upper(1)", types.ErrTypeMismatch},
		{"split arity", `split("a")`, types.ErrArgumentCount},
	})
}

func TestBuiltinArrays(t *testing.T) {
	runOutputTests(t, []outputTest{
		{"push", "a = [1]\npush(a, 2)\nprint(a)", "[1, 2]"},
		{"push returns nil", "a = []\nprint(push(a, 1))", "nil"},
		{"pop", "a = [1, 2]\nprint(pop(a))\nprint(a)", "2[1]"},
		{"pop empty", "print(pop([]))", "nil"},
		{"insert", "a = [1, 3]\ninsert(a, 1, 2)\nprint(a)", "[1, 2, 3]"},
		{"insert clamps high", "a = [1]\ninsert(a, 10, 2)\nprint(a)", "[1, 2]"},
		{"insert clamps low", "a = [1]\ninsert(a, -5, 0)\nprint(a)", "[0, 1]"},
		{"remove", "a = [1, 2, 3]\nremove(a, 1)\nprint(a)", "[1, 3]"},
		{"remove negative", "a = [1, 2, 3]\nremove(a, -1)\nprint(a)", "[1, 2]"},
		{"sort numbers", "a = [3, 1, 2]\nsort(a)\nprint(a)", "[1, 2, 3]"},
		{"sort strings", `a = ["b", "a"]` + "\nsort(a)\nprint(a)", `["a", "b"]`},
		{"sort empty", "a = []\nsort(a)\nprint(a)", "[]"},
	})
	runErrorTests(t, []errorTest{
		{"remove out of range", "remove([1], 1)", types.ErrIndexOutOfRange},
		{"sort mixed", `sort([1, "a"])`, types.ErrTypeMismatch},
		{"sort nil", "sort([nil])", types.ErrTypeMismatch},
		{"push non-array", "push(1, 2)", types.ErrTypeMismatch},
	})
}

func TestBuiltinSortMixedLeavesArray(t *testing.T) {
	_, out := runExpectError(t, "a = [2, 1, \"x\"]\nprint(a)\nsort(a)")
	if out != `[2, 1, "x"]` {
		t.Errorf("got %q", out)
	}
}

func TestBuiltinIO(t *testing.T) {
	runOutputTests(t, []outputTest{
		{"println", `println("a")`, "a\n"},
		{"quoted with blank", `print("2 * 2 == 4")`, `"2 * 2 == 4"`},
		{"trailing blank unquoted", `print("Even: ")`, "Even: "},
	})
	runErrorTests(t, []errorTest{
		{"read", "read()", types.ErrUnsupported},
		{"stacktrace", "stacktrace()", types.ErrUnsupported},
		{"print arity", "println(1, 2)", types.ErrArgumentCount},
	})
}

func TestBuiltinNames(t *testing.T) {
	names := evaluator.BuiltinNames()
	for _, want := range []string{"print", "range", "sort", "split"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing built-in %q", want)
		}
	}
	if !slices.IsSorted(names) {
		t.Error("names not sorted")
	}
}

// Host function tests

func TestCustomFunctionBasic(t *testing.T) {
	got := run(t, `print(twice(21))`,
		evaluator.WithCustomFunction("twice", 1, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			n, ok := args[0].(types.Number)
			if !ok {
				return nil, fmt.Errorf("twice() expects number")
			}
			return n * 2, nil
		}),
	)
	if got != "42" {
		t.Errorf("got %q", got)
	}
}

func TestCustomFunctionVariadic(t *testing.T) {
	got := run(t, `print(count()) print(count(1, 2, 3))`,
		evaluator.WithCustomFunction("count", functions.Variadic, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return types.Number(len(args)), nil
		}),
	)
	if got != "03" {
		t.Errorf("got %q", got)
	}
}

func TestCustomFunctionReturnsError(t *testing.T) {
	err, _ := runExpectError(t, "fail()",
		evaluator.WithCustomFunction("fail", 0, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return nil, fmt.Errorf("boom")
		}),
	)
	if err.Code != types.ErrInvalidArgument || !strings.Contains(err.Message, "boom") {
		t.Errorf("unexpected error %v", err)
	}
	if err.Line != 1 {
		t.Errorf("expected position, got line %d", err.Line)
	}
}

func TestCustomFunctionNilResult(t *testing.T) {
	got := run(t, "print(nothing())",
		evaluator.WithCustomFunction("nothing", 0, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return nil, nil
		}),
	)
	if got != "nil" {
		t.Errorf("got %q", got)
	}
}

func TestCustomFunctionArity(t *testing.T) {
	err, _ := runExpectError(t, "one(1, 2)",
		evaluator.WithCustomFunction("one", 1, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return args[0], nil
		}),
	)
	if err.Code != types.ErrArgumentCount {
		t.Errorf("got code %s, want %s", err.Code, types.ErrArgumentCount)
	}
}

func TestCustomFunctionShadowedByVariable(t *testing.T) {
	got := run(t, `
		greet = function() return "script" end function
		print(greet())
	`,
		evaluator.WithCustomFunction("greet", 0, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return types.String("host"), nil
		}),
	)
	if got != "script" {
		t.Errorf("got %q", got)
	}
}

func TestCustomFunctionCannotOverrideBuiltin(t *testing.T) {
	got := run(t, "print(abs(-1))",
		evaluator.WithCustomFunction("abs", 1, func(ctx context.Context, args ...types.Value) (types.Value, error) {
			return types.Number(99), nil
		}),
	)
	if got != "1" {
		t.Errorf("got %q", got)
	}
}

func TestAdvancedCustomFunction(t *testing.T) {
	mapFn := functions.AdvancedCustomFunctionDef{
		Name:  "map",
		Arity: 2,
		Fn: func(ctx context.Context, caller functions.Caller, args ...types.Value) (types.Value, error) {
			arr, ok := args[0].(*types.Array)
			if !ok {
				return nil, fmt.Errorf("map() expects array")
			}
			out := make([]types.Value, len(arr.Elems))
			for i, el := range arr.Elems {
				v, err := caller.Call(ctx, args[1], el)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return types.NewArray(out...), nil
		},
	}

	got := run(t, "print(map([1, 2, 3], function(x) return x * x end function))",
		evaluator.WithFunctions(mapFn))
	if got != "[1, 4, 9]" {
		t.Errorf("got %q", got)
	}

	err, _ := runExpectError(t, "map([1], 5)", evaluator.WithFunctions(mapFn))
	if err.Code != types.ErrInvokeNonFunction {
		t.Errorf("got code %s, want %s", err.Code, types.ErrInvokeNonFunction)
	}
}

func TestCustomFunctionContextPropagation(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	var seen any
	ev := evaluator.New(evaluator.WithCustomFunction("peek", 0, func(ctx context.Context, args ...types.Value) (types.Value, error) {
		seen = ctx.Value(key{})
		return nil, nil
	}))
	prog, err := parser.Parse("peek()")
	if err != nil {
		t.Fatal(err)
	}
	if err := ev.Run(ctx, prog, io.Discard); err != nil {
		t.Fatal(err)
	}
	if seen != "value" {
		t.Errorf("context value not propagated, got %v", seen)
	}
}
