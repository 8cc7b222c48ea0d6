package evaluator_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/itmoscript/itmoscript/pkg/evaluator"
	"github.com/itmoscript/itmoscript/pkg/parser"
)

func FuzzEvaluator(f *testing.F) {
	seeds := []string{
		`print(1 + 2 * 3)`,
		`a = [1, 2, 3] for x in a print(x) end for`,
		`f = function(n) if n < 2 then return n end if return f(n-1) + f(n-2) end function print(f(10))`,
		`s = "hello" print(s[1:3] + upper(s))`,
		`i = 0 while i < 5 i += 1 end while`,
		`print(sort(split("c,b,a", ",")))`,
		`print(1 / 0)`,
		`x[0] = 1`,
		``,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		prog, err := parser.Parse(input)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		ev := evaluator.New(evaluator.WithSeed(1), evaluator.WithMaxDepth(200))
		_ = ev.Run(ctx, prog, io.Discard)
	})
}
