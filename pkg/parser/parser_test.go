package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

// Helper functions

func parseProgram(t *testing.T, input string) *types.Program {
	t.Helper()
	prog, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return prog
}

func expectError(t *testing.T, input string, code types.ErrorCode) *types.Error {
	t.Helper()
	_, err := parser.Parse(input)
	if err == nil {
		t.Fatalf("Expected error parsing %q but got none", input)
	}
	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("Expected *types.Error, got %T", err)
	}
	if code != "" && e.Code != code {
		t.Errorf("parsing %q: code = %s, want %s (%v)", input, e.Code, code, err)
	}
	return e
}

// sexpr renders nodes compactly so tests can compare tree shapes.
func sexpr(n types.Node) string {
	switch x := n.(type) {
	case nil:
		return "_"
	case *types.NumberLit:
		return types.FormatNumber(x.Value)
	case *types.StringLit:
		return fmt.Sprintf("%q", x.Value)
	case *types.NilLit:
		return "nil"
	case *types.Ident:
		return x.Name
	case *types.UnaryExpr:
		return fmt.Sprintf("(%s %s)", x.Op, sexpr(x.Operand))
	case *types.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", x.Op, sexpr(x.LHS), sexpr(x.RHS))
	case *types.IndexExpr:
		return fmt.Sprintf("(idx %s %s)", sexpr(x.Target), sexpr(x.Index))
	case *types.SliceExpr:
		return fmt.Sprintf("(slice %s %s %s)", sexpr(x.Target), exprOrBlank(x.Start), exprOrBlank(x.End))
	case *types.ArrayLit:
		return "[" + joinExprs(x.Elems) + "]"
	case *types.LenExpr:
		return fmt.Sprintf("(len %s)", sexpr(x.Arg))
	case *types.FuncLit:
		return fmt.Sprintf("(fn (%s) %s)", strings.Join(x.Params, " "), joinStmts(x.Body))
	case *types.CallExpr:
		return fmt.Sprintf("(call %s %s)", sexpr(x.Callee), joinExprs(x.Args))
	case *types.ExprStmt:
		return sexpr(x.X)
	case *types.AssignStmt:
		return fmt.Sprintf("(= %s %s)", x.Name, sexpr(x.Value))
	case *types.IndexAssignStmt:
		return fmt.Sprintf("(=[] %s %s %s)", x.Name, sexpr(x.Index), sexpr(x.Value))
	case *types.FuncDefStmt:
		return fmt.Sprintf("(def %s (%s) %s)", x.Name, strings.Join(x.Params, " "), joinStmts(x.Body))
	case *types.ReturnStmt:
		return fmt.Sprintf("(return %s)", exprOrBlank(x.Value))
	case *types.PrintStmt:
		return fmt.Sprintf("(print %s)", sexpr(x.Value))
	case *types.BreakStmt:
		return "break"
	case *types.ContinueStmt:
		return "continue"
	case *types.IfStmt:
		return fmt.Sprintf("(if %s {%s} {%s})", sexpr(x.Cond), joinStmts(x.Then), joinStmts(x.Else))
	case *types.ForStmt:
		return fmt.Sprintf("(for %s %s {%s})", x.Var, sexpr(x.Iterable), joinStmts(x.Body))
	case *types.WhileStmt:
		return fmt.Sprintf("(while %s {%s})", sexpr(x.Cond), joinStmts(x.Body))
	}
	return fmt.Sprintf("<%T>", n)
}

func exprOrBlank(e types.Expr) string {
	if e == nil {
		return "_"
	}
	return sexpr(e)
}

func joinExprs(es []types.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = sexpr(e)
	}
	return strings.Join(parts, " ")
}

func joinStmts(ss []types.Stmt) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = sexpr(s)
	}
	return strings.Join(parts, "; ")
}

func parsedShape(t *testing.T, input string) string {
	t.Helper()
	return joinStmts(parseProgram(t, input).Statements())
}

func runShapeTests(t *testing.T, tests []struct{ name, input, want string }) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsedShape(t, tt.input); got != tt.want {
				t.Errorf("parse %q\n got: %s\nwant: %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLiterals(t *testing.T) {
	runShapeTests(t, []struct{ name, input, want string }{
		{"number", "42", "42"},
		{"fraction", "3.5", "3.5"},
		{"string", `"hi"`, `"hi"`},
		{"nil", "nil", "nil"},
		{"true is one", "true", "1"},
		{"false is zero", "false", "0"},
		{"array", "[1, \"a\", nil]", `[1 "a" nil]`},
		{"array trailing comma", "[1, 2,]", "[1 2]"},
		{"empty array", "[]", "[]"},
		{"len", "len(s)", "(len s)"},
	})
}

func TestOperatorPrecedence(t *testing.T) {
	runShapeTests(t, []struct{ name, input, want string }{
		{"mult over add", "1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"left assoc sub", "1 - 2 - 3", "(- (- 1 2) 3)"},
		{"power right assoc", "2 ^ 3 ^ 2", "(^ 2 (^ 3 2))"},
		{"power over mult", "2 * 3 ^ 2", "(* 2 (^ 3 2))"},
		{"unary binds tighter than power", "-2 ^ 2", "(^ (- 2) 2)"},
		{"power with unary exponent", "2 ^ -1", "(^ 2 (- 1))"},
		{"comparison over equality", "a < b == c > d", "(== (< a b) (> c d))"},
		{"and over or", "a or b and c", "(or a (and b c))"},
		{"not then equality", "not a == b", "(== (not a) b)"},
		{"parentheses", "(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"modulo", "7 % 3 / 2", "(/ (% 7 3) 2)"},
	})
}

func TestParsePostfix(t *testing.T) {
	runShapeTests(t, []struct{ name, input, want string }{
		{"call", "f(1, 2)", "(call f 1 2)"},
		{"call no args", "f()", "(call f )"},
		{"chained call", "f(1)(2)", "(call (call f 1) 2)"},
		{"index", "a[0]", "(idx a 0)"},
		{"nested index", "a[1][2]", "(idx (idx a 1) 2)"},
		{"slice full", "a[:]", "(slice a _ _)"},
		{"slice end", "a[:2]", "(slice a _ 2)"},
		{"slice start", "a[1:]", "(slice a 1 _)"},
		{"slice both", "a[1:-1]", "(slice a 1 (- 1))"},
		{"call result indexed", "f()[0]", "(idx (call f ) 0)"},
		{"function literal called", "function(x) return x end function(5)", "(call (fn (x) (return x)) 5)"},
	})
}

func TestParseStatements(t *testing.T) {
	runShapeTests(t, []struct{ name, input, want string }{
		{"assign", "x = 1", "(= x 1)"},
		{"compound assign", "x += 2", "(= x (+ x 2))"},
		{"compound power", "x ^= 2", "(= x (^ x 2))"},
		{"index assign", "a[i + 1] = 5", "(=[] a (+ i 1) 5)"},
		{"index assign nested brackets", "a[b[0]] = 1", "(=[] a (idx b 0) 1)"},
		{"nested index is expression", "a[1][2]", "(idx (idx a 1) 2)"},
		{"function def", "f = function(a, b) return a + b end function", "(def f (a b) (return (+ a b)))"},
		{"function value assign", "f = g", "(= f g)"},
		{"print statement", "print(1)", "(print 1)"},
		{"println is a call", "println(1)", "(call println 1)"},
		{"break and continue", "while 1 break continue end while", "(while 1 {break; continue})"},
		{"statements separated by semicolons", "a = 1; b = 2", "(= a 1); (= b 2)"},
	})
}

func TestParseControlFlow(t *testing.T) {
	runShapeTests(t, []struct{ name, input, want string }{
		{"if", "if x then y = 1 end if", "(if x {(= y 1)} {})"},
		{"if else", "if x then 1 else 2 end if", "(if x {1} {2})"},
		{
			"else if chain",
			"if a then 1 else if b then 2 else 3 end if",
			"(if a {1} {(if b {2} {3})})",
		},
		{"for", "for v in [1, 2] print(v) end for", "(for v [1 2] {(print v)})"},
		{"while", "while i < 3 i += 1 end while", "(while (< i 3) {(= i (+ i 1))})"},
		{"return value", "f = function() return 1 end function", "(def f () (return 1))"},
		{"bare return", "f = function() return end function", "(def f () (return _))"},
		{"bare return before else", "if x then return else y end if", "(if x {(return _)} {y})"},
		{"bare return at end", "return", "(return _)"},
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  types.ErrorCode
	}{
		{"unterminated if", "if x then y = 1", types.ErrUnterminatedBlock},
		{"unterminated else", "if x then 1 else 2", types.ErrUnterminatedBlock},
		{"unterminated function", "f = function() return 1", types.ErrUnterminatedBlock},
		{"unterminated while", "while 1", types.ErrUnterminatedBlock},
		{"unterminated for", "for x in a", types.ErrUnterminatedBlock},
		{"missing then", "if x y end if", types.ErrExpectedToken},
		{"missing paren at end", "f(1", types.ErrUnexpectedEnd},
		{"dangling operator", "1 +", types.ErrUnexpectedEnd},
		{"unexpected token", "1 + )", types.ErrUnexpectedToken},
		{"unknown character", "x = @", types.ErrUnexpectedToken},
		{"stray end", "end", types.ErrUnexpectedToken},
		{"wrong terminator", "while 1 end for", types.ErrUnexpectedToken},
		{"bad parameter", "f = function(1) end function", types.ErrExpectedToken},
		{"for without in", "for x [1] end for", types.ErrExpectedToken},
		{"unterminated string", `print("abc)`, types.ErrStringNotClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.input, tt.code)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	e := expectError(t, "x = 1\ny = (2 + ]", types.ErrUnexpectedToken)
	if e.Line != 2 || e.Column != 10 {
		t.Errorf("position = %d:%d, want 2:10", e.Line, e.Column)
	}
	if !strings.Contains(e.Error(), "line 2, col 10") {
		t.Errorf("message %q lacks position", e.Error())
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"if x then", true},
		{"f = function(a)", true},
		{"x = [1, 2", true},
		{`s = "open`, true},
		{"x = 1 +", true},
		{"x = )", false},
		{"if x y end if", false},
	}
	for _, tt := range tests {
		_, err := parser.Parse(tt.input)
		if err == nil {
			t.Fatalf("expected error for %q", tt.input)
		}
		if got := parser.IsIncomplete(err); got != tt.want {
			t.Errorf("IsIncomplete(%q) = %v, want %v (%v)", tt.input, got, tt.want, err)
		}
	}
	if parser.IsIncomplete(errors.New("plain")) {
		t.Error("plain errors are never incomplete")
	}
}

func TestCompileMaxDepth(t *testing.T) {
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	if _, err := parser.Compile(src); err != nil {
		t.Fatalf("default depth rejected: %v", err)
	}
	_, err := parser.Compile(src, parser.WithMaxDepth(20))
	var e *types.Error
	if !errors.As(err, &e) || e.Code != types.ErrNestingTooDeep {
		t.Fatalf("expected nesting error, got %v", err)
	}
}

func TestProgramKeepsSource(t *testing.T) {
	src := "x = 1\nprint(x)"
	prog := parseProgram(t, src)
	if prog.Source() != src {
		t.Errorf("Source() = %q", prog.Source())
	}
	if len(prog.Statements()) != 2 {
		t.Errorf("got %d statements", len(prog.Statements()))
	}
	if pos := prog.Statements()[1].Position(); pos.Line != 2 || pos.Column != 1 {
		t.Errorf("second statement at %d:%d", pos.Line, pos.Column)
	}
}

func TestEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "   ", "# only a comment", ";;;"} {
		prog := parseProgram(t, src)
		if len(prog.Statements()) != 0 {
			t.Errorf("%q: got %d statements", src, len(prog.Statements()))
		}
	}
}
