package parser_test

import (
	"testing"

	"github.com/itmoscript/itmoscript/pkg/parser"
	"github.com/itmoscript/itmoscript/pkg/types"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func TestLexerWhitespaceAndComments(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "leading blanks",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenIdent, Value: "abc", Line: 1, Column: 4},
			},
		},
		{
			name:  "semicolons are blanks",
			input: "a;;b",
			expected: []parser.Token{
				{Type: parser.TokenIdent, Value: "a", Line: 1, Column: 1},
				{Type: parser.TokenIdent, Value: "b", Line: 1, Column: 4},
			},
		},
		{
			name:  "hash comment",
			input: "# note\nx",
			expected: []parser.Token{
				{Type: parser.TokenIdent, Value: "x", Line: 2, Column: 1},
			},
		},
		{
			name:  "slash comment",
			input: "x // trailing\n  y",
			expected: []parser.Token{
				{Type: parser.TokenIdent, Value: "x", Line: 1, Column: 1},
				{Type: parser.TokenIdent, Value: "y", Line: 2, Column: 3},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerOperators(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "two character before one character",
			input: "== != >= <= += -= *= /= %= ^=",
			expected: []parser.Token{
				{Type: parser.TokenEqual, Value: "==", Line: 1, Column: 1},
				{Type: parser.TokenNotEqual, Value: "!=", Line: 1, Column: 4},
				{Type: parser.TokenGreaterEqual, Value: ">=", Line: 1, Column: 7},
				{Type: parser.TokenLessEqual, Value: "<=", Line: 1, Column: 10},
				{Type: parser.TokenPlusAssign, Value: "+=", Line: 1, Column: 13},
				{Type: parser.TokenMinusAssign, Value: "-=", Line: 1, Column: 16},
				{Type: parser.TokenMultAssign, Value: "*=", Line: 1, Column: 19},
				{Type: parser.TokenDivAssign, Value: "/=", Line: 1, Column: 22},
				{Type: parser.TokenModAssign, Value: "%=", Line: 1, Column: 25},
				{Type: parser.TokenPowAssign, Value: "^=", Line: 1, Column: 28},
			},
		},
		{
			name:  "single characters",
			input: "=<>+-*/%^()[],:",
			expected: []parser.Token{
				{Type: parser.TokenAssign, Value: "=", Line: 1, Column: 1},
				{Type: parser.TokenLess, Value: "<", Line: 1, Column: 2},
				{Type: parser.TokenGreater, Value: ">", Line: 1, Column: 3},
				{Type: parser.TokenPlus, Value: "+", Line: 1, Column: 4},
				{Type: parser.TokenMinus, Value: "-", Line: 1, Column: 5},
				{Type: parser.TokenMult, Value: "*", Line: 1, Column: 6},
				{Type: parser.TokenDiv, Value: "/", Line: 1, Column: 7},
				{Type: parser.TokenMod, Value: "%", Line: 1, Column: 8},
				{Type: parser.TokenPow, Value: "^", Line: 1, Column: 9},
				{Type: parser.TokenParenOpen, Value: "(", Line: 1, Column: 10},
				{Type: parser.TokenParenClose, Value: ")", Line: 1, Column: 11},
				{Type: parser.TokenBracketOpen, Value: "[", Line: 1, Column: 12},
				{Type: parser.TokenBracketClose, Value: "]", Line: 1, Column: 13},
				{Type: parser.TokenComma, Value: ",", Line: 1, Column: 14},
				{Type: parser.TokenColon, Value: ":", Line: 1, Column: 15},
			},
		},
		{
			name:  "unknown characters",
			input: "a ! @",
			expected: []parser.Token{
				{Type: parser.TokenIdent, Value: "a", Line: 1, Column: 1},
				{Type: parser.TokenUnknown, Value: "!", Line: 1, Column: 3},
				{Type: parser.TokenUnknown, Value: "@", Line: 1, Column: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerKeywords(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "keywords and identifiers",
			input: "if then else_ x1 not",
			expected: []parser.Token{
				{Type: parser.TokenIf, Value: "if", Line: 1, Column: 1},
				{Type: parser.TokenThen, Value: "then", Line: 1, Column: 4},
				{Type: parser.TokenIdent, Value: "else_", Line: 1, Column: 9},
				{Type: parser.TokenIdent, Value: "x1", Line: 1, Column: 15},
				{Type: parser.TokenNot, Value: "not", Line: 1, Column: 18},
			},
		},
		{
			name:  "compound terminators",
			input: "end if end  for end\nfunction end while",
			expected: []parser.Token{
				{Type: parser.TokenEndIf, Value: "end if", Line: 1, Column: 1},
				{Type: parser.TokenEndFor, Value: "end for", Line: 1, Column: 8},
				{Type: parser.TokenEndFunction, Value: "end function", Line: 1, Column: 17},
				{Type: parser.TokenEndWhile, Value: "end while", Line: 2, Column: 10},
			},
		},
		{
			name:  "terminator across comment",
			input: "end # done\nif",
			expected: []parser.Token{
				{Type: parser.TokenEndIf, Value: "end if", Line: 1, Column: 1},
			},
		},
		{
			name:  "bare end",
			input: "end iffy",
			expected: []parser.Token{
				{Type: parser.TokenEnd, Value: "end", Line: 1, Column: 1},
				{Type: parser.TokenIdent, Value: "iffy", Line: 1, Column: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"0", 0},
		{"42", 42},
		{"3.14", 3.14},
		{".5", 0.5},
		{"7.", 7},
		{"1.23e-2", 0.0123},
		{"2E3", 2000},
		{"1e", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := parser.Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != 2 || tokens[0].Type != parser.TokenNumber {
				t.Fatalf("got tokens %v", tokens)
			}
			if tokens[0].Num != tt.want {
				t.Errorf("Num = %v, want %v", tokens[0].Num, tt.want)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "plain",
			input: `"hello world"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "hello world", Line: 1, Column: 1},
			},
		},
		{
			name:  "escapes",
			input: `"a\nb\"c\\d\te"`,
			expected: []parser.Token{
				{Type: parser.TokenString, Value: "a\nb\"c\\dte", Line: 1, Column: 1},
			},
		},
		{
			name:      "unterminated",
			input:     `x = "abc`,
			expectErr: true,
		},
		{
			name:      "unterminated after escape",
			input:     `"abc\`,
			expectErr: true,
		},
	}

	runLexerTests(t, tests)
}

func TestLexerErrorIsCoded(t *testing.T) {
	_, err := parser.Tokenize("\n  \"open")
	e, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("expected *types.Error, got %T", err)
	}
	if e.Code != types.ErrStringNotClosed {
		t.Errorf("code = %s", e.Code)
	}
	if e.Line != 2 || e.Column != 3 {
		t.Errorf("position = %d:%d, want 2:3", e.Line, e.Column)
	}
	if !parser.IsIncomplete(err) {
		t.Error("unterminated string should be incomplete")
	}
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexer := parser.NewLexer(test.input)
			tokens := []parser.Token{}

			for {
				tok := lexer.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if !test.expectErr {
						t.Errorf("unexpected error: %v", lexer.Error())
					}
					return
				}
				tokens = append(tokens, tok)
			}

			if test.expectErr {
				t.Error("expected error but got none")
				return
			}

			if len(tokens) != len(test.expected) {
				t.Errorf("got %d tokens, want %d\nGot: %v\nWant: %v",
					len(tokens), len(test.expected), tokens, test.expected)
				return
			}

			for i, tok := range tokens {
				exp := test.expected[i]
				if tok.Type != exp.Type {
					t.Errorf("token %d: type = %v, want %v", i, tok.Type, exp.Type)
				}
				if tok.Value != exp.Value {
					t.Errorf("token %d: value = %q, want %q", i, tok.Value, exp.Value)
				}
				if tok.Line != exp.Line || tok.Column != exp.Column {
					t.Errorf("token %d: position = %d:%d, want %d:%d", i, tok.Line, tok.Column, exp.Line, exp.Column)
				}
			}

			// Verify EOF is returned consistently
			for i := 0; i < 3; i++ {
				if tok := lexer.Next(); tok.Type != parser.TokenEOF {
					t.Errorf("expected EOF after end, got %v", tok.Type)
				}
			}
		})
	}
}
