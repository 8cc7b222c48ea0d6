package parser

// Package parser implements the itmoscript lexer and parser.
//
// The parser is a hand-written recursive descent parser; binary operators
// are handled by precedence climbing. The whole input is tokenized first so
// that statements can be classified with a few tokens of lookahead.
//
// # Example
//
//	prog, err := parser.Parse("x = 1 + 2\nprintln(x)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stmts := prog.Statements()

import (
	"errors"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// Parse parses an itmoscript program.
//
// If parsing fails, it returns a *types.Error carrying the line and column
// of the offending token.
func Parse(source string) (*types.Program, error) {
	p := NewParser(source)
	return p.Parse()
}

// Compile parses source with the given options.
func Compile(source string, opts ...CompileOption) (*types.Program, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures compilation behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits syntactic nesting to prevent stack overflow.
	MaxDepth int
}

// WithMaxDepth sets the maximum nesting depth of statements and expressions.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// IsIncomplete reports whether err was caused by the input ending too early:
// an unterminated block or string, or a construct cut off at end of input.
// Interactive callers use it to keep reading lines.
func IsIncomplete(err error) bool {
	var e *types.Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case types.ErrStringNotClosed, types.ErrUnterminatedBlock, types.ErrUnexpectedEnd:
		return true
	default:
		return false
	}
}
