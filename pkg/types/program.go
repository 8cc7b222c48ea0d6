// Package types defines the core type system for itmoscript.
//
// This package contains type definitions for:
//   - Program: compiled scripts
//   - Expr / Stmt: Abstract Syntax Tree nodes
//   - Value: runtime values (nil, number, string, array, function)
//   - Environment: lexically chained variable scopes
//   - Error types: structured errors with codes and positions
package types

// Program represents a compiled itmoscript program.
//
// A Program can be executed many times by passing it to
// [evaluator.Evaluator.Run]. It is never modified after parsing and is
// safe for concurrent use by multiple goroutines.
type Program struct {
	stmts  []Stmt
	source string
}

// NewProgram creates a new Program from parsed statements.
func NewProgram(stmts []Stmt, source string) *Program {
	return &Program{
		stmts:  stmts,
		source: source,
	}
}

// Statements returns the top-level statements of the program.
func (p *Program) Statements() []Stmt {
	return p.stmts
}

// Source returns the original source code of the program.
func (p *Program) Source() string {
	return p.source
}

// String returns the source of the program.
func (p *Program) String() string {
	return p.source
}
