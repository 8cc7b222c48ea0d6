package parser

import (
	"fmt"

	"github.com/itmoscript/itmoscript/pkg/types"
)

// Parser implements a recursive descent parser for itmoscript programs.
// Binary operators use precedence climbing driven by the precedence table.
type Parser struct {
	source string
	tokens []Token
	pos    int
	depth  int
	err    error // lexer error, reported by Parse
	opts   CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 1000,
	}
	for _, opt := range opts {
		opt(&options)
	}

	tokens, err := Tokenize(input)
	return &Parser{
		source: input,
		tokens: tokens,
		err:    err,
		opts:   options,
	}
}

// Parse parses the entire program.
func (p *Parser) Parse() (*types.Program, error) {
	if p.err != nil {
		return nil, p.err
	}

	var stmts []types.Stmt
	for !p.at(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return types.NewProgram(stmts, p.source), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly.
var precedence = map[TokenType]int{
	TokenOr:           10,
	TokenAnd:          20,
	TokenEqual:        30,
	TokenNotEqual:     30,
	TokenLess:         40,
	TokenLessEqual:    40,
	TokenGreater:      40,
	TokenGreaterEqual: 40,
	TokenPlus:         50,
	TokenMinus:        50,
	TokenMult:         60,
	TokenDiv:          60,
	TokenMod:          60,
	TokenPow:          70, // right associative
}

// compoundOps maps compound assignment tokens to their binary operator.
var compoundOps = map[TokenType]TokenType{
	TokenPlusAssign:  TokenPlus,
	TokenMinusAssign: TokenMinus,
	TokenMultAssign:  TokenMult,
	TokenDivAssign:   TokenDiv,
	TokenModAssign:   TokenMod,
	TokenPowAssign:   TokenPow,
}

// Token helpers

func (p *Parser) current() Token {
	return p.peek(0)
}

// peek returns the token k positions ahead; past the end it returns EOF.
func (p *Parser) peek(k int) Token {
	if p.pos+k < len(p.tokens) {
		return p.tokens[p.pos+k]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) at(tt TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) match(tt TokenType) bool {
	if p.at(tt) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tt {
		return tok, p.expectedError(tt.String())
	}
	p.advance()
	return tok, nil
}

func (p *Parser) expectedError(what string) *types.Error {
	tok := p.current()
	if tok.Type == TokenEOF {
		return p.error(types.ErrUnexpectedEnd, fmt.Sprintf("Expected %s but reached end of input", what))
	}
	return p.error(types.ErrExpectedToken, fmt.Sprintf("Expected %s, got %q", what, tok.Value))
}

func (p *Parser) error(code types.ErrorCode, message string) *types.Error {
	tok := p.current()
	return types.NewError(code, message, tok.Line, tok.Column).WithToken(tok.Value)
}

func (p *Parser) enter() error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return p.error(types.ErrNestingTooDeep, "Program is nested too deeply")
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func posOf(tok Token) types.Pos {
	return types.Pos{Line: tok.Line, Column: tok.Column}
}

// Statements

func (p *Parser) parseStatement() (types.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.current()
	switch tok.Type {
	case TokenIf:
		p.advance()
		return p.parseIf(tok)
	case TokenFor:
		p.advance()
		return p.parseFor(tok)
	case TokenWhile:
		p.advance()
		return p.parseWhile(tok)
	case TokenReturn:
		p.advance()
		return p.parseReturn(tok)
	case TokenPrint:
		p.advance()
		return p.parsePrint(tok)
	case TokenBreak:
		p.advance()
		return &types.BreakStmt{Pos: posOf(tok)}, nil
	case TokenContinue:
		p.advance()
		return &types.ContinueStmt{Pos: posOf(tok)}, nil
	}

	if tok.Type == TokenIdent {
		next := p.peek(1).Type
		switch {
		case next == TokenBracketOpen && p.isIndexAssign():
			return p.parseIndexAssign()
		case next == TokenAssign && p.peek(2).Type == TokenFunction:
			return p.parseFunctionDef()
		case next == TokenAssign:
			return p.parseAssign()
		}
		if _, ok := compoundOps[next]; ok {
			return p.parseCompoundAssign()
		}
	}

	x, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &types.ExprStmt{Pos: posOf(tok), X: x}, nil
}

// isIndexAssign scans past the balanced brackets following an identifier
// and reports whether an '=' comes next.
func (p *Parser) isIndexAssign() bool {
	depth := 1
	i := p.pos + 2
	for ; i < len(p.tokens) && depth > 0; i++ {
		switch p.tokens[i].Type {
		case TokenBracketOpen:
			depth++
		case TokenBracketClose:
			depth--
		}
	}
	return depth == 0 && i < len(p.tokens) && p.tokens[i].Type == TokenAssign
}

func (p *Parser) parseAssign() (types.Stmt, error) {
	name := p.advance()
	p.advance() // =
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &types.AssignStmt{Pos: posOf(name), Name: name.Value, Value: value}, nil
}

// parseCompoundAssign desugars "x op= e" into "x = x op e".
func (p *Parser) parseCompoundAssign() (types.Stmt, error) {
	name := p.advance()
	opTok := p.advance()
	rhs, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &types.AssignStmt{
		Pos:  posOf(name),
		Name: name.Value,
		Value: &types.BinaryExpr{
			Pos: posOf(opTok),
			Op:  compoundOps[opTok.Type].String(),
			LHS: &types.Ident{Pos: posOf(name), Name: name.Value},
			RHS: rhs,
		},
	}, nil
}

func (p *Parser) parseIndexAssign() (types.Stmt, error) {
	name := p.advance()
	p.advance() // [
	index, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &types.IndexAssignStmt{Pos: posOf(name), Name: name.Value, Index: index, Value: value}, nil
}

func (p *Parser) parseFunctionDef() (types.Stmt, error) {
	name := p.advance()
	p.advance() // =
	p.advance() // function
	params, body, err := p.parseFunctionRest()
	if err != nil {
		return nil, err
	}
	return &types.FuncDefStmt{Pos: posOf(name), Name: name.Value, Params: params, Body: body}, nil
}

// parseFunctionRest parses "(params) body end function" after the
// function keyword.
func (p *Parser) parseFunctionRest() ([]string, []types.Stmt, error) {
	if _, err := p.expect(TokenParenOpen); err != nil {
		return nil, nil, err
	}
	params := []string{}
	if !p.at(TokenParenClose) {
		for {
			param, err := p.expect(TokenIdent)
			if err != nil {
				return nil, nil, err
			}
			params = append(params, param.Value)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, nil, err
	}
	body, err := p.parseBlockUntil(TokenEndFunction)
	if err != nil {
		return nil, nil, err
	}
	return params, body, nil
}

func (p *Parser) parseIf(ifTok Token) (types.Stmt, error) {
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenThen); err != nil {
		return nil, err
	}

	stmt := &types.IfStmt{Pos: posOf(ifTok), Cond: cond}
	for !p.at(TokenElse) && !p.at(TokenEndIf) {
		if p.at(TokenEOF) {
			return nil, p.unterminated(TokenEndIf)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmt.Then = append(stmt.Then, s)
	}

	if p.match(TokenElse) {
		if elseIf := p.current(); elseIf.Type == TokenIf {
			p.advance()
			nested, err := p.parseIf(elseIf)
			if err != nil {
				return nil, err
			}
			stmt.Else = []types.Stmt{nested}
			return stmt, nil
		}
		stmt.Else, err = p.parseBlockUntil(TokenEndIf)
		if err != nil {
			return nil, err
		}
		return stmt, nil
	}

	p.advance() // end if
	return stmt, nil
}

func (p *Parser) parseFor(forTok Token) (types.Stmt, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(TokenEndFor)
	if err != nil {
		return nil, err
	}
	return &types.ForStmt{Pos: posOf(forTok), Var: name.Value, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseWhile(whileTok Token) (types.Stmt, error) {
	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(TokenEndWhile)
	if err != nil {
		return nil, err
	}
	return &types.WhileStmt{Pos: posOf(whileTok), Cond: cond, Body: body}, nil
}

// parseReturn parses "return expr". A return directly followed by a block
// terminator or the end of input returns nil.
func (p *Parser) parseReturn(retTok Token) (types.Stmt, error) {
	if next := p.current().Type; next == TokenEOF || isTerminator(next) {
		return &types.ReturnStmt{Pos: posOf(retTok)}, nil
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	return &types.ReturnStmt{Pos: posOf(retTok), Value: value}, nil
}

func (p *Parser) parsePrint(printTok Token) (types.Stmt, error) {
	if _, err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return &types.PrintStmt{Pos: posOf(printTok), Value: value}, nil
}

// parseBlockUntil parses statements up to and including the stop token.
func (p *Parser) parseBlockUntil(stop TokenType) ([]types.Stmt, error) {
	out := []types.Stmt{}
	for !p.at(stop) {
		if p.at(TokenEOF) {
			return nil, p.unterminated(stop)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	p.advance()
	return out, nil
}

func (p *Parser) unterminated(stop TokenType) *types.Error {
	return p.error(types.ErrUnterminatedBlock, fmt.Sprintf("Unterminated block, expected %q", stop.String()))
}

// Expressions

// parseExpression parses a binary expression whose operators bind at least
// as tightly as minPrec.
func (p *Parser) parseExpression(minPrec int) (types.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.current()
		prec, ok := precedence[opTok.Type]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()

		next := prec + 1
		if opTok.Type == TokenPow {
			next = prec
		}
		right, err := p.parseExpression(next)
		if err != nil {
			return nil, err
		}
		left = &types.BinaryExpr{Pos: posOf(opTok), Op: opTok.Type.String(), LHS: left, RHS: right}
	}
}

func (p *Parser) parseUnary() (types.Expr, error) {
	tok := p.current()
	if tok.Type == TokenMinus || tok.Type == TokenNot {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &types.UnaryExpr{Pos: posOf(tok), Op: tok.Type.String(), Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses calls, indexing and slicing applied to a primary.
func (p *Parser) parsePostfix() (types.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		switch tok.Type {
		case TokenParenOpen:
			p.advance()
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &types.CallExpr{Pos: posOf(tok), Callee: expr, Args: args}

		case TokenBracketOpen:
			p.advance()
			expr, err = p.parseIndexOrSlice(tok, expr)
			if err != nil {
				return nil, err
			}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArguments() ([]types.Expr, error) {
	args := []types.Expr{}
	if !p.at(TokenParenClose) {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return args, nil
}

// parseIndexOrSlice parses the part after '[': "i]", ":]", ":e]", "s:]" or "s:e]".
func (p *Parser) parseIndexOrSlice(open Token, target types.Expr) (types.Expr, error) {
	var start types.Expr
	if !p.at(TokenColon) {
		first, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if !p.at(TokenColon) {
			if _, err := p.expect(TokenBracketClose); err != nil {
				return nil, err
			}
			return &types.IndexExpr{Pos: posOf(open), Target: target, Index: first}, nil
		}
		start = first
	}

	p.advance() // :
	var end types.Expr
	if !p.at(TokenBracketClose) {
		var err error
		end, err = p.parseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}
	return &types.SliceExpr{Pos: posOf(open), Target: target, Start: start, End: end}, nil
}

func (p *Parser) parsePrimary() (types.Expr, error) {
	tok := p.current()
	pos := posOf(tok)

	switch tok.Type {
	case TokenNumber:
		p.advance()
		return &types.NumberLit{Pos: pos, Value: tok.Num}, nil

	case TokenString:
		p.advance()
		return &types.StringLit{Pos: pos, Value: tok.Value}, nil

	case TokenNil:
		p.advance()
		return &types.NilLit{Pos: pos}, nil

	case TokenTrue:
		p.advance()
		return &types.NumberLit{Pos: pos, Value: 1}, nil

	case TokenFalse:
		p.advance()
		return &types.NumberLit{Pos: pos, Value: 0}, nil

	case TokenLen:
		p.advance()
		if _, err := p.expect(TokenParenOpen); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return &types.LenExpr{Pos: pos, Arg: arg}, nil

	case TokenFunction:
		p.advance()
		params, body, err := p.parseFunctionRest()
		if err != nil {
			return nil, err
		}
		return &types.FuncLit{Pos: pos, Params: params, Body: body}, nil

	case TokenIdent:
		p.advance()
		return &types.Ident{Pos: pos, Name: tok.Value}, nil

	case TokenBracketOpen:
		p.advance()
		return p.parseArrayLiteral(pos)

	case TokenParenOpen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input")

	default:
		return nil, p.error(types.ErrUnexpectedToken, fmt.Sprintf("Unexpected token %q", tok.Value))
	}
}

// parseArrayLiteral parses the elements after '['. A trailing comma is allowed.
func (p *Parser) parseArrayLiteral(pos types.Pos) (types.Expr, error) {
	elems := []types.Expr{}
	if !p.at(TokenBracketClose) {
		for {
			elem, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if !p.match(TokenComma) || p.at(TokenBracketClose) {
				break
			}
		}
	}
	if _, err := p.expect(TokenBracketClose); err != nil {
		return nil, err
	}
	return &types.ArrayLit{Pos: pos, Elems: elems}, nil
}
