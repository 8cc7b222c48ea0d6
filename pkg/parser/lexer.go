package parser

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/itmoscript/itmoscript/pkg/types"
)

const eof = -1

// Lexer converts itmoscript source into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input      string // Input string being scanned
	length     int    // Length of input string
	start      int    // Start position of current token
	current    int    // Current position in input
	width      int    // Width of last rune read
	lineStarts []int  // Byte offset of the first character of every line
	err        error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	lineStarts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &Lexer{
		input:      input,
		length:     len(input),
		lineStarts: lineStarts,
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all subsequent calls.
// A lexical error yields TokenError; the error is then available from Error.
func (l *Lexer) Next() Token {
	if l.err != nil {
		return l.eof()
	}
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Two-character symbols first (e.g. ==, +=)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	if ch == '"' {
		return l.scanString()
	}

	if isDigit(ch) || (ch == '.' && isDigit(l.peekRune())) {
		l.backup()
		return l.scanNumber()
	}

	if isIdentStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.newToken(TokenUnknown)
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// Tokenize lexes the whole input. The returned slice always ends with a
// TokenEOF token unless an error is returned.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.Next()
		if tok.Type == TokenError {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// scanString reads a string literal. The opening quote has already been
// consumed. Only \n and \" are special escapes; any other escaped
// character stands for itself.
func (l *Lexer) scanString() Token {
	var sb strings.Builder
	for {
		switch ch := l.nextRune(); ch {
		case '"':
			t := l.newToken(TokenString)
			t.Value = sb.String()
			return t
		case '\\':
			esc := l.nextRune()
			switch esc {
			case eof:
				return l.error(types.ErrStringNotClosed, "Unterminated string literal")
			case 'n':
				sb.WriteByte('\n')
			default:
				sb.WriteRune(esc)
			}
		case eof:
			return l.error(types.ErrStringNotClosed, "Unterminated string literal")
		default:
			sb.WriteRune(ch)
		}
	}
}

// scanNumber reads a number literal from the current position.
// Format: [0-9]*(\.[0-9]*)?([eE][+-]?[0-9]*)?
func (l *Lexer) scanNumber() Token {
	l.acceptAll(isDigit)
	if l.acceptRune('.') {
		l.acceptAll(isDigit)
	}
	if l.acceptRunes2('e', 'E') {
		l.acceptRunes2('+', '-')
		l.acceptAll(isDigit)
	}

	t := l.newToken(TokenNumber)
	num, err := strconv.ParseFloat(t.Value, 64)
	if err != nil {
		// A dangling exponent such as "1e" keeps its mantissa.
		var ok bool
		if num, ok = types.ParseNumberPrefix(t.Value); !ok {
			l.err = types.NewError(types.ErrBadNumber, "Invalid number literal", t.Line, t.Column).WithToken(t.Value)
			t.Type = TokenError
			return t
		}
	}
	t.Num = num
	return t
}

// scanName reads an identifier or keyword. The word "end" merges with a
// following if, for, function or while into a single terminator token.
func (l *Lexer) scanName() Token {
	l.acceptAll(isIdentPart)
	t := l.newToken(TokenIdent)

	tt := lookupKeyword(t.Value)
	if tt == 0 {
		return t
	}
	t.Type = tt
	if tt != TokenEnd {
		return t
	}

	mark := l.current
	l.skipWhitespace()
	for _, term := range endTerminators {
		if l.wordAhead(term.word) {
			l.current += len(term.word)
			l.ignore()
			t.Type = term.tt
			t.Value = "end " + term.word
			return t
		}
	}
	l.current = mark
	l.ignore()
	return t
}

// wordAhead reports whether word starts at the current position and is not
// followed by an identifier character.
func (l *Lexer) wordAhead(word string) bool {
	if !strings.HasPrefix(l.input[l.current:], word) {
		return false
	}
	next := l.current + len(word)
	if next >= l.length {
		return true
	}
	r, _ := utf8.DecodeRuneInString(l.input[next:])
	return !isIdentPart(r)
}

// Helper methods

// position converts a byte offset into a 1-based line and column.
func (l *Lexer) position(offset int) (int, int) {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	return line, offset - l.lineStarts[line-1] + 1
}

func (l *Lexer) eof() Token {
	line, col := l.position(l.length)
	return Token{
		Type:   TokenEOF,
		Line:   line,
		Column: col,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = types.NewError(code, message, t.Line, t.Column).WithToken(t.Value)
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	line, col := l.position(l.start)
	t := Token{
		Type:   tt,
		Value:  l.input[l.start:l.current],
		Line:   line,
		Column: col,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peekRune() rune {
	if l.current >= l.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) acceptRunes2(r1, r2 rune) bool {
	return l.accept(func(c rune) bool {
		return c == r1 || c == r2
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// skipWhitespace skips blanks, semicolons, and # or // line comments.
func (l *Lexer) skipWhitespace() {
	for {
		l.acceptAll(isWhitespace)
		l.ignore()

		switch {
		case l.acceptRune('#'):
		case strings.HasPrefix(l.input[l.current:], "//"):
			l.current += 2
		default:
			return
		}
		for {
			ch := l.nextRune()
			if ch == eof || ch == '\n' {
				break
			}
		}
		l.ignore()
	}
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', ';':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
