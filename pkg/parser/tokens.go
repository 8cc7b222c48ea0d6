package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenError
	TokenUnknown // any character the lexer does not recognize

	TokenIdent  // name
	TokenNumber // 123, 3.14, .5, 1e-10
	TokenString // "hello"

	// Keywords
	TokenFunction
	TokenIf
	TokenThen
	TokenElse
	TokenFor
	TokenIn
	TokenWhile
	TokenReturn
	TokenNil
	TokenPrint
	TokenLen
	TokenTrue
	TokenFalse
	TokenAnd
	TokenOr
	TokenNot
	TokenBreak
	TokenContinue

	// Block terminators
	TokenEnd         // end
	TokenEndIf       // end if
	TokenEndFor      // end for
	TokenEndFunction // end function
	TokenEndWhile    // end while

	TokenParenOpen    // (
	TokenParenClose   // )
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenComma        // ,
	TokenColon        // :

	TokenAssign // =
	TokenPlus   // +
	TokenMinus  // -
	TokenMult   // *
	TokenDiv    // /
	TokenMod    // %
	TokenPow    // ^

	TokenEqual        // ==
	TokenNotEqual     // !=
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=

	TokenPlusAssign  // +=
	TokenMinusAssign // -=
	TokenMultAssign  // *=
	TokenDivAssign   // /=
	TokenModAssign   // %=
	TokenPowAssign   // ^=
)

var tokenNames = [...]string{
	TokenEOF:          "(eof)",
	TokenError:        "(error)",
	TokenUnknown:      "(unknown)",
	TokenIdent:        "(identifier)",
	TokenNumber:       "(number)",
	TokenString:       "(string)",
	TokenFunction:     "function",
	TokenIf:           "if",
	TokenThen:         "then",
	TokenElse:         "else",
	TokenFor:          "for",
	TokenIn:           "in",
	TokenWhile:        "while",
	TokenReturn:       "return",
	TokenNil:          "nil",
	TokenPrint:        "print",
	TokenLen:          "len",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenAnd:          "and",
	TokenOr:           "or",
	TokenNot:          "not",
	TokenBreak:        "break",
	TokenContinue:     "continue",
	TokenEnd:          "end",
	TokenEndIf:        "end if",
	TokenEndFor:       "end for",
	TokenEndFunction:  "end function",
	TokenEndWhile:     "end while",
	TokenParenOpen:    "(",
	TokenParenClose:   ")",
	TokenBracketOpen:  "[",
	TokenBracketClose: "]",
	TokenComma:        ",",
	TokenColon:        ":",
	TokenAssign:       "=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenMult:         "*",
	TokenDiv:          "/",
	TokenMod:          "%",
	TokenPow:          "^",
	TokenEqual:        "==",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenPlusAssign:   "+=",
	TokenMinusAssign:  "-=",
	TokenMultAssign:   "*=",
	TokenDivAssign:    "/=",
	TokenModAssign:    "%=",
	TokenPowAssign:    "^=",
}

func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) && tokenNames[tt] != "" {
		return tokenNames[tt]
	}
	return "(unknown)"
}

// Token represents a lexical token in an itmoscript program.
type Token struct {
	Type   TokenType // Type of the token
	Value  string    // Literal text; escapes are resolved for strings
	Num    float64   // Numeric payload of TokenNumber
	Line   int       // 1-based line of the first character
	Column int       // 1-based column of the first character
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	'[': TokenBracketOpen,
	']': TokenBracketClose,
	',': TokenComma,
	':': TokenColon,
	'=': TokenAssign,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'%': TokenMod,
	'^': TokenPow,
	'<': TokenLess,
	'>': TokenGreater,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'=': {{'=', TokenEqual}},
	'!': {{'=', TokenNotEqual}},
	'<': {{'=', TokenLessEqual}},
	'>': {{'=', TokenGreaterEqual}},
	'+': {{'=', TokenPlusAssign}},
	'-': {{'=', TokenMinusAssign}},
	'*': {{'=', TokenMultAssign}},
	'/': {{'=', TokenDivAssign}},
	'%': {{'=', TokenModAssign}},
	'^': {{'=', TokenPowAssign}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

var keywords = map[string]TokenType{
	"function": TokenFunction,
	"if":       TokenIf,
	"then":     TokenThen,
	"else":     TokenElse,
	"for":      TokenFor,
	"in":       TokenIn,
	"while":    TokenWhile,
	"return":   TokenReturn,
	"nil":      TokenNil,
	"print":    TokenPrint,
	"len":      TokenLen,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"and":      TokenAnd,
	"or":       TokenOr,
	"not":      TokenNot,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"end":      TokenEnd,
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	return keywords[s]
}

// endTerminators lists the words that merge with a preceding "end".
var endTerminators = []struct {
	word string
	tt   TokenType
}{
	{"if", TokenEndIf},
	{"for", TokenEndFor},
	{"function", TokenEndFunction},
	{"while", TokenEndWhile},
}

// isTerminator reports whether tt closes a block.
func isTerminator(tt TokenType) bool {
	switch tt {
	case TokenEnd, TokenEndIf, TokenEndFor, TokenEndFunction, TokenEndWhile, TokenElse:
		return true
	default:
		return false
	}
}
