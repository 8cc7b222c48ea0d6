package types

import "fmt"

// ErrorCode represents an itmoscript error code.
type ErrorCode string

// Error codes, grouped by the stage that raises them.
const (
	// L0xxx: Lexer errors
	ErrStringNotClosed ErrorCode = "L0101"
	ErrBadNumber       ErrorCode = "L0102"

	// P0xxx: Parser errors
	ErrUnexpectedToken   ErrorCode = "P0201"
	ErrExpectedToken     ErrorCode = "P0202"
	ErrUnterminatedBlock ErrorCode = "P0203"
	ErrUnexpectedEnd     ErrorCode = "P0204"
	ErrNestingTooDeep    ErrorCode = "P0205"

	// R0xxx: Runtime errors
	ErrUndefinedVariable ErrorCode = "R1001"
	ErrInvokeNonFunction ErrorCode = "R1002"
	ErrArgumentCount     ErrorCode = "R1003"
	ErrTypeMismatch      ErrorCode = "R1004"
	ErrDivisionByZero    ErrorCode = "R1005"
	ErrIndexOutOfRange   ErrorCode = "R1006"
	ErrInvalidArgument   ErrorCode = "R1007"
	ErrControlFlow       ErrorCode = "R1008"
	ErrStackOverflow     ErrorCode = "R1009"
	ErrCancelled         ErrorCode = "R1010"
	ErrOutput            ErrorCode = "R1011"
	ErrUnsupported       ErrorCode = "R1012"
)

// Error represents a structured itmoscript error.
type Error struct {
	Code    ErrorCode
	Message string
	Line    int
	Column  int
	Token   string
	Err     error
}

// NewError creates a new error at the given source position.
// A zero line means the position is unknown.
func NewError(code ErrorCode, message string, line, column int) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Line:    line,
		Column:  column,
	}
}

// Errorf creates a positionless error with a formatted message.
func Errorf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d, col %d: %s", e.Code, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// At fills in the position when the error does not carry one yet.
func (e *Error) At(pos Pos) *Error {
	if e.Line == 0 {
		e.Line = pos.Line
		e.Column = pos.Column
	}
	return e
}

// IsRuntime reports whether the error was raised while executing a program.
func (e *Error) IsRuntime() bool {
	return len(e.Code) > 0 && e.Code[0] == 'R'
}
