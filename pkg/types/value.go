package types

// Kind identifies the variant of a runtime value.
type Kind int

// Value kinds. The order is significant: equality compares kinds first.
const (
	KindNil Kind = iota
	KindNumber
	KindString
	KindArray
	KindFunction
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindNumber:   "number",
	KindString:   "string",
	KindArray:    "array",
	KindFunction: "function",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a runtime value. Exactly five implementations exist:
// Nil, Number, String, *Array and *Function.
type Value interface {
	Kind() Kind
}

// Nil is the absent value.
type Nil struct{}

// NilValue is the singleton nil value.
var NilValue Value = Nil{}

// Number is a 64-bit float.
type Number float64

// String is an immutable byte string.
type String string

// Array is a mutable, growable sequence. Arrays are shared by reference:
// every copy of the pointer observes mutations.
type Array struct {
	Elems []Value
}

// NewArray creates an array holding elems.
func NewArray(elems ...Value) *Array {
	if elems == nil {
		elems = []Value{}
	}
	return &Array{Elems: elems}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elems) }

// Function is a user-defined function value with its captured environment.
type Function struct {
	Name    string // empty for anonymous literals
	Params  []string
	Body    []Stmt
	Closure *Environment
}

func (Nil) Kind() Kind       { return KindNil }
func (Number) Kind() Kind    { return KindNumber }
func (String) Kind() Kind    { return KindString }
func (*Array) Kind() Kind    { return KindArray }
func (*Function) Kind() Kind { return KindFunction }

// Bool converts a Go bool to the numeric truth values 1 and 0.
func Bool(b bool) Number {
	if b {
		return 1
	}
	return 0
}

// KindOf returns the kind of v, treating a Go nil as KindNil.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNil
	}
	return v.Kind()
}
