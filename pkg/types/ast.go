package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	// Literals
	NodeNumber NodeType = "number"
	NodeString NodeType = "string"
	NodeNil    NodeType = "nil"
	NodeArray  NodeType = "array"

	// Expressions
	NodeVariable NodeType = "variable"
	NodeUnary    NodeType = "unary"  // -, not
	NodeBinary   NodeType = "binary" // +, -, *, /, ==, and, ...
	NodeIndex    NodeType = "index"  // a[i]
	NodeSlice    NodeType = "slice"  // a[i:j]
	NodeLen      NodeType = "len"    // len(x)
	NodeLambda   NodeType = "lambda" // function(...) ... end function
	NodeCall     NodeType = "call"

	// Statements
	NodeExprStmt    NodeType = "expr"
	NodeAssign      NodeType = "assign"
	NodeIndexAssign NodeType = "indexassign"
	NodeFuncDef     NodeType = "funcdef"
	NodeReturn      NodeType = "return"
	NodePrint       NodeType = "print"
	NodeBreak       NodeType = "break"
	NodeContinue    NodeType = "continue"
	NodeIf          NodeType = "if"
	NodeFor         NodeType = "for"
	NodeWhile       NodeType = "while"
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Position returns the position itself so that Pos can be embedded in nodes.
func (p Pos) Position() Pos { return p }

// Node is implemented by every AST node.
type Node interface {
	Type() NodeType
	Position() Pos
}

// Expr is an expression node. The set of implementations is closed.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node. The set of implementations is closed.
type Stmt interface {
	Node
	stmtNode()
}

// NumberLit is a numeric literal. true and false parse to 1 and 0.
type NumberLit struct {
	Pos
	Value float64
}

// StringLit is a string literal with escapes already resolved.
type StringLit struct {
	Pos
	Value string
}

// NilLit is the nil literal.
type NilLit struct {
	Pos
}

// Ident is a variable reference.
type Ident struct {
	Pos
	Name string
}

// UnaryExpr is "-x" or "not x".
type UnaryExpr struct {
	Pos
	Op      string
	Operand Expr
}

// BinaryExpr is "lhs op rhs".
type BinaryExpr struct {
	Pos
	Op  string
	LHS Expr
	RHS Expr
}

// IndexExpr is "target[index]".
type IndexExpr struct {
	Pos
	Target Expr
	Index  Expr
}

// SliceExpr is "target[start:end]". Start and End are nil when omitted.
type SliceExpr struct {
	Pos
	Target Expr
	Start  Expr
	End    Expr
}

// ArrayLit is "[e1, e2, ...]".
type ArrayLit struct {
	Pos
	Elems []Expr
}

// LenExpr is the len(x) form.
type LenExpr struct {
	Pos
	Arg Expr
}

// FuncLit is an anonymous function literal.
type FuncLit struct {
	Pos
	Params []string
	Body   []Stmt
}

// CallExpr is "callee(args...)".
type CallExpr struct {
	Pos
	Callee Expr
	Args   []Expr
}

func (*NumberLit) Type() NodeType  { return NodeNumber }
func (*StringLit) Type() NodeType  { return NodeString }
func (*NilLit) Type() NodeType     { return NodeNil }
func (*Ident) Type() NodeType      { return NodeVariable }
func (*UnaryExpr) Type() NodeType  { return NodeUnary }
func (*BinaryExpr) Type() NodeType { return NodeBinary }
func (*IndexExpr) Type() NodeType  { return NodeIndex }
func (*SliceExpr) Type() NodeType  { return NodeSlice }
func (*ArrayLit) Type() NodeType   { return NodeArray }
func (*LenExpr) Type() NodeType    { return NodeLen }
func (*FuncLit) Type() NodeType    { return NodeLambda }
func (*CallExpr) Type() NodeType   { return NodeCall }

func (*NumberLit) exprNode()  {}
func (*StringLit) exprNode()  {}
func (*NilLit) exprNode()     {}
func (*Ident) exprNode()      {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*IndexExpr) exprNode()  {}
func (*SliceExpr) exprNode()  {}
func (*ArrayLit) exprNode()   {}
func (*LenExpr) exprNode()    {}
func (*FuncLit) exprNode()    {}
func (*CallExpr) exprNode()   {}

// ExprStmt evaluates an expression and discards the result.
type ExprStmt struct {
	Pos
	X Expr
}

// AssignStmt is "name = value". Compound assignments are desugared into it.
type AssignStmt struct {
	Pos
	Name  string
	Value Expr
}

// IndexAssignStmt is "name[index] = value".
type IndexAssignStmt struct {
	Pos
	Name  string
	Index Expr
	Value Expr
}

// FuncDefStmt is the "name = function(...) ... end function" shorthand.
// It always binds in the current scope.
type FuncDefStmt struct {
	Pos
	Name   string
	Params []string
	Body   []Stmt
}

// ReturnStmt returns from the enclosing function. Value is nil for a bare return.
type ReturnStmt struct {
	Pos
	Value Expr
}

// PrintStmt is the print(expr) statement.
type PrintStmt struct {
	Pos
	Value Expr
}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	Pos
}

// ContinueStmt skips to the next iteration of the innermost loop.
type ContinueStmt struct {
	Pos
}

// IfStmt is "if cond then ... [else ...] end if".
type IfStmt struct {
	Pos
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ForStmt is "for name in iterable ... end for".
type ForStmt struct {
	Pos
	Var      string
	Iterable Expr
	Body     []Stmt
}

// WhileStmt is "while cond ... end while".
type WhileStmt struct {
	Pos
	Cond Expr
	Body []Stmt
}

func (*ExprStmt) Type() NodeType        { return NodeExprStmt }
func (*AssignStmt) Type() NodeType      { return NodeAssign }
func (*IndexAssignStmt) Type() NodeType { return NodeIndexAssign }
func (*FuncDefStmt) Type() NodeType     { return NodeFuncDef }
func (*ReturnStmt) Type() NodeType      { return NodeReturn }
func (*PrintStmt) Type() NodeType       { return NodePrint }
func (*BreakStmt) Type() NodeType       { return NodeBreak }
func (*ContinueStmt) Type() NodeType    { return NodeContinue }
func (*IfStmt) Type() NodeType          { return NodeIf }
func (*ForStmt) Type() NodeType         { return NodeFor }
func (*WhileStmt) Type() NodeType       { return NodeWhile }

func (*ExprStmt) stmtNode()        {}
func (*AssignStmt) stmtNode()      {}
func (*IndexAssignStmt) stmtNode() {}
func (*FuncDefStmt) stmtNode()     {}
func (*ReturnStmt) stmtNode()      {}
func (*PrintStmt) stmtNode()       {}
func (*BreakStmt) stmtNode()       {}
func (*ContinueStmt) stmtNode()    {}
func (*IfStmt) stmtNode()          {}
func (*ForStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()       {}
