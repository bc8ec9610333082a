// Package effect implements the joker/boss/consumable effect graph: the
// trigger/condition/action language that every piece of scoring and
// run-mutating content is expressed in, plus the small expression
// language conditions and action values are written in.
package effect

// ExprKind discriminates the Expr AST node variants.
type ExprKind uint8

const (
	ExprBool ExprKind = iota
	ExprNumber
	ExprString
	ExprIdent
	ExprCall
	ExprUnary
	ExprBinary
)

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	Not UnaryOp = iota
	Neg
)

// BinaryOp is an infix operator, in the same precedence-agnostic flat set
// the content author writes conditions with.
type BinaryOp uint8

const (
	Or BinaryOp = iota
	And
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Add
	Sub
	Mul
	Div
)

// Expr is a node in the small expression language used for joker `when`
// guards and action value expressions.
type Expr struct {
	Kind ExprKind

	Bool   bool
	Number float64
	String string
	Ident  string

	// ExprCall
	CallName string
	Args     []Expr

	// ExprUnary
	UnaryOp UnaryOp
	Operand *Expr

	// ExprBinary
	BinOp BinaryOp
	Left  *Expr
	Right *Expr
}

// BoolExpr, NumberExpr, StringExpr, and IdentExpr are convenience
// constructors for building effect definitions in Go without AST
// boilerplate.
func BoolExpr(v bool) Expr     { return Expr{Kind: ExprBool, Bool: v} }
func NumberExpr(v float64) Expr { return Expr{Kind: ExprNumber, Number: v} }
func StringExpr(v string) Expr  { return Expr{Kind: ExprString, String: v} }
func IdentExpr(name string) Expr { return Expr{Kind: ExprIdent, Ident: name} }

// CallExpr builds a function-call expression node.
func CallExpr(name string, args ...Expr) Expr {
	return Expr{Kind: ExprCall, CallName: name, Args: args}
}

// UnaryExpr builds a prefix-operator expression node.
func UnaryExpr(op UnaryOp, operand Expr) Expr {
	return Expr{Kind: ExprUnary, UnaryOp: op, Operand: &operand}
}

// BinaryExpr builds an infix-operator expression node.
func BinaryExpr(left Expr, op BinaryOp, right Expr) Expr {
	return Expr{Kind: ExprBinary, BinOp: op, Left: &left, Right: &right}
}
