// Package ast defines the surface syntax tree produced by internal/parser,
// per spec.md §3/§4.2. Child expressions are held by pointer (box-style);
// every IR in this pipeline is a tree, never a graph.
package ast

import "mirc/internal/ident"

// TyExpr is a surface-syntax type annotation (":i32", "-> bool", ...).
type TyExpr struct {
	Name ident.Symbol // KwI32 or KwBool
	Span ident.Span
}

// Item is a top-level declaration. Only function items exist in this
// language (spec.md §3).
type Item struct {
	Ident ident.Symbol
	Fn    *Fn
	Span  ident.Span
}

// Param is a single function parameter.
type Param struct {
	Ident ident.Symbol
	Ty    TyExpr
	Span  ident.Span
}

// Fn is the payload of a function item.
type Fn struct {
	Inputs []Param
	Output *TyExpr // nil means unit return type
	Body   *Block
}

// StmtKind differentiates Stmt variants.
type StmtKind int

const (
	StmtLocal StmtKind = iota
	StmtExpr           // trailing expression, no semicolon
	StmtSemi           // expression statement terminated by ';'
	StmtPrintln
)

// Stmt is one statement inside a Block.
type Stmt struct {
	Kind StmtKind
	Span ident.Span

	// StmtLocal fields.
	LocalIdent ident.Symbol
	LocalTy    *TyExpr // nil if the type annotation was omitted
	Init       *Expr   // local initializer, or the Println/Expr/Semi operand

	// StmtExpr / StmtSemi reuse Init as well.
}

// Block is "{" stmt* "}"; the last statement may be a value-producing
// trailing expression with no semicolon (StmtExpr), which becomes the
// block's value.
type Block struct {
	Stmts []Stmt
	Span  ident.Span
}

// ExprKind differentiates Expr variants.
type ExprKind int

const (
	ExprBinary ExprKind = iota
	ExprUnary
	ExprCall
	ExprIf
	ExprLoop
	ExprBreak
	ExprContinue
	ExprBlock
	ExprAssign
	ExprLitInt
	ExprLitBool
	ExprPath
)

// BinOp enumerates binary operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// UnOp enumerates unary operators.
type UnOp int

const (
	OpNeg UnOp = iota
)

// Expr is a single node of the expression tree. Only the fields relevant to
// Kind are populated; this mirrors the teacher's ir.Node "one struct, many
// optional fields" shape rather than an interface-per-variant encoding,
// which keeps the THIR/HIR substitutions (swapping Path for VarRef, adding
// Ty) mechanical field additions instead of new types.
type Expr struct {
	Kind ExprKind
	Span ident.Span

	BinOp BinOp
	UnOp  UnOp
	LHS   *Expr
	RHS   *Expr // binary RHS, unary operand, assign RHS, break/continue value

	Callee *Expr
	Args   []*Expr

	Cond *Expr
	Then *Block
	Else *Expr // either another ExprIf or an ExprBlock, mirroring the grammar

	Body *Block // loop body / block expr

	IntVal  uint64
	BoolVal bool
	Path    ident.Symbol // ExprPath identifier
}
