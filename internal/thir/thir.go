// Package thir defines the typed HIR (spec.md §3): every expression carries
// a checked *types.Ty, Stmt::Semi is fused into Stmt::Expr (a semicolon only
// discards a value, it does not change lowering), and Expr::VarRef{res,ty}
// replaces Expr::Path.
package thir

import (
	"mirc/internal/ast"
	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/resolve"
	"mirc/internal/types"
)

type Fn struct {
	Def    resolve.Res
	Ident  ident.Symbol
	Inputs []Param
	Output *types.Ty
	Body   *Block
}

type Param struct {
	Binding hir.Binding
	Ty      *types.Ty
}

type StmtKind int

const (
	StmtLocal StmtKind = iota
	StmtExpr           // fused: was Expr or Semi in HIR
	StmtPrintln
)

type Stmt struct {
	Kind    StmtKind
	Binding hir.Binding // StmtLocal only
	Init    *Expr
}

// Block's Ty is the type of its trailing expression, or unit when absent.
type Block struct {
	Stmts []Stmt
	Ty    *types.Ty
}

type ExprKind = ast.ExprKind

const (
	ExprBinary   = ast.ExprBinary
	ExprUnary    = ast.ExprUnary
	ExprCall     = ast.ExprCall
	ExprIf       = ast.ExprIf
	ExprLoop     = ast.ExprLoop
	ExprBreak    = ast.ExprBreak
	ExprContinue = ast.ExprContinue
	ExprBlock    = ast.ExprBlock
	ExprAssign   = ast.ExprAssign
	ExprLitInt   = ast.ExprLitInt
	ExprLitBool  = ast.ExprLitBool
	ExprVarRef   = ast.ExprPath // kind reused; VarRef replaces Path at this stage
)

type Expr struct {
	Kind ast.ExprKind
	Ty   *types.Ty

	BinOp ast.BinOp
	UnOp  ast.UnOp
	LHS   *Expr
	RHS   *Expr

	Callee *Expr
	Args   []*Expr

	Cond *Expr
	Then *Block
	Else *Expr

	Body *Block

	IntVal  uint64
	BoolVal bool

	VarRes resolve.Res // ExprVarRef
}
