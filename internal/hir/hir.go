// Package hir builds the HIR: the AST with every Ident/Path replaced by its
// resolved Res and every Local binding turned into a Binding pattern
// (spec.md §3). The tree shape is otherwise identical to the AST.
//
// Grounded on the "surge" example lowerer's pass-state shape
// (other_examples' internal-hir-lower.go.go: a `lowerer` struct carrying the
// inputs of the previous pass and a per-item-kind dispatch), adapted from
// surge's sema-result-driven lowering to this pipeline's resolution-map.
package hir

import (
	"mirc/internal/ast"
	"mirc/internal/ident"
	"mirc/internal/resolve"
)

// Binding is the pattern bound by a `let`: the resolved definition plus its
// surface name (kept for diagnostics and THIR/MIR local naming).
type Binding struct {
	Res  resolve.Res
	Name ident.Symbol
}

type Fn struct {
	Def    resolve.Res
	Ident  ident.Symbol
	Inputs []Param
	Output *ast.TyExpr
	Body   *Block
}

type Param struct {
	Binding Binding
	Ty      ast.TyExpr
}

type StmtKind = ast.StmtKind

const (
	StmtLocal   = ast.StmtLocal
	StmtExpr    = ast.StmtExpr
	StmtSemi    = ast.StmtSemi
	StmtPrintln = ast.StmtPrintln
)

type Stmt struct {
	Kind    StmtKind
	Binding Binding // StmtLocal only
	LocalTy *ast.TyExpr
	Init    *Expr
}

type Block struct {
	Stmts []Stmt
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
	ExprPath     = ast.ExprPath
)

// Expr mirrors ast.Expr's shape; ExprPath now carries a resolved Res
// instead of a raw symbol.
type Expr struct {
	Kind ast.ExprKind

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
	PathRes resolve.Res
}

// Lower builds HIR for every item, given the resolution map produced by
// internal/resolve.
func Lower(items []ast.Item, rm *resolve.Map) []Fn {
	fns := make([]Fn, 0, len(items))
	for i := range items {
		fns = append(fns, lowerItem(&items[i], rm))
	}
	return fns
}

func lowerItem(it *ast.Item, rm *resolve.Map) Fn {
	inputs := make([]Param, 0, len(it.Fn.Inputs))
	for pi := range it.Fn.Inputs {
		p := &it.Fn.Inputs[pi]
		inputs = append(inputs, Param{
			Binding: Binding{Res: rm.Parms[p], Name: p.Ident},
			Ty:      p.Ty,
		})
	}
	return Fn{
		Def:    rm.Fns[it],
		Ident:  it.Ident,
		Inputs: inputs,
		Output: it.Fn.Output,
		Body:   lowerBlock(it.Fn.Body, rm),
	}
}

func lowerBlock(b *ast.Block, rm *resolve.Map) *Block {
	stmts := make([]Stmt, 0, len(b.Stmts))
	for i := range b.Stmts {
		stmts = append(stmts, lowerStmt(&b.Stmts[i], rm))
	}
	return &Block{Stmts: stmts}
}

func lowerStmt(s *ast.Stmt, rm *resolve.Map) Stmt {
	switch s.Kind {
	case ast.StmtLocal:
		return Stmt{
			Kind:    StmtLocal,
			Binding: Binding{Res: rm.Locs[s], Name: s.LocalIdent},
			LocalTy: s.LocalTy,
			Init:    lowerExpr(s.Init, rm),
		}
	default:
		return Stmt{Kind: s.Kind, Init: lowerExpr(s.Init, rm)}
	}
}

func lowerExpr(e *ast.Expr, rm *resolve.Map) *Expr {
	if e == nil {
		return nil
	}
	out := &Expr{
		Kind:    e.Kind,
		BinOp:   e.BinOp,
		UnOp:    e.UnOp,
		IntVal:  e.IntVal,
		BoolVal: e.BoolVal,
	}
	switch e.Kind {
	case ast.ExprBinary:
		out.LHS = lowerExpr(e.LHS, rm)
		out.RHS = lowerExpr(e.RHS, rm)
	case ast.ExprUnary:
		out.RHS = lowerExpr(e.RHS, rm)
	case ast.ExprAssign:
		out.LHS = lowerExpr(e.LHS, rm)
		out.RHS = lowerExpr(e.RHS, rm)
	case ast.ExprCall:
		out.Callee = lowerExpr(e.Callee, rm)
		for _, a := range e.Args {
			out.Args = append(out.Args, lowerExpr(a, rm))
		}
	case ast.ExprIf:
		out.Cond = lowerExpr(e.Cond, rm)
		out.Then = lowerBlock(e.Then, rm)
		out.Else = lowerExpr(e.Else, rm)
	case ast.ExprLoop:
		out.Body = lowerBlock(e.Body, rm)
	case ast.ExprBreak, ast.ExprContinue:
		out.RHS = lowerExpr(e.RHS, rm)
	case ast.ExprBlock:
		out.Body = lowerBlock(e.Body, rm)
	case ast.ExprPath:
		out.PathRes = rm.Uses[e]
	}
	return out
}
