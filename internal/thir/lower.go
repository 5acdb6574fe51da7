// lower.go implements the bottom-up type checker described in spec.md §4.4:
// mandatory annotations at declaration sites, with inference filling in the
// rest. Grounded on the original Rust source's hir_lowering pass
// (original_source/compiler/hir_lowering/src/lib.rs), re-expressed with a
// checker struct that carries a DefId->Ty map exactly as that pass does,
// adapted from Rust's exhaustive match arms to an idiomatic Go type switch.
package thir

import (
	"mirc/internal/ast"
	"mirc/internal/diag"
	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/resolve"
	"mirc/internal/types"
)

type checker struct {
	tcx    *types.Ctx
	defTys map[resolve.DefId]*types.Ty
	err    *diag.Error
}

// Check lowers every HIR function to THIR, type-checking as it goes. Errors
// are fatal at first occurrence (spec.md §7): Check returns as soon as one
// is found.
func Check(fns []hir.Fn, tcx *types.Ctx) ([]Fn, *diag.Error) {
	c := &checker{tcx: tcx, defTys: make(map[resolve.DefId]*types.Ty)}

	// Seed parameter/function types before checking any body, so that a
	// function may reference another declared later in the file.
	for i := range fns {
		f := &fns[i]
		c.defTys[f.Def.Def] = tcx.FnDef(f.Def.Def)
		for pi := range f.Inputs {
			p := &f.Inputs[pi]
			c.defTys[p.Binding.Res.Def] = c.resolveAnnotatedTy(p.Ty)
		}
	}

	out := make([]Fn, 0, len(fns))
	for i := range fns {
		f := c.checkFn(&fns[i])
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, f)
	}
	return out, nil
}

// unify reconciles two types at a use site per the Glossary's Never rule:
// "Never type: ... can unify with any required type at use sites". If either
// side is Never, the other side is returned as the unified type; otherwise
// the two sides must already be the same interned Ty.
func unify(a, b *types.Ty) (*types.Ty, bool) {
	if a.Kind == types.KNever {
		return b, true
	}
	if b.Kind == types.KNever {
		return a, true
	}
	if a != b {
		return a, false
	}
	return a, true
}

func (c *checker) resolveAnnotatedTy(t ast.TyExpr) *types.Ty {
	switch t.Name {
	case ident.KwI32:
		return c.tcx.Int32()
	case ident.KwBool:
		return c.tcx.Bool()
	default:
		return c.tcx.Unit()
	}
}

func (c *checker) checkFn(f *hir.Fn) Fn {
	inputs := make([]Param, 0, len(f.Inputs))
	for i := range f.Inputs {
		p := &f.Inputs[i]
		inputs = append(inputs, Param{Binding: p.Binding, Ty: c.resolveAnnotatedTy(p.Ty)})
	}
	output := c.tcx.Unit()
	if f.Output != nil {
		output = c.resolveAnnotatedTy(*f.Output)
	}
	body := c.checkBlock(f.Body)
	if c.err == nil {
		if _, ok := unify(body.Ty, output); !ok {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "function body type %s does not match declared return type %s",
				body.Ty, output)
		}
	}
	return Fn{Def: f.Def, Ident: f.Ident, Inputs: inputs, Output: output, Body: body}
}

func (c *checker) checkBlock(b *hir.Block) *Block {
	stmts := make([]Stmt, 0, len(b.Stmts))
	var trailingTy *types.Ty
	for i := range b.Stmts {
		s := &b.Stmts[i]
		if c.err != nil {
			break
		}
		st, ty, isTrailing := c.checkStmt(s)
		stmts = append(stmts, st)
		if isTrailing {
			trailingTy = ty
		}
	}
	ty := trailingTy
	if ty == nil {
		ty = c.tcx.Unit()
	}
	return &Block{Stmts: stmts, Ty: ty}
}

func (c *checker) checkStmt(s *hir.Stmt) (Stmt, *types.Ty, bool) {
	switch s.Kind {
	case hir.StmtLocal:
		init := c.checkExpr(s.Init)
		declTy := init.Ty
		if s.LocalTy != nil {
			declTy = c.resolveAnnotatedTy(*s.LocalTy)
			if c.err == nil {
				if _, ok := unify(init.Ty, declTy); !ok {
					c.err = diag.New(diag.TypeError, ident.NoSpan,
						"let binding: declared type %s does not match initializer type %s", declTy, init.Ty)
				}
			}
		}
		c.defTys[s.Binding.Res.Def] = declTy
		return Stmt{Kind: StmtLocal, Binding: s.Binding, Init: init}, nil, false
	case hir.StmtPrintln:
		arg := c.checkExpr(s.Init)
		if c.err == nil && arg.Ty != c.tcx.Int32() && arg.Ty != c.tcx.Bool() {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "println argument must be i32 or bool, found %s", arg.Ty)
		}
		return Stmt{Kind: StmtPrintln, Init: arg}, nil, false
	case hir.StmtExpr:
		e := c.checkExpr(s.Init)
		return Stmt{Kind: StmtExpr, Init: e}, e.Ty, true
	default: // hir.StmtSemi
		e := c.checkExpr(s.Init)
		return Stmt{Kind: StmtExpr, Init: e}, nil, false
	}
}

func (c *checker) checkExpr(e *hir.Expr) *Expr {
	if c.err != nil || e == nil {
		return &Expr{Kind: ast.ExprLitInt, Ty: c.tcx.Unit()}
	}
	switch e.Kind {
	case ast.ExprLitInt:
		return &Expr{Kind: ast.ExprLitInt, Ty: c.tcx.Int32(), IntVal: e.IntVal}
	case ast.ExprLitBool:
		return &Expr{Kind: ast.ExprLitBool, Ty: c.tcx.Bool(), BoolVal: e.BoolVal}
	case ast.ExprPath:
		ty := c.defTys[e.PathRes.Def]
		if ty == nil {
			ty = c.tcx.Unit()
		}
		return &Expr{Kind: ExprVarRef, Ty: ty, VarRes: e.PathRes}
	case ast.ExprUnary:
		operand := c.checkExpr(e.RHS)
		if c.err == nil && operand.Ty != c.tcx.Int32() {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "unary '-' requires i32, found %s", operand.Ty)
		}
		return &Expr{Kind: ast.ExprUnary, UnOp: e.UnOp, Ty: c.tcx.Int32(), RHS: operand}
	case ast.ExprBinary:
		return c.checkBinary(e)
	case ast.ExprAssign:
		return c.checkAssign(e)
	case ast.ExprIf:
		return c.checkIf(e)
	case ast.ExprLoop:
		return c.checkLoop(e)
	case ast.ExprBreak:
		var val *Expr
		if e.RHS != nil {
			val = c.checkExpr(e.RHS)
		}
		return &Expr{Kind: ast.ExprBreak, Ty: c.tcx.Never(), RHS: val}
	case ast.ExprContinue:
		var val *Expr
		if e.RHS != nil {
			val = c.checkExpr(e.RHS)
		}
		return &Expr{Kind: ast.ExprContinue, Ty: c.tcx.Never(), RHS: val}
	case ast.ExprBlock:
		b := c.checkBlock(e.Body)
		return &Expr{Kind: ast.ExprBlock, Ty: b.Ty, Body: b}
	default:
		c.err = diag.New(diag.TypeError, ident.NoSpan, "unsupported expression kind %d", e.Kind)
		return &Expr{Kind: ast.ExprLitInt, Ty: c.tcx.Unit()}
	}
}

func (c *checker) checkBinary(e *hir.Expr) *Expr {
	lhs := c.checkExpr(e.LHS)
	rhs := c.checkExpr(e.RHS)
	if c.err != nil {
		return &Expr{Kind: ast.ExprBinary, Ty: c.tcx.Unit(), BinOp: e.BinOp, LHS: lhs, RHS: rhs}
	}
	switch e.BinOp {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		_, lok := unify(lhs.Ty, c.tcx.Int32())
		_, rok := unify(rhs.Ty, c.tcx.Int32())
		if !lok || !rok {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "arithmetic requires i32 operands, found %s and %s", lhs.Ty, rhs.Ty)
		}
		return &Expr{Kind: ast.ExprBinary, BinOp: e.BinOp, Ty: c.tcx.Int32(), LHS: lhs, RHS: rhs}
	default: // comparisons
		if _, ok := unify(lhs.Ty, rhs.Ty); !ok {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "comparison operands must have the same type, found %s and %s", lhs.Ty, rhs.Ty)
		}
		return &Expr{Kind: ast.ExprBinary, BinOp: e.BinOp, Ty: c.tcx.Bool(), LHS: lhs, RHS: rhs}
	}
}

func (c *checker) checkAssign(e *hir.Expr) *Expr {
	if e.LHS.Kind != ast.ExprPath {
		c.err = diag.New(diag.TypeError, ident.NoSpan, "left-hand side of assignment must be a local or parameter")
		return &Expr{Kind: ast.ExprAssign, Ty: c.tcx.Unit()}
	}
	lhs := c.checkExpr(e.LHS)
	rhs := c.checkExpr(e.RHS)
	if c.err == nil {
		if _, ok := unify(lhs.Ty, rhs.Ty); !ok {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "assignment type mismatch: %s vs %s", lhs.Ty, rhs.Ty)
		}
	}
	return &Expr{Kind: ast.ExprAssign, Ty: c.tcx.Unit(), LHS: lhs, RHS: rhs}
}

func (c *checker) checkIf(e *hir.Expr) *Expr {
	cond := c.checkExpr(e.Cond)
	if c.err == nil && cond.Ty != c.tcx.Bool() {
		c.err = diag.New(diag.TypeError, ident.NoSpan, "if condition must be bool, found %s", cond.Ty)
	}
	then := c.checkBlock(e.Then)
	var elseExpr *Expr
	ty := then.Ty
	if e.Else != nil {
		elseExpr = c.checkExpr(e.Else)
		if c.err == nil {
			unified, ok := unify(then.Ty, elseExpr.Ty)
			if !ok {
				c.err = diag.New(diag.TypeError, ident.NoSpan, "if/else branches have different types: %s vs %s", then.Ty, elseExpr.Ty)
			} else {
				ty = unified
			}
		}
	} else if c.err == nil {
		unified, ok := unify(then.Ty, c.tcx.Unit())
		if !ok {
			c.err = diag.New(diag.TypeError, ident.NoSpan, "if without else must have unit type, found %s", then.Ty)
		} else {
			ty = unified
		}
	}
	return &Expr{Kind: ast.ExprIf, Ty: ty, Cond: cond, Then: then, Else: elseExpr}
}

// checkLoop implements spec.md's loop typing rule: Never if the loop has no
// break, else the common type of every break expr within (unit when bare).
func (c *checker) checkLoop(e *hir.Expr) *Expr {
	body := c.checkBlock(e.Body)
	ty := breakType(e.Body, c)
	if ty == nil {
		ty = c.tcx.Never()
	}
	return &Expr{Kind: ast.ExprLoop, Ty: ty, Body: body}
}

// breakType finds the common type of every break-with-value reachable in
// block without descending into a nested loop (a nested loop's own breaks
// target that inner loop, per spec.md's loop-stack design). Disagreeing break
// types are a type error, unless one side is Never (spec.md's Glossary:
// Never unifies with any required type at use sites).
func breakType(b *hir.Block, c *checker) *types.Ty {
	var found *types.Ty
	var walkExpr func(e *hir.Expr)
	var walkBlock func(b *hir.Block)
	walkBlock = func(b *hir.Block) {
		for i := range b.Stmts {
			walkExpr(b.Stmts[i].Init)
		}
	}
	walkExpr = func(e *hir.Expr) {
		if e == nil {
			return
		}
		switch e.Kind {
		case ast.ExprLoop:
			return // a nested loop's breaks belong to it, not this one
		case ast.ExprBreak:
			t := c.tcx.Unit()
			if e.RHS != nil {
				t = c.checkExpr(e.RHS).Ty
			}
			if found == nil {
				found = t
			} else if c.err == nil {
				unified, ok := unify(found, t)
				if !ok {
					c.err = diag.New(diag.TypeError, ident.NoSpan, "loop break types differ: %s vs %s", found, t)
				} else {
					found = unified
				}
			}
		case ast.ExprIf:
			walkExpr(e.Cond)
			walkBlock(e.Then)
			walkExpr(e.Else)
		case ast.ExprBlock:
			walkBlock(e.Body)
		case ast.ExprBinary:
			walkExpr(e.LHS)
			walkExpr(e.RHS)
		case ast.ExprUnary, ast.ExprContinue:
			walkExpr(e.RHS)
		case ast.ExprAssign:
			walkExpr(e.LHS)
			walkExpr(e.RHS)
		}
	}
	walkBlock(b)
	return found
}
