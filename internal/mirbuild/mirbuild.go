// Package mirbuild lowers THIR to MIR (spec.md §4.5): a single forward walk
// that threads a "current block" cursor and a loop-context stack.
//
// Grounded on original_source/compiler/thir_lowering/src/builder.rs's
// MirBuilder (block_at insertion cursor, local_name_table, push_block/
// push_stmt/set_terminator/push_local helpers) and lib.rs's lower_expr_if
// algorithm (entry_block -> cond evaluated in place -> then_block/else_block
// -> end_block, expressed there as a SwitchTargets{values:[0,1],
// targets:[else_or_end, then]}). The per-pass builder-state shape (a struct
// carrying the current module/function/block cursor) also follows the
// "Orizon" HIRToMIRTransformer example
// (other_examples/165b62d9_..._hir_to_mir.go.go).
package mirbuild

import (
	"mirc/internal/ast"
	"mirc/internal/ident"
	"mirc/internal/mir"
	"mirc/internal/resolve"
	"mirc/internal/thir"
)

// loopCtx records where break/continue jump to for the innermost enclosing
// loop, and the place a break-with-value should write into (nil when the
// loop is lowered only for its effects and its value is discarded).
type loopCtx struct {
	breakTarget    mir.BlockId
	continueTarget mir.BlockId
	dest           *mir.Place
}

type builder struct {
	body       *mir.Body
	blockAt    mir.BlockId
	localNames map[resolve.DefId]mir.LocalId
	loopStack  []loopCtx
	interner   *ident.Interner
}

// Build lowers a single type-checked function to its MIR body.
func Build(fn thir.Fn, interner *ident.Interner) *mir.Body {
	body := &mir.Body{Def: fn.Def.Def, Name: interner.String(fn.Ident), ArgCount: len(fn.Inputs)}
	b := &builder{body: body, localNames: make(map[resolve.DefId]mir.LocalId), interner: interner}

	b.pushLocalRaw(mir.LocalDecl{Ty: fn.Output.String()}) // LocalId(0): the return place
	for _, p := range fn.Inputs {
		id := b.pushLocalRaw(mir.LocalDecl{Name: interner.String(p.Binding.Name), Ty: p.Ty.String()})
		b.localNames[p.Binding.Res.Def] = id
	}

	entry := b.newBlock()
	b.blockAt = entry
	b.lowerBlockInto(body.ReturnPlace(), fn.Body)
	b.finalize()
	return body
}

func (b *builder) newBlock() mir.BlockId {
	id := mir.BlockId(len(b.body.Blocks))
	b.body.Blocks = append(b.body.Blocks, mir.Block{})
	return id
}

func (b *builder) pushLocalRaw(d mir.LocalDecl) mir.LocalId {
	id := mir.LocalId(len(b.body.Locals))
	b.body.Locals = append(b.body.Locals, d)
	return id
}

func (b *builder) pushTemp(ty string) mir.LocalId {
	return b.pushLocalRaw(mir.LocalDecl{Ty: ty})
}

func (b *builder) pushStmt(s mir.Statement) {
	blk := &b.body.Blocks[b.blockAt]
	blk.Stmts = append(blk.Stmts, s)
}

func (b *builder) pushAssign(dest mir.Place, rv mir.RValue) {
	b.pushStmt(mir.Statement{Kind: mir.StmtAssign, Place: dest, RValue: rv})
}

// setTerminator ends the named block exactly once; a second call (e.g. a
// break inside a branch that already jumped out) is a no-op, so that dead
// code reached only via an already-terminated path never overwrites the
// real exit edge.
func (b *builder) setTerminator(at mir.BlockId, t mir.Terminator) {
	blk := &b.body.Blocks[at]
	if blk.Terminator != nil {
		return
	}
	term := t
	blk.Terminator = &term
}

func (b *builder) gotoFrom(from, to mir.BlockId) {
	b.setTerminator(from, mir.Terminator{Kind: mir.TermGoto, Goto: to})
}

// finalize gives every still-unterminated block a Return terminator: the
// block the function body ends in (the normal exit path), plus any block
// opened after an unconditional break/continue that nothing later
// terminated, so that "every block is terminated" holds of the finished body.
func (b *builder) finalize() {
	for i := range b.body.Blocks {
		b.setTerminator(mir.BlockId(i), mir.Terminator{Kind: mir.TermReturn})
	}
}

// lowerBlockInto lowers blk's statements and writes its value (the trailing
// expression's value, or unit when there is none) into dest.
func (b *builder) lowerBlockInto(dest mir.Place, blk *thir.Block) {
	for i := range blk.Stmts {
		s := &blk.Stmts[i]
		if i == len(blk.Stmts)-1 && s.Kind == thir.StmtExpr && s.Init.Ty == blk.Ty {
			b.lowerExprInto(dest, s.Init)
			return
		}
		b.lowerStmtDiscard(s)
	}
	b.pushAssign(dest, mir.RValue{Kind: mir.RValueUse, Operand: mir.ConstOperand(mir.UnitConst)})
}

// lowerBlockVoid lowers blk purely for its control-flow/side effects; any
// trailing value is computed (for break/continue reachability inside it)
// but never materialized into a place.
func (b *builder) lowerBlockVoid(blk *thir.Block) {
	for i := range blk.Stmts {
		b.lowerStmtDiscard(&blk.Stmts[i])
	}
}

func (b *builder) lowerStmtDiscard(s *thir.Stmt) {
	switch s.Kind {
	case thir.StmtLocal:
		id := b.pushLocalRaw(mir.LocalDecl{Name: b.interner.String(s.Binding.Name), Ty: s.Init.Ty.String()})
		b.localNames[s.Binding.Res.Def] = id
		b.lowerExprInto(mir.Place{Local: id}, s.Init)
	case thir.StmtPrintln:
		op := b.lowerOperand(s.Init)
		b.pushStmt(mir.Statement{Kind: mir.StmtPrintln, Arg: op})
	default: // thir.StmtExpr: either a fused semicolon statement, or a non-last trailing form
		b.lowerExprVoid(s.Init)
	}
}

// lowerExprVoid evaluates e for its side effects/control flow only. Pure
// leaf and operator expressions need no destination at all -- this is what
// keeps a discarded zero-sized-type expression from ever allocating a
// temporary local.
func (b *builder) lowerExprVoid(e *thir.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.ExprIf:
		b.lowerIf(nil, e)
	case ast.ExprLoop:
		b.lowerLoop(nil, e)
	case ast.ExprBlock:
		b.lowerBlockVoid(e.Body)
	case ast.ExprAssign:
		b.lowerAssign(e)
	case ast.ExprBreak:
		b.lowerBreak(e)
	case ast.ExprContinue:
		b.lowerContinue(e)
	case ast.ExprCall:
		b.lowerCall(nil, e)
	case ast.ExprBinary:
		b.lowerExprVoid(e.LHS)
		b.lowerExprVoid(e.RHS)
	case ast.ExprUnary:
		b.lowerExprVoid(e.RHS)
	// ExprLitInt, ExprLitBool, ExprVarRef: pure, nothing to do.
	default:
	}
}

// lowerExprInto lowers e and writes its value into dest.
func (b *builder) lowerExprInto(dest mir.Place, e *thir.Expr) {
	switch e.Kind {
	case ast.ExprLitInt, ast.ExprLitBool, thir.ExprVarRef:
		b.pushAssign(dest, mir.RValue{Kind: mir.RValueUse, Operand: b.lowerOperand(e)})
	case ast.ExprBinary:
		lhs := b.lowerOperand(e.LHS)
		rhs := b.lowerOperand(e.RHS)
		b.pushAssign(dest, mir.RValue{Kind: mir.RValueBinaryOp, BinOp: convBinOp(e.BinOp), LHS: lhs, RHS: rhs})
	case ast.ExprUnary:
		arg := b.lowerOperand(e.RHS)
		b.pushAssign(dest, mir.RValue{Kind: mir.RValueUnaryOp, UnOp: convUnOp(e.UnOp), Arg: arg})
	case ast.ExprAssign:
		b.lowerAssign(e)
		b.pushAssign(dest, mir.RValue{Kind: mir.RValueUse, Operand: mir.ConstOperand(mir.UnitConst)})
	case ast.ExprIf:
		b.lowerIf(&dest, e)
	case ast.ExprLoop:
		b.lowerLoop(&dest, e)
	case ast.ExprBlock:
		b.lowerBlockInto(dest, e.Body)
	case ast.ExprBreak:
		b.lowerBreak(e)
	case ast.ExprContinue:
		b.lowerContinue(e)
	case ast.ExprCall:
		b.lowerCall(&dest, e)
	}
}

// lowerOperand lowers e to an immediate Operand. Literals and variable
// references need no temporary; anything else is lowered into a fresh one.
func (b *builder) lowerOperand(e *thir.Expr) mir.Operand {
	switch e.Kind {
	case ast.ExprLitInt:
		return mir.ConstOperand(mir.Constant{Ty: "i32", Value: mir.Scalar{Kind: mir.ScalarInt, Data: e.IntVal}})
	case ast.ExprLitBool:
		if e.BoolVal {
			return mir.ConstOperand(mir.TrueConst)
		}
		return mir.ConstOperand(mir.FalseConst)
	case thir.ExprVarRef:
		return mir.CopyOf(mir.Place{Local: b.localNames[e.VarRes.Def]})
	default:
		tmp := b.pushTemp(e.Ty.String())
		dest := mir.Place{Local: tmp}
		b.lowerExprInto(dest, e)
		return mir.CopyOf(dest)
	}
}

func (b *builder) lowerAssign(e *thir.Expr) {
	target := mir.Place{Local: b.localNames[e.LHS.VarRes.Def]}
	b.lowerExprInto(target, e.RHS)
}

// lowerIf implements spec.md §4.5's if-lowering: the condition is evaluated
// in the entry block, then a SwitchInt on its 0/1 discriminant branches to
// the else-or-end block (false, value 0) and the then block (otherwise,
// i.e. true). dest is nil when the if is lowered only for its effects and
// its value is discarded; otherwise each branch writes its value into *dest.
func (b *builder) lowerIf(dest *mir.Place, e *thir.Expr) {
	cond := b.lowerOperand(e.Cond)
	thenBB := b.newBlock()
	endBB := b.newBlock()
	falseTarget := endBB
	var elseBB mir.BlockId
	hasElse := e.Else != nil
	if hasElse {
		elseBB = b.newBlock()
		falseTarget = elseBB
	}

	entryBB := b.blockAt
	b.setTerminator(entryBB, mir.Terminator{
		Kind:     mir.TermSwitchInt,
		Discr:    cond,
		SwitchTy: "bool",
		Switches: mir.SwitchTargets{
			Values:  []uint64{0, 1},
			Targets: []mir.BlockId{falseTarget, thenBB},
		},
	})

	b.blockAt = thenBB
	if dest != nil {
		b.lowerBlockInto(*dest, e.Then)
	} else {
		b.lowerBlockVoid(e.Then)
	}
	b.gotoFrom(b.blockAt, endBB)

	if hasElse {
		b.blockAt = elseBB
		if dest != nil {
			b.lowerExprInto(*dest, e.Else)
		} else {
			b.lowerExprVoid(e.Else)
		}
		b.gotoFrom(b.blockAt, endBB)
	}

	b.blockAt = endBB
}

// lowerLoop implements spec.md §4.5's loop-stack design: the body repeats by
// falling through to its own start, break jumps to a fresh end block, and
// continue jumps back to the start. Neither target carries a label; nesting
// is handled purely by stack discipline.
func (b *builder) lowerLoop(dest *mir.Place, e *thir.Expr) {
	bodyBB := b.newBlock()
	endBB := b.newBlock()
	b.gotoFrom(b.blockAt, bodyBB)

	b.blockAt = bodyBB
	b.loopStack = append(b.loopStack, loopCtx{breakTarget: endBB, continueTarget: bodyBB, dest: dest})
	b.lowerBlockVoid(e.Body)
	b.loopStack = b.loopStack[:len(b.loopStack)-1]
	b.gotoFrom(b.blockAt, bodyBB)

	b.blockAt = endBB
}

func (b *builder) lowerBreak(e *thir.Expr) {
	lc := b.loopStack[len(b.loopStack)-1]
	if e.RHS != nil {
		if lc.dest != nil {
			b.lowerExprInto(*lc.dest, e.RHS)
		} else {
			b.lowerExprVoid(e.RHS)
		}
	}
	b.gotoFrom(b.blockAt, lc.breakTarget)
	b.blockAt = b.newBlock() // fresh unreachable block for any dead code that follows
}

func (b *builder) lowerContinue(e *thir.Expr) {
	lc := b.loopStack[len(b.loopStack)-1]
	if e.RHS != nil {
		b.lowerExprVoid(e.RHS)
	}
	b.gotoFrom(b.blockAt, lc.continueTarget)
	b.blockAt = b.newBlock() // fresh unreachable block for any dead code that follows
}

// lowerCall lowers a function call via the Call terminator. Unreachable from
// this builder's only caller: the parser has no call-expression production
// (mirroring original_source/compiler/ast/src/stmt.rs's own Println variant,
// added "temporary, used until the function call is implemented"), so no
// thir.Expr ever carries Kind == ast.ExprCall. Kept as scaffolding for the
// Call terminator spec.md §4.5 requires MIR to support, against the day a
// call-expression grammar is added. dest is nil only in a discarded void
// context, in which case a scratch unit-typed place is still required
// because Terminator::Call always names a destination.
func (b *builder) lowerCall(dest *mir.Place, e *thir.Expr) {
	args := make([]mir.Operand, len(e.Args))
	for i, a := range e.Args {
		args[i] = b.lowerOperand(a)
	}
	var d mir.Place
	if dest != nil {
		d = *dest
	} else {
		d = mir.Place{Local: b.pushTemp("()")}
	}
	next := b.newBlock()
	b.setTerminator(b.blockAt, mir.Terminator{
		Kind:       mir.TermCall,
		CallFn:     e.Callee.VarRes.Def,
		CallArgs:   args,
		CallDest:   d,
		CallTarget: next,
	})
	b.blockAt = next
}

func convBinOp(op ast.BinOp) mir.BinOp {
	switch op {
	case ast.OpAdd:
		return mir.BinAdd
	case ast.OpSub:
		return mir.BinSub
	case ast.OpMul:
		return mir.BinMul
	case ast.OpDiv:
		return mir.BinDiv
	case ast.OpEq:
		return mir.BinEq
	case ast.OpNe:
		return mir.BinNe
	case ast.OpLt:
		return mir.BinLt
	case ast.OpLe:
		return mir.BinLe
	case ast.OpGt:
		return mir.BinGt
	default:
		return mir.BinGe
	}
}

func convUnOp(ast.UnOp) mir.UnOp {
	return mir.UnNeg
}
