package thir

import (
	"testing"

	"mirc/internal/ast"
	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/lexer"
	"mirc/internal/parser"
	"mirc/internal/resolve"
	"mirc/internal/types"
)

func buildThir(t *testing.T, src string) ([]Fn, *types.Ctx) {
	t.Helper()
	in := ident.NewInterner()
	toks, lerr := lexer.Lex(src, in)
	if lerr != nil {
		t.Fatalf("lex error: %v", lerr)
	}
	items, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	rm, rerr := resolve.Resolve(items)
	if rerr != nil {
		t.Fatalf("resolve error: %v", rerr)
	}
	fns := hir.Lower(items, rm)
	tcx := types.NewCtx()
	out, cerr := Check(fns, tcx)
	if cerr != nil {
		t.Fatalf("check error: %v", cerr)
	}
	return out, tcx
}

func TestCheckArithmeticAndPrintln(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let a: i32 = 1 + 2; println(a); }")
	if len(fns) != 1 {
		t.Fatalf("want 1 fn, got %d", len(fns))
	}
	body := fns[0].Body
	if len(body.Stmts) != 2 {
		t.Fatalf("want 2 stmts, got %d", len(body.Stmts))
	}
	local := body.Stmts[0]
	if local.Kind != StmtLocal {
		t.Fatalf("stmt 0: want StmtLocal, got %v", local.Kind)
	}
	if local.Init.Ty != tcx.Int32() {
		t.Fatalf("let initializer: want i32, got %s", local.Init.Ty)
	}
	if body.Stmts[1].Kind != StmtPrintln {
		t.Fatalf("stmt 1: want StmtPrintln, got %v", body.Stmts[1].Kind)
	}
}

func TestCheckComparisonYieldsBool(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let a: bool = 1 < 2; println(a); }")
	init := fns[0].Body.Stmts[0].Init
	if init.Ty != tcx.Bool() {
		t.Fatalf("comparison: want bool, got %s", init.Ty)
	}
}

func TestCheckIfElseUnifiesBranchTypes(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let a: i32 = if true { 1 } else { 2 }; println(a); }")
	ifExpr := fns[0].Body.Stmts[0].Init
	if ifExpr.Ty != tcx.Int32() {
		t.Fatalf("if/else: want i32, got %s", ifExpr.Ty)
	}
}

func TestCheckLoopWithBreakValue(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let a: i32 = loop { break 5; }; println(a); }")
	loopExpr := fns[0].Body.Stmts[0].Init
	if loopExpr.Kind != ast.ExprLoop {
		t.Fatalf("want ExprLoop, got %v", loopExpr.Kind)
	}
	if loopExpr.Ty != tcx.Int32() {
		t.Fatalf("loop with break 5: want i32, got %s", loopExpr.Ty)
	}
}

func TestCheckLoopWithBareBreakIsUnit(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { loop { break; } }")
	loopExpr := fns[0].Body.Stmts[0].Init
	if loopExpr.Ty != tcx.Unit() {
		t.Fatalf("bare break: want unit, got %s", loopExpr.Ty)
	}
}

func TestCheckIfElseNeverBranchUnifiesWithOtherBranch(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let i: i32 = 0; let x: i32 = if i == 0 { break } else { 10 }; println(x); }")
	ifExpr := fns[0].Body.Stmts[1].Init
	if ifExpr.Ty != tcx.Int32() {
		t.Fatalf("if/else with a Never (break) branch: want i32, got %s", ifExpr.Ty)
	}
}

func TestCheckLoopBreakTypeMismatchIsError(t *testing.T) {
	in := ident.NewInterner()
	src := "fn main() { loop { if true { break 1; } break true; } }"
	toks, lerr := lexer.Lex(src, in)
	if lerr != nil {
		t.Fatalf("lex error: %v", lerr)
	}
	items, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	rm, rerr := resolve.Resolve(items)
	if rerr != nil {
		t.Fatalf("resolve error: %v", rerr)
	}
	fns := hir.Lower(items, rm)
	_, cerr := Check(fns, types.NewCtx())
	if cerr == nil {
		t.Fatalf("want a type error for a loop whose breaks disagree (i32 vs bool), got none")
	}
}

func TestCheckAssignIsUnit(t *testing.T) {
	fns, tcx := buildThir(t, "fn main() { let a: i32 = 1; a = 2; }")
	assign := fns[0].Body.Stmts[1].Init
	if assign.Kind != ast.ExprAssign {
		t.Fatalf("want ExprAssign, got %v", assign.Kind)
	}
	if assign.Ty != tcx.Unit() {
		t.Fatalf("assignment: want unit, got %s", assign.Ty)
	}
}

func TestCheckTypeMismatchIsError(t *testing.T) {
	in := ident.NewInterner()
	src := "fn main() { let a: bool = 1 + 2; }"
	toks, lerr := lexer.Lex(src, in)
	if lerr != nil {
		t.Fatalf("lex error: %v", lerr)
	}
	items, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	rm, rerr := resolve.Resolve(items)
	if rerr != nil {
		t.Fatalf("resolve error: %v", rerr)
	}
	fns := hir.Lower(items, rm)
	_, cerr := Check(fns, types.NewCtx())
	if cerr == nil {
		t.Fatalf("want a type error for bool-annotated i32 initializer, got none")
	}
}

func TestCheckVarRefResolvesParamType(t *testing.T) {
	fns, tcx := buildThir(t, "fn id(x: i32) -> i32 { x }")
	body := fns[0].Body
	if body.Ty != tcx.Int32() {
		t.Fatalf("trailing param ref: want i32, got %s", body.Ty)
	}
	trailing := body.Stmts[0].Init
	if trailing.Kind != ExprVarRef {
		t.Fatalf("want ExprVarRef, got %v", trailing.Kind)
	}
}
