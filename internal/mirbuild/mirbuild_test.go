package mirbuild

import (
	"testing"

	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/lexer"
	"mirc/internal/mir"
	"mirc/internal/parser"
	"mirc/internal/resolve"
	"mirc/internal/thir"
	"mirc/internal/types"
)

func buildOne(t *testing.T, src string) (*mir.Body, *ident.Interner) {
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
	tfns, cerr := thir.Check(fns, types.NewCtx())
	if cerr != nil {
		t.Fatalf("check error: %v", cerr)
	}
	if len(tfns) != 1 {
		t.Fatalf("want 1 fn, got %d", len(tfns))
	}
	return Build(tfns[0], in), in
}

func lastTerminator(body *mir.Body, id mir.BlockId) *mir.Terminator {
	return body.Blocks[id].Terminator
}

func checkAllTerminated(t *testing.T, body *mir.Body) {
	t.Helper()
	for i, blk := range body.Blocks {
		if blk.Terminator == nil {
			t.Fatalf("block bb%d has no terminator", i)
		}
	}
}

func TestBuildSimpleArithmeticReturnsViaLocalZero(t *testing.T) {
	body, _ := buildOne(t, "fn main() { println(1 + 2); }")
	checkAllTerminated(t, body)
	if len(body.Blocks) != 1 {
		t.Fatalf("want a single block for a straight-line function, got %d", len(body.Blocks))
	}
	term := lastTerminator(body, 0)
	if term.Kind != mir.TermReturn {
		t.Fatalf("want Return terminator, got %v", term.Kind)
	}
	found := false
	for _, s := range body.Blocks[0].Stmts {
		if s.Kind == mir.StmtPrintln {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a println statement, got %v", body.Blocks[0].Stmts)
	}
}

func TestBuildIfElseProducesFourBlocks(t *testing.T) {
	body, _ := buildOne(t, "fn main() { let a: i32 = if true { 1 } else { 2 }; println(a); }")
	checkAllTerminated(t, body)
	// entry (cond+switch), then, else, end: 4 blocks.
	if len(body.Blocks) != 4 {
		t.Fatalf("want 4 blocks for if/else, got %d", len(body.Blocks))
	}
	entryTerm := lastTerminator(body, 0)
	if entryTerm.Kind != mir.TermSwitchInt {
		t.Fatalf("want SwitchInt terminator on entry block, got %v", entryTerm.Kind)
	}
}

func TestBuildBareIfHasNoResultSlotAllocation(t *testing.T) {
	body, _ := buildOne(t, "fn main() { if true { println(1); } }")
	checkAllTerminated(t, body)
	// Locals: _0 return place only; no extra temp for the ZST if value.
	if len(body.Locals) != 1 {
		t.Fatalf("want exactly 1 local (the return place) for a ZST if with no bindings, got %d", len(body.Locals))
	}
}

func TestBuildLoopWithBreakValue(t *testing.T) {
	body, _ := buildOne(t, "fn main() { let a: i32 = loop { break 5; }; println(a); }")
	checkAllTerminated(t, body)
	// entry -> body (switch/goto), body, end: at least 3 blocks.
	if len(body.Blocks) < 3 {
		t.Fatalf("want at least 3 blocks for a loop, got %d", len(body.Blocks))
	}
}

func TestBuildFunctionParamsBecomeLeadingLocals(t *testing.T) {
	body, in := buildOne(t, "fn id(x: i32) -> i32 { x }")
	checkAllTerminated(t, body)
	if body.ArgCount != 1 {
		t.Fatalf("want ArgCount 1, got %d", body.ArgCount)
	}
	args := body.Args()
	if len(args) != 1 || args[0] != 1 {
		t.Fatalf("want Args() == [1], got %v", args)
	}
	if body.Locals[1].Name != in.String(in.Intern("x")) {
		t.Fatalf("want param local named x, got %q", body.Locals[1].Name)
	}
}

func TestBuildShadowingProducesDistinctLocals(t *testing.T) {
	body, _ := buildOne(t, "fn main() { let x: i32 = 1; let x: i32 = 2; println(x); }")
	checkAllTerminated(t, body)
	// _0 return place, then two distinct `x` locals.
	xCount := 0
	for _, d := range body.Locals {
		if d.Name == "x" {
			xCount++
		}
	}
	if xCount != 2 {
		t.Fatalf("want 2 distinct locals named x, got %d", xCount)
	}
}
