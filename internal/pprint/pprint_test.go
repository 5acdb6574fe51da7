package pprint

import (
	"strings"
	"testing"

	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/lexer"
	"mirc/internal/mir"
	"mirc/internal/mirbuild"
	"mirc/internal/parser"
	"mirc/internal/resolve"
	"mirc/internal/thir"
	"mirc/internal/types"
)

const src = "fn main() { let a: i32 = 1 + 2; println(a); }"

func TestTokens(t *testing.T) {
	in := ident.NewInterner()
	toks, err := lexer.Lex(src, in)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	out := Tokens(toks)
	if !strings.Contains(out, "1") || !strings.Contains(out, "+") {
		t.Fatalf("expected rendered tokens to contain literal text, got %q", out)
	}
	if strings.Count(out, "\n") != len(toks) {
		t.Fatalf("expected one line per token, got %q", out)
	}
}

func TestAST(t *testing.T) {
	in := ident.NewInterner()
	toks, lerr := lexer.Lex(src, in)
	if lerr != nil {
		t.Fatalf("lex error: %v", lerr)
	}
	items, perr := parser.Parse(toks)
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	out := AST(items, in)
	if !strings.Contains(out, "fn main(") {
		t.Fatalf("expected function signature in AST output, got %q", out)
	}
	if !strings.Contains(out, "let a") {
		t.Fatalf("expected local declaration in AST output, got %q", out)
	}
	if !strings.Contains(out, "= (1 + 2);\n    println(a);") {
		t.Fatalf("expected binary initializer followed by println call in AST output, got %q", out)
	}
}

func TestHIRShowsResolvedDefIds(t *testing.T) {
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
	out := HIR(fns, in)
	if !strings.Contains(out, "#") {
		t.Fatalf("expected resolved def id marker '#' in HIR output, got %q", out)
	}
}

func TestTHIRAnnotatesTypes(t *testing.T) {
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
	out := THIR(tfns, in)
	if !strings.Contains(out, ": i32") {
		t.Fatalf("expected i32 type annotation in THIR output, got %q", out)
	}
}

func TestMIRRendersEveryBody(t *testing.T) {
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
	body := mirbuild.Build(tfns[0], in)
	out := MIR([]*mir.Body{body})
	if !strings.Contains(out, "bb0") {
		t.Fatalf("expected a basic block label in MIR output, got %q", out)
	}
	if !strings.Contains(out, "return") {
		t.Fatalf("expected a return terminator in MIR output, got %q", out)
	}
}
