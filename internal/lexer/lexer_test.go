package lexer

import (
	"testing"

	"mirc/internal/ident"
	"mirc/internal/token"
)

// TestLex verifies that a small sample program is tokenized in order with
// the expected kinds and literal text, following the teacher's table-driven
// lexer test shape (frontend/lexer_test.go).
func TestLex(t *testing.T) {
	src := "fn main() { let a: i32 = 1 + 2; println(a); }"

	exp := []struct {
		kind token.Kind
		text string
	}{
		{token.Keyword, "fn"},
		{token.Ident, "main"},
		{token.LParen, "("},
		{token.RParen, ")"},
		{token.LBrace, "{"},
		{token.Keyword, "let"},
		{token.Ident, "a"},
		{token.Colon, ":"},
		{token.Keyword, "i32"},
		{token.Assign, "="},
		{token.Integer, "1"},
		{token.Plus, "+"},
		{token.Integer, "2"},
		{token.Semi, ";"},
		{token.Keyword, "println"},
		{token.LParen, "("},
		{token.Ident, "a"},
		{token.RParen, ")"},
		{token.Semi, ";"},
		{token.RBrace, "}"},
		{token.Eof, ""},
	}

	toks, err := Lex(src, ident.NewInterner())
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	if len(toks) != len(exp) {
		t.Fatalf("expected %d tokens, got %d: %v", len(exp), len(toks), toks)
	}
	for i, e := range exp {
		if toks[i].Kind != e.kind {
			t.Errorf("token %d: expected kind %s, got %s", i, e.kind, toks[i].Kind)
		}
		if e.text != "" && toks[i].Text != e.text {
			t.Errorf("token %d: expected text %q, got %q", i, e.text, toks[i].Text)
		}
	}
}

// TestLexTwoCharOperators checks that two-character operators win over their
// one-character prefixes (spec.md §4.1).
func TestLexTwoCharOperators(t *testing.T) {
	src := "== != <= >= -> = < >"
	exp := []token.Kind{token.Eq, token.Ne, token.Le, token.Ge, token.Arrow, token.Assign, token.Lt, token.Gt, token.Eof}

	toks, err := Lex(src, ident.NewInterner())
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	if len(toks) != len(exp) {
		t.Fatalf("expected %d tokens, got %d", len(exp), len(toks))
	}
	for i, k := range exp {
		if toks[i].Kind != k {
			t.Errorf("token %d: expected %s, got %s", i, k, toks[i].Kind)
		}
	}
}

// TestLexUnknownByte verifies that an unrecognized byte is a fatal lexer
// error.
func TestLexUnknownByte(t *testing.T) {
	_, err := Lex("@", ident.NewInterner())
	if err == nil {
		t.Fatal("expected lex error for unknown byte")
	}
}

// TestLexKeywordSymbolsStable checks that keyword symbols intern to the
// fixed reserved ids regardless of insertion order (spec.md testable
// property #3).
func TestLexKeywordSymbolsStable(t *testing.T) {
	in := ident.NewInterner()
	// Intern an unrelated identifier first to perturb insertion order.
	in.Intern("zzz")
	sym, ok := in.Lookup("let")
	if !ok || sym != ident.KwLet {
		t.Fatalf("expected %q to resolve to KwLet, got %v, %v", "let", sym, ok)
	}
}
