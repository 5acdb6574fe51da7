// Package token defines the lexical token kinds produced by internal/lexer
// and consumed by internal/parser.
package token

import (
	"fmt"

	"mirc/internal/ident"
)

// Kind differentiates the lexical category of a Token.
type Kind int

const (
	Eof Kind = iota
	Integer
	Ident
	Keyword

	// Punctuation.
	Assign    // =
	Eq        // ==
	Ne        // !=
	Lt        // <
	Le        // <=
	Gt        // >
	Ge        // >=
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Semi      // ;
	Colon     // :
	Comma     // ,
	Arrow     // ->
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
)

var kindNames = [...]string{
	Eof:     "EOF",
	Integer: "integer",
	Ident:   "identifier",
	Keyword: "keyword",
	Assign:  "=",
	Eq:      "==",
	Ne:      "!=",
	Lt:      "<",
	Le:      "<=",
	Gt:      ">",
	Ge:      ">=",
	Plus:    "+",
	Minus:   "-",
	Star:    "*",
	Slash:   "/",
	Semi:    ";",
	Colon:   ":",
	Comma:   ",",
	Arrow:   "->",
	LParen:  "(",
	RParen:  ")",
	LBrace:  "{",
	RBrace:  "}",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is a single lexeme with its source span.
type Token struct {
	Kind Kind
	// Text is the literal source text of the token (digits for Integer,
	// the identifier spelling for Ident, the keyword spelling for Keyword).
	Text string
	// Sym is populated for Ident and Keyword tokens: the interned symbol
	// identifying the spelling.
	Sym  ident.Symbol
	Span ident.Span
}

func (t Token) String() string {
	if len(t.Text) > 0 {
		return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Text, t.Span)
	}
	return fmt.Sprintf("%s@%s", t.Kind, t.Span)
}
