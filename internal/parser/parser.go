// Package parser implements the recursive-descent parser described in
// spec.md §4.2: an explicit precedence cascade for expressions, grounded on
// the teacher's node-construction helpers (frontend/tree.go's nodeInit)
// generalized from goyacc reduction actions to direct recursive calls that
// build *ast.Expr/*ast.Stmt values.
//
// The surface grammar's add/mul productions are right-recursive
// (`add = mul (("+"|"-") add)?`), which yields right-associative parse
// trees for chains like `1-2-3`; this parser reproduces that associativity
// exactly, per spec.md's note that implementers must preserve it to match
// the test-suite's expected evaluation results.
package parser

import (
	"mirc/internal/ast"
	"mirc/internal/diag"
	"mirc/internal/ident"
	"mirc/internal/token"
)

type parser struct {
	toks []token.Token
	pos  int
	err  *diag.Error
}

// Parse parses a complete token stream into a slice of top-level items.
func Parse(toks []token.Token) ([]ast.Item, *diag.Error) {
	p := &parser{toks: toks}
	var items []ast.Item
	for p.peek().Kind != token.Eof {
		it := p.parseItem()
		if p.err != nil {
			return nil, p.err
		}
		items = append(items, it)
	}
	return items, nil
}

// ---------------------------------------------------------------------
// token cursor helpers
// ---------------------------------------------------------------------

func (p *parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // Eof
	}
	return p.toks[p.pos]
}

func (p *parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) fail(expected string, found token.Token) {
	if p.err == nil {
		p.err = diag.New(diag.SyntaxError, found.Span, "expected %s, found %s", expected, found)
	}
}

// expect consumes the next token if it has kind k, else records a syntax
// error (UnexpectedToken per spec.md §7) and returns the zero Token.
func (p *parser) expect(k token.Kind) token.Token {
	t := p.peek()
	if t.Kind != k {
		p.fail(k.String(), t)
		return token.Token{}
	}
	return p.advance()
}

// expectIdent consumes an Ident token or records an "expected identifier"
// syntax error.
func (p *parser) expectIdent() token.Token {
	t := p.peek()
	if t.Kind != token.Ident {
		if p.err == nil {
			p.err = diag.New(diag.SyntaxError, t.Span, "expected identifier, found %s", t)
		}
		return token.Token{}
	}
	return p.advance()
}

// expectKeyword consumes a Keyword token with the given symbol.
func (p *parser) expectKeyword(kw ident.Symbol, text string) token.Token {
	t := p.peek()
	if t.Kind != token.Keyword || t.Sym != kw {
		p.fail(text, t)
		return token.Token{}
	}
	return p.advance()
}

func (p *parser) atKeyword(kw ident.Symbol) bool {
	t := p.peek()
	return t.Kind == token.Keyword && t.Sym == kw
}

// ---------------------------------------------------------------------
// items
// ---------------------------------------------------------------------

func (p *parser) parseItem() ast.Item {
	start := p.peek().Span
	p.expectKeyword(ident.KwFn, "fn")
	name := p.expectIdent()
	p.expect(token.LParen)

	var inputs []ast.Param
	if p.peek().Kind != token.RParen {
		for {
			inputs = append(inputs, p.parseParam())
			if p.peek().Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen)

	var output *ast.TyExpr
	if p.peek().Kind == token.Arrow {
		p.advance()
		ty := p.parseTy()
		output = &ty
	}

	body := p.parseBlock()
	return ast.Item{
		Ident: name.Sym,
		Span:  start,
		Fn:    &ast.Fn{Inputs: inputs, Output: output, Body: body},
	}
}

func (p *parser) parseParam() ast.Param {
	start := p.peek().Span
	name := p.expectIdent()
	p.expect(token.Colon)
	ty := p.parseTy()
	return ast.Param{Ident: name.Sym, Ty: ty, Span: start}
}

func (p *parser) parseTy() ast.TyExpr {
	t := p.peek()
	if t.Kind == token.Keyword && (t.Sym == ident.KwI32 || t.Sym == ident.KwBool) {
		p.advance()
		return ast.TyExpr{Name: t.Sym, Span: t.Span}
	}
	p.fail("type", t)
	return ast.TyExpr{}
}

// ---------------------------------------------------------------------
// statements / blocks
// ---------------------------------------------------------------------

func (p *parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace).Span
	var stmts []ast.Stmt
	for p.peek().Kind != token.RBrace && p.peek().Kind != token.Eof && p.err == nil {
		stmt, isLast := p.parseStmt()
		stmts = append(stmts, stmt)
		if isLast {
			break
		}
	}
	p.expect(token.RBrace)
	return &ast.Block{Stmts: stmts, Span: start}
}

// parseStmt parses one statement. isLast reports whether this is a trailing
// expression with no semicolon, which must be immediately followed by '}'.
func (p *parser) parseStmt() (ast.Stmt, bool) {
	start := p.peek().Span

	if p.atKeyword(ident.KwLet) {
		p.advance()
		name := p.expectIdent()
		var ty *ast.TyExpr
		if p.peek().Kind == token.Colon {
			p.advance()
			t := p.parseTy()
			ty = &t
		}
		p.expect(token.Assign)
		init := p.parseExpr()
		p.expect(token.Semi)
		return ast.Stmt{Kind: ast.StmtLocal, Span: start, LocalIdent: name.Sym, LocalTy: ty, Init: init}, false
	}

	if p.atKeyword(ident.KwPrintln) {
		p.advance()
		p.expect(token.LParen)
		arg := p.parseExpr()
		p.expect(token.RParen)
		p.expect(token.Semi)
		return ast.Stmt{Kind: ast.StmtPrintln, Span: start, Init: arg}, false
	}

	e := p.parseExpr()
	switch p.peek().Kind {
	case token.Semi:
		p.advance()
		return ast.Stmt{Kind: ast.StmtSemi, Span: start, Init: e}, false
	case token.RBrace:
		return ast.Stmt{Kind: ast.StmtExpr, Span: start, Init: e}, true
	default:
		if isExprWithBlock(e) {
			// expr_with_block used as a statement needs no semicolon and is
			// not the block's trailing value unless immediately at '}'.
			return ast.Stmt{Kind: ast.StmtSemi, Span: start, Init: e}, false
		}
		p.fail("';' or '}'", p.peek())
		return ast.Stmt{Kind: ast.StmtSemi, Span: start, Init: e}, false
	}
}

func isExprWithBlock(e *ast.Expr) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprBlock, ast.ExprIf, ast.ExprLoop:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------
// expressions: precedence cascade, lowest to highest
// ---------------------------------------------------------------------

func (p *parser) parseExpr() *ast.Expr {
	return p.parseAssign()
}

// assign = equality ("=" expr)?   -- right-associative
func (p *parser) parseAssign() *ast.Expr {
	lhs := p.parseEquality()
	if p.peek().Kind == token.Assign {
		span := p.advance().Span
		rhs := p.parseExpr()
		return &ast.Expr{Kind: ast.ExprAssign, Span: span, LHS: lhs, RHS: rhs}
	}
	return lhs
}

// equality = relational (("==" | "!=") relational)?
func (p *parser) parseEquality() *ast.Expr {
	lhs := p.parseRelational()
	switch p.peek().Kind {
	case token.Eq:
		span := p.advance().Span
		rhs := p.parseRelational()
		return &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpEq, Span: span, LHS: lhs, RHS: rhs}
	case token.Ne:
		span := p.advance().Span
		rhs := p.parseRelational()
		return &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpNe, Span: span, LHS: lhs, RHS: rhs}
	}
	return lhs
}

// relational = add (("<" | "<=" | ">" | ">=") add)?
func (p *parser) parseRelational() *ast.Expr {
	lhs := p.parseAdd()
	var op ast.BinOp
	switch p.peek().Kind {
	case token.Lt:
		op = ast.OpLt
	case token.Le:
		op = ast.OpLe
	case token.Gt:
		op = ast.OpGt
	case token.Ge:
		op = ast.OpGe
	default:
		return lhs
	}
	span := p.advance().Span
	rhs := p.parseAdd()
	return &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Span: span, LHS: lhs, RHS: rhs}
}

// add = mul (("+" | "-") add)?   -- right-recursive: yields right-associative trees.
func (p *parser) parseAdd() *ast.Expr {
	lhs := p.parseMul()
	var op ast.BinOp
	switch p.peek().Kind {
	case token.Plus:
		op = ast.OpAdd
	case token.Minus:
		op = ast.OpSub
	default:
		return lhs
	}
	span := p.advance().Span
	rhs := p.parseAdd()
	return &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Span: span, LHS: lhs, RHS: rhs}
}

// mul = unary (("*" | "/") mul)?   -- right-recursive.
func (p *parser) parseMul() *ast.Expr {
	lhs := p.parseUnary()
	var op ast.BinOp
	switch p.peek().Kind {
	case token.Star:
		op = ast.OpMul
	case token.Slash:
		op = ast.OpDiv
	default:
		return lhs
	}
	span := p.advance().Span
	rhs := p.parseMul()
	return &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Span: span, LHS: lhs, RHS: rhs}
}

// unary = "-" primary | primary
func (p *parser) parseUnary() *ast.Expr {
	if p.peek().Kind == token.Minus {
		span := p.advance().Span
		operand := p.parsePrimary()
		return &ast.Expr{Kind: ast.ExprUnary, UnOp: ast.OpNeg, Span: span, RHS: operand}
	}
	return p.parsePrimary()
}

// primary = INT | "true" | "false" | IDENT | "(" expr ")"
//         | block_expr | if_expr | loop_expr
//         | "break" expr? | "continue" expr?
func (p *parser) parsePrimary() *ast.Expr {
	t := p.peek()
	switch {
	case t.Kind == token.Integer:
		p.advance()
		return &ast.Expr{Kind: ast.ExprLitInt, Span: t.Span, IntVal: parseUint(t.Text)}
	case t.Kind == token.Keyword && t.Sym == ident.KwTrue:
		p.advance()
		return &ast.Expr{Kind: ast.ExprLitBool, Span: t.Span, BoolVal: true}
	case t.Kind == token.Keyword && t.Sym == ident.KwFalse:
		p.advance()
		return &ast.Expr{Kind: ast.ExprLitBool, Span: t.Span, BoolVal: false}
	case t.Kind == token.Ident:
		p.advance()
		return &ast.Expr{Kind: ast.ExprPath, Span: t.Span, Path: t.Sym}
	case t.Kind == token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	case t.Kind == token.LBrace:
		blk := p.parseBlock()
		return &ast.Expr{Kind: ast.ExprBlock, Span: t.Span, Body: blk}
	case t.Kind == token.Keyword && t.Sym == ident.KwIf:
		return p.parseIf()
	case t.Kind == token.Keyword && t.Sym == ident.KwLoop:
		p.advance()
		body := p.parseBlock()
		return &ast.Expr{Kind: ast.ExprLoop, Span: t.Span, Body: body}
	case t.Kind == token.Keyword && t.Sym == ident.KwBreak:
		p.advance()
		var val *ast.Expr
		if canStartExpr(p.peek()) {
			val = p.parseExpr()
		}
		return &ast.Expr{Kind: ast.ExprBreak, Span: t.Span, RHS: val}
	case t.Kind == token.Keyword && t.Sym == ident.KwContinue:
		p.advance()
		var val *ast.Expr
		if canStartExpr(p.peek()) {
			val = p.parseExpr()
		}
		return &ast.Expr{Kind: ast.ExprContinue, Span: t.Span, RHS: val}
	default:
		p.fail("expression", t)
		return &ast.Expr{Kind: ast.ExprLitInt, Span: t.Span}
	}
}

// if_expr = "if" expr block ("else" (if_expr | block))?
func (p *parser) parseIf() *ast.Expr {
	span := p.expectKeyword(ident.KwIf, "if").Span
	cond := p.parseExprNoBlockTop()
	then := p.parseBlock()
	var elseExpr *ast.Expr
	if p.atKeyword(ident.KwElse) {
		p.advance()
		if p.atKeyword(ident.KwIf) {
			elseExpr = p.parseIf()
		} else {
			blk := p.parseBlock()
			elseExpr = &ast.Expr{Kind: ast.ExprBlock, Span: blk.Span, Body: blk}
		}
	}
	return &ast.Expr{Kind: ast.ExprIf, Span: span, Cond: cond, Then: then, Else: elseExpr}
}

// parseExprNoBlockTop parses the condition of an if-expression. The
// condition is an ordinary expression; since this grammar has no struct
// literals there is no ambiguity with the following block, so this is
// simply parseExpr.
func (p *parser) parseExprNoBlockTop() *ast.Expr {
	return p.parseExpr()
}

func canStartExpr(t token.Token) bool {
	switch t.Kind {
	case token.Semi, token.RBrace, token.Eof, token.Comma, token.RParen:
		return false
	default:
		return true
	}
}

func parseUint(s string) uint64 {
	var v uint64
	for _, c := range s {
		v = v*10 + uint64(c-'0')
	}
	return v
}
