// Package pprint reconstructs readable syntax from each IR stage, backing
// the driver's --pprint flag (spec.md §6). These are the "thin collaborators"
// spec.md §4 describes as specified only by the property "same input -> same
// output bytes": each Print function is a straightforward recursive
// traversal, not a validated grammar.
package pprint

import (
	"fmt"
	"strings"

	"mirc/internal/ast"
	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/mir"
	"mirc/internal/thir"
	"mirc/internal/token"
)

// Tokens renders a token stream one token per line.
func Tokens(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// AST renders the surface syntax tree reconstructed from items.
func AST(items []ast.Item, in *ident.Interner) string {
	var sb strings.Builder
	for _, it := range items {
		printAstFn(&sb, 0, in, it.Ident, it.Fn)
	}
	return sb.String()
}

func printAstFn(sb *strings.Builder, depth int, in *ident.Interner, name ident.Symbol, f *ast.Fn) {
	indent(sb, depth)
	fmt.Fprintf(sb, "fn %s(", in.String(name))
	for i, p := range f.Inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s: %s", in.String(p.Ident), in.String(p.Ty.Name))
	}
	sb.WriteString(")")
	if f.Output != nil {
		fmt.Fprintf(sb, " -> %s", in.String(f.Output.Name))
	}
	sb.WriteString(" ")
	printAstBlock(sb, depth, in, f.Body)
	sb.WriteByte('\n')
}

func printAstBlock(sb *strings.Builder, depth int, in *ident.Interner, b *ast.Block) {
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		printAstStmt(sb, depth+1, in, &s)
	}
	indent(sb, depth)
	sb.WriteString("}")
}

func printAstStmt(sb *strings.Builder, depth int, in *ident.Interner, s *ast.Stmt) {
	indent(sb, depth)
	switch s.Kind {
	case ast.StmtLocal:
		fmt.Fprintf(sb, "let %s", in.String(s.LocalIdent))
		if s.LocalTy != nil {
			fmt.Fprintf(sb, ": %s", in.String(s.LocalTy.Name))
		}
		fmt.Fprintf(sb, " = %s;\n", astExprString(in, s.Init))
	case ast.StmtPrintln:
		fmt.Fprintf(sb, "println(%s);\n", astExprString(in, s.Init))
	case ast.StmtSemi:
		fmt.Fprintf(sb, "%s;\n", astExprString(in, s.Init))
	default: // StmtExpr: trailing expression, no semicolon
		fmt.Fprintf(sb, "%s\n", astExprString(in, s.Init))
	}
}

func astExprString(in *ident.Interner, e *ast.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ast.ExprLitInt:
		return fmt.Sprintf("%d", e.IntVal)
	case ast.ExprLitBool:
		return fmt.Sprintf("%t", e.BoolVal)
	case ast.ExprPath:
		return in.String(e.Path)
	case ast.ExprBinary:
		return fmt.Sprintf("(%s %s %s)", astExprString(in, e.LHS), binOpStr(e.BinOp), astExprString(in, e.RHS))
	case ast.ExprUnary:
		return fmt.Sprintf("(-%s)", astExprString(in, e.RHS))
	case ast.ExprAssign:
		return fmt.Sprintf("%s = %s", astExprString(in, e.LHS), astExprString(in, e.RHS))
	case ast.ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = astExprString(in, a)
		}
		return fmt.Sprintf("%s(%s)", astExprString(in, e.Callee), strings.Join(args, ", "))
	case ast.ExprIf:
		s := fmt.Sprintf("if %s { %s }", astExprString(in, e.Cond), astBlockInline(in, e.Then))
		if e.Else != nil {
			s += fmt.Sprintf(" else %s", astExprString(in, e.Else))
		}
		return s
	case ast.ExprLoop:
		return fmt.Sprintf("loop { %s }", astBlockInline(in, e.Body))
	case ast.ExprBreak:
		if e.RHS != nil {
			return fmt.Sprintf("break %s", astExprString(in, e.RHS))
		}
		return "break"
	case ast.ExprContinue:
		if e.RHS != nil {
			return fmt.Sprintf("continue %s", astExprString(in, e.RHS))
		}
		return "continue"
	case ast.ExprBlock:
		return fmt.Sprintf("{ %s }", astBlockInline(in, e.Body))
	default:
		return "<expr>"
	}
}

func astBlockInline(in *ident.Interner, b *ast.Block) string {
	var sb strings.Builder
	for i, s := range b.Stmts {
		if i > 0 {
			sb.WriteString(" ")
		}
		switch s.Kind {
		case ast.StmtLocal:
			fmt.Fprintf(&sb, "let %s", in.String(s.LocalIdent))
			if s.LocalTy != nil {
				fmt.Fprintf(&sb, ": %s", in.String(s.LocalTy.Name))
			}
			fmt.Fprintf(&sb, " = %s;", astExprString(in, s.Init))
		case ast.StmtPrintln:
			fmt.Fprintf(&sb, "println(%s);", astExprString(in, s.Init))
		case ast.StmtSemi:
			fmt.Fprintf(&sb, "%s;", astExprString(in, s.Init))
		default:
			sb.WriteString(astExprString(in, s.Init))
		}
	}
	return sb.String()
}

func binOpStr(op ast.BinOp) string {
	return [...]string{"+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">="}[op]
}

// HIR renders the resolved tree: identical surface syntax to AST, but every
// variable reference prints its resolved definition id instead of its name,
// so that shadowing (two lets named the same thing) is visible in the output.
func HIR(fns []hir.Fn, in *ident.Interner) string {
	var sb strings.Builder
	for _, f := range fns {
		fmt.Fprintf(&sb, "fn %s(", in.String(f.Ident))
		for i, p := range f.Inputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s#%d: %s", in.String(p.Binding.Name), p.Binding.Res.Def, in.String(p.Ty.Name))
		}
		sb.WriteString(") ")
		printHirBlock(&sb, in, f.Body)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printHirBlock(sb *strings.Builder, in *ident.Interner, b *hir.Block) {
	sb.WriteString("{ ")
	for _, s := range b.Stmts {
		switch s.Kind {
		case hir.StmtLocal:
			fmt.Fprintf(sb, "let %s#%d = %s; ", in.String(s.Binding.Name), s.Binding.Res.Def, hirExprString(in, s.Init))
		case hir.StmtPrintln:
			fmt.Fprintf(sb, "println(%s); ", hirExprString(in, s.Init))
		default:
			fmt.Fprintf(sb, "%s; ", hirExprString(in, s.Init))
		}
	}
	sb.WriteString("}")
}

func hirExprString(in *ident.Interner, e *hir.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case hir.ExprLitInt:
		return fmt.Sprintf("%d", e.IntVal)
	case hir.ExprLitBool:
		return fmt.Sprintf("%t", e.BoolVal)
	case hir.ExprPath:
		return fmt.Sprintf("#%d", e.PathRes.Def)
	case hir.ExprBinary:
		return fmt.Sprintf("(%s %s %s)", hirExprString(in, e.LHS), binOpStr(e.BinOp), hirExprString(in, e.RHS))
	case hir.ExprUnary:
		return fmt.Sprintf("(-%s)", hirExprString(in, e.RHS))
	case hir.ExprAssign:
		return fmt.Sprintf("%s = %s", hirExprString(in, e.LHS), hirExprString(in, e.RHS))
	case hir.ExprIf:
		var bb strings.Builder
		printHirBlock(&bb, in, e.Then)
		s := fmt.Sprintf("if %s %s", hirExprString(in, e.Cond), bb.String())
		if e.Else != nil {
			s += fmt.Sprintf(" else %s", hirExprString(in, e.Else))
		}
		return s
	case hir.ExprLoop:
		var bb strings.Builder
		printHirBlock(&bb, in, e.Body)
		return fmt.Sprintf("loop %s", bb.String())
	case hir.ExprBreak:
		if e.RHS != nil {
			return fmt.Sprintf("break %s", hirExprString(in, e.RHS))
		}
		return "break"
	case hir.ExprContinue:
		return "continue"
	case hir.ExprBlock:
		var bb strings.Builder
		printHirBlock(&bb, in, e.Body)
		return bb.String()
	default:
		return "<expr>"
	}
}

// THIR renders the type-checked tree with literals, variable references,
// operators, ifs and loops annotated by their checked type, e.g.
// `(1 + 2): i32`; each block states its type in a `// : ty` header.
// Assignments, break and continue print without a type.
func THIR(fns []thir.Fn, in *ident.Interner) string {
	var sb strings.Builder
	for _, f := range fns {
		fmt.Fprintf(&sb, "fn %s(", in.String(f.Ident))
		for i, p := range f.Inputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s: %s", in.String(p.Binding.Name), p.Ty)
		}
		fmt.Fprintf(&sb, ") -> %s ", f.Output)
		printThirBlock(&sb, in, f.Body)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printThirBlock(sb *strings.Builder, in *ident.Interner, b *thir.Block) {
	fmt.Fprintf(sb, "{ // : %s\n", b.Ty)
	for _, s := range b.Stmts {
		switch s.Kind {
		case thir.StmtLocal:
			fmt.Fprintf(sb, "  let %s = %s;\n", in.String(s.Binding.Name), thirExprString(in, s.Init))
		case thir.StmtPrintln:
			fmt.Fprintf(sb, "  println(%s);\n", thirExprString(in, s.Init))
		default:
			fmt.Fprintf(sb, "  %s;\n", thirExprString(in, s.Init))
		}
	}
	sb.WriteString("}")
}

func thirExprString(in *ident.Interner, e *thir.Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case thir.ExprLitInt:
		return fmt.Sprintf("%d: %s", e.IntVal, e.Ty)
	case thir.ExprLitBool:
		return fmt.Sprintf("%t: %s", e.BoolVal, e.Ty)
	case thir.ExprVarRef:
		return fmt.Sprintf("#%d: %s", e.VarRes.Def, e.Ty)
	case thir.ExprBinary:
		return fmt.Sprintf("(%s %s %s): %s", thirExprString(in, e.LHS), binOpStr(e.BinOp), thirExprString(in, e.RHS), e.Ty)
	case thir.ExprUnary:
		return fmt.Sprintf("(-%s): %s", thirExprString(in, e.RHS), e.Ty)
	case thir.ExprAssign:
		return fmt.Sprintf("%s = %s", thirExprString(in, e.LHS), thirExprString(in, e.RHS))
	case thir.ExprIf:
		var bb strings.Builder
		printThirBlock(&bb, in, e.Then)
		s := fmt.Sprintf("if %s %s", thirExprString(in, e.Cond), bb.String())
		if e.Else != nil {
			s += fmt.Sprintf(" else %s", thirExprString(in, e.Else))
		}
		return s + fmt.Sprintf(": %s", e.Ty)
	case thir.ExprLoop:
		var bb strings.Builder
		printThirBlock(&bb, in, e.Body)
		return fmt.Sprintf("loop %s: %s", bb.String(), e.Ty)
	case thir.ExprBreak:
		if e.RHS != nil {
			return fmt.Sprintf("break %s", thirExprString(in, e.RHS))
		}
		return "break"
	case thir.ExprContinue:
		return "continue"
	case thir.ExprBlock:
		var bb strings.Builder
		printThirBlock(&bb, in, e.Body)
		return bb.String()
	default:
		return "<expr>"
	}
}

// MIR renders every function body, delegating to mir.Body's own String().
func MIR(bodies []*mir.Body) string {
	var sb strings.Builder
	for i, b := range bodies {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("    ")
	}
}
