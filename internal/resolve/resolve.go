// Package resolve performs name resolution over the AST (spec.md §4.3): a
// nested-scope walk that assigns a dense DefId to every declaration site and
// maps every use to the DefId of its binder.
//
// Grounded on the teacher's ir/optimise.go post-order tree walk (visit
// children, then act on the node), adapted here to a pre-declare-then-visit
// two-pass shape so that function items may forward-reference each other.
package resolve

import (
	"mirc/internal/ast"
	"mirc/internal/diag"
	"mirc/internal/ident"
)

// DefId is a dense, monotonically assigned identifier produced by name
// resolution; every declaration site gets exactly one.
type DefId uint32

// ResKind differentiates what kind of thing a DefId names.
type ResKind int

const (
	ResFn ResKind = iota
	ResLocal
	ResParam
)

func (k ResKind) String() string {
	switch k {
	case ResFn:
		return "fn"
	case ResParam:
		return "param"
	default:
		return "local"
	}
}

// Res is a resolved name: a DefId plus what kind of binder it is.
type Res struct {
	Def  DefId
	Kind ResKind
}

// Map is the output of name resolution: every Path/Ident use resolved to
// the Res of its binder, and every declaration site's own Res, keyed by AST
// node identity (pointer equality), matching the design notes' allowance
// for index/pointer-based trees over boxed child ownership.
type Map struct {
	Uses  map[*ast.Expr]Res
	Fns   map[*ast.Item]Res
	Parms map[*ast.Param]Res
	Locs  map[*ast.Stmt]Res // keyed by the StmtLocal node that introduces the binding
}

func newMap() *Map {
	return &Map{
		Uses:  make(map[*ast.Expr]Res),
		Fns:   make(map[*ast.Item]Res),
		Parms: make(map[*ast.Param]Res),
		Locs:  make(map[*ast.Stmt]Res),
	}
}

// scope is one level of a nested name-to-Res stack. Lookup walks from the
// innermost scope outward; the innermost shadows all outer bindings.
type scope struct {
	names  map[ident.Symbol]Res
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{names: make(map[ident.Symbol]Res), parent: parent}
}

func (s *scope) lookup(sym ident.Symbol) (Res, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if r, ok := sc.names[sym]; ok {
			return r, true
		}
	}
	return Res{}, false
}

func (s *scope) declare(sym ident.Symbol, r Res) {
	s.names[sym] = r
}

type resolver struct {
	next DefId
	m    *Map
	err  *diag.Error
}

func (r *resolver) fresh() DefId {
	id := r.next
	r.next++
	return id
}

// Resolve walks items and returns the resolution map, or the first
// UnresolvedName error encountered.
func Resolve(items []ast.Item) (*Map, *diag.Error) {
	r := &resolver{m: newMap()}
	top := newScope(nil)

	// Pre-declare every top-level item so forward references across fns
	// resolve (spec.md §4.3 step 2).
	for i := range items {
		it := &items[i]
		def := r.fresh()
		res := Res{Def: def, Kind: ResFn}
		top.declare(it.Ident, res)
		r.m.Fns[it] = res
	}

	for i := range items {
		r.resolveItem(&items[i], top)
		if r.err != nil {
			return nil, r.err
		}
	}
	return r.m, nil
}

func (r *resolver) resolveItem(it *ast.Item, top *scope) {
	fnScope := newScope(top)
	for pi := range it.Fn.Inputs {
		p := &it.Fn.Inputs[pi]
		def := r.fresh()
		res := Res{Def: def, Kind: ResParam}
		fnScope.declare(p.Ident, res)
		r.m.Parms[p] = res
	}
	r.resolveBlock(it.Fn.Body, fnScope)
}

func (r *resolver) resolveBlock(b *ast.Block, parent *scope) {
	sc := newScope(parent) // a block introduces a new scope (spec.md §4.3 step 4)
	for i := range b.Stmts {
		r.resolveStmt(&b.Stmts[i], sc)
		if r.err != nil {
			return
		}
	}
}

func (r *resolver) resolveStmt(s *ast.Stmt, sc *scope) {
	switch s.Kind {
	case ast.StmtLocal:
		// The initializer is resolved before the binding is introduced, so
		// `let x = x + 1;` resolves the RHS x to an outer binding
		// (spec.md §4.3 step 5).
		r.resolveExpr(s.Init, sc)
		if r.err != nil {
			return
		}
		def := r.fresh()
		res := Res{Def: def, Kind: ResLocal}
		sc.declare(s.LocalIdent, res)
		r.m.Locs[s] = res
	case ast.StmtPrintln:
		r.resolveExpr(s.Init, sc)
	default: // StmtExpr, StmtSemi
		r.resolveExpr(s.Init, sc)
	}
}

func (r *resolver) resolveExpr(e *ast.Expr, sc *scope) {
	if e == nil || r.err != nil {
		return
	}
	switch e.Kind {
	case ast.ExprBinary:
		r.resolveExpr(e.LHS, sc)
		r.resolveExpr(e.RHS, sc)
	case ast.ExprUnary:
		r.resolveExpr(e.RHS, sc)
	case ast.ExprAssign:
		r.resolveExpr(e.RHS, sc)
		r.resolveExpr(e.LHS, sc)
	case ast.ExprCall:
		r.resolveExpr(e.Callee, sc)
		for _, a := range e.Args {
			r.resolveExpr(a, sc)
		}
	case ast.ExprIf:
		r.resolveExpr(e.Cond, sc)
		r.resolveBlock(e.Then, sc)
		r.resolveExpr(e.Else, sc)
	case ast.ExprLoop:
		r.resolveBlock(e.Body, sc)
	case ast.ExprBreak, ast.ExprContinue:
		r.resolveExpr(e.RHS, sc)
	case ast.ExprBlock:
		r.resolveBlock(e.Body, sc)
	case ast.ExprPath:
		res, ok := sc.lookup(e.Path)
		if !ok {
			r.err = diag.New(diag.UnresolvedName, e.Span, "use of unresolved name")
			return
		}
		r.m.Uses[e] = res
	}
}
