// Package mir defines the control-flow-graph IR described in spec.md §3/§4.5:
// a Body per function made of Blocks of Statements ending in a Terminator.
//
// Grounded on original_source/compiler/mir/src/{lib,stmt,terminator,constant}.rs
// for the data shapes (Body/Block/Place/RValue/Operand/Constant/Scalar), with
// the teacher's ir/lir/print.go per-instruction Name()/String() convention
// folded directly into this package's own printer rather than kept behind a
// separate lir indirection -- this pipeline's MIR is already the flat,
// block-local-value shape LIR gave the teacher's backend.
package mir

import (
	"fmt"
	"strings"

	"mirc/internal/resolve"
	"mirc/internal/xtoa"
)

// BlockId indexes Body.Blocks.
type BlockId uint32

// LocalId indexes Body.Locals. LocalId(0) is always the return place,
// mirroring the original Rust MIR's convention (spec.md §4.5).
type LocalId uint32

// Place is an assignable location. Only bare locals exist in this language;
// no field/index projections (spec.md Non-goals).
type Place struct {
	Local LocalId
}

func (p Place) String() string { return localName(p.Local) }

func localName(id LocalId) string {
	if id == 0 {
		return "_0"
	}
	return fmt.Sprintf("_%d", id)
}

// LocalDecl describes one local slot: its source name (empty for compiler
// temporaries) and its type, as a printable string that both the pretty
// printer and the LLVM backend (which maps it to an LLVM type) read.
type LocalDecl struct {
	Name string
	Ty   string // printable type, e.g. "i32", "bool", "()"
}

// ScalarKind differentiates the representations a Scalar may carry.
type ScalarKind int

const (
	ScalarInt ScalarKind = iota
	ScalarBool
	ScalarUnit
)

// Scalar is a MIR literal value, modeled on ScalarInt in
// original_source/compiler/mir/src/constant.rs.
type Scalar struct {
	Kind ScalarKind
	Data uint64
}

func (s Scalar) String() string {
	switch s.Kind {
	case ScalarBool:
		if s.Data != 0 {
			return "true"
		}
		return "false"
	case ScalarUnit:
		return "()"
	default:
		return xtoa.ItoA(int(s.Data))
	}
}

// Constant pairs a Scalar with its printable type.
type Constant struct {
	Ty    string
	Value Scalar
}

func (c Constant) String() string { return c.Value.String() }

// TrueConst, FalseConst and UnitConst are the recurring literal constants,
// named to match original_source/compiler/mir/src/constant.rs's TRUE/FALSE/UNIT.
var (
	TrueConst  = Constant{Ty: "bool", Value: Scalar{Kind: ScalarBool, Data: 1}}
	FalseConst = Constant{Ty: "bool", Value: Scalar{Kind: ScalarBool, Data: 0}}
	UnitConst  = Constant{Ty: "()", Value: Scalar{Kind: ScalarUnit}}
)

// Operand is an RValue operand: a copy of a place's current value, or an
// inline constant.
type Operand struct {
	IsConst bool
	Place   Place
	Const   Constant
}

func CopyOf(p Place) Operand          { return Operand{Place: p} }
func ConstOperand(c Constant) Operand { return Operand{IsConst: true, Const: c} }

func (o Operand) String() string {
	if o.IsConst {
		return o.Const.String()
	}
	return o.Place.String()
}

// BinOp/UnOp mirror ast.BinOp/ast.UnOp but are redeclared here so mir has no
// dependency on the surface syntax package, matching the original MIR's
// separation from the frontend crate.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNe
	BinLt
	BinLe
	BinGt
	BinGe
)

var binOpNames = [...]string{"+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">="}

func (b BinOp) String() string { return binOpNames[b] }

type UnOp int

const (
	UnNeg UnOp = iota
)

func (UnOp) String() string { return "-" }

// RValue is the right-hand side of an Assign statement.
type RValue struct {
	Kind     RValueKind
	Operand  Operand // Use
	BinOp    BinOp
	LHS, RHS Operand // BinaryOp
	UnOp     UnOp
	Arg      Operand // UnaryOp
}

type RValueKind int

const (
	RValueUse RValueKind = iota
	RValueBinaryOp
	RValueUnaryOp
)

func (r RValue) String() string {
	switch r.Kind {
	case RValueBinaryOp:
		return fmt.Sprintf("%s %s %s", r.LHS, r.BinOp, r.RHS)
	case RValueUnaryOp:
		return fmt.Sprintf("%s%s", r.UnOp, r.Arg)
	default:
		return r.Operand.String()
	}
}

// StatementKind differentiates Statement variants.
type StatementKind int

const (
	StmtAssign StatementKind = iota
	StmtPrintln
)

// Statement is one non-control-flow instruction inside a Block.
type Statement struct {
	Kind     StatementKind
	Place    Place   // StmtAssign
	RValue   RValue  // StmtAssign
	Arg      Operand // StmtPrintln
}

func (s Statement) String() string {
	if s.Kind == StmtPrintln {
		return fmt.Sprintf("println %s", s.Arg)
	}
	return fmt.Sprintf("%s = %s", s.Place, s.RValue)
}

// SwitchTargets pairs each discriminant value in Values with the
// corresponding target in Targets: len(Values) == len(Targets), with no
// separate otherwise field -- exactly
// original_source/compiler/mir/src/terminator.rs's SwitchTargets{values,
// targets}, per spec.md's explicit choice of "values.len() == targets.len()"
// over the alternative values/targets-plus-otherwise encoding (spec.md §2,
// §4.5's "Edge cases"). The last entry is the de-facto default: TargetFor
// falls back to it when v matches no listed value.
type SwitchTargets struct {
	Values  []uint64
	Targets []BlockId
}

// TargetFor returns the block for discriminant value v, falling back to the
// last target when v isn't listed (spec.md §4.5's "Edge cases": "the source's
// SwitchInt.targets uses values.len() == targets.len() with no explicit
// default ... treat the last target as de-facto default").
func (st SwitchTargets) TargetFor(v uint64) BlockId {
	for i, want := range st.Values {
		if want == v {
			return st.Targets[i]
		}
	}
	return st.Targets[len(st.Targets)-1]
}

// TerminatorKind differentiates Terminator variants. Call is an addition
// over original_source's terminator.rs: spec.md §4.5 specifies the shape of
// this variant, but nothing in the pipeline currently constructs one, since
// the parser has no call-expression grammar (mirbuild.lowerCall exists only
// as scaffolding for when that grammar is added).
type TerminatorKind int

const (
	TermGoto TerminatorKind = iota
	TermSwitchInt
	TermCall
	TermReturn
)

// Terminator ends every Block exactly once.
type Terminator struct {
	Kind TerminatorKind

	Goto BlockId // TermGoto

	Discr    Operand       // TermSwitchInt
	SwitchTy string        // TermSwitchInt: type of Discr, e.g. "bool" (spec.md §4.5)
	Switches SwitchTargets // TermSwitchInt

	CallFn      resolve.DefId // TermCall
	CallArgs    []Operand     // TermCall
	CallDest    Place         // TermCall
	CallTarget  BlockId       // TermCall: block to jump to after the call returns
}

func (t Terminator) String() string {
	switch t.Kind {
	case TermGoto:
		return fmt.Sprintf("goto -> bb%d", t.Goto)
	case TermSwitchInt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "switchInt(%s: %s) -> [", t.Discr, t.SwitchTy)
		for i, v := range t.Switches.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d: bb%d", v, t.Switches.Targets[i])
		}
		sb.WriteString("]")
		return sb.String()
	case TermCall:
		args := make([]string, len(t.CallArgs))
		for i, a := range t.CallArgs {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s = call fn#%d(%s) -> bb%d", t.CallDest, t.CallFn, strings.Join(args, ", "), t.CallTarget)
	default:
		return "return"
	}
}

// Block is a single basic block: a straight-line list of statements followed
// by exactly one terminator.
type Block struct {
	Stmts      []Statement
	Terminator *Terminator
}

func (b Block) String(id BlockId) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "bb%d: {\n", id)
	for _, s := range b.Stmts {
		fmt.Fprintf(&sb, "    %s;\n", s)
	}
	if b.Terminator != nil {
		fmt.Fprintf(&sb, "    %s;\n", b.Terminator)
	}
	sb.WriteString("}")
	return sb.String()
}

// Body is the MIR of a single function, grounded on
// original_source/compiler/mir/src/lib.rs's Body<'tcx>.
type Body struct {
	Def      resolve.DefId
	Name     string
	Blocks   []Block
	Locals   []LocalDecl
	ArgCount int // Locals[1 .. 1+ArgCount] are the function's parameters
}

// ReturnPlace is always LocalId(0) (spec.md §4.5).
func (b *Body) ReturnPlace() Place { return Place{Local: 0} }

// Args returns the LocalIds of the function's parameters, in declaration order.
func (b *Body) Args() []LocalId {
	out := make([]LocalId, b.ArgCount)
	for i := range out {
		out[i] = LocalId(i + 1)
	}
	return out
}

// ExtraLocals returns every LocalId past the return place and arguments: the
// user's other let-bindings plus compiler-introduced temporaries.
func (b *Body) ExtraLocals() []LocalId {
	out := make([]LocalId, 0, len(b.Locals)-1-b.ArgCount)
	for i := 1 + b.ArgCount; i < len(b.Locals); i++ {
		out = append(out, LocalId(i))
	}
	return out
}

// String renders the full body in a debug-readable textual form, following
// the teacher's convention of a dedicated String() per IR value
// (ir/lir/print.go) rather than one monolithic formatter function.
func (b *Body) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "fn %s(%s) -> %s {\n", b.Name, strings.Join(declList(b, b.Args()), ", "), b.Locals[0].Ty)
	for _, id := range b.ExtraLocals() {
		d := b.Locals[id]
		name := d.Name
		if name == "" {
			name = localName(id)
		}
		fmt.Fprintf(&sb, "    let %s: %s; // %s\n", localName(id), d.Ty, name)
	}
	for i, blk := range b.Blocks {
		sb.WriteString("    ")
		sb.WriteString(strings.ReplaceAll(blk.String(BlockId(i)), "\n", "\n    "))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func declList(b *Body, ids []LocalId) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%s: %s", localName(id), b.Locals[id].Ty)
	}
	return out
}
