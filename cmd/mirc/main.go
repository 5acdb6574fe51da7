// Command mirc is the compiler driver: it wires the lexer, parser, resolver,
// HIR/THIR/MIR lowering passes and the LLVM backend together, and implements
// the CLI contract of spec.md §6/§7.
//
// Grounded on the teacher's src/main.go `run(opt) error` shape, trimmed to a
// single-threaded pipeline (spec.md §5: "the compiler is single-threaded and
// executes the pipeline sequentially") -- the teacher's parallel
// optimise/codegen dispatch and its channel-based output Writer are not
// reused here because this pipeline's passes are pure functions over a
// single compilation unit, not per-function-in-parallel jobs the way the
// teacher's ir.Optimise/genFuncBody are; the same "own builder per
// goroutine" concurrency is instead reintroduced one layer down, in
// llvmgen.GenerateBodiesConcurrent, where it is actually called for.
package main

import (
	"fmt"
	"os"

	"mirc/internal/codegen/llvmgen"
	"mirc/internal/diag"
	"mirc/internal/hir"
	"mirc/internal/ident"
	"mirc/internal/lexer"
	"mirc/internal/mir"
	"mirc/internal/mirbuild"
	"mirc/internal/parser"
	"mirc/internal/pprint"
	"mirc/internal/resolve"
	"mirc/internal/thir"
	"mirc/internal/types"
	"mirc/internal/util"
)

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %s\n", err)
		os.Exit(1)
	}

	src, err := util.ReadSource(opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %s\n", opt.Src, err)
		os.Exit(1)
	}

	if derr := run(opt, src); derr != nil {
		fmt.Fprintln(os.Stderr, formatDiag(opt.Src, src, derr))
		os.Exit(1)
	}
}

// run executes the pipeline and prints the requested output. It returns the
// first *diag.Error encountered by any pass (spec.md §7: "the driver prints
// the first error and exits with code 1. No attempt at multi-error
// recovery").
func run(opt util.Options, src string) *diag.Error {
	in := ident.NewInterner()

	toks, lerr := lexer.Lex(src, in)
	if lerr != nil {
		return lerr
	}
	if opt.Pprint == util.PprintToken {
		fmt.Print(pprint.Tokens(toks))
		return nil
	}

	items, perr := parser.Parse(toks)
	if perr != nil {
		return perr
	}
	if opt.Pprint == util.PprintAST {
		fmt.Print(pprint.AST(items, in))
		return nil
	}

	rm, rerr := resolve.Resolve(items)
	if rerr != nil {
		return rerr
	}

	fns := hir.Lower(items, rm)
	if opt.Pprint == util.PprintHIR {
		fmt.Print(pprint.HIR(fns, in))
		return nil
	}

	tfns, cerr := thir.Check(fns, types.NewCtx())
	if cerr != nil {
		return cerr
	}
	if opt.Pprint == util.PprintTHIR {
		fmt.Print(pprint.THIR(tfns, in))
		return nil
	}

	bodies := make([]*mir.Body, 0, len(tfns))
	for _, f := range tfns {
		bodies = append(bodies, mirbuild.Build(f, in))
	}
	if opt.Pprint == util.PprintMIR {
		fmt.Print(pprint.MIR(bodies))
		return nil
	}

	return codegen(opt, bodies)
}

// codegen lowers MIR to LLVM IR and either prints the module or writes an
// object file, depending on opt.Out (spec.md §4 "Output").
func codegen(opt util.Options, bodies []*mir.Body) *diag.Error {
	gen := llvmgen.NewGenerator("mirc")
	defer gen.Dispose()

	if err := gen.DeclareFunctions(bodies); err != nil {
		return diag.New(diag.CodegenError, ident.NoSpan, "%s", err)
	}
	if derr := gen.GenerateBodiesConcurrent(bodies); derr != nil {
		return derr
	}

	if opt.Out == "" {
		fmt.Print(gen.String())
		return nil
	}
	if err := gen.EmitObject(opt.Out); err != nil {
		return diag.New(diag.CodegenError, ident.NoSpan, "%s", err)
	}
	return nil
}

// formatDiag renders a diagnostic with its file path and line:column,
// computed by scanning src up to the span's byte offset (spec.md §7:
// "errors are printed to standard error with file path, span line:column,
// and a message").
func formatDiag(path, src string, e *diag.Error) string {
	line, col := lineCol(src, e.Span.Lo)
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, line, col, e.Kind, e.Msg)
}

func lineCol(src string, offset uint32) (line, col int) {
	line, col = 1, 1
	for i, r := range src {
		if uint32(i) >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
