// Package util holds the driver's ambient concerns: command line argument
// parsing and source file reading, grounded on the teacher's util package.
package util

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"text/tabwriter"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// PprintStage names an IR stage the driver can pretty-print instead of
// running codegen, per the --pprint flag (spec.md §6).
type PprintStage int

const (
	PprintNone PprintStage = iota
	PprintToken
	PprintAST
	PprintHIR
	PprintTHIR
	PprintMIR
)

// Options holds the parsed command line: a source file and an optional
// pretty-print target, plus an output path for linked/object output.
// Trimmed down from the teacher's Options (no target arch/vendor/CPU/OS:
// this backend only ever targets the host triple, spec.md §4.6).
type Options struct {
	Src    string // Path to source file.
	Out    string // Path to output object file, if -o was given.
	Pprint PprintStage
}

// ---------------------
// ----- Constants -----
// ---------------------

const appVersion = "mirc 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs parses command line arguments into an Options value.
func ParseArgs() (Options, error) {
	opt := Options{}
	args := os.Args[1:]
	for i1 := 0; i1 < len(args); i1++ {
		switch args[i1] {
		case "-h", "--h", "-help", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--v", "-version", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-o":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			if strings.HasPrefix(args[i1+1], "-") {
				return opt, fmt.Errorf("expected path to output file, got new flag %s", args[i1+1])
			}
			opt.Out = args[i1+1]
			i1++
		case "--pprint":
			if i1+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i1])
			}
			switch args[i1+1] {
			case "token":
				opt.Pprint = PprintToken
			case "ast":
				opt.Pprint = PprintAST
			case "hir":
				opt.Pprint = PprintHIR
			case "thir":
				opt.Pprint = PprintTHIR
			case "mir":
				opt.Pprint = PprintMIR
			default:
				return opt, fmt.Errorf("unexpected --pprint stage: %s (want one of token, ast, hir, thir, mir)", args[i1+1])
			}
			i1++
		default:
			if strings.HasPrefix(args[i1], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i1])
			}
			if opt.Src != "" {
				return opt, fmt.Errorf("unexpected extra argument: %s", args[i1])
			}
			opt.Src = args[i1]
		}
	}
	if opt.Src == "" {
		return opt, fmt.Errorf("expected a source file path")
	}
	return opt, nil
}

// printHelp prints a helpful usage message to stdout.
func printHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, 0)
	_, _ = fmt.Fprintln(w, "usage: mirc <filename> [--pprint {token|ast|hir|thir|mir}] [-o outfile]")
	_, _ = fmt.Fprintln(w, "-h, -help\tPrints this help message and exits.")
	_, _ = fmt.Fprintln(w, "-v, -version\tPrints the compiler version and exits.")
	_, _ = fmt.Fprintln(w, "--pprint\tPretty-print an IR stage instead of running codegen.")
	_, _ = fmt.Fprintln(w, "-o\tPath to the emitted object file.")
	_ = w.Flush()
}

// ReadSource reads source code from the file named by opt.Src.
func ReadSource(opt Options) (string, error) {
	b, err := ioutil.ReadFile(opt.Src)
	return string(b), err
}
