package util

import (
	"os"
	"testing"
)

// withArgs replaces os.Args for the duration of f, restoring it afterward.
func withArgs(t *testing.T, args []string, f func()) {
	old := os.Args
	os.Args = append([]string{"mirc"}, args...)
	defer func() { os.Args = old }()
	f()
}

func TestParseArgsSourceOnly(t *testing.T) {
	withArgs(t, []string{"prog.vsl"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if opt.Src != "prog.vsl" {
			t.Errorf("expected Src %q, got %q", "prog.vsl", opt.Src)
		}
		if opt.Out != "" {
			t.Errorf("expected empty Out, got %q", opt.Out)
		}
		if opt.Pprint != PprintNone {
			t.Errorf("expected PprintNone, got %v", opt.Pprint)
		}
	})
}

func TestParseArgsOutputAndPprint(t *testing.T) {
	withArgs(t, []string{"prog.vsl", "-o", "out.o", "--pprint", "mir"}, func() {
		opt, err := ParseArgs()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if opt.Out != "out.o" {
			t.Errorf("expected Out %q, got %q", "out.o", opt.Out)
		}
		if opt.Pprint != PprintMIR {
			t.Errorf("expected PprintMIR, got %v", opt.Pprint)
		}
	})
}

func TestParseArgsMissingSource(t *testing.T) {
	withArgs(t, []string{}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatal("expected error for missing source file, got nil")
		}
	})
}

func TestParseArgsUnknownFlag(t *testing.T) {
	withArgs(t, []string{"-bogus", "prog.vsl"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatal("expected error for unknown flag, got nil")
		}
	})
}

func TestParseArgsBadPprintStage(t *testing.T) {
	withArgs(t, []string{"prog.vsl", "--pprint", "nope"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatal("expected error for invalid --pprint stage, got nil")
		}
	})
}

func TestParseArgsMissingOutputArg(t *testing.T) {
	withArgs(t, []string{"prog.vsl", "-o"}, func() {
		if _, err := ParseArgs(); err == nil {
			t.Fatal("expected error for -o with no argument, got nil")
		}
	})
}
