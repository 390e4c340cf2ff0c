package util

import "testing"

func TestParseArgsDefaultsToLinkPhase(t *testing.T) {
	opt, err := ParseArgs([]string{"main.la"})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %s", err)
	}
	if opt.Phase != "link" {
		t.Fatalf("Phase = %q, want %q", opt.Phase, "link")
	}
	if opt.Src != "main.la" {
		t.Fatalf("Src = %q, want %q", opt.Src, "main.la")
	}
}

func TestParseArgsFlags(t *testing.T) {
	opt, err := ParseArgs([]string{
		"-o", "out", "-w", "-werror", "-ll", "-ast", "-vb",
		"-phase", "ir", "-l", "-lm", "src.la",
	})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %s", err)
	}
	if opt.Out != "out" {
		t.Fatalf("Out = %q, want %q", opt.Out, "out")
	}
	if !opt.ReportWarnings || !opt.WarningsAreErrors || !opt.EmitIR || !opt.EmitAST || !opt.Verbose {
		t.Fatalf("boolean flags not all set: %+v", opt)
	}
	if opt.Phase != "ir" {
		t.Fatalf("Phase = %q, want %q", opt.Phase, "ir")
	}
	if len(opt.LinkerFlags) != 1 || opt.LinkerFlags[0] != "-lm" {
		t.Fatalf("LinkerFlags = %v, want [-lm]", opt.LinkerFlags)
	}
	if opt.Src != "src.la" {
		t.Fatalf("Src = %q, want %q", opt.Src, "src.la")
	}
}

func TestParseArgsExamplesFlag(t *testing.T) {
	opt, err := ParseArgs([]string{"-examples", "examples/"})
	if err != nil {
		t.Fatalf("ParseArgs returned error: %s", err)
	}
	if !opt.Examples {
		t.Fatal("Examples should be true")
	}
}

func TestParseArgsRejectsUnknownPhase(t *testing.T) {
	if _, err := ParseArgs([]string{"-phase", "bogus", "a.la"}); err == nil {
		t.Fatal("expected an error for an unknown phase")
	}
}

func TestParseArgsRejectsDanglingFlagArgument(t *testing.T) {
	for _, args := range [][]string{{"-o"}, {"-phase"}, {"-l"}} {
		if _, err := ParseArgs(args); err == nil {
			t.Fatalf("ParseArgs(%v) should fail: flag missing its argument", args)
		}
	}
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"--bogus"}); err == nil {
		t.Fatal("expected an error for an unrecognized flag")
	}
}
