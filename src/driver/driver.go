// Package driver implements the compiler's driver surface: compiling a
// single `.la` file (or every `.la` file under an examples/ directory)
// through the configured phase, applying the diagnostic reporting
// policy, and writing the resulting artifacts (ast.json, <output>.ll,
// <output>.o, and the final linked executable).
//
// The pipeline is a single linear phase-gated sequence (parse -> check ->
// emit-ir -> emit-object -> link) with an early return on the first phase
// that reports an error.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cgllvm "la/src/codegen/llvm"
	"la/src/diag"
	"la/src/frontend"
	"la/src/link"
	"la/src/resolve"
	"la/src/tree"
	"la/src/util"
)

// Phase selects how far the pipeline runs.
type Phase int

const (
	// PhaseParse stops after producing the tree (parse-only).
	PhaseParse Phase = iota
	// PhaseCheck additionally runs the type resolver (parse+check).
	PhaseCheck
	// PhaseIR additionally emits the LLVM-IR module (parse+check+emit-ir).
	PhaseIR
	// PhaseLink runs the complete pipeline: object emission plus linking.
	PhaseLink
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseCheck:
		return "check"
	case PhaseIR:
		return "ir"
	case PhaseLink:
		return "link"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// ParsePhase converts the Options.Phase string (already validated by
// util.ParseArgs' flag scanner) into a Phase constant.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "", "parse":
		return PhaseParse, nil
	case "check":
		return PhaseCheck, nil
	case "ir":
		return PhaseIR, nil
	case "link":
		return PhaseLink, nil
	default:
		return 0, fmt.Errorf("unknown phase %q: want parse, check, ir or link", s)
	}
}

// Compile runs the pipeline over the single source file named by opt.Src.
func Compile(opt util.Options) error {
	phase, err := ParsePhase(opt.Phase)
	if err != nil {
		return err
	}
	return compileFile(opt, opt.Src, phase)
}

// CompileExamples walks opt.Src (a directory) compiling every `.la` file
// under it, each through a fresh diagnostic
// sink and a fresh LLVM context.
func CompileExamples(opt util.Options) error {
	phase, err := ParsePhase(opt.Phase)
	if err != nil {
		return err
	}
	files, err := util.FindSourceFiles(opt.Src)
	if err != nil {
		return fmt.Errorf("walking %s: %w", opt.Src, err)
	}
	var failures []string
	for _, f := range files {
		sub := opt
		sub.Src = f
		sub.Out = outputBaseFor(f, opt.Out)
		if err := compileFile(sub, f, phase); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", f, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d example file(s) failed:\n%s",
			len(failures), len(files), strings.Join(failures, "\n"))
	}
	return nil
}

// outputBaseFor derives the per-file output base name when compiling a
// whole directory: the source file's own stem, optionally rooted under a
// configured output directory.
func outputBaseFor(src, configuredOut string) string {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	if configuredOut == "" {
		return base
	}
	return filepath.Join(configuredOut, base)
}

// compileFile runs lex -> parse -> [resolve -> [emit-ir -> [emit-object ->
// link]]] for one file, stopping at the configured phase and applying the
// diagnostic reporting policy after each phase that can add diagnostics.
func compileFile(opt util.Options, path string, phase Phase) error {
	src, err := util.ReadSource(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sink := diag.NewSink()
	reported := 0
	check := func() error {
		diags := sink.Diagnostics()
		for _, d := range diags[reported:] {
			if d.Severity == diag.Warning && !opt.ReportWarnings {
				continue
			}
			fmt.Fprintln(os.Stderr, d.String())
		}
		reported = len(diags)
		if sink.HasErrors() {
			return fmt.Errorf("%d error(s) reported", sink.Count(diag.Error))
		}
		if opt.WarningsAreErrors && sink.Count(diag.Warning) > 0 {
			return fmt.Errorf("%d warning(s) reported (treated as errors)", sink.Count(diag.Warning))
		}
		return nil
	}

	unit := frontend.Parse(0, path, src, sink)
	if err := check(); err != nil {
		return err
	}
	if phase == PhaseParse {
		return writeAST(opt, unit)
	}

	resolve.Resolve(unit, sink)
	if err := writeAST(opt, unit); err != nil {
		return err
	}
	if err := check(); err != nil {
		return err
	}
	if phase == PhaseCheck {
		return nil
	}

	base := opt.Out
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	em := cgllvm.New(sink, filepath.Base(base))
	defer em.Dispose()

	if err := em.Emit(unit); err != nil {
		return fmt.Errorf("emitting IR: %w", err)
	}
	if err := check(); err != nil {
		return err
	}

	if opt.EmitIR {
		if err := em.EmitIR(base + ".ll"); err != nil {
			return fmt.Errorf("writing %s.ll: %w", base, err)
		}
	}
	if phase == PhaseIR {
		return nil
	}

	objPath := base + ".o"
	if err := em.EmitObject(objPath); err != nil {
		return fmt.Errorf("emitting object: %w", err)
	}

	exe := base
	if err := link.Link(objPath, exe, opt.LinkerFlags); err != nil {
		return err
	}
	return nil
}

func writeAST(opt util.Options, unit *tree.Unit) error {
	if !opt.EmitAST {
		return nil
	}
	return WriteASTJSON("ast.json", unit)
}
