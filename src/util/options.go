// Package util carries the ambient pieces every compiler phase needs:
// compiler options, the scoped stack-of-maps used by both the resolver
// and the emitter, a generic slice-backed stack (used for the resolver's
// return-type stack), and source/output I/O.
//
// Options scanning is a small hand-rolled flag scanner, deliberately not
// built on a flag-parsing library: see DESIGN.md for why.
package util

import (
	"fmt"
	"os"
	"strings"
)

// Options is the compiler-options record: settings on the compilation
// context, not a general-purpose CLI parser.
type Options struct {
	Src      string // Path to the source file, or the examples/ directory root.
	Out      string // Output file base name.
	Examples bool   // Walk Src as a directory of .la files instead of a single file.

	ReportWarnings       bool // Report warnings to stderr.
	WarningsAreErrors    bool // Treat a nonzero warning count as fatal.
	EmitIR               bool // Write <output>.ll alongside the object file.
	EmitAST              bool // Write ast.json.
	LinkerFlags          []string
	Phase                string // "parse", "check", "ir", "link" — see src/driver.Phase.
	Verbose              bool
}

const appVersion = "la compiler 0.1"

// ParseArgs parses os.Args[1:] into an Options record.
func ParseArgs(args []string) (Options, error) {
	opt := Options{Phase: "link"}
	if len(args) == 0 {
		return opt, nil
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-h", "--help":
			printHelp()
			os.Exit(0)
		case "-v", "--version":
			fmt.Println(appVersion)
			os.Exit(0)
		case "-o":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			i++
			opt.Out = args[i]
		case "-examples":
			opt.Examples = true
		case "-w":
			opt.ReportWarnings = true
		case "-werror":
			opt.ReportWarnings = true
			opt.WarningsAreErrors = true
		case "-ll":
			opt.EmitIR = true
		case "-ast":
			opt.EmitAST = true
		case "-vb":
			opt.Verbose = true
		case "-phase":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			i++
			switch args[i] {
			case "parse", "check", "ir", "link":
				opt.Phase = args[i]
			default:
				return opt, fmt.Errorf("unknown phase %q: want parse, check, ir or link", args[i])
			}
		case "-l":
			if i+1 >= len(args) {
				return opt, fmt.Errorf("got flag %s but no argument", args[i])
			}
			i++
			opt.LinkerFlags = append(opt.LinkerFlags, args[i])
		default:
			if strings.HasPrefix(args[i], "-") {
				return opt, fmt.Errorf("unexpected flag: %s", args[i])
			}
			opt.Src = args[i]
		}
	}
	return opt, nil
}

func printHelp() {
	fmt.Println("usage: la [flags] <source.la | examples-dir>")
	fmt.Println("  -o <path>       output file base name")
	fmt.Println("  -examples       treat the source argument as a directory of .la files")
	fmt.Println("  -phase <name>   parse | check | ir | link (default link)")
	fmt.Println("  -ll             also emit <output>.ll")
	fmt.Println("  -ast            also emit ast.json")
	fmt.Println("  -w              report warnings")
	fmt.Println("  -werror         treat warnings as errors")
	fmt.Println("  -l <flag>       extra linker flag (repeatable)")
	fmt.Println("  -vb             verbose")
}
