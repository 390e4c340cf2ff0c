// Command la is the compiler's command-line entry point. Argument parsing
// is delegated to util.ParseArgs and the actual pipeline lives in
// src/driver, so this file is kept to exactly that: parse flags, dispatch
// to the driver, report a failure.
package main

import (
	"fmt"
	"os"

	"la/src/driver"
	"la/src/util"
)

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "argument error: %s\n", err)
		os.Exit(1)
	}
	if opt.Src == "" {
		fmt.Fprintln(os.Stderr, "no source file or examples directory given")
		os.Exit(1)
	}

	var runErr error
	if opt.Examples {
		runErr = driver.CompileExamples(opt)
	} else {
		runErr = driver.Compile(opt)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", runErr)
		os.Exit(1)
	}
}
