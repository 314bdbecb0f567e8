// Command echo runs a compiled code-object file through the bytecode
// evaluator, mirroring the teacher driver's flag parsing and
// uncaught-exception reporting (SPEC_FULL.md §1 "CLI").
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/echolang/echo/internal/config"
	"github.com/echolang/echo/internal/object"
	"github.com/echolang/echo/internal/vm"
)

func main() {
	logLevel := flag.String("log_level", "warn", "diagnostic verbosity: debug, info, warn, error")
	pdb := flag.Bool("pdb", false, "drop into a post-mortem prompt on an uncaught exception")
	version := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *version {
		fmt.Println(config.Version)
		return
	}
	_ = logLevel // parsed for CLI parity only; nothing reads it, and internal/diag is gated by env vars alone

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: echo [flags] <file.echo>")
		os.Exit(2)
	}

	file := args[0]
	scriptDir := filepath.Dir(file)
	ctx := vm.NewInterpreterContext(scriptDir, vm.LoadFile)
	ctx.SearchPaths = append(ctx.SearchPaths, scriptDir)

	code, exc := vm.ReadCode(file)
	if exc != nil {
		reportUncaught(exc, *pdb)
		os.Exit(1)
	}
	globals := map[string]object.Value{"__name__": object.NewStr("__main__")}
	if _, exc := vm.RunModule(ctx, code, globals); exc != nil {
		reportUncaught(exc, *pdb)
		os.Exit(1)
	}
}

// reportUncaught prints a Python-style traceback-and-message summary for an
// exception that escaped the top-level frame, then -- when both --pdb was
// requested and stdin is an interactive terminal -- drops into a minimal
// post-mortem read loop (spec §6 "uncaught exception diagnostic contract").
func reportUncaught(exc *object.Exception, pdb bool) {
	fmt.Fprintln(os.Stderr, "Traceback (most recent call last):")
	for i := len(exc.Traceback) - 1; i >= 0; i-- {
		t := exc.Traceback[i]
		fmt.Fprintf(os.Stderr, "  File %q, line %d, in %s\n", t.FrameName, t.Line, t.FrameName)
	}
	fmt.Fprintln(os.Stderr, exc.Error())

	if !pdb || !isatty.IsTerminal(os.Stdin.Fd()) {
		return
	}
	fmt.Fprintln(os.Stderr, "(post-mortem) inspect the exception, or press enter to exit")
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, "(echo-pdb) ")
		line, err := reader.ReadString('\n')
		if err != nil || line == "\n" {
			return
		}
		fmt.Fprintf(os.Stderr, "unrecognized post-mortem command: %q\n", line)
	}
}
