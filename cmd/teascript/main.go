// cmd/teascript is the standalone host front-end: run a compiled program
// or drop into a REPL over already-compiled forms. Grounded on
// original_source/src/tea.c's main/repl/run_file, including its exit-code
// convention (64 usage, 65 "compile" error, 70 runtime error, 74 I/O
// error) — tea.c's own names for sysexits.h's EX_USAGE/EX_DATAERR/
// EX_SOFTWARE/EX_IOERR.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"teascript/api"
	"teascript/bytecode"
	"teascript/state"
	"teascript/stdlib/dblib"
	"teascript/stdlib/fmtlib"
	"teascript/stdlib/mathlib"
	"teascript/stdlib/netlib"
	"teascript/stdlib/oslib"
	"teascript/stdlib/timelib"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]

	switch {
	case len(args) == 0:
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(os.Stderr, "usage: teascript [path.teac]")
			os.Exit(64)
		}
		repl()
	case args[0] == "--version" || args[0] == "-v":
		fmt.Println("teascript", version)
	case len(args) == 1:
		runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "usage: teascript [path.teac]")
		os.Exit(64)
	}
}

func newState() *api.State {
	st := api.New(state.Options{})
	mathlib.Register(st)
	timelib.Register(st)
	oslib.Register(st)
	fmtlib.Register(st)
	dblib.Register(st)
	netlib.Register(st)
	return st
}

func runFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrapf(err, "could not open %q", path))
		os.Exit(74)
	}

	st := newState()
	rt := st.Runtime()
	fn, err := bytecode.Load(bytes.NewReader(data), rt.NewString)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrap(err, "compile error"))
		os.Exit(65)
	}

	closure := rt.NewClosure(fn)
	if err := st.Interpret(closure); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(70)
	}
}

// repl runs compiled-form programs typed one at a time at the prompt: with
// no compiler in scope, the "source" a line names is a path to a
// previously compiled .teac file, exactly like run_file but looped and
// not exiting the process on a single bad line.
func repl() {
	fmt.Println("teascript", version)
	st := newState()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if line == "exit" {
			return
		}
		if line == "" {
			continue
		}

		data, err := os.ReadFile(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrapf(err, "could not open %q", line))
			continue
		}
		rt := st.Runtime()
		fn, err := bytecode.Load(bytes.NewReader(data), rt.NewString)
		if err != nil {
			fmt.Fprintln(os.Stderr, errors.Wrap(err, "compile error"))
			continue
		}
		closure := rt.NewClosure(fn)
		if err := st.Interpret(closure); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
