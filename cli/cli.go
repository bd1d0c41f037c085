// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli parses the command-line options main.go hands off to the
// engine: the input file path plus the run-modifying flags. Grounded on
// original_source/.../Main/Context.c's Context_Initialize, which walks
// argv in a single pass and classifies each token by its leading
// character rather than through a declarative flag table: anything not
// starting with "-" is the input file name, and a handful of flags
// (-solver in particular) consume a variable run of following tokens.
// The stdlib "flag" package cannot express that consumption pattern, so
// this package re-implements Context_Initialize's pass directly instead
// of bending the problem to flag.FlagSet, the one place this module
// departs from the teacher's own flag.Parse()-based main.go.
package cli

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Options is the parsed result of one Context_Initialize pass over
// os.Args[1:].
type Options struct {
	InputFile string // bare positional token; required unless Help, Info, PrintModels or PrintModules is set

	Help bool // -help: print usage and exit
	Info bool // -info: print version/build info and exit

	Solver   string // -solver NAME
	FillFactor string // -ff X, only meaningful together with Solver

	Debug      string // -debug NAME: print intermediate quantity NAME
	PrintLevel string // -level N
	UseModule  string // -with NAME: force a module name

	PrintModels  bool // -models: list registered models and exit
	PrintModules bool // -modules: list registered modules and exit

	ReadOnly string // -readonly NAME: parse but do not solve

	Graph          string // -graph METHOD: mesh partitioning/renumbering method
	InversePerm    bool   // -iperm
	ElementOrder   string // -eordering METHOD
	NodalOrder     string // -nordering METHOD
	PostProcessing string // -postprocessing METHOD

	Miscellaneous bool // -miscellaneous
	Test          bool // -test
}

// match reports whether arg is an abbreviation of long (Context.c matches
// every flag via strncmp(argv[i], long, strlen(argv[i])), i.e. the token
// typed on the command line need only be a prefix of the canonical name).
func match(arg, long string) bool {
	return len(arg) > 0 && strings.HasPrefix(long, arg)
}

// Parse walks args (os.Args[1:]) exactly as Context_Initialize walks
// argv[1:]: one pass, no lookahead table, the handful of flags that take
// a value consume the next token(s) inline. Panics via chk.Panic on a
// malformed option, matching Context.c's Message_FatalError calls (both
// are fatal, unrecoverable-at-this-layer conditions).
func Parse(args []string) Options {
	var o Options
	if len(args) == 0 {
		o.Help = true
		return o
	}

	next := func(i int, missing string) (string, int) {
		if i+1 >= len(args) {
			chk.Panic("cli: %s", missing)
		}
		return args[i+1], i + 1
	}

	for i := 0; i < len(args); i++ {
		a := args[i]

		if a[0] != '-' {
			o.InputFile = a
			continue
		}

		switch {
		case match(a, "-info"):
			o.Info = true

		case match(a, "-help"):
			o.Help = true

		case match(a, "-solver"):
			o.Solver, i = next(i, "missing solver name")
			if i+1 < len(args) && match(args[i+1], "-ff") {
				o.FillFactor, i = next(i+1, "missing fill factor")
			}

		case match(a, "-debug"):
			o.Debug, i = next(i, "missing name of data to be printed")

		case match(a, "-level"):
			o.PrintLevel, i = next(i, "missing level")

		case match(a, "-with"):
			o.UseModule, i = next(i, "missing module")

		case match(a, "-models"):
			o.PrintModels = true

		case match(a, "-modules"):
			o.PrintModules = true

		case match(a, "-readonly"):
			o.ReadOnly, i = next(i, "missing file name")

		case match(a, "-graph"):
			o.Graph, i = next(i, "missing graph method")

		case match(a, "-iperm"):
			o.InversePerm = true

		case match(a, "-eordering"):
			o.ElementOrder, i = next(i, "missing element ordering method")

		case match(a, "-nordering"):
			o.NodalOrder, i = next(i, "missing nodal ordering method")

		case match(a, "-postprocessing"):
			o.PostProcessing, i = next(i, "missing post-processing method")

		case match(a, "-miscellaneous"):
			o.Miscellaneous = true

		case match(a, "-test"):
			o.Test = true

		default:
			chk.Panic("cli: unknown option %q", a)
		}
	}

	return o
}

// Usage is the text printed for -help or a missing input file, in the
// teacher's banner style (io.PfWhite/io.Pf in main.go).
const Usage = `usage: bil-go [options] <input-file>

options:
  -info                   print version and build information
  -help                   print this message
  -solver NAME [-ff X]    select the linear solver backend (dense, umfpack, mumps);
                          -ff X sets the multi-frontal fill factor
  -debug NAME             print the named intermediate quantity during the run
  -level N                set the verbosity level
  -with MODULE            force a specific module name
  -models                 list the registered models and exit
  -modules                list the registered models and exit (same as -models)
  -readonly NAME          parse the input file without solving
  -graph METHOD           mesh graph partitioning/renumbering method
  -iperm                  print the inverse permutation
  -eordering METHOD       element ordering method
  -nordering METHOD       nodal ordering method
  -postprocessing METHOD  post-processing method
  -miscellaneous          enable miscellaneous diagnostics
  -test                   run in self-test mode

Only -help, -info, -models, -modules and -solver NAME change what this
program does. The other options, -ff included, are parsed and recorded but
not acted on: every run solves the built-in diffusion1d demo problem.
`
