// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bil-go is the CLI entry point: it parses options (cli.Options),
// wires a mesh/registry/assembler/driver, and runs the nested date loop.
// Deck/mesh-file parsing is out of scope (spec.md §1 Non-goals), so every
// run builds the one built-in demo problem (runDemo); the -with flag and
// the other options besides -help, -info, -models, -modules and -solver
// are parsed but not consulted. The shape matches the teacher's main.go
// (parse args, print banner, recover at the top, mpi.Start/Stop) around a
// different inner wiring.
package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/cpmech/gosl/utl"

	"github.com/Ifsttar/bil-go/cli"
	"github.com/Ifsttar/bil-go/ele"
	"github.com/Ifsttar/bil-go/engine"
	"github.com/Ifsttar/bil-go/iterctl"
	"github.com/Ifsttar/bil-go/mdl"
	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/models/diffusion1d"
	"github.com/Ifsttar/bil-go/output"
	"github.com/Ifsttar/bil-go/ring"
	"github.com/Ifsttar/bil-go/spmat"
	"github.com/Ifsttar/bil-go/tstep"
)

// main exits 0 only when run completes without error; every failure path
// (bad flag, missing input, a failed/aborted Driver) exits non-zero, per
// the CLI's unchanged exit-code contract.
func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				io.PfRed("ERROR: %v\n", err)
			}
			code = 1
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		io.PfWhite("\nbil-go -- coupled nonlinear transient FEM core\n\n")
	}

	opt := cli.Parse(os.Args[1:])

	reg := mdl.NewRegistry()
	diffusion1d.Register(reg)

	switch {
	case opt.Help:
		io.Pf(cli.Usage)
		return 0
	case opt.Info:
		io.Pf("bil-go\nmodels: %v\n", reg.Names())
		return 0
	case opt.PrintModels, opt.PrintModules:
		io.Pf("registered models: %v\n", reg.Names())
		return 0
	}

	if opt.InputFile == "" {
		io.PfRed("ERROR: missing input file\n")
		io.Pf(cli.Usage)
		return 1
	}

	defer utl.DoProf(false)()

	if !runDemo(opt, reg) {
		return 1
	}
	return 0
}

// runDemo builds and runs the diffusion1d bar problem (10 two-node
// elements over [0,1], Dirichlet u=1 at x=0, free at x=1), the one
// built-in problem available since mesh/deck parsing is out of scope.
// opt.InputFile is not read; point output goes to standard output. Returns
// true only when the Driver completes every date.
func runDemo(opt cli.Options, reg *mdl.Registry) bool {
	const n = 10
	b := mesh.NewBuilder()
	mat := mesh.NewMaterial("m1", diffusion1d.Name, 0)

	model, err := reg.New(diffusion1d.Name)
	if err != nil {
		chk.Panic("%v", err)
	}
	if rerr := model.ReadMaterialProperties(mat, demoProps{}); rerr != nil {
		chk.Panic("%v", rerr)
	}

	eqNames := []string{"u"}
	for i := 0; i <= n; i++ {
		b.AddNode(i, []float64{float64(i) / n})
	}
	for i := 0; i < n; i++ {
		b.AddElement(i, []int{i, i + 1}, "bar", mat, diffusion1d.Name, eqNames, nil)
	}
	m := b.Finalize()

	rcfg, rerr := ele.DeriveRingConfig(m, reg, 2)
	if rerr != nil {
		chk.Panic("%v", rerr)
	}
	r := ring.New(rcfg)

	asm := ele.New(m, r, reg)
	mat2 := spmat.NewFromMesh(m)
	solverName := opt.Solver
	if solverName == "" {
		solverName = "dense"
	}
	backend := spmat.NewBackend(solverName, false, false)

	obj := make([]float64, m.NbOfMatrixColumns)
	for i := range obj {
		obj[i] = 1.0
	}

	dirichlet := func(t float64) map[int]float64 {
		return map[int]float64{0: 1.0}
	}

	pw := output.NewPointWriter(os.Stdout)
	cfg := engine.Config{
		Dates:      []float64{0, 1},
		MaxReps:    4,
		Objectives: obj,
		Dirichlet:  dirichlet,
		PointOutput: func(t float64) {
			_ = pw.Write(t, []string{"u_end"}, []float64{r.Current().Y[len(r.Current().Y)-1]})
		},
	}

	ts := tstep.New(tstep.Config{
		DtIni:  0.1,
		DtMin:  0.001,
		DtMax:  0.5,
		Target: 0.1,
	})
	it := iterctl.New(iterctl.Config{
		Tol:        1e-8,
		DivergeCap: 1e6,
		MaxIters:   20,
		MaxReps:    4,
	})

	drv := engine.New(m, r, asm, mat2, backend, ts, it, cfg)
	status, rerr := drv.Run()
	if rerr != nil {
		io.PfRed("ERROR: %v\n", rerr)
		return false
	}
	io.Pf("status: %v\n", status)
	return status == engine.ConvergedAllDates
}

// demoProps implements mdl.PropertyReader over the fixed diffusion1d
// polynomial used by the built-in demo problem.
type demoProps struct{}

func (demoProps) Float(key string) (float64, bool) {
	vals := map[string]float64{
		"a0": 1, "a1": 0, "a2": 0, "a3": 0,
		"k": 1, "rho": 1,
	}
	v, ok := vals[key]
	return v, ok
}

func (demoProps) String(key string) (string, bool) { return "", false }

func (demoProps) Curve(key string) (x, y []float64, ok bool) { return nil, nil, false }
