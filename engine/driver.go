// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements the Driver of spec.md §4.1: the outer date
// loop -> adaptive dt loop -> repetition (step-halving) loop -> Newton
// loop nest that advances the coupled nonlinear system in time. Grounded
// on original_source/.../Module1.c's Algorithm function (the exact
// nested-loop/goto structure) and PaddySchmidt-gofem/fem/s_implicit.go's
// SolverImplicit.Run (the Go-idiomatic version of the same loop).
package engine

import (
	stdio "io"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/Ifsttar/bil-go/ele"
	"github.com/Ifsttar/bil-go/iterctl"
	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/ring"
	"github.com/Ifsttar/bil-go/spmat"
	"github.com/Ifsttar/bil-go/tstep"
)

// Status is the Driver's terminal outcome (spec.md §4.1 "Output").
type Status string

const (
	ConvergedAllDates Status = "converged_all_dates"
	StoppedAtDateK    Status = "stopped_at_date_k"
	Aborted           Status = "aborted"
)

// stepFailure is the recoverable-failure error type threaded back through
// the Newton/repetition loop (DESIGN.md, Open Question resolution #4):
// typed so every call site can distinguish "retry with smaller dt" from a
// fatal condition without a panic/recover boundary.
type stepFailure struct {
	phase string // "implicit_terms", "linear_solve", "newton_divergence", "newton_budget"
	iter  int
}

func (e *stepFailure) Error() string {
	return io.Sf("engine: step failed in %s at iteration %d", e.phase, e.iter)
}

// Dirichlet supplies the prescribed-value map (global column -> value) at
// time t; nil/empty means no constrained DOFs.
type Dirichlet func(t float64) map[int]float64

// Load is a natural boundary condition/source descriptor, re-exported so
// callers assembling a Driver don't need to import mesh separately.
type Load = mesh.Load

// Config bundles everything the Driver needs beyond the pieces it
// orchestrates directly.
type Config struct {
	Dates         []float64 // date[0..n-1]; date[0] is the run's start time
	MaxReps       int       // repetition budget R (spec.md §4.1.d)
	Objectives    []float64 // per-global-column objective value, obj_i
	Dirichlet    Dirichlet
	PointOutput  func(t float64) // called at the start time, then once per accepted step
	FieldOutput  func(t float64) // called at the start time, then once per date boundary reached
	Continuation bool            // resume from a persisted snapshot
	SnapshotIn   stdio.Reader    // non-nil when Continuation is true
	SnapshotOut  stdio.Writer    // written on successful/failed completion
}

// Driver orchestrates the nested date/repetition/Newton loop.
type Driver struct {
	Mesh      *mesh.Mesh
	Ring      *ring.SolutionRing
	Assembler *ele.Assembler
	Matrix    *spmat.SparseMatrix
	Backend   spmat.LinearBackend
	TimeStep  *tstep.Controller
	IterCtl   *iterctl.Controller
	Cfg       Config
}

// New wires together an already-built problem (mesh, assembler, matrix,
// backend, controllers) with the run configuration.
func New(m *mesh.Mesh, r *ring.SolutionRing, asm *ele.Assembler, a *spmat.SparseMatrix, backend spmat.LinearBackend, ts *tstep.Controller, it *iterctl.Controller, cfg Config) *Driver {
	return &Driver{Mesh: m, Ring: r, Assembler: asm, Matrix: a, Backend: backend, TimeStep: ts, IterCtl: it, Cfg: cfg}
}

// Run executes the full algorithm of spec.md §4.1 and returns the
// terminal Status. Fatal/internal errors (ring corruption, persistence
// I/O) panic via chk.Panic inside helper calls and are recovered here,
// mirroring main.go's top-level recover in the teacher.
func (o *Driver) Run() (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			status = Aborted
			err = chk.Err("engine: fatal: %v", r)
		}
	}()

	t0, idate, err := o.initialize()
	if err != nil {
		return Aborted, err
	}

	if o.Cfg.PointOutput != nil {
		o.Cfg.PointOutput(o.Ring.Current().T)
	}
	if o.Cfg.FieldOutput != nil {
		o.Cfg.FieldOutput(o.Ring.Current().T)
	}

	dates := o.Cfg.Dates
	for ; idate+1 < len(dates); idate++ {
		ok, err := o.runInterval(dates[idate], dates[idate+1], t0)
		if err != nil {
			// runInterval already rolled the ring back to the last
			// accepted state before returning a non-nil error.
			o.persist()
			return Aborted, err
		}
		if !ok {
			o.persist()
			return StoppedAtDateK, nil
		}
	}
	o.persist()
	return ConvergedAllDates, nil
}

// initialize implements spec.md §4.1 step 1: resume from a persisted
// snapshot, or apply initial conditions and run compute_initial_state.
func (o *Driver) initialize() (t0 float64, idate int, err error) {
	if o.Cfg.Continuation && o.Cfg.SnapshotIn != nil {
		t, lerr := o.Ring.LoadCurrent(o.Cfg.SnapshotIn)
		if lerr != nil {
			return 0, 0, chk.Err("engine: cannot resume: %v", lerr)
		}
		for idate+1 < len(o.Cfg.Dates) && t >= o.Cfg.Dates[idate+1] {
			idate++
		}
		return t, idate, nil
	}
	t0 = o.Cfg.Dates[0]
	o.Ring.Current().T = t0
	if err := o.Assembler.ComputeInitialState(t0); err != nil {
		return 0, 0, err
	}
	return t0, 0, nil
}

// runInterval implements spec.md §4.1 step 3, one date interval [tk,
// tk1]. Returns ok=false when explicit terms are undefined for a step
// past the run start (step 3.b's early-return path).
func (o *Driver) runInterval(tk, tk1, runStart float64) (ok bool, err error) {
	for o.Ring.Current().T < tk1 {
		o.Ring.StepForward()
		tPrev := o.Ring.Previous().T

		if ferr := o.Assembler.ComputeExplicitTerms(tPrev); ferr != nil {
			o.Ring.StepBackward()
			if tPrev > runStart {
				return false, nil
			}
			return false, chk.Err("engine: undefined explicit terms at run start: %v", ferr)
		}

		remaining := tk1 - tPrev
		dt := o.TimeStep.Next(o.deltaRatio(), remaining)

		accepted, rerr := o.runRepetitions(tPrev, dt)
		if rerr != nil {
			o.Ring.StepBackward()
			return false, rerr
		}
		if !accepted {
			o.Ring.StepBackward()
			return false, nil
		}

		if o.Cfg.PointOutput != nil {
			o.Cfg.PointOutput(o.Ring.Current().T)
		}
		if o.Ring.Current().T >= tk1 && o.Cfg.FieldOutput != nil {
			o.Cfg.FieldOutput(o.Ring.Current().T)
		}
	}
	return true, nil
}

// runRepetitions implements spec.md §4.1.d: the repetition (step-halving)
// loop wrapping the Newton loop. When the repetition budget is exhausted,
// returns accepted=false with the last repetition's step failure as err;
// persisting previous and aborting happen at the outer Run boundary, not
// here.
func (o *Driver) runRepetitions(tPrev, dt float64) (accepted bool, err error) {
	cur := o.Ring.Current()
	for rep := 0; rep <= o.Cfg.MaxReps; rep++ {
		t1 := tPrev + dt
		cur.T = t1
		cur.CopyYFrom(o.Ring.Previous())

		var prescribed map[int]float64
		if o.Cfg.Dirichlet != nil {
			prescribed = o.Cfg.Dirichlet(t1)
			o.Assembler.ApplyDirichlet(o.Matrix, prescribed, cur.Y)
		}

		converged, ferr := o.runNewton(t1, dt)
		if ferr == nil && converged {
			return true, nil
		}
		if rep == o.Cfg.MaxReps {
			if ferr != nil {
				return false, ferr
			}
			return false, nil
		}
		dt = o.TimeStep.Reduce()
	}
	return false, nil
}

// runNewton implements spec.md §4.1.d's inner Newton loop.
func (o *Driver) runNewton(t, dt float64) (converged bool, err error) {
	o.IterCtl.Reset()
	cur := o.Ring.Current()
	rhs := make([]float64, o.Mesh.NbOfMatrixColumns)
	du := make([]float64, o.Mesh.NbOfMatrixColumns)

	for {
		if ferr := o.Assembler.ComputeImplicitTerms(t, dt); ferr != nil {
			return false, &stepFailure{phase: "implicit_terms", iter: o.IterCtl.Iter()}
		}

		if err := o.Assembler.AssembleResidual(t, dt, rhs); err != nil {
			return false, err
		}
		if err := o.Assembler.AssembleTangent(t, dt, o.Matrix); err != nil {
			return false, err
		}

		ok := o.Backend.FactorAndSolve(o.Matrix, rhs, du)
		if !ok {
			return false, &stepFailure{phase: "linear_solve", iter: o.IterCtl.Iter()}
		}

		for i := range cur.Y {
			cur.Y[i] += du[i]
		}

		errMetric := iterctl.ScaledError(du, o.Cfg.Objectives)
		verdict := o.IterCtl.Check(errMetric)
		switch verdict {
		case iterctl.Converged:
			return true, nil
		case iterctl.Diverged:
			return false, &stepFailure{phase: "newton_divergence", iter: o.IterCtl.Iter()}
		case iterctl.BudgetExceeded:
			return false, &stepFailure{phase: "newton_budget", iter: o.IterCtl.Iter()}
		}
	}
}

// deltaRatio computes ratio = max_i |Δu_i|/obj_i over the last accepted
// step (current minus previous), feeding TimeStepController.Next
// (spec.md §4.6).
func (o *Driver) deltaRatio() float64 {
	cur, prev := o.Ring.Current(), o.Ring.Previous()
	du := make([]float64, len(cur.Y))
	for i := range du {
		du[i] = cur.Y[i] - prev.Y[i]
	}
	return iterctl.ScaledError(du, o.Cfg.Objectives)
}

// persist stores the ring's current snapshot (which, on a rolled-back
// path, is the last accepted "previous" solution) per spec.md §4.1 step 4.
func (o *Driver) persist() {
	if o.Cfg.SnapshotOut == nil {
		return
	}
	if err := o.Ring.StoreCurrent(o.Cfg.SnapshotOut); err != nil {
		chk.Panic("engine: cannot persist snapshot: %v", err)
	}
}
