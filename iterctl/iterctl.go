// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iterctl implements the IterationController of spec.md §4.7:
// convergence/divergence tracking over a Newton iteration sequence, via
// the scaled-increment error metric err = max_i |Δu_i|/obj_i. Grounded on
// PaddySchmidt-gofem/fem/s_implicit.go's largFb/prevFb convergence and
// divergence checks, generalized from a residual-norm metric to the
// objective-value-scaled increment metric spec.md §4.7 specifies.
package iterctl

import "math"

// Config holds the tolerances and budgets, all sourced from configuration
// (spec.md §4.7).
type Config struct {
	Tol          float64 // convergence: err < Tol
	DivergeCap   float64 // divergence: err > DivergeCap (0 disables the cap check)
	MaxIters     int     // iteration budget
	MaxReps      int     // repetition budget; stored only, Check does not read it (the Driver uses engine.Config.MaxReps)
	MaxDates     int     // date budget; stored only, neither Check nor the Driver reads it
}

// Controller tracks one Newton iteration sequence's error history.
type Controller struct {
	cfg      Config
	iter     int
	prevErr  float64
	hasPrev  bool
}

// New returns a Controller ready for a fresh iteration sequence.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Reset starts a new iteration sequence (e.g. at the start of a
// repetition), clearing the iteration count and error history.
func (o *Controller) Reset() {
	o.iter = 0
	o.hasPrev = false
}

// Outcome is the verdict Check returns.
type Outcome int

const (
	Continue Outcome = iota
	Converged
	Diverged
	BudgetExceeded
)

// Check records one iteration's scaled error (err = max_i |Δu_i|/obj_i)
// and returns the verdict: Converged if err < Tol; Diverged if
// DivergeCap > 0 and err exceeds it, or (whatever DivergeCap is) if err
// grew past the previous iteration's error (matching s_implicit.go's "if
// largFb > prevFb { diverging = true }"); BudgetExceeded if the iteration
// count reached MaxIters; otherwise Continue.
func (o *Controller) Check(err float64) Outcome {
	o.iter++
	if err < o.cfg.Tol {
		return Converged
	}
	if o.cfg.DivergeCap > 0 && err > o.cfg.DivergeCap {
		return Diverged
	}
	if o.hasPrev && o.iter > 1 && err > o.prevErr {
		return Diverged
	}
	o.prevErr = err
	o.hasPrev = true
	if o.iter >= o.cfg.MaxIters {
		return BudgetExceeded
	}
	return Continue
}

// Iter returns the number of iterations checked so far in this sequence.
func (o *Controller) Iter() int { return o.iter }

// ScaledError computes err = max_i |du_i|/obj_i over the Newton increment
// du against the per-equation objective values obj (spec.md §4.7). Zero or
// negative objective entries are skipped (that DOF does not participate
// in the metric), matching the convention that obj_i is only meaningful
// for active equations.
func ScaledError(du, obj []float64) float64 {
	var worst float64
	for i, d := range du {
		if obj[i] <= 0 {
			continue
		}
		v := math.Abs(d) / obj[i]
		if v > worst {
			worst = v
		}
	}
	return worst
}
