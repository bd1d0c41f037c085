// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tstep implements the TimeStepController of spec.md §4.6: dt
// adaptation from the node-wise solution delta over the previous step
// scaled against a per-equation "objective value", plus step-halving on
// repetition. Grounded on original_source/.../Module1.c's
// TimeStep_ComputeTimeStep/TimeStep_GetReductionFactor calls (DT_1 *=
// reduction factor on every repetition branch).
package tstep

import "math"

// Config holds the user-declared bounds and tuning constants. ReductionFactor
// and RaiseCap default to 0.5/2.0 if left zero (DESIGN.md, Open Question
// resolution #2).
type Config struct {
	DtIni           float64
	DtMin, DtMax    float64
	Target          float64 // target ratio (spec.md §4.6 "target/ratio")
	ReductionFactor float64 // applied on repetition: dt *= ReductionFactor
	RaiseCap        float64 // max growth factor per accepted step
}

func (c Config) reductionFactor() float64 {
	if c.ReductionFactor <= 0 {
		return 0.5
	}
	return c.ReductionFactor
}

func (c Config) raiseCap() float64 {
	if c.RaiseCap <= 0 {
		return 2.0
	}
	return c.RaiseCap
}

// Controller tracks the current dt across the date/repetition loop.
type Controller struct {
	cfg Config
	dt  float64
}

// New returns a Controller with dt initialized to cfg.DtIni.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg, dt: cfg.DtIni}
}

// Dt returns the current dt.
func (o *Controller) Dt() float64 { return o.dt }

// Next computes the next dt from ratio = max_i |Δu_i|/obj_i observed over
// the last accepted step (spec.md §4.6): the scaling factor target/ratio
// is clipped to [reductionFactor, raiseCap], then the resulting dt is
// clamped to [dt_min, dt_max] and to the remaining time until the next
// date.
func (o *Controller) Next(ratio, untilNextDate float64) float64 {
	factor := 1.0
	if ratio > 0 {
		factor = clip(o.cfg.Target/ratio, o.cfg.reductionFactor(), o.cfg.raiseCap())
	}
	dt := o.dt * factor
	dt = clamp(dt, o.cfg.DtMin, o.cfg.DtMax)
	if untilNextDate > 0 && dt > untilNextDate {
		dt = untilNextDate
	}
	o.dt = dt
	return dt
}

// Reduce halves (by ReductionFactor) the current dt after a failed
// repetition, floored at DtMin, matching every repetition branch in
// Module1.c's Algorithm ("DT_1 *= TimeStep_GetReductionFactor(timestep)").
func (o *Controller) Reduce() float64 {
	dt := o.dt * o.cfg.reductionFactor()
	if dt < o.cfg.DtMin {
		dt = o.cfg.DtMin
	}
	o.dt = dt
	return dt
}

// Reset forces the controller back to a specific dt (e.g. dt_ini after a
// restart, mirroring Module1.c's "t_ini = TimeStep_GetInitialTimeStep").
func (o *Controller) Reset(dt float64) { o.dt = dt }

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func clamp(x, lo, hi float64) float64 {
	if hi > 0 && x > hi {
		x = hi
	}
	if x < lo {
		x = lo
	}
	return x
}
