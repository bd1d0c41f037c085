// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

import "github.com/cpmech/gosl/chk"

// Config describes the fixed sizes a SolutionRing is built from: one entry
// per mesh element for implicit/explicit/const term counts, plus the total
// number of nodal unknowns (mesh.Mesh.NbOfMatrixColumns).
type Config struct {
	NY              int     // total nodal unknowns
	ImplicitCounts  []int   // per element
	ExplicitCounts  []int   // per element
	ConstCounts     []int   // per element
	MergeExplicit   []bool  // per element: share one Explicit backing array across every ring slot
	Capacity        int     // ring capacity, >= 2
}

// SolutionRing is a fixed-size ring (capacity >= 2) of Solution snapshots.
// "current" and "previous" are labels derived from a cursor (spec.md §3):
// previous is always the slot immediately behind current, so the two are
// guaranteed distinct whenever Capacity >= 2.
type SolutionRing struct {
	cfg   Config
	slots []*Solution
	cur   int

	// Const holds the per-element constant-term vectors. These are set once
	// by compute_initial_state and never touched by step_forward/backward —
	// see the package doc for why they are not duplicated per ring slot.
	Const [][]float64

	sharedExplicit [][]float64 // non-nil entries are the merged backing arrays
}

// New allocates a SolutionRing. Capacity defaults to 2 if cfg.Capacity < 2.
func New(cfg Config) *SolutionRing {
	cap := cfg.Capacity
	if cap < 2 {
		cap = 2
	}
	n := len(cfg.ImplicitCounts)
	if len(cfg.ExplicitCounts) != n || len(cfg.ConstCounts) != n {
		chk.Panic("ring.New: ImplicitCounts, ExplicitCounts and ConstCounts must have the same length (number of elements)")
	}
	o := &SolutionRing{cfg: cfg}
	o.sharedExplicit = make([][]float64, n)
	for e := 0; e < n; e++ {
		merge := cfg.MergeExplicit != nil && e < len(cfg.MergeExplicit) && cfg.MergeExplicit[e]
		if merge {
			o.sharedExplicit[e] = make([]float64, cfg.ExplicitCounts[e])
		}
	}
	o.Const = make([][]float64, n)
	for e := 0; e < n; e++ {
		o.Const[e] = make([]float64, cfg.ConstCounts[e])
	}
	o.slots = make([]*Solution, cap)
	for s := 0; s < cap; s++ {
		sol := &Solution{
			Y:        make([]float64, cfg.NY),
			Implicit: make([][]float64, n),
			Explicit: make([][]float64, n),
		}
		for e := 0; e < n; e++ {
			sol.Implicit[e] = make([]float64, cfg.ImplicitCounts[e])
			if o.sharedExplicit[e] != nil {
				sol.Explicit[e] = o.sharedExplicit[e]
			} else {
				sol.Explicit[e] = make([]float64, cfg.ExplicitCounts[e])
			}
		}
		o.slots[s] = sol
	}
	return o
}

// Capacity returns the number of ring slots.
func (o *SolutionRing) Capacity() int { return len(o.slots) }

// NElements returns the number of elements this ring was built for.
func (o *SolutionRing) NElements() int { return len(o.cfg.ImplicitCounts) }

// Current returns the "current" solution snapshot.
func (o *SolutionRing) Current() *Solution { return o.slots[o.cur] }

// Previous returns the "previous" solution snapshot — always the slot
// immediately behind the cursor, so distinct from Current whenever
// Capacity() >= 2.
func (o *SolutionRing) Previous() *Solution {
	return o.slots[o.prevIndex()]
}

func (o *SolutionRing) prevIndex() int {
	n := len(o.slots)
	return (o.cur - 1 + n) % n
}

// StepForward advances the cursor by one slot (a new "current" is adopted;
// the old "current" becomes "previous").
func (o *SolutionRing) StepForward() {
	o.cur = (o.cur + 1) % len(o.slots)
}

// StepBackward retreats the cursor by one slot, discarding a failed step.
// If called immediately after StepForward with no intervening writes, it
// exactly restores the prior cursor and labels (spec.md §8, "step-back
// reversibility").
func (o *SolutionRing) StepBackward() {
	o.cur = o.prevIndex()
}
