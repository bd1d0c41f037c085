// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements the SolutionRing described in spec.md §3/§4.2: a
// fixed-size ring of Solution snapshots (nodal unknowns plus per-element
// implicit/explicit term arrays) with step_forward/step_backward and a
// binary store/load pair for restart.
//
// Constant terms are not ring-slotted: spec.md §3 states they are "fixed at
// initialization" and never overwritten, so this package keeps exactly one
// copy per element, shared by every ring slot (see DESIGN.md, Open Question
// resolution #1, which generalizes the same sharing to explicit terms via
// a per-element merge flag).
package ring

// Solution is one snapshot: nodal unknowns plus per-element implicit and
// explicit term vectors. Mirrors ele/solution.go's field grouping in the
// teacher repo, generalized to the element-indexed term arrays spec.md §3
// requires.
type Solution struct {
	T        float64
	Y        []float64   // [NbOfMatrixColumns] nodal unknowns
	Implicit [][]float64 // [nElements][[implicit term count]] per-element state
	Explicit [][]float64 // [nElements][[explicit term count]] per-element transfer terms
}

// CopyYFrom overwrites this snapshot's nodal unknowns with src's, used by
// the Driver to seed each repetition's current unknowns from the previous
// accepted step before installing Dirichlet conditions (spec.md §4.1.d).
func (o *Solution) CopyYFrom(src *Solution) {
	copy(o.Y, src.Y)
}
