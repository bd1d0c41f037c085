// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/ring"
)

// Kernel is the thin per-element view spec.md §2 calls ElementKernel: it
// binds a Model to its Element, Material, and the four snapshots the
// vtable methods need (current/previous implicit terms, current explicit
// terms, constant terms). Assembler builds one Kernel per element per
// pass and hands it to the bound Model.
type Kernel struct {
	Elem  *mesh.Element
	Mat   *mesh.Material
	Index int // this element's position in mesh.Mesh.Elements / ring's per-element slices

	cur        *ring.Solution
	prev       *ring.Solution
	constTerms []float64
}

// NewKernel binds elem (at position idx in the mesh) to the current and
// previous ring snapshots.
func NewKernel(elem *mesh.Element, idx int, cur, prev *ring.Solution, constTerms []float64) *Kernel {
	return &Kernel{
		Elem:       elem,
		Mat:        elem.Material,
		Index:      idx,
		cur:        cur,
		prev:       prev,
		constTerms: constTerms,
	}
}

// NNodes returns the element's node count.
func (o *Kernel) NNodes() int { return o.Elem.NNodes() }

// NEq returns the number of equations carried per node by this element.
func (o *Kernel) NEq() int { return o.Elem.NEq() }

// Coords returns the coordinates of local node i.
func (o *Kernel) Coords(i int) []float64 { return o.Elem.Nodes[i].Coords }

// T returns the current snapshot's time.
func (o *Kernel) T() float64 { return o.cur.T }

// Y returns the current unknown value at local (node i, equation j), or 0
// if that DOF is inactive for this element (EqCol == -1), matching
// spec.md §3's "slot=-1 means inactive" convention.
func (o *Kernel) Y(i, j int) float64 {
	col := o.Elem.EqCol[i][j]
	if col < 0 {
		return 0
	}
	return o.cur.Y[col]
}

// YPrev is Y evaluated against the previous snapshot.
func (o *Kernel) YPrev(i, j int) float64 {
	col := o.Elem.EqCol[i][j]
	if col < 0 {
		return 0
	}
	return o.prev.Y[col]
}

// SetY writes back into the current snapshot's unknown vector at local
// (node i, equation j); for a model's ComputeInitialState to correct nodal
// unknowns. Dirichlet substitution (ele.Assembler.ApplyDirichlet) writes
// the unknown vector directly and does not go through SetY.
func (o *Kernel) SetY(i, j int, value float64) {
	col := o.Elem.EqCol[i][j]
	if col < 0 {
		return
	}
	o.cur.Y[col] = value
}

// Row returns the global equation row for local (node i, equation j), or
// -1 if inactive.
func (o *Kernel) Row(i, j int) int { return o.Elem.EqRow[i][j] }

// Col returns the global equation column for local (node i, equation j),
// or -1 if inactive.
func (o *Kernel) Col(i, j int) int { return o.Elem.EqCol[i][j] }

// Implicit returns this element's current implicit-term slice.
func (o *Kernel) Implicit() []float64 { return o.cur.Implicit[o.Index] }

// ImplicitPrev returns this element's previous implicit-term slice.
func (o *Kernel) ImplicitPrev() []float64 { return o.prev.Implicit[o.Index] }

// Explicit returns this element's current explicit-term slice.
func (o *Kernel) Explicit() []float64 { return o.cur.Explicit[o.Index] }

// Const returns this element's constant-term slice (shared across every
// ring slot; see ring package doc).
func (o *Kernel) Const() []float64 { return o.constTerms }
