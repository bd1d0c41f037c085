// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diffusion1d is a reference Model implementing the full vtable
// of spec.md §4.5 for the scalar 1-D transient diffusion equation
//
//	ρ du/dt = d/dx( k(u) du/dx ) + s(t,x)
//
// on a 2-node linear element, with the nonlinear coefficient
//
//	k(u) = (a0 + a1 u + a2 u² + a3 u³) * kcte
//
// Grounded on mdl/diffusion/m1.go (the a0..a3 polynomial and Kcte scalar)
// and ele/diffusion/diffusion.go (the AddToRhs/AddToKb residual/tangent
// structure), generalized against mdl.Model's explicit/implicit/const
// term split instead of the teacher's Psi/DynCfs star-variable machinery:
// the explicit term here is the frozen previous-step average unknown
// (the teacher's "ustar"), and the implicit term is the current nonlinear
// conductivity, recomputed and sign-checked every Newton iteration.
//
// Coefficients live in mesh.Material.Props (ReadMaterialProperties fills
// it once per material), not on the Model value itself: the Assembler
// allocates one Model instance per element, so any per-instance field
// would be left zero on every element but the one ReadMaterialProperties
// happened to be called against.
package diffusion1d

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/Ifsttar/bil-go/mdl"
	"github.com/Ifsttar/bil-go/mesh"
)

// Name is the registry name this model is bound under.
const Name = "diffusion1d"

// Property slots in mesh.Material.Props.
const (
	iA0 = iota
	iA1
	iA2
	iA3
	iK
	iRho
	nProps
)

// Model implements mdl.Model for the 2-node 1-D diffusion element. It
// carries no per-instance state; all material data lives in the bound
// Kernel's Material.
type Model struct{}

// Register binds Name to a fresh Model allocator in reg.
func Register(reg *mdl.Registry) {
	reg.Register(Name, func() mdl.Model { return &Model{} })
}

// SetModelProperties fills the canonical per-node DOF name table: one
// unknown, "u".
func (o *Model) SetModelProperties() mdl.ModelProps {
	return mdl.ModelProps{Name: Name, EqNames: []string{"u"}}
}

// ReadMaterialProperties parses a0..a3, k, rho from cfg into mat.Props.
func (o *Model) ReadMaterialProperties(mat *mesh.Material, cfg mdl.PropertyReader) error {
	mat.Props = make([]float64, nProps)
	a0, _ := cfg.Float("a0")
	a1, _ := cfg.Float("a1")
	a2, _ := cfg.Float("a2")
	a3, _ := cfg.Float("a3")
	k, _ := cfg.Float("k")
	rho, _ := cfg.Float("rho")
	mat.Props[iA0], mat.Props[iA1], mat.Props[iA2], mat.Props[iA3] = a0, a1, a2, a3
	mat.Props[iK], mat.Props[iRho] = k, rho
	return nil
}

// PrintModelChar writes a human-readable description.
func (o *Model) PrintModelChar(w mdl.Printer) {
	w.Printf("diffusion1d: k(u) = (a0 + a1*u + a2*u^2 + a3*u^3) * kcte, one unknown \"u\"\n")
}

// DefineElementProperties fixes term sizes: one implicit (current k),
// one explicit (frozen previous-step average u), one const (element
// length).
func (o *Model) DefineElementProperties(k *mdl.Kernel) mdl.ElementProps {
	return mdl.ElementProps{NImplicit: 1, NExplicit: 1, NConst: 1, NGauss: 1}
}

// length returns the element's geometric length (2-node element, 1-D
// coordinates).
func length(k *mdl.Kernel) float64 {
	x0 := k.Coords(0)[0]
	x1 := k.Coords(1)[0]
	return math.Abs(x1 - x0)
}

// kval computes k(u) = (a0 + a1 u + a2 u^2 + a3 u^3) * kcte from the
// bound material's properties.
func kval(k *mdl.Kernel, u float64) float64 {
	p := k.Mat.Props
	return (p[iA0] + p[iA1]*u + p[iA2]*u*u + p[iA3]*u*u*u) * p[iK]
}

// dkdu computes dk/du.
func dkdu(k *mdl.Kernel, u float64) float64 {
	p := k.Mat.Props
	return (p[iA1] + 2*p[iA2]*u + 3*p[iA3]*u*u) * p[iK]
}

// ComputeInitialState records the element length as the constant term and
// an initial conductivity estimate as the implicit term.
func (o *Model) ComputeInitialState(k *mdl.Kernel, t float64) error {
	k.Const()[0] = length(k)
	ubar := 0.5 * (k.Y(0, 0) + k.Y(1, 0))
	k.Implicit()[0] = kval(k, ubar)
	return nil
}

// ComputeExplicitTerms freezes the previous-step average unknown, the
// "ustar" term driving the backward-Euler accumulation over this whole
// step's Newton iterations.
func (o *Model) ComputeExplicitTerms(k *mdl.Kernel, t float64) error {
	k.Explicit()[0] = 0.5 * (k.YPrev(0, 0) + k.YPrev(1, 0))
	return nil
}

// ComputeImplicitTerms recomputes the current nonlinear conductivity and
// rejects a non-physical (non-positive) coefficient.
func (o *Model) ComputeImplicitTerms(k *mdl.Kernel, t, dt float64) error {
	ubar := 0.5 * (k.Y(0, 0) + k.Y(1, 0))
	kc := kval(k, ubar)
	if kc <= 0 || math.IsNaN(kc) || math.IsInf(kc, 0) {
		return chk.Err("diffusion1d: non-positive conductivity (u=%g, k=%g)", ubar, kc)
	}
	k.Implicit()[0] = kc
	return nil
}

// ComputeMatrix fills the 2x2 tangent block: capacity term (ρ/dt,
// lumped) plus the conductivity term linearized by dk/du.
func (o *Model) ComputeMatrix(k *mdl.Kernel, t, dt float64, kb [][]float64) error {
	L := k.Const()[0]
	kc := k.Implicit()[0]
	rho := k.Mat.Props[iRho]
	u0, u1 := k.Y(0, 0), k.Y(1, 0)
	ubar := 0.5 * (u0 + u1)
	dk := dkdu(k, ubar)
	du := (u1 - u0) / L

	cap := rho * L / (2 * dt) // lumped capacity, per node
	cond := kc / L

	// d(flux)/du_n has a direct term (kc/L, symmetric) and a linearized
	// term from dk/du via the averaging weight (1/2 per node).
	lin := 0.5 * dk * du
	kb[0][0] = cap + cond - lin
	kb[0][1] = -cond - lin
	kb[1][0] = -cond + lin
	kb[1][1] = cap + cond + lin
	return nil
}

// ComputeResidu fills the 2-entry residual block: accumulation (current
// minus frozen "ustar") minus the internal flux divergence minus any
// distributed source (added separately by ComputeLoads).
func (o *Model) ComputeResidu(k *mdl.Kernel, t, dt float64, fb []float64) error {
	L := k.Const()[0]
	kc := k.Implicit()[0]
	rho := k.Mat.Props[iRho]
	ustar := k.Explicit()[0]
	u0, u1 := k.Y(0, 0), k.Y(1, 0)
	ubar := 0.5 * (u0 + u1)
	dudt := (ubar - ustar) / dt
	flux := kc * (u1 - u0) / L // w = -k du/dx, internal force = -dN/dx * (-w) summed

	fb[0] = rho*L/2*dudt - flux
	fb[1] = rho*L/2*dudt + flux
	return nil
}

// ComputeLoads adds a distributed source evaluated at t, lumped equally
// to both nodes.
func (o *Model) ComputeLoads(k *mdl.Kernel, t, dt float64, load mesh.Load, value float64, fb []float64) error {
	if load.Key != "s" {
		return nil
	}
	L := k.Const()[0]
	fb[0] -= value * L / 2
	fb[1] -= value * L / 2
	return nil
}

// ComputeOutputs returns "u" (the nodal average) and "w" (flux) at the
// element centroid; point is not consulted.
func (o *Model) ComputeOutputs(k *mdl.Kernel, t float64, point []float64) ([]mdl.Output, error) {
	L := k.Const()[0]
	kc := k.Implicit()[0]
	u0, u1 := k.Y(0, 0), k.Y(1, 0)
	ubar := 0.5 * (u0 + u1)
	flux := -kc * (u1 - u0) / L
	return []mdl.Output{
		{Name: "u", Values: []float64{ubar}},
		{Name: "w", Values: []float64{flux}},
	}, nil
}
