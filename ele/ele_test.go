// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Ifsttar/bil-go/mdl"
	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/models/diffusion1d"
	"github.com/Ifsttar/bil-go/ring"
	"github.com/Ifsttar/bil-go/spmat"
)

type constProps map[string]float64

func (p constProps) Float(key string) (float64, bool)         { v, ok := p[key]; return v, ok }
func (constProps) String(key string) (string, bool)           { return "", false }
func (constProps) Curve(key string) (x, y []float64, ok bool) { return nil, nil, false }

// twoBar builds a 2-element unit-length diffusion1d bar (k=1, rho=1, linear)
// and returns the wired mesh/registry/ring/assembler.
func twoBar(tst *testing.T) (*mesh.Mesh, *mdl.Registry, *ring.SolutionRing, *Assembler) {
	return twoBarRho(tst, 1)
}

// twoBarRho is twoBar with rho as a parameter, so a pure-flux (rho=0) case
// can isolate the conductivity term from the capacity term.
func twoBarRho(tst *testing.T, rho float64) (*mesh.Mesh, *mdl.Registry, *ring.SolutionRing, *Assembler) {
	reg := mdl.NewRegistry()
	diffusion1d.Register(reg)

	model, err := reg.New(diffusion1d.Name)
	if err != nil {
		tst.Fatal(err)
	}
	mat := mesh.NewMaterial("m1", diffusion1d.Name, 0)
	if err := model.ReadMaterialProperties(mat, constProps{"a0": 1, "k": 1, "rho": rho}); err != nil {
		tst.Fatal(err)
	}

	b := mesh.NewBuilder()
	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{0.5})
	b.AddNode(2, []float64{1.0})
	b.AddElement(0, []int{0, 1}, "bar", mat, diffusion1d.Name, []string{"u"}, nil)
	b.AddElement(1, []int{1, 2}, "bar", mat, diffusion1d.Name, []string{"u"}, nil)
	m := b.Finalize()

	rcfg, err := DeriveRingConfig(m, reg, 2)
	if err != nil {
		tst.Fatal(err)
	}
	r := ring.New(rcfg)
	asm := New(m, r, reg)
	return m, reg, r, asm
}

func Test_ele01(tst *testing.T) {

	chk.PrintTitle("ele01: DeriveRingConfig reads per-element sizes from DefineElementProperties")

	m, _, r, _ := twoBar(tst)
	chk.IntAssert(r.NElements(), len(m.Elements))
	chk.IntAssert(len(r.Current().Implicit[0]), 1)
	chk.IntAssert(len(r.Current().Explicit[0]), 1)
	chk.IntAssert(len(r.Const[0]), 1)
}

func Test_ele02(tst *testing.T) {

	chk.PrintTitle("ele02: ComputeInitialState fills per-element constant terms (element length)")

	_, _, r, asm := twoBar(tst)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "element 0 length", 1e-12, r.Const[0][0], 0.5)
	chk.Scalar(tst, "element 1 length", 1e-12, r.Const[1][0], 0.5)
}

func Test_ele03(tst *testing.T) {

	chk.PrintTitle("ele03: a converged (zero-everywhere) field has zero residual")

	_, _, r, asm := twoBar(tst)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	r.StepForward()
	r.Current().CopyYFrom(r.Previous())
	if err := asm.ComputeExplicitTerms(r.Previous().T); err != nil {
		tst.Fatal(err)
	}
	if err := asm.ComputeImplicitTerms(1, 0.1); err != nil {
		tst.Fatal(err)
	}
	rhs := make([]float64, 3)
	if err := asm.AssembleResidual(1, 0.1, rhs); err != nil {
		tst.Fatal(err)
	}
	chk.Vector(tst, "uniform zero field has zero residual", 1e-12, rhs, []float64{0, 0, 0})
}

func Test_ele04(tst *testing.T) {

	chk.PrintTitle("ele04: AssembleTangent runs clean and each element's block is symmetric at a zero field")

	m, _, r, asm := twoBar(tst)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	r.StepForward()
	r.Current().CopyYFrom(r.Previous())
	if err := asm.ComputeImplicitTerms(1, 0.1); err != nil {
		tst.Fatal(err)
	}

	// at a uniform zero field, diffusion1d's linearization term (lin)
	// vanishes, so each element's 2x2 tangent block is symmetric.
	for i, b := range asm.Bounds {
		k := asm.kernelFor(i)
		kb := [][]float64{{0, 0}, {0, 0}}
		if err := b.Model.ComputeMatrix(k, 1, 0.1, kb); err != nil {
			tst.Fatal(err)
		}
		chk.Scalar(tst, "element tangent block is symmetric", 1e-12, kb[0][1], kb[1][0])
	}

	a := spmat.NewFromMesh(m)
	if err := asm.AssembleTangent(1, 0.1, a); err != nil {
		tst.Fatal(err)
	}
}

func Test_ele05(tst *testing.T) {

	chk.PrintTitle("ele05: ApplyDirichlet pins a column's residual and tangent row")

	m, _, r, asm := twoBar(tst)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	r.StepForward()
	r.Current().CopyYFrom(r.Previous())

	a := spmat.NewFromMesh(m)
	asm.ApplyDirichlet(a, map[int]float64{0: 2.5}, r.Current().Y)
	chk.Scalar(tst, "prescribed value installed", 1e-12, r.Current().Y[0], 2.5)

	if err := asm.ComputeImplicitTerms(1, 0.1); err != nil {
		tst.Fatal(err)
	}
	rhs := make([]float64, 3)
	if err := asm.AssembleResidual(1, 0.1, rhs); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "constrained row carries no residual", 1e-12, rhs[0], 0)

	if err := asm.AssembleTangent(1, 0.1, a); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "constrained row carries a unit pivot", 1e-12, a.At(0, 0), 1)
	chk.Scalar(tst, "constrained row has no off-diagonal entry", 1e-12, a.At(0, 1), 0)
}

func Test_ele06(tst *testing.T) {

	chk.PrintTitle("ele06: shared-node assembly of symmetric element tangents yields a symmetric global matrix")

	m, _, r, asm := twoBar(tst)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	r.StepForward()
	r.Current().CopyYFrom(r.Previous())
	if err := asm.ComputeImplicitTerms(1, 0.1); err != nil {
		tst.Fatal(err)
	}

	a := spmat.NewFromMesh(m)
	if err := asm.AssembleTangent(1, 0.1, a); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "global tangent symmetric off node 1 (shared between both elements)", 1e-12, a.At(0, 1), a.At(1, 0))
	chk.Scalar(tst, "global tangent symmetric off node 2", 1e-12, a.At(1, 2), a.At(2, 1))
}

func Test_ele07(tst *testing.T) {

	chk.PrintTitle("ele07: a rho=0 (pure-flux) element residual is antisymmetric across the domain's boundary nodes")

	_, _, r, asm := twoBarRho(tst, 0)
	if err := asm.ComputeInitialState(0); err != nil {
		tst.Fatal(err)
	}
	r.StepForward()
	// equal-length elements with an equal per-element slope (0.4 over each
	// 0.5-long element) carry equal flux, so the internal shared node (1)
	// balances and the two boundary nodes see the same flux magnitude.
	r.Current().Y[0] = 0
	r.Current().Y[1] = 0.4
	r.Current().Y[2] = 0.8
	if err := asm.ComputeExplicitTerms(r.Previous().T); err != nil {
		tst.Fatal(err)
	}
	if err := asm.ComputeImplicitTerms(1, 0.1); err != nil {
		tst.Fatal(err)
	}
	rhs := make([]float64, 3)
	if err := asm.AssembleResidual(1, 0.1, rhs); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "no net accumulation at the shared node with rho=0", 1e-12, rhs[1], 0)
	chk.Scalar(tst, "boundary residual is antisymmetric: rhs[0] == -rhs[2]", 1e-12, rhs[0], -rhs[2])
}
