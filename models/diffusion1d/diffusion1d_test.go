// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diffusion1d

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Ifsttar/bil-go/mdl"
	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/ring"
)

type props map[string]float64

func (p props) Float(key string) (float64, bool)         { v, ok := p[key]; return v, ok }
func (props) String(key string) (string, bool)           { return "", false }
func (props) Curve(key string) (x, y []float64, ok bool) { return nil, nil, false }

// fixture builds one 2-node, unit-length element with the given material
// properties and a ring sized for it, and returns a bound Kernel.
func fixture(tst *testing.T, p props) (*mdl.Kernel, *ring.SolutionRing) {
	o := &Model{}
	mat := mesh.NewMaterial("m1", Name, 0)
	if err := o.ReadMaterialProperties(mat, p); err != nil {
		tst.Fatal(err)
	}

	b := mesh.NewBuilder()
	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{1})
	el := b.AddElement(0, []int{0, 1}, "bar", mat, Name, []string{"u"}, nil)
	b.Finalize()

	r := ring.New(ring.Config{
		NY:             2,
		ImplicitCounts: []int{1},
		ExplicitCounts: []int{1},
		ConstCounts:    []int{1},
		Capacity:       2,
	})

	k := mdl.NewKernel(el, 0, r.Current(), r.Previous(), r.Const[0])
	return k, r
}

func Test_diffusion01(tst *testing.T) {

	chk.PrintTitle("diffusion01: SetModelProperties declares exactly one unknown, \"u\"")

	o := &Model{}
	p := o.SetModelProperties()
	chk.StrAssert(p.Name, Name)
	chk.IntAssert(len(p.EqNames), 1)
	chk.StrAssert(p.EqNames[0], "u")
}

func Test_diffusion02(tst *testing.T) {

	chk.PrintTitle("diffusion02: DefineElementProperties fixes 1 implicit, 1 explicit, 1 const term")

	o := &Model{}
	ep := o.DefineElementProperties(nil)
	chk.IntAssert(ep.NImplicit, 1)
	chk.IntAssert(ep.NExplicit, 1)
	chk.IntAssert(ep.NConst, 1)
}

func Test_diffusion03(tst *testing.T) {

	chk.PrintTitle("diffusion03: ComputeInitialState records element length and k(0)")

	k, _ := fixture(tst, props{"a0": 1, "k": 2, "rho": 1})
	o := &Model{}
	if err := o.ComputeInitialState(k, 0); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "element length", 1e-12, k.Const()[0], 1.0)
	chk.Scalar(tst, "k(u=0) = a0*kcte", 1e-12, k.Implicit()[0], 2.0)
}

func Test_diffusion04(tst *testing.T) {

	chk.PrintTitle("diffusion04: zero field gives zero residual and a symmetric, positive tangent")

	k, _ := fixture(tst, props{"a0": 1, "k": 2, "rho": 3})
	o := &Model{}
	if err := o.ComputeInitialState(k, 0); err != nil {
		tst.Fatal(err)
	}
	if err := o.ComputeExplicitTerms(k, 0); err != nil {
		tst.Fatal(err)
	}
	if err := o.ComputeImplicitTerms(k, 1, 0.1); err != nil {
		tst.Fatal(err)
	}

	fb := make([]float64, 2)
	if err := o.ComputeResidu(k, 1, 0.1, fb); err != nil {
		tst.Fatal(err)
	}
	chk.Vector(tst, "zero field -> zero residual", 1e-12, fb, []float64{0, 0})

	kb := [][]float64{{0, 0}, {0, 0}}
	if err := o.ComputeMatrix(k, 1, 0.1, kb); err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "tangent block symmetric at zero field", 1e-12, kb[0][1], kb[1][0])
	if kb[0][0] <= 0 {
		tst.Fatalf("diagonal term must be positive, got %g", kb[0][0])
	}
}

func Test_diffusion05(tst *testing.T) {

	chk.PrintTitle("diffusion05: ComputeImplicitTerms rejects a non-positive conductivity")

	k, _ := fixture(tst, props{"a0": -1, "k": 1, "rho": 1})
	o := &Model{}
	if err := o.ComputeInitialState(k, 0); err != nil {
		tst.Fatal(err)
	}
	// a0=-1, a1..a3=0 => k(u) = -1*kcte < 0 for every u, including u=0.
	if err := o.ComputeImplicitTerms(k, 1, 0.1); err == nil {
		tst.Fatal("a negative conductivity must be rejected")
	}
}

func Test_diffusion06(tst *testing.T) {

	chk.PrintTitle("diffusion06: a steady imposed gradient drives flux in the expected direction")

	k, r := fixture(tst, props{"a0": 1, "k": 1, "rho": 1})
	o := &Model{}
	if err := o.ComputeInitialState(k, 0); err != nil {
		tst.Fatal(err)
	}
	r.Current().Y[0] = 2
	r.Current().Y[1] = 0
	if err := o.ComputeImplicitTerms(k, 1, 0.1); err != nil {
		tst.Fatal(err)
	}
	outs, err := o.ComputeOutputs(k, 1, nil)
	if err != nil {
		tst.Fatal(err)
	}
	var flux float64
	for _, out := range outs {
		if out.Name == "w" {
			flux = out.Values[0]
		}
	}
	if flux <= 0 {
		tst.Fatalf("flux should point from high to low u (node 0 -> node 1), got %g", flux)
	}
}

func Test_diffusion07(tst *testing.T) {

	chk.PrintTitle("diffusion07: ComputeLoads only reacts to its own load key")

	k, _ := fixture(tst, props{"a0": 1, "k": 1, "rho": 1})
	o := &Model{}
	if err := o.ComputeInitialState(k, 0); err != nil {
		tst.Fatal(err)
	}
	fb := []float64{0, 0}
	if err := o.ComputeLoads(k, 0, 0.1, mesh.Load{Key: "other"}, 5, fb); err != nil {
		tst.Fatal(err)
	}
	chk.Vector(tst, "unmatched load key leaves fb untouched", 1e-15, fb, []float64{0, 0})

	if err := o.ComputeLoads(k, 0, 0.1, mesh.Load{Key: "s"}, 2, fb); err != nil {
		tst.Fatal(err)
	}
	chk.Vector(tst, "source split evenly over both nodes", 1e-12, fb, []float64{-1, -1})
}
