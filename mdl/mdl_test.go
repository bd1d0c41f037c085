// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/Ifsttar/bil-go/mesh"
	"github.com/Ifsttar/bil-go/ring"
)

type stubModel struct{}

func (stubModel) SetModelProperties() ModelProps { return ModelProps{Name: "stub", EqNames: []string{"u"}} }
func (stubModel) ReadMaterialProperties(mat *mesh.Material, cfg PropertyReader) error { return nil }
func (stubModel) PrintModelChar(w Printer)                                           {}
func (stubModel) DefineElementProperties(k *Kernel) ElementProps                     { return ElementProps{} }
func (stubModel) ComputeInitialState(k *Kernel, t float64) error                     { return nil }
func (stubModel) ComputeExplicitTerms(k *Kernel, t float64) error                    { return nil }
func (stubModel) ComputeImplicitTerms(k *Kernel, t, dt float64) error                { return nil }
func (stubModel) ComputeMatrix(k *Kernel, t, dt float64, kb [][]float64) error       { return nil }
func (stubModel) ComputeResidu(k *Kernel, t, dt float64, fb []float64) error         { return nil }
func (stubModel) ComputeLoads(k *Kernel, t, dt float64, load mesh.Load, value float64, fb []float64) error {
	return nil
}
func (stubModel) ComputeOutputs(k *Kernel, t float64, point []float64) ([]Output, error) {
	return nil, nil
}

func Test_mdl01(tst *testing.T) {

	chk.PrintTitle("mdl01: Registry.Register records ModelProps at registration time")

	reg := NewRegistry()
	reg.Register("stub", func() Model { return stubModel{} })

	props, err := reg.Properties("stub")
	if err != nil {
		tst.Fatal(err)
	}
	chk.StrAssert(props.Name, "stub")
	chk.IntAssert(len(props.EqNames), 1)
}

func Test_mdl02(tst *testing.T) {

	chk.PrintTitle("mdl02: Registry.Register panics on duplicate names")

	reg := NewRegistry()
	reg.Register("stub", func() Model { return stubModel{} })

	defer func() {
		if recover() == nil {
			tst.Fatal("re-registering \"stub\" should have panicked")
		}
	}()
	reg.Register("stub", func() Model { return stubModel{} })
}

func Test_mdl03(tst *testing.T) {

	chk.PrintTitle("mdl03: Registry.New on an unknown name returns an error, not a panic")

	reg := NewRegistry()
	if _, err := reg.New("nope"); err == nil {
		tst.Fatal("New on an unregistered name must return an error")
	}
}

func Test_mdl04(tst *testing.T) {

	chk.PrintTitle("mdl04: Kernel.Y/YPrev return 0 for an inactive (-1) DOF")

	b := mesh.NewBuilder()
	mat := mesh.NewMaterial("m1", "stub", 0)
	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{1})
	el := b.AddElement(0, []int{0, 1}, "bar", mat, "stub", []string{"u"}, [][]string{{"u"}, nil})
	m := b.Finalize()

	r := ring.New(ring.Config{
		NY:             m.NbOfMatrixColumns,
		ImplicitCounts: []int{0},
		ExplicitCounts: []int{0},
		ConstCounts:    []int{0},
		Capacity:       2,
	})
	r.Current().Y[0] = 7

	k := NewKernel(el, 0, r.Current(), r.Previous(), r.Const[0])
	chk.Scalar(tst, "active DOF", 1e-15, k.Y(0, 0), 7)
	chk.Scalar(tst, "inactive DOF reads 0", 1e-15, k.Y(1, 0), 0)
	if el.EqCol[1][0] != -1 {
		tst.Fatal("node 1 must not carry \"u\" in this fixture")
	}
}

func Test_mdl05(tst *testing.T) {

	chk.PrintTitle("mdl05: Kernel.SetY writes into the current snapshot only")

	b := mesh.NewBuilder()
	mat := mesh.NewMaterial("m1", "stub", 0)
	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{1})
	el := b.AddElement(0, []int{0, 1}, "bar", mat, "stub", []string{"u"}, nil)
	m := b.Finalize()

	r := ring.New(ring.Config{
		NY:             m.NbOfMatrixColumns,
		ImplicitCounts: []int{0},
		ExplicitCounts: []int{0},
		ConstCounts:    []int{0},
		Capacity:       2,
	})

	k := NewKernel(el, 0, r.Current(), r.Previous(), r.Const[0])
	k.SetY(0, 0, 3.5)
	chk.Scalar(tst, "current Y updated", 1e-15, r.Current().Y[0], 3.5)
	chk.Scalar(tst, "previous Y untouched", 1e-15, r.Previous().Y[0], 0)
}
