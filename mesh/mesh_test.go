// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_mesh01(tst *testing.T) {

	chk.PrintTitle("mesh01: two-element bar, compact DOF numbering")

	b := NewBuilder()
	mat := NewMaterial("m1", "diffusion1d", 0)
	eqNames := []string{"u"}

	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{0.5})
	b.AddNode(2, []float64{1.0})
	b.AddElement(0, []int{0, 1}, "bar", mat, "diffusion1d", eqNames, nil)
	b.AddElement(1, []int{1, 2}, "bar", mat, "diffusion1d", eqNames, nil)

	m := b.Finalize()
	chk.IntAssert(len(m.Nodes), 3)
	chk.IntAssert(len(m.Elements), 2)
	chk.IntAssert(m.NbOfMatrixColumns, 3)

	el0, el1 := m.Elements[0], m.Elements[1]
	chk.IntAssert(el0.EqCol[0][0], 0)
	chk.IntAssert(el0.EqCol[1][0], 1)
	chk.IntAssert(el1.EqCol[0][0], 1)
	chk.IntAssert(el1.EqCol[1][0], 2)
}

func Test_mesh02(tst *testing.T) {

	chk.PrintTitle("mesh02: a node not carrying a key reports -1")

	b := NewBuilder()
	mat := NewMaterial("m1", "diffusion1d", 0)

	b.AddNode(0, []float64{0})
	b.AddNode(1, []float64{1})
	el := b.AddElement(0, []int{0, 1}, "bar", mat, "diffusion1d", []string{"u"}, [][]string{{"u"}, nil})
	m := b.Finalize()

	if m.Elements[0].EqCol[1][0] != -1 {
		tst.Fatal("node 1 must not carry \"u\" in this element: got", el.EqCol[1][0])
	}
}

func Test_mesh03(tst *testing.T) {

	chk.PrintTitle("mesh03: AddNode is idempotent on id, shared across elements")

	b := NewBuilder()
	mat := NewMaterial("m1", "diffusion1d", 0)

	n1 := b.AddNode(5, []float64{0})
	n2 := b.AddNode(5, []float64{0})
	if n1 != n2 {
		tst.Fatal("AddNode(5, ...) twice must return the same *Node")
	}

	b.AddNode(6, []float64{1})
	b.AddElement(0, []int{5, 6}, "bar", mat, "diffusion1d", []string{"u"}, nil)
	m := b.Finalize()
	chk.IntAssert(len(m.Nodes), 2)
}

func Test_mesh04(tst *testing.T) {

	chk.PrintTitle("mesh04: referencing an unknown node panics")

	defer func() {
		if recover() == nil {
			tst.Fatal("AddElement over an unregistered node id should have panicked")
		}
	}()
	b := NewBuilder()
	mat := NewMaterial("m1", "diffusion1d", 0)
	b.AddNode(0, []float64{0})
	b.AddElement(0, []int{0, 99}, "bar", mat, "diffusion1d", []string{"u"}, nil)
}

func Test_mesh05(tst *testing.T) {

	chk.PrintTitle("mesh05: material property array is opaque and bounded")

	mat := NewMaterial("m1", "diffusion1d", 4)
	chk.IntAssert(len(mat.Props), 4)
	mat.Props[0] = 1.5
	mat.AddCurve("k-curve", []float64{0, 1}, []float64{1, 2})
	if _, ok := mat.Curves["k-curve"]; !ok {
		tst.Fatal("AddCurve must register the curve under its name")
	}
}
