// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

// Element holds the node list, material/model assignment and the DOF map
// used by ele.Assembler to scatter local residual/tangent blocks into the
// global system.
//
// Local DOF ordering follows spec.md §4.5: local index = nodeIndex*NEq +
// eqIndex, where NEq = len(EqNames). EqRow/EqCol carry -1 at (nodeIndex,
// eqIndex) when that node does not carry that equation name for this
// element (invariant in spec.md §3).
type Element struct {
	Id       int
	Region   string // load-matching region/tag, see Load
	Nodes    []*Node
	Material *Material
	Model    string
	EqNames  []string // canonical per-node equation name list (fixed by the model)

	EqRow [][]int // [localNode][localEq] -> global row, or -1
	EqCol [][]int // [localNode][localEq] -> global column, or -1
}

// NEq returns the number of equations carried per node by this element.
func (o *Element) NEq() int { return len(o.EqNames) }

// NNodes returns the number of nodes of this element.
func (o *Element) NNodes() int { return len(o.Nodes) }

// NDof returns the total number of local DOFs (nnodes*neq) of this element.
func (o *Element) NDof() int { return o.NNodes() * o.NEq() }

// buildEqMap fills EqRow/EqCol by looking up each node's global indices for
// every canonical equation name, producing -1 where the node does not carry
// that key.
func (o *Element) buildEqMap() {
	nn, neq := o.NNodes(), o.NEq()
	o.EqRow = make([][]int, nn)
	o.EqCol = make([][]int, nn)
	for i, nd := range o.Nodes {
		o.EqRow[i] = make([]int, neq)
		o.EqCol[i] = make([]int, neq)
		for j, key := range o.EqNames {
			o.EqRow[i][j] = nd.Eq(key)
			o.EqCol[i][j] = nd.Col(key)
		}
	}
}

// Load is a natural boundary condition / source term applied to every
// element whose Region matches Load.Region (spec.md §4.4).
type Load struct {
	Region string
	Key    string
	Fn     func(t float64, x []float64) float64
}
