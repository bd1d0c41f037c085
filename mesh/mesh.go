// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gosl/chk"

// Mesh holds all nodes and elements active for a run, plus the DOF-numbering
// outcome (NbOfMatrixColumns, spec.md §3).
type Mesh struct {
	Nodes    []*Node
	Elements []*Element

	NbOfMatrixColumns int // assigned by Finalize
}

// Builder assembles a Mesh by a single pass over elements, assigning DOF
// numbers compactly as new (node,key) pairs are first seen — mirroring
// fem/domain.go's SetStage loop ("var eq int; for _, cell := range
// o.Msh.Cells { ... eq = nod.AddDofAndEq(ukey, eq) ... }").
type Builder struct {
	nodesById map[int]*Node
	nodes     []*Node
	elements  []*Element
	nextEq    int
}

// NewBuilder returns an empty mesh builder.
func NewBuilder() *Builder {
	return &Builder{nodesById: make(map[int]*Node)}
}

// AddNode registers a node (idempotent on Id) and returns it.
func (o *Builder) AddNode(id int, coords []float64) *Node {
	if nd, ok := o.nodesById[id]; ok {
		return nd
	}
	nd := NewNode(id, coords)
	o.nodesById[id] = nd
	o.nodes = append(o.nodes, nd)
	return nd
}

// AddElement creates a new element over nodeIds (which must already have
// been added via AddNode), carrying the given material/model and canonical
// equation-name list (eqNames; typically obtained from
// mdl.Registry.Properties(modelName).EqNames). dofKeysPerNode, if non-nil,
// restricts which of eqNames each node actually carries (nil means "every
// node carries every key in eqNames").
func (o *Builder) AddElement(id int, nodeIds []int, region string, mat *Material, modelName string, eqNames []string, dofKeysPerNode [][]string) *Element {
	el := &Element{
		Id:       id,
		Region:   region,
		Material: mat,
		Model:    modelName,
		EqNames:  append([]string{}, eqNames...),
	}
	for i, nid := range nodeIds {
		nd, ok := o.nodesById[nid]
		if !ok {
			chk.Panic("element %d references unknown node %d; call AddNode first", id, nid)
		}
		el.Nodes = append(el.Nodes, nd)
		keys := eqNames
		if dofKeysPerNode != nil {
			keys = dofKeysPerNode[i]
		}
		for _, key := range keys {
			nd.addDof(key, &o.nextEq)
		}
	}
	o.elements = append(o.elements, el)
	return el
}

// Finalize builds the element DOF maps and returns the immutable Mesh. Must
// be called exactly once, after every node/element has been added.
func (o *Builder) Finalize() *Mesh {
	m := &Mesh{
		Nodes:             o.nodes,
		Elements:          o.elements,
		NbOfMatrixColumns: o.nextEq,
	}
	for _, el := range m.Elements {
		el.buildEqMap()
	}
	return m
}
