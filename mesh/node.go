// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh holds the node/element/material data model that the rest of
// the engine assembles against. It does not read mesh files: nodes and
// elements are built programmatically by a Builder.
package mesh

// Node holds coordinates and, for every DOF key it carries, the global
// equation-row index and unknown-column index assigned by Builder.AddElement.
type Node struct {
	Id     int
	Coords []float64
	eq     map[string]int
	col    map[string]int
	keys   []string // insertion order, for deterministic iteration
}

// NewNode returns a new node with the given id and coordinates.
func NewNode(id int, coords []float64) *Node {
	return &Node{
		Id:     id,
		Coords: append([]float64{}, coords...),
		eq:     make(map[string]int),
		col:    make(map[string]int),
	}
}

// HasDof tells whether this node already carries the given DOF key.
func (o *Node) HasDof(key string) bool {
	_, ok := o.eq[key]
	return ok
}

// Eq returns the global equation-row index for the given DOF key, or -1 if
// this node does not carry that key.
func (o *Node) Eq(key string) int {
	if i, ok := o.eq[key]; ok {
		return i
	}
	return -1
}

// Col returns the global unknown-column index for the given DOF key, or -1
// if this node does not carry that key.
func (o *Node) Col(key string) int {
	if i, ok := o.col[key]; ok {
		return i
	}
	return -1
}

// Keys returns the DOF keys carried by this node, in the order they were
// first assigned.
func (o *Node) Keys() []string {
	return o.keys
}

// addDof assigns the next equation/column index to key, unless already
// present. Equation and column indices are assigned from the same counter:
// the data model keeps them as separate fields because a future assembler
// may need non-square systems (e.g. constraint rows with no matching
// column), but this engine always advances both together.
func (o *Node) addDof(key string, next *int) {
	if o.HasDof(key) {
		return
	}
	o.eq[key] = *next
	o.col[key] = *next
	o.keys = append(o.keys, key)
	*next++
}
