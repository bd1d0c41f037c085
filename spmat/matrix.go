// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spmat implements the global SparseMatrix (spec.md §2.1) and the
// three LinearBackend variants (§2.2): dense LU with partial pivoting,
// supernodal LU on compressed columns, multifrontal LU with BLAS.
//
// The sparsity pattern is the union over every element of the full
// rectangular block {row_i} x {col_j} from that element's DOF map
// (spec.md §3), derived once from mesh.Mesh and fixed for the run; values
// are zeroed and rebuilt at the start of every assembly pass.
package spmat

import (
	"github.com/cpmech/gosl/la"

	"github.com/Ifsttar/bil-go/mesh"
)

// SparseMatrix owns a sparsity pattern (as a gosl Triplet, following
// fem/domain.go's Kb *la.Triplet) and its nonzero values. -1 row/column
// indices from an element's DOF map (spec.md §3, "inactive DOF") are
// silently skipped on ScatterAdd rather than treated as an error.
type SparseMatrix struct {
	NDim int // NbOfMatrixColumns
	nnz  int
	trip la.Triplet

	// entries mirrors every Put into trip, kept independently because
	// gosl's Triplet does not expose its internal storage for random
	// re-reads; DenseBackend needs to re-walk the nonzeros to build a
	// dense matrix.
	entries []entry

	// eliminated holds the Dirichlet-constrained DOFs (DESIGN.md, Open
	// Question resolution #5): direct substitution, implemented by
	// skipping their row/column during ScatterAdd and re-asserting a unit
	// diagonal at every Reset.
	eliminated map[int]bool
}

type entry struct {
	row, col int
	val      float64
}

// NewFromMesh derives the sparsity pattern from m: one full dense block
// per element's DOF map, exactly mirroring fem/domain.go's NnzKb
// accumulation loop ("NnzKb += eNdof*eNdof") before Kb.Init.
func NewFromMesh(m *mesh.Mesh) *SparseMatrix {
	nnz := 0
	for _, el := range m.Elements {
		ndof := el.NDof()
		nnz += ndof * ndof
	}
	o := &SparseMatrix{NDim: m.NbOfMatrixColumns, nnz: nnz + m.NbOfMatrixColumns}
	o.trip.Init(o.NDim, o.NDim, o.nnz)
	o.eliminated = make(map[int]bool)
	return o
}

// EliminateDof marks a DOF as Dirichlet-constrained: from the next Reset
// onward, that row/column is skipped by ScatterAdd and carries a unit
// diagonal instead, so the corresponding unknown is pinned to whatever
// value the caller installs directly into Y (ele.ApplyDirichlet).
func (o *SparseMatrix) EliminateDof(col int) {
	o.eliminated[col] = true
}

// Reset zeros the matrix for a new assembly pass, keeping the pattern's
// backing storage (spec.md §3, "pattern fixed for the run"), then
// re-asserts a unit diagonal for every eliminated DOF.
func (o *SparseMatrix) Reset() {
	o.trip.Start()
	o.entries = o.entries[:0]
	for dof := range o.eliminated {
		o.trip.Put(dof, dof, 1.0)
		o.entries = append(o.entries, entry{dof, dof, 1.0})
	}
}

// ScatterAdd adds a dense element block into the global matrix at the
// given global (row,col) index pairs. Entries whose row or column is -1
// (inactive DOF, spec.md §3) or Dirichlet-eliminated are skipped.
func (o *SparseMatrix) ScatterAdd(rows, cols []int, block [][]float64) {
	for i, row := range rows {
		if row < 0 || o.eliminated[row] {
			continue
		}
		for j, col := range cols {
			if col < 0 || o.eliminated[col] {
				continue
			}
			o.trip.Put(row, col, block[i][j])
			o.entries = append(o.entries, entry{row, col, block[i][j]})
		}
	}
}

// Triplet exposes the underlying gosl Triplet for a LinearBackend to
// factorize directly (avoids a redundant CSC conversion pass).
func (o *SparseMatrix) Triplet() *la.Triplet { return &o.trip }

// At sums every scattered contribution at (row,col), i.e. the assembled
// value a LinearBackend would see at that position after the current Reset
// + ScatterAdd pass. Intended for tests that need to read back the global
// matrix rather than a single element's local block.
func (o *SparseMatrix) At(row, col int) float64 {
	var sum float64
	for _, e := range o.entries {
		if e.row == row && e.col == col {
			sum += e.val
		}
	}
	return sum
}
