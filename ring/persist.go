// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ring

import (
	"encoding/binary"
	"io"

	"github.com/cpmech/gosl/chk"
)

// magic/version identify the restart snapshot format of spec.md §6
// ("Persistence layout"): a compact header followed by the raw arrays in
// declared order, all little-endian IEEE-754 doubles.
const (
	magic   uint32 = 0x42494c46 // "BILF"
	version uint32 = 1
)

// StoreCurrent writes the current snapshot to w: header (magic, version, t,
// nodal-unknown and element counts, per-element implicit/explicit/constant
// term counts), then the raw Y array, then for each element in turn its
// Implicit, Explicit and Const arrays.
func (o *SolutionRing) StoreCurrent(w io.Writer) (err error) {
	sol := o.Current()
	n := o.NElements()

	header := []uint32{magic, version}
	if err = writeU32s(w, header); err != nil {
		return
	}
	if err = binary.Write(w, binary.LittleEndian, sol.T); err != nil {
		return chk.Err("ring: cannot write time: %v", err)
	}
	if err = writeU32s(w, []uint32{uint32(len(sol.Y)), uint32(n)}); err != nil {
		return
	}
	implicitCounts := make([]uint32, n)
	explicitCounts := make([]uint32, n)
	constCounts := make([]uint32, n)
	for e := 0; e < n; e++ {
		implicitCounts[e] = uint32(len(sol.Implicit[e]))
		explicitCounts[e] = uint32(len(sol.Explicit[e]))
		constCounts[e] = uint32(len(o.Const[e]))
	}
	if err = writeU32s(w, implicitCounts); err != nil {
		return
	}
	if err = writeU32s(w, explicitCounts); err != nil {
		return
	}
	if err = writeU32s(w, constCounts); err != nil {
		return
	}

	if err = writeF64s(w, sol.Y); err != nil {
		return
	}
	for e := 0; e < n; e++ {
		if err = writeF64s(w, sol.Implicit[e]); err != nil {
			return
		}
		if err = writeF64s(w, sol.Explicit[e]); err != nil {
			return
		}
		if err = writeF64s(w, o.Const[e]); err != nil {
			return
		}
	}
	return nil
}

// LoadCurrent reads a snapshot previously written by StoreCurrent into the
// current ring slot and returns the persisted time. It is strict: every
// count (node unknowns, element count, per-element term counts) must match
// this ring's configuration exactly, or loading fails (spec.md §6).
func (o *SolutionRing) LoadCurrent(r io.Reader) (t float64, err error) {
	hdr, err := readU32s(r, 2)
	if err != nil {
		return 0, err
	}
	if hdr[0] != magic {
		return 0, chk.Err("ring: bad magic number in restart snapshot")
	}
	if hdr[1] != version {
		return 0, chk.Err("ring: unsupported restart snapshot version %d", hdr[1])
	}
	if err = binary.Read(r, binary.LittleEndian, &t); err != nil {
		return 0, chk.Err("ring: cannot read time: %v", err)
	}
	counts, err := readU32s(r, 2)
	if err != nil {
		return 0, err
	}
	ny, n := int(counts[0]), int(counts[1])

	sol := o.Current()
	if ny != len(sol.Y) {
		return 0, chk.Err("ring: restart mismatch: %d nodal unknowns in snapshot, %d expected", ny, len(sol.Y))
	}
	if n != o.NElements() {
		return 0, chk.Err("ring: restart mismatch: %d elements in snapshot, %d expected", n, o.NElements())
	}

	implicitCounts, err := readU32s(r, n)
	if err != nil {
		return 0, err
	}
	explicitCounts, err := readU32s(r, n)
	if err != nil {
		return 0, err
	}
	constCounts, err := readU32s(r, n)
	if err != nil {
		return 0, err
	}
	for e := 0; e < n; e++ {
		if int(implicitCounts[e]) != len(sol.Implicit[e]) {
			return 0, chk.Err("ring: restart mismatch: element %d implicit-term count %d, %d expected", e, implicitCounts[e], len(sol.Implicit[e]))
		}
		if int(explicitCounts[e]) != len(sol.Explicit[e]) {
			return 0, chk.Err("ring: restart mismatch: element %d explicit-term count %d, %d expected", e, explicitCounts[e], len(sol.Explicit[e]))
		}
		if int(constCounts[e]) != len(o.Const[e]) {
			return 0, chk.Err("ring: restart mismatch: element %d constant-term count %d, %d expected", e, constCounts[e], len(o.Const[e]))
		}
	}

	if err = readF64s(r, sol.Y); err != nil {
		return 0, err
	}
	for e := 0; e < n; e++ {
		if err = readF64s(r, sol.Implicit[e]); err != nil {
			return 0, err
		}
		if err = readF64s(r, sol.Explicit[e]); err != nil {
			return 0, err
		}
		if err = readF64s(r, o.Const[e]); err != nil {
			return 0, err
		}
	}
	sol.T = t
	return t, nil
}

func writeU32s(w io.Writer, vals []uint32) error {
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return chk.Err("ring: cannot write header field: %v", err)
		}
	}
	return nil
}

func readU32s(r io.Reader, n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, chk.Err("ring: cannot read header field %d: %v", i, err)
		}
	}
	return out, nil
}

func writeF64s(w io.Writer, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, vals); err != nil {
		return chk.Err("ring: cannot write array: %v", err)
	}
	return nil
}

func readF64s(r io.Reader, out []float64) error {
	if len(out) == 0 {
		return nil
	}
	if err := binary.Read(r, binary.LittleEndian, out); err != nil {
		return chk.Err("ring: cannot read array: %v", err)
	}
	return nil
}
