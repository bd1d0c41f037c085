// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output implements the two multiplexed text outputs of
// spec.md §6: per-point time series (one row per accepted step) and
// per-date spatial snapshots (one row per node/element). Both follow the
// teacher's buffered-writer-with-a-header-row idiom (fem/fem.go's
// io.Pf-based progress reporting, generalized from stdout banners to a
// structured column format driven by a model's declared output names).
package output

import (
	"bufio"
	"fmt"
	"io"
)

// PointWriter emits a time series: one header row naming the declared
// quantities, then one row per accepted step.
type PointWriter struct {
	w       *bufio.Writer
	names   []string
	wrote   bool
}

// NewPointWriter wraps w, deferring the header row until the first Write
// call supplies the quantity names (compute_outputs declares them in
// order, spec.md §6).
func NewPointWriter(w io.Writer) *PointWriter {
	return &PointWriter{w: bufio.NewWriter(w)}
}

// Write appends one row: t, then each named value in declaration order.
// The header is written once, on the first call.
func (o *PointWriter) Write(t float64, names []string, values []float64) error {
	if !o.wrote {
		o.names = append([]string{"t"}, names...)
		if _, err := fmt.Fprintln(o.w, headerLine(o.names)); err != nil {
			return err
		}
		o.wrote = true
	} else if len(names)+1 != len(o.names) {
		return fmt.Errorf("output: quantity count changed mid-stream (%d declared, %d now)", len(o.names)-1, len(names))
	}
	row := make([]float64, 0, len(values)+1)
	row = append(row, t)
	row = append(row, values...)
	if _, err := fmt.Fprintln(o.w, rowLine(row)); err != nil {
		return err
	}
	return o.w.Flush()
}

// FieldWriter emits a full-field spatial snapshot at one date: a header
// naming the declared quantities, then one row per node (or element,
// depending on what the model's compute_outputs addresses).
type FieldWriter struct {
	w     *bufio.Writer
	names []string
	wrote bool
}

// NewFieldWriter wraps w.
func NewFieldWriter(w io.Writer) *FieldWriter {
	return &FieldWriter{w: bufio.NewWriter(w)}
}

// BeginDate starts a new snapshot block, writing a "# date=<t>" marker
// line so multiple dates can be multiplexed into one stream.
func (o *FieldWriter) BeginDate(t float64) error {
	_, err := fmt.Fprintf(o.w, "# date=%.10g\n", t)
	return err
}

// WriteRow appends one row (one node or element id plus its named
// values). The header is written once, on the first call across the
// whole stream (declared names are fixed by the model for the run).
func (o *FieldWriter) WriteRow(id int, names []string, values []float64) error {
	if !o.wrote {
		o.names = append([]string{"id"}, names...)
		if _, err := fmt.Fprintln(o.w, headerLine(o.names)); err != nil {
			return err
		}
		o.wrote = true
	} else if len(names)+1 != len(o.names) {
		return fmt.Errorf("output: quantity count changed mid-stream (%d declared, %d now)", len(o.names)-1, len(names))
	}
	if _, err := fmt.Fprintf(o.w, "%d", id); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(o.w, " %.10g", v); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(o.w); err != nil {
		return err
	}
	return o.w.Flush()
}

func headerLine(names []string) string {
	line := ""
	for i, n := range names {
		if i > 0 {
			line += " "
		}
		line += n
	}
	return line
}

func rowLine(values []float64) string {
	line := ""
	for i, v := range values {
		if i > 0 {
			line += " "
		}
		line += fmt.Sprintf("%.10g", v)
	}
	return line
}
