// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterctl

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_iterctl01(tst *testing.T) {

	chk.PrintTitle("iterctl01: ScaledError takes the worst-scaled entry, skipping non-positive objectives")

	du := []float64{0.1, 0.4, 0.05}
	obj := []float64{1.0, 2.0, 0} // third DOF has no objective: skipped
	err := ScaledError(du, obj)
	chk.Scalar(tst, "max(0.1/1, 0.4/2)", 1e-15, err, 0.2)
}

func Test_iterctl02(tst *testing.T) {

	chk.PrintTitle("iterctl02: Check converges once err drops below Tol")

	c := New(Config{Tol: 1e-6, MaxIters: 10})
	if c.Check(0.5) != Continue {
		tst.Fatal("first large error must Continue")
	}
	if c.Check(1e-8) != Converged {
		tst.Fatal("error below Tol must Converge")
	}
	chk.IntAssert(c.Iter(), 2)
}

func Test_iterctl03(tst *testing.T) {

	chk.PrintTitle("iterctl03: Check diverges when error grows versus the previous iteration")

	c := New(Config{Tol: 1e-6, MaxIters: 10})
	if c.Check(0.1) != Continue {
		tst.Fatal("first iteration must Continue")
	}
	if c.Check(0.2) != Diverged {
		tst.Fatal("a growing error must Diverge")
	}
}

func Test_iterctl04(tst *testing.T) {

	chk.PrintTitle("iterctl04: Check diverges past DivergeCap regardless of history")

	c := New(Config{Tol: 1e-6, DivergeCap: 10, MaxIters: 10})
	if c.Check(100) != Diverged {
		tst.Fatal("error above DivergeCap must Diverge even on the first iteration")
	}
}

func Test_iterctl05(tst *testing.T) {

	chk.PrintTitle("iterctl05: Check returns BudgetExceeded at MaxIters without convergence")

	c := New(Config{Tol: 1e-9, MaxIters: 2})
	if c.Check(0.5) != Continue {
		tst.Fatal("iteration 1 must Continue")
	}
	if c.Check(0.5) != BudgetExceeded {
		tst.Fatal("iteration 2, still not converged, must exhaust the budget")
	}
}

func Test_iterctl06(tst *testing.T) {

	chk.PrintTitle("iterctl06: Reset clears the iteration count and error history")

	c := New(Config{Tol: 1e-6, MaxIters: 10})
	c.Check(0.5)
	c.Check(0.5) // equal, not growing, so Continue; without Reset a later 0.9 would diverge
	c.Reset()
	chk.IntAssert(c.Iter(), 0)
	if c.Check(0.9) != Continue {
		tst.Fatal("after Reset, a fresh large error must not be compared against stale history")
	}
}
