// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements functions to check constraints against particle systems
package tests

import (
	"math"
	"testing"

	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gorelax/cns"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/curioloop/optimizer/numdiff"
)

// CheckRoundTrip checks that SetDofs(s, Dofs(s)) does not change the configuration of s
func CheckRoundTrip(tst *testing.T, s atm.System, c cns.Constraint, tol float64, verbose bool) {
	X, F := s.Positions(), s.Deformation()
	x := c.Dofs(s)
	if len(x) != c.Ndofs() {
		tst.Errorf("CheckRoundTrip: Dofs returned %d values; Ndofs is %d\n", len(x), c.Ndofs())
		return
	}
	if err := c.SetDofs(s, x); err != nil {
		tst.Errorf("CheckRoundTrip: SetDofs failed: %v\n", err)
		return
	}
	if verbose {
		io.Pforan("x = %v\n", x)
	}
	for i, xi := range s.Positions() {
		chk.Vector(tst, io.Sf("X%d", i), tol, xi, X[i])
	}
	for i, fi := range s.Deformation() {
		chk.Vector(tst, io.Sf("F%d", i), tol, fi, F[i])
	}
}

// CheckGradient compares c.Gradient with central differences of c.Energy at dofs x0
//  idx -- components to be checked; nil => all
//  Note: the configuration of s is set to x0 when this function returns
func CheckGradient(tst *testing.T, s atm.System, c cns.Constraint, x0 []float64, idx []int, tol float64, verbose bool) {

	// analytical gradient
	if err := c.SetDofs(s, x0); err != nil {
		tst.Errorf("CheckGradient: SetDofs failed: %v\n", err)
		return
	}
	gana, err := c.Gradient(s)
	if err != nil {
		tst.Errorf("CheckGradient: Gradient failed: %v\n", err)
		return
	}

	// numerical gradient
	var failure error
	n := len(x0)
	x := append([]float64(nil), x0...)
	gnum := make([]float64, n)
	spec := numdiff.ApproxSpec{
		N:      n,
		M:      1,
		Method: numdiff.Central,
		Object: func(x, y []float64) {
			if e := c.SetDofs(s, x); e != nil && failure == nil {
				failure = e
			}
			y[0] = c.Energy(s)
		},
	}
	if err = spec.Diff(x, gnum); err != nil {
		tst.Errorf("CheckGradient: Diff failed: %v\n", err)
		return
	}
	if err = c.SetDofs(s, x0); err != nil {
		tst.Errorf("CheckGradient: SetDofs failed: %v\n", err)
		return
	}
	if failure != nil {
		tst.Errorf("CheckGradient: SetDofs failed during differentiation: %v\n", failure)
		return
	}

	// compare
	if idx == nil {
		idx = make([]int, n)
		for i := range idx {
			idx[i] = i
		}
	}
	for _, i := range idx {
		diff := math.Abs(gana[i] - gnum[i])
		if verbose {
			io.Pf("g[%2d]: ana = %23.15e  num = %23.15e  diff = %.2e\n", i, gana[i], gnum[i], diff)
		}
		if diff > tol {
			tst.Errorf("CheckGradient: g[%d] is incorrect. ana = %g, num = %g, diff = %g > %g\n", i, gana[i], gnum[i], diff, tol)
		}
	}
}
