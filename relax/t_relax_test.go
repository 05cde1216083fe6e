// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relax

import (
	"errors"
	"testing"

	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gorelax/cns"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// cellSpring has energy K/2 |F - Fs|² and no forces. The stress is given with respect to
// the reference cell F0; i.e. S = K (F - Fs)・F0ᵀ
type cellSpring struct {
	K      float64
	Fs, F0 [][]float64
}

func (o *cellSpring) Energy(a *atm.Atoms) (e float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := a.F[i][j] - o.Fs[i][j]
			e += o.K * d * d / 2
		}
	}
	return
}

func (o *cellSpring) Forces(a *atm.Atoms) [][]float64 {
	return la.MatAlloc(len(a.X), 3)
}

func (o *cellSpring) Stress(a *atm.Atoms) (S [][]float64) {
	S = la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				S[i][j] += o.K * (a.F[i][k] - o.Fs[i][k]) * o.F0[j][k]
			}
		}
	}
	return
}

// failOnce makes the n-th call to SetDofs fail with a singular cell
type failOnce struct {
	cns.Constraint
	n, ncalls int
}

func (o *failOnce) SetDofs(s atm.System, x []float64) error {
	o.ncalls++
	if o.ncalls == o.n {
		y := append([]float64(nil), x...)
		clear(y[len(y)-9:])
		return o.Constraint.SetDofs(s, y)
	}
	return o.Constraint.SetDofs(s, x)
}

func Test_relax01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("relax01. fixed cell springs")

	X := [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	Y := [][]float64{{0.5, 0.5, 0.5}, {1.2, -0.1, 0.3}, {0.1, 0.8, -0.2}, {-0.3, 0.2, 1.4}}
	a, err := atm.NewAtoms(X, nil, &atm.Springs{Kap: 2, Y: Y})
	if err != nil {
		tst.Errorf("NewAtoms failed: %v\n", err)
		return
	}
	c, err := cns.New(a, &cns.Options{Clamp: []int{0}})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	var prms Params
	prms.SetDefault()
	prms.Gtol = 1e-10
	prms.Ftol = 1
	prms.Verbose = chk.Verbose
	res, err := Run(a, c, &prms)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	io.Pforan("res = %+v\n", res)
	if !res.Converged {
		tst.Errorf("relaxation should converge\n")
		return
	}

	// clamped atom stays; free atoms reach the anchors
	Xf := a.Positions()
	chk.Vector(tst, "X0", 1e-17, Xf[0], X[0])
	for i := 1; i < len(X); i++ {
		chk.Vector(tst, io.Sf("X%d", i), 1e-7, Xf[i], Y[i])
	}
	chk.Scalar(tst, "E", 1e-8, res.Energy, 0.75)
	chk.Scalar(tst, "E(system)", 1e-8, c.Energy(a), 0.75)
}

func Test_relax02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("relax02. nothing to relax and defaults")

	X := [][]float64{{0, 0, 0}, {1, 1, 1}}
	a, err := atm.NewAtoms(X, nil, &atm.Preset{E: 4})
	if err != nil {
		tst.Errorf("NewAtoms failed: %v\n", err)
		return
	}
	c, err := cns.New(a, &cns.Options{Free: []int{}})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	res, err := Run(a, c, nil)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	if !res.Converged {
		tst.Errorf("empty relaxation should be converged\n")
		return
	}
	chk.Scalar(tst, "E", 1e-17, res.Energy, 4)
	chk.IntAssert(res.Nit, 0)

	// zero forces: already at minimum
	c, err = cns.New(a, nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	res, err = Run(a, c, nil)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	io.Pforan("res = %+v\n", res)
	if !res.Converged {
		tst.Errorf("relaxation at minimum should be converged\n")
		return
	}
	chk.Vector(tst, "X0", 1e-17, a.Positions()[0], X[0])
	chk.Vector(tst, "X1", 1e-17, a.Positions()[1], X[1])
}

func Test_relax03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("relax03. variable cell")

	X := [][]float64{{0, 0, 0}, {0.5, 0.5, 0.5}, {1, 0.2, 0.3}}
	F0 := [][]float64{{1, 0.1, 0}, {0, 1, 0}, {0, 0, 1.2}}
	Fs := [][]float64{{1.1, 0, 0}, {0, 0.95, 0.05}, {0, 0, 1.3}}
	a, err := atm.NewAtoms(X, F0, &cellSpring{K: 2, Fs: Fs, F0: F0})
	if err != nil {
		tst.Errorf("NewAtoms failed: %v\n", err)
		return
	}
	c, err := cns.New(a, &cns.Options{Variable: true})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	var prms Params
	prms.SetDefault()
	prms.Gtol = 1e-10
	prms.Ftol = 1
	prms.Verbose = chk.Verbose
	res, err := Run(a, c, &prms)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	io.Pforan("res = %+v\n", res)
	if !res.Converged {
		tst.Errorf("relaxation should converge\n")
		return
	}
	chk.Scalar(tst, "E", 1e-12, res.Energy, 0)

	// cell reaches Fs and atoms follow it affinely
	F := a.Deformation()
	for i := 0; i < 3; i++ {
		chk.Vector(tst, io.Sf("F%d", i), 1e-8, F[i], Fs[i])
	}
	F0inv := la.MatAlloc(3, 3)
	if _, err = la.MatInvSmall(F0inv, F0, 1e-10); err != nil {
		tst.Errorf("MatInvSmall failed: %v\n", err)
		return
	}
	A := la.MatAlloc(3, 3)
	la.MatMul(A, 1, Fs, F0inv)
	Xf := a.Positions()
	x := make([]float64, 3)
	for i := range X {
		la.MatVecMul(x, 1, A, X[i])
		chk.Vector(tst, io.Sf("X%d", i), 1e-8, Xf[i], x)
	}
}

func Test_relax04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("relax04. failure during relaxation")

	X := [][]float64{{0, 0, 0}, {0.5, 0.5, 0.5}}
	F0 := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	Fs := [][]float64{{1.5, 0, 0}, {0, 0.8, 0}, {0, 0.2, 1.1}}
	a, err := atm.NewAtoms(X, F0, &cellSpring{K: 1, Fs: Fs, F0: F0})
	if err != nil {
		tst.Errorf("NewAtoms failed: %v\n", err)
		return
	}
	vc, err := cns.New(a, &cns.Options{Variable: true, Clamp: []int{0}})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	// first trial point fails
	c := &failOnce{Constraint: vc, n: 2}
	res, err := Run(a, c, nil)
	if !errors.Is(err, cns.ErrSingularCell) {
		tst.Errorf("ErrSingularCell expected. got %v\n", err)
		return
	}
	io.Pforan("%v\n", err)
	if res != nil {
		tst.Errorf("no result should be returned\n")
		return
	}
	if c.ncalls < 2 {
		tst.Errorf("SetDofs should have been called at least twice. ncalls = %d\n", c.ncalls)
		return
	}

	// initial configuration is restored
	for i := range X {
		chk.Vector(tst, io.Sf("X%d", i), 1e-15, a.Positions()[i], X[i])
	}
	for i := 0; i < 3; i++ {
		chk.Vector(tst, io.Sf("F%d", i), 1e-15, a.Deformation()[i], F0[i])
	}
}
