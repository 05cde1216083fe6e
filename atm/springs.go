// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Springs implements a harmonic model tying atoms to anchors and the cell to a preferred shape
//
//   E = ½ κ Σ_i |X_i - Y_i|² + ½ k |F - F*|²
//
//   f_i = -κ (X_i - Y_i)
//   S   = Σ_i κ (X_i - Y_i) ⊗ X_i + k (F - F*)・Fᵀ
//
type Springs struct {
	Kap   float64     // κ: stiffness of anchor springs
	Y     [][]float64 // anchors [natoms][3]
	Kcell float64     // k: stiffness of cell spring
	Fref  [][]float64 // F*: preferred cell deformation [3][3]; nil => no cell spring
}

// Energy computes the potential energy
func (o *Springs) Energy(a *Atoms) (E float64) {
	o.check(a)
	for i, x := range a.X {
		for k := 0; k < 3; k++ {
			d := x[k] - o.Y[i][k]
			E += 0.5 * o.Kap * d * d
		}
	}
	if o.Fref != nil {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				d := a.F[i][j] - o.Fref[i][j]
				E += 0.5 * o.Kcell * d * d
			}
		}
	}
	return
}

// Forces computes the forces on atoms
func (o *Springs) Forces(a *Atoms) (f [][]float64) {
	o.check(a)
	f = la.MatAlloc(len(a.X), 3)
	for i, x := range a.X {
		for k := 0; k < 3; k++ {
			f[i][k] = -o.Kap * (x[k] - o.Y[i][k])
		}
	}
	return
}

// Stress computes the derivative of E with respect to homogeneous deformations
func (o *Springs) Stress(a *Atoms) (S [][]float64) {
	o.check(a)
	S = la.MatAlloc(3, 3)
	for i, x := range a.X {
		for k := 0; k < 3; k++ {
			for l := 0; l < 3; l++ {
				S[k][l] += o.Kap * (x[k] - o.Y[i][k]) * x[l]
			}
		}
	}
	if o.Fref != nil {
		for k := 0; k < 3; k++ {
			for l := 0; l < 3; l++ {
				for m := 0; m < 3; m++ {
					S[k][l] += o.Kcell * (a.F[k][m] - o.Fref[k][m]) * a.F[l][m] // S += k (F - F*)・Fᵀ
				}
			}
		}
	}
	return
}

func (o *Springs) check(a *Atoms) {
	if len(o.Y) != len(a.X) {
		chk.Panic("springs: number of anchors (%d) must be equal to number of atoms (%d)", len(o.Y), len(a.X))
	}
}
