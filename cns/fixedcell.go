// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cns

import (
	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// FixedCell implements a constraint where only (some) atomic coordinates are free
//  x = {X_I} for I in Ifree
type FixedCell struct {
	Ifree []int // free indices in flattened positions array
}

// NewFixedCell returns a new fixed-cell constraint
func NewFixedCell(s atm.System, opts *Options) (o *FixedCell, err error) {
	ifree, err := Resolve(s.Natoms(), opts)
	if err != nil {
		return
	}
	return &FixedCell{Ifree: ifree}, nil
}

func (o *FixedCell) sealed() {}

// Ndofs returns the number of dofs
func (o *FixedCell) Ndofs() int {
	return len(o.Ifree)
}

// Dofs returns a new array with the free coordinates of s
func (o *FixedCell) Dofs(s atm.System) (x []float64) {
	X := flatten(s.Positions())
	if err := checkIndices(o.Ifree, len(X)/3); err != nil {
		chk.Panic("%v", err)
	}
	x = make([]float64, len(o.Ifree))
	for k, I := range o.Ifree {
		x[k] = X[I]
	}
	return
}

// SetDofs sets the free coordinates of s; other coordinates are kept
func (o *FixedCell) SetDofs(s atm.System, x []float64) (err error) {
	if len(x) != len(o.Ifree) {
		return chk.Err("%w: fixed cell requires %d dofs. %d is invalid", ErrDimension, len(o.Ifree), len(x))
	}
	X := flatten(s.Positions())
	if err = checkIndices(o.Ifree, len(X)/3); err != nil {
		return
	}
	for k, I := range o.Ifree {
		X[I] = x[k]
	}
	s.SetPositions(unflatten(X))
	return
}

// Project does nothing: every configuration with the fixed cell is admissible
func (o *FixedCell) Project(s atm.System) {}

// ProjectPrecon returns the rows and columns of the [3*natoms][3*natoms] matrix P
// corresponding to the free coordinates
func (o *FixedCell) ProjectPrecon(P [][]float64) (Q [][]float64, err error) {
	for i, row := range P {
		if len(row) != len(P) {
			return nil, chk.Err("%w: preconditioner must be square; row %d has %d columns", ErrDimension, i, len(row))
		}
	}
	if len(P)%3 != 0 {
		return nil, chk.Err("%w: preconditioner size must be a multiple of 3. %d is invalid", ErrDimension, len(P))
	}
	if err = checkIndices(o.Ifree, len(P)/3); err != nil {
		return
	}
	n := len(o.Ifree)
	Q = la.MatAlloc(n, n)
	for i, I := range o.Ifree {
		for j, J := range o.Ifree {
			Q[i][j] = P[I][J]
		}
	}
	return
}

// Gradient returns the gradient of the energy with respect to the free coordinates; i.e. -f
func (o *FixedCell) Gradient(s atm.System) (g []float64, err error) {
	f := flatten(s.Forces())
	if err = checkIndices(o.Ifree, len(f)/3); err != nil {
		return
	}
	g = make([]float64, len(o.Ifree))
	for k, I := range o.Ifree {
		g[k] = -f[I]
	}
	return
}

// Energy returns the potential energy of s
func (o *FixedCell) Energy(s atm.System) float64 {
	return s.Energy()
}
