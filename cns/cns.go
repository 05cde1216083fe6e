// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package cns implements constraints translating between the degrees of freedom (dofs)
// seen by an unconstrained optimiser and the configuration of a particle system
//
//   optimiser         constraint                   particle system
//   ---------         ----------                   ---------------
//   x        <---     Dofs(s)          <---        X, F
//   x        --->     SetDofs(s, x)    --->        X, F
//   g        <---     Gradient(s)      <---        f, S
//   E        <---     Energy(s)        <---        E
//
// Two constraints are available:
//   FixedCell    -- a subset of atomic coordinates is free; the cell is never touched
//   VariableCell -- the cell deformation is also free and moves atoms affinely with
//                   respect to a reference configuration recorded at construction
package cns

import (
	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gosl/chk"
)

// Options holds the data required to build constraints
//  Note: atoms are numbered from 0 to natoms-1
type Options struct {
	Free      []int    // free atoms; others are clamped
	Clamp     []int    // clamped atoms; others are free
	Mask      [][]bool // [3][natoms] mask of free coordinates
	Variable  bool     // variable cell
	Pressure  float64  // applied hydrostatic pressure (variable cell only)
	FixVolume bool     // keep the volume of the cell fixed (variable cell only; not enforced yet)
}

// Constraint defines the operations available to optimisers. It is implemented by
// *FixedCell and *VariableCell only
type Constraint interface {
	Ndofs() int                                       // number of dofs
	Dofs(s atm.System) []float64                      // returns a new array with the dofs of s
	SetDofs(s atm.System, x []float64) error          // sets the configuration of s from dofs x
	Project(s atm.System)                             // projects s onto the constraint manifold
	ProjectPrecon(P [][]float64) ([][]float64, error) // restricts a preconditioner to the dofs
	Gradient(s atm.System) ([]float64, error)         // gradient of Energy with respect to the dofs
	Energy(s atm.System) float64                      // objective function
	sealed()
}

// New returns a new constraint for system s
//  opts -- options; nil => fixed cell with all atoms free
func New(s atm.System, opts *Options) (c Constraint, err error) {
	if opts == nil {
		opts = new(Options)
	}
	if opts.Variable {
		vc, e := NewVariableCell(s, opts)
		if e != nil {
			return nil, e
		}
		return vc, nil
	}
	if opts.Pressure != 0 || opts.FixVolume {
		return nil, chk.Err("%w: pressure and fixed volume require a variable cell", ErrConfiguration)
	}
	fc, err := NewFixedCell(s, opts)
	if err != nil {
		return nil, err
	}
	return fc, nil
}
