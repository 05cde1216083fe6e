// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package atm implements the particle system seen by constraints and optimisers
//  The configuration of a periodic system is given by:
//    X -- positions of atoms [natoms][3]
//    F -- cell deformation: maps the reference unit cell onto the current cell [3][3]
//  and the responses computed by a Calculator:
//    E -- potential energy
//    f -- forces: f_i = -∂E/∂X_i [natoms][3]
//    S -- stress: S = ∂E/∂ε for homogeneous deformations X → (I+ε)X, F → (I+ε)F [3][3]
package atm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// System defines the capabilities of a particle system required by constraints
//  Note: all returned slices are copies; changing them does not modify the system
type System interface {
	Natoms() int                  // number of atoms
	Positions() [][]float64       // returns positions [natoms][3]
	SetPositions(X [][]float64)   // sets positions [natoms][3]
	Deformation() [][]float64     // returns cell deformation F [3][3]
	SetDeformation(F [][]float64) // sets cell deformation F [3][3]
	Forces() [][]float64          // returns forces [natoms][3]
	Stress() [][]float64          // returns stress [3][3]
	Energy() float64              // returns potential energy
}

// Calculator computes the responses of a configuration
type Calculator interface {
	Energy(a *Atoms) float64     // potential energy
	Forces(a *Atoms) [][]float64 // forces [natoms][3]
	Stress(a *Atoms) [][]float64 // stress [3][3]
}

// Atoms implements System with data held in memory
type Atoms struct {
	X    [][]float64 // positions [natoms][3]
	F    [][]float64 // cell deformation [3][3]
	Calc Calculator  // computes energy, forces and stress
}

// NewAtoms allocates a new set of atoms
//  X    -- positions [natoms][3]; will be copied
//  F    -- cell deformation [3][3]; will be copied. nil => identity
//  calc -- calculator; may be nil if responses are not required
func NewAtoms(X, F [][]float64, calc Calculator) (o *Atoms, err error) {
	for i, x := range X {
		if len(x) != 3 {
			return nil, chk.Err("position of atom %d must have 3 components. %d is invalid", i, len(x))
		}
	}
	if F == nil {
		F = [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	}
	if !is3x3(F) {
		return nil, chk.Err("cell deformation must be a 3x3 matrix")
	}
	o = new(Atoms)
	o.X = la.MatAlloc(len(X), 3)
	o.F = la.MatAlloc(3, 3)
	la.MatCopy(o.X, 1, X)
	la.MatCopy(o.F, 1, F)
	o.Calc = calc
	return
}

// Natoms returns the number of atoms
func (o *Atoms) Natoms() int {
	return len(o.X)
}

// Positions returns a copy of the positions
func (o *Atoms) Positions() [][]float64 {
	return clone(o.X)
}

// SetPositions copies X into the positions
func (o *Atoms) SetPositions(X [][]float64) {
	chk.IntAssert(len(X), len(o.X))
	la.MatCopy(o.X, 1, X)
}

// Deformation returns a copy of the cell deformation
func (o *Atoms) Deformation() [][]float64 {
	return clone(o.F)
}

// SetDeformation copies F into the cell deformation
func (o *Atoms) SetDeformation(F [][]float64) {
	if !is3x3(F) {
		chk.Panic("cell deformation must be a 3x3 matrix")
	}
	la.MatCopy(o.F, 1, F)
}

// Forces returns the forces computed by the calculator
func (o *Atoms) Forces() [][]float64 {
	return clone(o.calc().Forces(o))
}

// Stress returns the stress computed by the calculator
func (o *Atoms) Stress() [][]float64 {
	return clone(o.calc().Stress(o))
}

// Energy returns the potential energy computed by the calculator
func (o *Atoms) Energy() float64 {
	return o.calc().Energy(o)
}

// Volume returns the volume of the cell relative to the reference unit cell; i.e. det(F)
func (o *Atoms) Volume() float64 {
	return Det(o.F)
}

func (o *Atoms) calc() Calculator {
	if o.Calc == nil {
		chk.Panic("atoms do not have a calculator attached")
	}
	return o.Calc
}

// Det computes the determinant of a 3x3 matrix. Singular matrices are accepted
func Det(a [][]float64) (det float64) {
	ai := la.MatAlloc(3, 3)
	det, _ = la.MatInvSmall(ai, a, -1)
	return
}

// clone returns a freshly allocated copy of a
func clone(a [][]float64) (b [][]float64) {
	if len(a) == 0 {
		return [][]float64{}
	}
	b = la.MatAlloc(len(a), len(a[0]))
	la.MatCopy(b, 1, a)
	return
}

func is3x3(a [][]float64) bool {
	if len(a) != 3 {
		return false
	}
	for _, row := range a {
		if len(row) != 3 {
			return false
		}
	}
	return true
}
