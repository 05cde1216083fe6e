// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cns

import (
	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// VariableCell implements a constraint where the cell deformation F is also free
//
//  With the reference configuration (X0, F0) recorded at construction:
//
//    A   = F・F0⁻¹
//    X_i = A・X0_i + U_i      (U_i = 0 for clamped coordinates)
//    x   = {U_I for I in Ifree, F_00, F_01, ..., F_22}
//
//  The objective is the enthalpy-like E - p・det(F). Its gradient follows from the variation
//
//    X_i(t) = (F + t G)・F0⁻¹・X0_i + U_i + t V_i
//    dE/dt  = G : (S・F0⁻ᵀ) - f・V
//
//  where S is the stress and f are the forces; d(det F)/dF = det(F)・F⁻ᵀ
//
//  Note: FixVolume is recorded but not enforced
type VariableCell struct {
	Ifree []int // free indices in flattened positions array. read-only

	// reference configuration and options; fixed at construction
	x0        [][]float64 // reference positions [natoms][3]
	f0        [][]float64 // reference cell deformation [3][3]
	f0inv     [][]float64 // F0⁻¹
	f0invT    [][]float64 // F0⁻ᵀ
	pressure  float64     // applied pressure; zero if fixVolume
	fixVolume bool        // keep the volume fixed
	vol0      float64     // reference volume det(F0); meaningful if fixVolume
	warnings  []Warning   // non-fatal messages issued during construction
}

// NewVariableCell returns a new variable-cell constraint. The current configuration of s
// becomes the reference configuration
func NewVariableCell(s atm.System, opts *Options) (o *VariableCell, err error) {
	if opts == nil {
		opts = new(Options)
	}
	ifree, err := Resolve(s.Natoms(), opts)
	if err != nil {
		return
	}
	F0 := s.Deformation()
	F0inv, det, err := inv3(F0)
	if err != nil {
		return nil, chk.Err("reference cell deformation cannot be inverted: %w", err)
	}
	o = &VariableCell{
		Ifree:     ifree,
		x0:        s.Positions(),
		f0:        F0,
		f0inv:     F0inv,
		f0invT:    transpose3(F0inv),
		pressure:  opts.Pressure,
		fixVolume: opts.FixVolume,
	}
	if o.fixVolume {
		o.vol0 = det
		if o.pressure != 0 {
			warn(&o.warnings, ConflictingOption, "pressure (%g) is ignored because the volume is fixed", o.pressure)
			o.pressure = 0
		}
	}
	return
}

func (o *VariableCell) sealed() {}

// Reference returns copies of the reference positions and cell deformation
func (o *VariableCell) Reference() (X0, F0 [][]float64) {
	X0 = la.MatAlloc(len(o.x0), 3)
	F0 = la.MatAlloc(3, 3)
	la.MatCopy(X0, 1, o.x0)
	la.MatCopy(F0, 1, o.f0)
	return
}

// Pressure returns the effective pressure; zero if the volume is fixed
func (o *VariableCell) Pressure() float64 { return o.pressure }

// FixVolume returns whether the volume should be kept fixed
func (o *VariableCell) FixVolume() bool { return o.fixVolume }

// Vol0 returns det(F0) if the volume is fixed; zero otherwise
func (o *VariableCell) Vol0() float64 { return o.vol0 }

// Warnings returns the non-fatal messages issued during construction
func (o *VariableCell) Warnings() []Warning {
	return append([]Warning(nil), o.warnings...)
}

// Ndofs returns the number of dofs
func (o *VariableCell) Ndofs() int {
	return len(o.Ifree) + 9
}

// Dofs returns a new array with the free displacements relative to the affinely deformed
// reference positions followed by the cell deformation
func (o *VariableCell) Dofs(s atm.System) (x []float64) {
	X := s.Positions()
	if len(X) != len(o.x0) {
		chk.Panic("variable cell was built for %d atoms; system has %d", len(o.x0), len(X))
	}
	F := s.Deformation()
	A := mul3(F, o.f0inv)
	x = make([]float64, o.Ndofs())
	u := make([]float64, 3)
	for k, I := range o.Ifree {
		i, j := I/3, I%3
		la.MatVecMul(u, 1, A, o.x0[i]) // u := A・X0_i
		x[k] = X[i][j] - u[j]
	}
	o.putCell(x, F)
	return
}

// SetDofs sets positions and cell deformation of s
func (o *VariableCell) SetDofs(s atm.System, x []float64) (err error) {
	if len(x) != o.Ndofs() {
		return chk.Err("%w: variable cell requires %d dofs. %d is invalid", ErrDimension, o.Ndofs(), len(x))
	}
	if s.Natoms() != len(o.x0) {
		return chk.Err("%w: variable cell was built for %d atoms; system has %d", ErrDimension, len(o.x0), s.Natoms())
	}
	n := len(o.Ifree)
	F := la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		copy(F[i], x[n+3*i:n+3*i+3])
	}
	if _, _, err = inv3(F); err != nil {
		return
	}
	A := mul3(F, o.f0inv)
	X := la.MatAlloc(len(o.x0), 3)
	for i, x0 := range o.x0 {
		la.MatVecMul(X[i], 1, A, x0) // X_i := A・X0_i
	}
	for k, I := range o.Ifree {
		X[I/3][I%3] += x[k]
	}
	s.SetPositions(X)
	s.SetDeformation(F)
	return
}

// Project does nothing. Fixed volume is not enforced yet
func (o *VariableCell) Project(s atm.System) {}

// ProjectPrecon is not available for variable cells
func (o *VariableCell) ProjectPrecon(P [][]float64) ([][]float64, error) {
	return nil, chk.Err("%w: preconditioner projection for variable cell", ErrNotImplemented)
}

// Gradient returns the gradient of E - p・det(F) with respect to the dofs
//  g = {-f_I for I in Ifree, S・F0⁻ᵀ - p・det(F)・F⁻ᵀ}
func (o *VariableCell) Gradient(s atm.System) (g []float64, err error) {
	F := s.Deformation()
	Finv, det, err := inv3(F)
	if err != nil {
		return
	}
	f := flatten(s.Forces())
	if len(f) != 3*len(o.x0) {
		return nil, chk.Err("%w: variable cell was built for %d atoms; forces given for %d", ErrDimension, len(o.x0), len(f)/3)
	}
	g = make([]float64, o.Ndofs())
	for k, I := range o.Ifree {
		g[k] = -f[I]
	}
	G := mul3(s.Stress(), o.f0invT) // G := S・F0⁻ᵀ
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			G[i][j] -= o.pressure * det * Finv[j][i]
		}
	}
	o.putCell(g, G)
	return
}

// Energy returns E - p・det(F)
func (o *VariableCell) Energy(s atm.System) float64 {
	return s.Energy() - o.pressure*o.Volume(s)
}

// Volume returns the volume of the cell relative to the reference unit cell; i.e. det(F)
func (o *VariableCell) Volume(s atm.System) float64 {
	return atm.Det(s.Deformation())
}

// putCell stores the 3x3 matrix M into the last 9 entries of v (row-major)
func (o *VariableCell) putCell(v []float64, M [][]float64) {
	n := len(o.Ifree)
	for i := 0; i < 3; i++ {
		copy(v[n+3*i:n+3*i+3], M[i])
	}
}
