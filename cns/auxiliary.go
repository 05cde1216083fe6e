// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cns

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// MinDet is the smallest determinant of an invertible cell deformation F relative to the
// cube of its largest component; i.e. F is singular if |det(F)| < MinDet・max|F_ij|³
const MinDet = 1e-14

// inv3 computes the inverse of a 3x3 matrix and its determinant
func inv3(a [][]float64) (ai [][]float64, det float64, err error) {
	scale := la.MatLargest(a, 1)
	if scale == 0 {
		return nil, 0, chk.Err("%w: null matrix", ErrSingularCell)
	}
	ai = la.MatAlloc(3, 3)
	det, err = la.MatInvSmall(ai, a, MinDet*scale*scale*scale)
	if err != nil {
		return nil, det, chk.Err("%w: %v", ErrSingularCell, err)
	}
	if math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, det, chk.Err("%w: det = %g", ErrSingularCell, det)
	}
	return
}

// mul3 computes c := a・b for 3x3 matrices
func mul3(a, b [][]float64) (c [][]float64) {
	c = la.MatAlloc(3, 3)
	la.MatMul(c, 1, a, b)
	return
}

// transpose3 returns aᵀ
func transpose3(a [][]float64) (at [][]float64) {
	at = la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			at[i][j] = a[j][i]
		}
	}
	return
}

// flatten returns the [n*3] array {x00, x01, x02, x10, ...} of a [n][3] matrix
func flatten(X [][]float64) (x []float64) {
	x = make([]float64, 3*len(X))
	for i, row := range X {
		if len(row) != 3 {
			chk.Panic("row %d must have 3 components. %d is invalid", i, len(row))
		}
		copy(x[3*i:], row)
	}
	return
}

// unflatten returns the [n][3] matrix corresponding to a [n*3] array
func unflatten(x []float64) (X [][]float64) {
	X = la.MatAlloc(len(x)/3, 3)
	for i := range X {
		copy(X[i], x[3*i:3*i+3])
	}
	return
}

// checkIndices checks that all free indices address a system with natoms atoms
func checkIndices(ifree []int, natoms int) error {
	if n := len(ifree); n > 0 && ifree[n-1] >= 3*natoms {
		return chk.Err("%w: free index %d requires more than %d atoms", ErrDimension, ifree[n-1], natoms)
	}
	return nil
}
