// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cns

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Resolve computes the indices of free coordinates in the flattened [3*natoms] positions array
//  The coordinate k of atom i has index 3*i+k. At most one of opts.Free, opts.Clamp or
//  opts.Mask can be given. If none is given, all coordinates are free.
//  Output: free indices in increasing order
func Resolve(natoms int, opts *Options) (ifree []int, err error) {

	// all free
	if opts == nil {
		return utl.IntRange(3 * natoms), nil
	}
	nspec := 0
	if opts.Free != nil {
		nspec++
	}
	if opts.Clamp != nil {
		nspec++
	}
	if opts.Mask != nil {
		nspec++
	}
	switch {
	case nspec > 1:
		return nil, chk.Err("%w: only one of free, clamp or mask can be given", ErrConfiguration)
	case nspec == 0:
		return utl.IntRange(3 * natoms), nil
	}

	// free atoms from clamped atoms
	free := opts.Free
	if opts.Clamp != nil {
		clamped := make([]bool, natoms)
		for _, a := range opts.Clamp {
			if a < 0 || a >= natoms {
				return nil, chk.Err("%w: clamped atom %d is out of range [0,%d)", ErrConfiguration, a, natoms)
			}
			clamped[a] = true
		}
		free = make([]int, 0, natoms)
		for a := 0; a < natoms; a++ {
			if !clamped[a] {
				free = append(free, a)
			}
		}
	}

	// mask from free atoms
	mask := opts.Mask
	if mask == nil {
		mask = [][]bool{make([]bool, natoms), make([]bool, natoms), make([]bool, natoms)}
		for _, a := range free {
			if a < 0 || a >= natoms {
				return nil, chk.Err("%w: free atom %d is out of range [0,%d)", ErrConfiguration, a, natoms)
			}
			mask[0][a], mask[1][a], mask[2][a] = true, true, true
		}
	}
	if len(mask) != 3 {
		return nil, chk.Err("%w: mask must have 3 rows. %d is invalid", ErrDimension, len(mask))
	}
	for k, row := range mask {
		if len(row) != natoms {
			return nil, chk.Err("%w: row %d of mask must have %d columns. %d is invalid", ErrDimension, k, natoms, len(row))
		}
	}

	// flatten
	ifree = make([]int, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		for k := 0; k < 3; k++ {
			if mask[k][i] {
				ifree = append(ifree, 3*i+k)
			}
		}
	}
	return
}
