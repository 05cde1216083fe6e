// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data for relaxations read from JSON (.sim, .json) or
// YAML (.yaml, .yml) files
package inp

import (
	"encoding/json"
	goio "io"
	"path/filepath"
	"strings"

	"github.com/cpmech/gorelax/cns"
	"github.com/cpmech/gorelax/relax"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// CnsData holds data for constraints. At most one of Free, Clamp or Mask can be given
//  Note: atoms are numbered from 0
type CnsData struct {
	Free     []int    `json:"free" yaml:"free"`         // free atoms
	Clamp    []int    `json:"clamp" yaml:"clamp"`       // clamped atoms
	Mask     [][]bool `json:"mask" yaml:"mask"`         // [3][natoms] mask of free coordinates
	Variable bool     `json:"variable" yaml:"variable"` // variable cell
	Pressure float64  `json:"pressure" yaml:"pressure"` // applied pressure (variable cell only)
	FixVol   bool     `json:"fixvol" yaml:"fixvol"`     // fixed volume (variable cell only; not enforced)
}

// RelaxData holds data for the optimiser
type RelaxData struct {
	MaxIt   int     `json:"maxit" yaml:"maxit"`     // max number of iterations
	MaxEval int     `json:"maxeval" yaml:"maxeval"` // max number of evaluations; 0 => unlimited
	M       int     `json:"m" yaml:"m"`             // number of L-BFGS corrections
	Gtol    float64 `json:"gtol" yaml:"gtol"`       // tolerance on gradient
	Ftol    float64 `json:"ftol" yaml:"ftol"`       // tolerance on energy reduction (multiple of machine epsilon)
	Verbose bool    `json:"verbose" yaml:"verbose"` // show optimiser messages
}

// Simulation holds all data for a relaxation
type Simulation struct {
	Desc  string    `json:"desc" yaml:"desc"`   // description of simulation
	Cns   CnsData   `json:"cns" yaml:"cns"`     // constraint
	Relax RelaxData `json:"relax" yaml:"relax"` // optimiser

	// derived
	Key string `json:"-" yaml:"-"` // simulation key; e.g. mysim01.sim => mysim01
}

// SetDefault sets default values
func (o *RelaxData) SetDefault() {
	var prms relax.Params
	prms.SetDefault()
	o.MaxIt = prms.MaxIt
	o.MaxEval = prms.MaxEval
	o.M = prms.M
	o.Gtol = prms.Gtol
	o.Ftol = prms.Ftol
}

// Options returns the options to build constraints
func (o *CnsData) Options() *cns.Options {
	return &cns.Options{
		Free:      o.Free,
		Clamp:     o.Clamp,
		Mask:      o.Mask,
		Variable:  o.Variable,
		Pressure:  o.Pressure,
		FixVolume: o.FixVol,
	}
}

// Params returns the parameters for relaxations
func (o *RelaxData) Params() *relax.Params {
	return &relax.Params{
		MaxIt:   o.MaxIt,
		MaxEval: o.MaxEval,
		M:       o.M,
		Gtol:    o.Gtol,
		Ftol:    o.Ftol,
		Verbose: o.Verbose,
	}
}

// ReadSim reads a simulation file. The decoder is selected by the extension:
//  .yaml or .yml => YAML; otherwise JSON
func ReadSim(simfilepath string) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// set default values
	o = new(Simulation)
	o.Relax.SetDefault()

	// decode
	ext := strings.ToLower(io.FnExt(simfilepath))
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(b, o)
	} else {
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}
	o.Key = io.FnKey(filepath.Base(simfilepath))

	// check
	if err = o.Cns.check(); err != nil {
		return nil, chk.Err("ReadSim: invalid constraint in %q: %w", simfilepath, err)
	}
	if o.Relax.MaxIt < 1 || o.Relax.M < 1 {
		return nil, chk.Err("ReadSim: maxit and m must be positive in %q. maxit=%d, m=%d is invalid", simfilepath, o.Relax.MaxIt, o.Relax.M)
	}
	return
}

// GetInfo prints information about the simulation
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// check validates the constraint data that do not depend on the number of atoms
func (o *CnsData) check() error {
	nspec := 0
	for _, given := range []bool{o.Free != nil, o.Clamp != nil, o.Mask != nil} {
		if given {
			nspec++
		}
	}
	if nspec > 1 {
		return chk.Err("%w: only one of free, clamp or mask can be given", cns.ErrConfiguration)
	}
	if !o.Variable && (o.Pressure != 0 || o.FixVol) {
		return chk.Err("%w: pressure and fixvol require a variable cell", cns.ErrConfiguration)
	}
	return nil
}
