// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package relax implements geometry and cell relaxations of particle systems by driving
// an L-BFGS optimiser over the dofs of a constraint
package relax

import (
	goio "io"
	"os"

	"github.com/cpmech/gorelax/atm"
	"github.com/cpmech/gorelax/cns"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/curioloop/optimizer/lbfgsb"
)

// Params holds parameters for relaxations
type Params struct {
	MaxIt   int     // max number of iterations
	MaxEval int     // max number of energy/gradient evaluations; 0 => unlimited
	M       int     // number of corrections kept by L-BFGS
	Gtol    float64 // tolerance on max component of gradient
	Ftol    float64 // tolerance on relative reduction of energy, as multiple of machine epsilon
	Verbose bool    // show optimiser messages
}

// SetDefault sets default values
func (o *Params) SetDefault() {
	o.MaxIt = 1000
	o.MaxEval = 0
	o.M = 10
	o.Gtol = 1e-6
	o.Ftol = 1e7
}

// Result holds the outcome of a relaxation
type Result struct {
	Converged bool    // optimiser has converged
	Energy    float64 // final value of objective
	Nit       int     // number of iterations
	Neval     int     // number of energy/gradient evaluations
}

// Run relaxes s by minimising c.Energy over the dofs of c. The final configuration is set in s
//  prms -- parameters; nil => default values
//  Note: the first failure of c aborts the relaxation; s is then restored to its initial
//        configuration and the failure is returned
func Run(s atm.System, c cns.Constraint, prms *Params) (res *Result, err error) {

	// parameters
	if prms == nil {
		prms = new(Params)
		prms.SetDefault()
	}
	x0 := c.Dofs(s)
	if len(x0) == 0 {
		return &Result{Converged: true, Energy: c.Energy(s)}, nil
	}

	// evaluation: the first failure is recorded and zero gradients stop the optimiser
	var failure error
	eval := func(x, g []float64) (f float64) {
		if failure != nil {
			clear(g)
			return
		}
		if failure = c.SetDofs(s, x); failure != nil {
			clear(g)
			return
		}
		grad, e := c.Gradient(s)
		if e != nil {
			failure = e
			clear(g)
			return
		}
		copy(g, grad)
		return c.Energy(s)
	}

	// optimiser
	logger := &lbfgsb.Logger{Level: lbfgsb.LogNoop, Msg: goio.Discard, Out: goio.Discard}
	if prms.Verbose {
		logger = &lbfgsb.Logger{Level: lbfgsb.LogLast, Msg: os.Stdout, Out: os.Stdout}
	}
	problem := lbfgsb.Problem{
		N:    len(x0),
		M:    prms.M,
		Eval: eval,
		Stop: lbfgsb.Termination{
			MaxIterations:     prms.MaxIt,
			MaxEvaluations:    prms.MaxEval,
			EpsAccuracyFactor: prms.Ftol,
			ProjGradTolerance: prms.Gtol,
		},
	}
	optimizer, err := problem.New(logger)
	if err != nil {
		return nil, chk.Err("cannot allocate optimiser: %v", err)
	}
	r := optimizer.Fit(x0, optimizer.Init())
	if failure != nil {
		if err = c.SetDofs(s, x0); err != nil {
			return nil, chk.Err("cannot restore initial configuration after failure (%v): %w", failure, err)
		}
		return nil, chk.Err("relaxation failed after %d evaluations: %w", r.NumEval, failure)
	}

	// results
	if err = c.SetDofs(s, r.X); err != nil {
		return
	}
	res = &Result{
		Converged: r.OK,
		Energy:    r.F,
		Nit:       r.NumIter,
		Neval:     r.NumEval,
	}
	if prms.Verbose {
		io.Pf("relax: converged=%v E=%g nit=%d neval=%d\n", res.Converged, res.Energy, res.Nit, res.Neval)
	}
	return
}
