// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cns

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// error kinds. Use errors.Is to classify errors returned by this package
var (
	ErrConfiguration  = errors.New("invalid constraint configuration")
	ErrDimension      = errors.New("dimension mismatch")
	ErrSingularCell   = errors.New("singular cell deformation")
	ErrNotImplemented = errors.New("not implemented")
)

// WarningKind classifies non-fatal conditions found when building constraints
type WarningKind int

const (
	// ConflictingOption indicates options that are valid together but one of them is ignored
	ConflictingOption WarningKind = iota
)

// String returns the name of the warning kind
func (o WarningKind) String() string {
	switch o {
	case ConflictingOption:
		return "conflicting option"
	}
	return io.Sf("WarningKind(%d)", int(o))
}

// Warning holds a non-fatal message issued during construction
type Warning struct {
	Kind WarningKind // classification
	Msg  string      // message
}

// String returns the message with its kind
func (o Warning) String() string {
	return io.Sf("%v: %s", o.Kind, o.Msg)
}

// warn records and prints (if verbose) a warning
func warn(list *[]Warning, kind WarningKind, msg string, prm ...interface{}) {
	w := Warning{Kind: kind, Msg: io.Sf(msg, prm...)}
	*list = append(*list, w)
	if io.Verbose {
		io.PfYel("warning: %v\n", w)
	}
}
