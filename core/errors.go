// SPDX-License-Identifier: MIT
// Package: core
//
// Sentinel errors for graph and pattern construction. Call sites wrap them
// with the failing operation and indices; callers branch with errors.Is.

package core

import "errors"

var (
	// ErrInvalidSize indicates a negative node count.
	ErrInvalidSize = errors.New("core: invalid node count")

	// ErrNodeOutOfRange indicates an index outside [0, n).
	ErrNodeOutOfRange = errors.New("core: node index out of range")

	// ErrBadWeight indicates a NaN, infinite or negative edge weight.
	ErrBadWeight = errors.New("core: bad edge weight")

	// ErrBadThreshold indicates a negative or non-finite path threshold.
	ErrBadThreshold = errors.New("core: bad threshold")

	// ErrAsymmetric indicates a pattern where (i,j) is present without (j,i).
	ErrAsymmetric = errors.New("core: pattern is not symmetric")

	// ErrDuplicateEntry indicates the same neighbor listed twice in one row.
	ErrDuplicateEntry = errors.New("core: duplicate neighbor entry")

	// ErrMaskLength indicates a keep-mask whose length differs from n.
	ErrMaskLength = errors.New("core: mask length mismatch")
)
