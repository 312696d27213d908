// SPDX-License-Identifier: MIT
// Package: precision
//
// Sentinel errors. Validation errors are raised before any computation;
// numerical errors surface from the row solves and the repair loop.

package precision

import "errors"

var (
	// ErrNilPattern indicates a nil sparsity pattern.
	ErrNilPattern = errors.New("precision: nil pattern")

	// ErrDimensionMismatch indicates A, R or the warm start differ in size.
	ErrDimensionMismatch = errors.New("precision: dimension mismatch")

	// ErrAsymmetric indicates an asymmetric pattern, correlation or warm start.
	ErrAsymmetric = errors.New("precision: input is not symmetric")

	// ErrDegenerateRow indicates a row whose correlation diagonal is not positive.
	ErrDegenerateRow = errors.New("precision: non-positive correlation diagonal")

	// ErrNotPositiveDefinite indicates a warm start or row block that is not
	// positive definite.
	ErrNotPositiveDefinite = errors.New("precision: matrix is not positive definite")

	// ErrRepairExhausted indicates PSD repair ran out of diagonal-loading steps.
	ErrRepairExhausted = errors.New("precision: PSD repair exhausted")

	// ErrInvalidConfig indicates a workflow configuration outside its domain.
	ErrInvalidConfig = errors.New("precision: invalid workflow configuration")
)
