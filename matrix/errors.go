// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All algorithms MUST return these sentinels (optionally wrapped with an
// operation tag) and tests MUST check them via errors.Is.

package matrix

import "errors"

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Context is attached at the detection site with
// fmt.Errorf("ctx: %w", ErrX); callers still match with errors.Is.
//
// ERROR PRIORITY:
// nil -> shape/index -> NaN/Inf -> structural violations (symmetry, binary)
// -> numerical failure (definiteness, singularity).

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g. Sub with different shapes, or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the given tolerance.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within tolerance")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil Matrix (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNonBinaryGenotype indicates a haplotype matrix entry outside {0, 1}.
	ErrNonBinaryGenotype = errors.New("matrix: genotype matrix is not binary")

	// ErrNotPositiveDefinite is returned when a Cholesky factorization fails.
	ErrNotPositiveDefinite = errors.New("matrix: matrix is not positive definite")
)
