// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Bridge Dense to gonum's symmetric storage for factorizations.
//   - Cholesky-based definiteness test (the PSD repair check) and
//     symmetric positive-definite inversion (fit diagnostics, warm starts).
//
// Determinism:
//   - gonum's Cholesky is a fixed sequence of BLAS/LAPACK calls, so results
//     are reproducible for identical inputs on the same platform.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	opToSym    = "ToSym"
	opCholesky = "Cholesky"
	opInverse  = "InverseSPD"
)

// ToSym copies a square matrix into a gonum *mat.SymDense.
// Only the upper triangle is read; callers validate symmetry beforehand when
// the lower triangle matters.
//
// Errors: ErrNilMatrix, ErrNonSquare.
// Complexity: O(n²).
func ToSym(m Matrix) (*mat.SymDense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opToSym, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opToSym, err)
	}
	n := d.r
	s := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			s.SetSym(i, j, d.data[i*n+j])
		}
	}

	return s, nil
}

// FromSym copies a gonum symmetric matrix into a full (both triangles) Dense.
func FromSym(s mat.Symmetric) (*Dense, error) {
	n := s.SymmetricDim()
	res, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			v = s.At(i, j)
			res.data[i*n+j] = v
			res.data[j*n+i] = v
		}
	}

	return res, nil
}

// Cholesky factorizes a symmetric matrix A = UᵀU.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNotPositiveDefinite.
// Complexity: O(n³).
func Cholesky(m Matrix) (*mat.Cholesky, error) {
	s, err := ToSym(m)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(s); !ok {
		return nil, matrixErrorf(opCholesky, ErrNotPositiveDefinite)
	}

	return &chol, nil
}

// IsPositiveDefinite reports whether a Cholesky factorization of m succeeds.
// Shape errors are reported as false.
func IsPositiveDefinite(m Matrix) bool {
	_, err := Cholesky(m)

	return err == nil
}

// InverseSPD inverts a symmetric positive-definite matrix through its
// Cholesky factor and returns a full symmetric Dense.
//
// Errors: ErrNilMatrix, ErrNonSquare, ErrNotPositiveDefinite.
// Complexity: O(n³).
func InverseSPD(m Matrix) (*Dense, error) {
	chol, err := Cholesky(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var inv mat.SymDense
	if err = chol.InverseTo(&inv); err != nil {
		// gonum reports near-singular factors as a condition error.
		return nil, matrixErrorf(opInverse, fmt.Errorf("%v: %w", err, ErrNotPositiveDefinite))
	}

	return FromSym(&inv)
}
