// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise subtraction and product, matrix multiplication and transpose.
// All functions perform strict fail-fast validation and return clear errors
// on dimension mismatches.

package matrix

import "fmt"

// zeroSum is the initial value for accumulations.
const zeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opHadamard  = "Hadamard"
	opMean      = "Mean"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// asDense returns a *Dense view of m: m itself when it already is one, a
// copy through At otherwise. Kernels then run a single flat-slice path.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	r, c := m.Rows(), m.Cols()
	res, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			res.data[i*c+j] = v
		}
	}

	return res, nil
}

// Sub computes the element-wise difference C = A - B into a fresh Dense.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = da.data[idx] - db.data[idx]
	}

	return res, nil
}

// Hadamard computes the elementwise product (a ⊙ b) into a fresh Dense.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: Time O(r*c), Space O(r*c).
func Hadamard(a, b Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opHadamard, err)
	}
	for idx := range res.data {
		res.data[idx] = da.data[idx] * db.data[idx]
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B.
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j loop over row-major strides, skipping zero A[i,k].
//
// Complexity: Time O(r*n*c), Space O(r*c). Sparse precision matrices make the
// zero-skip worthwhile.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var (
		i, k, j                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := dm.r, dm.c
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j int
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = dm.data[i*cols+j]
		}
	}

	return res, nil
}

// Mean returns the arithmetic mean of all entries.
func Mean(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opMean, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opMean, err)
	}
	sum := zeroSum
	for _, v := range dm.data {
		sum += v
	}

	return sum / float64(len(dm.data)), nil
}
