// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Genotype statistics over haplotype matrices X (rows = haplotypes,
//     columns = variants): per-column allele frequencies and Pearson
//     correlation, the empirical LD matrix R.
//
// Exposed API:
//   - AlleleFrequencies(X) -> af                  // column means of a 0/1 matrix
//   - Correlation(X)       -> (Corr, means, stds) // Pearson corr via z-scoring; std=0 → zeroed column
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Flat row-major buffers; no At/Set in hot loops.

package matrix

import "math"

// Operation name constants for unified error wrapping.
const (
	opCenterColumns = "CenterColumns"
	opAlleleFreq    = "AlleleFrequencies"
	opCorrelation   = "Correlation"
)

// centerColumns subtracts the per-column mean from every element.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func centerColumns(X Matrix) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	d, err := asDense(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	r, c := d.r, d.c
	means := make([]float64, c)

	var i, j, base int
	for i = 0; i < r; i++ { // deterministic row order
		base = i * c
		for j = 0; j < c; j++ {
			means[j] += d.data[base+j]
		}
	}
	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	Xc, err := NewDense(r, c)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			Xc.data[base+j] = d.data[base+j] - means[j]
		}
	}

	return Xc, means, nil
}

// AlleleFrequencies returns the alternate-allele frequency of every column of
// a haplotype matrix: the column mean of a 0/1 matrix.
//
// Errors:
//   - ErrNilMatrix, ErrNonBinaryGenotype (entries outside {0,1}).
//
// Complexity: O(r*c).
func AlleleFrequencies(X Matrix) ([]float64, error) {
	if err := ValidateBinary(X); err != nil {
		return nil, matrixErrorf(opAlleleFreq, err)
	}
	_, means, err := centerColumns(X)
	if err != nil {
		return nil, matrixErrorf(opAlleleFreq, err)
	}

	return means, nil
}

// Correlation computes the Pearson correlation of columns via z-scoring:
// Corr = (Zᵀ Z)/(r-1), where Z = (X − mean) * diag(1/std).
//
// Implementation:
//   - Stage 1: Validate X, require r>=2; center columns (means).
//   - Stage 2: Compute sample stds per column; 0 for degenerate columns.
//   - Stage 3: Accumulate the upper triangle of Zᵀ Z and mirror it, so the
//     result is exactly symmetric.
//
// Behavior highlights:
//   - Diagonal is 1 for non-degenerate columns, 0 for monomorphic ones.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (r<2).
//
// Complexity:
//   - Time O(r*c²), Space O(c²).
func Correlation(X Matrix) (*Dense, []float64, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	r, c := X.Rows(), X.Cols()
	// Sample correlation requires at least two observations.
	if r < 2 {
		return nil, nil, nil, matrixErrorf(opCorrelation, ErrDimensionMismatch)
	}

	Xc, means, err := centerColumns(X)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}

	// std[j] = sqrt( Σ_i Xc[i,j]^2 / (r-1) ).
	stds := make([]float64, c)
	inv := 1.0 / float64(r-1)
	var i, j, k, base int
	var v float64
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			v = Xc.data[base+j]
			stds[j] += v * v
		}
	}
	invStd := make([]float64, c)
	for j = 0; j < c; j++ {
		stds[j] = math.Sqrt(stds[j] * inv)
		if stds[j] > 0 {
			invStd[j] = 1.0 / stds[j]
		}
	}

	// Z-score in place.
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			Xc.data[base+j] *= invStd[j]
		}
	}

	corr, err := NewDense(c, c)
	if err != nil {
		return nil, nil, nil, matrixErrorf(opCorrelation, err)
	}
	for i = 0; i < r; i++ {
		base = i * c
		for j = 0; j < c; j++ {
			v = Xc.data[base+j]
			if v == 0 {
				continue
			}
			for k = j; k < c; k++ {
				corr.data[j*c+k] += v * Xc.data[base+k]
			}
		}
	}
	for j = 0; j < c; j++ {
		for k = j; k < c; k++ {
			v = corr.data[j*c+k] * inv
			corr.data[j*c+k] = v
			corr.data[k*c+j] = v
		}
	}

	return corr, means, stds, nil
}

// MinorAlleleFrequency folds an allele frequency onto [0, 0.5]: min(af, 1-af).
// The result is symmetric under reference/alternate recoding.
func MinorAlleleFrequency(af float64) float64 {
	return math.Min(af, 1-af)
}
