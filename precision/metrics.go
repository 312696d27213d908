// SPDX-License-Identifier: MIT
// Package: precision
//
// Fit-quality metrics between R and a fitted P.

package precision

import (
	"fmt"

	"github.com/katalvlaran/ldgm/matrix"
)

// Metrics holds the reconstruction errors of a fit.
type Metrics struct {
	// MSE is mean((R - P⁻¹)²).
	MSE float64

	// TraceMSE is mean((I - R·P) ⊙ (I - R·P)ᵀ).
	TraceMSE float64
}

// Evaluate computes MSE and TraceMSE for R and a positive-definite P.
//
// Errors: ErrDimensionMismatch, ErrNotPositiveDefinite, matrix errors.
// Complexity: O(n³).
func Evaluate(R, P matrix.Matrix) (Metrics, error) {
	if err := matrix.ValidateSquare(R); err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: R: %w", err)
	}
	if err := matrix.ValidateSquare(P); err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: P: %w", err)
	}
	if R.Rows() != P.Rows() {
		return Metrics{}, fmt.Errorf("Evaluate: R %d, P %d: %w", R.Rows(), P.Rows(), ErrDimensionMismatch)
	}

	inv, err := matrix.InverseSPD(P)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w: %w", ErrNotPositiveDefinite, err)
	}
	diff, err := matrix.Sub(R, inv)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	sq, err := matrix.Hadamard(diff, diff)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	mse, err := matrix.Mean(sq)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}

	rp, err := matrix.Mul(R, P)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	eye, err := matrix.NewIdentity(R.Rows())
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	resid, err := matrix.Sub(eye, rp)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	residT, err := matrix.Transpose(resid)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	prod, err := matrix.Hadamard(resid, residT)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}
	tmse, err := matrix.Mean(prod)
	if err != nil {
		return Metrics{}, fmt.Errorf("Evaluate: %w", err)
	}

	return Metrics{MSE: mse, TraceMSE: tmse}, nil
}
