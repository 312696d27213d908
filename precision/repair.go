// SPDX-License-Identifier: MIT
// Package: precision
//
// Support selection and bounded diagonal-loading repair.

package precision

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// Repair defaults.
const (
	// SupportTolerance is the magnitude at or below which an entry is a
	// structural zero.
	SupportTolerance = 1e-12

	// DefaultRepairStep is the diagonal increment per repair step.
	DefaultRepairStep = 1e-3

	// DefaultMaxRepairSteps bounds the repair loop.
	DefaultMaxRepairSteps = 10000
)

// SelectSupport returns {(i,j): |P_ij| > tol} as a symmetric pattern, and
// a copy of P with the entries outside it set to zero.
func SelectSupport(P *matrix.Dense, tol float64) (*core.Pattern, *matrix.Dense, error) {
	if err := matrix.ValidateSquare(P); err != nil {
		return nil, nil, fmt.Errorf("SelectSupport: %w", err)
	}
	sup, err := core.NewPatternFromMatrix(P, tol)
	if err != nil {
		return nil, nil, fmt.Errorf("SelectSupport: %w", err)
	}
	if err = sup.Validate(); err != nil {
		return nil, nil, fmt.Errorf("SelectSupport: %w: %w", ErrAsymmetric, err)
	}
	n := P.Rows()
	data := P.RawData()
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i != j && !sup.Has(i, j) {
				data[i*n+j] = 0
			}
		}
	}
	out, err := matrix.NewDenseData(n, n, data)
	if err != nil {
		return nil, nil, fmt.Errorf("SelectSupport: %w", err)
	}

	return sup, out, nil
}

// RepairResult reports a RepairPSD call.
type RepairResult struct {
	// P is the repaired matrix, P + Shift·I.
	P *matrix.Dense

	// Steps is the multiple k of step that was added.
	Steps int

	// Shift is Steps·step.
	Shift float64
}

// RepairPSD returns P + k·step·I for the smallest k in 0..maxSteps whose
// Cholesky factorization succeeds.
//
// Errors: ErrInvalidConfig (step <= 0 or maxSteps < 0), ErrRepairExhausted,
// matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Complexity: O(k·n³).
func RepairPSD(P *matrix.Dense, step float64, maxSteps int) (*RepairResult, error) {
	if !(step > 0) || math.IsInf(step, 0) || maxSteps < 0 {
		return nil, fmt.Errorf("RepairPSD: step=%v maxSteps=%d: %w", step, maxSteps, ErrInvalidConfig)
	}
	if err := matrix.ValidateSquare(P); err != nil {
		return nil, fmt.Errorf("RepairPSD: %w", err)
	}
	n := P.Rows()
	base := P.RawData()
	work := make([]float64, len(base))
	for k := 0; k <= maxSteps; k++ {
		shift := float64(k) * step
		copy(work, base)
		for i := 0; i < n; i++ {
			work[i*n+i] += shift
		}
		cand, err := matrix.NewDenseData(n, n, work)
		if err != nil {
			return nil, fmt.Errorf("RepairPSD: %w", err)
		}
		if matrix.IsPositiveDefinite(cand) {
			return &RepairResult{P: cand, Steps: k, Shift: shift}, nil
		}
	}

	return nil, fmt.Errorf("RepairPSD: no k <= %d with step %v: %w", maxSteps, step, ErrRepairExhausted)
}
