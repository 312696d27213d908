// SPDX-License-Identifier: MIT
// Package: precision
//
// Purpose:
//   - CoordinateDescent: validation, component decomposition, concurrent
//     per-component fitting, and reassembly of the full P.
//
// Concurrency:
//   - Components are independent; each goroutine owns its fitter and writes
//     one result slot. Reassembly happens after Wait in component order.

package precision

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// SymmetryTolerance is the largest |R_ij - R_ji| accepted for R and warm starts.
const SymmetryTolerance = 1e-10

// Estimate is the output of CoordinateDescent.
type Estimate struct {
	// P is the fitted precision matrix; zero outside the pattern.
	P *matrix.Dense

	// Components is the number of independently fitted blocks.
	Components int

	// Iterations is the number of outer sweeps performed.
	Iterations int

	// Objective is -log det P + tr(R P) + λ Σ_{i≠j}|P_ij|.
	Objective float64
}

// Support returns the off-diagonal support {(i,j): |P_ij| > tol}.
func (e *Estimate) Support(tol float64) (*core.Pattern, error) {
	return core.NewPatternFromMatrix(e.P, tol)
}

// CoordinateDescent fits P on pattern A for correlation R.
//
// Implementation:
//   - Stage 1: Validate A (symmetric), R (square, symmetric, positive
//     diagonal, same size) and the warm start.
//   - Stage 2: Split A into connected components.
//   - Stage 3: Fit components on up to WithWorkers goroutines, each running
//     WithIterations ascending-row sweeps.
//   - Stage 4: Scatter component blocks into P.
//
// Errors:
//   - ErrNilPattern, ErrDimensionMismatch, ErrAsymmetric, ErrDegenerateRow,
//     ErrNotPositiveDefinite, matrix.ErrNilMatrix, context errors.
//
// Complexity: O(iterations · Σ_c m_c (m_c + d³)) for component sizes m_c and
// maximum degree d; memory O(Σ_c m_c²).
func CoordinateDescent(ctx context.Context, A *core.Pattern, R matrix.Matrix, opts ...Option) (*Estimate, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rd, err := validateInputs(A, R)
	if err != nil {
		return nil, err
	}
	n := A.N()

	var warm []float64
	if o.warmStart != nil {
		if warm, err = projectWarmStart(A, o.warmStart); err != nil {
			return nil, err
		}
	}

	comps := A.Components()
	blocks := make([][]float64, len(comps))
	objs := make([]float64, len(comps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for c, comp := range comps {
		c, comp := c, comp
		g.Go(func() error {
			f, ferr := buildFitter(A, rd, warm, n, comp, o)
			if ferr != nil {
				return ferr
			}
			for it := 0; it < o.iterations; it++ {
				if cerr := gctx.Err(); cerr != nil {
					return cerr
				}
				if ferr = f.sweep(); ferr != nil {
					return fmt.Errorf("component at %d: %w", comp[0], ferr)
				}
			}
			blocks[c] = f.p
			objs[c] = f.objective()

			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: %w", err)
	}

	pdata := make([]float64, n*n)
	obj := 0.0
	for c, comp := range comps {
		m := len(comp)
		for a, ga := range comp {
			for b, gb := range comp {
				pdata[ga*n+gb] = blocks[c][a*m+b]
			}
		}
		obj += objs[c]
	}
	P, err := matrix.NewDenseData(n, n, pdata)
	if err != nil {
		return nil, fmt.Errorf("CoordinateDescent: %w", err)
	}

	return &Estimate{P: P, Components: len(comps), Iterations: o.iterations, Objective: obj}, nil
}

// validateInputs checks A and R and returns R as a row-major buffer.
func validateInputs(A *core.Pattern, R matrix.Matrix) ([]float64, error) {
	if A == nil {
		return nil, ErrNilPattern
	}
	if err := A.Validate(); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: pattern: %w: %w", ErrAsymmetric, err)
	}
	if err := matrix.ValidateSquare(R); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: R: %w", err)
	}
	n := A.N()
	if R.Rows() != n {
		return nil, fmt.Errorf("CoordinateDescent: pattern %d, R %d×%d: %w", n, R.Rows(), R.Cols(), ErrDimensionMismatch)
	}
	if err := matrix.ValidateSymmetric(R, SymmetryTolerance); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: R: %w: %w", ErrAsymmetric, err)
	}
	rd, err := rawData(R)
	if err != nil {
		return nil, fmt.Errorf("CoordinateDescent: R: %w", err)
	}
	for i := 0; i < n; i++ {
		if d := rd[i*n+i]; !(d > 0) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("CoordinateDescent: R[%d][%d]=%v: %w", i, i, d, ErrDegenerateRow)
		}
	}

	return rd, nil
}

// projectWarmStart validates the warm start and zeroes entries outside A.
// Positive definiteness is checked per component in buildFitter.
func projectWarmStart(A *core.Pattern, P matrix.Matrix) ([]float64, error) {
	n := A.N()
	if err := matrix.ValidateSquare(P); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: warm start: %w", err)
	}
	if P.Rows() != n {
		return nil, fmt.Errorf("CoordinateDescent: warm start %d×%d for %d nodes: %w", P.Rows(), P.Cols(), n, ErrDimensionMismatch)
	}
	if err := matrix.ValidateSymmetric(P, SymmetryTolerance); err != nil {
		return nil, fmt.Errorf("CoordinateDescent: warm start: %w: %w", ErrAsymmetric, err)
	}
	pd, err := rawData(P)
	if err != nil {
		return nil, fmt.Errorf("CoordinateDescent: warm start: %w", err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if !A.Has(i, j) {
				pd[i*n+j] = 0
			}
		}
	}

	return pd, nil
}

// buildFitter extracts one component's local pattern, R block and initial state.
func buildFitter(A *core.Pattern, rd, warm []float64, n int, comp []int, o options) (*fitter, error) {
	m := len(comp)
	local, err := A.Principal(comp)
	if err != nil {
		return nil, err
	}
	nbr := make([][]int, m)
	for a := 0; a < m; a++ {
		nbr[a] = local.Neighbors(a)
	}
	r := gather(rd, n, comp)
	if warm == nil {
		return newFitter(nbr, r, nil, nil, o), nil
	}

	p0 := gather(warm, n, comp)
	P0, err := matrix.NewDenseData(m, m, p0)
	if err != nil {
		return nil, err
	}
	W0, err := matrix.InverseSPD(P0)
	if err != nil {
		return nil, fmt.Errorf("warm start block at %d: %w: %w", comp[0], ErrNotPositiveDefinite, err)
	}

	return newFitter(nbr, r, p0, W0.RawData(), o), nil
}

// gather copies the principal block on idx out of an n×n row-major buffer.
func gather(data []float64, n int, idx []int) []float64 {
	m := len(idx)
	out := make([]float64, m*m)
	for a, ga := range idx {
		for b, gb := range idx {
			out[a*m+b] = data[ga*n+gb]
		}
	}

	return out
}

// rawData returns a row-major copy of any Matrix.
func rawData(M matrix.Matrix) ([]float64, error) {
	if d, ok := M.(*matrix.Dense); ok {
		return d.RawData(), nil
	}
	r, c := M.Rows(), M.Cols()
	out := make([]float64, r*c)
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			v, err := M.At(i, j)
			if err != nil {
				return nil, err
			}
			out[i*c+j] = v
		}
	}

	return out, nil
}
