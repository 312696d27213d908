// SPDX-License-Identifier: MIT
// Package: control
//
// api + impl for the two density-matched control patterns.
//
// Contract:
//   - One entry point: Build(kind, real, R). Each Kind maps to one Generator.
//   - Generators validate early and return sentinel errors; they never panic.

package control

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// Sentinel errors.
var (
	// ErrBadKind indicates an unknown control kind.
	ErrBadKind = errors.New("control: unknown control graph kind")

	// ErrNilPattern indicates a nil real pattern.
	ErrNilPattern = errors.New("control: nil pattern")

	// ErrDimensionMismatch indicates R and the pattern differ in size.
	ErrDimensionMismatch = errors.New("control: correlation and pattern sizes differ")
)

// Kind names a control generator. The zero value means "no control".
type Kind string

const (
	// None keeps the real graph.
	None Kind = ""

	// BandedKind selects Banded.
	BandedKind Kind = "banded"

	// CorrelationKind selects CorrelationThresholded.
	CorrelationKind Kind = "correlation"
)

// ParseKind validates a textual kind; "" and "none" map to None.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "none":
		return None, nil
	case string(BandedKind), string(CorrelationKind):
		return Kind(s), nil
	default:
		return None, fmt.Errorf("control: %q: %w", s, ErrBadKind)
	}
}

// Generator derives a control pattern from the real pattern and R.
type Generator func(real *core.Pattern, R matrix.Matrix) (*core.Pattern, error)

// Build applies the generator selected by kind. None returns real unchanged.
func Build(kind Kind, real *core.Pattern, R matrix.Matrix) (*core.Pattern, error) {
	if real == nil {
		return nil, ErrNilPattern
	}
	var gen Generator
	switch kind {
	case None:
		return real, nil
	case BandedKind:
		gen = func(p *core.Pattern, _ matrix.Matrix) (*core.Pattern, error) { return Banded(p) }
	case CorrelationKind:
		gen = CorrelationThresholded
	default:
		return nil, fmt.Errorf("control: %q: %w", kind, ErrBadKind)
	}
	out, err := gen(real, R)
	if err != nil {
		return nil, fmt.Errorf("Build(%s): %w", kind, err)
	}

	return out, nil
}

// HalfWidth returns ceil(nnz/(2n)) for the real pattern, capped at n-1.
func HalfWidth(real *core.Pattern) int {
	n := real.N()
	if n == 0 {
		return 0
	}
	h := (real.NonZeros() + 2*n - 1) / (2 * n)
	if h > n-1 {
		h = n - 1
	}

	return h
}

// Banded returns the band pattern {(i,j): 0 < |i-j| <= HalfWidth(real)}.
//
// Complexity: O(n·h).
func Banded(real *core.Pattern) (*core.Pattern, error) {
	if real == nil {
		return nil, ErrNilPattern
	}
	n, h := real.N(), HalfWidth(real)
	pairs := make([][2]int, 0, n*h)
	var i, d int
	for i = 0; i < n; i++ {
		for d = 1; d <= h && i+d < n; d++ {
			pairs = append(pairs, [2]int{i, i + d})
		}
	}

	return core.NewPattern(n, pairs)
}

// Density returns the fraction of off-diagonal pairs present in the pattern.
func Density(p *core.Pattern) float64 {
	n := p.N()
	if n < 2 {
		return 0
	}

	return float64(p.NonZeros()) / float64(n*(n-1))
}

// CorrelationThresholded keeps every pair whose squared correlation is
// strictly above the empirical (1-density) quantile of the upper-triangle
// squared correlations.
//
// Implementation:
//   - Stage 1: Validate shapes; collect R_ij² for i < j and sort ascending.
//   - Stage 2: q = stat.Quantile(1-density, stat.Empirical, sorted).
//   - Stage 3: Keep pairs with R_ij² > q.
//
// Errors: ErrNilPattern, ErrDimensionMismatch, matrix.ErrNilMatrix, matrix.ErrNonSquare.
// Complexity: O(n² log n).
func CorrelationThresholded(real *core.Pattern, R matrix.Matrix) (*core.Pattern, error) {
	if real == nil {
		return nil, ErrNilPattern
	}
	if err := matrix.ValidateSquare(R); err != nil {
		return nil, fmt.Errorf("CorrelationThresholded: %w", err)
	}
	n := real.N()
	if R.Rows() != n {
		return nil, fmt.Errorf("CorrelationThresholded: R %d×%d, pattern %d: %w", R.Rows(), R.Cols(), n, ErrDimensionMismatch)
	}
	if n < 2 {
		return core.NewPattern(n, nil)
	}

	sq := make([]float64, 0, n*(n-1)/2)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			v, err := R.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("CorrelationThresholded: %w", err)
			}
			sq = append(sq, v*v)
		}
	}
	sorted := append([]float64(nil), sq...)
	sort.Float64s(sorted)
	level := math.Max(0, math.Min(1, 1-Density(real)))
	q := stat.Quantile(level, stat.Empirical, sorted, nil)

	pairs := make([][2]int, 0)
	k := 0
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if sq[k] > q {
				pairs = append(pairs, [2]int{i, j})
			}
			k++
		}
	}

	return core.NewPattern(n, pairs)
}
