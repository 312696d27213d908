// SPDX-License-Identifier: MIT
// Package: core
//
// Pattern construction, validation and queries.
//
// Contracts:
//   - The diagonal is implicit: Has(i,i) is true for every valid i and the
//     diagonal never appears in Neighbors or Edges.
//   - Degree counts off-diagonal entries only.

package core

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/ldgm/matrix"
)

// NewPattern builds a symmetric pattern over n nodes from index pairs.
// Each pair is mirrored; self pairs and repeats are ignored.
//
// Errors: ErrInvalidSize, ErrNodeOutOfRange.
// Complexity: O(E log d).
func NewPattern(n int, pairs [][2]int) (*Pattern, error) {
	if n < 0 {
		return nil, fmt.Errorf("NewPattern: n=%d: %w", n, ErrInvalidSize)
	}
	sets := make([]map[int]struct{}, n)
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	for k, pr := range pairs {
		i, j := pr[0], pr[1]
		if i < 0 || i >= n || j < 0 || j >= n {
			return nil, fmt.Errorf("NewPattern: pair %d (%d,%d): %w", k, i, j, ErrNodeOutOfRange)
		}
		if i == j {
			continue
		}
		sets[i][j] = struct{}{}
		sets[j][i] = struct{}{}
	}

	return freezePattern(sets), nil
}

// NewPatternFromRows stores explicit per-row neighbor lists without
// mirroring them. Rows are copied and sorted; diagonal entries are dropped.
// The result may be asymmetric or contain duplicates; call Validate.
//
// Errors: ErrNodeOutOfRange.
func NewPatternFromRows(rows [][]int) (*Pattern, error) {
	n := len(rows)
	p := &Pattern{n: n, nbr: make([][]int, n)}
	for i, row := range rows {
		kept := make([]int, 0, len(row))
		for _, j := range row {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("NewPatternFromRows: (%d,%d): %w", i, j, ErrNodeOutOfRange)
			}
			if j != i {
				kept = append(kept, j)
			}
		}
		sort.Ints(kept)
		p.nbr[i] = kept
	}

	return p, nil
}

// NewPatternFromMatrix reads the off-diagonal support {(i,j): |M[i][j]| > tol}
// of a square matrix. Symmetry is not enforced, so an asymmetric input yields
// an asymmetric pattern.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrNonSquare, ErrBadThreshold (tol < 0).
// Complexity: O(n²).
func NewPatternFromMatrix(m matrix.Matrix, tol float64) (*Pattern, error) {
	if err := matrix.ValidateSquare(m); err != nil {
		return nil, fmt.Errorf("NewPatternFromMatrix: %w", err)
	}
	if tol < 0 || math.IsNaN(tol) {
		return nil, fmt.Errorf("NewPatternFromMatrix: tol=%v: %w", tol, ErrBadThreshold)
	}
	n := m.Rows()
	p := &Pattern{n: n, nbr: make([][]int, n)}
	var i, j int
	for i = 0; i < n; i++ {
		row := make([]int, 0)
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			v, err := m.At(i, j)
			if err != nil {
				return nil, fmt.Errorf("NewPatternFromMatrix: %w", err)
			}
			if math.Abs(v) > tol {
				row = append(row, j)
			}
		}
		p.nbr[i] = row
	}

	return p, nil
}

// freezePattern converts per-node sets into sorted rows.
func freezePattern(sets []map[int]struct{}) *Pattern {
	p := &Pattern{n: len(sets), nbr: make([][]int, len(sets))}
	for i, set := range sets {
		row := make([]int, 0, len(set))
		for j := range set {
			row = append(row, j)
		}
		sort.Ints(row)
		p.nbr[i] = row
	}

	return p
}

// Validate checks that every row is free of duplicates and that every
// off-diagonal entry has its mirror.
//
// Errors: ErrDuplicateEntry, ErrAsymmetric.
// Complexity: O(E log d).
func (p *Pattern) Validate() error {
	for i, row := range p.nbr {
		for k, j := range row {
			if k > 0 && row[k-1] == j {
				return fmt.Errorf("Validate: row %d lists %d twice: %w", i, j, ErrDuplicateEntry)
			}
			if !p.Has(j, i) {
				return fmt.Errorf("Validate: (%d,%d) present without (%d,%d): %w", i, j, j, i, ErrAsymmetric)
			}
		}
	}

	return nil
}

// N returns the number of nodes.
func (p *Pattern) N() int { return p.n }

// Has reports whether (i,j) is in the pattern. The diagonal is always present.
func (p *Pattern) Has(i, j int) bool {
	if i < 0 || i >= p.n || j < 0 || j >= p.n {
		return false
	}
	if i == j {
		return true
	}
	row := p.nbr[i]
	k := sort.SearchInts(row, j)

	return k < len(row) && row[k] == j
}

// Neighbors returns a copy of row i's off-diagonal entries in ascending order.
func (p *Pattern) Neighbors(i int) []int {
	if i < 0 || i >= p.n {
		return nil
	}

	return append([]int(nil), p.nbr[i]...)
}

// Degree returns the number of off-diagonal entries in row i.
func (p *Pattern) Degree(i int) int {
	if i < 0 || i >= p.n {
		return 0
	}

	return len(p.nbr[i])
}

// NonZeros returns the number of off-diagonal entries over all rows, which
// is twice the edge count for a symmetric pattern.
func (p *Pattern) NonZeros() int {
	total := 0
	for _, row := range p.nbr {
		total += len(row)
	}

	return total
}

// EdgeCount returns the number of undirected edges, NonZeros()/2.
func (p *Pattern) EdgeCount() int { return p.NonZeros() / 2 }

// AverageDegree returns NonZeros()/n, or 0 for an empty pattern.
func (p *Pattern) AverageDegree() float64 {
	if p.n == 0 {
		return 0
	}

	return float64(p.NonZeros()) / float64(p.n)
}

// Edges returns every pair with i < j, ordered by (i, j).
func (p *Pattern) Edges() [][2]int {
	out := make([][2]int, 0, p.EdgeCount())
	for i, row := range p.nbr {
		for _, j := range row {
			if j > i {
				out = append(out, [2]int{i, j})
			}
		}
	}

	return out
}

// Subset reports whether every entry of p is also in q.
// Patterns of different size are never subsets of each other.
func (p *Pattern) Subset(q *Pattern) bool {
	if q == nil || p.n != q.n {
		return false
	}
	for i, row := range p.nbr {
		for _, j := range row {
			if !q.Has(i, j) {
				return false
			}
		}
	}

	return true
}

// Induced returns the pattern restricted to nodes with keep[i] == true,
// renumbered densely in ascending original order, plus the original index of
// every new node.
//
// Errors: ErrMaskLength.
func (p *Pattern) Induced(keep []bool) (*Pattern, []int, error) {
	if len(keep) != p.n {
		return nil, nil, fmt.Errorf("Induced: len(keep)=%d, n=%d: %w", len(keep), p.n, ErrMaskLength)
	}
	newIdx, oldIdx := reindex(keep)

	return p.remap(newIdx, oldIdx), oldIdx, nil
}

// Principal returns the pattern restricted to the ascending index list idx.
// Indices must be valid and strictly increasing.
//
// Errors: ErrNodeOutOfRange.
func (p *Pattern) Principal(idx []int) (*Pattern, error) {
	newIdx := make([]int, p.n)
	for i := range newIdx {
		newIdx[i] = -1
	}
	for k, i := range idx {
		if i < 0 || i >= p.n || (k > 0 && idx[k-1] >= i) {
			return nil, fmt.Errorf("Principal: index %d at %d: %w", i, k, ErrNodeOutOfRange)
		}
		newIdx[i] = k
	}

	return p.remap(newIdx, idx), nil
}

// remap builds the induced pattern for a precomputed index mapping.
func (p *Pattern) remap(newIdx, oldIdx []int) *Pattern {
	out := &Pattern{n: len(oldIdx), nbr: make([][]int, len(oldIdx))}
	for ni, oi := range oldIdx {
		row := make([]int, 0, len(p.nbr[oi]))
		for _, oj := range p.nbr[oi] {
			if nj := newIdx[oj]; nj >= 0 {
				row = append(row, nj)
			}
		}
		// Ascending old order maps to ascending new order.
		out.nbr[ni] = row
	}

	return out
}
