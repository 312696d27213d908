// SPDX-License-Identifier: MIT
// Package: core
//
// WeightedGraph construction and read-only queries.
//
// Determinism:
//   - Rows are sorted ascending at construction; every query walks them in order.

package core

import (
	"fmt"
	"math"
	"sort"
)

// NewWeightedGraph builds an immutable graph over n nodes from an edge list.
//
// Implementation:
//   - Stage 1: Validate n >= 0, endpoints in range, weights finite and >= 0.
//   - Stage 2: Fold edges into per-node maps. Self-loops and zero weights are
//     skipped; a pair listed twice keeps the larger weight.
//   - Stage 3: Freeze maps into sorted parallel rows.
//
// Errors: ErrInvalidSize, ErrNodeOutOfRange, ErrBadWeight.
// Complexity: O(E log d).
func NewWeightedGraph(n int, edges []Edge) (*WeightedGraph, error) {
	if n < 0 {
		return nil, fmt.Errorf("NewWeightedGraph: n=%d: %w", n, ErrInvalidSize)
	}
	rows := make([]map[int]float64, n)
	for i := range rows {
		rows[i] = make(map[int]float64)
	}
	for k, e := range edges {
		if e.I < 0 || e.I >= n || e.J < 0 || e.J >= n {
			return nil, fmt.Errorf("NewWeightedGraph: edge %d (%d,%d): %w", k, e.I, e.J, ErrNodeOutOfRange)
		}
		if math.IsNaN(e.W) || math.IsInf(e.W, 0) || e.W < 0 {
			return nil, fmt.Errorf("NewWeightedGraph: edge %d weight %v: %w", k, e.W, ErrBadWeight)
		}
		if e.I == e.J || e.W == 0 {
			continue
		}
		if e.W > rows[e.I][e.J] {
			rows[e.I][e.J] = e.W
			rows[e.J][e.I] = e.W
		}
	}

	return freezeWeighted(rows), nil
}

// freezeWeighted converts symmetric per-node maps into sorted rows.
// Callers guarantee symmetry, range and weight validity.
func freezeWeighted(rows []map[int]float64) *WeightedGraph {
	g := &WeightedGraph{
		n:   len(rows),
		nbr: make([][]int, len(rows)),
		wt:  make([][]float64, len(rows)),
	}
	for i, row := range rows {
		idx := make([]int, 0, len(row))
		for j := range row {
			idx = append(idx, j)
		}
		sort.Ints(idx)
		w := make([]float64, len(idx))
		for k, j := range idx {
			w[k] = row[j]
		}
		g.nbr[i] = idx
		g.wt[i] = w
	}

	return g
}

// N returns the number of nodes.
func (g *WeightedGraph) N() int { return g.n }

// Weight returns the weight of (i, j), or 0 if the pair is not an edge or
// either index is out of range. The implicit self-loop is not reported here.
func (g *WeightedGraph) Weight(i, j int) float64 {
	if i < 0 || i >= g.n || j < 0 || j >= g.n {
		return 0
	}
	row := g.nbr[i]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return g.wt[i][k]
	}

	return 0
}

// Neighbors returns a copy of node i's neighbors in ascending order.
// Out-of-range i yields nil.
func (g *WeightedGraph) Neighbors(i int) []int {
	if i < 0 || i >= g.n {
		return nil
	}

	return append([]int(nil), g.nbr[i]...)
}

// Degree returns the number of neighbors of node i.
func (g *WeightedGraph) Degree(i int) int {
	if i < 0 || i >= g.n {
		return 0
	}

	return len(g.nbr[i])
}

// EdgeCount returns the number of undirected edges.
func (g *WeightedGraph) EdgeCount() int {
	total := 0
	for _, row := range g.nbr {
		total += len(row)
	}

	return total / 2
}

// Edges returns every edge once with I < J, ordered by (I, J).
func (g *WeightedGraph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for i, row := range g.nbr {
		for k, j := range row {
			if j > i {
				out = append(out, Edge{I: i, J: j, W: g.wt[i][k]})
			}
		}
	}

	return out
}

// Rows returns a mutable map-per-node copy of the graph, the working form
// consumed by graph surgery.
func (g *WeightedGraph) Rows() []map[int]float64 {
	rows := make([]map[int]float64, g.n)
	for i, row := range g.nbr {
		m := make(map[int]float64, len(row))
		for k, j := range row {
			m[j] = g.wt[i][k]
		}
		rows[i] = m
	}

	return rows
}

// FromRows freezes a symmetric map-per-node adjacency into a WeightedGraph.
//
// Errors: ErrNodeOutOfRange, ErrBadWeight, ErrAsymmetric.
func FromRows(rows []map[int]float64) (*WeightedGraph, error) {
	n := len(rows)
	for i, row := range rows {
		for j, w := range row {
			if j < 0 || j >= n {
				return nil, fmt.Errorf("FromRows: (%d,%d): %w", i, j, ErrNodeOutOfRange)
			}
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return nil, fmt.Errorf("FromRows: (%d,%d)=%v: %w", i, j, w, ErrBadWeight)
			}
			if rows[j][i] != w {
				return nil, fmt.Errorf("FromRows: (%d,%d): %w", i, j, ErrAsymmetric)
			}
		}
	}
	clean := make([]map[int]float64, n)
	for i, row := range rows {
		clean[i] = make(map[int]float64, len(row))
		for j, w := range row {
			if j != i && w != 0 {
				clean[i][j] = w
			}
		}
	}

	return freezeWeighted(clean), nil
}

// Induced returns the subgraph on nodes with keep[i] == true, renumbered
// densely in ascending original order, plus the original index of every
// new node.
//
// Errors: ErrMaskLength.
func (g *WeightedGraph) Induced(keep []bool) (*WeightedGraph, []int, error) {
	if len(keep) != g.n {
		return nil, nil, fmt.Errorf("Induced: len(keep)=%d, n=%d: %w", len(keep), g.n, ErrMaskLength)
	}
	newIdx, oldIdx := reindex(keep)
	rows := make([]map[int]float64, len(oldIdx))
	for ni, oi := range oldIdx {
		row := make(map[int]float64)
		for k, oj := range g.nbr[oi] {
			if nj := newIdx[oj]; nj >= 0 {
				row[nj] = g.wt[oi][k]
			}
		}
		rows[ni] = row
	}

	return freezeWeighted(rows), oldIdx, nil
}

// Threshold derives the boolean pattern A = (W + I >= 1/(1+t)).
// For t >= 0 the diagonal always qualifies, and (i,j) is kept iff
// W[i][j] >= 1/(1+t).
//
// Errors: ErrBadThreshold (t < 0 or not finite).
func (g *WeightedGraph) Threshold(t float64) (*Pattern, error) {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return nil, fmt.Errorf("Threshold: t=%v: %w", t, ErrBadThreshold)
	}
	cut := 1.0 / (1.0 + t)
	p := &Pattern{n: g.n, nbr: make([][]int, g.n)}
	for i, row := range g.nbr {
		kept := make([]int, 0, len(row))
		for k, j := range row {
			if g.wt[i][k] >= cut {
				kept = append(kept, j)
			}
		}
		p.nbr[i] = kept
	}

	return p, nil
}

// reindex maps a keep-mask to dense new indices (-1 for dropped nodes) and
// the list of kept original indices in ascending order.
func reindex(keep []bool) (newIdx []int, oldIdx []int) {
	newIdx = make([]int, len(keep))
	oldIdx = make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			newIdx[i] = len(oldIdx)
			oldIdx = append(oldIdx, i)
		} else {
			newIdx[i] = -1
		}
	}

	return newIdx, oldIdx
}
