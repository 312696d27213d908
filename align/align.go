// SPDX-License-Identifier: MIT
// Package: align
//
// Purpose:
//   - Intersect graph and data variant lists and pick brick representatives.
//
// Determinism:
//   - The intersection follows data-side order; representatives are the first
//     match per brick in that order; bricks are renumbered ascending.

package align

import (
	"fmt"

	"github.com/katalvlaran/ldgm/matrix"
)

// Align builds the shared index space for graph and data variant lists.
// R, when non-nil, must be square with one row per data variant.
//
// Implementation:
//   - Stage 1: Validate brick indices and the brick count.
//   - Stage 2: Index the graph list by rsid (first occurrence wins).
//   - Stage 3: Walk the data list, collecting matches and the first
//     representative per brick.
//   - Stage 4: Renumber covered bricks ascending; gather AF/MAF and reduce R.
//
// Errors:
//   - ErrMissingBrick, ErrCountMismatch, ErrEmptyIntersection, ErrMissingAF,
//     ErrBadAFSource, matrix.ErrDimensionMismatch (R does not match data list).
//
// Complexity: O(|graph| + |data| + k²) for k surviving bricks.
func Align(graph []GraphVariant, data []DataVariant, R matrix.Matrix, opts Options) (*Result, error) {
	if opts.Source != AFFromGraph && opts.Source != AFFromData {
		return nil, fmt.Errorf("align: %q: %w", opts.Source, ErrBadAFSource)
	}

	// Stage 1: brick indices.
	maxBrick := -1
	for k, v := range graph {
		if v.Brick < 0 {
			return nil, fmt.Errorf("align: graph row %d (%s): %w", k, v.ID, ErrMissingBrick)
		}
		if v.Brick > maxBrick {
			maxBrick = v.Brick
		}
	}
	n := maxBrick + 1
	if opts.GraphSize > 0 && n != opts.GraphSize {
		return nil, fmt.Errorf("align: list implies %d bricks, graph has %d: %w", n, opts.GraphSize, ErrCountMismatch)
	}
	if R != nil {
		if err := matrix.ValidateSquare(R); err != nil {
			return nil, fmt.Errorf("align: %w", err)
		}
		if R.Rows() != len(data) {
			return nil, fmt.Errorf("align: R is %d×%d for %d data variants: %w",
				R.Rows(), R.Cols(), len(data), matrix.ErrDimensionMismatch)
		}
	}

	// Stage 2: graph index.
	byID := make(map[string]int, len(graph))
	for k, v := range graph {
		if _, seen := byID[v.ID]; !seen {
			byID[v.ID] = k
		}
	}

	// Stage 3: intersection and first representative per brick.
	res := &Result{Missing: make([]bool, n)}
	repOf := make([]int, n)
	for b := range repOf {
		repOf[b] = -1
	}
	seenData := make(map[string]struct{}, len(data))
	for d, v := range data {
		if _, dup := seenData[v.ID]; dup {
			continue
		}
		seenData[v.ID] = struct{}{}
		g, ok := byID[v.ID]
		if !ok {
			continue
		}
		b := graph[g].Brick
		res.Common = append(res.Common, Match{ID: v.ID, DataRow: d, GraphRow: g, Brick: b})
		if repOf[b] < 0 {
			repOf[b] = len(res.Common) - 1
		}
	}
	if len(res.Common) == 0 {
		return nil, ErrEmptyIntersection
	}

	// Stage 4: dense renumbering.
	for b := 0; b < n; b++ {
		if repOf[b] < 0 {
			res.Missing[b] = true
			continue
		}
		m := res.Common[repOf[b]]
		af, err := pickAF(graph[m.GraphRow], data[m.DataRow], opts.Source)
		if err != nil {
			return nil, err
		}
		res.Bricks = append(res.Bricks, b)
		res.Representative = append(res.Representative, m.DataRow)
		res.RepresentativeID = append(res.RepresentativeID, m.ID)
		res.AF = append(res.AF, af)
		res.MAF = append(res.MAF, matrix.MinorAlleleFrequency(af))
	}

	if R != nil {
		full, ok := R.(*matrix.Dense)
		if !ok {
			var err error
			if full, err = copyDense(R); err != nil {
				return nil, fmt.Errorf("align: %w", err)
			}
		}
		sub, err := full.Principal(res.Representative)
		if err != nil {
			return nil, fmt.Errorf("align: %w", err)
		}
		res.Correlation = sub
	}

	return res, nil
}

func pickAF(g GraphVariant, d DataVariant, src AFSource) (float64, error) {
	if src == AFFromGraph {
		if !g.HasAF {
			return 0, fmt.Errorf("align: %s (graph list): %w", g.ID, ErrMissingAF)
		}

		return g.AF, nil
	}
	if !d.HasAF {
		return 0, fmt.Errorf("align: %s (data list): %w", d.ID, ErrMissingAF)
	}

	return d.AF, nil
}

// copyDense materializes any Matrix as *matrix.Dense.
func copyDense(m matrix.Matrix) (*matrix.Dense, error) {
	out, err := matrix.NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var i, j int
	var v float64
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < m.Cols(); j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			if err = out.Set(i, j, v); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
