// SPDX-License-Identifier: MIT
// Package: surgery
//
// Purpose:
//   - Node elimination with multiplicative path patching.
//
// Determinism:
//   - Removed nodes are visited in ascending order and neighbour pairs in
//     ascending (u, w) order, so identical inputs give identical graphs.

package surgery

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/ldgm/core"
)

// ErrNilGraph indicates a nil input graph.
var ErrNilGraph = errors.New("surgery: nil graph")

// Report summarizes one Reduce call.
type Report struct {
	// Removed is the number of eliminated nodes.
	Removed int

	// Added counts patched pairs that had no edge before.
	Added int

	// Strengthened counts existing edges whose weight increased.
	Strengthened int

	// Kept lists the original index of every surviving node, ascending.
	Kept []int
}

// Combine is the path-decay rule: the strength of u–v–w through v.
func Combine(uv, vw float64) float64 { return uv * vw }

// Reduce eliminates every node with remove[i] == true.
//
// Implementation:
//   - Stage 1: Validate the graph and mask length.
//   - Stage 2: For each removed v ascending, patch all pairs of v's current
//     neighbours with max(existing, Combine), then detach v.
//   - Stage 3: Freeze the working rows and restrict to survivors.
//
// Errors: ErrNilGraph, core.ErrMaskLength.
// Complexity: O(Σ d_v²) over removed nodes, with d_v the degree at elimination time.
func Reduce(g *core.WeightedGraph, remove []bool) (*core.WeightedGraph, Report, error) {
	if g == nil {
		return nil, Report{}, ErrNilGraph
	}
	if len(remove) != g.N() {
		return nil, Report{}, fmt.Errorf("surgery: len(remove)=%d, n=%d: %w", len(remove), g.N(), core.ErrMaskLength)
	}

	rows := g.Rows()
	var rep Report
	for v, drop := range remove {
		if !drop {
			continue
		}
		rep.Removed++
		nb := sortedKeys(rows[v])
		for a := 0; a < len(nb); a++ {
			u := nb[a]
			for b := a + 1; b < len(nb); b++ {
				w := nb[b]
				c := Combine(rows[u][v], rows[v][w])
				old, ok := rows[u][w]
				if c <= old {
					continue
				}
				if ok {
					rep.Strengthened++
				} else {
					rep.Added++
				}
				rows[u][w] = c
				rows[w][u] = c
			}
		}
		for _, u := range nb {
			delete(rows[u], v)
		}
		rows[v] = map[int]float64{}
	}

	patched, err := core.FromRows(rows)
	if err != nil {
		return nil, Report{}, fmt.Errorf("surgery: %w", err)
	}
	keep := make([]bool, len(remove))
	for i, drop := range remove {
		keep[i] = !drop
	}
	out, kept, err := patched.Induced(keep)
	if err != nil {
		return nil, Report{}, fmt.Errorf("surgery: %w", err)
	}
	rep.Kept = kept

	return out, rep, nil
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}
