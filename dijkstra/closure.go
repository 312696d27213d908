// SPDX-License-Identifier: MIT
// Package: dijkstra
//
// Path closure: weighted LDGM edges from bounded shortest paths.
//
// Concurrency:
//   - Sources run on up to workers goroutines; each writes its own slot and
//     slots are merged in brick order after Wait.

package dijkstra

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ldgm/core"
)

// Terminal maps a brick to its exit node (path source) and entry node
// (path target) in the distance graph.
type Terminal struct {
	Out int
	In  int
}

// SelfTerminals returns Terminal{i, i} for bricks 0..n-1, the mapping for a
// graph whose nodes are the bricks themselves.
func SelfTerminals(n int) []Terminal {
	t := make([]Terminal, n)
	for i := range t {
		t[i] = Terminal{Out: i, In: i}
	}

	return t
}

// StridedTerminals maps brick b to Out = b·stride+out and In = b·stride+in,
// the layout of a graph that stores stride nodes per brick.
func StridedTerminals(bricks, stride, in, out int) []Terminal {
	t := make([]Terminal, bricks)
	for b := range t {
		t[b] = Terminal{Out: b*stride + out, In: b*stride + in}
	}

	return t
}

// PathWeight converts a path length to an LDGM weight, 1/(1+d).
func PathWeight(d float64) float64 { return 1 / (1 + d) }

// Closure connects every pair of bricks (b, c), b ≠ c, whose shortest path
// from b's Out node to c's In node is at most threshold, with weight
// PathWeight(d). In directed graphs the shorter of the two directions wins.
//
// Errors: ErrNilGraph, ErrBadMaxDistance, ErrNodeOutOfRange, context errors.
// Complexity: O(B · (V + E) log V) for B bricks in the worst case; the cap
// keeps each search local in practice.
func Closure(ctx context.Context, g *Graph, bricks []Terminal, threshold float64, workers int) (*core.WeightedGraph, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if threshold < 0 || math.IsNaN(threshold) {
		return nil, fmt.Errorf("Closure: threshold=%v: %w", threshold, ErrBadMaxDistance)
	}
	if workers < 1 {
		workers = 1
	}
	for b, t := range bricks {
		if t.Out < 0 || t.Out >= g.n || t.In < 0 || t.In >= g.n {
			return nil, fmt.Errorf("Closure: brick %d terminals (%d,%d): %w", b, t.Out, t.In, ErrNodeOutOfRange)
		}
	}

	found := make([][]core.Edge, len(bricks))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for b, t := range bricks {
		b, t := b, t
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dist, _, err := Dijkstra(g, Source(t.Out), WithMaxDistance(threshold))
			if err != nil {
				return err
			}
			for c, tc := range bricks {
				if c == b {
					continue
				}
				if d := dist[tc.In]; d <= threshold {
					found[b] = append(found[b], core.Edge{I: b, J: c, W: PathWeight(d)})
				}
			}

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("Closure: %w", err)
	}

	var edges []core.Edge
	for _, es := range found {
		edges = append(edges, es...)
	}

	return core.NewWeightedGraph(len(bricks), edges)
}
