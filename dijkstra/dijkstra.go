// SPDX-License-Identifier: MIT
// Package: dijkstra
//
// Single-source bounded shortest paths.
//
// Notes on implementation choices:
//   - Arc lengths are validated once in NewGraph.
//   - Arcs with length >= InfEdgeThreshold are skipped as walls.
//   - Exploration stops once the minimum heap distance exceeds MaxDistance.
//   - Lazy decrease-key: duplicates are pushed and stale entries skipped.

package dijkstra

import (
	"container/heap"
	"fmt"
	"math"
)

// Dijkstra computes shortest distances from Options.Source.
//
// Returns:
//   - dist: dist[v] is the shortest length, +Inf if unreachable or beyond
//     MaxDistance.
//   - prev: predecessor on the shortest path (-1 for the source and for
//     unreached nodes) when ReturnPath is set, nil otherwise.
//
// Errors: ErrNilGraph, ErrNodeOutOfRange.
// Complexity: O((V + E) log V) time, O(V + E) space.
func Dijkstra(g *Graph, opts ...Option) ([]float64, []int, error) {
	cfg := DefaultOptions(0)
	for _, opt := range opts {
		opt(&cfg)
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if cfg.Source < 0 || cfg.Source >= g.n {
		return nil, nil, fmt.Errorf("Dijkstra: source %d of %d: %w", cfg.Source, g.n, ErrNodeOutOfRange)
	}

	r := &runner{
		g:       g,
		options: cfg,
		dist:    make([]float64, g.n),
		prev:    make([]int, g.n),
		visited: make([]bool, g.n),
		pq:      make(nodePQ, 0, g.n),
	}
	r.init()
	r.process()

	if !cfg.ReturnPath {
		return r.dist, nil, nil
	}

	return r.dist, r.prev, nil
}

// runner holds the mutable state for a single Dijkstra execution.
type runner struct {
	g       *Graph
	options Options
	dist    []float64
	prev    []int
	visited []bool
	pq      nodePQ
}

// init sets dist = +Inf, prev = -1 and seeds the heap with the source.
func (r *runner) init() {
	for v := range r.dist {
		r.dist[v] = math.Inf(1)
		r.prev[v] = -1
	}
	r.dist[r.options.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.options.Source, dist: 0})
}

// process settles nodes in distance order until the heap is empty or the
// nearest candidate lies beyond MaxDistance. Nodes never settled get +Inf.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id
		if r.visited[u] {
			continue
		}
		if item.dist > r.options.MaxDistance {
			break
		}
		r.visited[u] = true
		r.relax(u)
	}
	for v, ok := range r.visited {
		if !ok {
			r.dist[v] = math.Inf(1)
			r.prev[v] = -1
		}
	}
}

// relax improves distances to u's out-neighbours.
func (r *runner) relax(u int) {
	du := r.dist[u]
	for _, a := range r.g.out[u] {
		if a.Length >= r.options.InfEdgeThreshold || r.visited[a.To] {
			continue
		}
		if nd := du + a.Length; nd < r.dist[a.To] {
			r.dist[a.To] = nd
			r.prev[a.To] = u
			heap.Push(&r.pq, &nodeItem{id: a.To, dist: nd})
		}
	}
}

// nodeItem represents a node and its tentative distance from the source.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by (dist, id).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
