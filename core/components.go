// SPDX-License-Identifier: MIT
// Package: core
//
// Connected components of a Pattern through gonum's graph/topo.
//
// Determinism:
//   - gonum returns components in map order; the result is normalized so each
//     component is ascending and components are ordered by their smallest node.

package core

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Components returns the connected components of the pattern's undirected
// closure. Every node appears in exactly one component; isolated nodes form
// singleton components.
//
// Complexity: O(n + E) for the traversal plus O(n log n) for normalization.
func (p *Pattern) Components() [][]int {
	g := simple.NewUndirectedGraph()
	for i := 0; i < p.n; i++ {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, row := range p.nbr {
		for _, j := range row {
			if j == i || g.HasEdgeBetween(int64(i), int64(j)) {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
		}
	}

	raw := topo.ConnectedComponents(g)
	comps := make([][]int, 0, len(raw))
	for _, nodes := range raw {
		c := make([]int, len(nodes))
		for k, nd := range nodes {
			c[k] = int(nd.ID())
		}
		sort.Ints(c)
		comps = append(comps, c)
	}
	sort.Slice(comps, func(a, b int) bool { return comps[a][0] < comps[b][0] })

	return comps
}
