// SPDX-License-Identifier: MIT
// Package: core
//
// Value types: Edge, WeightedGraph, Pattern.

package core

// Edge is an undirected weighted edge between bricks I and J.
// Edges returned by this package always satisfy I < J.
type Edge struct {
	// I is the lower endpoint.
	I int

	// J is the upper endpoint.
	J int

	// W is the path strength; zero means "no edge" and is never stored.
	W float64
}

// WeightedGraph is an immutable undirected weighted graph over bricks 0..n-1.
//
// Storage is a pair of parallel sorted rows per node: nbr[i] holds the
// neighbor indices in ascending order and wt[i][k] the weight of (i, nbr[i][k]).
// Both directions are stored, so wt[i] and wt[j] agree on every edge.
type WeightedGraph struct {
	n   int
	nbr [][]int
	wt  [][]float64
}

// Pattern is an immutable boolean sparsity pattern over bricks 0..n-1.
//
// nbr[i] lists the off-diagonal entries of row i in ascending order. The
// diagonal is implicit and always present. Symmetry holds for every Pattern
// produced by this package except NewPatternFromRows, which stores its input
// verbatim; Validate reports asymmetric rows.
type Pattern struct {
	n   int
	nbr [][]int
}
