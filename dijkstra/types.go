// SPDX-License-Identifier: MIT
// Package: dijkstra
//
// Graph, options and sentinel errors.

package dijkstra

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors returned by this package.
var (
	// ErrNilGraph indicates that a nil *Graph was passed.
	ErrNilGraph = errors.New("dijkstra: graph is nil")

	// ErrInvalidSize indicates a negative node count.
	ErrInvalidSize = errors.New("dijkstra: invalid node count")

	// ErrNodeOutOfRange indicates a source or arc endpoint outside [0, n).
	ErrNodeOutOfRange = errors.New("dijkstra: node out of range")

	// ErrNegativeWeight indicates a negative, NaN or infinite arc length.
	ErrNegativeWeight = errors.New("dijkstra: negative or non-finite arc length")

	// ErrBadMaxDistance indicates a negative or NaN MaxDistance.
	ErrBadMaxDistance = errors.New("dijkstra: MaxDistance must be non-negative")

	// ErrBadInfThreshold indicates a non-positive InfEdgeThreshold.
	ErrBadInfThreshold = errors.New("dijkstra: InfEdgeThreshold must be positive")
)

// Arc is a directed connection of length Length from From to To.
type Arc struct {
	From   int
	To     int
	Length float64
}

// Graph is an immutable adjacency-list graph over nodes 0..n-1.
type Graph struct {
	n   int
	out [][]Arc
}

// NewGraph builds a graph over n nodes. Undirected graphs mirror every arc.
//
// Errors: ErrInvalidSize, ErrNodeOutOfRange, ErrNegativeWeight.
// Complexity: O(n + E).
func NewGraph(n int, arcs []Arc, directed bool) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("NewGraph: n=%d: %w", n, ErrInvalidSize)
	}
	g := &Graph{n: n, out: make([][]Arc, n)}
	for k, a := range arcs {
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
			return nil, fmt.Errorf("NewGraph: arc %d (%d→%d): %w", k, a.From, a.To, ErrNodeOutOfRange)
		}
		if a.Length < 0 || math.IsNaN(a.Length) || math.IsInf(a.Length, 0) {
			return nil, fmt.Errorf("NewGraph: arc %d length=%v: %w", k, a.Length, ErrNegativeWeight)
		}
		g.out[a.From] = append(g.out[a.From], a)
		if !directed && a.From != a.To {
			g.out[a.To] = append(g.out[a.To], Arc{From: a.To, To: a.From, Length: a.Length})
		}
	}

	return g, nil
}

// N returns the number of nodes.
func (g *Graph) N() int { return g.n }

// Options configures Dijkstra.
//
// Source           – starting node (must be in [0, n)).
// ReturnPath       – if true, return the predecessor slice.
// MaxDistance      – nodes farther than this are not settled. Default +Inf.
// InfEdgeThreshold – arcs with length >= this are impassable. Default +Inf.
type Options struct {
	Source           int
	ReturnPath       bool
	MaxDistance      float64
	InfEdgeThreshold float64
}

// Option represents a functional option for configuring Dijkstra.
type Option func(*Options)

// Source sets the starting node.
func Source(id int) Option {
	return func(o *Options) { o.Source = id }
}

// WithReturnPath enables the predecessor slice in the result.
func WithReturnPath() Option {
	return func(o *Options) { o.ReturnPath = true }
}

// WithMaxDistance caps exploration at max. Panics on negative or NaN.
func WithMaxDistance(max float64) Option {
	if max < 0 || math.IsNaN(max) {
		panic(ErrBadMaxDistance.Error())
	}

	return func(o *Options) { o.MaxDistance = max }
}

// WithInfEdgeThreshold treats arcs with length >= threshold as impassable.
// Panics if threshold <= 0 or NaN.
func WithInfEdgeThreshold(threshold float64) Option {
	if !(threshold > 0) {
		panic(ErrBadInfThreshold.Error())
	}

	return func(o *Options) { o.InfEdgeThreshold = threshold }
}

// DefaultOptions returns options with no cap and no impassable arcs.
func DefaultOptions(source int) Options {
	return Options{
		Source:           source,
		MaxDistance:      math.Inf(1),
		InfEdgeThreshold: math.Inf(1),
	}
}
