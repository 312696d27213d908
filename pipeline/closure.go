// SPDX-License-Identifier: MIT
// Package: pipeline
//
// Closure: distance-weighted brick graph → weighted LDGM edge list.

package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/katalvlaran/ldgm/dijkstra"
	"github.com/katalvlaran/ldgm/internal/logger"
	"github.com/katalvlaran/ldgm/ldio"
)

// ClosureConfig configures Closure.
type ClosureConfig struct {
	// Threshold is the largest path length that still yields an edge.
	Threshold float64 `yaml:"threshold"`

	// Directed treats every input row as a one-way arc i → j.
	Directed bool `yaml:"directed"`

	// Workers bounds concurrent shortest-path searches.
	Workers int `yaml:"workers"`

	// Stride is the number of nodes per brick; 0 or 1 makes every node its
	// own brick. With Stride > 1, brick b leaves from node b·Stride+OutOffset
	// and is entered at node b·Stride+InOffset.
	Stride    int `yaml:"stride"`
	InOffset  int `yaml:"in_offset"`
	OutOffset int `yaml:"out_offset"`
}

// terminals maps the n graph nodes to brick terminals.
func (c ClosureConfig) terminals(n int) ([]dijkstra.Terminal, error) {
	if c.Stride <= 1 {
		if c.Stride < 0 || c.InOffset != 0 || c.OutOffset != 0 {
			return nil, fmt.Errorf("closure stride %d offsets (%d,%d): %w", c.Stride, c.InOffset, c.OutOffset, ErrInvalidConfig)
		}

		return dijkstra.SelfTerminals(n), nil
	}
	if c.InOffset < 0 || c.InOffset >= c.Stride || c.OutOffset < 0 || c.OutOffset >= c.Stride {
		return nil, fmt.Errorf("closure offsets (%d,%d) outside stride %d: %w", c.InOffset, c.OutOffset, c.Stride, ErrInvalidConfig)
	}
	if n%c.Stride != 0 {
		return nil, fmt.Errorf("closure: %d nodes is not a multiple of stride %d: %w", n, c.Stride, ErrInvalidConfig)
	}

	return dijkstra.StridedTerminals(n/c.Stride, c.Stride, c.InOffset, c.OutOffset), nil
}

// Closure reads "i,j,length" rows from r, connects every pair of bricks whose
// shortest out → in path is at most cfg.Threshold with weight 1/(1+d), and
// writes the resulting weighted LDGM over bricks to w.
//
// Errors: ErrInvalidConfig, read errors, dijkstra validation errors.
func Closure(ctx context.Context, r io.Reader, w io.Writer, cfg ClosureConfig, log *logger.Logger) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("closure workers %d: %w", cfg.Workers, ErrInvalidConfig)
	}
	l, err := ldio.ReadEdgeList(r)
	if err != nil {
		return fmt.Errorf("closure: %w", err)
	}
	arcs := make([]dijkstra.Arc, 0, len(l.Edges))
	for _, e := range l.Edges {
		arcs = append(arcs, dijkstra.Arc{From: e.I, To: e.J, Length: e.W})
	}
	g, err := dijkstra.NewGraph(l.N, arcs, cfg.Directed)
	if err != nil {
		return fmt.Errorf("closure: %w", err)
	}

	bricks, err := cfg.terminals(l.N)
	if err != nil {
		return err
	}

	wg, err := dijkstra.Closure(ctx, g, bricks, cfg.Threshold, cfg.Workers)
	if err != nil {
		return fmt.Errorf("closure: %w", err)
	}
	log.Info("closure built",
		"nodes", l.N,
		"bricks", len(bricks),
		"arcs", len(arcs),
		"threshold", cfg.Threshold,
		"edges", wg.EdgeCount(),
	)

	if err = ldio.WriteWeighted(w, wg); err != nil {
		return fmt.Errorf("closure: %w", err)
	}

	return nil
}
