// Package core_test contains unit tests for WeightedGraph and Pattern.
package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/core"
)

// pathGraph returns 0-1-2-3 with the given weights.
func pathGraph(t *testing.T, w01, w12, w23 float64) *core.WeightedGraph {
	t.Helper()
	g, err := core.NewWeightedGraph(4, []core.Edge{
		{I: 0, J: 1, W: w01},
		{I: 1, J: 2, W: w12},
		{I: 2, J: 3, W: w23},
	})
	require.NoError(t, err)

	return g
}

func TestNewWeightedGraphValidation(t *testing.T) {
	_, err := core.NewWeightedGraph(-1, nil)
	require.ErrorIs(t, err, core.ErrInvalidSize)

	_, err = core.NewWeightedGraph(2, []core.Edge{{I: 0, J: 2, W: 1}})
	require.ErrorIs(t, err, core.ErrNodeOutOfRange)

	_, err = core.NewWeightedGraph(2, []core.Edge{{I: 0, J: 1, W: math.NaN()}})
	require.ErrorIs(t, err, core.ErrBadWeight)

	_, err = core.NewWeightedGraph(2, []core.Edge{{I: 0, J: 1, W: -0.5}})
	require.ErrorIs(t, err, core.ErrBadWeight)

	g, err := core.NewWeightedGraph(0, nil)
	require.NoError(t, err)
	require.Equal(t, 0, g.N())
}

func TestWeightedGraphQueries(t *testing.T) {
	g, err := core.NewWeightedGraph(3, []core.Edge{
		{I: 2, J: 0, W: 0.5},
		{I: 0, J: 2, W: 0.7}, // duplicate keeps the max
		{I: 1, J: 1, W: 3},   // self-loop is implicit
		{I: 0, J: 1, W: 0},   // zero weight is no edge
	})
	require.NoError(t, err)

	require.Equal(t, 0.7, g.Weight(0, 2))
	require.Equal(t, 0.7, g.Weight(2, 0))
	require.Equal(t, 0.0, g.Weight(1, 1))
	require.Equal(t, 0.0, g.Weight(0, 1))
	require.Equal(t, 0.0, g.Weight(0, 9))
	require.Equal(t, 1, g.EdgeCount())
	require.Equal(t, []int{2}, g.Neighbors(0))
	require.Empty(t, g.Neighbors(1))
	require.Equal(t, []core.Edge{{I: 0, J: 2, W: 0.7}}, g.Edges())

	// Neighbors returns a copy.
	nb := g.Neighbors(0)
	nb[0] = 99
	require.Equal(t, []int{2}, g.Neighbors(0))
}

func TestWeightedGraphInduced(t *testing.T) {
	g := pathGraph(t, 1, 0.5, 0.25)
	sub, old, err := g.Induced([]bool{true, false, true, true})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 3}, old)
	require.Equal(t, 3, sub.N())
	require.Equal(t, []core.Edge{{I: 1, J: 2, W: 0.25}}, sub.Edges())

	_, _, err = g.Induced([]bool{true})
	require.ErrorIs(t, err, core.ErrMaskLength)
}

func TestWeightedGraphThreshold(t *testing.T) {
	// Weights 1/(1+d) for distances d = 0, 1, 3.
	g := pathGraph(t, 1, 0.5, 0.25)

	p, err := g.Threshold(1)
	require.NoError(t, err)
	require.True(t, p.Has(0, 1))
	require.True(t, p.Has(1, 2), "w=0.5 is exactly 1/(1+1)")
	require.False(t, p.Has(2, 3))
	require.True(t, p.Has(3, 3), "diagonal is always present")

	p0, err := g.Threshold(0)
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 1}}, p0.Edges())

	_, err = g.Threshold(-0.1)
	require.ErrorIs(t, err, core.ErrBadThreshold)
}

func TestRowsRoundTrip(t *testing.T) {
	g := pathGraph(t, 1, 0.5, 0.25)
	rows := g.Rows()
	rows[0][3] = 0.1
	rows[3][0] = 0.1

	h, err := core.FromRows(rows)
	require.NoError(t, err)
	require.Equal(t, 0.1, h.Weight(0, 3))
	require.Equal(t, 0.0, g.Weight(0, 3), "source graph is immutable")

	rows[3][0] = 0.2
	_, err = core.FromRows(rows)
	require.ErrorIs(t, err, core.ErrAsymmetric)
}
