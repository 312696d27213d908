package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/filter"
	"github.com/katalvlaran/ldgm/matrix"
)

// chain builds 0-1-2-3-4 with unit weights.
func chain(t *testing.T) *core.WeightedGraph {
	t.Helper()
	g, err := core.NewWeightedGraph(5, []core.Edge{
		{I: 0, J: 1, W: 0.5}, {I: 1, J: 2, W: 0.5}, {I: 2, J: 3, W: 0.5}, {I: 3, J: 4, W: 0.5},
	})
	require.NoError(t, err)

	return g
}

// input marks brick 1 missing and gives brick 3 a low MAF.
func input(t *testing.T) filter.Input {
	t.Helper()
	R, err := matrix.NewIdentity(4)
	require.NoError(t, err)

	return filter.Input{
		Graph:       chain(t),
		Missing:     []bool{false, true, false, false, false},
		MAF:         []float64{0.3, 0.2, 0.01, 0.4},
		AF:          []float64{0.3, 0.8, 0.99, 0.4},
		Correlation: R,
	}
}

func TestApplyThresholdZeroIsNoOp(t *testing.T) {
	in := input(t)
	in.Missing = make([]bool, 5)
	in.MAF = []float64{0.3, 0, 0.2, 0.01, 0.4}
	in.AF = nil
	R, err := matrix.NewIdentity(5)
	require.NoError(t, err)
	in.Correlation = R

	out, err := filter.Apply(in, 0, filter.PatchBoth)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, out.Bricks)
	require.Equal(t, in.Graph.Edges(), out.Graph.Edges())
	require.Equal(t, R.RawData(), out.Correlation.RawData())
	require.Zero(t, out.LowFrequency)
	require.Zero(t, out.Surgery.Removed)
}

func TestApplyPolicies(t *testing.T) {
	cases := []struct {
		policy filter.Policy
		edges  []core.Edge
	}{
		// Final bricks are original 0, 2, 4.
		{filter.Drop, []core.Edge{}},
		{filter.PatchMissing, []core.Edge{{I: 0, J: 1, W: 0.25}}},
		{filter.PatchBoth, []core.Edge{{I: 0, J: 1, W: 0.25}, {I: 1, J: 2, W: 0.25}}},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			out, err := filter.Apply(input(t), 0.05, tc.policy)
			require.NoError(t, err)
			require.Equal(t, []int{0, 2, 4}, out.Bricks)
			require.Equal(t, []bool{true, true, false, true}, out.Keep)
			require.Equal(t, 1, out.LowFrequency)
			require.Equal(t, []float64{0.3, 0.2, 0.4}, out.MAF)
			require.Equal(t, []float64{0.3, 0.8, 0.4}, out.AF)
			require.Equal(t, 3, out.Correlation.Rows())
			require.Equal(t, tc.edges, out.Graph.Edges())
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := filter.Apply(input(t), 0.05, "patch")
	require.ErrorIs(t, err, filter.ErrBadPolicy)

	_, err = filter.Apply(input(t), 0.9, filter.Drop)
	require.ErrorIs(t, err, filter.ErrNothingRetained)

	in := input(t)
	in.MAF = in.MAF[:2]
	_, err = filter.Apply(in, 0.05, filter.Drop)
	require.ErrorIs(t, err, filter.ErrLengthMismatch)
}

func TestMask(t *testing.T) {
	require.Equal(t, []bool{false, true, false}, filter.Mask([]float64{0.01, 0.2, 0.05}, 0.05))
	require.Equal(t, []bool{true, true}, filter.Mask([]float64{0, 0.2}, 0))
}
