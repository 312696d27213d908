package precision_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/matrix"
	"github.com/katalvlaran/ldgm/precision"
)

func TestRepairPSDSmallestMultiple(t *testing.T) {
	// Eigenvalues 3 and -1: shift must exceed 1.
	P, err := matrix.NewDenseFrom([][]float64{{1, 2}, {2, 1}})
	require.NoError(t, err)

	rep, err := precision.RepairPSD(P, 0.4, 10)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Steps)
	require.InDelta(t, 1.2, rep.Shift, 1e-12)
	require.InDeltaSlice(t, []float64{2.2, 2, 2, 2.2}, rep.P.RawData(), 1e-12)
	require.Equal(t, []float64{1, 2, 2, 1}, P.RawData(), "input is untouched")

	_, err = precision.RepairPSD(P, 0.4, 2)
	require.ErrorIs(t, err, precision.ErrRepairExhausted)

	_, err = precision.RepairPSD(P, 0, 2)
	require.ErrorIs(t, err, precision.ErrInvalidConfig)
}

func TestRepairPSDAlreadyDefinite(t *testing.T) {
	P, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	rep, err := precision.RepairPSD(P, precision.DefaultRepairStep, precision.DefaultMaxRepairSteps)
	require.NoError(t, err)
	require.Zero(t, rep.Steps)
	require.Zero(t, rep.Shift)
}

func TestSelectSupport(t *testing.T) {
	P, err := matrix.NewDenseFrom([][]float64{
		{1, 1e-13, 0.4},
		{1e-13, 1, 0},
		{0.4, 0, 1},
	})
	require.NoError(t, err)
	sup, clean, err := precision.SelectSupport(P, precision.SupportTolerance)
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 2}}, sup.Edges())
	require.Equal(t, []float64{1, 0, 0.4, 0, 1, 0, 0.4, 0, 1}, clean.RawData())
}

func TestEvaluate(t *testing.T) {
	R, err := matrix.NewDenseFrom([][]float64{{1, 0.5}, {0.5, 1}})
	require.NoError(t, err)
	I, err := matrix.NewIdentity(2)
	require.NoError(t, err)

	m, err := precision.Evaluate(R, I)
	require.NoError(t, err)
	require.InDelta(t, 0.125, m.MSE, 1e-15)
	require.InDelta(t, 0.125, m.TraceMSE, 1e-15)

	inv, err := matrix.InverseSPD(R)
	require.NoError(t, err)
	m, err = precision.Evaluate(R, inv)
	require.NoError(t, err)
	require.InDelta(t, 0, m.MSE, 1e-20)
	require.InDelta(t, 0, m.TraceMSE, 1e-20)

	bad, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	_, err = precision.Evaluate(R, bad)
	require.ErrorIs(t, err, precision.ErrDimensionMismatch)
}
