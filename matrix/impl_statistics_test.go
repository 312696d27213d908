package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/matrix"
)

func TestAlleleFrequenciesAndCorrelation(t *testing.T) {
	// Columns: two uncorrelated common variants and one monomorphic site.
	X := mustDense(t, [][]float64{
		{1, 1, 1},
		{1, 0, 1},
		{0, 0, 1},
		{0, 1, 1},
	})

	af, err := matrix.AlleleFrequencies(X)
	require.NoError(t, err)
	require.Equal(t, []float64{0.5, 0.5, 1}, af)

	R, means, stds, err := matrix.Correlation(X)
	require.NoError(t, err)
	require.Equal(t, af, means)
	require.Equal(t, 0.0, stds[2])
	require.NoError(t, matrix.ValidateSymmetric(R, 0))

	want := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 0}}
	for i := range want {
		for j := range want[i] {
			v, _ := R.At(i, j)
			require.InDelta(t, want[i][j], v, 1e-12, "R[%d][%d]", i, j)
		}
	}
}

func TestStatisticsErrors(t *testing.T) {
	_, err := matrix.AlleleFrequencies(mustDense(t, [][]float64{{0, 2}}))
	require.ErrorIs(t, err, matrix.ErrNonBinaryGenotype)

	_, _, _, err = matrix.Correlation(mustDense(t, [][]float64{{0, 1}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, _, _, err = matrix.Correlation(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMinorAlleleFrequency(t *testing.T) {
	require.Equal(t, 0.25, matrix.MinorAlleleFrequency(0.75))
	require.Equal(t, 0.25, matrix.MinorAlleleFrequency(0.25))
	require.Equal(t, 0.0, matrix.MinorAlleleFrequency(1))
}
