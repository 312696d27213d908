package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/matrix"
)

func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// hide wraps any Matrix to hide its concrete type and force the generic path.
type hide struct{ matrix.Matrix }

func TestMul(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	b := mustDense(t, [][]float64{{0, 1}, {1, 0}})

	c, err := matrix.Mul(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{2, 1, 4, 3}, c.RawData())

	// Generic path must agree bitwise with the Dense path.
	g, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)
	require.Equal(t, c.RawData(), g.RawData())

	_, err = matrix.Mul(a, mustDense(t, [][]float64{{1, 2, 3}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSubHadamardTranspose(t *testing.T) {
	a := mustDense(t, [][]float64{{1, 2}, {3, 4}})
	b := mustDense(t, [][]float64{{1, 1}, {1, 1}})

	d, err := matrix.Sub(a, b)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 1, 2, 3}, d.RawData())

	h, err := matrix.Hadamard(a, a)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 4, 9, 16}, h.RawData())

	tr, err := matrix.Transpose(a)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3, 2, 4}, tr.RawData())

	_, err = matrix.Sub(a, mustDense(t, [][]float64{{1}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.Hadamard(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMean(t *testing.T) {
	mean, err := matrix.Mean(mustDense(t, [][]float64{{1, 2}, {3, 6}}))
	require.NoError(t, err)
	require.Equal(t, 3.0, mean)
}
