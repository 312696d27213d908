package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/matrix"
)

func TestValidateSymmetric(t *testing.T) {
	sym := mustDense(t, [][]float64{{1, 0.5}, {0.5, 1}})
	require.NoError(t, matrix.ValidateSymmetric(sym, 0))

	asym := mustDense(t, [][]float64{{1, 0.5}, {0.4, 1}})
	require.ErrorIs(t, matrix.ValidateSymmetric(asym, 1e-9), matrix.ErrAsymmetry)
	require.NoError(t, matrix.ValidateSymmetric(asym, 0.2), "within tolerance")

	rect := mustDense(t, [][]float64{{1, 2, 3}})
	require.ErrorIs(t, matrix.ValidateSymmetric(rect, 0), matrix.ErrNonSquare)

	require.ErrorIs(t, matrix.ValidateSymmetric(nil, 0), matrix.ErrNilMatrix)
}

func TestValidateBinary(t *testing.T) {
	require.NoError(t, matrix.ValidateBinary(mustDense(t, [][]float64{{0, 1}, {1, 1}})))
	require.ErrorIs(t,
		matrix.ValidateBinary(mustDense(t, [][]float64{{0, 2}, {1, 1}})),
		matrix.ErrNonBinaryGenotype)
}

func TestValidateVecLen(t *testing.T) {
	require.NoError(t, matrix.ValidateVecLen([]float64{1, 2}, 2))
	require.ErrorIs(t, matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch)
}
