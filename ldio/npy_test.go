package ldio_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/kshedden/gonpy"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/ldio"
	"github.com/katalvlaran/ldgm/matrix"
)

type closer struct{ io.Writer }

func (closer) Close() error { return nil }

func TestMatrixFileRoundTrip(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, 0.5, -0.25}, {0.5, 1, 1e-9}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "r.npy")
	require.NoError(t, ldio.WriteMatrix(path, m))

	back, err := ldio.ReadMatrix(path)
	require.NoError(t, err)
	require.Equal(t, 2, back.Rows())
	require.Equal(t, 3, back.Cols())
	require.Equal(t, m.RawData(), back.RawData())
}

func TestDecodeColumnMajorInt8(t *testing.T) {
	var buf bytes.Buffer
	npw, err := gonpy.NewWriter(closer{&buf})
	require.NoError(t, err)
	npw.Shape = []int{2, 3}
	npw.ColumnMajor = true
	// Column-major storage of [[1 0 1] [0 1 1]].
	require.NoError(t, npw.WriteInt8([]int8{1, 0, 0, 1, 1, 1}))

	m, err := ldio.DecodeMatrix(&buf)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0, 1, 0, 1, 1}, m.RawData())
	require.NoError(t, matrix.ValidateBinary(m))
}

func TestDecodeRejectsVectors(t *testing.T) {
	var buf bytes.Buffer
	npw, err := gonpy.NewWriter(closer{&buf})
	require.NoError(t, err)
	npw.Shape = []int{3}
	require.NoError(t, npw.WriteFloat64([]float64{1, 2, 3}))

	_, err = ldio.DecodeMatrix(&buf)
	require.ErrorIs(t, err, ldio.ErrBadShape)

	_, err = ldio.ReadMatrix(filepath.Join(t.TempDir(), "absent.npy"))
	require.Error(t, err)
}
