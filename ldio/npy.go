// SPDX-License-Identifier: MIT
// Package: ldio
//
// NumPy .npy matrices through github.com/kshedden/gonpy.
//
// Reading accepts any 2-D float or integer array in either memory order and
// converts it to a row-major float64 matrix. Writing always produces a
// little-endian row-major "<f8" array.

package ldio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kshedden/gonpy"

	"github.com/katalvlaran/ldgm/matrix"
)

const npyBufferSize = 1 << 20

// nopCloser lets gonpy close its writer without closing the underlying
// buffered stream, which the caller flushes.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// ReadMatrix loads a 2-D .npy file.
//
// Errors: ErrBadShape, ErrUnsupportedDtype, open/decode errors.
func ReadMatrix(path string) (*matrix.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ReadMatrix: %w", err)
	}
	defer f.Close()

	m, err := DecodeMatrix(bufio.NewReaderSize(f, npyBufferSize))
	if err != nil {
		return nil, fmt.Errorf("ReadMatrix %s: %w", path, err)
	}

	return m, nil
}

// DecodeMatrix reads one 2-D .npy array from r.
func DecodeMatrix(r io.Reader) (*matrix.Dense, error) {
	npr, err := gonpy.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("DecodeMatrix: %w", err)
	}
	if len(npr.Shape) != 2 {
		return nil, fmt.Errorf("DecodeMatrix: shape %v: %w", npr.Shape, ErrBadShape)
	}
	rows, cols := npr.Shape[0], npr.Shape[1]

	data, err := readFloat64(npr)
	if err != nil {
		return nil, fmt.Errorf("DecodeMatrix: %w", err)
	}
	if npr.ColumnMajor {
		data = toRowMajor(data, rows, cols)
	}

	m, err := matrix.NewDenseData(rows, cols, data)
	if err != nil {
		return nil, fmt.Errorf("DecodeMatrix: %w", err)
	}

	return m, nil
}

// readFloat64 widens every supported element type to float64.
func readFloat64(npr *gonpy.NpyReader) ([]float64, error) {
	switch npr.Dtype {
	case "f8":
		return npr.GetFloat64()
	case "f4":
		return widen[float32](npr.GetFloat32())
	case "i1":
		return widen[int8](npr.GetInt8())
	case "u1":
		return widen[uint8](npr.GetUint8())
	case "i2":
		return widen[int16](npr.GetInt16())
	case "u2":
		return widen[uint16](npr.GetUint16())
	case "i4":
		return widen[int32](npr.GetInt32())
	case "u4":
		return widen[uint32](npr.GetUint32())
	case "i8":
		return widen[int64](npr.GetInt64())
	case "u8":
		return widen[uint64](npr.GetUint64())
	default:
		return nil, fmt.Errorf("dtype %q: %w", npr.Dtype, ErrUnsupportedDtype)
	}
}

type number interface {
	~float32 | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

func widen[T number](xs []T, err error) ([]float64, error) {
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}

	return out, nil
}

func toRowMajor(data []float64, rows, cols int) []float64 {
	out := make([]float64, len(data))
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out[i*cols+j] = data[j*rows+i]
		}
	}

	return out
}

// WriteMatrix stores m as a row-major float64 .npy file, replacing any
// existing file.
func WriteMatrix(path string, m *matrix.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteMatrix: %w", err)
	}
	bufw := bufio.NewWriterSize(f, npyBufferSize)
	if err = EncodeMatrix(bufw, m); err != nil {
		f.Close()
		return fmt.Errorf("WriteMatrix %s: %w", path, err)
	}
	if err = bufw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("WriteMatrix %s: %w", path, err)
	}

	return f.Close()
}

// EncodeMatrix writes m to w as one .npy array.
func EncodeMatrix(w io.Writer, m *matrix.Dense) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return fmt.Errorf("EncodeMatrix: %w", err)
	}
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return fmt.Errorf("EncodeMatrix: %w", err)
	}
	npw.Shape = []int{m.Rows(), m.Cols()}
	if err = npw.WriteFloat64(m.RawData()); err != nil {
		return fmt.Errorf("EncodeMatrix: %w", err)
	}

	return nil
}
