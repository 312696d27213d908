// SPDX-License-Identifier: MIT
// Package: ldio
//
// Sentinel errors.

package ldio

import "errors"

var (
	// ErrMalformedRow indicates a row with the wrong field count or an
	// unparsable value.
	ErrMalformedRow = errors.New("ldio: malformed row")

	// ErrMissingColumn indicates a required header column is absent.
	ErrMissingColumn = errors.New("ldio: missing column")

	// ErrEmptyInput indicates a file with no header or no rows where some
	// are required.
	ErrEmptyInput = errors.New("ldio: empty input")

	// ErrUnsupportedDtype indicates a .npy element type this package does
	// not convert.
	ErrUnsupportedDtype = errors.New("ldio: unsupported .npy dtype")

	// ErrBadShape indicates a .npy array that is not two-dimensional.
	ErrBadShape = errors.New("ldio: .npy array is not a matrix")
)
