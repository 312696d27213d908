// SPDX-License-Identifier: MIT
// Package: pipeline
//
// Sentinel errors.

package pipeline

import "errors"

var (
	// ErrInvalidConfig indicates a value outside its domain or a missing
	// required setting.
	ErrInvalidConfig = errors.New("pipeline: invalid configuration")

	// ErrConfigConflict indicates mutually exclusive settings were combined.
	ErrConfigConflict = errors.New("pipeline: conflicting configuration")

	// ErrDimensionMismatch indicates the correlation matrix does not match
	// the data variant list.
	ErrDimensionMismatch = errors.New("pipeline: correlation size does not match data variants")
)
