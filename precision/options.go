// SPDX-License-Identifier: MIT
// Package: precision
//
// Functional options for CoordinateDescent.
//
// Contract:
//   - Option constructors validate and PANIC on meaningless inputs.
//   - CoordinateDescent itself never panics on user data.

package precision

import (
	"fmt"
	"math"

	"github.com/katalvlaran/ldgm/matrix"
)

// Default option values.
const (
	DefaultIterations      = 10
	DefaultLassoIterations = 10
)

// Option customizes a CoordinateDescent call.
type Option func(*options)

type options struct {
	iterations      int
	penalty         float64
	lassoIterations int
	warmStart       matrix.Matrix
	workers         int
}

func defaultOptions() options {
	return options{
		iterations:      DefaultIterations,
		lassoIterations: DefaultLassoIterations,
		workers:         1,
	}
}

// WithIterations sets the number of outer sweeps over all rows.
// Panics if k < 0.
func WithIterations(k int) Option {
	if k < 0 {
		panic(fmt.Sprintf("precision: WithIterations(%d)", k))
	}

	return func(o *options) { o.iterations = k }
}

// WithPenalty sets the L1 penalty λ on off-diagonal entries; 0 disables it.
// Panics on negative, NaN or infinite λ.
func WithPenalty(lambda float64) Option {
	if lambda < 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		panic(fmt.Sprintf("precision: WithPenalty(%v)", lambda))
	}

	return func(o *options) { o.penalty = lambda }
}

// WithLassoIterations sets the inner soft-thresholding sweeps per row when
// the penalty is positive. Panics if k < 0.
func WithLassoIterations(k int) Option {
	if k < 0 {
		panic(fmt.Sprintf("precision: WithLassoIterations(%d)", k))
	}

	return func(o *options) { o.lassoIterations = k }
}

// WithWarmStart initializes P from a symmetric positive-definite matrix.
// Entries outside the pattern are discarded. Panics on nil.
func WithWarmStart(p matrix.Matrix) Option {
	if p == nil {
		panic("precision: WithWarmStart(nil)")
	}

	return func(o *options) { o.warmStart = p }
}

// WithWorkers bounds the number of components fitted concurrently.
// Panics if w < 1.
func WithWorkers(w int) Option {
	if w < 1 {
		panic(fmt.Sprintf("precision: WithWorkers(%d)", w))
	}

	return func(o *options) { o.workers = w }
}
