// SPDX-License-Identifier: MIT

// Package ldgm estimates sparse precision matrices on linkage-disequilibrium
// graphical models (LDGMs).
//
// An LDGM is a sparse graph over haplotype "bricks" whose edge weights encode
// path distance. Given such a graph and an empirical correlation matrix R from
// a reference panel, the estimator finds a symmetric positive-definite P whose
// non-zeros lie on the thresholded graph and whose inverse matches R there.
//
// Packages:
//
//	matrix/     dense row-major matrices, validators, genotype statistics,
//	            gonum-backed Cholesky and SPD inversion
//	core/       immutable weighted graphs and boolean sparsity patterns
//	surgery/    node removal that patches paths through removed nodes
//	align/      variant-list intersection and brick renumbering
//	filter/     minor-allele-frequency filtering with patch policies
//	control/    banded and correlation-thresholded control patterns
//	precision/  row-wise coordinate descent, PSD repair and the fit workflow
//	dijkstra/   bounded shortest paths and path closure
//	ldio/       edge lists, variant tables and .npy matrices
//	pipeline/   configuration and end-to-end orchestration
//	cmd/ldgm/   command line
//
// Quick example, a three-brick path fitted against an AR(1) correlation:
//
//	A, _ := core.NewPattern(3, [][2]int{{0, 1}, {1, 2}})
//	R, _ := matrix.NewDenseFrom([][]float64{{1, .5, .25}, {.5, 1, .5}, {.25, .5, 1}})
//	res, _ := precision.Fit(ctx, A, R, precision.DefaultWorkflowConfig(), nil)
//	// res.P is tridiagonal and inverse(res.P) reproduces R.
package ldgm
