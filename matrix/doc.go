// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra primitives used by the
// LD precision pipeline: a row-major Dense matrix with error-returning
// accessors, canonical validators, a handful of deterministic kernels
// (Mul, Transpose, Sub, Hadamard), genotype statistics (allele
// frequencies, Pearson correlation) and gonum-backed factorizations
// (Cholesky definiteness checks and symmetric inversion).
//
// Conventions:
//
//   - Every public function validates its inputs and returns package
//     sentinels (see errors.go) wrapped with an operation tag; callers match
//     with errors.Is.
//   - All loops run in a fixed i→j order, so every result is bit-reproducible.
//   - Inputs are never mutated; results are freshly allocated.
//
// Correlation matrices (R) and precision estimates (P) travel through the
// pipeline as *Dense. Factorizations convert to gonum's *mat.SymDense at the
// boundary via ToSym / FromSym.
package matrix
