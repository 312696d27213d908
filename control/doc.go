// Package control builds ablation graphs matched in edge density to a real
// LDGM pattern.
//
// Two generators exist, and a run uses at most one of them:
//
//   - Banded: every pair with |i-j| <= h, where h = ceil(nnz/(2n)) and nnz
//     counts the off-diagonal non-zeros of the real pattern.
//   - CorrelationThresholded: every pair whose squared correlation exceeds
//     the empirical quantile of squared correlations at level 1-density,
//     density being the real pattern's fraction of non-zero off-diagonal pairs.
//
// Both return symmetric patterns over the same n bricks as the real graph and
// are deterministic for identical inputs.
package control
