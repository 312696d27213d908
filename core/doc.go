// Package core provides the immutable graph values shared by every stage of
// the LDGM pipeline.
//
// Two types cover the whole pipeline:
//
//   - WeightedGraph: an undirected graph over bricks 0..n-1 whose edge weights
//     are path strengths in (0, ∞). Self-loops are implicit and never stored.
//     It is the input to graph surgery and the output of path closure.
//
//   - Pattern: a boolean sparsity pattern over bricks 0..n-1. The diagonal is
//     always present. A Pattern built from explicit rows may be asymmetric;
//     Validate reports that case so estimators can refuse it.
//
// A Pattern is derived from a WeightedGraph by Threshold(t), which keeps the
// pair (i,j) iff W[i][j] + I[i][j] >= 1/(1+t).
//
// Determinism:
//
//   - Neighbors, Edges and Components always return ascending indices, so
//     every consumer iterates in the same order on every run.
//
// Concurrency:
//
//   - Both types are read-only after construction and safe for concurrent use
//     without locking. Every "mutating" operation (Induced, Threshold) returns
//     a new value.
//
// Complexity:
//
//   - Weight / Has: O(log d) by binary search over the sorted neighbor row.
//   - Neighbors: O(d), returns a copy.
//   - Components: O(n + E) plus the sort of each component.
package core
