// Package precision fits a sparse precision matrix P on a fixed sparsity
// pattern A by row-wise coordinate descent on
//
//	f(P) = -log det P + tr(R P) + λ Σ_{i≠j} |P_ij|,   supp(P) ⊆ A ∪ diag.
//
// Row sub-problem. Partition P around row i with neighbours N = A(i). With
// W = P⁻¹ maintained densely and s = R_ii, the Schur complement
// S = W₁₁ - w₁₂w₁₂ᵀ/w₂₂ equals P₁₁⁻¹, and the optimal row is
//
//	λ = 0:  S_NN β = -R_iN / s                        (Cholesky solve)
//	λ > 0:  β_a ← -soft(R_ia + s·Σ_{b≠a} S_ab β_b, λ) / (s·S_aa)   (lasso sweeps)
//	P_ii  = 1/s + βᵀ S_NN β
//
// after which W is refreshed by a rank-two update in O(m²).
//
// Decomposition. With the support restricted to A, the objective separates
// over the connected components of A. CoordinateDescent fits each component
// independently, optionally on several goroutines (WithWorkers). Each
// component runs the same sequential ascending-row schedule whatever the
// worker count, so results are bit-identical across worker counts and reruns.
//
// Workflow. Fit drives the full estimation as an explicit state machine:
//
//	Init → PenalizedFit → SupportSelection → PSDRepair → UnpenalizedFit → Done
//
// PSD repair adds k·step·I for the smallest k whose Cholesky succeeds and
// gives up with ErrRepairExhausted after a bounded number of steps.
package precision
