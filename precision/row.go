// SPDX-License-Identifier: MIT
// Package: precision
//
// Purpose:
//   - Per-component state (P, W = P⁻¹) and the row update.
//
// Determinism:
//   - Fixed loop orders everywhere; W is updated on its upper triangle and
//     mirrored, so W and P stay exactly symmetric.

package precision

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitter holds one connected component in local indices 0..m-1.
type fitter struct {
	m   int
	nbr [][]int   // local neighbour rows, ascending
	r   []float64 // m×m correlation block, row-major
	p   []float64 // m×m precision block
	w   []float64 // m×m inverse of p

	penalty         float64
	lassoIterations int

	wi []float64 // scratch: old column i of W
	u  []float64 // scratch: S[:,N]·β
}

// newFitter prepares a component. p0/w0 are the initial precision and its
// inverse; nil means identity.
func newFitter(nbr [][]int, r, p0, w0 []float64, o options) *fitter {
	m := len(nbr)
	f := &fitter{
		m:               m,
		nbr:             nbr,
		r:               r,
		p:               make([]float64, m*m),
		w:               make([]float64, m*m),
		penalty:         o.penalty,
		lassoIterations: o.lassoIterations,
		wi:              make([]float64, m),
		u:               make([]float64, m),
	}
	if p0 == nil {
		for i := 0; i < m; i++ {
			f.p[i*m+i] = 1
			f.w[i*m+i] = 1
		}
	} else {
		copy(f.p, p0)
		copy(f.w, w0)
	}

	return f
}

// sweep updates every row once in ascending order.
func (f *fitter) sweep() error {
	for i := 0; i < f.m; i++ {
		if err := f.updateRow(i); err != nil {
			return err
		}
	}

	return nil
}

// updateRow solves the row-i sub-problem and refreshes P and W.
//
// Implementation:
//   - Stage 1: Form S_NN = W_NN - w_N w_Nᵀ / w_ii (Schur complement block).
//   - Stage 2: Solve for β (Cholesky when λ = 0, lasso sweeps otherwise).
//   - Stage 3: P_ii = 1/s + βᵀ S_NN β.
//   - Stage 4: u = S[:,N]β; W₁₁ ← S + s·u uᵀ, w₁₂ ← -s·u, w₂₂ ← s.
//
// Complexity: O(k³ + m·k + m²) for k = |N|.
func (f *fitter) updateRow(i int) error {
	m := f.m
	nb := f.nbr[i]
	k := len(nb)
	s := f.r[i*m+i]
	wii := f.w[i*m+i]

	var r, c, a, b int
	for r = 0; r < m; r++ {
		f.wi[r] = f.w[r*m+i]
	}

	snn := make([]float64, k*k)
	for a = 0; a < k; a++ {
		for b = 0; b < k; b++ {
			snn[a*k+b] = f.w[nb[a]*m+nb[b]] - (f.wi[nb[a]]*f.wi[nb[b]])/wii
		}
	}

	beta := make([]float64, k)
	if k > 0 {
		var err error
		if f.penalty == 0 {
			beta, err = f.solveLeastSquares(i, snn)
		} else {
			f.lasso(i, snn, beta)
		}
		if err != nil {
			return err
		}
	}

	quad := 0.0
	for a = 0; a < k; a++ {
		row := 0.0
		for b = 0; b < k; b++ {
			row += snn[a*k+b] * beta[b]
		}
		quad += beta[a] * row
	}
	diag := 1/s + quad

	t := 0.0
	for b = 0; b < k; b++ {
		t += f.wi[nb[b]] * beta[b]
	}
	for r = 0; r < m; r++ {
		if r == i {
			f.u[r] = 0
			continue
		}
		sum := 0.0
		for b = 0; b < k; b++ {
			sum += f.w[r*m+nb[b]] * beta[b]
		}
		f.u[r] = sum - f.wi[r]*t/wii
	}

	var v float64
	for r = 0; r < m; r++ {
		if r == i {
			continue
		}
		for c = r; c < m; c++ {
			if c == i {
				continue
			}
			v = f.w[r*m+c] - (f.wi[r]*f.wi[c])/wii + s*(f.u[r]*f.u[c])
			f.w[r*m+c] = v
			f.w[c*m+r] = v
		}
		v = -s * f.u[r]
		f.w[r*m+i] = v
		f.w[i*m+r] = v
	}
	f.w[i*m+i] = s

	for a = 0; a < k; a++ {
		f.p[i*m+nb[a]] = beta[a]
		f.p[nb[a]*m+i] = beta[a]
	}
	f.p[i*m+i] = diag

	return nil
}

// solveLeastSquares solves S_NN β = -R_iN / s through gonum's Cholesky.
func (f *fitter) solveLeastSquares(i int, snn []float64) ([]float64, error) {
	m, nb, k := f.m, f.nbr[i], len(f.nbr[i])
	s := f.r[i*m+i]

	sym := mat.NewSymDense(k, append([]float64(nil), snn...))
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("row %d: Schur block: %w", i, ErrNotPositiveDefinite)
	}
	rhs := make([]float64, k)
	for a, j := range nb {
		rhs[a] = -f.r[i*m+j] / s
	}
	x := mat.NewVecDense(k, nil)
	if err := chol.SolveVecTo(x, mat.NewVecDense(k, rhs)); err != nil {
		// Ill-conditioning is reported but the solution is still produced.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	beta := make([]float64, k)
	for a := 0; a < k; a++ {
		beta[a] = x.AtVec(a)
	}

	return beta, nil
}

// lasso runs soft-thresholding coordinate sweeps on β, starting from the
// current row of P.
func (f *fitter) lasso(i int, snn, beta []float64) {
	m, nb, k := f.m, f.nbr[i], len(f.nbr[i])
	s := f.r[i*m+i]
	var a, b, it int
	for a = 0; a < k; a++ {
		beta[a] = f.p[i*m+nb[a]]
	}
	for it = 0; it < f.lassoIterations; it++ {
		for a = 0; a < k; a++ {
			g := f.r[i*m+nb[a]]
			acc := 0.0
			for b = 0; b < k; b++ {
				if b != a {
					acc += snn[a*k+b] * beta[b]
				}
			}
			g += s * acc
			beta[a] = -softThreshold(g, f.penalty) / (s * snn[a*k+a])
		}
	}
}

// softThreshold returns sign(x)·max(|x|-λ, 0).
func softThreshold(x, lambda float64) float64 {
	switch {
	case x > lambda:
		return x - lambda
	case x < -lambda:
		return x + lambda
	default:
		return 0
	}
}

// objective evaluates -log det P + tr(R P) + λ Σ_{i≠j}|P_ij| for the
// component; +Inf when P is not positive definite.
func (f *fitter) objective() float64 {
	m := f.m
	sym := mat.NewSymDense(m, append([]float64(nil), f.p...))
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return math.Inf(1)
	}
	val := -chol.LogDet()
	var i, j int
	for i = 0; i < m; i++ {
		for j = 0; j < m; j++ {
			val += f.r[i*m+j] * f.p[j*m+i]
			if i != j {
				val += f.penalty * math.Abs(f.p[i*m+j])
			}
		}
	}

	return val
}
