// SPDX-License-Identifier: MIT
// Package filter removes low-frequency variants from an aligned LDGM.
//
// A brick is retained iff MAF > threshold. What happens to the graph edges
// that ran through a removed brick depends on the Policy:
//
//	drop          remove missing and low-frequency bricks without patching
//	patch-missing patch paths through bricks missing from the data, drop
//	              low-frequency bricks
//	patch-both    patch paths through both kinds of removed bricks
//
// The same Policy value is shared with the alignment step, which decides
// which bricks are missing.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
	"github.com/katalvlaran/ldgm/surgery"
)

// Sentinel errors.
var (
	// ErrBadPolicy indicates an unknown policy name.
	ErrBadPolicy = errors.New("filter: unknown policy")

	// ErrBadThreshold indicates a NaN or infinite MAF threshold.
	ErrBadThreshold = errors.New("filter: bad MAF threshold")

	// ErrNothingRetained indicates that no brick passes the filter.
	ErrNothingRetained = errors.New("filter: no brick passes the MAF threshold")

	// ErrLengthMismatch indicates inconsistent input lengths.
	ErrLengthMismatch = errors.New("filter: input length mismatch")
)

// Policy selects which removed bricks are patched by graph surgery.
type Policy string

const (
	// Drop removes bricks without patching.
	Drop Policy = "drop"

	// PatchMissing patches bricks missing from the data only.
	PatchMissing Policy = "patch-missing"

	// PatchBoth patches missing and low-frequency bricks.
	PatchBoth Policy = "patch-both"
)

// ParsePolicy validates a textual policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case Drop, PatchMissing, PatchBoth:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("filter: %q: %w", s, ErrBadPolicy)
	}
}

// Mask returns keep[i] = maf[i] > threshold. A threshold <= 0 disables the
// filter and keeps every brick, monomorphic ones included.
func Mask(maf []float64, threshold float64) []bool {
	keep := make([]bool, len(maf))
	for i, m := range maf {
		keep[i] = threshold <= 0 || m > threshold
	}

	return keep
}

// Input is an aligned problem ready for filtering.
type Input struct {
	// Graph is the weighted LDGM over all original bricks.
	Graph *core.WeightedGraph

	// Missing flags original bricks without data (len = Graph.N()).
	Missing []bool

	// MAF is per surviving brick, in surviving order.
	MAF []float64

	// AF is per surviving brick; optional.
	AF []float64

	// Correlation is over surviving bricks; optional.
	Correlation *matrix.Dense
}

// Output is the filtered problem.
type Output struct {
	// Graph is the weighted LDGM over the final bricks.
	Graph *core.WeightedGraph

	// Keep flags surviving bricks that pass the MAF filter (len = len(In.MAF)).
	Keep []bool

	// Bricks lists the original index of every final brick.
	Bricks []int

	// MAF, AF and Correlation are restricted to the final bricks.
	MAF         []float64
	AF          []float64
	Correlation *matrix.Dense

	// LowFrequency counts surviving bricks removed by the threshold.
	LowFrequency int

	// Surgery reports the patching pass; zero for Drop.
	Surgery surgery.Report
}

// Apply filters an aligned problem by MAF and applies the policy to the graph.
//
// Implementation:
//   - Stage 1: Validate lengths and threshold; compute the MAF keep mask.
//   - Stage 2: Lift the mask to original brick indices.
//   - Stage 3: Shrink the graph per policy:
//     Drop          → Induced(final)
//     PatchMissing  → Reduce(missing) then Induced(keep)
//     PatchBoth     → Reduce(missing ∪ low-frequency)
//   - Stage 4: Restrict MAF, AF and Correlation to the kept bricks.
//
// Errors: ErrBadPolicy, ErrBadThreshold, ErrLengthMismatch, ErrNothingRetained.
func Apply(in Input, threshold float64, policy Policy) (*Output, error) {
	if _, err := ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return nil, fmt.Errorf("filter: threshold=%v: %w", threshold, ErrBadThreshold)
	}
	if in.Graph == nil || len(in.Missing) != in.Graph.N() {
		return nil, fmt.Errorf("filter: missing mask does not match graph: %w", ErrLengthMismatch)
	}
	surviving := 0
	for _, m := range in.Missing {
		if !m {
			surviving++
		}
	}
	if len(in.MAF) != surviving || (in.AF != nil && len(in.AF) != surviving) {
		return nil, fmt.Errorf("filter: %d surviving bricks, %d MAF values: %w", surviving, len(in.MAF), ErrLengthMismatch)
	}
	if in.Correlation != nil && in.Correlation.Rows() != surviving {
		return nil, fmt.Errorf("filter: correlation has %d rows for %d bricks: %w",
			in.Correlation.Rows(), surviving, ErrLengthMismatch)
	}

	keep := Mask(in.MAF, threshold)
	out := &Output{Keep: keep}
	lowOrig := make([]bool, len(in.Missing))
	finalOrig := make([]bool, len(in.Missing))
	k := 0
	for b, m := range in.Missing {
		if m {
			continue
		}
		if keep[k] {
			finalOrig[b] = true
			out.Bricks = append(out.Bricks, b)
			out.MAF = append(out.MAF, in.MAF[k])
			if in.AF != nil {
				out.AF = append(out.AF, in.AF[k])
			}
		} else {
			lowOrig[b] = true
			out.LowFrequency++
		}
		k++
	}
	if len(out.Bricks) == 0 {
		return nil, ErrNothingRetained
	}

	var err error
	switch policy {
	case Drop:
		out.Graph, _, err = in.Graph.Induced(finalOrig)
	case PatchMissing:
		var patched *core.WeightedGraph
		patched, out.Surgery, err = surgery.Reduce(in.Graph, in.Missing)
		if err == nil {
			out.Graph, _, err = patched.Induced(keep)
		}
	case PatchBoth:
		remove := make([]bool, len(in.Missing))
		for b := range remove {
			remove[b] = in.Missing[b] || lowOrig[b]
		}
		out.Graph, out.Surgery, err = surgery.Reduce(in.Graph, remove)
	}
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	if in.Correlation != nil {
		if out.Correlation, err = in.Correlation.Mask(keep); err != nil {
			return nil, fmt.Errorf("filter: %w", err)
		}
	}

	return out, nil
}
