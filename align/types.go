// SPDX-License-Identifier: MIT
// Package: align
//
// Input rows, options and the alignment result.

package align

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ldgm/matrix"
)

// Sentinel errors.
var (
	// ErrEmptyIntersection indicates no rsid occurs in both lists.
	ErrEmptyIntersection = errors.New("align: no variants shared by graph and data")

	// ErrMissingBrick indicates a graph variant without a brick index.
	ErrMissingBrick = errors.New("align: graph variant has no brick index")

	// ErrCountMismatch indicates the brick count implied by the graph list
	// differs from the graph dimension.
	ErrCountMismatch = errors.New("align: brick count does not match graph size")

	// ErrMissingAF indicates the configured AF source lacks a frequency.
	ErrMissingAF = errors.New("align: allele frequency missing")

	// ErrBadAFSource indicates an unknown AF source.
	ErrBadAFSource = errors.New("align: unknown allele frequency source")
)

// AFSource selects which list supplies allele frequencies.
type AFSource string

const (
	// AFFromGraph reads AF from the graph-side variant list.
	AFFromGraph AFSource = "graph"

	// AFFromData reads AF from the data-side variant list.
	AFFromData AFSource = "data"
)

// ParseAFSource validates a textual AF source.
func ParseAFSource(s string) (AFSource, error) {
	switch AFSource(s) {
	case AFFromGraph, AFFromData:
		return AFSource(s), nil
	default:
		return "", fmt.Errorf("align: %q: %w", s, ErrBadAFSource)
	}
}

// GraphVariant is one row of the LDGM's variant list.
type GraphVariant struct {
	// ID is the variant identifier (rsid).
	ID string

	// Brick is the LDGM node carrying this variant; negative means absent.
	Brick int

	// AF is the alternate allele frequency, meaningful only when HasAF is set.
	AF float64

	// HasAF reports whether the list carried a frequency for this variant.
	HasAF bool
}

// DataVariant is one row of the empirical data's variant list.
// Its position in the list is the row/column index into R.
type DataVariant struct {
	// ID is the variant identifier (rsid).
	ID string

	// AF is the alternate allele frequency, meaningful only when HasAF is set.
	AF float64

	// HasAF reports whether the list carried a frequency for this variant.
	HasAF bool
}

// Options configures Align.
type Options struct {
	// Source picks the list that supplies AF.
	Source AFSource

	// GraphSize is the LDGM dimension. When positive, the number of bricks
	// implied by the graph list (max index + 1) must equal it.
	GraphSize int
}

// Match is one variant present on both sides.
type Match struct {
	// ID is the shared rsid.
	ID string

	// DataRow is the variant's position in the data list.
	DataRow int

	// GraphRow is the variant's position in the graph list.
	GraphRow int

	// Brick is the variant's original brick index.
	Brick int
}

// Result is the aligned index space.
type Result struct {
	// Common is the intersection in data-side order.
	Common []Match

	// Bricks holds the original index of each surviving brick; the new dense
	// index of a brick is its position here.
	Bricks []int

	// Representative holds, per surviving brick, the data row chosen for it.
	Representative []int

	// RepresentativeID holds the rsid of each representative.
	RepresentativeID []string

	// Missing flags every original brick without any data-side variant.
	Missing []bool

	// AF and MAF are per surviving brick.
	AF  []float64
	MAF []float64

	// Correlation is R restricted to representatives in surviving-brick
	// order, or nil when Align was given no R.
	Correlation *matrix.Dense
}

// NumBricks returns the number of original bricks.
func (r *Result) NumBricks() int { return len(r.Missing) }

// NumMissing returns the number of original bricks without data.
func (r *Result) NumMissing() int {
	c := 0
	for _, m := range r.Missing {
		if m {
			c++
		}
	}

	return c
}
