// SPDX-License-Identifier: MIT
// Package: ldio
//
// Edge lists: "i,j,weight" rows with 0-based node indices.
//
// Format:
//   - Fields are comma separated; surrounding spaces are ignored.
//   - Lines starting with '#' are comments.
//   - A first row whose index fields are not integers is treated as a header.
//   - Diagonal rows (i == j) declare a node; the node count is the largest
//     index plus one.

package ldio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// EdgeList is the parsed content of an edge-list file.
type EdgeList struct {
	// N is the largest node index plus one.
	N int

	// Edges holds the rows in file order, diagonal rows included.
	Edges []core.Edge
}

// Weighted builds an undirected weighted graph over N nodes. Diagonal rows
// are dropped by the graph constructor.
func (l *EdgeList) Weighted() (*core.WeightedGraph, error) {
	return core.NewWeightedGraph(l.N, l.Edges)
}

// Dense builds a symmetric N×N matrix with every row stored at (i,j) and
// (j,i). Later rows overwrite earlier ones.
func (l *EdgeList) Dense() (*matrix.Dense, error) {
	m, err := matrix.NewDense(l.N, l.N)
	if err != nil {
		return nil, fmt.Errorf("EdgeList.Dense: %w", err)
	}
	for _, e := range l.Edges {
		if err = m.Set(e.I, e.J, e.W); err != nil {
			return nil, fmt.Errorf("EdgeList.Dense: %w", err)
		}
		if err = m.Set(e.J, e.I, e.W); err != nil {
			return nil, fmt.Errorf("EdgeList.Dense: %w", err)
		}
	}

	return m, nil
}

func newEdgeReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return cr
}

// ReadEdgeList parses an edge list. Weights may be any finite value; range
// checks belong to the consumer.
//
// Errors: ErrMalformedRow (with line number), ErrEmptyInput, read errors.
func ReadEdgeList(r io.Reader) (*EdgeList, error) {
	cr := newEdgeReader(r)
	out := &EdgeList{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("ReadEdgeList: line %d: %v: %w", pe.Line, pe.Err, ErrMalformedRow)
			}

			return nil, fmt.Errorf("ReadEdgeList: %w", err)
		}
		line, _ := cr.FieldPos(0)
		i, errI := strconv.Atoi(rec[0])
		j, errJ := strconv.Atoi(rec[1])
		if errI != nil || errJ != nil {
			if first {
				first = false
				continue
			}

			return nil, fmt.Errorf("ReadEdgeList: line %d: indices %q,%q: %w", line, rec[0], rec[1], ErrMalformedRow)
		}
		first = false
		w, err := strconv.ParseFloat(rec[2], 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("ReadEdgeList: line %d: weight %q: %w", line, rec[2], ErrMalformedRow)
		}
		if i < 0 || j < 0 {
			return nil, fmt.Errorf("ReadEdgeList: line %d: negative index: %w", line, ErrMalformedRow)
		}
		out.Edges = append(out.Edges, core.Edge{I: i, J: j, W: w})
		out.N = max(out.N, i+1, j+1)
	}
	if len(out.Edges) == 0 {
		return nil, fmt.Errorf("ReadEdgeList: %w", ErrEmptyInput)
	}

	return out, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// WriteEdges writes rows in the given order with the shortest exact float
// representation.
func WriteEdges(w io.Writer, edges []core.Edge) error {
	cw := csv.NewWriter(w)
	for _, e := range edges {
		if err := cw.Write([]string{strconv.Itoa(e.I), strconv.Itoa(e.J), formatFloat(e.W)}); err != nil {
			return fmt.Errorf("WriteEdges: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteEdges: %w", err)
	}

	return nil
}

// WriteWeighted writes every edge of g once, I < J, in ascending order.
func WriteWeighted(w io.Writer, g *core.WeightedGraph) error {
	return WriteEdges(w, g.Edges())
}

// WritePrecision writes the upper triangle of a symmetric matrix, diagonal
// included, skipping entries with |v| <= tol. Diagonal entries are always
// written so the node count survives a round trip.
//
// Errors: matrix.ErrNonSquare, write errors.
func WritePrecision(w io.Writer, P *matrix.Dense, tol float64) error {
	if err := matrix.ValidateSquare(P); err != nil {
		return fmt.Errorf("WritePrecision: %w", err)
	}
	n := P.Rows()
	data := P.RawData()
	var edges []core.Edge
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := data[i*n+j]
			if i == j || math.Abs(v) > tol {
				edges = append(edges, core.Edge{I: i, J: j, W: v})
			}
		}
	}

	return WriteEdges(w, edges)
}
