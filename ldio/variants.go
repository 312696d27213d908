// SPDX-License-Identifier: MIT
// Package: ldio
//
// Variant tables: header row plus one row per variant.
//
// Columns (matched case-insensitively, any order, extra columns ignored):
//   - rsid            required; variant identifier.
//   - index           optional; LDGM brick carrying the variant.
//   - AF_<population> optional; alternate allele frequency ("AF" when the
//     population is empty).
//
// The delimiter is a tab when the header line contains one, a comma
// otherwise. Empty, "NA" and "nan" cells are missing values.

package ldio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/ldgm/align"
)

// Column names.
const (
	ColumnID    = "rsid"
	ColumnIndex = "index"
	ColumnAF    = "AF"
)

// AFColumn returns the frequency column name for a population.
func AFColumn(population string) string {
	if population == "" {
		return ColumnAF
	}

	return ColumnAF + "_" + population
}

// Variant is one parsed table row.
type Variant struct {
	ID    string
	Brick int // -1 when the index cell is missing
	AF    float64
	HasAF bool
}

// VariantTable is a parsed variant table.
type VariantTable struct {
	// Rows in file order.
	Rows []Variant

	// HasIndex and HasAF report which optional columns were present.
	HasIndex bool
	HasAF    bool
}

// GraphVariants converts rows to alignment input for the LDGM side.
func (t *VariantTable) GraphVariants() []align.GraphVariant {
	out := make([]align.GraphVariant, len(t.Rows))
	for k, v := range t.Rows {
		out[k] = align.GraphVariant{ID: v.ID, Brick: v.Brick, AF: v.AF, HasAF: v.HasAF}
	}

	return out
}

// DataVariants converts rows to alignment input for the data side.
func (t *VariantTable) DataVariants() []align.DataVariant {
	out := make([]align.DataVariant, len(t.Rows))
	for k, v := range t.Rows {
		out[k] = align.DataVariant{ID: v.ID, AF: v.AF, HasAF: v.HasAF}
	}

	return out
}

func missingCell(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return true
	}

	return false
}

// ReadVariants parses a variant table, taking frequencies from the
// AF_<population> column.
//
// Errors: ErrEmptyInput, ErrMissingColumn (rsid), ErrMalformedRow (bad
// index or frequency, with line number), read errors.
func ReadVariants(r io.Reader, population string) (*VariantTable, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ReadVariants: %w", err)
	}
	if strings.TrimSpace(header) == "" {
		return nil, fmt.Errorf("ReadVariants: %w", ErrEmptyInput)
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(header), br))
	cr.Comma = ','
	if strings.ContainsRune(header, '\t') {
		cr.Comma = '\t'
	}
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	names, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("ReadVariants: header: %v: %w", err, ErrMalformedRow)
	}
	cr.FieldsPerRecord = len(names)

	idCol, idxCol, afCol := -1, -1, -1
	afName := AFColumn(population)
	for k, name := range names {
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, ColumnID):
			idCol = k
		case strings.EqualFold(name, ColumnIndex):
			idxCol = k
		case strings.EqualFold(name, afName):
			afCol = k
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("ReadVariants: %q: %w", ColumnID, ErrMissingColumn)
	}

	t := &VariantTable{HasIndex: idxCol >= 0, HasAF: afCol >= 0}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, fmt.Errorf("ReadVariants: line %d: %v: %w", pe.Line, pe.Err, ErrMalformedRow)
			}

			return nil, fmt.Errorf("ReadVariants: %w", err)
		}
		line, _ := cr.FieldPos(0)

		v := Variant{ID: strings.TrimSpace(rec[idCol]), Brick: -1}
		if idxCol >= 0 && !missingCell(rec[idxCol]) {
			b, err := strconv.Atoi(strings.TrimSpace(rec[idxCol]))
			if err != nil || b < 0 {
				return nil, fmt.Errorf("ReadVariants: line %d: index %q: %w", line, rec[idxCol], ErrMalformedRow)
			}
			v.Brick = b
		}
		if afCol >= 0 && !missingCell(rec[afCol]) {
			af, err := strconv.ParseFloat(strings.TrimSpace(rec[afCol]), 64)
			if err != nil || math.IsNaN(af) || af < 0 || af > 1 {
				return nil, fmt.Errorf("ReadVariants: line %d: %s %q: %w", line, afName, rec[afCol], ErrMalformedRow)
			}
			v.AF, v.HasAF = af, true
		}
		t.Rows = append(t.Rows, v)
	}

	return t, nil
}

// WriteVariants writes rows as a comma-separated table with columns
// index, rsid and, when withAF is set, AF_<population>.
func WriteVariants(w io.Writer, rows []Variant, population string, withAF bool) error {
	cw := csv.NewWriter(w)
	header := []string{ColumnIndex, ColumnID}
	if withAF {
		header = append(header, AFColumn(population))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("WriteVariants: %w", err)
	}
	rec := make([]string, len(header))
	for _, v := range rows {
		rec[0] = ""
		if v.Brick >= 0 {
			rec[0] = strconv.Itoa(v.Brick)
		}
		rec[1] = v.ID
		if withAF {
			rec[2] = ""
			if v.HasAF {
				rec[2] = formatFloat(v.AF)
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("WriteVariants: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteVariants: %w", err)
	}

	return nil
}
