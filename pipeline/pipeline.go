// SPDX-License-Identifier: MIT
// Package: pipeline
//
// Run and Solve: the estimation steps between files and the fitted matrix.

package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/ldgm/align"
	"github.com/katalvlaran/ldgm/control"
	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/filter"
	"github.com/katalvlaran/ldgm/internal/logger"
	"github.com/katalvlaran/ldgm/ldio"
	"github.com/katalvlaran/ldgm/matrix"
	"github.com/katalvlaran/ldgm/precision"
)

// Problem is a loaded estimation input.
type Problem struct {
	// Graph is the weighted LDGM over all bricks.
	Graph *core.WeightedGraph

	// GraphVariants and DataVariants are the two variant lists.
	GraphVariants []align.GraphVariant
	DataVariants  []align.DataVariant

	// R is the correlation matrix over DataVariants.
	R *matrix.Dense
}

// Result collects every intermediate product of Solve.
type Result struct {
	Alignment *align.Result
	Filtered  *filter.Output

	// Real is the thresholded LDGM pattern; Pattern is what was fitted
	// (Real or its control graph).
	Real    *core.Pattern
	Pattern *core.Pattern

	Fit *precision.Result

	// Variants lists the representative of every final brick, Brick being
	// its index in the fitted matrix.
	Variants []ldio.Variant
}

// Run loads cfg.Inputs, solves, and writes cfg.Outputs.
//
// Errors: ErrInvalidConfig, ErrConfigConflict before any file is read;
// then read, alignment, filter and fit errors.
func Run(ctx context.Context, cfg Config, log *logger.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateInputs(); err != nil {
		return nil, err
	}

	p, err := Load(cfg.Inputs, cfg.Population, log)
	if err != nil {
		return nil, err
	}
	res, err := Solve(ctx, p, cfg, log)
	if err != nil {
		return nil, err
	}
	if err = Write(cfg, res, log); err != nil {
		return nil, err
	}

	return res, nil
}

// Load reads every input file named by in.
func Load(in Inputs, population string, log *logger.Logger) (*Problem, error) {
	var (
		p   Problem
		err error
	)

	var edges *ldio.EdgeList
	if err = readFile(in.EdgeList, func(r io.Reader) (e error) {
		edges, e = ldio.ReadEdgeList(r)
		return e
	}); err != nil {
		return nil, err
	}
	if p.Graph, err = edges.Weighted(); err != nil {
		return nil, fmt.Errorf("load %s: %w", in.EdgeList, err)
	}

	var graphTab, dataTab *ldio.VariantTable
	if err = readFile(in.GraphVariants, func(r io.Reader) (e error) {
		graphTab, e = ldio.ReadVariants(r, population)
		return e
	}); err != nil {
		return nil, err
	}
	if err = readFile(in.DataVariants, func(r io.Reader) (e error) {
		dataTab, e = ldio.ReadVariants(r, population)
		return e
	}); err != nil {
		return nil, err
	}
	p.GraphVariants = graphTab.GraphVariants()
	p.DataVariants = dataTab.DataVariants()

	if in.Correlation != "" {
		if p.R, err = ldio.ReadMatrix(in.Correlation); err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
	} else {
		X, err := ldio.ReadMatrix(in.Genotypes)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		if err = matrix.ValidateBinary(X); err != nil {
			return nil, fmt.Errorf("load %s: %w", in.Genotypes, err)
		}
		if p.R, _, _, err = matrix.Correlation(X); err != nil {
			return nil, fmt.Errorf("load %s: %w", in.Genotypes, err)
		}
		if !dataTab.HasAF {
			if err = fillFrequencies(p.DataVariants, X); err != nil {
				return nil, fmt.Errorf("load %s: %w", in.Genotypes, err)
			}
			log.Debug("allele frequencies from genotypes", "variants", X.Cols())
		}
		log.Debug("correlation from genotypes", "haplotypes", X.Rows(), "variants", X.Cols())
	}

	log.Info("inputs loaded",
		"bricks", p.Graph.N(),
		"edges", p.Graph.EdgeCount(),
		"graph_variants", len(p.GraphVariants),
		"data_variants", len(p.DataVariants),
	)

	return &p, nil
}

// Solve runs alignment, filtering, thresholding, control selection and the
// precision workflow on an in-memory problem.
func Solve(ctx context.Context, p *Problem, cfg Config, log *logger.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, _ := cfg.ControlKind()
	if p.R == nil || p.R.Rows() != len(p.DataVariants) || p.R.Cols() != len(p.DataVariants) {
		return nil, fmt.Errorf("solve: %d data variants: %w", len(p.DataVariants), ErrDimensionMismatch)
	}

	data, R, err := dropZeroVariance(p.DataVariants, p.R)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if dropped := len(p.DataVariants) - len(data); dropped > 0 {
		log.Info("zero-variance variants dropped", "count", dropped)
	}

	res := &Result{}
	res.Alignment, err = align.Align(p.GraphVariants, data, R, align.Options{
		Source:    align.AFSource(cfg.AFSource),
		GraphSize: p.Graph.N(),
	})
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	al := res.Alignment
	log.Info("aligned",
		"common", len(al.Common),
		"bricks", al.NumBricks(),
		"surviving", len(al.Bricks),
		"missing", al.NumMissing(),
	)

	res.Filtered, err = filter.Apply(filter.Input{
		Graph:       p.Graph,
		Missing:     al.Missing,
		MAF:         al.MAF,
		AF:          al.AF,
		Correlation: al.Correlation,
	}, cfg.MAFThreshold, filter.Policy(cfg.PatchPolicy))
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	fo := res.Filtered
	log.Info("filtered",
		"policy", cfg.PatchPolicy,
		"kept", len(fo.Bricks),
		"low_frequency", fo.LowFrequency,
		"surgery_removed", fo.Surgery.Removed,
		"surgery_added", fo.Surgery.Added,
		"surgery_strengthened", fo.Surgery.Strengthened,
	)

	if res.Real, err = fo.Graph.Threshold(cfg.PathDistance); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if res.Pattern, err = control.Build(kind, res.Real, fo.Correlation); err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	if kind != control.None {
		log.Info("control graph",
			"kind", string(kind),
			"real_edges", res.Real.EdgeCount(),
			"control_edges", res.Pattern.EdgeCount(),
		)
	}

	fitLog := log.With("bricks", res.Pattern.N())
	res.Fit, err = precision.Fit(ctx, res.Pattern, fo.Correlation, cfg.Workflow(),
		func(s precision.Stage, d precision.Diagnostics) {
			fitLog.Debug("stage", "stage", s.String(), "edges_before", d.EdgesBefore, "edges_after", d.EdgesAfter)
		})
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	d := res.Fit.Diagnostics
	fitLog.Info("fit done",
		"avg_degree_before", d.AvgDegreeBefore,
		"avg_degree_after", d.AvgDegreeAfter,
		"components", d.Components,
		"repair_steps", d.RepairSteps,
		"mse", d.Metrics.MSE,
		"trace_mse", d.Metrics.TraceMSE,
		"runtime", d.Runtime,
	)

	res.Variants = finalVariants(al, fo)

	return res, nil
}

// dropZeroVariance removes data variants whose correlation diagonal is not
// positive, such as monomorphic sites, together with their rows and columns
// of R. They carry no LD information and cannot be fitted.
func dropZeroVariance(data []align.DataVariant, R *matrix.Dense) ([]align.DataVariant, *matrix.Dense, error) {
	diag := R.Diag()
	keep := make([]int, 0, len(diag))
	for i, v := range diag {
		if v > 0 {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(diag) {
		return data, R, nil
	}
	if len(keep) == 0 {
		return nil, nil, fmt.Errorf("every data variant has zero variance: %w", align.ErrEmptyIntersection)
	}
	out := make([]align.DataVariant, len(keep))
	for k, i := range keep {
		out[k] = data[i]
	}
	sub, err := R.Principal(keep)
	if err != nil {
		return nil, nil, err
	}

	return out, sub, nil
}

// fillFrequencies sets every data variant's AF from the haplotype matrix.
func fillFrequencies(data []align.DataVariant, X *matrix.Dense) error {
	af, err := matrix.AlleleFrequencies(X)
	if err != nil {
		return err
	}
	if err = matrix.ValidateVecLen(af, len(data)); err != nil {
		return fmt.Errorf("%d genotype columns for %d data variants: %w", len(af), len(data), err)
	}
	for i := range data {
		data[i].AF, data[i].HasAF = af[i], true
	}

	return nil
}

// finalVariants pairs every final brick with its representative.
func finalVariants(al *align.Result, fo *filter.Output) []ldio.Variant {
	pos := make(map[int]int, len(al.Bricks))
	for k, b := range al.Bricks {
		pos[b] = k
	}
	out := make([]ldio.Variant, len(fo.Bricks))
	for k, b := range fo.Bricks {
		v := ldio.Variant{ID: al.RepresentativeID[pos[b]], Brick: k}
		if fo.AF != nil {
			v.AF, v.HasAF = fo.AF[k], true
		}
		out[k] = v
	}

	return out
}

// Write stores the products named by cfg.Outputs.
func Write(cfg Config, res *Result, log *logger.Logger) error {
	out := cfg.Outputs
	if out.Precision != "" {
		if err := writeFile(out.Precision, func(w io.Writer) error {
			return ldio.WritePrecision(w, res.Fit.P, precision.SupportTolerance)
		}); err != nil {
			return err
		}
	}
	if out.Variants != "" {
		if err := writeFile(out.Variants, func(w io.Writer) error {
			return ldio.WriteVariants(w, res.Variants, cfg.Population, res.Filtered.AF != nil)
		}); err != nil {
			return err
		}
	}
	if out.Correlation != "" {
		if err := ldio.WriteMatrix(out.Correlation, res.Filtered.Correlation); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	log.Info("outputs written",
		"precision", out.Precision,
		"variants", out.Variants,
		"correlation", out.Correlation,
	)

	return nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	defer f.Close()
	if err = read(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err = write(bw); err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
