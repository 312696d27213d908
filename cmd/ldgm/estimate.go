// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ldgm/pipeline"
)

// EstimateSummary is the machine-readable result of estimate --json.
type EstimateSummary struct {
	Bricks          int     `json:"bricks"`
	Missing         int     `json:"missing"`
	LowFrequency    int     `json:"low_frequency"`
	Edges           int     `json:"edges"`
	AvgDegreeBefore float64 `json:"avg_degree_before"`
	AvgDegreeAfter  float64 `json:"avg_degree_after"`
	RepairSteps     int     `json:"repair_steps"`
	Components      int     `json:"components"`
	MSE             float64 `json:"mse"`
	TraceMSE        float64 `json:"trace_mse"`
	DurationMS      int64   `json:"duration_ms"`
}

func addEstimateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.String("edgelist", "", "Weighted LDGM edge list")
	f.String("graph-variants", "", "LDGM variant table")
	f.String("data-variants", "", "Data variant table")
	f.String("correlation", "", "Correlation matrix (.npy)")
	f.String("genotypes", "", "Haplotype matrix (.npy, 0/1)")
	f.String("population", "", "Population suffix of the AF_ column")
	f.String("af-source", "", "Allele frequency source: graph|data")
	f.Float64("maf", 0, "Minor allele frequency threshold")
	f.String("policy", "", "Filter policy: drop|patch-missing|patch-both")
	f.Float64("path-distance", 0, "Path-distance threshold")
	f.Int("iterations", 0, "Penalized sweeps")
	f.Int("refit-iterations", 0, "Unpenalized refit sweeps")
	f.Float64("penalty", 0, "L1 penalty (0 skips the penalized pass)")
	f.Int("lasso-iterations", 0, "Inner lasso sweeps")
	f.Float64("repair-step", 0, "Diagonal loading increment")
	f.Int("max-repair-steps", 0, "Diagonal loading bound")
	f.Int("workers", 0, "Concurrent component fits")
	f.Bool("banded", false, "Fit a banded control graph")
	f.Bool("correlation-control", false, "Fit a correlation-thresholded control graph")
	f.String("out", "", "Precision edge list output")
	f.String("out-variants", "", "Final variant table output")
	f.String("out-correlation", "", "Aligned correlation output (.npy)")
	f.Bool("json", false, "Print a machine-readable summary")
}

// loadEstimateConfig reads --config (if any) and applies every flag the
// user set on top of it.
func loadEstimateConfig(cmd *cobra.Command) (pipeline.Config, error) {
	f := cmd.Flags()
	cfg := pipeline.DefaultConfig()
	if path, _ := f.GetString("config"); path != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	str := map[string]*string{
		"edgelist":        &cfg.Inputs.EdgeList,
		"graph-variants":  &cfg.Inputs.GraphVariants,
		"data-variants":   &cfg.Inputs.DataVariants,
		"correlation":     &cfg.Inputs.Correlation,
		"genotypes":       &cfg.Inputs.Genotypes,
		"population":      &cfg.Population,
		"af-source":       &cfg.AFSource,
		"policy":          &cfg.PatchPolicy,
		"out":             &cfg.Outputs.Precision,
		"out-variants":    &cfg.Outputs.Variants,
		"out-correlation": &cfg.Outputs.Correlation,
	}
	for name, dst := range str {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	floats := map[string]*float64{
		"maf":           &cfg.MAFThreshold,
		"path-distance": &cfg.PathDistance,
		"penalty":       &cfg.Fit.Penalty,
		"repair-step":   &cfg.Fit.RepairStep,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}
	ints := map[string]*int{
		"iterations":       &cfg.Fit.Iterations,
		"refit-iterations": &cfg.Fit.RefitIterations,
		"lasso-iterations": &cfg.Fit.LassoIterations,
		"max-repair-steps": &cfg.Fit.MaxRepairSteps,
		"workers":          &cfg.Fit.Workers,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	if f.Changed("banded") {
		cfg.Control.Banded, _ = f.GetBool("banded")
	}
	if f.Changed("correlation-control") {
		cfg.Control.Correlation, _ = f.GetBool("correlation-control")
	}

	return cfg, nil
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadEstimateConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	res, err := pipeline.Run(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("estimate failed", "error", err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		d := res.Fit.Diagnostics
		summary := EstimateSummary{
			Bricks:          res.Fit.P.Rows(),
			Missing:         res.Alignment.NumMissing(),
			LowFrequency:    res.Filtered.LowFrequency,
			Edges:           d.EdgesAfter,
			AvgDegreeBefore: d.AvgDegreeBefore,
			AvgDegreeAfter:  d.AvgDegreeAfter,
			RepairSteps:     d.RepairSteps,
			Components:      d.Components,
			MSE:             d.Metrics.MSE,
			TraceMSE:        d.Metrics.TraceMSE,
			DurationMS:      d.Runtime.Milliseconds(),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err = enc.Encode(summary); err != nil {
			return fmt.Errorf("estimate: %w", err)
		}
	}

	return nil
}
