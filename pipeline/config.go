// SPDX-License-Identifier: MIT
// Package: pipeline
//
// Typed configuration loaded from YAML.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/ldgm/align"
	"github.com/katalvlaran/ldgm/control"
	"github.com/katalvlaran/ldgm/filter"
	"github.com/katalvlaran/ldgm/precision"
)

// Inputs names the files Run reads.
type Inputs struct {
	// EdgeList is the weighted LDGM, "i,j,weight" rows.
	EdgeList string `yaml:"edgelist"`

	// GraphVariants and DataVariants are variant tables for the LDGM and
	// for the empirical data.
	GraphVariants string `yaml:"graph_variants"`
	DataVariants  string `yaml:"data_variants"`

	// Correlation is a square .npy matrix over the data variants.
	// Genotypes is a haplotype × variant 0/1 .npy matrix. Exactly one is set.
	Correlation string `yaml:"correlation"`
	Genotypes   string `yaml:"genotypes"`
}

// Outputs names the files Run writes; empty paths are skipped.
type Outputs struct {
	// Precision receives the fitted matrix as an edge list.
	Precision string `yaml:"precision"`

	// Variants receives the representative variant of every final brick.
	Variants string `yaml:"variants"`

	// Correlation receives the aligned correlation matrix as .npy.
	Correlation string `yaml:"correlation"`
}

// Control selects at most one control graph.
type Control struct {
	Banded      bool `yaml:"banded"`
	Correlation bool `yaml:"correlation"`
}

// Fit holds the estimation scalars.
type Fit struct {
	Iterations      int     `yaml:"iterations"`
	RefitIterations int     `yaml:"refit_iterations"`
	Penalty         float64 `yaml:"penalty"`
	LassoIterations int     `yaml:"lasso_iterations"`
	RepairStep      float64 `yaml:"repair_step"`
	MaxRepairSteps  int     `yaml:"max_repair_steps"`
	Workers         int     `yaml:"workers"`
}

// Config is a complete estimation request.
type Config struct {
	Inputs  Inputs  `yaml:"inputs"`
	Outputs Outputs `yaml:"outputs"`

	// Population selects the AF_<population> column of the variant tables.
	Population string `yaml:"population"`

	// AFSource is "graph" or "data".
	AFSource string `yaml:"af_source"`

	// MAFThreshold drops bricks whose minor allele frequency is at or
	// below it; 0 keeps everything.
	MAFThreshold float64 `yaml:"maf_threshold"`

	// PatchPolicy is "drop", "patch-missing" or "patch-both".
	PatchPolicy string `yaml:"patch_policy"`

	// PathDistance is the threshold t of A = (W + I >= 1/(1+t)).
	PathDistance float64 `yaml:"path_distance"`

	Control Control `yaml:"control"`
	Fit     Fit     `yaml:"fit"`
}

// DefaultConfig returns the standard settings with no files named.
func DefaultConfig() Config {
	wf := precision.DefaultWorkflowConfig()

	return Config{
		AFSource:     string(align.AFFromGraph),
		PatchPolicy:  string(filter.PatchMissing),
		PathDistance: 4,
		Fit: Fit{
			Iterations:      wf.Iterations,
			RefitIterations: wf.RefitIterations,
			Penalty:         wf.Penalty,
			LassoIterations: wf.LassoIterations,
			RepairStep:      wf.RepairStep,
			MaxRepairSteps:  wf.MaxRepairSteps,
			Workers:         wf.Workers,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: %w", err)
	}
	defer f.Close()

	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig %s: %w", path, err)
	}

	return cfg, nil
}

// DecodeConfig reads one YAML document over DefaultConfig. An empty
// document yields the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

// Workflow converts the Fit section.
func (c Config) Workflow() precision.WorkflowConfig {
	return precision.WorkflowConfig{
		Iterations:      c.Fit.Iterations,
		RefitIterations: c.Fit.RefitIterations,
		Penalty:         c.Fit.Penalty,
		LassoIterations: c.Fit.LassoIterations,
		RepairStep:      c.Fit.RepairStep,
		MaxRepairSteps:  c.Fit.MaxRepairSteps,
		Workers:         c.Fit.Workers,
	}
}

// ControlKind returns the selected control generator.
//
// Errors: ErrConfigConflict when both are selected.
func (c Config) ControlKind() (control.Kind, error) {
	switch {
	case c.Control.Banded && c.Control.Correlation:
		return control.None, fmt.Errorf("control: banded and correlation: %w", ErrConfigConflict)
	case c.Control.Banded:
		return control.BandedKind, nil
	case c.Control.Correlation:
		return control.CorrelationKind, nil
	}

	return control.None, nil
}

// Validate checks every value Solve depends on.
//
// Errors: ErrInvalidConfig, ErrConfigConflict.
func (c Config) Validate() error {
	if _, err := c.ControlKind(); err != nil {
		return err
	}
	if _, err := align.ParseAFSource(c.AFSource); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := filter.ParsePolicy(c.PatchPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.MAFThreshold >= 0 && c.MAFThreshold <= 0.5) {
		return fmt.Errorf("maf_threshold %v: %w", c.MAFThreshold, ErrInvalidConfig)
	}
	if !(c.PathDistance >= 0) || math.IsInf(c.PathDistance, 0) {
		return fmt.Errorf("path_distance %v: %w", c.PathDistance, ErrInvalidConfig)
	}
	if err := c.Workflow().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// ValidateInputs checks that Run has every file it needs.
//
// Errors: ErrInvalidConfig, ErrConfigConflict.
func (c Config) ValidateInputs() error {
	in := c.Inputs
	switch {
	case in.EdgeList == "":
		return fmt.Errorf("inputs.edgelist: %w", ErrInvalidConfig)
	case in.GraphVariants == "":
		return fmt.Errorf("inputs.graph_variants: %w", ErrInvalidConfig)
	case in.DataVariants == "":
		return fmt.Errorf("inputs.data_variants: %w", ErrInvalidConfig)
	case in.Correlation != "" && in.Genotypes != "":
		return fmt.Errorf("inputs.correlation and inputs.genotypes: %w", ErrConfigConflict)
	case in.Correlation == "" && in.Genotypes == "":
		return fmt.Errorf("inputs.correlation or inputs.genotypes: %w", ErrInvalidConfig)
	}

	return nil
}
