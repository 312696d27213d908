// SPDX-License-Identifier: MIT
// Package: precision
//
// Purpose:
//   - Fit: the penalized-fit → support → repair → refit workflow as an
//     explicit state machine with a stage trace and diagnostics.

package precision

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// Stage is a workflow state.
type Stage int

// Workflow stages in execution order.
const (
	StageInit Stage = iota
	StagePenalizedFit
	StageSupportSelection
	StagePSDRepair
	StageUnpenalizedFit
	StageDone
)

var stageNames = [...]string{
	StageInit:             "init",
	StagePenalizedFit:     "penalized-fit",
	StageSupportSelection: "support-selection",
	StagePSDRepair:        "psd-repair",
	StageUnpenalizedFit:   "unpenalized-fit",
	StageDone:             "done",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}

	return stageNames[s]
}

// WorkflowConfig holds the scalars of a full estimation.
type WorkflowConfig struct {
	// Iterations is the outer sweep count of the penalized pass.
	Iterations int

	// RefitIterations is the outer sweep count of the unpenalized refit.
	RefitIterations int

	// Penalty is λ for the penalized pass; 0 skips that pass.
	Penalty float64

	// LassoIterations is the inner sweep count of the penalized pass.
	LassoIterations int

	// RepairStep and MaxRepairSteps bound the PSD repair loop.
	RepairStep     float64
	MaxRepairSteps int

	// Workers bounds concurrent component fits.
	Workers int
}

// DefaultWorkflowConfig returns the standard estimation settings.
func DefaultWorkflowConfig() WorkflowConfig {
	return WorkflowConfig{
		Iterations:      DefaultIterations,
		RefitIterations: 2 * DefaultIterations,
		Penalty:         0,
		LassoIterations: DefaultLassoIterations,
		RepairStep:      DefaultRepairStep,
		MaxRepairSteps:  DefaultMaxRepairSteps,
		Workers:         1,
	}
}

// Validate reports values outside their domain.
func (c WorkflowConfig) Validate() error {
	switch {
	case c.Iterations < 0, c.RefitIterations < 0, c.LassoIterations < 0:
		return fmt.Errorf("iterations must be >= 0: %w", ErrInvalidConfig)
	case c.Penalty < 0 || math.IsNaN(c.Penalty) || math.IsInf(c.Penalty, 0):
		return fmt.Errorf("penalty %v: %w", c.Penalty, ErrInvalidConfig)
	case !(c.RepairStep > 0) || math.IsInf(c.RepairStep, 0):
		return fmt.Errorf("repair step %v: %w", c.RepairStep, ErrInvalidConfig)
	case c.MaxRepairSteps < 0:
		return fmt.Errorf("max repair steps %d: %w", c.MaxRepairSteps, ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	}

	return nil
}

// Diagnostics describes one Fit.
type Diagnostics struct {
	// AvgDegreeBefore and AvgDegreeAfter are 2E/n of A and of the support
	// after the penalized pass.
	AvgDegreeBefore float64
	AvgDegreeAfter  float64

	// EdgesBefore and EdgesAfter are the matching edge counts.
	EdgesBefore int
	EdgesAfter  int

	// RepairSteps and RepairShift describe the diagonal loading applied.
	RepairSteps int
	RepairShift float64

	// Components is the number of independent blocks of the final support.
	Components int

	// Objective is the final unpenalized objective.
	Objective float64

	// Metrics are the reconstruction errors of the final P.
	Metrics Metrics

	// Runtime is the wall time from Init to Done.
	Runtime time.Duration

	// Stages is the sequence of states visited.
	Stages []Stage
}

// Result is the output of Fit.
type Result struct {
	// P is the final precision matrix.
	P *matrix.Dense

	// Support is the off-diagonal support selected after the penalized pass.
	Support *core.Pattern

	// Diagnostics summarizes the run.
	Diagnostics Diagnostics
}

// StageFunc observes every stage transition; it must not block.
type StageFunc func(Stage, Diagnostics)

// Fit runs the full estimation workflow on pattern A and correlation R.
//
// Stages:
//   - Init: validate config and inputs.
//   - PenalizedFit: CoordinateDescent with λ; skipped when λ = 0.
//   - SupportSelection: keep |P_ij| > SupportTolerance, or A when skipped.
//   - PSDRepair: smallest k with P + k·step·I positive definite; skipped
//     when there is no penalized estimate.
//   - UnpenalizedFit: CoordinateDescent on the support with λ = 0, warm
//     started from the repaired estimate.
//   - Done: metrics and runtime.
//
// onStage may be nil.
//
// Errors: ErrInvalidConfig, every CoordinateDescent error, ErrRepairExhausted.
// No partial P is returned on error.
func Fit(ctx context.Context, A *core.Pattern, R matrix.Matrix, cfg WorkflowConfig, onStage StageFunc) (*Result, error) {
	return runWorkflow(ctx, A, R, cfg, onStage, penalizedFit)
}

// penalizer produces the PenalizedFit estimate.
type penalizer func(ctx context.Context, A *core.Pattern, R matrix.Matrix, cfg WorkflowConfig) (*Estimate, error)

func penalizedFit(ctx context.Context, A *core.Pattern, R matrix.Matrix, cfg WorkflowConfig) (*Estimate, error) {
	return CoordinateDescent(ctx, A, R,
		WithIterations(cfg.Iterations),
		WithPenalty(cfg.Penalty),
		WithLassoIterations(cfg.LassoIterations),
		WithWorkers(cfg.Workers),
	)
}

// runWorkflow drives the stage machine of Fit with penalize as the
// PenalizedFit step.
func runWorkflow(ctx context.Context, A *core.Pattern, R matrix.Matrix, cfg WorkflowConfig, onStage StageFunc, penalize penalizer) (*Result, error) {
	start := time.Now()
	var (
		diag    Diagnostics
		penal   *Estimate
		support *core.Pattern
		warm    *matrix.Dense
		final   *Estimate
		err     error
	)

	stage := StageInit
	for {
		diag.Stages = append(diag.Stages, stage)
		if onStage != nil {
			onStage(stage, diag)
		}

		switch stage {
		case StageInit:
			if err = cfg.Validate(); err != nil {
				return nil, fmt.Errorf("Fit: %w", err)
			}
			if _, err = validateInputs(A, R); err != nil {
				return nil, fmt.Errorf("Fit: %w", err)
			}
			diag.AvgDegreeBefore = A.AverageDegree()
			diag.EdgesBefore = A.EdgeCount()
			stage = StagePenalizedFit

		case StagePenalizedFit:
			if cfg.Penalty > 0 {
				if penal, err = penalize(ctx, A, R, cfg); err != nil {
					return nil, fmt.Errorf("Fit: %s: %w", stage, err)
				}
			}
			stage = StageSupportSelection

		case StageSupportSelection:
			if penal == nil {
				support = A
			} else if support, warm, err = SelectSupport(penal.P, SupportTolerance); err != nil {
				return nil, fmt.Errorf("Fit: %s: %w", stage, err)
			}
			diag.AvgDegreeAfter = support.AverageDegree()
			diag.EdgesAfter = support.EdgeCount()
			stage = StagePSDRepair

		case StagePSDRepair:
			if warm != nil {
				rep, rerr := RepairPSD(warm, cfg.RepairStep, cfg.MaxRepairSteps)
				if rerr != nil {
					return nil, fmt.Errorf("Fit: %s: %w", stage, rerr)
				}
				warm = rep.P
				diag.RepairSteps = rep.Steps
				diag.RepairShift = rep.Shift
			}
			stage = StageUnpenalizedFit

		case StageUnpenalizedFit:
			opts := []Option{WithIterations(cfg.RefitIterations), WithWorkers(cfg.Workers)}
			if warm != nil {
				opts = append(opts, WithWarmStart(warm))
			}
			if final, err = CoordinateDescent(ctx, support, R, opts...); err != nil {
				return nil, fmt.Errorf("Fit: %s: %w", stage, err)
			}
			diag.Components = final.Components
			diag.Objective = final.Objective
			stage = StageDone

		case StageDone:
			if diag.Metrics, err = Evaluate(R, final.P); err != nil {
				return nil, fmt.Errorf("Fit: %s: %w", stage, err)
			}
			diag.Runtime = time.Since(start)

			return &Result{P: final.P, Support: support, Diagnostics: diag}, nil
		}
	}
}
