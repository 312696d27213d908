package precision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
)

// fixedPenalizer returns P as the penalized estimate without fitting.
func fixedPenalizer(P *matrix.Dense) penalizer {
	return func(context.Context, *core.Pattern, matrix.Matrix, WorkflowConfig) (*Estimate, error) {
		return &Estimate{P: P, Components: 1}, nil
	}
}

func TestWorkflowRepairsIndefiniteEstimate(t *testing.T) {
	A, err := core.NewPattern(3, [][2]int{{0, 1}, {1, 2}})
	require.NoError(t, err)
	R, err := matrix.NewDenseFrom([][]float64{{1, .5, .25}, {.5, 1, .5}, {.25, .5, 1}})
	require.NoError(t, err)
	// Smallest eigenvalue 1 - 0.9·√2 ≈ -0.273: three steps of 0.1 are needed.
	P, err := matrix.NewDenseFrom([][]float64{{1, .9, 0}, {.9, 1, .9}, {0, .9, 1}})
	require.NoError(t, err)
	require.False(t, matrix.IsPositiveDefinite(P))

	cfg := DefaultWorkflowConfig()
	cfg.Penalty = 0.1
	cfg.RepairStep = 0.1

	var seen []Stage
	res, err := runWorkflow(context.Background(), A, R, cfg,
		func(s Stage, _ Diagnostics) { seen = append(seen, s) }, fixedPenalizer(P))
	require.NoError(t, err)

	d := res.Diagnostics
	require.Equal(t, []Stage{StageInit, StagePenalizedFit, StageSupportSelection,
		StagePSDRepair, StageUnpenalizedFit, StageDone}, seen)
	require.Equal(t, 3, d.RepairSteps)
	require.InDelta(t, 0.3, d.RepairShift, 1e-12)
	require.Equal(t, [][2]int{{0, 1}, {1, 2}}, res.Support.Edges())
	require.True(t, matrix.IsPositiveDefinite(res.P))
	require.Less(t, d.Metrics.MSE, 1e-8)
}

func TestWorkflowRepairExhaustion(t *testing.T) {
	A, err := core.NewPattern(2, [][2]int{{0, 1}})
	require.NoError(t, err)
	R, err := matrix.NewDenseFrom([][]float64{{1, .5}, {.5, 1}})
	require.NoError(t, err)
	P, err := matrix.NewDenseFrom([][]float64{{1, 3}, {3, 1}})
	require.NoError(t, err)

	cfg := DefaultWorkflowConfig()
	cfg.Penalty = 0.1
	cfg.RepairStep = 0.1
	cfg.MaxRepairSteps = 5

	_, err = runWorkflow(context.Background(), A, R, cfg, nil, fixedPenalizer(P))
	require.ErrorIs(t, err, ErrRepairExhausted)

	boom := errors.New("boom")
	_, err = runWorkflow(context.Background(), A, R, cfg, nil,
		func(context.Context, *core.Pattern, matrix.Matrix, WorkflowConfig) (*Estimate, error) {
			return nil, boom
		})
	require.ErrorIs(t, err, boom)
}
