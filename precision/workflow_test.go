package precision_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/matrix"
	"github.com/katalvlaran/ldgm/precision"
)

// WorkflowSuite exercises the Fit state machine on a shared AR(1) problem.
type WorkflowSuite struct {
	suite.Suite
	R   *matrix.Dense
	A   *core.Pattern
	cfg precision.WorkflowConfig
}

func (s *WorkflowSuite) SetupTest() {
	s.R = ar1(s.T(), 6, 0.5)
	A, err := core.NewPattern(6, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {0, 2}, {3, 5}})
	s.Require().NoError(err)
	s.A = A
	s.cfg = precision.DefaultWorkflowConfig()
	s.cfg.Iterations = 20
	s.cfg.RefitIterations = 100
}

func (s *WorkflowSuite) TestUnpenalizedSkipsToRefit() {
	var seen []precision.Stage
	res, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, func(st precision.Stage, _ precision.Diagnostics) {
		seen = append(seen, st)
	})
	s.Require().NoError(err)

	want := []precision.Stage{
		precision.StageInit, precision.StagePenalizedFit, precision.StageSupportSelection,
		precision.StagePSDRepair, precision.StageUnpenalizedFit, precision.StageDone,
	}
	s.Equal(want, seen)
	s.Equal(want, res.Diagnostics.Stages)
	s.Same(s.A, res.Support)
	s.Equal(s.A.AverageDegree(), res.Diagnostics.AvgDegreeAfter)
	s.Zero(res.Diagnostics.RepairSteps)

	// The true inverse is tridiagonal and inside A, so the refit recovers it.
	inv, err := matrix.InverseSPD(s.R)
	s.Require().NoError(err)
	requireNear(s.T(), inv, res.P, 1e-8)
	s.Less(res.Diagnostics.Metrics.MSE, 1e-12)
	s.Less(res.Diagnostics.Metrics.TraceMSE, 1e-12)
}

func (s *WorkflowSuite) TestPenaltyShrinksSupport() {
	s.cfg.Penalty = 0.05
	s.cfg.LassoIterations = 5
	res, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.Require().NoError(err)

	s.True(res.Support.Subset(s.A))
	s.LessOrEqual(res.Diagnostics.EdgesAfter, res.Diagnostics.EdgesBefore)
	s.Equal(7, res.Diagnostics.EdgesBefore)

	final, err := core.NewPatternFromMatrix(res.P, 0)
	s.Require().NoError(err)
	s.True(final.Subset(res.Support), "refit stays on the selected support")
	s.True(matrix.IsPositiveDefinite(res.P))
}

func (s *WorkflowSuite) TestLargePenaltyEmptiesSupport() {
	s.cfg.Penalty = 10
	res, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.Require().NoError(err)

	s.Zero(res.Support.EdgeCount())
	s.Zero(res.Diagnostics.AvgDegreeAfter)
	s.Equal(6, res.Diagnostics.Components)
	I, err := matrix.NewIdentity(6)
	s.Require().NoError(err)
	s.Equal(I.RawData(), res.P.RawData())
}

func (s *WorkflowSuite) TestReruns() {
	s.cfg.Penalty = 0.02
	s.cfg.Workers = 4
	a, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.Require().NoError(err)
	b, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.Require().NoError(err)
	s.Equal(a.P.RawData(), b.P.RawData())
}

func (s *WorkflowSuite) TestInvalidConfig() {
	s.cfg.Workers = 0
	_, err := precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.ErrorIs(err, precision.ErrInvalidConfig)

	s.cfg = precision.DefaultWorkflowConfig()
	s.cfg.RepairStep = 0
	_, err = precision.Fit(context.Background(), s.A, s.R, s.cfg, nil)
	s.ErrorIs(err, precision.ErrInvalidConfig)
}

func (s *WorkflowSuite) TestStageString() {
	s.Equal("psd-repair", precision.StagePSDRepair.String())
	s.Equal("stage(42)", precision.Stage(42).String())
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}
