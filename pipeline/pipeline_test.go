package pipeline_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/ldgm/align"
	"github.com/katalvlaran/ldgm/core"
	"github.com/katalvlaran/ldgm/internal/logger"
	"github.com/katalvlaran/ldgm/ldio"
	"github.com/katalvlaran/ldgm/matrix"
	"github.com/katalvlaran/ldgm/pipeline"
)

// ar1 returns R_ij = rho^|i-j|.
func ar1(t *testing.T, n int, rho float64) *matrix.Dense {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = math.Pow(rho, math.Abs(float64(i-j)))
		}
	}
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// PipelineSuite runs Solve on a four-brick path 0-1-2-3 whose brick 2 has
// no data. Data rows are rs0, rsY, rs1, rs3 with R = 0.5^|i-j|, so the
// aligned R over bricks 0, 1, 3 is [[1 .25 .125] [.25 1 .5] [.125 .5 1]].
type PipelineSuite struct {
	suite.Suite
	problem *pipeline.Problem
	cfg     pipeline.Config
}

func (s *PipelineSuite) SetupTest() {
	g, err := core.NewWeightedGraph(4, []core.Edge{
		{I: 0, J: 1, W: 0.5},
		{I: 1, J: 2, W: 0.5},
		{I: 2, J: 3, W: 0.5},
	})
	s.Require().NoError(err)

	s.problem = &pipeline.Problem{
		Graph: g,
		GraphVariants: []align.GraphVariant{
			{ID: "rs0", Brick: 0, AF: 0.3, HasAF: true},
			{ID: "rs1", Brick: 1, AF: 0.6, HasAF: true},
			{ID: "rsX", Brick: 1, AF: 0.1, HasAF: true},
			{ID: "rs2", Brick: 2, AF: 0.2, HasAF: true},
			{ID: "rs3", Brick: 3, AF: 0.35, HasAF: true},
		},
		DataVariants: []align.DataVariant{{ID: "rs0"}, {ID: "rsY"}, {ID: "rs1"}, {ID: "rs3"}},
		R:            ar1(s.T(), 4, 0.5),
	}
	s.cfg = pipeline.DefaultConfig()
}

func (s *PipelineSuite) solve() *pipeline.Result {
	res, err := pipeline.Solve(context.Background(), s.problem, s.cfg, logger.Nop())
	s.Require().NoError(err)

	return res
}

func (s *PipelineSuite) TestPatchMissingBridgesGap() {
	res := s.solve()
	s.Require().Equal([]bool{false, false, true, false}, res.Alignment.Missing)
	s.Require().Equal([]int{0, 1, 3}, res.Filtered.Bricks)
	s.Require().Equal([][2]int{{0, 1}, {1, 2}}, res.Pattern.Edges())
	s.Require().InDelta(0.25, res.Filtered.Graph.Weight(1, 2), 1e-15)

	// The path pattern is chordal and R's (0,2) entry equals its completion,
	// so the fitted inverse reproduces R.
	d := res.Fit.Diagnostics
	s.Require().Less(d.Metrics.MSE, 1e-12)
	v, _ := res.Fit.P.At(0, 2)
	s.Require().Equal(0.0, v)

	s.Require().Equal([]ldio.Variant{
		{ID: "rs0", Brick: 0, AF: 0.3, HasAF: true},
		{ID: "rs1", Brick: 1, AF: 0.6, HasAF: true},
		{ID: "rs3", Brick: 2, AF: 0.35, HasAF: true},
	}, res.Variants)
}

func (s *PipelineSuite) TestDropIsolatesLastBrick() {
	s.cfg.PatchPolicy = "drop"
	res := s.solve()
	s.Require().Equal([][2]int{{0, 1}}, res.Pattern.Edges())
	s.Require().Equal(2, res.Fit.Diagnostics.Components)

	v, _ := res.Fit.P.At(2, 2)
	s.Require().InDelta(1.0, v, 1e-12)
}

func (s *PipelineSuite) TestFrequencyFilterWithPatchBoth() {
	s.problem.GraphVariants[4].AF = 0.98 // MAF 0.02
	s.cfg.MAFThreshold = 0.05
	s.cfg.PatchPolicy = "patch-both"
	res := s.solve()
	s.Require().Equal([]int{0, 1}, res.Filtered.Bricks)
	s.Require().Equal(1, res.Filtered.LowFrequency)
	s.Require().Equal(2, res.Fit.P.Rows())
}

func (s *PipelineSuite) TestPathDistanceCutsEdges() {
	// 0.25 < 1/(1+2): the patched edge falls below the cut.
	s.cfg.PathDistance = 2
	res := s.solve()
	s.Require().Equal([][2]int{{0, 1}}, res.Real.Edges())
}

func (s *PipelineSuite) TestBandedControl() {
	s.cfg.Control.Banded = true
	res := s.solve()
	s.Require().Equal(res.Real.Edges(), res.Pattern.Edges())
}

func (s *PipelineSuite) TestPenalizedWorkflowStages() {
	s.cfg.Fit.Penalty = 0.05
	res := s.solve()
	s.Require().Len(res.Fit.Diagnostics.Stages, 6)
	s.Require().True(res.Fit.Support.Subset(res.Pattern))
}

func (s *PipelineSuite) TestFailures() {
	s.problem.R = ar1(s.T(), 3, 0.5)
	_, err := pipeline.Solve(context.Background(), s.problem, s.cfg, logger.Nop())
	s.Require().ErrorIs(err, pipeline.ErrDimensionMismatch)

	s.SetupTest()
	s.problem.GraphVariants[0].HasAF = false
	_, err = pipeline.Solve(context.Background(), s.problem, s.cfg, logger.Nop())
	s.Require().ErrorIs(err, align.ErrMissingAF)

	s.SetupTest()
	s.cfg.Control = pipeline.Control{Banded: true, Correlation: true}
	_, err = pipeline.Solve(context.Background(), s.problem, s.cfg, logger.Nop())
	s.Require().ErrorIs(err, pipeline.ErrConfigConflict)
}

func (s *PipelineSuite) TestMonomorphicVariantIsDropped() {
	// The middle column is fixed, so its R row and column are zero.
	X, err := matrix.NewDenseFrom([][]float64{
		{1, 1, 0},
		{1, 1, 1},
		{0, 1, 1},
		{0, 1, 0},
	})
	s.Require().NoError(err)
	R, _, _, err := matrix.Correlation(X)
	s.Require().NoError(err)

	g, err := core.NewWeightedGraph(3, []core.Edge{{I: 0, J: 1, W: 0.5}, {I: 1, J: 2, W: 0.5}})
	s.Require().NoError(err)
	s.problem = &pipeline.Problem{
		Graph: g,
		GraphVariants: []align.GraphVariant{
			{ID: "a", Brick: 0, AF: 0.5, HasAF: true},
			{ID: "b", Brick: 1, AF: 1, HasAF: true},
			{ID: "c", Brick: 2, AF: 0.5, HasAF: true},
		},
		DataVariants: []align.DataVariant{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		R:            R,
	}

	res := s.solve()
	s.Require().Equal([]bool{false, true, false}, res.Alignment.Missing)
	s.Require().Equal([]int{0, 2}, res.Filtered.Bricks)
	s.Require().Equal([][2]int{{0, 1}}, res.Pattern.Edges())
	s.Require().Equal(2, res.Fit.P.Rows())

	// Nothing left to fit once every variant is fixed.
	s.problem.R, err = matrix.NewDense(3, 3)
	s.Require().NoError(err)
	_, err = pipeline.Solve(context.Background(), s.problem, s.cfg, logger.Nop())
	s.Require().ErrorIs(err, align.ErrEmptyIntersection)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

// ------------------------------------------------------------------------
// Files
// ------------------------------------------------------------------------

func writeText(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := pipeline.DefaultConfig()
	cfg.Population = "EUR"
	cfg.Inputs = pipeline.Inputs{
		EdgeList:      writeText(t, dir, "g.edgelist", "0,1,0.5\n1,2,0.5\n2,3,0.5\n"),
		GraphVariants: writeText(t, dir, "g.snplist", "index,rsid,AF_EUR\n0,rs0,0.3\n1,rs1,0.6\n2,rs2,0.2\n3,rs3,0.35\n"),
		DataVariants:  writeText(t, dir, "d.snplist", "rsid\nrs0\nrsY\nrs1\nrs3\n"),
		Correlation:   filepath.Join(dir, "r.npy"),
	}
	require.NoError(t, ldio.WriteMatrix(cfg.Inputs.Correlation, ar1(t, 4, 0.5)))
	cfg.Outputs = pipeline.Outputs{
		Precision:   filepath.Join(dir, "p.edgelist"),
		Variants:    filepath.Join(dir, "p.snplist"),
		Correlation: filepath.Join(dir, "aligned.npy"),
	}

	res, err := pipeline.Run(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	require.Equal(t, 3, res.Fit.P.Rows())

	f, err := os.Open(cfg.Outputs.Precision)
	require.NoError(t, err)
	defer f.Close()
	l, err := ldio.ReadEdgeList(f)
	require.NoError(t, err)
	require.Equal(t, 3, l.N)
	require.Len(t, l.Edges, 5) // three diagonal entries, two edges

	snps, err := os.ReadFile(cfg.Outputs.Variants)
	require.NoError(t, err)
	require.Equal(t, "index,rsid,AF_EUR\n0,rs0,0.3\n1,rs1,0.6\n2,rs3,0.35\n", string(snps))

	aligned, err := ldio.ReadMatrix(cfg.Outputs.Correlation)
	require.NoError(t, err)
	require.Equal(t, res.Filtered.Correlation.RawData(), aligned.RawData())
}

func TestRunValidatesBeforeReading(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	_, err := pipeline.Run(context.Background(), cfg, logger.Nop())
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)
}

func TestLoadGenotypes(t *testing.T) {
	dir := t.TempDir()
	X, err := matrix.NewDenseFrom([][]float64{
		{1, 1, 0},
		{1, 0, 0},
		{0, 0, 1},
		{0, 1, 1},
	})
	require.NoError(t, err)
	in := pipeline.Inputs{
		EdgeList:      writeText(t, dir, "g.edgelist", "0,1,0.5\n1,2,0.5\n"),
		GraphVariants: writeText(t, dir, "g.snplist", "index,rsid,AF\n0,a,0.5\n1,b,0.5\n2,c,0.5\n"),
		DataVariants:  writeText(t, dir, "d.snplist", "rsid\na\nb\nc\n"),
		Genotypes:     filepath.Join(dir, "x.npy"),
	}
	require.NoError(t, ldio.WriteMatrix(in.Genotypes, X))

	p, err := pipeline.Load(in, "", logger.Nop())
	require.NoError(t, err)
	require.Equal(t, 3, p.R.Rows())
	v, _ := p.R.At(1, 1)
	require.InDelta(t, 1.0, v, 1e-12)

	// The data table has no AF column, so frequencies come from X.
	for _, d := range p.DataVariants {
		require.True(t, d.HasAF)
		require.Equal(t, 0.5, d.AF)
	}

	require.NoError(t, X.Set(0, 0, 2))
	require.NoError(t, ldio.WriteMatrix(in.Genotypes, X))
	_, err = pipeline.Load(in, "", logger.Nop())
	require.ErrorIs(t, err, matrix.ErrNonBinaryGenotype)
}

func TestClosure(t *testing.T) {
	var out bytes.Buffer
	err := pipeline.Closure(context.Background(),
		strings.NewReader("0,1,1\n1,2,3\n"), &out,
		pipeline.ClosureConfig{Threshold: 3, Workers: 2}, logger.Nop())
	require.NoError(t, err)
	require.Equal(t, "0,1,0.5\n1,2,0.25\n", out.String())

	err = pipeline.Closure(context.Background(), strings.NewReader("0,1,1\n"), &out,
		pipeline.ClosureConfig{Threshold: 1}, logger.Nop())
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)
}

func TestClosureStridedBricks(t *testing.T) {
	// Four nodes per brick, entered at offset 2 and left at offset 3.
	rows := "3,6,1\n6,7,0\n"
	cfg := pipeline.ClosureConfig{Threshold: 3, Workers: 1, Stride: 4, InOffset: 2, OutOffset: 3}

	var out bytes.Buffer
	require.NoError(t, pipeline.Closure(context.Background(), strings.NewReader(rows), &out, cfg, logger.Nop()))
	require.Equal(t, "0,1,0.5\n", out.String())

	bad := cfg
	bad.InOffset = 4
	err := pipeline.Closure(context.Background(), strings.NewReader(rows), &out, bad, logger.Nop())
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)

	bad = pipeline.ClosureConfig{Threshold: 3, Workers: 1, OutOffset: 1}
	err = pipeline.Closure(context.Background(), strings.NewReader(rows), &out, bad, logger.Nop())
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)

	bad = cfg
	bad.Stride = 3
	err = pipeline.Closure(context.Background(), strings.NewReader(rows), &out, bad, logger.Nop())
	require.ErrorIs(t, err, pipeline.ErrInvalidConfig)
}
