package ldio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ldgm/align"
	"github.com/katalvlaran/ldgm/ldio"
)

func TestReadVariantsComma(t *testing.T) {
	in := "index,rsid,AF_EUR,AF_AFR\n0,rs1,0.1,0.2\n,rs2,NA,0.3\n2,rs3,0.75,\n"
	tab, err := ldio.ReadVariants(strings.NewReader(in), "EUR")
	require.NoError(t, err)
	require.True(t, tab.HasIndex)
	require.True(t, tab.HasAF)
	require.Equal(t, []ldio.Variant{
		{ID: "rs1", Brick: 0, AF: 0.1, HasAF: true},
		{ID: "rs2", Brick: -1},
		{ID: "rs3", Brick: 2, AF: 0.75, HasAF: true},
	}, tab.Rows)

	require.Equal(t, []align.GraphVariant{
		{ID: "rs1", Brick: 0, AF: 0.1, HasAF: true},
		{ID: "rs2", Brick: -1},
		{ID: "rs3", Brick: 2, AF: 0.75, HasAF: true},
	}, tab.GraphVariants())
	require.Equal(t, "rs3", tab.DataVariants()[2].ID)
}

func TestReadVariantsTabWithoutOptionalColumns(t *testing.T) {
	in := "chrom\tRSID\n1\trs9\n1\trs8\n"
	tab, err := ldio.ReadVariants(strings.NewReader(in), "EUR")
	require.NoError(t, err)
	require.False(t, tab.HasIndex)
	require.False(t, tab.HasAF)
	require.Equal(t, []ldio.Variant{{ID: "rs9", Brick: -1}, {ID: "rs8", Brick: -1}}, tab.Rows)
}

func TestReadVariantsPlainAFColumn(t *testing.T) {
	tab, err := ldio.ReadVariants(strings.NewReader("rsid,AF\nrs1,0.4"), "")
	require.NoError(t, err)
	require.Equal(t, []ldio.Variant{{ID: "rs1", Brick: -1, AF: 0.4, HasAF: true}}, tab.Rows)
	require.Equal(t, "AF_AFR", ldio.AFColumn("AFR"))
}

func TestReadVariantsErrors(t *testing.T) {
	_, err := ldio.ReadVariants(strings.NewReader(""), "EUR")
	require.ErrorIs(t, err, ldio.ErrEmptyInput)

	_, err = ldio.ReadVariants(strings.NewReader("index,AF_EUR\n0,0.1\n"), "EUR")
	require.ErrorIs(t, err, ldio.ErrMissingColumn)

	_, err = ldio.ReadVariants(strings.NewReader("rsid,index\nrs1,-2\n"), "EUR")
	require.ErrorIs(t, err, ldio.ErrMalformedRow)

	_, err = ldio.ReadVariants(strings.NewReader("rsid,AF_EUR\nrs1,1.5\n"), "EUR")
	require.ErrorIs(t, err, ldio.ErrMalformedRow)

	_, err = ldio.ReadVariants(strings.NewReader("rsid,index\nrs1,0,extra\n"), "EUR")
	require.ErrorIs(t, err, ldio.ErrMalformedRow)
}

func TestWriteVariantsRoundTrip(t *testing.T) {
	rows := []ldio.Variant{
		{ID: "rs1", Brick: 0, AF: 0.25, HasAF: true},
		{ID: "rs2", Brick: 1},
	}
	var sb strings.Builder
	require.NoError(t, ldio.WriteVariants(&sb, rows, "EUR", true))
	require.Equal(t, "index,rsid,AF_EUR\n0,rs1,0.25\n1,rs2,\n", sb.String())

	back, err := ldio.ReadVariants(strings.NewReader(sb.String()), "EUR")
	require.NoError(t, err)
	require.Equal(t, rows, back.Rows)
}
