package qc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KaramelBytes/geoqaqc-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, text string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.LoadString(text, dataset.DefaultOptions())
	require.NoError(t, err)
	return ds
}

var idVal = Columns{ID: "id", Value: "val"}

func TestCRMScenarioSigmaTolerance(t *testing.T) {
	ds := load(t, "id,val\nS1,10\nS2,10.5\nS3,9.8")
	res, err := CRM(ds, idVal, CRMParams{Reference: 10, ReferenceStdDev: 0.2, Tolerance: StdDevMultiple(2)}, dataset.DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 9.6, res.Limits.Lower, 1e-9)
	assert.InDelta(t, 10.4, res.Limits.Upper, 1e-9)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, OK, res.Rows[0].Status)
	assert.Equal(t, OutOfLimits, res.Rows[1].Status)
	assert.Equal(t, OK, res.Rows[2].Status)
	assert.Equal(t, 1, res.Failures)

	require.NotNil(t, res.Rows[1].ZScore)
	assert.InDelta(t, 2.5, *res.Rows[1].ZScore, 1e-9)
	assert.InDelta(t, 5.0, res.Rows[1].Deviation, 1e-9)
	assert.InDelta(t, -2.0, res.Rows[2].Deviation, 1e-9)

	assert.Equal(t, 3, res.Summary.N)
	assert.InDelta(t, 10.1, res.Summary.Mean, 1e-9)
	assert.InDelta(t, 9.8, res.Summary.Min, 1e-12)
	assert.InDelta(t, 10.5, res.Summary.Max, 1e-12)
	assert.InDelta(t, 1.0, res.Bias, 1e-9)
}

func TestCRMPopulationStdDev(t *testing.T) {
	ds := load(t, "id,val\na,2\nb,4\nc,4\nd,4\ne,5\nf,5\ng,7\nh,9")
	res, err := CRM(ds, idVal, CRMParams{Reference: 5, Tolerance: Percentage(0.1)}, dataset.DefaultOptions())
	require.NoError(t, err)
	// divides by N, not N-1
	assert.InDelta(t, 2.0, res.Summary.StdDev, 1e-12)
}

func TestCRMPercentageWithoutStdDevHasNoZScores(t *testing.T) {
	ds := load(t, "id,val\nS1,9.2\nS2,10.8\nS3,11.5")
	res, err := CRM(ds, idVal, CRMParams{Reference: 10, Tolerance: Percentage(0.10)}, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, res.HasZScores())
	for _, r := range res.Rows {
		assert.Nil(t, r.ZScore)
	}
	assert.Equal(t, OK, res.Rows[0].Status)
	assert.Equal(t, OK, res.Rows[1].Status)
	assert.Equal(t, OutOfLimits, res.Rows[2].Status)
}

func TestCRMErrors(t *testing.T) {
	ds := load(t, "id,val\nS1,abc\nS2,\nS3,n.d.")
	_, err := CRM(ds, idVal, CRMParams{Reference: 10, Tolerance: Percentage(0.1)}, dataset.DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyDataset)

	ds = load(t, "id,val\nS1,10")
	_, err = CRM(ds, idVal, CRMParams{Reference: 10, Tolerance: StdDevMultiple(2)}, dataset.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = CRM(ds, idVal, CRMParams{Reference: 0, Tolerance: Percentage(0.1)}, dataset.DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = CRM(ds, Columns{ID: "id", Value: "Au"}, CRMParams{Reference: 1, Tolerance: Percentage(0.1)}, dataset.DefaultOptions())
	assert.ErrorIs(t, err, dataset.ErrUnknownColumn)
}

func TestCRMDropsRowsWithoutID(t *testing.T) {
	ds := load(t, "id,val\nS1,10\n,10.1\nS3,9.9")
	res, err := CRM(ds, idVal, CRMParams{Reference: 10, Tolerance: Percentage(0.1)}, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, "S3", res.Rows[1].ID)
}

func TestBlankLODBoundary(t *testing.T) {
	ds := load(t, "id,val\nB1,0.01\nB2,0.02\nB3,0.015\nB4,0.05")
	res, err := Blank(ds, idVal, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, res.Summary.Mean+3*res.Summary.StdDev, res.LOD, 1e-15)

	assert.Equal(t, OK, ClassifyBlank(res.LOD, res.LOD))
	assert.Equal(t, Elevated, ClassifyBlank(res.LOD+1, res.LOD))
	for _, r := range res.Rows {
		assert.Equal(t, OK, r.Status, "row %s", r.ID)
	}
	assert.Zero(t, res.Elevated)
}

func TestBlankFlagsElevated(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,val\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "B%d,0.01\n", i)
	}
	b.WriteString("B20,5\n")
	res, err := Blank(load(t, b.String()), idVal, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Elevated)
	assert.Equal(t, Elevated, res.Rows[20].Status)
}

func TestBlankZeroVariance(t *testing.T) {
	res, err := Blank(load(t, "id,val\nB1,0.3"), idVal, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.Zero(t, res.Summary.StdDev)
	assert.Equal(t, res.Summary.Mean, res.LOD)
	assert.Equal(t, OK, res.Rows[0].Status)

	res, err = Blank(load(t, "id,val\nB1,0.5\nB2,0.5\nB3,0.5"), idVal, dataset.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.LOD)
	assert.Zero(t, res.Elevated)
}

func TestBlankEmpty(t *testing.T) {
	_, err := Blank(load(t, "id,val\nB1,<LD\nB2,-"), idVal, dataset.DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}
