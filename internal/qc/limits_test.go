package qc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLimitsPercentage(t *testing.T) {
	for _, p := range []float64{0, 0.05, 0.1, 0.5, 1, 2.5} {
		for _, ref := range []float64{0.001, 1, 10, 4523.7} {
			l, err := ComputeLimits(ref, Percentage(p), 0)
			require.NoError(t, err)
			assert.InDelta(t, ref*(1-p), l.Lower, 1e-12)
			assert.InDelta(t, ref*(1+p), l.Upper, 1e-9)
			assert.LessOrEqual(t, l.Lower, ref)
			assert.GreaterOrEqual(t, l.Upper, ref)
		}
	}
}

func TestComputeLimitsStdDevMultiple(t *testing.T) {
	for _, k := range []float64{0, 1, 2, 3} {
		for _, s := range []float64{0.01, 0.2, 5} {
			l, err := ComputeLimits(10, StdDevMultiple(k), s)
			require.NoError(t, err)
			assert.InDelta(t, 2*k*s, l.Upper-l.Lower, 1e-9)
			assert.InDelta(t, 10, (l.Upper+l.Lower)/2, 1e-9)
		}
	}
}

func TestComputeLimitsRejectsInvalidTolerance(t *testing.T) {
	_, err := ComputeLimits(10, StdDevMultiple(2), 0)
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = ComputeLimits(10, StdDevMultiple(2), -0.5)
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = ComputeLimits(10, Percentage(-0.1), 0)
	assert.ErrorIs(t, err, ErrInvalidTolerance)

	_, err = ComputeLimits(10, Tolerance{}, 1)
	assert.ErrorIs(t, err, ErrInvalidTolerance)
}

func TestLimitsContainsIsInclusive(t *testing.T) {
	l := Limits{Lower: 9.6, Upper: 10.4}
	assert.True(t, l.Contains(9.6))
	assert.True(t, l.Contains(10.4))
	assert.False(t, l.Contains(10.400001))
	assert.Equal(t, OK, ClassifyCRM(9.6, l))
	assert.Equal(t, OK, ClassifyCRM(10.4, l))
	assert.Equal(t, OutOfLimits, ClassifyCRM(9.5, l))
}

func TestParseToleranceKind(t *testing.T) {
	k, err := ParseToleranceKind("Percent")
	require.NoError(t, err)
	assert.Equal(t, Percent, k)

	k, err = ParseToleranceKind("sd")
	require.NoError(t, err)
	assert.Equal(t, Sigma, k)

	_, err = ParseToleranceKind("mad")
	assert.ErrorIs(t, err, ErrInvalidTolerance)
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "OK", OK.Label())
	assert.Equal(t, "Hors limites", OutOfLimits.Label())
	assert.Equal(t, "Élevé", Elevated.Label())
	assert.Equal(t, "OutOfLimits", OutOfLimits.String())
	assert.False(t, OK.Failed())
	assert.True(t, Elevated.Failed())
}
