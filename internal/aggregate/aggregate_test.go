package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func TestSumAndMean(t *testing.T) {
	points := []Point{{Value: 10, Unit: "USD Millions"}, {Value: 20, Unit: "USD Millions"}, {Value: 30, Unit: "USD Millions"}}
	sum, meta, err := Sum(points, Options{})
	require.NoError(t, err)
	assert.Equal(t, 60.0, sum)
	assert.Equal(t, 3, meta.Count)

	mean, _, err := Mean(points, Options{})
	require.NoError(t, err)
	assert.Equal(t, 20.0, mean)
}

func TestMedianOddAndEven(t *testing.T) {
	odd := []Point{{Value: 3, Unit: "x"}, {Value: 1, Unit: "x"}, {Value: 2, Unit: "x"}}
	m, _, err := Median(odd, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, m)

	even := []Point{{Value: 1, Unit: "x"}, {Value: 2, Unit: "x"}, {Value: 3, Unit: "x"}, {Value: 4, Unit: "x"}}
	m2, _, err := Median(even, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2.5, m2)
}

func TestResolveValuesRejectsUnitMismatchWithoutNormalizeFirst(t *testing.T) {
	points := []Point{{Value: 1, Unit: "USD Millions"}, {Value: 2, Unit: "EUR Millions"}}
	_, _, err := Sum(points, Options{})
	assert.ErrorIs(t, err, econ.ErrUnitMismatch)
}

func TestResolveValuesEmptyInputIsError(t *testing.T) {
	_, _, err := Sum(nil, Options{})
	assert.ErrorIs(t, err, econ.ErrAggregationEmpty)
}

func TestSumNormalizeFirstConvertsHeterogeneousUnits(t *testing.T) {
	fx := &econ.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}
	points := []Point{
		{Value: 100, Unit: "USD Millions"},
		{Value: 90, Unit: "EUR Millions"},
	}
	sum, _, err := Sum(points, Options{
		NormalizeFirst: true,
		Target:         econ.NormalizationTargets{ToCurrency: "USD", ToMagnitude: econ.ScaleMillions},
		FX:             fx,
		IndicatorType:  econ.IndicatorFlow,
	})
	require.NoError(t, err)
	assert.InDelta(t, 200, sum, 1e-6)
}

func TestWeightedMeanDefaultsToAbsValueWeight(t *testing.T) {
	points := []Point{{Value: 10, Unit: "x"}, {Value: -20, Unit: "x"}}
	mean, _, err := WeightedMean(points, Options{})
	require.NoError(t, err)
	want := (10*10 + (-20)*20) / (10.0 + 20.0)
	assert.InDelta(t, want, mean, 1e-9)
}

func TestGeometricMeanRejectsNonPositive(t *testing.T) {
	points := []Point{{Value: 4, Unit: "x"}, {Value: -1, Unit: "x"}}
	_, _, err := GeometricMean(points, Options{})
	assert.ErrorIs(t, err, econ.ErrNonPositiveInput)
}

func TestGeometricAndHarmonicMean(t *testing.T) {
	points := []Point{{Value: 4, Unit: "x"}, {Value: 9, Unit: "x"}}
	gm, _, err := GeometricMean(points, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 6, gm, 1e-9)

	hm, _, err := HarmonicMean(points, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 2/(1.0/4+1.0/9), hm, 1e-9)
}

func TestMovingAveragePreservesAnchorTimestampAndUnit(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []Point{
		{Value: 1, Unit: "USD Millions", Timestamp: base},
		{Value: 2, Unit: "USD Millions", Timestamp: base.AddDate(0, 1, 0)},
		{Value: 3, Unit: "USD Millions", Timestamp: base.AddDate(0, 2, 0)},
	}
	out, err := MovingAverage(points, 2, Options{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 1.5, out[0].Value)
	assert.Equal(t, points[1].Timestamp, out[0].Timestamp)
	assert.Equal(t, "USD Millions", out[0].Unit)
	assert.Equal(t, 2.5, out[1].Value)
	assert.Equal(t, points[2].Timestamp, out[1].Timestamp)
}

func TestMovingAverageShortInputReturnsNil(t *testing.T) {
	points := []Point{{Value: 1, Unit: "x"}}
	out, err := MovingAverage(points, 3, Options{})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestDeflateToBaseYear(t *testing.T) {
	cpi := map[int]float64{2020: 100, 2024: 120}
	v, err := DeflateToBaseYear(1200, 2024, 2020, cpi)
	require.NoError(t, err)
	assert.InDelta(t, 1000, v, 1e-9)
}

func TestDeflateToBaseYearMissingYearIsError(t *testing.T) {
	cpi := map[int]float64{2020: 100}
	_, err := DeflateToBaseYear(100, 2024, 2020, cpi)
	assert.ErrorIs(t, err, econ.ErrNonPositiveInput)
}
