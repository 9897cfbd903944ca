package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func TestLookupFallsBackToOther(t *testing.T) {
	got := Lookup(econ.IndicatorType("not-a-real-type"))
	assert.Equal(t, Matrix[econ.IndicatorOther], got)
}

func TestAllowsTimeConversion(t *testing.T) {
	assert.True(t, AllowsTimeConversion(econ.IndicatorFlow, econ.PeriodTotal))
	assert.False(t, AllowsTimeConversion(econ.IndicatorFlow, econ.PointInTime))
	assert.False(t, AllowsTimeConversion(econ.IndicatorStock, econ.PeriodCumulative))
	assert.False(t, AllowsTimeConversion(econ.IndicatorPercentage, econ.PeriodTotal), "percentage never allows a time dimension")
}

func TestIncompatiblePairs(t *testing.T) {
	assert.True(t, Incompatible(econ.IndicatorStock, econ.PeriodTotal))
	assert.True(t, Incompatible(econ.IndicatorPrice, econ.PeriodRate))
	assert.False(t, Incompatible(econ.IndicatorFlow, econ.PeriodTotal))
}

func TestIndexDisallowsMagnitudeAndCurrency(t *testing.T) {
	dims := Lookup(econ.IndicatorIndex)
	assert.False(t, dims.AllowMagnitude)
	assert.False(t, dims.AllowCurrency)
	assert.True(t, dims.SkipTimeInUnit)
}
