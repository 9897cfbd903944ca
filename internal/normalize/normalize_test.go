package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// TestNormalizeS1CurrencyMagnitude covers spec.md §8 scenario S1: an XOF
// billions flow converted to USD millions reports the raw source-table
// rate (558.16), not the multiplicative factor actually applied.
func TestNormalizeS1CurrencyMagnitude(t *testing.T) {
	fx := &econ.FXTable{Base: "USD", Rates: map[string]float64{"XOF": 558.16}, Source: "live"}
	res, err := Normalize(1000, "XOF Billions", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD", ToMagnitude: econ.ScaleMillions},
		FX:                   fx,
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.PeriodTotal,
	})
	require.NoError(t, err)

	// 1000 billions XOF -> millions XOF: ×1000; then XOF -> USD: ÷558.16
	want := 1000 * 1000 / 558.16
	assert.InDelta(t, want, res.Value, 1e-6)

	require.NotNil(t, res.Explain.FX)
	assert.Equal(t, "XOF", res.Explain.FX.Currency)
	assert.InDelta(t, 558.16, res.Explain.FX.Rate, 1e-6)
	assert.Equal(t, "USD", res.Explain.FX.Base)
}

func TestNormalizeAppliesTotalFactorWithinTolerance(t *testing.T) {
	fx := &econ.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}
	res, err := Normalize(500, "EUR Millions per Quarter", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD", ToMagnitude: econ.ScaleMillions, ToTimeScale: econ.TimeMonth},
		FX:                   fx,
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.PeriodTotal,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Explain.Conversion)
	assert.InDelta(t, 500*res.Explain.Conversion.TotalFactor, res.Value, 1e-9)
}

func TestNormalizePercentageNeverConvertsMagnitudeOrCurrency(t *testing.T) {
	res, err := Normalize(5.2, "%", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD", ToMagnitude: econ.ScaleMillions},
		IndicatorType:        econ.IndicatorPercentage,
		TemporalAggregation:  econ.PointInTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.2, res.Value)
	assert.Nil(t, res.Explain.FX)
	assert.Nil(t, res.Explain.Magnitude)
}

func TestNormalizeBlocksTimeConversionForPointInTime(t *testing.T) {
	res, err := Normalize(100, "USD Millions", Options{
		NormalizationTargets: econ.NormalizationTargets{ToTimeScale: econ.TimeMonth},
		IndicatorType:        econ.IndicatorStock,
		TemporalAggregation:  econ.PointInTime,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Value)
	found := false
	for _, w := range res.Explain.QualityWarnings {
		if w.Type == "blocked-time-conversion" {
			found = true
		}
	}
	assert.True(t, found, "a blocked time conversion must surface a quality warning")
}

// TestNormalizeNotApplicableSkipsTimeWithoutBlockedWarning covers spec.md
// §4.6's distinction between not-applicable (time step is a no-op with no
// blocked-time-conversion warning) and point-in-time / period-cumulative
// (no-op plus a blocked-time-conversion warning). Flow with not-applicable
// is still an incompatible pair, so an incompatible-type-aggregation
// warning is present.
func TestNormalizeNotApplicableSkipsTimeWithoutBlockedWarning(t *testing.T) {
	res, err := Normalize(100, "USD Millions per Month", Options{
		NormalizationTargets: econ.NormalizationTargets{ToTimeScale: econ.TimeYear},
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.NotApplicable,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Value)
	for _, w := range res.Explain.QualityWarnings {
		assert.NotEqual(t, "blocked-time-conversion", w.Type)
	}
	assert.Nil(t, res.Explain.Periodicity)
}

func TestNormalizeForceFailsUnsupportedCurrencyConversion(t *testing.T) {
	_, err := Normalize(5, "Index Points", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD"},
		IndicatorType:        econ.IndicatorIndex,
		Force:                true,
	})
	assert.ErrorIs(t, err, econ.ErrUnsupportedConversion)
}

func TestNormalizeWithoutForceWarnsInsteadOfFailing(t *testing.T) {
	res, err := Normalize(5, "Index Points", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD"},
		IndicatorType:        econ.IndicatorIndex,
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.Value)
}

func TestNormalizeMissingFXRateFails(t *testing.T) {
	_, err := Normalize(100, "EUR Millions", Options{
		NormalizationTargets: econ.NormalizationTargets{ToCurrency: "USD"},
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.PeriodTotal,
	})
	assert.ErrorIs(t, err, econ.ErrMissingFXRate)
}

func TestNormalizeMagnitudeTimeOrderIndependent(t *testing.T) {
	// Applying the magnitude and time conversions in either order must
	// reach the same result, since the combined factor is associative
	// (spec.md §8 property 8).
	opts := Options{
		NormalizationTargets: econ.NormalizationTargets{ToMagnitude: econ.ScaleThousands, ToTimeScale: econ.TimeYear},
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.PeriodTotal,
	}
	res, err := Normalize(12, "Millions per Month", opts)
	require.NoError(t, err)
	// 12 million/month -> thousands/month: ×1000; -> per year: ×12
	assert.InDelta(t, 12*1000*12, res.Value, 1e-9)
}

func TestNormalizeStockLikeCountSkipsTimeAndCurrency(t *testing.T) {
	res, err := Normalize(1_000_000, "People", Options{
		IndicatorName: "Population",
		IndicatorType: econ.IndicatorCount,
	})
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, res.Value)
	assert.True(t, res.Explain.Units.NormalizedUnit != "")
}

func TestNormalizePerCapitaPinsToOnes(t *testing.T) {
	res, err := Normalize(42000, "USD", Options{
		NormalizationTargets: econ.NormalizationTargets{ToMagnitude: econ.ScaleMillions},
		IndicatorName:        "GDP per capita",
		IndicatorType:        econ.IndicatorFlow,
		TemporalAggregation:  econ.PeriodTotal,
	})
	require.NoError(t, err)
	assert.Equal(t, 42000.0, res.Value)
}
