package econ

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFXTableRateFromBase(t *testing.T) {
	table := FXTable{Base: "USD", Rates: map[string]float64{"XOF": 558.16}}
	rate, ok := table.Rate("USD", "XOF")
	assert.True(t, ok)
	assert.InDelta(t, 558.16, rate, 1e-9)
}

func TestFXTableRateToBase(t *testing.T) {
	table := FXTable{Base: "USD", Rates: map[string]float64{"XOF": 558.16}}
	rate, ok := table.Rate("XOF", "USD")
	assert.True(t, ok)
	assert.InDelta(t, 1/558.16, rate, 1e-9)
}

func TestFXTableRateSameCodeIsOne(t *testing.T) {
	table := FXTable{Base: "USD"}
	rate, ok := table.Rate("EUR", "EUR")
	assert.True(t, ok)
	assert.Equal(t, 1.0, rate)
}

func TestFXTableRateUnknownCodeFails(t *testing.T) {
	table := FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}
	_, ok := table.Rate("USD", "XYZ")
	assert.False(t, ok)
}

func TestFXTableRateCrossRate(t *testing.T) {
	table := FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9, "GBP": 0.75}}
	rate, ok := table.Rate("EUR", "GBP")
	assert.True(t, ok)
	assert.InDelta(t, 0.75/0.9, rate, 1e-9)
}

func TestGroupKeyNormalizesWhitespaceAndCase(t *testing.T) {
	assert.Equal(t, "gdp growth", NormalizeGroupKey("  GDP   Growth "))
	assert.Equal(t, Observation{Name: "GDP"}.GroupKey(), NormalizeGroupKey("GDP"))
}
