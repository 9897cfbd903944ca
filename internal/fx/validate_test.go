package fx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func TestValidateFXRatesFlagsNonPositive(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"EUR": -1}}
	warnings := ValidateFXRates(table)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "EUR", warnings[0].Code)
}

func TestValidateFXRatesFlagsImplausible(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"JPY": 0.0001}}
	warnings := ValidateFXRates(table)
	assert.Len(t, warnings, 1)
	assert.Equal(t, "JPY", warnings[0].Code)
}

func TestValidateFXRatesIgnoresUncheckableCodes(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"XYZ": 0.00001}}
	warnings := ValidateFXRates(table)
	assert.Empty(t, warnings)
}

func TestAutoCorrectFixesOffByThousand(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"JPY": 0.15}}
	corrected := AutoCorrect(table)
	assert.InDelta(t, 150, corrected.Rates["JPY"], 1e-9)
}

func TestAutoCorrectLeavesPlausibleRatesAlone(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"JPY": 150}}
	corrected := AutoCorrect(table)
	assert.InDelta(t, 150, corrected.Rates["JPY"], 1e-9)
}

func TestSanitizeFXRatesStripsNonPositiveRates(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"EUR": 0, "GBP": 0.8}}
	sanitized, warnings, err := SanitizeFXRates(table)
	assert.Len(t, warnings, 1)
	assert.True(t, warnings[0].Rejected)
	assert.ErrorIs(t, err, econ.ErrInvalidFXRate)
	_, hasEUR := sanitized.Rates["EUR"]
	assert.False(t, hasEUR)
	assert.Equal(t, 0.8, sanitized.Rates["GBP"])
}

func TestSanitizeFXRatesLeavesImplausibleButPositiveRatesInPlace(t *testing.T) {
	table := econ.FXTable{Base: "USD", Rates: map[string]float64{"JPY": 0.0001}}
	sanitized, warnings, err := SanitizeFXRates(table)
	assert.Len(t, warnings, 1)
	assert.False(t, warnings[0].Rejected)
	assert.NoError(t, err)
	assert.Equal(t, 0.0001, sanitized.Rates["JPY"])
}
