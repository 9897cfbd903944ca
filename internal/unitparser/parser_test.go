package unitparser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func TestParseCurrencyMagnitude(t *testing.T) {
	pu := Parse("XOF Billions")
	assert.Equal(t, econ.CategoryCurrency, pu.Category)
	assert.Equal(t, "XOF", pu.Currency)
	assert.Equal(t, econ.ScaleBillions, pu.Scale)
}

func TestParseComposite(t *testing.T) {
	pu := Parse("XOF Billions per Quarter")
	assert.True(t, pu.IsComposite)
	assert.Equal(t, econ.CategoryComposite, pu.Category)
	assert.Equal(t, econ.TimeQuarter, pu.TimeScale)
}

func TestParsePercentage(t *testing.T) {
	pu := Parse("%")
	assert.Equal(t, econ.CategoryPercentage, pu.Category)
}

func TestParseIndex(t *testing.T) {
	pu := Parse("Index Points")
	assert.Equal(t, econ.CategoryIndex, pu.Category)
}

func TestParsePerCapitaIsRate(t *testing.T) {
	pu := Parse("USD per capita")
	assert.Equal(t, econ.CategoryRate, pu.Category)
}

func TestParseRatio(t *testing.T) {
	pu := Parse("Ratio")
	assert.Equal(t, econ.CategoryRatio, pu.Category)
}

func TestParseDomainMetalsOverridesGeneric(t *testing.T) {
	pu := Parse("Gold Tonnes")
	assert.Equal(t, econ.CategoryPhysical, pu.Category)
	assert.Equal(t, "gold troy ounces", pu.NormalizedLabel)
}

func TestParseUnknownThousandsStripsToUnits(t *testing.T) {
	pu := Parse("Thousands")
	assert.Equal(t, econ.ScaleThousands, pu.Scale)
	assert.Equal(t, "units", pu.NormalizedLabel)
	assert.NotContains(t, pu.NormalizedLabel, "thousand")
}

func TestParseEmptyIsUnknown(t *testing.T) {
	pu := Parse("   ")
	assert.Equal(t, econ.CategoryUnknown, pu.Category)
}

// Idempotency: parsing a canonical label again must resolve to the same
// category (spec.md §8 property 4).
func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"XOF Billions", "XOF Billions per Quarter", "%", "Index Points",
		"Thousands", "Gold Tonnes", "ARS per Month",
	}
	for _, in := range inputs {
		first := Parse(in)
		second := Parse(first.NormalizedLabel)
		assert.Equal(t, first.Category, second.Category, "input=%q label=%q", in, first.NormalizedLabel)
	}
}
