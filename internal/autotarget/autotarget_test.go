package autotarget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

func obs(name, unit string) econ.Observation {
	return econ.Observation{Name: name, Unit: unit}
}

func TestComputeAutoTargetsMajorityVote(t *testing.T) {
	population := []econ.Observation{
		obs("GDP", "USD Millions"),
		obs("GDP", "USD Millions"),
		obs("GDP", "EUR Millions"),
	}
	out := ComputeAutoTargets(population, Options{})
	sel, ok := out["gdp"]
	require.True(t, ok)
	assert.Equal(t, "USD", sel.Currency)
	assert.Equal(t, econ.ScaleMillions, sel.Magnitude)
}

// TestComputeAutoTargetsSelectedShareIsMax covers spec.md §8 testable
// property #5: the chosen value's share must be >= every other value's
// share in the same tally.
func TestComputeAutoTargetsSelectedShareIsMax(t *testing.T) {
	population := []econ.Observation{
		obs("CPI", "USD Millions"),
		obs("CPI", "USD Millions"),
		obs("CPI", "USD Millions"),
		obs("CPI", "EUR Millions"),
	}
	out := ComputeAutoTargets(population, Options{})
	sel := out["cpi"]
	shares := sel.Shares["currency"]
	chosenShare := shares[sel.Currency]
	for code, share := range shares {
		if code == sel.Currency {
			continue
		}
		assert.GreaterOrEqual(t, chosenShare, share)
	}
}

func TestComputeAutoTargetsIncumbentBreaksTie(t *testing.T) {
	population := []econ.Observation{
		obs("Trade Balance", "USD Millions"),
		obs("Trade Balance", "EUR Millions"),
	}
	out := ComputeAutoTargets(population, Options{
		Incumbents: map[string]Incumbent{"trade balance": {Currency: "EUR"}},
	})
	assert.Equal(t, "EUR", out["trade balance"].Currency)
}

func TestComputeAutoTargetsPriorityOrderBreaksTieWithoutIncumbent(t *testing.T) {
	population := []econ.Observation{
		obs("Reserves", "EUR Millions"),
		obs("Reserves", "USD Millions"),
	}
	out := ComputeAutoTargets(population, Options{})
	// USD outranks EUR in currencyPriority when tied and there's no incumbent.
	assert.Equal(t, "USD", out["reserves"].Currency)
}

func TestComputeAutoTargetsGroupsByNormalizedName(t *testing.T) {
	population := []econ.Observation{
		obs("  Gdp  ", "USD Millions"),
		obs("gdp", "USD Millions"),
	}
	out := ComputeAutoTargets(population, Options{})
	assert.Len(t, out, 1)
	assert.Contains(t, out, "gdp")
}

func TestComputeAutoTargetsExplicitFieldsOutrankParsedUnit(t *testing.T) {
	population := []econ.Observation{
		{Name: "Wages", Unit: "EUR Millions", CurrencyCode: "USD"},
		{Name: "Wages", Unit: "EUR Millions", CurrencyCode: "USD"},
	}
	out := ComputeAutoTargets(population, Options{})
	assert.Equal(t, "USD", out["wages"].Currency)
}
