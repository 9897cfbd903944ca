package patterns

import (
	"regexp"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// DomainEntry describes one recognized physical/energy/commodity token:
// the regex that matches it, the category it resolves to, the canonical
// normalized label, and an optional domain tag consumed by the explain
// builder's domain heuristic (spec.md §4.7).
type DomainEntry struct {
	Re     *regexp.Regexp
	Category econ.Category
	Label  string
	Domain string
}

// domainDictionary is checked in order; metals entries are listed before
// the generic physical/commodity entries so the tie-break in spec.md
// §4.2 ("metals dictionary overrides generic physical/commodity when both
// match") falls out of ordering alone.
var domainDictionary = []DomainEntry{
	// Metals (checked first: overrides generic physical/commodity). Labels
	// carry the metal name itself so re-parsing the label round-trips to
	// the same entry instead of colliding on a shared generic unit word.
	{regexp.MustCompile(`\bcopper\b`), econ.CategoryPhysical, "copper tonnes", "metals"},
	{regexp.MustCompile(`\bsilver\b`), econ.CategoryPhysical, "silver troy ounces", "metals"},
	{regexp.MustCompile(`\bgold\b`), econ.CategoryPhysical, "gold troy ounces", "metals"},
	{regexp.MustCompile(`\bsteel\b`), econ.CategoryPhysical, "steel tonnes", "metals"},
	{regexp.MustCompile(`\baluminum|aluminium\b`), econ.CategoryPhysical, "aluminum tonnes", "metals"},

	// Energy.
	{regexp.MustCompile(`\bgwh\b`), econ.CategoryEnergy, "GWh", "energy"},
	{regexp.MustCompile(`\bmwh?\b`), econ.CategoryEnergy, "MW", "energy"},
	{regexp.MustCompile(`\btj\b`), econ.CategoryEnergy, "TJ", "energy"},
	{regexp.MustCompile(`\bbtu\b`), econ.CategoryEnergy, "BTU", "energy"},
	{regexp.MustCompile(`\bkwh\b`), econ.CategoryEnergy, "kWh", "energy"},

	// Commodities.
	{regexp.MustCompile(`\bbbl\b|\bbarrels?\b`), econ.CategoryPhysical, "bbl", "commodity"},
	{regexp.MustCompile(`\bbushels?\b`), econ.CategoryPhysical, "bushels", "agriculture"},

	// Agriculture / mass.
	{regexp.MustCompile(`\btonnes?\b|\bmetric\s+tons?\b`), econ.CategoryPhysical, "tonnes", "agriculture"},
	{regexp.MustCompile(`\bhectares?\b`), econ.CategoryPhysical, "hectares", "agriculture"},

	// Emissions. Label avoids the word "tonnes" so re-parsing it doesn't
	// fall into the agriculture tonnes entry checked earlier in this list.
	{regexp.MustCompile(`\bco2e?\b|\bcarbon\s+dioxide\b`), econ.CategoryPhysical, "CO2e", "emissions"},

	// Temperature.
	{regexp.MustCompile(`\bcelsius|°c\b`), econ.CategoryTemperature, "°C", ""},
	{regexp.MustCompile(`\bfahrenheit|°f\b`), econ.CategoryTemperature, "°F", ""},

	// Population / headcount.
	{regexp.MustCompile(`\bpeople\b|\binhabitants?\b|\bresidents?\b|\bpopulation\b`), econ.CategoryPopulation, "people", ""},
	{regexp.MustCompile(`\bsubscribers?\b|\busers?\b|\bunits?\b|\bvehicles?\b|\bhouseholds?\b`), econ.CategoryCount, "units", ""},
}

// DetectDomain returns the first matching domain dictionary entry for
// normalized text.
func DetectDomain(normalized string) (DomainEntry, bool) {
	for _, e := range domainDictionary {
		if e.Re.MatchString(normalized) {
			return e, true
		}
	}
	return DomainEntry{}, false
}

// Category-marker tokens for percentage / index / rate / ratio detection
// (spec.md §4.2 steps 2-6).
var (
	PercentTokens = regexp.MustCompile(`%|\bpct\b|\bpp\b|\bbps\b|\bpercent(age)?\s+of\b|\bpercent\b`)
	IndexTokens   = regexp.MustCompile(`\bpoints?\b|\bindex\b|\bbasis\s+points\b`)
	RateTokens    = regexp.MustCompile(`\bper\s+capita\b|\bper\s+person\b|\bper\s+1000\b|\bper\s+million\b|/100\b`)
	RatioTokens   = regexp.MustCompile(`\btimes\b|\bratio\b|\bmultiple\b|\bx\b|\bcoefficient\b`)
	PricePattern  = regexp.MustCompile(`(?i)\b([a-z]{3})\s*/\s*\w+`)
)
