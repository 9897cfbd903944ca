package explain

import (
	"regexp"
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/patterns"
)

var wageNameRe = regexp.MustCompile(`(?i)\bwage|salary|salaries|earnings|income\b`)
var monetaryAggregateRe = regexp.MustCompile(`(?i)\bm[0-3]\b|\bmoney\s+supply\b|\bmonetary\s+aggregate\b`)

// classifyDomain implements spec.md §4.7's domain heuristic with the
// documented precedence: wages (by name) > monetary aggregate (by name) >
// domain-unit match > parsed category.
func classifyDomain(in Input, normalizedUnit string) string {
	if wageNameRe.MatchString(in.IndicatorName) {
		return "wages"
	}
	if monetaryAggregateRe.MatchString(in.IndicatorName) {
		return "monetary_aggregate"
	}
	if entry, ok := patterns.DetectDomain(patterns.NormalizeText(normalizedUnit)); ok && entry.Domain != "" {
		return entry.Domain
	}
	switch in.Parsed.Category {
	case econ.CategoryPercentage:
		return "percentage"
	case econ.CategoryCount, econ.CategoryPopulation:
		return "count"
	case econ.CategoryEnergy:
		return "energy"
	}
	return ""
}

func isWageLike(name string) bool {
	return wageNameRe.MatchString(strings.ToLower(name))
}
