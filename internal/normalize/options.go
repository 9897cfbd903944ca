// Package normalize implements the normalizer core (C6 of spec.md §4.6):
// applying magnitude -> time -> currency conversions under the rule
// matrix, producing a value plus an explain record.
package normalize

import (
	"regexp"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// Options is the normalizer's input options bag, matching spec.md §4.6's
// opts = NormalizationTargets ∪ {fx?, explicit*, indicatorName?, ...}.
type Options struct {
	econ.NormalizationTargets

	FX                  *econ.FXTable
	ExplicitCurrency    string
	ExplicitScale       econ.Scale
	ExplicitTimeScale   econ.TimeScale
	IndicatorName       string
	IndicatorType       econ.IndicatorType
	TemporalAggregation econ.TemporalAggregation
	IsCumulative        bool // legacy flag; see DESIGN.md open-question decision
	Periodicity         econ.Periodicity

	// Force turns the normalizer's default fail-soft behavior (warn and
	// best-effort) into a hard failure for requests the rule matrix or
	// available data cannot satisfy: ErrUnsupportedConversion when
	// currency conversion is requested against a type that disallows it,
	// ErrInvalidTimeBasis when a time target is requested but no source
	// time basis is inferable. Blocked time conversions (point-in-time,
	// period-cumulative, incompatible pairs) still only warn.
	Force bool
}

// effectiveAggregation resolves the legacy isCumulative flag (spec.md §9:
// "this spec chooses the rule-matrix version as canonical and treats
// isCumulative=true as equivalent to temporalAggregation=period-cumulative").
func (o Options) effectiveAggregation() econ.TemporalAggregation {
	if o.TemporalAggregation == "" && o.IsCumulative {
		return econ.PeriodCumulative
	}
	return o.TemporalAggregation
}

var perCapitaRe = regexp.MustCompile(`(?i)\bper\s+capita\b`)

func isPerCapita(name string) bool {
	return perCapitaRe.MatchString(name)
}

var stockLikeCountRe = regexp.MustCompile(`(?i)\bpopulation\b|\binhabitants?\b|\bresidents?\b|\bpeople\b`)

func isStockLikeCount(name string) bool {
	return stockLikeCountRe.MatchString(name)
}
