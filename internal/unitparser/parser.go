// Package unitparser implements the free-text unit string parser (C2 of
// spec.md §4.2). Parse is deterministic and never fails: unrecognized
// text resolves to {Category: unknown}.
package unitparser

import (
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/patterns"
)

// Parse turns a free-text unit string into a structured ParsedUnit,
// following the ordered steps of spec.md §4.2.
func Parse(text string) econ.ParsedUnit {
	normalized := patterns.NormalizeText(text)
	if normalized == "" {
		return econ.ParsedUnit{Category: econ.CategoryUnknown}
	}

	if patterns.PercentTokens.MatchString(normalized) {
		return finish(econ.ParsedUnit{Category: econ.CategoryPercentage, NormalizedLabel: "%"}, normalized)
	}

	if patterns.IndexTokens.MatchString(normalized) {
		return finish(econ.ParsedUnit{Category: econ.CategoryIndex, NormalizedLabel: "points"}, normalized)
	}

	if isRate(normalized) {
		return finish(econ.ParsedUnit{Category: econ.CategoryRate, NormalizedLabel: normalized}, normalized)
	}

	if patterns.DetectDuration(normalized) {
		return finish(econ.ParsedUnit{Category: econ.CategoryTime, NormalizedLabel: normalized}, normalized)
	}

	if patterns.RatioTokens.MatchString(normalized) {
		return finish(econ.ParsedUnit{Category: econ.CategoryRatio, NormalizedLabel: "x"}, normalized)
	}

	if entry, ok := patterns.DetectDomain(normalized); ok {
		return finishDomain(entry, normalized)
	}

	return finish(econ.ParsedUnit{}, normalized)
}

// isRate implements spec.md §4.2 step 4: per-capita/per-person/per-1000/
// per-million tokens, "/100", or an explicit price pattern (ISO code +
// "/" + word, e.g. "USD/barrel").
func isRate(normalized string) bool {
	if patterns.RateTokens.MatchString(normalized) {
		return true
	}
	if m := patterns.PricePattern.FindStringSubmatch(normalized); m != nil {
		code := strings.ToUpper(m[1])
		if patterns.KnownISOCodes[code] {
			return true
		}
	}
	return false
}

// finish runs the shared currency/magnitude/time detection and composite
// determination (spec.md §4.2 steps 8-10) over a ParsedUnit whose
// category has not yet been set by an earlier, more specific step.
func finish(pu econ.ParsedUnit, normalized string) econ.ParsedUnit {
	currency, hasCurrency := detectCurrency(normalized)
	mag, hasMag := patterns.DetectMagnitude(normalized)
	ts, hasTime := patterns.DetectTimeScale(normalized)

	if pu.Category == "" {
		pu.Category = econ.CategoryUnknown
		if hasCurrency {
			pu.Category = econ.CategoryCurrency
		}
	}
	if hasCurrency {
		pu.Currency = currency
	}
	if hasMag {
		pu.Scale = mag
	}
	if hasTime {
		pu.TimeScale = ts
	}
	if hasCurrency && hasTime {
		pu.Category = econ.CategoryComposite
		pu.IsComposite = true
	}
	if pu.NormalizedLabel == "" {
		pu.NormalizedLabel = canonicalLabel(pu, normalized)
	}
	return pu
}

func finishDomain(entry patterns.DomainEntry, normalized string) econ.ParsedUnit {
	pu := econ.ParsedUnit{Category: entry.Category, NormalizedLabel: entry.Label}
	return finish(pu, normalized)
}

// detectCurrency implements spec.md §4.2 step 8: ISO codes first
// (word-boundary regex so "subscribers" never mis-fires), then symbols,
// then spelled-out currency words as the last resort.
func detectCurrency(normalized string) (string, bool) {
	if code, ok := patterns.DetectISOCode(normalized); ok {
		return code, true
	}
	if code, ok := patterns.DetectSymbol(normalized); ok {
		return code, true
	}
	if code, ok := patterns.DetectCurrencyWord(normalized); ok {
		return code, true
	}
	return "", false
}

// canonicalLabel produces a stable normalized string for categories that
// didn't already set one explicitly, satisfying the idempotency property
// of spec.md §8 property 4: parsing the label again must resolve to the
// same category. The exception is the "units" fallback for an unknown
// unit with no residual noun: "units" re-parses as category count.
func canonicalLabel(pu econ.ParsedUnit, normalized string) string {
	switch pu.Category {
	case econ.CategoryComposite:
		return pu.Currency + " per " + string(pu.TimeScale)
	case econ.CategoryCurrency:
		return pu.Currency
	case econ.CategoryUnknown:
		if residual := patterns.StripModifierTokens(normalized); residual != "" {
			return residual
		}
		return "units"
	default:
		return normalized
	}
}
