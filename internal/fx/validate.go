package fx

import (
	"fmt"
	"math"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// RateWarning is one flagged issue from ValidateFXRates.
type RateWarning struct {
	Code    string
	Rate    float64
	Message string
	// Rejected is true for non-positive/non-finite rates, which
	// SanitizeFXRates strips from the table outright (spec.md §3's
	// ingestion invariant), as opposed to merely-implausible rates, which
	// are reported but left in place.
	Rejected bool
}

// plausibleRange is a partial table of [low, high] rate bounds (units of
// code per USD) for currencies historically prone to being recorded off
// by a factor of 1000 (spec.md §4.4, §9). Codes absent from this table
// are treated as "not checkable" and never flagged, per spec.md §9's
// explicit guidance that the source table is partial.
var plausibleRange = map[string][2]float64{
	"JPY": {80, 400},
	"XOF": {400, 900},
	"XAF": {400, 900},
	"KRW": {800, 2000},
	"IDR": {8000, 20000},
	"VND": {15000, 30000},
	"HUF": {200, 600},
	"CLP": {600, 1400},
	"COP": {2000, 6000},
	"ISK": {80, 200},
}

// ValidateFXRates flags negative/zero/non-finite rates unconditionally,
// and flags rates for checkable codes that fall outside the plausible
// range by at least a factor of 1000 (spec.md §4.4).
func ValidateFXRates(table econ.FXTable) []RateWarning {
	var warnings []RateWarning
	for code, r := range table.Rates {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			warnings = append(warnings, RateWarning{Code: code, Rate: r, Message: "non-positive or non-finite fx rate", Rejected: true})
			continue
		}
		rng, checkable := plausibleRange[code]
		if !checkable {
			continue
		}
		if r < rng[0]/1000 || r > rng[1]*1000 {
			warnings = append(warnings, RateWarning{
				Code: code, Rate: r,
				Message: "fx rate appears off by a large factor from the plausible range",
			})
		}
	}
	return warnings
}

// SanitizeFXRates enforces spec.md §3's ingestion invariant: "zero or
// negative rates are rejected at ingestion". It runs ValidateFXRates and
// strips every Rejected entry (non-positive or non-finite) from the
// returned table, so a later FXTable.Rate lookup for that code reports
// unknown rather than propagating Inf/NaN into a normalized value.
// Merely-implausible-but-positive rates (the magnitude-range warnings)
// are reported but left in the table, matching spec.md §4.4's autoCorrect
// semantics ("leaves unchanged and reports" when not auto-correctable).
// err wraps econ.ErrInvalidFXRate, one per rejected code, for callers that
// want to surface ingestion rejection as a hard failure instead of a
// logged warning.
func SanitizeFXRates(table econ.FXTable) (econ.FXTable, []RateWarning, error) {
	warnings := ValidateFXRates(table)
	var rejected []string
	rates := make(map[string]float64, len(table.Rates))
	for code, r := range table.Rates {
		rates[code] = r
	}
	for _, w := range warnings {
		if w.Rejected {
			delete(rates, w.Code)
			rejected = append(rejected, w.Code)
		}
	}
	sanitized := table
	sanitized.Rates = rates
	var err error
	if len(rejected) > 0 {
		err = fmt.Errorf("%w: %v", econ.ErrInvalidFXRate, rejected)
	}
	return sanitized, warnings, err
}

// AutoCorrect multiplies any rate by 1000 when doing so brings it within
// the plausible range for a checkable code; rates left unchanged (either
// already plausible, already off by more than 1000x in the other
// direction, or not checkable) are returned unmodified, per spec.md
// §4.4's autoCorrect mode.
func AutoCorrect(table econ.FXTable) econ.FXTable {
	corrected := econ.FXTable{Base: table.Base, Dates: table.Dates, Source: table.Source, SourceID: table.SourceID}
	rates := make(map[string]float64, len(table.Rates))
	for code, r := range table.Rates {
		rng, checkable := plausibleRange[code]
		if checkable && r > 0 && (r < rng[0] || r > rng[1]) {
			if candidate := r * 1000; candidate >= rng[0] && candidate <= rng[1] {
				rates[code] = candidate
				continue
			}
		}
		rates[code] = r
	}
	corrected.Rates = rates
	return corrected
}
