// Package explain builds the machine-readable Explain record (C7 of
// spec.md §4.7) from the raw signals the normalizer core (C6) collects
// while applying its magnitude -> time -> currency pipeline.
//
// Grounded on the teacher's internal/explain package (explainer.go,
// schema.go, collectors.go): a dedicated builder type that assembles a
// structured report from already-computed inputs, rather than the
// normalizer inlining explain-string formatting itself.
package explain

import (
	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/rules"
)

// Input is everything the builder needs to assemble an Explain record.
// The normalizer core populates one of these as it runs its pipeline.
type Input struct {
	OriginalUnitText     string
	Parsed              econ.ParsedUnit
	IndicatorName        string
	IndicatorType        econ.IndicatorType
	TemporalAggregation econ.TemporalAggregation
	Periodicity          econ.Periodicity
	Dims                 rules.Dimensions

	SourceCurrency string
	TargetCurrency string
	SourceScale    econ.Scale
	TargetScale    econ.Scale
	SourceTime     econ.TimeScale
	TargetTime     econ.TimeScale

	MagnitudeApplied bool
	CurrencyApplied  bool
	TimeApplied      bool
	TimeBlockedReason string // non-empty iff a time conversion was blocked

	FX            econ.FXTable
	FXRate        float64 // multiplicative factor actually applied: units of TargetCurrency per SourceCurrency, full precision
	FXDisplayCode string  // the non-base currency code to report in FXExplain.Rate
	FXDisplayRate float64 // that code's raw table rate (units of code per FX.Base)

	OriginalValue   float64
	NormalizedValue float64

	IsCountLike      bool // count/volume indicator type
	IsStockLikeCount bool // population/inhabitants/residents/people-style count
	IsPerCapita      bool // name matches "per capita"
	SuppressedCurrencyInCountUnit bool // an ISO code was parsed out of a count-type unit and suppressed
}
