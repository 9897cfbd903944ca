// Package rules implements the indicator-type rule matrix (C5 of
// spec.md §4.5): which conversion dimensions each indicator type and
// temporal-aggregation kind admit, plus a compatibility validator.
package rules

import "github.com/tellimer/indicator-normalizer/internal/econ"

// Dimensions is the four-boolean row of spec.md §3/§4.5 for one
// indicator type.
type Dimensions struct {
	AllowTimeDimension bool
	AllowMagnitude     bool
	AllowCurrency      bool
	SkipTimeInUnit     bool
}

// Matrix is the process-wide, immutable 27-entry table (26 named types
// plus "other"). "other" is the fallback row for any IndicatorType not
// listed explicitly.
var Matrix = map[econ.IndicatorType]Dimensions{
	econ.IndicatorFlow:        {true, true, true, false},
	econ.IndicatorStock:       {false, true, true, true},
	econ.IndicatorBalance:     {false, true, true, true},
	econ.IndicatorCount:       {true, true, false, false},
	econ.IndicatorVolume:      {true, true, false, false},
	econ.IndicatorPercentage:  {false, false, false, true},
	econ.IndicatorRatio:       {false, false, false, true},
	econ.IndicatorPrice:       {false, true, true, true},
	econ.IndicatorIndex:       {false, false, false, true},
	econ.IndicatorRate:        {false, false, false, true},
	econ.IndicatorYield:       {false, false, false, true},
	econ.IndicatorSpread:      {false, false, false, true},
	econ.IndicatorShare:       {false, false, false, true},
	econ.IndicatorVolatility:  {false, false, false, true},
	econ.IndicatorCorrelation: {false, false, false, true},
	econ.IndicatorElasticity:  {false, false, false, true},
	econ.IndicatorMultiplier:  {false, false, false, true},
	econ.IndicatorSentiment:   {false, false, false, true},
	econ.IndicatorAllocation:  {false, false, false, true},
	econ.IndicatorProbability: {false, false, false, true},
	econ.IndicatorDuration:    {false, false, false, true},
	econ.IndicatorPopulation:  {false, true, false, true},
	econ.IndicatorWage:        {true, true, true, false},
	econ.IndicatorTrade:       {true, true, true, false},
	econ.IndicatorDebt:        {false, true, true, true},
	econ.IndicatorReserve:     {false, true, true, true},
	econ.IndicatorOther:       {true, true, true, false},
}

// Lookup returns the dimensions row for a type, falling back to "other"
// for anything unlisted.
func Lookup(t econ.IndicatorType) Dimensions {
	if d, ok := Matrix[t]; ok {
		return d
	}
	return Matrix[econ.IndicatorOther]
}

// AggregationOverride describes how a temporal-aggregation kind modifies
// the time-dimension decision of the base row (spec.md §4.5).
type AggregationOverride int

const (
	// OverrideNone: defer entirely to the type row.
	OverrideNone AggregationOverride = iota
	// OverrideForceNoTime: point-in-time forces no time conversion.
	OverrideForceNoTime
	// OverrideForbidTime: period-cumulative / not-applicable forbid it.
	OverrideForbidTime
	// OverrideAllowTime: period-total/period-rate/period-average allow it
	// (subject to the type row still allowing a time dimension at all).
	OverrideAllowTime
)

// AggregationRule maps each TemporalAggregation to its override.
var AggregationRule = map[econ.TemporalAggregation]AggregationOverride{
	econ.PointInTime:      OverrideForceNoTime,
	econ.PeriodCumulative: OverrideForbidTime,
	econ.NotApplicable:    OverrideForbidTime,
	econ.PeriodTotal:      OverrideAllowTime,
	econ.PeriodRate:       OverrideAllowTime,
	econ.PeriodAverage:    OverrideAllowTime,
}

// AllowsTimeConversion combines the type row and the aggregation override
// into the single boolean the normalizer core consults before attempting
// a time rescale.
func AllowsTimeConversion(t econ.IndicatorType, agg econ.TemporalAggregation) bool {
	dims := Lookup(t)
	switch AggregationRule[agg] {
	case OverrideForceNoTime, OverrideForbidTime:
		return false
	default:
		return dims.AllowTimeDimension
	}
}

// incompatiblePairs lists (type, aggregation) combinations the
// compatibility validator blocks outright, per spec.md §4.5.
var incompatiblePairs = map[econ.IndicatorType]map[econ.TemporalAggregation]bool{
	econ.IndicatorStock: {econ.PeriodTotal: true},
	econ.IndicatorPrice: {econ.PeriodTotal: true, econ.PeriodRate: true},
	econ.IndicatorRatio: {
		econ.PeriodTotal: true, econ.PeriodCumulative: true, econ.PeriodAverage: true,
	},
	econ.IndicatorIndex: {
		econ.PeriodTotal: true, econ.PeriodCumulative: true, econ.PeriodAverage: true,
	},
	econ.IndicatorPercentage: {
		econ.PeriodTotal: true, econ.PeriodCumulative: true, econ.PeriodAverage: true,
	},
	econ.IndicatorFlow:   {econ.NotApplicable: true},
	econ.IndicatorVolume: {econ.NotApplicable: true},
	econ.IndicatorCount:  {econ.NotApplicable: true},
}

// Incompatible reports whether the (type, aggregation) pair is on the
// compatibility validator's block list. When true, the caller must block
// time conversion and emit a warning (spec.md §4.5, error kind
// IncompatibleTypeAggregation in spec.md §7).
func Incompatible(t econ.IndicatorType, agg econ.TemporalAggregation) bool {
	if row, ok := incompatiblePairs[t]; ok {
		return row[agg]
	}
	return false
}
