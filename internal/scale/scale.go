// Package scale implements exact-ratio magnitude and time rescaling, per
// spec.md §4.3.
package scale

import "github.com/tellimer/indicator-normalizer/internal/econ"

// Factors maps each magnitude token to its multiplicative exponent.
var Factors = map[econ.Scale]float64{
	econ.ScaleOnes:            1,
	econ.ScaleHundreds:        1e2,
	econ.ScaleThousands:       1e3,
	econ.ScaleMillions:        1e6,
	econ.ScaleHundredMillions: 1e8,
	econ.ScaleBillions:        1e9,
	econ.ScaleTrillions:       1e12,
}

// PerYear maps each time-basis token to the number of periods per year,
// so that "rescale to a shorter period" divides and "rescale to a longer
// period" multiplies consistently via the single RescaleTime formula.
var PerYear = map[econ.TimeScale]float64{
	econ.TimeYear:    1,
	econ.TimeQuarter: 4,
	econ.TimeMonth:   12,
	econ.TimeWeek:    52,
	econ.TimeDay:     365,
	econ.TimeHour:    8760,
}

// RescaleMagnitude converts a value expressed in `from` units to `to`
// units: v × SCALE[from]/SCALE[to].
func RescaleMagnitude(v float64, from, to econ.Scale) float64 {
	return v * Factors[from] / Factors[to]
}

// MagnitudeFactor returns the bare multiplicative factor SCALE[from]/SCALE[to]
// without applying it, for explain-record construction.
func MagnitudeFactor(from, to econ.Scale) float64 {
	return Factors[from] / Factors[to]
}

// RescaleTime converts a value expressed per `from` basis to a value
// per `to` basis: v × PER_YEAR[from]/PER_YEAR[to]. E.g. converting a
// monthly flow to a quarterly flow multiplies by 12/4 = 3.
func RescaleTime(v float64, from, to econ.TimeScale) float64 {
	return v * PerYear[from] / PerYear[to]
}

// TimeFactor returns the bare multiplicative factor PER_YEAR[from]/PER_YEAR[to].
func TimeFactor(from, to econ.TimeScale) float64 {
	return PerYear[from] / PerYear[to]
}
