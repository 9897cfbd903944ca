// Package aggregate implements the aggregation functions of spec.md
// §4.11: sum, mean, median, weighted mean, geometric/harmonic mean,
// dispersion metadata, and a timestamp-preserving moving average, with an
// optional pre-normalization step so heterogeneous units can be combined.
package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/normalize"
)

// Point is one input value to an aggregation, optionally carrying the
// free-text unit it was reported in (required when NormalizeFirst is set)
// and a timestamp (required for MovingAverage).
type Point struct {
	Value     float64
	Unit      string
	Timestamp time.Time
}

// Options configures aggregation behavior.
type Options struct {
	// NormalizeFirst, when true, converts every point to a common unit
	// before aggregating, using Target and FX. Without it, mixing units
	// is an error.
	NormalizeFirst bool
	Target         econ.NormalizationTargets
	FX             *econ.FXTable
	IndicatorType  econ.IndicatorType

	// Weights, parallel to the input slice, for WeightedMean. A weight of
	// "value" is represented by passing nil and WeightedMean will use
	// |value| as the weight for every point.
	Weights []float64
}

// Metadata carries the dispersion statistics spec.md §4.11 asks every
// aggregation to report alongside its primary result.
type Metadata struct {
	Count    int
	Min      float64
	Max      float64
	Variance float64
	StdDev   float64
}

func resolveValues(points []Point, opts Options) ([]float64, error) {
	if len(points) == 0 {
		return nil, econ.ErrAggregationEmpty
	}
	if !opts.NormalizeFirst {
		unit := points[0].Unit
		for _, p := range points[1:] {
			if p.Unit != unit {
				return nil, econ.ErrUnitMismatch
			}
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Value
		}
		return values, nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		result, err := normalize.Normalize(p.Value, p.Unit, normalize.Options{
			NormalizationTargets: opts.Target,
			FX:                   opts.FX,
			IndicatorType:        opts.IndicatorType,
		})
		if err != nil {
			return nil, err
		}
		values[i] = result.Value
	}
	return values, nil
}

func metadataOf(values []float64) Metadata {
	m := Metadata{Count: len(values), Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range values {
		if v < m.Min {
			m.Min = v
		}
		if v > m.Max {
			m.Max = v
		}
		sum += v
	}
	mean := sum / float64(len(values))
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	m.Variance = sqDiff / float64(len(values))
	m.StdDev = math.Sqrt(m.Variance)
	return m
}

// Sum adds every point's value (after the optional normalize-first step).
func Sum(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total, metadataOf(values), nil
}

// Mean computes the arithmetic mean.
func Mean(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values)), metadataOf(values), nil
}

// Median computes the middle value (average of the two central values for
// an even-length input).
func Median(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return median, metadataOf(values), nil
}

// WeightedMean computes sum(value*weight)/sum(weight). If opts.Weights is
// nil, each point's weight is |value| (the "value" weight scheme of
// spec.md §4.11).
func WeightedMean(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	weights := opts.Weights
	if weights == nil {
		weights = make([]float64, len(values))
		for i, v := range values {
			weights[i] = math.Abs(v)
		}
	}
	var num, den float64
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0, metadataOf(values), econ.ErrNonPositiveInput
	}
	return num / den, metadataOf(values), nil
}

// GeometricMean requires every value to be strictly positive.
func GeometricMean(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	var logSum float64
	for _, v := range values {
		if v <= 0 {
			return 0, Metadata{}, econ.ErrNonPositiveInput
		}
		logSum += math.Log(v)
	}
	return math.Exp(logSum / float64(len(values))), metadataOf(values), nil
}

// HarmonicMean requires every value to be strictly positive.
func HarmonicMean(points []Point, opts Options) (float64, Metadata, error) {
	values, err := resolveValues(points, opts)
	if err != nil {
		return 0, Metadata{}, err
	}
	var recipSum float64
	for _, v := range values {
		if v <= 0 {
			return 0, Metadata{}, econ.ErrNonPositiveInput
		}
		recipSum += 1 / v
	}
	return float64(len(values)) / recipSum, metadataOf(values), nil
}

// MovingAveragePoint is one output point of MovingAverage: the average
// value over the trailing window, stamped with the anchor point's own
// timestamp and unit (spec.md §4.11: "Moving average preserves
// timestamps and unit of the anchor point").
type MovingAveragePoint struct {
	Timestamp time.Time
	Unit      string
	Value     float64
}

// MovingAverage computes a trailing simple moving average of window size
// n over points (which must already be chronologically ordered and, if
// NormalizeFirst isn't set, unit-homogeneous). The first n-1 points have
// no full window and are omitted.
func MovingAverage(points []Point, window int, opts Options) ([]MovingAveragePoint, error) {
	if window <= 0 {
		window = 1
	}
	values, err := resolveValues(points, opts)
	if err != nil {
		return nil, err
	}
	if len(values) < window {
		return nil, nil
	}
	out := make([]MovingAveragePoint, 0, len(values)-window+1)
	var rolling float64
	for i, v := range values {
		rolling += v
		if i >= window {
			rolling -= values[i-window]
		}
		if i >= window-1 {
			anchor := points[i]
			out = append(out, MovingAveragePoint{
				Timestamp: anchor.Timestamp,
				Unit:      anchor.Unit,
				Value:     rolling / float64(window),
			})
		}
	}
	return out, nil
}

// DeflateToBaseYear converts a nominal value in reportedYear prices into
// baseYear prices using a year -> CPI-index map, supplementing the
// distilled spec with the deflation helper common to economic-indicator
// pipelines (see DESIGN.md).
func DeflateToBaseYear(value float64, reportedYear, baseYear int, cpiIndex map[int]float64) (float64, error) {
	reportedCPI, ok := cpiIndex[reportedYear]
	if !ok || reportedCPI <= 0 {
		return 0, econ.ErrNonPositiveInput
	}
	baseCPI, ok := cpiIndex[baseYear]
	if !ok || baseCPI <= 0 {
		return 0, econ.ErrNonPositiveInput
	}
	return value * (baseCPI / reportedCPI), nil
}
