// Package outlier implements order-of-magnitude scale-outlier detection
// (C9 of spec.md §4.9): flags normalized values inside an indicator group
// whose magnitude disagrees sharply with the group's dominant magnitude,
// a common symptom of a misread decimal or an unconverted raw unit.
package outlier

import (
	"fmt"
	"math"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// Item is one normalized value to cluster, keyed by an opaque id.
type Item struct {
	ID         string
	Normalized float64
}

// Options tunes the clustering thresholds.
type Options struct {
	// ClusterThreshold is the minimum share of items the dominant
	// magnitude bucket must hold before outlier detection runs at all.
	ClusterThreshold float64
	// MagnitudeDifferenceThreshold is how many orders of magnitude away
	// from the dominant bucket an item must be to get flagged.
	MagnitudeDifferenceThreshold int
	IncludeDetails               bool
}

// DefaultOptions matches spec.md §4.9's defaults.
func DefaultOptions() Options {
	return Options{ClusterThreshold: 0.6, MagnitudeDifferenceThreshold: 2}
}

// Detail is attached per flagged item when opts.IncludeDetails is set.
type Detail struct {
	ID                 string
	Value              float64
	Magnitude          int
	DominantMagnitude  int
	MagnitudeDifference int
}

// Result is the outcome of DetectScaleOutliers for one group.
type Result struct {
	HasOutliers       bool
	OutlierIDs        []string
	DominantMagnitude int
	Distribution      map[int]int
	OutlierDetails    []Detail
}

// DetectScaleOutliers implements spec.md §4.9's algorithm: exclude
// zeros/non-finite values, bucket the rest by floor(log10(|v|)), and flag
// anything magnitudeDifferenceThreshold or more orders away from the
// dominant bucket, provided the dominant bucket holds at least
// clusterThreshold of the (finite, non-zero) population and there are at
// least 3 such items overall.
func DetectScaleOutliers(items []Item, opts Options) Result {
	if opts.ClusterThreshold == 0 {
		opts.ClusterThreshold = 0.6
	}
	if opts.MagnitudeDifferenceThreshold == 0 {
		opts.MagnitudeDifferenceThreshold = 2
	}

	type bucketed struct {
		id  string
		v   float64
		mag int
	}
	var valid []bucketed
	distribution := make(map[int]int)
	for _, it := range items {
		if it.Normalized == 0 || math.IsNaN(it.Normalized) || math.IsInf(it.Normalized, 0) {
			continue
		}
		m := int(math.Floor(math.Log10(math.Abs(it.Normalized))))
		valid = append(valid, bucketed{it.ID, it.Normalized, m})
		distribution[m]++
	}

	if len(valid) < 3 {
		return Result{Distribution: distribution}
	}

	dominant, dominantCount := 0, -1
	for m, c := range distribution {
		if c > dominantCount || (c == dominantCount && m < dominant) {
			dominant, dominantCount = m, c
		}
	}
	if float64(dominantCount)/float64(len(valid)) < opts.ClusterThreshold {
		return Result{Distribution: distribution, DominantMagnitude: dominant}
	}

	res := Result{DominantMagnitude: dominant, Distribution: distribution}
	for _, b := range valid {
		diff := b.mag - dominant
		if diff < 0 {
			diff = -diff
		}
		if diff >= opts.MagnitudeDifferenceThreshold {
			res.HasOutliers = true
			res.OutlierIDs = append(res.OutlierIDs, b.id)
			if opts.IncludeDetails {
				res.OutlierDetails = append(res.OutlierDetails, Detail{
					ID: b.id, Value: b.v, Magnitude: b.mag,
					DominantMagnitude: dominant, MagnitudeDifference: diff,
				})
			}
		}
	}
	return res
}

// Warning builds the Explain.qualityWarnings entry spec.md §4.9 specifies
// for one flagged item.
func Warning(d Detail) econ.QualityWarning {
	return econ.QualityWarning{
		Type:     "scale-outlier",
		Severity: "warning",
		Message:  fmt.Sprintf("value's magnitude (10^%d) differs from the group's dominant magnitude (10^%d) by %d orders", d.Magnitude, d.DominantMagnitude, d.MagnitudeDifference),
		Details: map[string]any{
			"value":              d.Value,
			"magnitude":          d.Magnitude,
			"dominantMagnitude":  d.DominantMagnitude,
			"magnitudeDifference": d.MagnitudeDifference,
		},
	}
}
