// Package batch implements the bounded-concurrency batch processor (C10 of
// spec.md §4.10): runs parse -> normalize -> explain over many observations,
// catching per-item failures instead of aborting, then optionally computing
// auto-targets and outlier warnings over the whole batch.
package batch

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tellimer/indicator-normalizer/internal/autotarget"
	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/normalize"
	"github.com/tellimer/indicator-normalizer/internal/outlier"
	"github.com/tellimer/indicator-normalizer/internal/telemetry"
)

// FailedItem records one item's processing failure without aborting the
// rest of the batch (spec.md §4.12: "Batch: per-item failures never abort
// the batch").
type FailedItem struct {
	ID    string `json:"id"`
	Stage string `json:"stage"` // "normalize" is currently the only stage that can fail; parse never fails
	Error string `json:"error"`
}

// Stats summarizes a completed batch run.
type Stats struct {
	Total       int           `json:"total"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	MinValue    float64       `json:"minValue"`
	MaxValue    float64       `json:"maxValue"`
	ElapsedTime time.Duration `json:"elapsedTimeNanos"`
}

// Options configures a batch run.
type Options struct {
	// FX, when set, is shared by every item's normalize call so the whole
	// batch reads a consistent snapshot (spec.md §5).
	FX *econ.FXTable

	// Targets is the default conversion target applied to every item that
	// doesn't get an explicit one via AutoTargets.
	Targets econ.NormalizationTargets
	Force   bool

	// Concurrency bounds the worker pool. <=0 defaults to 4.
	Concurrency int

	// RunAutoTargets computes per-group majority targets from the raw
	// population first and uses them as each item's conversion target
	// (spec.md §5: "Auto-targets are computed against the raw unparsed
	// population"), overriding Targets per group.
	RunAutoTargets bool
	AutoTargets    autotarget.Options

	// RunOutlierDetection clusters each group's normalized values after
	// the whole batch has normalized values and attaches scale-outlier
	// warnings to the flagged items' Explain records.
	RunOutlierDetection bool
	OutlierOptions      outlier.Options

	// Log is optional; nil disables batch-level logging.
	Log *zerolog.Logger
	// Metrics is optional; nil disables batch-level instrumentation.
	Metrics *telemetry.Registry
}

// Output is processBatch's result.
type Output struct {
	Successful []econ.NormalizedObservation `json:"successful"`
	Failed     []FailedItem                 `json:"failed"`
	Stats      Stats                        `json:"stats"`
}

type slot struct {
	ok  *econ.NormalizedObservation
	bad *FailedItem
	key string
	val float64
}

// ProcessBatch runs the parse->normalize->explain pipeline over items,
// bounded to opts.Concurrency workers, preserving input order in the
// returned Successful/Failed-position sense (each slot's outcome is
// computed independently of goroutine completion order).
func ProcessBatch(ctx context.Context, items []econ.Observation, opts Options) Output {
	start := time.Now()
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var autoTargets map[string]econ.AutoTargetSelection
	if opts.RunAutoTargets {
		autoTargets = autotarget.ComputeAutoTargets(items, opts.AutoTargets)
	}

	slots := make([]slot, len(items))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		i, item := i, item
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				slots[i].bad = &FailedItem{ID: item.ID, Stage: "normalize", Error: ctx.Err().Error()}
				return
			default:
			}

			id := item.ID
			if id == "" {
				id = uuid.NewString()
			}

			targets := opts.Targets
			if opts.RunAutoTargets {
				if sel, ok := autoTargets[item.GroupKey()]; ok {
					targets = econ.NormalizationTargets{ToCurrency: sel.Currency, ToMagnitude: sel.Magnitude, ToTimeScale: sel.Time}
				}
			}

			normOpts := normalize.Options{
				NormalizationTargets: targets,
				FX:                   opts.FX,
				ExplicitCurrency:     item.CurrencyCode,
				ExplicitScale:        item.Scale,
				ExplicitTimeScale:    item.TimeScale,
				IndicatorName:        item.Name,
				IndicatorType:        item.IndicatorType,
				TemporalAggregation:  item.TemporalAggregation,
				IsCumulative:         item.IsCumulative,
				Periodicity:          item.Periodicity,
				Force:                opts.Force,
			}

			itemStart := time.Now()
			result, err := normalize.Normalize(item.Value, item.Unit, normOpts)
			if opts.Metrics != nil {
				outcome := "success"
				if err != nil {
					outcome = "failure"
				}
				opts.Metrics.BatchItemDuration.WithLabelValues(outcome).Observe(time.Since(itemStart).Seconds())
				opts.Metrics.BatchItemsTotal.WithLabelValues(outcome).Inc()
			}
			if err != nil {
				slots[i].bad = &FailedItem{ID: id, Stage: "normalize", Error: err.Error()}
				return
			}

			slots[i].ok = &econ.NormalizedObservation{
				ID:                 id,
				OriginalValue:      item.Value,
				OriginalUnit:       item.Unit,
				NormalizedValue:    result.Value,
				NormalizedUnit:     result.Explain.Units.NormalizedUnit,
				NormalizedFullUnit: result.Explain.Units.NormalizedFullUnit,
				Explain:            result.Explain,
			}
			slots[i].key = item.GroupKey()
			slots[i].val = result.Value
		}()
	}
	wg.Wait()

	out := Output{Stats: Stats{Total: len(items)}}
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, s := range slots {
		switch {
		case s.ok != nil:
			out.Successful = append(out.Successful, *s.ok)
			out.Stats.Succeeded++
			if s.val < minV {
				minV = s.val
			}
			if s.val > maxV {
				maxV = s.val
			}
		case s.bad != nil:
			out.Failed = append(out.Failed, *s.bad)
			out.Stats.Failed++
		}
	}
	if out.Stats.Succeeded > 0 {
		out.Stats.MinValue = minV
		out.Stats.MaxValue = maxV
	}
	out.Stats.ElapsedTime = time.Since(start)

	if opts.RunOutlierDetection && len(out.Successful) > 0 {
		applyOutlierWarnings(items, slots, out.Successful, opts.OutlierOptions)
	}

	if opts.Log != nil {
		opts.Log.Debug().Int("total", out.Stats.Total).Int("succeeded", out.Stats.Succeeded).
			Int("failed", out.Stats.Failed).Dur("elapsed", out.Stats.ElapsedTime).Msg("batch processed")
	}

	return out
}

func applyOutlierWarnings(items []econ.Observation, slots []slot, successful []econ.NormalizedObservation, opts outlier.Options) {
	byID := make(map[string]*econ.NormalizedObservation, len(successful))
	for i := range successful {
		byID[successful[i].ID] = &successful[i]
	}

	groups := make(map[string][]outlier.Item)
	for _, s := range slots {
		if s.ok == nil {
			continue
		}
		groups[s.key] = append(groups[s.key], outlier.Item{ID: s.ok.ID, Normalized: s.val})
	}

	groupOpts := opts
	groupOpts.IncludeDetails = true
	for _, groupItems := range groups {
		res := outlier.DetectScaleOutliers(groupItems, groupOpts)
		if !res.HasOutliers {
			continue
		}
		for _, d := range res.OutlierDetails {
			if obs, ok := byID[d.ID]; ok && obs.Explain != nil {
				obs.Explain.QualityWarnings = append(obs.Explain.QualityWarnings, outlier.Warning(d))
			}
		}
	}
}
