// Package autotarget implements per-indicator-group majority-vote target
// selection (C8 of spec.md §4.8): given a population of raw observations,
// decide the currency/magnitude/time scale most of that group already
// reports in, so callers without an explicit target can normalize to
// "whatever this group mostly agrees on".
package autotarget

import (
	"fmt"
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/unitparser"
)

// Incumbent is a pre-existing target for one indicator group, preferred
// over the deterministic priority order whenever a tie needs breaking.
type Incumbent struct {
	Currency  string
	Magnitude econ.Scale
	Time      econ.TimeScale
}

// Options configures ComputeAutoTargets.
type Options struct {
	// Incumbents keys by the same normalized indicatorKey as the output
	// map; supplying one lets a caller keep a previously chosen target
	// stable across runs rather than flipping on every new batch.
	Incumbents map[string]Incumbent
}

var currencyPriority = priorityIndex([]string{"USD", "EUR"})
var magnitudePriority = priorityIndex([]string{string(econ.ScaleMillions), string(econ.ScaleBillions), string(econ.ScaleThousands)})
var timePriority = priorityIndex([]string{string(econ.TimeMonth), string(econ.TimeQuarter), string(econ.TimeYear)})

func priorityIndex(ordered []string) map[string]int {
	m := make(map[string]int, len(ordered))
	for i, v := range ordered {
		m[v] = i
	}
	return m
}

type tally struct {
	counts map[string]int
	total  int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(v string) {
	if v == "" {
		return
	}
	t.counts[v]++
	t.total++
}

// pick resolves the arg-max value of a tally, breaking ties by the
// incumbent (if it's one of the tied values) and then by priority order,
// falling back to lexical order for total determinism.
func (t *tally) pick(incumbent string, priority map[string]int) (string, float64) {
	if t.total == 0 {
		return "", 0
	}
	best := 0
	for _, c := range t.counts {
		if c > best {
			best = c
		}
	}
	var tied []string
	for v, c := range t.counts {
		if c == best {
			tied = append(tied, v)
		}
	}
	if len(tied) == 1 {
		return tied[0], float64(t.counts[tied[0]]) / float64(t.total)
	}
	if incumbent != "" {
		for _, v := range tied {
			if v == incumbent {
				return v, float64(t.counts[v]) / float64(t.total)
			}
		}
	}
	chosen := tied[0]
	chosenRank, chosenHasRank := priority[chosen]
	for _, v := range tied[1:] {
		rank, hasRank := priority[v]
		switch {
		case hasRank && !chosenHasRank:
			chosen, chosenRank, chosenHasRank = v, rank, true
		case hasRank && chosenHasRank && rank < chosenRank:
			chosen, chosenRank = v, rank
		case !hasRank && !chosenHasRank && v < chosen:
			chosen = v
		}
	}
	return chosen, float64(t.counts[chosen]) / float64(t.total)
}

func (t *tally) shares() map[string]float64 {
	if t.total == 0 {
		return nil
	}
	out := make(map[string]float64, len(t.counts))
	for v, c := range t.counts {
		out[v] = float64(c) / float64(t.total)
	}
	return out
}

// ComputeAutoTargets groups observations by GroupKey and, for each group,
// picks the majority currency/magnitude/time scale the group's raw units
// already carry, per spec.md §5: "Auto-targets are computed against the
// raw unparsed population" (i.e. before any normalization has run).
func ComputeAutoTargets(observations []econ.Observation, opts Options) map[string]econ.AutoTargetSelection {
	groups := make(map[string][]econ.Observation)
	order := make([]string, 0)
	for _, o := range observations {
		key := o.GroupKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], o)
	}

	out := make(map[string]econ.AutoTargetSelection, len(groups))
	for _, key := range order {
		members := groups[key]
		curTally, magTally, timeTally := newTally(), newTally(), newTally()

		for _, o := range members {
			parsed := unitparser.Parse(o.Unit)
			currency := o.CurrencyCode
			if currency == "" {
				currency = parsed.Currency
			}
			curTally.add(strings.ToUpper(currency))

			mag := o.Scale
			if mag == "" {
				mag = parsed.Scale
			}
			magTally.add(string(mag))

			ts := o.TimeScale
			if ts == "" {
				ts = parsed.TimeScale
			}
			timeTally.add(string(ts))
		}

		var incCurrency, incMagnitude, incTime string
		if inc, ok := opts.Incumbents[key]; ok {
			incCurrency = inc.Currency
			incMagnitude = string(inc.Magnitude)
			incTime = string(inc.Time)
		}

		currency, currencyShare := curTally.pick(incCurrency, currencyPriority)
		magnitude, magnitudeShare := magTally.pick(incMagnitude, magnitudePriority)
		timeScale, timeShare := timeTally.pick(incTime, timePriority)

		out[key] = econ.AutoTargetSelection{
			Currency:  currency,
			Magnitude: econ.Scale(magnitude),
			Time:      econ.TimeScale(timeScale),
			Shares: map[string]map[string]float64{
				"currency":  curTally.shares(),
				"magnitude": magTally.shares(),
				"time":      timeTally.shares(),
			},
			Reason: fmt.Sprintf("majority vote over %d observation(s) (currency %.0f%%, magnitude %.0f%%, time %.0f%%)",
				len(members), currencyShare*100, magnitudeShare*100, timeShare*100),
		}
	}
	return out
}
