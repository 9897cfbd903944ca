package normalize

import (
	"fmt"
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/explain"
	"github.com/tellimer/indicator-normalizer/internal/patterns"
	"github.com/tellimer/indicator-normalizer/internal/rules"
	"github.com/tellimer/indicator-normalizer/internal/scale"
	"github.com/tellimer/indicator-normalizer/internal/unitparser"
)

// Result is the successful outcome of Normalize: the converted value plus
// its explain record.
type Result struct {
	Value   float64
	Explain *econ.Explain
}

// Normalize applies the magnitude -> time -> currency pipeline described
// in spec.md §4.6. It is fail-soft: soft issues are recorded as
// QualityWarnings and the best-effort value is returned; only the hard
// failure kinds of spec.md §7 (MissingFXRate, UnsupportedConversion,
// InvalidTimeBasis) return a non-nil error.
func Normalize(value float64, unitText string, opts Options) (Result, error) {
	parsed := unitparser.Parse(unitText)

	indicatorType := opts.IndicatorType
	if indicatorType == "" {
		indicatorType = econ.IndicatorOther
	}
	aggregation := opts.effectiveAggregation()
	dims := rules.Lookup(indicatorType)

	var warnings []econ.QualityWarning
	timeAllowed := rules.AllowsTimeConversion(indicatorType, aggregation)
	if rules.Incompatible(indicatorType, aggregation) {
		timeAllowed = false
		warnings = append(warnings, econ.QualityWarning{
			Type: "incompatible-type-aggregation", Severity: "warning",
			Message: fmt.Sprintf("%s is incompatible with %s; time conversion blocked", indicatorType, aggregation),
		})
	}

	isCountLike := indicatorType == econ.IndicatorCount || indicatorType == econ.IndicatorVolume
	isStockLike := isCountLike && isStockLikeCount(opts.IndicatorName)
	perCapita := isPerCapita(opts.IndicatorName)

	// Effective currency: explicit wins over parsed, uppercased and
	// validated against the known-code registry.
	sourceCurrency := strings.ToUpper(firstNonEmpty(opts.ExplicitCurrency, parsed.Currency))
	suppressedCurrency := false
	if sourceCurrency != "" && !patterns.KnownISOCodes[sourceCurrency] {
		sourceCurrency = ""
	}
	if isCountLike && sourceCurrency != "" {
		suppressedCurrency = true
		sourceCurrency = ""
	}

	// Effective scale: explicit wins over parsed wins over a token-sniff
	// of the raw unit text; per-capita always pins to ones.
	sourceScale := firstNonEmptyScale(opts.ExplicitScale, parsed.Scale)
	if sourceScale == "" {
		if sniffed, ok := patterns.DetectMagnitude(patterns.NormalizeText(unitText)); ok {
			sourceScale = sniffed
		} else {
			sourceScale = econ.ScaleOnes
		}
	}
	if perCapita {
		sourceScale = econ.ScaleOnes
	}

	// Effective time scale, only considered at all if the type/aggregation
	// combination allows a time dimension; otherwise periodicity metadata
	// (release cadence) is ignored, per spec.md §4.6.
	var sourceTime econ.TimeScale
	if timeAllowed {
		sourceTime = firstNonEmptyTime(parsed.TimeScale, opts.ExplicitTimeScale)
	}
	if isStockLike {
		sourceTime = ""
		timeAllowed = false
	}

	targetScale := opts.ToMagnitude
	if targetScale == "" {
		targetScale = sourceScale
	}
	if perCapita {
		targetScale = econ.ScaleOnes
	}

	targetCurrency := strings.ToUpper(opts.ToCurrency)
	if isCountLike {
		targetCurrency = ""
	}

	targetTime := opts.ToTimeScale
	if targetTime == "" {
		targetTime = sourceTime
	}
	if !timeAllowed {
		targetTime = sourceTime // stays empty
	}

	result := value

	// Step 1: magnitude.
	magnitudeApplied := dims.AllowMagnitude &&
		parsed.Category != econ.CategoryPhysical &&
		parsed.Category != econ.CategoryEnergy &&
		parsed.Category != econ.CategoryTemperature &&
		sourceScale != targetScale
	if magnitudeApplied {
		result = scale.RescaleMagnitude(result, sourceScale, targetScale)
	}

	// Step 2: time.
	timeApplied := false
	timeBlockedReason := ""
	switch {
	case aggregation == econ.PointInTime || aggregation == econ.PeriodCumulative:
		timeBlockedReason = fmt.Sprintf("%s with %s", indicatorType, aggregation)
	case aggregation == econ.NotApplicable:
		// no-op, no warning: spec.md §4.6 draws this apart from
		// point-in-time/period-cumulative, which do warn.
	case rules.Incompatible(indicatorType, aggregation):
		timeBlockedReason = fmt.Sprintf("%s with %s", indicatorType, aggregation)
	case timeAllowed && opts.ToTimeScale != "" && sourceTime != "" && sourceTime != targetTime:
		result = scale.RescaleTime(result, sourceTime, targetTime)
		timeApplied = true
	case timeAllowed && opts.ToTimeScale != "" && sourceTime == "":
		warnings = append(warnings, econ.QualityWarning{
			Type: "missing-time-basis", Severity: "warning",
			Message: "no source time scale could be inferred; time conversion skipped",
		})
		if opts.Force {
			return Result{}, fmt.Errorf("%w: indicator %q requires a known source time basis", econ.ErrInvalidTimeBasis, opts.IndicatorName)
		}
	}
	if timeBlockedReason != "" && opts.ToTimeScale != "" {
		warnings = append(warnings, econ.QualityWarning{
			Type: "blocked-time-conversion", Severity: "warning",
			Message: fmt.Sprintf("Time conversion blocked (%s)", timeBlockedReason),
		})
	}

	// Step 3: currency.
	currencyApplied := false
	var fxTable econ.FXTable
	var fxRate float64
	var fxDisplayCode string
	var fxDisplayRate float64
	currencyRequested := targetCurrency != ""
	currencyDisallowed := !dims.AllowCurrency
	if currencyRequested && currencyDisallowed {
		if opts.Force {
			return Result{}, fmt.Errorf("%w: indicator type %q does not allow currency conversion", econ.ErrUnsupportedConversion, indicatorType)
		}
		warnings = append(warnings, econ.QualityWarning{
			Type: "unsupported-currency-conversion", Severity: "warning",
			Message: fmt.Sprintf("%s does not allow currency conversion; request ignored", indicatorType),
		})
	} else if currencyRequested && !currencyDisallowed && sourceCurrency != "" && sourceCurrency != targetCurrency {
		if opts.FX == nil {
			return Result{}, fmt.Errorf("%w: no fx table supplied for %s -> %s", econ.ErrMissingFXRate, sourceCurrency, targetCurrency)
		}
		rate, ok := opts.FX.Rate(sourceCurrency, targetCurrency)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s -> %s", econ.ErrMissingFXRate, sourceCurrency, targetCurrency)
		}
		result *= rate
		currencyApplied = true
		fxTable = *opts.FX
		fxRate = rate

		// The displayed fx.rate is the source-table rate for whichever
		// side of the conversion isn't the table's base currency (spec.md
		// §4.7 scenario S1 reports the raw XOF-per-USD rate, not the
		// 1/rate multiplicative factor actually applied to the value).
		fxDisplayCode = sourceCurrency
		if sourceCurrency == fxTable.Base {
			fxDisplayCode = targetCurrency
		}
		if tableRate, ok := fxTable.Rates[fxDisplayCode]; ok {
			fxDisplayRate = tableRate
		} else {
			fxDisplayRate = rate
		}
	}

	in := explain.Input{
		OriginalUnitText:    unitText,
		Parsed:              parsed,
		IndicatorName:       opts.IndicatorName,
		IndicatorType:       indicatorType,
		TemporalAggregation: aggregation,
		Periodicity:         opts.Periodicity,
		Dims:                dims,
		SourceCurrency:      sourceCurrency,
		TargetCurrency:      targetCurrency,
		SourceScale:         sourceScale,
		TargetScale:         targetScale,
		SourceTime:          sourceTime,
		TargetTime:          targetTime,
		MagnitudeApplied:    magnitudeApplied,
		CurrencyApplied:     currencyApplied,
		TimeApplied:         timeApplied,
		TimeBlockedReason:   timeBlockedReason,
		FX:                  fxTable,
		FXRate:              fxRate,
		FXDisplayCode:       fxDisplayCode,
		FXDisplayRate:       fxDisplayRate,
		OriginalValue:       value,
		NormalizedValue:     result,
		IsCountLike:         isCountLike,
		IsStockLikeCount:    isStockLike,
		IsPerCapita:         perCapita,
		SuppressedCurrencyInCountUnit: suppressedCurrency,
	}
	ex := explain.Build(in)
	ex.QualityWarnings = append(ex.QualityWarnings, warnings...)

	return Result{Value: result, Explain: ex}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyScale(vals ...econ.Scale) econ.Scale {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyTime(vals ...econ.TimeScale) econ.TimeScale {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
