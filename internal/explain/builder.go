package explain

import (
	"fmt"
	"math"
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/scale"
)

// Build assembles the full Explain record from an Input, per spec.md
// §4.7. Substructures are present only when the corresponding step
// actually ran, matching the "discriminated by presence/absence" design
// of spec.md §9.
func Build(in Input) *econ.Explain {
	ex := &econ.Explain{
		ReportingFrequency: in.Periodicity,
	}

	if in.MagnitudeApplied {
		ex.Magnitude = buildMagnitude(in)
	}
	if in.CurrencyApplied {
		ex.FX = buildFX(in)
	}
	ex.Periodicity = buildPeriodicity(in)

	units := buildUnits(in)
	ex.Units = units

	if in.SourceCurrency != "" || in.TargetCurrency != "" {
		ex.Currency = &econ.ComponentField{
			Original: in.SourceCurrency, Target: in.TargetCurrency,
			Changed: in.CurrencyApplied,
		}
	}
	ex.Scale = &econ.ComponentField{
		Original: string(in.SourceScale), Target: string(in.TargetScale),
		Changed: in.MagnitudeApplied,
	}
	if in.SourceTime != "" || in.TargetTime != "" {
		ex.TimeScale = &econ.ComponentField{
			Original: string(in.SourceTime), Target: string(in.TargetTime),
			Changed: in.TimeApplied,
		}
	}

	if in.TargetCurrency == "" {
		ex.BaseUnit = &econ.BaseUnitExplain{Normalized: units.NormalizedUnit, Category: in.Parsed.Category}
	}

	ex.Domain = classifyDomain(in, in.OriginalUnitText)

	if steps := buildConversionSteps(in); len(steps) > 0 {
		ex.Conversion = buildConversion(steps, in)
	}

	if in.SuppressedCurrencyInCountUnit {
		ex.QualityWarnings = append(ex.QualityWarnings, econ.QualityWarning{
			Type:     "suppressed-currency-in-count-unit",
			Severity: "info",
			Message:  "an ISO currency code was detected inside a count/volume unit label and currency conversion was suppressed; verify the unit is genuinely a count",
			Details:  map[string]any{"unit": in.OriginalUnitText},
		})
	}

	return ex
}

func buildMagnitude(in Input) *econ.MagnitudeExplain {
	factor := scale.MagnitudeFactor(in.SourceScale, in.TargetScale)
	dir := econ.DirNone
	if factor > 1 {
		dir = econ.DirUpscale
	} else if factor < 1 {
		dir = econ.DirDownscale
	}
	return &econ.MagnitudeExplain{
		OriginalScale: in.SourceScale,
		TargetScale:   in.TargetScale,
		Factor:        factor,
		Direction:     dir,
		Description:   fmt.Sprintf("%s → %s (×%s)", in.SourceScale, in.TargetScale, formatFactor(factor)),
	}
}

func buildFX(in Input) *econ.FXExplain {
	asOf := ""
	if in.FX.Dates != nil {
		asOf = in.FX.Dates[in.FXDisplayCode]
	}
	return &econ.FXExplain{
		Currency: in.FXDisplayCode,
		Base:     in.FX.Base,
		Rate:     math.Round(in.FXDisplayRate*1e6) / 1e6,
		AsOf:     asOf,
		Source:   in.FX.Source,
		SourceID: in.FX.SourceID,
	}
}

func buildPeriodicity(in Input) *econ.PeriodicityExplain {
	if in.TimeBlockedReason != "" {
		return &econ.PeriodicityExplain{
			Original: in.SourceTime, Target: in.TargetTime,
			Adjusted: false, Factor: 1, Direction: econ.DirNone,
			Reason:      in.TimeBlockedReason,
			Description: fmt.Sprintf("Time conversion blocked (%s)", in.TimeBlockedReason),
		}
	}
	if !in.TimeApplied {
		if in.SourceTime == "" && in.TargetTime == "" {
			return nil
		}
		return &econ.PeriodicityExplain{
			Original: in.SourceTime, Target: in.TargetTime,
			Adjusted: false, Factor: 1, Direction: econ.DirNone,
		}
	}
	factor := scale.TimeFactor(in.SourceTime, in.TargetTime)
	dir := econ.DirNone
	symbol := "×"
	if factor > 1 {
		dir = econ.DirUpsample
	} else if factor < 1 {
		dir = econ.DirDownsample
		symbol = "÷"
		factor = 1 / factor
	}
	return &econ.PeriodicityExplain{
		Original: in.SourceTime, Target: in.TargetTime,
		Adjusted: true, Factor: scale.TimeFactor(in.SourceTime, in.TargetTime), Direction: dir,
		Description: fmt.Sprintf("%s → %s (%s%s)", in.SourceTime, in.TargetTime, symbol, formatFactor(factor)),
	}
}

func buildUnits(in Input) econ.UnitsExplain {
	return econ.UnitsExplain{
		OriginalUnit:       strings.TrimSpace(in.OriginalUnitText),
		NormalizedUnit:     renderUnit(in, false),
		OriginalFullUnit:   strings.TrimSpace(in.OriginalUnitText),
		NormalizedFullUnit: renderUnit(in, true),
	}
}

// renderUnit implements spec.md §4.7's rendering rules: "per <time>"
// (never "/"), time omitted for skipTimeInUnit indicators, stock-like
// non-currency indicators render as the base noun only, and per-capita
// preserves ones/no magnitude label.
func renderUnit(in Input, full bool) string {
	if in.IsStockLikeCount {
		return in.Parsed.NormalizedLabel
	}
	if in.TargetCurrency != "" {
		unit := in.TargetCurrency
		if full && !in.IsPerCapita && in.TargetScale != "" && in.TargetScale != econ.ScaleOnes {
			unit = unit + " " + titleScale(in.TargetScale)
		}
		if !in.Dims.SkipTimeInUnit && in.TargetTime != "" {
			unit = unit + " per " + string(in.TargetTime)
		}
		return unit
	}
	label := in.Parsed.NormalizedLabel
	if label == "" {
		label = string(in.Parsed.Category)
	}
	if full && !in.IsPerCapita && in.TargetScale != "" && in.TargetScale != econ.ScaleOnes && in.Parsed.Category != econ.CategoryPhysical && in.Parsed.Category != econ.CategoryEnergy {
		label = titleScale(in.TargetScale) + " " + label
	}
	if !in.Dims.SkipTimeInUnit && in.TargetTime != "" {
		label = label + " per " + string(in.TargetTime)
	}
	return label
}

func titleScale(s econ.Scale) string {
	switch s {
	case econ.ScaleOnes:
		return ""
	default:
		str := string(s)
		return strings.ToUpper(str[:1]) + str[1:]
	}
}

func buildConversionSteps(in Input) []econ.ConversionStep {
	var steps []econ.ConversionStep
	if in.MagnitudeApplied {
		factor := scale.MagnitudeFactor(in.SourceScale, in.TargetScale)
		steps = append(steps, econ.ConversionStep{
			Kind: "scale", Factor: factor,
			Detail: fmt.Sprintf("%s → %s", in.SourceScale, in.TargetScale),
		})
	}
	if in.CurrencyApplied {
		steps = append(steps, econ.ConversionStep{
			Kind: "currency", Factor: in.FXRate,
			Detail: fmt.Sprintf("%s → %s", in.SourceCurrency, in.TargetCurrency),
		})
	}
	if in.TimeApplied {
		factor := scale.TimeFactor(in.SourceTime, in.TargetTime)
		steps = append(steps, econ.ConversionStep{
			Kind: "time", Factor: factor,
			Detail: fmt.Sprintf("%s → %s", in.SourceTime, in.TargetTime),
		})
	}
	return steps
}

func buildConversion(steps []econ.ConversionStep, in Input) *econ.ConversionExplain {
	total := 1.0
	for _, s := range steps {
		total *= s.Factor
	}
	return &econ.ConversionExplain{
		Steps:       steps,
		Summary:     fmt.Sprintf("%s → %s", formatValue(in.OriginalValue), formatValue(in.NormalizedValue)),
		TotalFactor: total,
	}
}

func formatFactor(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%g", f)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
