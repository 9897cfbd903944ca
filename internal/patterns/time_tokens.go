package patterns

import (
	"regexp"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

type timeToken struct {
	re   *regexp.Regexp
	unit econ.TimeScale
}

// timeTokens anchors on "per/yearly/annual(ly)/.../daily/hourly" forms and
// slash-abbreviations (/yr /q /mo /wk /d /h), per spec.md §4.1. Longer,
// more specific tokens are listed first so e.g. "quarterly" is not
// shadowed by a looser pattern.
var timeTokens = []timeToken{
	{regexp.MustCompile(`\b(per\s+hour|hourly|/h|/hr)\b`), econ.TimeHour},
	{regexp.MustCompile(`\b(per\s+day|daily|/d|/day)\b`), econ.TimeDay},
	{regexp.MustCompile(`\b(per\s+week|weekly|/wk|/week)\b`), econ.TimeWeek},
	{regexp.MustCompile(`\b(per\s+month|monthly|/mo|/month)\b`), econ.TimeMonth},
	{regexp.MustCompile(`\b(per\s+quarter|quarterly|/q|/qtr)\b`), econ.TimeQuarter},
	{regexp.MustCompile(`\b(per\s+(year|annum)|yearly|annual(ly)?|/yr|/year)\b`), econ.TimeYear},
}

// DetectTimeScale returns the first matching time-basis token in
// normalized text.
func DetectTimeScale(normalized string) (econ.TimeScale, bool) {
	for _, tok := range timeTokens {
		if tok.re.MatchString(normalized) {
			return tok.unit, true
		}
	}
	return "", false
}

var durationTokens = regexp.MustCompile(`\b(days?|weeks?|months?|quarters?|years?|hours?)\b`)

// DetectDuration reports whether the text reads as a raw duration
// (category=time), as opposed to a "per <time>" rate basis.
func DetectDuration(normalized string) bool {
	return durationTokens.MatchString(normalized) &&
		!regexp.MustCompile(`\bper\b`).MatchString(normalized)
}
