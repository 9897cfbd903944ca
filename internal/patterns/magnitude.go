package patterns

import (
	"regexp"
	"strings"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// magnitudeToken pairs a regex alternative with the scale it resolves to.
// Order matters: entries are tried longest-match-first so "trillion"
// outranks "billion" outranks "million" outranks "thousand" outranks
// "hundred", per spec.md §4.1.
type magnitudeToken struct {
	re    *regexp.Regexp
	scale econ.Scale
}

var magnitudeTokens = []magnitudeToken{
	{regexp.MustCompile(`\b(trillion|tn)s?\b`), econ.ScaleTrillions},
	{regexp.MustCompile(`\b(billion|bn)s?\b`), econ.ScaleBillions},
	{regexp.MustCompile(`\bhundred[\s-]?million\b`), econ.ScaleHundredMillions},
	{regexp.MustCompile(`\b(million|mn|mio)s?\b`), econ.ScaleMillions},
	{regexp.MustCompile(`\b(thousand|k|000s)s?\b`), econ.ScaleThousands},
	{regexp.MustCompile(`\bhundreds?\b`), econ.ScaleHundreds},
}

// DetectMagnitude returns the first (highest-priority) magnitude token
// found in normalized text, or ("", false).
func DetectMagnitude(normalized string) (econ.Scale, bool) {
	for _, tok := range magnitudeTokens {
		if tok.re.MatchString(normalized) {
			return tok.scale, true
		}
	}
	return "", false
}

// MagnitudeFromLabel is a convenience wrapper used by the unit parser's
// idempotency path: parse(parse(unit).normalizedLabel) must resolve the
// same scale a canonical label like "millions" carries.
func MagnitudeFromLabel(label string) (econ.Scale, bool) {
	return DetectMagnitude(NormalizeText(label))
}

// StripModifierTokens removes every recognized magnitude and time token
// from normalized text, collapsing leftover whitespace. Used by the
// parser to derive a base-noun label for otherwise-unrecognized units
// (e.g. "Thousands" alone strips down to "").
func StripModifierTokens(normalized string) string {
	out := normalized
	for _, tok := range magnitudeTokens {
		out = tok.re.ReplaceAllString(out, " ")
	}
	for _, tok := range timeTokens {
		out = tok.re.ReplaceAllString(out, " ")
	}
	fields := splitWords(out)
	return strings.Join(fields, " ")
}
