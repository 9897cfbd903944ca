package patterns

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeText lowercases, strips NFD diacritics, and collapses internal
// whitespace runs to a single space, per spec.md §4.1.
func NormalizeText(s string) string {
	stripped, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(stripped)
	fields := strings.Fields(stripped)
	return strings.Join(fields, " ")
}
