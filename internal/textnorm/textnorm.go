// Package textnorm folds free text typed into spreadsheets so that accents and
// case never decide whether two values match.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold strips diacritical marks and case-folds value. Spacing and punctuation
// are kept, so substring tests such as "no disp" still work on the result.
func Fold(value string) string {
	// Transformers keep state; build a fresh chain per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, value)
	if err != nil {
		stripped = value
	}
	return cases.Fold().String(stripped)
}

// Key reduces value to a compact [a-z0-9] token. Key is idempotent and returns
// "" for blank or punctuation-only input.
func Key(value string) string {
	folded := Fold(value)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
