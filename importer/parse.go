package importer

import (
	"math"
	"strconv"
	"strings"
)

// ParseLooseNumber reads numbers typed by humans: currency symbols and text
// are dropped, and when both separators appear the right-most one is the
// decimal point. A lone comma is a decimal comma. Unparseable input is 0.
func ParseLooseNumber(raw string) float64 {
	value, ok := parseCleanNumber(cleanNumeric(raw), false)
	if !ok {
		return 0
	}
	return value
}

// ParseMoney is ParseLooseNumber plus "mil" (x1,000) and "mill" (x1,000,000)
// suffixes and currency markers. The bool is false only when no numeric
// characters were present at all, which callers use to tell an empty price
// column from a zero price.
func ParseMoney(raw string) (float64, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return 0, false
	}

	multiplier := 1.0
	switch {
	case strings.Contains(lowered, "mill"):
		multiplier = 1_000_000
	case strings.Contains(lowered, "mil"):
		multiplier = 1_000
	}

	for _, marker := range []string{"s/.", "s/", "usd", "$"} {
		lowered = strings.ReplaceAll(lowered, marker, "")
	}

	cleaned := cleanNumeric(lowered)
	if cleaned == "" {
		return 0, false
	}
	value, ok := parseCleanNumber(cleaned, true)
	if !ok {
		return 0, true
	}
	return value * multiplier, true
}

// ParseBool accepts "true" in any case; everything else is false.
func ParseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

func cleanNumeric(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func parseCleanNumber(cleaned string, groupedCommas bool) (float64, bool) {
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(normalizeSeparators(cleaned, groupedCommas), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// normalizeSeparators keeps one decimal point and drops thousands separators.
// A separator repeated more than once is always a thousands separator. With
// groupedCommas, a comma-only value in 3-digit groups ("120,000") is read as
// thousands too.
func normalizeSeparators(cleaned string, groupedCommas bool) string {
	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	decimalAt := -1
	switch {
	case lastComma >= 0 && lastDot >= 0:
		decimalAt = max(lastComma, lastDot)
	case lastComma >= 0 && strings.Count(cleaned, ",") == 1:
		if !(groupedCommas && len(cleaned)-lastComma-1 == 3) {
			decimalAt = lastComma
		}
	case lastDot >= 0 && strings.Count(cleaned, ".") == 1:
		decimalAt = lastDot
	}

	var b strings.Builder
	b.Grow(len(cleaned))
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if c == ',' || c == '.' {
			if i == decimalAt {
				b.WriteByte('.')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
