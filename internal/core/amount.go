// Package core provides the domain model of the envelope budgeting engine:
// categories, transactions, carried balances, audit events and settings,
// plus the date and amount parsing helpers everything else leans on.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a monetary amount permissively: currency symbols,
// thousands separators and other noise are stripped before parsing. The
// second return value is false when no number remains (the numeric-or-null
// import policy). An empty input parses as zero.
//
// Examples:
//
//	ParseAmount("$1,234.56") -> 1234.56, true
//	ParseAmount("")          -> 0, true
//	ParseAmount("1.2.3")     -> 0, false
func ParseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
