package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NumberFormat describes the separators used when parsing numeric cells.
// A zero rune means auto-detect per value.
type NumberFormat struct {
	Decimal   rune
	Thousands rune
}

// naTokens mirrors the values pandas treats as missing by default.
var naTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"NULL": {},
	"null": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// IsMissing reports whether a raw cell counts as a gap.
func IsMissing(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// ParseNumber converts a raw cell to float64. Percent signs are stripped and
// thousands separators removed; the decimal separator is auto-detected from the
// last of ',' or '.' unless nf pins it. A value whose only separators are
// commas splitting it into three-digit groups ("1,234", "2,345,678") is read
// as grouped thousands; other lone commas ("0,5", "12,5") are decimal.
func ParseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := nf.Decimal
	thou := nf.Thousands
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0 && commaGrouped(raw):
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	// ParseFloat accepts "NaN" and "Inf"; neither is a usable observation.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// commaGrouped reports whether s looks like a comma-grouped integer: a lead
// group of 1-3 digits without a leading zero, then groups of exactly three.
func commaGrouped(s string) bool {
	s = strings.TrimLeft(s, "+-")
	groups := strings.Split(s, ",")
	if len(groups) < 2 {
		return false
	}
	lead := groups[0]
	if len(lead) == 0 || len(lead) > 3 || lead[0] == '0' || !allDigits(lead) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !allDigits(g) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var (
	monthFirstLayouts = []string{
		"1/2/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
		"1/2/06", "1/2/06 15:04", "1/2/06 15:04:05", "01-02-06",
	}
	dayFirstLayouts = []string{
		"2/1/2006", "2/1/2006 15:04", "2/1/2006 15:04:05",
		"2/1/06", "2/1/06 15:04", "2/1/06 15:04:05", "02-01-06",
	}
	isoLayouts = []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "2006-01-02 15:04", "2006-01-02 15:04:05",
		"2006-01-02T15:04:05", "2006-01-02T15:04", "Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
		"2 January 2006", "2006-01-02 15:04:05Z07:00",
	}
)

// ParseTime converts a raw cell to a timestamp. Slash dates are read month-first
// unless dayFirst is set.
func ParseTime(s string, dayFirst bool) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range isoLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	first, second := monthFirstLayouts, dayFirstLayouts
	if dayFirst {
		first, second = second, first
	}
	for _, l := range first {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	for _, l := range second {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseBool reports whether a cell is a truthy flag. Numeric 1 counts as true,
// matching how a boolean comparison treats integer flag columns.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "1.0", "yes", "y":
		return true
	}
	return false
}

func isBoolLike(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}
