package analysis

import (
	"fmt"
	"math"
)

// Severity tags a suggestion.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Suggestion is one advisory line derived from the analysis.
type Suggestion struct {
	Severity Severity `json:"severity"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// DispersionSuggestion flags a column whose std exceeds half its absolute
// mean. It returns false when mean or std is absent or the mean is zero.
func DispersionSuggestion(column string, mean, std *float64) (Suggestion, bool) {
	if mean == nil || std == nil || *mean == 0 {
		return Suggestion{}, false
	}
	if *std > 0.5*math.Abs(*mean) {
		return Suggestion{
			Severity: SeverityWarning,
			Column:   column,
			Message: fmt.Sprintf("High dispersion in %q (std %.2f vs mean %.2f); consider cleaning the data or checking for outliers.",
				column, *std, *mean),
		}, true
	}
	return Suggestion{
		Severity: SeverityInfo,
		Column:   column,
		Message:  fmt.Sprintf("%q is relatively stable (std %.2f vs mean %.2f).", column, *std, *mean),
	}, true
}

// DispersionSuggestions applies the dispersion rule to each column in order.
func DispersionSuggestions(stats []ColumnStatistics) []Suggestion {
	var out []Suggestion
	for _, cs := range stats {
		if s, ok := DispersionSuggestion(cs.Column, cs.Mean, cs.Std); ok {
			out = append(out, s)
		}
	}
	return out
}

// GapSuggestions reports every column: a warning with the count when cells
// are missing, otherwise a note that the column is complete.
func GapSuggestions(gaps []GapCount) []Suggestion {
	out := make([]Suggestion, 0, len(gaps))
	for _, g := range gaps {
		if g.Missing > 0 {
			noun := "values"
			if g.Missing == 1 {
				noun = "value"
			}
			out = append(out, Suggestion{
				Severity: SeverityWarning,
				Column:   g.Column,
				Message:  fmt.Sprintf("%q has %d missing %s; fill or drop them before relying on it.", g.Column, g.Missing, noun),
			})
			continue
		}
		out = append(out, Suggestion{
			Severity: SeverityInfo,
			Column:   g.Column,
			Message:  fmt.Sprintf("%q has no missing values.", g.Column),
		})
	}
	return out
}

// TrendSuggestion turns a verdict into advice about the value column.
func TrendSuggestion(column string, f Frequency, v TrendVerdict) Suggestion {
	s := Suggestion{Column: column}
	switch v.Direction {
	case Increasing:
		s.Severity = SeveritySuccess
		s.Message = fmt.Sprintf("%q rises in every %s period (%d points). Keep the current approach.", column, f.Label(), v.Points)
	case Decreasing:
		s.Severity = SeverityWarning
		s.Message = fmt.Sprintf("%q falls in every %s period (%d points). Investigate the decline.", column, f.Label(), v.Points)
	case Fluctuating:
		s.Severity = SeverityInfo
		s.Message = fmt.Sprintf("%q fluctuates across %d %s periods; look for seasonal patterns.", column, v.Points, f.Label())
	default:
		s.Severity = SeverityInfo
		s.Message = fmt.Sprintf("Insufficient data to judge a trend for %q (%d %s period(s), need at least 3).", column, v.Points, f.Label())
	}
	return s
}

// KPISuggestion is the standing reminder shown with every KPI snapshot.
func KPISuggestion(column string) Suggestion {
	return Suggestion{
		Severity: SeverityInfo,
		Column:   column,
		Message:  fmt.Sprintf("Review the bounds of %q against your targets.", column),
	}
}
