package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders the result as a plain report with bracketed sections.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Dataset != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Dataset))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(r.Columns, ", ")))
	kinds := make([]string, len(r.Kinds))
	for i, k := range r.Kinds {
		kinds[i] = string(k)
	}
	b.WriteString(fmt.Sprintf("Analyses: %s\n", strings.Join(kinds, ", ")))

	for _, kr := range r.Ordered() {
		b.WriteString(fmt.Sprintf("\n[%s]\n", sectionTitle(kr.Kind)))
		if !kr.OK() {
			b.WriteString(fmt.Sprintf("FAILED (%s): %s\n", kr.ErrorKind, kr.Error))
			continue
		}
		switch kr.Kind {
		case KindSummary:
			writeSummary(&b, kr.Summary)
		case KindStatisticalMeasures:
			writeStatistics(&b, kr.Statistics)
		case KindTrends:
			writeTrend(&b, kr.Trend)
		case KindGaps:
			for _, g := range kr.Gaps {
				b.WriteString(fmt.Sprintf("- %s: %d missing\n", g.Column, g.Missing))
			}
		case KindKPIs:
			k := kr.KPI
			b.WriteString(fmt.Sprintf("- %s (n=%d): mean %.2f, max %.2f, min %.2f\n", k.Column, k.Count, k.Mean, k.Max, k.Min))
		case KindVaccination:
			writeVaccination(&b, kr.Vaccination)
		}
		for _, w := range kr.Warnings {
			b.WriteString(fmt.Sprintf("Note: %s\n", w))
		}
	}

	if sugg := r.Suggestions(); len(sugg) > 0 {
		b.WriteString("\n[SUGGESTIONS]\n")
		for _, s := range sugg {
			b.WriteString(fmt.Sprintf("- [%s] %s\n", strings.ToUpper(string(s.Severity)), s.Message))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return b.String()
}

func sectionTitle(k Kind) string {
	switch k {
	case KindSummary:
		return "SUMMARY"
	case KindStatisticalMeasures:
		return "STATISTICAL MEASURES"
	case KindTrends:
		return "TRENDS"
	case KindGaps:
		return "GAPS"
	case KindKPIs:
		return "KPIS"
	case KindVaccination:
		return "VACCINATION BREAKDOWN"
	}
	return strings.ToUpper(string(k))
}

// FormatFloat prints an optional measure, "n/a" when absent.
func FormatFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *v)
}

func writeSummary(b *strings.Builder, rows []SummaryRow) {
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("- %s: %s (count %d, missing %d)", row.Column, row.Kind, row.Count, row.Missing))
		if row.Numeric() {
			b.WriteString(fmt.Sprintf("; mean %s, std %s, min %s, 25%% %s, 50%% %s, 75%% %s, max %s",
				FormatFloat(row.Mean), FormatFloat(row.Std), FormatFloat(row.Min), FormatFloat(row.Q25),
				FormatFloat(row.Median), FormatFloat(row.Q75), FormatFloat(row.Max)))
		} else if row.Top != nil {
			b.WriteString(fmt.Sprintf("; unique %d, top %s (%d)", *row.Unique, *row.Top, *row.Freq))
		}
		b.WriteString("\n")
	}
}

func writeStatistics(b *strings.Builder, stats []ColumnStatistics) {
	for _, cs := range stats {
		b.WriteString(fmt.Sprintf("- %s (n=%d): mean %s, median %s, std %s, variance %s, min %s, max %s, range %s, IQR %s\n",
			cs.Column, cs.Count, FormatFloat(cs.Mean), FormatFloat(cs.Median), FormatFloat(cs.Std),
			FormatFloat(cs.Variance), FormatFloat(cs.Min), FormatFloat(cs.Max), FormatFloat(cs.Range), FormatFloat(cs.IQR)))
	}
}

func writeTrend(b *strings.Builder, t *TrendResult) {
	s := t.Series
	b.WriteString(fmt.Sprintf("%s by %s (%s): %s over %d period(s)\n",
		s.ValueColumn, s.TimeColumn, s.Frequency.Label(), t.Verdict.Direction, t.Verdict.Points))
	for _, p := range s.Points {
		b.WriteString(fmt.Sprintf("- %s: %.4g (n=%d)\n", p.Period.Format("2006-01-02"), p.Value, p.Count))
	}
}

func writeVaccination(b *strings.Builder, v *VaccinationBreakdown) {
	b.WriteString(fmt.Sprintf("Vaccinated: %d of %d (%.1f%%)\n", v.Vaccinated, v.Total, v.Rate()*100))
	b.WriteString("By type:\n")
	for _, vc := range v.ByType {
		b.WriteString(fmt.Sprintf("- %s: %d\n", vc.Value, vc.Count))
	}
	b.WriteString("By region:\n")
	for _, vc := range v.ByRegion {
		b.WriteString(fmt.Sprintf("- %s: %d\n", vc.Value, vc.Count))
	}
}
