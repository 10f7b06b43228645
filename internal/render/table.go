// Package render turns analysis results into terminal tables and HTML charts.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// TableOptions controls terminal output.
type TableOptions struct {
	NoColor bool
}

type palette struct {
	heading, info, warning, success, failed *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		heading: color.New(color.Bold),
		info:    color.New(color.FgCyan),
		warning: color.New(color.FgYellow),
		success: color.New(color.FgGreen),
		failed:  color.New(color.FgRed, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.heading, p.info, p.warning, p.success, p.failed} {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s analysis.Severity) string {
	tag := "[" + strings.ToUpper(string(s)) + "]"
	switch s {
	case analysis.SeverityWarning:
		return p.warning.Sprint(tag)
	case analysis.SeveritySuccess:
		return p.success.Sprint(tag)
	default:
		return p.info.Sprint(tag)
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

// Table writes every kind of the result as a terminal table followed by its
// suggestions.
func Table(w io.Writer, res *analysis.Result, o TableOptions) error {
	p := newPalette(o.NoColor)
	fmt.Fprintf(w, "%s %s (%d rows)\n", p.heading.Sprint("Dataset:"), res.Dataset, res.Rows)
	for _, note := range res.Warnings {
		fmt.Fprintf(w, "%s %s\n", p.warning.Sprint("⚠"), note)
	}
	for _, kr := range res.Ordered() {
		fmt.Fprintf(w, "\n%s\n", p.heading.Sprint(strings.ToUpper(strings.ReplaceAll(string(kr.Kind), "_", " "))))
		if !kr.OK() {
			fmt.Fprintf(w, "%s %s: %s\n", p.failed.Sprint("✗"), kr.ErrorKind, kr.Error)
			continue
		}
		switch kr.Kind {
		case analysis.KindSummary:
			summaryTable(w, kr.Summary)
		case analysis.KindStatisticalMeasures:
			statisticsTable(w, kr.Statistics)
		case analysis.KindTrends:
			trendTable(w, kr.Trend)
		case analysis.KindGaps:
			t := newTable(w, []string{"Column", "Missing"})
			for _, g := range kr.Gaps {
				t.Append([]string{g.Column, strconv.Itoa(g.Missing)})
			}
			t.Render()
		case analysis.KindKPIs:
			k := kr.KPI
			t := newTable(w, []string{"Column", "Count", "Mean", "Max", "Min"})
			t.Append([]string{k.Column, strconv.Itoa(k.Count),
				fmt.Sprintf("%.2f", k.Mean), fmt.Sprintf("%.2f", k.Max), fmt.Sprintf("%.2f", k.Min)})
			t.Render()
		case analysis.KindVaccination:
			vaccinationTables(w, kr.Vaccination)
		}
		for _, note := range kr.Warnings {
			fmt.Fprintf(w, "%s %s\n", p.warning.Sprint("⚠"), note)
		}
		for _, s := range kr.Suggestions {
			fmt.Fprintf(w, "%s %s\n", p.severity(s.Severity), s.Message)
		}
	}
	return nil
}

// Profile writes the inferred column overview and the preview rows.
func Profile(w io.Writer, p dataset.Profile, o TableOptions) error {
	pal := newPalette(o.NoColor)
	fmt.Fprintf(w, "%s %s (%d rows)\n", pal.heading.Sprint("Dataset:"), p.Dataset, p.Rows)
	for _, note := range p.Warnings {
		fmt.Fprintf(w, "%s %s\n", pal.warning.Sprint("⚠"), note)
	}
	t := newTable(w, []string{"Column", "Kind", "Non-null", "Missing"})
	for _, c := range p.Columns {
		t.Append([]string{c.Name, string(c.Kind), strconv.Itoa(c.NonNull), strconv.Itoa(c.Missing)})
	}
	t.Render()
	if len(p.Preview) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", pal.heading.Sprintf("First %d rows", len(p.Preview)))
	t = newTable(w, p.Header)
	t.AppendBulk(p.Preview)
	t.Render()
	return nil
}

func summaryTable(w io.Writer, rows []analysis.SummaryRow) {
	t := newTable(w, []string{"Column", "Kind", "Count", "Missing", "Mean", "Std", "Min", "25%", "50%", "75%", "Max", "Unique", "Top", "Freq"})
	for _, r := range rows {
		line := []string{r.Column, string(r.Kind), strconv.Itoa(r.Count), strconv.Itoa(r.Missing)}
		if r.Numeric() {
			line = append(line,
				analysis.FormatFloat(r.Mean), analysis.FormatFloat(r.Std), analysis.FormatFloat(r.Min),
				analysis.FormatFloat(r.Q25), analysis.FormatFloat(r.Median), analysis.FormatFloat(r.Q75),
				analysis.FormatFloat(r.Max), "", "", "")
		} else {
			line = append(line, "", "", "", "", "", "", "")
			if r.Top != nil {
				line = append(line, strconv.Itoa(*r.Unique), *r.Top, strconv.Itoa(*r.Freq))
			} else {
				line = append(line, "", "", "")
			}
		}
		t.Append(line)
	}
	t.Render()
}

func statisticsTable(w io.Writer, stats []analysis.ColumnStatistics) {
	t := newTable(w, []string{"Column", "N", "Mean", "Median", "Std", "Variance", "Min", "Max", "Range", "IQR"})
	for _, cs := range stats {
		t.Append([]string{cs.Column, strconv.Itoa(cs.Count),
			analysis.FormatFloat(cs.Mean), analysis.FormatFloat(cs.Median), analysis.FormatFloat(cs.Std),
			analysis.FormatFloat(cs.Variance), analysis.FormatFloat(cs.Min), analysis.FormatFloat(cs.Max),
			analysis.FormatFloat(cs.Range), analysis.FormatFloat(cs.IQR)})
	}
	t.Render()
}

func trendTable(w io.Writer, tr *analysis.TrendResult) {
	s := tr.Series
	fmt.Fprintf(w, "%s by %s, %s: %s\n", s.ValueColumn, s.TimeColumn, s.Frequency.Label(), tr.Verdict.Direction)
	t := newTable(w, []string{"Period", "Mean", "Rows"})
	for _, p := range s.Points {
		t.Append([]string{p.Period.Format("2006-01-02"), fmt.Sprintf("%.4g", p.Value), strconv.Itoa(p.Count)})
	}
	t.Render()
}

func vaccinationTables(w io.Writer, v *analysis.VaccinationBreakdown) {
	fmt.Fprintf(w, "Vaccinated %d of %d (%.1f%%)\n", v.Vaccinated, v.Total, v.Rate()*100)
	for _, part := range []struct {
		title  string
		counts []analysis.ValueCount
	}{{"VaccinationType", v.ByType}, {"Region", v.ByRegion}} {
		t := newTable(w, []string{part.title, "Vaccinated"})
		for _, vc := range part.counts {
			t.Append([]string{vc.Value, strconv.Itoa(vc.Count)})
		}
		t.Render()
	}
}
