package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// SummaryRow is one describe-style line of the Summary table. Numeric columns
// fill the moment fields; other kinds fill Unique/Top/Freq.
type SummaryRow struct {
	Column  string       `json:"column"`
	Kind    dataset.Kind `json:"kind"`
	Count   int          `json:"count"`
	Missing int          `json:"missing"`
	Mean    *float64     `json:"mean,omitempty"`
	Std     *float64     `json:"std,omitempty"`
	Min     *float64     `json:"min,omitempty"`
	Q25     *float64     `json:"q25,omitempty"`
	Median  *float64     `json:"median,omitempty"`
	Q75     *float64     `json:"q75,omitempty"`
	Max     *float64     `json:"max,omitempty"`
	Unique  *int         `json:"unique,omitempty"`
	Top     *string      `json:"top,omitempty"`
	Freq    *int         `json:"freq,omitempty"`
}

// Numeric reports whether the row carries numeric measures.
func (r SummaryRow) Numeric() bool { return r.Kind == dataset.KindNumeric }

// Summarize builds the descriptive table for the given columns.
func Summarize(ds *dataset.Dataset, columns []string) []SummaryRow {
	cols := uniqueColumns(columns)
	out := make([]SummaryRow, 0, len(cols))
	for _, col := range cols {
		row := SummaryRow{Column: col, Kind: ds.Kind(col)}
		if row.Kind == dataset.KindNumeric {
			s := collectNumbers(ds, col)
			row.Count = len(s.values)
			row.Missing = s.missing
			if m, ok := computeMoments(s.values); ok {
				row.Mean = finite(m.mean)
				row.Min = finite(m.min)
				row.Q25 = finite(m.q25)
				row.Median = finite(m.median)
				row.Q75 = finite(m.q75)
				row.Max = finite(m.max)
				if m.hasSpread {
					row.Std = finite(m.std)
				}
			}
			out = append(out, row)
			continue
		}
		cells, _ := ds.Column(col)
		freq := map[string]int{}
		for _, c := range cells {
			if dataset.IsMissing(c) {
				row.Missing++
				continue
			}
			row.Count++
			freq[strings.TrimSpace(c)]++
		}
		if row.Count > 0 {
			top, n := topValue(freq)
			row.Unique = ptr(len(freq))
			row.Top = ptr(top)
			row.Freq = ptr(n)
		}
		out = append(out, row)
	}
	return out
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// sortedCounts orders a frequency map by count descending, then value.
func sortedCounts(freq map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(freq))
	for v, n := range freq {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func topValue(freq map[string]int) (string, int) {
	vc := sortedCounts(freq)
	if len(vc) == 0 {
		return "", 0
	}
	return vc[0].Value, vc[0].Count
}

// CountValues tallies the non-missing cells of a column, most frequent first.
func CountValues(ds *dataset.Dataset, column string) []ValueCount {
	cells, _ := ds.Column(column)
	freq := map[string]int{}
	for _, c := range cells {
		if !dataset.IsMissing(c) {
			freq[strings.TrimSpace(c)]++
		}
	}
	return sortedCounts(freq)
}
