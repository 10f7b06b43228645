package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// ColumnStatistics holds descriptive and advanced measures for one column.
// Nil fields are absent: no coercible values, fewer than two for variance and
// std, a result that overflows float64, or a column that is not numeric, which
// reports only count, mean, min and max over its coercible cells.
type ColumnStatistics struct {
	Column   string   `json:"column"`
	Count    int      `json:"count"`
	Missing  int      `json:"missing"`
	Invalid  int      `json:"invalid"`
	Mean     *float64 `json:"mean"`
	Median   *float64 `json:"median"`
	Std      *float64 `json:"std"`
	Variance *float64 `json:"variance"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Range    *float64 `json:"range"`
	IQR      *float64 `json:"iqr"`
}

// numericSample is a column's coercible values plus the cells that were not.
type numericSample struct {
	values  []float64
	missing int
	invalid int
}

func collectNumbers(ds *dataset.Dataset, col string) numericSample {
	cells, _ := ds.Column(col)
	var s numericSample
	for _, c := range cells {
		if dataset.IsMissing(c) {
			s.missing++
			continue
		}
		v, ok := ds.Number(c)
		if !ok {
			s.invalid++
			continue
		}
		s.values = append(s.values, v)
	}
	return s
}

// moments are the order and moment statistics of a non-empty sample.
type moments struct {
	n                      int
	mean, median, min, max float64
	q25, q75               float64
	variance, std          float64
	hasSpread              bool
}

func computeMoments(vals []float64) (moments, bool) {
	if len(vals) == 0 {
		return moments{}, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	m := moments{
		n:      len(sorted),
		min:    floats.Min(sorted),
		max:    floats.Max(sorted),
		median: Quantile(sorted, 0.5),
		q25:    Quantile(sorted, 0.25),
		q75:    Quantile(sorted, 0.75),
	}
	m.mean = mean(vals)
	if m.n >= 2 {
		_, m.variance = stat.MeanVariance(vals, nil)
		m.std = math.Sqrt(m.variance)
		m.hasSpread = true
	}
	return m, true
}

// mean is stat.Mean, rescaled term by term when the plain sum overflows.
func mean(vals []float64) float64 {
	m := stat.Mean(vals, nil)
	if !math.IsInf(m, 0) && !math.IsNaN(m) {
		return m
	}
	n := float64(len(vals))
	m = 0
	for _, v := range vals {
		m += v / n
	}
	return m
}

// finite returns nil for NaN and ±Inf so overflowed measures read as absent.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ComputeStatistics returns one entry per requested column, in request order
// with duplicates removed. A TypeMismatchError is reported for columns without
// a single numeric value and for non-numeric columns holding cells that do not
// coerce. The notes name measures dropped because they overflow.
func ComputeStatistics(ds *dataset.Dataset, columns []string) ([]ColumnStatistics, []*TypeMismatchError, []string) {
	cols := uniqueColumns(columns)
	out := make([]ColumnStatistics, 0, len(cols))
	var mismatches []*TypeMismatchError
	var notes []string
	for _, col := range cols {
		s := collectNumbers(ds, col)
		cs := ColumnStatistics{Column: col, Count: len(s.values), Missing: s.missing, Invalid: s.invalid}
		numeric := ds.Kind(col) == dataset.KindNumeric
		m, ok := computeMoments(s.values)
		if !ok {
			if s.invalid > 0 || ds.Kind(col) != dataset.KindUnknown {
				mismatches = append(mismatches, &TypeMismatchError{Column: col, Want: dataset.KindNumeric})
			}
			out = append(out, cs)
			continue
		}
		if !numeric && s.invalid > 0 {
			mismatches = append(mismatches, &TypeMismatchError{Column: col, Want: dataset.KindNumeric})
		}
		cs.Mean = finite(m.mean)
		cs.Min = finite(m.min)
		cs.Max = finite(m.max)
		if !numeric {
			out = append(out, cs)
			continue
		}
		cs.Median = finite(m.median)
		var dropped []string
		if cs.Range = finite(m.max - m.min); cs.Range == nil {
			dropped = append(dropped, "range")
		}
		if cs.IQR = finite(m.q75 - m.q25); cs.IQR == nil {
			dropped = append(dropped, "iqr")
		}
		if m.hasSpread {
			cs.Variance = finite(m.variance)
			cs.Std = finite(m.std)
			if cs.Variance == nil {
				dropped = append(dropped, "variance", "std")
			}
		}
		if len(dropped) > 0 {
			notes = append(notes, fmt.Sprintf("%s: %s overflow float64 and are omitted", col, strings.Join(dropped, ", ")))
		}
		out = append(out, cs)
	}
	return out, mismatches, notes
}

// Quantile returns the q-th quantile of an ascending slice, interpolating
// linearly between the closest ranks.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func ptr[T any](v T) *T { return &v }
