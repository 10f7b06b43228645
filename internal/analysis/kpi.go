package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// KPISummary is the at-a-glance triple for one column, rounded to 2 places.
type KPISummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// ComputeKPI summarises a column. It fails with TypeMismatch when the column
// holds no numeric values.
func ComputeKPI(ds *dataset.Dataset, column string) (*KPISummary, error) {
	if err := ValidateColumns(ds.Header(), []string{column}); err != nil {
		return nil, err
	}
	s := collectNumbers(ds, column)
	if len(s.values) == 0 {
		return nil, &TypeMismatchError{Column: column, Want: dataset.KindNumeric}
	}
	return &KPISummary{
		Column: column,
		Count:  len(s.values),
		Mean:   round2(mean(s.values)),
		Max:    round2(floats.Max(s.values)),
		Min:    round2(floats.Min(s.values)),
	}, nil
}

// pickKPIColumn returns the first column with at least one numeric value.
func pickKPIColumn(ds *dataset.Dataset, columns []string) (string, bool) {
	for _, c := range columns {
		if ds.Kind(c) == dataset.KindNumeric {
			return c, true
		}
	}
	for _, c := range columns {
		if len(collectNumbers(ds, c).values) > 0 {
			return c, true
		}
	}
	return "", false
}

// round2 leaves magnitudes past 2^52 alone; they carry no fraction and v*100
// may overflow.
func round2(v float64) float64 {
	if math.Abs(v) >= 1<<52 {
		return v
	}
	return math.Round(v*100) / 100
}
