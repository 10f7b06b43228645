package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// Point is one bucket of an aggregated series: the period end date and the
// mean of the values that fell into it.
type Point struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
	Count  int       `json:"count"`
}

// AggregatedSeries is a value column averaged per calendar period, ascending.
type AggregatedSeries struct {
	TimeColumn  string    `json:"time_column"`
	ValueColumn string    `json:"value_column"`
	Frequency   Frequency `json:"frequency"`
	Points      []Point   `json:"points"`
	// Dropped counts rows removed because either cell did not parse.
	Dropped int `json:"dropped"`
}

// Values returns the bucket means in period order.
func (s *AggregatedSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// PeriodEnd maps a timestamp to the last day of its bucket. Weeks end on
// Sunday; months, quarters and years on their last calendar day.
func PeriodEnd(t time.Time, f Frequency) time.Time {
	y, m, d := t.Date()
	switch f {
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, (7-int(day.Weekday()))%7)
	case Quarterly:
		qEnd := ((int(m)-1)/3 + 1) * 3
		return time.Date(y, time.Month(qEnd)+1, 0, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC)
	}
}

// Resample buckets rows by period end and averages the value column in each
// non-empty bucket. Rows whose timestamp or value does not parse are dropped;
// if none remain the result is an EmptyInputError.
func Resample(ds *dataset.Dataset, timeCol, valueCol string, f Frequency) (*AggregatedSeries, error) {
	if err := ValidateColumns(ds.Header(), []string{timeCol, valueCol}); err != nil {
		return nil, err
	}
	times, _ := ds.Column(timeCol)
	values, _ := ds.Column(valueCol)

	type acc struct {
		mean float64
		n    int
	}
	buckets := map[time.Time]*acc{}
	dropped := 0
	for i := range times {
		t, ok := ds.Time(times[i])
		if !ok {
			dropped++
			continue
		}
		v, ok := ds.Number(values[i])
		if !ok {
			dropped++
			continue
		}
		key := PeriodEnd(t, f)
		b := buckets[key]
		if b == nil {
			b = &acc{}
			buckets[key] = b
		}
		b.n++
		b.mean += (v - b.mean) / float64(b.n)
	}
	if len(buckets) == 0 {
		return nil, &EmptyInputError{TimeColumn: timeCol, ValueColumn: valueCol, Dropped: dropped}
	}
	series := &AggregatedSeries{
		TimeColumn:  timeCol,
		ValueColumn: valueCol,
		Frequency:   f,
		Points:      make([]Point, 0, len(buckets)),
		Dropped:     dropped,
	}
	for period, b := range buckets {
		series.Points = append(series.Points, Point{Period: period, Value: b.mean, Count: b.n})
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Period.Before(series.Points[j].Period) })
	return series, nil
}

func droppedWarning(s *AggregatedSeries) string {
	return fmt.Sprintf("dropped %d row(s) without a parsable %q timestamp and numeric %q value", s.Dropped, s.TimeColumn, s.ValueColumn)
}
