package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResampleMonthlyMeans(t *testing.T) {
	ds := newDataset([]string{"When", "Value"},
		[]string{"2024-02-10", "30"},
		[]string{"2024-01-05", "10"},
		[]string{"2024-01-20", "20"},
	)
	s, err := Resample(ds, "When", "Value", Monthly)
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	assert.Equal(t, day(2024, 1, 31), s.Points[0].Period)
	assert.InDelta(t, 15.0, s.Points[0].Value, 1e-12)
	assert.Equal(t, 2, s.Points[0].Count)
	assert.Equal(t, day(2024, 2, 29), s.Points[1].Period)
	assert.InDelta(t, 30.0, s.Points[1].Value, 1e-12)
	assert.Equal(t, 0, s.Dropped)
}

func TestPeriodEnd(t *testing.T) {
	cases := []struct {
		in   time.Time
		f    Frequency
		want time.Time
	}{
		{day(2024, 1, 5), Weekly, day(2024, 1, 7)},
		{day(2024, 1, 7), Weekly, day(2024, 1, 7)},
		{day(2024, 1, 8), Weekly, day(2024, 1, 14)},
		{time.Date(2024, 12, 30, 13, 45, 0, 0, time.UTC), Weekly, day(2025, 1, 5)},
		{day(2023, 2, 14), Monthly, day(2023, 2, 28)},
		{day(2024, 12, 1), Monthly, day(2024, 12, 31)},
		{day(2024, 2, 1), Quarterly, day(2024, 3, 31)},
		{day(2024, 5, 31), Quarterly, day(2024, 6, 30)},
		{day(2024, 11, 2), Quarterly, day(2024, 12, 31)},
		{day(2024, 7, 4), Yearly, day(2024, 12, 31)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PeriodEnd(c.in, c.f), "%s %s", c.in, c.f)
	}
}

func TestResampleDropsUnparsableRows(t *testing.T) {
	s, err := Resample(vaxDataset(), "Date", "Doses", Quarterly)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Dropped)
	require.Len(t, s.Points, 1)
	assert.InDelta(t, 25.0, s.Points[0].Value, 1e-12)
	assert.Equal(t, 4, s.Points[0].Count)
}

func TestResampleEmptyInput(t *testing.T) {
	ds := newDataset([]string{"When", "Value"},
		[]string{"soon", "1"},
		[]string{"2024-01-01", "n/a"},
	)
	_, err := Resample(ds, "When", "Value", Weekly)
	var ei *EmptyInputError
	require.True(t, errors.As(err, &ei))
	assert.Equal(t, 2, ei.Dropped)
	assert.Equal(t, ErrKindEmptyInput, ErrorKindOf(err))
}

func TestResampleMissingColumn(t *testing.T) {
	_, err := Resample(vaxDataset(), "Date", "Nope", Monthly)
	var sm *SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Equal(t, []string{"Nope"}, sm.Missing)
}

func TestResampleDoesNotMutateDataset(t *testing.T) {
	ds := vaxDataset()
	before, _ := ds.Column("Date")
	_, err := Resample(ds, "Date", "Doses", Monthly)
	require.NoError(t, err)
	after, _ := ds.Column("Date")
	assert.Equal(t, before, after)
	assert.Equal(t, 5, ds.Len())
}
