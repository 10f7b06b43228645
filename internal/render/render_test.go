package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

func sample() *dataset.Dataset {
	return dataset.New("vax.csv",
		[]string{"Date", "Region", "VaccinationType", "IsVaccinated", "Doses"},
		[][]string{
			{"2024-01-05", "North", "Pfizer", "true", "10"},
			{"2024-02-07", "South", "Moderna", "false", "20"},
			{"2024-03-09", "North", "Pfizer", "true", "35"},
			{"2024-04-11", "West", "Moderna", "true", "15"},
		},
		dataset.DefaultOptions())
}

func run(t *testing.T, ds *dataset.Dataset, kinds ...analysis.Kind) *analysis.Result {
	t.Helper()
	res, err := analysis.NewEngine().Run(ds, analysis.Request{Kinds: kinds})
	require.NoError(t, err)
	return res
}

func TestTableRendersEveryKind(t *testing.T) {
	ds := sample()
	res := run(t, ds, analysis.AllKinds...)
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, res, TableOptions{NoColor: true}))
	out := buf.String()
	for _, want := range []string{
		"Dataset: vax.csv (4 rows)", "SUMMARY", "STATISTICAL MEASURES", "TRENDS", "GAPS", "KPIS",
		"VACCINATION", "Pfizer", "2024-01-31", "fluctuating", "[INFO]", "Vaccinated 3 of 4 (75.0%)",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[")
}

func TestTableShowsFailures(t *testing.T) {
	ds := dataset.New("x.csv", []string{"A"}, [][]string{{"1"}}, dataset.DefaultOptions())
	res := run(t, ds, analysis.KindVaccination)
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, res, TableOptions{NoColor: true}))
	assert.Contains(t, buf.String(), "✗ schema_mismatch")
}

func TestProfileTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Profile(&buf, sample().Profile(2), TableOptions{NoColor: true}))
	out := buf.String()
	assert.Contains(t, out, "Dataset: vax.csv (4 rows)")
	assert.Contains(t, out, "temporal")
	assert.Contains(t, out, "First 2 rows")
	assert.Contains(t, out, "Moderna")
	assert.NotContains(t, out, "West")
}

func TestChartsFromResult(t *testing.T) {
	ds := sample()
	res := run(t, ds, analysis.KindTrends, analysis.KindVaccination)
	var buf bytes.Buffer
	require.NoError(t, Charts(&buf, ds, res, nil, ""))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Vaccinated by type")
	assert.Contains(t, html, "Doses by Date")
	assert.Contains(t, html, DefaultChartColor)
}

func TestChartsCustomTypes(t *testing.T) {
	ds := sample()
	for _, spec := range []ChartSpec{
		{Type: "Bar", X: "Region", Y: "Doses"},
		{Type: "line", X: "Date", Y: "Doses", Title: "Doses over time", Color: "#ff0000"},
		{Type: "box", X: "VaccinationType", Y: "Doses"},
		{Type: "box", Y: "Doses"},
		{Type: "histogram", Y: "Doses"},
		{Type: "pie", Y: "Region"},
	} {
		var buf bytes.Buffer
		s := spec
		require.NoError(t, Charts(&buf, ds, nil, &s, ""), "%+v", spec)
		want := spec.Title
		if want == "" {
			want = DefaultChartTitle
		}
		assert.Contains(t, buf.String(), want)
	}
}

func TestChartsCustomErrors(t *testing.T) {
	ds := sample()
	var buf bytes.Buffer

	err := Charts(&buf, ds, nil, &ChartSpec{Type: "radar", Y: "Doses"}, "")
	assert.Error(t, err)

	err = Charts(&buf, ds, nil, &ChartSpec{Type: "bar", Y: "Doses"}, "")
	assert.ErrorContains(t, err, "x column")

	err = Charts(&buf, ds, nil, &ChartSpec{Type: "pie", Y: "Nope"}, "")
	var sm *analysis.SchemaMismatchError
	assert.True(t, errors.As(err, &sm))

	err = Charts(&buf, ds, nil, &ChartSpec{Type: "histogram", Y: "Region"}, "")
	assert.Equal(t, analysis.ErrKindTypeMismatch, analysis.ErrorKindOf(err))

	err = Charts(&buf, ds, nil, &ChartSpec{Type: "pie", Y: "Region", Color: "teal"}, "")
	assert.Error(t, err)

	assert.ErrorIs(t, Charts(&buf, ds, nil, nil, ""), ErrNothingToChart)
}

func TestHistogramBins(t *testing.T) {
	var vals []float64
	for i := 1; i <= 20; i++ {
		vals = append(vals, float64(i))
	}
	labels, counts := histogram(vals, 20)
	require.Len(t, labels, 20)
	require.Len(t, counts, 20)
	assert.Equal(t, 20.0, floats.Sum(counts))
	assert.Equal(t, "1", labels[0])
	assert.GreaterOrEqual(t, counts[19], 1.0)

	_, counts = histogram([]float64{4, 4, 4}, 20)
	assert.Equal(t, 3.0, floats.Sum(counts))
}
