package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

const (
	DefaultChartTitle = "Custom KPI Chart"
	DefaultChartColor = "#008B8B"
	histogramBins     = 20
)

// ErrNothingToChart is returned when neither the result nor a custom spec
// yields a chart.
var ErrNothingToChart = errors.New("nothing to chart: run trends or vaccination, or pass a custom chart")

// ChartSpec describes a user-defined chart over raw dataset columns.
// Bar and line plot Y against X row by row; box groups Y by X; histogram
// bins Y; pie counts the values of Y.
type ChartSpec struct {
	Type  string `json:"type" validate:"required,oneof=bar line box histogram pie"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y" validate:"required"`
	Title string `json:"title,omitempty"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

var validate = validator.New()

// Validate normalises the type name and checks the chart's fields.
func (s *ChartSpec) Validate() error {
	s.Type = strings.ToLower(strings.TrimSpace(s.Type))
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid chart: %w", err)
	}
	if (s.Type == "bar" || s.Type == "line") && s.X == "" {
		return fmt.Errorf("invalid chart: %s needs an x column", s.Type)
	}
	return nil
}

// Charts writes an HTML page holding the trend line, the vaccination bars and
// the optional custom chart.
func Charts(w io.Writer, ds *dataset.Dataset, res *analysis.Result, custom *ChartSpec, color string) error {
	if color == "" {
		color = DefaultChartColor
	}
	page := components.NewPage()
	n := 0
	if res != nil {
		if kr := res.Results[analysis.KindTrends]; kr.OK() {
			page.AddCharts(trendChart(kr.Trend, color))
			n++
		}
		if kr := res.Results[analysis.KindVaccination]; kr.OK() {
			v := kr.Vaccination
			page.AddCharts(
				countBar("Vaccinated by type", "VaccinationType", v.ByType, color),
				countBar("Vaccinated by region", "Region", v.ByRegion, color),
			)
			n += 2
		}
	}
	if custom != nil {
		if err := custom.Validate(); err != nil {
			return err
		}
		c, err := customChart(ds, *custom, color)
		if err != nil {
			return err
		}
		page.AddCharts(c)
		n++
	}
	if n == 0 {
		return ErrNothingToChart
	}
	return page.Render(w)
}

func globalOpts(title, subtitle, color string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithColorsOpts(opts.Colors{color}),
	}
}

func trendChart(tr *analysis.TrendResult, color string) *charts.Line {
	s := tr.Series
	x := make([]string, len(s.Points))
	y := make([]opts.LineData, len(s.Points))
	for i, p := range s.Points {
		x[i] = p.Period.Format("2006-01-02")
		y[i] = opts.LineData{Value: p.Value}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(
		fmt.Sprintf("%s by %s", s.ValueColumn, s.TimeColumn),
		fmt.Sprintf("%s mean, %s", s.Frequency.Label(), tr.Verdict.Direction),
		color)...)
	line.SetXAxis(x).AddSeries(s.ValueColumn, y)
	return line
}

func countBar(title, series string, counts []analysis.ValueCount, color string) *charts.Bar {
	x := make([]string, len(counts))
	y := make([]opts.BarData, len(counts))
	for i, vc := range counts {
		x[i] = vc.Value
		y[i] = opts.BarData{Value: vc.Count}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title, "", color)...)
	bar.SetXAxis(x).AddSeries(series, y)
	return bar
}

func customChart(ds *dataset.Dataset, spec ChartSpec, color string) (components.Charter, error) {
	if ds == nil {
		return nil, errors.New("custom chart needs the dataset")
	}
	if spec.Color != "" {
		color = spec.Color
	}
	title := spec.Title
	if title == "" {
		title = DefaultChartTitle
	}
	required := []string{spec.Y}
	if spec.X != "" {
		required = append(required, spec.X)
	}
	if err := analysis.ValidateColumns(ds.Header(), required); err != nil {
		return nil, err
	}

	switch spec.Type {
	case "pie":
		counts := analysis.CountValues(ds, spec.Y)
		if len(counts) == 0 {
			return nil, &analysis.EmptyInputError{ValueColumn: spec.Y}
		}
		data := make([]opts.PieData, len(counts))
		for i, vc := range counts {
			data[i] = opts.PieData{Name: vc.Value, Value: vc.Count}
		}
		pie := charts.NewPie()
		pie.SetGlobalOptions(globalOpts(title, spec.Y, color)...)
		pie.AddSeries(spec.Y, data).SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {d}%"}),
		)
		return pie, nil
	case "histogram":
		vals := numbers(ds, spec.Y)
		if len(vals) == 0 {
			return nil, &analysis.TypeMismatchError{Column: spec.Y, Want: dataset.KindNumeric}
		}
		labels, counts := histogram(vals, histogramBins)
		y := make([]opts.BarData, len(counts))
		for i, c := range counts {
			y[i] = opts.BarData{Value: c}
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(globalOpts(title, spec.Y, color)...)
		bar.SetXAxis(labels).AddSeries(spec.Y, y)
		return bar, nil
	case "box":
		names, boxes := boxGroups(ds, spec.X, spec.Y)
		if len(boxes) == 0 {
			return nil, &analysis.TypeMismatchError{Column: spec.Y, Want: dataset.KindNumeric}
		}
		box := charts.NewBoxPlot()
		box.SetGlobalOptions(globalOpts(title, spec.Y, color)...)
		box.SetXAxis(names).AddSeries(spec.Y, boxes)
		return box, nil
	}

	xs, ys := pairs(ds, spec.X, spec.Y)
	if len(ys) == 0 {
		return nil, &analysis.TypeMismatchError{Column: spec.Y, Want: dataset.KindNumeric}
	}
	if spec.Type == "line" {
		data := make([]opts.LineData, len(ys))
		for i, v := range ys {
			data[i] = opts.LineData{Value: v}
		}
		line := charts.NewLine()
		line.SetGlobalOptions(globalOpts(title, spec.Y+" by "+spec.X, color)...)
		line.SetXAxis(xs).AddSeries(spec.Y, data)
		return line, nil
	}
	data := make([]opts.BarData, len(ys))
	for i, v := range ys {
		data[i] = opts.BarData{Value: v}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(title, spec.Y+" by "+spec.X, color)...)
	bar.SetXAxis(xs).AddSeries(spec.Y, data)
	return bar, nil
}

func numbers(ds *dataset.Dataset, col string) []float64 {
	cells, _ := ds.Column(col)
	var out []float64
	for _, c := range cells {
		if v, ok := ds.Number(c); ok {
			out = append(out, v)
		}
	}
	return out
}

// pairs returns the raw x label and numeric y of every row whose y parses.
func pairs(ds *dataset.Dataset, xCol, yCol string) ([]string, []float64) {
	xs, _ := ds.Column(xCol)
	ys, _ := ds.Column(yCol)
	var labels []string
	var vals []float64
	for i := range ys {
		v, ok := ds.Number(ys[i])
		if !ok {
			continue
		}
		labels = append(labels, strings.TrimSpace(xs[i]))
		vals = append(vals, v)
	}
	return labels, vals
}

// histogram splits vals into equal-width bins over [min, max]. A constant
// sample is centred in a unit-wide range.
func histogram(vals []float64, bins int) ([]string, []float64) {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// the top divider is exclusive; nudge it so the maximum lands in the last bin
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.4g", dividers[i])
	}
	return labels, counts
}

// boxGroups builds one five-number summary of y per distinct x value, in
// ascending x order. With no x column the whole column is one box.
func boxGroups(ds *dataset.Dataset, xCol, yCol string) ([]string, []opts.BoxPlotData) {
	groups := map[string][]float64{}
	if xCol == "" {
		if vals := numbers(ds, yCol); len(vals) > 0 {
			groups[yCol] = vals
		}
	} else {
		xs, _ := ds.Column(xCol)
		ys, _ := ds.Column(yCol)
		for i := range ys {
			if dataset.IsMissing(xs[i]) {
				continue
			}
			if v, ok := ds.Number(ys[i]); ok {
				k := strings.TrimSpace(xs[i])
				groups[k] = append(groups[k], v)
			}
		}
	}
	names := make([]string, 0, len(groups))
	for k := range groups {
		names = append(names, k)
	}
	sort.Strings(names)
	boxes := make([]opts.BoxPlotData, len(names))
	for i, k := range names {
		v := groups[k]
		sort.Float64s(v)
		boxes[i] = opts.BoxPlotData{Name: k, Value: []float64{
			v[0], analysis.Quantile(v, 0.25), analysis.Quantile(v, 0.5), analysis.Quantile(v, 0.75), v[len(v)-1],
		}}
	}
	return names, boxes
}
