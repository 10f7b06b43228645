package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/vaxkpi-cli/internal/config"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	"github.com/KaramelBytes/vaxkpi-cli/internal/render"
	"github.com/KaramelBytes/vaxkpi-cli/internal/utils"
)

// currentConfig returns the loaded config, or an empty one when loading failed.
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return &cfgpkg.Global{}
	}
	return cfg
}

func newEngine() *analysis.Engine {
	return analysis.NewEngine(analysis.WithLogger(logger))
}

// loadFlags override the loading keys of the config file.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	dayFirst   bool
	maxRows    int
	sheetName  string
	sheetIndex int
}

func (l *loadFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto-detect if omitted)")
	fs.StringVar(&l.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&l.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.BoolVar(&l.dayFirst, "day-first", false, "read ambiguous dates such as 02/01/2024 as day first")
	fs.IntVar(&l.maxRows, "max-rows", 0, "maximum rows to load (default from config: 100000)")
	fs.StringVar(&l.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&l.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// options starts from the configured loading options and applies the flags
// that were set explicitly.
func (l *loadFlags) options(fs *pflag.FlagSet) (dataset.Options, error) {
	opt, err := currentConfig().DatasetOptions()
	if err != nil {
		return opt, fmt.Errorf("config: %w", err)
	}
	if fs.Changed("delimiter") {
		if opt.Delimiter, err = cfgpkg.ParseDelimiter(l.delimiter); err != nil {
			return opt, fmt.Errorf("--delimiter: %w", err)
		}
	}
	if fs.Changed("decimal") {
		if opt.DecimalSeparator, err = cfgpkg.ParseDecimal(l.decimal); err != nil {
			return opt, fmt.Errorf("--decimal: %w", err)
		}
	}
	if fs.Changed("thousands") {
		if opt.ThousandsSeparator, err = cfgpkg.ParseThousands(l.thousands); err != nil {
			return opt, fmt.Errorf("--thousands: %w", err)
		}
	}
	if fs.Changed("day-first") {
		opt.DayFirst = l.dayFirst
	}
	if fs.Changed("max-rows") {
		if l.maxRows < 0 {
			return opt, fmt.Errorf("--max-rows must be >= 0")
		}
		opt.MaxRows = l.maxRows
	}
	if fs.Changed("sheet-name") {
		opt.SheetName = l.sheetName
	}
	if fs.Changed("sheet-index") {
		if l.sheetIndex < 1 {
			return opt, fmt.Errorf("--sheet-index is 1-based")
		}
		opt.SheetIndex = l.sheetIndex
	}
	return opt, nil
}

// requestFlags build the analysis request; unset kinds and frequency come
// from the config defaults.
type requestFlags struct {
	kinds    []string
	columns  []string
	timeCol  string
	valueCol string
	freq     string
	kpiCol   string
}

func (r *requestFlags) bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&r.kinds, "kind", "k", nil, "analysis kinds: summary|statistical_measures|trends|gaps|kpis|vaccination|all (repeatable)")
	fs.StringSliceVar(&r.columns, "columns", nil, "comma-separated columns to analyze (default: all)")
	fs.StringVar(&r.timeCol, "time-col", "", "trends: time column (default: first date column)")
	fs.StringVar(&r.valueCol, "value-col", "", "trends: value column (default: first numeric column)")
	fs.StringVar(&r.freq, "freq", "", "trends: weekly|monthly|quarterly|yearly (or W|M|Q|Y)")
	fs.StringVar(&r.kpiCol, "kpi-col", "", "kpis: column to summarize (default: first numeric column)")
}

func (r *requestFlags) request() (analysis.Request, error) {
	c := currentConfig()
	names := r.kinds
	if len(names) == 0 {
		names = c.DefaultKinds
	}
	var kinds []analysis.Kind
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), "all") {
			kinds = append(kinds, analysis.AllKinds...)
			continue
		}
		kinds = append(kinds, analysis.Kind(n))
	}
	if len(kinds) == 0 {
		kinds = analysis.AllKinds
	}
	freq := r.freq
	if freq == "" {
		freq = c.DefaultFrequency
	}
	req := analysis.Request{
		Kinds:   kinds,
		Columns: r.columns,
		Trend: analysis.TrendRequest{
			TimeColumn:  r.timeCol,
			ValueColumn: r.valueCol,
			Frequency:   analysis.Frequency(freq),
		},
		KPIColumn: r.kpiCol,
	}
	return req.Normalize()
}

// chartFlags describe the optional custom chart.
type chartFlags struct {
	chartType string
	x         string
	y         string
	title     string
	color     string
}

func (c *chartFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&c.chartType, "chart-type", "", "custom chart: bar|line|box|histogram|pie")
	fs.StringVar(&c.x, "x", "", "custom chart: x column (bar, line, box)")
	fs.StringVar(&c.y, "y", "", "custom chart: y column")
	fs.StringVar(&c.title, "title", "", "custom chart: title")
	fs.StringVar(&c.color, "color", "", "custom chart: hex color, e.g. #008B8B")
}

func (c *chartFlags) spec() *render.ChartSpec {
	if c.chartType == "" {
		return nil
	}
	return &render.ChartSpec{Type: c.chartType, X: c.x, Y: c.y, Title: c.title, Color: c.color}
}

func outputFormat(flag string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		f = currentConfig().OutputFormat
	}
	switch f {
	case "", "markdown", "md":
		return "markdown", nil
	case "json", "table":
		return f, nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json|table)", flag)
}

// renderResult formats a result for printing or writing to disk.
func renderResult(res *analysis.Result, format string, noColor bool) ([]byte, error) {
	switch format {
	case "json":
		return utils.PrettyJSON(res)
	case "table":
		var buf bytes.Buffer
		if err := render.Table(&buf, res, render.TableOptions{NoColor: noColor}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return []byte(res.Markdown()), nil
}
