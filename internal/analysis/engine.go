package analysis

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// Status is the outcome of one analysis kind.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// TrendResult is the Trends payload.
type TrendResult struct {
	Series  *AggregatedSeries `json:"series"`
	Verdict TrendVerdict      `json:"verdict"`
}

// KindResult is the outcome of one requested kind: a payload on success or a
// recorded failure. Warnings note columns that were excluded along the way.
type KindResult struct {
	Kind        Kind         `json:"kind"`
	Status      Status       `json:"status"`
	ErrorKind   ErrorKind    `json:"error_kind,omitempty"`
	Error       string       `json:"error,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`

	Summary     []SummaryRow          `json:"summary,omitempty"`
	Statistics  []ColumnStatistics    `json:"statistics,omitempty"`
	Trend       *TrendResult          `json:"trend,omitempty"`
	Gaps        []GapCount            `json:"gaps,omitempty"`
	KPI         *KPISummary           `json:"kpi,omitempty"`
	Vaccination *VaccinationBreakdown `json:"vaccination,omitempty"`
}

// OK reports whether the kind produced a payload.
func (kr *KindResult) OK() bool { return kr != nil && kr.Status == StatusOK }

// Result bundles every requested kind's outcome.
type Result struct {
	Dataset  string               `json:"dataset"`
	Rows     int                  `json:"rows"`
	Columns  []string             `json:"columns"`
	Kinds    []Kind               `json:"kinds"`
	Warnings []string             `json:"warnings,omitempty"`
	Results  map[Kind]*KindResult `json:"results"`
}

// Ordered returns the kind results in request order.
func (r *Result) Ordered() []*KindResult {
	out := make([]*KindResult, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		if kr := r.Results[k]; kr != nil {
			out = append(out, kr)
		}
	}
	return out
}

// Failed counts kinds that did not produce a payload.
func (r *Result) Failed() int {
	n := 0
	for _, kr := range r.Results {
		if !kr.OK() {
			n++
		}
	}
	return n
}

// Suggestions concatenates suggestions across kinds in request order.
func (r *Result) Suggestions() []Suggestion {
	var out []Suggestion
	for _, kr := range r.Ordered() {
		out = append(out, kr.Suggestions...)
	}
	return out
}

// Engine runs analysis requests. It holds no per-request state, so one Engine
// may serve concurrent callers.
type Engine struct {
	log *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-kind diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns an Engine. Without WithLogger it logs nowhere.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Run executes every kind in the request against ds. An invalid request is
// returned as an error before anything runs; failures inside a kind are
// recorded in its KindResult and never abort the others.
func (e *Engine) Run(ds *dataset.Dataset, req Request) (*Result, error) {
	if ds == nil {
		return nil, errors.New("analysis: nil dataset")
	}
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	cols := req.Columns
	if len(cols) == 0 {
		cols = ds.Header()
	}
	res := &Result{
		Dataset:  ds.Name(),
		Rows:     ds.Len(),
		Columns:  cols,
		Kinds:    req.Kinds,
		Warnings: ds.Warnings(),
		Results:  make(map[Kind]*KindResult, len(req.Kinds)),
	}
	for _, k := range req.Kinds {
		start := time.Now()
		kr := e.runKind(ds, req, cols, k)
		res.Results[k] = kr
		if kr.OK() {
			e.log.Debug("analysis kind finished", "dataset", ds.Name(), "kind", k, "took", time.Since(start))
		} else {
			e.log.Warn("analysis kind failed", "dataset", ds.Name(), "kind", k, "error_kind", kr.ErrorKind, "error", kr.Error)
		}
	}
	return res, nil
}

func (e *Engine) runKind(ds *dataset.Dataset, req Request, cols []string, k Kind) (kr *KindResult) {
	kr = &KindResult{Kind: k, Status: StatusOK}
	defer func() {
		if v := recover(); v != nil {
			kr = &KindResult{Kind: k}
			kr.fail(&internalError{v: v})
		}
	}()
	var err error
	switch k {
	case KindSummary:
		err = runSummary(ds, cols, kr)
	case KindStatisticalMeasures:
		err = runStatistics(ds, cols, kr)
	case KindTrends:
		err = runTrends(ds, req.Trend, kr)
	case KindGaps:
		err = runGaps(ds, cols, kr)
	case KindKPIs:
		err = runKPI(ds, cols, req.KPIColumn, kr)
	case KindVaccination:
		err = runVaccination(ds, kr)
	default:
		err = &internalError{v: "unhandled kind " + string(k)}
	}
	if err != nil {
		kr.fail(err)
	}
	return kr
}

func (kr *KindResult) fail(err error) {
	kr.Status = StatusFailed
	kr.ErrorKind = ErrorKindOf(err)
	kr.Error = err.Error()
	kr.Summary, kr.Statistics, kr.Trend, kr.Gaps, kr.KPI, kr.Vaccination = nil, nil, nil, nil, nil, nil
	kr.Suggestions = nil
}

func runSummary(ds *dataset.Dataset, cols []string, kr *KindResult) error {
	if err := ValidateColumns(ds.Header(), cols); err != nil {
		return err
	}
	kr.Summary = Summarize(ds, cols)
	for _, row := range kr.Summary {
		if s, ok := DispersionSuggestion(row.Column, row.Mean, row.Std); ok {
			kr.Suggestions = append(kr.Suggestions, s)
		}
	}
	return nil
}

func runStatistics(ds *dataset.Dataset, cols []string, kr *KindResult) error {
	if err := ValidateColumns(ds.Header(), cols); err != nil {
		return err
	}
	stats, mismatches, notes := ComputeStatistics(ds, cols)
	for _, m := range mismatches {
		kr.Warnings = append(kr.Warnings, m.Error())
	}
	kr.Warnings = append(kr.Warnings, notes...)
	kr.Statistics = stats
	kr.Suggestions = DispersionSuggestions(stats)
	return nil
}

func runTrends(ds *dataset.Dataset, tr TrendRequest, kr *KindResult) error {
	timeCol, valueCol, err := resolveTrendColumns(ds, tr)
	if err != nil {
		return err
	}
	series, err := Resample(ds, timeCol, valueCol, tr.Frequency)
	if err != nil {
		return err
	}
	if series.Dropped > 0 {
		kr.Warnings = append(kr.Warnings, droppedWarning(series))
	}
	verdict := ClassifyTrend(series.Values())
	kr.Trend = &TrendResult{Series: series, Verdict: verdict}
	kr.Suggestions = []Suggestion{TrendSuggestion(valueCol, tr.Frequency, verdict)}
	return nil
}

func runGaps(ds *dataset.Dataset, cols []string, kr *KindResult) error {
	if err := ValidateColumns(ds.Header(), cols); err != nil {
		return err
	}
	kr.Gaps = CountGaps(ds, cols)
	kr.Suggestions = GapSuggestions(kr.Gaps)
	return nil
}

func runKPI(ds *dataset.Dataset, cols []string, column string, kr *KindResult) error {
	if column == "" {
		if err := ValidateColumns(ds.Header(), cols); err != nil {
			return err
		}
		c, ok := pickKPIColumn(ds, cols)
		if !ok {
			return &TypeMismatchError{Want: dataset.KindNumeric}
		}
		column = c
	}
	kpi, err := ComputeKPI(ds, column)
	if err != nil {
		return err
	}
	kr.KPI = kpi
	kr.Suggestions = []Suggestion{KPISuggestion(column)}
	return nil
}

func runVaccination(ds *dataset.Dataset, kr *KindResult) error {
	b, err := BreakdownVaccinations(ds)
	if err != nil {
		return err
	}
	kr.Vaccination = b
	if b.Vaccinated == 0 {
		kr.Warnings = append(kr.Warnings, "no rows have a truthy IsVaccinated value")
	}
	return nil
}
