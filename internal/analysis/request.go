package analysis

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind names one analysis an AnalysisRequest can ask for.
type Kind string

const (
	KindSummary             Kind = "summary"
	KindStatisticalMeasures Kind = "statistical_measures"
	KindTrends              Kind = "trends"
	KindGaps                Kind = "gaps"
	KindKPIs                Kind = "kpis"
	KindVaccination         Kind = "vaccination"
)

// AllKinds lists every supported kind in canonical order.
var AllKinds = []Kind{KindSummary, KindStatisticalMeasures, KindTrends, KindGaps, KindKPIs, KindVaccination}

// ParseKind accepts canonical names and common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "-", "_"))) {
	case "summary", "describe":
		return KindSummary, nil
	case "statistical_measures", "stats", "statistics", "measures":
		return KindStatisticalMeasures, nil
	case "trends", "trend":
		return KindTrends, nil
	case "gaps", "gap", "missing":
		return KindGaps, nil
	case "kpis", "kpi":
		return KindKPIs, nil
	case "vaccination", "vaccinations", "vax":
		return KindVaccination, nil
	}
	return "", fmt.Errorf("%w: unknown analysis kind %q", ErrInvalidRequest, s)
}

// Frequency is the calendar bucket size used by the resampler.
type Frequency string

const (
	Weekly    Frequency = "W"
	Monthly   Frequency = "M"
	Quarterly Frequency = "Q"
	Yearly    Frequency = "Y"
)

// ParseFrequency accepts codes (W, M, Q, Y) and names (weekly, monthly, ...).
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "week", "weekly":
		return Weekly, nil
	case "m", "month", "monthly":
		return Monthly, nil
	case "q", "quarter", "quarterly":
		return Quarterly, nil
	case "y", "a", "year", "yearly", "annual":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q (use weekly|monthly|quarterly|yearly)", ErrInvalidRequest, s)
}

// Label returns the human name of the frequency.
func (f Frequency) Label() string {
	switch f {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	}
	return string(f)
}

// TrendRequest selects the columns and bucket size for the Trends kind.
// Empty columns are picked from the dataset: first temporal, first numeric.
type TrendRequest struct {
	TimeColumn  string    `json:"time_column,omitempty"`
	ValueColumn string    `json:"value_column,omitempty"`
	Frequency   Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=W M Q Y"`
}

// Request is the explicit, immutable description of what to analyze.
type Request struct {
	Kinds     []Kind       `json:"kinds" validate:"required,min=1,dive,oneof=summary statistical_measures trends gaps kpis vaccination"`
	Columns   []string     `json:"columns,omitempty" validate:"dive,required"`
	Trend     TrendRequest `json:"trend"`
	KPIColumn string       `json:"kpi_column,omitempty"`
}

// Has reports whether the request asks for kind k.
func (r Request) Has(k Kind) bool {
	for _, x := range r.Kinds {
		if x == k {
			return true
		}
	}
	return false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize returns a canonical copy of the request: kind aliases and
// frequency names resolved, duplicate kinds and columns removed with order
// kept, and the frequency defaulted to monthly. The result is validated.
func (r Request) Normalize() (Request, error) {
	out := Request{
		Trend:     r.Trend,
		KPIColumn: strings.TrimSpace(r.KPIColumn),
	}
	seenKind := map[Kind]bool{}
	for _, k := range r.Kinds {
		ck, err := ParseKind(string(k))
		if err != nil {
			return Request{}, err
		}
		if seenKind[ck] {
			continue
		}
		seenKind[ck] = true
		out.Kinds = append(out.Kinds, ck)
	}
	out.Columns = uniqueColumns(r.Columns)
	out.Trend.TimeColumn = strings.TrimSpace(r.Trend.TimeColumn)
	out.Trend.ValueColumn = strings.TrimSpace(r.Trend.ValueColumn)
	if r.Trend.Frequency == "" {
		out.Trend.Frequency = Monthly
	} else {
		f, err := ParseFrequency(string(r.Trend.Frequency))
		if err != nil {
			return Request{}, err
		}
		out.Trend.Frequency = f
	}
	if err := out.Validate(); err != nil {
		return Request{}, err
	}
	return out, nil
}

// Validate checks the request's struct constraints.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func uniqueColumns(cols []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
