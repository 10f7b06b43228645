package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the semantic type inferred for a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
	KindTemporal    Kind = "temporal"
	KindUnknown     Kind = "unknown"
)

// Options controls how a file is read into a Dataset.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// Numeric parsing locale. Zero runes auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// DayFirst reads 02/01/2024 as 2 January.
	DayFirst bool
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultOptions returns reasonable defaults for loading a dataset.
func DefaultOptions() Options {
	return Options{MaxRows: 100000, SheetIndex: 1}
}

// ColumnInfo describes one column of a Dataset.
type ColumnInfo struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	NonNull int    `json:"non_null"`
	Missing int    `json:"missing"`
}

// Dataset is an immutable in-memory table of raw string cells. Accessors hand
// out copies, so callers cannot alter the loaded data.
type Dataset struct {
	name     string
	header   []string
	rows     [][]string
	kinds    []Kind
	index    map[string]int
	numbers  NumberFormat
	dayFirst bool
	warnings []string
}

// New builds a Dataset from a header and rows. Header names are trimmed, blank
// names become "Unnamed: i" and duplicates get ".1", ".2" suffixes. Rows are
// copied and padded or truncated to the header width.
func New(name string, header []string, rows [][]string, opt Options) *Dataset {
	ds := &Dataset{
		name:     name,
		index:    make(map[string]int, len(header)),
		numbers:  NumberFormat{Decimal: opt.DecimalSeparator, Thousands: opt.ThousandsSeparator},
		dayFirst: opt.DayFirst,
	}
	ds.header = dedupeHeader(header)
	for i, h := range ds.header {
		ds.index[h] = i
	}
	ncol := len(ds.header)
	ds.rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		cp := make([]string, ncol)
		copy(cp, r)
		ds.rows = append(ds.rows, cp)
	}
	ds.kinds = make([]Kind, ncol)
	for j := range ds.header {
		ds.kinds[j] = ds.inferKind(j)
	}
	return ds
}

func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// inferKind decides a column's kind by predominant parsed type.
func (ds *Dataset) inferKind(j int) Kind {
	var numCnt, dtCnt, txtCnt int
	for _, r := range ds.rows {
		v := strings.TrimSpace(r[j])
		if IsMissing(v) {
			continue
		}
		if isBoolLike(v) {
			txtCnt++
			continue
		}
		if _, ok := ParseNumber(v, ds.numbers); ok {
			numCnt++
			continue
		}
		if _, ok := ParseTime(v, ds.dayFirst); ok {
			dtCnt++
			continue
		}
		txtCnt++
	}
	switch {
	case numCnt > 0 && numCnt >= dtCnt && numCnt >= txtCnt:
		return KindNumeric
	case dtCnt > 0 && dtCnt >= txtCnt:
		return KindTemporal
	case txtCnt > 0:
		return KindCategorical
	}
	return KindUnknown
}

// Name returns the dataset's display name, usually the file base name.
func (ds *Dataset) Name() string { return ds.name }

// Len returns the number of rows.
func (ds *Dataset) Len() int { return len(ds.rows) }

// Header returns a copy of the column names in file order.
func (ds *Dataset) Header() []string {
	out := make([]string, len(ds.header))
	copy(out, ds.header)
	return out
}

// HasColumn reports whether name is a column of the dataset.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Kind returns the inferred kind of a column, or KindUnknown if absent.
func (ds *Dataset) Kind(name string) Kind {
	j, ok := ds.index[name]
	if !ok {
		return KindUnknown
	}
	return ds.kinds[j]
}

// ColumnsOfKind lists column names with the given kind, in file order.
func (ds *Dataset) ColumnsOfKind(k Kind) []string {
	var out []string
	for j, h := range ds.header {
		if ds.kinds[j] == k {
			out = append(out, h)
		}
	}
	return out
}

// Column returns a copy of the raw cells of a column.
func (ds *Dataset) Column(name string) ([]string, bool) {
	j, ok := ds.index[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(ds.rows))
	for i, r := range ds.rows {
		out[i] = r[j]
	}
	return out, true
}

// Columns describes every column in file order.
func (ds *Dataset) Columns() []ColumnInfo {
	out := make([]ColumnInfo, len(ds.header))
	for j, h := range ds.header {
		ci := ColumnInfo{Name: h, Kind: ds.kinds[j]}
		for _, r := range ds.rows {
			if IsMissing(r[j]) {
				ci.Missing++
			} else {
				ci.NonNull++
			}
		}
		out[j] = ci
	}
	return out
}

// Head returns copies of the first n rows.
func (ds *Dataset) Head(n int) [][]string {
	if n > len(ds.rows) {
		n = len(ds.rows)
	}
	out := make([][]string, 0, max(n, 0))
	for i := 0; i < n; i++ {
		cp := make([]string, len(ds.rows[i]))
		copy(cp, ds.rows[i])
		out = append(out, cp)
	}
	return out
}

// Number coerces a raw cell using the dataset's numeric locale.
func (ds *Dataset) Number(s string) (float64, bool) {
	if IsMissing(s) {
		return 0, false
	}
	return ParseNumber(s, ds.numbers)
}

// Time coerces a raw cell to a timestamp using the dataset's date order.
func (ds *Dataset) Time(s string) (time.Time, bool) {
	if IsMissing(s) {
		return time.Time{}, false
	}
	return ParseTime(s, ds.dayFirst)
}

// Warnings returns notes collected while loading, such as row caps.
func (ds *Dataset) Warnings() []string {
	out := make([]string, len(ds.warnings))
	copy(out, ds.warnings)
	return out
}

func (ds *Dataset) addWarning(format string, args ...any) {
	ds.warnings = append(ds.warnings, fmt.Sprintf(format, args...))
}

// Profile is a raw-data preview: inferred column kinds plus the first rows.
type Profile struct {
	Dataset  string       `json:"dataset"`
	Rows     int          `json:"rows"`
	Columns  []ColumnInfo `json:"columns"`
	Header   []string     `json:"header"`
	Preview  [][]string   `json:"preview"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Profile returns the column overview and the first n rows.
func (ds *Dataset) Profile(n int) Profile {
	return Profile{
		Dataset:  ds.name,
		Rows:     len(ds.rows),
		Columns:  ds.Columns(),
		Header:   ds.Header(),
		Preview:  ds.Head(n),
		Warnings: ds.Warnings(),
	}
}
