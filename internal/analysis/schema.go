package analysis

import (
	"fmt"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// VaccinationColumns is the fixed triple the vaccination breakdown needs.
var VaccinationColumns = []string{"VaccinationType", "Region", "IsVaccinated"}

// ValidateColumns checks that every required name is among the available
// columns. Missing names are reported in the order they were required.
func ValidateColumns(available, required []string) error {
	have := make(map[string]struct{}, len(available))
	for _, c := range available {
		have[c] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := have[r]; !ok {
			missing = append(missing, r)
		}
	}
	if len(missing) > 0 {
		return &SchemaMismatchError{Missing: missing}
	}
	return nil
}

// firstOfKind returns the first column of kind k that is not in skip.
func firstOfKind(ds *dataset.Dataset, k dataset.Kind, skip ...string) (string, bool) {
outer:
	for _, c := range ds.ColumnsOfKind(k) {
		for _, s := range skip {
			if c == s {
				continue outer
			}
		}
		return c, true
	}
	return "", false
}

// resolveTrendColumns validates explicit trend columns or picks defaults.
func resolveTrendColumns(ds *dataset.Dataset, tr TrendRequest) (timeCol, valueCol string, err error) {
	var explicit []string
	if tr.TimeColumn != "" {
		explicit = append(explicit, tr.TimeColumn)
	}
	if tr.ValueColumn != "" {
		explicit = append(explicit, tr.ValueColumn)
	}
	if err := ValidateColumns(ds.Header(), explicit); err != nil {
		return "", "", err
	}
	timeCol, valueCol = tr.TimeColumn, tr.ValueColumn
	if timeCol == "" {
		c, ok := firstOfKind(ds, dataset.KindTemporal, valueCol)
		if !ok {
			return "", "", &SchemaMismatchError{Detail: "trends need a temporal column and none was found"}
		}
		timeCol = c
	}
	if valueCol == "" {
		c, ok := firstOfKind(ds, dataset.KindNumeric, timeCol)
		if !ok {
			return "", "", &SchemaMismatchError{Detail: "trends need a numeric column and none was found"}
		}
		valueCol = c
	}
	if timeCol == valueCol {
		return "", "", &SchemaMismatchError{Detail: fmt.Sprintf("time and value column are both %q", timeCol)}
	}
	return timeCol, valueCol, nil
}
