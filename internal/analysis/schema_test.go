package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateColumnsNamesMissing(t *testing.T) {
	err := ValidateColumns([]string{"A"}, []string{"A", "B"})
	var sm *SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Equal(t, []string{"B"}, sm.Missing)
	assert.Contains(t, err.Error(), "B")
	assert.Equal(t, ErrKindSchemaMismatch, ErrorKindOf(err))

	assert.NoError(t, ValidateColumns([]string{"A", "B"}, []string{"B"}))
	assert.NoError(t, ValidateColumns(nil, nil))
}

func TestValidateVaccinationTriple(t *testing.T) {
	err := ValidateColumns([]string{"Region", "Doses"}, VaccinationColumns)
	var sm *SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Equal(t, []string{"VaccinationType", "IsVaccinated"}, sm.Missing)
}

func TestResolveTrendColumns(t *testing.T) {
	ds := vaxDataset()

	tc, vc, err := resolveTrendColumns(ds, TrendRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Date", tc)
	assert.Equal(t, "Doses", vc)

	_, vc, err = resolveTrendColumns(ds, TrendRequest{ValueColumn: "Age"})
	require.NoError(t, err)
	assert.Equal(t, "Age", vc)

	_, _, err = resolveTrendColumns(ds, TrendRequest{TimeColumn: "When"})
	assert.Equal(t, ErrKindSchemaMismatch, ErrorKindOf(err))

	noDates := newDataset([]string{"N"}, []string{"1"})
	_, _, err = resolveTrendColumns(noDates, TrendRequest{})
	var sm *SchemaMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Contains(t, sm.Detail, "temporal")
}
