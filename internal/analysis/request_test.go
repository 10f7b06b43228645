package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeResolvesAliases(t *testing.T) {
	req, err := Request{
		Kinds:   []Kind{"stats", "Trend", "statistical_measures", "vax"},
		Columns: []string{" Doses", "Age", "Doses", ""},
		Trend:   TrendRequest{Frequency: "quarterly"},
	}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindStatisticalMeasures, KindTrends, KindVaccination}, req.Kinds)
	assert.Equal(t, []string{"Doses", "Age"}, req.Columns)
	assert.Equal(t, Quarterly, req.Trend.Frequency)
	assert.True(t, req.Has(KindTrends))
	assert.False(t, req.Has(KindGaps))
}

func TestNormalizeDefaultsMonthly(t *testing.T) {
	req, err := Request{Kinds: []Kind{KindTrends}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Monthly, req.Trend.Frequency)
}

func TestNormalizeRejects(t *testing.T) {
	cases := []Request{
		{},
		{Kinds: []Kind{"forecast"}},
		{Kinds: []Kind{KindTrends}, Trend: TrendRequest{Frequency: "daily"}},
	}
	for _, c := range cases {
		_, err := c.Normalize()
		require.Error(t, err, "%+v", c)
		assert.True(t, errors.Is(err, ErrInvalidRequest))
		assert.Equal(t, ErrKindInvalidRequest, ErrorKindOf(err))
	}
}

func TestValidateMessagesUseJSONNames(t *testing.T) {
	err := Request{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kinds is required")
}

func TestParseFrequency(t *testing.T) {
	for in, want := range map[string]Frequency{"W": Weekly, "monthly": Monthly, " Q ": Quarterly, "annual": Yearly} {
		got, err := ParseFrequency(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, "weekly", Weekly.Label())
}
