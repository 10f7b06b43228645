package analysis

import (
	"strings"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// VaccinationBreakdown counts vaccinated rows by type and by region.
type VaccinationBreakdown struct {
	Total      int          `json:"total"`
	Vaccinated int          `json:"vaccinated"`
	ByType     []ValueCount `json:"by_type"`
	ByRegion   []ValueCount `json:"by_region"`
}

// Rate is the vaccinated share of all rows, or 0 for an empty dataset.
func (b *VaccinationBreakdown) Rate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Vaccinated) / float64(b.Total)
}

// BreakdownVaccinations requires the VaccinationType, Region and IsVaccinated
// columns. Only rows with a truthy IsVaccinated are counted; missing type or
// region cells are left out of their table.
func BreakdownVaccinations(ds *dataset.Dataset) (*VaccinationBreakdown, error) {
	if err := ValidateColumns(ds.Header(), VaccinationColumns); err != nil {
		return nil, err
	}
	types, _ := ds.Column(VaccinationColumns[0])
	regions, _ := ds.Column(VaccinationColumns[1])
	flags, _ := ds.Column(VaccinationColumns[2])

	b := &VaccinationBreakdown{Total: ds.Len()}
	byType := map[string]int{}
	byRegion := map[string]int{}
	for i := range flags {
		if !dataset.ParseBool(flags[i]) {
			continue
		}
		b.Vaccinated++
		if !dataset.IsMissing(types[i]) {
			byType[strings.TrimSpace(types[i])]++
		}
		if !dataset.IsMissing(regions[i]) {
			byRegion[strings.TrimSpace(regions[i])]++
		}
	}
	b.ByType = sortedCounts(byType)
	b.ByRegion = sortedCounts(byRegion)
	return b, nil
}
