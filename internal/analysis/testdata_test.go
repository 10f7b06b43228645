package analysis

import "github.com/KaramelBytes/vaxkpi-cli/internal/dataset"

func newDataset(header []string, rows ...[]string) *dataset.Dataset {
	return dataset.New("test.csv", header, rows, dataset.DefaultOptions())
}

// vaxDataset is a small vaccination extract: one unparsable date, one
// non-numeric dose and one missing age.
func vaxDataset() *dataset.Dataset {
	return newDataset(
		[]string{"Date", "Region", "VaccinationType", "IsVaccinated", "Doses", "Age"},
		[]string{"2024-01-05", "North", "Pfizer", "True", "10", "34"},
		[]string{"2024-01-20", "South", "Moderna", "False", "20", ""},
		[]string{"2024-02-10", "North", "Pfizer", "True", "30", "51"},
		[]string{"2024-03-02", "East", "AstraZeneca", "True", "40", "28"},
		[]string{"bad-date", "South", "Pfizer", "True", "x", "60"},
	)
}
