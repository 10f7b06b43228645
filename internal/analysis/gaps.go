package analysis

import "github.com/KaramelBytes/vaxkpi-cli/internal/dataset"

// GapCount is the number of missing cells in one column.
type GapCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// CountGaps returns missing-value counts for the given columns in order.
func CountGaps(ds *dataset.Dataset, columns []string) []GapCount {
	cols := uniqueColumns(columns)
	out := make([]GapCount, 0, len(cols))
	for _, col := range cols {
		cells, _ := ds.Column(col)
		g := GapCount{Column: col}
		for _, c := range cells {
			if dataset.IsMissing(c) {
				g.Missing++
			}
		}
		out = append(out, g)
	}
	return out
}
