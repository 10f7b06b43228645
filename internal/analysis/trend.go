package analysis

// Direction is the categorical outcome of trend classification.
type Direction string

const (
	Increasing   Direction = "increasing"
	Decreasing   Direction = "decreasing"
	Fluctuating  Direction = "fluctuating"
	Insufficient Direction = "insufficient"
)

// TrendVerdict is a direction plus the number of points it was judged on.
type TrendVerdict struct {
	Direction Direction `json:"direction"`
	Points    int       `json:"points"`
}

// ClassifyTrend labels a series strictly monotonic up, strictly monotonic
// down, or fluctuating. Fewer than three points are insufficient. A single
// reversal or repeated value makes the series fluctuating.
func ClassifyTrend(values []float64) TrendVerdict {
	v := TrendVerdict{Points: len(values)}
	if len(values) < 3 {
		v.Direction = Insufficient
		return v
	}
	up, down := true, true
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			up = false
		}
		if values[i] >= values[i-1] {
			down = false
		}
	}
	switch {
	case up:
		v.Direction = Increasing
	case down:
		v.Direction = Decreasing
	default:
		v.Direction = Fluctuating
	}
	return v
}
