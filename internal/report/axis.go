package report

import "math"

// defaultAxisDomain is returned when a series carries no finite values.
var defaultAxisDomain = [2]int{0, 10}

// AxisDomain computes padded integer chart bounds for a numeric series.
// Non-finite values are ignored. The upper bound always exceeds the lower
// bound, and a constant series is padded symmetrically so the bar stays
// strictly inside the window.
func AxisDomain(values []float64) [2]int {
	finite := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return defaultAxisDomain
	}

	min, max := finite[0], finite[0]
	for _, v := range finite[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		pad := math.Max(1, math.Ceil(math.Abs(max)*0.1))
		return [2]int{int(math.Floor(min - pad)), int(math.Ceil(max + pad))}
	}

	pad := math.Max(1, math.Ceil((max-min)*0.1))
	return [2]int{int(math.Floor(min - pad)), int(math.Ceil(max + pad))}
}

// CurrentValues projects the series the counting axis actually plots.
func CurrentValues(records []NormalizedPeriodRecord) []float64 {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.Current)
	}
	return values
}
