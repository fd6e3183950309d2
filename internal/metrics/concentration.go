package metrics

import "math"

// ConcentrationRatio returns round(max/sum*100). Negative contributions count
// as zero so the result stays within [0, 100]; an empty or zero-sum set yields 0.
func ConcentrationRatio(values []float64) int {
	var sum, top float64
	for _, v := range values {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		if v > top {
			top = v
		}
	}
	if sum == 0 {
		return 0
	}
	return int(math.Round(top / sum * 100))
}
