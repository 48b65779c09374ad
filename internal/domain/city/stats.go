package city

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// PresentMean returns the mean of the non-NaN values in col, or 0 if there
// are none.
func PresentMean(col []float64) float64 {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
