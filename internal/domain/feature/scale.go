package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// constantTolerance treats columns whose spread is pure rounding noise as constant.
const constantTolerance = 1e-12

// Scaler holds per-column standardization statistics fitted on one matrix.
// A zero Scale marks a constant column.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes population mean and standard deviation per column.
// Zero-variance columns get scale 0 and standardize to exactly 0.
func FitScaler(rows [][]float64) Scaler {
	if len(rows) == 0 {
		return Scaler{}
	}
	d := len(rows[0])
	s := Scaler{Mean: make([]float64, d), Scale: make([]float64, d)}
	col := make([]float64, len(rows))
	for j := 0; j < d; j++ {
		for i, r := range rows {
			col[i] = r[j]
		}
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		std := math.Sqrt(variance)
		if math.IsNaN(std) || std <= constantTolerance*math.Max(1, math.Abs(mean)) {
			std = 0
		}
		s.Scale[j] = std
	}
	return s
}

// Transform returns a standardized copy of rows.
func (s Scaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		v := make([]float64, len(r))
		for j, x := range r {
			if s.Scale[j] == 0 {
				continue
			}
			v[j] = (x - s.Mean[j]) / s.Scale[j]
		}
		out[i] = v
	}
	return out
}

// Standardize fits a fresh scaler on rows and returns the standardized copy.
func Standardize(rows [][]float64) [][]float64 {
	return FitScaler(rows).Transform(rows)
}
