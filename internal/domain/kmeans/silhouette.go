package kmeans

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Silhouette returns the mean silhouette coefficient of a labeling, in [-1, 1].
// It is 0 when fewer than two distinct labels are present. Points in a
// singleton cluster contribute 0.
func Silhouette(data [][]float64, labels []int) float64 {
	n := len(data)
	if n == 0 || len(labels) != n {
		return 0
	}
	sizes := make(map[int]int)
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 {
		return 0
	}

	var total float64
	sums := make(map[int]float64, len(sizes))
	for i := 0; i < n; i++ {
		clear(sums)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sums[labels[j]] += floats.Distance(data[i], data[j], 2)
		}
		own := labels[i]
		if sizes[own] <= 1 {
			continue
		}
		a := sums[own] / float64(sizes[own]-1)
		b := math.Inf(1)
		for l, size := range sizes {
			if l == own {
				continue
			}
			if m := sums[l] / float64(size); m < b {
				b = m
			}
		}
		if den := math.Max(a, b); den > 0 {
			total += (b - a) / den
		}
	}
	return total / float64(n)
}
