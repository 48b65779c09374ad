// Package pca provides Principal Component Analysis over standardized
// feature matrices.
//
// The decomposition is an SVD of the centered data: X = U * S * V^T. The
// columns of V are the principal axes and S^2 / sum(S^2) is the explained
// variance ratio of each axis.
package pca

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// varianceTolerance absorbs rounding when comparing cumulative ratios to a threshold.
const varianceTolerance = 1e-9

// Model is a full-rank PCA fit. Components are ordered by descending variance.
type Model struct {
	// Mean is the per-feature mean of the training data.
	Mean []float64
	// Axes holds one unit principal axis per row (available x features).
	Axes [][]float64
	// ExplainedVarianceRatio holds the variance fraction of each axis.
	ExplainedVarianceRatio []float64
}

// Fit computes every available principal component of rows.
// The number of available components is min(rows, features).
func Fit(rows [][]float64) (*Model, error) {
	n := len(rows)
	if n == 0 {
		return nil, errors.New("pca: no rows provided")
	}
	d := len(rows[0])
	if d == 0 {
		return &Model{}, nil
	}

	mean := make([]float64, d)
	for _, r := range rows {
		if len(r) != d {
			return nil, fmt.Errorf("pca: inconsistent row width: expected %d, got %d", d, len(r))
		}
		for j, v := range r {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}

	data := mat.NewDense(n, d, nil)
	for i, r := range rows {
		for j, v := range r {
			data.Set(i, j, v-mean[j])
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(data, mat.SVDThin); !ok {
		return nil, errors.New("pca: SVD factorization failed")
	}
	sv := svd.Values(nil)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var total float64
	for _, s := range sv {
		total += s * s
	}

	r := len(sv)
	m := &Model{
		Mean:                   mean,
		Axes:                   make([][]float64, r),
		ExplainedVarianceRatio: make([]float64, r),
	}
	for c := 0; c < r; c++ {
		axis := mat.Col(nil, c, &v)
		// Sign convention: the largest-magnitude score of each component is positive.
		if dominantSign(mat.Col(nil, c, &u)) < 0 {
			for j := range axis {
				axis[j] = -axis[j]
			}
		}
		m.Axes[c] = axis
		if total > 0 {
			m.ExplainedVarianceRatio[c] = sv[c] * sv[c] / total
		}
	}
	return m, nil
}

// Available returns the number of components the fit can project onto.
func (m *Model) Available() int { return len(m.Axes) }

// ComponentsFor returns the smallest component count whose cumulative
// explained variance reaches threshold. When no prefix reaches it (for
// example when every feature is constant), all available components are used.
func (m *Model) ComponentsFor(threshold float64) int {
	var cum float64
	for i, r := range m.ExplainedVarianceRatio {
		cum += r
		if cum+varianceTolerance >= threshold {
			return i + 1
		}
	}
	return m.Available()
}

// Ratios returns the explained variance ratios of the first k components.
func (m *Model) Ratios(k int) []float64 {
	out := make([]float64, k)
	copy(out, m.ExplainedVarianceRatio[:k])
	return out
}

// Transform projects rows onto the first k components.
func (m *Model) Transform(rows [][]float64, k int) ([][]float64, error) {
	if k < 0 || k > m.Available() {
		return nil, fmt.Errorf("pca: k must be in [0, %d], got %d", m.Available(), k)
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if len(r) != len(m.Mean) {
			return nil, fmt.Errorf("pca: expected dimension %d, got %d", len(m.Mean), len(r))
		}
		proj := make([]float64, k)
		for c := 0; c < k; c++ {
			var sum float64
			for j, x := range r {
				sum += (x - m.Mean[j]) * m.Axes[c][j]
			}
			proj[c] = sum
		}
		out[i] = proj
	}
	return out, nil
}

// Cumulative returns the running sum of ratios.
func Cumulative(ratios []float64) []float64 {
	out := make([]float64, len(ratios))
	var cum float64
	for i, r := range ratios {
		cum += r
		out[i] = cum
	}
	return out
}

func dominantSign(scores []float64) float64 {
	best, sign := -1.0, 1.0
	for _, s := range scores {
		if a := math.Abs(s); a > best {
			best = a
			sign = 1
			if s < 0 {
				sign = -1
			}
		}
	}
	return sign
}
