// Package kmeans implements seeded k-means clustering with k-means++
// initialization and multiple restarts, plus the silhouette quality score.
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// DefaultSeed is the seed used when a caller does not supply one.
const DefaultSeed uint64 = 42

// Config holds clustering parameters.
type Config struct {
	// Restarts is the number of independent k-means++ initializations; the
	// run with the lowest inertia wins.
	Restarts int
	// MaxIterations bounds Lloyd iterations per restart.
	MaxIterations int
	// Tolerance is the convergence threshold on squared centroid movement,
	// relative to the mean per-feature variance of the data.
	Tolerance float64
	// Seed makes the whole fit deterministic.
	Seed uint64
}

// DefaultConfig returns the default clustering configuration.
func DefaultConfig() Config {
	return Config{
		Restarts:      10,
		MaxIterations: 300,
		Tolerance:     1e-4,
		Seed:          DefaultSeed,
	}
}

// Result is the outcome of a clustering run.
type Result struct {
	// Labels assigns a cluster in [0, k) to each input row.
	Labels []int
	// Centroids holds one mean vector per cluster.
	Centroids [][]float64
	// Inertia is the within-cluster sum of squared distances.
	Inertia float64
	// Iterations is the Lloyd iteration count of the winning restart.
	Iterations int
}

// Sizes returns the number of rows assigned to each cluster.
func (r Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// Fit clusters data into k groups. It requires 1 <= k <= len(data).
// Identical input, k and config always produce identical labels.
func Fit(data [][]float64, k int, cfg Config) (Result, error) {
	n := len(data)
	if n == 0 {
		return Result{}, errors.New("kmeans: no data")
	}
	if k < 1 || k > n {
		return Result{}, fmt.Errorf("kmeans: k must be in [1, %d], got %d", n, k)
	}
	if cfg.Restarts < 1 {
		cfg.Restarts = 1
	}
	if cfg.MaxIterations < 1 {
		cfg.MaxIterations = 1
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	tol := cfg.Tolerance * meanVariance(data)

	var best Result
	for run := 0; run < cfg.Restarts; run++ {
		res := lloyd(data, initPlusPlus(data, k, rng), cfg.MaxIterations, tol)
		if run == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func lloyd(data, centroids [][]float64, maxIter int, tol float64) Result {
	labels := make([]int, len(data))
	iter := 0
	for iter < maxIter {
		iter++
		assign(data, centroids, labels)
		next := recompute(data, labels, centroids)
		shift := 0.0
		for i := range centroids {
			shift += SquaredDistance(centroids[i], next[i])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}
	inertia := assign(data, centroids, labels)
	return Result{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

// assign labels each point with its nearest centroid and returns the inertia.
func assign(data, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range data {
		best, bestD := 0, math.Inf(1)
		for c, ctr := range centroids {
			if d := SquaredDistance(p, ctr); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

// recompute returns the cluster means. An empty cluster is moved onto the
// point farthest from its current centroid.
func recompute(data [][]float64, labels []int, old [][]float64) [][]float64 {
	k, dim := len(old), len(data[0])
	next := make([][]float64, k)
	counts := make([]int, k)
	for c := range next {
		next[c] = make([]float64, dim)
	}
	for i, p := range data {
		c := labels[i]
		counts[c]++
		for j, v := range p {
			next[c][j] += v
		}
	}
	for c := range next {
		if counts[c] == 0 {
			continue
		}
		for j := range next[c] {
			next[c][j] /= float64(counts[c])
		}
	}
	for c := range next {
		if counts[c] > 0 {
			continue
		}
		far, farD := 0, -1.0
		for i, p := range data {
			if d := SquaredDistance(p, next[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		copy(next[c], data[far])
		counts[c] = 1
		labels[far] = c
	}
	return next
}

func initPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(data[rng.IntN(n)]))

	dist := make([]float64, n)
	for i, p := range data {
		dist[i] = SquaredDistance(p, centroids[0])
	}
	for len(centroids) < k {
		var total float64
		for _, d := range dist {
			total += d
		}
		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, d := range dist {
				cum += d
				if cum >= target && d > 0 {
					idx = i
					break
				}
			}
		} else {
			// All points coincide with existing centroids.
			idx = rng.IntN(n)
		}
		c := clone(data[idx])
		centroids = append(centroids, c)
		for i, p := range data {
			if d := SquaredDistance(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func meanVariance(data [][]float64) float64 {
	n, dim := float64(len(data)), len(data[0])
	if dim == 0 {
		return 0
	}
	var total float64
	for j := 0; j < dim; j++ {
		var mean float64
		for _, p := range data {
			mean += p[j]
		}
		mean /= n
		var v float64
		for _, p := range data {
			d := p[j] - mean
			v += d * d
		}
		total += v / n
	}
	return total / float64(dim)
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
