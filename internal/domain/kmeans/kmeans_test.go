package kmeans

import (
	"math"
	"math/rand/v2"
	"testing"
)

// blobs returns n points around each of the given centers.
func blobs(centers [][]float64, n int, spread float64, seed uint64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	var out [][]float64
	for _, c := range centers {
		for i := 0; i < n; i++ {
			p := make([]float64, len(c))
			for j, v := range c {
				p[j] = v + spread*rng.NormFloat64()
			}
			out = append(out, p)
		}
	}
	return out
}

func TestFit_SeparatesBlobs(t *testing.T) {
	data := blobs([][]float64{{0, 0}, {10, 10}, {-10, 10}}, 20, 0.5, 1)
	res, err := Fit(data, 3, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for b := 0; b < 3; b++ {
		want := res.Labels[b*20]
		for i := b * 20; i < (b+1)*20; i++ {
			if res.Labels[i] != want {
				t.Fatalf("point %d label %d, want %d", i, res.Labels[i], want)
			}
		}
	}
	for _, size := range res.Sizes() {
		if size != 20 {
			t.Fatalf("sizes = %v, want 20 each", res.Sizes())
		}
	}
}

func TestFit_Deterministic(t *testing.T) {
	data := blobs([][]float64{{0, 0, 0}, {3, 3, 3}, {6, 0, 3}}, 15, 1.5, 9)
	a, err := Fit(data, 3, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	b, _ := Fit(data, 3, DefaultConfig())
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("labels differ at %d: %d vs %d", i, a.Labels[i], b.Labels[i])
		}
	}
	if a.Inertia != b.Inertia {
		t.Fatalf("inertia differs: %f vs %f", a.Inertia, b.Inertia)
	}
}

func TestFit_KEqualsN(t *testing.T) {
	data := [][]float64{{0}, {1}, {5}, {9}}
	res, err := Fit(data, 4, DefaultConfig())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if res.Inertia > 1e-12 {
		t.Fatalf("inertia = %f, want 0", res.Inertia)
	}
	for _, size := range res.Sizes() {
		if size != 1 {
			t.Fatalf("sizes = %v, want all 1", res.Sizes())
		}
	}
}

func TestFit_InvalidK(t *testing.T) {
	data := [][]float64{{0}, {1}}
	for _, k := range []int{0, -1, 3} {
		if _, err := Fit(data, k, DefaultConfig()); err == nil {
			t.Errorf("k=%d: expected error", k)
		}
	}
	if _, err := Fit(nil, 1, DefaultConfig()); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestFit_InertiaDecreasesWithK(t *testing.T) {
	data := blobs([][]float64{{0, 0}, {5, 5}, {10, 0}, {5, -5}}, 10, 1, 3)
	prev := math.Inf(1)
	for k := 1; k <= 4; k++ {
		res, err := Fit(data, k, DefaultConfig())
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if res.Inertia > prev+1e-9 {
			t.Errorf("k=%d inertia %f > previous %f", k, res.Inertia, prev)
		}
		prev = res.Inertia
	}
}

func TestSilhouette(t *testing.T) {
	data := blobs([][]float64{{0, 0}, {20, 20}}, 10, 0.3, 5)
	labels := make([]int, len(data))
	for i := 10; i < 20; i++ {
		labels[i] = 1
	}
	s := Silhouette(data, labels)
	if s < 0.9 || s > 1 {
		t.Fatalf("silhouette = %f, want close to 1", s)
	}

	// Interleaved labels are a poor fit.
	for i := range labels {
		labels[i] = i % 2
	}
	if bad := Silhouette(data, labels); bad >= s {
		t.Fatalf("interleaved silhouette %f >= separated %f", bad, s)
	}
}

func TestSilhouette_Degenerate(t *testing.T) {
	data := [][]float64{{0}, {1}, {2}}
	if s := Silhouette(data, []int{0, 0, 0}); s != 0 {
		t.Fatalf("single label silhouette = %f, want 0", s)
	}
	if s := Silhouette(nil, nil); s != 0 {
		t.Fatalf("empty silhouette = %f, want 0", s)
	}
	s := Silhouette(data, []int{0, 0, 1})
	if s < -1 || s > 1 {
		t.Fatalf("silhouette %f out of range", s)
	}
}

func TestSquaredDistance(t *testing.T) {
	if d := SquaredDistance([]float64{0, 0}, []float64{3, 4}); d != 25 {
		t.Fatalf("want 25, got %f", d)
	}
}
