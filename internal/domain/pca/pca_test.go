package pca

import (
	"math"
	"math/rand/v2"
	"testing"
)

func almost(a, b, eps float64) bool { return math.Abs(a-b) < eps }

// twoFactor builds n rows of 20 features driven by two latent variables.
func twoFactor(n int) [][]float64 {
	rng := rand.New(rand.NewPCG(7, 11))
	rows := make([][]float64, n)
	for i := range rows {
		z1, z2 := rng.NormFloat64(), rng.NormFloat64()
		r := make([]float64, 20)
		for j := 0; j < 10; j++ {
			r[j] = z1 + 0.01*rng.NormFloat64()
		}
		for j := 10; j < 20; j++ {
			r[j] = z2 + 0.01*rng.NormFloat64()
		}
		rows[i] = r
	}
	return rows
}

func TestFit_TwoLatentFactors(t *testing.T) {
	m, err := Fit(twoFactor(200))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if m.Available() != 20 {
		t.Fatalf("Available = %d, want 20", m.Available())
	}
	if k := m.ComponentsFor(0.95); k != 2 {
		t.Fatalf("ComponentsFor(0.95) = %d, want 2", k)
	}
	var sum float64
	for i, r := range m.ExplainedVarianceRatio {
		if r < 0 || r > 1 {
			t.Errorf("ratio[%d] = %f out of [0,1]", i, r)
		}
		if i > 0 && r > m.ExplainedVarianceRatio[i-1]+1e-12 {
			t.Errorf("ratios not descending at %d", i)
		}
		sum += r
	}
	if !almost(sum, 1, 1e-9) {
		t.Errorf("ratios sum = %f, want 1", sum)
	}
}

func TestFit_AxesAreUnit(t *testing.T) {
	m, err := Fit(twoFactor(50))
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for c, axis := range m.Axes {
		var norm float64
		for _, v := range axis {
			norm += v * v
		}
		if !almost(norm, 1, 1e-9) {
			t.Errorf("axis %d norm^2 = %f", c, norm)
		}
	}
}

func TestTransform_RowAlignedAndCentered(t *testing.T) {
	rows := twoFactor(80)
	m, err := Fit(rows)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	proj, err := m.Transform(rows, 3)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(proj) != len(rows) {
		t.Fatalf("len = %d, want %d", len(proj), len(rows))
	}
	for c := 0; c < 3; c++ {
		var mean float64
		for _, p := range proj {
			mean += p[c]
		}
		mean /= float64(len(proj))
		if !almost(mean, 0, 1e-9) {
			t.Errorf("component %d mean = %g, want 0", c, mean)
		}
	}
}

func TestTransform_SignConvention(t *testing.T) {
	rows := twoFactor(60)
	m, _ := Fit(rows)
	proj, _ := m.Transform(rows, 2)
	for c := 0; c < 2; c++ {
		best, val := -1.0, 0.0
		for _, p := range proj {
			if a := math.Abs(p[c]); a > best {
				best, val = a, p[c]
			}
		}
		if val < 0 {
			t.Errorf("component %d dominant score %f is negative", c, val)
		}
	}
}

func TestTransform_InvalidK(t *testing.T) {
	m, _ := Fit([][]float64{{1, 2}, {3, 4}, {5, 7}})
	if _, err := m.Transform([][]float64{{1, 2}}, 3); err == nil {
		t.Fatal("expected error for k > available")
	}
	if _, err := m.Transform([][]float64{{1, 2, 3}}, 1); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestFit_FewerRowsThanFeatures(t *testing.T) {
	m, err := Fit([][]float64{{1, 2, 3, 4}, {2, 1, 0, 5}, {0, 0, 1, 1}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if m.Available() != 3 {
		t.Fatalf("Available = %d, want 3", m.Available())
	}
}

func TestFit_ConstantData(t *testing.T) {
	m, err := Fit([][]float64{{1, 1}, {1, 1}, {1, 1}})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if k := m.ComponentsFor(0.95); k != m.Available() {
		t.Fatalf("ComponentsFor on constant data = %d, want %d", k, m.Available())
	}
}

func TestFit_Errors(t *testing.T) {
	if _, err := Fit(nil); err == nil {
		t.Fatal("expected error for no rows")
	}
	if _, err := Fit([][]float64{{1, 2}, {1}}); err == nil {
		t.Fatal("expected error for ragged rows")
	}
}

func TestCumulative(t *testing.T) {
	got := Cumulative([]float64{0.5, 0.3, 0.2})
	want := []float64{0.5, 0.8, 1.0}
	for i := range want {
		if !almost(got[i], want[i], 1e-12) {
			t.Errorf("cum[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}
