package city

import (
	"math"
	"testing"
)

func TestRow_Values(t *testing.T) {
	vals := map[string]float64{Culture: 80}
	r := NewRow("Paris", "France", "Europe", vals)
	vals[Culture] = 1
	if r.Value(Culture) != 80 {
		t.Fatal("NewRow did not copy values")
	}
	if !math.IsNaN(r.Value(Nature)) {
		t.Fatal("missing cell should be NaN")
	}
	if r.ValueOr(Nature, 7) != 7 {
		t.Fatal("ValueOr fallback")
	}
	if r.Key() == NewRow("Paris", "USA", "", nil).Key() {
		t.Fatal("keys must include country")
	}
}

func TestTable_Columns(t *testing.T) {
	tbl := NewTable([]Row{
		NewRow("A", "X", "R", map[string]float64{Nature: 1}),
		NewRow("B", "X", "R", map[string]float64{Culture: 2}),
	})
	cols := tbl.Columns()
	if len(cols) != 2 || cols[0] != Culture || cols[1] != Nature {
		t.Fatalf("Columns = %v", cols)
	}
	present, missing := tbl.Available([]string{Culture, Beaches, Nature})
	if len(present) != 2 || len(missing) != 1 || missing[0] != Beaches {
		t.Fatalf("Available = %v / %v", present, missing)
	}
	col := tbl.Column(Culture)
	if !math.IsNaN(col[0]) || col[1] != 2 {
		t.Fatalf("Column = %v", col)
	}
}

func TestTable_FilterAndIndex(t *testing.T) {
	tbl := NewTableWithColumns([]string{Culture, Culture}, []Row{
		NewRow("A", "X", "R", nil),
		NewRow("B", "Y", "R", nil),
		NewRow("A", "Z", "R", nil),
	})
	if len(tbl.Columns()) != 1 {
		t.Fatal("duplicate declared column kept")
	}
	if i, ok := tbl.IndexOf("A"); !ok || i != 0 {
		t.Fatalf("IndexOf(A) = %d, %v", i, ok)
	}
	if _, ok := tbl.IndexOf("Atlantis"); ok {
		t.Fatal("IndexOf found a missing city")
	}
	f := tbl.Filter(func(r Row) bool { return r.Country != "Y" })
	if f.Len() != 2 || !f.HasColumn(Culture) {
		t.Fatalf("Filter: len=%d", f.Len())
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"Budget", 1, true},
		{"Mid-range", 2, true},
		{"Luxury", 3, true},
		{"cheap", 0, false},
	}
	for _, tt := range tests {
		b, err := ParseBudget(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("ParseBudget(%q) err = %v", tt.in, err)
		}
		if tt.ok && b.Numeric() != tt.want {
			t.Errorf("%q.Numeric() = %f, want %f", tt.in, b.Numeric(), tt.want)
		}
	}
	if Budget("").Numeric() != 2 {
		t.Error("unknown tier should default to 2")
	}
}

func TestColumnSets(t *testing.T) {
	if len(ClusterFeatures()) != 25 {
		t.Fatalf("ClusterFeatures = %d", len(ClusterFeatures()))
	}
	if len(SummaryColumns()) != 15 || len(CharacteristicColumns()) != 12 {
		t.Fatal("summary/characteristic column counts")
	}
	a := ActivityColumns()
	a[0] = "mutated"
	if ActivityColumns()[0] != Culture {
		t.Fatal("ActivityColumns returned shared slice")
	}
	if !IsActivity(Seclusion) || IsActivity(Safe) || !IsBoolean(Safe) || !IsDuration(DayTrip) {
		t.Fatal("column predicates")
	}
}

func TestPresentMean(t *testing.T) {
	tests := []struct {
		name string
		col  []float64
		want float64
	}{
		{"skips missing", []float64{2, math.NaN(), 4}, 3},
		{"all missing", []float64{math.NaN(), math.NaN()}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PresentMean(tt.col); got != tt.want {
				t.Errorf("PresentMean = %f, want %f", got, tt.want)
			}
		})
	}
}
