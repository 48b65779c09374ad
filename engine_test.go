package cityscout

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/cityscout/internal/domain/city/citytest"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	e := New()
	if got, want := e.Config(), DefaultAnalysisConfig(); got != want {
		t.Errorf("config = %+v, want %+v", got, want)
	}
}

func TestOptions(t *testing.T) {
	e := New(WithAnalysisConfig(AnalysisConfig{Restarts: 3, VarianceThreshold: 2}), WithSeed(7), WithLogger(nil))
	cfg := e.Config()
	if cfg.Restarts != 3 || cfg.Seed != 7 {
		t.Errorf("restarts = %d seed = %d", cfg.Restarts, cfg.Seed)
	}
	if cfg.VarianceThreshold != DefaultAnalysisConfig().VarianceThreshold {
		t.Errorf("variance threshold = %v, want default", cfg.VarianceThreshold)
	}
	if cfg.MaxIterations == 0 || cfg.ElbowMaxK == 0 {
		t.Errorf("zero fields not defaulted: %+v", cfg)
	}
}

func TestLoadTable(t *testing.T) {
	csv := "city,country,region,culture,nature\n" +
		"Paris,France,europe,9,4\n" +
		"Quito,Ecuador,south america,5,8\n"
	tbl, err := New().LoadTable(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Row(0).ValueOr("culture", -1); got != 180 {
		t.Errorf("culture = %v, want 180 after rescale", got)
	}

	if _, err := New().LoadTable(context.Background(), strings.NewReader("")); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("err = %v, want ErrEmptyDataset", err)
	}
}

func TestReduceDimensions_RowAligned(t *testing.T) {
	tbl := citytest.Table(30, 1)
	proj, err := New().ReduceDimensions(context.Background(), tbl, ReduceParams{Components: intPtr(3)})
	if err != nil {
		t.Fatalf("ReduceDimensions: %v", err)
	}
	if len(proj.Rows) != tbl.Len() {
		t.Fatalf("rows = %d, want %d", len(proj.Rows), tbl.Len())
	}
	for i, r := range proj.Rows {
		if r.City != tbl.Row(i).City || len(r.Components) != 3 {
			t.Errorf("row %d = %+v", i, r)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	tbl := citytest.Table(40, 2)
	e := New()
	p := ClusterParams{K: intPtr(3)}

	a, err := e.Cluster(context.Background(), tbl, p)
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	b, err := e.Cluster(context.Background(), tbl, p)
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if !slices.Equal(a.Labeled.Labels, b.Labeled.Labels) {
		t.Error("labels differ between identical runs")
	}

	summaries := e.ClusterSummary(a.Labeled)
	total := 0
	for _, s := range summaries {
		total += s.CityCount
	}
	if total != tbl.Len() {
		t.Errorf("summaries cover %d rows, want %d", total, tbl.Len())
	}
	d, ok := e.ClusterDetail(a.Labeled, a.Labeled.Labels[0])
	if !ok || d.CityCount == 0 {
		t.Errorf("detail = %+v ok = %v", d, ok)
	}
	if _, ok := e.ClusterDetail(a.Labeled, 99); ok {
		t.Error("detail for missing cluster reported ok")
	}
}

func TestElbow(t *testing.T) {
	points, err := New().Elbow(context.Background(), citytest.Table(20, 3), ClusterParams{}, 4)
	if err != nil {
		t.Fatalf("Elbow: %v", err)
	}
	if len(points) != 4 || points[0].K != 1 {
		t.Errorf("points = %+v", points)
	}
}

func TestSimilarCities(t *testing.T) {
	e := New()
	tbl := citytest.Table(20, 4)
	if got := e.SimilarCities(context.Background(), tbl, "Atlantis", nil); len(got) != 0 {
		t.Errorf("unknown reference returned %d items", len(got))
	}
	got := e.SimilarCities(context.Background(), tbl, "City000", nil)
	if len(got) != tbl.Len()-1 {
		t.Fatalf("items = %d, want %d", len(got), tbl.Len()-1)
	}
	for _, it := range got {
		if it.Row().City == "City000" {
			t.Error("reference city included")
		}
	}
}

func TestScoreAndRecommend(t *testing.T) {
	e := New()
	tbl := citytest.Table(30, 5)
	prefs, err := NewPreferences(PreferenceParams{
		Activities:    []string{"culture", "beaches"},
		ExcludeCities: []string{"City001"},
	})
	if err != nil {
		t.Fatalf("NewPreferences: %v", err)
	}

	scored := e.ScoreByPreferences(context.Background(), tbl, prefs, 5)
	if len(scored) != 5 {
		t.Fatalf("items = %d, want 5", len(scored))
	}
	for _, it := range scored {
		if it.Row().City == "City001" {
			t.Error("excluded city returned")
		}
		if s, _ := it.Recommendation(); s < 0 {
			t.Errorf("negative score %v", s)
		}
	}

	m, err := ParseMode("preferences")
	if err != nil {
		t.Fatalf("ParseMode: %v", err)
	}
	recs, err := e.Recommend(context.Background(), tbl, prefs, m, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if recs[0].Row().City != scored[0].Row().City {
		t.Errorf("top = %s, want %s", recs[0].Row().City, scored[0].Row().City)
	}
}

func TestErrors(t *testing.T) {
	if _, err := ParseMode("semantic"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
	if _, err := NewPreferences(PreferenceParams{Budget: "Cheap"}); !errors.Is(err, ErrInvalidPreferences) {
		t.Errorf("err = %v, want ErrInvalidPreferences", err)
	}
	_, err := New().ReduceDimensions(context.Background(), citytest.Table(10, 1), ReduceParams{Components: intPtr(99)})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
}
