package chi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kailas-cloud/cityscout/internal/db/memory"
	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/city/citytest"
	"github.com/kailas-cloud/cityscout/internal/repository/dataset"
	sessionrepo "github.com/kailas-cloud/cityscout/internal/repository/session"
	clusteruc "github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	exploreuc "github.com/kailas-cloud/cityscout/internal/usecase/explore"
	healthuc "github.com/kailas-cloud/cityscout/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/cityscout/internal/usecase/recommend"
	reduceuc "github.com/kailas-cloud/cityscout/internal/usecase/reduce"
	scoreuc "github.com/kailas-cloud/cityscout/internal/usecase/score"
	sessionuc "github.com/kailas-cloud/cityscout/internal/usecase/session"
	similaruc "github.com/kailas-cloud/cityscout/internal/usecase/similar"
)

func newTestRouter(t *testing.T, tbl *city.Table, cfg RouterConfig) http.Handler {
	t.Helper()
	analysis := domain.DefaultAnalysisConfig()
	provider := dataset.NewProvider(tbl)
	clusterSvc := clusteruc.New(analysis)
	similarSvc := similaruc.New()
	store := memory.New()

	svc := Services{
		Dataset:   provider,
		Reduce:    reduceuc.New(analysis.VarianceThreshold),
		Cluster:   clusterSvc,
		Similar:   similarSvc,
		Recommend: recommenduc.New(scoreuc.New(), similarSvc, clusterSvc),
		Explore:   exploreuc.New(),
		Sessions:  sessionuc.New(sessionrepo.New(store, ""), time.Minute),
		Health:    healthuc.New(store, provider),
	}
	return NewRouter(NewServer(svc, Limits{DefaultTopN: 5, MaxTopN: 20}), cfg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code ErrorCode) ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	resp := decode[ErrorResponse](t, w)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, citytest.Table(30, 1), RouterConfig{})
	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "ok" || resp.Checks["dataset"] != "ok" || resp.Checks["sessions"] != "ok" {
		t.Errorf("health = %+v", resp)
	}
}

func TestHealthCheck_NoDataset(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})
	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if resp := decode[HealthResponse](t, w); resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
}

func TestDatasetUnavailable(t *testing.T) {
	h := newTestRouter(t, nil, RouterConfig{})
	expectError(t, do(t, h, http.MethodPost, "/analysis/pca", ""), http.StatusServiceUnavailable, CodeDatasetUnavailable)
	expectError(t, do(t, h, http.MethodGet, "/cities", ""), http.StatusServiceUnavailable, CodeDatasetUnavailable)
}

func TestListCities(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})

	w := do(t, h, http.MethodGet, "/cities?country=France&limit=3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[CityListResponse](t, w)
	if resp.Total != 10 {
		t.Errorf("total = %d, want 10", resp.Total)
	}
	if len(resp.Items) != 3 || resp.Limit != 3 {
		t.Fatalf("items = %d limit = %d, want 3/3", len(resp.Items), resp.Limit)
	}
	for _, c := range resp.Items {
		if c.Country != "France" {
			t.Errorf("country = %q, want France", c.Country)
		}
		if len(c.Attributes) == 0 {
			t.Errorf("%s: no attributes", c.City)
		}
	}
}

func TestListCities_DefaultLimit(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})
	resp := decode[CityListResponse](t, do(t, h, http.MethodGet, "/cities", ""))
	if resp.Total != 60 || len(resp.Items) != exploreuc.DefaultDisplayLimit {
		t.Errorf("total = %d items = %d", resp.Total, len(resp.Items))
	}
}

func TestListCities_BadParams(t *testing.T) {
	h := newTestRouter(t, citytest.Table(10, 1), RouterConfig{})

	resp := expectError(t, do(t, h, http.MethodGet, "/cities?limit=1000", ""), http.StatusBadRequest, CodeValidationFailed)
	if resp.Parameter == nil || resp.Parameter.Name != "top_n" {
		t.Errorf("parameter = %+v, want top_n", resp.Parameter)
	}
	expectError(t, do(t, h, http.MethodGet, "/cities?activity_threshold=abc", ""), http.StatusBadRequest, CodeBadRequest)
}

func TestSimilarCities(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})

	w := do(t, h, http.MethodGet, "/cities/City001/similar?top_n=3&activities=culture&activities=nature", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[SimilarResponse](t, w)
	if resp.Reference != "City001" || len(resp.Items) != 3 {
		t.Fatalf("resp = %+v", resp)
	}
	for i, it := range resp.Items {
		if it.City == "City001" {
			t.Error("reference city returned")
		}
		if it.SimilarityScore == nil {
			t.Errorf("%s: missing similarity score", it.City)
		}
		if i > 0 && it.Score > resp.Items[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
	}
}

func TestSimilarCities_UnknownCity(t *testing.T) {
	h := newTestRouter(t, citytest.Table(20, 1), RouterConfig{})
	w := do(t, h, http.MethodGet, "/cities/Atlantis/similar", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp := decode[SimilarResponse](t, w); len(resp.Items) != 0 {
		t.Errorf("items = %d, want 0", len(resp.Items))
	}
}

func TestFeatures(t *testing.T) {
	h := newTestRouter(t, citytest.Table(40, 1), RouterConfig{})
	resp := decode[FeaturesResponse](t, do(t, h, http.MethodPost, "/analysis/features", ""))
	if resp.Rows != 40 || len(resp.Features) == 0 || len(resp.Missing) != 0 {
		t.Errorf("features = %+v", resp)
	}
}

func TestPCA(t *testing.T) {
	h := newTestRouter(t, citytest.Table(40, 1), RouterConfig{})

	w := do(t, h, http.MethodPost, "/analysis/pca", `{"n_components":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[PCAResponse](t, w)
	if len(resp.Components) != 2 || resp.Components[0] != "PC1" {
		t.Errorf("components = %v", resp.Components)
	}
	if len(resp.Rows) != 40 || len(resp.Rows[0].Components) != 2 {
		t.Errorf("rows = %d", len(resp.Rows))
	}
	if len(resp.CumulativeVariance) != 2 || resp.CumulativeVariance[1] < resp.CumulativeVariance[0] {
		t.Errorf("cumulative = %v", resp.CumulativeVariance)
	}
}

func TestPCA_BadRequests(t *testing.T) {
	h := newTestRouter(t, citytest.Table(40, 1), RouterConfig{})

	resp := expectError(t, do(t, h, http.MethodPost, "/analysis/pca", `{"n_components":999}`),
		http.StatusBadRequest, CodeValidationFailed)
	if resp.Parameter == nil || resp.Parameter.Name != "n_components" {
		t.Errorf("parameter = %+v", resp.Parameter)
	}
	expectError(t, do(t, h, http.MethodPost, "/analysis/pca", `{"bogus":1}`), http.StatusBadRequest, CodeBadRequest)
	expectError(t, do(t, h, http.MethodPost, "/analysis/pca", `{`), http.StatusBadRequest, CodeBadRequest)
}

func TestClusters(t *testing.T) {
	h := newTestRouter(t, citytest.Table(48, 1), RouterConfig{})

	w := do(t, h, http.MethodPost, "/analysis/clusters", `{"n_clusters":3,"seed":7}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[ClusterResponse](t, w)
	if resp.K != 3 || len(resp.Assignments) != 48 {
		t.Fatalf("k = %d assignments = %d", resp.K, len(resp.Assignments))
	}
	total := 0
	for _, s := range resp.Summaries {
		total += s.CityCount
	}
	if total != 48 {
		t.Errorf("summaries cover %d cities, want 48", total)
	}
	for _, a := range resp.Assignments {
		if a.Cluster < 0 || a.Cluster >= 3 {
			t.Errorf("%s: cluster %d out of range", a.City, a.Cluster)
		}
	}
}

func TestClusters_BadPCAComponents(t *testing.T) {
	h := newTestRouter(t, citytest.Table(40, 1), RouterConfig{})

	resp := expectError(t, do(t, h, http.MethodPost, "/analysis/clusters", `{"use_pca":true,"pca_components":999}`),
		http.StatusBadRequest, CodeValidationFailed)
	if resp.Parameter == nil || resp.Parameter.Name != "pca_components" {
		t.Errorf("parameter = %+v, want pca_components", resp.Parameter)
	}
}

func TestClusterDetail(t *testing.T) {
	h := newTestRouter(t, citytest.Table(48, 1), RouterConfig{})
	body := `{"n_clusters":3,"seed":7}`

	clusters := decode[ClusterResponse](t, do(t, h, http.MethodPost, "/analysis/clusters", body))
	id := clusters.Assignments[0].Cluster

	w := do(t, h, http.MethodPost, "/analysis/clusters/"+strconv.Itoa(id), body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	detail := decode[clusteruc.Detail](t, w)
	if detail.ClusterID != id || detail.CityCount == 0 || len(detail.Members) != detail.CityCount {
		t.Errorf("detail = %+v", detail)
	}

	expectError(t, do(t, h, http.MethodPost, "/analysis/clusters/7", body), http.StatusNotFound, CodeClusterNotFound)
	expectError(t, do(t, h, http.MethodPost, "/analysis/clusters/abc", body), http.StatusBadRequest, CodeBadRequest)
}

func TestElbow(t *testing.T) {
	h := newTestRouter(t, citytest.Table(40, 1), RouterConfig{})

	w := do(t, h, http.MethodPost, "/analysis/elbow", `{"max_k":4,"seed":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[ElbowResponse](t, w)
	if len(resp.Points) == 0 || resp.Points[len(resp.Points)-1].K != 4 {
		t.Errorf("points = %+v", resp.Points)
	}

	expectError(t, do(t, h, http.MethodPost, "/analysis/elbow", `{"max_k":-1}`), http.StatusBadRequest, CodeValidationFailed)
	expectError(t, do(t, h, http.MethodPost, "/analysis/elbow", `{"max_k":500}`), http.StatusBadRequest, CodeValidationFailed)
}

func TestRecommend(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})

	w := do(t, h, http.MethodPost, "/recommendations",
		`{"preferences":{"selected_activities":["culture","nature"]},"mode":"preferences","top_n":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[ItemListResponse](t, w)
	if resp.Mode != "preferences" || len(resp.Items) != 4 {
		t.Fatalf("resp = %+v", resp)
	}
	for i, it := range resp.Items {
		if it.Breakdown == nil {
			t.Errorf("%s: missing breakdown", it.City)
		}
		if i > 0 && it.Score > resp.Items[i-1].Score {
			t.Errorf("not sorted at %d", i)
		}
	}

	// Hiding the top city shifts the ranking by one.
	top := resp.Items[0].City
	hidden := decode[ItemListResponse](t, do(t, h, http.MethodPost, "/recommendations",
		`{"preferences":{"selected_activities":["culture","nature"]},"mode":"preferences","top_n":4,"displayed":["`+top+`"]}`))
	if len(hidden.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(hidden.Items))
	}
	for _, it := range hidden.Items {
		if it.City == top {
			t.Errorf("displayed city %s returned", top)
		}
	}
	if hidden.Items[0].City != resp.Items[1].City {
		t.Errorf("first = %s, want %s", hidden.Items[0].City, resp.Items[1].City)
	}
}

func TestRecommend_DefaultTopN(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})
	resp := decode[ItemListResponse](t, do(t, h, http.MethodPost, "/recommendations",
		`{"preferences":{},"mode":"preferences"}`))
	if len(resp.Items) != 5 {
		t.Errorf("items = %d, want default 5", len(resp.Items))
	}
}

func TestRecommend_Errors(t *testing.T) {
	h := newTestRouter(t, citytest.Table(20, 1), RouterConfig{})

	tests := []struct {
		name   string
		body   string
		status int
		code   ErrorCode
	}{
		{"unknown mode", `{"mode":"semantic"}`, http.StatusBadRequest, CodeUnknownMode},
		{"bad activity", `{"preferences":{"selected_activities":["skiing"]}}`, http.StatusBadRequest, CodeValidationFailed},
		{"bad budget", `{"preferences":{"budget_level":"Cheap"}}`, http.StatusBadRequest, CodeValidationFailed},
		{"unknown field", `{"preferences":{},"limit":3}`, http.StatusBadRequest, CodeBadRequest},
		{"top_n too large", `{"mode":"preferences","top_n":21}`, http.StatusBadRequest, CodeValidationFailed},
		{"top_n negative", `{"mode":"preferences","top_n":-2}`, http.StatusBadRequest, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, do(t, h, http.MethodPost, "/recommendations", tt.body), tt.status, tt.code)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestRouter(t, citytest.Table(60, 1), RouterConfig{})

	w := do(t, h, http.MethodPost, "/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	created := decode[sessionuc.Session](t, w)
	if created.ID == "" || created.State.Step != 1 {
		t.Fatalf("created = %+v", created)
	}
	if loc := w.Header().Get("Location"); loc != "/sessions/"+created.ID {
		t.Errorf("location = %q", loc)
	}
	base := "/sessions/" + created.ID

	w = do(t, h, http.MethodPut, base, `{"destination":{"kind":"country","value":"Japan"},"navigate":"next"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}
	updated := decode[sessionuc.Session](t, w)
	if updated.State.TargetCountry != "Japan" || updated.State.Step != 2 {
		t.Errorf("updated = %+v", updated.State)
	}

	got := decode[sessionuc.Session](t, do(t, h, http.MethodGet, base, ""))
	if got.State.TargetCountry != "Japan" {
		t.Errorf("stored country = %q", got.State.TargetCountry)
	}

	cities := decode[CityListResponse](t, do(t, h, http.MethodGet, base+"/cities", ""))
	if cities.Total != 10 {
		t.Errorf("total = %d, want 10", cities.Total)
	}
	for _, c := range cities.Items {
		if c.Country != "Japan" {
			t.Errorf("country = %q", c.Country)
		}
	}

	w = do(t, h, http.MethodPost, base+"/recommendations", `{"mode":"preferences","hide_displayed":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("recommend status = %d, body %s", w.Code, w.Body.String())
	}
	recs := decode[ItemListResponse](t, w)
	if len(recs.Items) != 5 {
		t.Errorf("items = %d, want 5", len(recs.Items))
	}
	for _, it := range recs.Items {
		if it.Country == "Japan" {
			t.Errorf("displayed city %s returned", it.City)
		}
	}

	if w := do(t, h, http.MethodDelete, base, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	expectError(t, do(t, h, http.MethodGet, base, ""), http.StatusNotFound, CodeSessionNotFound)
}

func TestSession_Errors(t *testing.T) {
	h := newTestRouter(t, citytest.Table(10, 1), RouterConfig{})

	expectError(t, do(t, h, http.MethodGet, "/sessions/not-a-uuid", ""), http.StatusNotFound, CodeSessionNotFound)
	expectError(t, do(t, h, http.MethodGet, "/sessions/0b6f2c1e-6a0d-4c47-9a55-4f6d5a2b8f10", ""),
		http.StatusNotFound, CodeSessionNotFound)

	id := decode[sessionuc.Session](t, do(t, h, http.MethodPost, "/sessions", "")).ID
	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id, `{}`), http.StatusBadRequest, CodeValidationFailed)
	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id, `{"budget_level":"Cheap"}`),
		http.StatusBadRequest, CodeValidationFailed)
	expectError(t, do(t, h, http.MethodPut, "/sessions/"+id, `{"destination":{"kind":"planet","value":"Mars"}}`),
		http.StatusBadRequest, CodeValidationFailed)
}

func TestNotFoundRoute(t *testing.T) {
	h := newTestRouter(t, citytest.Table(5, 1), RouterConfig{})
	expectError(t, do(t, h, http.MethodGet, "/nowhere", ""), http.StatusNotFound, CodeNotFound)
}

func TestRateLimit(t *testing.T) {
	h := newTestRouter(t, citytest.Table(5, 1), RouterConfig{RateLimitPerMin: 1})
	if w := do(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("first status = %d", w.Code)
	}
	expectError(t, do(t, h, http.MethodGet, "/health", ""), http.StatusTooManyRequests, CodeRateLimited)
}

func TestCORS(t *testing.T) {
	h := newTestRouter(t, citytest.Table(5, 1), RouterConfig{CORSOrigins: []string{"https://app.example"}})
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, citytest.Table(5, 1), RouterConfig{})
	do(t, h, http.MethodGet, "/health", "")
	w := do(t, h, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}
