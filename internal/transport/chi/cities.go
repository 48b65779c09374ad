package chi

import (
	"net/http"

	"github.com/kailas-cloud/cityscout/internal/domain/criteria"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	exploreuc "github.com/kailas-cloud/cityscout/internal/usecase/explore"
)

// ListCities handles GET /cities.
func (s *Server) ListCities(w http.ResponseWriter, r *http.Request) {
	var (
		c     criteria.Criteria
		limit int
	)
	for _, p := range []struct {
		name string
		dst  any
	}{
		{"target_city", &c.TargetCity},
		{"region", &c.Region},
		{"country", &c.Country},
		{"budget_level", &c.BudgetLevel},
		{"duration_col", &c.Duration},
		{"activities", &c.Activities},
		{"activity_threshold", &c.ActivityThreshold},
		{"special_filters", &c.SpecialFilters},
		{"limit", &limit},
	} {
		if !queryParam(w, r, p.name, p.dst) {
			return
		}
	}
	if limit == 0 {
		limit = exploreuc.DefaultDisplayLimit
	}
	limit, err := s.topN(limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	t, ok := s.table(w, r)
	if !ok {
		return
	}
	page := s.svc.Explore.List(r.Context(), t, c, limit)
	writeJSON(w, http.StatusOK, CityListResponse{
		Items: citiesToResponse(page.Rows),
		Total: page.Total,
		Limit: limit,
	})
}

// SimilarCities handles GET /cities/{city}/similar. An unknown city yields
// an empty list.
func (s *Server) SimilarCities(w http.ResponseWriter, r *http.Request) {
	var (
		name       string
		activities []string
		topN       int
	)
	if !pathParam(w, r, "city", &name) {
		return
	}
	if !queryParam(w, r, "activities", &activities) || !queryParam(w, r, "top_n", &topN) {
		return
	}
	n, err := s.topN(topN)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	t, ok := s.table(w, r)
	if !ok {
		return
	}
	items := s.svc.Similar.Similar(r.Context(), t, name, activities)
	writeJSON(w, http.StatusOK, SimilarResponse{
		Reference: name,
		Items:     itemsToResponse(recommendation.Truncate(items, n)),
	})
}
