package chi

import (
	"net/http"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation/mode"
)

// Recommend handles POST /recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prefs, err := preference.New(req.Preferences)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.recommend(w, r, prefs, req.Mode, req.TopN, req.Displayed)
}

// recommend ranks cities and hides the displayed ones before truncating.
func (s *Server) recommend(
	w http.ResponseWriter, r *http.Request, prefs preference.Preferences, rawMode string, rawTopN int, displayed []string,
) {
	m, err := mode.Parse(rawMode)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	topN, err := s.topN(rawTopN)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}

	items, err := s.svc.Recommend.Recommend(r.Context(), t, prefs, m, topN+len(displayed))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items = recommendation.Truncate(hide(items, displayed), topN)
	writeJSON(w, http.StatusOK, ItemListResponse{Mode: string(m), Items: itemsToResponse(items)})
}

func hide(items []recommendation.Item, names []string) []recommendation.Item {
	if len(names) == 0 {
		return items
	}
	hidden := make(map[string]struct{}, len(names))
	for _, n := range names {
		hidden[n] = struct{}{}
	}
	out := items[:0:0]
	for _, it := range items {
		if _, ok := hidden[it.Row().City]; !ok {
			out = append(out, it)
		}
	}
	return out
}

func cityNames(rows []city.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.City
	}
	return out
}
