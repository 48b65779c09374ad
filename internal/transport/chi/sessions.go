package chi

import (
	"net/http"

	"github.com/kailas-cloud/cityscout/internal/domain/wizard"
	exploreuc "github.com/kailas-cloud/cityscout/internal/usecase/explore"
)

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Sessions.Create(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !pathParam(w, r, "id", &id) {
		return
	}
	sess, err := s.svc.Sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// UpdateSession handles PUT /sessions/{id} with a wizard.Patch body.
func (s *Server) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !pathParam(w, r, "id", &id) {
		return
	}
	var p wizard.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	sess, err := s.svc.Sessions.Update(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if !pathParam(w, r, "id", &id) {
		return
	}
	if err := s.svc.Sessions.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionCities handles GET /sessions/{id}/cities: the results page of the wizard.
func (s *Server) SessionCities(w http.ResponseWriter, r *http.Request) {
	var id string
	if !pathParam(w, r, "id", &id) {
		return
	}
	sess, err := s.svc.Sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	page := s.svc.Explore.List(r.Context(), t, sess.State.Criteria(), exploreuc.DefaultDisplayLimit)
	writeJSON(w, http.StatusOK, CityListResponse{
		Items: citiesToResponse(page.Rows),
		Total: page.Total,
		Limit: exploreuc.DefaultDisplayLimit,
	})
}

// SessionRecommendations handles POST /sessions/{id}/recommendations.
// With hide_displayed the cities of the results page are left out.
func (s *Server) SessionRecommendations(w http.ResponseWriter, r *http.Request) {
	var id string
	if !pathParam(w, r, "id", &id) {
		return
	}
	var req SessionRecommendationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	sess, err := s.svc.Sessions.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	prefs, err := sess.State.Preferences()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	var displayed []string
	if req.HideDisplayed {
		t, ok := s.table(w, r)
		if !ok {
			return
		}
		page := s.svc.Explore.List(r.Context(), t, sess.State.Criteria(), exploreuc.DefaultDisplayLimit)
		displayed = cityNames(page.Rows)
	}
	s.recommend(w, r, prefs, req.Mode, req.TopN, displayed)
}
