package chi

import (
	"fmt"
	"net/http"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	clusteruc "github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	reduceuc "github.com/kailas-cloud/cityscout/internal/usecase/reduce"
)

// Features handles POST /analysis/features.
func (s *Server) Features(w http.ResponseWriter, r *http.Request) {
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	prep, err := feature.Prepare(t)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, FeaturesResponse{
		Features: nonNil(prep.Names),
		Missing:  nonNil(prep.Missing),
		Rows:     prep.Len(),
	})
}

// PCA handles POST /analysis/pca.
func (s *Server) PCA(w http.ResponseWriter, r *http.Request) {
	var req reduceuc.Params
	if !decodeBody(w, r, &req) {
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	proj, err := s.svc.Reduce.Reduce(r.Context(), t, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionToResponse(proj))
}

// Clusters handles POST /analysis/clusters.
func (s *Server) Clusters(w http.ResponseWriter, r *http.Request) {
	var req clusteruc.Params
	if !decodeBody(w, r, &req) {
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Cluster.Cluster(r.Context(), t, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clusterToResponse(res))
}

// ClusterDetail handles POST /analysis/clusters/{id}. The body carries the
// same parameters as the clustering run the id refers to.
func (s *Server) ClusterDetail(w http.ResponseWriter, r *http.Request) {
	var id int
	if !pathParam(w, r, "id", &id) {
		return
	}
	var req clusteruc.Params
	if !decodeBody(w, r, &req) {
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	res, err := s.svc.Cluster.Cluster(r.Context(), t, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	detail, found := res.Labeled.Detail(id)
	if !found {
		s.handleDomainError(w, r, fmt.Errorf("%w: %d of %d", domain.ErrClusterNotFound, id, res.K))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Elbow handles POST /analysis/elbow.
func (s *Server) Elbow(w http.ResponseWriter, r *http.Request) {
	var req ElbowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MaxK < 0 {
		s.handleDomainError(w, r, domain.NewParameterError("max_k", float64(req.MaxK), 1, float64(clusteruc.MaxElbowK)))
		return
	}
	t, ok := s.table(w, r)
	if !ok {
		return
	}
	points, err := s.svc.Cluster.Elbow(r.Context(), t, req.Params, req.MaxK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ElbowResponse{Points: points})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
