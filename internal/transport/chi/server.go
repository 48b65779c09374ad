// Package chi exposes the analysis, recommendation and wizard services over HTTP.
package chi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	clusteruc "github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	exploreuc "github.com/kailas-cloud/cityscout/internal/usecase/explore"
	healthuc "github.com/kailas-cloud/cityscout/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/cityscout/internal/usecase/recommend"
	reduceuc "github.com/kailas-cloud/cityscout/internal/usecase/reduce"
	sessionuc "github.com/kailas-cloud/cityscout/internal/usecase/session"
	similaruc "github.com/kailas-cloud/cityscout/internal/usecase/similar"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// TableSource yields the current city table.
type TableSource interface {
	Table(ctx context.Context) (*city.Table, error)
}

// Services bundles the use cases served over HTTP.
type Services struct {
	Dataset   TableSource
	Reduce    *reduceuc.Service
	Cluster   *clusteruc.Service
	Similar   *similaruc.Service
	Recommend *recommenduc.Service
	Explore   *exploreuc.Service
	Sessions  *sessionuc.Service
	Health    *healthuc.Service
}

// Limits bound result sizes.
type Limits struct {
	DefaultTopN int
	MaxTopN     int
}

// Server holds the HTTP handlers.
type Server struct {
	svc           Services
	limits        Limits
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, limits Limits) *Server {
	def := domain.DefaultAnalysisConfig()
	if limits.MaxTopN <= 0 {
		limits.MaxTopN = def.MaxTopN
	}
	if limits.DefaultTopN <= 0 || limits.DefaultTopN > limits.MaxTopN {
		limits.DefaultTopN = min(def.DefaultTopN, limits.MaxTopN)
	}
	return &Server{svc: svc, limits: limits, errorHandlers: defaultErrorHandlers()}
}

// Mount registers every route on r.
func (s *Server) Mount(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/cities", s.ListCities)
	r.Get("/cities/{city}/similar", s.SimilarCities)

	r.Route("/analysis", func(r chi.Router) {
		r.Post("/features", s.Features)
		r.Post("/pca", s.PCA)
		r.Post("/clusters", s.Clusters)
		r.Post("/clusters/{id}", s.ClusterDetail)
		r.Post("/elbow", s.Elbow)
	})

	r.Post("/recommendations", s.Recommend)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/{id}", s.GetSession)
		r.Put("/{id}", s.UpdateSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Get("/{id}/cities", s.SessionCities)
		r.Post("/{id}/recommendations", s.SessionRecommendations)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) table(w http.ResponseWriter, r *http.Request) (*city.Table, bool) {
	t, err := s.svc.Dataset.Table(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return t, true
}

// topN resolves a requested result size; 0 selects the default.
func (s *Server) topN(n int) (int, error) {
	if n == 0 {
		return s.limits.DefaultTopN, nil
	}
	if n < 1 || n > s.limits.MaxTopN {
		return 0, domain.NewParameterError("top_n", float64(n), 1, float64(s.limits.MaxTopN))
	}
	return n, nil
}

// decodeBody decodes a JSON body, rejecting unknown fields. An empty body
// leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func pathParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid path parameter "+name+": "+err.Error())
		return false
	}
	return true
}

func queryParam(w http.ResponseWriter, r *http.Request, name string, dst any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid query parameter "+name+": "+err.Error())
		return false
	}
	return true
}
