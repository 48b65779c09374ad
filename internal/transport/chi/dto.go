package chi

import (
	"math"

	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/preference"
	"github.com/kailas-cloud/cityscout/internal/domain/recommendation"
	"github.com/kailas-cloud/cityscout/internal/usecase/cluster"
	"github.com/kailas-cloud/cityscout/internal/usecase/reduce"
)

// CityResponse is one city with its numeric attributes.
type CityResponse struct {
	City        string             `json:"city"`
	Country     string             `json:"country"`
	Region      string             `json:"region"`
	BudgetLevel string             `json:"budget_level,omitempty"`
	Description string             `json:"description,omitempty"`
	Attributes  map[string]float64 `json:"attributes"`
}

// CityListResponse is a filtered page of cities.
type CityListResponse struct {
	Items []CityResponse `json:"items"`
	Total int            `json:"total"`
	Limit int            `json:"limit"`
}

// FeaturesResponse describes the clustering feature matrix.
type FeaturesResponse struct {
	Features []string `json:"features"`
	Missing  []string `json:"missing"`
	Rows     int      `json:"rows"`
}

// PCAResponse is a projection.
type PCAResponse struct {
	Components             []string              `json:"components"`
	ExplainedVarianceRatio []float64             `json:"explained_variance_ratio"`
	CumulativeVariance     []float64             `json:"cumulative_variance"`
	Features               []string              `json:"features"`
	Rows                   []reduce.ProjectedRow `json:"rows"`
}

// Assignment is a city with its cluster label.
type Assignment struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Region  string `json:"region"`
	Cluster int    `json:"cluster"`
}

// ClusterResponse is a clustering outcome.
type ClusterResponse struct {
	K           int                 `json:"n_clusters"`
	Silhouette  float64             `json:"silhouette"`
	Inertia     float64             `json:"inertia"`
	Candidates  []cluster.Candidate `json:"candidates,omitempty"`
	Components  int                 `json:"pca_components"`
	Features    []string            `json:"features"`
	Assignments []Assignment        `json:"assignments"`
	Summaries   []cluster.Summary   `json:"summaries"`
}

// ElbowRequest is the body of POST /analysis/elbow.
type ElbowRequest struct {
	cluster.Params
	MaxK int `json:"max_k,omitempty"`
}

// ElbowResponse lists inertia per K.
type ElbowResponse struct {
	Points []cluster.ElbowPoint `json:"points"`
}

// RecommendationRequest is the body of POST /recommendations.
type RecommendationRequest struct {
	Preferences preference.Params `json:"preferences"`
	Mode        string            `json:"mode,omitempty"`
	TopN        int               `json:"top_n,omitempty"`
	// Displayed names cities already shown to the user; they are hidden.
	Displayed []string `json:"displayed,omitempty"`
}

// SessionRecommendationRequest is the body of POST /sessions/{id}/recommendations.
type SessionRecommendationRequest struct {
	Mode          string `json:"mode,omitempty"`
	TopN          int    `json:"top_n,omitempty"`
	HideDisplayed bool   `json:"hide_displayed,omitempty"`
}

// ItemResponse is one ranked recommendation.
type ItemResponse struct {
	City                string                    `json:"city"`
	Country             string                    `json:"country"`
	Region              string                    `json:"region"`
	BudgetLevel         string                    `json:"budget_level,omitempty"`
	Score               float64                   `json:"score"`
	RecommendationScore *float64                  `json:"recommendation_score,omitempty"`
	SimilarityScore     *float64                  `json:"similarity_score,omitempty"`
	HybridScore         *float64                  `json:"hybrid_score,omitempty"`
	Breakdown           *recommendation.Breakdown `json:"breakdown,omitempty"`
}

// ItemListResponse is a ranked list.
type ItemListResponse struct {
	Mode  string         `json:"mode,omitempty"`
	Items []ItemResponse `json:"items"`
}

// SimilarResponse lists cities similar to a reference.
type SimilarResponse struct {
	Reference string         `json:"reference"`
	Items     []ItemResponse `json:"items"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func cityToResponse(r city.Row) CityResponse {
	attrs := make(map[string]float64)
	for k, v := range r.Numerics() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			attrs[k] = v
		}
	}
	return CityResponse{
		City:        r.City,
		Country:     r.Country,
		Region:      r.Region,
		BudgetLevel: r.BudgetLevel,
		Description: r.Description,
		Attributes:  attrs,
	}
}

func citiesToResponse(rows []city.Row) []CityResponse {
	out := make([]CityResponse, len(rows))
	for i, r := range rows {
		out[i] = cityToResponse(r)
	}
	return out
}

func itemToResponse(it recommendation.Item) ItemResponse {
	r := it.Row()
	resp := ItemResponse{
		City:        r.City,
		Country:     r.Country,
		Region:      r.Region,
		BudgetLevel: r.BudgetLevel,
		Score:       it.Score(),
		Breakdown:   it.Breakdown(),
	}
	if v, ok := it.Recommendation(); ok {
		resp.RecommendationScore = &v
	}
	if v, ok := it.Similarity(); ok {
		resp.SimilarityScore = &v
	}
	if v, ok := it.Hybrid(); ok {
		resp.HybridScore = &v
	}
	return resp
}

func itemsToResponse(items []recommendation.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}

func projectionToResponse(p reduce.Projection) PCAResponse {
	return PCAResponse{
		Components:             p.ComponentNames(),
		ExplainedVarianceRatio: p.ExplainedVarianceRatio,
		CumulativeVariance:     p.Cumulative(),
		Features:               p.Features,
		Rows:                   p.Rows,
	}
}

func clusterToResponse(res cluster.Result) ClusterResponse {
	l := res.Labeled
	assignments := make([]Assignment, len(l.Rows))
	for i, r := range l.Rows {
		assignments[i] = Assignment{City: r.City, Country: r.Country, Region: r.Region, Cluster: l.Labels[i]}
	}
	return ClusterResponse{
		K:           res.K,
		Silhouette:  res.Silhouette,
		Inertia:     res.Inertia,
		Candidates:  res.Candidates,
		Components:  res.Components,
		Features:    res.Features,
		Assignments: assignments,
		Summaries:   cluster.Summarize(l),
	}
}
