// Package cluster groups cities with K-means over the standardized
// (optionally PCA-reduced) feature matrix.
package cluster

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cityscout/internal/domain"
	"github.com/kailas-cloud/cityscout/internal/domain/city"
	"github.com/kailas-cloud/cityscout/internal/domain/feature"
	"github.com/kailas-cloud/cityscout/internal/domain/kmeans"
	"github.com/kailas-cloud/cityscout/internal/logger"
	"github.com/kailas-cloud/cityscout/internal/metrics"
	"github.com/kailas-cloud/cityscout/internal/usecase/reduce"
)

// Search and PCA defaults.
const (
	// MaxSearchK caps the automatic K search.
	MaxSearchK = 10
	// RowsPerCluster bounds the automatic K search to rows/RowsPerCluster.
	RowsPerCluster = 10
	// MaxElbowK caps the elbow analysis.
	MaxElbowK            = 50
	fallbackK            = 2
	defaultPCAComponents = 10
	elbowPCAComponents   = 11
)

// Params controls a clustering run. Nil pointers select automatic values;
// a zero Seed uses the service seed.
type Params struct {
	K             *int   `json:"n_clusters,omitempty"`
	UsePCA        bool   `json:"use_pca,omitempty"`
	PCAComponents *int   `json:"pca_components,omitempty"`
	Seed          uint64 `json:"seed,omitempty"`
}

// Labeled is the source rows with one cluster label each.
type Labeled struct {
	Rows   []city.Row
	Labels []int
	K      int
}

// Members returns the row positions assigned to cluster id.
func (l Labeled) Members(id int) []int {
	var out []int
	for i, lbl := range l.Labels {
		if lbl == id {
			out = append(out, i)
		}
	}
	return out
}

// Candidate is one evaluated K of the automatic search.
type Candidate struct {
	K          int     `json:"k"`
	Silhouette float64 `json:"silhouette"`
}

// Result is the outcome of Cluster.
type Result struct {
	Labeled    Labeled
	K          int
	Silhouette float64
	Inertia    float64
	// Candidates is empty when K was supplied.
	Candidates []Candidate
	// Components is the PCA dimension used, 0 without PCA.
	Components int
	Features   []string
}

// ElbowPoint is the inertia of one K.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

// Service runs clustering analyses.
type Service struct {
	cfg domain.AnalysisConfig
}

// New creates a cluster service.
func New(cfg domain.AnalysisConfig) *Service {
	return &Service{cfg: cfg}
}

// Cluster labels every row of t with a cluster id in [0, K).
// Identical table, params and seed always produce identical labels.
func (s *Service) Cluster(ctx context.Context, t *city.Table, p Params) (res Result, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalysis("cluster", start, err) }()

	space, err := s.prepare(ctx, t, p, defaultPCAComponents)
	if err != nil {
		return Result{}, err
	}
	n := len(space.rows)
	cfg := s.kmeansConfig(p.Seed)
	log := logger.FromContext(ctx)

	var candidates []Candidate
	k := fallbackK
	if p.K != nil {
		k = *p.K
		if k < 2 || k > n {
			return Result{}, domain.NewParameterError("n_clusters", float64(k), 2, float64(n))
		}
	} else {
		k, candidates, err = searchK(space.rows, cfg)
		if err != nil {
			return Result{}, err
		}
		log.Debug("K search finished", zap.Int("k", k), zap.Any("candidates", candidates))
	}

	fit, err := kmeans.Fit(space.rows, k, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("fit kmeans: %w", err)
	}
	score := kmeans.Silhouette(space.rows, fit.Labels)
	metrics.ObserveClusterFit(k, score)
	log.Debug("K-means fitted",
		zap.Int("k", k),
		zap.Float64("silhouette", score),
		zap.Float64("inertia", fit.Inertia),
		zap.Int("iterations", fit.Iterations),
		zap.Int("pca_components", space.components),
	)

	return Result{
		Labeled:    Labeled{Rows: t.Rows(), Labels: fit.Labels, K: k},
		K:          k,
		Silhouette: score,
		Inertia:    fit.Inertia,
		Candidates: candidates,
		Components: space.components,
		Features:   space.features,
	}, nil
}

// Elbow returns the inertia for every k in 1..maxK, capped at the row count.
// A non-positive maxK uses the configured default. Nil PCAComponents with
// UsePCA selects 11 components, capped at the available count.
func (s *Service) Elbow(ctx context.Context, t *city.Table, p Params, maxK int) (points []ElbowPoint, err error) {
	start := time.Now()
	defer func() { metrics.ObserveAnalysis("elbow", start, err) }()

	if maxK <= 0 {
		maxK = s.cfg.ElbowMaxK
	}
	if maxK > MaxElbowK {
		return nil, domain.NewParameterError("max_k", float64(maxK), 1, MaxElbowK)
	}
	space, err := s.prepare(ctx, t, p, elbowPCAComponents)
	if err != nil {
		return nil, err
	}
	if maxK > len(space.rows) {
		maxK = len(space.rows)
	}
	cfg := s.kmeansConfig(p.Seed)
	points = make([]ElbowPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		fit, err := kmeans.Fit(space.rows, k, cfg)
		if err != nil {
			return nil, fmt.Errorf("fit kmeans k=%d: %w", k, err)
		}
		points = append(points, ElbowPoint{K: k, Inertia: fit.Inertia})
	}
	return points, nil
}

// searchK evaluates K = 2..min(10, n/10) and returns the first K with the
// highest silhouette. An empty range falls back to K = 2.
func searchK(x [][]float64, cfg kmeans.Config) (int, []Candidate, error) {
	hi := len(x) / RowsPerCluster
	if hi > MaxSearchK {
		hi = MaxSearchK
	}
	best, bestScore := fallbackK, -1.0
	var candidates []Candidate
	for k := 2; k <= hi; k++ {
		fit, err := kmeans.Fit(x, k, cfg)
		if err != nil {
			return 0, nil, fmt.Errorf("fit kmeans k=%d: %w", k, err)
		}
		score := kmeans.Silhouette(x, fit.Labels)
		candidates = append(candidates, Candidate{K: k, Silhouette: score})
		if score > bestScore {
			best, bestScore = k, score
		}
	}
	return best, candidates, nil
}

type featureSpace struct {
	rows       [][]float64
	features   []string
	components int
}

func (s *Service) prepare(ctx context.Context, t *city.Table, p Params, defaultComponents int) (featureSpace, error) {
	prep, err := feature.Prepare(t)
	if err != nil {
		return featureSpace{}, err
	}
	if prep.Len() < domain.MinAnalysisRows {
		return featureSpace{}, domain.NewInsufficientData(prep.Len(), domain.MinAnalysisRows)
	}
	if len(prep.Missing) > 0 {
		logger.FromContext(ctx).Warn("Feature columns missing from dataset", zap.Strings("columns", prep.Missing))
	}

	std := feature.Standardize(prep.Rows)
	space := featureSpace{rows: std, features: prep.Names}
	if !p.UsePCA {
		return space, nil
	}

	available := min(prep.Dim(), prep.Len())
	components := p.PCAComponents
	if components == nil {
		c := min(defaultComponents, available)
		if c == 0 {
			return space, nil
		}
		components = &c
	} else if *components < 1 || *components > available {
		return featureSpace{}, domain.NewParameterError("pca_components", float64(*components), 1, float64(available))
	}
	projected, _, err := reduce.Project(std, components, 1)
	if err != nil {
		return featureSpace{}, err
	}
	space.rows = projected
	space.components = *components
	return space, nil
}

func (s *Service) kmeansConfig(seed uint64) kmeans.Config {
	cfg := kmeans.Config{
		Restarts:      s.cfg.Restarts,
		MaxIterations: s.cfg.MaxIterations,
		Tolerance:     s.cfg.Tolerance,
		Seed:          s.cfg.Seed,
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = kmeans.DefaultSeed
	}
	return cfg
}
